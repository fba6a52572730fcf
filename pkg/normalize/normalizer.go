// Package normalize maps raw provider payloads into typed candidate records.
// Normalization is pure and lossless: recognized fields pass through
// verbatim, malformed records are skipped and counted, never repaired.
package normalize

import (
	"context"
	"time"

	"github.com/Gobusters/ectologger"
	"github.com/google/uuid"

	"github.com/wayline/wayline/pkg/expressions"
	"github.com/wayline/wayline/pkg/metrics"
	"github.com/wayline/wayline/pkg/models"
)

const dateFormat = "2006-01-02"

// Normalizer converts ProviderResults into typed records.
type Normalizer struct {
	evaluator *expressions.Evaluator
	logger    ectologger.Logger
}

// NewNormalizer creates a new normalizer
func NewNormalizer(evaluator *expressions.Evaluator, logger ectologger.Logger) *Normalizer {
	return &Normalizer{
		evaluator: evaluator,
		logger:    logger,
	}
}

// FlightLegs normalizes raw flight candidates into one-way legs.
// defaultDirection applies to records that carry no direction field, which is
// the common case: providers answer a directional query without echoing it.
func (n *Normalizer) FlightLegs(ctx context.Context, result *models.ProviderResult, defaultDirection models.Direction) ([]models.FlightLeg, int) {
	profile := defaultFlightProfile

	var legs []models.FlightLeg
	skipped := 0

	for _, raw := range result.Candidates {
		leg, ok := n.flightLeg(raw, profile, defaultDirection)
		if !ok {
			skipped++
			continue
		}
		legs = append(legs, leg)
	}

	n.recordSkips(ctx, models.CategoryFlight, result.ProviderID, skipped)
	return legs, skipped
}

func (n *Normalizer) flightLeg(raw map[string]any, p flightProfile, defaultDirection models.Direction) (models.FlightLeg, bool) {
	var leg models.FlightLeg

	price, err := n.evaluator.EvaluateFloat(p.Price, raw)
	if err != nil || price <= 0 {
		return leg, false
	}

	depAirport, _ := n.evaluator.EvaluateString(p.DepAirport, raw)
	arrAirport, _ := n.evaluator.EvaluateString(p.ArrAirport, raw)
	if depAirport == "" || arrAirport == "" {
		return leg, false
	}

	depTime, ok := n.timeField(p.DepTime, raw)
	if !ok {
		return leg, false
	}
	arrTime, ok := n.timeField(p.ArrTime, raw)
	if !ok {
		return leg, false
	}

	leg.ID = n.idField(p.ID, raw)
	leg.Carrier, _ = n.evaluator.EvaluateString(p.Carrier, raw)
	leg.FlightNo, _ = n.evaluator.EvaluateString(p.FlightNo, raw)
	leg.Price = price
	leg.TravelClass, _ = n.evaluator.EvaluateString(p.TravelClass, raw)
	if leg.TravelClass == "" {
		leg.TravelClass = "economy"
	}

	leg.Departure = models.FlightEndpoint{Airport: depAirport, Time: depTime}
	leg.Departure.Terminal, _ = n.evaluator.EvaluateString(p.DepTerminal, raw)
	leg.Arrival = models.FlightEndpoint{Airport: arrAirport, Time: arrTime}
	leg.Arrival.Terminal, _ = n.evaluator.EvaluateString(p.ArrTerminal, raw)

	hours, _ := n.evaluator.EvaluateFloat(p.Duration, raw)
	if hours > 0 {
		leg.Duration = time.Duration(hours * float64(time.Hour))
	} else {
		leg.Duration = arrTime.Sub(depTime)
	}

	stops, _ := n.evaluator.EvaluateInt(p.Stops, raw)
	leg.Stops = stops
	leg.Layovers, _ = n.evaluator.EvaluateStringSlice(p.Layovers, raw)
	leg.LogoURL, _ = n.evaluator.EvaluateString(p.LogoURL, raw)

	direction, _ := n.evaluator.EvaluateString(p.Direction, raw)
	switch models.Direction(direction) {
	case models.DirectionOutbound, models.DirectionReturn:
		leg.Direction = models.Direction(direction)
	default:
		leg.Direction = defaultDirection
	}

	return leg, true
}

// Lodging normalizes raw lodging candidates. Records missing a name or a
// positive cost are skipped.
func (n *Normalizer) Lodging(ctx context.Context, result *models.ProviderResult, nights int) ([]models.LodgingCandidate, int) {
	profile := defaultLodgingProfile
	if nights < 1 {
		nights = 1
	}

	var lodgings []models.LodgingCandidate
	skipped := 0

	for _, raw := range result.Candidates {
		name, _ := n.evaluator.EvaluateString(profile.Name, raw)
		nightly, err := n.evaluator.EvaluateFloat(profile.NightlyRate, raw)
		total, terr := n.evaluator.EvaluateFloat(profile.TotalCost, raw)
		if name == "" || err != nil || terr != nil || (nightly <= 0 && total <= 0) {
			skipped++
			continue
		}

		if total <= 0 {
			total = nightly * float64(nights)
		}
		if nightly <= 0 {
			nightly = total / float64(nights)
		}

		l := models.LodgingCandidate{
			ID:          n.idField(profile.ID, raw),
			Name:        name,
			NightlyRate: nightly,
			TotalCost:   total,
		}
		l.Rating, _ = n.evaluator.EvaluateFloat(profile.Rating, raw)
		l.ReviewCount, _ = n.evaluator.EvaluateInt(profile.ReviewCount, raw)
		l.Amenities, _ = n.evaluator.EvaluateStringSlice(profile.Amenities, raw)
		l.RoomType, _ = n.evaluator.EvaluateString(profile.RoomType, raw)
		l.ImageURL, _ = n.evaluator.EvaluateString(profile.ImageURL, raw)
		l.Location.Address, _ = n.evaluator.EvaluateString(profile.Address, raw)
		l.Location.City, _ = n.evaluator.EvaluateString(profile.City, raw)
		l.Location.DistanceToCenter, _ = n.evaluator.EvaluateFloat(profile.Distance, raw)
		l.Location.Lat, _ = n.evaluator.EvaluateFloat(profile.Lat, raw)
		l.Location.Lng, _ = n.evaluator.EvaluateFloat(profile.Lng, raw)

		lodgings = append(lodgings, l)
	}

	n.recordSkips(ctx, models.CategoryLodging, result.ProviderID, skipped)
	return lodgings, skipped
}

// Activities normalizes raw activity candidates. Records missing a name or a
// parseable date are skipped.
func (n *Normalizer) Activities(ctx context.Context, result *models.ProviderResult) ([]models.ActivityCandidate, int) {
	profile := defaultActivityProfile

	var activities []models.ActivityCandidate
	skipped := 0

	for _, raw := range result.Candidates {
		name, _ := n.evaluator.EvaluateString(profile.Name, raw)
		date, ok := n.timeField(profile.Date, raw)
		if name == "" || !ok {
			skipped++
			continue
		}

		a := models.ActivityCandidate{
			ID:   n.idField(profile.ID, raw),
			Name: name,
			Date: date,
		}
		a.Kind, _ = n.evaluator.EvaluateString(profile.Kind, raw)
		a.Tags, _ = n.evaluator.EvaluateStringSlice(profile.Tags, raw)
		a.Description, _ = n.evaluator.EvaluateString(profile.Description, raw)
		a.EntryFee, _ = n.evaluator.EvaluateFloat(profile.EntryFee, raw)
		a.Rating, _ = n.evaluator.EvaluateFloat(profile.Rating, raw)
		a.DurationHours, _ = n.evaluator.EvaluateFloat(profile.Duration, raw)
		a.Address, _ = n.evaluator.EvaluateString(profile.Address, raw)
		a.Lat, _ = n.evaluator.EvaluateFloat(profile.Lat, raw)
		a.Lng, _ = n.evaluator.EvaluateFloat(profile.Lng, raw)

		activities = append(activities, a)
	}

	n.recordSkips(ctx, models.CategoryActivities, result.ProviderID, skipped)
	return activities, skipped
}

// Weather normalizes forecast records. Records without a parseable date are
// skipped.
func (n *Normalizer) Weather(ctx context.Context, result *models.ProviderResult) ([]models.WeatherDay, int) {
	profile := defaultWeatherProfile

	var days []models.WeatherDay
	skipped := 0

	for _, raw := range result.Candidates {
		date, ok := n.timeField(profile.Date, raw)
		if !ok {
			skipped++
			continue
		}

		w := models.WeatherDay{Date: date}
		w.Condition, _ = n.evaluator.EvaluateString(profile.Condition, raw)
		w.TempHighC, _ = n.evaluator.EvaluateFloat(profile.TempHigh, raw)
		w.TempLowC, _ = n.evaluator.EvaluateFloat(profile.TempLow, raw)
		w.Humidity, _ = n.evaluator.EvaluateInt(profile.Humidity, raw)
		w.PrecipChance, _ = n.evaluator.EvaluateInt(profile.PrecipChance, raw)
		w.WindSpeedKmh, _ = n.evaluator.EvaluateFloat(profile.WindSpeed, raw)
		w.ProviderNotes, _ = n.evaluator.EvaluateString(profile.Notes, raw)

		days = append(days, w)
	}

	n.recordSkips(ctx, models.CategoryWeather, result.ProviderID, skipped)
	return days, skipped
}

// idField resolves the record id, minting one when the provider sent none.
func (n *Normalizer) idField(expr string, raw map[string]any) string {
	id, _ := n.evaluator.EvaluateString(expr, raw)
	if id == "" {
		return uuid.NewString()
	}
	return id
}

// timeField parses a timestamp or bare date field.
func (n *Normalizer) timeField(expr string, raw map[string]any) (time.Time, bool) {
	s, err := n.evaluator.EvaluateString(expr, raw)
	if err != nil || s == "" {
		return time.Time{}, false
	}

	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, true
	}
	if t, err := time.Parse(dateFormat, s); err == nil {
		return t, true
	}
	return time.Time{}, false
}

func (n *Normalizer) recordSkips(ctx context.Context, cat models.Category, provider string, skipped int) {
	if skipped == 0 {
		return
	}
	metrics.SkippedRecordsTotal.WithLabelValues(string(cat)).Add(float64(skipped))
	n.logger.WithContext(ctx).WithFields(map[string]any{
		"category": cat,
		"provider": provider,
		"skipped":  skipped,
	}).Warnf("Skipped %d malformed %s records", skipped, cat)
}
