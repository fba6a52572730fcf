package providers

import (
	"context"
	"fmt"
	"hash/fnv"
	"math/rand"
	"time"

	"github.com/Gobusters/ectologger"

	"github.com/wayline/wayline/pkg/models"
)

var (
	syntheticCarriers = []string{"United", "Delta", "American Airlines", "Emirates", "Singapore Airlines", "Lufthansa"}

	syntheticLodgingNames = []string{
		"Paradise Resort", "Grand Palace Hotel", "Sunset Villa",
		"Coastal Retreat", "City Center Hotel", "Luxury Suites",
	}

	syntheticRoomTypes = []string{"Resort", "Hotel", "Boutique Hotel", "Villa", "Hostel"}

	syntheticAmenities = []string{
		"wifi", "pool", "spa", "gym", "restaurant", "bar", "parking",
		"airport_shuttle", "pet_friendly", "breakfast",
	}

	syntheticActivityKinds = []string{"museum", "outdoor", "food_tour", "landmark", "nightlife", "shopping"}

	syntheticConditions = []string{"Sunny", "Partly Cloudy", "Cloudy", "Rainy", "Stormy", "Clear"}
)

// SyntheticProvider generates plausible candidates locally. It substitutes
// for an upstream provider when the real one is down or unconfigured; output
// flows through the same normalizer path as real responses.
type SyntheticProvider struct {
	category models.Category
	logger   ectologger.Logger
}

// NewSyntheticProvider creates a synthetic provider for one category
func NewSyntheticProvider(cat models.Category, logger ectologger.Logger) *SyntheticProvider {
	return &SyntheticProvider{category: cat, logger: logger}
}

// ID implements Client.
func (p *SyntheticProvider) ID() string { return "synthetic-" + string(p.category) }

// Category implements Client.
func (p *SyntheticProvider) Category() models.Category { return p.category }

// Search implements Client. Generation is deterministic for a given criteria
// so repeated calls for the same trip agree.
func (p *SyntheticProvider) Search(ctx context.Context, criteria models.SearchCriteria) (*models.ProviderResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, NewTransientError(p.ID(), p.category, err)
	}

	rng := rand.New(rand.NewSource(seed(criteria)))

	var candidates []map[string]any
	switch p.category {
	case models.CategoryFlight:
		candidates = p.flights(rng, criteria)
	case models.CategoryLodging:
		candidates = p.lodging(rng, criteria)
	case models.CategoryActivities:
		candidates = p.activities(rng, criteria)
	case models.CategoryWeather:
		candidates = p.weather(rng, criteria)
	default:
		return nil, NewPermanentError(p.ID(), p.category, fmt.Errorf("no synthetic generator for category %s", p.category))
	}

	p.logger.WithContext(ctx).WithFields(map[string]any{
		"provider": p.ID(),
		"category": p.category,
		"count":    len(candidates),
	}).Debug("generated synthetic candidates")

	return &models.ProviderResult{
		Category:   p.category,
		Candidates: candidates,
		ProviderID: p.ID(),
		FetchedAt:  time.Now().UTC(),
		Synthetic:  true,
	}, nil
}

func seed(criteria models.SearchCriteria) int64 {
	h := fnv.New64a()
	fmt.Fprintf(h, "%s|%s|%s|%s|%s",
		criteria.Category, criteria.Origin, criteria.Destination,
		criteria.Date.Format(dateFormat), criteria.Direction)
	return int64(h.Sum64())
}

func (p *SyntheticProvider) flights(rng *rand.Rand, criteria models.SearchCriteria) []map[string]any {
	classes := []string{"economy", "economy", "premium_economy", "business", "first"}

	candidates := make([]map[string]any, 0, 8)
	for i := 0; i < 8; i++ {
		carrier := syntheticCarriers[rng.Intn(len(syntheticCarriers))]
		durationHours := 2 + rng.Intn(12)
		stops := rng.Intn(3)
		class := classes[rng.Intn(len(classes))]

		price := float64(150 + rng.Intn(1200))
		price *= 1 + 0.6*float64(models.TravelClassRank(class))

		depart := criteria.Date.Add(time.Duration(6+rng.Intn(14)) * time.Hour)
		arrive := depart.Add(time.Duration(durationHours) * time.Hour)

		var layovers []any
		for j := 0; j < stops; j++ {
			layovers = append(layovers, fmt.Sprintf("HUB%d", rng.Intn(9)+1))
		}

		candidates = append(candidates, map[string]any{
			"flight_id":     fmt.Sprintf("FL%04d", rng.Intn(9000)+1000),
			"airline":       carrier,
			"flight_number": fmt.Sprintf("%s%d", carrier[:2], rng.Intn(900)+100),
			"price":         price,
			"travel_class":  class,
			"departure": map[string]any{
				"airport":  criteria.Origin,
				"time":     depart.Format(time.RFC3339),
				"terminal": fmt.Sprintf("T%d", rng.Intn(4)+1),
			},
			"arrival": map[string]any{
				"airport":  criteria.Destination,
				"time":     arrive.Format(time.RFC3339),
				"terminal": fmt.Sprintf("T%d", rng.Intn(4)+1),
			},
			"duration_hours": float64(durationHours),
			"stops":          float64(stops),
			"layovers":       layovers,
		})
	}

	return candidates
}

func (p *SyntheticProvider) lodging(rng *rand.Rand, criteria models.SearchCriteria) []map[string]any {
	nights := 1
	if !criteria.EndDate.IsZero() {
		if n := int(criteria.EndDate.Sub(criteria.Date).Hours() / 24); n > 1 {
			nights = n
		}
	}

	candidates := make([]map[string]any, 0, 6)
	for i := 0; i < 6; i++ {
		rating := 3.5 + rng.Float64()*1.5
		nightly := float64(80+rng.Intn(420)) * (rating / 3.5)

		amenities := make([]any, 0, 5)
		for _, idx := range rng.Perm(len(syntheticAmenities))[:4+rng.Intn(4)] {
			amenities = append(amenities, syntheticAmenities[idx])
		}

		candidates = append(candidates, map[string]any{
			"hotel_id":        fmt.Sprintf("HTL%04d", rng.Intn(9000)+1000),
			"name":            syntheticLodgingNames[rng.Intn(len(syntheticLodgingNames))],
			"type":            syntheticRoomTypes[rng.Intn(len(syntheticRoomTypes))],
			"price_per_night": nightly,
			"total_price":     nightly * float64(nights),
			"rating":          rating,
			"review_count":    float64(100 + rng.Intn(4900)),
			"amenities":       amenities,
			"location": map[string]any{
				"address":            fmt.Sprintf("%d %s Street", rng.Intn(999)+1, criteria.Destination),
				"city":               criteria.Destination,
				"distance_to_center": 0.5 + rng.Float64()*9.5,
			},
		})
	}

	return candidates
}

func (p *SyntheticProvider) activities(rng *rand.Rand, criteria models.SearchCriteria) []map[string]any {
	dates := tripDates(criteria)

	count := 3 * len(dates)
	if count > 18 {
		count = 18
	}

	candidates := make([]map[string]any, 0, count)
	for i := 0; i < count; i++ {
		kind := syntheticActivityKinds[rng.Intn(len(syntheticActivityKinds))]
		date := dates[rng.Intn(len(dates))]

		candidates = append(candidates, map[string]any{
			"activity_id":    fmt.Sprintf("ACT%04d", rng.Intn(9000)+1000),
			"name":           fmt.Sprintf("%s %s experience", criteria.Destination, kind),
			"category":       kind,
			"tags":           []any{kind},
			"description":    fmt.Sprintf("A popular %s option in %s", kind, criteria.Destination),
			"price":          float64(rng.Intn(120)),
			"rating":         3.0 + rng.Float64()*2.0,
			"duration_hours": 1 + rng.Float64()*4,
			"date":           date.Format(dateFormat),
			"address":        fmt.Sprintf("%d %s Avenue", rng.Intn(400)+1, criteria.Destination),
		})
	}

	return candidates
}

func (p *SyntheticProvider) weather(rng *rand.Rand, criteria models.SearchCriteria) []map[string]any {
	candidates := make([]map[string]any, 0, 8)
	for _, date := range tripDates(criteria) {
		// Crude seasonal baseline, warmer mid-year.
		month := float64(date.Month())
		base := 15 + 10*(1-abs(month-7)/7)

		candidates = append(candidates, map[string]any{
			"date":                 date.Format(dateFormat),
			"condition":            syntheticConditions[rng.Intn(len(syntheticConditions))],
			"temp_high":            base + 5 + rng.Float64()*5,
			"temp_low":             base - rng.Float64()*5,
			"humidity":             float64(40 + rng.Intn(50)),
			"wind_speed":           5 + rng.Float64()*25,
			"precipitation_chance": float64(rng.Intn(100)),
		})
	}
	return candidates
}

func tripDates(criteria models.SearchCriteria) []time.Time {
	dates := []time.Time{criteria.Date}
	if criteria.EndDate.IsZero() {
		return dates
	}
	for d := criteria.Date.AddDate(0, 0, 1); !d.After(criteria.EndDate); d = d.AddDate(0, 0, 1) {
		dates = append(dates, d)
	}
	return dates
}

func abs(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}
