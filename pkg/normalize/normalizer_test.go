package normalize

import (
	"context"
	"testing"
	"time"

	"github.com/Gobusters/ectologger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wayline/wayline/pkg/expressions"
	"github.com/wayline/wayline/pkg/models"
)

func testNormalizer() *Normalizer {
	logger := ectologger.NewEctoLogger(func(_ ectologger.EctoLogMessage) {})
	return NewNormalizer(expressions.NewEvaluator(), logger)
}

func flightResult(candidates ...map[string]any) *models.ProviderResult {
	return &models.ProviderResult{
		Category:   models.CategoryFlight,
		Candidates: candidates,
		ProviderID: "test-api",
	}
}

func TestFlightLegsPrimaryShape(t *testing.T) {
	n := testNormalizer()

	result := flightResult(map[string]any{
		"flight_id":     "FL-1",
		"airline":       "Delta",
		"flight_number": "DL100",
		"price":         420.5,
		"travel_class":  "business",
		"departure":     map[string]any{"airport": "JFK", "time": "2026-09-10T08:00:00Z", "terminal": "4"},
		"arrival":       map[string]any{"airport": "LAX", "time": "2026-09-10T11:30:00Z"},
		"duration_hours": 5.5,
		"stops":          1,
		"layovers":       []any{"ORD"},
	})

	legs, skipped := n.FlightLegs(context.Background(), result, models.DirectionOutbound)
	require.Len(t, legs, 1)
	assert.Equal(t, 0, skipped)

	leg := legs[0]
	assert.Equal(t, "FL-1", leg.ID)
	assert.Equal(t, "Delta", leg.Carrier)
	assert.Equal(t, "DL100", leg.FlightNo)
	assert.Equal(t, 420.5, leg.Price)
	assert.Equal(t, "business", leg.TravelClass)
	assert.Equal(t, "JFK", leg.Departure.Airport)
	assert.Equal(t, "4", leg.Departure.Terminal)
	assert.Equal(t, "LAX", leg.Arrival.Airport)
	assert.Equal(t, 5*time.Hour+30*time.Minute, leg.Duration)
	assert.Equal(t, 1, leg.Stops)
	assert.Equal(t, []string{"ORD"}, leg.Layovers)
	assert.Equal(t, models.DirectionOutbound, leg.Direction)
}

func TestFlightLegsAlternateShape(t *testing.T) {
	n := testNormalizer()

	// Flat provider shape using the alternate field names.
	result := flightResult(map[string]any{
		"id":             "alt-1",
		"carrier":        "United",
		"flight_no":      "UA22",
		"total_price":    310.0,
		"cabin_class":    "economy",
		"origin":         "SFO",
		"departure_time": "2026-09-10T09:00:00Z",
		"destination":    "SEA",
		"arrival_time":   "2026-09-10T11:00:00Z",
	})

	legs, skipped := n.FlightLegs(context.Background(), result, models.DirectionReturn)
	require.Len(t, legs, 1)
	assert.Equal(t, 0, skipped)

	leg := legs[0]
	assert.Equal(t, "alt-1", leg.ID)
	assert.Equal(t, "United", leg.Carrier)
	assert.Equal(t, 310.0, leg.Price)
	assert.Equal(t, "SFO", leg.Departure.Airport)
	// No duration_hours field, so duration falls back to arrival minus departure.
	assert.Equal(t, 2*time.Hour, leg.Duration)
	assert.Equal(t, models.DirectionReturn, leg.Direction)
}

func TestFlightLegsSkipsMalformed(t *testing.T) {
	n := testNormalizer()

	valid := map[string]any{
		"id":             "ok",
		"price":          100.0,
		"origin":         "JFK",
		"destination":    "LAX",
		"departure_time": "2026-09-10T08:00:00Z",
		"arrival_time":   "2026-09-10T14:00:00Z",
	}
	result := flightResult(
		valid,
		map[string]any{"id": "no-price", "origin": "JFK", "destination": "LAX", "departure_time": "2026-09-10T08:00:00Z", "arrival_time": "2026-09-10T14:00:00Z"},
		map[string]any{"id": "zero-price", "price": 0.0, "origin": "JFK", "destination": "LAX", "departure_time": "2026-09-10T08:00:00Z", "arrival_time": "2026-09-10T14:00:00Z"},
		map[string]any{"id": "no-airports", "price": 100.0, "departure_time": "2026-09-10T08:00:00Z", "arrival_time": "2026-09-10T14:00:00Z"},
		map[string]any{"id": "bad-time", "price": 100.0, "origin": "JFK", "destination": "LAX", "departure_time": "soon", "arrival_time": "2026-09-10T14:00:00Z"},
	)

	legs, skipped := n.FlightLegs(context.Background(), result, models.DirectionOutbound)
	require.Len(t, legs, 1)
	assert.Equal(t, "ok", legs[0].ID)
	assert.Equal(t, 4, skipped)
}

func TestFlightLegsDefaultsClassAndMintsID(t *testing.T) {
	n := testNormalizer()

	result := flightResult(map[string]any{
		"price":          100.0,
		"origin":         "JFK",
		"destination":    "LAX",
		"departure_time": "2026-09-10T08:00:00Z",
		"arrival_time":   "2026-09-10T14:00:00Z",
	})

	legs, _ := n.FlightLegs(context.Background(), result, models.DirectionOutbound)
	require.Len(t, legs, 1)
	assert.Equal(t, "economy", legs[0].TravelClass)
	assert.NotEmpty(t, legs[0].ID)
}

func TestLodgingDerivesMissingCosts(t *testing.T) {
	n := testNormalizer()

	result := &models.ProviderResult{
		Category:   models.CategoryLodging,
		ProviderID: "test-api",
		Candidates: []map[string]any{
			{"hotel_id": "h1", "name": "Nightly Only", "price_per_night": 120.0, "rating": 4.2},
			{"hotel_id": "h2", "name": "Total Only", "total_price": 500.0},
			{"name": "No Cost"},
		},
	}

	lodgings, skipped := n.Lodging(context.Background(), result, 5)
	require.Len(t, lodgings, 2)
	assert.Equal(t, 1, skipped)

	assert.Equal(t, 600.0, lodgings[0].TotalCost)
	assert.Equal(t, 120.0, lodgings[0].NightlyRate)
	assert.Equal(t, 4.2, lodgings[0].Rating)

	assert.Equal(t, 500.0, lodgings[1].TotalCost)
	assert.Equal(t, 100.0, lodgings[1].NightlyRate)
}

func TestActivitiesRequireNameAndDate(t *testing.T) {
	n := testNormalizer()

	result := &models.ProviderResult{
		Category:   models.CategoryActivities,
		ProviderID: "test-api",
		Candidates: []map[string]any{
			{"activity_id": "a1", "name": "Museum Tour", "date": "2026-09-11", "price": 25.0, "rating": 4.5, "tags": []any{"indoor", "culture"}},
			{"activity_id": "a2", "date": "2026-09-11"},
			{"activity_id": "a3", "name": "No Date"},
		},
	}

	activities, skipped := n.Activities(context.Background(), result)
	require.Len(t, activities, 1)
	assert.Equal(t, 2, skipped)

	a := activities[0]
	assert.Equal(t, "Museum Tour", a.Name)
	assert.Equal(t, 25.0, a.EntryFee)
	assert.Equal(t, []string{"indoor", "culture"}, a.Tags)
	assert.Equal(t, time.Date(2026, 9, 11, 0, 0, 0, 0, time.UTC), a.Date)
}

func TestWeatherNormalization(t *testing.T) {
	n := testNormalizer()

	result := &models.ProviderResult{
		Category:   models.CategoryWeather,
		ProviderID: "test-api",
		Candidates: []map[string]any{
			{"date": "2026-09-11", "condition": "rainy", "temp_high": 18.0, "temp_low": 11.0, "precipitation_chance": 80},
			{"condition": "sunny"},
		},
	}

	days, skipped := n.Weather(context.Background(), result)
	require.Len(t, days, 1)
	assert.Equal(t, 1, skipped)
	assert.Equal(t, "rainy", days[0].Condition)
	assert.Equal(t, 18.0, days[0].TempHighC)
	assert.Equal(t, 80, days[0].PrecipChance)
}
