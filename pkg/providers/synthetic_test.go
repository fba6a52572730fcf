package providers

import (
	"context"
	"testing"
	"time"

	"github.com/Gobusters/ectologger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wayline/wayline/pkg/models"
)

func testLogger() ectologger.Logger {
	return ectologger.NewEctoLogger(func(_ ectologger.EctoLogMessage) {})
}

func syntheticCriteria(cat models.Category) models.SearchCriteria {
	return models.SearchCriteria{
		Category:    cat,
		Origin:      "JFK",
		Destination: "LAX",
		Date:        time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC),
		EndDate:     time.Date(2026, 9, 14, 0, 0, 0, 0, time.UTC),
		Direction:   models.DirectionOutbound,
		Passengers:  2,
	}
}

func TestSyntheticFlightsDeterministic(t *testing.T) {
	p := NewSyntheticProvider(models.CategoryFlight, testLogger())
	criteria := syntheticCriteria(models.CategoryFlight)

	first, err := p.Search(context.Background(), criteria)
	require.NoError(t, err)
	second, err := p.Search(context.Background(), criteria)
	require.NoError(t, err)

	// Same criteria, same candidates.
	require.Len(t, first.Candidates, 8)
	assert.Equal(t, first.Candidates, second.Candidates)
	assert.True(t, first.Synthetic)
	assert.Equal(t, "synthetic-flight", first.ProviderID)
}

func TestSyntheticVariesWithCriteria(t *testing.T) {
	p := NewSyntheticProvider(models.CategoryFlight, testLogger())

	base, err := p.Search(context.Background(), syntheticCriteria(models.CategoryFlight))
	require.NoError(t, err)

	other := syntheticCriteria(models.CategoryFlight)
	other.Destination = "SFO"
	changed, err := p.Search(context.Background(), other)
	require.NoError(t, err)

	assert.NotEqual(t, base.Candidates, changed.Candidates)
}

func TestSyntheticLodgingShapes(t *testing.T) {
	p := NewSyntheticProvider(models.CategoryLodging, testLogger())

	result, err := p.Search(context.Background(), syntheticCriteria(models.CategoryLodging))
	require.NoError(t, err)
	require.Len(t, result.Candidates, 6)

	for _, c := range result.Candidates {
		nightly := c["price_per_night"].(float64)
		total := c["total_price"].(float64)
		assert.InDelta(t, nightly*4, total, 0.01)

		rating := c["rating"].(float64)
		assert.GreaterOrEqual(t, rating, 3.5)
		assert.LessOrEqual(t, rating, 5.0)
	}
}

func TestSyntheticActivitiesCoverTripDates(t *testing.T) {
	p := NewSyntheticProvider(models.CategoryActivities, testLogger())

	result, err := p.Search(context.Background(), syntheticCriteria(models.CategoryActivities))
	require.NoError(t, err)

	// Three per trip date, five dates inclusive.
	assert.Len(t, result.Candidates, 15)
	for _, c := range result.Candidates {
		assert.NotEmpty(t, c["name"])
		assert.NotEmpty(t, c["date"])
	}
}

func TestSyntheticWeatherOnePerDate(t *testing.T) {
	p := NewSyntheticProvider(models.CategoryWeather, testLogger())

	result, err := p.Search(context.Background(), syntheticCriteria(models.CategoryWeather))
	require.NoError(t, err)
	require.Len(t, result.Candidates, 5)

	seen := make(map[string]bool)
	for _, c := range result.Candidates {
		date := c["date"].(string)
		assert.False(t, seen[date])
		seen[date] = true
	}
}

func TestSyntheticUnknownCategory(t *testing.T) {
	p := NewSyntheticProvider(models.CategoryFood, testLogger())

	_, err := p.Search(context.Background(), syntheticCriteria(models.CategoryFood))
	require.Error(t, err)
	assert.False(t, IsTransient(err))
}

func TestSyntheticCancelledContext(t *testing.T) {
	p := NewSyntheticProvider(models.CategoryFlight, testLogger())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := p.Search(ctx, syntheticCriteria(models.CategoryFlight))
	assert.Error(t, err)
}
