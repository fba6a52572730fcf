package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/wayline/wayline/pkg/models"
)

func cacheRequest() models.TripRequest {
	start := time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC)
	return models.TripRequest{
		ID:             "req-1",
		Origin:         "JFK",
		Destination:    "LAX",
		StartDate:      start,
		EndDate:        start.AddDate(0, 0, 4),
		PassengerCount: 2,
		TotalBudget:    3000,
		ComfortTier:    "standard",
		Preferences:    []string{"pool"},
	}
}

func TestCacheKeyIgnoresRequestID(t *testing.T) {
	a := cacheRequest()
	b := cacheRequest()
	b.ID = "req-2"

	// Retried requests with fresh IDs must hit the same entry.
	assert.Equal(t, CacheKey(a), CacheKey(b))
}

func TestCacheKeyVariesWithPlanInputs(t *testing.T) {
	base := cacheRequest()

	dest := cacheRequest()
	dest.Destination = "SFO"
	assert.NotEqual(t, CacheKey(base), CacheKey(dest))

	budget := cacheRequest()
	budget.TotalBudget = 3001
	assert.NotEqual(t, CacheKey(base), CacheKey(budget))

	tier := cacheRequest()
	tier.ComfortTier = "luxury"
	assert.NotEqual(t, CacheKey(base), CacheKey(tier))

	oneWay := cacheRequest()
	oneWay.OneWay = true
	assert.NotEqual(t, CacheKey(base), CacheKey(oneWay))

	prefs := cacheRequest()
	prefs.Preferences = []string{"spa"}
	assert.NotEqual(t, CacheKey(base), CacheKey(prefs))
}

func TestCacheKeyPrefix(t *testing.T) {
	assert.Contains(t, CacheKey(cacheRequest()), "wayline:plan:")
}

func TestNilCacheIsDisabled(t *testing.T) {
	var c *PlanCache

	assert.Nil(t, c.Get(context.Background(), cacheRequest()))

	// Stores on a disabled cache are dropped, not a panic.
	c.Set(context.Background(), cacheRequest(), &models.ConsolidatedItinerary{Viable: true})
}
