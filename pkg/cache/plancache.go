// Package cache keys built itineraries by the trip parameters that produced
// them, so identical requests inside the TTL window skip the provider fan-out.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/Gobusters/ectologger"

	"github.com/wayline/wayline/pkg/metrics"
	"github.com/wayline/wayline/pkg/models"
	"github.com/wayline/wayline/pkg/redis"
)

// PlanCache stores consolidated itineraries in Redis. A nil *PlanCache is a
// disabled cache: every lookup misses and stores are dropped.
type PlanCache struct {
	client *redis.Client
	ttl    time.Duration
	logger ectologger.Logger
}

// NewPlanCache creates a plan cache with the given TTL
func NewPlanCache(client *redis.Client, ttl time.Duration, logger ectologger.Logger) *PlanCache {
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	return &PlanCache{
		client: client,
		ttl:    ttl,
		logger: logger,
	}
}

// CacheKey derives the cache key from every request field that changes the
// plan. The request ID is deliberately excluded so retried requests hit.
func CacheKey(req models.TripRequest) string {
	h := sha256.New()
	fmt.Fprintf(h, "%s|%s|%s|%s|%d|%.2f|%s|%t|%s",
		req.Origin, req.Destination,
		req.StartDate.Format("2006-01-02"), req.EndDate.Format("2006-01-02"),
		req.PassengerCount, req.TotalBudget, req.ComfortTier, req.OneWay,
		strings.Join(req.Preferences, ","))
	return "wayline:plan:" + hex.EncodeToString(h.Sum(nil))[:32]
}

// Get returns the cached itinerary for a request, nil on miss.
func (c *PlanCache) Get(ctx context.Context, req models.TripRequest) *models.ConsolidatedItinerary {
	if c == nil || c.client == nil {
		return nil
	}

	raw, err := c.client.Get(ctx, CacheKey(req))
	if err != nil {
		if !redis.IsNil(err) {
			c.logger.WithContext(ctx).WithError(err).Warn("Plan cache lookup failed")
		}
		metrics.CacheHitsTotal.WithLabelValues("miss").Inc()
		return nil
	}

	var itinerary models.ConsolidatedItinerary
	if err := json.Unmarshal([]byte(raw), &itinerary); err != nil {
		c.logger.WithContext(ctx).WithError(err).Warn("Dropping undecodable cached plan")
		metrics.CacheHitsTotal.WithLabelValues("miss").Inc()
		return nil
	}

	metrics.CacheHitsTotal.WithLabelValues("hit").Inc()
	return &itinerary
}

// Set stores an itinerary. Degraded results are not cached: a provider that
// recovers within the TTL should be consulted again.
func (c *PlanCache) Set(ctx context.Context, req models.TripRequest, itinerary *models.ConsolidatedItinerary) {
	if c == nil || c.client == nil || itinerary == nil {
		return
	}
	if !itinerary.Viable || len(itinerary.Provenance.ProvidersFailed) > 0 || len(itinerary.Provenance.FallbackCategories) > 0 {
		return
	}

	data, err := json.Marshal(itinerary)
	if err != nil {
		c.logger.WithContext(ctx).WithError(err).Warn("Failed to encode plan for cache")
		return
	}

	if err := c.client.Set(ctx, CacheKey(req), data, c.ttl); err != nil {
		c.logger.WithContext(ctx).WithError(err).Warn("Plan cache store failed")
	}
}
