package pairing

import (
	"context"
	"testing"
	"time"

	"github.com/Gobusters/ectologger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wayline/wayline/pkg/expressions"
	"github.com/wayline/wayline/pkg/fetch"
	"github.com/wayline/wayline/pkg/models"
	"github.com/wayline/wayline/pkg/normalize"
	"github.com/wayline/wayline/pkg/providers"
)

func testLogger() ectologger.Logger {
	return ectologger.NewEctoLogger(func(_ ectologger.EctoLogMessage) {})
}

// stubProvider answers every search with canned candidates. Used to serve the
// reverse one-way fetch.
type stubProvider struct {
	candidates []map[string]any
	searches   int
}

func (s *stubProvider) ID() string                { return "stub" }
func (s *stubProvider) Category() models.Category { return models.CategoryFlight }

func (s *stubProvider) Search(ctx context.Context, criteria models.SearchCriteria) (*models.ProviderResult, error) {
	s.searches++
	return &models.ProviderResult{
		Category:   models.CategoryFlight,
		Candidates: s.candidates,
		ProviderID: "stub",
	}, nil
}

func newTestPairer(reverse *stubProvider) *Pairer {
	logger := testLogger()
	normalizer := normalize.NewNormalizer(expressions.NewEvaluator(), logger)

	var registry *providers.Registry
	if reverse != nil {
		registry = providers.NewRegistry(reverse)
	} else {
		registry = providers.NewRegistry()
	}
	fetcher := fetch.NewFetcher(registry, fetch.Config{}, logger)

	return NewPairer(fetcher, normalizer, DefaultConfig(), logger)
}

func rawLeg(id, origin, dest, departure string, price float64, overrides map[string]any) map[string]any {
	dep, err := time.Parse(time.RFC3339, departure)
	if err != nil {
		panic(err)
	}

	raw := map[string]any{
		"id":             id,
		"price":          price,
		"origin":         origin,
		"destination":    dest,
		"departure_time": dep.Format(time.RFC3339),
		"arrival_time":   dep.Add(6 * time.Hour).Format(time.RFC3339),
		"duration_hours": 6.0,
	}
	for k, v := range overrides {
		raw[k] = v
	}
	return raw
}

func roundTripCriteria() models.SearchCriteria {
	return models.SearchCriteria{
		Category:    models.CategoryFlight,
		Origin:      "JFK",
		Destination: "LAX",
		Date:        time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC),
		EndDate:     time.Date(2026, 9, 14, 0, 0, 0, 0, time.UTC),
		Direction:   models.DirectionOutbound,
		Passengers:  1,
		RoundTrip:   true,
	}
}

func TestPairMatchesNearestReturn(t *testing.T) {
	pairer := newTestPairer(nil)

	result := &models.ProviderResult{
		Category: models.CategoryFlight,
		Candidates: []map[string]any{
			rawLeg("out-cheap", "JFK", "LAX", "2026-09-10T08:00:00Z", 200, nil),
			rawLeg("ret-cheap", "LAX", "JFK", "2026-09-13T10:00:00Z", 210, map[string]any{"direction": "return"}),
			rawLeg("ret-dear", "LAX", "JFK", "2026-09-13T15:00:00Z", 900, map[string]any{"direction": "return"}),
		},
		ProviderID: "test-api",
	}

	pairs, skipped := pairer.Pair(context.Background(), roundTripCriteria(), result, false)
	require.Len(t, pairs, 1)
	assert.Equal(t, 0, skipped)

	pair := pairs[0]
	require.NotNil(t, pair.Return)
	assert.Equal(t, "ret-cheap", pair.Return.ID)
	assert.Equal(t, "out-cheap_ret-cheap", pair.ID)
	assert.Equal(t, 410.0, pair.TotalPrice)
	assert.False(t, pair.Incomplete)
	assert.InDelta(t, 12*90, pair.CarbonKg, 0.01)
}

func TestPairPrefersSameCarrierWithinTolerance(t *testing.T) {
	pairer := newTestPairer(nil)

	// The off-carrier return matches price and duration exactly, but the
	// same-carrier return is within the $150 tolerance and wins.
	result := &models.ProviderResult{
		Category: models.CategoryFlight,
		Candidates: []map[string]any{
			rawLeg("out", "JFK", "LAX", "2026-09-10T08:00:00Z", 300, map[string]any{"airline": "Delta"}),
			rawLeg("ret-exact", "LAX", "JFK", "2026-09-13T10:00:00Z", 300, map[string]any{"direction": "return", "airline": "United"}),
			rawLeg("ret-delta", "LAX", "JFK", "2026-09-13T10:00:00Z", 430, map[string]any{"direction": "return", "airline": "Delta"}),
		},
		ProviderID: "test-api",
	}

	pairs, _ := pairer.Pair(context.Background(), roundTripCriteria(), result, false)
	require.Len(t, pairs, 1)
	require.NotNil(t, pairs[0].Return)
	assert.Equal(t, "ret-delta", pairs[0].Return.ID)
}

func TestPairOutboundOnlyTriggersReverseFetch(t *testing.T) {
	reverse := &stubProvider{candidates: []map[string]any{
		rawLeg("ret-1", "LAX", "JFK", "2026-09-13T10:00:00Z", 250, nil),
	}}
	pairer := newTestPairer(reverse)

	result := &models.ProviderResult{
		Category: models.CategoryFlight,
		Candidates: []map[string]any{
			rawLeg("out-1", "JFK", "LAX", "2026-09-10T08:00:00Z", 200, nil),
		},
		ProviderID: "test-api",
	}

	pairs, _ := pairer.Pair(context.Background(), roundTripCriteria(), result, false)

	assert.Equal(t, 1, reverse.searches)
	require.Len(t, pairs, 1)
	require.NotNil(t, pairs[0].Return)
	assert.Equal(t, "ret-1", pairs[0].Return.ID)
	assert.Equal(t, models.DirectionReturn, pairs[0].Return.Direction)
	assert.Equal(t, 450.0, pairs[0].TotalPrice)
}

func TestPairIncompleteWhenNoReturnsAnywhere(t *testing.T) {
	reverse := &stubProvider{} // reverse fetch succeeds but has no candidates
	pairer := newTestPairer(reverse)

	result := &models.ProviderResult{
		Category: models.CategoryFlight,
		Candidates: []map[string]any{
			rawLeg("out-1", "JFK", "LAX", "2026-09-10T08:00:00Z", 200, nil),
			rawLeg("out-2", "JFK", "LAX", "2026-09-10T12:00:00Z", 260, nil),
		},
		ProviderID: "test-api",
	}

	pairs, _ := pairer.Pair(context.Background(), roundTripCriteria(), result, false)
	require.Len(t, pairs, 2)
	for _, pair := range pairs {
		assert.True(t, pair.Incomplete)
		assert.Nil(t, pair.Return)
	}
}

func TestPairReturnWindow(t *testing.T) {
	pairer := newTestPairer(nil)

	// Returns before the outbound date or more than a day past the trip end
	// are unusable; only the in-window leg survives.
	result := &models.ProviderResult{
		Category: models.CategoryFlight,
		Candidates: []map[string]any{
			rawLeg("out", "JFK", "LAX", "2026-09-10T08:00:00Z", 200, nil),
			rawLeg("ret-early", "LAX", "JFK", "2026-09-09T10:00:00Z", 210, map[string]any{"direction": "return"}),
			rawLeg("ret-late", "LAX", "JFK", "2026-09-16T10:00:00Z", 220, map[string]any{"direction": "return"}),
			rawLeg("ret-ok", "LAX", "JFK", "2026-09-14T23:00:00Z", 500, map[string]any{"direction": "return"}),
		},
		ProviderID: "test-api",
	}

	pairs, _ := pairer.Pair(context.Background(), roundTripCriteria(), result, false)
	require.Len(t, pairs, 1)
	require.NotNil(t, pairs[0].Return)
	assert.Equal(t, "ret-ok", pairs[0].Return.ID)
}

func TestPairOneWaySkipsReverseFetch(t *testing.T) {
	reverse := &stubProvider{candidates: []map[string]any{
		rawLeg("ret-1", "LAX", "JFK", "2026-09-13T10:00:00Z", 250, nil),
	}}
	pairer := newTestPairer(reverse)

	result := &models.ProviderResult{
		Category: models.CategoryFlight,
		Candidates: []map[string]any{
			rawLeg("out-1", "JFK", "LAX", "2026-09-10T08:00:00Z", 200, nil),
		},
		ProviderID: "test-api",
	}

	pairs, _ := pairer.Pair(context.Background(), roundTripCriteria(), result, true)

	assert.Equal(t, 0, reverse.searches)
	require.Len(t, pairs, 1)
	assert.Nil(t, pairs[0].Return)
	assert.False(t, pairs[0].Incomplete)
	assert.Equal(t, 200.0, pairs[0].TotalPrice)
}

func TestPairReturnMustDepartAfterOutboundArrival(t *testing.T) {
	pairer := newTestPairer(nil)

	// The same-day return departs at 10:00, before the outbound lands at
	// 20:00. It matches the outbound's price exactly but can never be flown,
	// so the pricier later return wins.
	result := &models.ProviderResult{
		Category: models.CategoryFlight,
		Candidates: []map[string]any{
			rawLeg("out", "JFK", "LAX", "2026-09-10T14:00:00Z", 200, nil),
			rawLeg("ret-before", "LAX", "JFK", "2026-09-10T10:00:00Z", 200, map[string]any{"direction": "return"}),
			rawLeg("ret-after", "LAX", "JFK", "2026-09-13T10:00:00Z", 600, map[string]any{"direction": "return"}),
		},
		ProviderID: "test-api",
	}

	pairs, _ := pairer.Pair(context.Background(), roundTripCriteria(), result, false)
	require.Len(t, pairs, 1)
	require.NotNil(t, pairs[0].Return)
	assert.Equal(t, "ret-after", pairs[0].Return.ID)
	assert.True(t, pairs[0].Return.Departure.Time.After(pairs[0].Outbound.Arrival.Time))
}

func TestPairIncompleteWhenReturnsPrecedeArrival(t *testing.T) {
	pairer := newTestPairer(nil)

	// The only return in the window departs before the outbound lands; the
	// pair is degraded to incomplete rather than given an unflyable return.
	result := &models.ProviderResult{
		Category: models.CategoryFlight,
		Candidates: []map[string]any{
			rawLeg("out", "JFK", "LAX", "2026-09-10T14:00:00Z", 200, nil),
			rawLeg("ret-before", "LAX", "JFK", "2026-09-10T10:00:00Z", 210, map[string]any{"direction": "return"}),
		},
		ProviderID: "test-api",
	}

	pairs, _ := pairer.Pair(context.Background(), roundTripCriteria(), result, false)
	require.Len(t, pairs, 1)
	assert.True(t, pairs[0].Incomplete)
	assert.Nil(t, pairs[0].Return)
}

func TestPairSortsByTotalPrice(t *testing.T) {
	pairer := newTestPairer(nil)

	result := &models.ProviderResult{
		Category: models.CategoryFlight,
		Candidates: []map[string]any{
			rawLeg("out-dear", "JFK", "LAX", "2026-09-10T08:00:00Z", 900, nil),
			rawLeg("out-cheap", "JFK", "LAX", "2026-09-10T09:00:00Z", 200, nil),
			rawLeg("ret", "LAX", "JFK", "2026-09-13T10:00:00Z", 250, map[string]any{"direction": "return"}),
		},
		ProviderID: "test-api",
	}

	pairs, _ := pairer.Pair(context.Background(), roundTripCriteria(), result, false)
	require.Len(t, pairs, 2)
	assert.Equal(t, 450.0, pairs[0].TotalPrice)
	assert.Equal(t, 1150.0, pairs[1].TotalPrice)
}

func TestNearestTieBreaks(t *testing.T) {
	cfg := DefaultConfig()

	// Equidistant on price gap and duration: the cheaper return wins.
	out := models.FlightLeg{Price: 300, Duration: 6 * time.Hour}
	returns := []models.FlightLeg{
		{Price: 350, Duration: 6 * time.Hour, Stops: 1},
		{Price: 250, Duration: 6 * time.Hour, Stops: 2},
	}
	assert.Equal(t, 1, cfg.nearest(out, returns))

	// Fully tied on price too: fewer stops wins.
	returns = []models.FlightLeg{
		{Price: 300, Duration: 6 * time.Hour, Stops: 2},
		{Price: 300, Duration: 6 * time.Hour, Stops: 0},
	}
	assert.Equal(t, 1, cfg.nearest(out, returns))
}

func TestNearestFallsBackToDuration(t *testing.T) {
	cfg := DefaultConfig()

	out := models.FlightLeg{Price: 300, Duration: 6 * time.Hour}
	returns := []models.FlightLeg{
		{Price: 300, Duration: 14 * time.Hour},
		{Price: 300, Duration: 6 * time.Hour},
	}

	assert.Equal(t, 1, cfg.nearest(out, returns))
}
