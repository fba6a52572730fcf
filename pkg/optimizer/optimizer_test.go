package optimizer

import (
	"context"
	"testing"
	"time"

	"github.com/Gobusters/ectologger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wayline/wayline/pkg/budget"
	"github.com/wayline/wayline/pkg/models"
)

func testLogger() ectologger.Logger {
	return ectologger.NewEctoLogger(func(_ ectologger.EctoLogMessage) {})
}

func testOptimizer() *Optimizer {
	allocator := budget.NewAllocator(budget.DefaultWeights(), 1.2, false, testLogger())
	return NewOptimizer(allocator, DefaultScoreWeights(), 2, testLogger())
}

func flight(id string, price float64, class string, stops int) models.PairedFlight {
	return models.PairedFlight{
		ID:          id,
		TotalPrice:  price,
		TravelClass: class,
		Outbound:    &models.FlightLeg{ID: id + "_out", Price: price / 2, Stops: stops, TravelClass: class},
		Return:      &models.FlightLeg{ID: id + "_ret", Price: price / 2, TravelClass: class},
	}
}

func lodging(id string, total, rating float64, amenities ...string) models.LodgingCandidate {
	return models.LodgingCandidate{
		ID:        id,
		Name:      id,
		TotalCost: total,
		Rating:    rating,
		Amenities: amenities,
	}
}

func activity(id string, fee, rating float64, date time.Time) models.ActivityCandidate {
	return models.ActivityCandidate{
		ID:       id,
		Name:     id,
		EntryFee: fee,
		Rating:   rating,
		Date:     date,
	}
}

func testRequest(totalBudget float64, days int) models.TripRequest {
	start := time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC)
	return models.TripRequest{
		ID:             "req-1",
		Origin:         "JFK",
		Destination:    "LAX",
		StartDate:      start,
		EndDate:        start.AddDate(0, 0, days),
		PassengerCount: 1,
		TotalBudget:    totalBudget,
		ComfortTier:    "standard",
	}
}

func TestBuildTiersProducesAllTiers(t *testing.T) {
	opt := testOptimizer()
	start := time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC)

	pool := Candidates{
		Flights: []models.PairedFlight{
			flight("f-econ", 400, "economy", 0),
			flight("f-prem", 700, "premium_economy", 0),
			flight("f-biz", 1200, "business", 0),
		},
		Lodgings: []models.LodgingCandidate{
			lodging("l-hostel", 300, 2.5),
			lodging("l-mid", 600, 3.8),
			lodging("l-fancy", 1100, 4.7),
		},
		Activities: []models.ActivityCandidate{
			activity("a-1", 20, 4.0, start.AddDate(0, 0, 1)),
			activity("a-2", 40, 4.5, start.AddDate(0, 0, 2)),
		},
	}

	plans := opt.BuildTiers(context.Background(), testRequest(4000, 4), pool)
	require.Len(t, plans, 4)

	byTier := make(map[models.ComfortTier]models.TierPlan, len(plans))
	for _, plan := range plans {
		byTier[plan.Tier] = plan
	}

	// Budget tier only admits economy and has no rating floor.
	require.NotNil(t, byTier[models.TierBudget].Flight)
	assert.Equal(t, "f-econ", byTier[models.TierBudget].Flight.ID)

	// Comfort requires premium economy or better and rating >= 4.0.
	require.NotNil(t, byTier[models.TierComfort].Flight)
	assert.NotEqual(t, "f-econ", byTier[models.TierComfort].Flight.ID)
	require.NotNil(t, byTier[models.TierComfort].Lodging)
	assert.Equal(t, "l-fancy", byTier[models.TierComfort].Lodging.ID)

	// Luxury requires business or better.
	require.NotNil(t, byTier[models.TierLuxury].Flight)
	assert.Equal(t, "f-biz", byTier[models.TierLuxury].Flight.ID)
}

func TestBuildTierMarksUnsatisfiedWithoutOverspending(t *testing.T) {
	opt := testOptimizer()
	start := time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC)

	// Standard tier flight ceiling for $1000 is $300 ($360 relaxed); the only
	// flight costs far more.
	pool := Candidates{
		Flights:  []models.PairedFlight{flight("f-dear", 800, "economy", 0)},
		Lodgings: []models.LodgingCandidate{lodging("l-ok", 320, 3.5)},
		Activities: []models.ActivityCandidate{
			activity("a-1", 15, 4.0, start.AddDate(0, 0, 1)),
		},
	}

	plans := opt.BuildTiers(context.Background(), testRequest(1000, 4), pool)

	var standard models.TierPlan
	for _, plan := range plans {
		if plan.Tier == models.TierStandard {
			standard = plan
		}
	}

	assert.Nil(t, standard.Flight)
	assert.True(t, standard.Unsatisfied(models.CategoryFlight))
	assert.NotEmpty(t, standard.Warnings)

	// The lodging and activity still get selected and the total respects the
	// overall budget.
	require.NotNil(t, standard.Lodging)
	assert.LessOrEqual(t, standard.TotalCost, 1000.0)
}

func TestBuildTierRelaxesCeilingOnce(t *testing.T) {
	opt := testOptimizer()

	// $330 flight exceeds the standard $300 ceiling but fits the one-shot
	// 1.2x relaxation.
	pool := Candidates{
		Flights: []models.PairedFlight{flight("f-slightly-dear", 330, "economy", 0)},
	}

	plans := opt.BuildTiers(context.Background(), testRequest(1000, 4), pool)

	for _, plan := range plans {
		if plan.Tier != models.TierStandard {
			continue
		}
		require.NotNil(t, plan.Flight)
		assert.Equal(t, "f-slightly-dear", plan.Flight.ID)
		assert.True(t, plan.Allocation.Relaxed)
	}
}

func TestSelectActivitiesCapsAndSkips(t *testing.T) {
	opt := testOptimizer()
	start := time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC)

	// 2-day trip caps at 4 activities. The $5000 activity is skipped, not
	// terminal; the cheap ones after it still get picked.
	var activities []models.ActivityCandidate
	activities = append(activities, activity("a-dear", 5000, 5.0, start))
	for i := 0; i < 6; i++ {
		activities = append(activities, activity(string(rune('b'+i)), 10, 4.0, start.AddDate(0, 0, i%2)))
	}

	pool := Candidates{Activities: activities}
	plans := opt.BuildTiers(context.Background(), testRequest(1000, 2), pool)

	for _, plan := range plans {
		if plan.Tier != models.TierStandard {
			continue
		}
		assert.Len(t, plan.Activities, 4)
		for _, a := range plan.Activities {
			assert.NotEqual(t, "a-dear", a.ID)
		}
	}
}

func TestIncompleteFlightCarriesWarning(t *testing.T) {
	opt := testOptimizer()

	incomplete := models.PairedFlight{
		ID:          "f-oneleg",
		TotalPrice:  200,
		TravelClass: "economy",
		Outbound:    &models.FlightLeg{ID: "out", Price: 200},
		Incomplete:  true,
	}

	plans := opt.BuildTiers(context.Background(), testRequest(1000, 4), Candidates{
		Flights: []models.PairedFlight{incomplete},
	})

	for _, plan := range plans {
		if plan.Tier != models.TierStandard {
			continue
		}
		require.NotNil(t, plan.Flight)
		assert.True(t, plan.Flight.Incomplete)
		assert.Contains(t, plan.Warnings, "return flight unavailable, fare covers the outbound leg only")
	}
}

func TestScoreAllPrefersCheapQualityFit(t *testing.T) {
	candidates := []models.LodgingCandidate{
		lodging("cheap-good-fit", 400, 4.5, "pool", "wifi"),
		lodging("dear-poor", 900, 3.0),
	}

	scores := scoreAll(candidates, DefaultScoreWeights(), []string{"pool"})
	require.Len(t, scores, 2)
	assert.Greater(t, scores[0], scores[1])
}

func TestScoreAllSinglePriceNeutral(t *testing.T) {
	// With one candidate min == max, so price and quality normalize to 1 and
	// the missing tags leave fit neutral.
	scores := scoreAll([]models.LodgingCandidate{lodging("only", 400, 4.0)}, DefaultScoreWeights(), []string{"pool"})
	require.Len(t, scores, 1)
	assert.InDelta(t, 0.5*1+0.3*1+0.2*0.5, scores[0], 0.001)
}

func TestFitScore(t *testing.T) {
	assert.Equal(t, 0.5, fitScore(nil, []string{"pool"}))
	assert.Equal(t, 0.5, fitScore([]string{"pool"}, nil))
	assert.Equal(t, 1.0, fitScore([]string{"pool", "wifi"}, []string{"pool"}))
	assert.Equal(t, 0.5, fitScore([]string{"pool"}, []string{"pool", "spa"}))
	assert.Equal(t, 0.0, fitScore([]string{"gym"}, []string{"pool"}))
}

func TestFilterFlightsByTier(t *testing.T) {
	flights := []models.PairedFlight{
		flight("econ", 300, "economy", 0),
		flight("prem", 500, "premium_economy", 0),
		flight("biz", 900, "business", 0),
		flight("first", 2000, "first", 0),
	}

	ids := func(fs []models.PairedFlight) []string {
		var out []string
		for _, f := range fs {
			out = append(out, f.ID)
		}
		return out
	}

	assert.Equal(t, []string{"econ"}, ids(filterFlights(flights, models.TierBudget)))
	assert.Equal(t, []string{"econ", "prem"}, ids(filterFlights(flights, models.TierStandard)))
	assert.Equal(t, []string{"prem", "biz", "first"}, ids(filterFlights(flights, models.TierComfort)))
	assert.Equal(t, []string{"biz", "first"}, ids(filterFlights(flights, models.TierLuxury)))
}

func TestPlanScore(t *testing.T) {
	start := time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC)

	nonstop := flight("f", 400, "economy", 0)
	plan := models.TierPlan{
		Tier:    models.TierStandard,
		Flight:  &nonstop,
		Lodging: &models.LodgingCandidate{Rating: 5.0},
		Activities: []models.ActivityCandidate{
			activity("a", 10, 5.0, start),
		},
	}

	// Nonstop 20 + rating 30 + avg rating 25 + count 1/10*25 = 77.5.
	assert.InDelta(t, 77.5, planScore(plan), 0.001)

	// An empty plan scores zero.
	assert.Equal(t, 0.0, planScore(models.TierPlan{}))
}
