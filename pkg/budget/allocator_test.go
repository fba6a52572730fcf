package budget

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

func TestAllocateStandardShares(t *testing.T) {
	allocator := NewAllocator(DefaultWeights(), 1.2, false, testLogger())

	alloc := allocator.Allocate(context.Background(), 1000, models.TierStandard)

	assert.Equal(t, 1000.0, alloc.Total)
	assert.InDelta(t, 300, alloc.Ceiling(models.CategoryFlight), 0.01)
	assert.InDelta(t, 350, alloc.Ceiling(models.CategoryLodging), 0.01)
	assert.InDelta(t, 200, alloc.Ceiling(models.CategoryActivities), 0.01)
	assert.InDelta(t, 100, alloc.Ceiling(models.CategoryFood), 0.01)
	assert.InDelta(t, 50, alloc.Ceiling(models.CategoryMisc), 0.01)
}

func TestAllocateRenormalizesToTotal(t *testing.T) {
	allocator := NewAllocator(DefaultWeights(), 1.2, false, testLogger())

	// Every tier's ceilings must still sum to the total after the tier
	// multiplier skews transport and lodging.
	for _, tier := range models.AllTiers() {
		alloc := allocator.Allocate(context.Background(), 2500, tier)

		var sum float64
		for _, entry := range alloc.Categories {
			sum += entry.Ceiling
		}
		assert.InDelta(t, 2500, sum, 0.01, "tier %s", tier)
	}
}

func TestAllocateTierSkew(t *testing.T) {
	allocator := NewAllocator(DefaultWeights(), 1.2, false, testLogger())

	budget := allocator.Allocate(context.Background(), 1000, models.TierBudget)
	luxury := allocator.Allocate(context.Background(), 1000, models.TierLuxury)

	// Luxury shifts share toward flight and lodging, budget away from them.
	assert.Greater(t, luxury.Ceiling(models.CategoryFlight), budget.Ceiling(models.CategoryFlight))
	assert.Greater(t, luxury.Ceiling(models.CategoryLodging), budget.Ceiling(models.CategoryLodging))
	assert.Less(t, luxury.Ceiling(models.CategoryActivities), budget.Ceiling(models.CategoryActivities))
}

func TestRelaxOncePerCategory(t *testing.T) {
	allocator := NewAllocator(DefaultWeights(), 1.2, false, testLogger())
	alloc := allocator.Allocate(context.Background(), 1000, models.TierStandard)

	before := alloc.Ceiling(models.CategoryFlight)

	require.True(t, allocator.Relax(context.Background(), &alloc, models.CategoryFlight))
	assert.InDelta(t, before*1.2, alloc.Ceiling(models.CategoryFlight), 0.01)
	assert.True(t, alloc.Relaxed)

	// Second relaxation of the same category is a no-op.
	assert.False(t, allocator.Relax(context.Background(), &alloc, models.CategoryFlight))
	assert.InDelta(t, before*1.2, alloc.Ceiling(models.CategoryFlight), 0.01)

	// Other categories still get their one relaxation.
	assert.True(t, allocator.Relax(context.Background(), &alloc, models.CategoryLodging))
}

func TestHeadroomCappedByTotalBudget(t *testing.T) {
	allocator := NewAllocator(DefaultWeights(), 1.2, false, testLogger())
	alloc := allocator.Allocate(context.Background(), 1000, models.TierStandard)

	// Spend most of the budget elsewhere, then relax flight. The relaxed
	// ceiling would allow 360, but only 100 of the total remains.
	alloc.Spend(models.CategoryLodging, 350)
	alloc.Spend(models.CategoryActivities, 200)
	alloc.Spend(models.CategoryFood, 100)
	alloc.Spend(models.CategoryMisc, 50)
	alloc.Spend(models.CategoryFlight, 200)

	require.True(t, allocator.Relax(context.Background(), &alloc, models.CategoryFlight))

	assert.InDelta(t, 100, allocator.Headroom(alloc, models.CategoryFlight), 0.01)
}

func TestHeadroomNeverNegative(t *testing.T) {
	allocator := NewAllocator(DefaultWeights(), 1.2, false, testLogger())
	alloc := allocator.Allocate(context.Background(), 1000, models.TierStandard)

	alloc.Spend(models.CategoryFlight, 400)

	assert.Equal(t, 0.0, allocator.Headroom(alloc, models.CategoryFlight))
}

func TestHeadroomReallocationPoolsReserves(t *testing.T) {
	pooling := NewAllocator(DefaultWeights(), 1.2, true, testLogger())
	strict := NewAllocator(DefaultWeights(), 1.2, false, testLogger())

	alloc := pooling.Allocate(context.Background(), 1000, models.TierStandard)

	// Food (100) and misc (50) are unspent, so flight headroom grows by 150.
	assert.InDelta(t, 450, pooling.Headroom(alloc, models.CategoryFlight), 0.01)
	assert.InDelta(t, 300, strict.Headroom(alloc, models.CategoryFlight), 0.01)

	// Reserves never pool into each other.
	assert.InDelta(t, 100, pooling.Headroom(alloc, models.CategoryFood), 0.01)
}

func TestAnalyzeFeasibility(t *testing.T) {
	start := time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC)

	req := models.TripRequest{
		Origin:         "JFK",
		Destination:    "LAX",
		StartDate:      start,
		EndDate:        start.AddDate(0, 0, 4),
		PassengerCount: 2,
		ComfortTier:    "standard",
	}

	// 2 flights (400) + 4 nights (200) + food/misc (50*4*2 = 400) = 1000.
	req.TotalBudget = 800
	f := AnalyzeFeasibility(req)
	assert.False(t, f.Feasible)
	assert.InDelta(t, 1000, f.EstimatedCost, 0.01)
	assert.InDelta(t, 200, f.Shortfall, 0.01)
	assert.Contains(t, f.Advice, "short of minimum requirements")

	req.TotalBudget = 1100
	f = AnalyzeFeasibility(req)
	assert.True(t, f.Feasible)
	assert.Equal(t, "Budget is feasible but will be tight", f.Advice)

	req.TotalBudget = 1600
	f = AnalyzeFeasibility(req)
	assert.Equal(t, "Good budget with room for upgrades", f.Advice)

	req.TotalBudget = 2500
	f = AnalyzeFeasibility(req)
	assert.Equal(t, "Excellent budget for a comfortable trip", f.Advice)
}
