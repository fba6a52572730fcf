// Package budget splits a trip budget across spend categories and answers
// feasibility questions about it.
package budget

import (
	"context"

	"github.com/Gobusters/ectologger"

	"github.com/wayline/wayline/pkg/metrics"
	"github.com/wayline/wayline/pkg/models"
)

// Weights are the category shares of the total budget.
type Weights struct {
	Transport  float64
	Lodging    float64
	Activities float64
	Food       float64
	Misc       float64
}

// DefaultWeights returns the standard allocation shares
func DefaultWeights() Weights {
	return Weights{
		Transport:  0.30,
		Lodging:    0.35,
		Activities: 0.20,
		Food:       0.10,
		Misc:       0.05,
	}
}

func (w Weights) sum() float64 {
	return w.Transport + w.Lodging + w.Activities + w.Food + w.Misc
}

// tierMultiplier scales the transport and lodging shares before the
// allocation is renormalized back onto the total.
func tierMultiplier(tier models.ComfortTier) float64 {
	switch tier {
	case models.TierBudget:
		return 0.8
	case models.TierComfort:
		return 1.25
	case models.TierLuxury:
		return 1.6
	default:
		return 1.0
	}
}

// Allocator produces budget allocations.
type Allocator struct {
	weights             Weights
	relaxationFactor    float64
	reallocationEnabled bool
	logger              ectologger.Logger
}

// NewAllocator creates a new allocator
func NewAllocator(weights Weights, relaxationFactor float64, reallocationEnabled bool, logger ectologger.Logger) *Allocator {
	if weights.sum() <= 0 {
		weights = DefaultWeights()
	}
	if relaxationFactor < 1 {
		relaxationFactor = 1.2
	}
	return &Allocator{
		weights:             weights,
		relaxationFactor:    relaxationFactor,
		reallocationEnabled: reallocationEnabled,
		logger:              logger,
	}
}

// Allocate splits the total across categories for a tier. The tier multiplier
// boosts (or shrinks) the transport and lodging shares, then every ceiling is
// renormalized so the ceilings always sum to the total.
func (a *Allocator) Allocate(ctx context.Context, total float64, tier models.ComfortTier) models.BudgetAllocation {
	multiplier := tierMultiplier(tier)

	raw := map[models.Category]float64{
		models.CategoryFlight:     total * a.weights.Transport * multiplier,
		models.CategoryLodging:    total * a.weights.Lodging * multiplier,
		models.CategoryActivities: total * a.weights.Activities,
		models.CategoryFood:       total * a.weights.Food,
		models.CategoryMisc:       total * a.weights.Misc,
	}

	var allocated float64
	for _, v := range raw {
		allocated += v
	}

	factor := 1.0
	if allocated > 0 {
		factor = total / allocated
	}

	categories := make(map[models.Category]models.CategoryBudget, len(raw))
	for cat, v := range raw {
		categories[cat] = models.CategoryBudget{Ceiling: v * factor}
	}

	a.logger.WithContext(ctx).WithFields(map[string]any{
		"total": total,
		"tier":  tier,
	}).Debug("allocated budget")

	return models.BudgetAllocation{Total: total, Categories: categories}
}

// Relax raises one category's ceiling by the relaxation factor. It fires at
// most once per category per allocation; a second call is a no-op.
func (a *Allocator) Relax(ctx context.Context, alloc *models.BudgetAllocation, cat models.Category) bool {
	entry, ok := alloc.Categories[cat]
	if !ok || entry.Relaxed {
		return false
	}

	entry.Ceiling *= a.relaxationFactor
	entry.Relaxed = true
	alloc.Categories[cat] = entry
	alloc.Relaxed = true

	metrics.BudgetRelaxationsTotal.WithLabelValues(string(cat)).Inc()
	a.logger.WithContext(ctx).Infof("Relaxed %s ceiling to %.2f", cat, entry.Ceiling)
	return true
}

// Headroom returns the spend still available for a category. With
// reallocation enabled, unspent food and misc reserve is pooled in; by
// default each category is capped by its own ceiling. The total budget is a
// hard cap that survives relaxation: headroom never exceeds what is left of
// the overall budget.
func (a *Allocator) Headroom(alloc models.BudgetAllocation, cat models.Category) float64 {
	entry := alloc.Categories[cat]
	headroom := entry.Ceiling - entry.Spent

	if a.reallocationEnabled && cat != models.CategoryFood && cat != models.CategoryMisc {
		for _, reserve := range []models.Category{models.CategoryFood, models.CategoryMisc} {
			r := alloc.Categories[reserve]
			if surplus := r.Ceiling - r.Spent; surplus > 0 {
				headroom += surplus
			}
		}
	}

	var spent float64
	for _, e := range alloc.Categories {
		spent += e.Spent
	}
	if remaining := alloc.Total - spent; headroom > remaining {
		headroom = remaining
	}

	if headroom < 0 {
		return 0
	}
	return headroom
}
