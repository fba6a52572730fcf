// Package optimizer assembles one itinerary per comfort tier by greedy
// per-category selection against the tier's budget ceilings.
package optimizer

import (
	"context"
	"fmt"

	"github.com/Gobusters/ectologger"

	"github.com/wayline/wayline/pkg/budget"
	"github.com/wayline/wayline/pkg/metrics"
	"github.com/wayline/wayline/pkg/models"
)

// Candidates is the normalized pool the optimizer selects from. The same pool
// feeds every tier; only ceilings and weights differ.
type Candidates struct {
	Flights    []models.PairedFlight
	Lodgings   []models.LodgingCandidate
	Activities []models.ActivityCandidate
}

// Optimizer builds tier plans.
type Optimizer struct {
	allocator           *budget.Allocator
	weights             ScoreWeights
	maxActivitiesPerDay int
	logger              ectologger.Logger
}

// NewOptimizer creates a new optimizer
func NewOptimizer(allocator *budget.Allocator, weights ScoreWeights, maxActivitiesPerDay int, logger ectologger.Logger) *Optimizer {
	if maxActivitiesPerDay <= 0 {
		maxActivitiesPerDay = 2
	}
	return &Optimizer{
		allocator:           allocator,
		weights:             weights,
		maxActivitiesPerDay: maxActivitiesPerDay,
		logger:              logger,
	}
}

// BuildTiers produces one plan per comfort tier. A category that cannot be
// satisfied within its (once-relaxed) ceiling is marked unsatisfied on that
// tier, never silently dropped or paid for by another category.
func (o *Optimizer) BuildTiers(ctx context.Context, req models.TripRequest, pool Candidates) []models.TierPlan {
	tiers := models.AllTiers()
	plans := make([]models.TierPlan, 0, len(tiers))

	for _, tier := range tiers {
		plans = append(plans, o.buildTier(ctx, req, pool, tier))
	}

	return plans
}

func (o *Optimizer) buildTier(ctx context.Context, req models.TripRequest, pool Candidates, tier models.ComfortTier) models.TierPlan {
	alloc := o.allocator.Allocate(ctx, req.TotalBudget, tier)
	weights := o.weights.forTier(tier)

	plan := models.TierPlan{
		Tier:       tier,
		Allocation: alloc,
	}

	o.selectFlight(ctx, &plan, filterFlights(pool.Flights, tier), weights, req.Preferences)
	o.selectLodging(ctx, &plan, filterLodgings(pool.Lodgings, tier), weights, req.Preferences)
	o.selectActivities(ctx, &plan, pool.Activities, weights, req)

	plan.TotalCost = totalSpent(plan.Allocation)
	plan.Score = planScore(plan)

	o.logger.WithContext(ctx).WithFields(map[string]any{
		"tier":        tier,
		"total_cost":  plan.TotalCost,
		"unsatisfied": plan.UnsatisfiedCategories,
	}).Debug("built tier plan")

	return plan
}

// selectFlight picks the best-scoring affordable pair, relaxing the ceiling
// once before giving up.
func (o *Optimizer) selectFlight(ctx context.Context, plan *models.TierPlan, flights []models.PairedFlight, weights ScoreWeights, prefs []string) {
	pick := func() *models.PairedFlight {
		headroom := o.allocator.Headroom(plan.Allocation, models.CategoryFlight)
		return bestWithin(flights, weights, prefs, headroom)
	}

	chosen := pick()
	if chosen == nil && o.allocator.Relax(ctx, &plan.Allocation, models.CategoryFlight) {
		chosen = pick()
	}

	if chosen == nil {
		o.markUnsatisfied(plan, models.CategoryFlight, len(flights))
		return
	}

	plan.Flight = chosen
	plan.Allocation.Spend(models.CategoryFlight, chosen.TotalPrice)
	if chosen.Incomplete {
		plan.Warnings = append(plan.Warnings, "return flight unavailable, fare covers the outbound leg only")
	}
}

func (o *Optimizer) selectLodging(ctx context.Context, plan *models.TierPlan, lodgings []models.LodgingCandidate, weights ScoreWeights, prefs []string) {
	pick := func() *models.LodgingCandidate {
		headroom := o.allocator.Headroom(plan.Allocation, models.CategoryLodging)
		return bestWithin(lodgings, weights, prefs, headroom)
	}

	chosen := pick()
	if chosen == nil && o.allocator.Relax(ctx, &plan.Allocation, models.CategoryLodging) {
		chosen = pick()
	}

	if chosen == nil {
		o.markUnsatisfied(plan, models.CategoryLodging, len(lodgings))
		return
	}

	plan.Lodging = chosen
	plan.Allocation.Spend(models.CategoryLodging, chosen.TotalCost)
}

// selectActivities fills the activities ceiling greedily by score, capped at
// the per-day limit. Too-expensive candidates are skipped, not terminal.
func (o *Optimizer) selectActivities(ctx context.Context, plan *models.TierPlan, activities []models.ActivityCandidate, weights ScoreWeights, req models.TripRequest) {
	maxCount := o.maxActivitiesPerDay * req.DurationDays()

	selected := o.greedyActivities(plan, activities, weights, req.Preferences, maxCount)
	if len(selected) == 0 && len(activities) > 0 && o.allocator.Relax(ctx, &plan.Allocation, models.CategoryActivities) {
		selected = o.greedyActivities(plan, activities, weights, req.Preferences, maxCount)
	}

	if len(selected) == 0 {
		o.markUnsatisfied(plan, models.CategoryActivities, len(activities))
		return
	}

	plan.Activities = selected
	for _, a := range selected {
		plan.Allocation.Spend(models.CategoryActivities, a.EntryFee)
	}
}

func (o *Optimizer) greedyActivities(plan *models.TierPlan, activities []models.ActivityCandidate, weights ScoreWeights, prefs []string, maxCount int) []models.ActivityCandidate {
	ranked := rankDescending(activities, weights, prefs)
	headroom := o.allocator.Headroom(plan.Allocation, models.CategoryActivities)

	var selected []models.ActivityCandidate
	var spent float64
	for _, a := range ranked {
		if len(selected) >= maxCount {
			break
		}
		if spent+a.EntryFee > headroom {
			continue
		}
		selected = append(selected, a)
		spent += a.EntryFee
	}

	return selected
}

func (o *Optimizer) markUnsatisfied(plan *models.TierPlan, cat models.Category, available int) {
	plan.UnsatisfiedCategories = append(plan.UnsatisfiedCategories, cat)
	plan.Warnings = append(plan.Warnings, fmt.Sprintf("no %s option fits the %s budget (%d candidates considered)", cat, plan.Tier, available))
	metrics.UnsatisfiedCategoriesTotal.WithLabelValues(string(plan.Tier), string(cat)).Inc()
}

// bestWithin returns the highest-scoring candidate priced within the limit.
func bestWithin[C models.Candidate](candidates []C, weights ScoreWeights, prefs []string, limit float64) *C {
	scores := scoreAll(candidates, weights, prefs)

	var best *C
	bestScore := -1.0
	for i := range candidates {
		if candidates[i].Price() > limit {
			continue
		}
		if scores[i] > bestScore {
			best = &candidates[i]
			bestScore = scores[i]
		}
	}

	return best
}

// rankDescending orders candidates best-first without filtering by price.
func rankDescending[C models.Candidate](candidates []C, weights ScoreWeights, prefs []string) []C {
	scores := scoreAll(candidates, weights, prefs)

	ranked := make([]C, len(candidates))
	copy(ranked, candidates)

	order := make([]int, len(candidates))
	for i := range order {
		order[i] = i
	}

	// Simple insertion sort keeps ties in input order.
	for i := 1; i < len(order); i++ {
		for j := i; j > 0 && scores[order[j]] > scores[order[j-1]]; j-- {
			order[j], order[j-1] = order[j-1], order[j]
		}
	}

	for i, idx := range order {
		ranked[i] = candidates[idx]
	}

	return ranked
}

func totalSpent(alloc models.BudgetAllocation) float64 {
	var total float64
	for _, entry := range alloc.Categories {
		total += entry.Spent
	}
	return total
}

// planScore rates the assembled plan for re-ranking: fewer stops, better
// lodging rating and a fuller activity slate all raise it. 100-point scale.
func planScore(plan models.TierPlan) float64 {
	var score float64

	if plan.Flight != nil {
		stops := plan.Flight.TotalStops()
		if stops > 3 {
			stops = 3
		}
		score += float64(3-stops) / 3 * 20
	}

	if plan.Lodging != nil {
		score += plan.Lodging.Rating / 5.0 * 30
	}

	if len(plan.Activities) > 0 {
		var totalRating float64
		for _, a := range plan.Activities {
			totalRating += a.Rating
		}
		avgRating := totalRating / float64(len(plan.Activities))

		countScore := float64(len(plan.Activities)) / 10
		if countScore > 1 {
			countScore = 1
		}

		score += avgRating/5.0*25 + countScore*25
	}

	return score
}
