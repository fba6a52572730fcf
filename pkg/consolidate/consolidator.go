// Package consolidate merges tier plans, enrichment and provenance into the
// final itinerary object handed to rendering.
package consolidate

import (
	"context"
	"sort"

	"github.com/Gobusters/ectologger"

	"github.com/wayline/wayline/pkg/models"
)

// Input carries everything the consolidator merges. All fields are immutable
// snapshots; consolidation never mutates its input.
type Input struct {
	Request         models.TripRequest
	Tiers           []models.TierPlan
	Weather         []models.WeatherDay
	Provenance      models.Provenance
	Feasibility     models.Feasibility
	Personalization Personalization
}

// Consolidator builds the final ConsolidatedItinerary.
type Consolidator struct {
	logger ectologger.Logger
}

// NewConsolidator creates a new consolidator
func NewConsolidator(logger ectologger.Logger) *Consolidator {
	return &Consolidator{logger: logger}
}

// Consolidate re-ranks tiers with the personalization signal, attaches
// weather, schedules and provenance, and orders tiers cheapest first. When
// every tier leaves every category unsatisfied the result is a structured
// no-viable-itinerary answer, not an error.
func (c *Consolidator) Consolidate(ctx context.Context, in Input) models.ConsolidatedItinerary {
	tiers := make([]models.TierPlan, len(in.Tiers))
	copy(tiers, in.Tiers)

	for i := range tiers {
		tiers[i].Score *= in.Personalization.tierWeight(tiers[i])
		tiers[i].Weather = in.Weather
		tiers[i].Schedule = buildSchedule(in.Request, tiers[i].Activities, in.Weather)
		tiers[i].FallbackCategories = tierFallbacks(tiers[i], in.Provenance.FallbackCategories)

		for _, cat := range tiers[i].FallbackCategories {
			tiers[i].Warnings = append(tiers[i].Warnings, string(cat)+" options are estimated, the provider was unavailable")
		}
	}

	// Cheapest first; ties prefer fewer unsatisfied categories, then the
	// higher re-ranked score.
	sort.SliceStable(tiers, func(i, j int) bool {
		if tiers[i].TotalCost != tiers[j].TotalCost {
			return tiers[i].TotalCost < tiers[j].TotalCost
		}
		if len(tiers[i].UnsatisfiedCategories) != len(tiers[j].UnsatisfiedCategories) {
			return len(tiers[i].UnsatisfiedCategories) < len(tiers[j].UnsatisfiedCategories)
		}
		return tiers[i].Score > tiers[j].Score
	})

	// GeneratedAt is stamped by the caller at the persistence boundary;
	// consolidation stays a pure function of its input.
	provenance := in.Provenance
	for _, tier := range tiers {
		if tier.Flight != nil && tier.Flight.Incomplete {
			provenance.IncompleteFlights = true
		}
	}

	out := models.ConsolidatedItinerary{
		RequestID:   in.Request.ID,
		Destination: in.Request.Destination,
		Tiers:       tiers,
		Feasibility: in.Feasibility,
		Provenance:  provenance,
		Viable:      anySatisfied(tiers),
	}

	if !out.Viable {
		out.Message = "No itinerary fits the budget in any tier. Increasing the total budget or shortening the trip should produce viable options."
		c.logger.WithContext(ctx).Warnf("No viable itinerary for request %s", in.Request.ID)
		return out
	}

	out.Recommended = recommend(tiers, in.Request)
	return out
}

// anySatisfied reports whether at least one tier satisfied at least one
// selectable category.
func anySatisfied(tiers []models.TierPlan) bool {
	for _, tier := range tiers {
		if len(tier.UnsatisfiedCategories) < len(models.SelectableCategories()) {
			return true
		}
	}
	return false
}

// recommend picks the requested tier when it is fully satisfied, otherwise
// the highest-scoring fully satisfied tier, otherwise the best effort.
func recommend(tiers []models.TierPlan, req models.TripRequest) models.ComfortTier {
	requested := models.ComfortTier(req.ComfortTier)

	var best *models.TierPlan
	for i := range tiers {
		tier := &tiers[i]
		if len(tier.UnsatisfiedCategories) > 0 {
			continue
		}
		if tier.Tier == requested {
			return tier.Tier
		}
		if best == nil || tier.Score > best.Score {
			best = tier
		}
	}
	if best != nil {
		return best.Tier
	}

	best = &tiers[0]
	for i := range tiers {
		if tiers[i].Score > best.Score {
			best = &tiers[i]
		}
	}
	return best.Tier
}

func tierFallbacks(tier models.TierPlan, fallbacks []models.Category) []models.Category {
	var used []models.Category
	for _, cat := range fallbacks {
		switch cat {
		case models.CategoryFlight:
			if tier.Flight != nil {
				used = append(used, cat)
			}
		case models.CategoryLodging:
			if tier.Lodging != nil {
				used = append(used, cat)
			}
		case models.CategoryActivities:
			if len(tier.Activities) > 0 {
				used = append(used, cat)
			}
		case models.CategoryWeather:
			if len(tier.Weather) > 0 {
				used = append(used, cat)
			}
		}
	}
	return used
}
