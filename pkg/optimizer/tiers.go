package optimizer

import (
	"github.com/Gobusters/ectolinq"

	"github.com/wayline/wayline/pkg/models"
)

// Semantic tier mappings: each tier admits only candidates that match its
// comfort promise. A tier with nothing admissible reports the category
// unsatisfied instead of borrowing from a lower tier.

// minTravelClassRank is the lowest admissible cabin class per tier.
func minTravelClassRank(tier models.ComfortTier) int {
	switch tier {
	case models.TierComfort:
		return 1
	case models.TierLuxury:
		return 2
	default:
		return 0
	}
}

// maxTravelClassRank caps the cabin class for the thrifty tiers so the budget
// tier never burns its ceiling on a discounted first-class fare.
func maxTravelClassRank(tier models.ComfortTier) int {
	switch tier {
	case models.TierBudget:
		return 0
	case models.TierStandard:
		return 1
	default:
		return 3
	}
}

// minLodgingRating is the lowest admissible lodging rating per tier.
func minLodgingRating(tier models.ComfortTier) float64 {
	switch tier {
	case models.TierStandard:
		return 3.0
	case models.TierComfort:
		return 4.0
	case models.TierLuxury:
		return 4.5
	default:
		return 0
	}
}

func filterFlights(flights []models.PairedFlight, tier models.ComfortTier) []models.PairedFlight {
	lo, hi := minTravelClassRank(tier), maxTravelClassRank(tier)
	return ectolinq.Filter(flights, func(f models.PairedFlight) bool {
		rank := models.TravelClassRank(f.TravelClass)
		return rank >= lo && rank <= hi
	})
}

func filterLodgings(lodgings []models.LodgingCandidate, tier models.ComfortTier) []models.LodgingCandidate {
	floor := minLodgingRating(tier)
	return ectolinq.Filter(lodgings, func(l models.LodgingCandidate) bool {
		return l.Rating >= floor
	})
}
