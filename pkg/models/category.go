package models

import "fmt"

// Category identifies one spend/selection category of a trip plan.
type Category string

const (
	CategoryFlight     Category = "flight"
	CategoryLodging    Category = "lodging"
	CategoryActivities Category = "activities"
	CategoryWeather    Category = "weather"
	CategoryFood       Category = "food"
	CategoryMisc       Category = "miscellaneous"
)

// SelectableCategories are the categories the optimizer picks candidates for.
// Weather is enrichment only and food/misc are allocation-only reserves.
func SelectableCategories() []Category {
	return []Category{CategoryFlight, CategoryLodging, CategoryActivities}
}

// ComfortTier is one cost/comfort alternative in the returned set.
type ComfortTier string

const (
	TierBudget   ComfortTier = "budget"
	TierStandard ComfortTier = "standard"
	TierComfort  ComfortTier = "comfort"
	TierLuxury   ComfortTier = "luxury"
)

// AllTiers returns the tiers in ascending comfort order.
func AllTiers() []ComfortTier {
	return []ComfortTier{TierBudget, TierStandard, TierComfort, TierLuxury}
}

// ParseComfortTier validates a tier string. Unrecognized values are an error,
// never silently defaulted.
func ParseComfortTier(s string) (ComfortTier, error) {
	switch ComfortTier(s) {
	case TierBudget, TierStandard, TierComfort, TierLuxury:
		return ComfortTier(s), nil
	default:
		return "", fmt.Errorf("unknown comfort tier %q", s)
	}
}

// Description returns the display blurb for a tier.
func (t ComfortTier) Description() string {
	switch t {
	case TierBudget:
		return "Maximize savings with essential amenities"
	case TierStandard:
		return "Balance between cost and comfort"
	case TierComfort:
		return "Premium experience with better amenities"
	case TierLuxury:
		return "Highest quality with luxury services"
	default:
		return ""
	}
}
