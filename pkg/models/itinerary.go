package models

import "time"

// CategoryBudget is the spending ceiling for one category within a plan,
// together with what the optimizer actually committed against it.
type CategoryBudget struct {
	Ceiling float64 `json:"ceiling"`
	Spent   float64 `json:"spent"`
	Relaxed bool    `json:"relaxed,omitempty"`
}

// BudgetAllocation splits a total budget across categories by weight.
// Ceilings are fixed once allocated; the one-shot relaxation produces a new
// allocation rather than mutating this one.
type BudgetAllocation struct {
	Total      float64                     `json:"total"`
	Categories map[Category]CategoryBudget `json:"categories"`
	Relaxed    bool                        `json:"relaxed,omitempty"`
}

// Ceiling returns the ceiling for a category, zero when the category has no
// allocation (weather never has one).
func (b BudgetAllocation) Ceiling(cat Category) float64 {
	return b.Categories[cat].Ceiling
}

// Spend records committed spend against a category ceiling.
func (b *BudgetAllocation) Spend(cat Category, amount float64) {
	entry := b.Categories[cat]
	entry.Spent += amount
	b.Categories[cat] = entry
}

// TierPlan is one fully-assembled itinerary at a single comfort tier.
type TierPlan struct {
	Tier                  ComfortTier         `json:"tier"`
	Flight                *PairedFlight       `json:"flight,omitempty"`
	Lodging               *LodgingCandidate   `json:"lodging,omitempty"`
	Activities            []ActivityCandidate `json:"activities,omitempty"`
	Weather               []WeatherDay        `json:"weather,omitempty"`
	Schedule              []DaySchedule       `json:"schedule,omitempty"`
	Allocation            BudgetAllocation    `json:"allocation"`
	TotalCost             float64             `json:"total_cost"`
	Score                 float64             `json:"score"`
	UnsatisfiedCategories []Category          `json:"unsatisfied_categories,omitempty"`
	FallbackCategories    []Category          `json:"fallback_categories,omitempty"`
	Warnings              []string            `json:"warnings,omitempty"`
}

// Unsatisfied reports whether the named category failed selection in this tier.
func (t TierPlan) Unsatisfied(cat Category) bool {
	for _, c := range t.UnsatisfiedCategories {
		if c == cat {
			return true
		}
	}
	return false
}

// DaySchedule lays out one trip date: the activities placed on it plus any
// weather advisory for that date.
type DaySchedule struct {
	Date       time.Time           `json:"date"`
	Activities []ActivityCandidate `json:"activities,omitempty"`
	Weather    *WeatherDay         `json:"weather,omitempty"`
	Note       string              `json:"note,omitempty"`
}

// Provenance records which providers contributed to a plan and which failed
// or were substituted. It travels with the consolidated result so callers can
// tell a degraded plan from a complete one.
type Provenance struct {
	Providers          map[Category]string `json:"providers"`
	ProvidersFailed    []Category          `json:"providers_failed,omitempty"`
	FallbackCategories []Category          `json:"fallback_categories,omitempty"`
	IncompleteFlights  bool                `json:"incomplete_flights,omitempty"`
	SkippedRecords     map[Category]int    `json:"skipped_records,omitempty"`
	GeneratedAt        time.Time           `json:"generated_at"`
}

// Feasibility is the allocator's up-front judgement of whether the budget can
// plausibly cover the trip at the requested tier.
type Feasibility struct {
	Feasible      bool    `json:"feasible"`
	EstimatedCost float64 `json:"estimated_cost"`
	Shortfall     float64 `json:"shortfall,omitempty"`
	Advice        string  `json:"advice,omitempty"`
}

// ConsolidatedItinerary is the pipeline's terminal output: tier plans ordered
// cheapest first, re-ranked by personalization, with full provenance.
type ConsolidatedItinerary struct {
	RequestID   string      `json:"request_id"`
	Destination string      `json:"destination"`
	Tiers       []TierPlan  `json:"tiers"`
	Recommended ComfortTier `json:"recommended_tier,omitempty"`
	Feasibility Feasibility `json:"feasibility"`
	Provenance  Provenance  `json:"provenance"`
	Viable      bool        `json:"viable"`
	Message     string      `json:"message,omitempty"`
}
