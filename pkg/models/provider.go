package models

import "time"

// Candidate is the uniform view the optimizer has of any selectable option.
type Candidate interface {
	CandidateID() string
	Price() float64
	Quality() float64
	MatchTags() []string
}

// SearchCriteria is the provider-agnostic query for one category fetch.
type SearchCriteria struct {
	Category    Category  `json:"category"`
	Origin      string    `json:"origin,omitempty"`
	Destination string    `json:"destination"`
	Date        time.Time `json:"date"`
	EndDate     time.Time `json:"end_date,omitempty"`
	Direction   Direction `json:"direction,omitempty"`
	Passengers  int       `json:"passengers,omitempty"`
	Preferences []string  `json:"preferences,omitempty"`
	RoundTrip   bool      `json:"round_trip,omitempty"`
}

// Reversed returns the criteria for the opposite flight direction on the trip
// end date. Used by the pairer's mandatory reverse one-way fetch.
func (c SearchCriteria) Reversed() SearchCriteria {
	rev := c
	rev.Origin, rev.Destination = c.Destination, c.Origin
	rev.Date = c.EndDate
	rev.Direction = DirectionReturn
	rev.RoundTrip = false
	return rev
}

// ProviderResult is one provider's raw answer for a category. Read-only after
// creation; candidates are idiosyncratic payloads the normalizer maps into
// typed records.
type ProviderResult struct {
	Category   Category         `json:"category"`
	Candidates []map[string]any `json:"candidates"`
	ProviderID string           `json:"provider_id"`
	FetchedAt  time.Time        `json:"fetched_at"`
	Partial    bool             `json:"partial,omitempty"`
	Synthetic  bool             `json:"synthetic,omitempty"`
}
