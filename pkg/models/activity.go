package models

import "time"

// ActivityCandidate is one normalized point-of-interest or bookable activity.
// Date is always within [TripRequest.StartDate, TripRequest.EndDate].
type ActivityCandidate struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Kind          string    `json:"kind,omitempty"`
	Tags          []string  `json:"tags,omitempty"`
	Description   string    `json:"description,omitempty"`
	EntryFee      float64   `json:"entry_fee"`
	Rating        float64   `json:"rating"`
	DurationHours float64   `json:"duration_hours,omitempty"`
	Date          time.Time `json:"date"`
	Address       string    `json:"address,omitempty"`
	Lat           float64   `json:"lat,omitempty"`
	Lng           float64   `json:"lng,omitempty"`
}

// CandidateID implements Candidate.
func (a ActivityCandidate) CandidateID() string { return a.ID }

// Price implements Candidate.
func (a ActivityCandidate) Price() float64 { return a.EntryFee }

// Quality implements Candidate.
func (a ActivityCandidate) Quality() float64 { return a.Rating }

// MatchTags implements Candidate.
func (a ActivityCandidate) MatchTags() []string { return a.Tags }

// WeatherDay is the forecast for one trip date. Weather is enrichment only:
// it has no budget ceiling and never blocks a tier.
type WeatherDay struct {
	Date          time.Time `json:"date"`
	Condition     string    `json:"condition"`
	TempHighC     float64   `json:"temp_high_c"`
	TempLowC      float64   `json:"temp_low_c"`
	Humidity      int       `json:"humidity,omitempty"`
	PrecipChance  int       `json:"precipitation_chance,omitempty"`
	WindSpeedKmh  float64   `json:"wind_speed_kmh,omitempty"`
	ProviderNotes string    `json:"provider_notes,omitempty"`
}
