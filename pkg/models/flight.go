package models

import "time"

// Direction of a one-way flight leg relative to the trip.
type Direction string

const (
	DirectionOutbound Direction = "outbound"
	DirectionReturn   Direction = "return"
)

// FlightEndpoint is one end of a leg.
type FlightEndpoint struct {
	Airport  string    `json:"airport"`
	Time     time.Time `json:"time"`
	Terminal string    `json:"terminal,omitempty"`
}

// FlightLeg is a single one-way flight candidate as returned by a provider.
// Nested layover detail is carried verbatim; the normalizer must never
// reconstruct a subset of it.
type FlightLeg struct {
	ID          string         `json:"id"`
	Direction   Direction      `json:"direction"`
	Carrier     string         `json:"carrier"`
	FlightNo    string         `json:"flight_number"`
	Departure   FlightEndpoint `json:"departure"`
	Arrival     FlightEndpoint `json:"arrival"`
	Duration    time.Duration  `json:"duration"`
	Stops       int            `json:"stops"`
	Layovers    []string       `json:"layovers,omitempty"`
	Price       float64        `json:"price"`
	TravelClass string         `json:"travel_class"`
	LogoURL     string         `json:"logo_url,omitempty"`
}

// PairedFlight is a complete round-trip assembled from two one-way legs.
// Return is nil only for one-way requests or when pairing could not obtain a
// return leg. Such pairs are flagged Incomplete and surfaced in provenance,
// never dropped.
type PairedFlight struct {
	ID          string     `json:"id"`
	TotalPrice  float64    `json:"total_price"`
	TravelClass string     `json:"travel_class"`
	CarbonKg    float64    `json:"carbon_estimate_kg"`
	Outbound    *FlightLeg `json:"outbound"`
	Return      *FlightLeg `json:"return"`
	Incomplete  bool       `json:"incomplete,omitempty"`
}

// TotalStops returns combined stops across both legs.
func (p PairedFlight) TotalStops() int {
	stops := 0
	if p.Outbound != nil {
		stops += p.Outbound.Stops
	}
	if p.Return != nil {
		stops += p.Return.Stops
	}
	return stops
}

// TotalDuration returns combined in-air time across both legs.
func (p PairedFlight) TotalDuration() time.Duration {
	var d time.Duration
	if p.Outbound != nil {
		d += p.Outbound.Duration
	}
	if p.Return != nil {
		d += p.Return.Duration
	}
	return d
}

// CandidateID implements Candidate.
func (p PairedFlight) CandidateID() string { return p.ID }

// Price implements Candidate.
func (p PairedFlight) Price() float64 { return p.TotalPrice }

// Quality implements Candidate. Flights rank on travel class, with a small
// penalty per stop.
func (p PairedFlight) Quality() float64 {
	q := float64(TravelClassRank(p.TravelClass))
	q -= 0.1 * float64(p.TotalStops())
	if q < 0 {
		q = 0
	}
	return q
}

// MatchTags implements Candidate. Flights do not carry preference tags.
func (p PairedFlight) MatchTags() []string { return nil }

// TravelClassRank orders cabin classes from economy (0) to first (3).
func TravelClassRank(class string) int {
	switch class {
	case "premium_economy":
		return 1
	case "business":
		return 2
	case "first":
		return 3
	default:
		return 0
	}
}
