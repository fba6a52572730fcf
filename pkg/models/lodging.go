package models

// LodgingLocation is where a property sits relative to the destination.
type LodgingLocation struct {
	Address          string  `json:"address,omitempty"`
	City             string  `json:"city,omitempty"`
	DistanceToCenter float64 `json:"distance_to_center_km,omitempty"`
	Lat              float64 `json:"lat,omitempty"`
	Lng              float64 `json:"lng,omitempty"`
}

// LodgingCandidate is one normalized stay option for the whole trip window.
type LodgingCandidate struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	NightlyRate float64         `json:"nightly_rate"`
	TotalCost   float64         `json:"total_cost"`
	Rating      float64         `json:"rating"`
	ReviewCount int             `json:"review_count,omitempty"`
	Amenities   []string        `json:"amenities,omitempty"`
	RoomType    string          `json:"room_type,omitempty"`
	Location    LodgingLocation `json:"location"`
	ImageURL    string          `json:"image_url,omitempty"`
}

// CandidateID implements Candidate.
func (l LodgingCandidate) CandidateID() string { return l.ID }

// Price implements Candidate.
func (l LodgingCandidate) Price() float64 { return l.TotalCost }

// Quality implements Candidate.
func (l LodgingCandidate) Quality() float64 { return l.Rating }

// MatchTags implements Candidate.
func (l LodgingCandidate) MatchTags() []string { return l.Amenities }
