package models

import (
	"time"
)

// TripRequest is the structured trip intent produced by the upstream intent
// parser. It is immutable once created; the pipeline never mutates it.
type TripRequest struct {
	ID             string    `json:"id"`
	Origin         string    `json:"origin" validate:"required"`
	Destination    string    `json:"destination" validate:"required"`
	StartDate      time.Time `json:"start_date" validate:"required"`
	EndDate        time.Time `json:"end_date" validate:"required"`
	PassengerCount int       `json:"passenger_count" validate:"required,min=1"`
	TotalBudget    float64   `json:"total_budget" validate:"required,gt=0"`
	ComfortTier    string    `json:"comfort_tier" validate:"required"`
	OneWay         bool      `json:"one_way"`
	Preferences    []string  `json:"preferences,omitempty"`
}

// DurationDays returns the trip length in nights, never less than 1.
func (r TripRequest) DurationDays() int {
	days := int(r.EndDate.Sub(r.StartDate).Hours() / 24)
	if days < 1 {
		return 1
	}
	return days
}

// Dates returns every date of the trip, start through end inclusive.
func (r TripRequest) Dates() []time.Time {
	var dates []time.Time
	for d := r.StartDate; !d.After(r.EndDate); d = d.AddDate(0, 0, 1) {
		dates = append(dates, d)
	}
	return dates
}

// HasPreference reports whether the request carries the given preference tag.
func (r TripRequest) HasPreference(tag string) bool {
	for _, p := range r.Preferences {
		if p == tag {
			return true
		}
	}
	return false
}
