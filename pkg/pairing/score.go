package pairing

import (
	"math"

	"github.com/wayline/wayline/pkg/models"
)

// Config weighs the pairing distance function.
type Config struct {
	// SameCarrierTolerance is the price gap (absolute) within which a
	// same-carrier return is preferred over every off-carrier one.
	SameCarrierTolerance float64

	// PriceWeight and DurationWeight set the relative pull of price
	// proximity versus duration proximity. They should sum to 1.
	PriceWeight    float64
	DurationWeight float64
}

// DefaultConfig returns the standard pairing weights
func DefaultConfig() Config {
	return Config{
		SameCarrierTolerance: 150,
		PriceWeight:          0.6,
		DurationWeight:       0.4,
	}
}

// distance scores how well a return leg matches an outbound leg. Lower is
// better. Same-carrier pairs within the price tolerance rank ahead of every
// off-carrier pair regardless of proximity.
func (c Config) distance(outbound, ret models.FlightLeg, maxPrice, maxDuration float64) float64 {
	priceGap := math.Abs(outbound.Price - ret.Price)

	var priceTerm float64
	if maxPrice > 0 {
		priceTerm = priceGap / maxPrice
	}

	var durationTerm float64
	if maxDuration > 0 {
		durationTerm = math.Abs(outbound.Duration.Seconds()-ret.Duration.Seconds()) / maxDuration
	}

	score := c.PriceWeight*priceTerm + c.DurationWeight*durationTerm

	if outbound.Carrier != "" && outbound.Carrier == ret.Carrier && priceGap <= c.SameCarrierTolerance {
		score -= 1
	}

	return score
}

// nearest returns the index of the closest return leg departing after the
// outbound lands, or -1 when no return qualifies. Exact distance ties resolve
// to the lower-priced return, then the one with fewer stops.
func (c Config) nearest(outbound models.FlightLeg, returns []models.FlightLeg) int {
	eligible := func(r models.FlightLeg) bool {
		if outbound.Arrival.Time.IsZero() || r.Departure.Time.IsZero() {
			return true
		}
		return r.Departure.Time.After(outbound.Arrival.Time)
	}

	var maxPrice, maxDuration float64
	for _, r := range returns {
		if !eligible(r) {
			continue
		}
		if gap := math.Abs(outbound.Price - r.Price); gap > maxPrice {
			maxPrice = gap
		}
		if gap := math.Abs(outbound.Duration.Seconds() - r.Duration.Seconds()); gap > maxDuration {
			maxDuration = gap
		}
	}

	best := -1
	bestScore := math.Inf(1)
	for i, r := range returns {
		if !eligible(r) {
			continue
		}
		score := c.distance(outbound, r, maxPrice, maxDuration)
		switch {
		case score < bestScore:
			best = i
			bestScore = score
		case score == bestScore && best >= 0:
			if r.Price < returns[best].Price ||
				(r.Price == returns[best].Price && r.Stops < returns[best].Stops) {
				best = i
			}
		}
	}
	return best
}
