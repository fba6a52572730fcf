package budget

import (
	"fmt"

	"github.com/wayline/wayline/pkg/models"
)

// Floor estimates for the cheapest plausible trip. Deliberately coarse; the
// feasibility check is advisory, the optimizer is the arbiter.
const (
	minFlightPerPerson = 200
	minLodgingPerNight = 50
	minFoodPerDay      = 30
	minMiscPerDay      = 20
)

// AnalyzeFeasibility judges whether the budget can plausibly cover the trip.
func AnalyzeFeasibility(req models.TripRequest) models.Feasibility {
	days := req.DurationDays()
	people := req.PassengerCount
	if people < 1 {
		people = 1
	}

	minRequired := float64(minFlightPerPerson*people) +
		float64(minLodgingPerNight*days) +
		float64((minFoodPerDay+minMiscPerDay)*days*people)

	f := models.Feasibility{
		Feasible:      req.TotalBudget >= minRequired,
		EstimatedCost: minRequired,
	}

	switch {
	case !f.Feasible:
		f.Shortfall = minRequired - req.TotalBudget
		f.Advice = fmt.Sprintf("Budget is $%.2f short of minimum requirements", f.Shortfall)
	case req.TotalBudget >= minRequired*2:
		f.Advice = "Excellent budget for a comfortable trip"
	case req.TotalBudget >= minRequired*1.5:
		f.Advice = "Good budget with room for upgrades"
	default:
		f.Advice = "Budget is feasible but will be tight"
	}

	return f
}
