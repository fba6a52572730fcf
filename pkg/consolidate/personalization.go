package consolidate

import (
	"fmt"

	"github.com/wayline/wayline/pkg/models"
)

// Personalization maps category-qualified candidate ids to scalar re-rank
// weights supplied by an external recommendation model. The scalar is opaque;
// a missing entry weighs 1, so a nil map behaves exactly like an all-ones
// weighting.
type Personalization map[string]float64

// Key builds the lookup key for a candidate.
func Key(cat models.Category, candidateID string) string {
	return fmt.Sprintf("%s:%s", cat, candidateID)
}

// Weight returns the re-rank scalar for a candidate, defaulting to 1.
func (p Personalization) Weight(cat models.Category, candidateID string) float64 {
	if p == nil {
		return 1
	}
	if w, ok := p[Key(cat, candidateID)]; ok && w > 0 {
		return w
	}
	return 1
}

// tierWeight averages the scalars of every candidate selected in a tier.
func (p Personalization) tierWeight(plan models.TierPlan) float64 {
	var sum float64
	var count int

	if plan.Flight != nil {
		sum += p.Weight(models.CategoryFlight, plan.Flight.CandidateID())
		count++
	}
	if plan.Lodging != nil {
		sum += p.Weight(models.CategoryLodging, plan.Lodging.CandidateID())
		count++
	}
	for _, a := range plan.Activities {
		sum += p.Weight(models.CategoryActivities, a.CandidateID())
		count++
	}

	if count == 0 {
		return 1
	}
	return sum / float64(count)
}
