package optimizer

import (
	"github.com/Gobusters/ectolinq"

	"github.com/wayline/wayline/pkg/models"
)

// ScoreWeights balance the three candidate signals. They should sum to 1.
type ScoreWeights struct {
	Price   float64
	Quality float64
	Fit     float64
}

// DefaultScoreWeights returns the standard scoring weights
func DefaultScoreWeights() ScoreWeights {
	return ScoreWeights{Price: 0.5, Quality: 0.3, Fit: 0.2}
}

// forTier shifts weight between price and quality to match the tier's intent:
// budget hunts for cheap, luxury hunts for quality. The fit share is fixed.
func (w ScoreWeights) forTier(tier models.ComfortTier) ScoreWeights {
	shifted := w
	switch tier {
	case models.TierBudget:
		shifted.Price += 0.15
		shifted.Quality -= 0.15
	case models.TierComfort:
		shifted.Price -= 0.10
		shifted.Quality += 0.10
	case models.TierLuxury:
		shifted.Price -= 0.20
		shifted.Quality += 0.20
	}
	if shifted.Quality < 0 {
		shifted.Quality = 0
	}
	return shifted
}

// scoreAll ranks candidates with min-max normalized price and quality plus
// preference fit. Higher is better; cheap high-quality well-fitting
// candidates win.
func scoreAll[C models.Candidate](candidates []C, weights ScoreWeights, preferences []string) []float64 {
	if len(candidates) == 0 {
		return nil
	}

	minPrice, maxPrice := candidates[0].Price(), candidates[0].Price()
	minQuality, maxQuality := candidates[0].Quality(), candidates[0].Quality()
	for _, c := range candidates[1:] {
		minPrice = min(minPrice, c.Price())
		maxPrice = max(maxPrice, c.Price())
		minQuality = min(minQuality, c.Quality())
		maxQuality = max(maxQuality, c.Quality())
	}

	scores := make([]float64, len(candidates))
	for i, c := range candidates {
		priceScore := 1.0
		if maxPrice > minPrice {
			priceScore = 1 - (c.Price()-minPrice)/(maxPrice-minPrice)
		}

		qualityScore := 1.0
		if maxQuality > minQuality {
			qualityScore = (c.Quality() - minQuality) / (maxQuality - minQuality)
		}

		scores[i] = weights.Price*priceScore +
			weights.Quality*qualityScore +
			weights.Fit*fitScore(c.MatchTags(), preferences)
	}

	return scores
}

// fitScore is the fraction of requested preferences the candidate's tags
// cover. Candidates without tags are neutral rather than penalized.
func fitScore(tags, preferences []string) float64 {
	if len(preferences) == 0 || len(tags) == 0 {
		return 0.5
	}

	matched := 0
	for _, pref := range preferences {
		if ectolinq.Contains(tags, pref) {
			matched++
		}
	}

	return float64(matched) / float64(len(preferences))
}
