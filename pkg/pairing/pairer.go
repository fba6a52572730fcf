// Package pairing assembles round trips from one-way flight legs. Providers
// routinely answer a round-trip query with outbound legs only; the pairer
// detects that asymmetry, fetches the reverse direction as a one-way search,
// and pairs legs by nearest-neighbor matching.
package pairing

import (
	"context"
	"fmt"
	"sort"

	"github.com/Gobusters/ectologger"

	"github.com/wayline/wayline/pkg/fetch"
	"github.com/wayline/wayline/pkg/metrics"
	"github.com/wayline/wayline/pkg/models"
	"github.com/wayline/wayline/pkg/normalize"
)

// carbonKgPerHour is a coarse per-passenger emission estimate for display.
const carbonKgPerHour = 90

// Pairer turns raw flight results into PairedFlights.
type Pairer struct {
	fetcher    *fetch.Fetcher
	normalizer *normalize.Normalizer
	cfg        Config
	logger     ectologger.Logger
}

// NewPairer creates a new pairer
func NewPairer(fetcher *fetch.Fetcher, normalizer *normalize.Normalizer, cfg Config, logger ectologger.Logger) *Pairer {
	return &Pairer{
		fetcher:    fetcher,
		normalizer: normalizer,
		cfg:        cfg,
		logger:     logger,
	}
}

// Pair builds paired flights from the initial fetch result. The criteria must
// be the one the result was fetched with; it seeds the reverse fetch when the
// result turns out to be outbound-only. Returns the pairs plus the count of
// records the normalizer skipped.
func (p *Pairer) Pair(ctx context.Context, criteria models.SearchCriteria, result *models.ProviderResult, oneWay bool) ([]models.PairedFlight, int) {
	legs, skipped := p.normalizer.FlightLegs(ctx, result, models.DirectionOutbound)

	var outbound, returns []models.FlightLeg
	for _, leg := range legs {
		if leg.Direction == models.DirectionReturn {
			returns = append(returns, leg)
		} else {
			outbound = append(outbound, leg)
		}
	}

	if len(outbound) == 0 {
		return nil, skipped
	}

	if oneWay {
		pairs := p.oneWayPairs(outbound)
		sortPairs(pairs)
		return pairs, skipped
	}

	if len(returns) == 0 {
		p.logger.WithContext(ctx).Infof("Round-trip result is outbound-only (%d legs), fetching reverse direction", len(outbound))

		var reverseSkipped int
		returns, reverseSkipped = p.fetchReverse(ctx, criteria)
		skipped += reverseSkipped
	}

	returns = filterReturnWindow(returns, criteria)

	if len(returns) == 0 {
		// A trip with no return leg is degraded, not discarded.
		metrics.IncompletePairingsTotal.Add(float64(len(outbound)))
		p.logger.WithContext(ctx).Warn("Reverse fetch produced no return legs, marking pairs incomplete")

		pairs := p.oneWayPairs(outbound)
		for i := range pairs {
			pairs[i].Incomplete = true
		}
		sortPairs(pairs)
		return pairs, skipped
	}

	pairs := make([]models.PairedFlight, 0, len(outbound))
	incomplete := 0
	for _, out := range outbound {
		idx := p.cfg.nearest(out, returns)
		if idx < 0 {
			// Every return departs before this outbound lands.
			pair := newPair(out, nil)
			pair.Incomplete = true
			pairs = append(pairs, pair)
			incomplete++
			continue
		}
		ret := returns[idx]
		pairs = append(pairs, newPair(out, &ret))
	}

	if incomplete > 0 {
		metrics.IncompletePairingsTotal.Add(float64(incomplete))
		p.logger.WithContext(ctx).Warnf("%d outbound legs had no return departing after arrival", incomplete)
	}

	sortPairs(pairs)
	return pairs, skipped
}

// sortPairs orders pairs ascending by total price, ties by combined stops.
func sortPairs(pairs []models.PairedFlight) {
	sort.SliceStable(pairs, func(i, j int) bool {
		if pairs[i].TotalPrice != pairs[j].TotalPrice {
			return pairs[i].TotalPrice < pairs[j].TotalPrice
		}
		return pairs[i].TotalStops() < pairs[j].TotalStops()
	})
}

// fetchReverse runs the mandatory reverse one-way fetch.
func (p *Pairer) fetchReverse(ctx context.Context, criteria models.SearchCriteria) ([]models.FlightLeg, int) {
	result, err := p.fetcher.FetchOne(ctx, fetch.Task{
		Name:     "flight_return",
		Criteria: criteria.Reversed(),
	})
	if err != nil {
		p.logger.WithContext(ctx).WithError(err).Error("Reverse flight fetch failed")
		return nil, 0
	}

	return p.normalizer.FlightLegs(ctx, result, models.DirectionReturn)
}

// filterReturnWindow drops return legs departing outside the trip window.
// The window runs from the outbound date to the trip end plus one day of
// tolerance for late-night departures.
func filterReturnWindow(returns []models.FlightLeg, criteria models.SearchCriteria) []models.FlightLeg {
	if criteria.EndDate.IsZero() {
		return returns
	}

	latest := criteria.EndDate.AddDate(0, 0, 1)

	var kept []models.FlightLeg
	for _, ret := range returns {
		departs := ret.Departure.Time
		if departs.IsZero() || !departs.After(criteria.Date) || departs.After(latest) {
			continue
		}
		kept = append(kept, ret)
	}
	return kept
}

func (p *Pairer) oneWayPairs(outbound []models.FlightLeg) []models.PairedFlight {
	pairs := make([]models.PairedFlight, 0, len(outbound))
	for _, out := range outbound {
		pairs = append(pairs, newPair(out, nil))
	}
	return pairs
}

func newPair(out models.FlightLeg, ret *models.FlightLeg) models.PairedFlight {
	pair := models.PairedFlight{
		ID:          out.ID,
		TotalPrice:  out.Price,
		TravelClass: out.TravelClass,
		Outbound:    cloneLeg(out),
	}

	if ret != nil {
		pair.ID = fmt.Sprintf("%s_%s", out.ID, ret.ID)
		pair.TotalPrice += ret.Price
		pair.Return = cloneLeg(*ret)
	}

	pair.CarbonKg = pair.TotalDuration().Hours() * carbonKgPerHour
	return pair
}

func cloneLeg(leg models.FlightLeg) *models.FlightLeg {
	c := leg
	return &c
}
