// Package planner runs the end-to-end plan build: fan-out, normalization,
// pairing, allocation, optimization and consolidation.
package planner

import (
	"context"
	"time"

	"github.com/Gobusters/ectologger"
	"github.com/google/uuid"

	planrepo "github.com/wayline/wayline/internal/repositories/plan"
	"github.com/wayline/wayline/pkg/budget"
	"github.com/wayline/wayline/pkg/cache"
	"github.com/wayline/wayline/pkg/consolidate"
	"github.com/wayline/wayline/pkg/events"
	"github.com/wayline/wayline/pkg/fetch"
	"github.com/wayline/wayline/pkg/metrics"
	"github.com/wayline/wayline/pkg/models"
	"github.com/wayline/wayline/pkg/normalize"
	"github.com/wayline/wayline/pkg/optimizer"
	"github.com/wayline/wayline/pkg/pairing"
	"github.com/wayline/wayline/pkg/tracing"
)

// Task names inside the provider fan-out.
const (
	taskFlight     = "flight"
	taskLodging    = "lodging"
	taskActivities = "activities"
	taskWeather    = "weather"
)

// Service is the plan build pipeline.
type Service struct {
	fetcher      *fetch.Fetcher
	normalizer   *normalize.Normalizer
	pairer       *pairing.Pairer
	optimizer    *optimizer.Optimizer
	consolidator *consolidate.Consolidator
	planCache    *cache.PlanCache
	repo         *planrepo.Repository
	emitter      *events.Emitter
	logger       ectologger.Logger
}

// NewService creates a new planner service. The cache, repository and emitter
// are optional; nil disables the corresponding side effect.
func NewService(
	fetcher *fetch.Fetcher,
	normalizer *normalize.Normalizer,
	pairer *pairing.Pairer,
	opt *optimizer.Optimizer,
	consolidator *consolidate.Consolidator,
	planCache *cache.PlanCache,
	repo *planrepo.Repository,
	emitter *events.Emitter,
	logger ectologger.Logger,
) *Service {
	return &Service{
		fetcher:      fetcher,
		normalizer:   normalizer,
		pairer:       pairer,
		optimizer:    opt,
		consolidator: consolidator,
		planCache:    planCache,
		repo:         repo,
		emitter:      emitter,
		logger:       logger,
	}
}

// BuildPlan runs the full pipeline for one trip request. Provider failures
// degrade the result; only validation and persistence problems are errors.
func (s *Service) BuildPlan(ctx context.Context, req models.TripRequest, personalization consolidate.Personalization) (*models.ConsolidatedItinerary, error) {
	ctx, span := tracing.StartSpan(ctx, "planner.Service.BuildPlan")
	defer span.End()

	start := time.Now()

	if err := ValidateRequest(req); err != nil {
		metrics.PlansTotal.WithLabelValues("error").Inc()
		return nil, err
	}

	if req.ID == "" {
		req.ID = uuid.New().String()
	}

	if cached := s.planCache.Get(ctx, req); cached != nil {
		s.logger.WithContext(ctx).Infof("Serving cached plan for %s -> %s", req.Origin, req.Destination)
		cached.RequestID = req.ID
		return cached, nil
	}

	outcome := s.fetcher.Fetch(ctx, buildTasks(req))
	if err := ctx.Err(); err != nil {
		// Caller went away; partial results are discarded, not returned.
		metrics.PlansTotal.WithLabelValues("error").Inc()
		return nil, err
	}

	pool, weather, provenance := s.assemble(ctx, req, outcome)

	tiers := s.optimizer.BuildTiers(ctx, req, pool)

	itinerary := s.consolidator.Consolidate(ctx, consolidate.Input{
		Request:         req,
		Tiers:           tiers,
		Weather:         weather,
		Provenance:      provenance,
		Feasibility:     budget.AnalyzeFeasibility(req),
		Personalization: personalization,
	})

	s.finish(ctx, req, &itinerary)

	metrics.PlanDuration.Observe(time.Since(start).Seconds())
	return &itinerary, nil
}

// buildTasks lists the concurrent category fetches for a request.
func buildTasks(req models.TripRequest) []fetch.Task {
	flightCriteria := models.SearchCriteria{
		Category:    models.CategoryFlight,
		Origin:      req.Origin,
		Destination: req.Destination,
		Date:        req.StartDate,
		EndDate:     req.EndDate,
		Direction:   models.DirectionOutbound,
		Passengers:  req.PassengerCount,
		RoundTrip:   !req.OneWay,
	}

	return []fetch.Task{
		{Name: taskFlight, Criteria: flightCriteria},
		{Name: taskLodging, Criteria: models.SearchCriteria{
			Category:    models.CategoryLodging,
			Destination: req.Destination,
			Date:        req.StartDate,
			EndDate:     req.EndDate,
			Passengers:  req.PassengerCount,
			Preferences: req.Preferences,
		}},
		{Name: taskActivities, Criteria: models.SearchCriteria{
			Category:    models.CategoryActivities,
			Destination: req.Destination,
			Date:        req.StartDate,
			EndDate:     req.EndDate,
			Preferences: req.Preferences,
		}},
		{Name: taskWeather, Criteria: models.SearchCriteria{
			Category:    models.CategoryWeather,
			Destination: req.Destination,
			Date:        req.StartDate,
			EndDate:     req.EndDate,
		}},
	}
}

// assemble normalizes the fan-out results into the optimizer's candidate pool
// and the provenance block.
func (s *Service) assemble(ctx context.Context, req models.TripRequest, outcome *fetch.Outcome) (optimizer.Candidates, []models.WeatherDay, models.Provenance) {
	provenance := models.Provenance{
		Providers:       make(map[models.Category]string),
		ProvidersFailed: outcome.Failed,
		SkippedRecords:  make(map[models.Category]int),
	}
	provenance.FallbackCategories = append(provenance.FallbackCategories, outcome.Fallbacks...)

	var pool optimizer.Candidates
	var weather []models.WeatherDay

	if result, ok := outcome.Results[taskFlight]; ok {
		provenance.Providers[models.CategoryFlight] = result.ProviderID

		flightCriteria := buildTasks(req)[0].Criteria
		pairs, skipped := s.pairer.Pair(ctx, flightCriteria, result, req.OneWay)
		pool.Flights = pairs
		if skipped > 0 {
			provenance.SkippedRecords[models.CategoryFlight] = skipped
		}
	}

	if result, ok := outcome.Results[taskLodging]; ok {
		provenance.Providers[models.CategoryLodging] = result.ProviderID
		lodgings, skipped := s.normalizer.Lodging(ctx, result, req.DurationDays())
		pool.Lodgings = lodgings
		if skipped > 0 {
			provenance.SkippedRecords[models.CategoryLodging] = skipped
		}
	}

	if result, ok := outcome.Results[taskActivities]; ok {
		provenance.Providers[models.CategoryActivities] = result.ProviderID
		activities, skipped := s.normalizer.Activities(ctx, result)
		pool.Activities = activities
		if skipped > 0 {
			provenance.SkippedRecords[models.CategoryActivities] = skipped
		}
	}

	if result, ok := outcome.Results[taskWeather]; ok {
		provenance.Providers[models.CategoryWeather] = result.ProviderID
		days, skipped := s.normalizer.Weather(ctx, result)
		weather = days
		if skipped > 0 {
			provenance.SkippedRecords[models.CategoryWeather] = skipped
		}
	}

	return pool, weather, provenance
}

// finish persists, caches and announces the result. Side-effect failures are
// logged, never surfaced: the itinerary is already built.
func (s *Service) finish(ctx context.Context, req models.TripRequest, itinerary *models.ConsolidatedItinerary) {
	itinerary.Provenance.GeneratedAt = time.Now().UTC()

	planID := req.ID
	if s.repo != nil {
		record, err := s.repo.Create(ctx, req, *itinerary)
		if err != nil {
			s.logger.WithContext(ctx).WithError(err).Warn("Plan persistence failed")
		} else {
			planID = record.ID
		}
	}

	if s.emitter != nil {
		if err := s.emitter.EmitPlanBuilt(ctx, planID, itinerary); err != nil {
			s.logger.WithContext(ctx).WithError(err).Warn("Plan event emission failed")
		}
	}

	s.planCache.Set(ctx, req, itinerary)

	switch {
	case !itinerary.Viable:
		metrics.PlansTotal.WithLabelValues("unviable").Inc()
	case len(itinerary.Provenance.ProvidersFailed) > 0 || len(itinerary.Provenance.FallbackCategories) > 0 || itinerary.Provenance.IncompleteFlights:
		metrics.PlansTotal.WithLabelValues("degraded").Inc()
	default:
		metrics.PlansTotal.WithLabelValues("built").Inc()
	}
}

// GetPlan loads a stored plan by id.
func (s *Service) GetPlan(ctx context.Context, id string) (*planrepo.Record, error) {
	ctx, span := tracing.StartSpan(ctx, "planner.Service.GetPlan")
	defer span.End()

	return s.repo.Get(ctx, id)
}

// ListRecentPlans returns the latest stored plans.
func (s *Service) ListRecentPlans(ctx context.Context, limit int) ([]planrepo.Record, error) {
	ctx, span := tracing.StartSpan(ctx, "planner.Service.ListRecentPlans")
	defer span.End()

	return s.repo.ListRecent(ctx, limit)
}
