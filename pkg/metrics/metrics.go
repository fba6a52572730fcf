// Package metrics provides Prometheus metrics for the Wayline service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// PlansTotal tracks plan builds by outcome (built, degraded, unviable, error)
	PlansTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "wayline",
			Subsystem: "planner",
			Name:      "plans_total",
			Help:      "Total number of plan builds by outcome",
		},
		[]string{"outcome"},
	)

	// PlanDuration tracks end-to-end plan build duration in seconds
	PlanDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "wayline",
			Subsystem: "planner",
			Name:      "plan_duration_seconds",
			Help:      "Duration of end-to-end plan builds in seconds",
			Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60},
		},
	)

	// ProviderRequestsTotal tracks outbound provider HTTP requests
	ProviderRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "wayline",
			Subsystem: "provider",
			Name:      "requests_total",
			Help:      "Total number of outbound provider requests",
		},
		[]string{"host", "status_code"},
	)

	// ProviderRequestDuration tracks outbound provider request duration
	ProviderRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "wayline",
			Subsystem: "provider",
			Name:      "request_duration_seconds",
			Help:      "Duration of outbound provider requests in seconds",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"host"},
	)

	// ProviderFailuresTotal tracks category fetches that exhausted retries
	ProviderFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "wayline",
			Subsystem: "provider",
			Name:      "failures_total",
			Help:      "Total number of category fetches that exhausted retries",
		},
		[]string{"category"},
	)

	// FallbacksTotal tracks synthetic fallback substitutions by category
	FallbacksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "wayline",
			Subsystem: "provider",
			Name:      "fallbacks_total",
			Help:      "Total number of synthetic fallback substitutions",
		},
		[]string{"category"},
	)

	// SkippedRecordsTotal tracks malformed provider records dropped by the normalizer
	SkippedRecordsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "wayline",
			Subsystem: "normalizer",
			Name:      "skipped_records_total",
			Help:      "Total number of malformed provider records skipped",
		},
		[]string{"category"},
	)

	// IncompletePairingsTotal tracks round trips returned without a return leg
	IncompletePairingsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "wayline",
			Subsystem: "pairing",
			Name:      "incomplete_total",
			Help:      "Total number of round trips returned without a paired return leg",
		},
	)

	// BudgetRelaxationsTotal tracks one-shot ceiling relaxations by category
	BudgetRelaxationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "wayline",
			Subsystem: "budget",
			Name:      "relaxations_total",
			Help:      "Total number of one-shot budget ceiling relaxations",
		},
		[]string{"category"},
	)

	// UnsatisfiedCategoriesTotal tracks category selection failures per tier
	UnsatisfiedCategoriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "wayline",
			Subsystem: "optimizer",
			Name:      "unsatisfied_total",
			Help:      "Total number of category selection failures",
		},
		[]string{"tier", "category"},
	)

	// CacheHitsTotal tracks plan cache hits and misses
	CacheHitsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "wayline",
			Subsystem: "cache",
			Name:      "lookups_total",
			Help:      "Total number of plan cache lookups by result",
		},
		[]string{"result"},
	)
)
