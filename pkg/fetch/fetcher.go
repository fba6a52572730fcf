// Package fetch fans trip searches out across category providers with
// per-category timeouts, retries and synthetic fallback.
package fetch

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/Gobusters/ectologger"

	"github.com/wayline/wayline/pkg/metrics"
	"github.com/wayline/wayline/pkg/models"
	"github.com/wayline/wayline/pkg/providers"
)

// DefaultConcurrency is the default number of concurrent category fetches
const DefaultConcurrency = 8

// Task is one named category fetch within a fan-out.
type Task struct {
	// Name keys the result; distinct tasks may share a category
	// (outbound and return flight fetches).
	Name     string
	Criteria models.SearchCriteria
}

// Outcome collects the fan-out results.
type Outcome struct {
	// Results holds successful fetches keyed by task name.
	Results map[string]*models.ProviderResult

	// Failed lists categories whose fetch exhausted retries with no
	// fallback available.
	Failed []models.Category

	// Fallbacks lists categories served by the synthetic provider.
	Fallbacks []models.Category
}

// Config holds fetcher configuration
type Config struct {
	// Timeout bounds a single category fetch including retries.
	Timeout time.Duration

	Retry RetryConfig

	Concurrency int

	// SyntheticFallback substitutes generated data when a provider
	// exhausts retries.
	SyntheticFallback bool
}

// Fetcher executes provider fan-outs.
type Fetcher struct {
	registry *providers.Registry
	cfg      Config
	logger   ectologger.Logger
}

// NewFetcher creates a new fetcher
func NewFetcher(registry *providers.Registry, cfg Config, logger ectologger.Logger) *Fetcher {
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = DefaultConcurrency
	}
	return &Fetcher{
		registry: registry,
		cfg:      cfg,
		logger:   logger,
	}
}

// FetchOne runs a single task synchronously with the same retry and fallback
// policy as the fan-out. Used by the pairer's reverse one-way fetch.
func (f *Fetcher) FetchOne(ctx context.Context, task Task) (*models.ProviderResult, error) {
	res := f.run(ctx, task)
	return res.result, res.err
}

// Fetch runs every task concurrently and collects results. A failed category
// never fails the fan-out; it lands in Outcome.Failed instead. The context
// cancels all in-flight work.
func (f *Fetcher) Fetch(ctx context.Context, tasks []Task) *Outcome {
	outcome := &Outcome{Results: make(map[string]*models.ProviderResult, len(tasks))}
	if len(tasks) == 0 {
		return outcome
	}

	concurrency := f.cfg.Concurrency
	if concurrency > len(tasks) {
		concurrency = len(tasks)
	}

	f.logger.WithContext(ctx).Infof("Fetching %d categories with concurrency %d", len(tasks), concurrency)

	taskChan := make(chan indexedTask, len(tasks))
	resultChan := make(chan indexedResult, len(tasks))

	workerCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	var wg sync.WaitGroup
	for i := 0; i < concurrency; i++ {
		wg.Add(1)
		go f.worker(workerCtx, &wg, taskChan, resultChan)
	}

	go func() {
		for i, task := range tasks {
			select {
			case <-workerCtx.Done():
				return
			case taskChan <- indexedTask{index: i, task: task}:
			}
		}
		close(taskChan)
	}()

	go func() {
		wg.Wait()
		close(resultChan)
	}()

	for res := range resultChan {
		task := tasks[res.index]
		if res.err != nil {
			outcome.Failed = append(outcome.Failed, task.Criteria.Category)
			continue
		}
		outcome.Results[task.Name] = res.result
		if res.fallback {
			outcome.Fallbacks = append(outcome.Fallbacks, task.Criteria.Category)
		}
	}

	return outcome
}

type indexedTask struct {
	index int
	task  Task
}

type indexedResult struct {
	index    int
	result   *models.ProviderResult
	fallback bool
	err      error
}

func (f *Fetcher) worker(ctx context.Context, wg *sync.WaitGroup, tasks <-chan indexedTask, results chan<- indexedResult) {
	defer wg.Done()

	for item := range tasks {
		select {
		case <-ctx.Done():
			return
		default:
		}

		res := f.run(ctx, item.task)
		res.index = item.index
		results <- res
	}
}

// run executes one task with timeout, retries and fallback.
func (f *Fetcher) run(ctx context.Context, task Task) indexedResult {
	cat := task.Criteria.Category

	client := f.registry.For(cat)
	if client == nil {
		return f.fallback(ctx, task, fmt.Errorf("no provider registered for category %s", cat))
	}

	fetchCtx := ctx
	var cancel context.CancelFunc
	if f.cfg.Timeout > 0 {
		fetchCtx, cancel = context.WithTimeout(ctx, f.cfg.Timeout)
		defer cancel()
	}

	var lastErr error
	attempts := f.cfg.Retry.MaxRetries + 1
	for attempt := 1; attempt <= attempts; attempt++ {
		result, err := client.Search(fetchCtx, task.Criteria)
		if err == nil {
			return indexedResult{result: result}
		}
		lastErr = err

		if !providers.IsTransient(err) || attempt == attempts {
			break
		}
		if fetchCtx.Err() != nil {
			lastErr = fetchCtx.Err()
			break
		}

		delay := CalculateBackoff(f.cfg.Retry, attempt)
		f.logger.WithContext(ctx).WithError(err).Warnf("Fetch %s failed (attempt %d/%d), retrying in %s", task.Name, attempt, attempts, delay)

		select {
		case <-fetchCtx.Done():
			lastErr = fetchCtx.Err()
		case <-time.After(delay):
			continue
		}
		break
	}

	metrics.ProviderFailuresTotal.WithLabelValues(string(cat)).Inc()
	return f.fallback(ctx, task, lastErr)
}

// fallback substitutes synthetic data when enabled; otherwise the failure
// stands.
func (f *Fetcher) fallback(ctx context.Context, task Task, cause error) indexedResult {
	cat := task.Criteria.Category

	if !f.cfg.SyntheticFallback {
		f.logger.WithContext(ctx).WithError(cause).Errorf("Fetch %s failed with no fallback", task.Name)
		return indexedResult{err: cause}
	}

	synth := providers.NewSyntheticProvider(cat, f.logger)
	result, err := synth.Search(ctx, task.Criteria)
	if err != nil {
		f.logger.WithContext(ctx).WithError(cause).Errorf("Fetch %s failed and fallback errored: %v", task.Name, err)
		return indexedResult{err: cause}
	}

	metrics.FallbacksTotal.WithLabelValues(string(cat)).Inc()
	f.logger.WithContext(ctx).WithError(cause).Warnf("Fetch %s failed, substituting synthetic data", task.Name)

	return indexedResult{result: result, fallback: true}
}
