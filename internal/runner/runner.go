// Package runner executes scenarios, each on its own page, and collects
// their results into a models.Run.
package runner

import (
	"context"
	"fmt"
	"sync"

	"github.com/go-logr/logr"
	"golang.org/x/sync/errgroup"

	"github.com/saucedemo/swaglabs-e2e/internal/models"
	"github.com/saucedemo/swaglabs-e2e/internal/scenario"
)

// Page is a scenario page the runner closes once the scenario finishes
type Page interface {
	scenario.Page
	Close() error
}

// PageFactory opens a fresh page for one scenario
type PageFactory func(ctx context.Context) (Page, error)

// Observer is notified of every finished result. Calls are serialized.
type Observer func(result *models.ScenarioResult)

// Runner runs scenarios independently of each other
type Runner struct {
	newPage   PageFactory
	settings  scenario.Settings
	workers   int
	log       logr.Logger
	observers []Observer
	mu        sync.Mutex
}

// Option configures a Runner
type Option func(*Runner)

// WithWorkers sets how many scenarios may run at the same time
func WithWorkers(n int) Option {
	return func(r *Runner) {
		if n > 0 {
			r.workers = n
		}
	}
}

// WithLogger sets the logger
func WithLogger(log logr.Logger) Option {
	return func(r *Runner) {
		r.log = log
	}
}

// WithObserver registers an observer for finished results
func WithObserver(o Observer) Option {
	return func(r *Runner) {
		r.observers = append(r.observers, o)
	}
}

// New creates a Runner
func New(newPage PageFactory, settings scenario.Settings, opts ...Option) *Runner {
	r := &Runner{
		newPage:  newPage,
		settings: settings,
		workers:  1,
		log:      logr.Discard(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run executes scenarios and returns the finished run. Results are in the
// order of scenarios regardless of completion order. A failing scenario never
// stops the others; cancelling ctx fails the scenarios that have not finished.
func (r *Runner) Run(ctx context.Context, scenarios []scenario.Scenario) *models.Run {
	run := models.NewRun()
	run.Results = make([]*models.ScenarioResult, len(scenarios))

	r.log.Info("starting run", "run", run.ID, "scenarios", len(scenarios), "workers", r.workers)

	// A plain group: one scenario's failure must not cancel its siblings.
	var g errgroup.Group
	g.SetLimit(r.workers)
	for i, sc := range scenarios {
		i, sc := i, sc
		g.Go(func() error {
			result := r.runOne(ctx, run.ID, sc)
			run.Results[i] = result
			r.notify(result)
			return nil
		})
	}
	_ = g.Wait()

	run.Finish()
	passed, failed := run.Counts()
	r.log.Info("run finished", "run", run.ID, "passed", passed, "failed", failed, "duration", run.Duration())
	return run
}

func (r *Runner) runOne(ctx context.Context, runID string, sc scenario.Scenario) *models.ScenarioResult {
	log := r.log.WithValues("scenario", sc.Name)
	log.V(1).Info("starting scenario")

	result, err := models.NewScenarioResult(runID, sc.Name)
	if err != nil {
		// Only reachable with an unnamed scenario.
		result = &models.ScenarioResult{RunID: runID, Scenario: sc.Name, Status: models.ResultStatusPending}
	}

	if err := r.execute(ctx, log, sc); err != nil {
		kind := scenario.KindOf(err)
		if kind == scenario.KindNone || ctx.Err() != nil {
			kind = scenario.KindAborted
		}
		_ = result.Fail(string(kind), err.Error())
		log.Info("scenario failed", "kind", kind, "error", err.Error(), "duration", result.Duration())
		return result
	}

	_ = result.Pass()
	log.Info("scenario passed", "duration", result.Duration())
	return result
}

func (r *Runner) execute(ctx context.Context, log logr.Logger, sc scenario.Scenario) (err error) {
	if err := ctx.Err(); err != nil {
		return &scenario.StepError{Step: "start", Kind: scenario.KindAborted, Err: err}
	}

	page, err := r.newPage(ctx)
	if err != nil {
		return &scenario.StepError{Step: "open page", Kind: scenario.KindAborted, Err: err}
	}
	defer func() {
		if closeErr := page.Close(); closeErr != nil {
			log.Error(closeErr, "failed to close page")
		}
	}()

	defer func() {
		if p := recover(); p != nil {
			err = &scenario.StepError{
				Step: "run",
				Kind: scenario.KindAborted,
				Err:  fmt.Errorf("%w: panic: %v", scenario.ErrAborted, p),
			}
		}
	}()

	return sc.Run(ctx, page, r.settings)
}

func (r *Runner) notify(result *models.ScenarioResult) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, o := range r.observers {
		o(result)
	}
}
