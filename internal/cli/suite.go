package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-logr/logr"

	"github.com/saucedemo/swaglabs-e2e/internal/config"
	"github.com/saucedemo/swaglabs-e2e/internal/models"
	"github.com/saucedemo/swaglabs-e2e/internal/report"
	"github.com/saucedemo/swaglabs-e2e/internal/runner"
	"github.com/saucedemo/swaglabs-e2e/internal/scenario"
)

// Recorder persists finished runs
type Recorder interface {
	SaveRun(run *models.Run) error
}

// SuiteDependencies holds everything needed to run the suite
type SuiteDependencies struct {
	Config    *config.SuiteConfig
	Scenarios []scenario.Scenario
	NewPage   runner.PageFactory
	// Recorder is optional; nil skips run history
	Recorder Recorder
	Logger   logr.Logger
	// Out receives the report
	Out io.Writer
	// Progress receives the progress bar; nil disables it
	Progress io.Writer
}

// RunSuite executes the selected scenarios and writes the report. The
// returned error is only about infrastructure; scenario failures are
// reported through the run.
func RunSuite(ctx context.Context, deps SuiteDependencies) (*models.Run, error) {
	opts := []runner.Option{
		runner.WithWorkers(deps.Config.Workers),
		runner.WithLogger(deps.Logger),
	}

	var progress *report.Progress
	if deps.Progress != nil {
		progress = report.NewProgress(deps.Progress, len(deps.Scenarios))
		opts = append(opts, runner.WithObserver(progress.Observe))
	}

	r := runner.New(deps.NewPage, scenario.NewSettings(deps.Config), opts...)
	run := r.Run(ctx, deps.Scenarios)

	if progress != nil {
		progress.Finish()
	}
	report.Write(deps.Out, run)

	if deps.Recorder != nil {
		if err := deps.Recorder.SaveRun(run); err != nil {
			return run, fmt.Errorf("failed to record run %s: %w", run.ID, err)
		}
		deps.Logger.V(1).Info("run recorded", "run", run.ID)
	}

	return run, nil
}

// CancelOnSignal returns a context cancelled when a shutdown signal arrives.
// If shutdown is nil, a channel is created and registered with signal.Notify.
func CancelOnSignal(parent context.Context, shutdown chan os.Signal, log logr.Logger) (context.Context, context.CancelFunc) {
	notify := shutdown == nil
	if notify {
		shutdown = make(chan os.Signal, 1)
		signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)
	}

	ctx, cancel := context.WithCancel(parent)
	go func() {
		select {
		case sig := <-shutdown:
			log.Info("received signal, cancelling remaining scenarios", "signal", sig.String())
			cancel()
		case <-ctx.Done():
		}
	}()

	return ctx, func() {
		if notify {
			signal.Stop(shutdown)
		}
		cancel()
	}
}
