package runner

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-logr/stdr"
	"github.com/google/go-cmp/cmp"

	"github.com/saucedemo/swaglabs-e2e/internal/models"
	"github.com/saucedemo/swaglabs-e2e/internal/scenario"
	"github.com/saucedemo/swaglabs-e2e/internal/scenario/scenariotest"
)

// pagePool hands out recording pages and remembers them for assertions
type pagePool struct {
	mu       sync.Mutex
	pages    []*scenariotest.Page
	failures map[string]error
	err      error
}

func (p *pagePool) factory(ctx context.Context) (Page, error) {
	if p.err != nil {
		return nil, p.err
	}
	page := scenariotest.NewPage(p.failures)
	p.mu.Lock()
	p.pages = append(p.pages, page)
	p.mu.Unlock()
	return page, nil
}

func passing(name string) scenario.Scenario {
	return scenario.New(name, "", func(ctx context.Context, page scenario.Page, s scenario.Settings) error {
		return page.Goto(ctx, s.BaseURL)
	})
}

func failing(name string, err error) scenario.Scenario {
	return scenario.New(name, "", func(ctx context.Context, page scenario.Page, s scenario.Settings) error {
		return err
	})
}

func statuses(run *models.Run) map[string]models.ResultStatus {
	out := map[string]models.ResultStatus{}
	for _, r := range run.Results {
		out[r.Scenario] = r.Status
	}
	return out
}

func TestRunner_AllScenariosPass(t *testing.T) {
	// GIVEN
	pool := &pagePool{}
	r := New(pool.factory, scenario.DefaultSettings())

	// WHEN
	run := r.Run(context.Background(), scenario.All())

	// THEN
	if run.Failed() {
		t.Fatalf("expected run to pass, results: %+v", run.Results)
	}
	if run.ExitCode() != 0 {
		t.Errorf("ExitCode() = %d, want 0", run.ExitCode())
	}
	if len(pool.pages) != len(scenario.All()) {
		t.Errorf("expected one page per scenario, got %d", len(pool.pages))
	}
	for i, page := range pool.pages {
		if !page.Closed() {
			t.Errorf("page %d was not closed", i)
		}
	}
	if run.FinishedAt.IsZero() {
		t.Error("run should be finished")
	}
}

func TestRunner_FailureIsIsolated(t *testing.T) {
	// GIVEN the badge assertion fails
	pool := &pagePool{failures: map[string]error{
		"expect-text .shopping_cart_badge = 1": fmt.Errorf("%w: got \"\"", scenario.ErrAssertionMismatch),
	}}
	r := New(pool.factory, scenario.DefaultSettings(), WithWorkers(3))

	// WHEN
	run := r.Run(context.Background(), scenario.All())

	// THEN only add-backpack fails
	want := map[string]models.ResultStatus{
		"has-title":     models.ResultStatusPassed,
		"login":         models.ResultStatusPassed,
		"about-page":    models.ResultStatusPassed,
		"shopping-cart": models.ResultStatusPassed,
		"add-backpack":  models.ResultStatusFailed,
	}
	if diff := cmp.Diff(want, statuses(run)); diff != "" {
		t.Errorf("statuses mismatch (-want +got):\n%s", diff)
	}
	if run.ExitCode() != 1 {
		t.Errorf("ExitCode() = %d, want 1", run.ExitCode())
	}

	failed := run.Results[4]
	if failed.FailureKind != string(scenario.KindAssertionMismatch) {
		t.Errorf("FailureKind = %q", failed.FailureKind)
	}
	if !strings.Contains(failed.Message, "shopping_cart_badge") {
		t.Errorf("Message = %q, want the failing step", failed.Message)
	}
}

func TestRunner_OutcomeIndependentOfSelection(t *testing.T) {
	failures := map[string]error{`click link "About"`: scenario.ErrElementNotFound}

	full := New((&pagePool{failures: failures}).factory, scenario.DefaultSettings()).Run(context.Background(), scenario.All())
	for _, sc := range scenario.All() {
		alone := New((&pagePool{failures: failures}).factory, scenario.DefaultSettings()).Run(context.Background(), []scenario.Scenario{sc})
		if got, want := alone.Results[0].Status, statuses(full)[sc.Name]; got != want {
			t.Errorf("%s alone = %s, in full run = %s", sc.Name, got, want)
		}
	}
}

func TestRunner_PreservesOrderUnderParallelism(t *testing.T) {
	var scenarios []scenario.Scenario
	var names []string
	for i := 0; i < 6; i++ {
		name := fmt.Sprintf("s%d", i)
		delay := time.Duration(6-i) * 5 * time.Millisecond
		names = append(names, name)
		scenarios = append(scenarios, scenario.New(name, "", func(ctx context.Context, page scenario.Page, s scenario.Settings) error {
			time.Sleep(delay)
			return nil
		}))
	}

	run := New((&pagePool{}).factory, scenario.DefaultSettings(), WithWorkers(6)).Run(context.Background(), scenarios)

	var got []string
	for _, r := range run.Results {
		got = append(got, r.Scenario)
	}
	if diff := cmp.Diff(names, got); diff != "" {
		t.Errorf("order mismatch (-want +got):\n%s", diff)
	}
}

func TestRunner_RespectsWorkerLimit(t *testing.T) {
	var running, peak int32
	var scenarios []scenario.Scenario
	for i := 0; i < 8; i++ {
		scenarios = append(scenarios, scenario.New(fmt.Sprintf("s%d", i), "", func(ctx context.Context, page scenario.Page, s scenario.Settings) error {
			n := atomic.AddInt32(&running, 1)
			for {
				old := atomic.LoadInt32(&peak)
				if n <= old || atomic.CompareAndSwapInt32(&peak, old, n) {
					break
				}
			}
			time.Sleep(10 * time.Millisecond)
			atomic.AddInt32(&running, -1)
			return nil
		}))
	}

	New((&pagePool{}).factory, scenario.DefaultSettings(), WithWorkers(2)).Run(context.Background(), scenarios)

	if peak > 2 {
		t.Errorf("peak concurrency = %d, want at most 2", peak)
	}
}

func TestRunner_PanicBecomesFailure(t *testing.T) {
	pool := &pagePool{}
	scenarios := []scenario.Scenario{
		scenario.New("panics", "", func(ctx context.Context, page scenario.Page, s scenario.Settings) error {
			panic("locator exploded")
		}),
		passing("after"),
	}

	run := New(pool.factory, scenario.DefaultSettings()).Run(context.Background(), scenarios)

	if run.Results[0].Status != models.ResultStatusFailed {
		t.Errorf("panicking scenario status = %s", run.Results[0].Status)
	}
	if run.Results[0].FailureKind != string(scenario.KindAborted) {
		t.Errorf("FailureKind = %q", run.Results[0].FailureKind)
	}
	if !strings.Contains(run.Results[0].Message, "locator exploded") {
		t.Errorf("Message = %q", run.Results[0].Message)
	}
	if run.Results[1].Status != models.ResultStatusPassed {
		t.Errorf("following scenario status = %s", run.Results[1].Status)
	}
	if !pool.pages[0].Closed() {
		t.Error("page of the panicking scenario was not closed")
	}
}

func TestRunner_PageFactoryError(t *testing.T) {
	pool := &pagePool{err: errors.New("browser crashed")}

	run := New(pool.factory, scenario.DefaultSettings()).Run(context.Background(), []scenario.Scenario{passing("a")})

	result := run.Results[0]
	if result.Status != models.ResultStatusFailed || result.FailureKind != string(scenario.KindAborted) {
		t.Errorf("result = %+v", result)
	}
	if !strings.Contains(result.Message, "browser crashed") {
		t.Errorf("Message = %q", result.Message)
	}
}

func TestRunner_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	pool := &pagePool{}

	run := New(pool.factory, scenario.DefaultSettings()).Run(ctx, scenario.All())

	for _, result := range run.Results {
		if result.Status != models.ResultStatusFailed || result.FailureKind != string(scenario.KindAborted) {
			t.Errorf("%s: %+v", result.Scenario, result)
		}
	}
	if len(pool.pages) != 0 {
		t.Errorf("no pages should be opened, got %d", len(pool.pages))
	}
}

// interruptingPage cancels the run when the scenario clicks and then fails
// the click with clickErr
type interruptingPage struct {
	*scenariotest.Page
	cancel   context.CancelFunc
	clickErr func(ctx context.Context) error
}

func (p *interruptingPage) Click(ctx context.Context, target scenario.Target) error {
	p.cancel()
	return p.clickErr(ctx)
}

func TestRunner_CancelledMidScenario(t *testing.T) {
	tests := []struct {
		name     string
		clickErr func(ctx context.Context) error
	}{
		{
			name:     "bare context error",
			clickErr: func(ctx context.Context) error { return ctx.Err() },
		},
		{
			name: "classified error after cancel",
			clickErr: func(ctx context.Context) error {
				return fmt.Errorf("%w: target closed", scenario.ErrElementNotFound)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// GIVEN a run interrupted while login clicks
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()
			factory := func(ctx context.Context) (Page, error) {
				return &interruptingPage{Page: scenariotest.NewPage(nil), cancel: cancel, clickErr: tt.clickErr}, nil
			}
			sc, err := scenario.Lookup("login")
			if err != nil {
				t.Fatal(err)
			}

			// WHEN
			run := New(factory, scenario.DefaultSettings()).Run(ctx, []scenario.Scenario{sc})

			// THEN
			result := run.Results[0]
			if result.Status != models.ResultStatusFailed {
				t.Fatalf("Status = %s, want failed", result.Status)
			}
			if result.FailureKind != string(scenario.KindAborted) {
				t.Errorf("FailureKind = %q, want %q (message %q)", result.FailureKind, scenario.KindAborted, result.Message)
			}
		})
	}
}

func TestRunner_UnclassifiedErrorIsAborted(t *testing.T) {
	run := New((&pagePool{}).factory, scenario.DefaultSettings()).Run(context.Background(), []scenario.Scenario{failing("raw", errors.New("raw"))})

	if got := run.Results[0].FailureKind; got != string(scenario.KindAborted) {
		t.Errorf("FailureKind = %q, want %q", got, scenario.KindAborted)
	}
}

func TestRunner_ObserversAndLogging(t *testing.T) {
	var buf strings.Builder
	var mu sync.Mutex
	logger := stdr.New(log.New(&lockedWriter{w: &buf, mu: &mu}, "", 0))

	var seen []string
	r := New((&pagePool{}).factory, scenario.DefaultSettings(),
		WithLogger(logger),
		WithWorkers(2),
		WithObserver(func(result *models.ScenarioResult) {
			seen = append(seen, result.Scenario)
		}),
	)

	run := r.Run(context.Background(), []scenario.Scenario{passing("a"), failing("b", scenario.ErrElementNotFound)})

	if len(seen) != 2 {
		t.Errorf("observer saw %v, want 2 results", seen)
	}
	mu.Lock()
	out := buf.String()
	mu.Unlock()
	for _, want := range []string{`"msg"="starting run"`, `"msg"="scenario passed"`, `"msg"="scenario failed"`, `"kind"="element-not-found"`, run.ID} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %s:\n%s", want, out)
		}
	}
}

type lockedWriter struct {
	w  *strings.Builder
	mu *sync.Mutex
}

func (l *lockedWriter) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.w.Write(p)
}
