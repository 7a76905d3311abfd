package models

import (
	"time"

	"github.com/google/uuid"
)

// Run groups the results of one suite execution
type Run struct {
	ID         string
	StartedAt  time.Time
	FinishedAt time.Time
	Results    []*ScenarioResult
}

// NewRun creates an empty run
func NewRun() *Run {
	return &Run{
		ID:        uuid.New().String(),
		StartedAt: time.Now(),
	}
}

// Finish records the end time of the run
func (r *Run) Finish() {
	r.FinishedAt = time.Now()
}

// Duration returns the wall time of the run
func (r *Run) Duration() time.Duration {
	if r.FinishedAt.IsZero() {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}

// Counts returns the number of passed and failed results
func (r *Run) Counts() (passed, failed int) {
	for _, result := range r.Results {
		switch result.Status {
		case ResultStatusPassed:
			passed++
		case ResultStatusFailed:
			failed++
		}
	}
	return passed, failed
}

// Failed returns true if any scenario in the run failed
func (r *Run) Failed() bool {
	_, failed := r.Counts()
	return failed > 0
}

// ExitCode returns the process exit status for the run
func (r *Run) ExitCode() int {
	if r.Failed() {
		return 1
	}
	return 0
}
