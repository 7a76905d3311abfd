package models

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ResultStatus represents valid scenario result states
type ResultStatus string

// Result statuses
const (
	ResultStatusPending ResultStatus = "pending"
	ResultStatusPassed  ResultStatus = "passed"
	ResultStatusFailed  ResultStatus = "failed"
)

// ScenarioResult is the outcome of one scenario within a run
type ScenarioResult struct {
	ID          string
	RunID       string
	Scenario    string
	Status      ResultStatus
	FailureKind string
	Message     string
	StartedAt   time.Time
	FinishedAt  time.Time
}

// Domain errors
var (
	ErrInvalidScenarioName     = errors.New("scenario name cannot be empty")
	ErrInvalidRunID            = errors.New("run id cannot be empty")
	ErrInvalidStatusTransition = errors.New("invalid result status transition")
)

// NewScenarioResult creates a pending result for a scenario in a run
func NewScenarioResult(runID, scenario string) (*ScenarioResult, error) {
	if runID == "" {
		return nil, ErrInvalidRunID
	}
	if scenario == "" {
		return nil, ErrInvalidScenarioName
	}

	return &ScenarioResult{
		ID:        uuid.New().String(),
		RunID:     runID,
		Scenario:  scenario,
		Status:    ResultStatusPending,
		StartedAt: time.Now(),
	}, nil
}

// Pass marks the result as passed
func (r *ScenarioResult) Pass() error {
	if r.Status != ResultStatusPending {
		return fmt.Errorf("%w: cannot pass result with status %s", ErrInvalidStatusTransition, r.Status)
	}

	r.Status = ResultStatusPassed
	r.FinishedAt = time.Now()
	return nil
}

// Fail marks the result as failed with a failure kind and message
func (r *ScenarioResult) Fail(kind, message string) error {
	if r.Status != ResultStatusPending {
		return fmt.Errorf("%w: cannot fail result with status %s", ErrInvalidStatusTransition, r.Status)
	}

	r.Status = ResultStatusFailed
	r.FailureKind = kind
	r.Message = message
	r.FinishedAt = time.Now()
	return nil
}

// IsPassed returns true if the scenario passed
func (r *ScenarioResult) IsPassed() bool {
	return r.Status == ResultStatusPassed
}

// IsFailed returns true if the scenario failed
func (r *ScenarioResult) IsFailed() bool {
	return r.Status == ResultStatusFailed
}

// Duration returns how long the scenario ran, or zero while pending
func (r *ScenarioResult) Duration() time.Duration {
	if r.FinishedAt.IsZero() {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}
