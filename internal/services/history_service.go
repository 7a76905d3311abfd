package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/saucedemo/swaglabs-e2e/internal/models"
)

// ErrRunNotFinished is returned when recording a run that is still going
var ErrRunNotFinished = errors.New("run has not finished")

// ErrInvalidLimit is returned for a non-positive history limit
var ErrInvalidLimit = errors.New("limit must be positive")

// ResultRepository defines the interface for run history persistence
type ResultRepository interface {
	SaveRun(run *models.Run) error
	GetRun(runID string) ([]*models.ScenarioResult, error)
	ListRecent(limit int) ([]*models.ScenarioResult, error)
}

// HistoryService handles recording and reading scenario results
type HistoryService interface {
	SaveRun(run *models.Run) error
	Run(runID string) ([]*models.ScenarioResult, error)
	Recent(limit int) ([]*models.ScenarioResult, error)
}

// HistoryServiceImpl implements HistoryService
type HistoryServiceImpl struct {
	repo ResultRepository
}

// NewHistoryService creates a new history service
func NewHistoryService(repo ResultRepository) HistoryService {
	return &HistoryServiceImpl{
		repo: repo,
	}
}

// SaveRun persists a finished run. Results still pending are not stored.
func (s *HistoryServiceImpl) SaveRun(run *models.Run) error {
	if run.FinishedAt.IsZero() {
		return fmt.Errorf("run %s: %w", run.ID, ErrRunNotFinished)
	}

	settled := &models.Run{
		ID:         run.ID,
		StartedAt:  run.StartedAt,
		FinishedAt: run.FinishedAt,
	}
	for _, result := range run.Results {
		if result.IsPassed() || result.IsFailed() {
			settled.Results = append(settled.Results, result)
		}
	}
	if len(settled.Results) == 0 {
		return nil
	}

	if err := s.repo.SaveRun(settled); err != nil {
		return fmt.Errorf("failed to record run: %w", err)
	}
	return nil
}

// Run retrieves the results of one run
func (s *HistoryServiceImpl) Run(runID string) ([]*models.ScenarioResult, error) {
	if runID == "" {
		return nil, models.ErrInvalidRunID
	}
	if _, err := uuid.Parse(runID); err != nil {
		return nil, fmt.Errorf("%w: %q", models.ErrInvalidRunID, runID)
	}
	results, err := s.repo.GetRun(runID)
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}
	return results, nil
}

// Recent retrieves the latest results across runs, newest first
func (s *HistoryServiceImpl) Recent(limit int) ([]*models.ScenarioResult, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("%w, got %d", ErrInvalidLimit, limit)
	}
	results, err := s.repo.ListRecent(limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list results: %w", err)
	}
	return results, nil
}
