package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/saucedemo/swaglabs-e2e/internal/database"
	"github.com/saucedemo/swaglabs-e2e/internal/models"
)

// ErrRunNotFound is returned when no results exist for a run id
var ErrRunNotFound = errors.New("run not found")

// ResultRepository stores scenario results for run history
type ResultRepository struct {
	db *sql.DB
}

// NewResultRepository creates a repository on the global connection
func NewResultRepository() *ResultRepository {
	return &ResultRepository{
		db: database.DB,
	}
}

// NewResultRepositoryWithDB creates a repository with a specific database connection
func NewResultRepositoryWithDB(db *sql.DB) *ResultRepository {
	return &ResultRepository{
		db: db,
	}
}

// execer is satisfied by both *sql.DB and *sql.Tx
type execer interface {
	Exec(query string, args ...any) (sql.Result, error)
}

const insertResult = `
	INSERT INTO scenario_results (id, run_id, scenario, status, failure_kind, message, started_at, finished_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
`

const selectResults = `
	SELECT id, run_id, scenario, status, failure_kind, message, started_at, finished_at
	FROM scenario_results
`

func saveResult(db execer, result *models.ScenarioResult) error {
	var finishedAt sql.NullTime
	if !result.FinishedAt.IsZero() {
		finishedAt = sql.NullTime{Time: result.FinishedAt, Valid: true}
	}

	_, err := db.Exec(insertResult,
		result.ID,
		result.RunID,
		result.Scenario,
		result.Status,
		result.FailureKind,
		result.Message,
		result.StartedAt,
		finishedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save result for %s: %w", result.Scenario, err)
	}
	return nil
}

// SaveRun inserts every result of a run in one transaction
func (r *ResultRepository) SaveRun(run *models.Run) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	for _, result := range run.Results {
		if err := saveResult(tx, result); err != nil {
			tx.Rollback()
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit run %s: %w", run.ID, err)
	}
	return nil
}

// GetRun returns the results recorded for a run in scenario start order
func (r *ResultRepository) GetRun(runID string) ([]*models.ScenarioResult, error) {
	results, err := r.query(selectResults+`WHERE run_id = $1 ORDER BY started_at, scenario`, runID)
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
	}
	return results, nil
}

// ListRecent returns the most recent results, newest first
func (r *ResultRepository) ListRecent(limit int) ([]*models.ScenarioResult, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("limit must be positive, got %d", limit)
	}
	return r.query(selectResults+`ORDER BY started_at DESC, scenario LIMIT $1`, limit)
}

func (r *ResultRepository) query(query string, args ...any) ([]*models.ScenarioResult, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query results: %w", err)
	}
	defer rows.Close()

	var results []*models.ScenarioResult
	for rows.Next() {
		result := &models.ScenarioResult{}
		var finishedAt sql.NullTime
		if err := rows.Scan(
			&result.ID,
			&result.RunID,
			&result.Scenario,
			&result.Status,
			&result.FailureKind,
			&result.Message,
			&result.StartedAt,
			&finishedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan result: %w", err)
		}
		if finishedAt.Valid {
			result.FinishedAt = finishedAt.Time
		}
		results = append(results, result)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read results: %w", err)
	}
	return results, nil
}
