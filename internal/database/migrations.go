package database

import (
	"database/sql"
	"fmt"
)

// Schema is the run history schema
const Schema = `
	CREATE TABLE IF NOT EXISTS scenario_results (
		id UUID PRIMARY KEY,
		run_id UUID NOT NULL,
		scenario VARCHAR(255) NOT NULL,
		status VARCHAR(50) NOT NULL,
		failure_kind VARCHAR(50) NOT NULL DEFAULT '',
		message TEXT NOT NULL DEFAULT '',
		started_at TIMESTAMP NOT NULL,
		finished_at TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_scenario_results_run_id ON scenario_results(run_id);
	CREATE INDEX IF NOT EXISTS idx_scenario_results_started_at ON scenario_results(started_at);
	`

// RunMigrations creates the run history tables on the global connection
func RunMigrations() error {
	if DB == nil {
		return fmt.Errorf("database connection not initialized")
	}
	return Migrate(DB)
}

// Migrate creates the run history tables on db
func Migrate(db *sql.DB) error {
	if _, err := db.Exec(Schema); err != nil {
		return fmt.Errorf("failed to create scenario_results table: %w", err)
	}
	return nil
}
