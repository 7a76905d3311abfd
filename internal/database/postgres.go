package database

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/saucedemo/swaglabs-e2e/internal/config"
	_ "github.com/lib/pq"
)

var DB *sql.DB

// Connect opens the run history database
func Connect(pgConfig *config.PostgresConfig) error {
	db, err := sql.Open("postgres", pgConfig.ConnectionString())
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}

	// A suite run writes a handful of rows; keep the pool small
	db.SetMaxOpenConns(5)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err = db.Ping(); err != nil {
		db.Close()
		return fmt.Errorf("failed to ping database: %w", err)
	}

	DB = db
	return nil
}

// Close closes the database connection
func Close() error {
	if DB != nil {
		err := DB.Close()
		DB = nil
		return err
	}
	return nil
}
