package config

import (
	"errors"
	"fmt"
)

// ErrPostgresNotConfigured is returned when none of the POSTGRES_* variables are set
var ErrPostgresNotConfigured = errors.New("postgres is not configured")

// PostgresConfig holds configuration for the run history database
type PostgresConfig struct {
	User     string
	Password string
	Database string
	Host     string
	SSLMode  string
}

// LoadPostgresConfig loads PostgreSQL configuration from environment variables.
// Run history is optional, so a completely empty environment yields
// ErrPostgresNotConfigured rather than a validation error.
func LoadPostgresConfig(getenv func(string) string) (*PostgresConfig, error) {
	config := &PostgresConfig{
		User:     getenv("POSTGRES_USER"),
		Password: getenv("POSTGRES_PASSWORD"),
		Database: getenv("POSTGRES_DB"),
		Host:     getenv("POSTGRES_HOSTNAME"),
		SSLMode:  valueOrDefault(getenv("POSTGRES_SSLMODE"), "disable"),
	}

	if config.User == "" && config.Password == "" && config.Database == "" && config.Host == "" {
		return nil, ErrPostgresNotConfigured
	}

	// Validate required fields
	if config.User == "" {
		return nil, fmt.Errorf("POSTGRES_USER is required")
	}
	if config.Password == "" {
		return nil, fmt.Errorf("POSTGRES_PASSWORD is required")
	}
	if config.Database == "" {
		return nil, fmt.Errorf("POSTGRES_DB is required")
	}
	if config.Host == "" {
		return nil, fmt.Errorf("POSTGRES_HOSTNAME is required")
	}

	return config, nil
}

// ConnectionString returns a PostgreSQL connection string
func (c *PostgresConfig) ConnectionString() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.User, c.Password, c.Database, c.SSLMode)
}
