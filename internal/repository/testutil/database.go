// Package testutil gives repository integration tests a private Postgres schema.
package testutil

import (
	"database/sql"
	"fmt"
	"math/rand"
	"os"
	"testing"
	"time"

	"github.com/saucedemo/swaglabs-e2e/internal/config"
	"github.com/saucedemo/swaglabs-e2e/internal/database"
	_ "github.com/lib/pq"
)

// TestDatabase is a connection whose search_path points at a throwaway schema
type TestDatabase struct {
	DB         *sql.DB
	SchemaName string
	masterDB   *sql.DB
}

// SetupTestDatabase creates a migrated schema and drops it when the test ends.
// POSTGRES_* variables override the local defaults.
func SetupTestDatabase(t *testing.T) *TestDatabase {
	t.Helper()

	pgConfig, err := config.LoadPostgresConfig(func(key string) string {
		defaults := map[string]string{
			"POSTGRES_USER":     "postgres",
			"POSTGRES_PASSWORD": "postgres",
			"POSTGRES_DB":       "postgres",
			"POSTGRES_HOSTNAME": "localhost",
		}
		if value := os.Getenv(key); value != "" {
			return value
		}
		return defaults[key]
	})
	if err != nil {
		t.Fatalf("Failed to load postgres config: %v", err)
	}

	td := &TestDatabase{
		SchemaName: fmt.Sprintf("swaglabs_test_%d_%d", time.Now().UnixNano(), rand.Intn(10000)),
	}
	t.Cleanup(func() { td.teardown(t) })

	td.masterDB, err = open(pgConfig.ConnectionString())
	if err != nil {
		t.Fatalf("Failed to connect to master database: %v", err)
	}

	if _, err := td.masterDB.Exec(fmt.Sprintf("CREATE SCHEMA %s", td.SchemaName)); err != nil {
		t.Fatalf("Failed to create test schema: %v", err)
	}

	td.DB, err = open(fmt.Sprintf("%s search_path=%s", pgConfig.ConnectionString(), td.SchemaName))
	if err != nil {
		t.Fatalf("Failed to connect to test schema: %v", err)
	}

	if err := database.Migrate(td.DB); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}

	return td
}

func open(connStr string) (*sql.DB, error) {
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

func (td *TestDatabase) teardown(t *testing.T) {
	if td.DB != nil {
		td.DB.Close()
	}
	if td.masterDB == nil {
		return
	}
	if _, err := td.masterDB.Exec(fmt.Sprintf("DROP SCHEMA IF EXISTS %s CASCADE", td.SchemaName)); err != nil {
		t.Logf("Warning: Failed to drop test schema %s: %v", td.SchemaName, err)
	}
	td.masterDB.Close()
}
