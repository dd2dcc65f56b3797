package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"strings"
)

// DefaultMigrationPath is the schema file the migrate tool applies
const DefaultMigrationPath = "migrations/000001_init_schema.up.sql"

// RunMigration executes a migration file as one batch. It reports applied=false
// when the schema already exists.
func RunMigration(ctx context.Context, db *sql.DB, path string) (bool, error) {
	sqlBytes, err := os.ReadFile(path)
	if err != nil {
		return false, fmt.Errorf("failed to read migration file: %w", err)
	}

	// PostgreSQL runs the semicolon-separated statements in one Exec
	if _, err := db.ExecContext(ctx, string(sqlBytes)); err != nil {
		if alreadyApplied(err) {
			return false, nil
		}
		return false, fmt.Errorf("error executing migration: %w", err)
	}
	return true, nil
}

func alreadyApplied(err error) bool {
	return strings.Contains(err.Error(), "already exists")
}
