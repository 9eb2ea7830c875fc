package postgres

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"regexp"
	"sort"
	"strings"
)

//go:embed migrations/*.sql
var migrationFS embed.FS

// Migrate applies every up migration in name order. The migrations use
// IF NOT EXISTS and are safe to run on every start.
func Migrate(ctx context.Context, db *sql.DB) error {
	names, err := migrationNames(".up.sql")
	if err != nil {
		return err
	}

	for _, name := range names {
		if err := applyMigrationFile(ctx, db, name); err != nil {
			return err
		}
	}
	return nil
}

// ApplyMigration runs the first migration file whose name ends with
// "<migrationName>.sql", e.g. "create_orders.up".
func ApplyMigration(ctx context.Context, db *sql.DB, migrationName string) error {
	name, err := migrationFileName(migrationName)
	if err != nil {
		return err
	}
	return applyMigrationFile(ctx, db, name)
}

func applyMigrationFile(ctx context.Context, db *sql.DB, name string) error {
	content, err := fs.ReadFile(migrationFS, "migrations/"+name)
	if err != nil {
		return fmt.Errorf("failed to read migration %s: %w", name, err)
	}

	if _, err := db.ExecContext(ctx, string(content)); err != nil {
		return fmt.Errorf("failed to execute migration %s: %w", name, err)
	}
	return nil
}

func migrationFileName(migrationName string) (string, error) {
	pattern, err := regexp.Compile(fmt.Sprintf(`^.*%s\.sql$`, regexp.QuoteMeta(migrationName)))
	if err != nil {
		return "", fmt.Errorf("invalid migration name %q: %w", migrationName, err)
	}

	names, err := migrationNames(".sql")
	if err != nil {
		return "", err
	}
	for _, name := range names {
		if pattern.MatchString(name) {
			return name, nil
		}
	}
	return "", fmt.Errorf("migration %q not found", migrationName)
}

func migrationNames(suffix string) ([]string, error) {
	entries, err := fs.ReadDir(migrationFS, "migrations")
	if err != nil {
		return nil, fmt.Errorf("failed to read migrations directory: %w", err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), suffix) {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)
	return names, nil
}
