// ABOUTME: Applies embedded goose migrations to a SQLite handle.
// ABOUTME: Goose logging is silenced so CLI output stays clean.
package storage

import (
	"database/sql"
	"fmt"

	"github.com/harperreed/energy/migrations"
	"github.com/pressly/goose/v3"
)

// RunMigrations applies all pending database migrations using goose.
func RunMigrations(db *sql.DB) error {
	goose.SetLogger(goose.NopLogger())
	goose.SetBaseFS(migrations.FS)

	if err := goose.SetDialect("sqlite"); err != nil {
		return fmt.Errorf("set dialect: %w", err)
	}

	if err := goose.Up(db, "."); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	return nil
}
