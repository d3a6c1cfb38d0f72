package migrate

import (
	"context"
	"database/sql"
	"embed"
	"fmt"

	"github.com/openshelf/picklist-backend/pkg/config"
	"github.com/pressly/goose/v3"
)

const DefaultDir = "migrations"

//go:embed migrations/*.sql
var embeddedMigrations embed.FS

func setDialect(driver string) error {
	dialect := "sqlite3"
	if driver == config.DriverPostgres {
		dialect = "postgres"
	}
	if err := goose.SetDialect(dialect); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}
	return nil
}

// Up applies the embedded DDL migrations. Runs at every startup before the
// data normalization engine.
func Up(ctx context.Context, db *sql.DB, driver string) error {
	if db == nil {
		return fmt.Errorf("db is required")
	}
	goose.SetBaseFS(embeddedMigrations)
	defer goose.SetBaseFS(nil)

	if err := setDialect(driver); err != nil {
		return err
	}
	if err := goose.UpContext(ctx, db, DefaultDir); err != nil {
		return fmt.Errorf("goose up: %w", err)
	}
	return nil
}

// Run executes a goose command against the embedded migrations.
func Run(ctx context.Context, db *sql.DB, driver string, command string, args ...string) error {
	if db == nil {
		return fmt.Errorf("db is required")
	}
	goose.SetBaseFS(embeddedMigrations)
	defer goose.SetBaseFS(nil)

	if err := setDialect(driver); err != nil {
		return err
	}
	if err := goose.RunContext(ctx, command, db, DefaultDir, args...); err != nil {
		return fmt.Errorf("goose %s: %w", command, err)
	}
	return nil
}
