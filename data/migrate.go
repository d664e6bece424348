package data

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/ncobase/cookscorner/data/config"
	"github.com/ncobase/cookscorner/data/migrations"
	"github.com/ncobase/cookscorner/logging/logger"
	"github.com/pressly/goose/v3"
)

// Seams for testing the goose entry points.
var (
	gooseUp = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
		return goose.UpContext(ctx, db, dir, opts...)
	}
	gooseDown = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
		return goose.DownContext(ctx, db, dir, opts...)
	}
	gooseStatus = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
		return goose.StatusContext(ctx, db, dir, opts...)
	}
)

// gooseDialect maps a configured driver name to a goose dialect.
func gooseDialect(driver string) (string, error) {
	switch driver {
	case config.DriverSQLite:
		return "sqlite3", nil
	case config.DriverPostgres:
		return "postgres", nil
	case config.DriverMySQL:
		return "mysql", nil
	}
	return "", fmt.Errorf("data: no migration dialect for driver %q", driver)
}

func (d *Data) prepareGoose() error {
	dialect, err := gooseDialect(d.Dialect())
	if err != nil {
		return err
	}
	goose.SetBaseFS(migrations.FS)
	goose.SetLogger(logger.StdLogger().Logger)
	return goose.SetDialect(dialect)
}

// MigrateUp applies every pending embedded migration.
func (d *Data) MigrateUp(ctx context.Context) error {
	if err := d.prepareGoose(); err != nil {
		return err
	}
	if err := gooseUp(ctx, d.db, "."); err != nil {
		return fmt.Errorf("migrate up: %w", err)
	}
	return nil
}

// MigrateDown rolls back the most recent migration.
func (d *Data) MigrateDown(ctx context.Context) error {
	if err := d.prepareGoose(); err != nil {
		return err
	}
	if err := gooseDown(ctx, d.db, "."); err != nil {
		return fmt.Errorf("migrate down: %w", err)
	}
	return nil
}

// MigrateStatus logs the applied state of each migration.
func (d *Data) MigrateStatus(ctx context.Context) error {
	if err := d.prepareGoose(); err != nil {
		return err
	}
	return gooseStatus(ctx, d.db, ".")
}
