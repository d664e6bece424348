// Package datatest opens migrated in-memory databases for package tests.
package datatest

import (
	"context"
	"testing"

	"github.com/ncobase/cookscorner/data"
	"github.com/ncobase/cookscorner/data/config"
	_ "github.com/ncobase/cookscorner/data/sqlite"
)

// NewSQLite returns a Data backed by a private in-memory sqlite database
// with every migration applied. It is closed when the test ends.
func NewSQLite(t testing.TB) *data.Data {
	t.Helper()
	ctx := context.Background()

	d, cleanup, err := data.New(ctx, &config.Config{
		Database: &config.Database{
			Master: &config.DBNode{Driver: config.DriverSQLite, Source: ":memory:", MaxOpenConn: 1},
		},
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(cleanup)

	if err := d.MigrateUp(ctx); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return d
}
