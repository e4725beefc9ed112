// Package testdb opens migrated in-memory databases for tests.
package testdb

import (
	"context"
	"testing"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/pankajredekar/shopadmin/internal/config"
	"github.com/pankajredekar/shopadmin/internal/database"
	"github.com/pankajredekar/shopadmin/internal/migrations"
)

// Open returns a fresh sqlite :memory: database with every migration applied.
// The database is closed when the test ends.
func Open(t testing.TB) *gorm.DB {
	t.Helper()

	cfg := config.Default()
	cfg.DatabaseURL = "sqlite://:memory:"

	db, err := database.Open(cfg, zap.NewNop())
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	t.Cleanup(func() { _ = database.Close(db) })

	run, err := migrations.NewRunner(context.Background(), db, cfg.MigrationTable)
	if err != nil {
		t.Fatalf("Failed to prepare migrations: %v", err)
	}
	if _, err := run.Migrate(context.Background()); err != nil {
		t.Fatalf("Failed to migrate: %v", err)
	}
	return db
}
