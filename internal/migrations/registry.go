// Package migrations holds the versioned schema migrations for shopadmin.
// Each file registers itself from init().
package migrations

import (
	"context"

	"gorm.io/gorm"

	"github.com/pankajredekar/shopadmin/internal/runner"
	"github.com/pankajredekar/shopadmin/internal/versioner"
)

var registry = runner.NewRegistry()

// Registry returns the registry every migration in this package is added to
func Registry() *runner.Registry {
	return registry
}

func register(m runner.Migration) {
	registry.RegisterMigration(m)
}

// NewRunner prepares the tracking table and returns a runner over the
// registered migrations
func NewRunner(ctx context.Context, db *gorm.DB, table string) (*runner.Runner, error) {
	ver := versioner.NewVersioner(db, table)
	if err := ver.Initialize(ctx); err != nil {
		return nil, err
	}
	return runner.NewRunner(db, registry, ver), nil
}
