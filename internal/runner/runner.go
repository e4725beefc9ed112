package runner

import (
	"context"
	"fmt"
	"sort"
	"time"

	"gorm.io/gorm"

	"github.com/pankajredekar/shopadmin/internal/versioner"
)

// Migration interface that all migrations must implement
type Migration interface {
	Version() string
	Name() string
	Up(tx *gorm.DB) error
	Down(tx *gorm.DB) error
}

// Registry holds all registered migrations
type Registry struct {
	migrations map[string]Migration
}

// NewRegistry creates a new migration registry
func NewRegistry() *Registry {
	return &Registry{
		migrations: make(map[string]Migration),
	}
}

// RegisterMigration registers a migration.
// Registering two migrations with the same version panics.
func (r *Registry) RegisterMigration(m Migration) {
	if existing, ok := r.migrations[m.Version()]; ok {
		panic(fmt.Sprintf("migration version %s registered twice (%s, %s)", m.Version(), existing.Name(), m.Name()))
	}
	r.migrations[m.Version()] = m
}

// GetMigration returns a migration by version
func (r *Registry) GetMigration(version string) (Migration, bool) {
	m, ok := r.migrations[version]
	return m, ok
}

// GetAllMigrations returns all migrations sorted by version
func (r *Registry) GetAllMigrations() []Migration {
	migrations := make([]Migration, 0, len(r.migrations))
	for _, m := range r.migrations {
		migrations = append(migrations, m)
	}
	sort.Slice(migrations, func(i, j int) bool {
		return migrations[i].Version() < migrations[j].Version()
	})
	return migrations
}

// Status describes one registered migration
type Status struct {
	Version   string
	Name      string
	Applied   bool
	AppliedAt *time.Time
}

// Runner executes migrations
type Runner struct {
	db        *gorm.DB
	registry  *Registry
	versioner *versioner.Versioner
}

// NewRunner creates a new migration runner
func NewRunner(db *gorm.DB, registry *Registry, versioner *versioner.Versioner) *Runner {
	return &Runner{
		db:        db,
		registry:  registry,
		versioner: versioner,
	}
}

// Migrate applies all pending migrations. Each migration and its version
// record commit in one transaction. A migration recorded by another process
// after the pending list was read is skipped.
func (r *Runner) Migrate(ctx context.Context) (int, error) {
	pending, err := r.GetPendingMigrations(ctx)
	if err != nil {
		return 0, err
	}

	applied := 0
	for _, m := range pending {
		var skipped bool
		err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			ver := r.versioner.WithTx(tx)
			done, err := ver.IsApplied(ctx, m.Version())
			if err != nil {
				return err
			}
			if done {
				skipped = true
				return nil
			}
			if err := m.Up(tx); err != nil {
				return err
			}
			return ver.RecordApplied(ctx, m.Version(), m.Name())
		})
		if err != nil {
			return applied, fmt.Errorf("failed to apply migration %s: %w", m.Version(), err)
		}
		if !skipped {
			applied++
		}
	}

	return applied, nil
}

// AppliedCount returns the number of recorded migrations
func (r *Runner) AppliedCount(ctx context.Context) (int64, error) {
	return r.versioner.GetAppliedCount(ctx)
}

// LatestVersion returns the newest recorded version, or "" when none is
func (r *Runner) LatestVersion(ctx context.Context) (string, error) {
	return r.versioner.GetLatestVersion(ctx)
}

// Rollback rolls back the last N migrations
func (r *Runner) Rollback(ctx context.Context, n int) (int, error) {
	applied, err := r.versioner.GetAppliedVersions(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to get applied migrations: %w", err)
	}

	if len(applied) == 0 {
		return 0, fmt.Errorf("no migrations to rollback")
	}

	if n > len(applied) {
		n = len(applied)
	}

	// Rollback in reverse order
	done := 0
	for i := len(applied) - 1; i >= len(applied)-n; i-- {
		version := applied[i]
		m, ok := r.registry.GetMigration(version)
		if !ok {
			return done, fmt.Errorf("migration %s not found in registry", version)
		}

		err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			if err := m.Down(tx); err != nil {
				return err
			}
			return r.versioner.WithTx(tx).RemoveApplied(ctx, version)
		})
		if err != nil {
			return done, fmt.Errorf("failed to rollback migration %s: %w", version, err)
		}
		done++
	}

	return done, nil
}

// GetPendingMigrations returns migrations that haven't been applied
func (r *Runner) GetPendingMigrations(ctx context.Context) ([]Migration, error) {
	applied, err := r.versioner.GetAppliedVersions(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get applied migrations: %w", err)
	}

	appliedMap := make(map[string]bool)
	for _, v := range applied {
		appliedMap[v] = true
	}

	var pending []Migration
	for _, m := range r.registry.GetAllMigrations() {
		if !appliedMap[m.Version()] {
			pending = append(pending, m)
		}
	}

	return pending, nil
}

// GetStatus lists every registered migration with its applied state
func (r *Runner) GetStatus(ctx context.Context) ([]Status, error) {
	records, err := r.versioner.AppliedRecords(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get applied migrations: %w", err)
	}

	appliedAt := make(map[string]time.Time, len(records))
	for _, rec := range records {
		appliedAt[rec.Version] = rec.AppliedAt
	}

	var statuses []Status
	for _, m := range r.registry.GetAllMigrations() {
		s := Status{Version: m.Version(), Name: m.Name()}
		if at, ok := appliedAt[m.Version()]; ok {
			s.Applied = true
			s.AppliedAt = &at
		}
		statuses = append(statuses, s)
	}
	return statuses, nil
}
