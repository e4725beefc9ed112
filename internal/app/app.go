// Package app wires the server together with fx.
package app

import (
	"context"
	"fmt"

	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/pankajredekar/shopadmin/internal/api"
	"github.com/pankajredekar/shopadmin/internal/config"
	"github.com/pankajredekar/shopadmin/internal/database"
	"github.com/pankajredekar/shopadmin/internal/logging"
	"github.com/pankajredekar/shopadmin/internal/migrations"
	"github.com/pankajredekar/shopadmin/internal/reporting"
	"github.com/pankajredekar/shopadmin/internal/store"
)

// Options tweak startup
type Options struct {
	// Migrate applies pending migrations before the server starts
	Migrate bool
}

// Module provides every component of the HTTP server
func Module(cfg *config.Config, opts Options) fx.Option {
	return fx.Options(
		fx.Supply(cfg, opts),
		fx.Provide(
			logging.New,
			newDB,
			newStore,
			newReporter,
			api.NewServer,
		),
		fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: log.Named("fx")}
		}),
		fx.Invoke(prepareSchema, registerServer),
	)
}

// New builds the application; call Run or Start/Stop on the result
func New(cfg *config.Config, opts Options, extra ...fx.Option) *fx.App {
	return fx.New(append([]fx.Option{Module(cfg, opts)}, extra...)...)
}

func newDB(lc fx.Lifecycle, cfg *config.Config, log *zap.Logger) (*gorm.DB, error) {
	db, err := database.Open(cfg, log)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return database.Close(db)
		},
	})
	return db, nil
}

func newStore(db *gorm.DB, log *zap.Logger, cfg *config.Config) *store.Store {
	return store.New(db, log, cfg.Inventory.LowStockThreshold)
}

func newReporter(db *gorm.DB, log *zap.Logger, cfg *config.Config) *reporting.Reporter {
	return reporting.NewReporter(db, log, cfg.WeekStartDay())
}

// prepareSchema applies or reports pending migrations
func prepareSchema(lc fx.Lifecycle, db *gorm.DB, cfg *config.Config, opts Options, log *zap.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			run, err := migrations.NewRunner(ctx, db, cfg.MigrationTable)
			if err != nil {
				return err
			}
			if opts.Migrate {
				n, err := run.Migrate(ctx)
				if err != nil {
					return err
				}
				log.Info("migrations applied", zap.Int("count", n))
				return nil
			}

			pending, err := run.GetPendingMigrations(ctx)
			if err != nil {
				return err
			}
			if len(pending) > 0 {
				log.Warn("database has pending migrations, run `shopadmin migrate`", zap.Int("pending", len(pending)))
			}
			return nil
		},
	})
}

func registerServer(lc fx.Lifecycle, srv *api.Server, shutdowner fx.Shutdowner, log *zap.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := srv.Listen(); err != nil {
				return err
			}
			log.Info("server listening", zap.String("addr", srv.Addr()))
			go func() {
				if err := srv.Serve(); err != nil {
					log.Error("server stopped", zap.Error(err))
					_ = shutdowner.Shutdown(fx.ExitCode(1))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			if err := srv.Shutdown(ctx); err != nil {
				return fmt.Errorf("failed to shut down server: %w", err)
			}
			log.Info("server stopped")
			return nil
		},
	})
}
