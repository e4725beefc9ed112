package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/pankajredekar/shopadmin/internal/config"
	"github.com/pankajredekar/shopadmin/internal/database"
	"github.com/pankajredekar/shopadmin/internal/logging"
	"github.com/pankajredekar/shopadmin/internal/migrations"
	"github.com/pankajredekar/shopadmin/internal/runner"
	"github.com/pankajredekar/shopadmin/internal/utils"
)

// loadConfig reads --config. Without a file on the default path the
// environment alone configures the process.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	switch {
	case utils.FileExists(configPath):
		cfg, err = config.LoadConfig(configPath)
	case cmd.Flags().Changed("config"):
		return nil, fmt.Errorf("%s not found. Run 'shopadmin init' first", configPath)
	default:
		cfg, err = config.FromEnv()
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// session is a database connection plus the migration runner for it
type session struct {
	cfg    *config.Config
	log    *zap.Logger
	db     *gorm.DB
	runner *runner.Runner
}

func openSession(cmd *cobra.Command) (*session, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	log, err := logging.New(cfg)
	if err != nil {
		return nil, err
	}

	db, err := database.Open(cfg, log)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	run, err := migrations.NewRunner(cmd.Context(), db, cfg.MigrationTable)
	if err != nil {
		_ = database.Close(db)
		return nil, fmt.Errorf("failed to initialize version table: %w", err)
	}

	return &session{cfg: cfg, log: log, db: db, runner: run}, nil
}

func (s *session) close() {
	_ = s.log.Sync()
	_ = database.Close(s.db)
}
