// Package logging builds the process-wide zap logger.
package logging

import (
	"fmt"
	"log"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/pankajredekar/shopadmin/internal/config"
)

// New creates a logger from the log section of the config
func New(cfg *config.Config) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(strings.ToLower(cfg.Log.Level))
	if err != nil {
		return nil, fmt.Errorf("failed to parse log level: %w", err)
	}

	var zc zap.Config
	switch cfg.Log.Format {
	case "console":
		zc = zap.NewDevelopmentConfig()
	case "json", "":
		zc = zap.NewProductionConfig()
	default:
		return nil, fmt.Errorf("unsupported log format: %s", cfg.Log.Format)
	}
	zc.Level = zap.NewAtomicLevelAt(level)

	logger, err := zc.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}
	return logger.Named("shopadmin"), nil
}

// StdLogger adapts a zap logger to the printf-style writer gorm expects
func StdLogger(logger *zap.Logger) *log.Logger {
	return zap.NewStdLog(logger.Named("gorm"))
}
