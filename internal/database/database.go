// Package database opens the pooled gorm handle shared by every request.
package database

import (
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/pankajredekar/shopadmin/internal/config"
	"github.com/pankajredekar/shopadmin/internal/logging"
)

// Open connects using the config and applies pool limits
func Open(cfg *config.Config, log *zap.Logger) (*gorm.DB, error) {
	level := gormlogger.Warn
	if cfg.Debug {
		level = gormlogger.Info
	}
	gormCfg := &gorm.Config{
		TranslateError: true,
		NowFunc:        func() time.Time { return time.Now().UTC() },
		Logger: gormlogger.New(logging.StdLogger(log), gormlogger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  level,
			IgnoreRecordNotFoundError: true,
		}),
	}

	db, err := Connect(cfg.DatabaseURL, gormCfg)
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get connection pool: %w", err)
	}
	if !isMemorySQLite(cfg.DatabaseURL) {
		sqlDB.SetMaxOpenConns(cfg.Database.MaxOpenConns)
		sqlDB.SetMaxIdleConns(cfg.Database.MaxIdleConns)
		sqlDB.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)
	}
	return db, nil
}

// Connect connects to the database based on the URL.
// Supported schemes: postgres://, postgresql://, mysql://, sqlite://
func Connect(databaseURL string, gormCfg *gorm.Config) (*gorm.DB, error) {
	if gormCfg == nil {
		gormCfg = &gorm.Config{TranslateError: true}
	}

	var dialector gorm.Dialector
	switch {
	case strings.HasPrefix(databaseURL, "postgres://"), strings.HasPrefix(databaseURL, "postgresql://"):
		dialector = postgres.Open(databaseURL)
	case strings.HasPrefix(databaseURL, "mysql://"):
		dialector = mysql.Open(mysqlDSN(strings.TrimPrefix(databaseURL, "mysql://")))
	case strings.HasPrefix(databaseURL, "sqlite://"):
		dialector = sqlite.Open(sqliteDSN(strings.TrimPrefix(databaseURL, "sqlite://")))
	default:
		return nil, fmt.Errorf("unsupported database URL: %s", databaseURL)
	}

	db, err := gorm.Open(dialector, gormCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if isMemorySQLite(databaseURL) {
		// every connection to :memory: is a separate database
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("failed to get connection pool: %w", err)
		}
		sqlDB.SetMaxOpenConns(1)
		sqlDB.SetMaxIdleConns(1)
		sqlDB.SetConnMaxLifetime(0)
	}
	return db, nil
}

// Close releases the pool behind db
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get connection pool: %w", err)
	}
	return sqlDB.Close()
}

// mysqlDSN adds the options the store relies on: time parsing and matched
// (not changed) row counts for guarded updates
func mysqlDSN(dsn string) string {
	var opts []string
	if !strings.Contains(dsn, "parseTime=") {
		opts = append(opts, "parseTime=true", "loc=UTC")
	}
	if !strings.Contains(dsn, "clientFoundRows=") {
		opts = append(opts, "clientFoundRows=true")
	}
	if len(opts) == 0 {
		return dsn
	}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + strings.Join(opts, "&")
}

func sqliteDSN(path string) string {
	if strings.Contains(path, "_foreign_keys") || strings.Contains(path, "_fk=") {
		return path
	}
	if strings.Contains(path, "?") {
		return path + "&_foreign_keys=on"
	}
	return path + "?_foreign_keys=on"
}

func isMemorySQLite(databaseURL string) bool {
	return strings.HasPrefix(databaseURL, "sqlite://") && strings.Contains(databaseURL, ":memory:")
}
