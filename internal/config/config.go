package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultConfigPath is the file the CLI looks for when --config is not given
const DefaultConfigPath = "shopadmin.yml"

// Config is the shopadmin.yml file
type Config struct {
	DatabaseURL    string          `yaml:"database_url"`
	MigrationTable string          `yaml:"migration_table"`
	Debug          bool            `yaml:"debug"`
	Server         ServerConfig    `yaml:"server"`
	Database       DatabaseConfig  `yaml:"database"`
	Log            LogConfig       `yaml:"log"`
	Inventory      InventoryConfig `yaml:"inventory"`
	Reporting      ReportingConfig `yaml:"reporting"`
}

// ServerConfig configures the HTTP listener
type ServerConfig struct {
	Addr         string        `yaml:"addr"`
	APIPrefix    string        `yaml:"api_prefix"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
	CORSOrigins  []string      `yaml:"cors_origins"`
}

// DatabaseConfig sizes the connection pool
type DatabaseConfig struct {
	MaxOpenConns    int           `yaml:"max_open_conns"`
	MaxIdleConns    int           `yaml:"max_idle_conns"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"`
}

// LogConfig selects the zap level and encoding
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // json or console
}

// InventoryConfig holds stock related settings
type InventoryConfig struct {
	LowStockThreshold int `yaml:"low_stock_threshold"`
}

// ReportingConfig holds revenue report settings
type ReportingConfig struct {
	WeekStart string `yaml:"week_start"` // monday (ISO) or sunday
}

// DefaultLowStockThreshold applies when inventory.low_stock_threshold is not set
const DefaultLowStockThreshold = 10

// newConfig presets the settings whose zero value is meaningful, so an
// explicit 0 in the file or environment survives applyDefaults.
func newConfig() *Config {
	return &Config{
		Inventory: InventoryConfig{LowStockThreshold: DefaultLowStockThreshold},
	}
}

// Default returns a configuration usable for local development
func Default() *Config {
	cfg := newConfig()
	cfg.applyDefaults()
	return cfg
}

// FromEnv returns the defaults overridden by SHOPADMIN_* environment variables.
// It is used when no config file is present.
func FromEnv() (*Config, error) {
	cfg := newConfig()
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	return cfg, nil
}

// LoadConfig reads the YAML file at configPath, applies SHOPADMIN_*
// overrides and fills in defaults
func LoadConfig(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := newConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	cfg.applyDefaults()

	// Resolve sqlite file paths relative to the config file
	if path, ok := strings.CutPrefix(cfg.DatabaseURL, "sqlite://"); ok {
		if path != ":memory:" && !strings.HasPrefix(path, "file:") && !filepath.IsAbs(path) {
			cfg.DatabaseURL = "sqlite://" + filepath.Join(filepath.Dir(configPath), path)
		}
	}

	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.DatabaseURL == "" {
		c.DatabaseURL = "sqlite://shopadmin.db"
	}
	if c.MigrationTable == "" {
		c.MigrationTable = "_shopadmin_migrations"
	}
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.Server.APIPrefix == "" {
		c.Server.APIPrefix = "/api"
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 15 * time.Second
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = 30 * time.Second
	}
	if len(c.Server.CORSOrigins) == 0 {
		c.Server.CORSOrigins = []string{"*"}
	}
	if c.Database.MaxOpenConns == 0 {
		c.Database.MaxOpenConns = 10
	}
	if c.Database.MaxIdleConns == 0 {
		c.Database.MaxIdleConns = 5
	}
	if c.Database.ConnMaxLifetime == 0 {
		c.Database.ConnMaxLifetime = 30 * time.Minute
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
		if c.Debug {
			c.Log.Level = "debug"
		}
	}
	if c.Log.Format == "" {
		c.Log.Format = "json"
	}
	if c.Reporting.WeekStart == "" {
		c.Reporting.WeekStart = "monday"
	}
}

// applyEnv overrides file values with SHOPADMIN_* environment variables
func (c *Config) applyEnv() error {
	c.DatabaseURL = getEnvOrDefault("SHOPADMIN_DATABASE_URL", c.DatabaseURL)
	c.Server.Addr = getEnvOrDefault("SHOPADMIN_ADDR", c.Server.Addr)
	c.Log.Level = getEnvOrDefault("SHOPADMIN_LOG_LEVEL", c.Log.Level)
	c.Reporting.WeekStart = getEnvOrDefault("SHOPADMIN_WEEK_START", c.Reporting.WeekStart)

	if v := os.Getenv("SHOPADMIN_DEBUG"); v != "" {
		debug, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("failed to parse SHOPADMIN_DEBUG: %w", err)
		}
		c.Debug = debug
	}
	if v := os.Getenv("SHOPADMIN_LOW_STOCK_THRESHOLD"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("failed to parse SHOPADMIN_LOW_STOCK_THRESHOLD: %w", err)
		}
		c.Inventory.LowStockThreshold = n
	}
	return nil
}

// Validate checks the configuration for values the server cannot run with
func (c *Config) Validate() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("database_url is required")
	}
	if !strings.HasPrefix(c.Server.APIPrefix, "/") {
		return fmt.Errorf("server.api_prefix must start with '/'")
	}
	if c.Inventory.LowStockThreshold < 0 {
		return fmt.Errorf("inventory.low_stock_threshold must not be negative")
	}
	switch strings.ToLower(c.Reporting.WeekStart) {
	case "monday", "sunday":
	default:
		return fmt.Errorf("reporting.week_start must be 'monday' or 'sunday', got %q", c.Reporting.WeekStart)
	}
	if c.Database.MaxOpenConns < 0 || c.Database.MaxIdleConns < 0 {
		return fmt.Errorf("database pool sizes must not be negative")
	}
	return nil
}

// WeekStartDay returns the configured first day of a reporting week
func (c *Config) WeekStartDay() time.Weekday {
	if strings.EqualFold(c.Reporting.WeekStart, "sunday") {
		return time.Sunday
	}
	return time.Monday
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
