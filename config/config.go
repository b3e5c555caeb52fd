// Package config loads the YAML configuration of the antisqli tool.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/Konsultn-Engineering/antisqli/dialect"
)

// Config is the top-level configuration.
type Config struct {
	// Dialect names how parameter references are written; see dialect.Names.
	Dialect  string   `json:"dialect" yaml:"dialect" validate:"required,dialect"`
	Strict   bool     `json:"strict" yaml:"strict"`
	Log      Log      `json:"log" yaml:"log"`
	Database Database `json:"database" yaml:"database"`
}

// Log configures logging.
type Log struct {
	Level      string `json:"level" yaml:"level" validate:"oneof=debug info warn error"`
	Format     string `json:"format" yaml:"format" validate:"oneof=json console"`
	File       string `json:"file" yaml:"file"`
	MaxSizeMB  int    `json:"max_size_mb" yaml:"max_size_mb" validate:"gte=0"`
	MaxBackups int    `json:"max_backups" yaml:"max_backups" validate:"gte=0"`
	MaxAgeDays int    `json:"max_age_days" yaml:"max_age_days" validate:"gte=0"`
	Compress   bool   `json:"compress" yaml:"compress"`
}

// Database configures the connection used by the exec command.
type Database struct {
	Driver             string        `json:"driver" yaml:"driver" validate:"omitempty,oneof=postgres sqlite gorm"`
	DSN                string        `json:"dsn" yaml:"dsn" validate:"required_with=Driver"`
	Pool               PoolConfig    `json:"pool" yaml:"pool"`
	ConnectTimeout     time.Duration `json:"connect_timeout" yaml:"connect_timeout" validate:"gte=0"`
	QueryTimeout       time.Duration `json:"query_timeout" yaml:"query_timeout" validate:"gte=0"`
	Retry              *RetryConfig  `json:"retry,omitempty" yaml:"retry,omitempty"`
	StatementCacheSize int           `json:"statement_cache_size" yaml:"statement_cache_size" validate:"gte=0"`
}

// PoolConfig defines connection pool settings.
type PoolConfig struct {
	MaxOpen     int           `json:"max_open" yaml:"max_open" validate:"gte=0"`
	MaxIdle     int           `json:"max_idle" yaml:"max_idle" validate:"gte=0"`
	MaxLifetime time.Duration `json:"max_lifetime" yaml:"max_lifetime"`
	MaxIdleTime time.Duration `json:"max_idle_time" yaml:"max_idle_time"`
}

// RetryConfig defines connection retry behavior.
type RetryConfig struct {
	MaxRetries int           `json:"max_retries" yaml:"max_retries" validate:"gte=1"`
	BaseDelay  time.Duration `json:"base_delay" yaml:"base_delay"`
	MaxDelay   time.Duration `json:"max_delay" yaml:"max_delay" validate:"omitempty,gtefield=BaseDelay"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Dialect: "sqlserver",
		Log: Log{
			Level:      "info",
			Format:     "json",
			MaxSizeMB:  10,
			MaxBackups: 5,
			MaxAgeDays: 7,
		},
		Database: Database{
			Pool: PoolConfig{
				MaxOpen:     10,
				MaxIdle:     5,
				MaxLifetime: time.Hour,
				MaxIdleTime: 30 * time.Minute,
			},
			ConnectTimeout:     10 * time.Second,
			StatementCacheSize: 128,
		},
	}
}

// Load reads path over the defaults and validates the result.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes YAML over the defaults and validates the result.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse YAML config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("dialect", func(fl validator.FieldLevel) bool {
		_, err := dialect.Lookup(fl.Field().String())
		return err == nil
	})
	return v
}

// Validate checks field constraints.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}
