// Package config provides configuration management for visitboard.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"visitboard/domain"
	"visitboard/retry"
)

// Config holds the configuration for visitboard.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Counter   CounterConfig   `yaml:"counter"`
	Redis     RedisConfig     `yaml:"redis"`
	SQLite    SQLiteConfig    `yaml:"sqlite"`
	Dataset   DatasetConfig   `yaml:"dataset"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	OTel      OTelConfig      `yaml:"otel"`
}

type ServerConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port" validate:"min=1,max=65535"`
	LogLevel string `yaml:"log_level" validate:"oneof=debug info warn warning error"`
	// LogFormat is "json" or "text".
	LogFormat string `yaml:"log_format" validate:"oneof=json text"`
}

type CounterConfig struct {
	Backend    string        `yaml:"backend" validate:"required"`
	Key        string        `yaml:"key" validate:"required"`
	MaxRetries int           `yaml:"max_retries" validate:"min=0,max=100"`
	RetryDelay time.Duration `yaml:"retry_delay"`
}

type RedisConfig struct {
	Host     string `yaml:"host" validate:"required"`
	Port     int    `yaml:"port" validate:"min=1,max=65535"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db" validate:"min=0"`
}

type SQLiteConfig struct {
	Path string `yaml:"path"`
}

type DatasetConfig struct {
	Path        string `yaml:"path" validate:"required"`
	PreviewRows int    `yaml:"preview_rows" validate:"min=1"`
}

type RateLimitConfig struct {
	// RPS of zero disables rate limiting.
	RPS   float64 `yaml:"rps" validate:"min=0"`
	Burst int     `yaml:"burst" validate:"min=0"`
}

type OTelConfig struct {
	Enabled     bool    `yaml:"enabled"`
	ServiceName string  `yaml:"service_name" validate:"required"`
	Endpoint    string  `yaml:"endpoint"`
	SampleRatio float64 `yaml:"sample_ratio" validate:"min=0,max=1"`
}

// Default returns the configuration used when nothing is overridden.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host:      "0.0.0.0",
			Port:      80,
			LogLevel:  "info",
			LogFormat: "json",
		},
		Counter: CounterConfig{
			Backend:    string(domain.CounterBackendRedis),
			Key:        string(domain.DefaultCounterKey),
			MaxRetries: 5,
			RetryDelay: 500 * time.Millisecond,
		},
		Redis: RedisConfig{
			Host: "redis",
			Port: 6379,
		},
		SQLite: SQLiteConfig{
			Path: "visitboard.db",
		},
		Dataset: DatasetConfig{
			Path:        "static/data/titanic.csv",
			PreviewRows: domain.DefaultPreviewRows,
		},
		RateLimit: RateLimitConfig{
			RPS:   0,
			Burst: 40,
		},
		OTel: OTelConfig{
			Enabled:     false,
			ServiceName: "visitboard",
			Endpoint:    "http://localhost:4318",
			SampleRatio: 0.1,
		},
	}
}

// Load builds the configuration from defaults, the optional YAML file named by
// CONFIG_FILE and environment variables, in that order of precedence.
func Load() (*Config, error) {
	cfg := Default()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.mergeFile(path); err != nil {
			return nil, err
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

func (c *Config) mergeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config yaml: %w", err)
	}
	return nil
}

func (c *Config) applyEnv() error {
	var errs []string
	intEnv := func(key string, dst *int) {
		if v := os.Getenv(key); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				errs = append(errs, fmt.Sprintf("invalid %s: %q", key, v))
				return
			}
			*dst = n
		}
	}
	floatEnv := func(key string, dst *float64) {
		if v := os.Getenv(key); v != "" {
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				errs = append(errs, fmt.Sprintf("invalid %s: %q", key, v))
				return
			}
			*dst = f
		}
	}
	strEnv := func(key string, dst *string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}

	strEnv("HOST", &c.Server.Host)
	intEnv("PORT", &c.Server.Port)
	strEnv("LOG_LEVEL", &c.Server.LogLevel)
	strEnv("LOG_FORMAT", &c.Server.LogFormat)

	strEnv("COUNTER_BACKEND", &c.Counter.Backend)
	strEnv("COUNTER_KEY", &c.Counter.Key)
	intEnv("COUNTER_MAX_RETRIES", &c.Counter.MaxRetries)
	if v := os.Getenv("COUNTER_RETRY_DELAY"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			errs = append(errs, fmt.Sprintf("invalid COUNTER_RETRY_DELAY: %q", v))
		} else {
			c.Counter.RetryDelay = d
		}
	}

	strEnv("REDIS_HOST", &c.Redis.Host)
	intEnv("REDIS_PORT", &c.Redis.Port)
	strEnv("REDIS_PASSWORD", &c.Redis.Password)
	intEnv("REDIS_DB", &c.Redis.DB)
	strEnv("SQLITE_PATH", &c.SQLite.Path)

	strEnv("DATASET_PATH", &c.Dataset.Path)
	intEnv("PREVIEW_ROWS", &c.Dataset.PreviewRows)

	floatEnv("RATE_LIMIT_RPS", &c.RateLimit.RPS)
	intEnv("RATE_LIMIT_BURST", &c.RateLimit.Burst)

	if v := os.Getenv("OTEL_ENABLED"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			errs = append(errs, fmt.Sprintf("invalid OTEL_ENABLED: %q", v))
		} else {
			c.OTel.Enabled = b
		}
	}
	strEnv("OTEL_SERVICE_NAME", &c.OTel.ServiceName)
	strEnv("OTEL_EXPORTER_OTLP_ENDPOINT", &c.OTel.Endpoint)
	floatEnv("OTEL_TRACE_SAMPLE_RATIO", &c.OTel.SampleRatio)

	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

// Validate checks struct constraints and the cross-field rules tags cannot express.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return err
	}

	backend := domain.CounterBackend(c.Counter.Backend)
	if !backend.IsValid() {
		return fmt.Errorf("invalid counter backend: %s (must be one of: redis, sqlite)", c.Counter.Backend)
	}
	if c.Counter.RetryDelay < 0 {
		return fmt.Errorf("counter retry delay must not be negative, got: %v", c.Counter.RetryDelay)
	}
	if backend == domain.CounterBackendSQLite && c.SQLite.Path == "" {
		return fmt.Errorf("SQLITE_PATH is required for the sqlite backend")
	}
	if c.OTel.Enabled && c.OTel.Endpoint == "" {
		return fmt.Errorf("OTEL_EXPORTER_OTLP_ENDPOINT is required when OTEL_ENABLED is set")
	}

	return nil
}

// Addr returns the listen address of the HTTP server.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// RetryConfig converts the counter retry settings; MaxRetries counts retries
// after the first attempt.
func (c *Config) RetryConfig() retry.RetryConfig {
	return retry.RetryConfig{
		MaxAttempts: c.Counter.MaxRetries + 1,
		Delay:       c.Counter.RetryDelay,
	}
}
