// PriceWatch - Price Tracking and Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pricewatch

package config

import (
	"time"

	"github.com/tomtom215/pricewatch/internal/personalization"
	"github.com/tomtom215/pricewatch/internal/recommend"
	"github.com/tomtom215/pricewatch/internal/trend"
)

// Config holds all application configuration.
//
// Thread Safety:
// Config is immutable after Load() and safe for concurrent read access from multiple goroutines.
type Config struct {
	Server          ServerConfig           `koanf:"server"`
	Database        DatabaseConfig         `koanf:"database"`
	Logging         LoggingConfig          `koanf:"logging"`
	Recommend       recommend.Config       `koanf:"recommend"`
	Trend           trend.Config           `koanf:"trend"`
	Personalization personalization.Config `koanf:"personalization"`
	Events          EventsConfig           `koanf:"events"`
	Refresh         RefreshConfig          `koanf:"refresh"`
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port        int           `koanf:"port"`
	Host        string        `koanf:"host"`
	Timeout     time.Duration `koanf:"timeout"`
	Environment string        `koanf:"environment"` // development, staging or production

	CORSOrigins       []string      `koanf:"cors_origins"`
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
}

// DatabaseConfig holds DuckDB settings
type DatabaseConfig struct {
	Path                   string `koanf:"path"`
	MaxMemory              string `koanf:"max_memory"`
	Threads                int    `koanf:"threads"`                  // Number of DuckDB threads (0 = use NumCPU)
	PreserveInsertionOrder bool   `koanf:"preserve_insertion_order"` // Whether to preserve insertion order (default true)
	SeedDemoData           bool   `koanf:"seed_demo_data"`           // Populate an empty catalog with demo users and products
}

// LoggingConfig holds logging configuration.
//
// Environment Variables:
//   - LOG_LEVEL: trace, debug, info, warn, error (default: info)
//   - LOG_FORMAT: json, console (default: json)
//   - LOG_CALLER: true/false - include caller file:line (default: false)
type LoggingConfig struct {
	// Level is the minimum log level: trace, debug, info, warn, error.
	// Default: info
	Level string `koanf:"level"`

	// Format is the output format: json or console.
	// Default: json
	Format string `koanf:"format"`

	// Caller includes caller file and line number in logs.
	// Default: false
	Caller bool `koanf:"caller"`
}

// EventsConfig configures behavior event publishing and consumption.
//
// Environment Variables:
//   - EVENTS_ENABLED: Publish and consume behavior events (default: true)
//   - EVENTS_BACKEND: memory or nats (default: memory)
//   - NATS_URL: NATS server URL, used when backend is nats
type EventsConfig struct {
	Enabled bool   `koanf:"enabled"`
	Backend string `koanf:"backend"`
	NATSURL string `koanf:"nats_url"`

	// BufferSize is the per-subscriber channel buffer of the memory backend.
	BufferSize int64 `koanf:"buffer_size"`

	// Router middleware
	RetryCount        int           `koanf:"retry_count"`
	RetryInterval     time.Duration `koanf:"retry_interval"`
	ThrottlePerSecond int64         `koanf:"throttle_per_second"` // 0 = unlimited
	DeduplicationTTL  time.Duration `koanf:"deduplication_ttl"`
	CloseTimeout      time.Duration `koanf:"close_timeout"`

	// Circuit breaker around publishing
	BreakerFailures uint32        `koanf:"breaker_failures"`
	BreakerTimeout  time.Duration `koanf:"breaker_timeout"`
}

// RefreshConfig configures the periodic preference and profile refresh.
type RefreshConfig struct {
	Enabled  bool          `koanf:"enabled"`
	Interval time.Duration `koanf:"interval"`

	// BatchSize caps the users refreshed per run.
	BatchSize int `koanf:"batch_size"`

	// RatePerSecond paces per-user refreshes.
	RatePerSecond float64 `koanf:"rate_per_second"`
}

// IsProduction reports whether the server runs in production mode.
func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}

// Load reads configuration from defaults, an optional YAML file and the environment.
func Load() (*Config, error) {
	return LoadWithKoanf()
}
