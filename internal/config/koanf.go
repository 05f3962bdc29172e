// PriceWatch - Price Tracking and Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pricewatch

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"

	"github.com/tomtom215/pricewatch/internal/personalization"
	"github.com/tomtom215/pricewatch/internal/recommend"
	"github.com/tomtom215/pricewatch/internal/trend"
)

// DefaultConfigPaths lists the paths where config files are searched in order of priority.
// The first file found will be used.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/pricewatch/config.yaml",
	"/etc/pricewatch/config.yml",
}

// ConfigPathEnvVar is the environment variable that can override the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// defaultConfig returns a Config struct with all sensible default values.
// These defaults are applied first, then overridden by config file and env vars.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:              8080,
			Host:              "0.0.0.0",
			Timeout:           30 * time.Second,
			Environment:       "development",
			CORSOrigins:       []string{"*"},
			RateLimitReqs:     100,
			RateLimitWindow:   time.Minute,
			RateLimitDisabled: false,
		},
		Database: DatabaseConfig{
			Path:                   "/data/pricewatch.duckdb",
			MaxMemory:              "1GB",
			Threads:                0, // 0 = use runtime.NumCPU()
			PreserveInsertionOrder: true,
			SeedDemoData:           false,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
		Recommend:       *recommend.DefaultConfig(),
		Trend:           trend.DefaultConfig(),
		Personalization: personalization.DefaultConfig(),
		Events: EventsConfig{
			Enabled:           true,
			Backend:           "memory",
			NATSURL:           "nats://127.0.0.1:4222",
			BufferSize:        1024,
			RetryCount:        3,
			RetryInterval:     100 * time.Millisecond,
			ThrottlePerSecond: 0,
			DeduplicationTTL:  5 * time.Minute,
			CloseTimeout:      30 * time.Second,
			BreakerFailures:   5,
			BreakerTimeout:    30 * time.Second,
		},
		Refresh: RefreshConfig{
			Enabled:       true,
			Interval:      15 * time.Minute,
			BatchSize:     500,
			RatePerSecond: 20,
		},
	}
}

// LoadWithKoanf loads configuration using Koanf v2 with layered sources:
//  1. Defaults: Built-in sensible defaults
//  2. Config File: Optional YAML config file (if exists)
//  3. Environment Variables: Override any setting
func LoadWithKoanf() (*Config, error) {
	k := koanf.New(".")

	// Layer 1: Load defaults from struct
	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// Layer 2: Load config file (optional)
	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// Layer 3: Load environment variables (highest priority)
	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// findConfigFile searches for a config file in the default paths.
// Returns the path to the first file found, or empty string if none found.
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// sliceConfigPaths defines which config paths should be parsed as comma-separated slices
var sliceConfigPaths = []string{
	"server.cors_origins",
	"recommend.default_categories",
}

// processSliceFields converts comma-separated string values to slices for known slice fields.
// Env vars come in as strings, but the config expects slices.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok || strVal == "" {
			continue
		}

		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if len(trimmed) > 0 {
			if err := k.Set(path, trimmed); err != nil {
				return fmt.Errorf("failed to set %s: %w", path, err)
			}
		}
	}
	return nil
}

// envMappings maps environment variable names (lowercased) to koanf paths.
var envMappings = map[string]string{
	// Server mappings
	"http_port":           "server.port",
	"http_host":           "server.host",
	"http_timeout":        "server.timeout",
	"environment":         "server.environment",
	"cors_origins":        "server.cors_origins",
	"rate_limit_requests": "server.rate_limit_reqs",
	"rate_limit_window":   "server.rate_limit_window",
	"disable_rate_limit":  "server.rate_limit_disabled",

	// Database mappings
	"duckdb_path":       "database.path",
	"duckdb_max_memory": "database.max_memory",
	"duckdb_threads":    "database.threads",
	"seed_demo_data":    "database.seed_demo_data",

	// Logging mappings
	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",

	// Recommendation engine mappings
	"recommend_default_limit":         "recommend.limits.default_limit",
	"recommend_max_limit":             "recommend.limits.max_limit",
	"recommend_scorer_timeout":        "recommend.limits.scorer_timeout",
	"recommend_min_similarity":        "recommend.collaborative.min_similarity",
	"recommend_max_neighbors":         "recommend.collaborative.max_neighbors",
	"recommend_content_min_score":     "recommend.content.min_score",
	"recommend_factorization_scale":   "recommend.factorization.scale",
	"recommend_clusters":              "recommend.cluster.clusters",
	"recommend_focus_boost":           "recommend.focus.boost",
	"recommend_default_categories":    "recommend.default_categories",
	"recommend_weight_content":        "recommend.weights.content",
	"recommend_weight_collaborative":  "recommend.weights.collaborative",
	"recommend_weight_factorization":  "recommend.weights.factorization",
	"recommend_weight_clustering":     "recommend.weights.clustering",
	"recommend_weight_temporal":       "recommend.weights.temporal",
	"recommend_weight_trend":          "recommend.weights.trend",
	"recommend_weight_personalized":   "recommend.weights.personalized",
	"recommend_default_pref_weight":   "recommend.default_preference_weight",
	"recommend_personalized_min":      "recommend.personalized.min_score",
	"recommend_factorization_min":     "recommend.factorization.min_score",
	"recommend_content_no_match":      "recommend.content.no_match_score",
	"recommend_cluster_score":         "recommend.cluster.score",
	"recommend_temporal_score":        "recommend.temporal.score",

	// Trend mappings
	"trend_price_threshold":      "trend.price_threshold",
	"trend_popularity_threshold": "trend.popularity_threshold",
	"trend_seasonal_threshold":   "trend.seasonal_threshold",
	"trend_history_window":       "trend.history_window",
	"trend_cache_ttl":            "trend.cache_ttl",

	// Personalization mappings
	"personalization_cache_ttl": "personalization.cache_ttl",

	// Event mappings
	"events_enabled":          "events.enabled",
	"events_backend":          "events.backend",
	"nats_url":                "events.nats_url",
	"events_buffer_size":      "events.buffer_size",
	"events_retry_count":      "events.retry_count",
	"events_retry_interval":   "events.retry_interval",
	"events_throttle":         "events.throttle_per_second",
	"events_dedup_ttl":        "events.deduplication_ttl",
	"events_close_timeout":    "events.close_timeout",
	"events_breaker_failures": "events.breaker_failures",
	"events_breaker_timeout":  "events.breaker_timeout",

	// Refresh mappings
	"refresh_enabled":    "refresh.enabled",
	"refresh_interval":   "refresh.interval",
	"refresh_batch_size": "refresh.batch_size",
	"refresh_rate":       "refresh.rate_per_second",
}

// envTransformFunc transforms environment variable names to koanf config paths.
//
// Examples:
//   - DUCKDB_PATH -> database.path
//   - HTTP_PORT -> server.port
//   - RECOMMEND_WEIGHT_CONTENT -> recommend.weights.content
func envTransformFunc(key string) string {
	if mapped, ok := envMappings[strings.ToLower(key)]; ok {
		return mapped
	}
	// Unmapped keys are skipped so unrelated environment variables never leak in
	return ""
}
