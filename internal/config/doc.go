// PriceWatch - Price Tracking and Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pricewatch

/*
Package config provides centralized configuration management for PriceWatch.

Configuration is loaded in layers with Koanf v2, later layers overriding
earlier ones:

 1. Struct defaults (defaultConfig)
 2. Optional YAML file (CONFIG_PATH, ./config.yaml, /etc/pricewatch/config.yaml)
 3. Environment variables (see envMappings)

# Configuration Structure

  - ServerConfig: HTTP listener, CORS origins, per-IP rate limit
  - DatabaseConfig: DuckDB path, memory and thread tuning
  - LoggingConfig: zerolog level, format and caller
  - recommend.Config: combination weights, thresholds, limits
  - trend.Config: trend thresholds and cache TTL
  - personalization.Config: profile cache TTL
  - EventsConfig: behavior event backend, router middleware, circuit breaker
  - RefreshConfig: periodic preference refresh pacing

# Environment Variables

Server:
  - HTTP_HOST, HTTP_PORT, HTTP_TIMEOUT, ENVIRONMENT
  - CORS_ORIGINS: comma-separated origins (default: *)
  - RATE_LIMIT_REQUESTS, RATE_LIMIT_WINDOW, DISABLE_RATE_LIMIT

Database:
  - DUCKDB_PATH (default: /data/pricewatch.duckdb), DUCKDB_MAX_MEMORY, DUCKDB_THREADS
  - SEED_DEMO_DATA: populate an empty database with demo data

Recommendations:
  - RECOMMEND_DEFAULT_LIMIT, RECOMMEND_MAX_LIMIT, RECOMMEND_SCORER_TIMEOUT
  - RECOMMEND_WEIGHT_{CONTENT,COLLABORATIVE,FACTORIZATION,CLUSTERING,TEMPORAL,TREND,PERSONALIZED}
  - RECOMMEND_DEFAULT_CATEGORIES: comma-separated

Events:
  - EVENTS_ENABLED, EVENTS_BACKEND (memory|nats), NATS_URL
  - EVENTS_RETRY_COUNT, EVENTS_THROTTLE, EVENTS_BREAKER_FAILURES

# Validation

Validate rejects out-of-range ports, an empty database path, unknown log
levels, unknown event backends and combination weights that do not sum to
1.0 within 0.01.
*/
package config
