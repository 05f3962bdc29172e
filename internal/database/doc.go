// PriceWatch - Price Tracking and Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pricewatch

// Package database provides DuckDB-backed persistence for PriceWatch.
//
// # Overview
//
// DB is the single store behind every service: it satisfies recommend.Store,
// algorithms.DataProvider, trend.Store, personalization.Store and the
// tracking store. All access goes through database/sql with the CGO driver
// github.com/duckdb/duckdb-go/v2.
//
// # Architecture
//
//   - database.go: lifecycle (open, pool, schema, checkpoint, close)
//   - database_schema.go: sequences, tables and indexes
//   - database_connection.go: pool tuning, conflict detection and retry
//   - crud_catalog.go: users, products, price history
//   - crud_behaviors.go: behavior log, per-product counts, active users
//   - crud_watchlist.go: watch-list membership
//   - crud_preferences.go: category preferences and profile snapshots
//   - crud_recommendations.go: recommendation upserts and queries
//   - seed.go: demo data
//
// # Current Price
//
// Products carry no price column. Readers attach the most recent observation
// with arg_max(price, checked_at) over price_history; products without
// history have a nil CurrentPrice.
//
// # Atomicity
//
// UpsertRecommendation is a single INSERT ... ON CONFLICT (user_id,
// product_id) DO UPDATE ... RETURNING statement, so concurrent writers can
// never create a second row for the same pair. MarkRecommendationViewed
// flips the flag and appends the VIEW behavior in one transaction. Writes
// aborted by DuckDB's optimistic concurrency control are retried.
//
// # Thread Safety
//
// DB is safe for concurrent use; database/sql manages the connection pool.
package database
