// PriceWatch - Price Tracking and Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pricewatch

/*
database_schema.go - Database Schema Management

Tables:
  - users: account identities
  - products: tracked catalog items (category and source optional)
  - price_history: price observations per product
  - user_behaviors: append-only interaction log (VIEW, WATCH_ADD, ...)
  - watchlist: products a user is tracking, one row per (user, product)
  - user_preferences: per-category affinity, one row per (user, category)
  - recommendations: one row per (user, product), upserted in place
  - user_profiles: persisted personalization snapshot (JSON)

Identifiers come from sequences. Timestamps are stored as UTC TIMESTAMP so
the schema needs no extension (TIMESTAMPTZ requires ICU).
*/

//nolint:staticcheck // File documentation, not package doc
package database

import (
	"context"
	"fmt"
	"time"
)

// schemaContext returns a context with timeout for schema operations
func schemaContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 60*time.Second)
}

// createTables creates the core database tables
func (db *DB) createTables() error {
	ctx, cancel := schemaContext()
	defer cancel()

	for _, query := range tableCreationQueries {
		if _, err := db.conn.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("failed to execute query: %s: %w", query, err)
		}
	}

	return nil
}

// createIndexes creates secondary indexes for the hot read paths
func (db *DB) createIndexes() error {
	ctx, cancel := schemaContext()
	defer cancel()

	for _, query := range indexCreationQueries {
		if _, err := db.conn.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("failed to create index: %s: %w", query, err)
		}
	}

	return nil
}

var tableCreationQueries = []string{
	`CREATE SEQUENCE IF NOT EXISTS seq_users START 1`,
	`CREATE SEQUENCE IF NOT EXISTS seq_products START 1`,
	`CREATE SEQUENCE IF NOT EXISTS seq_price_history START 1`,
	`CREATE SEQUENCE IF NOT EXISTS seq_user_behaviors START 1`,
	`CREATE SEQUENCE IF NOT EXISTS seq_recommendations START 1`,

	`CREATE TABLE IF NOT EXISTS users (
		id BIGINT PRIMARY KEY DEFAULT nextval('seq_users'),
		email TEXT NOT NULL UNIQUE,
		created_at TIMESTAMP NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS products (
		id BIGINT PRIMARY KEY DEFAULT nextval('seq_products'),
		name TEXT NOT NULL,
		url TEXT NOT NULL,
		category TEXT,
		source TEXT,
		created_at TIMESTAMP NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS price_history (
		id BIGINT PRIMARY KEY DEFAULT nextval('seq_price_history'),
		product_id BIGINT NOT NULL,
		price DOUBLE NOT NULL,
		checked_at TIMESTAMP NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS user_behaviors (
		id BIGINT PRIMARY KEY DEFAULT nextval('seq_user_behaviors'),
		user_id BIGINT NOT NULL,
		product_id BIGINT NOT NULL,
		behavior_type TEXT NOT NULL,
		created_at TIMESTAMP NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS watchlist (
		user_id BIGINT NOT NULL,
		product_id BIGINT NOT NULL,
		added_at TIMESTAMP NOT NULL,
		PRIMARY KEY (user_id, product_id)
	)`,

	`CREATE TABLE IF NOT EXISTS user_preferences (
		user_id BIGINT NOT NULL,
		category TEXT NOT NULL,
		weight DOUBLE NOT NULL,
		updated_at TIMESTAMP NOT NULL,
		PRIMARY KEY (user_id, category)
	)`,

	`CREATE TABLE IF NOT EXISTS recommendations (
		id BIGINT PRIMARY KEY DEFAULT nextval('seq_recommendations'),
		user_id BIGINT NOT NULL,
		product_id BIGINT NOT NULL,
		score DOUBLE NOT NULL,
		algorithm TEXT NOT NULL,
		viewed BOOLEAN NOT NULL DEFAULT false,
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL,
		UNIQUE (user_id, product_id)
	)`,

	`CREATE TABLE IF NOT EXISTS user_profiles (
		user_id BIGINT PRIMARY KEY,
		profile TEXT NOT NULL,
		updated_at TIMESTAMP NOT NULL
	)`,
}

var indexCreationQueries = []string{
	`CREATE INDEX IF NOT EXISTS idx_price_history_product ON price_history(product_id, checked_at)`,
	`CREATE INDEX IF NOT EXISTS idx_behaviors_user ON user_behaviors(user_id, created_at)`,
	`CREATE INDEX IF NOT EXISTS idx_behaviors_product ON user_behaviors(product_id)`,
	`CREATE INDEX IF NOT EXISTS idx_products_category ON products(category)`,
}
