// PriceWatch - Price Tracking and Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pricewatch

package database

import (
	"context"
	"runtime"
	"strings"
	"time"

	"github.com/tomtom215/pricewatch/internal/logging"
)

// Conflict retry tuning for optimistic-concurrency writes
const (
	conflictRetries    = 3
	conflictRetryDelay = 10 * time.Millisecond
)

// configureConnectionPool sets connection pool parameters
func (db *DB) configureConnectionPool() {
	db.conn.SetMaxOpenConns(runtime.NumCPU())
	db.conn.SetMaxIdleConns(2)
	db.conn.SetConnMaxLifetime(time.Hour)
	db.conn.SetConnMaxIdleTime(5 * time.Minute)
}

// isTransactionConflict checks if an error is a DuckDB transaction conflict
func isTransactionConflict(err error) bool {
	if err == nil {
		return false
	}
	errStr := err.Error()
	return strings.Contains(errStr, "Transaction conflict") ||
		strings.Contains(errStr, "Conflict on update") ||
		strings.Contains(errStr, "Conflict on tuple deletion")
}

// isUniqueConstraintError checks for DuckDB unique or primary key violations
func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	errMsg := strings.ToLower(err.Error())
	return strings.Contains(errMsg, "unique constraint") ||
		strings.Contains(errMsg, "duplicate key") ||
		strings.Contains(errMsg, "primary key constraint")
}

// withConflictRetry runs fn again when DuckDB aborts it with a write-write
// conflict. Writes that touch the same row from different connections race
// under DuckDB's optimistic concurrency control.
func withConflictRetry(ctx context.Context, op string, fn func() error) error {
	var err error
	for attempt := 0; attempt <= conflictRetries; attempt++ {
		if attempt > 0 {
			logging.Debug().Str("op", op).Int("attempt", attempt).Msg("Retrying after transaction conflict")
			select {
			case <-time.After(conflictRetryDelay * time.Duration(attempt)):
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		if err = fn(); !isTransactionConflict(err) {
			return err
		}
	}
	return err
}
