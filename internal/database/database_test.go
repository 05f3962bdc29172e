// PriceWatch - Price Tracking and Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pricewatch

package database

import (
	"context"
	"testing"
	"time"

	"github.com/tomtom215/pricewatch/internal/config"
	"github.com/tomtom215/pricewatch/internal/models"
	"github.com/tomtom215/pricewatch/internal/personalization"
	"github.com/tomtom215/pricewatch/internal/recommend"
	"github.com/tomtom215/pricewatch/internal/recommend/algorithms"
	"github.com/tomtom215/pricewatch/internal/trend"
)

// DB is the store behind every service.
var (
	_ recommend.Store         = (*DB)(nil)
	_ algorithms.DataProvider = (*DB)(nil)
	_ trend.Store             = (*DB)(nil)
	_ personalization.Store   = (*DB)(nil)
)

// testDBSemaphore serializes tests that hold a DuckDB connection; concurrent
// CGO calls from many parallel tests can stall under CI resource pressure.
var testDBSemaphore = make(chan struct{}, 1)

// testNow is the fixed clock used by test databases.
var testNow = time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

// setupTestDB creates a new in-memory test database. The semaphore is held
// until the test completes.
func setupTestDB(t *testing.T) *DB {
	t.Helper()

	testDBSemaphore <- struct{}{}
	t.Cleanup(func() {
		<-testDBSemaphore
	})

	db, err := New(&config.DatabaseConfig{
		Path:                   ":memory:",
		MaxMemory:              "512MB",
		Threads:                2,
		PreserveInsertionOrder: true,
	})
	if err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}
	db.now = func() time.Time { return testNow }
	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Errorf("Close() error = %v", err)
		}
	})
	return db
}

// mustProduct inserts a product with an optional price observation.
func mustProduct(t *testing.T, db *DB, name, category, source string, price float64) models.Product {
	t.Helper()
	p := models.Product{Name: name, URL: "https://shop.example/" + name, Category: category, Source: source}
	if err := db.CreateProduct(context.Background(), &p); err != nil {
		t.Fatalf("CreateProduct(%s) error = %v", name, err)
	}
	if price > 0 {
		if err := db.AddPriceHistory(context.Background(), &models.PriceHistory{
			ProductID: p.ID, Price: price, CheckedAt: testNow.Add(-time.Hour),
		}); err != nil {
			t.Fatalf("AddPriceHistory(%s) error = %v", name, err)
		}
	}
	return p
}

func mustBehavior(t *testing.T, db *DB, userID, productID int64, bt models.BehaviorType, at time.Time) {
	t.Helper()
	if err := db.AddBehavior(context.Background(), &models.UserBehavior{
		UserID: userID, ProductID: productID, BehaviorType: bt, CreatedAt: at,
	}); err != nil {
		t.Fatalf("AddBehavior error = %v", err)
	}
}

func TestNewAndPing(t *testing.T) {
	db := setupTestDB(t)

	if err := db.Ping(context.Background()); err != nil {
		t.Fatalf("Ping() error = %v", err)
	}
	if db.Conn() == nil {
		t.Fatal("Conn() returned nil")
	}
}

func TestSchemaIsIdempotent(t *testing.T) {
	db := setupTestDB(t)

	if err := db.initialize(); err != nil {
		t.Fatalf("second initialize() error = %v", err)
	}
}

func TestPlaceholders(t *testing.T) {
	tests := []struct {
		n    int
		want string
	}{
		{0, ""},
		{1, "?"},
		{3, "?, ?, ?"},
	}
	for _, tt := range tests {
		if got := placeholders(tt.n); got != tt.want {
			t.Errorf("placeholders(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
}

func TestIsTransactionConflict(t *testing.T) {
	tests := []struct {
		msg  string
		want bool
	}{
		{"TransactionContext Error: Transaction conflict: cannot update a table that has been altered", true},
		{"Conflict on update", true},
		{"Constraint Error: duplicate key", false},
	}
	for _, tt := range tests {
		if got := isTransactionConflict(errString(tt.msg)); got != tt.want {
			t.Errorf("isTransactionConflict(%q) = %v, want %v", tt.msg, got, tt.want)
		}
	}
	if isTransactionConflict(nil) {
		t.Error("isTransactionConflict(nil) = true")
	}
}

func TestWithConflictRetry(t *testing.T) {
	calls := 0
	err := withConflictRetry(context.Background(), "test", func() error {
		calls++
		if calls < 3 {
			return errString("Transaction conflict")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("withConflictRetry() error = %v", err)
	}
	if calls != 3 {
		t.Errorf("calls = %d, want 3", calls)
	}

	calls = 0
	err = withConflictRetry(context.Background(), "test", func() error {
		calls++
		return errString("syntax error")
	})
	if err == nil || calls != 1 {
		t.Errorf("non-conflict errors must not retry: err=%v calls=%d", err, calls)
	}
}

type errString string

func (e errString) Error() string { return string(e) }
