// PriceWatch - Price Tracking and Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pricewatch

package database

import (
	"context"
	"fmt"
	"time"

	"github.com/tomtom215/pricewatch/internal/models"
)

// AddToWatchlist starts tracking a product for a user. Adding a product that is
// already tracked keeps the original AddedAt.
func (db *DB) AddToWatchlist(ctx context.Context, userID, productID int64, at time.Time) error {
	if at.IsZero() {
		at = db.now()
	}
	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO watchlist (user_id, product_id, added_at) VALUES (?, ?, ?)
		ON CONFLICT (user_id, product_id) DO NOTHING`,
		userID, productID, at.UTC())
	if err != nil {
		return fmt.Errorf("failed to add to watch list: %w", err)
	}
	return nil
}

// RemoveFromWatchlist stops tracking a product. Removing an untracked product
// is not an error.
func (db *DB) RemoveFromWatchlist(ctx context.Context, userID, productID int64) error {
	_, err := db.conn.ExecContext(ctx,
		`DELETE FROM watchlist WHERE user_id = ? AND product_id = ?`, userID, productID)
	if err != nil {
		return fmt.Errorf("failed to remove from watch list: %w", err)
	}
	return nil
}

// GetUserWatchlist returns the user's tracked products ordered by ID.
func (db *DB) GetUserWatchlist(ctx context.Context, userID int64) ([]models.Product, error) {
	query := productSelect + `
	JOIN watchlist w ON w.product_id = p.id
	WHERE w.user_id = ?
	ORDER BY p.id`

	products, err := db.queryProducts(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get watch list: %w", err)
	}
	return products, nil
}

// GetUserWatchlistIDs returns the IDs of the user's tracked products.
func (db *DB) GetUserWatchlistIDs(ctx context.Context, userID int64) ([]int64, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT product_id FROM watchlist WHERE user_id = ? ORDER BY product_id`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get watch list ids: %w", err)
	}
	defer closeWithLog(rows, "rows")

	ids := make([]int64, 0)
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan product id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating watch list: %w", err)
	}
	return ids, nil
}

// GetWatchlistCounts counts watch-list entries per product across all users.
func (db *DB) GetWatchlistCounts(ctx context.Context) (map[int64]int, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT product_id, COUNT(*) FROM watchlist GROUP BY product_id`)
	if err != nil {
		return nil, fmt.Errorf("failed to count watch lists: %w", err)
	}
	defer closeWithLog(rows, "rows")

	counts := make(map[int64]int)
	for rows.Next() {
		var (
			id int64
			n  int
		)
		if err := rows.Scan(&id, &n); err != nil {
			return nil, fmt.Errorf("failed to scan watch list count: %w", err)
		}
		counts[id] = n
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating watch list counts: %w", err)
	}
	return counts, nil
}

// GetWatchlistedProducts returns every product on at least one watch list.
func (db *DB) GetWatchlistedProducts(ctx context.Context) ([]models.Product, error) {
	query := productSelect + `
	WHERE p.id IN (SELECT product_id FROM watchlist)
	ORDER BY p.id`

	products, err := db.queryProducts(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list watch-listed products: %w", err)
	}
	return products, nil
}
