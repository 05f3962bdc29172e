// PriceWatch - Price Tracking and Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pricewatch

package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/tomtom215/pricewatch/internal/metrics"
	"github.com/tomtom215/pricewatch/internal/models"
)

// behaviorSelect projects behaviors with product category, source and
// current price joined in.
const behaviorSelect = latestPriceCTE + `
	SELECT b.id, b.user_id, b.product_id, b.behavior_type, b.created_at, p.category, p.source, l.price
	FROM user_behaviors b
	LEFT JOIN products p ON p.id = b.product_id
	LEFT JOIN latest l ON l.product_id = b.product_id`

// engagementTypes are the behavior types that express positive interest.
var engagementTypes = []models.BehaviorType{
	models.BehaviorView,
	models.BehaviorWatchAdd,
	models.BehaviorNotificationClick,
}

// popularityTypes are the behavior types counted toward product popularity.
var popularityTypes = []models.BehaviorType{
	models.BehaviorView,
	models.BehaviorWatchAdd,
}

// AddBehavior appends a behavior event and fills in its ID.
func (db *DB) AddBehavior(ctx context.Context, b *models.UserBehavior) error {
	if b.CreatedAt.IsZero() {
		b.CreatedAt = db.now()
	}
	return insertBehavior(ctx, db.conn, b)
}

// execQuerier is satisfied by *sql.DB and *sql.Tx.
type execQuerier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func insertBehavior(ctx context.Context, q execQuerier, b *models.UserBehavior) error {
	err := q.QueryRowContext(ctx,
		`INSERT INTO user_behaviors (user_id, product_id, behavior_type, created_at)
		VALUES (?, ?, ?, ?) RETURNING id`,
		b.UserID, b.ProductID, b.BehaviorType.String(), b.CreatedAt.UTC(),
	).Scan(&b.ID)
	if err != nil {
		return fmt.Errorf("failed to insert behavior: %w", err)
	}
	return nil
}

// GetUserBehaviors returns the user's behavior log in chronological order.
func (db *DB) GetUserBehaviors(ctx context.Context, userID int64) ([]models.UserBehavior, error) {
	return db.queryBehaviors(ctx, behaviorSelect+` WHERE b.user_id = ? ORDER BY b.created_at, b.id`, userID)
}

// GetAllBehaviors returns every behavior in chronological order.
func (db *DB) GetAllBehaviors(ctx context.Context) ([]models.UserBehavior, error) {
	return db.queryBehaviors(ctx, behaviorSelect+` ORDER BY b.created_at, b.id`)
}

// GetProductBehaviors returns all behaviors on one product in chronological order.
func (db *DB) GetProductBehaviors(ctx context.Context, productID int64) ([]models.UserBehavior, error) {
	return db.queryBehaviors(ctx, behaviorSelect+` WHERE b.product_id = ? ORDER BY b.created_at, b.id`, productID)
}

// CountBehaviors counts the user's events of one type.
func (db *DB) CountBehaviors(ctx context.Context, userID int64, t models.BehaviorType) (int64, error) {
	var n int64
	err := db.conn.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM user_behaviors WHERE user_id = ? AND behavior_type = ?`,
		userID, t.String(),
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count behaviors: %w", err)
	}
	return n, nil
}

// CountProductBehaviors counts the user's events of one type on one product.
func (db *DB) CountProductBehaviors(ctx context.Context, userID, productID int64, t models.BehaviorType) (int64, error) {
	var n int64
	err := db.conn.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM user_behaviors WHERE user_id = ? AND product_id = ? AND behavior_type = ?`,
		userID, productID, t.String(),
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count product behaviors: %w", err)
	}
	return n, nil
}

// CountBehaviorsByType returns the user's event count for every behavior type,
// zero-filled.
func (db *DB) CountBehaviorsByType(ctx context.Context, userID int64) (map[models.BehaviorType]int64, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT behavior_type, COUNT(*) FROM user_behaviors WHERE user_id = ? GROUP BY behavior_type`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to count behaviors by type: %w", err)
	}
	defer closeWithLog(rows, "rows")

	counts := make(map[models.BehaviorType]int64, len(models.AllBehaviorTypes))
	for _, t := range models.AllBehaviorTypes {
		counts[t] = 0
	}
	for rows.Next() {
		var (
			name string
			n    int64
		)
		if err := rows.Scan(&name, &n); err != nil {
			return nil, fmt.Errorf("failed to scan behavior count: %w", err)
		}
		t, err := models.ParseBehaviorType(name)
		if err != nil {
			continue
		}
		counts[t] = n
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating behavior counts: %w", err)
	}
	return counts, nil
}

// GetEngagementCounts counts VIEW, WATCH_ADD and NOTIFICATION_CLICK events
// per product across all users.
func (db *DB) GetEngagementCounts(ctx context.Context) (map[int64]int, error) {
	return db.countByProduct(ctx, engagementTypes)
}

// GetPopularityCounts counts VIEW and WATCH_ADD events per product.
func (db *DB) GetPopularityCounts(ctx context.Context) (map[int64]int, error) {
	return db.countByProduct(ctx, popularityTypes)
}

// GetEngagedProducts returns every product with at least one engagement event.
func (db *DB) GetEngagedProducts(ctx context.Context) ([]models.Product, error) {
	query := productSelect + `
	WHERE p.id IN (SELECT product_id FROM user_behaviors WHERE behavior_type IN (` + placeholders(len(engagementTypes)) + `))
	ORDER BY p.id`

	products, err := db.queryProducts(ctx, query, typeArgs(engagementTypes)...)
	if err != nil {
		return nil, fmt.Errorf("failed to list engaged products: %w", err)
	}
	return products, nil
}

// GetActiveUserIDs returns users with at least one behavior at or after since,
// ordered by ID and capped at limit.
func (db *DB) GetActiveUserIDs(ctx context.Context, since time.Time, limit int) ([]int64, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT DISTINCT user_id FROM user_behaviors WHERE created_at >= ? ORDER BY user_id LIMIT ?`,
		since.UTC(), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list active users: %w", err)
	}
	defer closeWithLog(rows, "rows")

	ids := make([]int64, 0)
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan user id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating active users: %w", err)
	}
	return ids, nil
}

func (db *DB) countByProduct(ctx context.Context, types []models.BehaviorType) (map[int64]int, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT product_id, COUNT(*) FROM user_behaviors
		WHERE behavior_type IN (`+placeholders(len(types))+`)
		GROUP BY product_id`,
		typeArgs(types)...)
	if err != nil {
		return nil, fmt.Errorf("failed to count behaviors per product: %w", err)
	}
	defer closeWithLog(rows, "rows")

	counts := make(map[int64]int)
	for rows.Next() {
		var (
			id int64
			n  int
		)
		if err := rows.Scan(&id, &n); err != nil {
			return nil, fmt.Errorf("failed to scan product count: %w", err)
		}
		counts[id] = n
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating product counts: %w", err)
	}
	return counts, nil
}

func (db *DB) queryBehaviors(ctx context.Context, query string, args ...any) ([]models.UserBehavior, error) {
	start := time.Now()
	rows, err := db.conn.QueryContext(ctx, query, args...)
	metrics.RecordDBQuery("select", "user_behaviors", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("failed to query behaviors: %w", err)
	}
	defer closeWithLog(rows, "rows")

	behaviors := make([]models.UserBehavior, 0)
	for rows.Next() {
		var (
			b        models.UserBehavior
			typeName string
			category sql.NullString
			source   sql.NullString
			price    sql.NullFloat64
		)
		if err := rows.Scan(&b.ID, &b.UserID, &b.ProductID, &typeName, &b.CreatedAt, &category, &source, &price); err != nil {
			return nil, fmt.Errorf("failed to scan behavior: %w", err)
		}
		t, err := models.ParseBehaviorType(typeName)
		if err != nil {
			return nil, fmt.Errorf("behavior %d: %w", b.ID, err)
		}
		b.BehaviorType = t
		b.Category = category.String
		b.Source = source.String
		b.CurrentPrice = floatPtr(price)
		behaviors = append(behaviors, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating behaviors: %w", err)
	}
	return behaviors, nil
}

func typeArgs(types []models.BehaviorType) []any {
	args := make([]any, len(types))
	for i, t := range types {
		args[i] = t.String()
	}
	return args
}
