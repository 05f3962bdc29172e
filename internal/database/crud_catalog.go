// PriceWatch - Price Tracking and Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pricewatch

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/tomtom215/pricewatch/internal/metrics"
	"github.com/tomtom215/pricewatch/internal/models"
)

// latestPriceCTE resolves each product's most recent observed price.
const latestPriceCTE = `WITH latest AS (
		SELECT product_id, arg_max(price, checked_at) AS price
		FROM price_history
		GROUP BY product_id
	)`

// productSelect is the product projection with the current price attached.
const productSelect = latestPriceCTE + `
	SELECT p.id, p.name, p.url, p.category, p.source, l.price
	FROM products p
	LEFT JOIN latest l ON l.product_id = p.id`

// CreateUser inserts a user and fills in its ID.
func (db *DB) CreateUser(ctx context.Context, user *models.User) error {
	if user.CreatedAt.IsZero() {
		user.CreatedAt = db.now()
	}

	err := db.conn.QueryRowContext(ctx,
		`INSERT INTO users (email, created_at) VALUES (?, ?) RETURNING id`,
		user.Email, user.CreatedAt.UTC(),
	).Scan(&user.ID)
	if err != nil {
		if isUniqueConstraintError(err) {
			return fmt.Errorf("user %q: %w", user.Email, ErrDuplicate)
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// GetUser retrieves a user by ID.
func (db *DB) GetUser(ctx context.Context, id int64) (*models.User, error) {
	var u models.User
	err := db.conn.QueryRowContext(ctx,
		`SELECT id, email, created_at FROM users WHERE id = ?`, id,
	).Scan(&u.ID, &u.Email, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("user %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &u, nil
}

// CreateProduct inserts a product and fills in its ID.
func (db *DB) CreateProduct(ctx context.Context, p *models.Product) error {
	err := db.conn.QueryRowContext(ctx,
		`INSERT INTO products (name, url, category, source, created_at) VALUES (?, ?, ?, ?, ?) RETURNING id`,
		p.Name, p.URL, nullString(p.Category), nullString(p.Source), db.now(),
	).Scan(&p.ID)
	if err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}
	return nil
}

// GetProduct retrieves a product with its current price.
func (db *DB) GetProduct(ctx context.Context, id int64) (*models.Product, error) {
	row := db.conn.QueryRowContext(ctx, productSelect+` WHERE p.id = ?`, id)
	p, err := scanProduct(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("product %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	return p, nil
}

// GetProductsByIDs returns the requested products keyed by ID. Unknown IDs are
// absent from the map.
func (db *DB) GetProductsByIDs(ctx context.Context, ids []int64) (map[int64]models.Product, error) {
	out := make(map[int64]models.Product, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	query := productSelect + ` WHERE p.id IN (` + placeholders(len(ids)) + `)`

	products, err := db.queryProducts(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get products by id: %w", err)
	}
	for _, p := range products {
		out[p.ID] = p
	}
	return out, nil
}

// GetAllProducts returns the full catalog ordered by ID.
func (db *DB) GetAllProducts(ctx context.Context) ([]models.Product, error) {
	products, err := db.queryProducts(ctx, productSelect+` ORDER BY p.id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return products, nil
}

// AddPriceHistory records a price observation.
func (db *DB) AddPriceHistory(ctx context.Context, h *models.PriceHistory) error {
	if h.CheckedAt.IsZero() {
		h.CheckedAt = db.now()
	}
	err := db.conn.QueryRowContext(ctx,
		`INSERT INTO price_history (product_id, price, checked_at) VALUES (?, ?, ?) RETURNING id`,
		h.ProductID, h.Price, h.CheckedAt.UTC(),
	).Scan(&h.ID)
	if err != nil {
		return fmt.Errorf("failed to add price history: %w", err)
	}
	return nil
}

// GetPriceHistory returns a product's observations ordered by CheckedAt ascending.
func (db *DB) GetPriceHistory(ctx context.Context, productID int64) ([]models.PriceHistory, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT id, product_id, price, checked_at FROM price_history
		WHERE product_id = ? ORDER BY checked_at, id`, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to query price history: %w", err)
	}
	defer closeWithLog(rows, "rows")

	history := make([]models.PriceHistory, 0)
	for rows.Next() {
		var h models.PriceHistory
		if err := rows.Scan(&h.ID, &h.ProductID, &h.Price, &h.CheckedAt); err != nil {
			return nil, fmt.Errorf("failed to scan price history: %w", err)
		}
		history = append(history, h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating price history: %w", err)
	}
	return history, nil
}

// queryProducts runs a productSelect query and scans every row.
func (db *DB) queryProducts(ctx context.Context, query string, args ...any) ([]models.Product, error) {
	start := time.Now()
	rows, err := db.conn.QueryContext(ctx, query, args...)
	metrics.RecordDBQuery("select", "products", time.Since(start), err)
	if err != nil {
		return nil, err
	}
	defer closeWithLog(rows, "rows")

	products := make([]models.Product, 0)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating products: %w", err)
	}
	return products, nil
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner) (*models.Product, error) {
	var (
		p        models.Product
		category sql.NullString
		source   sql.NullString
		price    sql.NullFloat64
	)
	if err := row.Scan(&p.ID, &p.Name, &p.URL, &category, &source, &price); err != nil {
		return nil, err
	}
	p.Category = category.String
	p.Source = source.String
	p.CurrentPrice = floatPtr(price)
	return &p, nil
}

// nullString maps an empty string to SQL NULL.
func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func floatPtr(f sql.NullFloat64) *float64 {
	if !f.Valid {
		return nil
	}
	v := f.Float64
	return &v
}

// placeholders returns "?, ?, ..." with n markers.
func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.Repeat("?, ", n-1) + "?"
}
