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
	"time"

	"github.com/tomtom215/pricewatch/internal/logging"
	"github.com/tomtom215/pricewatch/internal/metrics"
	"github.com/tomtom215/pricewatch/internal/models"
)

// recommendationColumns is the RETURNING/SELECT list scanned by scanRecommendation.
const recommendationColumns = `id, user_id, product_id, score, algorithm, viewed, created_at, updated_at`

// recommendationDTOSelect joins recommendations with product details.
const recommendationDTOSelect = latestPriceCTE + `
	SELECT r.id, r.product_id, p.name, p.url, p.category, p.source, l.price, r.score, r.algorithm, r.viewed
	FROM recommendations r
	JOIN products p ON p.id = r.product_id
	LEFT JOIN latest l ON l.product_id = r.product_id`

// recommendationOrder ranks by score, oldest row first on ties.
const recommendationOrder = ` ORDER BY r.score DESC, r.id ASC`

// UpsertRecommendation inserts the (user, product) row or, when it exists,
// overwrites score, algorithm and updated_at in the same statement. The viewed
// flag and created_at of an existing row are preserved.
func (db *DB) UpsertRecommendation(ctx context.Context, rec *models.Recommendation) (*models.Recommendation, error) {
	now := rec.UpdatedAt
	if now.IsZero() {
		now = db.now()
	}

	var saved *models.Recommendation
	err := withConflictRetry(ctx, "upsert_recommendation", func() error {
		row := db.conn.QueryRowContext(ctx,
			`INSERT INTO recommendations (user_id, product_id, score, algorithm, viewed, created_at, updated_at)
			VALUES (?, ?, ?, ?, false, ?, ?)
			ON CONFLICT (user_id, product_id) DO UPDATE SET
				score = excluded.score,
				algorithm = excluded.algorithm,
				updated_at = excluded.updated_at
			RETURNING `+recommendationColumns,
			rec.UserID, rec.ProductID, rec.Score, rec.Algorithm.String(), now.UTC(), now.UTC())

		r, err := scanRecommendation(row)
		if err != nil {
			return fmt.Errorf("failed to upsert recommendation: %w", err)
		}
		saved = r
		return nil
	})
	if err != nil {
		return nil, err
	}
	return saved, nil
}

// GetRecommendation retrieves one recommendation row.
func (db *DB) GetRecommendation(ctx context.Context, id int64) (*models.Recommendation, error) {
	row := db.conn.QueryRowContext(ctx,
		`SELECT `+recommendationColumns+` FROM recommendations WHERE id = ?`, id)
	r, err := scanRecommendation(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("recommendation %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get recommendation: %w", err)
	}
	return r, nil
}

// GetUserRecommendations returns the user's top recommendations by score.
func (db *DB) GetUserRecommendations(ctx context.Context, userID int64, limit int) ([]models.RecommendationDTO, error) {
	return db.queryRecommendationDTOs(ctx,
		recommendationDTOSelect+` WHERE r.user_id = ?`+recommendationOrder+` LIMIT ?`,
		userID, limit)
}

// GetRecommendationsByAlgorithm returns the user's recommendations tagged with algorithm.
func (db *DB) GetRecommendationsByAlgorithm(ctx context.Context, userID int64, algorithm models.Algorithm) ([]models.RecommendationDTO, error) {
	return db.queryRecommendationDTOs(ctx,
		recommendationDTOSelect+` WHERE r.user_id = ? AND r.algorithm = ?`+recommendationOrder,
		userID, algorithm.String())
}

// GetRecommendationsByCategories returns the user's recommendations whose
// product falls in one of categories.
func (db *DB) GetRecommendationsByCategories(ctx context.Context, userID int64, categories []string) ([]models.RecommendationDTO, error) {
	if len(categories) == 0 {
		return []models.RecommendationDTO{}, nil
	}

	args := make([]any, 0, len(categories)+1)
	args = append(args, userID)
	for _, c := range categories {
		args = append(args, c)
	}
	return db.queryRecommendationDTOs(ctx,
		recommendationDTOSelect+` WHERE r.user_id = ? AND p.category IN (`+placeholders(len(categories))+`)`+recommendationOrder,
		args...)
}

// GetUnviewedRecommendations returns the user's recommendations not yet viewed.
func (db *DB) GetUnviewedRecommendations(ctx context.Context, userID int64) ([]models.RecommendationDTO, error) {
	return db.queryRecommendationDTOs(ctx,
		recommendationDTOSelect+` WHERE r.user_id = ? AND NOT r.viewed`+recommendationOrder,
		userID)
}

// CountUnviewedRecommendations counts the user's unviewed recommendations.
func (db *DB) CountUnviewedRecommendations(ctx context.Context, userID int64) (int64, error) {
	var n int64
	err := db.conn.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM recommendations WHERE user_id = ? AND NOT viewed`, userID,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count unviewed recommendations: %w", err)
	}
	return n, nil
}

// MarkRecommendationViewed sets viewed=true and appends a VIEW behavior for
// the underlying (user, product) in one transaction.
func (db *DB) MarkRecommendationViewed(ctx context.Context, id int64, at time.Time) (rec *models.Recommendation, err error) {
	if at.IsZero() {
		at = db.now()
	}

	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				logging.Error().
					Err(rbErr).
					AnErr("original_error", err).
					Msg("Transaction rollback failed")
			}
		}
	}()

	row := tx.QueryRowContext(ctx,
		`UPDATE recommendations SET viewed = true, updated_at = ? WHERE id = ?
		RETURNING `+recommendationColumns,
		at.UTC(), id)
	rec, err = scanRecommendation(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("recommendation %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to mark recommendation viewed: %w", err)
	}

	behavior := &models.UserBehavior{
		UserID:       rec.UserID,
		ProductID:    rec.ProductID,
		BehaviorType: models.BehaviorView,
		CreatedAt:    at,
	}
	if err = insertBehavior(ctx, tx, behavior); err != nil {
		return nil, err
	}

	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return rec, nil
}

func (db *DB) queryRecommendationDTOs(ctx context.Context, query string, args ...any) ([]models.RecommendationDTO, error) {
	start := time.Now()
	rows, err := db.conn.QueryContext(ctx, query, args...)
	metrics.RecordDBQuery("select", "recommendations", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("failed to query recommendations: %w", err)
	}
	defer closeWithLog(rows, "rows")

	out := make([]models.RecommendationDTO, 0)
	for rows.Next() {
		var (
			dto       models.RecommendationDTO
			category  sql.NullString
			source    sql.NullString
			price     sql.NullFloat64
			algorithm string
		)
		if err := rows.Scan(&dto.ID, &dto.ProductID, &dto.ProductName, &dto.ProductURL,
			&category, &source, &price, &dto.Score, &algorithm, &dto.IsViewed); err != nil {
			return nil, fmt.Errorf("failed to scan recommendation: %w", err)
		}
		a, err := models.ParseAlgorithm(algorithm)
		if err != nil {
			return nil, fmt.Errorf("recommendation %d: %w", dto.ID, err)
		}
		dto.Algorithm = a
		dto.ProductCategory = category.String
		dto.ProductSource = source.String
		dto.CurrentPrice = floatPtr(price)
		out = append(out, dto)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating recommendations: %w", err)
	}
	return out, nil
}

func scanRecommendation(row rowScanner) (*models.Recommendation, error) {
	var (
		r         models.Recommendation
		algorithm string
	)
	if err := row.Scan(&r.ID, &r.UserID, &r.ProductID, &r.Score, &algorithm, &r.Viewed, &r.CreatedAt, &r.UpdatedAt); err != nil {
		return nil, err
	}
	a, err := models.ParseAlgorithm(algorithm)
	if err != nil {
		return nil, fmt.Errorf("recommendation %d: %w", r.ID, err)
	}
	r.Algorithm = a
	return &r, nil
}
