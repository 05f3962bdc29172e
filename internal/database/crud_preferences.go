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

	"github.com/goccy/go-json"

	"github.com/tomtom215/pricewatch/internal/models"
)

// GetUserPreferences returns the user's stored preferences ordered by category.
func (db *DB) GetUserPreferences(ctx context.Context, userID int64) ([]models.UserPreference, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT user_id, category, weight, updated_at FROM user_preferences
		WHERE user_id = ? ORDER BY category`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get preferences: %w", err)
	}
	defer closeWithLog(rows, "rows")

	return scanPreferences(rows)
}

// GetAllUserPreferences returns every user's stored preferences keyed by user.
func (db *DB) GetAllUserPreferences(ctx context.Context) (map[int64][]models.UserPreference, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT user_id, category, weight, updated_at FROM user_preferences ORDER BY user_id, category`)
	if err != nil {
		return nil, fmt.Errorf("failed to get all preferences: %w", err)
	}
	defer closeWithLog(rows, "rows")

	prefs, err := scanPreferences(rows)
	if err != nil {
		return nil, err
	}
	out := make(map[int64][]models.UserPreference)
	for _, p := range prefs {
		out[p.UserID] = append(out[p.UserID], p)
	}
	return out, nil
}

// UpsertUserPreference inserts or replaces the weight for (user, category).
func (db *DB) UpsertUserPreference(ctx context.Context, pref *models.UserPreference) error {
	if pref.UpdatedAt.IsZero() {
		pref.UpdatedAt = db.now()
	}
	return withConflictRetry(ctx, "upsert_preference", func() error {
		_, err := db.conn.ExecContext(ctx,
			`INSERT INTO user_preferences (user_id, category, weight, updated_at) VALUES (?, ?, ?, ?)
			ON CONFLICT (user_id, category) DO UPDATE SET weight = excluded.weight, updated_at = excluded.updated_at`,
			pref.UserID, pref.Category, pref.Weight, pref.UpdatedAt.UTC())
		if err != nil {
			return fmt.Errorf("failed to upsert preference: %w", err)
		}
		return nil
	})
}

// SaveUserProfile persists a personalization snapshot as JSON, replacing any
// previous snapshot for the user.
func (db *DB) SaveUserProfile(ctx context.Context, profile *models.UserProfile) error {
	if profile.UpdatedAt.IsZero() {
		profile.UpdatedAt = db.now()
	}
	data, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("failed to encode profile: %w", err)
	}
	return withConflictRetry(ctx, "save_profile", func() error {
		_, err := db.conn.ExecContext(ctx,
			`INSERT INTO user_profiles (user_id, profile, updated_at) VALUES (?, ?, ?)
			ON CONFLICT (user_id) DO UPDATE SET profile = excluded.profile, updated_at = excluded.updated_at`,
			profile.UserID, string(data), profile.UpdatedAt.UTC())
		if err != nil {
			return fmt.Errorf("failed to save profile: %w", err)
		}
		return nil
	})
}

// GetUserProfile returns the last persisted snapshot, or ErrNotFound.
func (db *DB) GetUserProfile(ctx context.Context, userID int64) (*models.UserProfile, error) {
	var (
		data      string
		updatedAt time.Time
	)
	err := db.conn.QueryRowContext(ctx,
		`SELECT profile, updated_at FROM user_profiles WHERE user_id = ?`, userID,
	).Scan(&data, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("profile for user %d: %w", userID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}

	var profile models.UserProfile
	if err := json.Unmarshal([]byte(data), &profile); err != nil {
		return nil, fmt.Errorf("failed to decode profile: %w", err)
	}
	profile.UserID = userID
	profile.UpdatedAt = updatedAt
	return &profile, nil
}

func scanPreferences(rows *sql.Rows) ([]models.UserPreference, error) {
	prefs := make([]models.UserPreference, 0)
	for rows.Next() {
		var p models.UserPreference
		if err := rows.Scan(&p.UserID, &p.Category, &p.Weight, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan preference: %w", err)
		}
		prefs = append(prefs, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating preferences: %w", err)
	}
	return prefs, nil
}
