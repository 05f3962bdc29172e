// PriceWatch - Price Tracking and Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pricewatch

package recommend

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/tomtom215/pricewatch/internal/models"
)

const (
	// preferenceBase and preferenceStep give weight = min(1, base + step*count).
	preferenceBase = 0.5
	preferenceStep = 0.1

	// statsRecentLimit is the number of recent recommendations in Stats.
	statsRecentLimit = 5
)

// GetUserRecommendations returns stored recommendations for userID by
// descending score, without recomputing anything.
func (e *Engine) GetUserRecommendations(ctx context.Context, userID int64, limit int) ([]models.RecommendationDTO, error) {
	recs, err := e.store.GetUserRecommendations(ctx, userID, e.config.ResolveLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("get recommendations: %w", err)
	}
	return recs, nil
}

// GetRecommendationsByAlgorithm returns stored recommendations tagged algorithm.
func (e *Engine) GetRecommendationsByAlgorithm(ctx context.Context, userID int64, algorithm models.Algorithm) ([]models.RecommendationDTO, error) {
	recs, err := e.store.GetRecommendationsByAlgorithm(ctx, userID, algorithm)
	if err != nil {
		return nil, fmt.Errorf("get recommendations by algorithm: %w", err)
	}
	return recs, nil
}

// GetRecommendationsByCategories returns stored recommendations whose product
// is in one of categories.
func (e *Engine) GetRecommendationsByCategories(ctx context.Context, userID int64, categories []string) ([]models.RecommendationDTO, error) {
	if len(categories) == 0 {
		return []models.RecommendationDTO{}, nil
	}
	recs, err := e.store.GetRecommendationsByCategories(ctx, userID, categories)
	if err != nil {
		return nil, fmt.Errorf("get recommendations by categories: %w", err)
	}
	return recs, nil
}

// GetUnviewedRecommendations returns stored recommendations not yet viewed.
func (e *Engine) GetUnviewedRecommendations(ctx context.Context, userID int64) ([]models.RecommendationDTO, error) {
	recs, err := e.store.GetUnviewedRecommendations(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get unviewed recommendations: %w", err)
	}
	return recs, nil
}

// CountUnviewed returns the number of unviewed recommendations for userID.
func (e *Engine) CountUnviewed(ctx context.Context, userID int64) (int64, error) {
	n, err := e.store.CountUnviewedRecommendations(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("count unviewed: %w", err)
	}
	return n, nil
}

// Stats returns the unviewed count and the top stored recommendations.
func (e *Engine) Stats(ctx context.Context, userID int64) (*models.RecommendationStats, error) {
	n, err := e.CountUnviewed(ctx, userID)
	if err != nil {
		return nil, err
	}
	recent, err := e.store.GetUserRecommendations(ctx, userID, statsRecentLimit)
	if err != nil {
		return nil, fmt.Errorf("get recent recommendations: %w", err)
	}
	return &models.RecommendationStats{UnviewedCount: n, Recent: recent}, nil
}

// MarkViewed flags a recommendation as viewed and records a VIEW behavior
// for its product. The store performs both writes atomically.
func (e *Engine) MarkViewed(ctx context.Context, recommendationID int64) (*models.Recommendation, error) {
	at := e.now()
	rec, err := e.store.MarkRecommendationViewed(ctx, recommendationID, at)
	if err != nil {
		return nil, fmt.Errorf("mark recommendation %d viewed: %w", recommendationID, err)
	}

	if e.publisher != nil {
		b := &models.UserBehavior{
			UserID:       rec.UserID,
			ProductID:    rec.ProductID,
			BehaviorType: models.BehaviorView,
			CreatedAt:    at,
		}
		if err := e.publisher.PublishBehavior(ctx, b); err != nil {
			e.logger.Warn().Err(err).Int64("recommendation_id", recommendationID).Msg("publish view behavior failed")
		}
	}
	return rec, nil
}

// UpdateUserPreferences recomputes category preferences from the user's
// behavior log: weight = min(1, 0.5 + 0.1*count) per category seen.
// Calling it twice without new behaviors produces identical rows.
func (e *Engine) UpdateUserPreferences(ctx context.Context, userID int64) ([]models.UserPreference, error) {
	behaviors, err := e.store.GetUserBehaviors(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load behaviors: %w", err)
	}

	counts := make(map[string]int)
	for i := range behaviors {
		if cat := behaviors[i].Category; cat != "" {
			counts[cat]++
		}
	}

	cats := make([]string, 0, len(counts))
	for cat := range counts {
		cats = append(cats, cat)
	}
	sort.Strings(cats)

	now := e.now()
	prefs := make([]models.UserPreference, 0, len(cats))
	for _, cat := range cats {
		pref := models.UserPreference{
			UserID:    userID,
			Category:  cat,
			Weight:    PreferenceWeight(counts[cat]),
			UpdatedAt: now,
		}
		if err := e.store.UpsertUserPreference(ctx, &pref); err != nil {
			return nil, fmt.Errorf("upsert preference %q: %w", cat, err)
		}
		prefs = append(prefs, pref)
	}

	e.logger.Debug().Int64("user_id", userID).Int("categories", len(prefs)).Msg("preferences updated")
	return prefs, nil
}

// PreferenceWeight maps a category occurrence count to a preference weight.
func PreferenceWeight(count int) float64 {
	return math.Min(1.0, preferenceBase+preferenceStep*float64(count))
}
