// PriceWatch - Price Tracking and Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pricewatch

// Package algorithms implements the seven recommendation scorers.
//
// Each scorer implements recommend.Scorer and is registered with the
// engine at startup. Scorers are stateless between calls: every Score
// reads what it needs through DataProvider (and the trend or
// personalization source where relevant), so they are safe for
// concurrent use.
//
// # Scorers
//
//   - Content: category preference match plus bonuses
//   - Collaborative: decayed engagement of similar users
//   - Factorization: user row times item column sum
//   - Cluster: popular products in the user's preference-count cluster
//   - Temporal: products popular in the current day-part
//   - Trend: price-trending and growing-popularity products
//   - Personalized: per-product profile score
package algorithms

import (
	"context"
	"sort"

	"github.com/tomtom215/pricewatch/internal/models"
	"github.com/tomtom215/pricewatch/internal/recommend"
)

// DataProvider is the read-only data access shared by the scorers.
// Behaviors are returned with product category, source and current price
// joined in.
type DataProvider interface {
	GetUserBehaviors(ctx context.Context, userID int64) ([]models.UserBehavior, error)
	GetAllBehaviors(ctx context.Context) ([]models.UserBehavior, error)
	GetAllUserPreferences(ctx context.Context) (map[int64][]models.UserPreference, error)
	GetUserWatchlistIDs(ctx context.Context, userID int64) ([]int64, error)

	// GetEngagedProducts returns products with at least one VIEW, WATCH_ADD
	// or NOTIFICATION_CLICK event from any user.
	GetEngagedProducts(ctx context.Context) ([]models.Product, error)
	// GetWatchlistedProducts returns products on at least one watch list.
	GetWatchlistedProducts(ctx context.Context) ([]models.Product, error)
	GetAllProducts(ctx context.Context) ([]models.Product, error)

	// GetPopularityCounts counts VIEW and WATCH_ADD events per product.
	GetPopularityCounts(ctx context.Context) (map[int64]int, error)
}

// TrendSource supplies trend sets and scores.
type TrendSource interface {
	TrendingProducts(ctx context.Context) ([]models.Product, error)
	GrowingPopularityProducts(ctx context.Context) ([]models.Product, error)
	TrendScore(ctx context.Context, productID int64) (float64, error)
}

// PersonalizationSource supplies per-product personalized scores.
type PersonalizationSource interface {
	PersonalizedScore(ctx context.Context, userID int64, product *models.Product) float64
}

// trackedSet returns the user's watch list as a set.
func trackedSet(ctx context.Context, data DataProvider, userID int64) (map[int64]struct{}, error) {
	ids, err := data.GetUserWatchlistIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	set := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set, nil
}

// rankByCount orders product IDs by descending count, ties by ascending ID,
// skipping excluded products, and returns at most limit IDs.
func rankByCount(counts map[int64]int, exclude map[int64]struct{}, limit int) []int64 {
	ids := make([]int64, 0, len(counts))
	for id, n := range counts {
		if n <= 0 {
			continue
		}
		if _, skip := exclude[id]; skip {
			continue
		}
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		if counts[ids[i]] != counts[ids[j]] {
			return counts[ids[i]] > counts[ids[j]]
		}
		return ids[i] < ids[j]
	})
	if len(ids) > limit {
		ids = ids[:limit]
	}
	return ids
}

// flatCandidates scores every ID with the same value.
func flatCandidates(ids []int64, score float64, alg models.Algorithm) []recommend.Candidate {
	out := make([]recommend.Candidate, 0, len(ids))
	for _, id := range ids {
		out = append(out, recommend.Candidate{ProductID: id, Score: score, Algorithm: alg})
	}
	return out
}

// groupByUser splits a behavior log per user.
func groupByUser(behaviors []models.UserBehavior) map[int64][]models.UserBehavior {
	out := make(map[int64][]models.UserBehavior)
	for i := range behaviors {
		out[behaviors[i].UserID] = append(out[behaviors[i].UserID], behaviors[i])
	}
	return out
}
