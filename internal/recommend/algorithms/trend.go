// PriceWatch - Price Tracking and Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pricewatch

package algorithms

import (
	"context"
	"fmt"

	"github.com/tomtom215/pricewatch/internal/models"
	"github.com/tomtom215/pricewatch/internal/recommend"
)

// Trend recommends price-trending and growing-popularity products the user
// does not track, scored by the trend service.
type Trend struct {
	data   DataProvider
	trends TrendSource
}

// NewTrend creates a trend scorer.
func NewTrend(data DataProvider, trends TrendSource) *Trend {
	return &Trend{data: data, trends: trends}
}

// Algorithm returns TREND_BASED.
func (t *Trend) Algorithm() models.Algorithm {
	return models.AlgorithmTrendBased
}

// Score implements recommend.Scorer.
func (t *Trend) Score(ctx context.Context, req *recommend.Request) ([]recommend.Candidate, error) {
	trending, err := t.trends.TrendingProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("load trending products: %w", err)
	}
	growing, err := t.trends.GrowingPopularityProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("load growing products: %w", err)
	}
	tracked, err := trackedSet(ctx, t.data, req.UserID)
	if err != nil {
		return nil, fmt.Errorf("load watchlist: %w", err)
	}

	seen := make(map[int64]struct{}, len(trending)+len(growing))
	out := make([]recommend.Candidate, 0, len(trending)+len(growing))
	for _, list := range [][]models.Product{trending, growing} {
		for i := range list {
			id := list[i].ID
			if _, dup := seen[id]; dup {
				continue
			}
			seen[id] = struct{}{}
			if _, skip := tracked[id]; skip {
				continue
			}
			score, err := t.trends.TrendScore(ctx, id)
			if err != nil {
				return nil, fmt.Errorf("trend score for product %d: %w", id, err)
			}
			out = append(out, recommend.Candidate{
				ProductID: id,
				Score:     score,
				Algorithm: models.AlgorithmTrendBased,
			})
		}
	}
	return recommend.TopN(out, req.Limit), nil
}
