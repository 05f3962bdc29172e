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

// Temporal recommends products popular in the current day-part, but only
// to users who have been active in that day-part before. Day-parts are
// evaluated in UTC.
type Temporal struct {
	cfg  recommend.TemporalConfig
	data DataProvider
}

// NewTemporal creates a temporal scorer.
func NewTemporal(cfg recommend.TemporalConfig, data DataProvider) *Temporal {
	return &Temporal{cfg: cfg, data: data}
}

// Algorithm returns TEMPORAL.
func (t *Temporal) Algorithm() models.Algorithm {
	return models.AlgorithmTemporal
}

// DayPartDistribution counts behaviors per day-part.
func DayPartDistribution(behaviors []models.UserBehavior) map[models.DayPart]int {
	out := make(map[models.DayPart]int, 4)
	for i := range behaviors {
		out[models.DayPartOf(behaviors[i].CreatedAt.UTC())]++
	}
	return out
}

// Score implements recommend.Scorer.
func (t *Temporal) Score(ctx context.Context, req *recommend.Request) ([]recommend.Candidate, error) {
	current := models.DayPartOf(req.Now.UTC())

	own, err := t.data.GetUserBehaviors(ctx, req.UserID)
	if err != nil {
		return nil, fmt.Errorf("load user behaviors: %w", err)
	}
	if DayPartDistribution(own)[current] == 0 {
		return nil, nil
	}

	all, err := t.data.GetAllBehaviors(ctx)
	if err != nil {
		return nil, fmt.Errorf("load behaviors: %w", err)
	}
	tracked, err := trackedSet(ctx, t.data, req.UserID)
	if err != nil {
		return nil, fmt.Errorf("load watchlist: %w", err)
	}

	counts := make(map[int64]int)
	for i := range all {
		b := &all[i]
		if b.BehaviorType.IsEngagement() && models.DayPartOf(b.CreatedAt.UTC()) == current {
			counts[b.ProductID]++
		}
	}

	ids := rankByCount(counts, tracked, req.Limit)
	return flatCandidates(ids, t.cfg.Score, models.AlgorithmTemporal), nil
}
