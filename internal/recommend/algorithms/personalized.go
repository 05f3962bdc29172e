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

// Personalized asks the personalization service to score every untracked
// catalog product and keeps those at or above MinScore.
type Personalized struct {
	cfg      recommend.PersonalizedConfig
	data     DataProvider
	personal PersonalizationSource
}

// NewPersonalized creates a personalization scorer.
func NewPersonalized(cfg recommend.PersonalizedConfig, data DataProvider, personal PersonalizationSource) *Personalized {
	return &Personalized{cfg: cfg, data: data, personal: personal}
}

// Algorithm returns PERSONALIZED.
func (p *Personalized) Algorithm() models.Algorithm {
	return models.AlgorithmPersonalized
}

// Score implements recommend.Scorer.
func (p *Personalized) Score(ctx context.Context, req *recommend.Request) ([]recommend.Candidate, error) {
	products, err := p.data.GetAllProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("load products: %w", err)
	}
	tracked, err := trackedSet(ctx, p.data, req.UserID)
	if err != nil {
		return nil, fmt.Errorf("load watchlist: %w", err)
	}

	out := make([]recommend.Candidate, 0)
	for i := range products {
		if recommend.ContextCancelled(ctx) {
			return nil, ctx.Err()
		}
		if _, skip := tracked[products[i].ID]; skip {
			continue
		}
		score := p.personal.PersonalizedScore(ctx, req.UserID, &products[i])
		if score < p.cfg.MinScore {
			continue
		}
		out = append(out, recommend.Candidate{
			ProductID: products[i].ID,
			Score:     score,
			Algorithm: models.AlgorithmPersonalized,
		})
	}
	return recommend.TopN(out, req.Limit), nil
}
