// PriceWatch - Price Tracking and Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pricewatch

package algorithms

import (
	"context"
	"fmt"
	"math"

	"github.com/tomtom215/pricewatch/internal/models"
	"github.com/tomtom215/pricewatch/internal/recommend"
)

// Factorization is a latent-factor stand-in over the user-product matrix.
//
// Each cell holds the summed undecayed behavior weight of a user on a
// product. The user factor is the target's row; the item factor is the
// column sum over all users:
//
//	score(item) = round4(row[item] * colSum[item] / Scale)
//
// Products scoring below MinScore are dropped. The result is not clamped.
type Factorization struct {
	cfg  recommend.FactorizationConfig
	data DataProvider
}

// NewFactorization creates a factorization scorer.
func NewFactorization(cfg recommend.FactorizationConfig, data DataProvider) *Factorization {
	return &Factorization{cfg: cfg, data: data}
}

// Algorithm returns MATRIX_FACTORIZATION.
func (f *Factorization) Algorithm() models.Algorithm {
	return models.AlgorithmMatrixFactorization
}

// Score implements recommend.Scorer.
func (f *Factorization) Score(ctx context.Context, req *recommend.Request) ([]recommend.Candidate, error) {
	all, err := f.data.GetAllBehaviors(ctx)
	if err != nil {
		return nil, fmt.Errorf("load behaviors: %w", err)
	}

	row := make(map[int64]float64)
	colSum := make(map[int64]float64)
	for i := range all {
		b := &all[i]
		w := recommend.BehaviorWeight(b.BehaviorType)
		colSum[b.ProductID] += w
		if b.UserID == req.UserID {
			row[b.ProductID] += w
		}
	}

	out := make([]recommend.Candidate, 0, len(row))
	for id, u := range row {
		score := round4(u * colSum[id] / f.cfg.Scale)
		if score < f.cfg.MinScore {
			continue
		}
		out = append(out, recommend.Candidate{
			ProductID: id,
			Score:     score,
			Algorithm: models.AlgorithmMatrixFactorization,
		})
	}
	return recommend.TopN(out, req.Limit), nil
}

func round4(v float64) float64 {
	return math.Round(v*1e4) / 1e4
}
