// PriceWatch - Price Tracking and Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pricewatch

package recommend

import "github.com/tomtom215/pricewatch/internal/models"

// Combine merges per-scorer candidate lists into one ranked list.
//
// Each candidate's raw score is multiplied by its strategy weight. A product
// seen more than once has its weighted scores summed and is re-tagged HYBRID.
// Failed results are skipped. The merged list is sorted by descending score
// (ties by product ID) and truncated to limit.
//
//nolint:gocritic // hugeParam: weights are read-only
func Combine(results []ScorerResult, weights AlgorithmWeights, limit int) []Candidate {
	merged := make(map[int64]*Candidate)
	order := make([]int64, 0)

	for _, res := range results {
		if res.Err != nil {
			continue
		}
		w := weights.For(res.Algorithm)
		for _, c := range res.Candidates {
			weighted := c.Score * w
			if existing, ok := merged[c.ProductID]; ok {
				existing.Score += weighted
				existing.Algorithm = models.AlgorithmHybrid
				continue
			}
			merged[c.ProductID] = &Candidate{
				ProductID: c.ProductID,
				Score:     weighted,
				Algorithm: c.Algorithm,
			}
			order = append(order, c.ProductID)
		}
	}

	out := make([]Candidate, 0, len(order))
	for _, id := range order {
		out = append(out, *merged[id])
	}
	return TopN(out, limit)
}
