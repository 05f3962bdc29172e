// PriceWatch - Price Tracking and Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pricewatch

package recommend

import (
	"sort"

	"github.com/tomtom215/pricewatch/internal/models"
)

// FallbackCandidates ranks products by popularity count and scores the top
// limit as 0.5 + 0.5*count/max, tagged TREND_BASED. The most popular product
// scores 1.0. Ties in count are broken by ascending product ID.
func FallbackCandidates(counts map[int64]int, limit int) []Candidate {
	if len(counts) == 0 || limit <= 0 {
		return nil
	}

	type entry struct {
		id    int64
		count int
	}
	entries := make([]entry, 0, len(counts))
	for id, n := range counts {
		if n > 0 {
			entries = append(entries, entry{id: id, count: n})
		}
	}
	if len(entries) == 0 {
		return nil
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].count != entries[j].count {
			return entries[i].count > entries[j].count
		}
		return entries[i].id < entries[j].id
	})
	if len(entries) > limit {
		entries = entries[:limit]
	}

	maxCount := float64(entries[0].count)
	out := make([]Candidate, 0, len(entries))
	for _, e := range entries {
		out = append(out, Candidate{
			ProductID: e.id,
			Score:     0.5 + 0.5*float64(e.count)/maxCount,
			Algorithm: models.AlgorithmTrendBased,
		})
	}
	return out
}
