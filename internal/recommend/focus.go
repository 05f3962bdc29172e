// PriceWatch - Price Tracking and Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pricewatch

package recommend

import "github.com/tomtom215/pricewatch/internal/models"

// DominantCategory returns the category the user engages with most.
//
// Categories are counted over the user's engagement behaviors (VIEW,
// WATCH_ADD, NOTIFICATION_CLICK). When that yields no category, the
// user's watch-list products are counted instead. Ties go to the
// lexicographically smallest category. ok is false when neither source
// names a category.
func DominantCategory(behaviors []models.UserBehavior, watchlist []models.Product) (category string, ok bool) {
	counts := make(map[string]int)
	for i := range behaviors {
		b := &behaviors[i]
		if b.BehaviorType.IsEngagement() && b.Category != "" {
			counts[b.Category]++
		}
	}
	if len(counts) == 0 {
		for i := range watchlist {
			if watchlist[i].HasCategory() {
				counts[watchlist[i].Category]++
			}
		}
	}

	best := -1
	for cat, n := range counts {
		if n > best || (n == best && cat < category) {
			category, best = cat, n
		}
	}
	return category, best > 0
}

// ApplyCategoryFocus keeps only candidates in the dominant category and
// multiplies their scores by boost. With no dominant category the input is
// returned sorted and truncated, unchanged otherwise.
func ApplyCategoryFocus(cands []Candidate, categories map[int64]string, dominant string, boost float64, limit int) []Candidate {
	if dominant == "" {
		return TopN(cands, limit)
	}

	out := make([]Candidate, 0, len(cands))
	for _, c := range cands {
		if categories[c.ProductID] != dominant {
			continue
		}
		c.Score *= boost
		out = append(out, c)
	}
	return TopN(out, limit)
}
