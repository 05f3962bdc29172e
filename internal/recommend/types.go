// PriceWatch - Price Tracking and Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pricewatch

package recommend

import (
	"context"
	"sort"
	"time"

	"github.com/tomtom215/pricewatch/internal/models"
)

// Candidate is a scored product produced by one scorer or by the combiner.
type Candidate struct {
	// ProductID identifies the catalog product.
	ProductID int64 `json:"product_id"`

	// Score is the raw (scorer) or weighted (combined) score.
	Score float64 `json:"score"`

	// Algorithm is the contributing strategy, or HYBRID after a merge.
	Algorithm models.Algorithm `json:"algorithm"`
}

// Request carries the per-call inputs every scorer sees.
type Request struct {
	// UserID is the user being scored for.
	UserID int64

	// Limit is the resolved maximum number of candidates per scorer.
	Limit int

	// Preferences are the user's stored preferences, or the synthesized
	// defaults when the user has none.
	Preferences []models.UserPreference

	// Now is the reference time for decay and day-part matching.
	Now time.Time
}

// Scorer is one independent recommendation strategy.
//
// Score must not mutate shared state; the engine runs every scorer
// concurrently and treats a returned error as an empty contribution.
type Scorer interface {
	// Algorithm returns the tag applied to this scorer's candidates.
	Algorithm() models.Algorithm

	// Score returns at most req.Limit candidates sorted by descending score.
	Score(ctx context.Context, req *Request) ([]Candidate, error)
}

// ScorerResult is the outcome of running one scorer.
type ScorerResult struct {
	Algorithm  models.Algorithm
	Candidates []Candidate
	Err        error
	Duration   time.Duration
}

// SortCandidates orders by descending score, breaking ties by ascending
// product ID so results are reproducible.
func SortCandidates(c []Candidate) {
	sort.SliceStable(c, func(i, j int) bool {
		if c[i].Score != c[j].Score {
			return c[i].Score > c[j].Score
		}
		return c[i].ProductID < c[j].ProductID
	})
}

// TopN sorts c and truncates it to n entries.
func TopN(c []Candidate, n int) []Candidate {
	SortCandidates(c)
	if n >= 0 && len(c) > n {
		return c[:n]
	}
	return c
}

// Clamp01 bounds v to [0, 1].
func Clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// ContextCancelled reports whether ctx is done. Scorers check it between
// expensive passes.
func ContextCancelled(ctx context.Context) bool {
	select {
	case <-ctx.Done():
		return true
	default:
		return false
	}
}
