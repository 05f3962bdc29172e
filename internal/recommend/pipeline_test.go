// PriceWatch - Price Tracking and Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pricewatch

package recommend

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/tomtom215/pricewatch/internal/models"
)

const epsilon = 1e-9

func approxEqual(a, b float64) bool {
	return math.Abs(a-b) < epsilon
}

func TestCombine(t *testing.T) {
	weights := DefaultWeights()

	t.Run("overlap becomes hybrid", func(t *testing.T) {
		results := []ScorerResult{
			{Algorithm: models.AlgorithmContentBased, Candidates: []Candidate{
				{ProductID: 5, Score: 0.8, Algorithm: models.AlgorithmContentBased},
			}},
			{Algorithm: models.AlgorithmCollaborative, Candidates: []Candidate{
				{ProductID: 5, Score: 0.4, Algorithm: models.AlgorithmCollaborative},
			}},
		}
		got := Combine(results, weights, 10)
		if len(got) != 1 {
			t.Fatalf("len = %d, want 1", len(got))
		}
		if got[0].ProductID != 5 {
			t.Errorf("ProductID = %d, want 5", got[0].ProductID)
		}
		if !approxEqual(got[0].Score, 0.28) {
			t.Errorf("Score = %f, want 0.28", got[0].Score)
		}
		if got[0].Algorithm != models.AlgorithmHybrid {
			t.Errorf("Algorithm = %s, want HYBRID", got[0].Algorithm)
		}
	})

	t.Run("single contributor keeps its tag", func(t *testing.T) {
		results := []ScorerResult{
			{Algorithm: models.AlgorithmTrendBased, Candidates: []Candidate{
				{ProductID: 9, Score: 0.5, Algorithm: models.AlgorithmTrendBased},
			}},
		}
		got := Combine(results, weights, 10)
		if len(got) != 1 || got[0].Algorithm != models.AlgorithmTrendBased {
			t.Fatalf("got %+v, want one TREND_BASED candidate", got)
		}
		if !approxEqual(got[0].Score, 0.05) {
			t.Errorf("Score = %f, want 0.05", got[0].Score)
		}
	})

	t.Run("failed results are skipped", func(t *testing.T) {
		results := []ScorerResult{
			{Algorithm: models.AlgorithmContentBased, Err: errors.New("boom"), Candidates: []Candidate{
				{ProductID: 1, Score: 1, Algorithm: models.AlgorithmContentBased},
			}},
			{Algorithm: models.AlgorithmCollaborative, Candidates: []Candidate{
				{ProductID: 2, Score: 1, Algorithm: models.AlgorithmCollaborative},
			}},
		}
		got := Combine(results, weights, 10)
		if len(got) != 1 || got[0].ProductID != 2 {
			t.Fatalf("got %+v, want only product 2", got)
		}
	})

	t.Run("sorted and truncated with id tie-break", func(t *testing.T) {
		results := []ScorerResult{
			{Algorithm: models.AlgorithmClustering, Candidates: []Candidate{
				{ProductID: 30, Score: 0.6, Algorithm: models.AlgorithmClustering},
				{ProductID: 10, Score: 0.6, Algorithm: models.AlgorithmClustering},
				{ProductID: 20, Score: 0.6, Algorithm: models.AlgorithmClustering},
			}},
			{Algorithm: models.AlgorithmContentBased, Candidates: []Candidate{
				{ProductID: 40, Score: 0.9, Algorithm: models.AlgorithmContentBased},
			}},
		}
		got := Combine(results, weights, 3)
		want := []int64{40, 10, 20}
		if len(got) != len(want) {
			t.Fatalf("len = %d, want %d", len(got), len(want))
		}
		for i, id := range want {
			if got[i].ProductID != id {
				t.Errorf("got[%d] = %d, want %d", i, got[i].ProductID, id)
			}
		}
	})

	t.Run("empty input", func(t *testing.T) {
		if got := Combine(nil, weights, 10); len(got) != 0 {
			t.Errorf("len = %d, want 0", len(got))
		}
	})
}

func TestDominantCategory(t *testing.T) {
	t.Run("engagement behaviors win", func(t *testing.T) {
		behaviors := []models.UserBehavior{
			{BehaviorType: models.BehaviorView, Category: "books"},
			{BehaviorType: models.BehaviorWatchAdd, Category: "books"},
			{BehaviorType: models.BehaviorNotificationClick, Category: "home"},
			{BehaviorType: models.BehaviorWatchRemove, Category: "home"},
			{BehaviorType: models.BehaviorWatchRemove, Category: "home"},
		}
		watchlist := []models.Product{{Category: "electronics"}, {Category: "electronics"}}
		got, ok := DominantCategory(behaviors, watchlist)
		if !ok || got != "books" {
			t.Errorf("DominantCategory = (%q, %v), want (books, true)", got, ok)
		}
	})

	t.Run("falls back to watch list", func(t *testing.T) {
		watchlist := []models.Product{{Category: "electronics"}, {Category: "books"}, {Category: "electronics"}}
		got, ok := DominantCategory(nil, watchlist)
		if !ok || got != "electronics" {
			t.Errorf("DominantCategory = (%q, %v), want (electronics, true)", got, ok)
		}
	})

	t.Run("tie goes to smallest name", func(t *testing.T) {
		watchlist := []models.Product{{Category: "home"}, {Category: "books"}}
		got, _ := DominantCategory(nil, watchlist)
		if got != "books" {
			t.Errorf("DominantCategory = %q, want books", got)
		}
	})

	t.Run("nothing known", func(t *testing.T) {
		got, ok := DominantCategory(nil, []models.Product{{Name: "uncategorized"}})
		if ok || got != "" {
			t.Errorf("DominantCategory = (%q, %v), want (\"\", false)", got, ok)
		}
	})
}

func TestApplyCategoryFocus(t *testing.T) {
	cands := []Candidate{
		{ProductID: 1, Score: 1.0, Algorithm: models.AlgorithmTrendBased},
		{ProductID: 2, Score: 0.75, Algorithm: models.AlgorithmTrendBased},
		{ProductID: 3, Score: 0.75, Algorithm: models.AlgorithmTrendBased},
	}
	categories := map[int64]string{1: "electronics", 2: "electronics", 3: "books"}

	t.Run("keeps dominant and boosts", func(t *testing.T) {
		got := ApplyCategoryFocus(append([]Candidate(nil), cands...), categories, "electronics", 1.5, 10)
		if len(got) != 2 {
			t.Fatalf("len = %d, want 2", len(got))
		}
		if got[0].ProductID != 1 || !approxEqual(got[0].Score, 1.5) {
			t.Errorf("got[0] = %+v, want product 1 at 1.5", got[0])
		}
		if got[1].ProductID != 2 || !approxEqual(got[1].Score, 1.125) {
			t.Errorf("got[1] = %+v, want product 2 at 1.125", got[1])
		}
		for _, c := range got {
			if c.Algorithm != models.AlgorithmTrendBased {
				t.Errorf("Algorithm = %s, want TREND_BASED", c.Algorithm)
			}
		}
	})

	t.Run("no dominant returns input", func(t *testing.T) {
		got := ApplyCategoryFocus(append([]Candidate(nil), cands...), categories, "", 1.5, 10)
		if len(got) != 3 || !approxEqual(got[0].Score, 1.0) {
			t.Errorf("got %+v, want unchanged input", got)
		}
	})

	t.Run("dominant category absent", func(t *testing.T) {
		got := ApplyCategoryFocus(append([]Candidate(nil), cands...), categories, "garden", 1.5, 10)
		if len(got) != 0 {
			t.Errorf("len = %d, want 0", len(got))
		}
	})
}

func TestFallbackCandidates(t *testing.T) {
	t.Run("scores relative to max", func(t *testing.T) {
		got := FallbackCandidates(map[int64]int{1: 2, 2: 1, 3: 1, 4: 0}, 10)
		if len(got) != 3 {
			t.Fatalf("len = %d, want 3", len(got))
		}
		want := []struct {
			id    int64
			score float64
		}{{1, 1.0}, {2, 0.75}, {3, 0.75}}
		for i, w := range want {
			if got[i].ProductID != w.id || !approxEqual(got[i].Score, w.score) {
				t.Errorf("got[%d] = %+v, want (%d, %f)", i, got[i], w.id, w.score)
			}
			if got[i].Algorithm != models.AlgorithmTrendBased {
				t.Errorf("got[%d].Algorithm = %s, want TREND_BASED", i, got[i].Algorithm)
			}
		}
	})

	t.Run("truncates to limit", func(t *testing.T) {
		got := FallbackCandidates(map[int64]int{1: 5, 2: 4, 3: 3}, 2)
		if len(got) != 2 || got[1].ProductID != 2 {
			t.Errorf("got %+v, want products 1 and 2", got)
		}
	})

	t.Run("empty", func(t *testing.T) {
		if got := FallbackCandidates(nil, 10); len(got) != 0 {
			t.Errorf("len = %d, want 0", len(got))
		}
	})
}

func TestFallbackThenFocus(t *testing.T) {
	// Watch lists: user 100 tracks 1, 2 and 3; user 200 tracks 1.
	counts := map[int64]int{1: 2, 2: 1, 3: 1}
	categories := map[int64]string{1: "electronics", 2: "electronics", 3: "books"}

	fallback := FallbackCandidates(counts, 10)
	got := ApplyCategoryFocus(fallback, categories, "electronics", DefaultConfig().Focus.Boost, 10)

	want := []struct {
		id    int64
		score float64
	}{{1, 1.5}, {2, 1.125}}
	if len(got) != len(want) {
		t.Fatalf("got %+v, want %d candidates", got, len(want))
	}
	for i, w := range want {
		if got[i].ProductID != w.id || !approxEqual(got[i].Score, w.score) {
			t.Errorf("got[%d] = %+v, want (%d, %f)", i, got[i], w.id, w.score)
		}
		if got[i].Algorithm != models.AlgorithmTrendBased {
			t.Errorf("got[%d].Algorithm = %s, want TREND_BASED", i, got[i].Algorithm)
		}
	}
}

func TestJaccard(t *testing.T) {
	set := func(items ...string) map[string]struct{} {
		m := make(map[string]struct{}, len(items))
		for _, s := range items {
			m[s] = struct{}{}
		}
		return m
	}
	tests := []struct {
		name string
		a, b map[string]struct{}
		want float64
	}{
		{"both empty", set(), set(), 0},
		{"identical", set("a", "b"), set("a", "b"), 1},
		{"disjoint", set("a"), set("b"), 0},
		{"partial", set("a", "b", "c"), set("b", "c", "d"), 0.5},
		{"one empty", set("a"), set(), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Jaccard(tt.a, tt.b); !approxEqual(got, tt.want) {
				t.Errorf("Jaccard = %f, want %f", got, tt.want)
			}
		})
	}
}

func TestUserSimilarity(t *testing.T) {
	a := NewUserSignature(
		[]models.UserPreference{{Category: "books"}, {Category: "home"}},
		[]models.UserBehavior{{BehaviorType: models.BehaviorView}},
	)
	b := NewUserSignature(
		[]models.UserPreference{{Category: "books"}},
		[]models.UserBehavior{{BehaviorType: models.BehaviorView}, {BehaviorType: models.BehaviorWatchAdd}},
	)
	// 0.7 * 1/2 + 0.3 * 1/2
	if got := UserSimilarity(a, b); !approxEqual(got, 0.5) {
		t.Errorf("UserSimilarity = %f, want 0.5", got)
	}

	viewOnly := NewUserSignature(nil, []models.UserBehavior{{BehaviorType: models.BehaviorView}})
	withPrefs := NewUserSignature(
		[]models.UserPreference{{Category: "books"}},
		[]models.UserBehavior{{BehaviorType: models.BehaviorView}},
	)
	if got := UserSimilarity(viewOnly, withPrefs); got != 0 {
		t.Errorf("UserSimilarity without preferences = %f, want 0", got)
	}
	if got := UserSimilarity(withPrefs, viewOnly); got != 0 {
		t.Errorf("UserSimilarity against user without preferences = %f, want 0", got)
	}
}

func TestDecayedBehaviorWeight(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		name string
		typ  models.BehaviorType
		age  time.Duration
		want float64
	}{
		{"fresh watch add", models.BehaviorWatchAdd, 0, 0.8},
		{"view under a day", models.BehaviorView, 23 * time.Hour, 0.5},
		{"click two days", models.BehaviorNotificationClick, 49 * time.Hour, 0.6 * 0.8},
		{"remove at floor", models.BehaviorWatchRemove, 30 * 24 * time.Hour, 0.3 * 0.5},
		{"future event", models.BehaviorView, -48 * time.Hour, 0.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DecayedBehaviorWeight(tt.typ, now.Add(-tt.age), now)
			if !approxEqual(got, tt.want) {
				t.Errorf("DecayedBehaviorWeight = %f, want %f", got, tt.want)
			}
		})
	}
}

func TestClamp01(t *testing.T) {
	for in, want := range map[float64]float64{-0.2: 0, 0: 0, 0.4: 0.4, 1: 1, 1.5: 1} {
		if got := Clamp01(in); got != want {
			t.Errorf("Clamp01(%f) = %f, want %f", in, got, want)
		}
	}
}

func TestPreferenceWeight(t *testing.T) {
	for count, want := range map[int]float64{0: 0.5, 1: 0.6, 3: 0.8, 5: 1.0, 12: 1.0} {
		if got := PreferenceWeight(count); !approxEqual(got, want) {
			t.Errorf("PreferenceWeight(%d) = %f, want %f", count, got, want)
		}
	}
}
