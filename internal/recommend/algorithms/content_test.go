// PriceWatch - Price Tracking and Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pricewatch

package algorithms

import (
	"context"
	"errors"
	"testing"

	"github.com/tomtom215/pricewatch/internal/models"
	"github.com/tomtom215/pricewatch/internal/recommend"
)

func TestContent_Score(t *testing.T) {
	cfg := recommend.DefaultConfig().Content
	catalog := []models.Product{
		{ID: 1, Category: "books", Source: "amazon", CurrentPrice: price(50)},
		{ID: 2, Category: "home", CurrentPrice: price(200)},
		{ID: 3, Category: "books", Source: "ebay", CurrentPrice: price(10)},
	}
	view := func(productID int64) models.UserBehavior {
		b := behavior(1, productID, models.BehaviorView, testNow)
		b.Category, b.Source, b.CurrentPrice = "books", "amazon", price(50)
		return b
	}
	data := &mockData{
		behaviors:  []models.UserBehavior{view(1), view(1)},
		engaged:    catalog,
		popularity: map[int64]int{1: 30, 2: 5},
	}

	req := request(1)
	req.Preferences = []models.UserPreference{{UserID: 1, Category: "books", Weight: 0.9}}

	got, err := NewContent(cfg, data).Score(context.Background(), req)
	if err != nil {
		t.Fatalf("Score() error = %v", err)
	}
	// 1: 0.9 + source 0.1 + price band 0.15 + popularity cap 0.2
	// 2: 0.3 + 0.05 falls below the threshold
	// 3: 0.9 + cheaper 0.1
	checkCandidates(t, got, models.AlgorithmContentBased,
		want{1, 1.35},
		want{3, 1.0},
	)
}

func TestContent_Score_WatchlistFallback(t *testing.T) {
	data := &mockData{
		watchlisted: []models.Product{{ID: 7, Category: "home"}},
	}
	req := request(1)
	req.Preferences = []models.UserPreference{{UserID: 1, Category: "home", Weight: 0.6}}

	got, err := NewContent(recommend.DefaultConfig().Content, data).Score(context.Background(), req)
	if err != nil {
		t.Fatalf("Score() error = %v", err)
	}
	checkCandidates(t, got, models.AlgorithmContentBased, want{7, 0.6})
}

func TestContent_Score_NoCandidates(t *testing.T) {
	got, err := NewContent(recommend.DefaultConfig().Content, &mockData{}).Score(context.Background(), request(1))
	if err != nil || len(got) != 0 {
		t.Errorf("Score() = %v, %v; want empty", got, err)
	}
}

func TestContent_Score_Error(t *testing.T) {
	boom := errors.New("boom")
	_, err := NewContent(recommend.DefaultConfig().Content, &mockData{err: boom}).Score(context.Background(), request(1))
	if !errors.Is(err, boom) {
		t.Errorf("Score() error = %v, want %v", err, boom)
	}
}

func TestContentProfile_PriceBonus(t *testing.T) {
	cp := &contentProfile{avgPrice: 100, hasPrice: true}
	tests := []struct {
		name  string
		price *float64
		want  float64
	}{
		{"no price", nil, 0},
		{"at average", price(100), 0.15},
		{"upper edge", price(120), 0.15},
		{"lower edge", price(80), 0.15},
		{"much cheaper", price(40), 0.1},
		{"much dearer", price(200), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := cp.priceBonus(tt.price); got != tt.want {
				t.Errorf("priceBonus = %f, want %f", got, tt.want)
			}
		})
	}

	t.Run("no history", func(t *testing.T) {
		empty := &contentProfile{}
		if got := empty.priceBonus(price(10)); got != 0 {
			t.Errorf("priceBonus = %f, want 0", got)
		}
	})
}
