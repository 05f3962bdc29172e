// PriceWatch - Price Tracking and Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pricewatch

package algorithms

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/tomtom215/pricewatch/internal/models"
	"github.com/tomtom215/pricewatch/internal/recommend"
)

var testNow = time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

// mockData implements DataProvider over fixed slices.
type mockData struct {
	behaviors   []models.UserBehavior
	prefs       map[int64][]models.UserPreference
	watchlists  map[int64][]int64
	engaged     []models.Product
	watchlisted []models.Product
	products    []models.Product
	popularity  map[int64]int
	err         error
}

func (m *mockData) GetUserBehaviors(_ context.Context, userID int64) ([]models.UserBehavior, error) {
	if m.err != nil {
		return nil, m.err
	}
	out := make([]models.UserBehavior, 0)
	for _, b := range m.behaviors {
		if b.UserID == userID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (m *mockData) GetAllBehaviors(_ context.Context) ([]models.UserBehavior, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.behaviors, nil
}

func (m *mockData) GetAllUserPreferences(_ context.Context) (map[int64][]models.UserPreference, error) {
	if m.err != nil {
		return nil, m.err
	}
	if m.prefs == nil {
		return map[int64][]models.UserPreference{}, nil
	}
	return m.prefs, nil
}

func (m *mockData) GetUserWatchlistIDs(_ context.Context, userID int64) ([]int64, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.watchlists[userID], nil
}

func (m *mockData) GetEngagedProducts(_ context.Context) ([]models.Product, error) {
	return m.engaged, m.err
}

func (m *mockData) GetWatchlistedProducts(_ context.Context) ([]models.Product, error) {
	return m.watchlisted, m.err
}

func (m *mockData) GetAllProducts(_ context.Context) ([]models.Product, error) {
	return m.products, m.err
}

func (m *mockData) GetPopularityCounts(_ context.Context) (map[int64]int, error) {
	return m.popularity, m.err
}

// mockTrends implements TrendSource.
type mockTrends struct {
	trending []models.Product
	growing  []models.Product
	scores   map[int64]float64
	err      error
}

func (m *mockTrends) TrendingProducts(_ context.Context) ([]models.Product, error) {
	return m.trending, m.err
}

func (m *mockTrends) GrowingPopularityProducts(_ context.Context) ([]models.Product, error) {
	return m.growing, m.err
}

func (m *mockTrends) TrendScore(_ context.Context, productID int64) (float64, error) {
	return m.scores[productID], m.err
}

// mockPersonal implements PersonalizationSource.
type mockPersonal struct {
	scores map[int64]float64
}

func (m *mockPersonal) PersonalizedScore(_ context.Context, _ int64, p *models.Product) float64 {
	return m.scores[p.ID]
}

func price(v float64) *float64 {
	return &v
}

func behavior(userID, productID int64, t models.BehaviorType, at time.Time) models.UserBehavior {
	return models.UserBehavior{UserID: userID, ProductID: productID, BehaviorType: t, CreatedAt: at}
}

func prefs(userID int64, categories ...string) []models.UserPreference {
	out := make([]models.UserPreference, 0, len(categories))
	for _, c := range categories {
		out = append(out, models.UserPreference{UserID: userID, Category: c, Weight: 0.5})
	}
	return out
}

func request(userID int64) *recommend.Request {
	return &recommend.Request{UserID: userID, Limit: 10, Now: testNow}
}

func approxEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

type want struct {
	id    int64
	score float64
}

func checkCandidates(t *testing.T, got []recommend.Candidate, alg models.Algorithm, wants ...want) {
	t.Helper()
	if len(got) != len(wants) {
		t.Fatalf("got %d candidates %+v, want %d", len(got), got, len(wants))
	}
	for i, w := range wants {
		if got[i].ProductID != w.id {
			t.Errorf("got[%d].ProductID = %d, want %d", i, got[i].ProductID, w.id)
		}
		if !approxEqual(got[i].Score, w.score) {
			t.Errorf("got[%d].Score = %f, want %f", i, got[i].Score, w.score)
		}
		if got[i].Algorithm != alg {
			t.Errorf("got[%d].Algorithm = %s, want %s", i, got[i].Algorithm, alg)
		}
	}
}
