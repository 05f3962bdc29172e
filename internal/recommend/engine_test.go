// PriceWatch - Price Tracking and Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pricewatch

package recommend

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/pricewatch/internal/models"
)

// mockStore is an in-memory Store.
type mockStore struct {
	mu sync.Mutex

	products    map[int64]models.Product
	prefs       map[int64][]models.UserPreference
	behaviors   map[int64][]models.UserBehavior
	watchlists  map[int64][]int64
	recs        map[int64]*models.Recommendation
	nextRecID   int64
	upsertCalls int

	prefsErr error
}

func newMockStore() *mockStore {
	return &mockStore{
		products:   make(map[int64]models.Product),
		prefs:      make(map[int64][]models.UserPreference),
		behaviors:  make(map[int64][]models.UserBehavior),
		watchlists: make(map[int64][]int64),
		recs:       make(map[int64]*models.Recommendation),
	}
}

func (m *mockStore) addProduct(id int64, category string) {
	m.products[id] = models.Product{ID: id, Name: fmt.Sprintf("product-%d", id), Category: category}
}

func (m *mockStore) GetUserPreferences(_ context.Context, userID int64) ([]models.UserPreference, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.prefsErr != nil {
		return nil, m.prefsErr
	}
	return append([]models.UserPreference(nil), m.prefs[userID]...), nil
}

func (m *mockStore) UpsertUserPreference(_ context.Context, pref *models.UserPreference) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	list := m.prefs[pref.UserID]
	for i := range list {
		if list[i].Category == pref.Category {
			list[i] = *pref
			return nil
		}
	}
	m.prefs[pref.UserID] = append(list, *pref)
	return nil
}

func (m *mockStore) GetUserBehaviors(_ context.Context, userID int64) ([]models.UserBehavior, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.UserBehavior, 0, len(m.behaviors[userID]))
	for _, b := range m.behaviors[userID] {
		b.Category = m.products[b.ProductID].Category
		out = append(out, b)
	}
	return out, nil
}

func (m *mockStore) GetUserWatchlist(_ context.Context, userID int64) ([]models.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.Product, 0)
	for _, id := range m.watchlists[userID] {
		out = append(out, m.products[id])
	}
	return out, nil
}

func (m *mockStore) GetProductsByIDs(_ context.Context, ids []int64) (map[int64]models.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[int64]models.Product, len(ids))
	for _, id := range ids {
		if p, ok := m.products[id]; ok {
			out[id] = p
		}
	}
	return out, nil
}

func (m *mockStore) GetEngagementCounts(_ context.Context) (map[int64]int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[int64]int)
	for _, list := range m.behaviors {
		for _, b := range list {
			if b.BehaviorType.IsEngagement() {
				out[b.ProductID]++
			}
		}
	}
	return out, nil
}

func (m *mockStore) GetWatchlistCounts(_ context.Context) (map[int64]int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[int64]int)
	for _, ids := range m.watchlists {
		for _, id := range ids {
			out[id]++
		}
	}
	return out, nil
}

func (m *mockStore) UpsertRecommendation(_ context.Context, rec *models.Recommendation) (*models.Recommendation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.upsertCalls++
	for _, existing := range m.recs {
		if existing.UserID == rec.UserID && existing.ProductID == rec.ProductID {
			existing.Score = rec.Score
			existing.Algorithm = rec.Algorithm
			cp := *existing
			return &cp, nil
		}
	}
	m.nextRecID++
	stored := *rec
	stored.ID = m.nextRecID
	m.recs[stored.ID] = &stored
	cp := stored
	return &cp, nil
}

func (m *mockStore) listRecs(userID int64, keep func(*models.Recommendation) bool) []models.RecommendationDTO {
	rows := make([]*models.Recommendation, 0)
	for _, r := range m.recs {
		if r.UserID == userID && keep(r) {
			rows = append(rows, r)
		}
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Score != rows[j].Score {
			return rows[i].Score > rows[j].Score
		}
		return rows[i].ID < rows[j].ID
	})
	out := make([]models.RecommendationDTO, 0, len(rows))
	for _, r := range rows {
		p := m.products[r.ProductID]
		out = append(out, models.NewRecommendationDTO(r, &p))
	}
	return out
}

func (m *mockStore) GetUserRecommendations(_ context.Context, userID int64, limit int) ([]models.RecommendationDTO, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := m.listRecs(userID, func(*models.Recommendation) bool { return true })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *mockStore) GetRecommendationsByAlgorithm(_ context.Context, userID int64, algorithm models.Algorithm) ([]models.RecommendationDTO, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.listRecs(userID, func(r *models.Recommendation) bool { return r.Algorithm == algorithm }), nil
}

func (m *mockStore) GetRecommendationsByCategories(_ context.Context, userID int64, categories []string) ([]models.RecommendationDTO, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.listRecs(userID, func(r *models.Recommendation) bool {
		for _, c := range categories {
			if m.products[r.ProductID].Category == c {
				return true
			}
		}
		return false
	}), nil
}

func (m *mockStore) GetUnviewedRecommendations(_ context.Context, userID int64) ([]models.RecommendationDTO, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.listRecs(userID, func(r *models.Recommendation) bool { return !r.Viewed }), nil
}

func (m *mockStore) CountUnviewedRecommendations(_ context.Context, userID int64) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.listRecs(userID, func(r *models.Recommendation) bool { return !r.Viewed }))), nil
}

func (m *mockStore) MarkRecommendationViewed(_ context.Context, id int64, at time.Time) (*models.Recommendation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.recs[id]
	if !ok {
		return nil, errNotFound
	}
	r.Viewed = true
	m.behaviors[r.UserID] = append(m.behaviors[r.UserID], models.UserBehavior{
		UserID:       r.UserID,
		ProductID:    r.ProductID,
		BehaviorType: models.BehaviorView,
		CreatedAt:    at,
	})
	cp := *r
	return &cp, nil
}

var errNotFound = errors.New("not found")

// mockScorer returns fixed candidates, an error or a panic.
type mockScorer struct {
	alg   models.Algorithm
	cands []Candidate
	err   error
	panic bool
	delay time.Duration
}

func (s *mockScorer) Algorithm() models.Algorithm { return s.alg }

func (s *mockScorer) Score(ctx context.Context, _ *Request) ([]Candidate, error) {
	if s.panic {
		panic("scorer exploded")
	}
	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if s.err != nil {
		return nil, s.err
	}
	return append([]Candidate(nil), s.cands...), nil
}

// mockPublisher records published behaviors.
type mockPublisher struct {
	mu        sync.Mutex
	behaviors []models.UserBehavior
	err       error
}

func (p *mockPublisher) PublishBehavior(_ context.Context, b *models.UserBehavior) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.behaviors = append(p.behaviors, *b)
	return p.err
}

func testLogger() zerolog.Logger {
	return zerolog.Nop()
}

func newTestEngine(t *testing.T, store Store) *Engine {
	t.Helper()
	e, err := NewEngine(DefaultConfig(), store, testLogger())
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}
	e.now = func() time.Time { return time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC) }
	return e
}

func TestNewEngine(t *testing.T) {
	t.Run("nil config uses defaults", func(t *testing.T) {
		e, err := NewEngine(nil, newMockStore(), testLogger())
		if err != nil {
			t.Fatalf("NewEngine() error = %v", err)
		}
		if e.Config().Limits.DefaultLimit != 10 {
			t.Errorf("DefaultLimit = %d, want 10", e.Config().Limits.DefaultLimit)
		}
	})

	t.Run("invalid config", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Weights.Trend = 0.9
		if _, err := NewEngine(cfg, newMockStore(), testLogger()); !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("NewEngine() error = %v, want ErrInvalidConfig", err)
		}
	})

	t.Run("nil store", func(t *testing.T) {
		if _, err := NewEngine(nil, nil, testLogger()); !errors.Is(err, ErrNoStore) {
			t.Errorf("NewEngine() error = %v, want ErrNoStore", err)
		}
	})
}

func TestEngine_Generate_FallbackWithFocus(t *testing.T) {
	store := newMockStore()
	store.addProduct(1, "electronics")
	store.addProduct(2, "electronics")
	store.addProduct(3, "books")
	store.watchlists[100] = []int64{1, 2, 3}
	store.watchlists[200] = []int64{1}

	e := newTestEngine(t, store)
	e.RegisterScorer(&mockScorer{alg: models.AlgorithmContentBased})
	e.RegisterScorer(&mockScorer{alg: models.AlgorithmCollaborative})

	got := e.Generate(context.Background(), 100, 10)
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2 electronics recommendations: %+v", len(got), got)
	}
	for i, wantID := range []int64{1, 2} {
		if got[i].ProductID != wantID {
			t.Errorf("got[%d].ProductID = %d, want %d", i, got[i].ProductID, wantID)
		}
		if got[i].ProductCategory != "electronics" {
			t.Errorf("got[%d].ProductCategory = %q, want electronics", i, got[i].ProductCategory)
		}
		if got[i].Algorithm != models.AlgorithmTrendBased {
			t.Errorf("got[%d].Algorithm = %s, want TREND_BASED", i, got[i].Algorithm)
		}
		// Boosted 1.5 and 1.125 are clamped before persistence.
		if got[i].Score != 1.0 {
			t.Errorf("got[%d].Score = %f, want 1.0", i, got[i].Score)
		}
	}
}

func TestEngine_Generate_Hybrid(t *testing.T) {
	store := newMockStore()
	store.addProduct(5, "electronics")

	e := newTestEngine(t, store)
	e.RegisterScorer(&mockScorer{alg: models.AlgorithmContentBased, cands: []Candidate{
		{ProductID: 5, Score: 0.8, Algorithm: models.AlgorithmContentBased},
	}})
	e.RegisterScorer(&mockScorer{alg: models.AlgorithmCollaborative, cands: []Candidate{
		{ProductID: 5, Score: 0.4, Algorithm: models.AlgorithmCollaborative},
	}})

	got := e.Generate(context.Background(), 1, 10)
	if len(got) != 1 {
		t.Fatalf("len = %d, want 1", len(got))
	}
	if !approxEqual(got[0].Score, 0.28) {
		t.Errorf("Score = %f, want 0.28", got[0].Score)
	}
	if got[0].Algorithm != models.AlgorithmHybrid {
		t.Errorf("Algorithm = %s, want HYBRID", got[0].Algorithm)
	}
}

func TestEngine_Generate_FallbackSkippedWhenScorersProduce(t *testing.T) {
	store := newMockStore()
	store.addProduct(1, "books")
	store.addProduct(2, "books")
	store.watchlists[7] = []int64{2}
	store.watchlists[8] = []int64{2}

	e := newTestEngine(t, store)
	e.RegisterScorer(&mockScorer{alg: models.AlgorithmTemporal, cands: []Candidate{
		{ProductID: 1, Score: 0.5, Algorithm: models.AlgorithmTemporal},
	}})

	got := e.Generate(context.Background(), 9, 10)
	if len(got) != 1 || got[0].ProductID != 1 {
		t.Fatalf("got %+v, want only product 1", got)
	}
	if got[0].Algorithm != models.AlgorithmTemporal {
		t.Errorf("Algorithm = %s, want TEMPORAL", got[0].Algorithm)
	}
}

func TestEngine_Generate_ScorerFailureIsolated(t *testing.T) {
	store := newMockStore()
	store.addProduct(1, "home")

	e := newTestEngine(t, store)
	e.RegisterScorer(&mockScorer{alg: models.AlgorithmContentBased, err: errors.New("query failed")})
	e.RegisterScorer(&mockScorer{alg: models.AlgorithmCollaborative, panic: true})
	e.RegisterScorer(&mockScorer{alg: models.AlgorithmPersonalized, cands: []Candidate{
		{ProductID: 1, Score: 0.9, Algorithm: models.AlgorithmPersonalized},
	}})

	got := e.Generate(context.Background(), 1, 10)
	if len(got) != 1 || got[0].ProductID != 1 {
		t.Fatalf("got %+v, want product 1 from the healthy scorer", got)
	}
	if !approxEqual(got[0].Score, 0.09) {
		t.Errorf("Score = %f, want 0.09", got[0].Score)
	}
}

func TestEngine_Generate_ScorerTimeout(t *testing.T) {
	store := newMockStore()
	store.addProduct(1, "home")

	cfg := DefaultConfig()
	cfg.Limits.ScorerTimeout = 20 * time.Millisecond
	e, err := NewEngine(cfg, store, testLogger())
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}
	e.RegisterScorer(&mockScorer{alg: models.AlgorithmContentBased, delay: time.Second, cands: []Candidate{
		{ProductID: 1, Score: 0.9, Algorithm: models.AlgorithmContentBased},
	}})

	start := time.Now()
	got := e.Generate(context.Background(), 1, 10)
	if time.Since(start) > 500*time.Millisecond {
		t.Errorf("Generate took %v, want bounded by scorer timeout", time.Since(start))
	}
	if len(got) != 0 {
		t.Errorf("len = %d, want 0", len(got))
	}
}

func TestEngine_Generate_Dedup(t *testing.T) {
	store := newMockStore()
	store.addProduct(1, "books")
	store.addProduct(2, "books")

	e := newTestEngine(t, store)
	scorer := &mockScorer{alg: models.AlgorithmContentBased, cands: []Candidate{
		{ProductID: 1, Score: 0.8, Algorithm: models.AlgorithmContentBased},
		{ProductID: 2, Score: 0.6, Algorithm: models.AlgorithmContentBased},
	}}
	e.RegisterScorer(scorer)

	first := e.Generate(context.Background(), 1, 10)
	scorer.cands[0].Score = 0.4
	second := e.Generate(context.Background(), 1, 10)

	if len(first) != 2 || len(second) != 2 {
		t.Fatalf("len = %d/%d, want 2/2", len(first), len(second))
	}
	if len(store.recs) != 2 {
		t.Errorf("stored rows = %d, want 2", len(store.recs))
	}
	ids := map[int64]int64{}
	for _, d := range first {
		ids[d.ProductID] = d.ID
	}
	for _, d := range second {
		if ids[d.ProductID] != d.ID {
			t.Errorf("product %d changed row id %d -> %d", d.ProductID, ids[d.ProductID], d.ID)
		}
	}
	if second[0].ProductID != 2 {
		t.Errorf("second[0].ProductID = %d, want 2 after rescoring", second[0].ProductID)
	}
}

func TestEngine_Generate_ConcurrentSameUser(t *testing.T) {
	store := newMockStore()
	for id := int64(1); id <= 5; id++ {
		store.addProduct(id, "books")
	}
	e := newTestEngine(t, store)
	e.RegisterScorer(&mockScorer{alg: models.AlgorithmContentBased, cands: []Candidate{
		{ProductID: 1, Score: 0.9, Algorithm: models.AlgorithmContentBased},
		{ProductID: 2, Score: 0.8, Algorithm: models.AlgorithmContentBased},
		{ProductID: 3, Score: 0.7, Algorithm: models.AlgorithmContentBased},
	}})

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			e.Generate(context.Background(), 42, 10)
		}()
	}
	wg.Wait()

	if len(store.recs) != 3 {
		t.Errorf("stored rows = %d, want 3", len(store.recs))
	}
}

func TestEngine_UserLock(t *testing.T) {
	e := newTestEngine(t, newMockStore())

	if e.userLock(7) != e.userLock(7) {
		t.Error("same user got different locks")
	}
	if e.userLock(7) != e.userLock(7+userLockStripes) {
		t.Error("users on one stripe got different locks")
	}
	if e.userLock(7) == e.userLock(8) {
		t.Error("adjacent users share a lock")
	}

	seen := make(map[*sync.Mutex]struct{})
	for id := int64(-1000); id < 1000; id++ {
		seen[e.userLock(id)] = struct{}{}
	}
	if len(seen) != userLockStripes {
		t.Errorf("distinct locks = %d, want %d", len(seen), userLockStripes)
	}
}

func TestEngine_Generate_StoreError(t *testing.T) {
	store := newMockStore()
	store.prefsErr = errors.New("db down")
	e := newTestEngine(t, store)

	got := e.Generate(context.Background(), 1, 10)
	if got == nil || len(got) != 0 {
		t.Errorf("Generate = %+v, want empty non-nil slice", got)
	}
}

func TestEngine_Generate_NoData(t *testing.T) {
	e := newTestEngine(t, newMockStore())
	if got := e.Generate(context.Background(), 1, 10); len(got) != 0 {
		t.Errorf("len = %d, want 0", len(got))
	}
}

func TestEngine_Generate_DefaultPreferences(t *testing.T) {
	store := newMockStore()
	store.addProduct(1, "books")
	e := newTestEngine(t, store)

	var seen []models.UserPreference
	e.RegisterScorer(scorerFunc(func(_ context.Context, req *Request) ([]Candidate, error) {
		seen = req.Preferences
		return nil, nil
	}))
	e.Generate(context.Background(), 1, 10)

	if len(seen) != 4 {
		t.Fatalf("scorer saw %d preferences, want 4 defaults", len(seen))
	}
	for _, p := range seen {
		if p.Weight != 0.5 {
			t.Errorf("default %s weight = %f, want 0.5", p.Category, p.Weight)
		}
	}
}

type scorerFunc func(ctx context.Context, req *Request) ([]Candidate, error)

func (f scorerFunc) Algorithm() models.Algorithm { return models.AlgorithmContentBased }

func (f scorerFunc) Score(ctx context.Context, req *Request) ([]Candidate, error) {
	return f(ctx, req)
}

func TestEngine_MarkViewed(t *testing.T) {
	store := newMockStore()
	store.addProduct(5, "books")
	e := newTestEngine(t, store)
	pub := &mockPublisher{}
	e.SetBehaviorPublisher(pub)

	saved, err := store.UpsertRecommendation(context.Background(), &models.Recommendation{
		UserID: 3, ProductID: 5, Score: 0.7, Algorithm: models.AlgorithmContentBased,
	})
	if err != nil {
		t.Fatalf("UpsertRecommendation() error = %v", err)
	}

	rec, err := e.MarkViewed(context.Background(), saved.ID)
	if err != nil {
		t.Fatalf("MarkViewed() error = %v", err)
	}
	if !rec.Viewed {
		t.Error("Viewed = false, want true")
	}

	views := 0
	for _, b := range store.behaviors[3] {
		if b.BehaviorType == models.BehaviorView && b.ProductID == 5 {
			views++
		}
	}
	if views != 1 {
		t.Errorf("VIEW behaviors = %d, want 1", views)
	}
	if len(pub.behaviors) != 1 || pub.behaviors[0].ProductID != 5 {
		t.Errorf("published = %+v, want one VIEW for product 5", pub.behaviors)
	}

	t.Run("unknown id", func(t *testing.T) {
		if _, err := e.MarkViewed(context.Background(), 999); !errors.Is(err, errNotFound) {
			t.Errorf("MarkViewed() error = %v, want not found", err)
		}
	})

	t.Run("publish failure is not fatal", func(t *testing.T) {
		pub.err = errors.New("broker down")
		if _, err := e.MarkViewed(context.Background(), saved.ID); err != nil {
			t.Errorf("MarkViewed() error = %v, want nil", err)
		}
	})
}

func TestEngine_Queries(t *testing.T) {
	store := newMockStore()
	store.addProduct(1, "books")
	store.addProduct(2, "home")
	store.addProduct(3, "books")
	e := newTestEngine(t, store)
	ctx := context.Background()

	for _, r := range []models.Recommendation{
		{UserID: 1, ProductID: 1, Score: 0.9, Algorithm: models.AlgorithmContentBased},
		{UserID: 1, ProductID: 2, Score: 0.5, Algorithm: models.AlgorithmTrendBased},
		{UserID: 1, ProductID: 3, Score: 0.7, Algorithm: models.AlgorithmContentBased},
		{UserID: 2, ProductID: 1, Score: 0.4, Algorithm: models.AlgorithmContentBased},
	} {
		if _, err := store.UpsertRecommendation(ctx, &r); err != nil {
			t.Fatal(err)
		}
	}
	if _, err := e.MarkViewed(ctx, 1); err != nil {
		t.Fatal(err)
	}

	t.Run("by algorithm", func(t *testing.T) {
		got, err := e.GetRecommendationsByAlgorithm(ctx, 1, models.AlgorithmContentBased)
		if err != nil || len(got) != 2 {
			t.Errorf("got %d (%v), want 2", len(got), err)
		}
	})

	t.Run("by categories", func(t *testing.T) {
		got, err := e.GetRecommendationsByCategories(ctx, 1, []string{"home"})
		if err != nil || len(got) != 1 || got[0].ProductID != 2 {
			t.Errorf("got %+v (%v), want product 2", got, err)
		}
		got, err = e.GetRecommendationsByCategories(ctx, 1, nil)
		if err != nil || len(got) != 0 {
			t.Errorf("empty categories got %d (%v), want 0", len(got), err)
		}
	})

	t.Run("unviewed", func(t *testing.T) {
		got, err := e.GetUnviewedRecommendations(ctx, 1)
		if err != nil || len(got) != 2 {
			t.Errorf("got %d (%v), want 2", len(got), err)
		}
	})

	t.Run("stats", func(t *testing.T) {
		stats, err := e.Stats(ctx, 1)
		if err != nil {
			t.Fatalf("Stats() error = %v", err)
		}
		if stats.UnviewedCount != 2 {
			t.Errorf("UnviewedCount = %d, want 2", stats.UnviewedCount)
		}
		if len(stats.Recent) != 3 || stats.Recent[0].ProductID != 1 {
			t.Errorf("Recent = %+v, want 3 ordered by score", stats.Recent)
		}
	})

	t.Run("limit resolved", func(t *testing.T) {
		got, err := e.GetUserRecommendations(ctx, 1, 1)
		if err != nil || len(got) != 1 {
			t.Errorf("got %d (%v), want 1", len(got), err)
		}
	})
}

func TestEngine_UpdateUserPreferences(t *testing.T) {
	store := newMockStore()
	store.addProduct(1, "books")
	store.addProduct(2, "books")
	store.addProduct(3, "home")
	store.addProduct(4, "")
	store.behaviors[1] = []models.UserBehavior{
		{UserID: 1, ProductID: 1, BehaviorType: models.BehaviorView},
		{UserID: 1, ProductID: 2, BehaviorType: models.BehaviorWatchAdd},
		{UserID: 1, ProductID: 1, BehaviorType: models.BehaviorWatchRemove},
		{UserID: 1, ProductID: 3, BehaviorType: models.BehaviorView},
		{UserID: 1, ProductID: 4, BehaviorType: models.BehaviorView},
	}
	e := newTestEngine(t, store)
	ctx := context.Background()

	first, err := e.UpdateUserPreferences(ctx, 1)
	if err != nil {
		t.Fatalf("UpdateUserPreferences() error = %v", err)
	}
	want := map[string]float64{"books": 0.8, "home": 0.6}
	if len(first) != len(want) {
		t.Fatalf("got %d preferences, want %d", len(first), len(want))
	}
	for _, p := range first {
		if !approxEqual(p.Weight, want[p.Category]) {
			t.Errorf("%s weight = %f, want %f", p.Category, p.Weight, want[p.Category])
		}
	}

	snapshot, _ := store.GetUserPreferences(ctx, 1)
	if _, err := e.UpdateUserPreferences(ctx, 1); err != nil {
		t.Fatalf("second UpdateUserPreferences() error = %v", err)
	}
	again, _ := store.GetUserPreferences(ctx, 1)
	if len(again) != len(snapshot) {
		t.Fatalf("rows changed %d -> %d", len(snapshot), len(again))
	}
	for i := range again {
		if again[i] != snapshot[i] {
			t.Errorf("row %d changed: %+v -> %+v", i, snapshot[i], again[i])
		}
	}
}
