// PriceWatch - Price Tracking and Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pricewatch

package tracking

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/pricewatch/internal/models"
)

var errNotFound = errors.New("not found")

// mockStore is an in-memory Store.
type mockStore struct {
	mu        sync.Mutex
	products  map[int64]bool
	behaviors []models.UserBehavior
	watchlist map[[2]int64]bool
	addErr    error
}

func newMockStore(productIDs ...int64) *mockStore {
	m := &mockStore{products: map[int64]bool{}, watchlist: map[[2]int64]bool{}}
	for _, id := range productIDs {
		m.products[id] = true
	}
	return m
}

func (m *mockStore) GetProduct(_ context.Context, id int64) (*models.Product, error) {
	if !m.products[id] {
		return nil, errNotFound
	}
	return &models.Product{ID: id}, nil
}

func (m *mockStore) AddBehavior(_ context.Context, b *models.UserBehavior) error {
	if m.addErr != nil {
		return m.addErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	b.ID = int64(len(m.behaviors) + 1)
	m.behaviors = append(m.behaviors, *b)
	return nil
}

func (m *mockStore) AddToWatchlist(_ context.Context, userID, productID int64, _ time.Time) error {
	m.watchlist[[2]int64{userID, productID}] = true
	return nil
}

func (m *mockStore) RemoveFromWatchlist(_ context.Context, userID, productID int64) error {
	delete(m.watchlist, [2]int64{userID, productID})
	return nil
}

func (m *mockStore) CountBehaviors(_ context.Context, userID int64, t models.BehaviorType) (int64, error) {
	var n int64
	for _, b := range m.behaviors {
		if b.UserID == userID && b.BehaviorType == t {
			n++
		}
	}
	return n, nil
}

func (m *mockStore) CountProductBehaviors(_ context.Context, userID, productID int64, t models.BehaviorType) (int64, error) {
	var n int64
	for _, b := range m.behaviors {
		if b.UserID == userID && b.ProductID == productID && b.BehaviorType == t {
			n++
		}
	}
	return n, nil
}

func (m *mockStore) CountBehaviorsByType(_ context.Context, userID int64) (map[models.BehaviorType]int64, error) {
	out := map[models.BehaviorType]int64{}
	for _, b := range m.behaviors {
		if b.UserID == userID {
			out[b.BehaviorType]++
		}
	}
	return out, nil
}

type mockPublisher struct {
	published []models.UserBehavior
	err       error
}

func (p *mockPublisher) PublishBehavior(_ context.Context, b *models.UserBehavior) error {
	p.published = append(p.published, *b)
	return p.err
}

func newTestService(store Store, pub Publisher) *Service {
	s := NewService(store, pub, zerolog.New(io.Discard))
	s.now = func() time.Time { return time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC) }
	return s
}

func TestTrackWatchListSideEffects(t *testing.T) {
	store := newMockStore(10)
	pub := &mockPublisher{}
	s := newTestService(store, pub)
	ctx := context.Background()

	if _, err := s.TrackWatchAdd(ctx, 1, 10); err != nil {
		t.Fatalf("TrackWatchAdd() error = %v", err)
	}
	if !store.watchlist[[2]int64{1, 10}] {
		t.Error("TrackWatchAdd() did not add to watch list")
	}

	if _, err := s.TrackWatchRemove(ctx, 1, 10); err != nil {
		t.Fatalf("TrackWatchRemove() error = %v", err)
	}
	if store.watchlist[[2]int64{1, 10}] {
		t.Error("TrackWatchRemove() did not remove from watch list")
	}

	if len(store.behaviors) != 2 || len(pub.published) != 2 {
		t.Errorf("behaviors = %d, published = %d; want 2 and 2", len(store.behaviors), len(pub.published))
	}
	if pub.published[1].BehaviorType != models.BehaviorWatchRemove {
		t.Errorf("second published type = %v", pub.published[1].BehaviorType)
	}
}

func TestTrack(t *testing.T) {
	tests := []struct {
		name      string
		productID int64
		bt        models.BehaviorType
		wantErr   error
	}{
		{"view", 10, models.BehaviorView, nil},
		{"notification click", 10, models.BehaviorNotificationClick, nil},
		{"unknown product", 99, models.BehaviorView, errNotFound},
		{"unknown type", 10, models.BehaviorType(42), ErrUnknownBehavior},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newMockStore(10)
			s := newTestService(store, nil)

			b, err := s.Track(context.Background(), 1, tt.productID, tt.bt)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Track() error = %v, want %v", err, tt.wantErr)
				}
				if len(store.behaviors) != 0 {
					t.Error("failed Track() appended a behavior")
				}
				return
			}
			if err != nil {
				t.Fatalf("Track() error = %v", err)
			}
			if b.ID == 0 || b.BehaviorType != tt.bt || b.CreatedAt.IsZero() {
				t.Errorf("Track() = %+v", b)
			}
		})
	}
}

func TestTrackPublishFailureIsNotFatal(t *testing.T) {
	store := newMockStore(10)
	s := newTestService(store, &mockPublisher{err: errors.New("broker down")})

	if _, err := s.TrackView(context.Background(), 1, 10); err != nil {
		t.Fatalf("TrackView() error = %v, want nil", err)
	}
	if len(store.behaviors) != 1 {
		t.Errorf("behaviors = %d, want 1", len(store.behaviors))
	}
}

func TestTrackStoreFailure(t *testing.T) {
	store := newMockStore(10)
	store.addErr = errors.New("disk full")
	pub := &mockPublisher{}
	s := newTestService(store, pub)

	if _, err := s.TrackView(context.Background(), 1, 10); err == nil {
		t.Fatal("TrackView() error = nil, want store error")
	}
	if len(pub.published) != 0 {
		t.Error("behavior published although it was not stored")
	}
}

func TestCounts(t *testing.T) {
	store := newMockStore(10, 11)
	s := newTestService(store, nil)
	ctx := context.Background()

	for _, step := range []struct {
		product int64
		bt      models.BehaviorType
	}{
		{10, models.BehaviorView},
		{10, models.BehaviorView},
		{11, models.BehaviorView},
		{11, models.BehaviorWatchAdd},
	} {
		if _, err := s.Track(ctx, 1, step.product, step.bt); err != nil {
			t.Fatalf("Track() error = %v", err)
		}
	}

	if n, err := s.BehaviorCount(ctx, 1, models.BehaviorView); err != nil || n != 3 {
		t.Errorf("BehaviorCount() = %d, %v; want 3", n, err)
	}
	if n, err := s.ProductBehaviorCount(ctx, 1, 10, models.BehaviorView); err != nil || n != 2 {
		t.Errorf("ProductBehaviorCount() = %d, %v; want 2", n, err)
	}
	if _, err := s.BehaviorCount(ctx, 1, models.BehaviorType(0)); !errors.Is(err, ErrUnknownBehavior) {
		t.Errorf("BehaviorCount(0) error = %v, want ErrUnknownBehavior", err)
	}

	counts, err := s.Counts(ctx, 1)
	if err != nil {
		t.Fatalf("Counts() error = %v", err)
	}
	want := map[string]int64{"VIEW": 3, "WATCH_ADD": 1, "WATCH_REMOVE": 0, "NOTIFICATION_CLICK": 0}
	for k, v := range want {
		if counts[k] != v {
			t.Errorf("Counts()[%s] = %d, want %d", k, counts[k], v)
		}
	}
}
