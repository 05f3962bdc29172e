// PriceWatch - Price Tracking and Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pricewatch

package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/thejerf/suture/v4"

	"github.com/tomtom215/pricewatch/internal/config"
	"github.com/tomtom215/pricewatch/internal/models"
)

var _ suture.Service = (*PreferenceRefreshService)(nil)

type mockRefreshDeps struct {
	mu        sync.Mutex
	ids       []int64
	listErr   error
	since     []time.Time
	limit     int
	prefFail  map[int64]bool
	refreshed []int64
	profiles  []int64
}

func (m *mockRefreshDeps) GetActiveUserIDs(_ context.Context, since time.Time, limit int) ([]int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.since = append(m.since, since)
	m.limit = limit
	return m.ids, m.listErr
}

func (m *mockRefreshDeps) UpdateUserPreferences(_ context.Context, userID int64) ([]models.UserPreference, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.prefFail[userID] {
		return nil, errors.New("database locked")
	}
	m.refreshed = append(m.refreshed, userID)
	return nil, nil
}

func (m *mockRefreshDeps) UpdateUserProfile(_ context.Context, userID int64) (*models.UserProfile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.profiles = append(m.profiles, userID)
	return &models.UserProfile{UserID: userID}, nil
}

func newRefreshService(deps *mockRefreshDeps, cfg config.RefreshConfig) *PreferenceRefreshService {
	return NewPreferenceRefreshService(deps, deps, deps, cfg, zerolog.Nop())
}

func TestPreferenceRefreshDefaults(t *testing.T) {
	svc := newRefreshService(&mockRefreshDeps{}, config.RefreshConfig{})
	if svc.config.Interval != time.Hour || svc.config.BatchSize != 500 || svc.config.RatePerSecond != 10 {
		t.Errorf("defaults = %+v", svc.config)
	}
	if svc.String() != "preference-refresh" {
		t.Errorf("String() = %q", svc.String())
	}
}

func TestPreferenceRefreshRunOnce(t *testing.T) {
	deps := &mockRefreshDeps{ids: []int64{1, 2, 3}, prefFail: map[int64]bool{2: true}}
	svc := newRefreshService(deps, config.RefreshConfig{Interval: time.Hour, BatchSize: 50, RatePerSecond: 1000})

	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	res, err := svc.RunOnce(context.Background())
	if err != nil {
		t.Fatalf("RunOnce() error = %v", err)
	}
	if res.Users != 3 || res.Failed != 1 {
		t.Errorf("result = %+v, want 3 users, 1 failed", res)
	}
	if len(deps.refreshed) != 2 || len(deps.profiles) != 2 {
		t.Errorf("refreshed %v, profiles %v; want users 1 and 3 only", deps.refreshed, deps.profiles)
	}
	if deps.limit != 50 {
		t.Errorf("limit = %d, want 50", deps.limit)
	}
	if want := now.Add(-time.Hour); !deps.since[0].Equal(want) {
		t.Errorf("first window starts %v, want %v", deps.since[0], want)
	}

	// The next run starts where this one began.
	later := now.Add(time.Hour)
	svc.now = func() time.Time { return later }
	if _, err := svc.RunOnce(context.Background()); err != nil {
		t.Fatalf("second RunOnce() error = %v", err)
	}
	if !deps.since[1].Equal(now) {
		t.Errorf("second window starts %v, want %v", deps.since[1], now)
	}
}

func TestPreferenceRefreshListFailureKeepsWindow(t *testing.T) {
	deps := &mockRefreshDeps{listErr: errors.New("no connection")}
	svc := newRefreshService(deps, config.RefreshConfig{Interval: time.Minute, BatchSize: 10, RatePerSecond: 100})

	start := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return start }
	if _, err := svc.RunOnce(context.Background()); err == nil {
		t.Fatal("RunOnce() should fail when users cannot be listed")
	}

	svc.now = func() time.Time { return start.Add(time.Minute) }
	deps.listErr = nil
	if _, err := svc.RunOnce(context.Background()); err != nil {
		t.Fatalf("RunOnce() error = %v", err)
	}
	if !deps.since[1].Equal(deps.since[0]) {
		t.Errorf("window advanced after failure: %v then %v", deps.since[0], deps.since[1])
	}
}

func TestPreferenceRefreshStopsOnCancel(t *testing.T) {
	deps := &mockRefreshDeps{ids: []int64{1, 2, 3, 4}}
	// One user per hour: the limiter blocks after the first token.
	svc := newRefreshService(deps, config.RefreshConfig{Interval: time.Hour, BatchSize: 10, RatePerSecond: 1.0 / 3600})

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	res, err := svc.RunOnce(ctx)
	if err == nil {
		t.Fatal("RunOnce() should return the limiter's context error")
	}
	if res.Users != 1 {
		t.Errorf("processed %d users before cancellation, want 1", res.Users)
	}
}

func TestPreferenceRefreshServeTicks(t *testing.T) {
	deps := &mockRefreshDeps{ids: []int64{7}}
	svc := newRefreshService(deps, config.RefreshConfig{Interval: 20 * time.Millisecond, BatchSize: 10, RatePerSecond: 1000})

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- svc.Serve(ctx) }()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		deps.mu.Lock()
		n := len(deps.refreshed)
		deps.mu.Unlock()
		if n > 0 {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}
	cancel()

	if err := <-errCh; !errors.Is(err, context.Canceled) {
		t.Errorf("Serve() = %v, want context.Canceled", err)
	}
	deps.mu.Lock()
	defer deps.mu.Unlock()
	if len(deps.refreshed) == 0 {
		t.Error("no scheduled refresh ran")
	}
}
