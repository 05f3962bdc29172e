// PriceWatch - Price Tracking and Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pricewatch

package eventprocessor

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/rs/zerolog"

	"github.com/tomtom215/pricewatch/internal/logging"
	"github.com/tomtom215/pricewatch/internal/models"
)

type mockRefresher struct {
	mu    sync.Mutex
	users []int64
	err   error
	calls chan int64
}

func newMockRefresher() *mockRefresher {
	return &mockRefresher{calls: make(chan int64, 16)}
}

func (m *mockRefresher) UpdateUserPreferences(_ context.Context, userID int64) ([]models.UserPreference, error) {
	m.mu.Lock()
	m.users = append(m.users, userID)
	err := m.err
	m.mu.Unlock()
	m.calls <- userID
	return nil, err
}

func (m *mockRefresher) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.users)
}

type mockInvalidator struct {
	mu          sync.Mutex
	invalidated []int64
	updated     []int64
	seen        chan int64
}

func newMockInvalidator() *mockInvalidator {
	return &mockInvalidator{seen: make(chan int64, 16)}
}

func (m *mockInvalidator) Invalidate(id int64) {
	m.mu.Lock()
	m.invalidated = append(m.invalidated, id)
	m.mu.Unlock()
	m.seen <- id
}

func (m *mockInvalidator) UpdateUserProfile(_ context.Context, userID int64) (*models.UserProfile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.updated = append(m.updated, userID)
	return &models.UserProfile{UserID: userID}, nil
}

func testLogger() zerolog.Logger {
	return zerolog.New(io.Discard)
}

func TestConsumerProcess(t *testing.T) {
	tests := []struct {
		name        string
		eventType   string
		wantRefresh bool
	}{
		{"view only invalidates", "VIEW", false},
		{"watch remove only invalidates", "WATCH_REMOVE", false},
		{"watch add refreshes", "WATCH_ADD", true},
		{"notification click refreshes", "NOTIFICATION_CLICK", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			refresher := newMockRefresher()
			trends := newMockInvalidator()
			profiles := newMockInvalidator()
			c := NewConsumer(refresher, trends, profiles, testLogger())

			err := c.Process(context.Background(), &BehaviorEvent{EventID: "e", UserID: 3, ProductID: 7, Type: tt.eventType})
			if err != nil {
				t.Fatalf("Process() error = %v", err)
			}
			if len(trends.invalidated) != 1 || trends.invalidated[0] != 7 {
				t.Errorf("trend invalidations = %v, want [7]", trends.invalidated)
			}
			if len(profiles.invalidated) != 1 || profiles.invalidated[0] != 3 {
				t.Errorf("profile invalidations = %v, want [3]", profiles.invalidated)
			}
			if got := refresher.count() == 1; got != tt.wantRefresh {
				t.Errorf("refreshed = %v, want %v", got, tt.wantRefresh)
			}
			if got := len(profiles.updated) == 1; got != tt.wantRefresh {
				t.Errorf("profile updated = %v, want %v", got, tt.wantRefresh)
			}
		})
	}
}

func TestConsumerRefreshError(t *testing.T) {
	refresher := newMockRefresher()
	refresher.err = errors.New("db down")
	c := NewConsumer(refresher, nil, nil, testLogger())

	err := c.Process(context.Background(), &BehaviorEvent{EventID: "e", UserID: 3, ProductID: 7, Type: "WATCH_ADD"})
	if err == nil {
		t.Fatal("Process() error = nil, want refresh error")
	}
}

func TestConsumerHandleMalformed(t *testing.T) {
	c := NewConsumer(newMockRefresher(), nil, nil, testLogger())
	if err := c.Handle(message.NewMessage("m1", []byte("not json"))); err != nil {
		t.Errorf("Handle() error = %v, want nil so the message is acked", err)
	}
}

// startBus wires an in-memory bus with the consumer registered and the
// router running. Everything is stopped on cleanup.
func startBus(t *testing.T, refresher PreferenceRefresher, trends ProductCache) *Publisher {
	t.Helper()

	cfg := DefaultConfig()
	cfg.Router.RetryMaxRetries = 0
	cfg.Router.CloseTimeout = time.Second

	wmLogger := logging.NewWatermillAdapter(testLogger())
	ps, err := NewPubSub(context.Background(), &cfg, wmLogger)
	if err != nil {
		t.Fatalf("NewPubSub() error = %v", err)
	}
	router, err := NewRouter(&cfg.Router, wmLogger)
	if err != nil {
		t.Fatalf("NewRouter() error = %v", err)
	}
	NewConsumer(refresher, trends, nil, testLogger()).Register(router, ps.Subscriber)
	if router.HandlerCount() != len(models.AllBehaviorTypes) {
		t.Fatalf("HandlerCount() = %d", router.HandlerCount())
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := router.Run(ctx); err != nil {
			t.Errorf("router.Run() error = %v", err)
		}
	}()

	select {
	case <-router.Running():
	case <-time.After(5 * time.Second):
		t.Fatal("router did not start")
	}
	if !router.IsRunning() {
		t.Error("IsRunning() = false after start")
	}

	t.Cleanup(func() {
		cancel()
		<-done
		if err := ps.Close(); err != nil {
			t.Errorf("PubSub.Close() error = %v", err)
		}
	})

	pub, err := NewPublisher(ps.Publisher, nil)
	if err != nil {
		t.Fatalf("NewPublisher() error = %v", err)
	}
	return pub
}

func waitFor(t *testing.T, ch <-chan int64, want int64) {
	t.Helper()
	select {
	case got := <-ch:
		if got != want {
			t.Fatalf("received %d, want %d", got, want)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("timed out waiting for %d", want)
	}
}

func TestEventFlowEndToEnd(t *testing.T) {
	refresher := newMockRefresher()
	trends := newMockInvalidator()
	pub := startBus(t, refresher, trends)

	b := &models.UserBehavior{ID: 1, UserID: 5, ProductID: 11, BehaviorType: models.BehaviorWatchAdd, CreatedAt: time.Now()}
	if err := pub.PublishBehavior(context.Background(), b); err != nil {
		t.Fatalf("PublishBehavior() error = %v", err)
	}

	waitFor(t, trends.seen, 11)
	waitFor(t, refresher.calls, 5)
}

func TestRouterDeduplicatesRedelivery(t *testing.T) {
	refresher := newMockRefresher()
	trends := newMockInvalidator()
	pub := startBus(t, refresher, trends)
	ctx := context.Background()

	first := &BehaviorEvent{EventID: "dup-1", SchemaVersion: 1, UserID: 1, ProductID: 2, Type: "WATCH_ADD", OccurredAt: time.Now()}
	if err := pub.PublishEvent(ctx, first); err != nil {
		t.Fatalf("PublishEvent() error = %v", err)
	}
	waitFor(t, refresher.calls, 1)

	if err := pub.PublishEvent(ctx, first); err != nil {
		t.Fatalf("PublishEvent() redelivery error = %v", err)
	}
	// A distinct event on the same topic is handled after the duplicate.
	second := &BehaviorEvent{EventID: "dup-2", SchemaVersion: 1, UserID: 9, ProductID: 2, Type: "WATCH_ADD", OccurredAt: time.Now()}
	if err := pub.PublishEvent(ctx, second); err != nil {
		t.Fatalf("PublishEvent() error = %v", err)
	}
	waitFor(t, refresher.calls, 9)

	if got := refresher.count(); got != 2 {
		t.Errorf("refresh count = %d, want 2 (duplicate dropped)", got)
	}
}
