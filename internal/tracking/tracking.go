// PriceWatch - Price Tracking and Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pricewatch

package tracking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/pricewatch/internal/metrics"
	"github.com/tomtom215/pricewatch/internal/models"
)

// ErrUnknownBehavior is returned by Track for a behavior type it cannot record.
var ErrUnknownBehavior = errors.New("unknown behavior type")

// Store is the persistence the tracker needs.
type Store interface {
	GetProduct(ctx context.Context, id int64) (*models.Product, error)
	AddBehavior(ctx context.Context, b *models.UserBehavior) error
	AddToWatchlist(ctx context.Context, userID, productID int64, at time.Time) error
	RemoveFromWatchlist(ctx context.Context, userID, productID int64) error
	CountBehaviors(ctx context.Context, userID int64, t models.BehaviorType) (int64, error)
	CountProductBehaviors(ctx context.Context, userID, productID int64, t models.BehaviorType) (int64, error)
	CountBehaviorsByType(ctx context.Context, userID int64) (map[models.BehaviorType]int64, error)
}

// Publisher forwards recorded behaviors to the event bus.
// Implementations publish to topic "behavior.<type>".
type Publisher interface {
	PublishBehavior(ctx context.Context, b *models.UserBehavior) error
}

// Service records user behaviors and keeps the watch list in step with
// WATCH_ADD and WATCH_REMOVE events.
type Service struct {
	store     Store
	publisher Publisher
	logger    zerolog.Logger
	now       func() time.Time
}

// NewService creates a tracker. publisher may be nil, in which case
// behaviors are only persisted.
func NewService(store Store, publisher Publisher, logger zerolog.Logger) *Service {
	return &Service{
		store:     store,
		publisher: publisher,
		logger:    logger.With().Str("component", "tracking").Logger(),
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// TrackView records that the user viewed a product.
func (s *Service) TrackView(ctx context.Context, userID, productID int64) (*models.UserBehavior, error) {
	return s.Track(ctx, userID, productID, models.BehaviorView)
}

// TrackWatchAdd records a watch-list addition and adds the product to the
// user's watch list.
func (s *Service) TrackWatchAdd(ctx context.Context, userID, productID int64) (*models.UserBehavior, error) {
	return s.Track(ctx, userID, productID, models.BehaviorWatchAdd)
}

// TrackWatchRemove records a watch-list removal and removes the product
// from the user's watch list.
func (s *Service) TrackWatchRemove(ctx context.Context, userID, productID int64) (*models.UserBehavior, error) {
	return s.Track(ctx, userID, productID, models.BehaviorWatchRemove)
}

// TrackNotificationClick records a click on a price notification.
func (s *Service) TrackNotificationClick(ctx context.Context, userID, productID int64) (*models.UserBehavior, error) {
	return s.Track(ctx, userID, productID, models.BehaviorNotificationClick)
}

// Track appends one behavior of type t. The product must exist; the lookup
// error is returned wrapped so callers can match the store's not-found
// sentinel. Publish failures are logged and do not fail the call.
func (s *Service) Track(ctx context.Context, userID, productID int64, t models.BehaviorType) (*models.UserBehavior, error) {
	if !validType(t) {
		return nil, fmt.Errorf("%w: %d", ErrUnknownBehavior, t)
	}
	if _, err := s.store.GetProduct(ctx, productID); err != nil {
		return nil, fmt.Errorf("lookup product %d: %w", productID, err)
	}

	at := s.now()
	switch t {
	case models.BehaviorWatchAdd:
		if err := s.store.AddToWatchlist(ctx, userID, productID, at); err != nil {
			return nil, fmt.Errorf("add to watch list: %w", err)
		}
	case models.BehaviorWatchRemove:
		if err := s.store.RemoveFromWatchlist(ctx, userID, productID); err != nil {
			return nil, fmt.Errorf("remove from watch list: %w", err)
		}
	}

	b := &models.UserBehavior{
		UserID:       userID,
		ProductID:    productID,
		BehaviorType: t,
		CreatedAt:    at,
	}
	if err := s.store.AddBehavior(ctx, b); err != nil {
		return nil, fmt.Errorf("record %s behavior: %w", t, err)
	}
	metrics.BehaviorEventsTracked.WithLabelValues(t.String()).Inc()

	s.logger.Debug().
		Int64("user_id", userID).
		Int64("product_id", productID).
		Str("type", t.String()).
		Msg("behavior tracked")

	if s.publisher != nil {
		if err := s.publisher.PublishBehavior(ctx, b); err != nil {
			s.logger.Warn().Err(err).
				Int64("user_id", userID).
				Str("type", t.String()).
				Msg("publish behavior failed")
		}
	}
	return b, nil
}

// BehaviorCount returns how many events of type t the user has.
func (s *Service) BehaviorCount(ctx context.Context, userID int64, t models.BehaviorType) (int64, error) {
	if !validType(t) {
		return 0, fmt.Errorf("%w: %d", ErrUnknownBehavior, t)
	}
	n, err := s.store.CountBehaviors(ctx, userID, t)
	if err != nil {
		return 0, fmt.Errorf("count %s behaviors: %w", t, err)
	}
	return n, nil
}

// ProductBehaviorCount returns how many events of type t the user has on one product.
func (s *Service) ProductBehaviorCount(ctx context.Context, userID, productID int64, t models.BehaviorType) (int64, error) {
	if !validType(t) {
		return 0, fmt.Errorf("%w: %d", ErrUnknownBehavior, t)
	}
	n, err := s.store.CountProductBehaviors(ctx, userID, productID, t)
	if err != nil {
		return 0, fmt.Errorf("count %s behaviors on product %d: %w", t, productID, err)
	}
	return n, nil
}

// Counts returns the user's event count for every behavior type, keyed by
// the type's canonical name.
func (s *Service) Counts(ctx context.Context, userID int64) (map[string]int64, error) {
	byType, err := s.store.CountBehaviorsByType(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("count behaviors: %w", err)
	}
	out := make(map[string]int64, len(models.AllBehaviorTypes))
	for _, t := range models.AllBehaviorTypes {
		out[t.String()] = byType[t]
	}
	return out, nil
}

func validType(t models.BehaviorType) bool {
	for _, known := range models.AllBehaviorTypes {
		if t == known {
			return true
		}
	}
	return false
}
