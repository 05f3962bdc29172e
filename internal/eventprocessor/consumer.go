// PriceWatch - Price Tracking and Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pricewatch

package eventprocessor

import (
	"context"
	"fmt"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/rs/zerolog"

	"github.com/tomtom215/pricewatch/internal/logging"
	"github.com/tomtom215/pricewatch/internal/metrics"
	"github.com/tomtom215/pricewatch/internal/models"
)

// PreferenceRefresher recomputes a user's category preferences.
type PreferenceRefresher interface {
	UpdateUserPreferences(ctx context.Context, userID int64) ([]models.UserPreference, error)
}

// ProductCache drops cached per-product analysis.
type ProductCache interface {
	Invalidate(productID int64)
}

// ProfileCache drops and rebuilds per-user profile snapshots.
type ProfileCache interface {
	Invalidate(userID int64)
	UpdateUserProfile(ctx context.Context, userID int64) (*models.UserProfile, error)
}

// Consumer reacts to behavior events: every event invalidates the product's
// trend entry and the user's profile; WATCH_ADD and NOTIFICATION_CLICK also
// refresh the user's preferences and stored profile.
type Consumer struct {
	refresher PreferenceRefresher
	trends    ProductCache
	profiles  ProfileCache
	logger    zerolog.Logger
}

// NewConsumer creates a consumer. trends and profiles may be nil.
func NewConsumer(refresher PreferenceRefresher, trends ProductCache, profiles ProfileCache, logger zerolog.Logger) *Consumer {
	return &Consumer{
		refresher: refresher,
		trends:    trends,
		profiles:  profiles,
		logger:    logger.With().Str("component", "behavior-consumer").Logger(),
	}
}

// Register adds one handler per behavior topic to router.
func (c *Consumer) Register(router *Router, subscriber message.Subscriber) {
	for _, t := range models.AllBehaviorTypes {
		topic := TopicFor(t)
		router.AddConsumerHandler("behavior-consumer."+t.String(), topic, subscriber, c.Handle)
	}
}

// Handle processes one behavior message. A returned error triggers the
// router's retry middleware.
func (c *Consumer) Handle(msg *message.Message) (err error) {
	defer func() { metrics.RecordConsume("behavior-consumer", err) }()

	event, err := DeserializeEvent(msg.Payload)
	if err != nil {
		// Malformed payloads are acked; retrying cannot fix them.
		c.logger.Error().Err(err).Str("message_id", msg.UUID).Msg("dropping malformed behavior event")
		return nil
	}

	ctx := msg.Context()
	if id := msg.Metadata.Get(MetadataCorrelationID); id != "" {
		ctx = logging.ContextWithCorrelationID(ctx, id)
	}
	return c.Process(ctx, event)
}

// Process applies the side effects of one event.
func (c *Consumer) Process(ctx context.Context, event *BehaviorEvent) error {
	t, err := event.BehaviorType()
	if err != nil {
		return err
	}

	if c.trends != nil {
		c.trends.Invalidate(event.ProductID)
	}
	if c.profiles != nil {
		c.profiles.Invalidate(event.UserID)
	}

	if t != models.BehaviorWatchAdd && t != models.BehaviorNotificationClick {
		return nil
	}

	_, err = c.refresher.UpdateUserPreferences(ctx, event.UserID)
	metrics.RecordPreferenceRefresh("event", err)
	if err != nil {
		return fmt.Errorf("refresh preferences for user %d: %w", event.UserID, err)
	}

	if c.profiles != nil {
		if _, err := c.profiles.UpdateUserProfile(ctx, event.UserID); err != nil {
			return fmt.Errorf("update profile for user %d: %w", event.UserID, err)
		}
	}

	c.logger.Debug().
		Int64("user_id", event.UserID).
		Str("type", event.Type).
		Str("correlation_id", logging.CorrelationIDFromContext(ctx)).
		Msg("preferences refreshed from behavior event")
	return nil
}
