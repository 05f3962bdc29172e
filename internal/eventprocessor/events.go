// PriceWatch - Price Tracking and Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pricewatch

package eventprocessor

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/tomtom215/pricewatch/internal/models"
)

// SchemaVersion is the current BehaviorEvent payload version.
const SchemaVersion = 1

// TopicPrefix prefixes every behavior topic.
const TopicPrefix = "behavior."

// BehaviorEvent is the bus payload for one recorded user behavior.
type BehaviorEvent struct {
	// EventID is unique per recorded behavior and used for deduplication.
	EventID       string    `json:"event_id"`
	SchemaVersion int       `json:"schema_version"`
	BehaviorID    int64     `json:"behavior_id,omitempty"`
	UserID        int64     `json:"user_id"`
	ProductID     int64     `json:"product_id"`
	Type          string    `json:"type"`
	OccurredAt    time.Time `json:"occurred_at"`
}

// NewBehaviorEvent builds an event for b with a fresh event ID.
func NewBehaviorEvent(b *models.UserBehavior) *BehaviorEvent {
	return &BehaviorEvent{
		EventID:       uuid.NewString(),
		SchemaVersion: SchemaVersion,
		BehaviorID:    b.ID,
		UserID:        b.UserID,
		ProductID:     b.ProductID,
		Type:          b.BehaviorType.String(),
		OccurredAt:    b.CreatedAt.UTC(),
	}
}

// Validate checks required fields and returns an error if validation fails.
func (e *BehaviorEvent) Validate() error {
	if e.EventID == "" {
		return &ValidationError{Field: "event_id", Message: "required"}
	}
	if e.UserID == 0 {
		return &ValidationError{Field: "user_id", Message: "required"}
	}
	if e.ProductID == 0 {
		return &ValidationError{Field: "product_id", Message: "required"}
	}
	if _, err := models.ParseBehaviorType(e.Type); err != nil {
		return &ValidationError{Field: "type", Message: err.Error()}
	}
	return nil
}

// BehaviorType returns the parsed event type.
func (e *BehaviorEvent) BehaviorType() (models.BehaviorType, error) {
	return models.ParseBehaviorType(e.Type)
}

// Topic returns the subject for this event.
// Format: behavior.<type>
// Example: behavior.watch_add
func (e *BehaviorEvent) Topic() string {
	return TopicPrefix + strings.ToLower(e.Type)
}

// TopicFor returns the subject carrying events of type t.
func TopicFor(t models.BehaviorType) string {
	return TopicPrefix + strings.ToLower(t.String())
}

// ValidationError represents a field validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}
