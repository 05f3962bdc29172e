// PriceWatch - Price Tracking and Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pricewatch

package models

import (
	"fmt"
	"time"
)

// BehaviorType classifies a user action against a product.
type BehaviorType int

const (
	// BehaviorView is a product page view.
	BehaviorView BehaviorType = iota + 1
	// BehaviorWatchAdd is adding the product to the watch list.
	BehaviorWatchAdd
	// BehaviorWatchRemove is removing the product from the watch list.
	BehaviorWatchRemove
	// BehaviorNotificationClick is a click on a price notification.
	BehaviorNotificationClick
)

// AllBehaviorTypes lists every behavior type in declaration order.
var AllBehaviorTypes = []BehaviorType{
	BehaviorView,
	BehaviorWatchAdd,
	BehaviorWatchRemove,
	BehaviorNotificationClick,
}

// String returns the canonical upper-case name.
func (t BehaviorType) String() string {
	switch t {
	case BehaviorView:
		return "VIEW"
	case BehaviorWatchAdd:
		return "WATCH_ADD"
	case BehaviorWatchRemove:
		return "WATCH_REMOVE"
	case BehaviorNotificationClick:
		return "NOTIFICATION_CLICK"
	default:
		return "UNKNOWN"
	}
}

// IsEngagement reports whether the behavior signals interest in the product.
// WATCH_REMOVE is the only non-engagement type.
func (t BehaviorType) IsEngagement() bool {
	switch t {
	case BehaviorView, BehaviorWatchAdd, BehaviorNotificationClick:
		return true
	case BehaviorWatchRemove:
		return false
	default:
		return false
	}
}

// ParseBehaviorType converts a canonical name back to a BehaviorType.
func ParseBehaviorType(s string) (BehaviorType, error) {
	for _, t := range AllBehaviorTypes {
		if t.String() == s {
			return t, nil
		}
	}
	return 0, fmt.Errorf("unknown behavior type %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (t BehaviorType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *BehaviorType) UnmarshalText(b []byte) error {
	parsed, err := ParseBehaviorType(string(b))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// UserBehavior is one entry of the append-only behavior log.
type UserBehavior struct {
	ID           int64        `json:"id"`
	UserID       int64        `json:"user_id"`
	ProductID    int64        `json:"product_id"`
	BehaviorType BehaviorType `json:"behavior_type"`
	CreatedAt    time.Time    `json:"created_at"`

	// Product attributes joined in by readers.
	Category     string   `json:"category,omitempty"`
	Source       string   `json:"source,omitempty"`
	CurrentPrice *float64 `json:"current_price,omitempty"`
}

// DayPart is a coarse time-of-day bucket.
type DayPart int

const (
	// DayPartNight covers [22:00, 06:00).
	DayPartNight DayPart = iota
	// DayPartMorning covers [06:00, 12:00).
	DayPartMorning
	// DayPartAfternoon covers [12:00, 18:00).
	DayPartAfternoon
	// DayPartEvening covers [18:00, 22:00).
	DayPartEvening
)

// DayPartOf returns the bucket containing t's hour.
func DayPartOf(t time.Time) DayPart {
	h := t.Hour()
	switch {
	case h >= 6 && h < 12:
		return DayPartMorning
	case h >= 12 && h < 18:
		return DayPartAfternoon
	case h >= 18 && h < 22:
		return DayPartEvening
	default:
		return DayPartNight
	}
}

// String returns the lower-case bucket name.
func (d DayPart) String() string {
	switch d {
	case DayPartMorning:
		return "morning"
	case DayPartAfternoon:
		return "afternoon"
	case DayPartEvening:
		return "evening"
	case DayPartNight:
		return "night"
	default:
		return "unknown"
	}
}
