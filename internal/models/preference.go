// PriceWatch - Price Tracking and Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pricewatch

package models

import "time"

// UserPreference is a per-user category weight in [0, 1].
// At most one row exists per (UserID, Category).
type UserPreference struct {
	UserID    int64     `json:"user_id"`
	Category  string    `json:"category"`
	Weight    float64   `json:"weight"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PriceProfile describes the prices of products a user interacted with.
type PriceProfile struct {
	MinPrice   float64 `json:"min_price"`
	MaxPrice   float64 `json:"max_price"`
	AvgPrice   float64 `json:"avg_price"`
	PriceRange float64 `json:"price_range"`
}

// ActivityStats summarizes a user's behavior log.
type ActivityStats struct {
	TotalInteractions  int     `json:"total_interactions"`
	DaysActive         int     `json:"days_active"`
	AvgDailyActivity   float64 `json:"avg_daily_activity"`
	Views              int     `json:"views"`
	WatchAdds          int     `json:"watch_adds"`
	WatchRemoves       int     `json:"watch_removes"`
	NotificationClicks int     `json:"notification_clicks"`
}

// UserProfile is the personalization snapshot derived from behavior.
// Share maps hold fractions summing to 1 over their keys.
type UserProfile struct {
	UserID            int64              `json:"user_id"`
	TimePreferences   map[string]float64 `json:"time_preferences"`
	DayPreferences    map[string]float64 `json:"day_preferences"`
	SourcePreferences map[string]float64 `json:"source_preferences"`
	PricePreferences  *PriceProfile      `json:"price_preferences,omitempty"`
	Activity          *ActivityStats     `json:"activity,omitempty"`
	UpdatedAt         time.Time          `json:"updated_at"`
}

// TrendingProducts groups the trend service's product sets.
type TrendingProducts struct {
	PriceTrending     []Product `json:"price_trending"`
	GrowingPopularity []Product `json:"growing_popularity"`
	Seasonal          []Product `json:"seasonal"`
}
