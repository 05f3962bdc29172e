// PriceWatch - Price Tracking and Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pricewatch

package personalization

import (
	"math"
	"strings"
	"time"

	"github.com/tomtom215/pricewatch/internal/models"
)

// TimeSlotPreferences returns the share of the user's behaviors in each
// day-part (UTC), keyed by day-part name.
func TimeSlotPreferences(behaviors []models.UserBehavior) map[string]float64 {
	return shares(behaviors, func(b *models.UserBehavior) string {
		return models.DayPartOf(b.CreatedAt.UTC()).String()
	})
}

// DayOfWeekPreferences returns the share of behaviors per weekday (UTC),
// keyed by lower-case weekday name.
func DayOfWeekPreferences(behaviors []models.UserBehavior) map[string]float64 {
	return shares(behaviors, func(b *models.UserBehavior) string {
		return strings.ToLower(b.CreatedAt.UTC().Weekday().String())
	})
}

// SourcePreferences returns the share of behaviors per product source.
// Behaviors on products without a source are ignored.
func SourcePreferences(behaviors []models.UserBehavior) map[string]float64 {
	return shares(behaviors, func(b *models.UserBehavior) string { return b.Source })
}

// PricePreferences summarizes the current prices of products the user
// interacted with. It returns nil when none has a price. AvgPrice is
// rounded to cents.
func PricePreferences(behaviors []models.UserBehavior) *models.PriceProfile {
	var pp *models.PriceProfile
	var sum float64
	var n int
	for i := range behaviors {
		p := behaviors[i].CurrentPrice
		if p == nil {
			continue
		}
		if pp == nil {
			pp = &models.PriceProfile{MinPrice: *p, MaxPrice: *p}
		}
		pp.MinPrice = math.Min(pp.MinPrice, *p)
		pp.MaxPrice = math.Max(pp.MaxPrice, *p)
		sum += *p
		n++
	}
	if pp == nil {
		return nil
	}
	pp.AvgPrice = math.Round(sum/float64(n)*100) / 100
	pp.PriceRange = pp.MaxPrice - pp.MinPrice
	return pp
}

// UserActivity summarizes how active the user is. It returns nil for a
// user with no behaviors. DaysActive counts whole days from first to last
// event, inclusive.
func UserActivity(behaviors []models.UserBehavior) *models.ActivityStats {
	if len(behaviors) == 0 {
		return nil
	}

	first, last := behaviors[0].CreatedAt, behaviors[0].CreatedAt
	stats := &models.ActivityStats{TotalInteractions: len(behaviors)}
	for i := range behaviors {
		at := behaviors[i].CreatedAt
		if at.Before(first) {
			first = at
		}
		if at.After(last) {
			last = at
		}
		switch behaviors[i].BehaviorType {
		case models.BehaviorView:
			stats.Views++
		case models.BehaviorWatchAdd:
			stats.WatchAdds++
		case models.BehaviorWatchRemove:
			stats.WatchRemoves++
		case models.BehaviorNotificationClick:
			stats.NotificationClicks++
		}
	}

	stats.DaysActive = int(last.Sub(first)/(24*time.Hour)) + 1
	stats.AvgDailyActivity = float64(stats.TotalInteractions) / float64(stats.DaysActive)
	return stats
}

// BuildProfile assembles every analysis for a user.
func BuildProfile(userID int64, behaviors []models.UserBehavior, now time.Time) *models.UserProfile {
	return &models.UserProfile{
		UserID:            userID,
		TimePreferences:   TimeSlotPreferences(behaviors),
		DayPreferences:    DayOfWeekPreferences(behaviors),
		SourcePreferences: SourcePreferences(behaviors),
		PricePreferences:  PricePreferences(behaviors),
		Activity:          UserActivity(behaviors),
		UpdatedAt:         now,
	}
}

func shares(behaviors []models.UserBehavior, key func(*models.UserBehavior) string) map[string]float64 {
	counts := make(map[string]int)
	total := 0
	for i := range behaviors {
		k := key(&behaviors[i])
		if k == "" {
			continue
		}
		counts[k]++
		total++
	}
	out := make(map[string]float64, len(counts))
	for k, n := range counts {
		out[k] = float64(n) / float64(total)
	}
	return out
}
