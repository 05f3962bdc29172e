// PriceWatch - Price Tracking and Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pricewatch

package recommend

import (
	"math"
	"time"

	"github.com/tomtom215/pricewatch/internal/models"
)

const (
	// decayPerDay is the weight lost per whole day of event age.
	decayPerDay = 0.1
	// decayFloor is the smallest decay multiplier.
	decayFloor = 0.5
)

// BehaviorWeight returns the undecayed signal strength of a behavior type.
func BehaviorWeight(t models.BehaviorType) float64 {
	switch t {
	case models.BehaviorWatchAdd:
		return 0.8
	case models.BehaviorNotificationClick:
		return 0.6
	case models.BehaviorView:
		return 0.5
	case models.BehaviorWatchRemove:
		return 0.3
	default:
		return 0.3
	}
}

// DecayedBehaviorWeight scales BehaviorWeight by max(0.5, 1 - days*0.1),
// where days is the number of whole days between at and now. Events in the
// future count as zero days old.
func DecayedBehaviorWeight(t models.BehaviorType, at, now time.Time) float64 {
	days := math.Floor(now.Sub(at).Hours() / 24)
	if days < 0 {
		days = 0
	}
	return BehaviorWeight(t) * math.Max(decayFloor, 1.0-days*decayPerDay)
}
