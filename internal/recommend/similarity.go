// PriceWatch - Price Tracking and Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pricewatch

package recommend

import "github.com/tomtom215/pricewatch/internal/models"

const (
	categorySimilarityWeight = 0.7
	behaviorSimilarityWeight = 0.3
)

// UserSignature is the part of a user's history that similarity looks at.
type UserSignature struct {
	Categories    map[string]struct{}
	BehaviorTypes map[models.BehaviorType]struct{}
}

// NewUserSignature builds a signature from preferences and behaviors.
func NewUserSignature(prefs []models.UserPreference, behaviors []models.UserBehavior) UserSignature {
	sig := UserSignature{
		Categories:    make(map[string]struct{}, len(prefs)),
		BehaviorTypes: make(map[models.BehaviorType]struct{}, len(models.AllBehaviorTypes)),
	}
	for i := range prefs {
		sig.Categories[prefs[i].Category] = struct{}{}
	}
	for i := range behaviors {
		sig.BehaviorTypes[behaviors[i].BehaviorType] = struct{}{}
	}
	return sig
}

// Jaccard returns |a ∩ b| / |a ∪ b|, or 0 when both sets are empty.
func Jaccard[T comparable](a, b map[T]struct{}) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 0
	}
	small, large := a, b
	if len(small) > len(large) {
		small, large = large, small
	}
	inter := 0
	for k := range small {
		if _, ok := large[k]; ok {
			inter++
		}
	}
	union := len(a) + len(b) - inter
	return float64(inter) / float64(union)
}

// UserSimilarity blends preference-category overlap (0.7) with
// behavior-type overlap (0.3). Users without preferences are similar to
// nobody.
func UserSimilarity(a, b UserSignature) float64 {
	if len(a.Categories) == 0 || len(b.Categories) == 0 {
		return 0
	}
	return categorySimilarityWeight*Jaccard(a.Categories, b.Categories) +
		behaviorSimilarityWeight*Jaccard(a.BehaviorTypes, b.BehaviorTypes)
}
