// PriceWatch - Price Tracking and Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pricewatch

package validation

// UserPathParams is the {userID} segment shared by user-scoped routes.
type UserPathParams struct {
	UserID int64 `query:"user_id" validate:"gt=0"`
}

// TrackBehaviorRequest is the body of POST /users/{userID}/behaviors.
type TrackBehaviorRequest struct {
	ProductID int64  `json:"product_id" validate:"required,gt=0"`
	Type      string `json:"type" validate:"required,behavior_type"`
}

// GenerateRequest holds the parameters of a generation call.
type GenerateRequest struct {
	UserID int64 `query:"user_id" validate:"gt=0"`
	Limit  int   `query:"limit" validate:"min=0,max=100"`
}

// RecommendationsQuery holds the filters of GET /users/{userID}/recommendations.
// At most one of Algorithm, Categories and Unviewed selects the query.
type RecommendationsQuery struct {
	UserID     int64    `query:"user_id" validate:"gt=0"`
	Limit      int      `query:"limit" validate:"min=0,max=100"`
	Algorithm  string   `query:"algorithm" validate:"omitempty,algorithm"`
	Categories []string `query:"categories" validate:"max=20,dive,min=1,max=64"`
	Unviewed   bool     `query:"unviewed"`
}

// RecommendationIDParams is the {id} segment of recommendation routes.
type RecommendationIDParams struct {
	ID int64 `query:"id" validate:"gt=0"`
}
