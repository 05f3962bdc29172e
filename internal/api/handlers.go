// PriceWatch - Price Tracking and Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pricewatch

package api

import (
	"context"
	"time"

	"github.com/tomtom215/pricewatch/internal/models"
)

// Recommender is the recommendation engine surface used by the handlers.
type Recommender interface {
	Generate(ctx context.Context, userID int64, limit int) []models.RecommendationDTO
	GetUserRecommendations(ctx context.Context, userID int64, limit int) ([]models.RecommendationDTO, error)
	GetRecommendationsByAlgorithm(ctx context.Context, userID int64, algorithm models.Algorithm) ([]models.RecommendationDTO, error)
	GetRecommendationsByCategories(ctx context.Context, userID int64, categories []string) ([]models.RecommendationDTO, error)
	GetUnviewedRecommendations(ctx context.Context, userID int64) ([]models.RecommendationDTO, error)
	Stats(ctx context.Context, userID int64) (*models.RecommendationStats, error)
	MarkViewed(ctx context.Context, id int64) (*models.Recommendation, error)
	UpdateUserPreferences(ctx context.Context, userID int64) ([]models.UserPreference, error)
}

// BehaviorTracker records user behaviors.
type BehaviorTracker interface {
	Track(ctx context.Context, userID, productID int64, t models.BehaviorType) (*models.UserBehavior, error)
	Counts(ctx context.Context, userID int64) (map[string]int64, error)
}

// Profiler builds and persists personalization profiles.
type Profiler interface {
	Profile(ctx context.Context, userID int64) (*models.UserProfile, error)
	UpdateUserProfile(ctx context.Context, userID int64) (*models.UserProfile, error)
}

// TrendReporter lists trending products.
type TrendReporter interface {
	Trending(ctx context.Context) (*models.TrendingProducts, error)
}

// Store is the direct database access the handlers need.
type Store interface {
	Ping(ctx context.Context) error
	GetUserPreferences(ctx context.Context, userID int64) ([]models.UserPreference, error)
}

// EventsStatus reports whether the behavior event router is running.
type EventsStatus interface {
	IsRunning() bool
}

// Handler contains dependencies for API handlers.
//
// Handler methods are split across files:
//   - handlers_health.go: health
//   - handlers_recommend.go: generation, queries, stats, mark viewed
//   - handlers_users.go: preferences, profiles, behaviors
//   - handlers_trend.go: trending products
type Handler struct {
	engine    Recommender
	tracker   BehaviorTracker
	profiles  Profiler
	trends    TrendReporter
	store     Store
	events    EventsStatus
	version   string
	startTime time.Time
}

// Deps groups the services a Handler is built from. Events may be nil when
// the event router is not running in this process.
type Deps struct {
	Engine   Recommender
	Tracker  BehaviorTracker
	Profiles Profiler
	Trends   TrendReporter
	Store    Store
	Events   EventsStatus
	Version  string
}

// NewHandler creates a Handler from deps.
func NewHandler(deps Deps) *Handler {
	version := deps.Version
	if version == "" {
		version = "dev"
	}
	return &Handler{
		engine:    deps.Engine,
		tracker:   deps.Tracker,
		profiles:  deps.Profiles,
		trends:    deps.Trends,
		store:     deps.Store,
		events:    deps.Events,
		version:   version,
		startTime: time.Now(),
	}
}
