// PriceWatch - Price Tracking and Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pricewatch

// Package personalization builds behavioral profiles of users and scores
// products against them.
package personalization

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/pricewatch/internal/cache"
	"github.com/tomtom215/pricewatch/internal/models"
)

const (
	sourceBonusWeight = 0.3
	priceBonusMax     = 0.2
	timeBonusWeight   = 0.1

	// FallbackScore is returned when the user's data cannot be loaded.
	FallbackScore = 0.3
)

// Store is the data the personalization service reads and writes.
type Store interface {
	GetUserBehaviors(ctx context.Context, userID int64) ([]models.UserBehavior, error)
	GetUserPreferences(ctx context.Context, userID int64) ([]models.UserPreference, error)
	SaveUserProfile(ctx context.Context, profile *models.UserProfile) error
	GetUserProfile(ctx context.Context, userID int64) (*models.UserProfile, error)
}

// Config tunes the service.
type Config struct {
	// CacheTTL bounds how long a computed profile is reused.
	CacheTTL time.Duration `koanf:"cache_ttl"`
}

// DefaultConfig returns production defaults.
func DefaultConfig() Config {
	return Config{CacheTTL: 10 * time.Minute}
}

// snapshot is what PersonalizedScore needs for one user.
type snapshot struct {
	prefs   []models.UserPreference
	profile *models.UserProfile
}

// Service computes profiles and personalized scores.
type Service struct {
	store  Store
	cache  *cache.Cache[int64, *snapshot]
	logger zerolog.Logger
	now    func() time.Time
}

// NewService creates a personalization service.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewService(cfg Config, store Store, logger zerolog.Logger) *Service {
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = DefaultConfig().CacheTTL
	}
	return &Service{
		store:  store,
		cache:  cache.New[int64, *snapshot]("profile", cfg.CacheTTL),
		logger: logger.With().Str("component", "personalization").Logger(),
		now:    time.Now,
	}
}

// Close releases the profile cache.
func (s *Service) Close() {
	s.cache.Close()
}

// Invalidate drops the cached profile of userID.
func (s *Service) Invalidate(userID int64) {
	s.cache.Delete(userID)
}

func (s *Service) load(ctx context.Context, userID int64) (*snapshot, error) {
	return s.cache.GetOrLoad(userID, func() (*snapshot, error) {
		behaviors, err := s.store.GetUserBehaviors(ctx, userID)
		if err != nil {
			return nil, fmt.Errorf("load behaviors: %w", err)
		}
		prefs, err := s.store.GetUserPreferences(ctx, userID)
		if err != nil {
			return nil, fmt.Errorf("load preferences: %w", err)
		}
		return &snapshot{prefs: prefs, profile: BuildProfile(userID, behaviors, s.now())}, nil
	})
}

// Profile returns the user's current profile, computed from the behavior
// log and cached.
func (s *Service) Profile(ctx context.Context, userID int64) (*models.UserProfile, error) {
	snap, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	return snap.profile, nil
}

// StoredProfile returns the last persisted profile snapshot.
func (s *Service) StoredProfile(ctx context.Context, userID int64) (*models.UserProfile, error) {
	return s.store.GetUserProfile(ctx, userID)
}

// UpdateUserProfile recomputes the profile from scratch and persists it.
func (s *Service) UpdateUserProfile(ctx context.Context, userID int64) (*models.UserProfile, error) {
	s.Invalidate(userID)
	profile, err := s.Profile(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := s.store.SaveUserProfile(ctx, profile); err != nil {
		return nil, fmt.Errorf("save profile: %w", err)
	}
	s.logger.Debug().Int64("user_id", userID).Msg("profile updated")
	return profile, nil
}

// PersonalizedScore scores product for userID in [0, 1]:
//
//	sum of preference weights matching the category
//	+ source share * 0.3
//	+ max(0, 0.2 - |price - avg| / range * 0.2), when range > 0
//	+ current day-part share * 0.1
//
// It returns FallbackScore when the user's data cannot be loaded.
func (s *Service) PersonalizedScore(ctx context.Context, userID int64, product *models.Product) float64 {
	snap, err := s.load(ctx, userID)
	if err != nil {
		s.logger.Warn().Err(err).Int64("user_id", userID).Int64("product_id", product.ID).
			Msg("personalized score unavailable, using fallback")
		return FallbackScore
	}
	return Score(product, snap.prefs, snap.profile, s.now())
}

// Score computes the personalized score from already loaded data.
func Score(product *models.Product, prefs []models.UserPreference, profile *models.UserProfile, now time.Time) float64 {
	var score float64

	if product.HasCategory() {
		for i := range prefs {
			if prefs[i].Category == product.Category {
				score += prefs[i].Weight
			}
		}
	}

	if product.Source != "" {
		score += profile.SourcePreferences[product.Source] * sourceBonusWeight
	}

	if pp := profile.PricePreferences; pp != nil && product.CurrentPrice != nil && pp.PriceRange > 0 {
		diff := math.Abs(*product.CurrentPrice-pp.AvgPrice) / pp.PriceRange
		score += math.Max(0, priceBonusMax-diff*priceBonusMax)
	}

	score += profile.TimePreferences[models.DayPartOf(now.UTC()).String()] * timeBonusWeight

	return math.Max(0, math.Min(1, score))
}
