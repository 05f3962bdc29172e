// PriceWatch - Price Tracking and Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pricewatch

package services

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/tomtom215/pricewatch/internal/config"
	"github.com/tomtom215/pricewatch/internal/metrics"
	"github.com/tomtom215/pricewatch/internal/models"
)

// ActiveUserSource lists users with recent behavior.
type ActiveUserSource interface {
	GetActiveUserIDs(ctx context.Context, since time.Time, limit int) ([]int64, error)
}

// PreferenceUpdater recomputes category preferences.
type PreferenceUpdater interface {
	UpdateUserPreferences(ctx context.Context, userID int64) ([]models.UserPreference, error)
}

// ProfileUpdater persists a personalization profile snapshot.
type ProfileUpdater interface {
	UpdateUserProfile(ctx context.Context, userID int64) (*models.UserProfile, error)
}

// PreferenceRefreshService periodically recomputes preferences and profile
// snapshots for users active since the previous run. Users are processed
// at most RatePerSecond per second and at most BatchSize per run.
type PreferenceRefreshService struct {
	users    ActiveUserSource
	prefs    PreferenceUpdater
	profiles ProfileUpdater
	config   config.RefreshConfig
	limiter  *rate.Limiter
	logger   zerolog.Logger
	now      func() time.Time
	name     string

	lastRun time.Time
}

// RefreshResult summarizes one refresh run.
type RefreshResult struct {
	Users  int
	Failed int
}

// NewPreferenceRefreshService creates the service. Zero config fields fall
// back to a 1h interval, 500 users per run and 10 users per second.
//
//nolint:gocritic // zerolog.Logger is passed by value
func NewPreferenceRefreshService(users ActiveUserSource, prefs PreferenceUpdater, profiles ProfileUpdater, cfg config.RefreshConfig, logger zerolog.Logger) *PreferenceRefreshService {
	if cfg.Interval <= 0 {
		cfg.Interval = time.Hour
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 500
	}
	if cfg.RatePerSecond <= 0 {
		cfg.RatePerSecond = 10
	}
	return &PreferenceRefreshService{
		users:    users,
		prefs:    prefs,
		profiles: profiles,
		config:   cfg,
		limiter:  rate.NewLimiter(rate.Limit(cfg.RatePerSecond), 1),
		logger:   logger.With().Str("service", "preference-refresh").Logger(),
		now:      time.Now,
		name:     "preference-refresh",
	}
}

// Serve implements suture.Service. The first run covers the interval before
// startup.
func (s *PreferenceRefreshService) Serve(ctx context.Context) error {
	if s.lastRun.IsZero() {
		s.lastRun = s.now().Add(-s.config.Interval)
	}

	s.logger.Info().
		Dur("interval", s.config.Interval).
		Int("batch_size", s.config.BatchSize).
		Float64("rate_per_second", s.config.RatePerSecond).
		Msg("preference refresh service starting")

	ticker := time.NewTicker(s.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Msg("preference refresh service shutting down")
			return ctx.Err()
		case <-ticker.C:
			if _, err := s.RunOnce(ctx); err != nil && ctx.Err() == nil {
				s.logger.Warn().Err(err).Msg("scheduled preference refresh failed")
			}
		}
	}
}

// RunOnce refreshes every user active since the previous run. A failure for
// one user is logged and does not stop the batch; the window only advances
// once the user list has been read.
func (s *PreferenceRefreshService) RunOnce(ctx context.Context) (RefreshResult, error) {
	var result RefreshResult
	start := s.now()
	if s.lastRun.IsZero() {
		s.lastRun = start.Add(-s.config.Interval)
	}

	ids, err := s.users.GetActiveUserIDs(ctx, s.lastRun, s.config.BatchSize)
	if err != nil {
		return result, fmt.Errorf("list active users: %w", err)
	}
	s.lastRun = start

	for _, id := range ids {
		if err := s.limiter.Wait(ctx); err != nil {
			return result, err
		}
		result.Users++

		err := s.refreshUser(ctx, id)
		metrics.RecordPreferenceRefresh("scheduled", err)
		if err != nil {
			result.Failed++
			s.logger.Warn().Err(err).Int64("user_id", id).Msg("preference refresh failed")
		}
	}

	s.logger.Info().
		Int("users", result.Users).
		Int("failed", result.Failed).
		Dur("duration", s.now().Sub(start)).
		Msg("preference refresh complete")
	return result, nil
}

func (s *PreferenceRefreshService) refreshUser(ctx context.Context, userID int64) error {
	if _, err := s.prefs.UpdateUserPreferences(ctx, userID); err != nil {
		return err
	}
	if _, err := s.profiles.UpdateUserProfile(ctx, userID); err != nil {
		return fmt.Errorf("update profile: %w", err)
	}
	return nil
}

// String identifies the service in supervisor logs.
func (s *PreferenceRefreshService) String() string {
	return s.name
}
