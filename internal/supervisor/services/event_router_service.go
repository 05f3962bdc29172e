// PriceWatch - Price Tracking and Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pricewatch

package services

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/thejerf/suture/v4"
)

// EventRouter is satisfied by *eventprocessor.Router.
type EventRouter interface {
	Run(ctx context.Context) error
	IsRunning() bool
}

// EventRouterService runs the behavior event router under supervision.
//
// A watermill router cannot be started twice, so a router that stops on its
// own is not restarted: Serve returns suture.ErrDoNotRestart and the failure
// is logged. Cancellation of ctx closes the router and returns ctx.Err().
type EventRouterService struct {
	router EventRouter
	logger zerolog.Logger
	name   string
}

// NewEventRouterService wraps router.
//
//nolint:gocritic // zerolog.Logger is passed by value
func NewEventRouterService(router EventRouter, logger zerolog.Logger) *EventRouterService {
	return &EventRouterService{
		router: router,
		logger: logger.With().Str("service", "event-router").Logger(),
		name:   "event-router",
	}
}

// Serve implements suture.Service.
func (s *EventRouterService) Serve(ctx context.Context) error {
	s.logger.Info().Msg("event router starting")

	err := s.router.Run(ctx)
	if ctx.Err() != nil {
		s.logger.Info().Msg("event router stopped")
		return ctx.Err()
	}

	if err != nil {
		s.logger.Error().Err(err).Msg("event router failed")
	} else {
		s.logger.Warn().Msg("event router stopped unexpectedly")
	}
	return suture.ErrDoNotRestart
}

// String identifies the service in supervisor logs.
func (s *EventRouterService) String() string {
	return s.name
}
