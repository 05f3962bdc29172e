// PriceWatch - Price Tracking and Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pricewatch

package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/tomtom215/pricewatch/internal/config"
	"github.com/tomtom215/pricewatch/internal/eventprocessor"
	"github.com/tomtom215/pricewatch/internal/logging"
)

// eventComponents holds the wired behavior event pipeline.
type eventComponents struct {
	PubSub    *eventprocessor.PubSub
	Publisher *eventprocessor.Publisher
	Router    *eventprocessor.Router
}

// Close stops publishing and releases the backend. The router is stopped by
// its supervisor service.
func (c *eventComponents) Close() {
	var errs []error
	if c.Publisher != nil {
		errs = append(errs, c.Publisher.Close())
	}
	if c.PubSub != nil {
		errs = append(errs, c.PubSub.Close())
	}
	if err := errors.Join(errs...); err != nil {
		logging.Warn().Err(err).Msg("Error closing event components")
	}
}

// eventsConfig maps the application events section onto the processor config.
func eventsConfig(cfg *config.EventsConfig) *eventprocessor.Config {
	ec := eventprocessor.DefaultConfig()
	if cfg.Backend != "" {
		ec.Backend = cfg.Backend
	}
	ec.NATSURL = cfg.NATSURL
	if cfg.BufferSize > 0 {
		ec.BufferSize = cfg.BufferSize
	}

	if cfg.RetryCount > 0 {
		ec.Router.RetryMaxRetries = cfg.RetryCount
	}
	if cfg.RetryInterval > 0 {
		ec.Router.RetryInitialInterval = cfg.RetryInterval
	}
	ec.Router.ThrottlePerSecond = cfg.ThrottlePerSecond
	if cfg.DeduplicationTTL > 0 {
		ec.Router.DeduplicationTTL = cfg.DeduplicationTTL
	}
	if cfg.CloseTimeout > 0 {
		ec.Router.CloseTimeout = cfg.CloseTimeout
	}

	if cfg.BreakerFailures > 0 {
		ec.CircuitBreaker.FailureThreshold = cfg.BreakerFailures
	}
	if cfg.BreakerTimeout > 0 {
		ec.CircuitBreaker.Timeout = cfg.BreakerTimeout
	}
	return &ec
}

// initEvents builds the pub/sub backend, the circuit-breaking publisher and
// the router with the behavior consumer registered.
func initEvents(
	ctx context.Context,
	cfg *config.EventsConfig,
	refresher eventprocessor.PreferenceRefresher,
	trends eventprocessor.ProductCache,
	profiles eventprocessor.ProfileCache,
) (*eventComponents, error) {
	ec := eventsConfig(cfg)
	if err := ec.Validate(); err != nil {
		return nil, err
	}

	wmLogger := logging.NewWatermillAdapter(logging.WithComponent("watermill"))

	ps, err := eventprocessor.NewPubSub(ctx, ec, wmLogger)
	if err != nil {
		return nil, fmt.Errorf("create %s pub/sub: %w", ec.Backend, err)
	}
	comps := &eventComponents{PubSub: ps}

	pub, err := eventprocessor.NewPublisher(ps.Publisher, eventprocessor.NewCircuitBreaker(ec.CircuitBreaker))
	if err != nil {
		comps.Close()
		return nil, err
	}
	comps.Publisher = pub

	router, err := eventprocessor.NewRouter(&ec.Router, wmLogger)
	if err != nil {
		comps.Close()
		return nil, fmt.Errorf("create router: %w", err)
	}
	comps.Router = router

	consumer := eventprocessor.NewConsumer(refresher, trends, profiles, logging.WithComponent("consumer"))
	consumer.Register(router, ps.Subscriber)

	logging.Info().
		Str("backend", ec.Backend).
		Int("handlers", router.HandlerCount()).
		Msg("Behavior event pipeline ready")
	return comps, nil
}
