// PriceWatch - Price Tracking and Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pricewatch

package eventprocessor

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

// PubSub bundles both sides of the configured backend.
type PubSub struct {
	Publisher  message.Publisher
	Subscriber message.Subscriber

	closers []io.Closer
}

// NewPubSub creates the backend selected by cfg.Backend.
func NewPubSub(ctx context.Context, cfg *Config, logger watermill.LoggerAdapter) (*PubSub, error) {
	if logger == nil {
		logger = watermill.NopLogger{}
	}

	switch cfg.Backend {
	case BackendMemory:
		gc := gochannel.NewGoChannel(gochannel.Config{
			OutputChannelBuffer: cfg.BufferSize,
		}, logger)
		return &PubSub{Publisher: gc, Subscriber: gc, closers: []io.Closer{gc}}, nil
	case BackendNATS:
		return newNATSPubSub(ctx, cfg, logger)
	default:
		return nil, fmt.Errorf("%w: unknown backend %q", ErrInvalidConfig, cfg.Backend)
	}
}

// Close shuts down every underlying publisher and subscriber once.
func (p *PubSub) Close() error {
	var errs []error
	for _, c := range p.closers {
		if err := c.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	p.closers = nil
	return errors.Join(errs...)
}
