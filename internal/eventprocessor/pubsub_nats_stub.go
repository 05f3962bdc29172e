// PriceWatch - Price Tracking and Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pricewatch

//go:build !nats

package eventprocessor

import (
	"context"

	"github.com/ThreeDotsLabs/watermill"
)

func newNATSPubSub(_ context.Context, _ *Config, _ watermill.LoggerAdapter) (*PubSub, error) {
	return nil, ErrNATSNotEnabled
}
