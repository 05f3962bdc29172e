// PriceWatch - Price Tracking and Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pricewatch

package eventprocessor

import (
	"fmt"
	"time"
)

// Supported pub/sub backends.
const (
	// BackendMemory is the in-process Go channel pub/sub.
	BackendMemory = "memory"
	// BackendNATS is NATS JetStream (requires the nats build tag).
	BackendNATS = "nats"
)

// Config holds event bus configuration.
type Config struct {
	// Backend selects the pub/sub implementation: "memory" or "nats".
	Backend string

	// NATSURL is the broker address used by the nats backend.
	NATSURL string

	// BufferSize is the per-subscriber output buffer of the memory backend.
	BufferSize int64

	// MaxReconnects and ReconnectWait tune the NATS client (-1 = forever).
	MaxReconnects int
	ReconnectWait time.Duration

	// StreamName is the JetStream stream that holds behavior subjects.
	StreamName string

	// DurableName is the JetStream durable consumer prefix.
	DurableName string

	Router         RouterConfig
	CircuitBreaker CircuitBreakerConfig
}

// RouterConfig holds configuration for the Watermill Router.
type RouterConfig struct {
	// CloseTimeout is how long to wait for handlers to finish when closing.
	CloseTimeout time.Duration

	// Retry configuration
	RetryMaxRetries      int
	RetryInitialInterval time.Duration
	RetryMaxInterval     time.Duration
	RetryMultiplier      float64

	// ThrottlePerSecond limits handled messages per second (0 = disabled).
	ThrottlePerSecond int64

	// Deduplication drops redelivered messages with an already-seen event ID.
	DeduplicationEnabled bool
	DeduplicationTTL     time.Duration
}

// CircuitBreakerConfig configures the breaker around publishing.
type CircuitBreakerConfig struct {
	Name             string
	MaxRequests      uint32
	Interval         time.Duration
	Timeout          time.Duration
	FailureThreshold uint32
}

// DefaultConfig returns defaults for an in-process event bus.
func DefaultConfig() Config {
	return Config{
		Backend:       BackendMemory,
		NATSURL:       "nats://127.0.0.1:4222",
		BufferSize:    1024,
		MaxReconnects: -1,
		ReconnectWait: 2 * time.Second,
		StreamName:    "BEHAVIORS",
		DurableName:   "pricewatch",
		Router:        DefaultRouterConfig(),
		CircuitBreaker: CircuitBreakerConfig{
			Name:             "event-publisher",
			MaxRequests:      3,
			Interval:         time.Minute,
			Timeout:          30 * time.Second,
			FailureThreshold: 5,
		},
	}
}

// DefaultRouterConfig returns production defaults for the Router.
func DefaultRouterConfig() RouterConfig {
	return RouterConfig{
		CloseTimeout:         30 * time.Second,
		RetryMaxRetries:      3,
		RetryInitialInterval: 100 * time.Millisecond,
		RetryMaxInterval:     5 * time.Second,
		RetryMultiplier:      2.0,
		ThrottlePerSecond:    0,
		DeduplicationEnabled: true,
		DeduplicationTTL:     5 * time.Minute,
	}
}

// Validate checks the configuration for consistency.
func (c *Config) Validate() error {
	switch c.Backend {
	case BackendMemory:
		if c.BufferSize < 0 {
			return fmt.Errorf("%w: buffer size must be non-negative", ErrInvalidConfig)
		}
	case BackendNATS:
		if c.NATSURL == "" {
			return fmt.Errorf("%w: NATS URL is required for the nats backend", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown backend %q", ErrInvalidConfig, c.Backend)
	}
	if c.Router.RetryMaxRetries < 0 {
		return fmt.Errorf("%w: retry count must be non-negative", ErrInvalidConfig)
	}
	if c.CircuitBreaker.FailureThreshold == 0 {
		return fmt.Errorf("%w: circuit breaker failure threshold must be positive", ErrInvalidConfig)
	}
	return nil
}
