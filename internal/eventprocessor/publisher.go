// PriceWatch - Price Tracking and Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pricewatch

package eventprocessor

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	"github.com/ThreeDotsLabs/watermill/message"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/pricewatch/internal/logging"
	"github.com/tomtom215/pricewatch/internal/metrics"
	"github.com/tomtom215/pricewatch/internal/models"
)

// Metadata keys set on every behavior message.
const (
	MetadataEventID       = "event_id"
	MetadataUserID        = "user_id"
	MetadataCorrelationID = "correlation_id"
)

// Publisher wraps a Watermill publisher with a circuit breaker.
type Publisher struct {
	publisher      message.Publisher
	circuitBreaker *gobreaker.CircuitBreaker[interface{}]
	mu             sync.RWMutex
	closed         bool
}

// NewPublisher wraps pub. cb may be nil to publish without a breaker.
func NewPublisher(pub message.Publisher, cb *gobreaker.CircuitBreaker[interface{}]) (*Publisher, error) {
	if pub == nil {
		return nil, ErrNilPublisher
	}
	return &Publisher{publisher: pub, circuitBreaker: cb}, nil
}

// Publish sends msg to topic with circuit breaker protection.
func (p *Publisher) Publish(ctx context.Context, topic string, msg *message.Message) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return ErrPublisherClosed
	}

	msg.SetContext(ctx)

	var err error
	if p.circuitBreaker != nil {
		_, err = p.circuitBreaker.Execute(func() (interface{}, error) {
			return nil, p.publisher.Publish(topic, msg)
		})
	} else {
		err = p.publisher.Publish(topic, msg)
	}

	metrics.RecordPublish(topic, err)
	if err != nil {
		return fmt.Errorf("publish to %s: %w", topic, err)
	}
	return nil
}

// PublishEvent serializes and publishes a behavior event.
func (p *Publisher) PublishEvent(ctx context.Context, event *BehaviorEvent) error {
	data, err := SerializeEvent(event)
	if err != nil {
		return fmt.Errorf("serialize event: %w", err)
	}

	msg := message.NewMessage(event.EventID, data)
	msg.Metadata.Set(MetadataEventID, event.EventID)
	msg.Metadata.Set(MetadataUserID, strconv.FormatInt(event.UserID, 10))
	if id := logging.CorrelationIDFromContext(ctx); id != "" {
		msg.Metadata.Set(MetadataCorrelationID, id)
	}

	return p.Publish(ctx, event.Topic(), msg)
}

// PublishBehavior publishes a recorded behavior on behavior.<type>.
func (p *Publisher) PublishBehavior(ctx context.Context, b *models.UserBehavior) error {
	return p.PublishEvent(ctx, NewBehaviorEvent(b))
}

// Close marks the publisher closed. The underlying backend is owned by the
// PubSub that created it.
func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	return nil
}
