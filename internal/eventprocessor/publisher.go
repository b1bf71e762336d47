// Curator - Product Recommendation and Similarity Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/curator

package eventprocessor

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/curator/internal/logging"
	"github.com/tomtom215/curator/internal/metrics"
	"github.com/tomtom215/curator/internal/models"
)

// Publisher sends curator events with circuit breaker protection.
// It satisfies recommend.EventPublisher.
type Publisher struct {
	publisher        message.Publisher
	circuitBreaker   *gobreaker.CircuitBreaker[any]
	interactionTopic string
	rebuildTopic     string

	mu     sync.RWMutex
	closed bool
}

// NewPublisher wraps pub. Empty topics fall back to the defaults.
func NewPublisher(pub message.Publisher, interactionTopic, rebuildTopic string) *Publisher {
	if interactionTopic == "" {
		interactionTopic = DefaultInteractionTopic
	}
	if rebuildTopic == "" {
		rebuildTopic = DefaultRebuildTopic
	}
	return &Publisher{
		publisher:        pub,
		interactionTopic: interactionTopic,
		rebuildTopic:     rebuildTopic,
	}
}

// SetCircuitBreaker configures the circuit breaker for publish operations.
func (p *Publisher) SetCircuitBreaker(cb *gobreaker.CircuitBreaker[any]) {
	p.circuitBreaker = cb
}

// Publish sends msg to topic through the circuit breaker.
func (p *Publisher) Publish(ctx context.Context, topic string, msg *message.Message) error {
	p.mu.RLock()
	closed := p.closed
	p.mu.RUnlock()
	if closed {
		return fmt.Errorf("publisher is closed")
	}

	if id := logging.CorrelationIDFromContext(ctx); id != "" && msg.Metadata.Get(MetadataCorrelationID) == "" {
		msg.Metadata.Set(MetadataCorrelationID, id)
	}

	var err error
	if p.circuitBreaker != nil {
		_, err = p.circuitBreaker.Execute(func() (any, error) {
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

// PublishInteraction announces a stored interaction.
func (p *Publisher) PublishInteraction(ctx context.Context, event *models.InteractionEvent) error {
	data, err := marshalPayload(NewInteractionMessage(event))
	if err != nil {
		return fmt.Errorf("serialize interaction: %w", err)
	}

	msg := message.NewMessage(event.ID, data)
	msg.Metadata.Set(MetadataUserID, event.UserID)
	msg.Metadata.Set(MetadataProductID, event.ProductID)
	msg.Metadata.Set(MetadataType, string(event.Type))

	return p.Publish(ctx, p.interactionTopic, msg)
}

// RequestRebuild publishes a similarity rebuild request and returns its id.
func (p *Publisher) RequestRebuild(ctx context.Context, reason string) (string, error) {
	req := &RebuildRequest{
		RequestID:   uuid.New().String(),
		Reason:      reason,
		RequestedAt: time.Now().UTC(),
	}
	data, err := marshalPayload(req)
	if err != nil {
		return "", fmt.Errorf("serialize rebuild request: %w", err)
	}

	msg := message.NewMessage(req.RequestID, data)
	if reason != "" {
		msg.Metadata.Set(MetadataReason, reason)
	}

	if err := p.Publish(ctx, p.rebuildTopic, msg); err != nil {
		return "", err
	}
	return req.RequestID, nil
}

// Close marks the publisher closed. The underlying transport is owned and
// closed by Transport.
func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	return nil
}
