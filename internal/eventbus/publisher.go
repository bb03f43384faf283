// FAQRec - FAQ Recommendation and Experimentation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/faqrec

package eventbus

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/goccy/go-json"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/faqrec/internal/logging"
	"github.com/tomtom215/faqrec/internal/metrics"
)

// ErrClosed is returned when publishing on a closed publisher.
var ErrClosed = errors.New("publisher is closed")

// Config configures the event bus.
type Config struct {
	// TopicPrefix is prepended to every topic. Default: "faqrec."
	TopicPrefix string

	// BufferSize is the per-subscriber output buffer of the in-process transport.
	BufferSize int64

	CircuitBreaker CircuitBreakerConfig
}

// DefaultConfig returns the default event bus configuration.
func DefaultConfig() Config {
	return Config{
		TopicPrefix:    "faqrec.",
		BufferSize:     256,
		CircuitBreaker: DefaultCircuitBreakerConfig(),
	}
}

// Publisher publishes experiment events through a Watermill publisher
// guarded by a circuit breaker.
type Publisher struct {
	publisher      message.Publisher
	subscriber     message.Subscriber
	circuitBreaker *gobreaker.CircuitBreaker[interface{}]
	mu             sync.RWMutex
	closed         bool
	logger         watermill.LoggerAdapter
	prefix         string
}

// New creates a publisher on an in-process gochannel transport. The same
// transport backs Subscribe.
func New(cfg Config, logger watermill.LoggerAdapter) *Publisher {
	if logger == nil {
		logger = watermill.NopLogger{}
	}
	pubsub := gochannel.NewGoChannel(gochannel.Config{
		OutputChannelBuffer: cfg.BufferSize,
		Persistent:          false,
	}, logger)

	return NewWithTransport(pubsub, pubsub, cfg, logger)
}

// NewWithTransport creates a publisher on an existing Watermill transport.
// sub may be nil when the caller never subscribes.
func NewWithTransport(pub message.Publisher, sub message.Subscriber, cfg Config, logger watermill.LoggerAdapter) *Publisher {
	if logger == nil {
		logger = watermill.NopLogger{}
	}
	if cfg.TopicPrefix == "" {
		cfg.TopicPrefix = DefaultConfig().TopicPrefix
	}
	if cfg.CircuitBreaker.Name == "" {
		cfg.CircuitBreaker = DefaultCircuitBreakerConfig()
	}

	return &Publisher{
		publisher:      pub,
		subscriber:     sub,
		circuitBreaker: NewCircuitBreaker(cfg.CircuitBreaker),
		logger:         logger,
		prefix:         cfg.TopicPrefix,
	}
}

// ExposureTopic returns the topic exposure events are published on.
func (p *Publisher) ExposureTopic() string {
	return p.prefix + exposureSuffix
}

// ClickTopic returns the topic click events are published on.
func (p *Publisher) ClickTopic() string {
	return p.prefix + clickSuffix
}

// Publish sends a message to topic with circuit breaker protection.
func (p *Publisher) Publish(ctx context.Context, topic string, msg *message.Message) error {
	p.mu.RLock()
	if p.closed {
		p.mu.RUnlock()
		return ErrClosed
	}
	p.mu.RUnlock()

	msg.SetContext(ctx)
	if id := logging.CorrelationIDFromContext(ctx); id != "" && msg.Metadata.Get("correlation_id") == "" {
		msg.Metadata.Set("correlation_id", id)
	}

	_, err := p.circuitBreaker.Execute(func() (interface{}, error) {
		return nil, p.publisher.Publish(topic, msg)
	})

	metrics.RecordEventPublish(topic, err)
	if err != nil {
		p.logger.Error("event publish failed", err, watermill.LogFields{
			"topic":      topic,
			"message_id": msg.UUID,
		})
	}
	return err
}

// PublishExposure serializes and publishes an exposure event.
func (p *Publisher) PublishExposure(ctx context.Context, event *ExposureEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("serialize exposure event: %w", err)
	}

	msg := message.NewMessage(event.EventID, data)
	msg.Metadata.Set("experiment_id", event.ExperimentID)
	msg.Metadata.Set("variant_id", event.VariantID)

	return p.Publish(ctx, p.ExposureTopic(), msg)
}

// PublishClick serializes and publishes a click event.
func (p *Publisher) PublishClick(ctx context.Context, event *ClickEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("serialize click event: %w", err)
	}

	msg := message.NewMessage(event.EventID, data)
	msg.Metadata.Set("experiment_id", event.ExperimentID)
	msg.Metadata.Set("variant_id", event.VariantID)

	return p.Publish(ctx, p.ClickTopic(), msg)
}

// Subscribe returns the message stream for topic. The stream closes when
// ctx is cancelled or the publisher is closed.
func (p *Publisher) Subscribe(ctx context.Context, topic string) (<-chan *message.Message, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return nil, ErrClosed
	}
	if p.subscriber == nil {
		return nil, fmt.Errorf("subscribe %s: no subscriber configured", topic)
	}
	return p.subscriber.Subscribe(ctx, topic)
}

// BreakerState returns the circuit breaker state for monitoring.
func (p *Publisher) BreakerState() string {
	return p.circuitBreaker.State().String()
}

// Close shuts down the transport. It is safe to call more than once.
func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil
	}
	p.closed = true

	err := p.publisher.Close()
	if p.subscriber != nil && any(p.subscriber) != any(p.publisher) {
		err = errors.Join(err, p.subscriber.Close())
	}
	return err
}
