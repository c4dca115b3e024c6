// Curator - Content Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/curator

package events

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	natsgo "github.com/nats-io/nats.go"
	"github.com/rs/zerolog"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/curator/internal/interactions"
	"github.com/tomtom215/curator/internal/metrics"
)

// ErrPublisherClosed is returned after Close.
var ErrPublisherClosed = errors.New("publisher is closed")

const publisherBreakerName = "event_publisher"

// Publisher publishes interaction events behind a circuit breaker. It
// implements interactions.Listener.
type Publisher struct {
	publisher message.Publisher
	topic     string
	breaker   *gobreaker.CircuitBreaker[interface{}]
	now       func() time.Time
	logger    zerolog.Logger

	mu     sync.RWMutex
	closed bool
}

var _ interactions.Listener = (*Publisher)(nil)

// NewPublisher wraps pub. The breaker opens after five consecutive
// failures and probes again after openTimeout.
//
//nolint:gocritic // hugeParam: zerolog.Logger is designed to be passed by value
func NewPublisher(pub message.Publisher, topic string, openTimeout time.Duration, logger zerolog.Logger) *Publisher {
	if openTimeout <= 0 {
		openTimeout = 30 * time.Second
	}
	logger = logger.With().Str("component", "event_publisher").Logger()

	settings := gobreaker.Settings{
		Name:        publisherBreakerName,
		MaxRequests: 1,
		Timeout:     openTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			metrics.SetCircuitBreakerState(name, int(to))
			logger.Warn().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("publisher circuit breaker changed state")
		},
	}
	metrics.SetCircuitBreakerState(publisherBreakerName, int(gobreaker.StateClosed))

	return &Publisher{
		publisher: pub,
		topic:     topicOrDefault(topic),
		breaker:   gobreaker.NewCircuitBreaker[interface{}](settings),
		now:       time.Now,
		logger:    logger,
	}
}

// InteractionRecorded publishes rec as an interaction.recorded event.
func (p *Publisher) InteractionRecorded(ctx context.Context, rec interactions.Record) error {
	return p.PublishEvent(ctx, NewInteractionEvent(&rec, p.now()))
}

// PublishEvent encodes and publishes e.
func (p *Publisher) PublishEvent(ctx context.Context, e *InteractionEvent) error {
	data, err := e.Encode()
	if err != nil {
		return err
	}
	msg := message.NewMessage(e.EventID, data)
	msg.Metadata.Set("identity", e.Record.Identity.Key())
	msg.Metadata.Set("kind", string(e.Record.Kind))
	msg.SetContext(ctx)
	return p.Publish(msg)
}

// Publish sends msg to the event topic. The message UUID doubles as the
// Nats-Msg-Id dedup header.
func (p *Publisher) Publish(msg *message.Message) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return ErrPublisherClosed
	}

	if msg.Metadata.Get(natsgo.MsgIdHdr) == "" {
		msg.Metadata.Set(natsgo.MsgIdHdr, msg.UUID)
	}

	_, err := p.breaker.Execute(func() (interface{}, error) {
		return nil, p.publisher.Publish(p.topic, msg)
	})
	metrics.RecordEventPublished(p.topic, err)
	if err != nil {
		p.logger.Warn().Err(err).Str("event_id", msg.UUID).Msg("Failed to publish interaction event")
	}
	return err
}

// BreakerState returns the publisher breaker state.
func (p *Publisher) BreakerState() gobreaker.State {
	return p.breaker.State()
}

// Close marks the publisher closed. The underlying transport is owned by
// the Bus.
func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	return nil
}
