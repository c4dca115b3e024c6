// Curator - Content Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/curator

package events

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"github.com/rs/zerolog"

	"github.com/tomtom215/curator/internal/cache"
	"github.com/tomtom215/curator/internal/interactions"
	"github.com/tomtom215/curator/internal/metrics"
)

// ProfileApplier applies one interaction to its identity's profile.
type ProfileApplier interface {
	ApplyInteraction(ctx context.Context, rec *interactions.Record) error
}

// RouterConfig tunes the event router.
type RouterConfig struct {
	CloseTimeout         time.Duration
	RetryMaxRetries      int
	RetryInitialInterval time.Duration
	RetryMaxInterval     time.Duration
	// DedupTTL is how long applied event ids are remembered.
	DedupTTL time.Duration
}

// DefaultRouterConfig returns production defaults.
func DefaultRouterConfig() RouterConfig {
	return RouterConfig{
		CloseTimeout:         10 * time.Second,
		RetryMaxRetries:      3,
		RetryInitialInterval: 100 * time.Millisecond,
		RetryMaxInterval:     5 * time.Second,
		DedupTTL:             10 * time.Minute,
	}
}

const profileHandlerName = "profile_updater"

// RouterStats counts handler outcomes.
type RouterStats struct {
	Received   int64 `json:"received"`
	Applied    int64 `json:"applied"`
	Duplicates int64 `json:"duplicates"`
	Invalid    int64 `json:"invalid"`
	Failed     int64 `json:"failed"`
}

// Router consumes interaction events and applies profile updates.
type Router struct {
	router  *message.Router
	applier ProfileApplier
	topic   string
	applied *cache.TTL[struct{}]
	logger  zerolog.Logger
	running atomic.Bool

	received   atomic.Int64
	okCount    atomic.Int64
	duplicates atomic.Int64
	invalid    atomic.Int64
	failed     atomic.Int64
}

// NewRouter wires the profile handler onto bus.
//
//nolint:gocritic // hugeParam: zerolog.Logger is designed to be passed by value
func NewRouter(bus *Bus, applier ProfileApplier, cfg RouterConfig, logger zerolog.Logger) (*Router, error) {
	if bus == nil || applier == nil {
		return nil, errors.New("event router requires a bus and a profile applier")
	}
	defaults := DefaultRouterConfig()
	if cfg.CloseTimeout <= 0 {
		cfg.CloseTimeout = defaults.CloseTimeout
	}
	if cfg.RetryMaxRetries < 0 {
		cfg.RetryMaxRetries = 0
	}
	if cfg.RetryInitialInterval <= 0 {
		cfg.RetryInitialInterval = defaults.RetryInitialInterval
	}
	if cfg.RetryMaxInterval <= 0 {
		cfg.RetryMaxInterval = defaults.RetryMaxInterval
	}
	if cfg.DedupTTL <= 0 {
		cfg.DedupTTL = defaults.DedupTTL
	}

	logger = logger.With().Str("component", "event_router").Logger()
	wlog := NewLoggerAdapter(logger)

	wr, err := message.NewRouter(message.RouterConfig{CloseTimeout: cfg.CloseTimeout}, wlog)
	if err != nil {
		return nil, fmt.Errorf("create watermill router: %w", err)
	}

	r := &Router{
		router:  wr,
		applier: applier,
		topic:   bus.Topic,
		applied: cache.New[struct{}](cfg.DedupTTL, 100_000),
		logger:  logger,
	}

	// First added runs outermost: exhausted errors are acknowledged, Retry
	// sees panics as errors once Recoverer has converted them.
	wr.AddMiddleware(
		r.ackExhausted,
		middleware.Retry{
			MaxRetries:      cfg.RetryMaxRetries,
			InitialInterval: cfg.RetryInitialInterval,
			MaxInterval:     cfg.RetryMaxInterval,
			Multiplier:      2.0,
			Logger:          wlog,
		}.Middleware,
		middleware.Recoverer,
	)

	wr.AddConsumerHandler(profileHandlerName, bus.Topic, bus.Subscriber, r.handle)
	return r, nil
}

// handle applies one event. Invalid payloads are acknowledged so they are
// not redelivered forever.
func (r *Router) handle(msg *message.Message) error {
	r.received.Add(1)

	event, err := DecodeInteractionEvent(msg.Payload)
	if err != nil {
		r.invalid.Add(1)
		metrics.RecordEventConsumed(r.topic, err)
		r.logger.Warn().Err(err).Str("message_id", msg.UUID).Msg("Dropping invalid interaction event")
		return nil
	}

	if _, seen := r.applied.Get(event.EventID); seen {
		r.duplicates.Add(1)
		return nil
	}

	if err := r.applier.ApplyInteraction(msg.Context(), &event.Record); err != nil {
		if errors.Is(err, interactions.ErrMissingIdentity) {
			r.invalid.Add(1)
			metrics.RecordEventConsumed(r.topic, err)
			return nil
		}
		return fmt.Errorf("apply interaction %s: %w", event.EventID, err)
	}

	r.applied.Set(event.EventID, struct{}{})
	r.okCount.Add(1)
	metrics.RecordEventConsumed(r.topic, nil)
	return nil
}

// ackExhausted logs and acknowledges a message once Retry gives up. A later
// full recompute repairs the profile.
func (r *Router) ackExhausted(h message.HandlerFunc) message.HandlerFunc {
	return func(msg *message.Message) ([]*message.Message, error) {
		out, err := h(msg)
		if err != nil {
			r.failed.Add(1)
			metrics.RecordEventConsumed(r.topic, err)
			r.logger.Error().Err(err).Str("message_id", msg.UUID).Msg("Interaction event failed after retries")
			return nil, nil
		}
		return out, nil
	}
}

// Run blocks until ctx is canceled or Close is called.
func (r *Router) Run(ctx context.Context) error {
	r.running.Store(true)
	defer r.running.Store(false)
	return r.router.Run(ctx)
}

// Running is closed once every handler is subscribed.
func (r *Router) Running() chan struct{} {
	return r.router.Running()
}

// IsRunning reports whether Run is active.
func (r *Router) IsRunning() bool {
	return r.running.Load()
}

// Close stops the router, waiting up to CloseTimeout for in-flight
// messages.
func (r *Router) Close() error {
	return r.router.Close()
}

// Stats returns handler counters.
func (r *Router) Stats() RouterStats {
	return RouterStats{
		Received:   r.received.Load(),
		Applied:    r.okCount.Load(),
		Duplicates: r.duplicates.Load(),
		Invalid:    r.invalid.Load(),
		Failed:     r.failed.Load(),
	}
}
