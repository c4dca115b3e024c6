// Curator - Content Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/curator

package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
)

var errRouterStopped = errors.New("event router stopped unexpectedly")

// RouterRunner is satisfied by *events.Router.
type RouterRunner interface {
	Run(ctx context.Context) error
	Close() error
	IsRunning() bool
}

// RouterFactory builds a fresh router. A watermill router cannot be run
// again after it stops, so every restart needs a new one.
type RouterFactory func() (RouterRunner, error)

// EventRouterService supervises the interaction event consumer.
type EventRouterService struct {
	factory RouterFactory
	logger  zerolog.Logger

	mu      sync.Mutex
	current RouterRunner
}

// NewEventRouterService creates the service.
//
//nolint:gocritic // hugeParam: zerolog.Logger is designed to be passed by value
func NewEventRouterService(factory RouterFactory, logger zerolog.Logger) *EventRouterService {
	return &EventRouterService{
		factory: factory,
		logger:  logger.With().Str("service", "event-router").Logger(),
	}
}

// Serve implements suture.Service. The router closes itself when ctx is
// canceled.
func (s *EventRouterService) Serve(ctx context.Context) error {
	router, err := s.factory()
	if err != nil {
		return fmt.Errorf("create event router: %w", err)
	}

	s.mu.Lock()
	s.current = router
	s.mu.Unlock()

	s.logger.Info().Msg("Event router starting")
	runErr := router.Run(ctx)

	if ctx.Err() != nil {
		s.logger.Info().Msg("Event router stopped")
		return ctx.Err()
	}
	if closeErr := router.Close(); closeErr != nil {
		s.logger.Warn().Err(closeErr).Msg("Event router close failed")
	}
	if runErr != nil {
		return fmt.Errorf("event router: %w", runErr)
	}
	return errRouterStopped
}

// IsRunning reports whether the current router is consuming.
func (s *EventRouterService) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current != nil && s.current.IsRunning()
}

// Ready returns an error unless the router is consuming; it plugs into
// the readiness endpoint.
func (s *EventRouterService) Ready(context.Context) error {
	if !s.IsRunning() {
		return errors.New("event router not running")
	}
	return nil
}

// String implements fmt.Stringer for suture's event log.
func (s *EventRouterService) String() string {
	return "event-router"
}
