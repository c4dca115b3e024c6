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
	"time"

	"github.com/rs/zerolog"
)

// ErrNATSServerDown is returned when the embedded server stops on its own.
var ErrNATSServerDown = errors.New("embedded NATS server is not running")

// NATSServer is satisfied by *events.EmbeddedServer.
type NATSServer interface {
	IsRunning() bool
	Shutdown(ctx context.Context) error
}

// NATSStarter starts a fresh embedded server after a crash.
type NATSStarter func() (NATSServer, error)

// EmbeddedNATSService supervises the in-process NATS server. The server is
// started before the tree so publishers can connect during wiring; the
// service watches its health, restarts it through the starter when it dies
// and shuts it down when the tree stops.
type EmbeddedNATSService struct {
	mu              sync.Mutex
	server          NATSServer
	start           NATSStarter
	checkInterval   time.Duration
	shutdownTimeout time.Duration
	logger          zerolog.Logger
}

// NewEmbeddedNATSService wraps a running server. start may be nil, in which
// case a dead server is reported but not replaced.
//
//nolint:gocritic // hugeParam: zerolog.Logger is designed to be passed by value
func NewEmbeddedNATSService(server NATSServer, start NATSStarter, checkInterval, shutdownTimeout time.Duration, logger zerolog.Logger) *EmbeddedNATSService {
	if checkInterval <= 0 {
		checkInterval = 5 * time.Second
	}
	if shutdownTimeout <= 0 {
		shutdownTimeout = 10 * time.Second
	}
	return &EmbeddedNATSService{
		server:          server,
		start:           start,
		checkInterval:   checkInterval,
		shutdownTimeout: shutdownTimeout,
		logger:          logger.With().Str("service", "nats-server").Logger(),
	}
}

// Serve implements suture.Service.
func (s *EmbeddedNATSService) Serve(ctx context.Context) error {
	server, err := s.ensureRunning()
	if err != nil {
		return err
	}

	ticker := time.NewTicker(s.checkInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
			defer cancel()
			if err := server.Shutdown(shutdownCtx); err != nil {
				s.logger.Warn().Err(err).Msg("Embedded NATS server shutdown incomplete")
			}
			s.mu.Lock()
			s.server = nil
			s.mu.Unlock()
			return ctx.Err()

		case <-ticker.C:
			if !server.IsRunning() {
				s.logger.Error().Msg("Embedded NATS server stopped")
				return ErrNATSServerDown
			}
		}
	}
}

// ensureRunning returns the current server, replacing a dead one.
func (s *EmbeddedNATSService) ensureRunning() (NATSServer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.server != nil && s.server.IsRunning() {
		return s.server, nil
	}
	if s.start == nil {
		return nil, ErrNATSServerDown
	}

	server, err := s.start()
	if err != nil {
		return nil, fmt.Errorf("restart embedded NATS server: %w", err)
	}
	s.logger.Info().Msg("Embedded NATS server started")
	s.server = server
	return server, nil
}

// IsRunning reports whether the supervised server is up.
func (s *EmbeddedNATSService) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.server != nil && s.server.IsRunning()
}

// String implements fmt.Stringer for suture's event log.
func (s *EmbeddedNATSService) String() string {
	return "nats-server"
}
