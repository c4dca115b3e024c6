// Curator - Content Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/curator

package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/curator/internal/config"
	"github.com/tomtom215/curator/internal/events"
	"github.com/tomtom215/curator/internal/interactions"
	"github.com/tomtom215/curator/internal/profile"
	"github.com/tomtom215/curator/internal/supervisor"
	"github.com/tomtom215/curator/internal/supervisor/services"
)

const (
	natsReadyTimeout      = 30 * time.Second
	natsHealthInterval    = 5 * time.Second
	publisherOpenTimeout  = 30 * time.Second
	eventsShutdownTimeout = 10 * time.Second
)

// EventComponents holds the interaction event pipeline. Every field is nil
// in synchronous mode.
type EventComponents struct {
	Server    *events.EmbeddedServer
	Bus       *events.Bus
	Publisher *events.Publisher
	Router    *services.EventRouterService
}

// initEvents connects the interaction log to the profile store. In
// synchronous mode the log applies profile updates inline; otherwise it
// publishes to the bus and a supervised router applies them.
//
//nolint:gocritic // hugeParam: zerolog.Logger is designed to be passed by value
func initEvents(ctx context.Context, cfg *config.Config, log *interactions.Log, profiles *profile.Store,
	tree *supervisor.Tree, logger zerolog.Logger) (*EventComponents, error) {
	if cfg.Events.Synchronous {
		log.SetListener(interactions.ListenerFunc(func(ctx context.Context, rec interactions.Record) error {
			return profiles.ApplyInteraction(ctx, &rec)
		}))
		logger.Info().Msg("Profile updates applied synchronously")
		return &EventComponents{}, nil
	}

	comps := &EventComponents{}
	url := ""
	if cfg.NATS.Enabled && cfg.NATS.EmbeddedServer {
		server, err := events.StartEmbeddedServer(&cfg.NATS, natsReadyTimeout)
		if err != nil {
			return nil, fmt.Errorf("start embedded NATS server: %w", err)
		}
		comps.Server = server
		url = server.ClientURL()
		logger.Info().
			Str("url", url).
			Bool("jetstream", server.JetStreamEnabled()).
			Msg("Embedded NATS server started")

		natsCfg := cfg.NATS
		restart := func() (services.NATSServer, error) {
			s, err := events.StartEmbeddedServer(&natsCfg, natsReadyTimeout)
			if err != nil {
				return nil, err
			}
			return s, nil
		}
		tree.AddMessagingService(services.NewEmbeddedNATSService(server, restart, natsHealthInterval, eventsShutdownTimeout, logger))
	}

	bus, err := events.NewBus(ctx, cfg, url, logger)
	if err != nil {
		comps.shutdownServer()
		return nil, fmt.Errorf("create event bus: %w", err)
	}
	comps.Bus = bus

	comps.Publisher = events.NewPublisher(bus.Publisher, bus.Topic, publisherOpenTimeout, logger)
	log.SetListener(comps.Publisher)

	routerCfg := events.RouterConfig{
		CloseTimeout:         cfg.NATS.CloseTimeout,
		RetryMaxRetries:      cfg.Events.RetryMaxRetries,
		RetryInitialInterval: cfg.Events.RetryInitialInterval,
	}
	comps.Router = services.NewEventRouterService(func() (services.RouterRunner, error) {
		r, err := events.NewRouter(bus, profiles, routerCfg, logger)
		if err != nil {
			return nil, err
		}
		return r, nil
	}, logger)
	tree.AddMessagingService(comps.Router)

	logger.Info().
		Str("backend", bus.Backend).
		Str("topic", bus.Topic).
		Msg("Interaction event pipeline configured")
	return comps, nil
}

// Close releases the publisher and bus once the tree has stopped. The
// embedded server is stopped by its supervised service.
func (c *EventComponents) Close() error {
	var errs []error
	if c.Publisher != nil {
		errs = append(errs, c.Publisher.Close())
	}
	if c.Bus != nil {
		errs = append(errs, c.Bus.Close())
	}
	return errors.Join(errs...)
}

// Ready reports the router's state to the readiness endpoint.
func (c *EventComponents) Ready(ctx context.Context) error {
	if c.Router == nil {
		return nil
	}
	return c.Router.Ready(ctx)
}

func (c *EventComponents) shutdownServer() {
	if c.Server == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), eventsShutdownTimeout)
	defer cancel()
	_ = c.Server.Shutdown(ctx)
}
