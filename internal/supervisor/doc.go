// Curator - Content Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/curator

/*
Package supervisor runs the long-lived parts of the service under a suture v4
supervisor tree.

# Overview

Services are grouped into layers so a failure restarts only its own layer:

	Tree ("curator")
	├── messaging-layer
	│   ├── EmbeddedNATSService (if nats.embedded_server)
	│   └── EventRouterService (if events.enabled)
	├── maintenance-layer
	│   ├── vectorize job
	│   ├── profile recompute job
	│   ├── evaluation job
	│   └── precompute job (if badger.enabled)
	└── api-layer
	    └── HTTPServerService

A job that panics or keeps failing backs off inside the maintenance layer
while the API keeps answering requests.

# Usage

	tree := supervisor.NewTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	tree.AddAPIService(services.NewHTTPServerService(server, 10*time.Second))
	tree.AddMaintenanceService(services.NewVectorizeService(contentSvc, cfg, logger))

	if err := tree.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
	    logging.Error().Err(err).Msg("Supervisor stopped")
	}

# Failure Handling

Each failure increments a counter that decays over FailureDecay seconds.
Above FailureThreshold the supervisor waits FailureBackoff before the next
restart. A service returning suture.ErrDoNotRestart is removed for good.

# Debugging Shutdown

Services that outlive ShutdownTimeout show up in UnstoppedServiceReport.
*/
package supervisor
