// Curator - Content Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/curator

// Package testinfra starts Docker containers for integration tests.
//
// Everything here is behind the integration build tag:
//
//	go test -tags integration ./...
//
// # NATS Container
//
// NewNATSContainer runs a JetStream-enabled NATS server so the event bus can
// be tested against a real broker instead of the in-process channel:
//
//	func TestBus(t *testing.T) {
//	    testinfra.SkipIfNoDocker(t)
//	    ctx := context.Background()
//	    nc, err := testinfra.NewNATSContainer(ctx)
//	    if err != nil {
//	        t.Fatal(err)
//	    }
//	    testinfra.Terminate(t, nc)
//
//	    bus, err := events.NewNATSBus(ctx, config.NATSConfig{URL: nc.URL, ...}, eventsCfg, logger)
//	    // ...
//	}
//
// Tests call SkipIfNoDocker first so they skip cleanly on machines without
// a Docker daemon.
package testinfra
