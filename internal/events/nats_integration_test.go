// Curator - Content Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/curator

//go:build integration

package events

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/curator/internal/config"
	"github.com/tomtom215/curator/internal/testinfra"
)

func TestNATSBusDeliversToRouter(t *testing.T) {
	testinfra.SkipIfNoDocker(t)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	nc, err := testinfra.NewNATSContainer(ctx)
	if err != nil {
		t.Fatalf("NewNATSContainer() error = %v", err)
	}
	testinfra.Terminate(t, nc)

	natsCfg := config.NATSConfig{
		Enabled:          true,
		URL:              nc.URL,
		SubscribersCount: 1,
		DurableName:      "curator-it",
		QueueGroup:       "curator-it",
		AckWaitTimeout:   5 * time.Second,
		CloseTimeout:     5 * time.Second,
	}
	eventsCfg := config.EventsConfig{Topic: "it.interactions", RetryMaxRetries: 1}

	bus, err := NewNATSBus(ctx, natsCfg, eventsCfg, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewNATSBus() error = %v", err)
	}
	t.Cleanup(func() {
		if err := bus.Close(); err != nil {
			t.Errorf("bus.Close() error = %v", err)
		}
	})
	if bus.Backend != BackendNATS {
		t.Fatalf("Backend = %q, want %q", bus.Backend, BackendNATS)
	}

	applier := &fakeApplier{}
	router, err := NewRouter(bus, applier, fastRetries(1), zerolog.Nop())
	if err != nil {
		t.Fatalf("NewRouter() error = %v", err)
	}
	runCtx, stop := context.WithCancel(ctx)
	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := router.Run(runCtx); err != nil {
			t.Errorf("router.Run() error = %v", err)
		}
	}()
	t.Cleanup(func() {
		stop()
		<-done
	})

	select {
	case <-router.Running():
	case <-time.After(30 * time.Second):
		t.Fatal("router did not start")
	}

	pub := NewPublisher(bus.Publisher, bus.Topic, 5*time.Second, zerolog.Nop())
	if err := pub.InteractionRecorded(ctx, testRecord("nats-1")); err != nil {
		t.Fatalf("InteractionRecorded() error = %v", err)
	}

	deadline := time.Now().Add(30 * time.Second)
	for router.Stats().Applied < 1 {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for delivery, stats = %+v", router.Stats())
		}
		time.Sleep(50 * time.Millisecond)
	}

	_, applied := applier.snapshot()
	if len(applied) != 1 || applied[0].ID != "nats-1" {
		t.Errorf("applied = %+v", applied)
	}
}
