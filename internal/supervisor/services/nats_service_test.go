// Curator - Content Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/curator

package services

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/thejerf/suture/v4"
)

type mockNATSServer struct {
	running   atomic.Bool
	shutdowns atomic.Int32
}

func newMockNATSServer() *mockNATSServer {
	m := &mockNATSServer{}
	m.running.Store(true)
	return m
}

func (m *mockNATSServer) IsRunning() bool { return m.running.Load() }

func (m *mockNATSServer) Shutdown(context.Context) error {
	m.shutdowns.Add(1)
	m.running.Store(false)
	return nil
}

var _ suture.Service = (*EmbeddedNATSService)(nil)

func TestEmbeddedNATSServiceShutdown(t *testing.T) {
	server := newMockNATSServer()
	svc := NewEmbeddedNATSService(server, nil, 10*time.Millisecond, time.Second, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- svc.Serve(ctx) }()

	time.Sleep(30 * time.Millisecond)
	if !svc.IsRunning() {
		t.Error("IsRunning() = false while serving")
	}
	cancel()

	select {
	case err := <-errCh:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Serve() = %v, want Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Serve did not return")
	}
	if server.shutdowns.Load() != 1 {
		t.Errorf("Shutdown calls = %d, want 1", server.shutdowns.Load())
	}
	if svc.IsRunning() {
		t.Error("IsRunning() = true after shutdown")
	}
}

func TestEmbeddedNATSServiceDetectsCrash(t *testing.T) {
	server := newMockNATSServer()
	svc := NewEmbeddedNATSService(server, nil, 10*time.Millisecond, time.Second, zerolog.Nop())

	errCh := make(chan error, 1)
	go func() { errCh <- svc.Serve(context.Background()) }()

	time.Sleep(20 * time.Millisecond)
	server.running.Store(false)

	select {
	case err := <-errCh:
		if !errors.Is(err, ErrNATSServerDown) {
			t.Errorf("Serve() = %v, want ErrNATSServerDown", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("crash was not detected")
	}

	// Without a starter the next attempt fails immediately.
	if err := svc.Serve(context.Background()); !errors.Is(err, ErrNATSServerDown) {
		t.Errorf("restart without starter = %v", err)
	}
}

func TestEmbeddedNATSServiceRestartsThroughStarter(t *testing.T) {
	dead := newMockNATSServer()
	dead.running.Store(false)
	replacement := newMockNATSServer()

	var starts atomic.Int32
	start := func() (NATSServer, error) {
		if starts.Add(1) == 1 {
			return nil, errors.New("port busy")
		}
		return replacement, nil
	}
	svc := NewEmbeddedNATSService(dead, start, 10*time.Millisecond, time.Second, zerolog.Nop())

	if err := svc.Serve(context.Background()); err == nil {
		t.Fatal("first restart should fail")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	if err := svc.Serve(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Serve() = %v, want DeadlineExceeded", err)
	}
	if starts.Load() != 2 {
		t.Errorf("starter calls = %d, want 2", starts.Load())
	}
	if replacement.shutdowns.Load() != 1 {
		t.Error("replacement server was not shut down")
	}
}
