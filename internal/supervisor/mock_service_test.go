// Curator - Content Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/curator

package supervisor

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
)

var errSimulated = errors.New("simulated failure")

// mockService counts starts and can fail a fixed number of times before
// running until canceled.
type mockService struct {
	name      string
	starts    atomic.Int32
	mu        sync.Mutex
	failCount int
	err       error
}

func newMockService(name string) *mockService {
	return &mockService{name: name}
}

func (m *mockService) setFailCount(n int) {
	m.mu.Lock()
	m.failCount = n
	m.mu.Unlock()
}

func (m *mockService) setError(err error) {
	m.mu.Lock()
	m.err = err
	m.mu.Unlock()
}

func (m *mockService) Serve(ctx context.Context) error {
	m.starts.Add(1)

	m.mu.Lock()
	if m.failCount > 0 {
		m.failCount--
		m.mu.Unlock()
		return errSimulated
	}
	err := m.err
	m.mu.Unlock()
	if err != nil {
		return err
	}

	<-ctx.Done()
	return ctx.Err()
}

func (m *mockService) StartCount() int {
	return int(m.starts.Load())
}

func (m *mockService) String() string {
	return m.name
}
