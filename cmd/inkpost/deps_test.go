// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Inkpost Contributors

package main

import (
	"context"
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/inkpost/inkpost/internal/observability"
)

// mockObservabilityServer implements ObservabilityServer for testing.
type mockObservabilityServer struct {
	startFunc func() (<-chan error, error)
	registry  *prometheus.Registry
	metrics   *observability.Metrics

	mu      sync.Mutex
	stopped bool
}

func newMockObservabilityServer() *mockObservabilityServer {
	reg := prometheus.NewRegistry()
	return &mockObservabilityServer{registry: reg, metrics: observability.NewMetrics(reg)}
}

func (m *mockObservabilityServer) Start() (<-chan error, error) {
	if m.startFunc != nil {
		return m.startFunc()
	}
	return make(chan error, 1), nil
}

func (m *mockObservabilityServer) Stop(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stopped = true
	return nil
}

func (m *mockObservabilityServer) Addr() string                    { return "127.0.0.1:9100" }
func (m *mockObservabilityServer) Registry() *prometheus.Registry  { return m.registry }
func (m *mockObservabilityServer) Metrics() *observability.Metrics { return m.metrics }

func (m *mockObservabilityServer) wasStopped() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stopped
}

// mockAPIServer implements APIServer for testing. The handler it was
// built with is sent on handlers once Start is called.
type mockAPIServer struct {
	handler  http.Handler
	handlers chan http.Handler
	startErr error
	errCh    chan error

	mu      sync.Mutex
	stopped bool
}

func (m *mockAPIServer) Start() (<-chan error, error) {
	if m.startErr != nil {
		return nil, m.startErr
	}
	if m.errCh == nil {
		m.errCh = make(chan error, 1)
	}
	if m.handlers != nil {
		m.handlers <- m.handler
	}
	return m.errCh, nil
}

func (m *mockAPIServer) Stop(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stopped = true
	return nil
}

func (m *mockAPIServer) Addr() string { return "127.0.0.1:8080" }

func (m *mockAPIServer) wasStopped() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stopped
}

// mockPool implements Pool for testing.
type mockPool struct {
	Pool
	pingErr error
	closed  bool
}

func (m *mockPool) Ping(context.Context) error { return m.pingErr }
func (m *mockPool) Close()                     { m.closed = true }

// mockMigrator implements Migrator for testing.
type mockMigrator struct {
	upErr    error
	version  uint
	dirty    bool
	pending  []uint
	forced   *int
	upCalls  int
	downCall bool
	closed   bool
}

func (m *mockMigrator) Up() error {
	m.upCalls++
	return m.upErr
}

func (m *mockMigrator) Down() error {
	m.downCall = true
	return nil
}

func (m *mockMigrator) Version() (uint, bool, error) { return m.version, m.dirty, nil }

func (m *mockMigrator) Force(version int) error {
	m.forced = &version
	return nil
}

func (m *mockMigrator) PendingMigrations() ([]uint, error) { return m.pending, nil }

func (m *mockMigrator) Close() error {
	m.closed = true
	return nil
}
