// Movie App Admin - Administrative Console for a Video Streaming Catalog
// Copyright 2026 Rahul O. (rahulonit)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/rahulonit/movie-app-admin

// Package health polls the upstream API and keeps the latest reachability
// status for the readiness endpoints and the live dashboard feed.
package health

import (
	"context"
	"sync"
	"time"

	"github.com/rahulonit/movie-app-admin/internal/logging"
	"github.com/rahulonit/movie-app-admin/internal/metrics"
	"github.com/rahulonit/movie-app-admin/internal/websocket"
)

// pinger is the slice of the upstream client the monitor needs.
type pinger interface {
	Ping(ctx context.Context) error
}

// Status is the result of the most recent upstream probe.
type Status struct {
	Healthy   bool      `json:"healthy"`
	LatencyMs int64     `json:"latencyMs"`
	CheckedAt time.Time `json:"checkedAt"`
	Message   string    `json:"message,omitempty"`
}

// Monitor probes the upstream on an interval. It runs under the supervision
// tree; Serve blocks until the context is cancelled.
type Monitor struct {
	pinger   pinger
	hub      *websocket.Hub
	interval time.Duration

	mu     sync.RWMutex
	status Status
	probed bool
}

// NewMonitor creates a monitor. The hub may be nil; status broadcasts are
// then skipped. Interval defaults to 30s.
func NewMonitor(p pinger, hub *websocket.Hub, interval time.Duration) *Monitor {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	return &Monitor{pinger: p, hub: hub, interval: interval}
}

// Serve probes immediately, then on every tick.
func (m *Monitor) Serve(ctx context.Context) error {
	log := logging.WithComponent("health")
	log.Info().Dur("interval", m.interval).Msg("Upstream health monitor started")

	m.probe(ctx)

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("Upstream health monitor stopped")
			return ctx.Err()
		case <-ticker.C:
			m.probe(ctx)
		}
	}
}

func (m *Monitor) probe(ctx context.Context) {
	probeCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	start := time.Now()
	err := m.pinger.Ping(probeCtx)
	latency := time.Since(start)

	status := Status{
		Healthy:   err == nil,
		LatencyMs: latency.Milliseconds(),
		CheckedAt: time.Now().UTC(),
	}
	if err != nil {
		status.Message = err.Error()
	}

	m.mu.Lock()
	previous := m.status
	hadProbe := m.probed
	m.status = status
	m.probed = true
	m.mu.Unlock()

	metrics.SetUpstreamHealthy(status.Healthy)

	// Log transitions only; steady state stays quiet.
	if !hadProbe || previous.Healthy != status.Healthy {
		log := logging.WithComponent("health")
		if status.Healthy {
			log.Info().
				Int64("latency_ms", status.LatencyMs).
				Msg("Upstream API reachable")
		} else {
			log.Warn().
				Str("error", status.Message).
				Msg("Upstream API unreachable")
		}
		if m.hub != nil {
			m.hub.BroadcastHealthStatus(status.Healthy, latency, status.Message)
		}
	}
}

// Status returns the latest probe result. ok is false until the first probe
// completes.
func (m *Monitor) Status() (Status, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.status, m.probed
}

// String names the service in supervisor logs.
func (m *Monitor) String() string {
	return "health-monitor"
}
