// Movie App Admin - Administrative Console for a Video Streaming Catalog
// Copyright 2026 Rahul O. (rahulonit)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/rahulonit/movie-app-admin

package history

import (
	"context"
	"time"

	"github.com/rahulonit/movie-app-admin/internal/analytics"
	"github.com/rahulonit/movie-app-admin/internal/logging"
	"github.com/rahulonit/movie-app-admin/internal/metrics"
)

// dashboardSource is the slice of the analytics service the poller needs.
type dashboardSource interface {
	DashboardTotals(ctx context.Context) (*analytics.Dashboard, error)
}

// Poller samples the upstream dashboard into the snapshot store on a fixed
// interval. It implements suture.Service via Serve.
type Poller struct {
	source   dashboardSource
	store    *Store
	interval time.Duration

	// OnSnapshot, when set, is invoked after each successful recording.
	// The websocket hub subscribes here to push snapshot_completed events.
	OnSnapshot func(analytics.Snapshot)
}

// NewPoller creates a snapshot poller.
func NewPoller(source dashboardSource, store *Store, interval time.Duration) *Poller {
	if interval <= 0 {
		interval = time.Hour
	}
	return &Poller{source: source, store: store, interval: interval}
}

// Serve runs the poll loop until ctx is canceled. One snapshot is recorded
// immediately on startup so a fresh deployment has a data point.
func (p *Poller) Serve(ctx context.Context) error {
	logging.Info().Dur("interval", p.interval).Msg("Snapshot poller started")

	p.record(ctx)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logging.Info().Msg("Snapshot poller stopping")
			return ctx.Err()
		case <-ticker.C:
			p.record(ctx)
		}
	}
}

// record samples the dashboard once. Errors are logged and counted, never
// fatal: the next tick retries.
func (p *Poller) record(ctx context.Context) {
	start := time.Now()
	callCtx, cancel := context.WithTimeout(ctx, time.Minute)
	defer cancel()

	dashboard, err := p.source.DashboardTotals(callCtx)
	if err != nil {
		metrics.SnapshotErrors.Inc()
		logging.Warn().Err(err).Msg("Dashboard snapshot fetch failed")
		return
	}

	snap, err := p.store.Insert(callCtx, analytics.Snapshot{Dashboard: *dashboard})
	if err != nil {
		metrics.SnapshotErrors.Inc()
		logging.Error().Err(err).Msg("Dashboard snapshot persist failed")
		return
	}

	metrics.SnapshotsRecorded.Inc()
	metrics.SnapshotLastSuccess.SetToCurrentTime()
	metrics.SnapshotDuration.Observe(time.Since(start).Seconds())
	logging.Debug().
		Str("snapshot_id", snap.ID).
		Int64("total_users", snap.TotalUsers).
		Msg("Dashboard snapshot recorded")

	if p.OnSnapshot != nil {
		p.OnSnapshot(snap)
	}
}

// String names the poller in supervisor logs.
func (p *Poller) String() string {
	return "snapshot-poller"
}
