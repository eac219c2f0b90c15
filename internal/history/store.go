// Movie App Admin - Administrative Console for a Video Streaming Catalog
// Copyright 2026 Rahul O. (rahulonit)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/rahulonit/movie-app-admin

// Package history records analytics dashboard snapshots over time. The
// upstream API only reports current totals; the console samples them on an
// interval into DuckDB so trends can be charted.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/rahulonit/movie-app-admin/internal/analytics"
	"github.com/rahulonit/movie-app-admin/internal/store"
)

const schema = `
CREATE TABLE IF NOT EXISTS analytics_snapshots (
	id VARCHAR PRIMARY KEY,
	recorded_at TIMESTAMP NOT NULL,
	total_movies BIGINT NOT NULL,
	total_series BIGINT NOT NULL,
	total_users BIGINT NOT NULL,
	active_subscriptions BIGINT NOT NULL,
	watch_hours DOUBLE NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_snapshots_recorded_at ON analytics_snapshots(recorded_at);
`

// Store persists dashboard snapshots.
type Store struct {
	db *sql.DB
}

// NewStore creates the snapshot store and its schema.
func NewStore(db *store.DB) (*Store, error) {
	if _, err := db.Conn().Exec(schema); err != nil {
		return nil, fmt.Errorf("create snapshot schema: %w", err)
	}
	return &Store{db: db.Conn()}, nil
}

// Insert records one snapshot. A zero RecordedAt and empty ID are filled in.
func (s *Store) Insert(ctx context.Context, snap analytics.Snapshot) (analytics.Snapshot, error) {
	if snap.ID == "" {
		snap.ID = uuid.New().String()
	}
	if snap.RecordedAt.IsZero() {
		snap.RecordedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO analytics_snapshots
			(id, recorded_at, total_movies, total_series, total_users, active_subscriptions, watch_hours)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		snap.ID, snap.RecordedAt, snap.TotalMovies, snap.TotalSeries,
		snap.TotalUsers, snap.ActiveSubscriptions, snap.WatchHours,
	)
	if err != nil {
		return analytics.Snapshot{}, fmt.Errorf("insert snapshot: %w", err)
	}
	return snap, nil
}

// Range returns snapshots recorded in [from, to], oldest first.
func (s *Store) Range(ctx context.Context, from, to time.Time) ([]analytics.Snapshot, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, recorded_at, total_movies, total_series, total_users, active_subscriptions, watch_hours
		FROM analytics_snapshots
		WHERE recorded_at >= ? AND recorded_at <= ?
		ORDER BY recorded_at ASC`,
		from, to,
	)
	if err != nil {
		return nil, fmt.Errorf("query snapshot range: %w", err)
	}
	defer func() { _ = rows.Close() }()

	return scanSnapshots(rows)
}

// Latest returns the most recent n snapshots, newest first.
func (s *Store) Latest(ctx context.Context, n int) ([]analytics.Snapshot, error) {
	if n <= 0 {
		n = 1
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, recorded_at, total_movies, total_series, total_users, active_subscriptions, watch_hours
		FROM analytics_snapshots
		ORDER BY recorded_at DESC
		LIMIT ?`,
		n,
	)
	if err != nil {
		return nil, fmt.Errorf("query latest snapshots: %w", err)
	}
	defer func() { _ = rows.Close() }()

	return scanSnapshots(rows)
}

// DeleteOlderThan purges snapshots recorded before cutoff. Returns the
// number of rows removed.
func (s *Store) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM analytics_snapshots WHERE recorded_at < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("purge snapshots: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, nil
	}
	return n, nil
}

// Count returns the total number of stored snapshots.
func (s *Store) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM analytics_snapshots`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count snapshots: %w", err)
	}
	return n, nil
}

func scanSnapshots(rows *sql.Rows) ([]analytics.Snapshot, error) {
	var snaps []analytics.Snapshot
	for rows.Next() {
		var snap analytics.Snapshot
		if err := rows.Scan(
			&snap.ID, &snap.RecordedAt, &snap.TotalMovies, &snap.TotalSeries,
			&snap.TotalUsers, &snap.ActiveSubscriptions, &snap.WatchHours,
		); err != nil {
			return nil, fmt.Errorf("scan snapshot row: %w", err)
		}
		snaps = append(snaps, snap)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate snapshot rows: %w", err)
	}
	return snaps, nil
}
