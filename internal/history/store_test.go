// Movie App Admin - Administrative Console for a Video Streaming Catalog
// Copyright 2026 Rahul O. (rahulonit)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/rahulonit/movie-app-admin

package history

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rahulonit/movie-app-admin/internal/analytics"
	"github.com/rahulonit/movie-app-admin/internal/store"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	db, err := store.OpenInMemory()
	if err != nil {
		t.Fatalf("OpenInMemory() error = %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	s, err := NewStore(db)
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}
	return s
}

func snapshotAt(ts time.Time, users int64) analytics.Snapshot {
	return analytics.Snapshot{
		RecordedAt: ts,
		Dashboard: analytics.Dashboard{
			TotalMovies:         100,
			TotalSeries:         40,
			TotalUsers:          users,
			ActiveSubscriptions: users / 2,
			WatchHours:          float64(users) * 1.5,
		},
	}
}

func TestStoreInsertAndLatest(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	base := time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC)

	for i := 0; i < 3; i++ {
		if _, err := s.Insert(ctx, snapshotAt(base.Add(time.Duration(i)*time.Hour), int64(1000+i))); err != nil {
			t.Fatalf("Insert() error = %v", err)
		}
	}

	latest, err := s.Latest(ctx, 2)
	if err != nil {
		t.Fatalf("Latest() error = %v", err)
	}
	if len(latest) != 2 {
		t.Fatalf("Latest() returned %d snapshots, want 2", len(latest))
	}
	if latest[0].TotalUsers != 1002 || latest[1].TotalUsers != 1001 {
		t.Errorf("Latest() order wrong: %+v", latest)
	}
}

func TestStoreInsertFillsDefaults(t *testing.T) {
	s := newTestStore(t)

	snap, err := s.Insert(context.Background(), analytics.Snapshot{})
	if err != nil {
		t.Fatalf("Insert() error = %v", err)
	}
	if snap.ID == "" {
		t.Error("Insert() left ID empty")
	}
	if snap.RecordedAt.IsZero() {
		t.Error("Insert() left RecordedAt zero")
	}
}

func TestStoreRange(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	base := time.Date(2026, 8, 25, 0, 0, 0, 0, time.UTC)

	for i := 0; i < 5; i++ {
		if _, err := s.Insert(ctx, snapshotAt(base.AddDate(0, 0, i), int64(i))); err != nil {
			t.Fatalf("Insert() error = %v", err)
		}
	}

	got, err := s.Range(ctx, base.AddDate(0, 0, 1), base.AddDate(0, 0, 3))
	if err != nil {
		t.Fatalf("Range() error = %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("Range() returned %d snapshots, want 3", len(got))
	}
	for i := 1; i < len(got); i++ {
		if got[i].RecordedAt.Before(got[i-1].RecordedAt) {
			t.Errorf("Range() not ordered oldest first: %+v", got)
		}
	}
}

func TestStoreDeleteOlderThan(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	base := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)

	for i := 0; i < 4; i++ {
		if _, err := s.Insert(ctx, snapshotAt(base.AddDate(0, 0, i*7), 100)); err != nil {
			t.Fatalf("Insert() error = %v", err)
		}
	}

	removed, err := s.DeleteOlderThan(ctx, base.AddDate(0, 0, 10))
	if err != nil {
		t.Fatalf("DeleteOlderThan() error = %v", err)
	}
	if removed != 2 {
		t.Errorf("DeleteOlderThan() removed %d, want 2", removed)
	}

	count, err := s.Count(ctx)
	if err != nil {
		t.Fatalf("Count() error = %v", err)
	}
	if count != 2 {
		t.Errorf("Count() = %d, want 2", count)
	}
}

// fixedSource returns a canned dashboard or an error.
type fixedSource struct {
	dashboard analytics.Dashboard
	err       error
	calls     atomic.Int32
}

func (f *fixedSource) DashboardTotals(context.Context) (*analytics.Dashboard, error) {
	f.calls.Add(1)
	if f.err != nil {
		return nil, f.err
	}
	d := f.dashboard
	return &d, nil
}

func TestPollerRecordsOnStartup(t *testing.T) {
	s := newTestStore(t)
	source := &fixedSource{dashboard: analytics.Dashboard{TotalUsers: 777}}

	var notified atomic.Int32
	p := NewPoller(source, s, time.Hour)
	p.OnSnapshot = func(snap analytics.Snapshot) {
		if snap.TotalUsers != 777 {
			t.Errorf("OnSnapshot users = %d, want 777", snap.TotalUsers)
		}
		notified.Add(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- p.Serve(ctx) }()

	// The startup snapshot lands without waiting for a tick.
	deadline := time.After(5 * time.Second)
	for notified.Load() == 0 {
		select {
		case <-deadline:
			t.Fatal("startup snapshot never recorded")
		case <-time.After(10 * time.Millisecond):
		}
	}

	cancel()
	if err := <-done; !errors.Is(err, context.Canceled) {
		t.Errorf("Serve() returned %v, want context.Canceled", err)
	}

	count, err := s.Count(context.Background())
	if err != nil {
		t.Fatalf("Count() error = %v", err)
	}
	if count != 1 {
		t.Errorf("Count() = %d, want 1", count)
	}
}

func TestPollerSurvivesSourceErrors(t *testing.T) {
	s := newTestStore(t)
	source := &fixedSource{err: errors.New("upstream down")}

	p := NewPoller(source, s, 20*time.Millisecond)
	ctx, cancel := context.WithTimeout(context.Background(), 150*time.Millisecond)
	defer cancel()

	_ = p.Serve(ctx)

	if source.calls.Load() < 2 {
		t.Errorf("source calls = %d, want the loop to keep polling through errors", source.calls.Load())
	}
	count, _ := s.Count(context.Background())
	if count != 0 {
		t.Errorf("Count() = %d, want 0 when every fetch fails", count)
	}
}
