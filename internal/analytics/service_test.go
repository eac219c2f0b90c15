// Movie App Admin - Administrative Console for a Video Streaming Catalog
// Copyright 2026 Rahul O. (rahulonit)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/rahulonit/movie-app-admin

package analytics

import (
	"context"
	"errors"
	"net/url"
	"testing"

	"github.com/goccy/go-json"
)

// fakeClient serves canned JSON per path and records queries.
type fakeClient struct {
	responses map[string]string
	queries   map[string]url.Values
	err       error
}

func (f *fakeClient) GetJSON(_ context.Context, path string, query url.Values, out any) error {
	if f.err != nil {
		return f.err
	}
	if f.queries == nil {
		f.queries = make(map[string]url.Values)
	}
	f.queries[path] = query

	body, ok := f.responses[path]
	if !ok {
		return errors.New("unexpected path " + path)
	}
	return json.Unmarshal([]byte(body), out)
}

func TestDashboardTotals(t *testing.T) {
	svc := NewService(&fakeClient{responses: map[string]string{
		"/analytics/dashboard": `{"totalMovies": 120, "totalSeries": 45, "totalUsers": 9001,
			"activeSubscriptions": 7500, "watchHours": 123456.5}`,
	}})

	d, err := svc.DashboardTotals(context.Background())
	if err != nil {
		t.Fatalf("DashboardTotals() error = %v", err)
	}
	if d.TotalMovies != 120 || d.ActiveSubscriptions != 7500 {
		t.Errorf("DashboardTotals() = %+v", d)
	}
	if d.WatchHours != 123456.5 {
		t.Errorf("WatchHours = %v, want 123456.5", d.WatchHours)
	}
}

func TestRevenuePassesMonths(t *testing.T) {
	fake := &fakeClient{responses: map[string]string{
		"/analytics/revenue": `[{"month": "2026-07", "revenue": 8123.45}, {"month": "2026-08", "revenue": 9500.0}]`,
	}}
	svc := NewService(fake)

	points, err := svc.Revenue(context.Background(), 6)
	if err != nil {
		t.Fatalf("Revenue() error = %v", err)
	}
	if len(points) != 2 || points[1].Revenue != 9500.0 {
		t.Errorf("Revenue() = %+v", points)
	}
	if got := fake.queries["/analytics/revenue"].Get("months"); got != "6" {
		t.Errorf("months query = %q, want 6", got)
	}
}

func TestTopContent(t *testing.T) {
	fake := &fakeClient{responses: map[string]string{
		"/analytics/top-content": `[{"contentId": "m1", "title": "Heat", "type": "movie", "watchHours": 420.5, "viewers": 300}]`,
	}}
	svc := NewService(fake)

	stats, err := svc.TopContent(context.Background(), 10)
	if err != nil {
		t.Fatalf("TopContent() error = %v", err)
	}
	if len(stats) != 1 || stats[0].Type != "movie" {
		t.Errorf("TopContent() = %+v", stats)
	}
	if got := fake.queries["/analytics/top-content"].Get("limit"); got != "10" {
		t.Errorf("limit query = %q, want 10", got)
	}
}

func TestServicePropagatesClientError(t *testing.T) {
	wantErr := errors.New("upstream down")
	svc := NewService(&fakeClient{err: wantErr})

	if _, err := svc.DashboardTotals(context.Background()); !errors.Is(err, wantErr) {
		t.Errorf("DashboardTotals() error = %v, want %v", err, wantErr)
	}
}
