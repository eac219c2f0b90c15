// Movie App Admin - Administrative Console for a Video Streaming Catalog
// Copyright 2026 Rahul O. (rahulonit)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/rahulonit/movie-app-admin

// Package analytics provides typed access to the upstream analytics
// endpoints. The Dashboard totals double as the snapshot type the history
// store records over time.
package analytics

import (
	"context"
	"net/url"
	"strconv"
	"time"
)

// Dashboard is the upstream's aggregate dashboard response and the shape
// recorded by the snapshot poller.
type Dashboard struct {
	TotalMovies         int64   `json:"totalMovies"`
	TotalSeries         int64   `json:"totalSeries"`
	TotalUsers          int64   `json:"totalUsers"`
	ActiveSubscriptions int64   `json:"activeSubscriptions"`
	WatchHours          float64 `json:"watchHours"`
}

// Snapshot is one recorded dashboard observation.
type Snapshot struct {
	ID         string    `json:"id"`
	RecordedAt time.Time `json:"recordedAt"`
	Dashboard
}

// RevenuePoint is one month of revenue.
type RevenuePoint struct {
	Month   string  `json:"month"` // "2026-08"
	Revenue float64 `json:"revenue"`
}

// ContentStat is one entry of the top-content ranking.
type ContentStat struct {
	ContentID  string  `json:"contentId"`
	Title      string  `json:"title"`
	Type       string  `json:"type"` // "movie" or "series"
	WatchHours float64 `json:"watchHours"`
	Viewers    int64   `json:"viewers"`
}

// Client is the subset of the upstream client the analytics service needs.
// Satisfied by *upstream.Client through the package-level generic helpers;
// kept as a named dependency so tests can fake the transport cheaply.
type Client interface {
	GetJSON(ctx context.Context, path string, query url.Values, out any) error
}

// Service exposes the upstream analytics endpoints.
type Service struct {
	client Client
}

// NewService creates an analytics service over the given client.
func NewService(client Client) *Service {
	return &Service{client: client}
}

// DashboardTotals retrieves the current dashboard aggregates.
func (s *Service) DashboardTotals(ctx context.Context) (*Dashboard, error) {
	var d Dashboard
	if err := s.client.GetJSON(ctx, "/analytics/dashboard", nil, &d); err != nil {
		return nil, err
	}
	return &d, nil
}

// Revenue retrieves the revenue series for the last months months.
func (s *Service) Revenue(ctx context.Context, months int) ([]RevenuePoint, error) {
	q := url.Values{}
	if months > 0 {
		q.Set("months", strconv.Itoa(months))
	}
	var points []RevenuePoint
	if err := s.client.GetJSON(ctx, "/analytics/revenue", q, &points); err != nil {
		return nil, err
	}
	return points, nil
}

// TopContent retrieves the most-watched content ranking.
func (s *Service) TopContent(ctx context.Context, limit int) ([]ContentStat, error) {
	q := url.Values{}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	var stats []ContentStat
	if err := s.client.GetJSON(ctx, "/analytics/top-content", q, &stats); err != nil {
		return nil, err
	}
	return stats, nil
}
