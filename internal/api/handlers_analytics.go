// Movie App Admin - Administrative Console for a Video Streaming Catalog
// Copyright 2026 Rahul O. (rahulonit)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/rahulonit/movie-app-admin

package api

import (
	"net/http"
	"time"

	"github.com/rahulonit/movie-app-admin/internal/analytics"
)

// Dashboard returns the current catalog-wide totals.
//
// GET /api/v1/analytics/dashboard
func (h *Handlers) Dashboard(w http.ResponseWriter, r *http.Request) {
	dashboard, err := h.analytics.DashboardTotals(r.Context())
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondData(w, r, http.StatusOK, dashboard)
}

// Revenue returns monthly revenue, newest last.
//
// GET /api/v1/analytics/revenue?months=N
func (h *Handlers) Revenue(w http.ResponseWriter, r *http.Request) {
	points, err := h.analytics.Revenue(r.Context(), intQuery(r, "months", 0))
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondData(w, r, http.StatusOK, points)
}

// TopContent returns the most-watched titles.
//
// GET /api/v1/analytics/top-content?limit=N
func (h *Handlers) TopContent(w http.ResponseWriter, r *http.Request) {
	stats, err := h.analytics.TopContent(r.Context(), intQuery(r, "limit", 0))
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondData(w, r, http.StatusOK, stats)
}

// History returns locally recorded dashboard snapshots. With from/to it
// returns the range; otherwise the latest N (default 100).
//
// GET /api/v1/analytics/history?from=RFC3339&to=RFC3339&limit=N
func (h *Handlers) History(w http.ResponseWriter, r *http.Request) {
	if h.history == nil {
		respondError(w, r, http.StatusNotFound, ErrCodeNotFound, "history recording is disabled", nil)
		return
	}

	fromRaw := r.URL.Query().Get("from")
	toRaw := r.URL.Query().Get("to")

	var snapshots []analytics.Snapshot
	var err error
	if fromRaw != "" || toRaw != "" {
		from, to, perr := parseTimeRange(fromRaw, toRaw)
		if perr != nil {
			respondError(w, r, http.StatusBadRequest, ErrCodeBadRequest, "from/to must be RFC 3339 timestamps", nil)
			return
		}
		snapshots, err = h.history.Range(r.Context(), from, to)
	} else {
		snapshots, err = h.history.Latest(r.Context(), intQuery(r, "limit", 100))
	}
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondData(w, r, http.StatusOK, snapshots)
}

// parseTimeRange fills open ends: a missing "from" means the beginning of
// time, a missing "to" means now.
func parseTimeRange(fromRaw, toRaw string) (time.Time, time.Time, error) {
	from := time.Time{}
	to := time.Now().UTC()

	if fromRaw != "" {
		parsed, err := time.Parse(time.RFC3339, fromRaw)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		from = parsed
	}
	if toRaw != "" {
		parsed, err := time.Parse(time.RFC3339, toRaw)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		to = parsed
	}
	return from, to, nil
}
