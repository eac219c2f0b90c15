// Movie App Admin - Administrative Console for a Video Streaming Catalog
// Copyright 2026 Rahul O. (rahulonit)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/rahulonit/movie-app-admin

package api

import (
	"net/http"
	"time"
)

var processStart = time.Now()

// Live reports that the console process is up. It never touches the upstream.
//
// GET /api/v1/health/live
func (h *Handlers) Live(w http.ResponseWriter, r *http.Request) {
	respondData(w, r, http.StatusOK, map[string]any{
		"status":        "alive",
		"uptimeSeconds": int64(time.Since(processStart).Seconds()),
	})
}

// Ready reports whether the console can serve traffic: the process is up and
// the last upstream probe succeeded. Before the first probe it answers 503.
//
// GET /api/v1/health/ready
func (h *Handlers) Ready(w http.ResponseWriter, r *http.Request) {
	if h.monitor == nil {
		respondData(w, r, http.StatusOK, map[string]string{"status": "ready"})
		return
	}

	status, probed := h.monitor.Status()
	if !probed {
		respondError(w, r, http.StatusServiceUnavailable, ErrCodeUpstreamDown, "upstream not yet probed", nil)
		return
	}
	if !status.Healthy {
		respondError(w, r, http.StatusServiceUnavailable, ErrCodeUpstreamDown, "upstream API unreachable", status)
		return
	}
	respondData(w, r, http.StatusOK, map[string]any{"status": "ready", "upstream": status})
}

// UpstreamHealth returns the latest upstream probe result verbatim.
//
// GET /api/v1/health/upstream
func (h *Handlers) UpstreamHealth(w http.ResponseWriter, r *http.Request) {
	if h.monitor == nil {
		respondError(w, r, http.StatusNotFound, ErrCodeNotFound, "health polling is disabled", nil)
		return
	}

	status, probed := h.monitor.Status()
	if !probed {
		respondError(w, r, http.StatusServiceUnavailable, ErrCodeUpstreamDown, "upstream not yet probed", nil)
		return
	}
	respondData(w, r, http.StatusOK, status)
}
