// Movie App Admin - Administrative Console for a Video Streaming Catalog
// Copyright 2026 Rahul O. (rahulonit)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/rahulonit/movie-app-admin

// Package api is the console's HTTP surface: authentication brokering,
// catalog and account management proxied through the upstream client,
// analytics, the audit trail, health, and the live websocket feed.
package api

import (
	"net/http"
	"strconv"

	"github.com/rahulonit/movie-app-admin/internal/accounts"
	"github.com/rahulonit/movie-app-admin/internal/analytics"
	"github.com/rahulonit/movie-app-admin/internal/audit"
	"github.com/rahulonit/movie-app-admin/internal/catalog"
	"github.com/rahulonit/movie-app-admin/internal/health"
	"github.com/rahulonit/movie-app-admin/internal/history"
	"github.com/rahulonit/movie-app-admin/internal/upstream"
	"github.com/rahulonit/movie-app-admin/internal/websocket"
)

// Handlers owns every console endpoint. Dependencies that are optional in a
// given deployment (history store, audit store) may be nil; the matching
// endpoints then answer 404 or an empty result.
type Handlers struct {
	client     *upstream.Client
	movies     *catalog.MovieService
	series     *catalog.SeriesService
	accounts   *accounts.Service
	analytics  *analytics.Service
	history    *history.Store
	auditStore audit.Store
	recorder   *audit.Recorder
	hub        *websocket.Hub
	monitor    *health.Monitor

	corsOrigins []string
}

// NewHandlers wires the endpoint set.
func NewHandlers(
	client *upstream.Client,
	movies *catalog.MovieService,
	series *catalog.SeriesService,
	accountSvc *accounts.Service,
	analyticsSvc *analytics.Service,
	historyStore *history.Store,
	auditStore audit.Store,
	recorder *audit.Recorder,
	hub *websocket.Hub,
	monitor *health.Monitor,
	corsOrigins []string,
) *Handlers {
	return &Handlers{
		client:      client,
		movies:      movies,
		series:      series,
		accounts:    accountSvc,
		analytics:   analyticsSvc,
		history:     historyStore,
		auditStore:  auditStore,
		recorder:    recorder,
		hub:         hub,
		monitor:     monitor,
		corsOrigins: corsOrigins,
	}
}

// audited publishes an audit event for a completed console operation, with
// the acting session user and request source attached.
func (h *Handlers) audited(r *http.Request, eventType audit.EventType, outcome audit.Outcome, target audit.Target, description string) {
	event := audit.NewEvent(eventType, outcome)
	if user := sessionUserFromContext(r.Context()); user != nil {
		event.Actor = audit.Actor{ID: user.ID, Email: user.Email, Role: user.Role}
	}
	event.Target = target
	event.Source = audit.Source{IP: r.RemoteAddr, UserAgent: r.UserAgent()}
	event.Description = description
	h.recorder.Record(r.Context(), event)
}

// intQuery parses an integer query parameter, returning def when absent or
// malformed.
func intQuery(r *http.Request, name string, def int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return n
}

// listParamsFromQuery reads the shared page/limit/search parameters.
func listParamsFromQuery(r *http.Request) catalog.ListParams {
	return catalog.ListParams{
		Page:   intQuery(r, "page", 0),
		Limit:  intQuery(r, "limit", 0),
		Search: r.URL.Query().Get("search"),
	}
}
