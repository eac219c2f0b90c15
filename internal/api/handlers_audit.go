// Movie App Admin - Administrative Console for a Video Streaming Catalog
// Copyright 2026 Rahul O. (rahulonit)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/rahulonit/movie-app-admin

package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/rahulonit/movie-app-admin/internal/audit"
)

// auditEventList pairs a page of events with its total for the filter.
type auditEventList struct {
	Events []audit.Event `json:"events"`
	Total  int64         `json:"total"`
	Limit  int           `json:"limit"`
	Offset int           `json:"offset"`
}

// ListAuditEvents queries the local audit trail.
//
// GET /api/v1/audit/events
func (h *Handlers) ListAuditEvents(w http.ResponseWriter, r *http.Request) {
	if h.auditStore == nil {
		respondError(w, r, http.StatusNotFound, ErrCodeNotFound, "audit trail is disabled", nil)
		return
	}

	filter, err := auditFilterFromQuery(r)
	if err != nil {
		respondError(w, r, http.StatusBadRequest, ErrCodeBadRequest, err.Error(), nil)
		return
	}

	events, err := h.auditStore.Query(r.Context(), filter)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	total, err := h.auditStore.Count(r.Context(), filter)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	respondData(w, r, http.StatusOK, auditEventList{
		Events: events,
		Total:  total,
		Limit:  filter.Limit,
		Offset: filter.Offset,
	})
}

// GetAuditEvent returns one audit event by ID.
//
// GET /api/v1/audit/events/{id}
func (h *Handlers) GetAuditEvent(w http.ResponseWriter, r *http.Request) {
	if h.auditStore == nil {
		respondError(w, r, http.StatusNotFound, ErrCodeNotFound, "audit trail is disabled", nil)
		return
	}

	event, err := h.auditStore.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, r, http.StatusNotFound, ErrCodeNotFound, "audit event not found", nil)
		return
	}
	respondData(w, r, http.StatusOK, event)
}

// AuditStats summarizes the audit trail.
//
// GET /api/v1/audit/stats
func (h *Handlers) AuditStats(w http.ResponseWriter, r *http.Request) {
	if h.auditStore == nil {
		respondError(w, r, http.StatusNotFound, ErrCodeNotFound, "audit trail is disabled", nil)
		return
	}

	stats, err := h.auditStore.Stats(r.Context())
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondData(w, r, http.StatusOK, stats)
}

// auditFilterFromQuery builds a query filter from the request. Comma lists
// are accepted for type/severity/outcome.
func auditFilterFromQuery(r *http.Request) (audit.QueryFilter, error) {
	filter := audit.DefaultQueryFilter()
	q := r.URL.Query()

	for _, raw := range splitList(q.Get("type")) {
		filter.Types = append(filter.Types, audit.EventType(raw))
	}
	for _, raw := range splitList(q.Get("severity")) {
		filter.Severities = append(filter.Severities, audit.Severity(raw))
	}
	for _, raw := range splitList(q.Get("outcome")) {
		filter.Outcomes = append(filter.Outcomes, audit.Outcome(raw))
	}

	filter.ActorID = q.Get("actorId")
	filter.TargetType = q.Get("targetType")
	filter.TargetID = q.Get("targetId")
	filter.SourceIP = q.Get("sourceIp")
	filter.RequestID = q.Get("requestId")

	if raw := q.Get("from"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return filter, err
		}
		filter.StartTime = &parsed
	}
	if raw := q.Get("to"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return filter, err
		}
		filter.EndTime = &parsed
	}

	if limit := intQuery(r, "limit", filter.Limit); limit > 0 && limit <= 1000 {
		filter.Limit = limit
	}
	if offset := intQuery(r, "offset", 0); offset > 0 {
		filter.Offset = offset
	}
	if orderBy := q.Get("orderBy"); orderBy != "" {
		filter.OrderBy = orderBy
	}
	if q.Get("order") == "asc" {
		filter.OrderDesc = false
	}

	return filter, nil
}

func splitList(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
