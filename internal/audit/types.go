// Movie App Admin - Administrative Console for a Video Streaming Catalog
// Copyright 2026 Rahul O. (rahulonit)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/rahulonit/movie-app-admin

// Package audit records who did what through the console. Every state-changing
// operation and every authentication event produces an Event that flows over
// the in-process bus to the DuckDB trail and the live websocket feed.
package audit

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// EventType classifies an audit event.
type EventType string

// Authentication events.
const (
	EventTypeLogin          EventType = "auth.login"
	EventTypeLoginFailed    EventType = "auth.login_failed"
	EventTypeLogout         EventType = "auth.logout"
	EventTypeTokenRefresh   EventType = "auth.refresh"
	EventTypeSessionExpired EventType = "auth.session_expired"
)

// Catalog events.
const (
	EventTypeMovieCreated   EventType = "catalog.movie_created"
	EventTypeMovieUpdated   EventType = "catalog.movie_updated"
	EventTypeMovieDeleted   EventType = "catalog.movie_deleted"
	EventTypeSeriesCreated  EventType = "catalog.series_created"
	EventTypeSeriesUpdated  EventType = "catalog.series_updated"
	EventTypeSeriesDeleted  EventType = "catalog.series_deleted"
	EventTypeSeasonCreated  EventType = "catalog.season_created"
	EventTypeSeasonUpdated  EventType = "catalog.season_updated"
	EventTypeSeasonDeleted  EventType = "catalog.season_deleted"
	EventTypeEpisodeCreated EventType = "catalog.episode_created"
	EventTypeEpisodeUpdated EventType = "catalog.episode_updated"
	EventTypeEpisodeDeleted EventType = "catalog.episode_deleted"
)

// Account and access-control events.
const (
	EventTypeSubscriptionChanged EventType = "account.subscription_changed"
	EventTypeAccessDenied        EventType = "authz.denied"
)

// Severity indicates how notable an event is.
type Severity string

const (
	SeverityInfo     Severity = "info"
	SeverityWarning  Severity = "warning"
	SeverityCritical Severity = "critical"
)

// Outcome records whether the audited operation succeeded.
type Outcome string

const (
	OutcomeSuccess Outcome = "success"
	OutcomeFailure Outcome = "failure"
	OutcomeDenied  Outcome = "denied"
)

// Actor identifies who performed the operation. For unauthenticated events
// (a failed login) only the attempted email is known.
type Actor struct {
	ID    string `json:"id,omitempty"`
	Email string `json:"email,omitempty"`
	Role  string `json:"role,omitempty"`
}

// Target identifies what the operation acted on.
type Target struct {
	Type string `json:"type,omitempty"` // movie, series, season, episode, account, session
	ID   string `json:"id,omitempty"`
	Name string `json:"name,omitempty"`
}

// Source identifies where the request came from.
type Source struct {
	IP        string `json:"ip,omitempty"`
	UserAgent string `json:"userAgent,omitempty"`
}

// Event is one entry in the audit trail.
type Event struct {
	ID          string            `json:"id"`
	Timestamp   time.Time         `json:"timestamp"`
	Type        EventType         `json:"type"`
	Severity    Severity          `json:"severity"`
	Outcome     Outcome           `json:"outcome"`
	Actor       Actor             `json:"actor"`
	Target      Target            `json:"target"`
	Source      Source            `json:"source"`
	Description string            `json:"description,omitempty"`
	RequestID   string            `json:"requestId,omitempty"`
	Metadata    map[string]string `json:"metadata,omitempty"`
}

// NewEvent builds an event with ID, timestamp, and severity defaults filled.
func NewEvent(eventType EventType, outcome Outcome) *Event {
	severity := SeverityInfo
	switch {
	case outcome == OutcomeDenied:
		severity = SeverityWarning
	case outcome == OutcomeFailure:
		severity = SeverityWarning
	case eventType == EventTypeSessionExpired:
		severity = SeverityWarning
	}
	return &Event{
		ID:        uuid.New().String(),
		Timestamp: time.Now().UTC(),
		Type:      eventType,
		Severity:  severity,
		Outcome:   outcome,
	}
}

// Store persists audit events.
type Store interface {
	// Save persists one event.
	Save(ctx context.Context, event *Event) error

	// Get retrieves an event by ID.
	Get(ctx context.Context, id string) (*Event, error)

	// Query retrieves events matching the filter, newest first by default.
	Query(ctx context.Context, filter QueryFilter) ([]Event, error)

	// Count returns the number of events matching the filter.
	Count(ctx context.Context, filter QueryFilter) (int64, error)

	// Delete removes events older than the given time and reports how many.
	Delete(ctx context.Context, olderThan time.Time) (int64, error)

	// Stats summarizes the trail for the audit dashboard.
	Stats(ctx context.Context) (*Stats, error)

	// Close releases store resources.
	Close() error
}

// QueryFilter narrows an audit query. Zero values mean "no constraint".
type QueryFilter struct {
	Types      []EventType
	Severities []Severity
	Outcomes   []Outcome
	ActorID    string
	TargetType string
	TargetID   string
	SourceIP   string
	RequestID  string
	StartTime  *time.Time
	EndTime    *time.Time
	Limit      int
	Offset     int
	OrderBy    string
	OrderDesc  bool
}

// DefaultQueryFilter returns the filter used when the caller specifies
// nothing: the 100 most recent events.
func DefaultQueryFilter() QueryFilter {
	return QueryFilter{
		Limit:     100,
		OrderBy:   "timestamp",
		OrderDesc: true,
	}
}

// Stats summarizes the audit trail.
type Stats struct {
	TotalEvents      int64            `json:"totalEvents"`
	EventsByType     map[string]int64 `json:"eventsByType"`
	EventsBySeverity map[string]int64 `json:"eventsBySeverity"`
	EventsByOutcome  map[string]int64 `json:"eventsByOutcome"`
	OldestEvent      *time.Time       `json:"oldestEvent,omitempty"`
	NewestEvent      *time.Time       `json:"newestEvent,omitempty"`
}
