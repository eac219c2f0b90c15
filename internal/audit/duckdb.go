// Movie App Admin - Administrative Console for a Video Streaming Catalog
// Copyright 2026 Rahul O. (rahulonit)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/rahulonit/movie-app-admin

package audit

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/goccy/go-json"

	"github.com/rahulonit/movie-app-admin/internal/logging"
	"github.com/rahulonit/movie-app-admin/internal/store"
)

const auditSchema = `
CREATE TABLE IF NOT EXISTS audit_events (
	id VARCHAR PRIMARY KEY,
	timestamp TIMESTAMP NOT NULL,
	type VARCHAR NOT NULL,
	severity VARCHAR NOT NULL,
	outcome VARCHAR NOT NULL,
	actor_id VARCHAR,
	actor_email VARCHAR,
	actor_role VARCHAR,
	target_type VARCHAR,
	target_id VARCHAR,
	target_name VARCHAR,
	source_ip VARCHAR,
	source_user_agent VARCHAR,
	description VARCHAR,
	request_id VARCHAR,
	metadata JSON,
	created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_audit_timestamp ON audit_events(timestamp);
CREATE INDEX IF NOT EXISTS idx_audit_type ON audit_events(type);
CREATE INDEX IF NOT EXISTS idx_audit_actor ON audit_events(actor_id)
`

const auditColumns = `id, timestamp, type, severity, outcome,
	actor_id, actor_email, actor_role,
	target_type, target_id, target_name,
	source_ip, source_user_agent,
	description, request_id, CAST(metadata AS VARCHAR)`

// DuckDBStore implements Store on the shared console database.
type DuckDBStore struct {
	db *sql.DB
	mu sync.RWMutex
}

// NewDuckDBStore creates the audit store and its schema.
func NewDuckDBStore(db *store.DB) (*DuckDBStore, error) {
	s := &DuckDBStore{db: db.Conn()}

	for _, stmt := range strings.Split(auditSchema, ";") {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}
		if _, err := s.db.Exec(stmt); err != nil {
			return nil, fmt.Errorf("create audit schema: %w", err)
		}
	}
	return s, nil
}

// Save persists one event. Missing ID and timestamp are filled in so callers
// can hand-build events in tests.
func (s *DuckDBStore) Save(ctx context.Context, event *Event) error {
	if event == nil {
		return fmt.Errorf("nil audit event")
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}

	metadata := "{}"
	if len(event.Metadata) > 0 {
		raw, err := json.Marshal(event.Metadata)
		if err != nil {
			return fmt.Errorf("marshal audit metadata: %w", err)
		}
		metadata = string(raw)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO audit_events
			(id, timestamp, type, severity, outcome,
			 actor_id, actor_email, actor_role,
			 target_type, target_id, target_name,
			 source_ip, source_user_agent,
			 description, request_id, metadata)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		event.ID, event.Timestamp, string(event.Type), string(event.Severity), string(event.Outcome),
		event.Actor.ID, event.Actor.Email, event.Actor.Role,
		event.Target.Type, event.Target.ID, event.Target.Name,
		event.Source.IP, event.Source.UserAgent,
		event.Description, event.RequestID, metadata,
	)
	if err != nil {
		return fmt.Errorf("save audit event: %w", err)
	}
	return nil
}

// Get retrieves an event by ID.
func (s *DuckDBStore) Get(ctx context.Context, id string) (*Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx,
		`SELECT `+auditColumns+` FROM audit_events WHERE id = ?`, id)

	event, err := scanEvent(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("audit event not found: %s", id)
		}
		return nil, fmt.Errorf("get audit event: %w", err)
	}
	return event, nil
}

// Query retrieves events matching the filter.
func (s *DuckDBStore) Query(ctx context.Context, filter QueryFilter) ([]Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query, args := buildQuery(filter, false)
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query audit events: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var events []Event
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan audit event: %w", err)
		}
		events = append(events, *event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate audit events: %w", err)
	}
	return events, nil
}

// Count returns the number of events matching the filter.
func (s *DuckDBStore) Count(ctx context.Context, filter QueryFilter) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query, args := buildQuery(filter, true)

	var count int64
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("count audit events: %w", err)
	}
	return count, nil
}

// Delete removes events older than the given time.
func (s *DuckDBStore) Delete(ctx context.Context, olderThan time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	result, err := s.db.ExecContext(ctx,
		`DELETE FROM audit_events WHERE timestamp < ?`, olderThan)
	if err != nil {
		return 0, fmt.Errorf("delete old audit events: %w", err)
	}
	count, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("deleted audit event count: %w", err)
	}
	if count > 0 {
		logging.Info().Int64("deleted", count).Time("older_than", olderThan).Msg("Purged old audit events")
	}
	return count, nil
}

// Stats summarizes the audit trail.
func (s *DuckDBStore) Stats(ctx context.Context) (*Stats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := &Stats{}

	if err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM audit_events`).Scan(&stats.TotalEvents); err != nil {
		return nil, fmt.Errorf("total audit count: %w", err)
	}

	var err error
	if stats.EventsByType, err = s.countByColumn(ctx, "type"); err != nil {
		return nil, err
	}
	if stats.EventsBySeverity, err = s.countByColumn(ctx, "severity"); err != nil {
		return nil, err
	}
	if stats.EventsByOutcome, err = s.countByColumn(ctx, "outcome"); err != nil {
		return nil, err
	}

	var oldest, newest sql.NullTime
	if err := s.db.QueryRowContext(ctx,
		`SELECT MIN(timestamp), MAX(timestamp) FROM audit_events`).Scan(&oldest, &newest); err == nil {
		if oldest.Valid {
			stats.OldestEvent = &oldest.Time
		}
		if newest.Valid {
			stats.NewestEvent = &newest.Time
		}
	}
	return stats, nil
}

// Close is a no-op; the shared database handle is owned by internal/store.
func (s *DuckDBStore) Close() error {
	return nil
}

func (s *DuckDBStore) countByColumn(ctx context.Context, column string) (map[string]int64, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+column+`, COUNT(*) FROM audit_events GROUP BY `+column)
	if err != nil {
		return nil, fmt.Errorf("count audit events by %s: %w", column, err)
	}
	defer func() { _ = rows.Close() }()

	counts := make(map[string]int64)
	for rows.Next() {
		var key string
		var n int64
		if err := rows.Scan(&key, &n); err != nil {
			return nil, fmt.Errorf("scan %s count: %w", column, err)
		}
		counts[key] = n
	}
	return counts, rows.Err()
}

// buildQuery constructs a SELECT (or COUNT) with WHERE clauses derived from
// the filter. Column names are fixed strings; only values are parameterized.
func buildQuery(filter QueryFilter, countOnly bool) (string, []any) {
	var conditions []string
	var args []any

	appendIn := func(column string, values []string) {
		if len(values) == 0 {
			return
		}
		placeholders := make([]string, len(values))
		for i, v := range values {
			placeholders[i] = "?"
			args = append(args, v)
		}
		conditions = append(conditions, fmt.Sprintf("%s IN (%s)", column, strings.Join(placeholders, ", ")))
	}
	appendEq := func(column, value string) {
		if value == "" {
			return
		}
		conditions = append(conditions, column+" = ?")
		args = append(args, value)
	}

	appendIn("type", toStrings(filter.Types))
	appendIn("severity", toStrings(filter.Severities))
	appendIn("outcome", toStrings(filter.Outcomes))
	appendEq("actor_id", filter.ActorID)
	appendEq("target_type", filter.TargetType)
	appendEq("target_id", filter.TargetID)
	appendEq("source_ip", filter.SourceIP)
	appendEq("request_id", filter.RequestID)

	if filter.StartTime != nil {
		conditions = append(conditions, "timestamp >= ?")
		args = append(args, *filter.StartTime)
	}
	if filter.EndTime != nil {
		conditions = append(conditions, "timestamp <= ?")
		args = append(args, *filter.EndTime)
	}

	query := `SELECT ` + auditColumns + ` FROM audit_events`
	if countOnly {
		query = `SELECT COUNT(*) FROM audit_events`
	}
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	if !countOnly {
		orderBy := filter.OrderBy
		switch orderBy {
		case "timestamp", "type", "severity", "outcome":
		default:
			orderBy = "timestamp"
		}
		direction := "ASC"
		if filter.OrderDesc {
			direction = "DESC"
		}
		query += fmt.Sprintf(" ORDER BY %s %s", orderBy, direction)
		if filter.Limit > 0 {
			query += fmt.Sprintf(" LIMIT %d", filter.Limit)
		}
		if filter.Offset > 0 {
			query += fmt.Sprintf(" OFFSET %d", filter.Offset)
		}
	}
	return query, args
}

func toStrings[T ~string](values []T) []string {
	if len(values) == 0 {
		return nil
	}
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = string(v)
	}
	return out
}

// rowScanner covers *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanEvent(row rowScanner) (*Event, error) {
	var event Event
	var eventType, severity, outcome string
	var actorID, actorEmail, actorRole sql.NullString
	var targetType, targetID, targetName sql.NullString
	var sourceIP, sourceUA, description, requestID sql.NullString
	var metadata sql.NullString

	err := row.Scan(
		&event.ID, &event.Timestamp, &eventType, &severity, &outcome,
		&actorID, &actorEmail, &actorRole,
		&targetType, &targetID, &targetName,
		&sourceIP, &sourceUA,
		&description, &requestID, &metadata,
	)
	if err != nil {
		return nil, err
	}

	event.Type = EventType(eventType)
	event.Severity = Severity(severity)
	event.Outcome = Outcome(outcome)
	event.Actor = Actor{ID: actorID.String, Email: actorEmail.String, Role: actorRole.String}
	event.Target = Target{Type: targetType.String, ID: targetID.String, Name: targetName.String}
	event.Source = Source{IP: sourceIP.String, UserAgent: sourceUA.String}
	event.Description = description.String
	event.RequestID = requestID.String

	if metadata.Valid && metadata.String != "" && metadata.String != "{}" {
		if err := json.Unmarshal([]byte(metadata.String), &event.Metadata); err != nil {
			return nil, fmt.Errorf("unmarshal audit metadata: %w", err)
		}
	}
	return &event, nil
}
