// Movie App Admin - Administrative Console for a Video Streaming Catalog
// Copyright 2026 Rahul O. (rahulonit)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/rahulonit/movie-app-admin

package authz

import (
	"context"
	"net/http"

	"github.com/goccy/go-json"

	"github.com/rahulonit/movie-app-admin/internal/audit"
	"github.com/rahulonit/movie-app-admin/internal/logging"
)

// Subject is the identity a request acts as. The API layer resolves it from
// the stored console session.
type Subject struct {
	ID    string
	Email string
	Role  string
}

// SubjectFunc extracts the acting subject from a request context.
// ok is false when no session is established.
type SubjectFunc func(ctx context.Context) (Subject, bool)

// Middleware guards route groups with Casbin decisions.
type Middleware struct {
	enforcer *Enforcer
	subject  SubjectFunc
	recorder *audit.Recorder
}

// NewMiddleware creates the authorization middleware. recorder may be nil.
func NewMiddleware(enforcer *Enforcer, subject SubjectFunc, recorder *audit.Recorder) *Middleware {
	return &Middleware{enforcer: enforcer, subject: subject, recorder: recorder}
}

// Require returns middleware enforcing that the session role may perform
// action on object. Denials are audited.
func (m *Middleware) Require(object, action string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			subject, ok := m.subject(r.Context())
			if !ok {
				writeForbidden(w, "no authenticated session")
				return
			}

			allowed, err := m.enforcer.EnforceRole(subject.Role, object, action)
			if err != nil {
				logging.Error().Err(err).
					Str("object", object).
					Str("action", action).
					Msg("Authorization check failed")
				writeError(w, http.StatusInternalServerError, "AUTHZ_ERROR", "authorization check failed")
				return
			}

			if !allowed {
				m.recordDenial(r, subject, object, action)
				writeForbidden(w, "insufficient permissions")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func (m *Middleware) recordDenial(r *http.Request, subject Subject, object, action string) {
	logging.Warn().
		Str("user_id", subject.ID).
		Str("role", subject.Role).
		Str("object", object).
		Str("action", action).
		Str("path", r.URL.Path).
		Msg("Access denied")

	event := audit.NewEvent(audit.EventTypeAccessDenied, audit.OutcomeDenied)
	event.Actor = audit.Actor{ID: subject.ID, Email: subject.Email, Role: subject.Role}
	event.Target = audit.Target{Type: object}
	event.Source = audit.Source{IP: r.RemoteAddr, UserAgent: r.UserAgent()}
	event.Description = r.Method + " " + r.URL.Path
	m.recorder.Record(r.Context(), event)
}

func writeForbidden(w http.ResponseWriter, message string) {
	writeError(w, http.StatusForbidden, "FORBIDDEN", message)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"status": "error",
		"error":  map[string]string{"code": code, "message": message},
	})
}
