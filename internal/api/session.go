// Movie App Admin - Administrative Console for a Video Streaming Catalog
// Copyright 2026 Rahul O. (rahulonit)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/rahulonit/movie-app-admin

package api

import (
	"context"
	"net/http"

	"github.com/rahulonit/movie-app-admin/internal/authz"
	"github.com/rahulonit/movie-app-admin/internal/logging"
	"github.com/rahulonit/movie-app-admin/internal/session"
)

type sessionContextKey string

const sessionUserKey sessionContextKey = "session_user"

// RequireSession rejects requests when no console session is established and
// otherwise stores the session user in the request context. The console holds
// a single operator session; there is no per-request token parsing.
func (h *Handlers) RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, err := h.client.SessionUser()
		if err != nil {
			logging.Ctx(r.Context()).Error().Err(err).Msg("Session lookup failed")
			respondError(w, r, http.StatusInternalServerError, ErrCodeInternal, "session store unavailable", nil)
			return
		}
		if user == nil {
			respondError(w, r, http.StatusUnauthorized, ErrCodeUnauthorized, "not signed in", nil)
			return
		}

		ctx := context.WithValue(r.Context(), sessionUserKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// sessionUserFromContext returns the user stored by RequireSession.
func sessionUserFromContext(ctx context.Context) *session.User {
	if user, ok := ctx.Value(sessionUserKey).(*session.User); ok {
		return user
	}
	return nil
}

// SubjectFromContext adapts the session user for the authorization layer.
func SubjectFromContext(ctx context.Context) (authz.Subject, bool) {
	user := sessionUserFromContext(ctx)
	if user == nil {
		return authz.Subject{}, false
	}
	return authz.Subject{ID: user.ID, Email: user.Email, Role: user.Role}, true
}
