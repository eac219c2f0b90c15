// Movie App Admin - Administrative Console for a Video Streaming Catalog
// Copyright 2026 Rahul O. (rahulonit)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/rahulonit/movie-app-admin

package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/rahulonit/movie-app-admin/internal/audit"
	"github.com/rahulonit/movie-app-admin/internal/upstream"
	"github.com/rahulonit/movie-app-admin/internal/validation"
)

// loginRequest is the console login payload.
type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=1,max=512"`
}

// sessionResponse describes the established session.
type sessionResponse struct {
	User           any        `json:"user"`
	TokenExpiresAt *time.Time `json:"tokenExpiresAt,omitempty"`
}

// Login authenticates against the upstream and establishes the console
// session.
//
// POST /api/v1/auth/login
func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, http.StatusBadRequest, ErrCodeBadRequest, "malformed JSON body", nil)
		return
	}
	if err := validation.ValidateStruct(req); err != nil {
		respondServiceError(w, r, err)
		return
	}

	user, err := h.client.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, upstream.ErrLoginFailed) {
			event := audit.NewEvent(audit.EventTypeLoginFailed, audit.OutcomeFailure)
			event.Actor = audit.Actor{Email: req.Email}
			event.Source = audit.Source{IP: r.RemoteAddr, UserAgent: r.UserAgent()}
			event.Description = "invalid credentials"
			h.recorder.Record(r.Context(), event)

			respondError(w, r, http.StatusUnauthorized, ErrCodeUnauthorized, "invalid email or password", nil)
			return
		}
		respondServiceError(w, r, err)
		return
	}

	event := audit.NewEvent(audit.EventTypeLogin, audit.OutcomeSuccess)
	event.Actor = audit.Actor{ID: user.ID, Email: user.Email, Role: user.Role}
	event.Source = audit.Source{IP: r.RemoteAddr, UserAgent: r.UserAgent()}
	h.recorder.Record(r.Context(), event)

	respondData(w, r, http.StatusOK, h.sessionPayload())
}

// Logout tears the console session down. The upstream notification is best
// effort; local credentials are always cleared.
//
// POST /api/v1/auth/logout
func (h *Handlers) Logout(w http.ResponseWriter, r *http.Request) {
	h.audited(r, audit.EventTypeLogout, audit.OutcomeSuccess, audit.Target{Type: "session"}, "")

	if err := h.client.Logout(r.Context()); err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondData(w, r, http.StatusOK, map[string]bool{"loggedOut": true})
}

// Session reports the current session user and access-token expiry.
//
// GET /api/v1/auth/session
func (h *Handlers) Session(w http.ResponseWriter, r *http.Request) {
	user := sessionUserFromContext(r.Context())
	if user == nil {
		respondError(w, r, http.StatusUnauthorized, ErrCodeUnauthorized, "not signed in", nil)
		return
	}
	respondData(w, r, http.StatusOK, h.sessionPayload())
}

func (h *Handlers) sessionPayload() sessionResponse {
	resp := sessionResponse{}
	if user, err := h.client.SessionUser(); err == nil && user != nil {
		resp.User = user
	}
	if expiresAt, err := h.client.TokenExpiresAt(); err == nil && !expiresAt.IsZero() {
		resp.TokenExpiresAt = &expiresAt
	}
	return resp
}
