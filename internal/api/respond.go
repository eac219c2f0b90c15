// Movie App Admin - Administrative Console for a Video Streaming Catalog
// Copyright 2026 Rahul O. (rahulonit)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/rahulonit/movie-app-admin

package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/goccy/go-json"

	"github.com/rahulonit/movie-app-admin/internal/logging"
	"github.com/rahulonit/movie-app-admin/internal/middleware"
	"github.com/rahulonit/movie-app-admin/internal/upstream"
	"github.com/rahulonit/movie-app-admin/internal/validation"
)

// Envelope is the response wrapper for every console endpoint.
type Envelope struct {
	Status string    `json:"status"` // "ok" or "error"
	Data   any       `json:"data,omitempty"`
	Error  *APIError `json:"error,omitempty"`
}

// APIError carries a machine-readable code alongside the human message.
type APIError struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	Details   any    `json:"details,omitempty"`
	RequestID string `json:"requestId,omitempty"`
}

// Error codes used by the console surface.
const (
	ErrCodeBadRequest      = "BAD_REQUEST"
	ErrCodeUnauthorized    = "UNAUTHORIZED"
	ErrCodeForbidden       = "FORBIDDEN"
	ErrCodeNotFound        = "NOT_FOUND"
	ErrCodeValidation      = "VALIDATION_ERROR"
	ErrCodeUpstreamError   = "UPSTREAM_ERROR"
	ErrCodeUpstreamDown    = "UPSTREAM_UNREACHABLE"
	ErrCodeTooManyRequests = "TOO_MANY_REQUESTS"
	ErrCodeInternal        = "INTERNAL_ERROR"
)

// respondData writes a success envelope.
func respondData(w http.ResponseWriter, r *http.Request, status int, data any) {
	writeEnvelope(w, r.Context(), status, Envelope{Status: "ok", Data: data})
}

// respondError writes an error envelope.
func respondError(w http.ResponseWriter, r *http.Request, status int, code, message string, details any) {
	writeEnvelope(w, r.Context(), status, Envelope{
		Status: "error",
		Error: &APIError{
			Code:      code,
			Message:   message,
			Details:   details,
			RequestID: middleware.GetRequestID(r.Context()),
		},
	})
}

// respondServiceError maps an error from the service layer onto the console
// surface. A 401 that survived the client's refresh-and-replay means the
// session is gone: the UI reads UNAUTHORIZED as "go to the login screen".
func respondServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var validationErr *validation.RequestValidationError
	if errors.As(err, &validationErr) {
		apiErr := validationErr.ToAPIError()
		respondError(w, r, http.StatusBadRequest, apiErr.Code, apiErr.Message, apiErr.Details)
		return
	}

	if upstream.IsUnauthorized(err) {
		respondError(w, r, http.StatusUnauthorized, ErrCodeUnauthorized, "session expired, sign in again", nil)
		return
	}

	var statusErr *upstream.StatusError
	if errors.As(err, &statusErr) {
		status := http.StatusBadGateway
		code := ErrCodeUpstreamError
		switch statusErr.StatusCode {
		case http.StatusNotFound:
			status, code = http.StatusNotFound, ErrCodeNotFound
		case http.StatusBadRequest:
			status, code = http.StatusBadRequest, ErrCodeBadRequest
		case http.StatusConflict:
			status, code = http.StatusConflict, ErrCodeUpstreamError
		case http.StatusTooManyRequests:
			status, code = http.StatusTooManyRequests, ErrCodeTooManyRequests
		}
		respondError(w, r, status, code, statusErr.Message, nil)
		return
	}

	logging.Ctx(r.Context()).Error().Err(err).Str("path", r.URL.Path).Msg("Upstream call failed")
	respondError(w, r, http.StatusBadGateway, ErrCodeUpstreamDown, "upstream API unreachable", nil)
}

func writeEnvelope(w http.ResponseWriter, ctx context.Context, status int, envelope Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(envelope); err != nil {
		logging.Ctx(ctx).Error().Err(err).Msg("Response encoding failed")
	}
}

// decodeJSON reads a bounded JSON body into dst.
func decodeJSON(r *http.Request, dst any) error {
	defer func() { _ = r.Body.Close() }()
	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, 1<<20))
	if err := dec.Decode(dst); err != nil {
		return err
	}
	return nil
}
