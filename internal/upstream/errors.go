// Movie App Admin - Administrative Console for a Video Streaming Catalog
// Copyright 2026 Rahul O. (rahulonit)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/rahulonit/movie-app-admin

package upstream

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/goccy/go-json"
)

// Client errors
var (
	// ErrNoSession indicates no operator session exists (no stored tokens).
	ErrNoSession = errors.New("no active session")

	// ErrLoginFailed indicates the upstream rejected the login credentials.
	ErrLoginFailed = errors.New("login failed")
)

// StatusError is returned when the upstream answered with a non-2xx status.
// A StatusCode of 401 after a replay means the session could not be
// recovered and the operator must log in again.
type StatusError struct {
	StatusCode int
	Message    string
}

// Error implements the error interface.
func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("upstream returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("upstream returned status %d: %s", e.StatusCode, e.Message)
}

// IsUnauthorized reports whether err is a StatusError carrying HTTP 401.
// Console handlers use this to translate an exhausted auth retry into a
// login redirect.
func IsUnauthorized(err error) bool {
	var se *StatusError
	return errors.As(err, &se) && se.StatusCode == http.StatusUnauthorized
}

// errorBody is the upstream's error payload shape. Either field may carry
// the human-readable message depending on the endpoint.
type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// newStatusError drains the response body and builds a StatusError,
// preferring the structured error message when the body parses as JSON.
func newStatusError(resp *http.Response) *StatusError {
	se := &StatusError{StatusCode: resp.StatusCode}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil || len(body) == 0 {
		return se
	}

	var parsed errorBody
	if err := json.Unmarshal(body, &parsed); err == nil {
		switch {
		case parsed.Message != "":
			se.Message = parsed.Message
		case parsed.Error != "":
			se.Message = parsed.Error
		}
	}
	if se.Message == "" {
		se.Message = string(body)
	}
	return se
}
