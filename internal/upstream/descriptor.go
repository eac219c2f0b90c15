// Movie App Admin - Administrative Console for a Video Streaming Catalog
// Copyright 2026 Rahul O. (rahulonit)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/rahulonit/movie-app-admin

package upstream

import (
	"fmt"
	"net/http"
	"net/url"

	"github.com/goccy/go-json"
)

// Descriptor describes one outgoing upstream request. The body is buffered
// so the request can be replayed byte-identically after a token refresh.
//
// A descriptor is owned by the call that created it and must not be reused
// across calls: the retried marker is what bounds the replay to at most once.
type Descriptor struct {
	Method string
	Path   string // Path relative to the configured base URL, e.g. "/movies"
	Query  url.Values
	Header http.Header
	Body   []byte

	// retried is set by the client the first time this descriptor 401s.
	// Once set, a second 401 passes through to the caller.
	retried bool
}

// NewDescriptor creates a descriptor for a bodyless request.
func NewDescriptor(method, path string) *Descriptor {
	return &Descriptor{Method: method, Path: path}
}

// NewJSONDescriptor creates a descriptor whose body is the JSON encoding of
// payload. The Content-Type header is set by the client at send time.
func NewJSONDescriptor(method, path string, payload any) (*Descriptor, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode request body for %s %s: %w", method, path, err)
	}
	return &Descriptor{Method: method, Path: path, Body: body}, nil
}

// Retried reports whether this descriptor already went through a
// refresh-and-replay cycle.
func (d *Descriptor) Retried() bool {
	return d.retried
}
