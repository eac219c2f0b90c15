// Movie App Admin - Administrative Console for a Video Streaming Catalog
// Copyright 2026 Rahul O. (rahulonit)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/rahulonit/movie-app-admin

package upstream

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/goccy/go-json"
)

// envelope is the upstream's standard response wrapper.
type envelope[T any] struct {
	Data    T      `json:"data"`
	Message string `json:"message,omitempty"`
}

// Get performs GET path and decodes the enveloped response data.
func Get[T any](ctx context.Context, c *Client, path string, query url.Values) (T, error) {
	return doJSON[T](ctx, c, &Descriptor{Method: http.MethodGet, Path: path, Query: query})
}

// Post performs POST path with a JSON body and decodes the response data.
func Post[T any](ctx context.Context, c *Client, path string, payload any) (T, error) {
	var zero T
	d, err := NewJSONDescriptor(http.MethodPost, path, payload)
	if err != nil {
		return zero, err
	}
	return doJSON[T](ctx, c, d)
}

// Put performs PUT path with a JSON body and decodes the response data.
func Put[T any](ctx context.Context, c *Client, path string, payload any) (T, error) {
	var zero T
	d, err := NewJSONDescriptor(http.MethodPut, path, payload)
	if err != nil {
		return zero, err
	}
	return doJSON[T](ctx, c, d)
}

// Patch performs PATCH path with a JSON body and decodes the response data.
func Patch[T any](ctx context.Context, c *Client, path string, payload any) (T, error) {
	var zero T
	d, err := NewJSONDescriptor(http.MethodPatch, path, payload)
	if err != nil {
		return zero, err
	}
	return doJSON[T](ctx, c, d)
}

// Delete performs DELETE path. The response body, if any, is discarded.
func Delete(ctx context.Context, c *Client, path string) error {
	resp, err := c.Do(ctx, NewDescriptor(http.MethodDelete, path))
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return newStatusError(resp)
	}
	return nil
}

// GetJSON performs GET path and decodes the enveloped response data into
// out. Non-generic counterpart of Get for callers that hold the client
// behind an interface.
func (c *Client) GetJSON(ctx context.Context, path string, query url.Values, out any) error {
	raw, err := Get[json.RawMessage](ctx, c, path, query)
	if err != nil {
		return err
	}
	if len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode upstream GET %s data: %w", path, err)
	}
	return nil
}

// doJSON executes the descriptor and decodes a 2xx enveloped response into T.
// Non-2xx statuses become a *StatusError.
func doJSON[T any](ctx context.Context, c *Client, d *Descriptor) (T, error) {
	var zero T

	resp, err := c.Do(ctx, d)
	if err != nil {
		return zero, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return zero, newStatusError(resp)
	}

	var env envelope[T]
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return zero, fmt.Errorf("decode upstream %s %s response: %w", d.Method, d.Path, err)
	}
	return env.Data, nil
}
