// Movie App Admin - Administrative Console for a Video Streaming Catalog
// Copyright 2026 Rahul O. (rahulonit)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/rahulonit/movie-app-admin

package upstream

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/rahulonit/movie-app-admin/internal/config"
	"github.com/rahulonit/movie-app-admin/internal/logging"
	"github.com/rahulonit/movie-app-admin/internal/metrics"
	"github.com/rahulonit/movie-app-admin/internal/session"
)

// Client is the authenticated HTTP client for the upstream Movie App API.
// It owns the credential store: no other component reads or writes the
// stored tokens.
type Client struct {
	baseURL        string
	httpClient     *http.Client
	sessions       *session.Manager
	limiter        *rate.Limiter
	refreshTimeout time.Duration
	breaker        *breaker

	refresher refreshCoordinator
}

// NewClient creates an upstream client from configuration. The session
// manager becomes owned by the client.
func NewClient(cfg config.UpstreamConfig, sessions *session.Manager) *Client {
	c := &Client{
		baseURL: strings.TrimSuffix(cfg.BaseURL, "/"),
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		sessions:       sessions,
		refreshTimeout: cfg.RefreshTimeout,
	}

	if cfg.RequestsPerSecond > 0 {
		burst := cfg.Burst
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), burst)
	}

	if cfg.Breaker.Enabled {
		c.breaker = newBreaker("upstream-api", cfg.Breaker)
	}

	return c
}

// BaseURL returns the configured upstream base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Sessions returns the credential manager for read-only session queries
// (current user, token expiry). Mutation stays inside the client.
func (c *Client) Sessions() *session.Manager {
	return c.sessions
}

// Do performs the described request against the upstream API.
//
// The stored access token, when present, is attached as a bearer credential.
// On a 401 the client refreshes the token (single-flight across concurrent
// callers) and replays the request exactly once; if no new token could be
// obtained the original 401 response is returned unchanged. Transport errors
// are returned verbatim and never retried.
//
// The caller owns the response body.
func (c *Client) Do(ctx context.Context, d *Descriptor) (*http.Response, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("upstream rate limiter: %w", err)
		}
	}

	resp, err := c.send(ctx, d)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusUnauthorized || d.retried {
		return resp, nil
	}

	// First 401 for this descriptor: refresh once, then replay once.
	d.retried = true

	token, err := c.refreshAccessToken(ctx)
	if err != nil {
		// Waiter context canceled while the shared refresh was running.
		_ = resp.Body.Close()
		return nil, err
	}
	if token == "" {
		// Refresh yielded no token; the original 401 propagates.
		return resp, nil
	}

	_ = resp.Body.Close()
	metrics.UpstreamReplaysTotal.Inc()
	logging.Debug().
		Str("method", d.Method).
		Str("path", d.Path).
		Msg("Replaying request after token refresh")

	return c.send(ctx, d)
}

// send performs one transmission of the descriptor: build the request,
// attach the current bearer token, and execute through the breaker.
func (c *Client) send(ctx context.Context, d *Descriptor) (*http.Response, error) {
	req, err := c.buildRequest(ctx, d)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	resp, err := c.execute(req)
	elapsed := time.Since(start)

	metrics.UpstreamRequestDuration.WithLabelValues(d.Method, d.Path).Observe(elapsed.Seconds())
	if err != nil {
		metrics.UpstreamRequestErrors.WithLabelValues(d.Method, d.Path).Inc()
		return nil, fmt.Errorf("upstream %s %s: %w", d.Method, d.Path, err)
	}
	metrics.UpstreamRequestsTotal.WithLabelValues(d.Method, d.Path, strconv.Itoa(resp.StatusCode)).Inc()

	return resp, nil
}

// buildRequest assembles the http.Request for one transmission. The body is
// taken from the descriptor's buffered bytes so a replay resends the exact
// same payload.
func (c *Client) buildRequest(ctx context.Context, d *Descriptor) (*http.Request, error) {
	reqURL := c.baseURL + d.Path
	if len(d.Query) > 0 {
		reqURL += "?" + d.Query.Encode()
	}

	var body *bytes.Reader
	if d.Body != nil {
		body = bytes.NewReader(d.Body)
	} else {
		body = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, d.Method, reqURL, body)
	if err != nil {
		return nil, fmt.Errorf("create upstream request %s %s: %w", d.Method, d.Path, err)
	}

	for key, values := range d.Header {
		for _, value := range values {
			req.Header.Add(key, value)
		}
	}
	if d.Body != nil && req.Header.Get("Content-Type") == "" {
		req.Header.Set("Content-Type", "application/json")
	}

	// Request interceptor: attach the stored access token when present.
	// An absent token sends the request bare; the upstream answers 401.
	token, err := c.sessions.AccessToken()
	if err != nil {
		logging.Warn().Err(err).Msg("Failed to read access token from session store")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	return req, nil
}

// execute runs the request through the circuit breaker when one is
// configured. Only transport failures count against the breaker; an HTTP
// error status is an upstream answer, not an availability signal.
func (c *Client) execute(req *http.Request) (*http.Response, error) {
	if c.breaker == nil {
		return c.httpClient.Do(req)
	}
	return c.breaker.execute(func() (*http.Response, error) {
		return c.httpClient.Do(req)
	})
}
