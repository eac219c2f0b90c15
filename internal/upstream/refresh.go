// Movie App Admin - Administrative Console for a Video Streaming Catalog
// Copyright 2026 Rahul O. (rahulonit)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/rahulonit/movie-app-admin

package upstream

import (
	"bytes"
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/goccy/go-json"

	"github.com/rahulonit/movie-app-admin/internal/logging"
	"github.com/rahulonit/movie-app-admin/internal/metrics"
)

// refreshCoordinator is the single-flight state for token refreshes. At most
// one refresh call is in flight process-wide: the first 401 starts one, every
// concurrent 401 waits on the same pending result.
type refreshCoordinator struct {
	mu      sync.Mutex
	pending *refreshResult
}

// refreshResult is the shared outcome of one refresh cycle. token and its
// companion fields are written exactly once, before done is closed, so
// waiters may read them without further synchronization.
type refreshResult struct {
	done  chan struct{}
	token string // "" when the refresh yielded no token
}

// refreshRequest is the payload of POST /auth/refresh.
type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// refreshResponse is the success shape of POST /auth/refresh. The rotated
// refresh token is optional; when present it replaces the stored one.
type refreshResponse struct {
	Data struct {
		AccessToken  string `json:"accessToken"`
		RefreshToken string `json:"refreshToken"`
	} `json:"data"`
}

// refreshAccessToken returns a fresh access token, or "" when the session
// could not be recovered. Concurrent callers share a single refresh call.
//
// The returned error is non-nil only when ctx was canceled while waiting on
// a refresh started by another caller; the refresh itself keeps running for
// the remaining waiters.
func (c *Client) refreshAccessToken(ctx context.Context) (string, error) {
	c.refresher.mu.Lock()
	if r := c.refresher.pending; r != nil {
		c.refresher.mu.Unlock()
		metrics.SingleFlightWaitsTotal.Inc()

		select {
		case <-r.done:
			return r.token, nil
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}

	r := &refreshResult{done: make(chan struct{})}
	c.refresher.pending = r
	c.refresher.mu.Unlock()

	r.token = c.doRefresh()

	// Settle: clear the pending slot before waking waiters so the next 401
	// starts a fresh cycle instead of consuming a stale outcome.
	c.refresher.mu.Lock()
	c.refresher.pending = nil
	c.refresher.mu.Unlock()
	close(r.done)

	return r.token, nil
}

// doRefresh performs one refresh call. It runs under its own detached
// deadline rather than any caller's context: a canceled caller must not be
// able to abort the refresh other waiters depend on.
//
// A failed refresh terminates the session: all three stored credential
// entries are cleared so the surrounding application redirects to login.
func (c *Client) doRefresh() string {
	metrics.RefreshAttemptsTotal.Inc()
	start := time.Now()
	defer func() {
		metrics.RefreshDuration.Observe(time.Since(start).Seconds())
	}()

	refreshToken, err := c.sessions.RefreshToken()
	if err != nil {
		logging.Warn().Err(err).Msg("Failed to read refresh token from session store")
	}
	if refreshToken == "" {
		// Nothing to exchange. The stores are already empty, so there is no
		// session to terminate.
		metrics.RefreshFailuresTotal.Inc()
		logging.Debug().Msg("Token refresh skipped: no refresh token stored")
		return ""
	}

	ctx, cancel := context.WithTimeout(context.Background(), c.refreshTimeout)
	defer cancel()

	payload, err := json.Marshal(refreshRequest{RefreshToken: refreshToken})
	if err != nil {
		c.terminateSession("encode refresh payload", err)
		return ""
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/auth/refresh", bytes.NewReader(payload))
	if err != nil {
		c.terminateSession("create refresh request", err)
		return ""
	}
	req.Header.Set("Content-Type", "application/json")

	// The refresh call bypasses the breaker: when the breaker is open the
	// refresh is the recovery path and must stay available.
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.terminateSession("refresh request failed", err)
		return ""
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		c.terminateSession("refresh rejected", newStatusError(resp))
		return ""
	}

	var parsed refreshResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		c.terminateSession("decode refresh response", err)
		return ""
	}
	if parsed.Data.AccessToken == "" {
		c.terminateSession("refresh response missing access token", nil)
		return ""
	}

	if err := c.sessions.SetAccessToken(parsed.Data.AccessToken); err != nil {
		c.terminateSession("persist access token", err)
		return ""
	}
	if parsed.Data.RefreshToken != "" {
		if err := c.sessions.SetRefreshToken(parsed.Data.RefreshToken); err != nil {
			logging.Warn().Err(err).Msg("Failed to persist rotated refresh token")
		}
	}

	metrics.RefreshSuccessTotal.Inc()
	logging.Debug().
		Bool("rotated", parsed.Data.RefreshToken != "").
		Dur("elapsed", time.Since(start)).
		Msg("Access token refreshed")

	return parsed.Data.AccessToken
}

// terminateSession clears the stored credentials after a failed refresh.
func (c *Client) terminateSession(reason string, err error) {
	metrics.RefreshFailuresTotal.Inc()
	logging.Warn().Err(err).Str("reason", reason).Msg("Token refresh failed, terminating session")

	if clearErr := c.sessions.Clear(); clearErr != nil {
		logging.Error().Err(clearErr).Msg("Failed to clear session after refresh failure")
	}
}
