// Movie App Admin - Administrative Console for a Video Streaming Catalog
// Copyright 2026 Rahul O. (rahulonit)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/rahulonit/movie-app-admin

package upstream

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/goccy/go-json"
	"github.com/golang-jwt/jwt/v5"

	"github.com/rahulonit/movie-app-admin/internal/logging"
	"github.com/rahulonit/movie-app-admin/internal/session"
)

// loginRequest is the payload of POST /auth/login.
type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// loginResponse is the success shape of POST /auth/login.
type loginResponse struct {
	Data struct {
		AccessToken  string       `json:"accessToken"`
		RefreshToken string       `json:"refreshToken"`
		User         session.User `json:"user"`
	} `json:"data"`
}

// Login authenticates against the upstream and persists the resulting
// session: access token, refresh token, and session user, all together.
func (c *Client) Login(ctx context.Context, email, password string) (*session.User, error) {
	d, err := NewJSONDescriptor(http.MethodPost, "/auth/login", loginRequest{Email: email, Password: password})
	if err != nil {
		return nil, err
	}

	resp, err := c.Do(ctx, d)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		se := newStatusError(resp)
		if se.StatusCode == http.StatusUnauthorized {
			return nil, fmt.Errorf("%w: %s", ErrLoginFailed, se.Message)
		}
		return nil, se
	}

	var parsed loginResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode login response: %w", err)
	}
	if parsed.Data.AccessToken == "" || parsed.Data.RefreshToken == "" {
		return nil, fmt.Errorf("login response missing tokens")
	}

	if err := c.sessions.SetSession(parsed.Data.AccessToken, parsed.Data.RefreshToken, &parsed.Data.User); err != nil {
		return nil, fmt.Errorf("persist session: %w", err)
	}

	logging.Info().
		Str("user_id", parsed.Data.User.ID).
		Str("role", parsed.Data.User.Role).
		Msg("Operator logged in")

	return &parsed.Data.User, nil
}

// Logout notifies the upstream (best effort) and clears the local session.
func (c *Client) Logout(ctx context.Context) error {
	d := NewDescriptor(http.MethodPost, "/auth/logout")
	if resp, err := c.Do(ctx, d); err != nil {
		logging.Debug().Err(err).Msg("Upstream logout call failed, clearing local session anyway")
	} else {
		_ = resp.Body.Close()
	}

	return c.sessions.Clear()
}

// SetAccessToken stores a new access token, or clears it when token is
// empty. Exists for session import and testing; normal mutation flows
// through Login and the refresh coordinator.
func (c *Client) SetAccessToken(token string) error {
	return c.sessions.SetAccessToken(token)
}

// SessionUser returns the stored session user, or nil when logged out.
func (c *Client) SessionUser() (*session.User, error) {
	return c.sessions.User()
}

// TokenExpiresAt inspects the stored access token's exp claim without
// verifying the signature. Diagnostic only: the upstream is the authority on
// token validity, the console merely reports it.
func (c *Client) TokenExpiresAt() (time.Time, error) {
	token, err := c.sessions.AccessToken()
	if err != nil {
		return time.Time{}, err
	}
	if token == "" {
		return time.Time{}, ErrNoSession
	}

	parser := jwt.NewParser()
	claims := jwt.MapClaims{}
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return time.Time{}, fmt.Errorf("parse access token: %w", err)
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, fmt.Errorf("access token carries no exp claim")
	}
	return exp.Time, nil
}

// Ping verifies upstream connectivity through GET /health.
func (c *Client) Ping(ctx context.Context) error {
	d := NewDescriptor(http.MethodGet, "/health")
	resp, err := c.Do(ctx, d)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return newStatusError(resp)
	}
	return nil
}
