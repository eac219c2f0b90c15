// Movie App Admin - Administrative Console for a Video Streaming Catalog
// Copyright 2026 Rahul O. (rahulonit)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/rahulonit/movie-app-admin

package session

import (
	"fmt"

	"github.com/goccy/go-json"

	"github.com/rahulonit/movie-app-admin/internal/metrics"
)

// Storage keys for the three durable credential entries. All three are
// written together on login and removed together on logout or failed refresh.
const (
	KeyAccessToken  = "credential:access_token"
	KeyRefreshToken = "credential:refresh_token"
	KeyUser         = "credential:user"
)

// User is the session-user record returned by the upstream login call and
// persisted alongside the tokens.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// Manager is the typed facade over a Store. It is the only component that
// reads or writes the credential keys; everything else goes through the
// upstream client, which owns a Manager.
type Manager struct {
	store Store
}

// NewManager creates a credential manager backed by the given store.
func NewManager(store Store) *Manager {
	return &Manager{store: store}
}

// AccessToken returns the stored access token, or "" when absent.
func (m *Manager) AccessToken() (string, error) {
	return m.get(KeyAccessToken)
}

// RefreshToken returns the stored refresh token, or "" when absent.
func (m *Manager) RefreshToken() (string, error) {
	return m.get(KeyRefreshToken)
}

// User returns the stored session user, or nil when no session exists.
func (m *Manager) User() (*User, error) {
	raw, err := m.get(KeyUser)
	if err != nil {
		return nil, err
	}
	if raw == "" {
		return nil, nil
	}

	var user User
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		return nil, fmt.Errorf("failed to decode session user: %w", err)
	}
	return &user, nil
}

// SetSession persists all three entries of a fresh session at once.
func (m *Manager) SetSession(accessToken, refreshToken string, user *User) error {
	raw, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("failed to encode session user: %w", err)
	}

	if err := m.set(KeyAccessToken, accessToken); err != nil {
		return err
	}
	if err := m.set(KeyRefreshToken, refreshToken); err != nil {
		return err
	}
	return m.set(KeyUser, string(raw))
}

// SetAccessToken stores or, with an empty value, removes the access token.
func (m *Manager) SetAccessToken(token string) error {
	if token == "" {
		return m.delete(KeyAccessToken)
	}
	return m.set(KeyAccessToken, token)
}

// SetRefreshToken stores or, with an empty value, removes the refresh token.
// A refresh call that returns a rotated refresh token lands here.
func (m *Manager) SetRefreshToken(token string) error {
	if token == "" {
		return m.delete(KeyRefreshToken)
	}
	return m.set(KeyRefreshToken, token)
}

// Clear removes all three entries. Called on logout and on failed refresh;
// deletion errors on the later keys do not mask errors on the earlier ones.
func (m *Manager) Clear() error {
	metrics.SessionClearsTotal.Inc()

	var firstErr error
	for _, key := range []string{KeyAccessToken, KeyRefreshToken, KeyUser} {
		if err := m.delete(key); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// Close releases the backing store.
func (m *Manager) Close() error {
	return m.store.Close()
}

func (m *Manager) get(key string) (string, error) {
	value, ok, err := m.store.Get(key)
	if err != nil {
		metrics.SessionStoreOperations.WithLabelValues("get", "error").Inc()
		return "", fmt.Errorf("session store get %s: %w", key, err)
	}
	metrics.SessionStoreOperations.WithLabelValues("get", "ok").Inc()
	if !ok {
		return "", nil
	}
	return value, nil
}

func (m *Manager) set(key, value string) error {
	if err := m.store.Set(key, value); err != nil {
		metrics.SessionStoreOperations.WithLabelValues("set", "error").Inc()
		return fmt.Errorf("session store set %s: %w", key, err)
	}
	metrics.SessionStoreOperations.WithLabelValues("set", "ok").Inc()
	return nil
}

func (m *Manager) delete(key string) error {
	if err := m.store.Delete(key); err != nil {
		metrics.SessionStoreOperations.WithLabelValues("delete", "error").Inc()
		return fmt.Errorf("session store delete %s: %w", key, err)
	}
	metrics.SessionStoreOperations.WithLabelValues("delete", "ok").Inc()
	return nil
}
