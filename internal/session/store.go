// Movie App Admin - Administrative Console for a Video Streaming Catalog
// Copyright 2026 Rahul O. (rahulonit)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/rahulonit/movie-app-admin

// Package session persists the console's upstream credentials: the access
// token, the refresh token, and the serialized session user. Storage is a
// small key-value contract with in-memory and BadgerDB implementations, an
// optional encryption layer, and a typed Manager facade that upholds the
// clear-together lifecycle (all three entries are written on login and
// removed together on logout or failed refresh).
package session

import (
	"sync"
)

// Store is the minimal key-value contract for credential storage.
// Implementations must be safe for concurrent use.
type Store interface {
	// Get retrieves a value. The boolean reports whether the key exists.
	Get(key string) (string, bool, error)

	// Set stores a value, replacing any existing one.
	Set(key, value string) error

	// Delete removes a key. Deleting a missing key is not an error.
	Delete(key string) error

	// Close releases backing resources. The store is unusable afterwards.
	Close() error
}

// MemoryStore is an in-memory implementation of Store.
// Suitable for ephemeral mode and testing. For production, use BadgerStore
// so the operator session survives restarts.
type MemoryStore struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewMemoryStore creates a new in-memory credential store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		values: make(map[string]string),
	}
}

// Get retrieves a value by key.
func (s *MemoryStore) Get(key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	value, ok := s.values[key]
	return value, ok, nil
}

// Set stores a value.
func (s *MemoryStore) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.values[key] = value
	return nil
}

// Delete removes a key.
func (s *MemoryStore) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.values, key)
	return nil
}

// Close clears the store.
func (s *MemoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.values = make(map[string]string)
	return nil
}

// Len returns the number of stored entries.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.values)
}
