// Movie App Admin - Administrative Console for a Video Streaming Catalog
// Copyright 2026 Rahul O. (rahulonit)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/rahulonit/movie-app-admin

package session

import (
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
)

// credentialKeyPrefix namespaces credential entries so the Badger directory
// can be shared with other durable console state.
const credentialKeyPrefix = "credential:"

// BadgerStore implements Store using BadgerDB for durable storage.
// Credentials written here survive console restarts, which is what keeps an
// operator logged in across deployments.
type BadgerStore struct {
	db *badger.DB
}

// NewBadgerStore opens a BadgerDB at the given path and returns a store
// backed by it. The caller owns the store and must Close it.
func NewBadgerStore(path string) (*BadgerStore, error) {
	opts := badger.DefaultOptions(path)
	opts.Logger = nil // Suppress BadgerDB logs

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger db for credentials: %w", err)
	}

	return &BadgerStore{db: db}, nil
}

// NewBadgerStoreFromDB creates a BadgerStore from an existing DB connection.
// Close on a store created this way closes the shared DB.
func NewBadgerStoreFromDB(db *badger.DB) *BadgerStore {
	return &BadgerStore{db: db}
}

// Get retrieves a value by key.
func (s *BadgerStore) Get(key string) (string, bool, error) {
	var value string
	found := false

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(credentialKeyPrefix + key))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("get credential: %w", err)
		}

		found = true
		return item.Value(func(val []byte) error {
			value = string(val)
			return nil
		})
	})
	if err != nil {
		return "", false, err
	}

	return value, found, nil
}

// Set stores a value.
func (s *BadgerStore) Set(key, value string) error {
	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(credentialKeyPrefix+key), []byte(value))
	})
	if err != nil {
		return fmt.Errorf("set credential: %w", err)
	}
	return nil
}

// Delete removes a key.
func (s *BadgerStore) Delete(key string) error {
	err := s.db.Update(func(txn *badger.Txn) error {
		err := txn.Delete([]byte(credentialKeyPrefix + key))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		return err
	})
	if err != nil {
		return fmt.Errorf("delete credential: %w", err)
	}
	return nil
}

// Close closes the underlying BadgerDB.
func (s *BadgerStore) Close() error {
	return s.db.Close()
}

// DB returns the underlying BadgerDB for components that share the directory.
func (s *BadgerStore) DB() *badger.DB {
	return s.db
}
