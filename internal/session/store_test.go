// Movie App Admin - Administrative Console for a Video Streaming Catalog
// Copyright 2026 Rahul O. (rahulonit)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/rahulonit/movie-app-admin

package session

import (
	"sync"
	"testing"
)

// storeImplementations returns each Store implementation under a name,
// so the contract tests run against all of them.
func storeImplementations(t *testing.T) map[string]Store {
	t.Helper()

	badgerStore, err := NewBadgerStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewBadgerStore() error = %v", err)
	}

	enc, err := NewEncryptor("dGhpcy1pcy1hLXRlc3Qta2V5LTEyMzQ1Njc4") // base64 of a 27-byte key
	if err != nil {
		t.Fatalf("NewEncryptor() error = %v", err)
	}

	return map[string]Store{
		"memory": NewMemoryStore(),
		"badger": badgerStore,
		"cipher": NewCipherStore(NewMemoryStore(), enc),
	}
}

func TestStoreContract(t *testing.T) {
	for name, store := range storeImplementations(t) {
		t.Run(name, func(t *testing.T) {
			defer func() { _ = store.Close() }()

			// Missing key
			_, ok, err := store.Get("missing")
			if err != nil {
				t.Fatalf("Get(missing) error = %v", err)
			}
			if ok {
				t.Error("Get(missing) reported the key exists")
			}

			// Set then Get
			if err := store.Set("k", "v1"); err != nil {
				t.Fatalf("Set() error = %v", err)
			}
			got, ok, err := store.Get("k")
			if err != nil {
				t.Fatalf("Get() error = %v", err)
			}
			if !ok || got != "v1" {
				t.Errorf("Get() = (%q, %v), want (v1, true)", got, ok)
			}

			// Overwrite
			if err := store.Set("k", "v2"); err != nil {
				t.Fatalf("Set() overwrite error = %v", err)
			}
			got, _, _ = store.Get("k")
			if got != "v2" {
				t.Errorf("Get() after overwrite = %q, want v2", got)
			}

			// Delete, including a missing key
			if err := store.Delete("k"); err != nil {
				t.Fatalf("Delete() error = %v", err)
			}
			if err := store.Delete("k"); err != nil {
				t.Errorf("Delete() of missing key error = %v, want nil", err)
			}
			_, ok, _ = store.Get("k")
			if ok {
				t.Error("Get() after Delete() reported the key exists")
			}
		})
	}
}

func TestBadgerStorePersistsAcrossReopen(t *testing.T) {
	dir := t.TempDir()

	store, err := NewBadgerStore(dir)
	if err != nil {
		t.Fatalf("NewBadgerStore() error = %v", err)
	}
	if err := store.Set(KeyAccessToken, "A1"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	reopened, err := NewBadgerStore(dir)
	if err != nil {
		t.Fatalf("NewBadgerStore() reopen error = %v", err)
	}
	defer func() { _ = reopened.Close() }()

	got, ok, err := reopened.Get(KeyAccessToken)
	if err != nil {
		t.Fatalf("Get() after reopen error = %v", err)
	}
	if !ok || got != "A1" {
		t.Errorf("Get() after reopen = (%q, %v), want (A1, true)", got, ok)
	}
}

func TestMemoryStoreConcurrentAccess(t *testing.T) {
	store := NewMemoryStore()
	defer func() { _ = store.Close() }()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_ = store.Set("token", "value")
		}()
		go func() {
			defer wg.Done()
			_, _, _ = store.Get("token")
		}()
	}
	wg.Wait()
}
