// Movie App Admin - Administrative Console for a Video Streaming Catalog
// Copyright 2026 Rahul O. (rahulonit)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/rahulonit/movie-app-admin

package accounts

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/rahulonit/movie-app-admin/internal/config"
	"github.com/rahulonit/movie-app-admin/internal/session"
	"github.com/rahulonit/movie-app-admin/internal/upstream"
)

func newTestService(t *testing.T, handler http.Handler) *Service {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	sessions := session.NewManager(session.NewMemoryStore())
	t.Cleanup(func() { _ = sessions.Close() })
	if err := sessions.SetSession("A1", "R1", &session.User{ID: "op1", Role: "admin"}); err != nil {
		t.Fatalf("SetSession() error = %v", err)
	}

	client := upstream.NewClient(config.UpstreamConfig{
		BaseURL:        server.URL,
		Timeout:        5 * time.Second,
		RefreshTimeout: 5 * time.Second,
	}, sessions)

	return NewService(client)
}

func TestServiceList(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/users", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"data": {
				"users": [
					{"id": "u1", "email": "a@example.com", "name": "Ada", "role": "user",
					 "subscription": {"plan": "premium", "active": true}}
				],
				"pagination": {"page": 1, "limit": 20, "totalPages": 1, "totalItems": 1}
			}
		}`))
	})

	svc := newTestService(t, mux)

	list, err := svc.List(context.Background(), ListParams{Page: 1, Limit: 20})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(list.Accounts) != 1 {
		t.Fatalf("List() accounts = %d, want 1", len(list.Accounts))
	}
	if !list.Accounts[0].Subscription.Active || list.Accounts[0].Subscription.Plan != "premium" {
		t.Errorf("List() subscription = %+v", list.Accounts[0].Subscription)
	}
}

func TestServiceListValidation(t *testing.T) {
	svc := newTestService(t, http.NewServeMux())

	if _, err := svc.List(context.Background(), ListParams{Limit: 101}); err == nil {
		t.Error("List() with limit 101 error = nil, want validation error")
	}
}

func TestServiceSetSubscription(t *testing.T) {
	var gotPayload subscriptionPatch
	mux := http.NewServeMux()
	mux.HandleFunc("/users/u1/subscription", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPatch {
			t.Errorf("method = %s, want PATCH", r.Method)
		}
		if err := json.NewDecoder(r.Body).Decode(&gotPayload); err != nil {
			t.Fatalf("decode payload: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data": {"id": "u1", "subscription": {"plan": "premium", "active": false}}}`))
	})

	svc := newTestService(t, mux)

	account, err := svc.SetSubscription(context.Background(), "u1", false)
	if err != nil {
		t.Fatalf("SetSubscription() error = %v", err)
	}
	if gotPayload.Active {
		t.Error("payload active = true, want false")
	}
	if account.Subscription.Active {
		t.Error("returned subscription still active")
	}
}
