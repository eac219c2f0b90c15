// Movie App Admin - Administrative Console for a Video Streaming Catalog
// Copyright 2026 Rahul O. (rahulonit)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/rahulonit/movie-app-admin

package upstream

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/rahulonit/movie-app-admin/internal/config"
	"github.com/rahulonit/movie-app-admin/internal/session"
)

// newTestClient builds a client against the given server with an in-memory
// credential store. Breaker and rate limiter stay off so tests exercise the
// interceptor logic directly.
func newTestClient(t *testing.T, serverURL string) (*Client, *session.Manager) {
	t.Helper()

	sessions := session.NewManager(session.NewMemoryStore())
	t.Cleanup(func() { _ = sessions.Close() })

	c := NewClient(config.UpstreamConfig{
		BaseURL:        serverURL,
		Timeout:        5 * time.Second,
		RefreshTimeout: 5 * time.Second,
	}, sessions)

	return c, sessions
}

func seedSession(t *testing.T, sessions *session.Manager, access, refresh string) {
	t.Helper()
	err := sessions.SetSession(access, refresh, &session.User{ID: "u1", Email: "admin@example.com", Role: "admin"})
	if err != nil {
		t.Fatalf("SetSession() error = %v", err)
	}
}

func writeJSON(t testing.TB, w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		t.Errorf("encode response: %v", err)
	}
}

func TestTokenAttachment(t *testing.T) {
	var gotAuth atomic.Value
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth.Store(r.Header.Get("Authorization"))
		writeJSON(t, w, http.StatusOK, map[string]any{"data": map[string]string{}})
	}))
	defer server.Close()

	c, _ := newTestClient(t, server.URL)
	ctx := context.Background()

	if err := c.SetAccessToken("T1"); err != nil {
		t.Fatalf("SetAccessToken() error = %v", err)
	}
	if _, err := Get[map[string]string](ctx, c, "/movies", nil); err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got := gotAuth.Load(); got != "Bearer T1" {
		t.Errorf("Authorization = %q, want Bearer T1", got)
	}

	// Clearing the token must drop the header entirely.
	if err := c.SetAccessToken(""); err != nil {
		t.Fatalf("SetAccessToken(\"\") error = %v", err)
	}
	if _, err := Get[map[string]string](ctx, c, "/movies", nil); err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got := gotAuth.Load(); got != "" {
		t.Errorf("Authorization after clear = %q, want empty", got)
	}
}

func TestSuccessfulRefreshReplay(t *testing.T) {
	var refreshCalls, dataCalls atomic.Int32
	var replayAuth atomic.Value

	mux := http.NewServeMux()
	mux.HandleFunc("/auth/refresh", func(w http.ResponseWriter, r *http.Request) {
		refreshCalls.Add(1)
		var body refreshRequest
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode refresh payload: %v", err)
		}
		if body.RefreshToken != "R1" {
			t.Errorf("refresh payload token = %q, want R1", body.RefreshToken)
		}
		writeJSON(t, w, http.StatusOK, map[string]any{"data": map[string]string{"accessToken": "A2"}})
	})
	mux.HandleFunc("/movies", func(w http.ResponseWriter, r *http.Request) {
		dataCalls.Add(1)
		if r.Header.Get("Authorization") != "Bearer A2" {
			writeJSON(t, w, http.StatusUnauthorized, map[string]string{"message": "token expired"})
			return
		}
		replayAuth.Store(r.Header.Get("Authorization"))
		writeJSON(t, w, http.StatusOK, map[string]any{"data": map[string]string{"title": "Heat"}})
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	c, sessions := newTestClient(t, server.URL)
	seedSession(t, sessions, "A1", "R1")

	got, err := Get[map[string]string](context.Background(), c, "/movies", nil)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got["title"] != "Heat" {
		t.Errorf("Get() = %v, want the replay's body", got)
	}

	if n := refreshCalls.Load(); n != 1 {
		t.Errorf("refresh calls = %d, want 1", n)
	}
	if n := dataCalls.Load(); n != 2 {
		t.Errorf("data calls = %d, want 2 (original + replay)", n)
	}
	if replayAuth.Load() != "Bearer A2" {
		t.Errorf("replay Authorization = %q, want Bearer A2", replayAuth.Load())
	}

	access, _ := sessions.AccessToken()
	if access != "A2" {
		t.Errorf("stored access token = %q, want A2", access)
	}
}

func TestSingleFlightRefresh(t *testing.T) {
	const concurrency = 8

	var refreshCalls atomic.Int32
	var arrived sync.WaitGroup
	arrived.Add(concurrency)

	mux := http.NewServeMux()
	mux.HandleFunc("/auth/refresh", func(w http.ResponseWriter, r *http.Request) {
		refreshCalls.Add(1)
		// Keep the refresh slow so every 401'd caller reaches the
		// coordinator while it is still in flight.
		time.Sleep(200 * time.Millisecond)
		writeJSON(t, w, http.StatusOK, map[string]any{"data": map[string]string{"accessToken": "A2"}})
	})
	mux.HandleFunc("/movies", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer A2" {
			// Hold every stale request until all have arrived, then 401
			// them together.
			arrived.Done()
			arrived.Wait()
			writeJSON(t, w, http.StatusUnauthorized, map[string]string{"message": "token expired"})
			return
		}
		writeJSON(t, w, http.StatusOK, map[string]any{"data": map[string]string{"title": "ok"}})
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	c, sessions := newTestClient(t, server.URL)
	seedSession(t, sessions, "A1", "R1")

	var wg sync.WaitGroup
	errs := make([]error, concurrency)
	for i := 0; i < concurrency; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = Get[map[string]string](context.Background(), c, "/movies", nil)
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			t.Errorf("request %d error = %v", i, err)
		}
	}
	if n := refreshCalls.Load(); n != 1 {
		t.Errorf("refresh calls = %d, want exactly 1", n)
	}
}

func TestAtMostOneRetry(t *testing.T) {
	var refreshCalls, dataCalls atomic.Int32

	mux := http.NewServeMux()
	mux.HandleFunc("/auth/refresh", func(w http.ResponseWriter, r *http.Request) {
		refreshCalls.Add(1)
		writeJSON(t, w, http.StatusOK, map[string]any{"data": map[string]string{"accessToken": "A2"}})
	})
	mux.HandleFunc("/movies", func(w http.ResponseWriter, r *http.Request) {
		// The upstream rejects even the fresh token.
		dataCalls.Add(1)
		writeJSON(t, w, http.StatusUnauthorized, map[string]string{"message": "still expired"})
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	c, sessions := newTestClient(t, server.URL)
	seedSession(t, sessions, "A1", "R1")

	_, err := Get[map[string]string](context.Background(), c, "/movies", nil)
	if !IsUnauthorized(err) {
		t.Fatalf("Get() error = %v, want 401 StatusError", err)
	}

	if n := dataCalls.Load(); n != 2 {
		t.Errorf("data calls = %d, want 2 (no second replay)", n)
	}
	if n := refreshCalls.Load(); n != 1 {
		t.Errorf("refresh calls = %d, want 1 (no second refresh for the same descriptor)", n)
	}
}

func TestFailedRefreshWithoutStoredTokenReturnsOriginal401(t *testing.T) {
	var refreshCalls atomic.Int32

	mux := http.NewServeMux()
	mux.HandleFunc("/auth/refresh", func(w http.ResponseWriter, r *http.Request) {
		refreshCalls.Add(1)
		writeJSON(t, w, http.StatusOK, map[string]any{"data": map[string]string{"accessToken": "A2"}})
	})
	mux.HandleFunc("/movies", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusUnauthorized, map[string]string{"message": "unauthenticated"})
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	c, sessions := newTestClient(t, server.URL)
	// Access token only, no refresh token.
	if err := sessions.SetAccessToken("A1"); err != nil {
		t.Fatalf("SetAccessToken() error = %v", err)
	}

	_, err := Get[map[string]string](context.Background(), c, "/movies", nil)
	if !IsUnauthorized(err) {
		t.Fatalf("Get() error = %v, want the original 401", err)
	}

	if n := refreshCalls.Load(); n != 0 {
		t.Errorf("refresh calls = %d, want 0 (nothing to exchange)", n)
	}
	refresh, _ := sessions.RefreshToken()
	if refresh != "" {
		t.Errorf("refresh token = %q, want absent", refresh)
	}
}

func TestRejectedRefreshClearsSession(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/refresh", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusUnauthorized, map[string]string{"message": "refresh token revoked"})
	})
	mux.HandleFunc("/movies", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusUnauthorized, map[string]string{"message": "token expired"})
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	c, sessions := newTestClient(t, server.URL)
	seedSession(t, sessions, "A1", "R1")

	_, err := Get[map[string]string](context.Background(), c, "/movies", nil)
	if !IsUnauthorized(err) {
		t.Fatalf("Get() error = %v, want the original 401", err)
	}

	// The session must be terminated: all three entries gone.
	access, _ := sessions.AccessToken()
	refresh, _ := sessions.RefreshToken()
	user, _ := sessions.User()
	if access != "" || refresh != "" || user != nil {
		t.Errorf("session after failed refresh: access=%q refresh=%q user=%+v, want all cleared", access, refresh, user)
	}
}

func TestRefreshTokenRotation(t *testing.T) {
	var refreshPayloads []string
	var mu sync.Mutex
	validToken := atomic.Value{}
	validToken.Store("A0") // Nothing is valid initially

	mux := http.NewServeMux()
	mux.HandleFunc("/auth/refresh", func(w http.ResponseWriter, r *http.Request) {
		var body refreshRequest
		_ = json.NewDecoder(r.Body).Decode(&body)
		mu.Lock()
		refreshPayloads = append(refreshPayloads, body.RefreshToken)
		n := len(refreshPayloads)
		mu.Unlock()

		// First refresh rotates to R2; second rotates again.
		access := fmt.Sprintf("A%d", n+1)
		validToken.Store(access)
		writeJSON(t, w, http.StatusOK, map[string]any{"data": map[string]string{
			"accessToken":  access,
			"refreshToken": fmt.Sprintf("R%d", n+1),
		}})
	})
	mux.HandleFunc("/movies", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer "+validToken.Load().(string) {
			writeJSON(t, w, http.StatusUnauthorized, map[string]string{"message": "token expired"})
			return
		}
		writeJSON(t, w, http.StatusOK, map[string]any{"data": map[string]string{}})
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	c, sessions := newTestClient(t, server.URL)
	seedSession(t, sessions, "A1", "R1")

	if _, err := Get[map[string]string](context.Background(), c, "/movies", nil); err != nil {
		t.Fatalf("first Get() error = %v", err)
	}

	refresh, _ := sessions.RefreshToken()
	if refresh != "R2" {
		t.Fatalf("stored refresh token after rotation = %q, want R2", refresh)
	}

	// Invalidate the access token again; the next cycle must exchange the
	// ROTATED refresh token, not the original.
	validToken.Store("A0")
	if _, err := Get[map[string]string](context.Background(), c, "/movies", nil); err != nil {
		t.Fatalf("second Get() error = %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	if len(refreshPayloads) != 2 {
		t.Fatalf("refresh calls = %d, want 2", len(refreshPayloads))
	}
	if refreshPayloads[0] != "R1" || refreshPayloads[1] != "R2" {
		t.Errorf("refresh payloads = %v, want [R1 R2]", refreshPayloads)
	}
}

func TestNetworkErrorPassthrough(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // Connection refused from here on

	c, sessions := newTestClient(t, server.URL)
	seedSession(t, sessions, "A1", "R1")

	_, err := Get[map[string]string](context.Background(), c, "/movies", nil)
	if err == nil {
		t.Fatal("Get() error = nil, want transport error")
	}
	var se *StatusError
	if errors.As(err, &se) {
		t.Errorf("Get() error = %v, transport failure must not become a StatusError", err)
	}

	// A transport error is not an auth failure: the session stays intact.
	refresh, _ := sessions.RefreshToken()
	if refresh != "R1" {
		t.Errorf("refresh token after transport error = %q, want R1", refresh)
	}
}

func TestNon401ErrorPassthrough(t *testing.T) {
	var refreshCalls atomic.Int32

	mux := http.NewServeMux()
	mux.HandleFunc("/auth/refresh", func(w http.ResponseWriter, r *http.Request) {
		refreshCalls.Add(1)
		writeJSON(t, w, http.StatusOK, map[string]any{"data": map[string]string{"accessToken": "A2"}})
	})
	mux.HandleFunc("/movies", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusInternalServerError, map[string]string{"message": "upstream database down"})
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	c, sessions := newTestClient(t, server.URL)
	seedSession(t, sessions, "A1", "R1")

	_, err := Get[map[string]string](context.Background(), c, "/movies", nil)
	var se *StatusError
	if !errors.As(err, &se) {
		t.Fatalf("Get() error = %v, want StatusError", err)
	}
	if se.StatusCode != http.StatusInternalServerError {
		t.Errorf("StatusCode = %d, want 500", se.StatusCode)
	}
	if se.Message != "upstream database down" {
		t.Errorf("Message = %q, want the upstream's message", se.Message)
	}
	if n := refreshCalls.Load(); n != 0 {
		t.Errorf("refresh calls = %d, want 0 for a non-401", n)
	}
}

func TestWaiterHonorsItsOwnContext(t *testing.T) {
	release := make(chan struct{})

	mux := http.NewServeMux()
	mux.HandleFunc("/auth/refresh", func(w http.ResponseWriter, r *http.Request) {
		<-release
		writeJSON(t, w, http.StatusOK, map[string]any{"data": map[string]string{"accessToken": "A2"}})
	})
	mux.HandleFunc("/movies", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer A2" {
			writeJSON(t, w, http.StatusUnauthorized, map[string]string{"message": "token expired"})
			return
		}
		writeJSON(t, w, http.StatusOK, map[string]any{"data": map[string]string{}})
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	c, sessions := newTestClient(t, server.URL)
	seedSession(t, sessions, "A1", "R1")

	// First caller owns the refresh and blocks on the held endpoint.
	ownerDone := make(chan error, 1)
	go func() {
		_, err := Get[map[string]string](context.Background(), c, "/movies", nil)
		ownerDone <- err
	}()

	// Give the owner time to start the refresh, then join as a waiter with
	// a short deadline.
	time.Sleep(100 * time.Millisecond)
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := Get[map[string]string](ctx, c, "/movies", nil)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("waiter error = %v, want context.DeadlineExceeded", err)
	}

	// The shared refresh keeps running and the owner still succeeds.
	close(release)
	if err := <-ownerDone; err != nil {
		t.Errorf("owner error = %v, want success from the shared refresh", err)
	}
}

func TestDescriptorRetriedMarker(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/movies", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusUnauthorized, map[string]string{"message": "unauthenticated"})
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	c, _ := newTestClient(t, server.URL)

	d := NewDescriptor(http.MethodGet, "/movies")
	if d.Retried() {
		t.Error("fresh descriptor reports retried")
	}

	resp, err := c.Do(context.Background(), d)
	if err != nil {
		t.Fatalf("Do() error = %v", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401 passed through", resp.StatusCode)
	}
	if !d.Retried() {
		t.Error("descriptor not marked retried after its 401 cycle")
	}
}
