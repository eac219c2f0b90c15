// Movie App Admin - Administrative Console for a Video Streaming Catalog
// Copyright 2026 Rahul O. (rahulonit)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/rahulonit/movie-app-admin

package websocket

import (
	"context"
	"errors"
	"testing"
	"time"
)

func startHub(t *testing.T) (*Hub, context.CancelFunc, chan error) {
	t.Helper()

	h := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- h.Serve(ctx) }()
	return h, cancel, done
}

func newHubClient(h *Hub) *Client {
	return NewClient(h, nil)
}

func waitForCount(t *testing.T, h *Hub, want int) {
	t.Helper()

	deadline := time.After(5 * time.Second)
	for h.ClientCount() != want {
		select {
		case <-deadline:
			t.Fatalf("ClientCount() = %d, want %d", h.ClientCount(), want)
		case <-time.After(5 * time.Millisecond):
		}
	}
}

func TestBroadcastReachesAllClients(t *testing.T) {
	h, cancel, done := startHub(t)
	defer func() { cancel(); <-done }()

	first := newHubClient(h)
	second := newHubClient(h)
	h.Register <- first
	h.Register <- second
	waitForCount(t, h, 2)

	h.Broadcast(MessageTypeAuditEvent, map[string]string{"id": "e-1"})

	for _, c := range []*Client{first, second} {
		select {
		case msg := <-c.send:
			if msg.Type != MessageTypeAuditEvent {
				t.Errorf("message type = %q, want audit_event", msg.Type)
			}
		case <-time.After(5 * time.Second):
			t.Fatal("client never received broadcast")
		}
	}
}

func TestUnregisterRemovesClient(t *testing.T) {
	h, cancel, done := startHub(t)
	defer func() { cancel(); <-done }()

	c := newHubClient(h)
	h.Register <- c
	waitForCount(t, h, 1)

	h.Unregister <- c
	waitForCount(t, h, 0)

	// The hub closed the send channel on unregister.
	select {
	case _, ok := <-c.send:
		if ok {
			t.Error("send channel delivered a message after unregister")
		}
	case <-time.After(time.Second):
		t.Error("send channel not closed after unregister")
	}
}

func TestStalledClientIsDropped(t *testing.T) {
	h, cancel, done := startHub(t)
	defer func() { cancel(); <-done }()

	stalled := newHubClient(h)
	for i := 0; i < cap(stalled.send); i++ {
		stalled.send <- Message{Type: MessageTypePing}
	}
	healthy := newHubClient(h)

	h.Register <- stalled
	h.Register <- healthy
	waitForCount(t, h, 2)

	h.Broadcast(MessageTypeHealthStatus, HealthStatusData{Healthy: true})
	waitForCount(t, h, 1)

	select {
	case msg := <-healthy.send:
		if msg.Type != MessageTypeHealthStatus {
			t.Errorf("healthy client got %q, want health_status", msg.Type)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("healthy client never received broadcast")
	}
}

func TestServeShutdownClosesClients(t *testing.T) {
	h, cancel, done := startHub(t)

	c := newHubClient(h)
	h.Register <- c
	waitForCount(t, h, 1)

	cancel()
	if err := <-done; !errors.Is(err, context.Canceled) {
		t.Errorf("Serve() returned %v, want context.Canceled", err)
	}
	if h.ClientCount() != 0 {
		t.Errorf("ClientCount() = %d after shutdown, want 0", h.ClientCount())
	}

	select {
	case _, ok := <-c.send:
		if ok {
			t.Error("send channel delivered a message after shutdown")
		}
	default:
		t.Error("send channel not closed after shutdown")
	}
}

func TestBroadcastNeverBlocks(t *testing.T) {
	h := NewHub() // not served: buffer will fill

	finished := make(chan struct{})
	go func() {
		for i := 0; i < 300; i++ {
			h.Broadcast(MessageTypePing, nil)
		}
		close(finished)
	}()

	select {
	case <-finished:
	case <-time.After(5 * time.Second):
		t.Fatal("Broadcast blocked on a full buffer")
	}
}

func TestBroadcastHealthStatusShape(t *testing.T) {
	h, cancel, done := startHub(t)
	defer func() { cancel(); <-done }()

	c := newHubClient(h)
	h.Register <- c
	waitForCount(t, h, 1)

	h.BroadcastHealthStatus(false, 250*time.Millisecond, "upstream timeout")

	select {
	case msg := <-c.send:
		data, ok := msg.Data.(HealthStatusData)
		if !ok {
			t.Fatalf("data type = %T, want HealthStatusData", msg.Data)
		}
		if data.Healthy || data.LatencyMs != 250 || data.Message != "upstream timeout" {
			t.Errorf("health data = %+v", data)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("no health status received")
	}
}
