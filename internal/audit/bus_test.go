// Movie App Admin - Administrative Console for a Video Streaming Catalog
// Copyright 2026 Rahul O. (rahulonit)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/rahulonit/movie-app-admin

package audit

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/rahulonit/movie-app-admin/internal/logging"
)

func TestPublishSubscribeRoundTrip(t *testing.T) {
	bus := NewBus(16)
	defer func() { _ = bus.Close() }()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	messages, err := bus.Subscribe(ctx)
	if err != nil {
		t.Fatalf("Subscribe() error = %v", err)
	}

	event := NewEvent(EventTypeLogin, OutcomeSuccess)
	event.Actor = Actor{ID: "u-1", Email: "admin@example.com", Role: "admin"}
	if err := bus.Publish(event); err != nil {
		t.Fatalf("Publish() error = %v", err)
	}

	select {
	case msg := <-messages:
		if msg.UUID != event.ID {
			t.Errorf("message UUID = %q, want %q", msg.UUID, event.ID)
		}
		if got := msg.Metadata.Get("type"); got != "auth.login" {
			t.Errorf("type metadata = %q, want auth.login", got)
		}
		var decoded Event
		if err := json.Unmarshal(msg.Payload, &decoded); err != nil {
			t.Fatalf("unmarshal payload: %v", err)
		}
		if decoded.Actor.Email != "admin@example.com" {
			t.Errorf("decoded actor = %+v", decoded.Actor)
		}
		msg.Ack()
	case <-time.After(5 * time.Second):
		t.Fatal("no message received")
	}
}

func TestPublishNilEvent(t *testing.T) {
	bus := NewBus(1)
	defer func() { _ = bus.Close() }()

	if err := bus.Publish(nil); err == nil {
		t.Error("Publish(nil) returned nil error")
	}
}

func TestRecorderStampsRequestID(t *testing.T) {
	bus := NewBus(16)
	defer func() { _ = bus.Close() }()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	messages, err := bus.Subscribe(ctx)
	if err != nil {
		t.Fatalf("Subscribe() error = %v", err)
	}

	recorder := NewRecorder(bus)
	reqCtx := logging.ContextWithRequestID(context.Background(), "req-99")
	recorder.Record(reqCtx, NewEvent(EventTypeLogout, OutcomeSuccess))

	select {
	case msg := <-messages:
		var decoded Event
		if err := json.Unmarshal(msg.Payload, &decoded); err != nil {
			t.Fatalf("unmarshal payload: %v", err)
		}
		if decoded.RequestID != "req-99" {
			t.Errorf("RequestID = %q, want req-99", decoded.RequestID)
		}
		msg.Ack()
	case <-time.After(5 * time.Second):
		t.Fatal("no message received")
	}
}

func TestSubscriberPersistsAndForwards(t *testing.T) {
	bus := NewBus(16)
	defer func() { _ = bus.Close() }()
	auditStore := newTestStore(t)

	var mu sync.Mutex
	var forwarded []Event

	sub := NewSubscriber(bus, auditStore)
	sub.Forward = func(e Event) {
		mu.Lock()
		forwarded = append(forwarded, e)
		mu.Unlock()
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- sub.Serve(ctx) }()

	// Give Serve a moment to subscribe; the bus drops messages published
	// before any subscriber exists.
	time.Sleep(100 * time.Millisecond)

	event := NewEvent(EventTypeSubscriptionChanged, OutcomeSuccess)
	event.Target = Target{Type: "account", ID: "a-7"}
	if err := bus.Publish(event); err != nil {
		t.Fatalf("Publish() error = %v", err)
	}

	deadline := time.After(5 * time.Second)
	for {
		mu.Lock()
		n := len(forwarded)
		mu.Unlock()
		if n > 0 {
			break
		}
		select {
		case <-deadline:
			t.Fatal("event never forwarded")
		case <-time.After(10 * time.Millisecond):
		}
	}

	mu.Lock()
	if forwarded[0].Target.ID != "a-7" {
		t.Errorf("forwarded target = %+v", forwarded[0].Target)
	}
	mu.Unlock()

	got, err := auditStore.Get(context.Background(), event.ID)
	if err != nil {
		t.Fatalf("Get() after persist error = %v", err)
	}
	if got.Type != EventTypeSubscriptionChanged {
		t.Errorf("persisted type = %s", got.Type)
	}

	cancel()
	if err := <-done; !errors.Is(err, context.Canceled) {
		t.Errorf("Serve() returned %v, want context.Canceled", err)
	}
}

func TestSubscriberReportsBusClosed(t *testing.T) {
	bus := NewBus(16)
	sub := NewSubscriber(bus, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- sub.Serve(ctx) }()
	time.Sleep(100 * time.Millisecond)

	// Closing the bus with the context still live must not look like a
	// clean exit to the supervisor.
	if err := bus.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	select {
	case err := <-done:
		if !errors.Is(err, ErrBusClosed) {
			t.Errorf("Serve() returned %v, want ErrBusClosed", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Serve did not return after bus close")
	}
}

func TestSubscriberSkipsMalformedPayloads(t *testing.T) {
	bus := NewBus(16)
	defer func() { _ = bus.Close() }()
	auditStore := newTestStore(t)

	sub := NewSubscriber(bus, auditStore)

	// handle must not panic or persist garbage.
	sub.handle(context.Background(), []byte("not json"))

	count, err := auditStore.Count(context.Background(), QueryFilter{})
	if err != nil {
		t.Fatalf("Count() error = %v", err)
	}
	if count != 0 {
		t.Errorf("Count() = %d, want 0", count)
	}
}
