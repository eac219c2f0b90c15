// Movie App Admin - Administrative Console for a Video Streaming Catalog
// Copyright 2026 Rahul O. (rahulonit)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/rahulonit/movie-app-admin

// Package websocket pushes live console events to connected browsers: audit
// trail entries as they happen, upstream health transitions, and analytics
// snapshot completions.
package websocket

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/rahulonit/movie-app-admin/internal/logging"
	"github.com/rahulonit/movie-app-admin/internal/metrics"
)

// Message types pushed to clients.
const (
	MessageTypeAuditEvent        = "audit_event"
	MessageTypeHealthStatus      = "health_status"
	MessageTypeSnapshotCompleted = "snapshot_completed"
	MessageTypePing              = "ping"
	MessageTypePong              = "pong"
)

// Message is the wire envelope for hub traffic.
type Message struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

// Hub tracks connected clients and fans broadcasts out to them.
// It implements suture.Service via Serve.
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan Message
	Register   chan *Client
	Unregister chan *Client
	mu         sync.RWMutex
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{
		broadcast:  make(chan Message, 256),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		clients:    make(map[*Client]bool),
	}
}

// Serve runs the hub loop until ctx is canceled, then closes every client.
// Lifecycle events are drained before broadcasts so client state is settled
// when a message fans out; Go's select picks randomly among ready cases, the
// staged selects impose the ordering.
func (h *Hub) Serve(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			h.shutdown()
			return ctx.Err()
		default:
		}

		select {
		case client := <-h.Register:
			h.add(client)
			continue
		case client := <-h.Unregister:
			h.remove(client)
			continue
		default:
		}

		select {
		case <-ctx.Done():
			h.shutdown()
			return ctx.Err()
		case client := <-h.Register:
			h.add(client)
		case client := <-h.Unregister:
			h.remove(client)
		case message := <-h.broadcast:
			h.fanOut(message)
		}
	}
}

func (h *Hub) add(client *Client) {
	h.mu.Lock()
	h.clients[client] = true
	count := len(h.clients)
	h.mu.Unlock()

	metrics.WSConnections.Set(float64(count))
	logging.Info().Int("total_clients", count).Msg("Websocket client connected")
}

func (h *Hub) remove(client *Client) {
	h.mu.Lock()
	if _, ok := h.clients[client]; ok {
		delete(h.clients, client)
		close(client.send)
	}
	count := len(h.clients)
	h.mu.Unlock()

	metrics.WSConnections.Set(float64(count))
	logging.Info().Int("total_clients", count).Msg("Websocket client disconnected")
}

// fanOut delivers a message to every client in ID order. A client whose send
// buffer is full is dropped rather than allowed to stall the hub.
func (h *Hub) fanOut(message Message) {
	h.mu.Lock()
	defer h.mu.Unlock()

	clients := make([]*Client, 0, len(h.clients))
	for client := range h.clients {
		clients = append(clients, client)
	}
	sort.Slice(clients, func(i, j int) bool { return clients[i].id < clients[j].id })

	var stalled []*Client
	for _, client := range clients {
		select {
		case client.send <- message:
			metrics.WSMessagesSent.Inc()
		default:
			stalled = append(stalled, client)
		}
	}

	for _, client := range stalled {
		metrics.WSMessagesDropped.Inc()
		close(client.send)
		delete(h.clients, client)
		logging.Warn().Uint64("client_id", client.id).Msg("Dropped stalled websocket client")
	}
	if len(stalled) > 0 {
		metrics.WSConnections.Set(float64(len(h.clients)))
	}
}

func (h *Hub) shutdown() {
	h.mu.Lock()
	count := len(h.clients)
	for client := range h.clients {
		close(client.send)
		delete(h.clients, client)
	}
	h.mu.Unlock()

	metrics.WSConnections.Set(0)
	logging.Info().
		Str("component", "websocket-hub").
		Int("clients_closed", count).
		Msg("Websocket hub stopped")
}

// Broadcast queues a message for every client. When the hub's buffer is full
// the message is dropped; the live feed is advisory, the DuckDB stores stay
// authoritative.
func (h *Hub) Broadcast(messageType string, data any) {
	select {
	case h.broadcast <- Message{Type: messageType, Data: data}:
	default:
		metrics.WSMessagesDropped.Inc()
		logging.Warn().Str("message_type", messageType).Msg("Broadcast buffer full, dropping message")
	}
}

// HealthStatusData is pushed when the upstream health poller observes a
// transition.
type HealthStatusData struct {
	Timestamp string `json:"timestamp"`
	Healthy   bool   `json:"healthy"`
	LatencyMs int64  `json:"latencyMs"`
	Message   string `json:"message,omitempty"`
}

// BroadcastHealthStatus pushes an upstream health update.
func (h *Hub) BroadcastHealthStatus(healthy bool, latency time.Duration, message string) {
	h.Broadcast(MessageTypeHealthStatus, HealthStatusData{
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Healthy:   healthy,
		LatencyMs: latency.Milliseconds(),
		Message:   message,
	})
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// String names the hub in supervisor logs.
func (h *Hub) String() string {
	return "websocket-hub"
}
