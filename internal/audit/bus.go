// Movie App Admin - Administrative Console for a Video Streaming Catalog
// Copyright 2026 Rahul O. (rahulonit)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/rahulonit/movie-app-admin

package audit

import (
	"context"
	"fmt"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/goccy/go-json"

	"github.com/rahulonit/movie-app-admin/internal/logging"
	"github.com/rahulonit/movie-app-admin/internal/metrics"
)

// Topic carries every audit event through the in-process bus.
const Topic = "audit.events"

// Bus is the in-process audit event bus. Producers publish fire-and-forget;
// the subscriber side persists and fans out to live listeners.
type Bus struct {
	pubsub *gochannel.GoChannel
}

// NewBus creates the event bus. bufferSize bounds the per-subscriber output
// channel; a slow subscriber blocks publishers once it fills.
func NewBus(bufferSize int) *Bus {
	if bufferSize <= 0 {
		bufferSize = 256
	}
	return &Bus{
		pubsub: gochannel.NewGoChannel(
			gochannel.Config{OutputChannelBuffer: int64(bufferSize)},
			newBusLogger(),
		),
	}
}

// Publish serializes the event onto the bus.
func (b *Bus) Publish(event *Event) error {
	if event == nil {
		return fmt.Errorf("nil audit event")
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal audit event: %w", err)
	}

	msg := message.NewMessage(event.ID, payload)
	msg.Metadata.Set("type", string(event.Type))

	if err := b.pubsub.Publish(Topic, msg); err != nil {
		return fmt.Errorf("publish audit event: %w", err)
	}
	metrics.RecordAuditPublished(string(event.Type))
	return nil
}

// Subscribe returns the stream of audit messages. The channel closes when
// ctx is canceled or the bus is closed.
func (b *Bus) Subscribe(ctx context.Context) (<-chan *message.Message, error) {
	return b.pubsub.Subscribe(ctx, Topic)
}

// Close shuts the bus down. In-flight messages on subscriber channels are
// still delivered.
func (b *Bus) Close() error {
	return b.pubsub.Close()
}

// busLogger adapts the console's zerolog setup to watermill's logger.
type busLogger struct {
	fields watermill.LogFields
}

func newBusLogger() watermill.LoggerAdapter {
	return &busLogger{}
}

func (l *busLogger) Error(msg string, err error, fields watermill.LogFields) {
	logging.Error().Err(err).Fields(map[string]any(l.fields.Add(fields))).Msg(msg)
}

func (l *busLogger) Info(msg string, fields watermill.LogFields) {
	logging.Debug().Fields(map[string]any(l.fields.Add(fields))).Msg(msg)
}

func (l *busLogger) Debug(msg string, fields watermill.LogFields) {
	logging.Debug().Fields(map[string]any(l.fields.Add(fields))).Msg(msg)
}

func (l *busLogger) Trace(msg string, fields watermill.LogFields) {
	logging.Trace().Fields(map[string]any(l.fields.Add(fields))).Msg(msg)
}

func (l *busLogger) With(fields watermill.LogFields) watermill.LoggerAdapter {
	return &busLogger{fields: l.fields.Add(fields)}
}
