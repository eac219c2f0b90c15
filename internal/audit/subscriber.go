// Movie App Admin - Administrative Console for a Video Streaming Catalog
// Copyright 2026 Rahul O. (rahulonit)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/rahulonit/movie-app-admin

package audit

import (
	"context"
	"errors"
	"time"

	"github.com/goccy/go-json"

	"github.com/rahulonit/movie-app-admin/internal/logging"
	"github.com/rahulonit/movie-app-admin/internal/metrics"
)

// ErrBusClosed reports that the bus shut down underneath a live subscriber.
var ErrBusClosed = errors.New("audit bus closed")

// Subscriber drains the bus: every event is persisted to the store and
// forwarded to the live feed. It implements suture.Service via Serve.
//
// Store and Forward are both optional. With a nil store events still reach
// the websocket feed; with a nil forward they are only persisted.
type Subscriber struct {
	bus   *Bus
	store Store

	// Forward pushes each event to live listeners (the websocket hub).
	Forward func(Event)

	// Retention prunes persisted events older than this once a day.
	// Zero keeps everything.
	Retention time.Duration
}

// NewSubscriber creates the bus consumer.
func NewSubscriber(bus *Bus, store Store) *Subscriber {
	return &Subscriber{bus: bus, store: store}
}

// Serve consumes the bus until ctx is canceled.
func (s *Subscriber) Serve(ctx context.Context) error {
	messages, err := s.bus.Subscribe(ctx)
	if err != nil {
		return err
	}
	logging.Info().Bool("persisting", s.store != nil).Msg("Audit subscriber started")

	var purge <-chan time.Time
	if s.Retention > 0 && s.store != nil {
		ticker := time.NewTicker(24 * time.Hour)
		defer ticker.Stop()
		purge = ticker.C
		s.purgeOld(ctx)
	}

	for {
		select {
		case <-ctx.Done():
			logging.Info().Msg("Audit subscriber stopping")
			return ctx.Err()
		case <-purge:
			s.purgeOld(ctx)
		case msg, ok := <-messages:
			if !ok {
				if err := ctx.Err(); err != nil {
					return err
				}
				// A nil return here would make the supervisor restart us
				// against a bus that can never deliver again.
				return ErrBusClosed
			}
			s.handle(ctx, msg.Payload)
			msg.Ack()
		}
	}
}

func (s *Subscriber) handle(ctx context.Context, payload []byte) {
	var event Event
	if err := json.Unmarshal(payload, &event); err != nil {
		logging.Error().Err(err).Msg("Malformed audit event on bus")
		return
	}

	if s.store != nil {
		saveCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		err := s.store.Save(saveCtx, &event)
		cancel()
		metrics.RecordAuditPersisted(err)
		if err != nil {
			logging.Error().Err(err).
				Str("event_id", event.ID).
				Str("type", string(event.Type)).
				Msg("Audit event persist failed")
		}
	}

	if s.Forward != nil {
		s.Forward(event)
	}
}

func (s *Subscriber) purgeOld(ctx context.Context) {
	cutoff := time.Now().Add(-s.Retention)
	if _, err := s.store.Delete(ctx, cutoff); err != nil {
		logging.Warn().Err(err).Msg("Audit retention purge failed")
	}
}

// String names the subscriber in supervisor logs.
func (s *Subscriber) String() string {
	return "audit-subscriber"
}
