// Movie App Admin - Administrative Console for a Video Streaming Catalog
// Copyright 2026 Rahul O. (rahulonit)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/rahulonit/movie-app-admin

package audit

import (
	"context"

	"github.com/rahulonit/movie-app-admin/internal/logging"
)

// Recorder is the producer-side handle handed to HTTP handlers and the
// upstream client. Recording never fails the operation being audited: a
// publish error is logged and dropped.
type Recorder struct {
	bus *Bus
}

// NewRecorder creates a recorder over the bus.
func NewRecorder(bus *Bus) *Recorder {
	return &Recorder{bus: bus}
}

// Record stamps the event with the request ID from ctx and publishes it.
func (r *Recorder) Record(ctx context.Context, event *Event) {
	if r == nil || r.bus == nil || event == nil {
		return
	}
	if event.RequestID == "" {
		event.RequestID = logging.RequestIDFromContext(ctx)
	}
	if err := r.bus.Publish(event); err != nil {
		logging.Warn().Err(err).
			Str("type", string(event.Type)).
			Msg("Audit event dropped")
	}
}
