// Movie App Admin - Administrative Console for a Video Streaming Catalog
// Copyright 2026 Rahul O. (rahulonit)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/rahulonit/movie-app-admin

//go:build !nats

package audit

import (
	"context"
	"fmt"

	"github.com/rahulonit/movie-app-admin/internal/config"
)

// NATSForwarder is a stub when NATS support is compiled out.
// Build with -tags=nats to mirror audit events onto JetStream.
type NATSForwarder struct{}

// NewNATSForwarder returns an error when NATS support is compiled out.
func NewNATSForwarder(_ config.NATSConfig, _ *Bus) (*NATSForwarder, error) {
	return nil, fmt.Errorf("NATS audit transport not available: build with -tags=nats")
}

// Serve is a stub that returns an error.
func (f *NATSForwarder) Serve(_ context.Context) error {
	return fmt.Errorf("NATS audit transport not available: build with -tags=nats")
}

// String names the forwarder in supervisor logs.
func (f *NATSForwarder) String() string {
	return "audit-nats-forwarder"
}
