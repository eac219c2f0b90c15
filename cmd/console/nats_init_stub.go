// Movie App Admin - Administrative Console for a Video Streaming Catalog
// Copyright 2026 Rahul O. (rahulonit)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/rahulonit/movie-app-admin

//go:build !nats

package main

import (
	"github.com/rahulonit/movie-app-admin/internal/audit"
	"github.com/rahulonit/movie-app-admin/internal/config"
	"github.com/rahulonit/movie-app-admin/internal/logging"
	"github.com/rahulonit/movie-app-admin/internal/supervisor"
)

// addAuditTransport is a no-op when NATS support is compiled out. Build with
// -tags=nats to mirror audit events onto JetStream.
func addAuditTransport(_ *supervisor.Tree, cfg config.NATSConfig, _ *audit.Bus) error {
	if cfg.Enabled {
		logging.Warn().Msg("AUDIT_NATS_ENABLED is set but this binary was built without NATS support (-tags=nats)")
	}
	return nil
}
