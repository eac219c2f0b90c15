// Movie App Admin - Administrative Console for a Video Streaming Catalog
// Copyright 2026 Rahul O. (rahulonit)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/rahulonit/movie-app-admin

//go:build nats

package main

import (
	"github.com/rahulonit/movie-app-admin/internal/audit"
	"github.com/rahulonit/movie-app-admin/internal/config"
	"github.com/rahulonit/movie-app-admin/internal/logging"
	"github.com/rahulonit/movie-app-admin/internal/supervisor"
)

// addAuditTransport wires the optional NATS JetStream mirror of the audit
// stream into the messaging layer. Compiled in with -tags=nats.
func addAuditTransport(tree *supervisor.Tree, cfg config.NATSConfig, bus *audit.Bus) error {
	if !cfg.Enabled {
		logging.Info().Msg("NATS audit transport disabled")
		return nil
	}

	forwarder, err := audit.NewNATSForwarder(cfg, bus)
	if err != nil {
		return err
	}

	tree.AddMessagingService(forwarder)
	logging.Info().
		Bool("embedded", cfg.EmbeddedServer).
		Str("url", cfg.URL).
		Msg("NATS audit transport added to supervisor tree")
	return nil
}
