// Movie App Admin - Administrative Console for a Video Streaming Catalog
// Copyright 2026 Rahul O. (rahulonit)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/rahulonit/movie-app-admin

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/rahulonit/movie-app-admin/docs" // generated swagger docs

	"github.com/rahulonit/movie-app-admin/internal/accounts"
	"github.com/rahulonit/movie-app-admin/internal/analytics"
	"github.com/rahulonit/movie-app-admin/internal/api"
	"github.com/rahulonit/movie-app-admin/internal/audit"
	"github.com/rahulonit/movie-app-admin/internal/authz"
	"github.com/rahulonit/movie-app-admin/internal/catalog"
	"github.com/rahulonit/movie-app-admin/internal/config"
	"github.com/rahulonit/movie-app-admin/internal/health"
	"github.com/rahulonit/movie-app-admin/internal/history"
	"github.com/rahulonit/movie-app-admin/internal/logging"
	"github.com/rahulonit/movie-app-admin/internal/session"
	"github.com/rahulonit/movie-app-admin/internal/store"
	"github.com/rahulonit/movie-app-admin/internal/supervisor"
	"github.com/rahulonit/movie-app-admin/internal/upstream"
	ws "github.com/rahulonit/movie-app-admin/internal/websocket"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().
		Str("upstream", cfg.Upstream.BaseURL).
		Str("addr", cfg.Server.ListenAddr()).
		Bool("audit", cfg.Audit.Enabled).
		Bool("history", cfg.History.Enabled).
		Msg("Starting Movie App Admin console")

	// Credential storage. Ephemeral mode keeps the operator session in
	// memory; the default Badger store survives restarts, optionally
	// encrypted at rest.
	sessions, err := buildSessionManager(cfg.Session)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to open session store")
	}
	defer func() {
		if err := sessions.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing session store")
		}
	}()

	client := upstream.NewClient(cfg.Upstream, sessions)
	movieSvc := catalog.NewMovieService(client)
	seriesSvc := catalog.NewSeriesService(client)
	accountSvc := accounts.NewService(client)
	analyticsSvc := analytics.NewService(client)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// The audit bus always runs; persistence and the NATS mirror are
	// optional layers on top of it.
	bus := audit.NewBus(cfg.Audit.BufferSize)
	defer func() {
		if err := bus.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing audit bus")
		}
	}()
	recorder := audit.NewRecorder(bus)

	// One DuckDB file backs both local data concerns.
	var db *store.DB
	if cfg.Audit.Enabled || cfg.History.Enabled {
		db, err = store.Open(cfg.History)
		if err != nil {
			logging.Fatal().Err(err).Msg("Failed to open console database")
		}
		defer func() {
			if err := db.Close(); err != nil {
				logging.Error().Err(err).Msg("Error closing console database")
			}
		}()
	}

	var auditStore audit.Store
	if cfg.Audit.Enabled {
		duckStore, err := audit.NewDuckDBStore(db)
		if err != nil {
			logging.Fatal().Err(err).Msg("Failed to initialize audit store")
		}
		auditStore = duckStore
		logging.Info().Int("retention_days", cfg.Audit.RetentionDays).Msg("Audit trail enabled")
	}

	hub := ws.NewHub()

	subscriber := audit.NewSubscriber(bus, auditStore)
	subscriber.Forward = func(event audit.Event) {
		hub.Broadcast(ws.MessageTypeAuditEvent, event)
	}
	if cfg.Audit.RetentionDays > 0 {
		subscriber.Retention = time.Duration(cfg.Audit.RetentionDays) * 24 * time.Hour
	}

	var historyStore *history.Store
	if cfg.History.Enabled {
		historyStore, err = history.NewStore(db)
		if err != nil {
			logging.Fatal().Err(err).Msg("Failed to initialize snapshot history")
		}
	}

	var monitor *health.Monitor
	if cfg.Health.Enabled {
		monitor = health.NewMonitor(client, hub, cfg.Health.PollInterval)
	}

	enforcerCfg := authz.DefaultEnforcerConfig()
	if cfg.Security.DefaultRole != "" {
		enforcerCfg.DefaultRole = cfg.Security.DefaultRole
	}
	enforcer, err := authz.NewEnforcer(enforcerCfg)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize access control")
	}
	defer enforcer.Close()
	guard := authz.NewMiddleware(enforcer, api.SubjectFromContext, recorder)

	handlers := api.NewHandlers(
		client,
		movieSvc,
		seriesSvc,
		accountSvc,
		analyticsSvc,
		historyStore,
		auditStore,
		recorder,
		hub,
		monitor,
		cfg.Server.CORSOrigins,
	)

	router := api.NewRouter(handlers, guard, api.RouterConfig{
		CORSOrigins:       cfg.Server.CORSOrigins,
		RateLimitRequests: cfg.Security.RateLimitReqs,
		RateLimitWindow:   cfg.Security.RateLimitWindow,
		RateLimitDisabled: cfg.Security.RateLimitDisabled,
	})
	if cfg.Security.RateLimitDisabled {
		logging.Warn().Msg("Inbound rate limiting is DISABLED")
	}

	server := &http.Server{
		Addr:         cfg.Server.ListenAddr(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	tree := supervisor.NewTree(logging.NewSlogLogger(), supervisor.TreeConfig{
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	})

	// Data layer: durable local state.
	tree.AddDataService(subscriber)
	if historyStore != nil {
		poller := history.NewPoller(analyticsSvc, historyStore, cfg.History.SnapshotInterval)
		poller.OnSnapshot = func(snap analytics.Snapshot) {
			hub.Broadcast(ws.MessageTypeSnapshotCompleted, snap)
		}
		tree.AddDataService(poller)
	}

	// Messaging layer: live fanout.
	tree.AddMessagingService(hub)
	if err := addAuditTransport(tree, cfg.Audit.NATS, bus); err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize NATS audit transport")
	}

	// API layer: request serving.
	tree.AddAPIService(supervisor.NewHTTPService(server, cfg.Server.ShutdownTimeout))
	if monitor != nil {
		tree.AddAPIService(monitor)
	}
	logging.Info().Str("addr", server.Addr).Msg("HTTP server added to supervisor tree")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	logging.Info().Msg("Starting supervisor tree")
	errCh := tree.ServeBackground(ctx)

	for err := range errCh {
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor tree error")
		}
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	for _, svc := range unstopped {
		logging.Warn().Str("service", svc.Name).Msg("Service failed to stop within timeout")
	}

	logging.Info().Msg("Console stopped gracefully")
}

// buildSessionManager selects the credential store from configuration.
func buildSessionManager(cfg config.SessionConfig) (*session.Manager, error) {
	if cfg.Ephemeral {
		logging.Info().Msg("Session store: in-memory (session lost on restart)")
		return session.NewManager(session.NewMemoryStore()), nil
	}

	inner, err := session.NewBadgerStore(cfg.StorePath)
	if err != nil {
		return nil, err
	}

	var s session.Store = inner
	if cfg.EncryptionKey != "" {
		enc, err := session.NewEncryptor(cfg.EncryptionKey)
		if err != nil {
			return nil, err
		}
		s = session.NewCipherStore(inner, enc)
		logging.Info().Str("path", cfg.StorePath).Msg("Session store: Badger with at-rest encryption")
	} else {
		logging.Info().Str("path", cfg.StorePath).Msg("Session store: Badger")
	}

	return session.NewManager(s), nil
}
