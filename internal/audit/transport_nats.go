// Movie App Admin - Administrative Console for a Video Streaming Catalog
// Copyright 2026 Rahul O. (rahulonit)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/rahulonit/movie-app-admin

//go:build nats

package audit

import (
	"context"
	"fmt"
	"time"

	wmnats "github.com/ThreeDotsLabs/watermill-nats/v2/pkg/nats"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/nats-io/nats-server/v2/server"
	natsgo "github.com/nats-io/nats.go"

	"github.com/rahulonit/movie-app-admin/internal/config"
	"github.com/rahulonit/movie-app-admin/internal/logging"
)

// EmbeddedServer runs a NATS JetStream broker inside the console process for
// single-instance deployments with no external broker.
type EmbeddedServer struct {
	server    *server.Server
	clientURL string
}

// NewEmbeddedServer starts an embedded NATS server with JetStream enabled.
func NewEmbeddedServer(cfg config.NATSConfig) (*EmbeddedServer, error) {
	opts := &server.Options{
		ServerName:         "movie-app-admin-audit",
		Port:               server.RANDOM_PORT,
		JetStream:          true,
		StoreDir:           cfg.StoreDir,
		JetStreamMaxMemory: cfg.MaxMemory,
		JetStreamMaxStore:  cfg.MaxStore,
		NoLog:              true,
		NoSigs:             true,
	}

	ns, err := server.NewServer(opts)
	if err != nil {
		return nil, fmt.Errorf("create embedded NATS server: %w", err)
	}

	go ns.Start()
	if !ns.ReadyForConnections(30 * time.Second) {
		ns.Shutdown()
		return nil, fmt.Errorf("embedded NATS server not ready within 30s")
	}

	logging.Info().Str("url", ns.ClientURL()).Msg("Embedded NATS server started")
	return &EmbeddedServer{server: ns, clientURL: ns.ClientURL()}, nil
}

// ClientURL returns the connection URL for clients.
func (s *EmbeddedServer) ClientURL() string {
	return s.clientURL
}

// Shutdown stops the server and waits for it to drain.
func (s *EmbeddedServer) Shutdown() {
	s.server.Shutdown()
	s.server.WaitForShutdown()
}

// NATSForwarder mirrors the in-process audit stream onto NATS JetStream so
// external consumers (SIEM pipelines, retention jobs) can tail the trail.
// It implements suture.Service via Serve.
type NATSForwarder struct {
	bus       *Bus
	publisher message.Publisher
	embedded  *EmbeddedServer
}

// NewNATSForwarder connects to NATS (or starts an embedded server when
// configured) and prepares the JetStream publisher.
func NewNATSForwarder(cfg config.NATSConfig, bus *Bus) (*NATSForwarder, error) {
	url := cfg.URL
	var embedded *EmbeddedServer
	if cfg.EmbeddedServer {
		var err error
		embedded, err = NewEmbeddedServer(cfg)
		if err != nil {
			return nil, err
		}
		url = embedded.ClientURL()
	}

	natsOpts := []natsgo.Option{
		natsgo.RetryOnFailedConnect(true),
		natsgo.MaxReconnects(-1),
		natsgo.ReconnectWait(time.Second),
		natsgo.DisconnectErrHandler(func(_ *natsgo.Conn, err error) {
			if err != nil {
				logging.Warn().Err(err).Msg("NATS disconnected")
			}
		}),
		natsgo.ReconnectHandler(func(nc *natsgo.Conn) {
			logging.Info().Str("url", nc.ConnectedUrl()).Msg("NATS reconnected")
		}),
	}

	publisher, err := wmnats.NewPublisher(wmnats.PublisherConfig{
		URL:         url,
		NatsOptions: natsOpts,
		Marshaler:   &wmnats.NATSMarshaler{},
		JetStream: wmnats.JetStreamConfig{
			AutoProvision: true,
			TrackMsgId:    true,
		},
	}, newBusLogger())
	if err != nil {
		if embedded != nil {
			embedded.Shutdown()
		}
		return nil, fmt.Errorf("create NATS audit publisher: %w", err)
	}

	return &NATSForwarder{bus: bus, publisher: publisher, embedded: embedded}, nil
}

// Serve copies bus messages to JetStream until ctx is canceled. Forwarding
// is best effort: a publish failure is logged and the message acked anyway,
// the DuckDB trail stays authoritative.
func (f *NATSForwarder) Serve(ctx context.Context) error {
	messages, err := f.bus.Subscribe(ctx)
	if err != nil {
		return err
	}
	logging.Info().Msg("NATS audit forwarder started")

	for {
		select {
		case <-ctx.Done():
			f.shutdown()
			return ctx.Err()
		case msg, ok := <-messages:
			if !ok {
				f.shutdown()
				return ctx.Err()
			}
			out := message.NewMessage(msg.UUID, msg.Payload)
			for k, v := range msg.Metadata {
				out.Metadata.Set(k, v)
			}
			if err := f.publisher.Publish(Topic, out); err != nil {
				logging.Warn().Err(err).Str("event_id", msg.UUID).Msg("NATS audit forward failed")
			}
			msg.Ack()
		}
	}
}

func (f *NATSForwarder) shutdown() {
	if err := f.publisher.Close(); err != nil {
		logging.Warn().Err(err).Msg("NATS publisher close failed")
	}
	if f.embedded != nil {
		f.embedded.Shutdown()
	}
}

// String names the forwarder in supervisor logs.
func (f *NATSForwarder) String() string {
	return "audit-nats-forwarder"
}
