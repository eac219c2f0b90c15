// Movie App Admin - Administrative Console for a Video Streaming Catalog
// Copyright 2026 Rahul O. (rahulonit)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/rahulonit/movie-app-admin

package config

import (
	"fmt"
	"time"
)

// Config holds all application configuration loaded from environment variables
// and an optional config file.
//
// Configuration Loading Order (Koanf v2):
//  1. Defaults: Built-in sensible defaults for all settings
//  2. Config File: Optional YAML config file (config.yaml) for persistent settings
//  3. Environment Variables: Override any setting via environment variables
//
// Configuration Categories:
//
//  1. Upstream:
//     - Upstream: Movie App API connection (base URL, timeouts, rate limit, breaker)
//
//  2. Console:
//     - Server: HTTP server configuration (host, port, timeouts, CORS)
//     - Session: Credential storage (store path, encryption, ephemeral mode)
//     - Security: Inbound rate limiting and default role
//
//  3. Data & Events:
//     - Audit: Audit trail persistence and optional NATS transport
//     - History: DuckDB analytics snapshot recording
//     - Health: Upstream health polling
//
//  4. Observability:
//     - Logging: Log levels and output formats
//
// Example - Load configuration from environment:
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal("Failed to load config:", err)
//	}
//	// cfg.Upstream.BaseURL, cfg.History.DatabasePath, etc. are now populated
//
// Thread Safety:
// Config is immutable after Load() and safe for concurrent read access from
// multiple goroutines.
type Config struct {
	Upstream UpstreamConfig `koanf:"upstream"`
	Server   ServerConfig   `koanf:"server"`
	Session  SessionConfig  `koanf:"session"`
	Security SecurityConfig `koanf:"security"`
	Audit    AuditConfig    `koanf:"audit"`
	History  HistoryConfig  `koanf:"history"`
	Health   HealthConfig   `koanf:"health"`
	Logging  LoggingConfig  `koanf:"logging"`
}

// UpstreamConfig holds the connection settings for the Movie App API that the
// console proxies. BaseURL includes the API prefix (e.g. http://localhost:5000/api)
// and falls back to the built-in default when API_BASE_URL is unset.
//
// Environment Variables:
//   - API_BASE_URL: Upstream API base URL (default: http://localhost:5000/api)
//   - UPSTREAM_TIMEOUT: Per-request timeout (default: 30s)
//   - UPSTREAM_REFRESH_TIMEOUT: Detached deadline for token refresh (default: 15s)
//   - UPSTREAM_RATE_LIMIT / UPSTREAM_RATE_BURST: Outgoing request budget
type UpstreamConfig struct {
	BaseURL           string        `koanf:"base_url"`            // Base URL of the upstream API, may carry a path prefix
	Timeout           time.Duration `koanf:"timeout"`             // Per-request HTTP timeout
	RefreshTimeout    time.Duration `koanf:"refresh_timeout"`     // Deadline for a token refresh call, independent of caller contexts
	RequestsPerSecond float64       `koanf:"requests_per_second"` // Outgoing rate limit (0 disables)
	Burst             int           `koanf:"burst"`               // Outgoing rate limit burst
	Breaker           BreakerConfig `koanf:"breaker"`             // Circuit breaker for upstream calls
}

// BreakerConfig tunes the circuit breaker guarding upstream calls.
// The breaker opens when at least MinRequests were observed in the rolling
// Interval and the failure ratio reached FailureThreshold.
type BreakerConfig struct {
	Enabled          bool          `koanf:"enabled"`           // Master toggle for the breaker
	MaxRequests      uint32        `koanf:"max_requests"`      // Probes allowed in half-open state
	Interval         time.Duration `koanf:"interval"`          // Rolling window for failure counting
	Timeout          time.Duration `koanf:"timeout"`           // How long the breaker stays open before probing
	MinRequests      uint32        `koanf:"min_requests"`      // Minimum observations before the breaker may trip
	FailureThreshold float64       `koanf:"failure_threshold"` // Failure ratio (0..1] that trips the breaker
}

// ServerConfig holds the console HTTP server settings.
type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	CORSOrigins     []string      `koanf:"cors_origins"`
	Environment     string        `koanf:"environment"` // "development" or "production"
}

// SessionConfig holds credential storage settings. The console persists the
// access token, refresh token, and serialized session user so an operator
// session survives restarts. Ephemeral mode keeps credentials in memory only.
type SessionConfig struct {
	StorePath     string `koanf:"store_path"`     // Badger directory for durable credential storage
	EncryptionKey string `koanf:"encryption_key"` // Optional base64 key enabling at-rest encryption
	Ephemeral     bool   `koanf:"ephemeral"`      // Use the in-memory store instead of Badger
}

// SecurityConfig holds inbound protection settings for the console API.
type SecurityConfig struct {
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`     // Requests allowed per window per client IP
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`   // Rate limit window
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"` // Disable inbound rate limiting entirely
	DefaultRole       string        `koanf:"default_role"`        // Role assumed when the session user carries none
}

// AuditConfig holds audit trail settings. Events always flow through the
// in-process bus; persistence and the NATS transport are optional layers.
type AuditConfig struct {
	Enabled       bool       `koanf:"enabled"`        // Persist audit events to DuckDB
	BufferSize    int        `koanf:"buffer_size"`    // Event bus output channel buffer
	RetentionDays int        `koanf:"retention_days"` // Events older than this are purged
	NATS          NATSConfig `koanf:"nats"`           // Optional JetStream transport (requires -tags=nats)
}

// NATSConfig holds the optional NATS JetStream transport settings for audit
// events. Only honored by binaries built with -tags=nats.
type NATSConfig struct {
	Enabled        bool   `koanf:"enabled"`
	URL            string `koanf:"url"`
	EmbeddedServer bool   `koanf:"embedded_server"` // Run an embedded NATS server instead of connecting out
	StoreDir       string `koanf:"store_dir"`       // JetStream storage directory for the embedded server
	MaxMemory      int64  `koanf:"max_memory"`      // JetStream memory limit in bytes
	MaxStore       int64  `koanf:"max_store"`       // JetStream disk limit in bytes
}

// HistoryConfig holds the DuckDB-backed analytics snapshot settings.
// The snapshot poller records the upstream dashboard on the configured
// interval so the console can chart trends the upstream API does not keep.
type HistoryConfig struct {
	Enabled          bool          `koanf:"enabled"`
	DatabasePath     string        `koanf:"database_path"`     // DuckDB file path, shared with the audit store
	MaxMemory        string        `koanf:"max_memory"`        // DuckDB memory limit (e.g. "2GB")
	Threads          int           `koanf:"threads"`           // DuckDB threads, 0 = runtime.NumCPU()
	SnapshotInterval time.Duration `koanf:"snapshot_interval"` // How often to record a dashboard snapshot
}

// HealthConfig holds upstream health polling settings.
type HealthConfig struct {
	Enabled      bool          `koanf:"enabled"`
	PollInterval time.Duration `koanf:"poll_interval"`
}

// LoggingConfig holds log output settings.
type LoggingConfig struct {
	Level  string `koanf:"level"`  // trace, debug, info, warn, error
	Format string `koanf:"format"` // json or console
	Caller bool   `koanf:"caller"` // Include caller file:line in log output
}

// Load reads configuration from environment variables and an optional config
// file. Configuration is loaded in the following order (later sources override
// earlier ones):
//  1. Built-in defaults
//  2. Config file (config.yaml if exists, or path specified in CONFIG_PATH)
//  3. Environment variables
//
// See LoadWithKoanf() for the underlying implementation.
func Load() (*Config, error) {
	return LoadWithKoanf()
}

// ListenAddr returns the host:port address the console HTTP server binds to.
func (c *ServerConfig) ListenAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
