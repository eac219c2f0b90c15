// Movie App Admin - Administrative Console for a Video Streaming Catalog
// Copyright 2026 Rahul O. (rahulonit)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/rahulonit/movie-app-admin

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the paths where config files are searched in order
// of priority. The first file found will be used.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/movie-app-admin/config.yaml",
	"/etc/movie-app-admin/config.yml",
}

// ConfigPathEnvVar is the environment variable that can override the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// DefaultUpstreamBaseURL is the upstream API address used when API_BASE_URL
// is not set.
const DefaultUpstreamBaseURL = "http://localhost:5000/api"

// defaultConfig returns a Config struct with all sensible default values.
// These defaults are applied first, then overridden by config file and env vars.
func defaultConfig() *Config {
	return &Config{
		Upstream: UpstreamConfig{
			BaseURL:           DefaultUpstreamBaseURL,
			Timeout:           30 * time.Second,
			RefreshTimeout:    15 * time.Second,
			RequestsPerSecond: 50,
			Burst:             100,
			Breaker: BreakerConfig{
				Enabled:          true,
				MaxRequests:      3,
				Interval:         time.Minute,
				Timeout:          2 * time.Minute,
				MinRequests:      10,
				FailureThreshold: 0.6,
			},
		},
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8080,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			CORSOrigins:     []string{"*"},
			Environment:     "development", // Default to development; set ENVIRONMENT=production for production checks
		},
		Session: SessionConfig{
			// Default to persistent storage so operator sessions survive restarts
			StorePath:     "/data/sessions",
			EncryptionKey: "",
			Ephemeral:     false,
		},
		Security: SecurityConfig{
			RateLimitReqs:     100,
			RateLimitWindow:   time.Minute,
			RateLimitDisabled: false,
			DefaultRole:       "viewer",
		},
		Audit: AuditConfig{
			Enabled:       true,
			BufferSize:    256,
			RetentionDays: 90,
			NATS: NATSConfig{
				Enabled:        false,
				URL:            "nats://127.0.0.1:4222",
				EmbeddedServer: true,
				StoreDir:       "/data/nats/jetstream",
				MaxMemory:      1 << 30,  // 1GB
				MaxStore:       10 << 30, // 10GB
			},
		},
		History: HistoryConfig{
			Enabled:          true,
			DatabasePath:     "/data/movie-app-admin.duckdb",
			MaxMemory:        "2GB",
			Threads:          0, // 0 = use runtime.NumCPU()
			SnapshotInterval: 15 * time.Minute,
		},
		Health: HealthConfig{
			Enabled:      true,
			PollInterval: 30 * time.Second,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
	}
}

// LoadWithKoanf loads configuration using Koanf v2 with layered sources:
//  1. Defaults: Built-in sensible defaults
//  2. Config File: Optional YAML config file (if exists)
//  3. Environment Variables: Override any setting
//
// This function is the preferred way to load configuration and provides:
//   - Type-safe configuration unmarshaling
//   - Clear precedence: ENV > File > Defaults
//   - Support for nested configuration via koanf struct tags
func LoadWithKoanf() (*Config, error) {
	k := koanf.New(".")

	// Layer 1: Load defaults from struct
	defaults := defaultConfig()
	if err := k.Load(structs.Provider(defaults, "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// Layer 2: Load config file (optional)
	configPath := findConfigFile()
	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// Layer 3: Load environment variables (highest priority)
	// Transform environment variable names to koanf paths:
	// API_BASE_URL -> upstream.base_url
	// HTTP_PORT -> server.port
	envProvider := env.Provider("", ".", envTransformFunc)
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	// Post-process slice fields from comma-separated strings
	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	// Unmarshal into Config struct
	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	// An explicitly empty API_BASE_URL still means "use the default"
	if strings.TrimSpace(cfg.Upstream.BaseURL) == "" {
		cfg.Upstream.BaseURL = DefaultUpstreamBaseURL
	}

	// Validate the configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// findConfigFile searches for a config file in the default paths.
// Returns the path to the first file found, or empty string if none found.
func findConfigFile() string {
	// Check environment variable first
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	// Search default paths
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// sliceConfigPaths defines which config paths should be parsed as comma-separated slices
var sliceConfigPaths = []string{
	"server.cors_origins",
}

// processSliceFields converts comma-separated string values to slices for known slice fields.
// This is necessary because env vars come in as strings, but the config expects slices.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		val := k.Get(path)
		if val == nil {
			continue
		}

		// If it's already a slice (from YAML file), skip
		if _, ok := val.([]interface{}); ok {
			continue
		}
		if _, ok := val.([]string); ok {
			continue
		}

		// If it's a string, split by comma
		if strVal, ok := val.(string); ok {
			if strVal == "" {
				continue
			}
			parts := strings.Split(strVal, ",")
			trimmed := make([]string, 0, len(parts))
			for _, p := range parts {
				p = strings.TrimSpace(p)
				if p != "" {
					trimmed = append(trimmed, p)
				}
			}
			if len(trimmed) > 0 {
				if err := k.Set(path, trimmed); err != nil {
					return fmt.Errorf("failed to set %s: %w", path, err)
				}
			}
		}
	}
	return nil
}

// envTransformFunc transforms environment variable names to koanf config paths.
//
// Examples:
//   - API_BASE_URL -> upstream.base_url
//   - UPSTREAM_TIMEOUT -> upstream.timeout
//   - HTTP_PORT -> server.port
//   - DUCKDB_PATH -> history.database_path
func envTransformFunc(key string) string {
	key = strings.ToLower(key)

	envMappings := map[string]string{
		// Upstream mappings. API_BASE_URL is the canonical variable the
		// frontend build also consumes; UPSTREAM_BASE_URL is accepted as an alias.
		"api_base_url":                       "upstream.base_url",
		"upstream_base_url":                  "upstream.base_url",
		"upstream_timeout":                   "upstream.timeout",
		"upstream_refresh_timeout":           "upstream.refresh_timeout",
		"upstream_rate_limit":                "upstream.requests_per_second",
		"upstream_rate_burst":                "upstream.burst",
		"upstream_breaker_enabled":           "upstream.breaker.enabled",
		"upstream_breaker_max_requests":      "upstream.breaker.max_requests",
		"upstream_breaker_interval":          "upstream.breaker.interval",
		"upstream_breaker_timeout":           "upstream.breaker.timeout",
		"upstream_breaker_min_requests":      "upstream.breaker.min_requests",
		"upstream_breaker_failure_threshold": "upstream.breaker.failure_threshold",

		// Server mappings
		"http_host":             "server.host",
		"http_port":             "server.port",
		"http_read_timeout":     "server.read_timeout",
		"http_write_timeout":    "server.write_timeout",
		"http_shutdown_timeout": "server.shutdown_timeout",
		"cors_origins":          "server.cors_origins",
		"environment":           "server.environment",

		// Session store mappings
		"session_store_path":     "session.store_path",
		"session_encryption_key": "session.encryption_key",
		"session_ephemeral":      "session.ephemeral",

		// Security mappings
		"rate_limit_requests": "security.rate_limit_reqs",
		"rate_limit_window":   "security.rate_limit_window",
		"disable_rate_limit":  "security.rate_limit_disabled",
		"default_role":        "security.default_role",

		// Audit mappings
		"audit_enabled":        "audit.enabled",
		"audit_buffer_size":    "audit.buffer_size",
		"audit_retention_days": "audit.retention_days",

		// NATS mappings (audit transport)
		"nats_enabled":    "audit.nats.enabled",
		"nats_url":        "audit.nats.url",
		"nats_embedded":   "audit.nats.embedded_server",
		"nats_store_dir":  "audit.nats.store_dir",
		"nats_max_memory": "audit.nats.max_memory",
		"nats_max_store":  "audit.nats.max_store",

		// History mappings
		"history_enabled":   "history.enabled",
		"duckdb_path":       "history.database_path",
		"duckdb_max_memory": "history.max_memory",
		"duckdb_threads":    "history.threads",
		"snapshot_interval": "history.snapshot_interval",

		// Health mappings
		"health_enabled":       "health.enabled",
		"health_poll_interval": "health.poll_interval",

		// Logging mappings
		"log_level":  "logging.level",
		"log_format": "logging.format",
		"log_caller": "logging.caller",
	}

	if mapped, ok := envMappings[key]; ok {
		return mapped
	}

	// For unmapped keys, return empty string to skip them
	// This prevents random environment variables from polluting config
	return ""
}

// WatchConfigFile sets up a file watcher for hot-reload capability.
// Note: The caller is responsible for mutex protection when accessing
// configuration during reloads.
func WatchConfigFile(path string, callback func()) error {
	provider := file.Provider(path)

	// Start watching the file for changes
	return provider.Watch(func(event interface{}, err error) {
		if err != nil {
			return
		}
		callback()
	})
}
