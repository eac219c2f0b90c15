// Movie App Admin - Administrative Console for a Video Streaming Catalog
// Copyright 2026 Rahul O. (rahulonit)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/rahulonit/movie-app-admin

package config

import (
	"encoding/base64"
	"fmt"
	"strings"
	"time"
)

// Validate checks that required configuration is present and valid
func (c *Config) Validate() error {
	if err := c.validateUpstream(); err != nil {
		return err
	}

	if err := c.validateServer(); err != nil {
		return err
	}

	if err := c.validateSession(); err != nil {
		return err
	}

	if err := c.validateSecurity(); err != nil {
		return err
	}

	if err := c.validateAudit(); err != nil {
		return err
	}

	if err := c.validateHistory(); err != nil {
		return err
	}

	if err := c.validateHealth(); err != nil {
		return err
	}

	return c.validateLogging()
}

// validateUpstream validates the upstream API connection settings
func (c *Config) validateUpstream() error {
	if err := c.validateUpstreamBaseURL(); err != nil {
		return err
	}
	if err := c.validateUpstreamTimeouts(); err != nil {
		return err
	}
	if err := c.validateUpstreamRateLimit(); err != nil {
		return err
	}
	return c.validateBreaker()
}

// validateUpstreamBaseURL validates the upstream base URL
func (c *Config) validateUpstreamBaseURL() error {
	if c.Upstream.BaseURL == "" {
		return fmt.Errorf("API_BASE_URL must not be empty")
	}
	if err := validateAPIBaseURL(c.Upstream.BaseURL); err != nil {
		return fmt.Errorf("API_BASE_URL is invalid: %w", err)
	}
	return nil
}

// Upstream timeout bounds
const (
	minUpstreamTimeout = time.Second
	maxUpstreamTimeout = 5 * time.Minute
)

// validateUpstreamTimeouts validates the per-request and refresh deadlines
func (c *Config) validateUpstreamTimeouts() error {
	if c.Upstream.Timeout < minUpstreamTimeout || c.Upstream.Timeout > maxUpstreamTimeout {
		return fmt.Errorf("UPSTREAM_TIMEOUT must be between %v and %v", minUpstreamTimeout, maxUpstreamTimeout)
	}
	if c.Upstream.RefreshTimeout < minUpstreamTimeout || c.Upstream.RefreshTimeout > maxUpstreamTimeout {
		return fmt.Errorf("UPSTREAM_REFRESH_TIMEOUT must be between %v and %v", minUpstreamTimeout, maxUpstreamTimeout)
	}
	return nil
}

// validateUpstreamRateLimit validates the outgoing rate limit settings
func (c *Config) validateUpstreamRateLimit() error {
	if c.Upstream.RequestsPerSecond < 0 {
		return fmt.Errorf("UPSTREAM_RATE_LIMIT must be non-negative (0 disables the limiter)")
	}
	if c.Upstream.RequestsPerSecond > 0 && c.Upstream.Burst < 1 {
		return fmt.Errorf("UPSTREAM_RATE_BURST must be at least 1 when the rate limiter is enabled")
	}
	return nil
}

// validateBreaker validates circuit breaker bounds (only if enabled)
func (c *Config) validateBreaker() error {
	if !c.Upstream.Breaker.Enabled {
		return nil
	}

	b := c.Upstream.Breaker
	if b.MaxRequests < 1 {
		return fmt.Errorf("UPSTREAM_BREAKER_MAX_REQUESTS must be at least 1")
	}
	if b.Interval < time.Second {
		return fmt.Errorf("UPSTREAM_BREAKER_INTERVAL must be at least 1s")
	}
	if b.Timeout < time.Second {
		return fmt.Errorf("UPSTREAM_BREAKER_TIMEOUT must be at least 1s")
	}
	if b.MinRequests < 1 {
		return fmt.Errorf("UPSTREAM_BREAKER_MIN_REQUESTS must be at least 1")
	}
	if b.FailureThreshold <= 0 || b.FailureThreshold > 1 {
		return fmt.Errorf("UPSTREAM_BREAKER_FAILURE_THRESHOLD must be in (0, 1]")
	}
	return nil
}

// validateServer validates server configuration
func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535")
	}
	return nil
}

// minSessionKeyBytes is the minimum decoded length of the session encryption key.
const minSessionKeyBytes = 16

// validateSession validates credential storage configuration
func (c *Config) validateSession() error {
	if err := c.validateSessionStorePath(); err != nil {
		return err
	}
	return c.validateSessionEncryptionKey()
}

// validateSessionStorePath requires a store path when the durable store is in use
func (c *Config) validateSessionStorePath() error {
	if c.Session.Ephemeral {
		return nil
	}
	if c.Session.StorePath == "" {
		return fmt.Errorf("SESSION_STORE_PATH is required unless SESSION_EPHEMERAL=true")
	}
	return nil
}

// validateSessionEncryptionKey validates the optional at-rest encryption key.
// The key is base64-encoded and must decode to at least 16 bytes of material.
func (c *Config) validateSessionEncryptionKey() error {
	if c.Session.EncryptionKey == "" {
		return nil
	}
	if containsPlaceholder(c.Session.EncryptionKey) {
		return fmt.Errorf("SESSION_ENCRYPTION_KEY contains a placeholder value - generate a key with: openssl rand -base64 32")
	}
	decoded, err := base64.StdEncoding.DecodeString(c.Session.EncryptionKey)
	if err != nil {
		return fmt.Errorf("SESSION_ENCRYPTION_KEY must be valid base64: %w", err)
	}
	if len(decoded) < minSessionKeyBytes {
		return fmt.Errorf("SESSION_ENCRYPTION_KEY must decode to at least %d bytes", minSessionKeyBytes)
	}
	return nil
}

// Rate limit constants
const (
	minRateLimitRequests = 1           // Minimum 1 request allowed
	maxRateLimitRequests = 100000      // Maximum 100K requests per window
	minRateLimitWindow   = time.Second // Minimum 1 second window
	maxRateLimitWindow   = time.Hour   // Maximum 1 hour window
)

// validateSecurity validates inbound protection configuration
func (c *Config) validateSecurity() error {
	if err := c.validateRateLimits(); err != nil {
		return err
	}
	return c.validateDefaultRole()
}

// validateRateLimits validates rate limiting configuration bounds.
// Ensures rate limit values are within sensible ranges to prevent
// misconfiguration that could lead to DoS or ineffective protection.
func (c *Config) validateRateLimits() error {
	if c.Security.RateLimitDisabled {
		return nil
	}

	if c.Security.RateLimitReqs < minRateLimitRequests || c.Security.RateLimitReqs > maxRateLimitRequests {
		return fmt.Errorf("RATE_LIMIT_REQUESTS must be between %d and %d", minRateLimitRequests, maxRateLimitRequests)
	}
	if c.Security.RateLimitWindow < minRateLimitWindow || c.Security.RateLimitWindow > maxRateLimitWindow {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be between %v and %v", minRateLimitWindow, maxRateLimitWindow)
	}
	return nil
}

// validRoles defines the roles known to the console's access model
var validRoles = map[string]bool{
	"admin":  true,
	"editor": true,
	"viewer": true,
}

// validateDefaultRole checks the fallback role for session users without one
func (c *Config) validateDefaultRole() error {
	if !validRoles[c.Security.DefaultRole] {
		return fmt.Errorf("DEFAULT_ROLE must be one of: admin, editor, viewer")
	}
	return nil
}

// Audit bounds
const (
	minAuditBuffer    = 1
	maxAuditBuffer    = 65536
	minRetentionDays  = 1
	maxRetentionDays  = 3650
	natsMinMemory     = 64 * 1024 * 1024  // 64MB
	natsMinStore      = 100 * 1024 * 1024 // 100MB
)

// validateAudit validates audit trail configuration (only if enabled)
func (c *Config) validateAudit() error {
	if !c.Audit.Enabled {
		return nil
	}

	if c.Audit.BufferSize < minAuditBuffer || c.Audit.BufferSize > maxAuditBuffer {
		return fmt.Errorf("AUDIT_BUFFER_SIZE must be between %d and %d", minAuditBuffer, maxAuditBuffer)
	}
	if c.Audit.RetentionDays < minRetentionDays || c.Audit.RetentionDays > maxRetentionDays {
		return fmt.Errorf("AUDIT_RETENTION_DAYS must be between %d and %d", minRetentionDays, maxRetentionDays)
	}

	return c.validateAuditNATS()
}

// validateAuditNATS validates the optional NATS transport (only if enabled)
func (c *Config) validateAuditNATS() error {
	if !c.Audit.NATS.Enabled {
		return nil
	}

	if err := validateNATSURL(c.Audit.NATS.URL); err != nil {
		return fmt.Errorf("NATS_URL is invalid: %w", err)
	}
	if c.Audit.NATS.MaxMemory < natsMinMemory {
		return fmt.Errorf("NATS_MAX_MEMORY must be at least 64MB (67108864 bytes)")
	}
	if c.Audit.NATS.MaxStore < natsMinStore {
		return fmt.Errorf("NATS_MAX_STORE must be at least 100MB (104857600 bytes)")
	}
	return nil
}

// Snapshot interval bounds
const (
	minSnapshotInterval = 10 * time.Second
	maxSnapshotInterval = 24 * time.Hour
)

// validateHistory validates analytics snapshot configuration (only if enabled)
func (c *Config) validateHistory() error {
	if !c.History.Enabled {
		return nil
	}

	if c.History.DatabasePath == "" {
		return fmt.Errorf("DUCKDB_PATH is required when HISTORY_ENABLED=true")
	}
	if c.History.Threads < 0 {
		return fmt.Errorf("DUCKDB_THREADS must be non-negative (0 = all cores)")
	}
	if c.History.SnapshotInterval < minSnapshotInterval || c.History.SnapshotInterval > maxSnapshotInterval {
		return fmt.Errorf("SNAPSHOT_INTERVAL must be between %v and %v", minSnapshotInterval, maxSnapshotInterval)
	}
	return nil
}

// Health poll bounds
const (
	minHealthPoll = time.Second
	maxHealthPoll = time.Hour
)

// validateHealth validates upstream health polling configuration (only if enabled)
func (c *Config) validateHealth() error {
	if !c.Health.Enabled {
		return nil
	}

	if c.Health.PollInterval < minHealthPoll || c.Health.PollInterval > maxHealthPoll {
		return fmt.Errorf("HEALTH_POLL_INTERVAL must be between %v and %v", minHealthPoll, maxHealthPoll)
	}
	return nil
}

// IsProduction returns true if the application is running in production mode.
// Production mode is determined by the ENVIRONMENT environment variable.
func (c *Config) IsProduction() bool {
	env := strings.ToLower(c.Server.Environment)
	return env == "production" || env == "prod"
}

// IsDevelopment returns true if the application is running in development mode.
func (c *Config) IsDevelopment() bool {
	env := strings.ToLower(c.Server.Environment)
	return env == "" || env == "development" || env == "dev"
}

// hasWildcardCORS checks if CORS is configured with wildcard origins
func (c *Config) hasWildcardCORS() bool {
	for _, origin := range c.Server.CORSOrigins {
		if origin == "*" {
			return true
		}
	}
	return false
}

// ShouldWarnAboutCORS returns true if CORS configuration has security concerns
// that should be logged at startup
func (c *Config) ShouldWarnAboutCORS() bool {
	return c.hasWildcardCORS() && c.IsProduction()
}

// validLogLevels defines the allowed log levels
var validLogLevels = map[string]bool{
	"trace": true,
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// validLogFormats defines the allowed log formats
var validLogFormats = map[string]bool{
	"json":    true,
	"console": true,
}

// validateLogging validates logging configuration
func (c *Config) validateLogging() error {
	if !validLogLevels[c.Logging.Level] {
		return fmt.Errorf("LOG_LEVEL must be one of: trace, debug, info, warn, error")
	}
	if c.Logging.Format != "" && !validLogFormats[c.Logging.Format] {
		return fmt.Errorf("LOG_FORMAT must be one of: json, console")
	}
	return nil
}

// placeholderPatterns defines common placeholder patterns that indicate
// the user forgot to set a real value. This prevents accidental deployment
// with insecure default credentials.
var placeholderPatterns = []string{
	"REPLACE",
	"CHANGEME",
	"CHANGE_ME",
	"YOUR_SECRET",
	"YOUR_KEY",
	"PLACEHOLDER",
	"TODO",
	"FIXME",
	"XXX",
	"EXAMPLE",
}

// containsPlaceholder checks if a value contains common placeholder patterns
// that indicate the user forgot to set a real value.
func containsPlaceholder(value string) bool {
	upperValue := strings.ToUpper(value)
	for _, pattern := range placeholderPatterns {
		if strings.Contains(upperValue, pattern) {
			return true
		}
	}
	return false
}
