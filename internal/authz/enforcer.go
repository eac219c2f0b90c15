// Movie App Admin - Administrative Console for a Video Streaming Catalog
// Copyright 2026 Rahul O. (rahulonit)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/rahulonit/movie-app-admin

// Package authz decides what a console role may do, using Casbin RBAC with
// an embedded model and policy. Three roles ship built in: viewer reads the
// catalog and analytics, editor additionally writes the catalog, admin
// additionally manages accounts and reads the audit trail.
package authz

import (
	_ "embed"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
	fileadapter "github.com/casbin/casbin/v2/persist/file-adapter"
)

//go:embed model.conf
var embeddedModel string

//go:embed policy.csv
var embeddedPolicy string

// Objects the console knows about.
const (
	ObjectCatalog   = "catalog"
	ObjectAccounts  = "accounts"
	ObjectAnalytics = "analytics"
	ObjectAudit     = "audit"
	ObjectSession   = "session"
)

// Actions on an object.
const (
	ActionRead  = "read"
	ActionWrite = "write"
)

// EnforcerConfig holds configuration for the enforcer.
type EnforcerConfig struct {
	// PolicyPath overrides the embedded policy with an operator-supplied
	// CSV file. Empty uses the built-in policy.
	PolicyPath string

	// AutoReload re-reads PolicyPath on an interval so policy edits take
	// effect without a restart. Ignored for the embedded policy.
	AutoReload     bool
	ReloadInterval time.Duration

	// DefaultRole is assumed when the upstream reports no role for a user.
	DefaultRole string

	// CacheEnabled caches decisions for CacheTTL.
	CacheEnabled bool
	CacheTTL     time.Duration
}

// DefaultEnforcerConfig returns the shipped defaults.
func DefaultEnforcerConfig() *EnforcerConfig {
	return &EnforcerConfig{
		AutoReload:     true,
		ReloadInterval: 30 * time.Second,
		DefaultRole:    "viewer",
		CacheEnabled:   true,
		CacheTTL:       5 * time.Minute,
	}
}

// Enforcer wraps the Casbin enforcer with decision caching and a default
// role fallback.
type Enforcer struct {
	config   *EnforcerConfig
	enforcer *casbin.SyncedEnforcer
	cache    *decisionCache
}

// NewEnforcer creates the authorization enforcer.
func NewEnforcer(config *EnforcerConfig) (*Enforcer, error) {
	if config == nil {
		config = DefaultEnforcerConfig()
	}

	m, err := model.NewModelFromString(embeddedModel)
	if err != nil {
		return nil, fmt.Errorf("load authz model: %w", err)
	}

	var enforcer *casbin.SyncedEnforcer
	if config.PolicyPath != "" && fileExists(config.PolicyPath) {
		adapter := fileadapter.NewAdapter(config.PolicyPath)
		enforcer, err = casbin.NewSyncedEnforcer(m, adapter)
	} else {
		enforcer, err = casbin.NewSyncedEnforcer(m)
		if err == nil {
			err = loadEmbeddedPolicy(enforcer, embeddedPolicy)
		}
	}
	if err != nil {
		return nil, fmt.Errorf("create authz enforcer: %w", err)
	}

	if config.AutoReload && config.PolicyPath != "" {
		enforcer.StartAutoLoadPolicy(config.ReloadInterval)
	}

	e := &Enforcer{config: config, enforcer: enforcer}
	if config.CacheEnabled {
		e.cache = newDecisionCache(config.CacheTTL)
	}
	return e, nil
}

// loadEmbeddedPolicy parses the embedded policy CSV into the enforcer.
func loadEmbeddedPolicy(enforcer *casbin.SyncedEnforcer, policy string) error {
	for _, line := range strings.Split(policy, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.Split(line, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}

		switch {
		case parts[0] == "p" && len(parts) >= 4:
			if _, err := enforcer.AddPolicy(parts[1], parts[2], parts[3]); err != nil {
				return fmt.Errorf("add policy %v: %w", parts[1:], err)
			}
		case parts[0] == "g" && len(parts) >= 3:
			if _, err := enforcer.AddGroupingPolicy(parts[1], parts[2]); err != nil {
				return fmt.Errorf("add grouping policy %v: %w", parts[1:], err)
			}
		}
	}
	return nil
}

// Enforce checks whether the subject may perform the action on the object.
func (e *Enforcer) Enforce(subject, object, action string) (bool, error) {
	if e.cache != nil {
		if allowed, ok := e.cache.get(subject, object, action); ok {
			return allowed, nil
		}
	}

	allowed, err := e.enforcer.Enforce(subject, object, action)
	if err != nil {
		return false, fmt.Errorf("enforce %s/%s/%s: %w", subject, object, action, err)
	}

	if e.cache != nil {
		e.cache.set(subject, object, action, allowed)
	}
	return allowed, nil
}

// EnforceRole checks a role against the object/action, substituting the
// default role when the role is empty.
func (e *Enforcer) EnforceRole(role, object, action string) (bool, error) {
	if role == "" {
		role = e.config.DefaultRole
	}
	if role == "" {
		return false, nil
	}
	return e.Enforce(role, object, action)
}

// AddRoleForUser grants a user an additional role at runtime.
func (e *Enforcer) AddRoleForUser(user, role string) error {
	if _, err := e.enforcer.AddGroupingPolicy(user, role); err != nil {
		return fmt.Errorf("add role %q for %q: %w", role, user, err)
	}
	if e.cache != nil {
		e.cache.invalidateSubject(user)
	}
	return nil
}

// RemoveRoleForUser revokes a role from a user.
func (e *Enforcer) RemoveRoleForUser(user, role string) error {
	if _, err := e.enforcer.RemoveGroupingPolicy(user, role); err != nil {
		return fmt.Errorf("remove role %q for %q: %w", role, user, err)
	}
	if e.cache != nil {
		e.cache.invalidateSubject(user)
	}
	return nil
}

// RolesFor returns the roles a subject inherits.
func (e *Enforcer) RolesFor(subject string) ([]string, error) {
	return e.enforcer.GetRolesForUser(subject)
}

// Policy returns all policy rules, for the audit surface.
func (e *Enforcer) Policy() [][]string {
	policies, _ := e.enforcer.GetPolicy()
	return policies
}

// DefaultRole returns the configured fallback role.
func (e *Enforcer) DefaultRole() string {
	return e.config.DefaultRole
}

// Close stops background work.
func (e *Enforcer) Close() {
	e.enforcer.StopAutoLoadPolicy()
	if e.cache != nil {
		e.cache.stop()
	}
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
