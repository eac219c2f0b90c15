// Movie App Admin - Administrative Console for a Video Streaming Catalog
// Copyright 2026 Rahul O. (rahulonit)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/rahulonit/movie-app-admin

package authz

import (
	"testing"
	"time"
)

func newTestEnforcer(t *testing.T) *Enforcer {
	t.Helper()

	e, err := NewEnforcer(nil)
	if err != nil {
		t.Fatalf("NewEnforcer() error = %v", err)
	}
	t.Cleanup(e.Close)
	return e
}

func TestRoleHierarchy(t *testing.T) {
	e := newTestEnforcer(t)

	tests := []struct {
		role   string
		object string
		action string
		want   bool
	}{
		{"viewer", ObjectCatalog, ActionRead, true},
		{"viewer", ObjectAnalytics, ActionRead, true},
		{"viewer", ObjectCatalog, ActionWrite, false},
		{"viewer", ObjectAccounts, ActionRead, false},
		{"viewer", ObjectAudit, ActionRead, false},

		{"editor", ObjectCatalog, ActionRead, true},
		{"editor", ObjectCatalog, ActionWrite, true},
		{"editor", ObjectAccounts, ActionWrite, false},
		{"editor", ObjectAudit, ActionRead, false},

		{"admin", ObjectCatalog, ActionWrite, true},
		{"admin", ObjectAccounts, ActionRead, true},
		{"admin", ObjectAccounts, ActionWrite, true},
		{"admin", ObjectAudit, ActionRead, true},
		{"admin", ObjectAnalytics, ActionRead, true},
	}
	for _, tt := range tests {
		allowed, err := e.Enforce(tt.role, tt.object, tt.action)
		if err != nil {
			t.Fatalf("Enforce(%s, %s, %s) error = %v", tt.role, tt.object, tt.action, err)
		}
		if allowed != tt.want {
			t.Errorf("Enforce(%s, %s, %s) = %v, want %v", tt.role, tt.object, tt.action, allowed, tt.want)
		}
	}
}

func TestEnforceRoleDefaultsToViewer(t *testing.T) {
	e := newTestEnforcer(t)

	allowed, err := e.EnforceRole("", ObjectCatalog, ActionRead)
	if err != nil {
		t.Fatalf("EnforceRole() error = %v", err)
	}
	if !allowed {
		t.Error("EnforceRole with empty role should fall back to viewer read access")
	}

	allowed, err = e.EnforceRole("", ObjectCatalog, ActionWrite)
	if err != nil {
		t.Fatalf("EnforceRole() error = %v", err)
	}
	if allowed {
		t.Error("EnforceRole with empty role must not allow writes")
	}
}

func TestUnknownRoleDenied(t *testing.T) {
	e := newTestEnforcer(t)

	allowed, err := e.Enforce("intruder", ObjectCatalog, ActionRead)
	if err != nil {
		t.Fatalf("Enforce() error = %v", err)
	}
	if allowed {
		t.Error("unknown role must be denied")
	}
}

func TestAddRoleForUserInvalidatesCache(t *testing.T) {
	e := newTestEnforcer(t)

	// Prime the cache with a denial.
	allowed, err := e.Enforce("u-1", ObjectCatalog, ActionWrite)
	if err != nil {
		t.Fatalf("Enforce() error = %v", err)
	}
	if allowed {
		t.Fatal("u-1 should start with no grants")
	}

	if err := e.AddRoleForUser("u-1", "editor"); err != nil {
		t.Fatalf("AddRoleForUser() error = %v", err)
	}

	allowed, err = e.Enforce("u-1", ObjectCatalog, ActionWrite)
	if err != nil {
		t.Fatalf("Enforce() error = %v", err)
	}
	if !allowed {
		t.Error("u-1 should write catalog after gaining editor; stale cache entry?")
	}

	if err := e.RemoveRoleForUser("u-1", "editor"); err != nil {
		t.Fatalf("RemoveRoleForUser() error = %v", err)
	}
	allowed, err = e.Enforce("u-1", ObjectCatalog, ActionWrite)
	if err != nil {
		t.Fatalf("Enforce() error = %v", err)
	}
	if allowed {
		t.Error("u-1 should lose catalog write after role removal")
	}
}

func TestDecisionCacheExpiry(t *testing.T) {
	c := newDecisionCache(20 * time.Millisecond)
	defer c.stop()

	c.set("viewer", ObjectCatalog, ActionRead, true)
	if _, ok := c.get("viewer", ObjectCatalog, ActionRead); !ok {
		t.Fatal("fresh entry missing")
	}

	time.Sleep(40 * time.Millisecond)
	if _, ok := c.get("viewer", ObjectCatalog, ActionRead); ok {
		t.Error("expired entry still served")
	}
}

func TestPolicyExposed(t *testing.T) {
	e := newTestEnforcer(t)

	policy := e.Policy()
	if len(policy) == 0 {
		t.Fatal("Policy() returned no rules")
	}

	found := false
	for _, rule := range policy {
		if len(rule) == 3 && rule[0] == "admin" && rule[1] == ObjectAudit && rule[2] == ActionRead {
			found = true
		}
	}
	if !found {
		t.Error("Policy() missing admin audit read rule")
	}
}
