// Movie App Admin - Administrative Console for a Video Streaming Catalog
// Copyright 2026 Rahul O. (rahulonit)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/rahulonit/movie-app-admin

package authz

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func subjectWithRole(role string) SubjectFunc {
	return func(context.Context) (Subject, bool) {
		if role == "none" {
			return Subject{}, false
		}
		return Subject{ID: "u-1", Email: "user@example.com", Role: role}, true
	}
}

func runGuarded(t *testing.T, role, object, action string) *httptest.ResponseRecorder {
	t.Helper()

	e := newTestEnforcer(t)
	m := NewMiddleware(e, subjectWithRole(role), nil)

	var reached bool
	handler := m.Require(object, action)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		reached = true
		w.WriteHeader(http.StatusNoContent)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/test", nil))

	if rec.Code == http.StatusNoContent && !reached {
		t.Error("204 without handler execution")
	}
	return rec
}

func TestRequireAllowsPermittedRole(t *testing.T) {
	rec := runGuarded(t, "editor", ObjectCatalog, ActionWrite)
	if rec.Code != http.StatusNoContent {
		t.Errorf("status = %d, want 204", rec.Code)
	}
}

func TestRequireDeniesInsufficientRole(t *testing.T) {
	rec := runGuarded(t, "viewer", ObjectCatalog, ActionWrite)
	if rec.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "FORBIDDEN") {
		t.Errorf("body = %s, want FORBIDDEN error code", rec.Body.String())
	}
}

func TestRequireRejectsMissingSession(t *testing.T) {
	rec := runGuarded(t, "none", ObjectCatalog, ActionRead)
	if rec.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403", rec.Code)
	}
}

func TestRequireEmptyRoleGetsViewerDefaults(t *testing.T) {
	if rec := runGuarded(t, "", ObjectAnalytics, ActionRead); rec.Code != http.StatusNoContent {
		t.Errorf("read status = %d, want 204 via default role", rec.Code)
	}
	if rec := runGuarded(t, "", ObjectAccounts, ActionWrite); rec.Code != http.StatusForbidden {
		t.Errorf("write status = %d, want 403 via default role", rec.Code)
	}
}
