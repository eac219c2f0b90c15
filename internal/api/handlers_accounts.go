// Movie App Admin - Administrative Console for a Video Streaming Catalog
// Copyright 2026 Rahul O. (rahulonit)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/rahulonit/movie-app-admin

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/rahulonit/movie-app-admin/internal/accounts"
	"github.com/rahulonit/movie-app-admin/internal/audit"
)

// subscriptionRequest toggles an account's subscription.
type subscriptionRequest struct {
	Active bool `json:"active"`
}

// ListAccounts returns a page of end-user accounts.
//
// GET /api/v1/accounts
func (h *Handlers) ListAccounts(w http.ResponseWriter, r *http.Request) {
	params := accounts.ListParams{
		Page:   intQuery(r, "page", 0),
		Limit:  intQuery(r, "limit", 0),
		Search: r.URL.Query().Get("search"),
	}

	list, err := h.accounts.List(r.Context(), params)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondData(w, r, http.StatusOK, list)
}

// GetAccount returns one end-user account.
//
// GET /api/v1/accounts/{id}
func (h *Handlers) GetAccount(w http.ResponseWriter, r *http.Request) {
	account, err := h.accounts.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondData(w, r, http.StatusOK, account)
}

// SetSubscription enables or disables an account's subscription.
//
// PATCH /api/v1/accounts/{id}/subscription
func (h *Handlers) SetSubscription(w http.ResponseWriter, r *http.Request) {
	var req subscriptionRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, http.StatusBadRequest, ErrCodeBadRequest, "malformed JSON body", nil)
		return
	}

	account, err := h.accounts.SetSubscription(r.Context(), chi.URLParam(r, "id"), req.Active)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	description := "subscription disabled"
	if req.Active {
		description = "subscription enabled"
	}
	h.audited(r, audit.EventTypeSubscriptionChanged, audit.OutcomeSuccess,
		audit.Target{Type: "account", ID: account.ID, Name: account.Email}, description)
	respondData(w, r, http.StatusOK, account)
}
