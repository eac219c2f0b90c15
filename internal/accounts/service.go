// Movie App Admin - Administrative Console for a Video Streaming Catalog
// Copyright 2026 Rahul O. (rahulonit)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/rahulonit/movie-app-admin

// Package accounts provides typed access to the upstream end-user account
// endpoints, including the subscription toggle.
package accounts

import (
	"context"
	"net/url"
	"strconv"
	"time"

	"github.com/rahulonit/movie-app-admin/internal/upstream"
	"github.com/rahulonit/movie-app-admin/internal/validation"
)

// Subscription is an account's subscription state.
type Subscription struct {
	Plan     string    `json:"plan"`
	Active   bool      `json:"active"`
	RenewsAt time.Time `json:"renewsAt"`
}

// Account is one end-user account as the upstream returns it.
type Account struct {
	ID           string       `json:"id"`
	Email        string       `json:"email"`
	Name         string       `json:"name"`
	Role         string       `json:"role"`
	Subscription Subscription `json:"subscription"`
	CreatedAt    time.Time    `json:"createdAt"`
}

// AccountList is the upstream response for an account listing.
type AccountList struct {
	Accounts   []Account `json:"users"`
	Pagination struct {
		Page       int   `json:"page"`
		Limit      int   `json:"limit"`
		TotalPages int   `json:"totalPages"`
		TotalItems int64 `json:"totalItems"`
	} `json:"pagination"`
}

// ListParams are the account listing query parameters.
type ListParams struct {
	Page   int    `validate:"omitempty,gte=1"`
	Limit  int    `validate:"omitempty,gte=1,lte=100"`
	Search string `validate:"max=255"`
}

// subscriptionPatch is the payload of PATCH /users/{id}/subscription.
type subscriptionPatch struct {
	Active bool `json:"active"`
}

// Service exposes the upstream account endpoints.
type Service struct {
	client *upstream.Client
}

// NewService creates an account service over the given client.
func NewService(client *upstream.Client) *Service {
	return &Service{client: client}
}

// List retrieves a page of end-user accounts.
func (s *Service) List(ctx context.Context, params ListParams) (*AccountList, error) {
	if err := validation.ValidateStruct(&params); err != nil {
		return nil, err
	}

	q := url.Values{}
	if params.Page > 0 {
		q.Set("page", strconv.Itoa(params.Page))
	}
	if params.Limit > 0 {
		q.Set("limit", strconv.Itoa(params.Limit))
	}
	if params.Search != "" {
		q.Set("search", params.Search)
	}

	list, err := upstream.Get[AccountList](ctx, s.client, "/users", q)
	if err != nil {
		return nil, err
	}
	return &list, nil
}

// Get retrieves a single account by ID.
func (s *Service) Get(ctx context.Context, id string) (*Account, error) {
	account, err := upstream.Get[Account](ctx, s.client, "/users/"+url.PathEscape(id), nil)
	if err != nil {
		return nil, err
	}
	return &account, nil
}

// SetSubscription toggles an account's subscription on or off.
func (s *Service) SetSubscription(ctx context.Context, id string, active bool) (*Account, error) {
	account, err := upstream.Patch[Account](ctx, s.client, "/users/"+url.PathEscape(id)+"/subscription", subscriptionPatch{Active: active})
	if err != nil {
		return nil, err
	}
	return &account, nil
}
