// Movie App Admin - Administrative Console for a Video Streaming Catalog
// Copyright 2026 Rahul O. (rahulonit)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/rahulonit/movie-app-admin

package catalog

import (
	"context"
	"net/url"

	"github.com/rahulonit/movie-app-admin/internal/upstream"
	"github.com/rahulonit/movie-app-admin/internal/validation"
)

// MovieList is the upstream response for a movie listing.
type MovieList struct {
	Movies     []Movie    `json:"movies"`
	Pagination Pagination `json:"pagination"`
}

// MovieService exposes the upstream movie CRUD endpoints.
type MovieService struct {
	client *upstream.Client
}

// NewMovieService creates a movie service over the given client.
func NewMovieService(client *upstream.Client) *MovieService {
	return &MovieService{client: client}
}

// List retrieves a page of movies, optionally filtered by a search term.
func (s *MovieService) List(ctx context.Context, params ListParams) (*MovieList, error) {
	if err := validation.ValidateStruct(&params); err != nil {
		return nil, err
	}
	list, err := upstream.Get[MovieList](ctx, s.client, "/movies", params.query())
	if err != nil {
		return nil, err
	}
	return &list, nil
}

// Get retrieves a single movie by ID.
func (s *MovieService) Get(ctx context.Context, id string) (*Movie, error) {
	movie, err := upstream.Get[Movie](ctx, s.client, "/movies/"+url.PathEscape(id), nil)
	if err != nil {
		return nil, err
	}
	return &movie, nil
}

// Create creates a new movie.
func (s *MovieService) Create(ctx context.Context, input MovieInput) (*Movie, error) {
	if err := validation.ValidateStruct(&input); err != nil {
		return nil, err
	}
	movie, err := upstream.Post[Movie](ctx, s.client, "/movies", input)
	if err != nil {
		return nil, err
	}
	return &movie, nil
}

// Update replaces an existing movie.
func (s *MovieService) Update(ctx context.Context, id string, input MovieInput) (*Movie, error) {
	if err := validation.ValidateStruct(&input); err != nil {
		return nil, err
	}
	movie, err := upstream.Put[Movie](ctx, s.client, "/movies/"+url.PathEscape(id), input)
	if err != nil {
		return nil, err
	}
	return &movie, nil
}

// Delete removes a movie.
func (s *MovieService) Delete(ctx context.Context, id string) error {
	return upstream.Delete(ctx, s.client, "/movies/"+url.PathEscape(id))
}
