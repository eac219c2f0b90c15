// Movie App Admin - Administrative Console for a Video Streaming Catalog
// Copyright 2026 Rahul O. (rahulonit)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/rahulonit/movie-app-admin

// Package catalog provides typed access to the upstream catalog endpoints:
// movies, series, seasons, and episodes. Services here are thin collaborators
// over the authenticated client; any non-401 upstream error surfaces to the
// console handler as a user-visible failure, and credentials are never
// touched.
package catalog

import (
	"net/url"
	"strconv"
	"time"
)

// Movie is one catalog movie as the upstream returns it.
type Movie struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Genres      []string  `json:"genres"`
	ReleaseYear int       `json:"releaseYear"`
	DurationMin int       `json:"durationMin"`
	Rating      float64   `json:"rating"`
	PosterURL   string    `json:"posterUrl"`
	VideoURL    string    `json:"videoUrl"`
	Status      string    `json:"status"` // draft, published, archived
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// MovieInput is the payload for creating or updating a movie.
type MovieInput struct {
	Title       string   `json:"title" validate:"required,max=255"`
	Description string   `json:"description" validate:"max=4000"`
	Genres      []string `json:"genres" validate:"max=10,dive,max=50"`
	ReleaseYear int      `json:"releaseYear" validate:"omitempty,gte=1888,lte=2100"`
	DurationMin int      `json:"durationMin" validate:"omitempty,gt=0"`
	PosterURL   string   `json:"posterUrl" validate:"omitempty,url"`
	VideoURL    string   `json:"videoUrl" validate:"omitempty,url"`
	Status      string   `json:"status" validate:"omitempty,oneof=draft published archived"`
}

// Series is one catalog series.
type Series struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Genres      []string  `json:"genres"`
	StartYear   int       `json:"startYear"`
	EndYear     int       `json:"endYear"`
	PosterURL   string    `json:"posterUrl"`
	Status      string    `json:"status"`
	SeasonCount int       `json:"seasonCount"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// SeriesInput is the payload for creating or updating a series.
type SeriesInput struct {
	Title       string   `json:"title" validate:"required,max=255"`
	Description string   `json:"description" validate:"max=4000"`
	Genres      []string `json:"genres" validate:"max=10,dive,max=50"`
	StartYear   int      `json:"startYear" validate:"omitempty,gte=1888,lte=2100"`
	EndYear     int      `json:"endYear" validate:"omitempty,gte=1888,lte=2100"`
	PosterURL   string   `json:"posterUrl" validate:"omitempty,url"`
	Status      string   `json:"status" validate:"omitempty,oneof=draft published archived"`
}

// Season is one season of a series.
type Season struct {
	ID           string `json:"id"`
	SeriesID     string `json:"seriesId"`
	Number       int    `json:"number"`
	Title        string `json:"title"`
	EpisodeCount int    `json:"episodeCount"`
}

// SeasonInput is the payload for creating or updating a season.
type SeasonInput struct {
	Number int    `json:"number" validate:"required,gt=0"`
	Title  string `json:"title" validate:"max=255"`
}

// Episode is one episode of a season.
type Episode struct {
	ID          string    `json:"id"`
	SeasonID    string    `json:"seasonId"`
	Number      int       `json:"number"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	DurationMin int       `json:"durationMin"`
	VideoURL    string    `json:"videoUrl"`
	AirDate     time.Time `json:"airDate"`
}

// EpisodeInput is the payload for creating or updating an episode.
type EpisodeInput struct {
	Number      int    `json:"number" validate:"required,gt=0"`
	Title       string `json:"title" validate:"required,max=255"`
	Description string `json:"description" validate:"max=4000"`
	DurationMin int    `json:"durationMin" validate:"omitempty,gt=0"`
	VideoURL    string `json:"videoUrl" validate:"omitempty,url"`
}

// Pagination describes the upstream's list paging envelope.
type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"totalPages"`
	TotalItems int64 `json:"totalItems"`
}

// ListParams are the common list query parameters.
type ListParams struct {
	Page   int    `validate:"omitempty,gte=1"`
	Limit  int    `validate:"omitempty,gte=1,lte=100"`
	Search string `validate:"max=255"`
}

// query renders the params as URL query values, omitting zero values.
func (p ListParams) query() url.Values {
	q := url.Values{}
	if p.Page > 0 {
		q.Set("page", strconv.Itoa(p.Page))
	}
	if p.Limit > 0 {
		q.Set("limit", strconv.Itoa(p.Limit))
	}
	if p.Search != "" {
		q.Set("search", p.Search)
	}
	return q
}
