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

// SeriesList is the upstream response for a series listing.
type SeriesList struct {
	Series     []Series   `json:"series"`
	Pagination Pagination `json:"pagination"`
}

// SeriesService exposes the upstream series endpoints, including the nested
// season and episode CRUD. Seasons and episodes are addressed by their own
// IDs once created; only creation and listing go through the parent.
type SeriesService struct {
	client *upstream.Client
}

// NewSeriesService creates a series service over the given client.
func NewSeriesService(client *upstream.Client) *SeriesService {
	return &SeriesService{client: client}
}

// List retrieves a page of series.
func (s *SeriesService) List(ctx context.Context, params ListParams) (*SeriesList, error) {
	if err := validation.ValidateStruct(&params); err != nil {
		return nil, err
	}
	list, err := upstream.Get[SeriesList](ctx, s.client, "/series", params.query())
	if err != nil {
		return nil, err
	}
	return &list, nil
}

// Get retrieves a single series by ID.
func (s *SeriesService) Get(ctx context.Context, id string) (*Series, error) {
	series, err := upstream.Get[Series](ctx, s.client, "/series/"+url.PathEscape(id), nil)
	if err != nil {
		return nil, err
	}
	return &series, nil
}

// Create creates a new series.
func (s *SeriesService) Create(ctx context.Context, input SeriesInput) (*Series, error) {
	if err := validation.ValidateStruct(&input); err != nil {
		return nil, err
	}
	series, err := upstream.Post[Series](ctx, s.client, "/series", input)
	if err != nil {
		return nil, err
	}
	return &series, nil
}

// Update replaces an existing series.
func (s *SeriesService) Update(ctx context.Context, id string, input SeriesInput) (*Series, error) {
	if err := validation.ValidateStruct(&input); err != nil {
		return nil, err
	}
	series, err := upstream.Put[Series](ctx, s.client, "/series/"+url.PathEscape(id), input)
	if err != nil {
		return nil, err
	}
	return &series, nil
}

// Delete removes a series and its nested seasons and episodes.
func (s *SeriesService) Delete(ctx context.Context, id string) error {
	return upstream.Delete(ctx, s.client, "/series/"+url.PathEscape(id))
}

// ListSeasons retrieves all seasons of a series.
func (s *SeriesService) ListSeasons(ctx context.Context, seriesID string) ([]Season, error) {
	return upstream.Get[[]Season](ctx, s.client, "/series/"+url.PathEscape(seriesID)+"/seasons", nil)
}

// CreateSeason adds a season to a series.
func (s *SeriesService) CreateSeason(ctx context.Context, seriesID string, input SeasonInput) (*Season, error) {
	if err := validation.ValidateStruct(&input); err != nil {
		return nil, err
	}
	season, err := upstream.Post[Season](ctx, s.client, "/series/"+url.PathEscape(seriesID)+"/seasons", input)
	if err != nil {
		return nil, err
	}
	return &season, nil
}

// UpdateSeason replaces a season.
func (s *SeriesService) UpdateSeason(ctx context.Context, seasonID string, input SeasonInput) (*Season, error) {
	if err := validation.ValidateStruct(&input); err != nil {
		return nil, err
	}
	season, err := upstream.Put[Season](ctx, s.client, "/seasons/"+url.PathEscape(seasonID), input)
	if err != nil {
		return nil, err
	}
	return &season, nil
}

// DeleteSeason removes a season and its episodes.
func (s *SeriesService) DeleteSeason(ctx context.Context, seasonID string) error {
	return upstream.Delete(ctx, s.client, "/seasons/"+url.PathEscape(seasonID))
}

// ListEpisodes retrieves all episodes of a season.
func (s *SeriesService) ListEpisodes(ctx context.Context, seasonID string) ([]Episode, error) {
	return upstream.Get[[]Episode](ctx, s.client, "/seasons/"+url.PathEscape(seasonID)+"/episodes", nil)
}

// CreateEpisode adds an episode to a season.
func (s *SeriesService) CreateEpisode(ctx context.Context, seasonID string, input EpisodeInput) (*Episode, error) {
	if err := validation.ValidateStruct(&input); err != nil {
		return nil, err
	}
	episode, err := upstream.Post[Episode](ctx, s.client, "/seasons/"+url.PathEscape(seasonID)+"/episodes", input)
	if err != nil {
		return nil, err
	}
	return &episode, nil
}

// UpdateEpisode replaces an episode.
func (s *SeriesService) UpdateEpisode(ctx context.Context, episodeID string, input EpisodeInput) (*Episode, error) {
	if err := validation.ValidateStruct(&input); err != nil {
		return nil, err
	}
	episode, err := upstream.Put[Episode](ctx, s.client, "/episodes/"+url.PathEscape(episodeID), input)
	if err != nil {
		return nil, err
	}
	return &episode, nil
}

// DeleteEpisode removes an episode.
func (s *SeriesService) DeleteEpisode(ctx context.Context, episodeID string) error {
	return upstream.Delete(ctx, s.client, "/episodes/"+url.PathEscape(episodeID))
}
