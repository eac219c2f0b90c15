// Movie App Admin - Administrative Console for a Video Streaming Catalog
// Copyright 2026 Rahul O. (rahulonit)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/rahulonit/movie-app-admin

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/rahulonit/movie-app-admin/internal/audit"
	"github.com/rahulonit/movie-app-admin/internal/catalog"
)

// ListMovies returns a page of catalog movies.
//
// GET /api/v1/catalog/movies
func (h *Handlers) ListMovies(w http.ResponseWriter, r *http.Request) {
	movies, err := h.movies.List(r.Context(), listParamsFromQuery(r))
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondData(w, r, http.StatusOK, movies)
}

// GetMovie returns one movie.
//
// GET /api/v1/catalog/movies/{id}
func (h *Handlers) GetMovie(w http.ResponseWriter, r *http.Request) {
	movie, err := h.movies.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondData(w, r, http.StatusOK, movie)
}

// CreateMovie creates a movie in the upstream catalog.
//
// POST /api/v1/catalog/movies
func (h *Handlers) CreateMovie(w http.ResponseWriter, r *http.Request) {
	var input catalog.MovieInput
	if err := decodeJSON(r, &input); err != nil {
		respondError(w, r, http.StatusBadRequest, ErrCodeBadRequest, "malformed JSON body", nil)
		return
	}

	movie, err := h.movies.Create(r.Context(), input)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	h.audited(r, audit.EventTypeMovieCreated, audit.OutcomeSuccess,
		audit.Target{Type: "movie", ID: movie.ID, Name: movie.Title}, "")
	respondData(w, r, http.StatusCreated, movie)
}

// UpdateMovie replaces a movie.
//
// PUT /api/v1/catalog/movies/{id}
func (h *Handlers) UpdateMovie(w http.ResponseWriter, r *http.Request) {
	var input catalog.MovieInput
	if err := decodeJSON(r, &input); err != nil {
		respondError(w, r, http.StatusBadRequest, ErrCodeBadRequest, "malformed JSON body", nil)
		return
	}

	movie, err := h.movies.Update(r.Context(), chi.URLParam(r, "id"), input)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	h.audited(r, audit.EventTypeMovieUpdated, audit.OutcomeSuccess,
		audit.Target{Type: "movie", ID: movie.ID, Name: movie.Title}, "")
	respondData(w, r, http.StatusOK, movie)
}

// DeleteMovie removes a movie.
//
// DELETE /api/v1/catalog/movies/{id}
func (h *Handlers) DeleteMovie(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.movies.Delete(r.Context(), id); err != nil {
		respondServiceError(w, r, err)
		return
	}

	h.audited(r, audit.EventTypeMovieDeleted, audit.OutcomeSuccess,
		audit.Target{Type: "movie", ID: id}, "")
	respondData(w, r, http.StatusOK, map[string]bool{"deleted": true})
}

// ListSeries returns a page of catalog series.
//
// GET /api/v1/catalog/series
func (h *Handlers) ListSeries(w http.ResponseWriter, r *http.Request) {
	series, err := h.series.List(r.Context(), listParamsFromQuery(r))
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondData(w, r, http.StatusOK, series)
}

// GetSeries returns one series.
//
// GET /api/v1/catalog/series/{id}
func (h *Handlers) GetSeries(w http.ResponseWriter, r *http.Request) {
	series, err := h.series.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondData(w, r, http.StatusOK, series)
}

// CreateSeries creates a series.
//
// POST /api/v1/catalog/series
func (h *Handlers) CreateSeries(w http.ResponseWriter, r *http.Request) {
	var input catalog.SeriesInput
	if err := decodeJSON(r, &input); err != nil {
		respondError(w, r, http.StatusBadRequest, ErrCodeBadRequest, "malformed JSON body", nil)
		return
	}

	series, err := h.series.Create(r.Context(), input)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	h.audited(r, audit.EventTypeSeriesCreated, audit.OutcomeSuccess,
		audit.Target{Type: "series", ID: series.ID, Name: series.Title}, "")
	respondData(w, r, http.StatusCreated, series)
}

// UpdateSeries replaces a series.
//
// PUT /api/v1/catalog/series/{id}
func (h *Handlers) UpdateSeries(w http.ResponseWriter, r *http.Request) {
	var input catalog.SeriesInput
	if err := decodeJSON(r, &input); err != nil {
		respondError(w, r, http.StatusBadRequest, ErrCodeBadRequest, "malformed JSON body", nil)
		return
	}

	series, err := h.series.Update(r.Context(), chi.URLParam(r, "id"), input)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	h.audited(r, audit.EventTypeSeriesUpdated, audit.OutcomeSuccess,
		audit.Target{Type: "series", ID: series.ID, Name: series.Title}, "")
	respondData(w, r, http.StatusOK, series)
}

// DeleteSeries removes a series.
//
// DELETE /api/v1/catalog/series/{id}
func (h *Handlers) DeleteSeries(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.series.Delete(r.Context(), id); err != nil {
		respondServiceError(w, r, err)
		return
	}

	h.audited(r, audit.EventTypeSeriesDeleted, audit.OutcomeSuccess,
		audit.Target{Type: "series", ID: id}, "")
	respondData(w, r, http.StatusOK, map[string]bool{"deleted": true})
}

// ListSeasons returns the seasons of a series.
//
// GET /api/v1/catalog/series/{id}/seasons
func (h *Handlers) ListSeasons(w http.ResponseWriter, r *http.Request) {
	seasons, err := h.series.ListSeasons(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondData(w, r, http.StatusOK, seasons)
}

// CreateSeason adds a season to a series.
//
// POST /api/v1/catalog/series/{id}/seasons
func (h *Handlers) CreateSeason(w http.ResponseWriter, r *http.Request) {
	var input catalog.SeasonInput
	if err := decodeJSON(r, &input); err != nil {
		respondError(w, r, http.StatusBadRequest, ErrCodeBadRequest, "malformed JSON body", nil)
		return
	}

	season, err := h.series.CreateSeason(r.Context(), chi.URLParam(r, "id"), input)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	h.audited(r, audit.EventTypeSeasonCreated, audit.OutcomeSuccess,
		audit.Target{Type: "season", ID: season.ID, Name: season.Title}, "")
	respondData(w, r, http.StatusCreated, season)
}

// UpdateSeason replaces a season.
//
// PUT /api/v1/catalog/seasons/{id}
func (h *Handlers) UpdateSeason(w http.ResponseWriter, r *http.Request) {
	var input catalog.SeasonInput
	if err := decodeJSON(r, &input); err != nil {
		respondError(w, r, http.StatusBadRequest, ErrCodeBadRequest, "malformed JSON body", nil)
		return
	}

	season, err := h.series.UpdateSeason(r.Context(), chi.URLParam(r, "id"), input)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	h.audited(r, audit.EventTypeSeasonUpdated, audit.OutcomeSuccess,
		audit.Target{Type: "season", ID: season.ID, Name: season.Title}, "")
	respondData(w, r, http.StatusOK, season)
}

// DeleteSeason removes a season.
//
// DELETE /api/v1/catalog/seasons/{id}
func (h *Handlers) DeleteSeason(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.series.DeleteSeason(r.Context(), id); err != nil {
		respondServiceError(w, r, err)
		return
	}

	h.audited(r, audit.EventTypeSeasonDeleted, audit.OutcomeSuccess,
		audit.Target{Type: "season", ID: id}, "")
	respondData(w, r, http.StatusOK, map[string]bool{"deleted": true})
}

// ListEpisodes returns the episodes of a season.
//
// GET /api/v1/catalog/seasons/{id}/episodes
func (h *Handlers) ListEpisodes(w http.ResponseWriter, r *http.Request) {
	episodes, err := h.series.ListEpisodes(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondData(w, r, http.StatusOK, episodes)
}

// CreateEpisode adds an episode to a season.
//
// POST /api/v1/catalog/seasons/{id}/episodes
func (h *Handlers) CreateEpisode(w http.ResponseWriter, r *http.Request) {
	var input catalog.EpisodeInput
	if err := decodeJSON(r, &input); err != nil {
		respondError(w, r, http.StatusBadRequest, ErrCodeBadRequest, "malformed JSON body", nil)
		return
	}

	episode, err := h.series.CreateEpisode(r.Context(), chi.URLParam(r, "id"), input)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	h.audited(r, audit.EventTypeEpisodeCreated, audit.OutcomeSuccess,
		audit.Target{Type: "episode", ID: episode.ID, Name: episode.Title}, "")
	respondData(w, r, http.StatusCreated, episode)
}

// UpdateEpisode replaces an episode.
//
// PUT /api/v1/catalog/episodes/{id}
func (h *Handlers) UpdateEpisode(w http.ResponseWriter, r *http.Request) {
	var input catalog.EpisodeInput
	if err := decodeJSON(r, &input); err != nil {
		respondError(w, r, http.StatusBadRequest, ErrCodeBadRequest, "malformed JSON body", nil)
		return
	}

	episode, err := h.series.UpdateEpisode(r.Context(), chi.URLParam(r, "id"), input)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	h.audited(r, audit.EventTypeEpisodeUpdated, audit.OutcomeSuccess,
		audit.Target{Type: "episode", ID: episode.ID, Name: episode.Title}, "")
	respondData(w, r, http.StatusOK, episode)
}

// DeleteEpisode removes an episode.
//
// DELETE /api/v1/catalog/episodes/{id}
func (h *Handlers) DeleteEpisode(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.series.DeleteEpisode(r.Context(), id); err != nil {
		respondServiceError(w, r, err)
		return
	}

	h.audited(r, audit.EventTypeEpisodeDeleted, audit.OutcomeSuccess,
		audit.Target{Type: "episode", ID: id}, "")
	respondData(w, r, http.StatusOK, map[string]bool{"deleted": true})
}
