// Movie App Admin - Administrative Console for a Video Streaming Catalog
// Copyright 2026 Rahul O. (rahulonit)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/rahulonit/movie-app-admin

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	"github.com/rahulonit/movie-app-admin/internal/authz"
	"github.com/rahulonit/movie-app-admin/internal/middleware"
)

// RouterConfig tunes the inbound protection layers.
type RouterConfig struct {
	CORSOrigins       []string
	RateLimitRequests int
	RateLimitWindow   time.Duration
	RateLimitDisabled bool
}

// NewRouter assembles the console's HTTP surface. The guard enforces the
// role policy; handlers carry the endpoint logic.
func NewRouter(h *Handlers, guard *authz.Middleware, cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global stack, applied to every route in order.
	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	rateLimit := rateLimiter(cfg, cfg.RateLimitRequests, cfg.RateLimitWindow)
	// Login gets the strictest budget regardless of the general setting.
	loginLimit := rateLimiter(cfg, 5, 5*time.Minute)

	// Health endpoints stay outside auth so orchestrators can probe them.
	r.Route("/api/v1/health", func(r chi.Router) {
		r.Use(rateLimiter(cfg, 1000, time.Minute))
		r.Use(middleware.SecurityHeaders)
		r.Get("/live", h.Live)
		r.Get("/ready", h.Ready)
		r.Get("/upstream", h.UpstreamHealth)
	})

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.Use(rateLimit)
		r.Use(middleware.SecurityHeaders)
		r.Use(middleware.Prometheus)

		r.With(loginLimit).Post("/login", h.Login)
		r.Group(func(r chi.Router) {
			r.Use(h.RequireSession)
			r.Post("/logout", h.Logout)
			r.Get("/session", h.Session)
		})
	})

	r.Route("/api/v1/catalog", func(r chi.Router) {
		r.Use(rateLimit)
		r.Use(middleware.SecurityHeaders)
		r.Use(middleware.Prometheus)
		r.Use(h.RequireSession)

		read := guard.Require(authz.ObjectCatalog, authz.ActionRead)
		write := guard.Require(authz.ObjectCatalog, authz.ActionWrite)

		r.With(read).Get("/movies", h.ListMovies)
		r.With(read).Get("/movies/{id}", h.GetMovie)
		r.With(write).Post("/movies", h.CreateMovie)
		r.With(write).Put("/movies/{id}", h.UpdateMovie)
		r.With(write).Delete("/movies/{id}", h.DeleteMovie)

		r.With(read).Get("/series", h.ListSeries)
		r.With(read).Get("/series/{id}", h.GetSeries)
		r.With(write).Post("/series", h.CreateSeries)
		r.With(write).Put("/series/{id}", h.UpdateSeries)
		r.With(write).Delete("/series/{id}", h.DeleteSeries)

		r.With(read).Get("/series/{id}/seasons", h.ListSeasons)
		r.With(write).Post("/series/{id}/seasons", h.CreateSeason)
		r.With(write).Put("/seasons/{id}", h.UpdateSeason)
		r.With(write).Delete("/seasons/{id}", h.DeleteSeason)

		r.With(read).Get("/seasons/{id}/episodes", h.ListEpisodes)
		r.With(write).Post("/seasons/{id}/episodes", h.CreateEpisode)
		r.With(write).Put("/episodes/{id}", h.UpdateEpisode)
		r.With(write).Delete("/episodes/{id}", h.DeleteEpisode)
	})

	r.Route("/api/v1/accounts", func(r chi.Router) {
		r.Use(rateLimit)
		r.Use(middleware.SecurityHeaders)
		r.Use(middleware.Prometheus)
		r.Use(h.RequireSession)

		r.With(guard.Require(authz.ObjectAccounts, authz.ActionRead)).Get("/", h.ListAccounts)
		r.With(guard.Require(authz.ObjectAccounts, authz.ActionRead)).Get("/{id}", h.GetAccount)
		r.With(guard.Require(authz.ObjectAccounts, authz.ActionWrite)).
			Patch("/{id}/subscription", h.SetSubscription)
	})

	r.Route("/api/v1/analytics", func(r chi.Router) {
		r.Use(rateLimit)
		r.Use(middleware.SecurityHeaders)
		r.Use(middleware.Prometheus)
		r.Use(h.RequireSession)
		r.Use(guard.Require(authz.ObjectAnalytics, authz.ActionRead))

		r.Get("/dashboard", h.Dashboard)
		r.Get("/revenue", h.Revenue)
		r.Get("/top-content", h.TopContent)
		r.Get("/history", h.History)
	})

	r.Route("/api/v1/audit", func(r chi.Router) {
		r.Use(rateLimit)
		r.Use(middleware.SecurityHeaders)
		r.Use(middleware.Prometheus)
		r.Use(h.RequireSession)
		r.Use(guard.Require(authz.ObjectAudit, authz.ActionRead))

		r.Get("/events", h.ListAuditEvents)
		r.Get("/events/{id}", h.GetAuditEvent)
		r.Get("/stats", h.AuditStats)
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.Prometheus)
		r.Use(h.RequireSession)
		r.Use(guard.Require(authz.ObjectSession, authz.ActionRead))
		r.Get("/api/v1/ws", h.Websocket)
	})

	r.Handle("/metrics", promhttp.Handler())
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
		httpSwagger.DeepLinking(true),
		httpSwagger.DocExpansion("list"),
	))

	return r
}

// rateLimiter builds an IP-keyed limiter, or a no-op when limiting is
// disabled or the budget is unset.
func rateLimiter(cfg RouterConfig, requests int, window time.Duration) func(http.Handler) http.Handler {
	if cfg.RateLimitDisabled || requests <= 0 || window <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	return httprate.Limit(requests, window,
		httprate.WithKeyFuncs(httprate.KeyByRealIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			respondError(w, r, http.StatusTooManyRequests, ErrCodeTooManyRequests, "rate limit exceeded", nil)
		}),
	)
}
