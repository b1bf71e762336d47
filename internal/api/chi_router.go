// Curator - Product Recommendation and Similarity Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/curator

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tomtom215/curator/internal/auth"
	"github.com/tomtom215/curator/internal/config"
	"github.com/tomtom215/curator/internal/middleware"
)

// Router wires handlers and middleware into a chi mux.
type Router struct {
	recommend     *RecommendHandler
	health        *HealthHandler
	identity      *auth.Middleware
	chiMiddleware *ChiMiddleware
}

// NewRouter creates the router. identity resolves callers on the
// recommendation routes.
func NewRouter(recommend *RecommendHandler, health *HealthHandler, identity *auth.Middleware, chiMW *ChiMiddleware) *Router {
	if chiMW == nil {
		chiMW = NewChiMiddleware(nil)
	}
	return &Router{
		recommend:     recommend,
		health:        health,
		identity:      identity,
		chiMiddleware: chiMW,
	}
}

// NewChiMiddlewareFromConfig maps the security section onto the factory config.
func NewChiMiddlewareFromConfig(cfg *config.SecurityConfig) *ChiMiddleware {
	mwCfg := DefaultChiMiddlewareConfig()
	mwCfg.CORSAllowedOrigins = cfg.CORSOrigins
	if cfg.RateLimitReqs > 0 {
		mwCfg.RateLimitRequests = cfg.RateLimitReqs
	}
	if cfg.RateLimitWindow > 0 {
		mwCfg.RateLimitWindow = cfg.RateLimitWindow
	}
	mwCfg.RateLimitDisabled = cfg.RateLimitDisabled
	return NewChiMiddleware(mwCfg)
}

// Unauthorized renders identity failures in the standard envelope. Pass it
// to auth.NewMiddleware.
func Unauthorized(w http.ResponseWriter, r *http.Request, message string) {
	respondError(w, r, http.StatusUnauthorized, ErrCodeUnauthorized, message, nil)
}

// chiMiddleware adapts http.HandlerFunc middleware to chi's r.Use signature.
func chiMiddleware(mw func(http.HandlerFunc) http.HandlerFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return mw(next.ServeHTTP)
	}
}

// SetupChi builds the HTTP handler.
func (router *Router) SetupChi() http.Handler {
	r := chi.NewRouter()

	// Global middleware, outermost first.
	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.PrometheusMetrics)
	r.Use(router.chiMiddleware.CORS())

	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		respondError(w, req, http.StatusNotFound, ErrCodeNotFound, "Route not found", nil)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, req *http.Request) {
		respondError(w, req, http.StatusMethodNotAllowed, ErrCodeMethodNotAllowed, "Method not allowed", nil)
	})

	r.Route("/api/v1/health", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimitCustom(RateLimitHealth))
		r.Use(middleware.SecurityHeaders)
		r.Get("/live", router.health.Live)
		r.Get("/ready", router.health.Ready)
	})

	router.registerChiRecommendRoutes(r)

	r.Handle("/metrics", promhttp.Handler())

	return r
}

// registerChiRecommendRoutes mounts the recommendation API. Every route needs
// a caller identity.
func (router *Router) registerChiRecommendRoutes(r chi.Router) {
	r.Route("/api/v1/recommendations", func(r chi.Router) {
		r.Use(middleware.SecurityHeaders)
		r.Use(chiMiddleware(router.identity.Authenticate))

		r.With(router.chiMiddleware.RateLimitCustom(RateLimitTrack)).Post("/track", router.recommend.Track)
		r.With(router.chiMiddleware.RateLimitCustom(RateLimitRebuild)).Post("/similarities/rebuild", router.recommend.RebuildSimilarities)

		r.Group(func(r chi.Router) {
			r.Use(router.chiMiddleware.RateLimit())
			r.Get("/", router.recommend.GetRecommendations)
			r.Get("/profile", router.recommend.GetProfile)
		})
	})
}
