// PriceWatch - Price Tracking and Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pricewatch

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tomtom215/pricewatch/internal/middleware"
)

// slowRequestThreshold marks requests logged with slow=true.
const slowRequestThreshold = 500 * time.Millisecond

// Router wires handlers into a chi route tree.
type Router struct {
	handler       *Handler
	chiMiddleware *ChiMiddleware
}

// NewRouter creates a Router. A nil mw uses the default middleware config.
func NewRouter(handler *Handler, mw *ChiMiddleware) *Router {
	if mw == nil {
		mw = NewChiMiddleware(nil)
	}
	return &Router{handler: handler, chiMiddleware: mw}
}

// Setup builds the HTTP handler.
func (router *Router) Setup() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestLogger(slowRequestThreshold))
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.PrometheusMetrics)
	r.Use(router.chiMiddleware.CORS())

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		respondError(w, http.StatusNotFound, codeNotFound, "Route not found", nil)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		respondError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Method not allowed", nil)
	})

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", router.handler.Health)

		r.Group(func(r chi.Router) {
			r.Use(router.chiMiddleware.RateLimit())
			r.Use(chimiddleware.Compress(5, "application/json"))

			r.Get("/trending", router.handler.GetTrending)
			r.Post("/recommendations/{id}/view", router.handler.MarkRecommendationViewed)

			r.Route("/users/{userID}", func(r chi.Router) {
				r.Get("/recommendations", router.handler.GetRecommendations)
				r.Post("/recommendations/generate", router.handler.GenerateRecommendations)
				r.Get("/recommendations/stats", router.handler.GetRecommendationStats)

				r.Get("/preferences", router.handler.GetPreferences)
				r.Post("/preferences/refresh", router.handler.RefreshPreferences)
				r.Get("/profile", router.handler.GetProfile)

				r.Post("/behaviors", router.handler.TrackBehavior)
				r.Get("/behaviors/counts", router.handler.GetBehaviorCounts)
			})
		})
	})

	return r
}
