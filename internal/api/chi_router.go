// Curator - Content Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/curator

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	"github.com/tomtom215/curator/internal/auth"
	"github.com/tomtom215/curator/internal/authz"
	"github.com/tomtom215/curator/internal/middleware"
)

// AdminGuard protects the maintenance routes.
type AdminGuard struct {
	Authn *auth.Middleware
	Authz *authz.Middleware
}

// Router wires handlers to routes.
type Router struct {
	handler       *Handler
	chiMiddleware *ChiMiddleware
	admin         *AdminGuard
}

// NewRouter creates a router. A nil guard leaves admin routes unmounted.
func NewRouter(handler *Handler, mw *ChiMiddleware, admin *AdminGuard) *Router {
	if mw == nil {
		mw = NewChiMiddleware(nil)
	}
	if admin != nil && (admin.Authn == nil || admin.Authz == nil) {
		admin = nil
	}
	return &Router{handler: handler, chiMiddleware: mw, admin: admin}
}

// SetupChi configures all HTTP routes using Chi router.
func (router *Router) SetupChi() http.Handler {
	r := chi.NewRouter()

	// ========================
	// Global Middleware Stack
	// ========================
	r.Use(middleware.RequestID)        // X-Request-ID in header and logging context
	r.Use(chimiddleware.RealIP)        // Extract real IP from X-Forwarded-For
	r.Use(chimiddleware.Recoverer)     // Recover from panics
	r.Use(router.chiMiddleware.CORS()) // CORS must be global to handle OPTIONS preflight

	// ========================
	// Health Endpoints
	// ========================
	r.Route("/api/v1/health", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimitHealth())
		r.Use(APISecurityHeaders())
		r.Get("/live", router.handler.HealthLive)
		r.Get("/ready", router.handler.HealthReady)
	})

	// ========================
	// Core API Endpoints
	// ========================
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimit())
		r.Use(APISecurityHeaders())
		r.Use(middleware.PrometheusMetrics)
		r.Use(chimiddleware.Compress(5, "application/json"))

		r.Get("/recommendations", router.handler.Recommendations)
		r.Post("/interactions", router.handler.RecordInteraction)

		// ========================
		// Admin Endpoints
		// ========================
		if router.admin != nil {
			r.Route("/admin", func(r chi.Router) {
				r.Use(router.chiMiddleware.RateLimitAdmin())
				r.Use(router.admin.Authn.RequireBearer)
				r.Use(router.admin.Authz.AuthorizeRequest)

				r.Post("/vectorize", router.handler.Vectorize)
				r.Post("/profiles/recompute", router.handler.RecomputeProfiles)
				r.Post("/precompute", router.handler.Precompute)
				r.Get("/metrics", router.handler.Metrics)
				r.Get("/stats", router.handler.Stats)
			})
		}
	})

	// ========================
	// Observability
	// ========================
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
		httpSwagger.DeepLinking(true),
		httpSwagger.DocExpansion("list"),
		httpSwagger.DomID("swagger-ui"),
	))

	return r
}
