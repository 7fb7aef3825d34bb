// LocShield - Real-Time GPS Spoofing Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/locshield

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RouterConfig configures the middleware stack.
type RouterConfig struct {
	// RateLimitReqs requests per RateLimitWindow are allowed per client IP.
	RateLimitReqs   int
	RateLimitWindow time.Duration
	// Timeout bounds each request.
	Timeout time.Duration
}

// DefaultRouterConfig returns permissive limits suited to a scraper and a
// dashboard polling /api/v1/status.
func DefaultRouterConfig() RouterConfig {
	return RouterConfig{
		RateLimitReqs:   600,
		RateLimitWindow: time.Minute,
		Timeout:         10 * time.Second,
	}
}

// NewRouter builds the chi router for h.
func NewRouter(h *Handler, cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(requestIDWithLogging())
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(requestMetrics())
	r.Use(securityHeaders())
	r.Use(rateLimitByIP(cfg.RateLimitReqs, cfg.RateLimitWindow))
	if cfg.Timeout > 0 {
		r.Use(chimiddleware.Timeout(cfg.Timeout))
	}

	r.Get("/healthz", h.Health)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/status", h.Status)
		r.Get("/events", h.Events)
		r.Get("/events/summary", h.EventSummary)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, r, http.StatusNotFound, "NOT_FOUND", "Not found", nil)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, r, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Method not allowed", nil)
	})

	return r
}
