// SSReports - Field Sales Checkin Analytics and Reporting
// Copyright 2026 SSReports contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/ssreports/ssreports

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ssreports/ssreports/internal/auth"
	"github.com/ssreports/ssreports/internal/config"
	"github.com/ssreports/ssreports/internal/middleware"
	"github.com/ssreports/ssreports/internal/models"
)

// Router wires handlers, auth and middleware into the Chi route tree.
type Router struct {
	handlers     *Handlers
	authHandlers *auth.Handlers
	authMW       *auth.Middleware
	cfg          *config.Config
}

// NewRouter creates the route builder.
func NewRouter(handlers *Handlers, authHandlers *auth.Handlers, authMW *auth.Middleware, cfg *config.Config) *Router {
	return &Router{
		handlers:     handlers,
		authHandlers: authHandlers,
		authMW:       authMW,
		cfg:          cfg,
	}
}

// Setup builds the full route tree.
func (rt *Router) Setup() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   rt.cfg.Server.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID", "Content-Disposition"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Registered before the subrouters so Chi propagates it to them.
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, http.StatusNotFound, "not found", nil)
	})

	// Unauthenticated operational endpoints.
	r.Get("/health", rt.handlers.Health)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	// Login is rate limited harder than the rest of the API to slow down
	// credential stuffing.
	r.Route("/api/auth", func(r chi.Router) {
		r.Use(httprate.LimitByIP(rt.cfg.Server.RateLimit, time.Minute))
		r.With(httprate.LimitByIP(rt.cfg.Server.LoginRateLimit, 5*time.Minute)).
			Post("/login", rt.authHandlers.Login)
		r.With(rt.authMW.Authenticate, rt.authMW.RequireRole(models.RoleAdmin)).
			Post("/register", rt.authHandlers.Register)
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(httprate.LimitByIP(rt.cfg.Server.RateLimit, time.Minute))
		r.Use(middleware.PrometheusMetrics)
		r.Use(rt.authMW.Authenticate)

		r.Route("/dashboard", func(r chi.Router) {
			r.Get("/kpis", rt.handlers.KPIs)
			r.Get("/checkins-by-date", rt.handlers.CheckinsByDate)
			r.Get("/checkins-by-hour", rt.handlers.CheckinsByHour)
			r.Get("/checkins-by-day", rt.handlers.CheckinsByDay)
			r.Get("/agent-performance", rt.handlers.AgentPerformance)
			r.Get("/conversion-stats", rt.handlers.ConversionStats)
			r.Get("/geographic-hotspots", rt.handlers.GeographicHotspots)
		})

		r.Get("/shops", rt.handlers.Shops)
		r.Get("/shops/{id}", rt.handlers.ShopDetail)
		r.Get("/shops-analytics", rt.handlers.ShopsAnalytics)

		r.Get("/checkins", rt.handlers.Checkins)
		r.Get("/checkins/{id}", rt.handlers.CheckinDetail)
		r.Get("/checkins-map", rt.handlers.CheckinsMap)

		r.Get("/customers-analytics", rt.handlers.CustomersAnalytics)
		r.Get("/customer/{checkinId}", rt.handlers.CustomerDetail)

		r.Get("/export/checkins", rt.handlers.ExportCheckins)

		r.Get("/users", rt.handlers.Users)
		r.With(rt.authMW.RequireRole(models.RoleAdmin)).Post("/users", rt.handlers.CreateUser)
		r.With(rt.authMW.RequireRole(models.RoleAdmin)).Delete("/users/{id}", rt.handlers.DeleteUser)

		r.With(rt.authMW.RequireRole(models.RoleAdmin)).Post("/sync", rt.handlers.TriggerSync)
	})

	return r
}
