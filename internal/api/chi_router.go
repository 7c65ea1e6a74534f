// Vitrine - Storefront Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vitrine

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tomtom215/vitrine/internal/auth"
	"github.com/tomtom215/vitrine/internal/middleware"
)

// Router wires handlers and middleware into a chi mux.
type Router struct {
	handler       *Handler
	auth          *auth.Middleware
	chiMiddleware *ChiMiddleware
}

// NewRouter creates a router.
func NewRouter(handler *Handler, authMW *auth.Middleware, chiMW *ChiMiddleware) *Router {
	return &Router{handler: handler, auth: authMW, chiMiddleware: chiMW}
}

// Setup builds the HTTP handler with every route registered.
func (router *Router) Setup() http.Handler {
	r := chi.NewRouter()

	r.Use(RequestIDWithLogging())
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(router.chiMiddleware.CORS())
	r.Use(middleware.PrometheusMetrics)
	r.Use(RequestLogger())

	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		NewResponseWriter(w, req).NotFound("Route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, req *http.Request) {
		WriteError(w, req, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Method not allowed")
	})

	r.Handle("/metrics", promhttp.Handler())

	h := router.handler
	authn := router.auth.Authenticate
	optional := router.auth.OptionalAuthenticate
	authz := router.auth.Authorize

	r.Route("/api/v1/health", func(r chi.Router) {
		r.Get("/", h.Health)
		r.Get("/live", h.HealthLive)
		r.Get("/ready", h.HealthReady)
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimit())
		r.Use(chimiddleware.Compress(5, "application/json"))

		r.Route("/auth", func(r chi.Router) {
			r.Post("/signup", h.Signup)
			r.Post("/login", h.Login)
			r.With(authn).Post("/logout", h.Logout)
		})

		r.With(authn).Get("/users/{id}", h.GetUser)
		r.With(authn).Put("/users/{id}", h.UpdateUser)

		r.Route("/products", func(r chi.Router) {
			r.With(optional).Get("/", h.ListProducts)
			r.With(optional).Get("/{id}", h.GetProduct)
			r.With(authn, authz(auth.ObjectProducts, auth.ActionWrite)).Post("/", h.CreateProduct)
			r.With(authn, authz(auth.ObjectProducts, auth.ActionWrite)).Put("/{id}", h.UpdateProduct)
			r.With(authn, authz(auth.ObjectRatings, auth.ActionWrite)).Post("/{id}/ratings", h.RateProduct)
		})

		r.With(authn, authz(auth.ObjectRecommendations, auth.ActionRead)).Get("/recommendations", h.Recommendations)

		r.Route("/orders", func(r chi.Router) {
			r.Use(authn)
			r.With(authz(auth.ObjectOrders, auth.ActionRead)).Get("/", h.ListOrders)
			r.With(authz(auth.ObjectOrders, auth.ActionWrite)).Post("/", h.CreateOrder)
		})

		r.Route("/catalog", func(r chi.Router) {
			r.Get("/colors", h.Colors)
			r.Get("/categories", h.Categories)
		})
	})

	return r
}
