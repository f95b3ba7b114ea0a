package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"go-chi-calculator/internal/calculator"
	"go-chi-calculator/internal/config"
	"go-chi-calculator/internal/handlers"
	"go-chi-calculator/internal/observability"
)

// NewRouter builds the arithmetic service: POST /calculate plus probes.
func NewRouter(cfg config.ServiceConfig) http.Handler {

	r := chi.NewRouter()

	r.Use(observability.RequestIDMiddleware)
	r.Use(observability.TracingMiddleware("calculator-api"))
	r.Use(observability.LoggingMiddleware)
	r.Use(corsMiddleware(cfg))

	r.Get("/health", handlers.Health)

	r.Handle("/metrics", observability.PrometheusHandler())

	r.Group(func(r chi.Router) {
		r.Use(rateLimitMiddleware(cfg))
		calculator.RegisterRoutes(r)
	})

	return r
}
