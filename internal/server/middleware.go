package server

import (
	"net/http"

	"go-chi-calculator/internal/config"
	"go-chi-calculator/internal/handlers"

	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
)

// corsMiddleware lets browser front ends on other origins call the service.
func corsMiddleware(cfg config.ServiceConfig) func(http.Handler) http.Handler {
	return cors.Handler(cors.Options{
		AllowedOrigins: cfg.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "X-Request-ID", "traceparent", "tracestate"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         300,
	})
}

// rateLimitMiddleware limits requests per client IP. Rejections use the
// same {"detail": ...} body as every other client error.
func rateLimitMiddleware(cfg config.ServiceConfig) func(http.Handler) http.Handler {
	if cfg.RateLimitDisabled {
		return func(next http.Handler) http.Handler {
			return next
		}
	}

	return httprate.Limit(
		cfg.RateLimitRequests,
		cfg.RateLimitWindow,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			handlers.WriteError(w, http.StatusTooManyRequests, "Too many requests.")
		}),
	)
}
