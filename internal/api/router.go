package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/baharkarakas/wallet-api/internal/api/handlers"
	"github.com/baharkarakas/wallet-api/internal/config"
	"github.com/baharkarakas/wallet-api/internal/metrics"
	"github.com/baharkarakas/wallet-api/internal/middleware"
	"github.com/baharkarakas/wallet-api/internal/ratelimit"
	"github.com/baharkarakas/wallet-api/internal/services"
)

func NewRouter(cfg config.Config, ts *services.TransactionService, limiter ratelimit.Limiter) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.Recover, middleware.HTTPMetrics)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.CORSOrigins,
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"*"},
		ExposedHeaders: []string{"X-Request-Id", "X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset"},
	}))

	// Top-level so unmatched paths and 405s are gated too; scraping must not eat the API quota.
	r.Use(middleware.Except(
		middleware.RateLimit(limiter, rateLimitKey(cfg), cfg.RateLimitTimeout),
		"/metrics",
	))

	r.Handle("/metrics", metrics.Handler())

	th := handlers.NewTransactionHandler(ts)
	r.Get("/", th.Hello)

	r.Route("/api/transactions", func(r chi.Router) {
		r.Post("/", th.Create)
		r.Get("/summary/{user_id}", th.Summary)
		r.Get("/{user_id}", th.List)
		r.Delete("/{id}", th.Delete)
	})

	return r
}

func rateLimitKey(cfg config.Config) middleware.KeyFunc {
	if cfg.RateLimitScope == "ip" {
		return middleware.ClientIPKey(cfg.RateLimitKey)
	}
	return middleware.StaticKey(cfg.RateLimitKey)
}
