package main

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"golang.org/x/time/rate"

	"github.com/harukimedia/giftflow/internal/auth"
)

// newRouter wires every handler onto the mux and stacks the shared
// middleware: CORS, a global rate limit, and bearer-token auth on the
// /v1 surface.
func newRouter(deps *Dependencies) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	if deps.Config.Observability.MetricsEnabled {
		mux.Handle("GET /metrics", promhttp.Handler())
	}

	api := http.NewServeMux()
	api.HandleFunc("POST /v1/imports/analyze", deps.ImportHandler.Analyze)
	api.HandleFunc("POST /v1/imports", deps.ImportHandler.Import)
	api.HandleFunc("GET /v1/influencers", deps.InfluencerHandler.List)
	api.HandleFunc("GET /v1/influencers/{id}/score", deps.ScoreHandler.InfluencerScore)
	api.HandleFunc("GET /v1/rankings", deps.ScoreHandler.Rankings)
	api.HandleFunc("GET /v1/campaigns/export", deps.ExportHandler.Export)

	authMiddleware := auth.NewMiddleware(deps.Config.Auth.JWTSecret)
	mux.Handle("/v1/", authMiddleware.Wrap(api))

	limited := rateLimit(deps, mux)

	return cors.New(cors.Options{
		AllowedOrigins:   []string{deps.Config.Server.BaseURL, "http://localhost:3000"},
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	}).Handler(limited)
}

// rateLimit applies one token-bucket limiter across all clients. The
// dashboard is a handful of operators; per-IP buckets would be
// overkill.
func rateLimit(deps *Dependencies, next http.Handler) http.Handler {
	limiter := rate.NewLimiter(
		rate.Limit(deps.Config.Server.RateLimitPerSecond),
		deps.Config.Server.RateLimitBurst,
	)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !limiter.Allow() {
			http.Error(w, "rate limit exceeded", http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}
