package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/karilaa-dev/steam-gifts/internal/service"
	"github.com/karilaa-dev/steam-gifts/pkg/health"
	"github.com/karilaa-dev/steam-gifts/pkg/middleware"
)

// RouterConfig carries the HTTP-surface knobs the router needs.
type RouterConfig struct {
	CORS           middleware.CORSConfig
	RateLimitRPS   int
	RateLimitBurst int
	TracingEnabled bool
}

// NewRouter creates a chi router with all wishlist service routes registered.
func NewRouter(
	wishlistService *service.Wishlist,
	healthHandler *health.Handler,
	logger *slog.Logger,
	cfg RouterConfig,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.CORS(cfg.CORS))
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestLogging(logger))
	if cfg.TracingEnabled {
		r.Use(middleware.Tracing("wishlist"))
	}
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.PrometheusMetrics("wishlist"))
	if cfg.RateLimitRPS > 0 {
		r.Use(middleware.RateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst, logger))
	}

	// Health check endpoints
	r.Get("/health/live", healthHandler.LivenessHandler())
	r.Get("/health/ready", healthHandler.ReadinessHandler())
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		promhttp.Handler().ServeHTTP(w, r)
	})

	handler := NewWishlistHandler(wishlistService, logger)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/wishlist/{steamId}", handler.Get)

		r.Get("/users/{steamId}", handler.GetUser)
		r.Get("/users/{steamId}/friends", handler.GetFriends)

		r.Get("/regions", handler.ListRegions)
		r.Post("/steam-id/resolve", handler.ResolveSteamID)

		r.Get("/cache/stats", handler.CacheStats)
		r.Delete("/cache", handler.ClearCache)
	})

	return r
}
