// Package app wires together all dependencies and runs the wishlist service.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/karilaa-dev/steam-gifts/internal/cache"
	"github.com/karilaa-dev/steam-gifts/internal/config"
	"github.com/karilaa-dev/steam-gifts/internal/domain"
	handler "github.com/karilaa-dev/steam-gifts/internal/handler/http"
	"github.com/karilaa-dev/steam-gifts/internal/service"
	"github.com/karilaa-dev/steam-gifts/internal/steam"
	"github.com/karilaa-dev/steam-gifts/pkg/database"
	"github.com/karilaa-dev/steam-gifts/pkg/health"
	"github.com/karilaa-dev/steam-gifts/pkg/httpclient"
	"github.com/karilaa-dev/steam-gifts/pkg/middleware"
	"github.com/karilaa-dev/steam-gifts/pkg/tracing"
)

// App holds the wired application.
type App struct {
	cfg            *config.Config
	logger         *slog.Logger
	redisClient    *redis.Client
	httpServer     *http.Server
	tracerShutdown func(context.Context) error
}

// NewApp creates a new application instance, initializing all dependencies.
func NewApp(cfg *config.Config, logger *slog.Logger) (*App, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Initialize OpenTelemetry tracing.
	tracerShutdown, err := tracing.InitTracer(ctx, tracing.Config{
		ServiceName:    "wishlist",
		ServiceVersion: "0.1.0",
		Environment:    cfg.Environment,
		OTLPEndpoint:   cfg.OTLPEndpoint,
		SampleRate:     cfg.TraceSampleRate,
		Enabled:        cfg.TracingEnabled,
	})
	if err != nil {
		return nil, fmt.Errorf("init tracer: %w", err)
	}

	// Outbound HTTP to Steam: retrying client behind a circuit breaker.
	steamHTTP := httpclient.New(httpclient.Config{
		Timeout:         cfg.SteamTimeout,
		MaxRetries:      cfg.SteamMaxRetries,
		RetryWaitMin:    500 * time.Millisecond,
		RetryWaitMax:    5 * time.Second,
		MaxConnsPerHost: 50,
		UserAgent:       cfg.SteamUserAgent,
	})
	breaker := httpclient.NewCircuitBreakerClient(steamHTTP, httpclient.CircuitBreakerConfig{
		Name:         "steam",
		MaxRequests:  3,
		Interval:     60 * time.Second,
		Timeout:      cfg.BreakerOpenTimeout,
		FailureRatio: cfg.BreakerFailureRatio,
		MinRequests:  uint32(cfg.BreakerMinRequests),
	}, logger)

	steamClient := steam.NewClient(steam.Config{
		APIBaseURL:        cfg.SteamAPIBaseURL,
		StoreBaseURL:      cfg.SteamStoreBaseURL,
		APIKey:            cfg.SteamAPIKey,
		UserAgent:         cfg.SteamUserAgent,
		RequestsPerSecond: cfg.SteamRPS,
		Burst:             cfg.SteamBurst,
	}, breaker, logger)

	// Result cache: in-process by default, Redis when replicas share state.
	var (
		store       cache.Store
		redisClient *redis.Client
	)
	switch cfg.CacheBackend {
	case "redis":
		redisClient, err = database.NewRedisClient(ctx, database.RedisConfig{
			Host:     cfg.RedisHost,
			Port:     cfg.RedisPort,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err != nil {
			return nil, fmt.Errorf("connect to redis: %w", err)
		}
		logger.Info("connected to Redis",
			slog.String("host", cfg.RedisHost),
			slog.Int("port", cfg.RedisPort),
		)
		store = cache.NewRedis(redisClient)
	default:
		store = cache.NewMemory()
	}

	defaultRegions := make([]domain.Region, 0, len(cfg.DefaultRegions))
	for _, code := range cfg.DefaultRegions {
		r, ok := domain.RegionByCode(code)
		if !ok {
			return nil, fmt.Errorf("unknown default region %q", code)
		}
		defaultRegions = append(defaultRegions, r)
	}

	wishlistService := service.NewWishlist(
		steamClient, store, logger, defaultRegions, cfg.BatchSize, cfg.CacheTTL)

	// Health checks.
	healthHandler := health.NewHandler()
	if redisClient != nil {
		healthHandler.Register("redis", func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		})
	}

	router := handler.NewRouter(wishlistService, healthHandler, logger, handler.RouterConfig{
		CORS: middleware.CORSConfig{
			AllowedOrigins: cfg.CORSAllowedOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		},
		RateLimitRPS:   cfg.RateLimitRPS,
		RateLimitBurst: cfg.RateLimitBurst,
		TracingEnabled: cfg.TracingEnabled,
	})

	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           router,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      cfg.RequestTimeout,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return &App{
		cfg:            cfg,
		logger:         logger,
		redisClient:    redisClient,
		httpServer:     httpServer,
		tracerShutdown: tracerShutdown,
	}, nil
}

// Run starts the HTTP server and blocks until the context is canceled.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		a.logger.Info("starting HTTP server",
			slog.String("addr", a.httpServer.Addr),
		)
		if err := a.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("shutdown signal received")
	case err := <-errCh:
		return err
	}

	return a.Shutdown()
}

// Shutdown gracefully stops all components: drain in-flight HTTP requests,
// flush pending spans, then close the Redis connection.
func (a *App) Shutdown() error {
	a.logger.Info("shutting down application...")

	var errs []error

	httpCtx, httpCancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer httpCancel()
	if err := a.httpServer.Shutdown(httpCtx); err != nil {
		a.logger.Error("http server shutdown error", slog.String("error", err.Error()))
		errs = append(errs, err)
	}

	if a.tracerShutdown != nil {
		tracerCtx, tracerCancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer tracerCancel()
		if err := a.tracerShutdown(tracerCtx); err != nil {
			a.logger.Error("tracer shutdown error", slog.String("error", err.Error()))
			errs = append(errs, err)
		}
	}

	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			a.logger.Error("redis close error", slog.String("error", err.Error()))
			errs = append(errs, err)
		}
	}

	a.logger.Info("application shutdown complete")
	return errors.Join(errs...)
}
