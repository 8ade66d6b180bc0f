package config

import (
	"fmt"
	"time"

	pkgconfig "github.com/karilaa-dev/steam-gifts/pkg/config"
)

// Config holds all configuration for the wishlist service.
type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	// HTTP server
	HTTPPort        int           `env:"HTTP_PORT" envDefault:"8080"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"15s"`
	RequestTimeout  time.Duration `env:"REQUEST_TIMEOUT" envDefault:"60s"`

	// Steam upstreams
	SteamAPIBaseURL   string        `env:"STEAM_API_BASE_URL" envDefault:"https://api.steampowered.com"`
	SteamStoreBaseURL string        `env:"STEAM_STORE_BASE_URL" envDefault:"https://store.steampowered.com"`
	SteamAPIKey       string        `env:"STEAM_API_KEY"`
	SteamUserAgent    string        `env:"STEAM_USER_AGENT" envDefault:"Steam-Gifts-App/1.0"`
	SteamTimeout      time.Duration `env:"STEAM_TIMEOUT" envDefault:"10s"`
	SteamMaxRetries   int           `env:"STEAM_MAX_RETRIES" envDefault:"2"`
	SteamRPS          float64       `env:"STEAM_REQUESTS_PER_SECOND" envDefault:"20"`
	SteamBurst        int           `env:"STEAM_BURST" envDefault:"10"`

	// Circuit breaker on the Steam upstream
	BreakerFailureRatio float64       `env:"BREAKER_FAILURE_RATIO" envDefault:"0.6"`
	BreakerMinRequests  int           `env:"BREAKER_MIN_REQUESTS" envDefault:"10"`
	BreakerOpenTimeout  time.Duration `env:"BREAKER_OPEN_TIMEOUT" envDefault:"30s"`

	// Aggregation
	DefaultRegions []string `env:"DEFAULT_REGIONS" envDefault:"US,EU,RU" envSeparator:","`
	BatchSize      int      `env:"BATCH_SIZE" envDefault:"10"`

	// Result cache
	CacheTTL     time.Duration `env:"CACHE_TTL" envDefault:"10m"`
	CacheBackend string        `env:"CACHE_BACKEND" envDefault:"memory"`

	// Redis (only used when CACHE_BACKEND=redis)
	RedisHost     string `env:"REDIS_HOST" envDefault:"localhost"`
	RedisPort     int    `env:"REDIS_PORT" envDefault:"6379"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`

	// Per-client rate limiting; zero disables it
	RateLimitRPS   int `env:"RATE_LIMIT_RPS" envDefault:"10"`
	RateLimitBurst int `env:"RATE_LIMIT_BURST" envDefault:"20"`

	// Tracing
	TracingEnabled  bool    `env:"TRACING_ENABLED" envDefault:"false"`
	OTLPEndpoint    string  `env:"OTLP_ENDPOINT" envDefault:"localhost:4318"`
	TraceSampleRate float64 `env:"TRACE_SAMPLE_RATE" envDefault:"1.0"`

	// CORS
	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envDefault:"http://localhost:5173,http://localhost:3000" envSeparator:","`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := pkgconfig.Load(cfg); err != nil {
		return nil, fmt.Errorf("load wishlist config: %w", err)
	}
	if cfg.HTTPPort < 1 || cfg.HTTPPort > 65535 {
		return nil, fmt.Errorf("invalid HTTP port: %d", cfg.HTTPPort)
	}
	if cfg.BatchSize < 1 {
		return nil, fmt.Errorf("invalid batch size: %d", cfg.BatchSize)
	}
	if cfg.CacheBackend != "memory" && cfg.CacheBackend != "redis" {
		return nil, fmt.Errorf("invalid cache backend %q, want memory or redis", cfg.CacheBackend)
	}
	if len(cfg.DefaultRegions) == 0 {
		return nil, fmt.Errorf("at least one default region is required")
	}
	return cfg, nil
}
