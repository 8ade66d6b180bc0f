// Package cache holds enriched wishlist results for a bounded time so
// repeated requests for the same Steam ID do not hit the store again.
package cache

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/karilaa-dev/steam-gifts/internal/domain"
)

// Store is a TTL-bounded result cache. Entries expire; there is no
// persistence guarantee of any kind.
type Store interface {
	Get(ctx context.Context, key string) (*domain.WishlistResult, bool, error)
	Set(ctx context.Context, key string, result *domain.WishlistResult, ttl time.Duration) error
	Clear(ctx context.Context) error
	Stats(ctx context.Context) (Stats, error)
}

// Stats is a point-in-time snapshot of cache activity.
type Stats struct {
	Entries int64 `json:"entries"`
	Hits    int64 `json:"hits"`
	Misses  int64 `json:"misses"`
}

var (
	cacheHits = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "wishlist_cache_hits_total",
		Help: "Total number of wishlist cache hits.",
	}, []string{"backend"})

	cacheMisses = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "wishlist_cache_misses_total",
		Help: "Total number of wishlist cache misses.",
	}, []string{"backend"})
)
