package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/karilaa-dev/steam-gifts/internal/domain"
)

const redisKeyPrefix = "wishlist:"

// Redis is a Store backed by a Redis instance, for deployments that run more
// than one replica and want them to share one cache.
type Redis struct {
	client *redis.Client

	hits   atomic.Int64
	misses atomic.Int64
}

// NewRedis wraps an already-connected client.
func NewRedis(client *redis.Client) *Redis {
	return &Redis{client: client}
}

func (r *Redis) key(key string) string {
	return redisKeyPrefix + key
}

// Get returns the cached result for key. Expiry is delegated to Redis TTLs.
func (r *Redis) Get(ctx context.Context, key string) (*domain.WishlistResult, bool, error) {
	raw, err := r.client.Get(ctx, r.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		r.misses.Add(1)
		cacheMisses.WithLabelValues("redis").Inc()
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get: %w", err)
	}

	var result domain.WishlistResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, false, fmt.Errorf("decode cached result: %w", err)
	}

	r.hits.Add(1)
	cacheHits.WithLabelValues("redis").Inc()
	return &result, true, nil
}

// Set stores the result under key for ttl.
func (r *Redis) Set(ctx context.Context, key string, result *domain.WishlistResult, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}

	raw, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("encode result: %w", err)
	}

	if err := r.client.Set(ctx, r.key(key), raw, ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

// Clear removes every wishlist entry, leaving other keys in the database
// untouched.
func (r *Redis) Clear(ctx context.Context) error {
	iter := r.client.Scan(ctx, 0, redisKeyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		if err := r.client.Del(ctx, iter.Val()).Err(); err != nil {
			return fmt.Errorf("redis del: %w", err)
		}
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("redis scan: %w", err)
	}
	return nil
}

// Stats counts live wishlist keys and reports this process's hit/miss totals.
func (r *Redis) Stats(ctx context.Context) (Stats, error) {
	var entries int64
	iter := r.client.Scan(ctx, 0, redisKeyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		entries++
	}
	if err := iter.Err(); err != nil {
		return Stats{}, fmt.Errorf("redis scan: %w", err)
	}

	return Stats{
		Entries: entries,
		Hits:    r.hits.Load(),
		Misses:  r.misses.Load(),
	}, nil
}
