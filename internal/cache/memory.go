package cache

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/karilaa-dev/steam-gifts/internal/domain"
)

type memoryEntry struct {
	result    *domain.WishlistResult
	expiresAt time.Time
}

// Memory is an in-process Store. It is safe for concurrent use.
type Memory struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry

	hits   atomic.Int64
	misses atomic.Int64

	// now is swappable so tests can control expiry.
	now func() time.Time
}

// NewMemory creates an empty in-process cache.
func NewMemory() *Memory {
	return &Memory{
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

// Get returns the cached result for key if present and not expired. Expired
// entries are removed on access.
func (m *Memory) Get(_ context.Context, key string) (*domain.WishlistResult, bool, error) {
	m.mu.RLock()
	e, ok := m.entries[key]
	m.mu.RUnlock()

	if ok && m.now().Before(e.expiresAt) {
		m.hits.Add(1)
		cacheHits.WithLabelValues("memory").Inc()
		return e.result, true, nil
	}

	if ok {
		m.mu.Lock()
		if e2, still := m.entries[key]; still && !m.now().Before(e2.expiresAt) {
			delete(m.entries, key)
		}
		m.mu.Unlock()
	}

	m.misses.Add(1)
	cacheMisses.WithLabelValues("memory").Inc()
	return nil, false, nil
}

// Set stores the result under key for ttl. A non-positive ttl stores nothing.
func (m *Memory) Set(_ context.Context, key string, result *domain.WishlistResult, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}

	m.mu.Lock()
	m.entries[key] = memoryEntry{result: result, expiresAt: m.now().Add(ttl)}
	m.mu.Unlock()
	return nil
}

// Clear drops every entry. Hit and miss counters are kept.
func (m *Memory) Clear(_ context.Context) error {
	m.mu.Lock()
	m.entries = make(map[string]memoryEntry)
	m.mu.Unlock()
	return nil
}

// Stats reports live entry count and cumulative hit/miss totals. Expired but
// not yet evicted entries are excluded from the count.
func (m *Memory) Stats(_ context.Context) (Stats, error) {
	now := m.now()

	m.mu.RLock()
	var live int64
	for _, e := range m.entries {
		if now.Before(e.expiresAt) {
			live++
		}
	}
	m.mu.RUnlock()

	return Stats{
		Entries: live,
		Hits:    m.hits.Load(),
		Misses:  m.misses.Load(),
	}, nil
}
