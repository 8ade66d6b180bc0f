package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/karilaa-dev/steam-gifts/internal/domain"
)

func newTestResult(id string) *domain.WishlistResult {
	return &domain.WishlistResult{
		OwnerSteamID: domain.SteamID(id),
		Items:        []domain.EnrichedWishlistItem{{AppID: 620, Name: "Portal 2"}},
		TotalCount:   1,
		FetchedAt:    time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestMemoryGetSet(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	_, ok, err := m.Get(ctx, "76561197960265731:US")
	require.NoError(t, err)
	assert.False(t, ok)

	want := newTestResult("76561197960265731")
	require.NoError(t, m.Set(ctx, "76561197960265731:US", want, time.Minute))

	got, ok, err := m.Get(ctx, "76561197960265731:US")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, want, got)
}

func TestMemoryExpiry(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return now }

	require.NoError(t, m.Set(ctx, "k", newTestResult("76561197960265731"), 5*time.Minute))

	now = now.Add(5*time.Minute - time.Second)
	_, ok, err := m.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok, "entry should still be live just before the deadline")

	now = now.Add(2 * time.Second)
	_, ok, err = m.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok, "entry should expire once the deadline passes")

	stats, err := m.Stats(ctx)
	require.NoError(t, err)
	assert.Zero(t, stats.Entries)
}

func TestMemoryNonPositiveTTL(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	require.NoError(t, m.Set(ctx, "k", newTestResult("76561197960265731"), 0))

	_, ok, err := m.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemoryClear(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	require.NoError(t, m.Set(ctx, "a", newTestResult("76561197960265731"), time.Minute))
	require.NoError(t, m.Set(ctx, "b", newTestResult("76561197960265732"), time.Minute))

	require.NoError(t, m.Clear(ctx))

	stats, err := m.Stats(ctx)
	require.NoError(t, err)
	assert.Zero(t, stats.Entries)
}

func TestMemoryStats(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	require.NoError(t, m.Set(ctx, "a", newTestResult("76561197960265731"), time.Minute))

	_, _, _ = m.Get(ctx, "a")
	_, _, _ = m.Get(ctx, "a")
	_, _, _ = m.Get(ctx, "missing")

	stats, err := m.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.Entries)
	assert.Equal(t, int64(2), stats.Hits)
	assert.Equal(t, int64(1), stats.Misses)
}
