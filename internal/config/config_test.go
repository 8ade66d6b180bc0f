package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, 8080, cfg.HTTPPort)
	assert.Equal(t, "https://api.steampowered.com", cfg.SteamAPIBaseURL)
	assert.Equal(t, "https://store.steampowered.com", cfg.SteamStoreBaseURL)
	assert.Equal(t, []string{"US", "EU", "RU"}, cfg.DefaultRegions)
	assert.Equal(t, 10, cfg.BatchSize)
	assert.Equal(t, 10*time.Minute, cfg.CacheTTL)
	assert.Equal(t, "memory", cfg.CacheBackend)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("DEFAULT_REGIONS", "US,UA")
	t.Setenv("CACHE_BACKEND", "redis")
	t.Setenv("CACHE_TTL", "30s")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.HTTPPort)
	assert.Equal(t, []string{"US", "UA"}, cfg.DefaultRegions)
	assert.Equal(t, "redis", cfg.CacheBackend)
	assert.Equal(t, 30*time.Second, cfg.CacheTTL)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{name: "port out of range", key: "HTTP_PORT", value: "70000"},
		{name: "zero batch size", key: "BATCH_SIZE", value: "0"},
		{name: "unknown cache backend", key: "CACHE_BACKEND", value: "memcached"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)

			_, err := Load()
			assert.Error(t, err)
		})
	}
}
