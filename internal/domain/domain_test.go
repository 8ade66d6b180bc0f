package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSteamID(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{name: "valid 17 digits", input: "76561197960265731"},
		{name: "surrounding whitespace", input: "  76561197960265731  "},
		{name: "too short", input: "7656119796026573", wantErr: true},
		{name: "too long", input: "765611979602657311", wantErr: true},
		{name: "non-numeric", input: "7656119796026573a", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, err := ParseSteamID(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, SteamID("76561197960265731"), id)
		})
	}
}

func TestExtractSteamID(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    SteamID
		wantErr bool
	}{
		{name: "bare id", input: "76561197960265731", want: "76561197960265731"},
		{name: "profile url", input: "https://steamcommunity.com/profiles/76561197960265731", want: "76561197960265731"},
		{name: "profile url with trailing slash", input: "https://steamcommunity.com/profiles/76561197960265731/", want: "76561197960265731"},
		{name: "vanity url", input: "https://steamcommunity.com/id/gabelogannewell", wantErr: true},
		{name: "garbage", input: "not a steam id", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractSteamID(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSortEntriesStable(t *testing.T) {
	entries := []WishlistEntry{
		{AppID: 30, Priority: 2},
		{AppID: 10, Priority: 0},
		{AppID: 40, Priority: 1},
		{AppID: 20, Priority: 1},
	}

	SortEntries(entries)

	assert.Equal(t, []WishlistEntry{
		{AppID: 10, Priority: 0},
		{AppID: 40, Priority: 1},
		{AppID: 20, Priority: 1},
		{AppID: 30, Priority: 2},
	}, entries)
}

func TestPlaceholderDetail(t *testing.T) {
	d := PlaceholderDetail(620)

	assert.Equal(t, 620, d.AppID)
	assert.Equal(t, "App 620", d.Name)
	assert.Empty(t, d.HeaderImage)
}

func TestNewRegionalPrice(t *testing.T) {
	us, ok := RegionByCode("US")
	require.True(t, ok)

	t.Run("discounted", func(t *testing.T) {
		p := NewRegionalPrice(us, "$9.99", 50, "$19.99")

		assert.Equal(t, "US", p.Region)
		assert.Equal(t, "United States", p.RegionName)
		assert.Equal(t, "USD", p.Currency)
		assert.Equal(t, "$9.99", p.Price)
		assert.Equal(t, 50, p.Discount)
		assert.Equal(t, "$19.99", p.OriginalPrice)
	})

	t.Run("zero discount drops original price", func(t *testing.T) {
		p := NewRegionalPrice(us, "$19.99", 0, "$19.99")

		assert.Zero(t, p.Discount)
		assert.Empty(t, p.OriginalPrice)
	})

	t.Run("sentinels", func(t *testing.T) {
		assert.Equal(t, PriceFree, FreePrice(us).Price)
		assert.Equal(t, PriceUnavailable, UnavailablePrice(us).Price)
		assert.Equal(t, PriceError, ErrorPrice(us).Price)
	})
}

func TestRegionByCode(t *testing.T) {
	ru, ok := RegionByCode("RU")
	require.True(t, ok)
	assert.Equal(t, "RUB", ru.Currency)
	assert.Equal(t, "Russia", ru.Name)

	_, ok = RegionByCode("XX")
	assert.False(t, ok)
}

func TestWishlistFailure(t *testing.T) {
	err := NewWishlistError(FailurePrivate, 403, nil)

	we, ok := WishlistFailure(err)
	require.True(t, ok)
	assert.Equal(t, FailurePrivate, we.Kind)
	assert.Equal(t, 403, we.StatusCode)
	assert.Contains(t, err.Error(), "private")

	_, ok = WishlistFailure(assert.AnError)
	assert.False(t, ok)
}
