package domain

import (
	"fmt"
	"sort"
	"time"
)

// WishlistEntry is one position on a user's wishlist. Priority 0 is the top
// entry; higher values rank lower.
type WishlistEntry struct {
	AppID    int `json:"appid"`
	Priority int `json:"priority"`
}

// SortEntries orders entries ascending by priority. The sort is stable so
// entries with equal priority keep their upstream discovery order.
func SortEntries(entries []WishlistEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Priority < entries[j].Priority
	})
}

// Platforms describes which operating systems a game supports.
type Platforms struct {
	Windows bool `json:"windows"`
	Mac     bool `json:"mac"`
	Linux   bool `json:"linux"`
}

// GameDetail holds the display metadata for a store app.
type GameDetail struct {
	AppID       int       `json:"appid"`
	Name        string    `json:"name"`
	HeaderImage string    `json:"header_image"`
	Platforms   Platforms `json:"platforms"`
}

// PlaceholderDetail is the degraded detail record used when the store has no
// usable metadata for an app. The final response never carries a nil detail.
func PlaceholderDetail(appID int) GameDetail {
	return GameDetail{
		AppID: appID,
		Name:  fmt.Sprintf("App %d", appID),
	}
}

// EnrichedWishlistItem is a wishlist entry joined with its game detail and
// one price per requested region, in the caller's requested region order.
type EnrichedWishlistItem struct {
	AppID          int             `json:"appid"`
	Name           string          `json:"name"`
	HeaderImage    string          `json:"header_image"`
	Platforms      Platforms       `json:"platforms"`
	Priority       int             `json:"wishlist_priority"`
	RegionalPrices []RegionalPrice `json:"regionalPrices"`
}

// WishlistResult is the complete enriched wishlist for one Steam ID.
// It is immutable once built; consumers must not mutate it.
type WishlistResult struct {
	OwnerSteamID SteamID                `json:"owner_steam_id"`
	User         PlayerProfile          `json:"user"`
	Items        []EnrichedWishlistItem `json:"items"`
	TotalCount   int                    `json:"total_count"`
	FetchedAt    time.Time              `json:"fetched_at"`
}

// PlayerProfile is the public profile summary for a Steam account.
type PlayerProfile struct {
	SteamID      string `json:"steamid"`
	PersonaName  string `json:"personaname"`
	ProfileURL   string `json:"profileurl"`
	Avatar       string `json:"avatar"`
	AvatarMedium string `json:"avatarmedium"`
	AvatarFull   string `json:"avatarfull"`
	Visibility   int    `json:"communityvisibilitystate"`
}

// PlaceholderProfile is the degraded profile used when the player summary
// lookup fails.
func PlaceholderProfile(id SteamID) PlayerProfile {
	return PlayerProfile{
		SteamID:     id.String(),
		PersonaName: "Unknown User",
		ProfileURL:  "https://steamcommunity.com/profiles/" + id.String(),
	}
}

// Friend is a friends-list entry joined with the friend's profile summary.
type Friend struct {
	PlayerProfile
	FriendSince int64 `json:"friend_since"`
}
