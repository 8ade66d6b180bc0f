package steam

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/karilaa-dev/steam-gifts/internal/domain"
)

type playerSummariesResponse struct {
	Response struct {
		Players []domain.PlayerProfile `json:"players"`
	} `json:"response"`
}

type friendListResponse struct {
	FriendsList struct {
		Friends []struct {
			SteamID     string `json:"steamid"`
			FriendSince int64  `json:"friend_since"`
		} `json:"friends"`
	} `json:"friendslist"`
}

// PlayerSummary resolves the public profile for a Steam ID. On any failure
// a placeholder profile is returned so the wishlist response always carries
// a user object.
func (c *Client) PlayerSummary(ctx context.Context, id domain.SteamID) domain.PlayerProfile {
	if c.apiKey == "" {
		return domain.PlaceholderProfile(id)
	}

	url := fmt.Sprintf("%s/ISteamUser/GetPlayerSummaries/v2/?key=%s&steamids=%s",
		c.apiBase, c.apiKey, id)

	var decoded playerSummariesResponse
	if err := c.getJSON(ctx, url, &decoded); err != nil {
		c.logger.Warn("player summary lookup failed, using placeholder",
			slog.String("steam_id", id.String()),
			slog.String("error", err.Error()))
		return domain.PlaceholderProfile(id)
	}

	if len(decoded.Response.Players) == 0 {
		return domain.PlaceholderProfile(id)
	}
	return decoded.Response.Players[0]
}

// summariesBatchSize is the maximum number of IDs GetPlayerSummaries accepts
// per call.
const summariesBatchSize = 100

// FriendList returns the friends of a Steam ID with their profile summaries.
// Requires an API key and a public friends list.
func (c *Client) FriendList(ctx context.Context, id domain.SteamID) ([]domain.Friend, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("friend list requires a Steam API key")
	}

	url := fmt.Sprintf("%s/ISteamUser/GetFriendList/v1/?key=%s&steamid=%s&relationship=friend",
		c.apiBase, c.apiKey, id)

	var decoded friendListResponse
	if err := c.getJSON(ctx, url, &decoded); err != nil {
		return nil, fmt.Errorf("fetch friend list: %w", err)
	}

	raw := decoded.FriendsList.Friends
	ids := make([]string, 0, len(raw))
	for _, f := range raw {
		ids = append(ids, f.SteamID)
	}

	profiles, err := c.playerSummaries(ctx, ids)
	if err != nil {
		return nil, err
	}

	friends := make([]domain.Friend, 0, len(raw))
	for _, f := range raw {
		friend := domain.Friend{FriendSince: f.FriendSince}
		if p, ok := profiles[f.SteamID]; ok {
			friend.PlayerProfile = p
		} else {
			friend.PlayerProfile = domain.PlaceholderProfile(domain.SteamID(f.SteamID))
		}
		friends = append(friends, friend)
	}
	return friends, nil
}

// playerSummaries resolves profiles for a set of IDs, batching calls at the
// API's per-request limit.
func (c *Client) playerSummaries(ctx context.Context, ids []string) (map[string]domain.PlayerProfile, error) {
	profiles := make(map[string]domain.PlayerProfile, len(ids))

	for start := 0; start < len(ids); start += summariesBatchSize {
		end := min(start+summariesBatchSize, len(ids))

		url := fmt.Sprintf("%s/ISteamUser/GetPlayerSummaries/v2/?key=%s&steamids=%s",
			c.apiBase, c.apiKey, strings.Join(ids[start:end], ","))

		var decoded playerSummariesResponse
		if err := c.getJSON(ctx, url, &decoded); err != nil {
			return nil, fmt.Errorf("fetch player summaries: %w", err)
		}
		for _, p := range decoded.Response.Players {
			profiles[p.SteamID] = p
		}
	}
	return profiles, nil
}
