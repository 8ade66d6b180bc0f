package steam

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/karilaa-dev/steam-gifts/internal/domain"
)

type wishlistResponse struct {
	Response struct {
		Items []struct {
			AppID    int `json:"appid"`
			Priority int `json:"priority"`
		} `json:"items"`
	} `json:"response"`
}

type userdataResponse struct {
	Wishlist []int `json:"rgWishlist"`
}

// FetchWishlist returns the wishlist entries for a Steam ID, ordered by
// priority ascending with ties kept in upstream order.
//
// The Web API wishlist endpoint is tried first. When it yields nothing, or
// fails without a definitive classification (transport error, malformed
// body), the storefront userdata endpoint is consulted exactly once before
// a failure is surfaced. Definitive outcomes (private, login required, not
// found) return immediately. Failures are typed domain.WishlistError values
// so callers can distinguish a private profile from an outage.
func (c *Client) FetchWishlist(ctx context.Context, id domain.SteamID) ([]domain.WishlistEntry, error) {
	entries, err := c.fetchFromAPI(ctx, id)
	switch {
	case err == nil && len(entries) > 0:
		domain.SortEntries(entries)
		return entries, nil
	case err != nil:
		we, ok := domain.WishlistFailure(err)
		if !ok || we.Kind != domain.FailureUpstream {
			return nil, err
		}
		c.logger.Warn("wishlist API failed, trying storefront fallback",
			slog.String("steam_id", id.String()),
			slog.String("error", err.Error()))
	default:
		c.logger.Debug("wishlist API returned no items, trying storefront fallback",
			slog.String("steam_id", id.String()))
	}

	entries, err = c.fetchFromStorefront(ctx, id)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, domain.NewWishlistError(domain.FailureNotFound, http.StatusNotFound, nil)
	}

	domain.SortEntries(entries)
	return entries, nil
}

func (c *Client) fetchFromAPI(ctx context.Context, id domain.SteamID) ([]domain.WishlistEntry, error) {
	url := fmt.Sprintf("%s/IWishlistService/GetWishlist/v1/?steamid=%s", c.apiBase, id)

	resp, err := c.get(ctx, url)
	if err != nil {
		return nil, domain.NewWishlistError(domain.FailureUpstream, 0, err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return nil, domain.NewWishlistError(domain.FailureLoginRequired, resp.StatusCode, nil)
	case resp.StatusCode == http.StatusForbidden:
		return nil, domain.NewWishlistError(domain.FailurePrivate, resp.StatusCode, nil)
	case resp.StatusCode == http.StatusNotFound:
		return nil, domain.NewWishlistError(domain.FailureNotFound, resp.StatusCode, nil)
	case resp.StatusCode != http.StatusOK:
		return nil, domain.NewWishlistError(domain.FailureUpstream, resp.StatusCode,
			fmt.Errorf("wishlist API status %d", resp.StatusCode))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, domain.NewWishlistError(domain.FailureUpstream, 0, err)
	}

	if kind, ok := classifyHTML(body); ok {
		return nil, domain.NewWishlistError(kind, resp.StatusCode, nil)
	}

	var decoded wishlistResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, domain.NewWishlistError(domain.FailureUpstream, resp.StatusCode,
			fmt.Errorf("decode wishlist: %w", err))
	}

	entries := make([]domain.WishlistEntry, 0, len(decoded.Response.Items))
	for _, item := range decoded.Response.Items {
		entries = append(entries, domain.WishlistEntry{AppID: item.AppID, Priority: item.Priority})
	}
	return entries, nil
}

// fetchFromStorefront reads the legacy userdata endpoint. It has no priority
// information, so positions become priorities.
func (c *Client) fetchFromStorefront(ctx context.Context, id domain.SteamID) ([]domain.WishlistEntry, error) {
	url := fmt.Sprintf("%s/dynamicstore/userdata/?steamid=%s", c.storeBase, id)

	resp, err := c.get(ctx, url)
	if err != nil {
		return nil, domain.NewWishlistError(domain.FailureUpstream, 0, err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, domain.NewWishlistError(domain.FailureUpstream, resp.StatusCode,
			fmt.Errorf("userdata status %d", resp.StatusCode))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, domain.NewWishlistError(domain.FailureUpstream, 0, err)
	}

	if kind, ok := classifyHTML(body); ok {
		return nil, domain.NewWishlistError(kind, resp.StatusCode, nil)
	}

	var decoded userdataResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, domain.NewWishlistError(domain.FailureUpstream, resp.StatusCode,
			fmt.Errorf("decode userdata: %w", err))
	}

	entries := make([]domain.WishlistEntry, 0, len(decoded.Wishlist))
	for i, appID := range decoded.Wishlist {
		entries = append(entries, domain.WishlistEntry{AppID: appID, Priority: i})
	}
	return entries, nil
}

// classifyHTML detects Steam serving an HTML page where JSON was expected.
// A login wall or a private-profile page both arrive as 200 HTML.
func classifyHTML(body []byte) (domain.FailureKind, bool) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || trimmed[0] != '<' {
		return "", false
	}

	lower := strings.ToLower(string(trimmed))
	if strings.Contains(lower, "login") || strings.Contains(lower, "sign in") {
		return domain.FailureLoginRequired, true
	}
	if strings.Contains(lower, "private") {
		return domain.FailurePrivate, true
	}
	return domain.FailureUpstream, true
}
