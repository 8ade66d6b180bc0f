// Package steam talks to the Steam Web API and the storefront API. All
// lookups degrade gracefully; only the wishlist fetch itself surfaces typed
// failures to the caller.
package steam

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"

	"golang.org/x/time/rate"

	"github.com/karilaa-dev/steam-gifts/internal/domain"
)

// Doer executes an HTTP request. Satisfied by the retrying client in
// pkg/httpclient and its circuit breaker wrapper.
type Doer interface {
	Do(ctx context.Context, req *http.Request) (*http.Response, error)
}

// Config holds the upstream endpoints and courtesy limits.
type Config struct {
	// APIBaseURL is the Steam Web API root, e.g. https://api.steampowered.com.
	APIBaseURL string
	// StoreBaseURL is the storefront root, e.g. https://store.steampowered.com.
	StoreBaseURL string
	// APIKey authorizes Web API calls that require one (profiles, friends).
	APIKey string
	// UserAgent identifies this service to Steam.
	UserAgent string
	// RequestsPerSecond caps outbound calls across all endpoints. Zero
	// disables the limiter.
	RequestsPerSecond float64
	// Burst is the limiter burst size.
	Burst int
}

// Client is a Steam API client. It is safe for concurrent use.
type Client struct {
	http      Doer
	apiBase   string
	storeBase string
	apiKey    string
	userAgent string
	limiter   *rate.Limiter
	logger    *slog.Logger

	// detailMu guards detailMemo, a per-process memo of resolved game
	// details. Details are effectively immutable so entries never expire.
	detailMu   sync.RWMutex
	detailMemo map[int]domain.GameDetail
}

// NewClient builds a client on top of doer.
func NewClient(cfg Config, doer Doer, logger *slog.Logger) *Client {
	var limiter *rate.Limiter
	if cfg.RequestsPerSecond > 0 {
		burst := cfg.Burst
		if burst <= 0 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), burst)
	}

	return &Client{
		http:       doer,
		apiBase:    cfg.APIBaseURL,
		storeBase:  cfg.StoreBaseURL,
		apiKey:     cfg.APIKey,
		userAgent:  cfg.UserAgent,
		limiter:    limiter,
		logger:     logger,
		detailMemo: make(map[int]domain.GameDetail),
	}
}

// get issues a rate-limited GET and returns the response. The caller owns
// the body.
func (c *Client) get(ctx context.Context, url string) (*http.Response, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	return c.http.Do(ctx, req)
}

// getJSON issues a GET and decodes a 200 response into out. Non-200 statuses
// are returned as errors carrying the status code.
func (c *Client) getJSON(ctx context.Context, url string, out any) error {
	resp, err := c.get(ctx, url)
	if err != nil {
		return err
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
