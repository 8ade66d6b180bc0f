// Package http exposes the wishlist aggregation API over HTTP.
package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/karilaa-dev/steam-gifts/internal/domain"
	"github.com/karilaa-dev/steam-gifts/internal/service"
	"github.com/karilaa-dev/steam-gifts/pkg/httputil"
	"github.com/karilaa-dev/steam-gifts/pkg/validator"
)

// WishlistHandler handles HTTP requests for wishlist endpoints.
type WishlistHandler struct {
	service *service.Wishlist
	logger  *slog.Logger
}

// NewWishlistHandler creates a new wishlist HTTP handler.
func NewWishlistHandler(svc *service.Wishlist, logger *slog.Logger) *WishlistHandler {
	return &WishlistHandler{service: svc, logger: logger}
}

// --- Response DTOs ---

// WishlistResponse is the enriched wishlist payload.
type WishlistResponse struct {
	User       domain.PlayerProfile          `json:"user"`
	Games      []domain.EnrichedWishlistItem `json:"games"`
	TotalCount int                           `json:"totalCount"`
	FetchedAt  time.Time                     `json:"fetchedAt"`
}

// FriendsResponse lists a user's friends.
type FriendsResponse struct {
	Friends    []domain.Friend `json:"friends"`
	TotalCount int             `json:"totalCount"`
}

// RegionsResponse lists the regions available for price lookups.
type RegionsResponse struct {
	Regions []domain.Region `json:"regions"`
}

// ResolveSteamIDRequest is the body of the Steam ID resolution endpoint.
type ResolveSteamIDRequest struct {
	Input string `json:"input" validate:"required"`
}

// ResolveSteamIDResponse carries the extracted Steam ID.
type ResolveSteamIDResponse struct {
	SteamID string `json:"steamId"`
	Valid   bool   `json:"valid"`
}

// --- Handlers ---

// Get handles GET /api/v1/wishlist/{steamId}?regions=US,RU
func (h *WishlistHandler) Get(w http.ResponseWriter, r *http.Request) {
	steamID := chi.URLParam(r, "steamId")

	var regions []string
	if raw := r.URL.Query().Get("regions"); raw != "" {
		regions = strings.Split(raw, ",")
	}

	result, err := h.service.Get(r.Context(), steamID, regions)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, WishlistResponse{
		User:       result.User,
		Games:      result.Items,
		TotalCount: result.TotalCount,
		FetchedAt:  result.FetchedAt,
	})
}

// GetUser handles GET /api/v1/users/{steamId}
func (h *WishlistHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	profile, err := h.service.Profile(r.Context(), chi.URLParam(r, "steamId"))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, profile)
}

// GetFriends handles GET /api/v1/users/{steamId}/friends
func (h *WishlistHandler) GetFriends(w http.ResponseWriter, r *http.Request) {
	friends, err := h.service.Friends(r.Context(), chi.URLParam(r, "steamId"))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, FriendsResponse{
		Friends:    friends,
		TotalCount: len(friends),
	})
}

// ListRegions handles GET /api/v1/regions
func (h *WishlistHandler) ListRegions(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, RegionsResponse{Regions: h.service.Regions()})
}

// ResolveSteamID handles POST /api/v1/steam-id/resolve. It accepts either a
// bare Steam ID or a steamcommunity.com profile URL.
func (h *WishlistHandler) ResolveSteamID(w http.ResponseWriter, r *http.Request) {
	var req ResolveSteamIDRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}
	if err := validator.Validate(req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	id, err := domain.ExtractSteamID(req.Input)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, ResolveSteamIDResponse{
		SteamID: id.String(),
		Valid:   true,
	})
}

// CacheStats handles GET /api/v1/cache/stats
func (h *WishlistHandler) CacheStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.CacheStats(r.Context())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, stats)
}

// ClearCache handles DELETE /api/v1/cache
func (h *WishlistHandler) ClearCache(w http.ResponseWriter, r *http.Request) {
	if err := h.service.ClearCache(r.Context()); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	h.logger.Info("wishlist cache cleared")
	w.WriteHeader(http.StatusNoContent)
}
