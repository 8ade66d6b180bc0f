// Package service implements the wishlist aggregation pipeline: fetch the
// wishlist, enrich every entry with game details and per-region prices, and
// cache the assembled result.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/karilaa-dev/steam-gifts/internal/batch"
	"github.com/karilaa-dev/steam-gifts/internal/cache"
	"github.com/karilaa-dev/steam-gifts/internal/domain"
	apperrors "github.com/karilaa-dev/steam-gifts/pkg/errors"
)

// SteamAPI is the upstream surface the aggregator needs. Implemented by
// *steam.Client.
type SteamAPI interface {
	FetchWishlist(ctx context.Context, id domain.SteamID) ([]domain.WishlistEntry, error)
	GameDetails(ctx context.Context, appID int) domain.GameDetail
	RegionalPrice(ctx context.Context, appID int, region domain.Region) domain.RegionalPrice
	PlayerSummary(ctx context.Context, id domain.SteamID) domain.PlayerProfile
	FriendList(ctx context.Context, id domain.SteamID) ([]domain.Friend, error)
}

// Wishlist aggregates wishlists with regional prices.
type Wishlist struct {
	steam          SteamAPI
	cache          cache.Store
	logger         *slog.Logger
	group          singleflight.Group
	concurrency    int
	cacheTTL       time.Duration
	defaultRegions []domain.Region

	now func() time.Time
}

// NewWishlist wires the aggregator. defaultRegions is used when a request
// names no regions; concurrency bounds per-app store lookups.
func NewWishlist(steamAPI SteamAPI, store cache.Store, logger *slog.Logger,
	defaultRegions []domain.Region, concurrency int, cacheTTL time.Duration) *Wishlist {
	return &Wishlist{
		steam:          steamAPI,
		cache:          store,
		logger:         logger,
		concurrency:    concurrency,
		cacheTTL:       cacheTTL,
		defaultRegions: defaultRegions,
		now:            time.Now,
	}
}

// ResolveRegions maps raw region codes to the catalog, defaulting when the
// list is empty. Codes are case-insensitive; an unknown code is an input
// error, not a silent skip.
func (s *Wishlist) ResolveRegions(codes []string) ([]domain.Region, error) {
	if len(codes) == 0 {
		return s.defaultRegions, nil
	}

	regions := make([]domain.Region, 0, len(codes))
	for _, code := range codes {
		r, ok := domain.RegionByCode(strings.ToUpper(strings.TrimSpace(code)))
		if !ok {
			return nil, apperrors.InvalidInput(fmt.Sprintf("unknown region %q", code))
		}
		regions = append(regions, r)
	}
	return regions, nil
}

// Get returns the enriched wishlist for a Steam ID. Identical concurrent
// requests share one upstream fetch, and completed results are served from
// the cache until the TTL lapses.
func (s *Wishlist) Get(ctx context.Context, rawID string, regionCodes []string) (*domain.WishlistResult, error) {
	id, err := domain.ParseSteamID(rawID)
	if err != nil {
		return nil, err
	}

	regions, err := s.ResolveRegions(regionCodes)
	if err != nil {
		return nil, err
	}

	key := cacheKey(id, regions)

	if result, ok, cerr := s.cache.Get(ctx, key); cerr != nil {
		s.logger.Warn("cache read failed", slog.String("error", cerr.Error()))
	} else if ok {
		s.logger.Debug("wishlist served from cache", slog.String("steam_id", id.String()))
		return result, nil
	}

	v, err, shared := s.group.Do(key, func() (any, error) {
		// The build is shared by every coalesced caller, so it must not be
		// tied to the first caller's cancellation. Its deadline still
		// bounds the upstream work.
		bctx := context.WithoutCancel(ctx)
		if deadline, ok := ctx.Deadline(); ok {
			var cancel context.CancelFunc
			bctx, cancel = context.WithDeadline(bctx, deadline)
			defer cancel()
		}
		return s.build(bctx, id, regions, key)
	})
	if err != nil {
		return nil, s.mapError(ctx, id, err)
	}
	if shared {
		s.logger.Debug("wishlist fetch coalesced", slog.String("steam_id", id.String()))
	}

	return v.(*domain.WishlistResult), nil
}

func (s *Wishlist) build(ctx context.Context, id domain.SteamID, regions []domain.Region, key string) (*domain.WishlistResult, error) {
	start := s.now()

	entries, err := s.steam.FetchWishlist(ctx, id)
	if err != nil {
		return nil, err
	}

	profile := s.steam.PlayerSummary(ctx, id)

	appIDs := make([]int, len(entries))
	for i, e := range entries {
		appIDs[i] = e.AppID
	}

	type priceJob struct {
		appID  int
		region domain.Region
	}
	jobs := make([]priceJob, 0, len(entries)*len(regions))
	for _, appID := range appIDs {
		for _, r := range regions {
			jobs = append(jobs, priceJob{appID: appID, region: r})
		}
	}

	// Details and prices are independent, so the two batches run side by
	// side, each bounded by its own window.
	var (
		wg      sync.WaitGroup
		details []batch.Result[domain.GameDetail]
		prices  []batch.Result[domain.RegionalPrice]
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		details = batch.Run(ctx, appIDs, s.concurrency, func(ctx context.Context, appID int) (domain.GameDetail, error) {
			return s.steam.GameDetails(ctx, appID), nil
		})
	}()
	go func() {
		defer wg.Done()
		prices = batch.Run(ctx, jobs, s.concurrency, func(ctx context.Context, j priceJob) (domain.RegionalPrice, error) {
			return s.steam.RegionalPrice(ctx, j.appID, j.region), nil
		})
	}()
	wg.Wait()

	items := make([]domain.EnrichedWishlistItem, len(entries))
	for i, e := range entries {
		detail := domain.PlaceholderDetail(e.AppID)
		if details[i].Err == nil {
			detail = details[i].Value
		}

		regionalPrices := make([]domain.RegionalPrice, len(regions))
		for j, r := range regions {
			res := prices[i*len(regions)+j]
			if res.Err != nil {
				regionalPrices[j] = domain.ErrorPrice(r)
			} else {
				regionalPrices[j] = res.Value
			}
		}

		items[i] = domain.EnrichedWishlistItem{
			AppID:          e.AppID,
			Name:           detail.Name,
			HeaderImage:    detail.HeaderImage,
			Platforms:      detail.Platforms,
			Priority:       e.Priority,
			RegionalPrices: regionalPrices,
		}
	}

	result := &domain.WishlistResult{
		OwnerSteamID: id,
		User:         profile,
		Items:        items,
		TotalCount:   len(items),
		FetchedAt:    s.now(),
	}

	if err := s.cache.Set(ctx, key, result, s.cacheTTL); err != nil {
		s.logger.Warn("cache write failed", slog.String("error", err.Error()))
	}

	s.logger.Info("wishlist aggregated",
		slog.String("steam_id", id.String()),
		slog.Int("items", len(items)),
		slog.Int("regions", len(regions)),
		slog.Duration("took", s.now().Sub(start)))

	return result, nil
}

// Profile returns the public profile for a Steam ID.
func (s *Wishlist) Profile(ctx context.Context, rawID string) (domain.PlayerProfile, error) {
	id, err := domain.ParseSteamID(rawID)
	if err != nil {
		return domain.PlayerProfile{}, err
	}
	return s.steam.PlayerSummary(ctx, id), nil
}

// Friends returns the friends list for a Steam ID.
func (s *Wishlist) Friends(ctx context.Context, rawID string) ([]domain.Friend, error) {
	id, err := domain.ParseSteamID(rawID)
	if err != nil {
		return nil, err
	}

	friends, err := s.steam.FriendList(ctx, id)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, apperrors.GatewayTimeout("steam did not respond in time")
		}
		return nil, apperrors.BadGateway("failed to fetch friends list")
	}
	return friends, nil
}

// Regions lists the store countries available for price lookups.
func (s *Wishlist) Regions() []domain.Region {
	return domain.Regions
}

// CacheStats reports result cache activity.
func (s *Wishlist) CacheStats(ctx context.Context) (cache.Stats, error) {
	return s.cache.Stats(ctx)
}

// ClearCache drops every cached wishlist.
func (s *Wishlist) ClearCache(ctx context.Context) error {
	return s.cache.Clear(ctx)
}

// mapError translates pipeline failures into API errors. Typed wishlist
// failures keep their distinct statuses; a blown deadline becomes a gateway
// timeout instead of a generic upstream error.
func (s *Wishlist) mapError(ctx context.Context, id domain.SteamID, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return apperrors.GatewayTimeout("steam did not respond in time")
	}

	if we, ok := domain.WishlistFailure(err); ok {
		switch we.Kind {
		case domain.FailurePrivate:
			return apperrors.Forbidden("this wishlist is private")
		case domain.FailureLoginRequired:
			return apperrors.Unauthorized("steam requires a login to view this wishlist")
		case domain.FailureNotFound:
			return apperrors.NotFound("wishlist", id.String())
		default:
			return apperrors.BadGateway("steam returned an unexpected response")
		}
	}

	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return err
	}
	return apperrors.Internal(err)
}

func cacheKey(id domain.SteamID, regions []domain.Region) string {
	codes := make([]string, len(regions))
	for i, r := range regions {
		codes[i] = r.Code
	}
	return id.String() + ":" + strings.Join(codes, ",")
}
