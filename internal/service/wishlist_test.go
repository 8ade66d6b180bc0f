package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/karilaa-dev/steam-gifts/internal/cache"
	"github.com/karilaa-dev/steam-gifts/internal/domain"
	apperrors "github.com/karilaa-dev/steam-gifts/pkg/errors"
)

const testSteamID = "76561197960265731"

type mockSteamAPI struct {
	mock.Mock
}

func (m *mockSteamAPI) FetchWishlist(ctx context.Context, id domain.SteamID) ([]domain.WishlistEntry, error) {
	args := m.Called(ctx, id)
	if v := args.Get(0); v != nil {
		return v.([]domain.WishlistEntry), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockSteamAPI) GameDetails(ctx context.Context, appID int) domain.GameDetail {
	args := m.Called(ctx, appID)
	return args.Get(0).(domain.GameDetail)
}

func (m *mockSteamAPI) RegionalPrice(ctx context.Context, appID int, region domain.Region) domain.RegionalPrice {
	args := m.Called(ctx, appID, region)
	return args.Get(0).(domain.RegionalPrice)
}

func (m *mockSteamAPI) PlayerSummary(ctx context.Context, id domain.SteamID) domain.PlayerProfile {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.PlayerProfile)
}

func (m *mockSteamAPI) FriendList(ctx context.Context, id domain.SteamID) ([]domain.Friend, error) {
	args := m.Called(ctx, id)
	if v := args.Get(0); v != nil {
		return v.([]domain.Friend), args.Error(1)
	}
	return nil, args.Error(1)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testRegions(codes ...string) []domain.Region {
	regions := make([]domain.Region, 0, len(codes))
	for _, c := range codes {
		r, ok := domain.RegionByCode(c)
		if !ok {
			panic("unknown test region " + c)
		}
		regions = append(regions, r)
	}
	return regions
}

func newTestService(api SteamAPI) *Wishlist {
	return NewWishlist(api, cache.NewMemory(), testLogger(), testRegions("US", "EU", "RU"), 10, 5*time.Minute)
}

func TestGetEnrichesWishlist(t *testing.T) {
	us, _ := domain.RegionByCode("US")
	ru, _ := domain.RegionByCode("RU")

	api := new(mockSteamAPI)
	api.On("FetchWishlist", mock.Anything, domain.SteamID(testSteamID)).
		Return([]domain.WishlistEntry{{AppID: 620, Priority: 0}}, nil)
	api.On("PlayerSummary", mock.Anything, domain.SteamID(testSteamID)).
		Return(domain.PlayerProfile{SteamID: testSteamID, PersonaName: "gaben"})
	api.On("GameDetails", mock.Anything, 620).
		Return(domain.GameDetail{AppID: 620, Name: "Portal 2", Platforms: domain.Platforms{Windows: true}})
	api.On("RegionalPrice", mock.Anything, 620, us).
		Return(domain.NewRegionalPrice(us, "$9.99", 0, ""))
	api.On("RegionalPrice", mock.Anything, 620, ru).
		Return(domain.NewRegionalPrice(ru, "999₽", 0, ""))

	svc := newTestService(api)

	result, err := svc.Get(context.Background(), testSteamID, []string{"US", "RU"})
	require.NoError(t, err)

	assert.Equal(t, domain.SteamID(testSteamID), result.OwnerSteamID)
	assert.Equal(t, "gaben", result.User.PersonaName)
	assert.Equal(t, 1, result.TotalCount)
	require.Len(t, result.Items, 1)

	item := result.Items[0]
	assert.Equal(t, 620, item.AppID)
	assert.Equal(t, "Portal 2", item.Name)
	assert.Equal(t, 0, item.Priority)

	// One price per requested region, in request order.
	require.Len(t, item.RegionalPrices, 2)
	assert.Equal(t, "US", item.RegionalPrices[0].Region)
	assert.Equal(t, "$9.99", item.RegionalPrices[0].Price)
	assert.Equal(t, "RU", item.RegionalPrices[1].Region)
	assert.Equal(t, "999₽", item.RegionalPrices[1].Price)

	api.AssertExpectations(t)
}

func TestGetRejectsInvalidSteamID(t *testing.T) {
	api := new(mockSteamAPI)
	svc := newTestService(api)

	_, err := svc.Get(context.Background(), "not-a-steam-id", nil)
	assert.Equal(t, http.StatusBadRequest, apperrors.HTTPStatus(err))

	api.AssertNotCalled(t, "FetchWishlist", mock.Anything, mock.Anything)
}

func TestGetRejectsUnknownRegion(t *testing.T) {
	api := new(mockSteamAPI)
	svc := newTestService(api)

	_, err := svc.Get(context.Background(), testSteamID, []string{"US", "XX"})
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, apperrors.HTTPStatus(err))
	assert.Contains(t, err.Error(), "XX")
}

func TestGetDefaultsRegions(t *testing.T) {
	api := new(mockSteamAPI)
	api.On("FetchWishlist", mock.Anything, mock.Anything).
		Return([]domain.WishlistEntry{{AppID: 620, Priority: 0}}, nil)
	api.On("PlayerSummary", mock.Anything, mock.Anything).
		Return(domain.PlayerProfile{SteamID: testSteamID})
	api.On("GameDetails", mock.Anything, 620).
		Return(domain.GameDetail{AppID: 620, Name: "Portal 2"})
	api.On("RegionalPrice", mock.Anything, 620, mock.Anything).
		Return(domain.RegionalPrice{Region: "US", Price: "$9.99"})

	svc := newTestService(api)

	result, err := svc.Get(context.Background(), testSteamID, nil)
	require.NoError(t, err)

	// Configured defaults are US, EU and RU.
	require.Len(t, result.Items[0].RegionalPrices, 3)
}

func TestGetFailureMapping(t *testing.T) {
	tests := []struct {
		name       string
		kind       domain.FailureKind
		wantStatus int
	}{
		{name: "private wishlist", kind: domain.FailurePrivate, wantStatus: http.StatusForbidden},
		{name: "login required", kind: domain.FailureLoginRequired, wantStatus: http.StatusUnauthorized},
		{name: "no wishlist", kind: domain.FailureNotFound, wantStatus: http.StatusNotFound},
		{name: "upstream outage", kind: domain.FailureUpstream, wantStatus: http.StatusBadGateway},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := new(mockSteamAPI)
			api.On("FetchWishlist", mock.Anything, mock.Anything).
				Return(nil, domain.NewWishlistError(tt.kind, 0, nil))

			svc := newTestService(api)

			_, err := svc.Get(context.Background(), testSteamID, []string{"US"})
			require.Error(t, err)
			assert.Equal(t, tt.wantStatus, apperrors.HTTPStatus(err))

			// A failed fetch must not trigger any enrichment work.
			api.AssertNotCalled(t, "GameDetails", mock.Anything, mock.Anything)
			api.AssertNotCalled(t, "RegionalPrice", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestGetDeadlineBecomesGatewayTimeout(t *testing.T) {
	api := new(mockSteamAPI)
	api.On("FetchWishlist", mock.Anything, mock.Anything).
		Return(nil, context.DeadlineExceeded)

	svc := newTestService(api)

	_, err := svc.Get(context.Background(), testSteamID, []string{"US"})
	require.Error(t, err)
	assert.Equal(t, http.StatusGatewayTimeout, apperrors.HTTPStatus(err))
}

func TestGetServesFromCache(t *testing.T) {
	api := new(mockSteamAPI)
	api.On("FetchWishlist", mock.Anything, mock.Anything).
		Return([]domain.WishlistEntry{{AppID: 620, Priority: 0}}, nil).Once()
	api.On("PlayerSummary", mock.Anything, mock.Anything).
		Return(domain.PlayerProfile{SteamID: testSteamID})
	api.On("GameDetails", mock.Anything, 620).
		Return(domain.GameDetail{AppID: 620, Name: "Portal 2"})
	api.On("RegionalPrice", mock.Anything, 620, mock.Anything).
		Return(domain.RegionalPrice{Region: "US", Price: "$9.99"})

	svc := newTestService(api)

	first, err := svc.Get(context.Background(), testSteamID, []string{"US"})
	require.NoError(t, err)

	second, err := svc.Get(context.Background(), testSteamID, []string{"US"})
	require.NoError(t, err)
	assert.Equal(t, first, second)

	api.AssertNumberOfCalls(t, "FetchWishlist", 1)
}

func TestGetCoalescesConcurrentRequests(t *testing.T) {
	gate := make(chan struct{})

	api := new(mockSteamAPI)
	api.On("FetchWishlist", mock.Anything, mock.Anything).
		Run(func(mock.Arguments) { <-gate }).
		Return([]domain.WishlistEntry{}, nil)
	api.On("PlayerSummary", mock.Anything, mock.Anything).
		Return(domain.PlayerProfile{SteamID: testSteamID})

	svc := newTestService(api)

	const callers = 5
	var wg sync.WaitGroup
	wg.Add(callers)
	for i := 0; i < callers; i++ {
		go func() {
			defer wg.Done()
			_, err := svc.Get(context.Background(), testSteamID, []string{"US"})
			assert.NoError(t, err)
		}()
	}

	// Give every caller time to join the in-flight fetch before it finishes.
	time.Sleep(50 * time.Millisecond)
	close(gate)
	wg.Wait()

	api.AssertNumberOfCalls(t, "FetchWishlist", 1)
}

func TestGetSurvivesCallerCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	var fetchCtx context.Context
	api := new(mockSteamAPI)
	api.On("FetchWishlist", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			fetchCtx = args.Get(0).(context.Context)
			// The caller gives up while the fetch is still in flight. The
			// shared pipeline must keep going for anyone coalesced onto it.
			cancel()
		}).
		Return([]domain.WishlistEntry{{AppID: 620, Priority: 0}}, nil)
	api.On("PlayerSummary", mock.Anything, mock.Anything).
		Return(domain.PlayerProfile{SteamID: testSteamID})
	api.On("GameDetails", mock.Anything, 620).
		Return(domain.GameDetail{AppID: 620, Name: "Portal 2"})
	api.On("RegionalPrice", mock.Anything, 620, mock.Anything).
		Return(domain.RegionalPrice{Region: "US", Price: "$9.99"})

	svc := newTestService(api)

	result, err := svc.Get(ctx, testSteamID, []string{"US"})
	require.NoError(t, err)
	require.Len(t, result.Items, 1)
	assert.Equal(t, "Portal 2", result.Items[0].Name)

	require.NotNil(t, fetchCtx)
	assert.NoError(t, fetchCtx.Err())
}

func TestFriendsMapsUpstreamFailure(t *testing.T) {
	api := new(mockSteamAPI)
	api.On("FriendList", mock.Anything, mock.Anything).
		Return(nil, errors.New("connection refused"))

	svc := newTestService(api)

	_, err := svc.Friends(context.Background(), testSteamID)
	require.Error(t, err)
	assert.Equal(t, http.StatusBadGateway, apperrors.HTTPStatus(err))
}

func TestRegionsCatalog(t *testing.T) {
	svc := newTestService(new(mockSteamAPI))

	regions := svc.Regions()
	require.NotEmpty(t, regions)

	codes := make([]string, len(regions))
	for i, r := range regions {
		codes[i] = r.Code
	}
	assert.Contains(t, codes, "US")
	assert.Contains(t, codes, "RU")
	assert.Contains(t, codes, "UA")
}
