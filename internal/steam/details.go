package steam

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/karilaa-dev/steam-gifts/internal/domain"
)

type appDetailsResponse map[string]struct {
	Success bool `json:"success"`
	Data    struct {
		Name        string `json:"name"`
		HeaderImage string `json:"header_image"`
		Platforms   struct {
			Windows bool `json:"windows"`
			Mac     bool `json:"mac"`
			Linux   bool `json:"linux"`
		} `json:"platforms"`
		PriceOverview *priceOverview `json:"price_overview"`
		IsFree        bool           `json:"is_free"`
	} `json:"data"`
}

type priceOverview struct {
	Currency        string `json:"currency"`
	Initial         int64  `json:"initial"`
	Final           int64  `json:"final"`
	DiscountPercent int    `json:"discount_percent"`
}

// GameDetails resolves display metadata for an app. It never fails: when the
// store has nothing usable the placeholder detail is returned instead.
// Successful lookups are memoized for the life of the process.
func (c *Client) GameDetails(ctx context.Context, appID int) domain.GameDetail {
	c.detailMu.RLock()
	d, ok := c.detailMemo[appID]
	c.detailMu.RUnlock()
	if ok {
		return d
	}

	d, err := c.fetchDetails(ctx, appID)
	if err != nil {
		c.logger.Warn("game details lookup failed, using placeholder",
			slog.Int("app_id", appID),
			slog.String("error", err.Error()))
		return domain.PlaceholderDetail(appID)
	}

	c.detailMu.Lock()
	c.detailMemo[appID] = d
	c.detailMu.Unlock()
	return d
}

func (c *Client) fetchDetails(ctx context.Context, appID int) (domain.GameDetail, error) {
	url := fmt.Sprintf("%s/api/appdetails?appids=%d&l=english", c.storeBase, appID)

	var decoded appDetailsResponse
	if err := c.getJSON(ctx, url, &decoded); err != nil {
		return domain.GameDetail{}, err
	}

	entry, ok := decoded[strconv.Itoa(appID)]
	if !ok || !entry.Success || entry.Data.Name == "" {
		return domain.GameDetail{}, fmt.Errorf("no details for app %d", appID)
	}

	return domain.GameDetail{
		AppID:       appID,
		Name:        entry.Data.Name,
		HeaderImage: entry.Data.HeaderImage,
		Platforms: domain.Platforms{
			Windows: entry.Data.Platforms.Windows,
			Mac:     entry.Data.Platforms.Mac,
			Linux:   entry.Data.Platforms.Linux,
		},
	}, nil
}
