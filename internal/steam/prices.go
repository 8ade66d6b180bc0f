package steam

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strconv"

	"github.com/karilaa-dev/steam-gifts/internal/domain"
)

// RegionalPrice resolves the price of an app in one store region. It never
// fails: free apps, unlisted apps, and lookup errors each map to their
// sentinel display price.
func (c *Client) RegionalPrice(ctx context.Context, appID int, region domain.Region) domain.RegionalPrice {
	url := fmt.Sprintf("%s/api/appdetails?appids=%d&cc=%s&filters=price_overview",
		c.storeBase, appID, region.Code)

	var decoded appDetailsResponse
	if err := c.getJSON(ctx, url, &decoded); err != nil {
		c.logger.Warn("price lookup failed",
			slog.Int("app_id", appID),
			slog.String("region", region.Code),
			slog.String("error", err.Error()))
		return domain.ErrorPrice(region)
	}

	entry, ok := decoded[strconv.Itoa(appID)]
	if !ok || !entry.Success {
		return domain.UnavailablePrice(region)
	}

	po := entry.Data.PriceOverview
	if po == nil {
		// The store omits price_overview for free apps and for apps not
		// sold in the region.
		if entry.Data.IsFree {
			return domain.FreePrice(region)
		}
		return domain.UnavailablePrice(region)
	}
	if po.Final == 0 {
		return domain.FreePrice(region)
	}

	price := FormatPrice(po.Final, po.Currency)
	original := ""
	if po.DiscountPercent > 0 {
		original = FormatPrice(po.Initial, po.Currency)
	}
	return domain.NewRegionalPrice(region, price, po.DiscountPercent, original)
}

// FormatPrice renders an amount in minor currency units (cents, kopecks) as
// the display string the storefront uses for that currency.
func FormatPrice(amount int64, currency string) string {
	switch currency {
	case "USD":
		return fmt.Sprintf("$%.2f", float64(amount)/100)
	case "RUB":
		// Whole-unit currencies round to the nearest unit, never truncate.
		return fmt.Sprintf("%d₽", int64(math.Round(float64(amount)/100)))
	case "UAH":
		return fmt.Sprintf("%d₴", int64(math.Round(float64(amount)/100)))
	default:
		return fmt.Sprintf("%.2f %s", float64(amount)/100, currency)
	}
}
