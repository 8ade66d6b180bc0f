package domain

// Sentinel display prices. A RegionalPrice always carries exactly one of
// these or a formatted amount, so the response shape is uniform even when a
// lookup degrades.
const (
	PriceFree        = "Free"
	PriceUnavailable = "Not Available"
	PriceError       = "Error"
)

// RegionalPrice is the price of one app in one store region.
type RegionalPrice struct {
	Region        string `json:"region"`
	RegionName    string `json:"regionName"`
	Currency      string `json:"currency"`
	Price         string `json:"price"`
	Discount      int    `json:"discount,omitempty"`
	OriginalPrice string `json:"originalPrice,omitempty"`
}

// NewRegionalPrice builds a discounted or plain price for a region. The
// discount fields are populated only when discount is positive; a zero
// discount never leaks an original price into the response.
func NewRegionalPrice(region Region, price string, discount int, originalPrice string) RegionalPrice {
	p := RegionalPrice{
		Region:     region.Code,
		RegionName: region.Name,
		Currency:   region.Currency,
		Price:      price,
	}
	if discount > 0 {
		p.Discount = discount
		p.OriginalPrice = originalPrice
	}
	return p
}

// FreePrice marks an app as free to play in a region.
func FreePrice(region Region) RegionalPrice {
	return NewRegionalPrice(region, PriceFree, 0, "")
}

// UnavailablePrice marks an app as not sold in a region.
func UnavailablePrice(region Region) RegionalPrice {
	return NewRegionalPrice(region, PriceUnavailable, 0, "")
}

// ErrorPrice marks a failed price lookup for a region.
func ErrorPrice(region Region) RegionalPrice {
	return NewRegionalPrice(region, PriceError, 0, "")
}
