package domain

// Region is a Steam store country used for price lookups. Code is the
// two-letter country code passed as the store's cc parameter.
type Region struct {
	Code     string `json:"code"`
	Name     string `json:"name"`
	Currency string `json:"currency"`
}

// Regions is the catalog of store countries the service knows how to price.
var Regions = []Region{
	{Code: "US", Name: "United States", Currency: "USD"},
	{Code: "EU", Name: "European Union", Currency: "EUR"},
	{Code: "RU", Name: "Russia", Currency: "RUB"},
	{Code: "UA", Name: "Ukraine", Currency: "UAH"},
}

// RegionByCode looks up a region by its country code. The lookup is
// case-sensitive; callers normalize codes to upper case at the boundary.
func RegionByCode(code string) (Region, bool) {
	for _, r := range Regions {
		if r.Code == code {
			return r, true
		}
	}
	return Region{}, false
}
