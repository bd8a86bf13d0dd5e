package dto

type ProductFilters struct {
	Channel     string // general, pack, order-only (route aliases accepted)
	SearchQuery string // case-insensitive substring on the product name
}
