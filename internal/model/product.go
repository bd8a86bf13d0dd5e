package model

import "github.com/shopspring/decimal"

// PlaceholderImage is rendered for products stored without an image.
const PlaceholderImage = "data:image/svg+xml;charset=UTF-8,%3Csvg%20xmlns%3D%22http%3A%2F%2Fwww.w3.org%2F2000%2Fsvg%22%20width%3D%22400%22%20height%3D%22400%22%20viewBox%3D%220%200%20400%20400%22%3E%3Crect%20width%3D%22400%22%20height%3D%22400%22%20fill%3D%22%23f3f4f6%22%2F%3E%3Ctext%20x%3D%2250%25%22%20y%3D%2250%25%22%20font-family%3D%22Arial%2C%20sans-serif%22%20font-size%3D%2220%22%20fill%3D%22%239ca3af%22%20dominant-baseline%3D%22middle%22%20text-anchor%3D%22middle%22%3EImage%20non%20disponible%3C%2Ftext%3E%3C%2Fsvg%3E"

// Product is a sellable catalog entry after raw-record resolution.
type Product struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Description  string          `json:"description,omitempty"`
	Image        string          `json:"image,omitempty"`
	SalePrice    decimal.Decimal `json:"sale_price"`
	Stock        int             `json:"stock"`
	Category     string          `json:"category,omitempty"`
	IsOrderBased bool            `json:"is_order_based"`
}

func (p Product) OutOfStock() bool {
	return p.Stock <= 0
}

// ImageOrPlaceholder returns the product image, falling back to PlaceholderImage.
func (p Product) ImageOrPlaceholder() string {
	if p.Image == "" {
		return PlaceholderImage
	}
	return p.Image
}

// RawRecord is a catalog document as stored upstream: an id and an untyped field mapping.
type RawRecord struct {
	ID     string
	Fields map[string]any
}
