package model

import "github.com/shopspring/decimal"

type CartItem struct {
	Product
	Quantity int `json:"quantity"`
}

// LineTotal is SalePrice × Quantity.
func (i CartItem) LineTotal() decimal.Decimal {
	return i.SalePrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// CartView is the read model returned to views: items in display order plus derived totals.
type CartView struct {
	Items []CartItem      `json:"items"`
	Total decimal.Decimal `json:"total"`
	Count int             `json:"count"`
}
