package catalog

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/fekuna/omnipos-storefront-service/internal/model"
	"github.com/shopspring/decimal"
)

// DecodeProduct turns a raw catalog document into a Product.
// Stock is always resolved through ResolveStock; a missing name or an unusable
// salePrice makes the record malformed.
func DecodeProduct(rec model.RawRecord) (model.Product, error) {
	if strings.TrimSpace(rec.ID) == "" {
		return model.Product{}, fmt.Errorf("%w: missing id", ErrMalformedRecord)
	}

	name := stringField(rec.Fields, "name")
	if strings.TrimSpace(name) == "" {
		return model.Product{}, fmt.Errorf("%w: product %s has no name", ErrMalformedRecord, rec.ID)
	}

	price, err := priceField(rec.Fields["salePrice"])
	if err != nil {
		return model.Product{}, fmt.Errorf("%w: product %s: %v", ErrMalformedRecord, rec.ID, err)
	}

	return model.Product{
		ID:           rec.ID,
		Name:         name,
		Description:  stringField(rec.Fields, "description"),
		Image:        stringField(rec.Fields, "image"),
		SalePrice:    price,
		Stock:        ResolveStock(rec.Fields),
		Category:     stringField(rec.Fields, "category"),
		IsOrderBased: boolField(rec.Fields["isOrderBased"]),
	}, nil
}

func stringField(fields map[string]any, key string) string {
	s, _ := fields[key].(string)
	return s
}

func boolField(v any) bool {
	switch x := v.(type) {
	case bool:
		return x
	case string:
		b, err := strconv.ParseBool(strings.TrimSpace(x))
		return err == nil && b
	default:
		return false
	}
}

func priceField(v any) (decimal.Decimal, error) {
	var (
		d   decimal.Decimal
		err error
	)
	switch x := v.(type) {
	case nil:
		return decimal.Zero, fmt.Errorf("salePrice is missing")
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return decimal.Zero, fmt.Errorf("salePrice is not a finite number")
		}
		d = decimal.NewFromFloat(x)
	case int:
		d = decimal.NewFromInt(int64(x))
	case int64:
		d = decimal.NewFromInt(x)
	case json.Number:
		d, err = decimal.NewFromString(x.String())
	case string:
		d, err = decimal.NewFromString(strings.TrimSpace(x))
	default:
		return decimal.Zero, fmt.Errorf("salePrice has unsupported type %T", v)
	}
	if err != nil {
		return decimal.Zero, fmt.Errorf("salePrice: %w", err)
	}
	if d.IsNegative() {
		return decimal.Zero, fmt.Errorf("salePrice %s is negative", d.String())
	}
	return d, nil
}
