package catalog

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// StockFields lists every key an ingestion batch has been seen writing the availability count under.
var StockFields = []string{
	"stock",
	"availableStock",
	"Stock Initial",
	"disponible",
	"Disponible",
}

// ResolveStock returns the maximum availability across StockFields.
// Absent, non-numeric and negative values count as 0, so the result is never negative.
func ResolveStock(raw map[string]any) int {
	best := 0
	for _, key := range StockFields {
		if n := coerceCount(raw[key]); n > best {
			best = n
		}
	}
	return best
}

func coerceCount(v any) int {
	var f float64
	switch x := v.(type) {
	case nil:
		return 0
	case int:
		f = float64(x)
	case int32:
		f = float64(x)
	case int64:
		f = float64(x)
	case float32:
		f = float64(x)
	case float64:
		f = x
	case json.Number:
		parsed, err := x.Float64()
		if err != nil {
			return 0
		}
		f = parsed
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil {
			return 0
		}
		f = parsed
	default:
		return 0
	}

	if math.IsNaN(f) || math.IsInf(f, 0) || f <= 0 {
		return 0
	}
	if f > math.MaxInt32 {
		return math.MaxInt32
	}
	return int(f)
}
