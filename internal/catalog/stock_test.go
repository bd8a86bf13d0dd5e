package catalog

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveStock_TakesMaximum(t *testing.T) {
	raw := map[string]any{
		"stock":          nil,
		"availableStock": 3,
		"Stock Initial":  7,
	}
	assert.Equal(t, 7, ResolveStock(raw))
}

func TestResolveStock_AllAbsent(t *testing.T) {
	assert.Equal(t, 0, ResolveStock(map[string]any{"name": "x"}))
	assert.Equal(t, 0, ResolveStock(nil))
}

func TestResolveStock_Coercion(t *testing.T) {
	tests := []struct {
		name string
		raw  map[string]any
		want int
	}{
		{"numeric string", map[string]any{"disponible": " 12 "}, 12},
		{"fraction truncated", map[string]any{"stock": 4.9}, 4},
		{"json number", map[string]any{"Disponible": json.Number("9")}, 9},
		{"negative clamps", map[string]any{"stock": -5}, 0},
		{"garbage string", map[string]any{"stock": "beaucoup"}, 0},
		{"bool ignored", map[string]any{"stock": true}, 0},
		{"nan ignored", map[string]any{"stock": math.NaN(), "availableStock": 2}, 2},
		{"int64", map[string]any{"availableStock": int64(15)}, 15},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolveStock(tt.raw))
		})
	}
}
