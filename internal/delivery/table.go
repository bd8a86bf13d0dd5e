package delivery

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"gopkg.in/yaml.v3"
)

//go:embed fees.yaml
var defaultFees []byte

// Table maps a normalized city name to its delivery fee. It is built once and never mutated.
type Table struct {
	fees   map[string]decimal.Decimal
	cities []string
}

type tableFile struct {
	Cities []struct {
		Name string  `yaml:"name"`
		Fee  float64 `yaml:"fee"`
	} `yaml:"cities"`
}

// LoadTable parses a YAML document of the form `cities: [{name, fee}]`.
func LoadTable(r io.Reader) (*Table, error) {
	var f tableFile
	if err := yaml.NewDecoder(r).Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode delivery table: %w", err)
	}

	t := &Table{fees: make(map[string]decimal.Decimal, len(f.Cities))}
	for i, c := range f.Cities {
		key := normalize(c.Name)
		if key == "" {
			return nil, fmt.Errorf("delivery table entry %d: empty city name", i)
		}
		if math.IsNaN(c.Fee) || math.IsInf(c.Fee, 0) || c.Fee < 0 {
			return nil, fmt.Errorf("delivery table entry %q: invalid fee %v", c.Name, c.Fee)
		}
		if _, dup := t.fees[key]; dup {
			return nil, fmt.Errorf("delivery table entry %q: duplicate city", c.Name)
		}
		t.fees[key] = decimal.NewFromFloat(c.Fee).Round(2)
		t.cities = append(t.cities, displayName(strings.TrimSpace(c.Name)))
	}
	sort.Strings(t.cities)
	return t, nil
}

// LoadTableFile reads the table from path, or returns DefaultTable when path is empty.
func LoadTableFile(path string) (*Table, error) {
	if path == "" {
		return DefaultTable()
	}
	fh, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open delivery table: %w", err)
	}
	defer fh.Close()
	return LoadTable(fh)
}

// DefaultTable returns the table shipped with the binary.
func DefaultTable() (*Table, error) {
	return LoadTable(bytes.NewReader(defaultFees))
}

// FeeFor returns the fee for cityInput. Unknown, empty or whitespace input yields zero,
// which callers treat as "fee pending" rather than "free".
func (t *Table) FeeFor(cityInput string) decimal.Decimal {
	key := normalize(cityInput)
	if key == "" || t == nil {
		return decimal.Zero
	}
	if fee, ok := t.fees[key]; ok {
		return fee
	}
	return decimal.Zero
}

// Known reports whether cityInput matches a table entry.
func (t *Table) Known(cityInput string) bool {
	if t == nil {
		return false
	}
	_, ok := t.fees[normalize(cityInput)]
	return ok
}

// Cities lists the table's cities for the checkout suggestion list, sorted.
func (t *Table) Cities() []string {
	if t == nil {
		return nil
	}
	out := make([]string, len(t.cities))
	copy(out, t.cities)
	return out
}

func normalize(s string) string {
	return cases.Fold().String(strings.TrimSpace(s))
}

func displayName(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
