package schema

import (
	"math"
	"strconv"
	"strings"

	"github.com/funnelform/leadlens/internal/dataset"
)

// truthyTokens is the fixed vocabulary of strings treated as a positive
// conversion outcome. Matching is exact after lowercasing, never fuzzy.
var truthyTokens = map[string]bool{
	"1":         true,
	"true":      true,
	"yes":       true,
	"y":         true,
	"won":       true,
	"purchase":  true,
	"purchased": true,
}

// Normalized is the raw table plus the derived numeric sales column and the
// 0/1 conversion indicator. A nil slice means the field did not resolve and
// must be treated as unavailable, which is distinct from all-zero.
type Normalized struct {
	Table     *dataset.Table
	Sales     []float64
	Converted []int
}

// Normalize coerces the resolved sales column to float64 (unparseable cells
// become 0 so the row count never changes) and derives the conversion
// indicator from the truthy vocabulary. It never fails: unresolved fields
// simply stay unavailable.
func Normalize(t *dataset.Table, s Schema) *Normalized {
	n := &Normalized{Table: t}
	if col := s.Column(FieldSales); col != "" {
		n.Sales = CoerceNumeric(t.Column(col))
	}
	if col := s.Column(FieldConverted); col != "" {
		raw := t.Column(col)
		n.Converted = make([]int, len(raw))
		for i, v := range raw {
			if truthyTokens[strings.ToLower(strings.TrimSpace(v))] {
				n.Converted[i] = 1
			}
		}
	}
	return n
}

// CoerceNumeric parses each cell as a float, substituting 0 for anything
// unparseable. Sign is preserved for values that do parse.
func CoerceNumeric(cells []string) []float64 {
	out := make([]float64, len(cells))
	for i, v := range cells {
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			continue
		}
		out[i] = f
	}
	return out
}
