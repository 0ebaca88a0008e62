package analytics

import (
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/funnelform/leadlens/internal/dataset"
)

// ValueCount is one categorical value with its frequency.
type ValueCount struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// ColumnProfile captures inferred type and per-column statistics, shown
// alongside the core aggregates so users can sanity-check an upload.
type ColumnProfile struct {
	Name    string  `json:"name"`
	Kind    string  `json:"kind"` // numeric|datetime|categorical|text|unknown
	NonNull int     `json:"non_null"`
	Missing int     `json:"missing"`
	Unique  int     `json:"unique,omitempty"`
	// Numeric stats
	Min  float64 `json:"min,omitempty"`
	Max  float64 `json:"max,omitempty"`
	Mean float64 `json:"mean,omitempty"`
	// Categorical top values
	TopValues []ValueCount `json:"top_values,omitempty"`
}

const maxTopValues = 8

// Profile infers a kind and summary statistics for every column. The kind is
// decided by the predominant parsed type across non-empty cells.
func Profile(t *dataset.Table) []ColumnProfile {
	out := make([]ColumnProfile, 0, len(t.Columns))
	for idx, name := range t.Columns {
		p := profileColumn(t, idx)
		p.Name = name
		out = append(out, p)
	}
	return out
}

func profileColumn(t *dataset.Table, idx int) ColumnProfile {
	var p ColumnProfile
	var numCnt, dtCnt, txtCnt int
	var sum float64
	minV := math.Inf(1)
	maxV := math.Inf(-1)
	cats := map[string]int{}
	for row := 0; row < t.NumRows(); row++ {
		v := strings.TrimSpace(t.Cell(row, idx))
		if v == "" {
			p.Missing++
			continue
		}
		p.NonNull++
		if x, err := strconv.ParseFloat(v, 64); err == nil && !math.IsNaN(x) && !math.IsInf(x, 0) {
			numCnt++
			sum += x
			if x < minV {
				minV = x
			}
			if x > maxV {
				maxV = x
			}
			continue
		}
		if parseTimeMaybe(v) {
			dtCnt++
			continue
		}
		txtCnt++
		if len(v) <= 64 && len(cats) <= 10000 { // short tokens count as categories
			cats[v]++
		}
	}

	switch {
	case numCnt > 0 && numCnt >= dtCnt && numCnt >= txtCnt:
		p.Kind = "numeric"
		p.Min = minV
		p.Max = maxV
		p.Mean = sum / float64(numCnt)
	case dtCnt > 0 && dtCnt >= txtCnt:
		p.Kind = "datetime"
	case len(cats) > 0:
		p.Kind = "categorical"
		p.Unique = len(cats)
		tops := make([]ValueCount, 0, len(cats))
		for k, c := range cats {
			tops = append(tops, ValueCount{Value: k, Count: c})
		}
		sort.Slice(tops, func(i, j int) bool {
			if tops[i].Count == tops[j].Count {
				return tops[i].Value < tops[j].Value
			}
			return tops[i].Count > tops[j].Count
		})
		if len(tops) > maxTopValues {
			tops = tops[:maxTopValues]
		}
		p.TopValues = tops
	case txtCnt > 0:
		p.Kind = "text"
	default:
		p.Kind = "unknown"
	}
	return p
}

var timeLayouts = []string{
	time.RFC3339, "2006-01-02", "2006/01/02", "02/01/2006", "01/02/2006",
	"2006-01-02 15:04", "2006-01-02 15:04:05",
}

func parseTimeMaybe(s string) bool {
	for _, l := range timeLayouts {
		if _, err := time.Parse(l, s); err == nil {
			return true
		}
	}
	return false
}
