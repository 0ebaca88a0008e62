package schema

import (
	"testing"

	"github.com/funnelform/leadlens/internal/dataset"
)

func TestNormalizeSalesCoercion(t *testing.T) {
	tbl := &dataset.Table{
		Columns: []string{"revenue"},
		Rows:    [][]string{{"100"}, {"not-a-number"}, {"-12.5"}, {""}, {"NaN"}},
	}
	n := Normalize(tbl, Resolve(tbl))
	want := []float64{100, 0, -12.5, 0, 0}
	if len(n.Sales) != len(want) {
		t.Fatalf("sales len = %d, want %d", len(n.Sales), len(want))
	}
	for i, v := range want {
		if n.Sales[i] != v {
			t.Fatalf("sales[%d] = %v, want %v", i, n.Sales[i], v)
		}
	}
	if n.Converted != nil {
		t.Fatalf("converted should be unavailable, got %#v", n.Converted)
	}
}

func TestNormalizeTruthyVocabulary(t *testing.T) {
	cases := []struct {
		raw  string
		want int
	}{
		{"1", 1}, {"true", 1}, {"TRUE", 1}, {"Yes", 1}, {"y", 1},
		{"Won", 1}, {"purchase", 1}, {"Purchased", 1},
		{"0", 0}, {"no", 0}, {"false", 0}, {"", 0}, {"maybe", 0},
		{"yess", 0}, // exact match only, never substring
	}
	for _, tc := range cases {
		tbl := &dataset.Table{Columns: []string{"converted"}, Rows: [][]string{{tc.raw}}}
		n := Normalize(tbl, Resolve(tbl))
		if n.Converted == nil {
			t.Fatalf("%q: indicator unavailable", tc.raw)
		}
		if n.Converted[0] != tc.want {
			t.Fatalf("%q -> %d, want %d", tc.raw, n.Converted[0], tc.want)
		}
	}
}

func TestNormalizeUnresolvedFieldsStayNil(t *testing.T) {
	tbl := &dataset.Table{Columns: []string{"foo"}, Rows: [][]string{{"x"}}}
	n := Normalize(tbl, Resolve(tbl))
	if n.Sales != nil || n.Converted != nil {
		t.Fatalf("unresolved fields should be nil: %#v", n)
	}
}

func TestBuildView(t *testing.T) {
	tbl := &dataset.Table{
		Columns: []string{"id", "revenue", "won", "channel", "impressions", "clicks"},
		Rows: [][]string{
			{"1", "100", "yes", "A", "1000", "50"},
			{"2", "oops", "no", "", "2000", "bad"},
		},
	}
	s := Resolve(tbl)
	n := Normalize(tbl, s)
	v, updated := BuildView(n, s)

	if v.N != 2 {
		t.Fatalf("view rows = %d, want 2", v.N)
	}
	if !v.Has(FieldSales) || v.Sales[1] != 0 {
		t.Fatalf("sales = %#v", v.Sales)
	}
	if v.Impressions[1] != 2000 || v.Clicks[1] != 0 {
		t.Fatalf("numeric coercion: impressions=%#v clicks=%#v", v.Impressions, v.Clicks)
	}
	if v.Campaign[1] != UnknownCampaign {
		t.Fatalf("campaign[1] = %q, want %q", v.Campaign[1], UnknownCampaign)
	}
	if v.Converted == nil || v.Converted[0] != 1 || v.Converted[1] != 0 {
		t.Fatalf("converted = %#v", v.Converted)
	}
	if updated.Column(FieldConverted) != "converted" {
		t.Fatalf("updated schema converted = %q", updated.Column(FieldConverted))
	}
	// resolver's schema must stay untouched
	if s.Column(FieldConverted) != "won" {
		t.Fatalf("original schema mutated: %#v", s)
	}
}

func TestBuildViewWithoutTarget(t *testing.T) {
	tbl := &dataset.Table{
		Columns: []string{"campaign"},
		Rows:    [][]string{{"A"}, {"B"}},
	}
	s := Resolve(tbl)
	v, updated := BuildView(Normalize(tbl, s), s)
	if v.Converted != nil {
		t.Fatalf("converted should be absent, got %#v", v.Converted)
	}
	if updated.Resolved(FieldConverted) {
		t.Fatalf("schema should not claim converted: %#v", updated)
	}
}
