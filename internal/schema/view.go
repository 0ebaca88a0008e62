package schema

import "strings"

// UnknownCampaign fills campaign cells that resolved as a column but are
// empty for individual rows.
const UnknownCampaign = "Unknown"

// View is the canonical-column-only projection of a normalized table, the
// modeling input. Nil slices mean the corresponding field did not resolve.
type View struct {
	N           int
	CustomerID  []string
	Sales       []float64
	Impressions []float64
	Clicks      []float64
	Campaign    []string
	Converted   []int
}

// Has reports whether the canonical field is present in the view.
func (v *View) Has(f Field) bool {
	switch f {
	case FieldCustomerID:
		return v.CustomerID != nil
	case FieldSales:
		return v.Sales != nil
	case FieldImpressions:
		return v.Impressions != nil
	case FieldClicks:
		return v.Clicks != nil
	case FieldCampaign:
		return v.Campaign != nil
	case FieldConverted:
		return v.Converted != nil
	}
	return false
}

// BuildView projects each resolved canonical field into a like-named column.
// Impressions and clicks are coerced with the same unparseable-becomes-zero
// policy as sales, so modeling never sees non-numeric input. The returned
// Schema is a copy with `converted` bound to the derived indicator column
// when one exists.
func BuildView(n *Normalized, s Schema) (*View, Schema) {
	t := n.Table
	v := &View{N: t.NumRows()}
	out := s.Clone()

	if col := s.Column(FieldCustomerID); col != "" {
		v.CustomerID = t.Column(col)
	}
	if s.Resolved(FieldSales) {
		v.Sales = n.Sales
	}
	if col := s.Column(FieldImpressions); col != "" {
		v.Impressions = CoerceNumeric(t.Column(col))
	}
	if col := s.Column(FieldClicks); col != "" {
		v.Clicks = CoerceNumeric(t.Column(col))
	}
	if col := s.Column(FieldCampaign); col != "" {
		raw := t.Column(col)
		v.Campaign = make([]string, len(raw))
		for i, c := range raw {
			c = strings.TrimSpace(c)
			if c == "" {
				c = UnknownCampaign
			}
			v.Campaign[i] = c
		}
	}
	if n.Converted != nil {
		v.Converted = n.Converted
		out[FieldConverted] = string(FieldConverted)
	}
	return v, out
}
