// Package schema maps loosely-named spreadsheet columns onto the canonical
// semantic fields the rest of the pipeline understands.
package schema

import (
	"strings"

	"github.com/funnelform/leadlens/internal/dataset"
)

// Field is a canonical semantic role a spreadsheet column can play.
type Field string

const (
	FieldCustomerID  Field = "customer_id"
	FieldSales       Field = "sales"
	FieldConverted   Field = "converted"
	FieldCampaign    Field = "campaign"
	FieldImpressions Field = "impressions"
	FieldClicks      Field = "clicks"
)

// canonicalFields fixes the resolution order: if alias sets ever overlapped,
// the earlier field would claim the column.
var canonicalFields = []Field{
	FieldCustomerID,
	FieldSales,
	FieldConverted,
	FieldCampaign,
	FieldImpressions,
	FieldClicks,
}

// aliases is the fixed alias table consulted via case-insensitive exact match.
// Kept as data so it is trivially testable and extensible.
var aliases = map[Field][]string{
	FieldCustomerID:  {"customer_id", "id", "user_id"},
	FieldSales:       {"sales", "revenue", "amount", "order_value"},
	FieldConverted:   {"converted", "is_converted", "purchased", "won", "conversion"},
	FieldCampaign:    {"campaign", "campaign_name", "channel"},
	FieldImpressions: {"impressions", "views"},
	FieldClicks:      {"clicks", "click"},
}

// Schema maps canonical fields to the actual column names of one dataset.
// A field absent from the map means "not resolvable from this input".
type Schema map[Field]string

// Resolve scans the table's columns in order and binds each canonical field
// to the first column whose lowercased name matches one of its aliases.
// A table matching nothing yields an empty Schema; that is not an error.
func Resolve(t *dataset.Table) Schema {
	s := Schema{}
	for _, f := range canonicalFields {
		if col, ok := findColumn(t, aliases[f]); ok {
			s[f] = col
		}
	}
	return s
}

func findColumn(t *dataset.Table, names []string) (string, bool) {
	for _, col := range t.Columns {
		lc := strings.ToLower(col)
		for _, n := range names {
			if lc == n {
				return col, true
			}
		}
	}
	return "", false
}

// Resolved reports whether the field matched a column.
func (s Schema) Resolved(f Field) bool {
	_, ok := s[f]
	return ok
}

// Column returns the actual column name bound to the field, or "".
func (s Schema) Column(f Field) string {
	return s[f]
}

// Clone returns an independent copy so view building never mutates the
// resolver's result.
func (s Schema) Clone() Schema {
	out := make(Schema, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}
