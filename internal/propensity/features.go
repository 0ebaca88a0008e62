package propensity

import "github.com/funnelform/leadlens/internal/schema"

// numericCandidates fixes the selection order for numeric features.
var numericCandidates = []schema.Field{
	schema.FieldSales,
	schema.FieldImpressions,
	schema.FieldClicks,
}

// encoder maps view rows onto the feature matrix: numeric features first,
// then the one-hot encoded campaign indicator block.
type encoder struct {
	numeric     []schema.Field
	useCampaign bool
	categories  []string
	catIndex    map[string]int
}

// newEncoder selects whichever candidate features the view actually has.
// Campaign categories are fitted later, from training rows only.
func newEncoder(v *schema.View) (*encoder, error) {
	e := &encoder{}
	for _, f := range numericCandidates {
		if v.Has(f) {
			e.numeric = append(e.numeric, f)
		}
	}
	e.useCampaign = v.Has(schema.FieldCampaign)
	if len(e.numeric) == 0 && !e.useCampaign {
		return nil, ErrNoFeatures
	}
	return e, nil
}

// features returns the conceptual feature list in encoding order.
func (e *encoder) features() []schema.Field {
	out := append([]schema.Field(nil), e.numeric...)
	if e.useCampaign {
		out = append(out, schema.FieldCampaign)
	}
	return out
}

// fitCategories learns the campaign vocabulary from the given rows. Levels
// not seen here encode as an all-zero block at prediction time.
func (e *encoder) fitCategories(v *schema.View, rows []int) {
	if !e.useCampaign {
		return
	}
	e.catIndex = map[string]int{}
	for _, r := range rows {
		c := v.Campaign[r]
		if _, ok := e.catIndex[c]; !ok {
			e.catIndex[c] = len(e.categories)
			e.categories = append(e.categories, c)
		}
	}
}

func (e *encoder) width() int {
	return len(e.numeric) + len(e.categories)
}

func (e *encoder) numericValue(v *schema.View, f schema.Field, row int) float64 {
	switch f {
	case schema.FieldSales:
		return v.Sales[row]
	case schema.FieldImpressions:
		return v.Impressions[row]
	case schema.FieldClicks:
		return v.Clicks[row]
	}
	return 0
}
