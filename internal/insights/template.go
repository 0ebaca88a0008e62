package insights

import (
	"context"
	"fmt"
	"strconv"

	"github.com/funnelform/leadlens/internal/analytics"
)

// Template is the rule-based generator. It is deterministic, needs no
// credentials, and never fails, so reports work out of the box.
type Template struct{}

func (Template) Generate(_ context.Context, r Report) ([]string, error) {
	var out []string
	a := r.Analytics

	out = append(out, fmt.Sprintf(
		"Overall sales performance shows total revenue of %s with a conversion rate of %s.",
		formatAmount(totalSales(a)), formatPercent(conversionRate(a))))

	if a != nil && len(a.TopCampaigns) > 0 {
		out = append(out, fmt.Sprintf(
			"'%s' appears to be a top-performing campaign. Consider allocating more budget and replicating its creatives and targeting in similar audiences.",
			a.TopCampaigns[0].Name))
	}

	out = append(out,
		"Focus on improving the upper funnel: increase CTR by refining ad copy and creative tests; then optimize landing pages for speed and clarity to lift conversions.")

	if m := r.Model.Metrics; m != nil {
		out = append(out, fmt.Sprintf(
			"Predictive model reached accuracy of %s; use probabilities to prioritize high-propensity leads.",
			strconv.FormatFloat(m.Accuracy, 'f', 2, 64)))
		if m.ROCAUC != nil {
			out = append(out, fmt.Sprintf(
				"ROC-AUC of %s indicates reasonable separability; consider feature engineering with engagement signals.",
				strconv.FormatFloat(*m.ROCAUC, 'f', 2, 64)))
		}
	}
	return out, nil
}

func totalSales(a *analytics.Result) *float64 {
	if a == nil {
		return nil
	}
	return a.TotalSales
}

func conversionRate(a *analytics.Result) *float64 {
	if a == nil {
		return nil
	}
	return a.ConversionRate
}
