package pipeline

import (
	"fmt"
	"sort"
	"strings"

	"github.com/funnelform/leadlens/internal/schema"
)

// maxPredictionRows caps the prediction table in the rendered report. The
// full set still travels in the JSON outcome.
const maxPredictionRows = 20

// Markdown renders a compact report suitable for terminals or standalone docs.
func (o *Outcome) Markdown() string {
	var b strings.Builder
	b.WriteString("[DATASET SUMMARY]\n")
	if o.Source != "" {
		b.WriteString(fmt.Sprintf("File: %s\n", o.Source))
	}
	b.WriteString(fmt.Sprintf("Rows: %d\n", o.Rows))
	b.WriteString(fmt.Sprintf("Columns: %d\n\n", len(o.Profile)))

	b.WriteString("[SCHEMA MAPPING]\n")
	if len(o.Schema) == 0 {
		b.WriteString("- no canonical fields resolved\n")
	} else {
		fields := make([]string, 0, len(o.Schema))
		for f := range o.Schema {
			fields = append(fields, string(f))
		}
		sort.Strings(fields)
		for _, f := range fields {
			b.WriteString(fmt.Sprintf("- %s <- %s\n", f, o.Schema[schema.Field(f)]))
		}
	}

	b.WriteString("\n[ANALYTICS]\n")
	a := o.Analytics
	if a.TotalSales != nil {
		b.WriteString(fmt.Sprintf("Total sales: %.2f\n", *a.TotalSales))
	} else {
		b.WriteString("Total sales: N/A\n")
	}
	if a.ConversionRate != nil {
		b.WriteString(fmt.Sprintf("Conversion rate: %.1f%%\n", *a.ConversionRate*100))
	} else {
		b.WriteString("Conversion rate: N/A\n")
	}
	if len(a.TopCampaigns) > 0 {
		key := "sales"
		if a.SalesIsCount {
			key = "rows"
		}
		b.WriteString(fmt.Sprintf("Top campaigns (by %s):\n", key))
		for _, c := range a.TopCampaigns {
			b.WriteString(fmt.Sprintf("  • %s: %.2f (n=%d", c.Name, c.Sales, c.Count))
			if !a.ConversionIsCount {
				b.WriteString(fmt.Sprintf(", conv %.1f%%", c.Conversion*100))
			}
			b.WriteString(")\n")
		}
	}

	b.WriteString("\n[COLUMN PROFILE]\n")
	for _, c := range o.Profile {
		total := c.NonNull + c.Missing
		missPct := 0.0
		if total > 0 {
			missPct = float64(c.Missing) * 100.0 / float64(total)
		}
		b.WriteString(fmt.Sprintf("- %s: %s (non-null %d, missing %.1f%%)", c.Name, c.Kind, c.NonNull, missPct))
		switch c.Kind {
		case "numeric":
			b.WriteString(fmt.Sprintf(" — min %.4g, max %.4g, mean %.4g", c.Min, c.Max, c.Mean))
		case "categorical":
			if len(c.TopValues) > 0 {
				b.WriteString(" — top: ")
				for i, kv := range c.TopValues {
					if i > 0 {
						b.WriteString(", ")
					}
					b.WriteString(fmt.Sprintf("%s(%d)", kv.Value, kv.Count))
				}
				if c.Unique > len(c.TopValues) {
					b.WriteString(fmt.Sprintf("; unique=%d", c.Unique))
				}
			}
		}
		b.WriteString("\n")
	}

	b.WriteString("\n[MODEL]\n")
	b.WriteString(fmt.Sprintf("Algorithm: %s\n", o.Model.Algorithm))
	if o.Model.FailureReason != "" {
		b.WriteString(fmt.Sprintf("Not trained: %s\n", o.Model.FailureReason))
	} else {
		b.WriteString(fmt.Sprintf("Features: %s\n", strings.Join(o.Model.Features, ", ")))
		if m := o.Model.Metrics; m != nil {
			b.WriteString(fmt.Sprintf("Accuracy: %.3f\n", m.Accuracy))
			if m.ROCAUC != nil {
				b.WriteString(fmt.Sprintf("ROC-AUC: %.3f\n", *m.ROCAUC))
			} else {
				b.WriteString("ROC-AUC: N/A (single-class held-out split)\n")
			}
		}
	}

	if len(o.Predictions) > 0 {
		b.WriteString("\n[PREDICTIONS]\n")
		limit := len(o.Predictions)
		if limit > maxPredictionRows {
			limit = maxPredictionRows
		}
		for _, p := range o.Predictions[:limit] {
			var parts []string
			if p.CustomerID != "" {
				parts = append(parts, p.CustomerID)
			}
			if p.Campaign != "" {
				parts = append(parts, p.Campaign)
			}
			parts = append(parts, fmt.Sprintf("p=%.3f", p.Probability))
			b.WriteString("  • " + strings.Join(parts, " | ") + "\n")
		}
		if len(o.Predictions) > limit {
			b.WriteString(fmt.Sprintf("  … %d more rows\n", len(o.Predictions)-limit))
		}
	}

	b.WriteString("\n[INSIGHTS]\n")
	for _, ins := range o.Insights {
		b.WriteString("- " + ins + "\n")
	}
	return b.String()
}
