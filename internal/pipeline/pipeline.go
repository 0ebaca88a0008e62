// Package pipeline runs the full analysis over one ingested table: schema
// resolution, normalization, aggregate analytics, optional propensity
// modeling, and insight generation. Each run is request-scoped and
// single-threaded; nothing is shared or persisted between runs.
package pipeline

import (
	"context"

	"github.com/funnelform/leadlens/internal/analytics"
	"github.com/funnelform/leadlens/internal/dataset"
	"github.com/funnelform/leadlens/internal/insights"
	"github.com/funnelform/leadlens/internal/propensity"
	"github.com/funnelform/leadlens/internal/schema"
)

// Options tunes one run. The zero value is a sensible default configuration.
type Options struct {
	Source       string // display name of the input, e.g. the uploaded filename
	TopCampaigns int
	SkipModel    bool
	Training     propensity.Options
	Generator    insights.Generator // nil means template insights
}

// ModelInfo reports the modeling outcome. Training failures are data
// conditions, not errors: Metrics stays nil and FailureReason says why.
type ModelInfo struct {
	Algorithm     string              `json:"algorithm"`
	Features      []string            `json:"features,omitempty"`
	FeatureCount  int                 `json:"feature_count,omitempty"`
	Metrics       *propensity.Metrics `json:"metrics,omitempty"`
	FailureReason string              `json:"failure_reason,omitempty"`
}

// Prediction is one scored row: the processed-view columns plus the
// probability. Fields are present only when the corresponding columns
// resolved; row order and count match the input.
type Prediction struct {
	CustomerID  string   `json:"customer_id,omitempty"`
	Campaign    string   `json:"campaign,omitempty"`
	Sales       *float64 `json:"sales,omitempty"`
	Impressions *float64 `json:"impressions,omitempty"`
	Clicks      *float64 `json:"clicks,omitempty"`
	Converted   *int     `json:"converted,omitempty"`
	Probability float64  `json:"prob_conversion"`
}

// Outcome is everything one run produced. Insights are always non-empty.
type Outcome struct {
	Source      string                    `json:"source,omitempty"`
	Rows        int                       `json:"rows"`
	Schema      schema.Schema             `json:"schema"`
	Analytics   *analytics.Result         `json:"analytics"`
	Profile     []analytics.ColumnProfile `json:"profile"`
	Model       ModelInfo                 `json:"model"`
	Predictions []Prediction              `json:"predictions,omitempty"`
	Insights    []string                  `json:"insights"`
}

// Run executes the pipeline over the table. Ingestion problems are the
// caller's concern; from here on everything degrades instead of failing, so
// Run always returns a usable Outcome.
func Run(ctx context.Context, t *dataset.Table, opts Options) *Outcome {
	resolved := schema.Resolve(t)
	normalized := schema.Normalize(t, resolved)
	view, viewSchema := schema.BuildView(normalized, resolved)

	out := &Outcome{
		Source:    opts.Source,
		Rows:      t.NumRows(),
		Schema:    viewSchema,
		Analytics: analytics.Aggregate(normalized, resolved, opts.TopCampaigns),
		Profile:   analytics.Profile(t),
		Model:     ModelInfo{Algorithm: propensity.Algorithm},
	}

	if !opts.SkipModel {
		model, features, metrics, err := propensity.Train(view, opts.Training)
		if err != nil {
			out.Model.FailureReason = err.Error()
		} else {
			out.Model.Features = fieldNames(features)
			out.Model.FeatureCount = len(features)
			out.Model.Metrics = &metrics
			if probs, err := model.Predict(view); err == nil {
				out.Predictions = buildPredictions(view, probs)
			}
		}
	} else {
		out.Model.FailureReason = "modeling disabled"
	}

	out.Insights = insights.GenerateWithFallback(ctx, opts.Generator, insights.Report{
		Analytics: out.Analytics,
		Model: insights.ModelSummary{
			Algorithm:     out.Model.Algorithm,
			Features:      out.Model.Features,
			Metrics:       out.Model.Metrics,
			FailureReason: out.Model.FailureReason,
		},
	})
	return out
}

func fieldNames(fields []schema.Field) []string {
	out := make([]string, len(fields))
	for i, f := range fields {
		out[i] = string(f)
	}
	return out
}

func buildPredictions(v *schema.View, probs []float64) []Prediction {
	out := make([]Prediction, len(probs))
	for i, p := range probs {
		pred := Prediction{Probability: p}
		if v.CustomerID != nil {
			pred.CustomerID = v.CustomerID[i]
		}
		if v.Campaign != nil {
			pred.Campaign = v.Campaign[i]
		}
		if v.Sales != nil {
			s := v.Sales[i]
			pred.Sales = &s
		}
		if v.Impressions != nil {
			n := v.Impressions[i]
			pred.Impressions = &n
		}
		if v.Clicks != nil {
			n := v.Clicks[i]
			pred.Clicks = &n
		}
		if v.Converted != nil {
			c := v.Converted[i]
			pred.Converted = &c
		}
		out[i] = pred
	}
	return out
}
