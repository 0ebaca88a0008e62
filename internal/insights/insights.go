// Package insights turns the computed analytics and model evaluation into a
// short list of narrative recommendations. Generators backed by hosted models
// are optional; a deterministic template generator always works and is the
// fallback whenever a provider call fails.
package insights

import (
	"context"
	"strconv"
	"strings"

	"github.com/funnelform/leadlens/internal/analytics"
	"github.com/funnelform/leadlens/internal/propensity"
)

// maxBullets caps the number of insights any generator may return.
const maxBullets = 8

// ModelSummary carries the modeling outcome into insight generation. When
// training failed, Metrics is nil and FailureReason says why.
type ModelSummary struct {
	Algorithm     string
	Features      []string
	Metrics       *propensity.Metrics
	FailureReason string
}

// Report is the input every generator works from.
type Report struct {
	Analytics *analytics.Result
	Model     ModelSummary
}

// Generator produces insight bullets for a report.
type Generator interface {
	Generate(ctx context.Context, r Report) ([]string, error)
}

// GenerateWithFallback runs the given generator and silently degrades to the
// template generator when it is nil or fails. The pipeline never surfaces a
// provider outage to the caller; it always has insights to show.
func GenerateWithFallback(ctx context.Context, g Generator, r Report) []string {
	if g != nil {
		if bullets, err := g.Generate(ctx, r); err == nil && len(bullets) > 0 {
			return bullets
		}
	}
	bullets, _ := Template{}.Generate(ctx, r)
	return bullets
}

// parseBullets splits a model response into clean bullet strings, stripping
// common list markers and capping the count.
func parseBullets(text string) []string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		line = strings.TrimLeft(line, "-•* \t")
		if line == "" {
			continue
		}
		out = append(out, line)
		if len(out) == maxBullets {
			break
		}
	}
	return out
}

// formatAmount renders a nullable value with thousands separators and two
// decimals, or "N/A" when absent.
func formatAmount(v *float64) string {
	if v == nil {
		return "N/A"
	}
	s := strconv.FormatFloat(*v, 'f', 2, 64)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	dot := strings.IndexByte(s, '.')
	intPart, frac := s[:dot], s[dot:]
	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	for i, c := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(c)
	}
	b.WriteString(frac)
	return b.String()
}

// formatPercent renders a nullable rate as a percentage with one decimal.
func formatPercent(v *float64) string {
	if v == nil {
		return "N/A"
	}
	return strconv.FormatFloat(*v*100, 'f', 1, 64) + "%"
}
