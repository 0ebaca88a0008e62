package insights

import (
	"encoding/json"

	"github.com/funnelform/leadlens/internal/utils"
)

// promptTokenBudget caps the metrics payload embedded in the user prompt.
const promptTokenBudget = 2000

const systemPrompt = "You generate practical, data-driven marketing and sales recommendations."

// buildPrompts renders the report as a compact prompt pair shared by every
// hosted-model generator.
func buildPrompts(r Report) (system, user string) {
	payload := map[string]any{
		"analytics": r.Analytics,
	}
	model := map[string]any{}
	if r.Model.Algorithm != "" {
		model["algorithm"] = r.Model.Algorithm
	}
	if len(r.Model.Features) > 0 {
		model["features"] = r.Model.Features
	}
	if r.Model.Metrics != nil {
		model["metrics"] = r.Model.Metrics
	}
	if r.Model.FailureReason != "" {
		model["failure_reason"] = r.Model.FailureReason
	}
	payload["model"] = model

	metrics, err := json.Marshal(payload)
	if err != nil {
		metrics = []byte("{}")
	}

	user = "You are a senior growth strategist. Given the following metrics, generate 4-6 concise, actionable insights " +
		"covering budget allocation, targeting, creative tests, funnel optimization, and sales enablement.\n\n" +
		"Metrics: " + utils.TruncateToTokenLimit(string(metrics), promptTokenBudget) + "\n\n" +
		"Respond as a bullet list without numbering. Keep each bullet under 25 words."
	return systemPrompt, user
}
