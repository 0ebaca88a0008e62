// Package analytics computes summary metrics over a schema-resolved table.
package analytics

import (
	"sort"
	"strings"

	"github.com/funnelform/leadlens/internal/schema"
)

// DefaultTopCampaigns caps the campaign leaderboard length.
const DefaultTopCampaigns = 5

// CampaignStat is one leaderboard row. Sales holds the group's sales sum, or
// its row count when no sales column resolved; Conversion holds the group's
// indicator mean, or its row count when no indicator exists.
type CampaignStat struct {
	Name       string  `json:"campaign"`
	Sales      float64 `json:"total_sales"`
	Conversion float64 `json:"conversion_rate"`
	Count      int     `json:"count"`
}

// Result carries the aggregate metrics. Nil pointers and the nil leaderboard
// mean the underlying canonical field did not resolve, which renders as N/A
// rather than zero.
type Result struct {
	TotalSales        *float64       `json:"total_sales"`
	ConversionRate    *float64       `json:"conversion_rate"`
	TopCampaigns      []CampaignStat `json:"top_campaigns"`
	SalesIsCount      bool           `json:"sales_is_count"`
	ConversionIsCount bool           `json:"conversion_is_count"`
}

// Aggregate computes total sales, the overall conversion rate, and the top-N
// campaign leaderboard ranked by sales sum (row count when sales is absent).
// Ties on the ranking key break by campaign name ascending so the order is
// deterministic regardless of input row order.
func Aggregate(n *schema.Normalized, s schema.Schema, topN int) *Result {
	if topN <= 0 {
		topN = DefaultTopCampaigns
	}
	res := &Result{
		SalesIsCount:      !s.Resolved(schema.FieldSales),
		ConversionIsCount: n.Converted == nil,
	}

	if n.Sales != nil {
		var sum float64
		for _, v := range n.Sales {
			sum += v
		}
		res.TotalSales = &sum
	}
	if len(n.Converted) > 0 {
		var hits int
		for _, v := range n.Converted {
			hits += v
		}
		rate := float64(hits) / float64(len(n.Converted))
		res.ConversionRate = &rate
	}

	if col := s.Column(schema.FieldCampaign); col != "" {
		res.TopCampaigns = topCampaigns(n, n.Table.Column(col), topN)
	}
	return res
}

type campaignAcc struct {
	name  string
	sales float64
	count int
	conv  int
}

func topCampaigns(n *schema.Normalized, campaigns []string, topN int) []CampaignStat {
	byName := map[string]*campaignAcc{}
	var order []string
	for i, raw := range campaigns {
		name := strings.TrimSpace(raw)
		if name == "" {
			// blank campaign cells don't form a group
			continue
		}
		acc := byName[name]
		if acc == nil {
			acc = &campaignAcc{name: name}
			byName[name] = acc
			order = append(order, name)
		}
		acc.count++
		if n.Sales != nil {
			acc.sales += n.Sales[i]
		}
		if n.Converted != nil {
			acc.conv += n.Converted[i]
		}
	}

	stats := make([]CampaignStat, 0, len(order))
	for _, name := range order {
		acc := byName[name]
		st := CampaignStat{Name: acc.name, Count: acc.count}
		if n.Sales != nil {
			st.Sales = acc.sales
		} else {
			st.Sales = float64(acc.count)
		}
		if n.Converted != nil {
			st.Conversion = float64(acc.conv) / float64(acc.count)
		} else {
			st.Conversion = float64(acc.count)
		}
		stats = append(stats, st)
	}
	sort.Slice(stats, func(i, j int) bool {
		if stats[i].Sales == stats[j].Sales {
			return stats[i].Name < stats[j].Name
		}
		return stats[i].Sales > stats[j].Sales
	})
	if len(stats) > topN {
		stats = stats[:topN]
	}
	return stats
}
