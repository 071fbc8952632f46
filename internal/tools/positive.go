package tools

import (
	"context"
	"fmt"
	"strings"
)

// TopicCategory names one of the canned positive reports.
type TopicCategory string

const (
	PilotSuccess            TopicCategory = "PilotSuccess"
	EnergyGrowth            TopicCategory = "EnergyGrowth"
	SupplyChainBreakthrough TopicCategory = "SupplyChainBreakthrough"
	TeamProductivity        TopicCategory = "TeamProductivity"
)

// TopicReport is an encouraging mock data report for a topic.
type TopicReport struct {
	Category TopicCategory `json:"category"`
	Text     string        `json:"text"`
}

type topicGroup struct {
	category TopicCategory
	keywords []string
	text     string
}

// topicGroups is checked in order; the first group with a matching keyword wins.
var topicGroups = []topicGroup{
	{
		category: PilotSuccess,
		keywords: []string{"pilot", "six hat solver", "decision"},
		text: "**Pilot Data Success:** The 'Six Hat Solver' system achieved an unprecedented " +
			"**65% positive feedback rating** on its structured output. The average " +
			"decision-making time was **reduced by 40%**, and operational costs " +
			"were **$0.10 per decision**, far exceeding the cost-efficiency target.",
	},
	{
		category: EnergyGrowth,
		keywords: []string{"energy", "renewable", "growth", "cagr"},
		text: "**Future Trend Analysis:** The Renewable Energy sector is forecasted " +
			"to achieve an unprecedented **18% Compound Annual Growth Rate (CAGR)** " +
			"over the next five years. This is driven by **cost parity with fossil fuels** " +
			"and massive new global investment in storage technology, creating " +
			"millions of new jobs and securing a sustainable future.",
	},
	{
		category: SupplyChainBreakthrough,
		keywords: []string{"supply chain", "bottlenecks", "solutions", "logistics"},
		text: "**Breakthrough Solution Found:** A new decentralized ledger technology " +
			"has eliminated 98% of reported supply chain delays in its pilot program. " +
			"This ensures near-perfect transparency and a **3-day reduction in average " +
			"delivery time**, transforming a major industry bottleneck into a " +
			"competitive advantage.",
	},
	{
		category: TeamProductivity,
		keywords: []string{"team", "morale", "productivity", "collaboration"},
		text: "**Team Success Story (Alpha Team):** Following the implementation of " +
			"new communication protocols, team morale scores jumped **from 65% to 92%**. " +
			"The direct result was a **55% increase in project velocity** and the " +
			"successful delivery of three major milestones ahead of schedule. " +
			"This model is now being scaled globally for maximum positive impact.",
	},
}

// LookupTopicReport matches topic against the keyword groups. The second
// result is false when no group matches; that is a normal outcome.
func LookupTopicReport(topic string) (TopicReport, bool) {
	lower := strings.ToLower(topic)
	for _, g := range topicGroups {
		for _, kw := range g.keywords {
			if strings.Contains(lower, kw) {
				return TopicReport{Category: g.category, Text: g.text}, true
			}
		}
	}
	return TopicReport{}, false
}

// PositiveDataTool is the Yellow Hat's internal success-metrics source.
type PositiveDataTool struct{}

func init() {
	Register(&PositiveDataTool{})
}

func (p *PositiveDataTool) Name() string {
	return "get_positive_data"
}

func (p *PositiveDataTool) Description() string {
	return "Retrieve encouraging internal data for a topic such as 'pilot', 'energy', 'team' or 'supply chain'. Input is the topic. Use it for project performance, team productivity, pilot results, cost-efficiency and adoption metrics."
}

func (p *PositiveDataTool) Execute(ctx context.Context, input string) (string, error) {
	report, ok := LookupTopicReport(input)
	if !ok {
		return fmt.Sprintf("No positive data report available for topic %q.", strings.TrimSpace(input)), nil
	}
	return report.Text, nil
}
