// Markdown/HTML run report rendering, adapted from the codebase's existing
// Markdown-cleaning helper: build a plain Markdown document describing the
// run, then render it with goldmark for the CLI's -report output file.
package report

import (
	"bytes"
	"fmt"
	"sort"
	"strings"

	"github.com/yuin/goldmark"

	"github.com/erinheit451/crpe/pkg/models"
)

// RenderMarkdown builds a Markdown summary of one run: tier counts, revenue
// at risk, and the highest-priority rows' waterfalls.
func RenderMarkdown(runID string, summary models.BookSummary, rows []models.EnrichedCampaignSnapshot) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Campaign Risk & Priority Run %s\n\n", runID)
	fmt.Fprintf(&b, "Rows scored: **%d**  \n", summary.TotalRows)
	fmt.Fprintf(&b, "Critical-severity rows: **%d**  \n", summary.CriticalCount)
	fmt.Fprintf(&b, "Total revenue at risk: **$%.0f** (avg $%.0f/row)\n\n", summary.TotalRevenueAtRisk, summary.AvgRevenueAtRisk)

	b.WriteString("## Tier distribution\n\n")
	tiers := []string{"P1 - CRITICAL", "P2 - HIGH", "P3 - MEDIUM", "P4 - LOW"}
	for _, t := range tiers {
		fmt.Fprintf(&b, "- %s: %d\n", t, summary.TierCounts[t])
	}
	b.WriteString("\n")

	top := topByPriority(rows, 10)
	if len(top) > 0 {
		b.WriteString("## Top accounts by priority\n\n")
		for _, r := range top {
			fmt.Fprintf(&b, "### %s — %s (%s)\n\n", r.CampaignID, r.AdvertiserName, r.PriorityTier)
			mathTotal := int(r.ChurnProb90dUnclamped * 100)
			if r.Waterfall != nil {
				mathTotal = r.Waterfall.MathTotalUnclamped
			}
			fmt.Fprintf(&b, "%s — churn %.0f%% (baseline %.0f pp, %d pp unclamped)\n\n",
				r.HeadlineDiagnosis, r.ChurnProb90d*100, r.RiskDriversJSON.Baseline, mathTotal)
			for _, d := range r.RiskDriversJSON.Drivers {
				fmt.Fprintf(&b, "- %s: %+.1f pp (x%.2f)\n", d.Name, d.Points, d.LiftX)
			}
			b.WriteString("\n")
		}
	}

	return b.String()
}

// RenderHTML renders the Markdown summary to HTML via goldmark.
func RenderHTML(runID string, summary models.BookSummary, rows []models.EnrichedCampaignSnapshot) (string, error) {
	md := RenderMarkdown(runID, summary, rows)
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(md), &buf); err != nil {
		return "", fmt.Errorf("rendering run report to HTML: %w", err)
	}
	return buf.String(), nil
}

func topByPriority(rows []models.EnrichedCampaignSnapshot, n int) []models.EnrichedCampaignSnapshot {
	sorted := append([]models.EnrichedCampaignSnapshot(nil), rows...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].PriorityIndex > sorted[j].PriorityIndex })
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}
