// Package report aggregates a scored book into summary statistics and
// renders a human-readable run report.
package report

import (
	"github.com/erinheit451/crpe/pkg/models"
)

// Summarize aggregates per-tier counts and revenue-at-risk totals across a
// scored snapshot into the book-level view an operator dashboard would show
// on top of per-row fields.
func Summarize(rows []models.EnrichedCampaignSnapshot) models.BookSummary {
	s := models.BookSummary{
		TierCounts: make(map[string]int),
	}
	s.TotalRows = len(rows)

	for _, r := range rows {
		s.TierCounts[r.PriorityTier]++
		if r.HeadlineSeverity == "critical" {
			s.CriticalCount++
		}
		s.TotalRevenueAtRisk += r.RevenueAtRisk
	}

	if s.TotalRows > 0 {
		s.AvgRevenueAtRisk = s.TotalRevenueAtRisk / float64(s.TotalRows)
	}

	return s
}
