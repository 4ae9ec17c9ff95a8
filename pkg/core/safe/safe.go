// Package safe implements the SAFE Detector: a disjunction of six
// performance predicates marking a row as "clearly performing".
// Clamping the churn probability is the churn calculator's job; this
// package only decides the boolean.
package safe

import (
	"github.com/erinheit451/crpe/pkg/core/config"
	"github.com/erinheit451/crpe/pkg/models"
)

// Run applies the SAFE Detector. Must run after zerolead.Run.
func Run(e *models.EnrichedCampaignSnapshot, cfg config.Constants) {
	bench := e.BSCCPLAvg
	if bench <= 0 {
		bench = cfg.BenchmarkFallbackMedian
	}
	effective := e.EffectiveCPLGoal
	cpl := e.RunningCIDCPL
	days := e.DaysElapsed
	spend := e.AmountSpent
	leads := e.RunningCIDLeads

	leadRatio := float64(leads) / maxF(e.ExpectedLeadsToDate, 0.1)

	anyZeroLead := e.ZeroLeadLastMo || e.ZeroLeadEmerging

	earlyWinner := days >= 2 && days <= 7 && spend >= 500 && leads >= 3 && cpl <= 2*bench && !anyZeroLead
	standardGood := effective > 0 && cpl <= 1.1*effective && leadRatio >= 0.8 && days >= 10 && leads >= 3 && !anyZeroLead
	obviouslyExcellent := cpl <= 0.5*bench && leads >= 10 && !anyZeroLead
	newAndThriving := days >= 5 && days < 30 && (leadRatio >= 0.6 || leads >= 1) && cpl <= 0.8*bench && spend >= 300 && !anyZeroLead
	newExcellentEfficiency := days >= 3 && days < 30 && leads >= 1 && cpl <= 0.7*bench && spend >= 100 && !anyZeroLead

	goalPresent := e.CPLGoal != nil && *e.CPLGoal > 0
	var goalPerformance bool
	if goalPresent {
		goalPerformance = cpl <= 0.8*(*e.CPLGoal) && leads >= 1 && !anyZeroLead
	}

	e.IsSafe = earlyWinner || standardGood || obviouslyExcellent || newAndThriving || newExcellentEfficiency || goalPerformance
}

func maxF(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
