// Package expectedleads derives plan-based and spend-based expected lead
// counts from benchmark CPC, the global conversion-rate prior, and the
// AVG_CYCLE cycle-length constant (not the row's own avg_cycle_length).
package expectedleads

import (
	"github.com/erinheit451/crpe/pkg/core/config"
	"github.com/erinheit451/crpe/pkg/core/numeric"
	"github.com/erinheit451/crpe/pkg/models"
)

// Run applies the Expected-Leads Calculator to a row already processed by
// preprocess and goal. Must run after goal.Run, which sets RiskCPLGoal.
func Run(e *models.EnrichedCampaignSnapshot, cfg config.Constants) {
	budget := e.CampaignBudget
	spent := e.AmountSpent

	cplTarget := e.RiskCPLGoal
	if cplTarget <= 0 {
		cplTarget = cfg.BenchmarkFallbackMedian
	}
	bench := e.BSCCPLAvg
	if bench <= 0 {
		bench = cfg.BenchmarkFallbackMedian
	}

	cpc := e.BSCCPCAverage
	cpcValid := cpc > 0

	cr := cfg.GlobalCRPrior
	if cpcValid {
		cr = numeric.Clamp(cpc/bench, 0.01, 0.25)
	}

	var expectedLeadsMonthly float64
	if cpcValid {
		expectedClicks := budget / cpc
		expectedLeadsMonthly = expectedClicks * cr
	} else {
		expectedLeadsMonthly = numeric.SafeDiv(budget, cplTarget, 0)
	}
	e.ExpectedLeadsMonthly = numeric.Clamp(expectedLeadsMonthly, 0, 1_000_000)

	pacing := numeric.Clamp(e.DaysElapsed/cfg.AvgCycle, 0, 2)
	e.ExpectedLeadsToDate = e.ExpectedLeadsMonthly * pacing

	if cplTarget > 0 {
		e.ExpectedLeadsToDateSpend = spent / cplTarget
	} else {
		e.ExpectedLeadsToDateSpend = 0
	}
}
