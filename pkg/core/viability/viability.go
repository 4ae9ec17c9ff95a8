// Package viability flags a row as SEM-viable or capacity-limited, gating
// downstream alerts.
package viability

import (
	"github.com/erinheit451/crpe/pkg/core/config"
	"github.com/erinheit451/crpe/pkg/models"
)

// Run applies the SEM-Viability Gate. Must run after expectedleads.Run,
// which sets ExpectedLeadsMonthly.
func Run(e *models.EnrichedCampaignSnapshot, cfg config.Constants) {
	cpc := e.BSCCPCAverage
	if cpc <= 0 {
		cpc = cfg.BenchmarkFallbackCPC
	}
	if cpc < 3.0 {
		cpc = 3.0
	}

	avgLen := e.AvgCycleLength
	if avgLen <= 0 {
		avgLen = cfg.AvgCycle
	}

	dailyClicks := (e.CampaignBudget / avgLen) / cpc

	e.ViabBudgetOK = e.CampaignBudget >= cfg.SEMMinBudget
	e.ViabClicksOK = dailyClicks >= cfg.SEMMinDailyClicks
	e.ViabVolumeOK = e.ExpectedLeadsMonthly >= cfg.SEMMinMonthlyLeads

	e.SEMViable = e.ViabBudgetOK || e.ViabClicksOK || e.ViabVolumeOK
}
