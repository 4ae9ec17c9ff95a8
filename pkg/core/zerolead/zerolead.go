// Package zerolead distinguishes acute, chronic, and idle zero-lead states.
// Exactly the flags named here feed the SAFE detector, the churn
// calculator's odds factors, and the diagnostic generator.
package zerolead

import (
	"github.com/erinheit451/crpe/pkg/core/config"
	"github.com/erinheit451/crpe/pkg/models"
)

// Run applies the Zero-Lead Classifier. Must run after viability.Run, which
// sets SEMViable, and expectedleads.Run, which sets ExpectedLeadsToDate.
func Run(e *models.EnrichedCampaignSnapshot, cfg config.Constants) {
	leads := e.RunningCIDLeads
	days := e.DaysElapsed
	spend := e.AmountSpent

	e.ZeroLeadIdle = leads == 0 && days >= cfg.MinDaysForAlerts && spend < cfg.MinSpendForZeroLead

	spendProg := spendProgress(e)

	e.ZeroLeadEmerging = leads == 0 &&
		days >= cfg.MinDaysForAlerts && days < 30 &&
		spend >= cfg.MinSpendForZeroLead &&
		e.ExpectedLeadsToDate >= cfg.ZeroLeadMinExpectedTD &&
		spendProg >= cfg.ZeroLeadMinSpendProgress &&
		e.SEMViable

	rolling30Satisfied := !cfg.RequireRolling30DLeads
	if !rolling30Satisfied && e.LeadsRolling30D != nil && *e.LeadsRolling30D == 0 {
		rolling30Satisfied = true
	}

	e.ZeroLeadLastMo = leads == 0 &&
		days >= 30 &&
		spend >= cfg.MinSpendForZeroLead &&
		spendProg >= cfg.ZeroLeadLastMoMinSpendProg &&
		e.SEMViable &&
		rolling30Satisfied
}

func spendProgress(e *models.EnrichedCampaignSnapshot) float64 {
	ideal := e.IdealSpendToDate
	if ideal <= 0 {
		ideal = 1
	}
	prog := e.AmountSpent / ideal
	if prog < 0 {
		return 0
	}
	if prog > 2 {
		return 2
	}
	return prog
}
