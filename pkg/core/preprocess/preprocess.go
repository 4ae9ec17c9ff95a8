// Package preprocess sanitizes a raw CampaignSnapshot into a form every
// downstream stage can trust: numeric fields defaulted, utilization
// reconciled between percent and fraction encodings.
package preprocess

import (
	"github.com/erinheit451/crpe/pkg/core/config"
	"github.com/erinheit451/crpe/pkg/core/numeric"
	"github.com/erinheit451/crpe/pkg/models"
)

// Run applies the Preprocessor stage to one row, returning the
// enriched row with AvgCycleLength defaulted, Utilization sanitized, and
// IsCPLGoalMissing set. Callers run this before every other stage.
func Run(row models.CampaignSnapshot, cfg config.Constants) models.EnrichedCampaignSnapshot {
	e := models.EnrichedCampaignSnapshot{CampaignSnapshot: row}

	if e.AvgCycleLength <= 0 {
		e.AvgCycleLength = cfg.AvgCycle
	}

	e.IsCPLGoalMissing = row.CPLGoal == nil || *row.CPLGoal <= 0

	totalDaysInCycle := float64(row.IOCycle) * e.AvgCycleLength
	if totalDaysInCycle <= 0 {
		totalDaysInCycle = e.AvgCycleLength
	}
	e.IdealSpendToDate = numeric.SafeDiv(row.CampaignBudget, totalDaysInCycle, 0) * row.DaysElapsed

	e.Utilization = sanitizeUtilization(row.Utilization, row.AmountSpent, e.IdealSpendToDate)

	return e
}

// sanitizeUtilization handles both percent (>=3) and fraction encodings,
// falling back to amount_spent/ideal_spend_to_date when the stated value is
// implausible.
func sanitizeUtilization(stated, spent, idealSpendToDate float64) float64 {
	sanitized := stated
	if stated >= 3 {
		sanitized = stated / 100
	}

	if sanitized > 0 && sanitized <= 2.0 {
		return sanitized
	}

	fallback := numeric.SafeDiv(spent, idealSpendToDate, 0)
	return numeric.Clamp(fallback, 0.0, 2.0)
}
