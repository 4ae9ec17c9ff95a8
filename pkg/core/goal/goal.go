// Package goal classifies a campaign's stated CPL goal against its vertical
// benchmark and derives the three-goal system (display/operating/risk), plus
// the primary_issue bucket emitted on the row.
package goal

import (
	"github.com/erinheit451/crpe/pkg/core/numeric"
	"github.com/erinheit451/crpe/pkg/models"
)

const (
	QualityMissing    = "missing"
	QualityTooLow     = "too_low"
	QualityReasonable = "reasonable"
	QualityTooHigh    = "too_high"
)

// Run applies the Goal Processor stage to an already-preprocessed row.
func Run(e *models.EnrichedCampaignSnapshot) {
	med := e.BSCCPLAvg
	var g float64
	hasGoal := e.CPLGoal != nil
	if hasGoal {
		g = *e.CPLGoal
	}

	e.GoalQuality = classifyQuality(hasGoal, g, med)
	e.GoalWasSubstituted = e.GoalQuality == QualityMissing || e.GoalQuality == QualityTooLow

	substituteOperating := e.GoalWasSubstituted
	if substituteOperating || med <= 0 {
		e.EffectiveCPLGoal = med
	} else {
		e.EffectiveCPLGoal = g
	}

	substituteRisk := e.GoalQuality == QualityMissing || e.GoalQuality == QualityTooLow || e.GoalQuality == QualityTooHigh
	if substituteRisk || med <= 0 {
		e.RiskCPLGoal = med
	} else {
		e.RiskCPLGoal = numeric.Clamp(g, 0.8*med, 1.2*med)
	}

	e.CPLDelta = e.RunningCIDCPL - e.EffectiveCPLGoal
	if e.EffectiveCPLGoal > 0 {
		e.CPLVariancePct = (e.RunningCIDCPL/e.EffectiveCPLGoal - 1) * 100
	} else {
		e.CPLVariancePct = 0
	}

	e.PrimaryIssue = classifyPrimaryIssue(*e)
}

func classifyQuality(hasGoal bool, g, med float64) string {
	if !hasGoal || g <= 0 {
		return QualityMissing
	}
	if g <= 0.5*med {
		return QualityTooLow
	}
	if g > 1.5*med {
		return QualityTooHigh
	}
	return QualityReasonable
}

// Issue categories, ordered by precedence.
const (
	IssueConversionFailure = "CONVERSION_FAILURE"
	IssueEfficiencyCrisis  = "EFFICIENCY_CRISIS"
	IssueNewAccount        = "NEW_ACCOUNT"
	IssueUnderpacing       = "UNDERPACING"
	IssuePerforming        = "PERFORMING"
	IssueMonitoring        = "MONITORING"
)

func classifyPrimaryIssue(e models.EnrichedCampaignSnapshot) string {
	switch {
	case e.RunningCIDLeads == 0 && e.AmountSpent > 100:
		return IssueConversionFailure
	case e.CPLVariancePct > 200:
		return IssueEfficiencyCrisis
	case tenureBucketIsNew(e):
		return IssueNewAccount
	case e.Utilization < 0.5:
		return IssueUnderpacing
	case e.CPLVariancePct < -20:
		return IssuePerforming
	default:
		return IssueMonitoring
	}
}

// tenureBucketIsNew reports whether a row is still within its first 90 days
// of tenure, computed directly from days_elapsed/io_cycle.
func tenureBucketIsNew(e models.EnrichedCampaignSnapshot) bool {
	totalDays := float64(e.IOCycle-1)*e.AvgCycleLength + e.DaysElapsed
	return totalDays/30.0 <= 3.0
}
