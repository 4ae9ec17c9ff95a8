// Package diagnostics produces the headline diagnosis, severity, pill list,
// and goal-advice object for a row, using a fixed precedence ladder.
package diagnostics

import (
	"fmt"

	"github.com/erinheit451/crpe/pkg/core/config"
	"github.com/erinheit451/crpe/pkg/models"
)

const (
	SeverityHealthy  = "healthy"
	SeverityNeutral  = "neutral"
	SeverityWarning  = "warning"
	SeverityCritical = "critical"
)

// Run fills HeadlineDiagnosis, HeadlineSeverity, DiagnosisPills, and
// GoalAdviceJSON. Must run after churn.Run (pills reference revenue_at_risk);
// it does not need the priority tier, so it runs before priority.Run.
func Run(e *models.EnrichedCampaignSnapshot, cfg config.Constants) {
	e.HeadlineDiagnosis, e.HeadlineSeverity = headline(*e, cfg)
	e.DiagnosisPills = pills(*e, cfg)
	e.GoalAdviceJSON = goalAdvice(*e)
}

// headline picks the first matching rule, top to bottom.
func headline(e models.EnrichedCampaignSnapshot, cfg config.Constants) (string, string) {
	if e.IsSafe {
		return "PERFORMING — ON TRACK", SeverityHealthy
	}

	days := e.DaysElapsed
	spend := e.AmountSpent

	if days >= cfg.MinDaysForAlerts && spend < cfg.MinSpendForZeroLead {
		return "NOT SPENDING — CHECK LIVE STATE", SeverityWarning
	}

	if e.ZeroLeadIdle {
		return "NOT SPENDING — ZERO LEADS", SeverityWarning
	}

	if e.ZeroLeadEmerging || e.ZeroLeadLastMo {
		return "ZERO LEADS — NO CONVERSIONS", SeverityCritical
	}

	leads := e.RunningCIDLeads
	if e.CPLVariancePct > 300 && e.IOCycle <= 3 && leads <= 5 {
		return "CPL CRISIS — NEW ACCOUNT — LOW LEADS", SeverityCritical
	}

	if e.CPLVariancePct > 100 {
		sev := SeverityWarning
		if e.CPLVariancePct > 200 {
			sev = SeverityCritical
		}
		goalShown := e.EffectiveCPLGoal
		if goalShown <= 0 && e.CPLGoal != nil {
			goalShown = *e.CPLGoal
		}
		return fmt.Sprintf("HIGH CPL — $%d vs $%d GOAL", int(e.RunningCIDCPL), int(goalShown)), sev
	}

	if e.IOCycle <= 3 {
		return "NEW ACCOUNT AT RISK", SeverityWarning
	}

	if e.Utilization > 0 && e.Utilization < 0.5 {
		pct := int((1 - e.Utilization) * 100)
		return fmt.Sprintf("UNDERPACING — %d%% BEHIND", pct), SeverityWarning
	}

	if e.CPLVariancePct < -20 || (e.ExpectedLeadsToDateSpend > 0 && float64(leads) >= e.ExpectedLeadsToDateSpend) {
		return "PERFORMING — ON/UNDER GOAL", SeverityHealthy
	}

	if e.GoalQuality == "too_low" && e.CPLGoal != nil && *e.CPLGoal < 0.5*e.BSCCPLAvg {
		return "GOAL MISALIGNED — Reset Required", SeverityWarning
	}

	return "MONITORING FOR CHANGES", SeverityNeutral
}

// pills builds the ordered pill list, collapsing to a single success pill
// when the row is SAFE.
func pills(e models.EnrichedCampaignSnapshot, cfg config.Constants) []models.DiagnosisPill {
	if e.IsSafe {
		return []models.DiagnosisPill{{Text: "Performing", Type: "success"}}
	}

	var out []models.DiagnosisPill

	switch {
	case e.ZeroLeadLastMo || e.ZeroLeadEmerging:
		out = append(out, models.DiagnosisPill{Text: "Zero Leads", Type: "critical"})
	case e.ZeroLeadIdle:
		out = append(out, models.DiagnosisPill{Text: "Zero Leads (Idle)", Type: "warning"})
	default:
		if e.DaysElapsed >= cfg.MinDaysForAlerts && e.RunningCIDLeads == 0 && e.SEMViable {
			out = append(out, models.DiagnosisPill{Text: "No Leads Yet", Type: "warning"})
		}
	}

	if absF(e.CPLVariancePct) > 20 {
		pct := int(e.CPLVariancePct)
		typ := "warning"
		if pct > 200 {
			typ = "critical"
		}
		sign := ""
		if pct > 0 {
			sign = "+"
		}
		out = append(out, models.DiagnosisPill{Text: fmt.Sprintf("CPL %s%d%%", sign, pct), Type: typ})
	}

	totalDays := float64(e.IOCycle-1)*e.AvgCycleLength + e.DaysElapsed
	if totalDays/30.0 <= 3.0 {
		out = append(out, models.DiagnosisPill{Text: "Early Account", Type: "warning"})
	}

	if e.AdvertiserProductCount == 1 {
		out = append(out, models.DiagnosisPill{Text: "Single Product", Type: "neutral"})
	}

	if e.Utilization > 0 {
		if e.Utilization < 0.5 {
			out = append(out, models.DiagnosisPill{Text: fmt.Sprintf("Pacing -%d%%", int((1-e.Utilization)*100)), Type: "warning"})
		} else if e.Utilization > 1.25 {
			out = append(out, models.DiagnosisPill{Text: fmt.Sprintf("Pacing +%d%%", int((e.Utilization-1)*100)), Type: "warning"})
		}
	}

	switch e.GoalQuality {
	case "missing":
		out = append(out, models.DiagnosisPill{Text: "No Goal", Type: "warning"})
	case "too_low":
		out = append(out, models.DiagnosisPill{Text: "Goal Too Low", Type: "warning"})
	}

	if e.RevenueAtRisk >= 5000 {
		out = append(out, models.DiagnosisPill{Text: "High $ Risk", Type: "critical"})
	} else if e.RevenueAtRisk >= 2000 {
		out = append(out, models.DiagnosisPill{Text: "$ Risk", Type: "warning"})
	}

	return out
}

// goalAdvice classifies the stated CPL goal against the vertical benchmark
// and recommends a defensible target window.
func goalAdvice(e models.EnrichedCampaignSnapshot) models.GoalAdvice {
	med := e.BSCCPLAvg

	p50 := med
	if p50 <= 0 {
		p50 = 150.0
	}
	p25 := p50 * 0.8
	if e.BSCCPLTop25Pct != nil && *e.BSCCPLTop25Pct > 0 {
		p25 = *e.BSCCPLTop25Pct
	}
	p75 := p50 * 1.2
	if e.BSCCPLBottom25Pct != nil && *e.BSCCPLBottom25Pct > 0 {
		p75 = *e.BSCCPLBottom25Pct
	}

	showGate := e.DaysElapsed >= 7 || e.IOCycle >= 1

	status := "reasonable"
	var goalAdvertiserPtr *float64
	hasGoal := e.CPLGoal != nil && *e.CPLGoal > 0
	if !hasGoal {
		status = "missing"
	} else {
		g := *e.CPLGoal
		goalAdvertiserPtr = &g
		ratio := g / p50
		switch {
		case ratio < 0.5:
			status = "too_low"
		case ratio < 0.7:
			status = "ambitious"
		case ratio <= 1.5:
			status = "reasonable"
		case ratio <= 2.5:
			status = "too_high"
		default:
			status = "wildly_high"
		}
	}

	recMin := maxF(0.8*p50, p25)
	recMax := minF(1.2*p50, p75)
	recPt := clampF(p50, recMin, recMax)

	var goalEffectivePtr *float64
	if e.EffectiveCPLGoal > 0 {
		v := e.EffectiveCPLGoal
		goalEffectivePtr = &v
	}

	perfVsGoal := "—"
	if hasGoal {
		perfVsGoal = band(e.RunningCIDCPL / *e.CPLGoal)
	}
	perfVsRec := band(e.RunningCIDCPL / recPt)

	show := showGate && (status == "missing" || status == "too_low")

	return models.GoalAdvice{
		Show:               show,
		Status:             status,
		GoalAdvertiser:     goalAdvertiserPtr,
		GoalEffective:       goalEffectivePtr,
		GoalWasSubstituted: e.GoalWasSubstituted,
		BenchmarkP25:       p25,
		BenchmarkP50:       p50,
		BenchmarkP75:       p75,
		RecommendedPoint:   recPt,
		RecommendedMin:     recMin,
		RecommendedMax:     recMax,
		PerfVsGoal:         perfVsGoal,
		PerfVsRecommended:  perfVsRec,
		Rationale:          fmt.Sprintf("Vertical median (p50) ≈ $%d. Recommended window $%d–$%d.", int(p50), int(recMin), int(recMax)),
	}
}

func band(r float64) string {
	switch {
	case r <= 0:
		return "—"
	case r >= 3.0:
		return "CRISIS (≥3×)"
	case r >= 2.0:
		return "Major gap (2–3×)"
	case r >= 1.5:
		return "Gap (1.5–2×)"
	case r > 1.1:
		return "Slightly high (1.1–1.5×)"
	case r >= 0.9:
		return "On target (±10%)"
	default:
		return "Under target (<0.9×)"
	}
}

func absF(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

func maxF(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

func minF(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func clampF(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
