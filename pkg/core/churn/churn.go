// Package churn is the engine's core: a tenure-bucket baseline, multiplied
// through an ordered set of calibrated hazard-ratio factors, converted back
// to a probability, clamped for SAFE rows, and decomposed into SHAP-style
// per-driver percentage-point contributions that must reconcile to the
// unclamped total within one point.
package churn

import (
	"fmt"
	"math"

	"github.com/erinheit451/crpe/pkg/core/config"
	"github.com/erinheit451/crpe/pkg/models"
)

const (
	BucketLTE90D = "LTE_90D"
	BucketM3_6   = "M3_6"
	BucketGT6    = "GT_6"

	BandLow      = "LOW"
	BandMedium   = "MEDIUM"
	BandHigh     = "HIGH"
	BandCritical = "CRITICAL"
)

// ReconciliationError is raised when driver points do not sum to the
// unclamped probability within the documented ±1pp tolerance. This is a
// hard failure: it signals a bug in driver collection or in the odds
// update, never a data-quality condition to paper over.
type ReconciliationError struct {
	CampaignID string
	Target     float64
	Sum        float64
}

func (e *ReconciliationError) Error() string {
	return fmt.Sprintf("churn reconciliation failed for campaign %s: driver sum %.1f does not match target %.1f within tolerance", e.CampaignID, e.Sum, e.Target)
}

// TenureBucket computes the tenure bucket for baseline selection.
func TenureBucket(e models.EnrichedCampaignSnapshot) string {
	totalDays := float64(e.IOCycle-1)*e.AvgCycleLength + e.DaysElapsed
	months := totalDays / 30.0
	switch {
	case months <= 3.0:
		return BucketLTE90D
	case months <= 6.0:
		return BucketM3_6
	default:
		return BucketGT6
	}
}

// BaselineProbability returns the calibrated baseline for a tenure bucket,
// clamped to [0.01, 0.95].
func BaselineProbability(bucket string, cfg config.Constants) float64 {
	var p float64
	switch bucket {
	case BucketLTE90D:
		p = cfg.TenureBaselineLTE90D
	case BucketM3_6:
		p = cfg.TenureBaselineM3_6
	default:
		p = cfg.TenureBaselineGT6
	}
	return clamp(p, 0.01, 0.95)
}

type factor struct {
	name         string
	multiplier   float64
	controllable bool
	explanation  string
}

// collectFactors builds the ordered odds-factor list: CPL ratio (at most
// one), lead-deficit (at most one), zero-lead emerging, zero-lead chronic,
// single-product. This order is part of the public contract.
func collectFactors(e models.EnrichedCampaignSnapshot, cfg config.Constants) []factor {
	var factors []factor

	cplRatio := 1.0
	if e.EffectiveCPLGoal > 0 {
		cplRatio = e.RunningCIDCPL / e.EffectiveCPLGoal
	}
	if cplRatio >= 1.2 {
		hr := hazardRatioFromCPLRatio(cplRatio, cfg)
		if label := driverLabelForCPL(cplRatio); label != "" && hr > 1.0 {
			factors = append(factors, factor{
				name: label, multiplier: hr, controllable: true,
				explanation: fmt.Sprintf("CPL ratio %.2fx goal.", cplRatio),
			})
		}
	}

	leadRatio := clamp(float64(e.RunningCIDLeads)/maxF(e.ExpectedLeadsToDate, 0.1), 0, 10)
	spendProg := clamp(e.AmountSpent/maxF(e.IdealSpendToDate, 1), 0, 2)
	switch {
	case leadRatio <= 0.25 && spendProg >= 0.5 && e.DaysElapsed >= 7 && e.SEMViable:
		factors = append(factors, factor{
			name: "Severe lead deficit (≤25% of plan)", multiplier: 2.8, controllable: true,
			explanation: "Leads tracking at or below a quarter of plan.",
		})
	case leadRatio <= 0.50 && spendProg >= 0.4 && e.DaysElapsed >= 5 && e.SEMViable:
		factors = append(factors, factor{
			name: "Moderate lead deficit (≤50% of plan)", multiplier: 1.6, controllable: true,
			explanation: "Leads tracking at or below half of plan.",
		})
	}

	if e.ZeroLeadEmerging {
		factors = append(factors, factor{
			name: "Zero leads (emerging)", multiplier: 1.80, controllable: true,
			explanation: "No conversions yet within the first cycle month.",
		})
	}
	if e.ZeroLeadLastMo {
		factors = append(factors, factor{
			name: "Zero leads (30+ days)", multiplier: 2.5, controllable: true,
			explanation: "No conversions for 30 or more days.",
		})
	}

	if e.AdvertiserProductCount == 1 {
		factors = append(factors, factor{
			name: "Single Product", multiplier: cfg.SingleProductHR, controllable: false,
			explanation: "Single-product accounts have fewer anchors and higher volatility.",
		})
	}

	return factors
}

func hazardRatioFromCPLRatio(r float64, cfg config.Constants) float64 {
	if r <= 1.0 {
		return 1.0
	}
	excess := r - 1.0
	hr := 1.0 + cfg.CPLHRAlpha*excess*excess
	if hr > cfg.CPLHRCap {
		return cfg.CPLHRCap
	}
	return hr
}

func driverLabelForCPL(r float64) string {
	switch {
	case r >= 3.0:
		return "High CPL (≥3× goal)"
	case r >= 1.5:
		return "Elevated CPL (1.5–3×)"
	case r >= 1.2:
		return "CPL above goal (1.2–1.5×)"
	default:
		return ""
	}
}

// Run applies the Churn Calculator. Must run after safe.Run. It returns a
// ReconciliationError if the driver sum fails to reconcile with the
// unclamped total within one percentage point — this is fatal, and the
// caller (the engine) must abort the run.
func Run(e *models.EnrichedCampaignSnapshot, cfg config.Constants) error {
	bucket := TenureBucket(*e)
	e.TenureBucket = bucket
	basePrice := BaselineProbability(bucket, cfg)

	factors := collectFactors(*e, cfg)

	odds0 := basePrice / (1 - basePrice)
	odds := odds0
	for _, f := range factors {
		odds *= f.multiplier
	}
	pUnclamped := odds / (1 + odds)

	pClamped := pUnclamped
	if e.IsSafe && pUnclamped > basePrice {
		pClamped = basePrice
	}

	drivers := make([]models.RiskDriver, 0, len(factors))
	oddsCum := odds0
	for _, f := range factors {
		pBefore := oddsCum / (1 + oddsCum)
		oddsCum *= f.multiplier
		pAfter := oddsCum / (1 + oddsCum)
		drivers = append(drivers, models.RiskDriver{
			Name:           f.name,
			Points:         round1((pAfter - pBefore) * 100),
			IsControllable: f.controllable,
			Explanation:    f.explanation,
			LiftX:          f.multiplier,
		})
	}

	baselinePP := math.Round(basePrice * 100)
	driverSum := 0.0
	for _, d := range drivers {
		driverSum += math.Round(d.Points)
	}
	target := math.Round(pUnclamped * 100)
	if math.Abs(baselinePP+driverSum-target) > 1 {
		return &ReconciliationError{CampaignID: e.CampaignID, Target: target, Sum: baselinePP + driverSum}
	}

	e.ChurnProb90dUnclamped = pUnclamped
	e.ChurnProb90d = pClamped
	e.ChurnRiskBand = riskBand(pClamped)
	if e.CampaignBudget > 0 {
		e.RevenueAtRisk = e.CampaignBudget * pClamped
	} else {
		e.RevenueAtRisk = 0
	}

	e.RiskDriversJSON = models.RiskDrivers{
		Baseline:      baselinePP,
		Drivers:       drivers,
		PUnclampedPct: pUnclamped * 100,
		PClampedPct:   pClamped * 100,
		IsSafe:        e.IsSafe,
		SafeClamped:   e.IsSafe && (pUnclamped-pClamped) > 0.01,
		ModelVersion:  config.ModelVersion,
		ConstantsUsed: cfg.ToMap(),
	}

	return nil
}

func riskBand(p float64) string {
	switch {
	case p < 0.15:
		return BandLow
	case p < 0.30:
		return BandMedium
	case p < 0.45:
		return BandHigh
	default:
		return BandCritical
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func maxF(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
