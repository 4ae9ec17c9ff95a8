// Package config holds the engine's calibration constants. Defaults match
// the recognized tunable set; an operator may override any subset of them
// from a human-edited hjson document without touching code.
package config

import (
	"fmt"
	"os"

	hjson "github.com/hjson/hjson-go/v4"
)

// ModelVersion tags the calibration actually in force. Any change to the
// tenure baselines, the priority weights, or the SAFE-over-zero-lead
// headline precedence must bump this string.
const ModelVersion = "crpe-2026-01-risk-v1"

// Constants is the recognized set of engine tunables. All fields
// are exported so they round-trip into risk_drivers_json.constants_used.
type Constants struct {
	AvgCycle       float64 `json:"AVG_CYCLE" hjson:"AVG_CYCLE"`
	GlobalCRPrior  float64 `json:"GLOBAL_CR_PRIOR" hjson:"GLOBAL_CR_PRIOR"`
	SingleProductHR float64 `json:"SINGLE_PRODUCT_HR" hjson:"SINGLE_PRODUCT_HR"`
	CPLHRAlpha     float64 `json:"CPL_HR_ALPHA" hjson:"CPL_HR_ALPHA"`
	CPLHRCap       float64 `json:"CPL_HR_CAP" hjson:"CPL_HR_CAP"`

	TenureBaselineLTE90D float64 `json:"TENURE_BASELINE_LTE_90D" hjson:"TENURE_BASELINE_LTE_90D"`
	TenureBaselineM3_6   float64 `json:"TENURE_BASELINE_M3_6" hjson:"TENURE_BASELINE_M3_6"`
	TenureBaselineGT6    float64 `json:"TENURE_BASELINE_GT_6" hjson:"TENURE_BASELINE_GT_6"`

	SEMMinBudget      float64 `json:"SEM_MIN_BUDGET" hjson:"SEM_MIN_BUDGET"`
	SEMMinDailyClicks float64 `json:"SEM_MIN_DAILY_CLICKS" hjson:"SEM_MIN_DAILY_CLICKS"`
	SEMMinMonthlyLeads float64 `json:"SEM_MIN_MONTHLY_LEADS" hjson:"SEM_MIN_MONTHLY_LEADS"`

	MinDaysForAlerts          float64 `json:"MIN_DAYS_FOR_ALERTS" hjson:"MIN_DAYS_FOR_ALERTS"`
	MinSpendForZeroLead       float64 `json:"MIN_SPEND_FOR_ZERO_LEAD" hjson:"MIN_SPEND_FOR_ZERO_LEAD"`
	ZeroLeadMinExpectedTD     float64 `json:"ZERO_LEAD_MIN_EXPECTED_TD" hjson:"ZERO_LEAD_MIN_EXPECTED_TD"`
	ZeroLeadMinSpendProgress  float64 `json:"ZERO_LEAD_MIN_SPEND_PROGRESS" hjson:"ZERO_LEAD_MIN_SPEND_PROGRESS"`
	ZeroLeadLastMoMinSpendProg float64 `json:"ZERO_LEAD_LAST_MO_MIN_SPENDPROG" hjson:"ZERO_LEAD_LAST_MO_MIN_SPENDPROG"`
	RequireRolling30DLeads    bool    `json:"REQUIRE_ROLLING_30D_LEADS" hjson:"REQUIRE_ROLLING_30D_LEADS"`

	PriorityWeightChurn   float64 `json:"PRIORITY_WEIGHT_CHURN" hjson:"PRIORITY_WEIGHT_CHURN"`
	PriorityWeightRAR     float64 `json:"PRIORITY_WEIGHT_RAR" hjson:"PRIORITY_WEIGHT_RAR"`
	PriorityWeightCtrl    float64 `json:"PRIORITY_WEIGHT_CTRL" hjson:"PRIORITY_WEIGHT_CTRL"`
	TierCutP1Pct          float64 `json:"TIER_CUT_P1_PCT" hjson:"TIER_CUT_P1_PCT"`
	TierCutP2Pct          float64 `json:"TIER_CUT_P2_PCT" hjson:"TIER_CUT_P2_PCT"`
	TierCutP3Pct          float64 `json:"TIER_CUT_P3_PCT" hjson:"TIER_CUT_P3_PCT"`

	BenchmarkFallbackMedian float64 `json:"BENCHMARK_FALLBACK_MEDIAN" hjson:"BENCHMARK_FALLBACK_MEDIAN"`
	BenchmarkFallbackCPC    float64 `json:"BENCHMARK_FALLBACK_CPC" hjson:"BENCHMARK_FALLBACK_CPC"`
}

// Default returns the calibration's recommended constant set.
func Default() Constants {
	return Constants{
		AvgCycle:        30.4,
		GlobalCRPrior:   0.07,
		SingleProductHR: 1.35,
		CPLHRAlpha:      0.35,
		CPLHRCap:        3.5,

		TenureBaselineLTE90D: 0.11,
		TenureBaselineM3_6:   0.08,
		TenureBaselineGT6:    0.05,

		SEMMinBudget:       2500,
		SEMMinDailyClicks:  3,
		SEMMinMonthlyLeads: 10,

		MinDaysForAlerts:           5,
		MinSpendForZeroLead:        100,
		ZeroLeadMinExpectedTD:      1,
		ZeroLeadMinSpendProgress:   0.4,
		ZeroLeadLastMoMinSpendProg: 0.5,
		RequireRolling30DLeads:     true,

		PriorityWeightChurn: 0.5,
		PriorityWeightRAR:   0.35,
		PriorityWeightCtrl:  0.15,
		TierCutP1Pct:        10,
		TierCutP2Pct:        30,
		TierCutP3Pct:        60,

		BenchmarkFallbackMedian: 150,
		BenchmarkFallbackCPC:    3,
	}
}

// ToMap flattens Constants into the name→value dictionary echoed into
// risk_drivers_json.constants_used. Booleans are omitted;
// only the numeric tunables that feed the churn math are carried.
func (c Constants) ToMap() map[string]float64 {
	return map[string]float64{
		"AVG_CYCLE":             c.AvgCycle,
		"GLOBAL_CR_PRIOR":       c.GlobalCRPrior,
		"SINGLE_PRODUCT_HR":     c.SingleProductHR,
		"CPL_HR_ALPHA":          c.CPLHRAlpha,
		"CPL_HR_CAP":            c.CPLHRCap,
		"TENURE_BASELINE_LTE_90D": c.TenureBaselineLTE90D,
		"TENURE_BASELINE_M3_6":    c.TenureBaselineM3_6,
		"TENURE_BASELINE_GT_6":    c.TenureBaselineGT6,
	}
}

// LoadOverrides reads an hjson document at path and merges any fields it
// sets into base, returning the merged Constants. A missing file is not an
// error — callers run with the compiled-in defaults. Field-by-field merge
// means a partial override document (just a tweaked CPL_HR_CAP, say) is
// valid and leaves every other tunable at its default.
func LoadOverrides(path string, base Constants) (Constants, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return base, nil
	}
	if err != nil {
		return base, fmt.Errorf("reading constants override %s: %w", path, err)
	}

	var raw map[string]interface{}
	if err := hjson.Unmarshal(data, &raw); err != nil {
		return base, fmt.Errorf("parsing constants override %s: %w", path, err)
	}

	merged := base
	applyFloat := func(key string, dst *float64) {
		if v, ok := raw[key]; ok {
			if f, ok := toFloat(v); ok {
				*dst = f
			}
		}
	}
	applyFloat("AVG_CYCLE", &merged.AvgCycle)
	applyFloat("GLOBAL_CR_PRIOR", &merged.GlobalCRPrior)
	applyFloat("SINGLE_PRODUCT_HR", &merged.SingleProductHR)
	applyFloat("CPL_HR_ALPHA", &merged.CPLHRAlpha)
	applyFloat("CPL_HR_CAP", &merged.CPLHRCap)
	applyFloat("TENURE_BASELINE_LTE_90D", &merged.TenureBaselineLTE90D)
	applyFloat("TENURE_BASELINE_M3_6", &merged.TenureBaselineM3_6)
	applyFloat("TENURE_BASELINE_GT_6", &merged.TenureBaselineGT6)
	applyFloat("SEM_MIN_BUDGET", &merged.SEMMinBudget)
	applyFloat("SEM_MIN_DAILY_CLICKS", &merged.SEMMinDailyClicks)
	applyFloat("SEM_MIN_MONTHLY_LEADS", &merged.SEMMinMonthlyLeads)
	applyFloat("MIN_DAYS_FOR_ALERTS", &merged.MinDaysForAlerts)
	applyFloat("MIN_SPEND_FOR_ZERO_LEAD", &merged.MinSpendForZeroLead)
	applyFloat("ZERO_LEAD_MIN_EXPECTED_TD", &merged.ZeroLeadMinExpectedTD)
	applyFloat("ZERO_LEAD_MIN_SPEND_PROGRESS", &merged.ZeroLeadMinSpendProgress)
	applyFloat("ZERO_LEAD_LAST_MO_MIN_SPENDPROG", &merged.ZeroLeadLastMoMinSpendProg)
	applyFloat("PRIORITY_WEIGHT_CHURN", &merged.PriorityWeightChurn)
	applyFloat("PRIORITY_WEIGHT_RAR", &merged.PriorityWeightRAR)
	applyFloat("PRIORITY_WEIGHT_CTRL", &merged.PriorityWeightCtrl)
	applyFloat("TIER_CUT_P1_PCT", &merged.TierCutP1Pct)
	applyFloat("TIER_CUT_P2_PCT", &merged.TierCutP2Pct)
	applyFloat("TIER_CUT_P3_PCT", &merged.TierCutP3Pct)
	applyFloat("BENCHMARK_FALLBACK_MEDIAN", &merged.BenchmarkFallbackMedian)
	applyFloat("BENCHMARK_FALLBACK_CPC", &merged.BenchmarkFallbackCPC)

	if v, ok := raw["REQUIRE_ROLLING_30D_LEADS"].(bool); ok {
		merged.RequireRolling30DLeads = v
	}

	return merged, nil
}

func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	}
	return 0, false
}
