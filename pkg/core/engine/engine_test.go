package engine

import (
	"testing"

	"github.com/erinheit451/crpe/pkg/core/config"
	"github.com/erinheit451/crpe/pkg/models"
)

func f(v float64) *float64 { return &v }
func i(v int) *int         { return &v }

func healthyRow() models.CampaignSnapshot {
	return models.CampaignSnapshot{
		CampaignID:             "healthy-1",
		CampaignBudget:         3000,
		AmountSpent:            1500,
		IOCycle:                1,
		DaysElapsed:            15,
		RunningCIDLeads:        20,
		RunningCIDCPL:          75,
		CPLGoal:                f(80),
		BSCCPLAvg:              100,
		BSCCPCAverage:          5,
		AdvertiserProductCount: 3,
	}
}

func chronicZeroLeadRow() models.CampaignSnapshot {
	return models.CampaignSnapshot{
		CampaignID:             "chronic-1",
		CampaignBudget:         5000,
		AmountSpent:            4000,
		IOCycle:                1,
		DaysElapsed:            45,
		RunningCIDLeads:        0,
		RunningCIDCPL:          0,
		CPLGoal:                f(100),
		LeadsRolling30D:        i(0),
		BSCCPLAvg:              100,
		BSCCPCAverage:          5,
		AdvertiserProductCount: 1,
	}
}

func idleRow() models.CampaignSnapshot {
	return models.CampaignSnapshot{
		CampaignID:             "idle-1",
		CampaignBudget:         1000,
		AmountSpent:            10,
		IOCycle:                1,
		DaysElapsed:            10,
		RunningCIDLeads:        0,
		AdvertiserProductCount: 2,
	}
}

func TestTransformHealthyRowIsSafeAtTenureBaseline(t *testing.T) {
	eng := New(config.Default(), nil)
	rows, _, err := eng.Transform([]models.CampaignSnapshot{healthyRow()})
	if err != nil {
		t.Fatalf("Transform returned error: %v", err)
	}
	r := rows[0]
	if !r.IsSafe {
		t.Error("expected healthy row to be SAFE")
	}
	if r.ChurnRiskBand != "LOW" {
		t.Errorf("ChurnRiskBand = %q, want LOW", r.ChurnRiskBand)
	}
	if r.PriorityTier != "P4 - LOW" {
		t.Errorf("PriorityTier = %q, want P4 - LOW (SAFE rows are floored)", r.PriorityTier)
	}
}

func TestTransformChronicZeroLeadIsNotSafeAndCritical(t *testing.T) {
	eng := New(config.Default(), nil)
	rows, _, err := eng.Transform([]models.CampaignSnapshot{chronicZeroLeadRow()})
	if err != nil {
		t.Fatalf("Transform returned error: %v", err)
	}
	r := rows[0]
	if r.IsSafe {
		t.Error("expected chronic zero-lead row to not be SAFE (zero-lead suppresses SAFE)")
	}
	if !r.ZeroLeadLastMo {
		t.Error("expected ZeroLeadLastMo to be true at 45 days with no leads")
	}
	if r.ChurnRiskBand != "CRITICAL" {
		t.Errorf("ChurnRiskBand = %q, want CRITICAL", r.ChurnRiskBand)
	}
}

func TestTransformIdleRowUsesBenchmarkFallback(t *testing.T) {
	eng := New(config.Default(), nil)
	rows, _, err := eng.Transform([]models.CampaignSnapshot{idleRow()})
	if err != nil {
		t.Fatalf("Transform returned error: %v", err)
	}
	r := rows[0]
	if !r.ZeroLeadIdle {
		t.Error("expected idle row to be flagged ZeroLeadIdle")
	}
	if r.ZeroLeadEmerging || r.ZeroLeadLastMo {
		t.Error("an idle row must not also be classified emerging or chronic")
	}
	if !r.BenchmarkFallbackUsed {
		t.Error("expected a row with no benchmark fields and no lookup to report BenchmarkFallbackUsed")
	}
}

func TestTransformPrioritizesWorseRowsHigher(t *testing.T) {
	eng := New(config.Default(), nil)
	rows, _, err := eng.Transform([]models.CampaignSnapshot{healthyRow(), chronicZeroLeadRow(), idleRow()})
	if err != nil {
		t.Fatalf("Transform returned error: %v", err)
	}

	byID := map[string]models.EnrichedCampaignSnapshot{}
	for _, r := range rows {
		byID[r.CampaignID] = r
	}

	if byID["chronic-1"].PriorityIndex <= byID["idle-1"].PriorityIndex {
		t.Errorf("chronic row priority index %.2f should exceed idle row's %.2f",
			byID["chronic-1"].PriorityIndex, byID["idle-1"].PriorityIndex)
	}
	if byID["healthy-1"].PriorityTier != "P4 - LOW" {
		t.Errorf("SAFE row must be floored at P4 regardless of composite score, got %q", byID["healthy-1"].PriorityTier)
	}
}

func TestTransformMissingCampaignIDReturnsConfigurationError(t *testing.T) {
	eng := New(config.Default(), nil)
	_, _, err := eng.Transform([]models.CampaignSnapshot{{CampaignBudget: 100}})
	if err == nil {
		t.Fatal("expected an error for a row missing campaign_id")
	}
	var cfgErr *ConfigurationError
	if ce, ok := err.(*ConfigurationError); ok {
		cfgErr = ce
	}
	if cfgErr == nil {
		t.Fatalf("error = %v (%T), want *ConfigurationError", err, err)
	}
	if cfgErr.Field != "campaign_id" {
		t.Errorf("Field = %q, want campaign_id", cfgErr.Field)
	}
}

func TestTransformInvariantsHoldAcrossRows(t *testing.T) {
	eng := New(config.Default(), nil)
	rows, _, err := eng.Transform([]models.CampaignSnapshot{healthyRow(), chronicZeroLeadRow(), idleRow()})
	if err != nil {
		t.Fatalf("Transform returned error: %v", err)
	}

	for _, r := range rows {
		if r.ChurnProb90dUnclamped < 0.01 || r.ChurnProb90dUnclamped > 0.99 {
			t.Errorf("%s: churn_prob_90d_unclamped = %v, want within [0.01, 0.99]", r.CampaignID, r.ChurnProb90dUnclamped)
		}
		if r.ChurnProb90d > r.ChurnProb90dUnclamped+1e-9 {
			t.Errorf("%s: churn_prob_90d (%v) exceeds unclamped (%v)", r.CampaignID, r.ChurnProb90d, r.ChurnProb90dUnclamped)
		}
		if r.IsSafe {
			baseline := tenureBaselineFor(r.TenureBucket, eng.Constants)
			if r.ChurnProb90d > baseline+1e-9 {
				t.Errorf("%s: SAFE row churn_prob_90d (%v) exceeds tenure baseline (%v)", r.CampaignID, r.ChurnProb90d, baseline)
			}
		}
		wantRAR := 0.0
		if r.CampaignBudget > 0 {
			wantRAR = r.CampaignBudget * r.ChurnProb90d
		}
		if diff := r.RevenueAtRisk - wantRAR; diff > 1e-6 || diff < -1e-6 {
			t.Errorf("%s: revenue_at_risk = %v, want %v", r.CampaignID, r.RevenueAtRisk, wantRAR)
		}
		if r.HeadlineDiagnosis == "" {
			t.Errorf("%s: expected exactly one headline_diagnosis, got none", r.CampaignID)
		}
	}
}

func tenureBaselineFor(bucket string, cfg config.Constants) float64 {
	switch bucket {
	case "LTE_90D":
		return cfg.TenureBaselineLTE90D
	case "M3_6":
		return cfg.TenureBaselineM3_6
	default:
		return cfg.TenureBaselineGT6
	}
}
