package goal

import (
	"testing"

	"github.com/erinheit451/crpe/pkg/models"
)

func enriched(cplGoal *float64, med, cpl float64) models.EnrichedCampaignSnapshot {
	return models.EnrichedCampaignSnapshot{
		CampaignSnapshot: models.CampaignSnapshot{
			CampaignID:   "c1",
			CPLGoal:      cplGoal,
			BSCCPLAvg:    med,
			RunningCIDCPL: cpl,
		},
	}
}

func ptr(f float64) *float64 { return &f }

func TestClassifyQualityBoundaries(t *testing.T) {
	tests := []struct {
		name string
		g    float64
		med  float64
		want string
	}{
		{"exactly half median is too low", 50, 100, QualityTooLow},
		{"just under half median is too low", 49.99, 100, QualityTooLow},
		{"just over half median is reasonable", 50.01, 100, QualityReasonable},
		{"exactly 1.5x median is reasonable", 150, 100, QualityReasonable},
		{"just over 1.5x median is too high", 150.01, 100, QualityTooHigh},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := classifyQuality(true, tt.g, tt.med); got != tt.want {
				t.Errorf("classifyQuality(true, %v, %v) = %q, want %q", tt.g, tt.med, got, tt.want)
			}
		})
	}
}

func TestClassifyQualityMissing(t *testing.T) {
	if got := classifyQuality(false, 0, 100); got != QualityMissing {
		t.Errorf("classifyQuality(false, ...) = %q, want %q", got, QualityMissing)
	}
	if got := classifyQuality(true, 0, 100); got != QualityMissing {
		t.Errorf("classifyQuality(true, 0, ...) = %q, want %q", got, QualityMissing)
	}
}

func TestRunSubstitutesMissingGoal(t *testing.T) {
	e := enriched(nil, 120, 100)
	Run(&e)
	if e.GoalQuality != QualityMissing {
		t.Fatalf("GoalQuality = %q, want %q", e.GoalQuality, QualityMissing)
	}
	if !e.GoalWasSubstituted {
		t.Error("missing goal should set GoalWasSubstituted")
	}
	if e.EffectiveCPLGoal != 120 {
		t.Errorf("EffectiveCPLGoal = %v, want benchmark median 120", e.EffectiveCPLGoal)
	}
}

func TestRunKeepsReasonableGoal(t *testing.T) {
	e := enriched(ptr(110), 100, 90)
	Run(&e)
	if e.GoalQuality != QualityReasonable {
		t.Fatalf("GoalQuality = %q, want %q", e.GoalQuality, QualityReasonable)
	}
	if e.GoalWasSubstituted {
		t.Error("reasonable goal should not be substituted")
	}
	if e.EffectiveCPLGoal != 110 {
		t.Errorf("EffectiveCPLGoal = %v, want stated goal 110", e.EffectiveCPLGoal)
	}
}

func TestClassifyPrimaryIssueConversionFailure(t *testing.T) {
	e := models.EnrichedCampaignSnapshot{CampaignSnapshot: models.CampaignSnapshot{
		RunningCIDLeads: 0, AmountSpent: 500,
	}}
	if got := classifyPrimaryIssue(e); got != IssueConversionFailure {
		t.Errorf("classifyPrimaryIssue = %q, want %q", got, IssueConversionFailure)
	}
}

func TestClassifyPrimaryIssueEfficiencyCrisis(t *testing.T) {
	e := models.EnrichedCampaignSnapshot{
		CampaignSnapshot: models.CampaignSnapshot{RunningCIDLeads: 5, AmountSpent: 500},
		CPLVariancePct:   250,
	}
	if got := classifyPrimaryIssue(e); got != IssueEfficiencyCrisis {
		t.Errorf("classifyPrimaryIssue = %q, want %q", got, IssueEfficiencyCrisis)
	}
}

func TestClassifyPrimaryIssueMonitoringDefault(t *testing.T) {
	e := models.EnrichedCampaignSnapshot{
		CampaignSnapshot: models.CampaignSnapshot{
			RunningCIDLeads: 5, AmountSpent: 500, IOCycle: 12, AvgCycleLength: 30.4, DaysElapsed: 15,
			Utilization: 0.9,
		},
		CPLVariancePct: 10,
	}
	if got := classifyPrimaryIssue(e); got != IssueMonitoring {
		t.Errorf("classifyPrimaryIssue = %q, want %q", got, IssueMonitoring)
	}
}
