package preprocess

import (
	"testing"

	"github.com/erinheit451/crpe/pkg/core/config"
	"github.com/erinheit451/crpe/pkg/models"
)

func TestRunDefaultsAvgCycleLength(t *testing.T) {
	cfg := config.Default()
	row := models.CampaignSnapshot{CampaignID: "c1", IOCycle: 1, DaysElapsed: 10}
	e := Run(row, cfg)
	if e.AvgCycleLength != cfg.AvgCycle {
		t.Errorf("AvgCycleLength = %v, want default %v", e.AvgCycleLength, cfg.AvgCycle)
	}
}

func TestRunIsCPLGoalMissing(t *testing.T) {
	cfg := config.Default()

	noGoal := Run(models.CampaignSnapshot{CampaignID: "c1"}, cfg)
	if !noGoal.IsCPLGoalMissing {
		t.Error("nil cpl_goal should set IsCPLGoalMissing")
	}

	zero := 0.0
	zeroGoal := Run(models.CampaignSnapshot{CampaignID: "c2", CPLGoal: &zero}, cfg)
	if !zeroGoal.IsCPLGoalMissing {
		t.Error("zero cpl_goal should set IsCPLGoalMissing")
	}

	goal := 100.0
	present := Run(models.CampaignSnapshot{CampaignID: "c3", CPLGoal: &goal}, cfg)
	if present.IsCPLGoalMissing {
		t.Error("positive cpl_goal should not set IsCPLGoalMissing")
	}
}

func TestSanitizeUtilizationPercentEncoding(t *testing.T) {
	got := sanitizeUtilization(85, 1000, 1000)
	if got != 0.85 {
		t.Errorf("sanitizeUtilization(85, ...) = %v, want 0.85", got)
	}
}

func TestSanitizeUtilizationFractionEncoding(t *testing.T) {
	got := sanitizeUtilization(0.85, 1000, 1000)
	if got != 0.85 {
		t.Errorf("sanitizeUtilization(0.85, ...) = %v, want 0.85", got)
	}
}

func TestSanitizeUtilizationFallsBackOnImplausibleValue(t *testing.T) {
	got := sanitizeUtilization(-1, 500, 1000)
	if got != 0.5 {
		t.Errorf("sanitizeUtilization fallback = %v, want 0.5 (spend/ideal)", got)
	}
}
