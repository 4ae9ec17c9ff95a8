package priority

import (
	"testing"

	"github.com/erinheit451/crpe/pkg/core/config"
	"github.com/erinheit451/crpe/pkg/models"
)

func row(churn, rar float64, controllablePts, structuralPts float64, safe bool) models.EnrichedCampaignSnapshot {
	return models.EnrichedCampaignSnapshot{
		ChurnProb90d:  churn,
		RevenueAtRisk: rar,
		IsSafe:        safe,
		RiskDriversJSON: models.RiskDrivers{
			Drivers: []models.RiskDriver{
				{Name: "controllable", Points: controllablePts, IsControllable: true},
				{Name: "structural", Points: structuralPts, IsControllable: false},
			},
		},
	}
}

func TestRunSafeRowsFlooredAtP4(t *testing.T) {
	cfg := config.Default()
	rows := []models.EnrichedCampaignSnapshot{
		row(0.9, 9000, 8, 1, true),
		row(0.1, 100, 1, 1, false),
	}
	Run(rows, cfg)
	if rows[0].PriorityTier != TierP4Low {
		t.Errorf("SAFE row tier = %q, want %q even with the highest churn/RAR", rows[0].PriorityTier, TierP4Low)
	}
}

func TestRunHighestChurnAndRARGetsTopTier(t *testing.T) {
	cfg := config.Default()
	rows := make([]models.EnrichedCampaignSnapshot, 0, 12)
	for i := 0; i < 11; i++ {
		rows = append(rows, row(0.1, 100, 1, 1, false))
	}
	rows = append(rows, row(0.95, 20000, 8, 1, false))
	Run(rows, cfg)
	if rows[len(rows)-1].PriorityTier != TierP1Critical {
		t.Errorf("top-ranked row tier = %q, want %q", rows[len(rows)-1].PriorityTier, TierP1Critical)
	}
}

func TestControllableDriverShare(t *testing.T) {
	r := row(0.5, 1000, 6, 2, false)
	if got := controllableDriverShare(r); got != 0.75 {
		t.Errorf("controllableDriverShare = %v, want 0.75 (6/8)", got)
	}
}

func TestControllableDriverShareNoDrivers(t *testing.T) {
	r := models.EnrichedCampaignSnapshot{}
	if got := controllableDriverShare(r); got != 0 {
		t.Errorf("controllableDriverShare with no drivers = %v, want 0", got)
	}
}
