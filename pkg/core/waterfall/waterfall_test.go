package waterfall

import (
	"strings"
	"testing"

	"github.com/erinheit451/crpe/pkg/models"
)

func TestBuildReconcilesToMathTotal(t *testing.T) {
	e := models.EnrichedCampaignSnapshot{
		ChurnProb90d:          0.15,
		ChurnProb90dUnclamped: 0.18,
		RiskDriversJSON: models.RiskDrivers{
			Baseline: 11,
			Drivers: []models.RiskDriver{
				{Name: "Zero leads (emerging)", Points: 4.2, IsControllable: true, LiftX: 1.8},
				{Name: "Single Product", Points: 2.6, IsControllable: false, LiftX: 1.35},
			},
		},
	}
	wf := Build(e)

	sum := wf.BaselinePP
	for _, d := range wf.Drivers {
		sum += d.PP
	}
	if sum != wf.MathTotalUnclamped {
		t.Errorf("baseline + driver pp = %d, want math_total_unclamped %d", sum, wf.MathTotalUnclamped)
	}
}

func TestBuildNoteWhenSafeClampActive(t *testing.T) {
	e := models.EnrichedCampaignSnapshot{
		ChurnProb90d:          0.08,
		ChurnProb90dUnclamped: 0.20,
		RiskDriversJSON: models.RiskDrivers{
			Baseline: 8,
			Drivers:  []models.RiskDriver{{Name: "Single Product", Points: 12, IsControllable: false, LiftX: 1.35}},
		},
	}
	wf := Build(e)
	if !strings.Contains(wf.Note, "SAFE clamp active") {
		t.Errorf("note = %q, want a SAFE clamp message", wf.Note)
	}
}

func TestBuildNoNoteWhenNotClamped(t *testing.T) {
	e := models.EnrichedCampaignSnapshot{
		ChurnProb90d:          0.20,
		ChurnProb90dUnclamped: 0.20,
		RiskDriversJSON:       models.RiskDrivers{Baseline: 20},
	}
	wf := Build(e)
	if wf.Note != "" {
		t.Errorf("note = %q, want empty when not clamped", wf.Note)
	}
}

func TestBuildDriverTypeBySign(t *testing.T) {
	e := models.EnrichedCampaignSnapshot{
		ChurnProb90d:          0.10,
		ChurnProb90dUnclamped: 0.10,
		RiskDriversJSON: models.RiskDrivers{
			Baseline: 11,
			Drivers: []models.RiskDriver{
				{Name: "protective", Points: -1, IsControllable: true},
			},
		},
	}
	wf := Build(e)
	if len(wf.Drivers) != 1 || wf.Drivers[0].Type != "protective" {
		t.Errorf("negative-points driver should be typed protective, got %+v", wf.Drivers)
	}
}
