// Package waterfall shapes a row's churn drivers into a visualization
// record: header total (clamped), math total (unclamped), baseline bar,
// signed driver bars, and a display-only rounding reconciliation.
package waterfall

import (
	"fmt"
	"math"

	"github.com/erinheit451/crpe/pkg/models"
)

// Build constructs the WaterfallRecord for one already-scored row. Must run
// after churn.Run.
func Build(e models.EnrichedCampaignSnapshot) *models.WaterfallRecord {
	totalClamped := int(math.Round(e.ChurnProb90d * 100))
	totalUnclamped := int(math.Round(e.ChurnProb90dUnclamped * 100))
	baseline := int(math.Round(e.RiskDriversJSON.Baseline))

	drivers := make([]models.WaterfallDriver, 0, len(e.RiskDriversJSON.Drivers))
	for _, d := range e.RiskDriversJSON.Drivers {
		pp := int(math.Round(d.Points))
		if pp == 0 {
			continue
		}
		typ := "structural"
		if d.IsControllable {
			typ = "controllable"
		}
		if pp < 0 {
			typ = "protective"
		}
		drivers = append(drivers, models.WaterfallDriver{
			Label: d.Name,
			PP:    pp,
			Type:  typ,
			LiftX: d.LiftX,
			Why:   d.Explanation,
		})
	}

	sum := baseline
	for _, d := range drivers {
		sum += d.PP
	}
	residual := totalUnclamped - sum
	if residual != 0 && len(drivers) > 0 {
		drivers[len(drivers)-1].PP += residual
	}

	var note string
	if totalClamped < totalUnclamped {
		note = fmt.Sprintf("SAFE clamp active: displayed churn %d%% < model %d%%.", totalClamped, totalUnclamped)
	}

	return &models.WaterfallRecord{
		TotalPct:           totalClamped,
		MathTotalUnclamped: totalUnclamped,
		BaselinePP:         baseline,
		Drivers:            drivers,
		Note:               note,
	}
}
