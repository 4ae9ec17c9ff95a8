// Package priority computes the FLARE composite priority index from
// normalized percentile ranks over churn probability, revenue-at-risk, and
// controllable-driver share, then buckets rows into P1–P4 tiers.
// Percentile ranking requires the full snapshot, unlike every earlier stage,
// which is why this package operates on a slice rather than one row.
package priority

import (
	"sort"

	"github.com/erinheit451/crpe/pkg/core/config"
	"github.com/erinheit451/crpe/pkg/core/numeric"
	"github.com/erinheit451/crpe/pkg/models"
)

const (
	TierP1Critical = "P1 - CRITICAL"
	TierP2High     = "P2 - HIGH"
	TierP3Medium   = "P3 - MEDIUM"
	TierP4Low      = "P4 - LOW"
)

// Run scores an entire snapshot at once. Must run after churn.Run on every
// row, since it consumes ChurnProb90d, RevenueAtRisk, and the driver list.
func Run(rows []models.EnrichedCampaignSnapshot, cfg config.Constants) {
	n := len(rows)
	if n == 0 {
		return
	}

	churnVals := make([]float64, n)
	rarVals := make([]float64, n)
	ctrlVals := make([]float64, n)

	for i, r := range rows {
		churnVals[i] = r.ChurnProb90d
		rarVals[i] = r.RevenueAtRisk
		ctrlVals[i] = controllableDriverShare(r)
	}

	pctlChurn := numeric.PercentileRanks(churnVals)
	pctlRAR := numeric.PercentileRanks(rarVals)
	pctlCtrl := numeric.PercentileRanks(ctrlVals)

	indices := make([]float64, n)
	for i := range rows {
		idx := 100 * (cfg.PriorityWeightChurn*pctlChurn[i] +
			cfg.PriorityWeightRAR*pctlRAR[i] +
			cfg.PriorityWeightCtrl*pctlCtrl[i])
		rows[i].ControllableDriverShare = ctrlVals[i]
		rows[i].PriorityIndex = idx
		rows[i].FlareScore = idx
		indices[i] = idx
	}

	cuts := tierCuts(indices, cfg)
	for i := range rows {
		if rows[i].IsSafe {
			rows[i].PriorityTier = TierP4Low
			continue
		}
		rows[i].PriorityTier = tierFor(indices[i], cuts)
	}
}

func controllableDriverShare(r models.EnrichedCampaignSnapshot) float64 {
	var total, controllable float64
	for _, d := range r.RiskDriversJSON.Drivers {
		total += d.Points
		if d.IsControllable {
			controllable += d.Points
		}
	}
	if total <= 0 {
		total = 1
	}
	return controllable / total
}

type tierCutoffs struct {
	p1, p2, p3 float64
}

// tierCuts computes the priority_index value at the top-10%/next-20%/next-30%
// percentile breakpoints of the current snapshot.
func tierCuts(indices []float64, cfg config.Constants) tierCutoffs {
	sorted := append([]float64(nil), indices...)
	sort.Float64s(sorted)

	p1Pct := 100 - cfg.TierCutP1Pct
	p2Pct := 100 - cfg.TierCutP2Pct
	p3Pct := 100 - cfg.TierCutP3Pct

	return tierCutoffs{
		p1: numeric.PercentileCut(sorted, p1Pct),
		p2: numeric.PercentileCut(sorted, p2Pct),
		p3: numeric.PercentileCut(sorted, p3Pct),
	}
}

func tierFor(idx float64, cuts tierCutoffs) string {
	switch {
	case idx >= cuts.p1:
		return TierP1Critical
	case idx >= cuts.p2:
		return TierP2High
	case idx >= cuts.p3:
		return TierP3Medium
	default:
		return TierP4Low
	}
}
