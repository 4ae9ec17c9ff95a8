// Package engine wires every per-row and whole-snapshot stage into the
// single pure batch transform: a scored, diagnosed snapshot in, no I/O, no
// shared mutable state. Parallelism, if wanted, belongs to the caller:
// partition before Transform's per-row stages, then run the priority stage
// once over the reunited set.
package engine

import (
	"fmt"

	"github.com/erinheit451/crpe/pkg/core/benchmark"
	"github.com/erinheit451/crpe/pkg/core/churn"
	"github.com/erinheit451/crpe/pkg/core/config"
	"github.com/erinheit451/crpe/pkg/core/diagnostics"
	"github.com/erinheit451/crpe/pkg/core/expectedleads"
	"github.com/erinheit451/crpe/pkg/core/goal"
	"github.com/erinheit451/crpe/pkg/core/preprocess"
	"github.com/erinheit451/crpe/pkg/core/priority"
	"github.com/erinheit451/crpe/pkg/core/safe"
	"github.com/erinheit451/crpe/pkg/core/viability"
	"github.com/erinheit451/crpe/pkg/core/waterfall"
	"github.com/erinheit451/crpe/pkg/core/zerolead"
	"github.com/erinheit451/crpe/pkg/models"
)

// ConfigurationError reports a structural defect discovered after
// preprocessing — a row missing a column every downstream stage requires.
// It aborts the run; there is no neutral default for an absent identity.
type ConfigurationError struct {
	CampaignID string
	Field      string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("campaign %q: missing required field %q after preprocessing", e.CampaignID, e.Field)
}

// InvariantViolation wraps a broken engine invariant that must abort the
// run rather than be papered over — currently only the churn calculator's
// driver-sum reconciliation check.
type InvariantViolation struct {
	CampaignID string
	Detail     string
}

func (e *InvariantViolation) Error() string {
	return fmt.Sprintf("campaign %q: invariant violated: %s", e.CampaignID, e.Detail)
}

// Warning is a recoverable, per-row note collected during a run — data
// quality issues and artifact-local failures that don't abort processing.
type Warning struct {
	CampaignID string
	Message    string
}

// Engine holds the calibration and the benchmark lookup a run is executed
// against. Both are immutable for the engine's lifetime; Transform performs
// no I/O beyond calling Lookup.
type Engine struct {
	Constants config.Constants
	Lookup    benchmark.Lookup
}

// New builds an Engine from a calibration and an optional benchmark lookup
// (nil is valid: every stage that consults a benchmark field falls back to
// the documented constants).
func New(cfg config.Constants, lookup benchmark.Lookup) *Engine {
	return &Engine{Constants: cfg, Lookup: lookup}
}

// Transform scores an entire snapshot: per-row stages run independently,
// then the priority stage ranks the whole set. It returns the enriched
// rows, any recoverable warnings collected along the way, and a non-nil
// error only for a structural or reconciliation failure — both of which
// abort the run immediately, naming the offending campaign_id.
func (eng *Engine) Transform(rows []models.CampaignSnapshot) ([]models.EnrichedCampaignSnapshot, []Warning, error) {
	enriched := make([]models.EnrichedCampaignSnapshot, 0, len(rows))
	var warnings []Warning

	for _, row := range rows {
		if row.CampaignID == "" {
			return nil, warnings, &ConfigurationError{CampaignID: "", Field: "campaign_id"}
		}

		row, fallbackUsed := eng.fillBenchmarks(row)

		e := preprocess.Run(row, eng.Constants)
		e.BenchmarkFallbackUsed = fallbackUsed

		goal.Run(&e)
		expectedleads.Run(&e, eng.Constants)
		viability.Run(&e, eng.Constants)
		zerolead.Run(&e, eng.Constants)
		safe.Run(&e, eng.Constants)

		if err := churn.Run(&e, eng.Constants); err != nil {
			var recErr *churn.ReconciliationError
			if asReconciliation(err, &recErr) {
				return nil, warnings, &InvariantViolation{CampaignID: recErr.CampaignID, Detail: err.Error()}
			}
			return nil, warnings, err
		}

		diagnostics.Run(&e, eng.Constants)
		e.Waterfall = waterfall.Build(e)

		enriched = append(enriched, e)
	}

	priority.Run(enriched, eng.Constants)

	return enriched, warnings, nil
}

// fillBenchmarks resolves the row's vertical benchmark fields from the
// injected Lookup when the snapshot didn't carry its own (zero CPL median or
// zero CPC),
// reporting whether the documented fallback constants will be needed
// because no record was found. A present record only fills zero fields; it
// never overrides a benchmark value the snapshot already carries.
func (eng *Engine) fillBenchmarks(row models.CampaignSnapshot) (models.CampaignSnapshot, bool) {
	if row.BSCCPLAvg > 0 && row.BSCCPCAverage > 0 {
		return row, false
	}
	if eng.Lookup == nil {
		return row, true
	}

	rec, err := eng.Lookup.Lookup(row.BusinessCategory, "")
	if err != nil || rec == nil {
		return row, true
	}

	if row.BSCCPLAvg <= 0 {
		row.BSCCPLAvg = rec.CPLMedian
	}
	if row.BSCCPCAverage <= 0 {
		row.BSCCPCAverage = rec.CPCAverage
	}
	if row.BSCCPLTop25Pct == nil && rec.CPLTop25Pct > 0 {
		v := rec.CPLTop25Pct
		row.BSCCPLTop25Pct = &v
	}
	if row.BSCCPLBottom25Pct == nil && rec.CPLBottom25Pct > 0 {
		v := rec.CPLBottom25Pct
		row.BSCCPLBottom25Pct = &v
	}
	return row, false
}

// asReconciliation reports whether err is a *churn.ReconciliationError,
// assigning it to *target on success. Kept as a small helper rather than a
// direct type assertion so Transform reads the same way regardless of how
// deep churn.Run's error wrapping grows.
func asReconciliation(err error, target **churn.ReconciliationError) bool {
	if rec, ok := err.(*churn.ReconciliationError); ok {
		*target = rec
		return true
	}
	return false
}
