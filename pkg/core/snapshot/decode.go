// Package snapshot loads the engine's input document: an array of
// CampaignSnapshot rows, possibly hand-edited and not quite valid JSON. It
// repairs what it can and reports the rest as data-quality warnings rather
// than failing the whole run.
package snapshot

import (
	"encoding/json"
	"fmt"
	"reflect"

	jsonrepair "github.com/RealAlexandreAI/json-repair"

	"github.com/erinheit451/crpe/pkg/models"
)

// Warning is a recoverable, per-document data-quality note. It never aborts
// a run; it is surfaced so an operator can investigate the source feed.
type Warning struct {
	Message string
}

// Decode parses raw into a slice of CampaignSnapshot. If the document is not
// valid JSON, it is repaired first (trailing commas, unquoted keys, single
// quotes — the common defects in hand-edited fixtures); a successful repair
// produces a Warning rather than an error. A document that still fails to
// parse after repair is a structural error and returns one.
func Decode(raw []byte) ([]models.CampaignSnapshot, []Warning, error) {
	var rows []models.CampaignSnapshot
	var warnings []Warning

	if err := json.Unmarshal(raw, &rows); err != nil {
		repaired, repairErr := jsonrepair.RepairJSON(string(raw))
		if repairErr != nil {
			return nil, nil, fmt.Errorf("snapshot document is not valid JSON and could not be repaired: %w", err)
		}
		if err := json.Unmarshal([]byte(repaired), &rows); err != nil {
			return nil, nil, fmt.Errorf("snapshot document remained invalid after repair: %w", err)
		}
		warnings = append(warnings, Warning{Message: "input snapshot document required JSON repair before it would decode"})
	}

	for i := range rows {
		if w := validateRow(rows[i]); w != "" {
			warnings = append(warnings, Warning{Message: fmt.Sprintf("row %d (campaign_id=%q): %s", i, rows[i].CampaignID, w)})
		}
	}

	return rows, warnings, nil
}

// validateRow performs the minimal zero-tolerance structural check: the one
// field every row must carry is campaign_id, since every downstream error
// message and the reconciliation assertion in the churn calculator name rows
// by it. Everything else legitimately defaults to its zero value and is
// handled by preprocessing.
func validateRow(row models.CampaignSnapshot) string {
	v := reflect.ValueOf(row)
	idField := v.FieldByName("CampaignID")
	if idField.IsValid() && idField.IsZero() {
		return "missing campaign_id"
	}
	return ""
}
