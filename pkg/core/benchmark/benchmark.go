// Package benchmark provides the engine's one external dependency: a
// read-only lookup from (category, subcategory) to vertical benchmark
// metrics. Two concrete implementations are provided — an
// in-memory/YAML-fixture store for batch runs and tests, and a
// Postgres-backed store for deployments that keep benchmark medians in a
// table.
package benchmark

import (
	"github.com/erinheit451/crpe/pkg/models"
)

// Lookup is the read-only service the engine consumes. Absent entries
// return (nil, nil) — not an error — so callers fall back to the documented
// constants.
type Lookup interface {
	Lookup(category, subcategory string) (*models.BenchmarkRecord, error)
}

// key joins category/subcategory the way every fixture format below keys its rows.
func key(category, subcategory string) string {
	if subcategory == "" {
		return category
	}
	return category + "|" + subcategory
}
