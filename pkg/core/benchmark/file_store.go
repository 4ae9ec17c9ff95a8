// YAML-fixture-backed benchmark store, used by the CLI harness and by
// tests in place of a live database.
package benchmark

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v2"

	"github.com/erinheit451/crpe/pkg/models"
)

// FileStore is an in-memory BenchmarkLookup loaded once from a YAML
// document shaped as a list of models.BenchmarkRecord.
type FileStore struct {
	records map[string]models.BenchmarkRecord
}

// NewFileStore builds a FileStore directly from already-loaded records,
// useful for tests that want fixed benchmark data without a file on disk.
func NewFileStore(records []models.BenchmarkRecord) *FileStore {
	fs := &FileStore{records: make(map[string]models.BenchmarkRecord, len(records))}
	for _, r := range records {
		fs.records[key(r.Category, r.Subcategory)] = r
	}
	return fs
}

// LoadFileStore reads a YAML fixture file of benchmark records.
func LoadFileStore(path string) (*FileStore, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading benchmark fixture %s: %w", path, err)
	}

	var records []models.BenchmarkRecord
	if err := yaml.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("parsing benchmark fixture %s: %w", path, err)
	}

	return NewFileStore(records), nil
}

// Lookup implements Lookup. A miss returns (nil, nil): absence is not an error.
func (fs *FileStore) Lookup(category, subcategory string) (*models.BenchmarkRecord, error) {
	if rec, ok := fs.records[key(category, subcategory)]; ok {
		return &rec, nil
	}
	return nil, nil
}
