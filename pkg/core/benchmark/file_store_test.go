package benchmark

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/erinheit451/crpe/pkg/models"
)

func TestNewFileStoreLookupHitAndMiss(t *testing.T) {
	fs := NewFileStore([]models.BenchmarkRecord{
		{Category: "home-services", Subcategory: "plumbing", CPLMedian: 120, CPCAverage: 8},
	})

	rec, err := fs.Lookup("home-services", "plumbing")
	if err != nil {
		t.Fatalf("Lookup returned error: %v", err)
	}
	if rec == nil || rec.CPLMedian != 120 {
		t.Errorf("Lookup hit = %+v, want CPLMedian 120", rec)
	}

	miss, err := fs.Lookup("legal", "")
	if err != nil {
		t.Fatalf("Lookup returned error: %v", err)
	}
	if miss != nil {
		t.Errorf("Lookup miss = %+v, want nil", miss)
	}
}

func TestLoadFileStoreFromYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "benchmarks.yaml")
	doc := "- category: legal\n  subcategory: \"\"\n  cpl_median: 200\n  cpc_average: 12\n"
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	fs, err := LoadFileStore(path)
	if err != nil {
		t.Fatalf("LoadFileStore: %v", err)
	}
	rec, err := fs.Lookup("legal", "")
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if rec == nil || rec.CPLMedian != 200 {
		t.Errorf("Lookup = %+v, want CPLMedian 200", rec)
	}
}

func TestKeyJoinsWithSeparatorOnlyWhenSubcategoryPresent(t *testing.T) {
	if got := key("legal", ""); got != "legal" {
		t.Errorf("key with empty subcategory = %q, want %q", got, "legal")
	}
	if got := key("legal", "family"); got != "legal|family" {
		t.Errorf("key with subcategory = %q, want %q", got, "legal|family")
	}
}
