// Postgres-backed benchmark store: a pgxpool singleton (initialized once
// from DATABASE_URL) fronting a single table of benchmark medians, upserted
// by category/subcategory.
package benchmark

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/erinheit451/crpe/pkg/models"
)

var (
	pool     *pgxpool.Pool
	poolOnce sync.Once
)

// InitDB initializes the shared connection pool from DATABASE_URL. Safe to
// call more than once; only the first call takes effect.
func InitDB(ctx context.Context) error {
	var err error
	poolOnce.Do(func() {
		dbURL := os.Getenv("DATABASE_URL")
		if dbURL == "" {
			err = fmt.Errorf("DATABASE_URL environment variable not set")
			return
		}

		cfg, parseErr := pgxpool.ParseConfig(dbURL)
		if parseErr != nil {
			err = fmt.Errorf("failed to parse database config: %w", parseErr)
			return
		}

		pool, err = pgxpool.NewWithConfig(ctx, cfg)
	})
	return err
}

// ClosePool closes the shared connection pool.
func ClosePool() {
	if pool != nil {
		pool.Close()
	}
}

// PGStore is a BenchmarkLookup backed by a `benchmarks` table holding one
// JSONB blob per category/subcategory pair. The engine only ever reads;
// Save exists for the ingestion job that populates the table.
type PGStore struct{}

// NewPGStore returns a PGStore using the process-wide pool from InitDB.
func NewPGStore() *PGStore {
	return &PGStore{}
}

// Save upserts one benchmark record.
//
// Schema assumption:
//
//	CREATE TABLE IF NOT EXISTS benchmarks (
//	  category TEXT NOT NULL,
//	  subcategory TEXT NOT NULL DEFAULT '',
//	  record_json JSONB NOT NULL,
//	  PRIMARY KEY (category, subcategory)
//	);
func (s *PGStore) Save(ctx context.Context, rec models.BenchmarkRecord) error {
	if pool == nil {
		return fmt.Errorf("benchmark database pool not initialized")
	}

	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to marshal benchmark record: %w", err)
	}

	query := `
		INSERT INTO benchmarks (category, subcategory, record_json)
		VALUES ($1, $2, $3)
		ON CONFLICT (category, subcategory)
		DO UPDATE SET record_json = EXCLUDED.record_json;
	`
	_, err = pool.Exec(ctx, query, rec.Category, rec.Subcategory, data)
	if err != nil {
		return fmt.Errorf("failed to save benchmark record: %w", err)
	}
	return nil
}

// Lookup implements Lookup against the benchmarks table.
func (s *PGStore) Lookup(category, subcategory string) (*models.BenchmarkRecord, error) {
	if pool == nil {
		return nil, fmt.Errorf("benchmark database pool not initialized")
	}

	query := `SELECT record_json FROM benchmarks WHERE category = $1 AND subcategory = $2`

	var data []byte
	err := pool.QueryRow(context.Background(), query, category, subcategory).Scan(&data)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load benchmark record: %w", err)
	}

	var rec models.BenchmarkRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("failed to unmarshal benchmark record: %w", err)
	}
	return &rec, nil
}
