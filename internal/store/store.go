// Package store adapts the teacher's Postgres persistence layer
// (internal/db/postgres.go) into the Run Store of SPEC_FULL.md §4.8:
// a single best-effort write path for one EngineRun provenance record
// per engine invocation.
package store

import (
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rawblock/logiclock/pkg/models"
)

//go:embed schema.sql
var schemaFS embed.FS

// Store holds the connection pool used to persist engine runs.
type Store struct {
	pool *pgxpool.Pool
}

// Connect opens the pool and verifies connectivity.
func Connect(ctx context.Context, connStr string) (*Store, error) {
	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("ping failed: %w", err)
	}
	log.Println("Successfully connected to PostgreSQL for the run store")
	return &Store{pool: pool}, nil
}

// Close releases the connection pool.
func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// InitSchema applies the embedded schema.
func (s *Store) InitSchema(ctx context.Context) error {
	schema, err := schemaFS.ReadFile("schema.sql")
	if err != nil {
		return fmt.Errorf("failed to read schema file: %w", err)
	}
	if _, err := s.pool.Exec(ctx, string(schema)); err != nil {
		return fmt.Errorf("failed to execute schema migration: %w", err)
	}
	log.Println("Engine run schema initialized")
	return nil
}

// SaveRun persists one EngineRun provenance record (SPEC_FULL.md §4.8).
// Selections and the coverage table are stored as JSONB since their
// shape varies with target and candidate count.
func (s *Store) SaveRun(ctx context.Context, run models.EngineRun) error {
	selections, err := json.Marshal(run.Selections)
	if err != nil {
		return fmt.Errorf("encoding selections: %w", err)
	}
	coverage, err := json.Marshal(run.Coverage)
	if err != nil {
		return fmt.Errorf("encoding coverage: %w", err)
	}

	const insertSQL = `
		INSERT INTO engine_runs
			(run_id, module, target, key_bit_budget, num_test_vectors, seed,
			 started_at, duration_ms, selections, coverage)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (run_id) DO NOTHING;
	`
	_, err = s.pool.Exec(ctx, insertSQL,
		run.RunID, run.Module, string(run.Target), run.KeyBitBudget, run.NumTestVectors, run.Seed,
		run.StartedAt, run.Duration.Milliseconds(), selections, coverage,
	)
	if err != nil {
		return fmt.Errorf("failed to insert engine_runs row: %w", err)
	}
	return nil
}

// RecentRuns returns the most recent runs for a module, newest first,
// for the host application's own audit queries.
func (s *Store) RecentRuns(ctx context.Context, module string, limit int) ([]models.EngineRun, error) {
	if limit <= 0 || limit > 500 {
		limit = 50
	}
	const querySQL = `
		SELECT run_id, module, target, key_bit_budget, num_test_vectors, seed,
		       started_at, duration_ms, selections, coverage
		FROM engine_runs
		WHERE module = $1
		ORDER BY started_at DESC
		LIMIT $2;
	`
	rows, err := s.pool.Query(ctx, querySQL, module, limit)
	if err != nil {
		return nil, fmt.Errorf("querying engine_runs: %w", err)
	}
	defer rows.Close()

	var runs []models.EngineRun
	for rows.Next() {
		var run models.EngineRun
		var target string
		var durationMs int64
		var selections, coverage []byte
		if err := rows.Scan(&run.RunID, &run.Module, &target, &run.KeyBitBudget, &run.NumTestVectors,
			&run.Seed, &run.StartedAt, &durationMs, &selections, &coverage); err != nil {
			return nil, fmt.Errorf("scanning engine_runs row: %w", err)
		}
		run.Target = models.Target(target)
		run.Duration = time.Duration(durationMs) * time.Millisecond
		if err := json.Unmarshal(selections, &run.Selections); err != nil {
			return nil, fmt.Errorf("decoding selections: %w", err)
		}
		if err := json.Unmarshal(coverage, &run.Coverage); err != nil {
			return nil, fmt.Errorf("decoding coverage: %w", err)
		}
		runs = append(runs, run)
	}
	return runs, nil
}
