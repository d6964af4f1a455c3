// Package store persists run results to PostgreSQL. The sink is optional;
// downstream consumers that prefer the tabular CLI output or the snapshot
// export never touch it.
package store

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dd0wney/cluso-orgnet/pkg/macro"
	"github.com/dd0wney/cluso-orgnet/pkg/simulation"
)

// PGStore writes unit metric and simulation result tables to PostgreSQL
type PGStore struct {
	pool *pgxpool.Pool
}

// NewPGStore connects to the database and ensures the result tables exist
func NewPGStore(ctx context.Context, databaseURL string) (*PGStore, error) {
	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database URL: %w", err)
	}

	config.MaxConns = 10
	config.MaxConnLifetime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("database unreachable: %w", err)
	}

	s := &PGStore{pool: pool}
	if err := s.migrate(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("migration failed: %w", err)
	}

	return s, nil
}

// Ping checks database connectivity
func (s *PGStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Close closes the connection pool
func (s *PGStore) Close() error {
	s.pool.Close()
	return nil
}

func (s *PGStore) migrate(ctx context.Context) error {
	ddl := []string{
		`CREATE TABLE IF NOT EXISTS unit_metrics (
			run_id TEXT NOT NULL,
			community_id TEXT NOT NULL,
			size INT NOT NULL,
			fragmentation_impact_pct DOUBLE PRECISION NOT NULL,
			ei_index DOUBLE PRECISION,
			ei_count DOUBLE PRECISION,
			avg_response_hours DOUBLE PRECISION,
			bottleneck_density_pct DOUBLE PRECISION NOT NULL,
			workload_skew_pct DOUBLE PRECISION,
			typology TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			PRIMARY KEY (run_id, community_id)
		)`,
		`CREATE TABLE IF NOT EXISTS simulation_results (
			run_id TEXT NOT NULL,
			community_id TEXT NOT NULL,
			archetype TEXT NOT NULL,
			lcc_before INT NOT NULL,
			lcc_after INT NOT NULL,
			lcc_loss_pct DOUBLE PRECISION NOT NULL,
			removed TEXT[] NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			PRIMARY KEY (run_id, community_id, archetype)
		)`,
	}

	for _, stmt := range ddl {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply DDL: %w", err)
		}
	}
	return nil
}

// SaveUnitMetrics writes the unit metric table for a run
func (s *PGStore) SaveUnitMetrics(ctx context.Context, runID string, records []*macro.UnitRecord) error {
	query := `
		INSERT INTO unit_metrics (run_id, community_id, size, fragmentation_impact_pct,
			ei_index, ei_count, avg_response_hours, bottleneck_density_pct,
			workload_skew_pct, typology)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	for _, rec := range records {
		_, err := s.pool.Exec(ctx, query,
			runID,
			rec.CommunityID,
			rec.Size,
			rec.FragmentationPct,
			rec.EIWeight,
			rec.EICount,
			rec.AvgResponseHours,
			rec.BottleneckDensityPct,
			rec.WorkloadSkewPct,
			rec.Typology,
		)
		if err != nil {
			return fmt.Errorf("failed to save unit metrics for %s: %w", rec.CommunityID, err)
		}
	}
	return nil
}

// SaveSimulationResults writes the simulation result table for a run
func (s *PGStore) SaveSimulationResults(ctx context.Context, runID string, results []*simulation.Result) error {
	query := `
		INSERT INTO simulation_results (run_id, community_id, archetype,
			lcc_before, lcc_after, lcc_loss_pct, removed)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	for _, res := range results {
		for _, trial := range []simulation.Trial{res.Absorber, res.Connector} {
			_, err := s.pool.Exec(ctx, query,
				runID,
				trial.CommunityID,
				string(trial.Archetype),
				trial.LCCBefore,
				trial.LCCAfter,
				trial.LossPct,
				trial.Removed,
			)
			if err != nil {
				return fmt.Errorf("failed to save simulation result for %s/%s: %w",
					trial.CommunityID, trial.Archetype, err)
			}
		}
	}
	return nil
}
