package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/fieldpaper-dev/fieldpaper/internal/common"
	"github.com/fieldpaper-dev/fieldpaper/internal/model"
)

// GetPeriodSetup retrieves the materiality setup row for one period.
func (s *SQLiteStorage) GetPeriodSetup(ctx context.Context, clientID, periodID string) (*model.PeriodSetup, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return s.getPeriodSetupTx(ctx, s.db, clientID, periodID)
}

func (s *SQLiteStorage) getPeriodSetupTx(ctx context.Context, q queryable, clientID, periodID string) (*model.PeriodSetup, error) {
	if err := validateString(clientID, "clientID"); err != nil {
		return nil, err
	}
	if err := validateString(periodID, "periodID"); err != nil {
		return nil, err
	}

	var setup model.PeriodSetup
	err := q.QueryRowContext(ctx, `
		SELECT client_id, period_id, benchmark, benchmark_current, benchmark_prior,
			materiality_current, materiality_prior, performance_current, performance_prior,
			preparer_id, reviewer_id, updated_at
		FROM period_setup
		WHERE client_id = ? AND period_id = ?
	`, clientID, periodID).Scan(
		&setup.ClientID,
		&setup.PeriodID,
		&setup.Benchmark,
		&setup.BenchmarkCurrent,
		&setup.BenchmarkPrior,
		&setup.MaterialityCurrent,
		&setup.MaterialityPrior,
		&setup.PerformanceCurrent,
		&setup.PerformancePrior,
		&setup.PreparerID,
		&setup.ReviewerID,
		&setup.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: period setup %s", common.ErrNotFound, periodID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get period setup: %w", err)
	}
	return &setup, nil
}

// SavePeriodSetup inserts or replaces a period's setup row.
func (s *SQLiteStorage) SavePeriodSetup(ctx context.Context, setup *model.PeriodSetup) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	return s.savePeriodSetupTx(ctx, s.db, setup)
}

func (s *SQLiteStorage) savePeriodSetupTx(ctx context.Context, q queryable, setup *model.PeriodSetup) error {
	if setup == nil {
		return fmt.Errorf("%w: setup", ErrNilParameter)
	}
	if err := validateString(setup.ClientID, "setup.ClientID"); err != nil {
		return err
	}
	if err := validateString(setup.PeriodID, "setup.PeriodID"); err != nil {
		return err
	}
	if setup.UpdatedAt.IsZero() {
		setup.UpdatedAt = time.Now().UTC()
	}

	_, err := q.ExecContext(ctx, `
		INSERT INTO period_setup (client_id, period_id, benchmark, benchmark_current, benchmark_prior,
			materiality_current, materiality_prior, performance_current, performance_prior,
			preparer_id, reviewer_id, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(client_id, period_id) DO UPDATE SET
			benchmark = excluded.benchmark,
			benchmark_current = excluded.benchmark_current,
			benchmark_prior = excluded.benchmark_prior,
			materiality_current = excluded.materiality_current,
			materiality_prior = excluded.materiality_prior,
			performance_current = excluded.performance_current,
			performance_prior = excluded.performance_prior,
			preparer_id = excluded.preparer_id,
			reviewer_id = excluded.reviewer_id,
			updated_at = excluded.updated_at
	`, setup.ClientID, setup.PeriodID, setup.Benchmark,
		setup.BenchmarkCurrent, setup.BenchmarkPrior,
		setup.MaterialityCurrent, setup.MaterialityPrior,
		setup.PerformanceCurrent, setup.PerformancePrior,
		setup.PreparerID, setup.ReviewerID, setup.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to save period setup: %w", err)
	}
	return nil
}
