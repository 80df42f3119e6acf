package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/fieldpaper-dev/fieldpaper/internal/common"
	"github.com/fieldpaper-dev/fieldpaper/internal/model"

	"github.com/mattn/go-sqlite3"
)

// isUniqueConstraint reports whether err is a SQLite unique-constraint
// violation. Detection is by the driver's typed error codes, never by
// message matching.
func isUniqueConstraint(err error) bool {
	var serr sqlite3.Error
	if errors.As(err, &serr) {
		return serr.Code == sqlite3.ErrConstraint &&
			serr.ExtendedCode == sqlite3.ErrConstraintUnique
	}
	return false
}

// CreatePeriod inserts a new accounting period.
func (s *SQLiteStorage) CreatePeriod(ctx context.Context, period *model.AccountingPeriod) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validatePeriod(period); err != nil {
		return err
	}
	return s.createPeriodTx(ctx, s.db, period)
}

func (s *SQLiteStorage) createPeriodTx(ctx context.Context, q queryable, period *model.AccountingPeriod) error {
	now := time.Now().UTC()
	if period.CreatedAt.IsZero() {
		period.CreatedAt = now
	}
	period.UpdatedAt = now

	_, err := q.ExecContext(ctx, `
		INSERT INTO periods (id, client_id, name, start_date, end_date, status, is_current, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, period.ID, period.ClientID, period.Name, period.StartDate, period.EndDate,
		string(period.Status), boolToInt(period.IsCurrent), period.CreatedAt, period.UpdatedAt)
	if err != nil {
		if isUniqueConstraint(err) {
			return fmt.Errorf("%w: period %s", common.ErrDuplicateEntry, period.ID)
		}
		return fmt.Errorf("failed to create period: %w", err)
	}
	return nil
}

// GetPeriod retrieves a period by id, scoped to the owning client.
func (s *SQLiteStorage) GetPeriod(ctx context.Context, clientID, periodID string) (*model.AccountingPeriod, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return s.getPeriodTx(ctx, s.db, clientID, periodID)
}

// GetPeriodForUpdate behaves like GetPeriod. Outside a transaction there is
// no lock to hold; callers that need the locked variant go through BeginTx.
func (s *SQLiteStorage) GetPeriodForUpdate(ctx context.Context, clientID, periodID string) (*model.AccountingPeriod, error) {
	return s.GetPeriod(ctx, clientID, periodID)
}

func (s *SQLiteStorage) getPeriodTx(ctx context.Context, q queryable, clientID, periodID string) (*model.AccountingPeriod, error) {
	if err := validateString(clientID, "clientID"); err != nil {
		return nil, err
	}
	if err := validateString(periodID, "periodID"); err != nil {
		return nil, err
	}

	row := q.QueryRowContext(ctx, `
		SELECT id, client_id, name, start_date, end_date, status, is_current, created_at, updated_at
		FROM periods
		WHERE id = ? AND client_id = ?
	`, periodID, clientID)

	period, err := scanPeriod(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: period %s", common.ErrNotFound, periodID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get period: %w", err)
	}
	return period, nil
}

// GetOpenPeriodForUpdate returns the client's OPEN period, or nil when none
// exists.
func (s *SQLiteStorage) GetOpenPeriodForUpdate(ctx context.Context, clientID string) (*model.AccountingPeriod, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return s.getOpenPeriodTx(ctx, s.db, clientID)
}

func (s *SQLiteStorage) getOpenPeriodTx(ctx context.Context, q queryable, clientID string) (*model.AccountingPeriod, error) {
	if err := validateString(clientID, "clientID"); err != nil {
		return nil, err
	}

	row := q.QueryRowContext(ctx, `
		SELECT id, client_id, name, start_date, end_date, status, is_current, created_at, updated_at
		FROM periods
		WHERE client_id = ? AND status = 'OPEN'
	`, clientID)

	period, err := scanPeriod(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get open period: %w", err)
	}
	return period, nil
}

// ListPeriods returns all periods for a client ordered by start date.
func (s *SQLiteStorage) ListPeriods(ctx context.Context, clientID string) ([]model.AccountingPeriod, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return s.listPeriodsTx(ctx, s.db, clientID)
}

func (s *SQLiteStorage) listPeriodsTx(ctx context.Context, q queryable, clientID string) ([]model.AccountingPeriod, error) {
	if err := validateString(clientID, "clientID"); err != nil {
		return nil, err
	}

	rows, err := q.QueryContext(ctx, `
		SELECT id, client_id, name, start_date, end_date, status, is_current, created_at, updated_at
		FROM periods
		WHERE client_id = ?
		ORDER BY start_date, id
	`, clientID)
	if err != nil {
		return nil, fmt.Errorf("failed to list periods: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var periods []model.AccountingPeriod
	for rows.Next() {
		period, scanErr := scanPeriod(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("failed to scan period: %w", scanErr)
		}
		periods = append(periods, *period)
	}
	return periods, rows.Err()
}

// ClearCurrentPeriods drops the is_current flag on every period of a client.
func (s *SQLiteStorage) ClearCurrentPeriods(ctx context.Context, clientID string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	return s.clearCurrentPeriodsTx(ctx, s.db, clientID)
}

func (s *SQLiteStorage) clearCurrentPeriodsTx(ctx context.Context, q queryable, clientID string) error {
	if err := validateString(clientID, "clientID"); err != nil {
		return err
	}
	_, err := q.ExecContext(ctx, `
		UPDATE periods SET is_current = 0, updated_at = ? WHERE client_id = ?
	`, time.Now().UTC(), clientID)
	if err != nil {
		return fmt.Errorf("failed to clear current periods: %w", err)
	}
	return nil
}

// SetPeriodOpen marks a period OPEN and current. A unique-constraint
// violation on the one-open-per-client index surfaces as ErrDuplicateEntry
// so callers can translate it into a domain conflict.
func (s *SQLiteStorage) SetPeriodOpen(ctx context.Context, periodID string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	return s.setPeriodOpenTx(ctx, s.db, periodID)
}

func (s *SQLiteStorage) setPeriodOpenTx(ctx context.Context, q queryable, periodID string) error {
	if err := validateString(periodID, "periodID"); err != nil {
		return err
	}
	_, err := q.ExecContext(ctx, `
		UPDATE periods SET status = 'OPEN', is_current = 1, updated_at = ? WHERE id = ?
	`, time.Now().UTC(), periodID)
	if err != nil {
		if isUniqueConstraint(err) {
			return fmt.Errorf("%w: open period constraint", common.ErrDuplicateEntry)
		}
		return fmt.Errorf("failed to open period: %w", err)
	}
	return nil
}

// SetPeriodStatus updates a period's status and is_current flag.
func (s *SQLiteStorage) SetPeriodStatus(ctx context.Context, periodID string, status model.PeriodStatus, isCurrent bool) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	return s.setPeriodStatusTx(ctx, s.db, periodID, status, isCurrent)
}

func (s *SQLiteStorage) setPeriodStatusTx(ctx context.Context, q queryable, periodID string, status model.PeriodStatus, isCurrent bool) error {
	if err := validateString(periodID, "periodID"); err != nil {
		return err
	}
	if !status.Valid() {
		return fmt.Errorf("%w: unknown status %q", ErrInvalidPeriod, status)
	}
	res, err := q.ExecContext(ctx, `
		UPDATE periods SET status = ?, is_current = ?, updated_at = ? WHERE id = ?
	`, string(status), boolToInt(isCurrent), time.Now().UTC(), periodID)
	if err != nil {
		if isUniqueConstraint(err) {
			return fmt.Errorf("%w: open period constraint", common.ErrDuplicateEntry)
		}
		return fmt.Errorf("failed to update period status: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check period update: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: period %s", common.ErrNotFound, periodID)
	}
	return nil
}

// CountOpenPeriods returns the number of OPEN periods for a client.
func (s *SQLiteStorage) CountOpenPeriods(ctx context.Context, clientID string) (int, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}
	return s.countOpenPeriodsTx(ctx, s.db, clientID)
}

func (s *SQLiteStorage) countOpenPeriodsTx(ctx context.Context, q queryable, clientID string) (int, error) {
	if err := validateString(clientID, "clientID"); err != nil {
		return 0, err
	}
	var count int
	err := q.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM periods WHERE client_id = ? AND status = 'OPEN'
	`, clientID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count open periods: %w", err)
	}
	return count, nil
}

// rowScanner covers *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanPeriod(row rowScanner) (*model.AccountingPeriod, error) {
	var period model.AccountingPeriod
	var status string
	var isCurrent int
	err := row.Scan(
		&period.ID,
		&period.ClientID,
		&period.Name,
		&period.StartDate,
		&period.EndDate,
		&status,
		&isCurrent,
		&period.CreatedAt,
		&period.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	period.Status = model.PeriodStatus(status)
	period.IsCurrent = isCurrent != 0
	return &period, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
