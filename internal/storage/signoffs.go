package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/fieldpaper-dev/fieldpaper/internal/common"
	"github.com/fieldpaper-dev/fieldpaper/internal/model"
)

// GetSignoff retrieves the signoff record for one document in one period.
func (s *SQLiteStorage) GetSignoff(ctx context.Context, clientID, periodID, code string) (*model.SignoffRecord, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return s.getSignoffTx(ctx, s.db, clientID, periodID, code)
}

func (s *SQLiteStorage) getSignoffTx(ctx context.Context, q queryable, clientID, periodID, code string) (*model.SignoffRecord, error) {
	if err := validateString(clientID, "clientID"); err != nil {
		return nil, err
	}
	if err := validateString(periodID, "periodID"); err != nil {
		return nil, err
	}
	if err := validateString(code, "code"); err != nil {
		return nil, err
	}

	var record model.SignoffRecord
	var history string
	err := q.QueryRowContext(ctx, `
		SELECT client_id, period_id, code, reviewed_by, reviewed_at, completed_by, completed_at, history, updated_at
		FROM signoffs
		WHERE client_id = ? AND period_id = ? AND code = ?
	`, clientID, periodID, code).Scan(
		&record.ClientID,
		&record.PeriodID,
		&record.Code,
		&record.ReviewedBy,
		&record.ReviewedAt,
		&record.CompletedBy,
		&record.CompletedAt,
		&history,
		&record.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: signoff %s", common.ErrNotFound, code)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get signoff: %w", err)
	}

	if err := json.Unmarshal([]byte(history), &record.History); err != nil {
		return nil, fmt.Errorf("failed to decode signoff history: %w", err)
	}
	return &record, nil
}

// SaveSignoff inserts or replaces a signoff record. History is stored as a
// JSON array; callers only ever append to it.
func (s *SQLiteStorage) SaveSignoff(ctx context.Context, record *model.SignoffRecord) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateSignoff(record); err != nil {
		return err
	}
	return s.saveSignoffTx(ctx, s.db, record)
}

func (s *SQLiteStorage) saveSignoffTx(ctx context.Context, q queryable, record *model.SignoffRecord) error {
	history := record.History
	if history == nil {
		history = []model.SignoffEvent{}
	}
	raw, err := json.Marshal(history)
	if err != nil {
		return fmt.Errorf("failed to encode signoff history: %w", err)
	}
	if record.UpdatedAt.IsZero() {
		record.UpdatedAt = time.Now().UTC()
	}

	_, err = q.ExecContext(ctx, `
		INSERT INTO signoffs (client_id, period_id, code, reviewed_by, reviewed_at, completed_by, completed_at, history, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(client_id, period_id, code) DO UPDATE SET
			reviewed_by = excluded.reviewed_by,
			reviewed_at = excluded.reviewed_at,
			completed_by = excluded.completed_by,
			completed_at = excluded.completed_at,
			history = excluded.history,
			updated_at = excluded.updated_at
	`, record.ClientID, record.PeriodID, record.Code,
		record.ReviewedBy, record.ReviewedAt,
		record.CompletedBy, record.CompletedAt,
		string(raw), record.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to save signoff: %w", err)
	}
	return nil
}
