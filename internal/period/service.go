package period

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/fieldpaper-dev/fieldpaper/internal/common"
	"github.com/fieldpaper-dev/fieldpaper/internal/model"
	"github.com/fieldpaper-dev/fieldpaper/internal/service"
)

// InvariantError reports a broken internal guarantee discovered by a
// self-check. It is a defect signal, not an expected runtime failure; the
// enclosing transaction has been rolled back when it is returned.
type InvariantError struct {
	ClientID  string
	OpenCount int
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("invariant violation: client %s has %d open periods after promotion", e.ClientID, e.OpenCount)
}

// Service coordinates period lifecycle changes against the storage layer.
type Service struct {
	storage service.Storage
}

// NewService creates a period service backed by the given storage.
func NewService(storage service.Storage) *Service {
	return &Service{storage: storage}
}

// PromoteResult reports the outcome of a promotion request.
type PromoteResult struct {
	Promoted bool
}

// PromoteToOpen makes the target period the client's single OPEN, current
// period. The whole operation runs in one write transaction so concurrent
// promotion attempts for the same client serialize on the store's lock.
//
// Promotion is idempotent: promoting an already-OPEN period reports
// Promoted=false without touching state. If a different period is OPEN the
// call fails with common.ErrConflictingOpenPeriod and nothing is mutated.
func (s *Service) PromoteToOpen(ctx context.Context, clientID, periodID string) (PromoteResult, error) {
	if strings.TrimSpace(clientID) == "" || strings.TrimSpace(periodID) == "" {
		return PromoteResult{}, common.NewUserError("client id and period id are required", nil)
	}

	tx, err := s.storage.BeginTx(ctx)
	if err != nil {
		return PromoteResult{}, err
	}
	defer func() { _ = tx.Rollback() }()

	target, err := tx.GetPeriodForUpdate(ctx, clientID, periodID)
	if err != nil {
		return PromoteResult{}, err
	}

	if target.Status == model.PeriodOpen {
		if err := tx.Commit(); err != nil {
			return PromoteResult{}, fmt.Errorf("failed to commit promotion: %w", err)
		}
		slog.Debug("Period already open, promotion is a no-op",
			"client_id", clientID, "period_id", periodID)
		return PromoteResult{Promoted: false}, nil
	}

	open, err := tx.GetOpenPeriodForUpdate(ctx, clientID)
	if err != nil {
		return PromoteResult{}, err
	}
	if open != nil && open.ID != target.ID {
		return PromoteResult{}, fmt.Errorf("%w: period %s", common.ErrConflictingOpenPeriod, open.ID)
	}

	// The conflict check above already rejected every state that could make
	// this fail; a failure here is a logic defect, not user input.
	if err := ValidateTransition(target.Status, model.PeriodOpen); err != nil {
		return PromoteResult{}, fmt.Errorf("promotion guard failed for period %s (status %s): %w",
			target.ID, target.Status, err)
	}

	if err := tx.ClearCurrentPeriods(ctx, clientID); err != nil {
		return PromoteResult{}, err
	}

	if err := tx.SetPeriodOpen(ctx, target.ID); err != nil {
		// A unique-constraint race that slipped past the lock reads is the
		// same conflict as an observed open period.
		if errors.Is(err, common.ErrDuplicateEntry) {
			return PromoteResult{}, fmt.Errorf("%w: constraint violation on open", common.ErrConflictingOpenPeriod)
		}
		return PromoteResult{}, err
	}

	// Defense in depth: re-count inside the transaction before committing.
	count, err := tx.CountOpenPeriods(ctx, clientID)
	if err != nil {
		return PromoteResult{}, err
	}
	if count != 1 {
		return PromoteResult{}, &InvariantError{ClientID: clientID, OpenCount: count}
	}

	if err := tx.Commit(); err != nil {
		return PromoteResult{}, fmt.Errorf("failed to commit promotion: %w", err)
	}

	slog.Info("Promoted period to open",
		"client_id", clientID,
		"period_id", periodID,
		"previous_status", string(target.Status))
	return PromoteResult{Promoted: true}, nil
}

// Create adds a new PLANNED period for a client. The date range is fixed
// from this point on.
func (s *Service) Create(ctx context.Context, clientID, name string, start, end time.Time) (*model.AccountingPeriod, error) {
	if strings.TrimSpace(clientID) == "" {
		return nil, common.NewUserError("client id is required", nil)
	}
	if strings.TrimSpace(name) == "" {
		return nil, common.NewUserError("period name is required", nil)
	}
	if !start.Before(end) {
		return nil, common.NewUserError("period start date must be before its end date", nil)
	}

	p := &model.AccountingPeriod{
		ID:        model.NewID(),
		ClientID:  clientID,
		Name:      name,
		StartDate: start,
		EndDate:   end,
		Status:    model.PeriodPlanned,
	}
	if err := s.storage.CreatePeriod(ctx, p); err != nil {
		return nil, err
	}

	slog.Info("Created period",
		"client_id", clientID, "period_id", p.ID, "name", name)
	return p, nil
}

// Close transitions a period out of OPEN into CLOSING or CLOSED and drops
// its current flag. Closing a period that already has the target status is a
// no-op.
func (s *Service) Close(ctx context.Context, clientID, periodID string, to model.PeriodStatus) error {
	if to != model.PeriodClosing && to != model.PeriodClosed {
		return common.NewUserError(fmt.Sprintf("cannot close a period to status %s", to), nil)
	}

	tx, err := s.storage.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	target, err := tx.GetPeriodForUpdate(ctx, clientID, periodID)
	if err != nil {
		return err
	}
	if target.Status == to {
		return tx.Commit()
	}
	if err := ValidateTransition(target.Status, to); err != nil {
		return err
	}
	if err := tx.SetPeriodStatus(ctx, target.ID, to, false); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit close: %w", err)
	}

	slog.Info("Closed period",
		"client_id", clientID, "period_id", periodID, "status", string(to))
	return nil
}

// Get returns one period.
func (s *Service) Get(ctx context.Context, clientID, periodID string) (*model.AccountingPeriod, error) {
	return s.storage.GetPeriod(ctx, clientID, periodID)
}

// List returns a client's periods ordered by start date.
func (s *Service) List(ctx context.Context, clientID string) ([]model.AccountingPeriod, error) {
	return s.storage.ListPeriods(ctx, clientID)
}
