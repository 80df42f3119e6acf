// Package rollforward copies a period's working papers into the next period,
// applying the per-kind content reset so the new period starts from the
// prior period's structure without its entered values.
package rollforward

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

// Options controls roll-forward behavior.
type Options struct {
	// Overwrite replaces documents already present at the target period.
	// When false the first copy wins and later attempts are skipped.
	Overwrite bool
	// ResetComplete forces the copied document's completion flag to false.
	ResetComplete bool
}

// DefaultOptions returns the standard roll-forward options: no overwrite,
// completion flags reset.
func DefaultOptions() Options {
	return Options{ResetComplete: true}
}

// Result reports what a roll-forward changed.
type Result struct {
	Considered  int
	Copied      int
	Overwritten int
}

// Engine performs period-to-period document roll-forward.
type Engine struct {
	storage service.Storage
}

// New creates a roll-forward engine backed by the given storage.
func New(storage service.Storage) *Engine {
	return &Engine{storage: storage}
}

// RollForward copies every document under the source period into the target
// period inside one transaction. Rolling a period onto itself is a no-op.
// The period setup record is shifted alongside: current benchmark amounts
// become the new period's prior amounts, and current amounts plus
// preparer/reviewer assignments are cleared.
func (e *Engine) RollForward(ctx context.Context, clientID, fromPeriodID, toPeriodID string, opts Options) (Result, error) {
	if strings.TrimSpace(clientID) == "" ||
		strings.TrimSpace(fromPeriodID) == "" ||
		strings.TrimSpace(toPeriodID) == "" {
		return Result{}, common.NewUserError("client id and both period ids are required", nil)
	}
	if fromPeriodID == toPeriodID {
		return Result{}, nil
	}

	tx, err := e.storage.BeginTx(ctx)
	if err != nil {
		return Result{}, err
	}
	defer func() { _ = tx.Rollback() }()

	// Both periods must exist and belong to the client.
	if _, err := tx.GetPeriod(ctx, clientID, fromPeriodID); err != nil {
		return Result{}, err
	}
	if _, err := tx.GetPeriod(ctx, clientID, toPeriodID); err != nil {
		return Result{}, err
	}

	docs, err := tx.ListDocuments(ctx, clientID, fromPeriodID)
	if err != nil {
		return Result{}, err
	}

	var result Result
	result.Considered = len(docs)
	now := time.Now().UTC()

	for _, src := range docs {
		target := model.Document{
			ClientID:  clientID,
			PeriodID:  toPeriodID,
			Code:      src.Code,
			Kind:      src.Kind,
			Version:   src.Version,
			Content:   ResetContent(src.Content),
			Complete:  src.Complete,
			CreatedAt: now,
		}
		if opts.ResetComplete {
			target.Complete = false
		}

		if opts.Overwrite {
			existing, getErr := tx.GetDocument(ctx, clientID, toPeriodID, src.Code)
			if getErr != nil && !errors.Is(getErr, common.ErrNotFound) {
				return Result{}, getErr
			}
			if saveErr := tx.SaveDocument(ctx, &target); saveErr != nil {
				return Result{}, saveErr
			}
			if existing != nil {
				result.Overwritten++
			} else {
				result.Copied++
			}
			continue
		}

		inserted, insErr := tx.InsertDocument(ctx, &target)
		if insErr != nil {
			return Result{}, insErr
		}
		if inserted {
			result.Copied++
		}
	}

	if err := e.shiftSetup(ctx, tx, clientID, fromPeriodID, toPeriodID, opts); err != nil {
		return Result{}, err
	}

	if err := tx.Commit(); err != nil {
		return Result{}, fmt.Errorf("failed to commit roll-forward: %w", err)
	}

	slog.Info("Rolled period forward",
		"client_id", clientID,
		"from_period_id", fromPeriodID,
		"to_period_id", toPeriodID,
		"considered", result.Considered,
		"copied", result.Copied,
		"overwritten", result.Overwritten)
	return result, nil
}

// shiftSetup carries the source period's setup into the target: current
// values shift into the prior slots, current values and assignments clear.
// An existing target setup is preserved unless Overwrite is set.
func (e *Engine) shiftSetup(ctx context.Context, tx service.Transaction, clientID, fromPeriodID, toPeriodID string, opts Options) error {
	source, err := tx.GetPeriodSetup(ctx, clientID, fromPeriodID)
	if errors.Is(err, common.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	if !opts.Overwrite {
		if _, err := tx.GetPeriodSetup(ctx, clientID, toPeriodID); err == nil {
			return nil
		} else if !errors.Is(err, common.ErrNotFound) {
			return err
		}
	}

	shifted := &model.PeriodSetup{
		ClientID:         clientID,
		PeriodID:         toPeriodID,
		Benchmark:        source.Benchmark,
		BenchmarkPrior:   source.BenchmarkCurrent,
		MaterialityPrior: source.MaterialityCurrent,
		PerformancePrior: source.PerformanceCurrent,
	}
	return tx.SavePeriodSetup(ctx, shifted)
}
