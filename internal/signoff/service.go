// Package signoff maintains the review/completion signoff ledger for
// working-paper documents. Current-state fields are denormalized for cheap
// reads; the history is an append-only audit trail.
package signoff

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

// Kind selects which signoff a toggle targets.
type Kind string

// Signoff kinds.
const (
	KindReviewed  Kind = "REVIEWED"
	KindCompleted Kind = "COMPLETED"
)

// ToggleInput describes one signoff state change request.
type ToggleInput struct {
	ClientID string
	PeriodID string
	Code     string
	Kind     Kind
	Checked  bool
	MemberID string
}

// ToggleResult reports the outcome of a toggle. Validation failures are
// reported here rather than as errors; nothing is mutated when Success is
// false.
type ToggleResult struct {
	Success bool
	Message string
}

// Service applies signoff toggles against the storage layer.
type Service struct {
	storage service.Storage
}

// NewService creates a signoff service backed by the given storage.
func NewService(storage service.Storage) *Service {
	return &Service{storage: storage}
}

// Toggle sets or clears a signoff for one document in one period. Checking
// requires an acting member. Clearing records the member whose signoff is
// being removed in the history event. Exactly one event is appended per
// successful toggle; events are never removed or rewritten.
func (s *Service) Toggle(ctx context.Context, in ToggleInput) (ToggleResult, error) {
	if strings.TrimSpace(in.ClientID) == "" ||
		strings.TrimSpace(in.PeriodID) == "" ||
		strings.TrimSpace(in.Code) == "" {
		return ToggleResult{Message: "client id, period id and document code are required"}, nil
	}
	if in.Kind != KindReviewed && in.Kind != KindCompleted {
		return ToggleResult{Message: fmt.Sprintf("unknown signoff kind %q", in.Kind)}, nil
	}
	if in.Checked && strings.TrimSpace(in.MemberID) == "" {
		return ToggleResult{Message: "a member id is required to sign off"}, nil
	}

	tx, err := s.storage.BeginTx(ctx)
	if err != nil {
		return ToggleResult{}, err
	}
	defer func() { _ = tx.Rollback() }()

	record, err := tx.GetSignoff(ctx, in.ClientID, in.PeriodID, in.Code)
	if errors.Is(err, common.ErrNotFound) {
		record = &model.SignoffRecord{
			ClientID: in.ClientID,
			PeriodID: in.PeriodID,
			Code:     in.Code,
		}
	} else if err != nil {
		return ToggleResult{}, err
	}

	now := time.Now().UTC()
	event := buildEvent(record, in, now)
	record.History = append(record.History, event)
	record.UpdatedAt = now

	if err := tx.SaveSignoff(ctx, record); err != nil {
		return ToggleResult{}, err
	}

	// A completion signoff also flips the document's completion flag when
	// the document exists.
	if in.Kind == KindCompleted {
		if err := s.syncDocumentComplete(ctx, tx, in); err != nil {
			return ToggleResult{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		return ToggleResult{}, fmt.Errorf("failed to commit signoff: %w", err)
	}

	slog.Info("Toggled signoff",
		"client_id", in.ClientID,
		"period_id", in.PeriodID,
		"code", in.Code,
		"kind", string(in.Kind),
		"checked", in.Checked)
	return ToggleResult{Success: true}, nil
}

// buildEvent updates the record's current-state fields and returns the
// history event describing the change. Set events carry the acting member;
// cleared events carry the member previously recorded on the signoff.
func buildEvent(record *model.SignoffRecord, in ToggleInput, now time.Time) model.SignoffEvent {
	switch in.Kind {
	case KindReviewed:
		if in.Checked {
			member := in.MemberID
			record.ReviewedBy = &member
			record.ReviewedAt = &now
			return model.SignoffEvent{Type: model.EventReviewedSet, MemberID: &member, At: now}
		}
		previous := record.ReviewedBy
		record.ReviewedBy = nil
		record.ReviewedAt = nil
		return model.SignoffEvent{Type: model.EventReviewedCleared, MemberID: previous, At: now}
	default:
		if in.Checked {
			member := in.MemberID
			record.CompletedBy = &member
			record.CompletedAt = &now
			return model.SignoffEvent{Type: model.EventCompletedSet, MemberID: &member, At: now}
		}
		previous := record.CompletedBy
		record.CompletedBy = nil
		record.CompletedAt = nil
		return model.SignoffEvent{Type: model.EventCompletedCleared, MemberID: previous, At: now}
	}
}

func (s *Service) syncDocumentComplete(ctx context.Context, tx service.Transaction, in ToggleInput) error {
	doc, err := tx.GetDocument(ctx, in.ClientID, in.PeriodID, in.Code)
	if errors.Is(err, common.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if doc.Complete == in.Checked {
		return nil
	}
	doc.Complete = in.Checked
	return tx.SaveDocument(ctx, doc)
}

// Get returns the signoff record for a document, or nil when none exists.
func (s *Service) Get(ctx context.Context, clientID, periodID, code string) (*model.SignoffRecord, error) {
	record, err := s.storage.GetSignoff(ctx, clientID, periodID, code)
	if errors.Is(err, common.ErrNotFound) {
		return nil, nil
	}
	return record, err
}
