// Package document serves working-paper documents: reads with computed
// values attached, blank creation from templates, and content updates.
package document

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/fieldpaper-dev/fieldpaper/internal/common"
	"github.com/fieldpaper-dev/fieldpaper/internal/materiality"
	"github.com/fieldpaper-dev/fieldpaper/internal/model"
	"github.com/fieldpaper-dev/fieldpaper/internal/schedule"
	"github.com/fieldpaper-dev/fieldpaper/internal/service"
	"github.com/fieldpaper-dev/fieldpaper/internal/templates"
)

// Service reads and writes working-paper documents.
type Service struct {
	storage service.Storage
}

// NewService creates a document service backed by the given storage.
func NewService(storage service.Storage) *Service {
	return &Service{storage: storage}
}

// Get returns one document with computed TOTAL/CALC values attached. A
// document that has never been touched in this period is created blank from
// its template first. Returns nil (no error) when the code is unknown to the
// template registry and no row exists.
func (s *Service) Get(ctx context.Context, clientID, periodID, code string) (*model.Document, error) {
	doc, err := s.storage.GetDocument(ctx, clientID, periodID, code)
	if errors.Is(err, common.ErrNotFound) {
		doc, err = s.Ensure(ctx, clientID, periodID, code)
		if err != nil || doc == nil {
			return nil, err
		}
	} else if err != nil {
		return nil, err
	}

	if ss, ok := doc.Content.(*model.SimpleSchedule); ok {
		schedule.Attach(ss)
	}
	return doc, nil
}

// Ensure creates the blank document for a (client, period, code) key if it
// does not exist yet, and returns the stored document either way. Returns
// nil when the code has no template.
func (s *Service) Ensure(ctx context.Context, clientID, periodID, code string) (*model.Document, error) {
	tpl, ok := templates.Get(code)
	if !ok {
		return nil, nil
	}

	blank := &model.Document{
		ClientID: clientID,
		PeriodID: periodID,
		Code:     code,
		Kind:     tpl.Kind,
		Version:  tpl.Version,
		Content:  tpl.Blank(),
	}
	inserted, err := s.storage.InsertDocument(ctx, blank)
	if err != nil {
		return nil, err
	}
	if inserted {
		slog.Debug("Created blank document from template",
			"client_id", clientID, "period_id", periodID, "code", code)
		return blank, nil
	}
	// Lost the insert race or the row already existed; read it back.
	return s.storage.GetDocument(ctx, clientID, periodID, code)
}

// List returns every document stored under a period.
func (s *Service) List(ctx context.Context, clientID, periodID string) ([]model.Document, error) {
	return s.storage.ListDocuments(ctx, clientID, periodID)
}

// Save replaces a document's content and completion flag.
func (s *Service) Save(ctx context.Context, doc *model.Document) error {
	if doc == nil || doc.Content == nil {
		return common.NewUserError("document content is required", nil)
	}
	if doc.Content.DocumentKind() != doc.Kind {
		return common.NewUserError(
			fmt.Sprintf("content kind %s does not match document kind %s", doc.Content.DocumentKind(), doc.Kind), nil)
	}
	return s.storage.SaveDocument(ctx, doc)
}

// GenerateMateriality renders the materiality document for a period from its
// setup record and persists it. The period must have a setup row.
func (s *Service) GenerateMateriality(ctx context.Context, clientID, periodID, code string) (*model.Document, error) {
	tpl, ok := templates.Get(code)
	if !ok || tpl.Kind != model.KindMateriality {
		return nil, common.NewUserError(fmt.Sprintf("%s is not a materiality document", code), nil)
	}

	setup, err := s.storage.GetPeriodSetup(ctx, clientID, periodID)
	if err != nil {
		return nil, err
	}

	doc, err := s.Ensure(ctx, clientID, periodID, code)
	if err != nil {
		return nil, err
	}
	doc.Content = materiality.Generate(setup, time.Now())
	if err := s.storage.SaveDocument(ctx, doc); err != nil {
		return nil, err
	}

	slog.Info("Generated materiality document",
		"client_id", clientID, "period_id", periodID, "code", code)
	return doc, nil
}
