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

// GetDocument retrieves one working-paper document.
func (s *SQLiteStorage) GetDocument(ctx context.Context, clientID, periodID, code string) (*model.Document, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return s.getDocumentTx(ctx, s.db, clientID, periodID, code)
}

func (s *SQLiteStorage) getDocumentTx(ctx context.Context, q queryable, clientID, periodID, code string) (*model.Document, error) {
	if err := validateString(clientID, "clientID"); err != nil {
		return nil, err
	}
	if err := validateString(periodID, "periodID"); err != nil {
		return nil, err
	}
	if err := validateString(code, "code"); err != nil {
		return nil, err
	}

	row := q.QueryRowContext(ctx, `
		SELECT client_id, period_id, code, kind, version, content, complete, created_at, updated_at
		FROM documents
		WHERE client_id = ? AND period_id = ? AND code = ?
	`, clientID, periodID, code)

	doc, err := scanDocument(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: document %s", common.ErrNotFound, code)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get document: %w", err)
	}
	return doc, nil
}

// ListDocuments returns all documents in a period ordered by code.
func (s *SQLiteStorage) ListDocuments(ctx context.Context, clientID, periodID string) ([]model.Document, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return s.listDocumentsTx(ctx, s.db, clientID, periodID)
}

func (s *SQLiteStorage) listDocumentsTx(ctx context.Context, q queryable, clientID, periodID string) ([]model.Document, error) {
	if err := validateString(clientID, "clientID"); err != nil {
		return nil, err
	}
	if err := validateString(periodID, "periodID"); err != nil {
		return nil, err
	}

	rows, err := q.QueryContext(ctx, `
		SELECT client_id, period_id, code, kind, version, content, complete, created_at, updated_at
		FROM documents
		WHERE client_id = ? AND period_id = ?
		ORDER BY code
	`, clientID, periodID)
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var docs []model.Document
	for rows.Next() {
		doc, scanErr := scanDocument(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("failed to scan document: %w", scanErr)
		}
		docs = append(docs, *doc)
	}
	return docs, rows.Err()
}

// InsertDocument inserts a document if no row exists for its
// (period_id, code) key. It reports whether the insert happened, giving
// first-insert-wins semantics without a prior read.
func (s *SQLiteStorage) InsertDocument(ctx context.Context, doc *model.Document) (bool, error) {
	if err := validateContext(ctx); err != nil {
		return false, err
	}
	if err := validateDocument(doc); err != nil {
		return false, err
	}
	return s.insertDocumentTx(ctx, s.db, doc)
}

func (s *SQLiteStorage) insertDocumentTx(ctx context.Context, q queryable, doc *model.Document) (bool, error) {
	raw, err := model.EncodeContent(doc.Content)
	if err != nil {
		return false, err
	}
	now := time.Now().UTC()
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = now
	}
	doc.UpdatedAt = now

	res, err := q.ExecContext(ctx, `
		INSERT INTO documents (client_id, period_id, code, kind, version, content, complete, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(period_id, code) DO NOTHING
	`, doc.ClientID, doc.PeriodID, doc.Code, string(doc.Kind), doc.Version, string(raw),
		boolToInt(doc.Complete), doc.CreatedAt, doc.UpdatedAt)
	if err != nil {
		return false, fmt.Errorf("failed to insert document: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to check document insert: %w", err)
	}
	return affected > 0, nil
}

// SaveDocument inserts or replaces a document for its (period_id, code) key.
func (s *SQLiteStorage) SaveDocument(ctx context.Context, doc *model.Document) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateDocument(doc); err != nil {
		return err
	}
	return s.saveDocumentTx(ctx, s.db, doc)
}

func (s *SQLiteStorage) saveDocumentTx(ctx context.Context, q queryable, doc *model.Document) error {
	raw, err := model.EncodeContent(doc.Content)
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = now
	}
	doc.UpdatedAt = now

	_, err = q.ExecContext(ctx, `
		INSERT INTO documents (client_id, period_id, code, kind, version, content, complete, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(period_id, code) DO UPDATE SET
			kind = excluded.kind,
			version = excluded.version,
			content = excluded.content,
			complete = excluded.complete,
			updated_at = excluded.updated_at
	`, doc.ClientID, doc.PeriodID, doc.Code, string(doc.Kind), doc.Version, string(raw),
		boolToInt(doc.Complete), doc.CreatedAt, doc.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to save document: %w", err)
	}
	return nil
}

func scanDocument(row rowScanner) (*model.Document, error) {
	var doc model.Document
	var kind, content string
	var complete int
	err := row.Scan(
		&doc.ClientID,
		&doc.PeriodID,
		&doc.Code,
		&kind,
		&doc.Version,
		&content,
		&complete,
		&doc.CreatedAt,
		&doc.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	doc.Kind = model.DocumentKind(kind)
	doc.Complete = complete != 0
	doc.Content, err = model.DecodeContent(doc.Kind, []byte(content))
	if err != nil {
		return nil, err
	}
	return &doc, nil
}
