package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fieldpaper-dev/fieldpaper/internal/model"
	"github.com/fieldpaper-dev/fieldpaper/internal/service"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// SQLiteStorage implements the Storage interface using SQLite.
//
// Transactions are opened with BEGIN IMMEDIATE (_txlock=immediate), so any
// transaction started through BeginTx holds the database write lock from the
// start. That serializes concurrent period promotions the same way
// SELECT ... FOR UPDATE row locks would on a server database.
type SQLiteStorage struct {
	db     *sql.DB
	dbPath string
}

// queryable abstracts over *sql.DB and *sql.Tx so row helpers can run inside
// or outside a transaction.
type queryable interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// NewSQLiteStorage creates a new SQLite storage instance.
func NewSQLiteStorage(dbPath string) (*SQLiteStorage, error) {
	if err := validateString(dbPath, "dbPath"); err != nil {
		return nil, err
	}

	// Ensure directory exists
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000&_txlock=immediate&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Set connection pool settings
	db.SetMaxOpenConns(1) // SQLite doesn't benefit from multiple connections
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &SQLiteStorage{db: db, dbPath: dbPath}, nil
}

// Close closes the database connection.
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

// BeginTx starts a new database transaction.
func (s *SQLiteStorage) BeginTx(ctx context.Context) (service.Transaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}

	return &sqliteTransaction{
		tx:      tx,
		storage: s,
	}, nil
}

// sqliteTransaction wraps sql.Tx to implement service.Transaction.
type sqliteTransaction struct {
	tx      *sql.Tx
	storage *SQLiteStorage
}

func (t *sqliteTransaction) Commit() error {
	return t.tx.Commit()
}

func (t *sqliteTransaction) Rollback() error {
	return t.tx.Rollback()
}

// Transaction methods delegate to the main storage with the transaction.
func (t *sqliteTransaction) CreatePeriod(ctx context.Context, period *model.AccountingPeriod) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validatePeriod(period); err != nil {
		return err
	}
	return t.storage.createPeriodTx(ctx, t.tx, period)
}

func (t *sqliteTransaction) GetPeriod(ctx context.Context, clientID, periodID string) (*model.AccountingPeriod, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return t.storage.getPeriodTx(ctx, t.tx, clientID, periodID)
}

func (t *sqliteTransaction) GetPeriodForUpdate(ctx context.Context, clientID, periodID string) (*model.AccountingPeriod, error) {
	// The immediate transaction already holds the write lock; the read
	// itself is the same as GetPeriod.
	return t.GetPeriod(ctx, clientID, periodID)
}

func (t *sqliteTransaction) GetOpenPeriodForUpdate(ctx context.Context, clientID string) (*model.AccountingPeriod, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return t.storage.getOpenPeriodTx(ctx, t.tx, clientID)
}

func (t *sqliteTransaction) ListPeriods(ctx context.Context, clientID string) ([]model.AccountingPeriod, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return t.storage.listPeriodsTx(ctx, t.tx, clientID)
}

func (t *sqliteTransaction) ClearCurrentPeriods(ctx context.Context, clientID string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	return t.storage.clearCurrentPeriodsTx(ctx, t.tx, clientID)
}

func (t *sqliteTransaction) SetPeriodOpen(ctx context.Context, periodID string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	return t.storage.setPeriodOpenTx(ctx, t.tx, periodID)
}

func (t *sqliteTransaction) SetPeriodStatus(ctx context.Context, periodID string, status model.PeriodStatus, isCurrent bool) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	return t.storage.setPeriodStatusTx(ctx, t.tx, periodID, status, isCurrent)
}

func (t *sqliteTransaction) CountOpenPeriods(ctx context.Context, clientID string) (int, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}
	return t.storage.countOpenPeriodsTx(ctx, t.tx, clientID)
}

func (t *sqliteTransaction) GetDocument(ctx context.Context, clientID, periodID, code string) (*model.Document, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return t.storage.getDocumentTx(ctx, t.tx, clientID, periodID, code)
}

func (t *sqliteTransaction) ListDocuments(ctx context.Context, clientID, periodID string) ([]model.Document, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return t.storage.listDocumentsTx(ctx, t.tx, clientID, periodID)
}

func (t *sqliteTransaction) InsertDocument(ctx context.Context, doc *model.Document) (bool, error) {
	if err := validateContext(ctx); err != nil {
		return false, err
	}
	if err := validateDocument(doc); err != nil {
		return false, err
	}
	return t.storage.insertDocumentTx(ctx, t.tx, doc)
}

func (t *sqliteTransaction) SaveDocument(ctx context.Context, doc *model.Document) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateDocument(doc); err != nil {
		return err
	}
	return t.storage.saveDocumentTx(ctx, t.tx, doc)
}

func (t *sqliteTransaction) GetSignoff(ctx context.Context, clientID, periodID, code string) (*model.SignoffRecord, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return t.storage.getSignoffTx(ctx, t.tx, clientID, periodID, code)
}

func (t *sqliteTransaction) SaveSignoff(ctx context.Context, record *model.SignoffRecord) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateSignoff(record); err != nil {
		return err
	}
	return t.storage.saveSignoffTx(ctx, t.tx, record)
}

func (t *sqliteTransaction) GetPeriodSetup(ctx context.Context, clientID, periodID string) (*model.PeriodSetup, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return t.storage.getPeriodSetupTx(ctx, t.tx, clientID, periodID)
}

func (t *sqliteTransaction) SavePeriodSetup(ctx context.Context, setup *model.PeriodSetup) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	return t.storage.savePeriodSetupTx(ctx, t.tx, setup)
}

func (t *sqliteTransaction) Migrate(_ context.Context) error {
	// Migrations should not be run within a transaction
	return fmt.Errorf("migrations cannot be run within a transaction")
}

func (t *sqliteTransaction) BeginTx(_ context.Context) (service.Transaction, error) {
	// Nested transactions not supported
	return nil, fmt.Errorf("nested transactions not supported")
}

func (t *sqliteTransaction) Close() error {
	// Transactions should be committed or rolled back, not closed
	return fmt.Errorf("transactions must be committed or rolled back, not closed")
}
