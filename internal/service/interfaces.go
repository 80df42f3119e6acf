// Package service defines the interfaces for all application services.
package service

import (
	"context"

	"github.com/fieldpaper-dev/fieldpaper/internal/model"
)

// Storage defines the contract for our persistence layer.
//
// The ...ForUpdate variants must be called inside a transaction; they read
// with the intent to mutate, and the store is expected to hold whatever lock
// serializes concurrent writers for the duration of that transaction.
type Storage interface {
	// Period operations
	CreatePeriod(ctx context.Context, period *model.AccountingPeriod) error
	GetPeriod(ctx context.Context, clientID, periodID string) (*model.AccountingPeriod, error)
	GetPeriodForUpdate(ctx context.Context, clientID, periodID string) (*model.AccountingPeriod, error)
	GetOpenPeriodForUpdate(ctx context.Context, clientID string) (*model.AccountingPeriod, error)
	ListPeriods(ctx context.Context, clientID string) ([]model.AccountingPeriod, error)
	ClearCurrentPeriods(ctx context.Context, clientID string) error
	SetPeriodOpen(ctx context.Context, periodID string) error
	SetPeriodStatus(ctx context.Context, periodID string, status model.PeriodStatus, isCurrent bool) error
	CountOpenPeriods(ctx context.Context, clientID string) (int, error)

	// Document operations
	GetDocument(ctx context.Context, clientID, periodID, code string) (*model.Document, error)
	ListDocuments(ctx context.Context, clientID, periodID string) ([]model.Document, error)
	InsertDocument(ctx context.Context, doc *model.Document) (bool, error)
	SaveDocument(ctx context.Context, doc *model.Document) error

	// Signoff operations
	GetSignoff(ctx context.Context, clientID, periodID, code string) (*model.SignoffRecord, error)
	SaveSignoff(ctx context.Context, record *model.SignoffRecord) error

	// Period setup operations
	GetPeriodSetup(ctx context.Context, clientID, periodID string) (*model.PeriodSetup, error)
	SavePeriodSetup(ctx context.Context, setup *model.PeriodSetup) error

	// Database management
	Migrate(ctx context.Context) error
	BeginTx(ctx context.Context) (Transaction, error)
	Close() error
}

// Transaction represents a database transaction.
type Transaction interface {
	Commit() error
	Rollback() error
	// Include all Storage methods for use within transaction
	Storage
}
