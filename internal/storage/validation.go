// Package storage provides the data persistence layer for the fieldpaper application.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/fieldpaper-dev/fieldpaper/internal/model"
)

// Validation errors.
var (
	ErrNilContext     = errors.New("context cannot be nil")
	ErrEmptyString    = errors.New("string parameter cannot be empty")
	ErrNilParameter   = errors.New("parameter cannot be nil")
	ErrInvalidPeriod  = errors.New("invalid accounting period")
	ErrInvalidDoc     = errors.New("invalid document")
	ErrInvalidSignoff = errors.New("invalid signoff record")
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

// validatePeriod validates an accounting period before it is written.
func validatePeriod(period *model.AccountingPeriod) error {
	if period == nil {
		return fmt.Errorf("%w: period", ErrNilParameter)
	}
	if strings.TrimSpace(period.ID) == "" {
		return fmt.Errorf("%w: missing id", ErrInvalidPeriod)
	}
	if strings.TrimSpace(period.ClientID) == "" {
		return fmt.Errorf("%w: missing client id", ErrInvalidPeriod)
	}
	if strings.TrimSpace(period.Name) == "" {
		return fmt.Errorf("%w: missing name", ErrInvalidPeriod)
	}
	if !period.Status.Valid() {
		return fmt.Errorf("%w: unknown status %q", ErrInvalidPeriod, period.Status)
	}
	if !period.StartDate.Before(period.EndDate) {
		return fmt.Errorf("%w: start date must be before end date", ErrInvalidPeriod)
	}
	return nil
}

// validateDocument validates a document before it is written.
func validateDocument(doc *model.Document) error {
	if doc == nil {
		return fmt.Errorf("%w: doc", ErrNilParameter)
	}
	if strings.TrimSpace(doc.ClientID) == "" {
		return fmt.Errorf("%w: missing client id", ErrInvalidDoc)
	}
	if strings.TrimSpace(doc.PeriodID) == "" {
		return fmt.Errorf("%w: missing period id", ErrInvalidDoc)
	}
	if strings.TrimSpace(doc.Code) == "" {
		return fmt.Errorf("%w: missing code", ErrInvalidDoc)
	}
	if doc.Content == nil {
		return fmt.Errorf("%w: missing content", ErrInvalidDoc)
	}
	if doc.Content.DocumentKind() != doc.Kind {
		return fmt.Errorf("%w: content kind %s does not match document kind %s",
			ErrInvalidDoc, doc.Content.DocumentKind(), doc.Kind)
	}
	return nil
}

// validateSignoff validates a signoff record before it is written.
func validateSignoff(record *model.SignoffRecord) error {
	if record == nil {
		return fmt.Errorf("%w: record", ErrNilParameter)
	}
	if strings.TrimSpace(record.ClientID) == "" ||
		strings.TrimSpace(record.PeriodID) == "" ||
		strings.TrimSpace(record.Code) == "" {
		return fmt.Errorf("%w: missing key fields", ErrInvalidSignoff)
	}
	return nil
}
