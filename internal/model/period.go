// Package model defines the core domain types shared across the application.
package model

import "time"

// PeriodStatus describes where an accounting period sits in its lifecycle.
type PeriodStatus string

// Accounting period lifecycle statuses.
const (
	PeriodPlanned PeriodStatus = "PLANNED"
	PeriodOpen    PeriodStatus = "OPEN"
	PeriodClosing PeriodStatus = "CLOSING"
	PeriodClosed  PeriodStatus = "CLOSED"
)

// Valid reports whether the status is one of the known lifecycle statuses.
func (s PeriodStatus) Valid() bool {
	switch s {
	case PeriodPlanned, PeriodOpen, PeriodClosing, PeriodClosed:
		return true
	}
	return false
}

// AccountingPeriod is a client's fieldwork period. The date range is fixed at
// creation; only Status and IsCurrent change afterwards. A client has at most
// one period with Status == PeriodOpen at any time.
type AccountingPeriod struct {
	ID        string
	ClientID  string
	Name      string
	StartDate time.Time
	EndDate   time.Time
	Status    PeriodStatus
	IsCurrent bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
