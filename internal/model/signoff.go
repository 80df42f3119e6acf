package model

import "time"

// SignoffEventType identifies a signoff state change in the audit trail.
type SignoffEventType string

// Signoff event types.
const (
	EventReviewedSet      SignoffEventType = "REVIEWED_SET"
	EventReviewedCleared  SignoffEventType = "REVIEWED_CLEARED"
	EventCompletedSet     SignoffEventType = "COMPLETED_SET"
	EventCompletedCleared SignoffEventType = "COMPLETED_CLEARED"
)

// SignoffEvent is one entry in a signoff record's append-only history. For
// *_CLEARED events MemberID carries the member whose signoff was removed.
type SignoffEvent struct {
	Type     SignoffEventType `json:"type"`
	MemberID *string          `json:"memberId"`
	At       time.Time        `json:"at"`
}

// SignoffRecord tracks review and completion signoffs for one document in one
// period, keyed by (ClientID, PeriodID, Code). The current-state fields are
// denormalized from History for cheap reads; History itself is only ever
// appended to.
type SignoffRecord struct {
	ClientID    string
	PeriodID    string
	Code        string
	ReviewedBy  *string
	ReviewedAt  *time.Time
	CompletedBy *string
	CompletedAt *time.Time
	History     []SignoffEvent
	UpdatedAt   time.Time
}
