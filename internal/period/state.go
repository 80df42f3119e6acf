// Package period implements the accounting-period lifecycle: the status
// state machine and the promotion coordinator that keeps at most one period
// open per client.
package period

import (
	"fmt"

	"github.com/fieldpaper-dev/fieldpaper/internal/model"
)

// TransitionError reports an illegal status transition request.
type TransitionError struct {
	From model.PeriodStatus
	To   model.PeriodStatus
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("illegal period transition from %s to %s", e.From, e.To)
}

// successors lists the allowed next statuses per status. CLOSING and CLOSED
// are terminal in the current rule set.
var successors = map[model.PeriodStatus][]model.PeriodStatus{
	model.PeriodPlanned: {model.PeriodOpen},
	model.PeriodOpen:    {model.PeriodClosing, model.PeriodClosed},
	model.PeriodClosing: {},
	model.PeriodClosed:  {},
}

// ValidateTransition checks whether moving from one status to another is
// legal.
// A self-transition is always legal (idempotent no-op). Any other pair not in
// the allowed-successor set fails with a TransitionError.
func ValidateTransition(from, to model.PeriodStatus) error {
	if from == to {
		return nil
	}
	for _, next := range successors[from] {
		if next == to {
			return nil
		}
	}
	return &TransitionError{From: from, To: to}
}

// CanTransition reports whether the transition is legal.
func CanTransition(from, to model.PeriodStatus) bool {
	return ValidateTransition(from, to) == nil
}
