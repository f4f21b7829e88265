package domain

import "time"

// EventType represents the type of lifecycle event.
type EventType string

const (
	EventClaimed        EventType = "claimed"
	EventApproved       EventType = "approved"
	EventDisapproved    EventType = "disapproved"
	EventReset          EventType = "reset"
	EventOverdueEntered EventType = "overdue_entered"
	EventSkipped        EventType = "skipped"
	EventDueDateSet     EventType = "due_date_set"
)

// Event is an immutable lifecycle event emitted by the orchestrator and
// consumed by the points, badge and notification collaborators.
type Event struct {
	ID         string
	ChoreID    string
	AssigneeID *string // nil for chore-wide system events
	Type       EventType
	OldState   *RecordState
	NewState   *RecordState

	// Points is the amount credited or debited, set on approved/disapproved.
	Points *float64

	Comment   string
	CreatedAt time.Time
}

// IsSystemEvent returns true if the event was produced by the periodic sweep
// rather than an assignee action.
func (e *Event) IsSystemEvent() bool {
	return e.AssigneeID == nil
}

// LedgerEntry is one append-only row in the points ledger.
type LedgerEntry struct {
	ID         string
	AssigneeID string
	ChoreID    string

	// Delta is positive for awards and negative for deductions.
	Delta      float64
	Multiplier float64

	BalanceAfter float64
	Reason       string
	CreatedAt    time.Time
}
