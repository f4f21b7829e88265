package domain

import "time"

// RecordState is the lifecycle state of one (chore, assignee) record.
// Exactly one state holds at any instant.
type RecordState string

const (
	StatePending          RecordState = "pending"
	StateClaimed          RecordState = "claimed"
	StateApproved         RecordState = "approved"
	StateOverdue          RecordState = "overdue"
	StateCompletedByOther RecordState = "completed_by_other"
)

// IsValid checks if the state is one of the allowed values.
func (s RecordState) IsValid() bool {
	switch s {
	case StatePending, StateClaimed, StateApproved, StateOverdue, StateCompletedByOther:
		return true
	default:
		return false
	}
}

// Record is the mutable runtime state for one (chore, assignee) pair. It is
// created on first assignment, mutated only by the orchestrator, and retired
// (never deleted) when the assignment is removed.
type Record struct {
	ChoreID    string
	AssigneeID string

	State RecordState
	DueAt *time.Time

	ClaimedAt  *time.Time
	ApprovedAt *time.Time

	// CycleStartAt marks the current approval/overdue cycle for
	// reset-boundary comparisons.
	CycleStartAt time.Time

	// CycleCompletions counts approvals within the current cycle, used by
	// the Multi reset variants.
	CycleCompletions int

	// LastAward is the total points credited on the most recent approval,
	// deducted again if that approval is reversed.
	LastAward float64

	Retired   bool
	UpdatedAt time.Time
}

// Clone returns a copy whose time pointers do not alias the original.
func (r *Record) Clone() *Record {
	cp := *r
	cp.DueAt = cloneTime(r.DueAt)
	cp.ClaimedAt = cloneTime(r.ClaimedAt)
	cp.ApprovedAt = cloneTime(r.ApprovedAt)
	return &cp
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	d := *t
	return &d
}

// Holds returns true while the record occupies the cycle's claim slot.
func (r *Record) Holds() bool {
	return r.State == StateClaimed || r.State == StateApproved
}

// Claimable returns true when a fresh claim may land on the record.
func (r *Record) Claimable() bool {
	return r.State == StatePending || r.State == StateOverdue
}
