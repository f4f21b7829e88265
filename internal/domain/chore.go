package domain

import "time"

// CompletionMode determines how multiple assignees interact on one chore.
type CompletionMode string

const (
	// ModeIndependent gives every assignee an isolated record and schedule.
	ModeIndependent CompletionMode = "independent"
	// ModeSharedAll requires every assignee to complete the chore each cycle.
	ModeSharedAll CompletionMode = "shared_all"
	// ModeSharedFirst lets the first claimer win the cycle for everyone.
	ModeSharedFirst CompletionMode = "shared_first"
)

// IsValid checks if the mode is one of the allowed values.
func (m CompletionMode) IsValid() bool {
	switch m {
	case ModeIndependent, ModeSharedAll, ModeSharedFirst:
		return true
	default:
		return false
	}
}

// IsShared returns true when all assignees share a single due date.
func (m CompletionMode) IsShared() bool {
	return m == ModeSharedAll || m == ModeSharedFirst
}

// SharedResetRule decides what happens to a shared chore's sub-entries when a
// reset boundary arrives with only some assignees approved.
type SharedResetRule string

const (
	// SharedResetTogether clears every sub-entry at the boundary, discarding
	// partial progress.
	SharedResetTogether SharedResetRule = "reset_together"
	// SharedKeepApproved leaves approved sub-entries untouched across the
	// boundary; everyone resets only once the whole group has completed.
	SharedKeepApproved SharedResetRule = "keep_approved"
)

// IsValid checks if the rule is one of the allowed values.
func (r SharedResetRule) IsValid() bool {
	return r == SharedResetTogether || r == SharedKeepApproved
}

// Chore is the configuration of a recurring or one-off household task.
// Configuration is rarely mutated; all runtime state lives on Records.
type Chore struct {
	ID          string
	Title       string
	Description string
	Points      float64
	AssigneeIDs []string

	Mode        CompletionMode
	Reset       ResetPolicy
	Overdue     OverduePolicy
	SharedReset SharedResetRule

	Recurrence     Recurrence
	ApplicableDays []time.Weekday // nil means unrestricted

	// DueAt is the task-level due anchor, shared by SharedAll/SharedFirst.
	DueAt *time.Time
	// DueOverrides holds per-assignee due anchors, Independent mode only.
	DueOverrides map[string]time.Time

	AutoApprove bool

	NotifyOnClaim    bool
	NotifyOnApproval bool
	NotifyOnOverdue  bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Clone returns a copy sharing no slices, maps or pointers with the
// original, safe to hand to callers outside the owning goroutine.
func (c *Chore) Clone() *Chore {
	cp := *c
	if c.AssigneeIDs != nil {
		cp.AssigneeIDs = append([]string(nil), c.AssigneeIDs...)
	}
	if c.ApplicableDays != nil {
		cp.ApplicableDays = append([]time.Weekday(nil), c.ApplicableDays...)
	}
	if c.Recurrence.Times != nil {
		cp.Recurrence.Times = append([]string(nil), c.Recurrence.Times...)
	}
	if c.DueOverrides != nil {
		cp.DueOverrides = make(map[string]time.Time, len(c.DueOverrides))
		for id, due := range c.DueOverrides {
			cp.DueOverrides[id] = due
		}
	}
	if c.DueAt != nil {
		d := *c.DueAt
		cp.DueAt = &d
	}
	return &cp
}

// HasAssignee checks if the assignee is currently assigned to the chore.
func (c *Chore) HasAssignee(assigneeID string) bool {
	for _, id := range c.AssigneeIDs {
		if id == assigneeID {
			return true
		}
	}
	return false
}

// AnchorFor returns the due anchor for an assignee, honoring Independent-mode
// overrides. Shared modes always use the task-level anchor.
func (c *Chore) AnchorFor(assigneeID string) *time.Time {
	if c.Mode == ModeIndependent {
		if due, ok := c.DueOverrides[assigneeID]; ok {
			d := due
			return &d
		}
	}
	return c.DueAt
}
