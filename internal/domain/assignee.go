package domain

import "time"

// Assignee is a participant who can be assigned chores and accrue points.
type Assignee struct {
	ID   string
	Name string

	// Token authenticates automation calls made on the assignee's behalf.
	Token string

	// IsApprover allows the assignee to approve, disapprove, skip and
	// reschedule chores for others.
	IsApprover bool

	IsActive  bool
	CreatedAt time.Time
}
