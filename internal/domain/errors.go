package domain

import "errors"

// Domain-specific errors for runtime operations. An operation returning one
// of these leaves every record unchanged.
var (
	// Chore errors
	ErrChoreNotFound   = errors.New("chore not found")
	ErrAlreadyClaimed  = errors.New("chore already claimed")
	ErrAlreadyApproved = errors.New("chore already approved this cycle")
	ErrNoRecurrence    = errors.New("chore has no recurrence")
	ErrDueDateInPast   = errors.New("due date is in the past")
	ErrNegativePoints  = errors.New("points override must not be negative")
	ErrSharedDueDate   = errors.New("shared chores have a single due date")

	// Assignee errors
	ErrAssigneeNotFound = errors.New("assignee not found")
	ErrAssigneeInactive = errors.New("assignee is inactive")
	ErrNotAssigned      = errors.New("assignee is not assigned to chore")
	ErrNotAuthorized    = errors.New("not authorized")
	ErrInvalidToken     = errors.New("invalid authentication token")

	// Record errors
	ErrRecordRetired = errors.New("record is retired")
	ErrNotClaimed    = errors.New("chore is not claimed or approved")
)
