package dto

import (
	"time"

	"github.com/ccpk1/kidschores-ha-sub014/internal/domain"
)

// RecurrenceSpec is the recurrence block of a chore request.
type RecurrenceSpec struct {
	Kind       string   `json:"kind"`
	Interval   int      `json:"interval,omitempty"`
	Unit       string   `json:"unit,omitempty"`
	Times      []string `json:"times,omitempty"`
	PinWeekday bool     `json:"pin_weekday,omitempty"`
}

// ResetSpec is the approval-reset block of a chore request.
type ResetSpec struct {
	Kind         string `json:"kind"`
	Boundary     string `json:"boundary,omitempty"`
	PendingClaim string `json:"pending_claim,omitempty"`
}

// CreateChoreRequest represents the request body for POST /chores.
type CreateChoreRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	Points      float64  `json:"points"`
	AssigneeIDs []string `json:"assignee_ids"`

	Mode        string         `json:"mode"`
	Reset       ResetSpec      `json:"reset"`
	Overdue     string         `json:"overdue"`
	SharedReset string         `json:"shared_reset,omitempty"`
	Recurrence  RecurrenceSpec `json:"recurrence"`

	ApplicableDays *[]int               `json:"applicable_days,omitempty"`
	DueAt          *time.Time           `json:"due_at,omitempty"`
	DueOverrides   map[string]time.Time `json:"due_overrides,omitempty"`

	AutoApprove bool `json:"auto_approve,omitempty"`

	NotifyOnClaim    bool `json:"notify_on_claim,omitempty"`
	NotifyOnApproval bool `json:"notify_on_approval,omitempty"`
	NotifyOnOverdue  bool `json:"notify_on_overdue,omitempty"`
}

// ToChore converts the request into a domain chore for validation.
func (r CreateChoreRequest) ToChore() *domain.Chore {
	chore := &domain.Chore{
		Title:       r.Title,
		Description: r.Description,
		Points:      r.Points,
		AssigneeIDs: r.AssigneeIDs,
		Mode:        domain.CompletionMode(r.Mode),
		Reset: domain.ResetPolicy{
			Kind:         domain.ResetKind(r.Reset.Kind),
			Boundary:     domain.ResetBoundary(r.Reset.Boundary),
			PendingClaim: domain.PendingClaimRule(r.Reset.PendingClaim),
		},
		Overdue:     domain.OverduePolicy(r.Overdue),
		SharedReset: domain.SharedResetRule(r.SharedReset),
		Recurrence: domain.Recurrence{
			Kind:       domain.RecurrenceKind(r.Recurrence.Kind),
			Interval:   r.Recurrence.Interval,
			Unit:       domain.IntervalUnit(r.Recurrence.Unit),
			Times:      r.Recurrence.Times,
			PinWeekday: r.Recurrence.PinWeekday,
		},
		DueAt:            r.DueAt,
		DueOverrides:     r.DueOverrides,
		AutoApprove:      r.AutoApprove,
		NotifyOnClaim:    r.NotifyOnClaim,
		NotifyOnApproval: r.NotifyOnApproval,
		NotifyOnOverdue:  r.NotifyOnOverdue,
	}
	if r.Recurrence.Kind == "" {
		chore.Recurrence.Kind = domain.RecurrenceNone
	}
	// Absent means unrestricted; an explicit empty list is preserved so
	// validation can reject it.
	if r.ApplicableDays != nil {
		days := make([]time.Weekday, 0, len(*r.ApplicableDays))
		for _, d := range *r.ApplicableDays {
			days = append(days, time.Weekday(d))
		}
		chore.ApplicableDays = days
	}
	return chore
}

// CreateAssigneeRequest represents the request body for POST /assignees.
type CreateAssigneeRequest struct {
	Name       string `json:"name"`
	Token      string `json:"token"`
	IsApprover bool   `json:"is_approver,omitempty"`
}

// ClaimRequest represents the request body for POST /chores/{id}/claim.
// AssigneeID defaults to the authenticated caller.
type ClaimRequest struct {
	AssigneeID *string `json:"assignee_id,omitempty"`
}

// ApproveRequest represents the request body for POST /chores/{id}/approve.
type ApproveRequest struct {
	AssigneeID     string   `json:"assignee_id"`
	PointsOverride *float64 `json:"points_override,omitempty"`
}

// DisapproveRequest represents the request body for POST /chores/{id}/disapprove.
type DisapproveRequest struct {
	AssigneeID string `json:"assignee_id"`
}

// SkipRequest represents the request body for POST /chores/{id}/skip.
type SkipRequest struct {
	AssigneeID *string `json:"assignee_id,omitempty"`
}

// SetDueDateRequest represents the request body for PUT /chores/{id}/due-date.
// A nil due_at clears the due date.
type SetDueDateRequest struct {
	DueAt      *time.Time `json:"due_at"`
	AssigneeID *string    `json:"assignee_id,omitempty"`
}
