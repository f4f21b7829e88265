package dto

import (
	"time"

	"github.com/ccpk1/kidschores-ha-sub014/internal/domain"
)

// ChoreResponse represents a chore configuration.
type ChoreResponse struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	Points      float64  `json:"points"`
	AssigneeIDs []string `json:"assignee_ids"`

	Mode        string         `json:"mode"`
	Reset       ResetSpec      `json:"reset"`
	Overdue     string         `json:"overdue"`
	SharedReset string         `json:"shared_reset,omitempty"`
	Recurrence  RecurrenceSpec `json:"recurrence"`

	ApplicableDays []int      `json:"applicable_days,omitempty"`
	DueAt          *time.Time `json:"due_at,omitempty"`

	AutoApprove bool `json:"auto_approve"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// RecordResponse represents the runtime state of one (chore, assignee) pair.
type RecordResponse struct {
	ChoreID          string     `json:"chore_id"`
	AssigneeID       string     `json:"assignee_id"`
	State            string     `json:"state"`
	DueAt            *time.Time `json:"due_at"`
	ClaimedAt        *time.Time `json:"claimed_at,omitempty"`
	ApprovedAt       *time.Time `json:"approved_at,omitempty"`
	CycleCompletions int        `json:"cycle_completions"`
	Retired          bool       `json:"retired,omitempty"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// ChoreDetailResponse represents a chore with its records and event history.
type ChoreDetailResponse struct {
	Chore         ChoreResponse    `json:"chore"`
	Records       []RecordResponse `json:"records"`
	FullyComplete bool             `json:"fully_complete"`
	Events        []EventResponse  `json:"events"`
}

// ChoreListItem is one entry of the chore list with its aggregate state.
type ChoreListItem struct {
	ChoreResponse
	FullyComplete bool `json:"fully_complete"`
}

// ChoresListResponse represents the response for GET /chores.
type ChoresListResponse struct {
	Chores []ChoreListItem `json:"chores"`
	Total  int             `json:"total"`
}

// EventResponse represents a single lifecycle event.
type EventResponse struct {
	ID         string    `json:"id"`
	ChoreID    string    `json:"chore_id"`
	AssigneeID *string   `json:"assignee_id"`
	Type       string    `json:"type"`
	OldState   *string   `json:"old_state"`
	NewState   *string   `json:"new_state"`
	Points     *float64  `json:"points,omitempty"`
	Comment    string    `json:"comment,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// AssigneeResponse represents a participant. The token is never echoed.
type AssigneeResponse struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	IsApprover bool      `json:"is_approver"`
	IsActive   bool      `json:"is_active"`
	Balance    float64   `json:"balance"`
	CreatedAt  time.Time `json:"created_at"`
}

// LedgerEntryResponse represents one row of the point history.
type LedgerEntryResponse struct {
	ID           string    `json:"id"`
	ChoreID      string    `json:"chore_id"`
	Delta        float64   `json:"delta"`
	Multiplier   float64   `json:"multiplier"`
	BalanceAfter float64   `json:"balance_after"`
	Reason       string    `json:"reason,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// BalanceResponse represents the response for GET /assignees/{id}/balance.
type BalanceResponse struct {
	AssigneeID string  `json:"assignee_id"`
	Balance    float64 `json:"balance"`
	Streak     int     `json:"streak"`
	Multiplier float64 `json:"multiplier"`
}

// LedgerResponse represents the response for GET /assignees/{id}/ledger.
type LedgerResponse struct {
	AssigneeID string                `json:"assignee_id"`
	Balance    float64               `json:"balance"`
	Entries    []LedgerEntryResponse `json:"entries"`
}

// CalendarResponse represents projected future occurrences.
type CalendarResponse struct {
	ChoreID     string      `json:"chore_id"`
	Occurrences []time.Time `json:"occurrences"`
}

// ToChoreResponse converts a domain.Chore.
func ToChoreResponse(chore *domain.Chore) ChoreResponse {
	resp := ChoreResponse{
		ID:          chore.ID,
		Title:       chore.Title,
		Description: chore.Description,
		Points:      chore.Points,
		AssigneeIDs: chore.AssigneeIDs,
		Mode:        string(chore.Mode),
		Reset: ResetSpec{
			Kind:         string(chore.Reset.Kind),
			Boundary:     string(chore.Reset.Boundary),
			PendingClaim: string(chore.Reset.PendingClaim),
		},
		Overdue:     string(chore.Overdue),
		SharedReset: string(chore.SharedReset),
		Recurrence: RecurrenceSpec{
			Kind:       string(chore.Recurrence.Kind),
			Interval:   chore.Recurrence.Interval,
			Unit:       string(chore.Recurrence.Unit),
			Times:      chore.Recurrence.Times,
			PinWeekday: chore.Recurrence.PinWeekday,
		},
		DueAt:       chore.DueAt,
		AutoApprove: chore.AutoApprove,
		CreatedAt:   chore.CreatedAt,
		UpdatedAt:   chore.UpdatedAt,
	}
	if chore.ApplicableDays != nil {
		resp.ApplicableDays = make([]int, 0, len(chore.ApplicableDays))
		for _, d := range chore.ApplicableDays {
			resp.ApplicableDays = append(resp.ApplicableDays, int(d))
		}
	}
	return resp
}

// ToRecordResponse converts a domain.Record.
func ToRecordResponse(rec *domain.Record) RecordResponse {
	return RecordResponse{
		ChoreID:          rec.ChoreID,
		AssigneeID:       rec.AssigneeID,
		State:            string(rec.State),
		DueAt:            rec.DueAt,
		ClaimedAt:        rec.ClaimedAt,
		ApprovedAt:       rec.ApprovedAt,
		CycleCompletions: rec.CycleCompletions,
		Retired:          rec.Retired,
		UpdatedAt:        rec.UpdatedAt,
	}
}

// ToEventResponse converts a domain.Event.
func ToEventResponse(event *domain.Event) EventResponse {
	resp := EventResponse{
		ID:         event.ID,
		ChoreID:    event.ChoreID,
		AssigneeID: event.AssigneeID,
		Type:       string(event.Type),
		Points:     event.Points,
		Comment:    event.Comment,
		CreatedAt:  event.CreatedAt,
	}
	if event.OldState != nil {
		s := string(*event.OldState)
		resp.OldState = &s
	}
	if event.NewState != nil {
		s := string(*event.NewState)
		resp.NewState = &s
	}
	return resp
}

// ToAssigneeResponse converts a domain.Assignee with its current balance.
func ToAssigneeResponse(a *domain.Assignee, balance float64) AssigneeResponse {
	return AssigneeResponse{
		ID:         a.ID,
		Name:       a.Name,
		IsApprover: a.IsApprover,
		IsActive:   a.IsActive,
		Balance:    balance,
		CreatedAt:  a.CreatedAt,
	}
}

// ToLedgerEntryResponse converts a domain.LedgerEntry.
func ToLedgerEntryResponse(entry *domain.LedgerEntry) LedgerEntryResponse {
	return LedgerEntryResponse{
		ID:           entry.ID,
		ChoreID:      entry.ChoreID,
		Delta:        entry.Delta,
		Multiplier:   entry.Multiplier,
		BalanceAfter: entry.BalanceAfter,
		Reason:       entry.Reason,
		CreatedAt:    entry.CreatedAt,
	}
}
