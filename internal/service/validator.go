package service

import (
	"fmt"

	"github.com/ccpk1/kidschores-ha-sub014/internal/domain"
	"github.com/ccpk1/kidschores-ha-sub014/internal/schedule"
)

// ValidateChore checks a chore configuration against the full compatibility
// matrix (mode x reset policy x overdue policy x recurrence) in one place,
// returning every offending field rather than failing on the first. A chore
// that passes here cannot reach an invalid policy combination at runtime.
func ValidateChore(chore *domain.Chore) error {
	var errs domain.ValidationErrors

	add := func(field, format string, args ...any) {
		errs = append(errs, domain.ValidationError{Field: field, Reason: fmt.Sprintf(format, args...)})
	}

	if chore.Title == "" {
		add("title", "title is required")
	}
	if chore.Points < 0 {
		add("points", "points must not be negative")
	}
	if len(chore.AssigneeIDs) == 0 {
		add("assignee_ids", "at least one assignee is required")
	}
	if !chore.Mode.IsValid() {
		add("mode", "unknown completion mode %q", chore.Mode)
	}
	if !chore.Reset.Kind.IsValid() {
		add("reset.kind", "unknown reset kind %q", chore.Reset.Kind)
	}
	if chore.Reset.HasBoundary() && !chore.Reset.Boundary.IsValid() {
		add("reset.boundary", "unknown reset boundary %q", chore.Reset.Boundary)
	}
	if chore.Reset.PendingClaim != "" && !chore.Reset.PendingClaim.IsValid() {
		add("reset.pending_claim", "unknown pending-claim rule %q", chore.Reset.PendingClaim)
	}
	if !chore.Overdue.IsValid() {
		add("overdue", "unknown overdue policy %q", chore.Overdue)
	}
	if chore.SharedReset != "" && !chore.SharedReset.IsValid() {
		add("shared_reset", "unknown shared reset rule %q", chore.SharedReset)
	}
	if !chore.Recurrence.Kind.IsValid() && chore.Recurrence.Kind != "" {
		add("recurrence.kind", "unknown recurrence kind %q", chore.Recurrence.Kind)
	}

	// Recurrence parameters.
	switch chore.Recurrence.Kind {
	case domain.RecurrenceCustom, domain.RecurrenceFromCompletion:
		if chore.Recurrence.Interval < 1 {
			add("recurrence.interval", "interval must be >= 1, got %d", chore.Recurrence.Interval)
		}
		if !chore.Recurrence.Unit.IsValid() {
			add("recurrence.unit", "unknown interval unit %q", chore.Recurrence.Unit)
		}
	case domain.RecurrenceDailyMulti:
		if _, err := schedule.ParseSlots(chore.Recurrence.Times); err != nil {
			add("recurrence.times", "%v", err)
		}
	}

	// Applicable-days filter must never eliminate every weekday. A nil
	// filter means unrestricted; an explicitly empty one means "no day".
	if chore.ApplicableDays != nil && len(chore.ApplicableDays) == 0 {
		add("applicable_days", "filter eliminates all seven days")
	}
	for _, d := range chore.ApplicableDays {
		if d < 0 || d > 6 {
			add("applicable_days", "invalid weekday %d", d)
		}
	}

	// DailyMulti slots roll multiple times per day; a boundary-based reset
	// would hold an approval past later slots, so only UponCompletion works.
	if chore.Recurrence.Kind == domain.RecurrenceDailyMulti &&
		chore.Reset.Kind != domain.ResetUponCompletion {
		add("reset.kind", "daily_multi recurrence requires the upon_completion reset policy")
	}

	// ClearAtNextBoundary assumes midnight cycles.
	if chore.Overdue == domain.OverdueClearAtBoundary {
		if !chore.Reset.HasBoundary() || chore.Reset.Boundary != domain.BoundaryMidnight {
			add("overdue", "clear_at_next_boundary requires a midnight-boundary reset policy")
		}
	}

	// A due-date boundary is meaningless without a due date to cross.
	if chore.Reset.HasBoundary() && chore.Reset.Boundary == domain.BoundaryDueDate {
		if chore.DueAt == nil && len(chore.DueOverrides) == 0 && chore.Recurrence.IsNone() {
			add("reset.boundary", "due_date boundary requires a due anchor or a recurrence")
		}
	}

	// Per-assignee schedules belong to Independent mode only; shared chores
	// have one due date.
	if chore.Mode.IsShared() && len(chore.DueOverrides) > 0 {
		add("due_overrides", "per-assignee due overrides require independent mode")
	}
	for id := range chore.DueOverrides {
		if !chore.HasAssignee(id) {
			add("due_overrides", "override for unassigned assignee %q", id)
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}
