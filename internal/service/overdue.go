package service

import (
	"time"

	"github.com/ccpk1/kidschores-ha-sub014/internal/domain"
	"github.com/ccpk1/kidschores-ha-sub014/internal/schedule"
)

// Overdue policy engine. A record can only become Overdue from Pending;
// claimed records are immune ("claimed protects from overdue").

// entersOverdue reports whether a Pending record has passed its due date and
// the policy tracks overdue at all.
func entersOverdue(p domain.OverduePolicy, rec *domain.Record, now time.Time) bool {
	if p == domain.OverdueNever {
		return false
	}
	return rec.State == domain.StatePending &&
		rec.DueAt != nil &&
		now.After(*rec.DueAt)
}

// lateApproval reports whether an approval happening now, on a record that
// was Overdue, lands after the cycle's reset boundary. Under
// RecoverOnLateApproval such an approval immediately re-opens the cycle
// instead of waiting for the next boundary, so a late approval never costs
// the assignee a whole earning cycle.
func lateApproval(calc *schedule.Calculator, op domain.OverduePolicy, rp domain.ResetPolicy, rec *domain.Record, now time.Time) bool {
	if op != domain.OverdueRecoverLate {
		return false
	}
	if !rp.HasBoundary() {
		// UponCompletion resets immediately anyway.
		return false
	}
	b := cycleBoundary(calc, rp, rec.DueAt)
	return b != nil && now.After(*b)
}

// clearsAtMidnight reports whether an Overdue record is unconditionally
// cleared now: ClearAtNextBoundary wipes it at the first midnight after the
// missed due date, approved or not.
func clearsAtMidnight(calc *schedule.Calculator, p domain.OverduePolicy, rec *domain.Record, now time.Time) bool {
	if p != domain.OverdueClearAtBoundary {
		return false
	}
	if rec.State != domain.StateOverdue || rec.DueAt == nil {
		return false
	}
	return !now.Before(calc.Midnight(*rec.DueAt))
}
