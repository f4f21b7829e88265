package service

import (
	"time"

	"github.com/ccpk1/kidschores-ha-sub014/internal/domain"
	"github.com/ccpk1/kidschores-ha-sub014/internal/schedule"
)

// Approval-reset policy engine: pure boundary arithmetic. The orchestrator
// performs the actual transitions.

// resetBoundaryAfter returns the reset boundary governing an approval at the
// given instant, or nil when the policy tracks no boundary (UponCompletion).
//
// For a due-date boundary whose due has already passed (a late approval that
// still landed Approved), the boundary is the approval instant itself: the
// record reverts at the next sweep rather than waiting a full extra cycle.
func resetBoundaryAfter(calc *schedule.Calculator, p domain.ResetPolicy, approvedAt time.Time, due *time.Time) *time.Time {
	if !p.HasBoundary() {
		return nil
	}
	switch p.Boundary {
	case domain.BoundaryMidnight:
		b := calc.Midnight(approvedAt)
		return &b
	case domain.BoundaryDueDate:
		if due == nil {
			return nil
		}
		if due.After(approvedAt) {
			d := *due
			return &d
		}
		b := approvedAt
		return &b
	}
	return nil
}

// shouldReset reports whether an Approved record's boundary has passed.
func shouldReset(calc *schedule.Calculator, p domain.ResetPolicy, rec *domain.Record, now time.Time) bool {
	if rec.State != domain.StateApproved || rec.ApprovedAt == nil {
		return false
	}
	b := resetBoundaryAfter(calc, p, *rec.ApprovedAt, rec.DueAt)
	return b != nil && !now.Before(*b)
}

// cycleBoundary returns the boundary that closes the record's current cycle:
// the due date itself, or the midnight following it. This is the instant a
// late approval is compared against.
func cycleBoundary(calc *schedule.Calculator, p domain.ResetPolicy, due *time.Time) *time.Time {
	if !p.HasBoundary() || due == nil {
		return nil
	}
	switch p.Boundary {
	case domain.BoundaryMidnight:
		b := calc.Midnight(*due)
		return &b
	case domain.BoundaryDueDate:
		d := *due
		return &d
	}
	return nil
}

// claimBoundary returns the boundary at which a still-unapproved claim is
// resolved via the pending-claim rule.
func claimBoundary(calc *schedule.Calculator, p domain.ResetPolicy, claimedAt time.Time, due *time.Time) *time.Time {
	if !p.HasBoundary() {
		return nil
	}
	if p.Boundary == domain.BoundaryDueDate {
		if due == nil || !due.After(claimedAt) {
			// Claim landed after the due date; the cycle boundary has
			// already passed, so nothing is left to resolve.
			return nil
		}
		d := *due
		return &d
	}
	b := calc.Midnight(claimedAt)
	return &b
}

// pendingClaimRule returns the configured rule with the documented default.
func pendingClaimRule(p domain.ResetPolicy) domain.PendingClaimRule {
	if p.PendingClaim == "" {
		return domain.ClaimClear
	}
	return p.PendingClaim
}
