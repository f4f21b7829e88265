package domain

// ResetBoundary is the instant at which an approved record becomes claimable
// again.
type ResetBoundary string

const (
	// BoundaryMidnight resets at the next local midnight.
	BoundaryMidnight ResetBoundary = "midnight"
	// BoundaryDueDate resets when the cycle's due date passes.
	BoundaryDueDate ResetBoundary = "due_date"
)

// IsValid checks if the boundary is one of the allowed values.
func (b ResetBoundary) IsValid() bool {
	return b == BoundaryMidnight || b == BoundaryDueDate
}

// ResetKind identifies the approval-reset behavior of a chore.
type ResetKind string

const (
	// ResetAtBoundaryOnce keeps the record Approved until the boundary; a
	// second claim before the boundary fails with ErrAlreadyApproved.
	ResetAtBoundaryOnce ResetKind = "at_boundary_once"
	// ResetAtBoundaryMulti accepts additional claims before the boundary,
	// each approval awarding points independently.
	ResetAtBoundaryMulti ResetKind = "at_boundary_multi"
	// ResetUponCompletion reverts to Pending immediately on every approval.
	ResetUponCompletion ResetKind = "upon_completion"
)

// IsValid checks if the kind is one of the allowed values.
func (k ResetKind) IsValid() bool {
	switch k {
	case ResetAtBoundaryOnce, ResetAtBoundaryMulti, ResetUponCompletion:
		return true
	default:
		return false
	}
}

// PendingClaimRule decides what happens to a still-unapproved claim when the
// reset boundary is crossed.
type PendingClaimRule string

const (
	// ClaimClear discards the claim at the boundary; no credit is given.
	ClaimClear PendingClaimRule = "clear"
	// ClaimHold carries the claim across the boundary. The eventual approval
	// then lands inside the next cycle, which may skip that cycle's earning
	// opportunity. Accepted, documented behavior.
	ClaimHold PendingClaimRule = "hold"
	// ClaimAutoApprove synthesizes an approval at the boundary instant before
	// the normal reset applies.
	ClaimAutoApprove PendingClaimRule = "auto_approve"
)

// IsValid checks if the rule is one of the allowed values.
func (r PendingClaimRule) IsValid() bool {
	switch r {
	case ClaimClear, ClaimHold, ClaimAutoApprove:
		return true
	default:
		return false
	}
}

// ResetPolicy bundles the approval-reset configuration of a chore.
type ResetPolicy struct {
	Kind         ResetKind
	Boundary     ResetBoundary    // unused for ResetUponCompletion
	PendingClaim PendingClaimRule // defaults to ClaimClear
}

// HasBoundary returns true for policies that track a reset boundary.
func (p ResetPolicy) HasBoundary() bool {
	return p.Kind == ResetAtBoundaryOnce || p.Kind == ResetAtBoundaryMulti
}

// AllowsRepeatClaims returns true when a claim is accepted on an already
// approved record within the same cycle.
func (p ResetPolicy) AllowsRepeatClaims() bool {
	return p.Kind == ResetAtBoundaryMulti
}

// OverduePolicy governs how a record enters and leaves the Overdue state.
type OverduePolicy string

const (
	// OverdueRecoverLate is the default: an approval landing after the reset
	// boundary immediately re-opens the cycle instead of waiting for the
	// next boundary.
	OverdueRecoverLate OverduePolicy = "recover_on_late_approval"
	// OverdueClearAtBoundary clears an Overdue record to Pending at the next
	// midnight whether or not it was approved. Only valid with
	// midnight-boundary reset policies.
	OverdueClearAtBoundary OverduePolicy = "clear_at_next_boundary"
	// OverduePersist keeps the record Overdue until an approval occurs.
	OverduePersist OverduePolicy = "persist_until_approved"
	// OverdueNever disables overdue tracking; due dates are informational.
	OverdueNever OverduePolicy = "never"
)

// IsValid checks if the policy is one of the allowed values.
func (p OverduePolicy) IsValid() bool {
	switch p {
	case OverdueRecoverLate, OverdueClearAtBoundary, OverduePersist, OverdueNever:
		return true
	default:
		return false
	}
}
