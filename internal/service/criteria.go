package service

import (
	"fmt"
	"time"

	"github.com/ccpk1/kidschores-ha-sub014/internal/domain"
)

// Completion-criteria resolver: pure decisions over the per-assignee records
// of one chore. Nothing here touches stores, clocks or events; the
// orchestrator applies the results.

// holderOf returns the record currently holding a SharedFirst chore, i.e.
// the one Claimed or Approved this cycle, if any.
func holderOf(records []*domain.Record) *domain.Record {
	for _, rec := range records {
		if !rec.Retired && rec.Holds() {
			return rec
		}
	}
	return nil
}

// canClaim decides whether a claim by rec's assignee is accepted right now.
func canClaim(chore *domain.Chore, records []*domain.Record, rec *domain.Record) error {
	if rec.Retired {
		return domain.ErrRecordRetired
	}

	if chore.Mode == domain.ModeSharedFirst {
		if h := holderOf(records); h != nil {
			return fmt.Errorf("%w: held by %s", domain.ErrAlreadyClaimed, h.AssigneeID)
		}
		if rec.State == domain.StateCompletedByOther {
			// No holder but still marked: stale state, treat as claimable.
			return nil
		}
		return nil
	}

	switch rec.State {
	case domain.StateClaimed:
		return fmt.Errorf("%w: claimed at %s", domain.ErrAlreadyClaimed, rec.ClaimedAt)
	case domain.StateApproved:
		if chore.Reset.AllowsRepeatClaims() {
			return nil
		}
		return domain.ErrAlreadyApproved
	default:
		return nil
	}
}

// applyClaim transitions rec to Claimed and, for SharedFirst, locks every
// other assignee out of the cycle. Returns all mutated records.
func applyClaim(chore *domain.Chore, records []*domain.Record, rec *domain.Record, now time.Time) []*domain.Record {
	rec.State = domain.StateClaimed
	claimed := now
	rec.ClaimedAt = &claimed
	rec.UpdatedAt = now
	touched := []*domain.Record{rec}

	if chore.Mode == domain.ModeSharedFirst {
		for _, other := range records {
			if other == rec || other.Retired {
				continue
			}
			if other.State != domain.StateCompletedByOther {
				other.State = domain.StateCompletedByOther
				other.UpdatedAt = now
				touched = append(touched, other)
			}
		}
	}
	return touched
}

// canApprove decides whether rec's assignee may be approved now. Pending and
// Overdue records are approvable because approve performs an implicit claim.
func canApprove(chore *domain.Chore, records []*domain.Record, rec *domain.Record) error {
	if rec.Retired {
		return domain.ErrRecordRetired
	}

	if chore.Mode == domain.ModeSharedFirst {
		if h := holderOf(records); h != nil && h != rec {
			return fmt.Errorf("%w: held by %s", domain.ErrAlreadyClaimed, h.AssigneeID)
		}
		if rec.State == domain.StateCompletedByOther {
			return fmt.Errorf("%w: cycle completed by another assignee", domain.ErrAlreadyClaimed)
		}
	}

	if rec.State == domain.StateApproved && !chore.Reset.AllowsRepeatClaims() {
		return domain.ErrAlreadyApproved
	}
	return nil
}

// applyDisapprove reverts an approval or claim. For SharedFirst every
// assignee returns to Pending so the race re-opens for the whole group, not
// only the disapproved holder.
func applyDisapprove(chore *domain.Chore, records []*domain.Record, rec *domain.Record, now time.Time) []*domain.Record {
	if chore.Mode == domain.ModeSharedFirst {
		var touched []*domain.Record
		for _, r := range records {
			if r.Retired {
				continue
			}
			r.State = domain.StatePending
			r.ClaimedAt = nil
			r.ApprovedAt = nil
			r.UpdatedAt = now
			touched = append(touched, r)
		}
		return touched
	}

	rec.State = domain.StatePending
	rec.ClaimedAt = nil
	rec.ApprovedAt = nil
	rec.UpdatedAt = now
	return []*domain.Record{rec}
}

// fullyComplete is the derived aggregate view of a chore's cycle: SharedAll
// completes when every sub-entry is Approved, SharedFirst when the holder is
// Approved. For Independent mode it is true only if every record is Approved,
// which callers rarely need.
func fullyComplete(chore *domain.Chore, records []*domain.Record) bool {
	if chore.Mode == domain.ModeSharedFirst {
		h := holderOf(records)
		return h != nil && h.State == domain.StateApproved
	}

	any := false
	for _, rec := range records {
		if rec.Retired {
			continue
		}
		any = true
		if rec.State != domain.StateApproved {
			return false
		}
	}
	return any
}
