package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ccpk1/kidschores-ha-sub014/internal/domain"
)

func testChore(mode domain.CompletionMode, reset domain.ResetPolicy) *domain.Chore {
	return &domain.Chore{
		ID:          "chore-1",
		Title:       "dishes",
		AssigneeIDs: []string{"kid-1", "kid-2"},
		Mode:        mode,
		Reset:       reset,
	}
}

func testRecords(states ...domain.RecordState) []*domain.Record {
	ids := []string{"kid-1", "kid-2", "kid-3"}
	recs := make([]*domain.Record, 0, len(states))
	for i, st := range states {
		recs = append(recs, &domain.Record{
			ChoreID:    "chore-1",
			AssigneeID: ids[i],
			State:      st,
		})
	}
	return recs
}

func TestCanClaimIndependent(t *testing.T) {
	chore := testChore(domain.ModeIndependent, domain.ResetPolicy{Kind: domain.ResetAtBoundaryOnce, Boundary: domain.BoundaryMidnight})

	recs := testRecords(domain.StatePending, domain.StateClaimed)
	assert.NoError(t, canClaim(chore, recs, recs[0]))
	assert.ErrorIs(t, canClaim(chore, recs, recs[1]), domain.ErrAlreadyClaimed)

	recs = testRecords(domain.StateOverdue, domain.StateApproved)
	assert.NoError(t, canClaim(chore, recs, recs[0]))
	assert.ErrorIs(t, canClaim(chore, recs, recs[1]), domain.ErrAlreadyApproved)
}

func TestCanClaimMultiPolicyAllowsRepeat(t *testing.T) {
	chore := testChore(domain.ModeIndependent, domain.ResetPolicy{Kind: domain.ResetAtBoundaryMulti, Boundary: domain.BoundaryMidnight})

	recs := testRecords(domain.StateApproved)
	assert.NoError(t, canClaim(chore, recs, recs[0]))
}

func TestCanClaimRetiredRecord(t *testing.T) {
	chore := testChore(domain.ModeIndependent, domain.ResetPolicy{Kind: domain.ResetUponCompletion})

	recs := testRecords(domain.StatePending)
	recs[0].Retired = true
	assert.ErrorIs(t, canClaim(chore, recs, recs[0]), domain.ErrRecordRetired)
}

func TestCanClaimSharedFirstRejectsWhileHeld(t *testing.T) {
	chore := testChore(domain.ModeSharedFirst, domain.ResetPolicy{Kind: domain.ResetAtBoundaryOnce, Boundary: domain.BoundaryMidnight})

	recs := testRecords(domain.StateClaimed, domain.StateCompletedByOther)
	err := canClaim(chore, recs, recs[1])
	assert.ErrorIs(t, err, domain.ErrAlreadyClaimed)
	assert.Contains(t, err.Error(), "kid-1")
}

func TestApplyClaimSharedFirstLocksOthers(t *testing.T) {
	chore := testChore(domain.ModeSharedFirst, domain.ResetPolicy{Kind: domain.ResetAtBoundaryOnce, Boundary: domain.BoundaryMidnight})
	now := time.Date(2025, 1, 4, 10, 0, 0, 0, time.UTC)

	recs := testRecords(domain.StatePending, domain.StatePending, domain.StatePending)
	recs[2].Retired = true

	touched := applyClaim(chore, recs, recs[0], now)

	assert.Equal(t, domain.StateClaimed, recs[0].State)
	require.NotNil(t, recs[0].ClaimedAt)
	assert.Equal(t, now, *recs[0].ClaimedAt)
	assert.Equal(t, domain.StateCompletedByOther, recs[1].State)
	assert.Equal(t, domain.StatePending, recs[2].State)
	assert.Len(t, touched, 2)
}

func TestApplyClaimIndependentTouchesOnlySelf(t *testing.T) {
	chore := testChore(domain.ModeIndependent, domain.ResetPolicy{Kind: domain.ResetUponCompletion})
	now := time.Date(2025, 1, 4, 10, 0, 0, 0, time.UTC)

	recs := testRecords(domain.StatePending, domain.StatePending)
	touched := applyClaim(chore, recs, recs[0], now)

	assert.Len(t, touched, 1)
	assert.Equal(t, domain.StatePending, recs[1].State)
}

func TestCanApproveImplicitClaim(t *testing.T) {
	chore := testChore(domain.ModeIndependent, domain.ResetPolicy{Kind: domain.ResetAtBoundaryOnce, Boundary: domain.BoundaryMidnight})

	// Pending and overdue records are approvable in one step.
	recs := testRecords(domain.StatePending, domain.StateOverdue)
	assert.NoError(t, canApprove(chore, recs, recs[0]))
	assert.NoError(t, canApprove(chore, recs, recs[1]))

	recs = testRecords(domain.StateApproved)
	assert.ErrorIs(t, canApprove(chore, recs, recs[0]), domain.ErrAlreadyApproved)
}

func TestCanApproveSharedFirstHolderOnly(t *testing.T) {
	chore := testChore(domain.ModeSharedFirst, domain.ResetPolicy{Kind: domain.ResetAtBoundaryOnce, Boundary: domain.BoundaryMidnight})

	recs := testRecords(domain.StateClaimed, domain.StateCompletedByOther)
	assert.NoError(t, canApprove(chore, recs, recs[0]))
	assert.ErrorIs(t, canApprove(chore, recs, recs[1]), domain.ErrAlreadyClaimed)
}

func TestApplyDisapproveSharedFirstReopensRace(t *testing.T) {
	chore := testChore(domain.ModeSharedFirst, domain.ResetPolicy{Kind: domain.ResetAtBoundaryOnce, Boundary: domain.BoundaryMidnight})
	now := time.Date(2025, 1, 4, 12, 0, 0, 0, time.UTC)

	recs := testRecords(domain.StateApproved, domain.StateCompletedByOther)
	claimed := now.Add(-time.Hour)
	recs[0].ClaimedAt = &claimed
	recs[0].ApprovedAt = &claimed

	touched := applyDisapprove(chore, recs, recs[0], now)

	assert.Len(t, touched, 2)
	for _, rec := range recs {
		assert.Equal(t, domain.StatePending, rec.State)
		assert.Nil(t, rec.ClaimedAt)
		assert.Nil(t, rec.ApprovedAt)
	}
}

func TestApplyDisapproveIndependent(t *testing.T) {
	chore := testChore(domain.ModeIndependent, domain.ResetPolicy{Kind: domain.ResetAtBoundaryOnce, Boundary: domain.BoundaryMidnight})
	now := time.Date(2025, 1, 4, 12, 0, 0, 0, time.UTC)

	recs := testRecords(domain.StateApproved, domain.StateClaimed)
	touched := applyDisapprove(chore, recs, recs[0], now)

	assert.Len(t, touched, 1)
	assert.Equal(t, domain.StatePending, recs[0].State)
	assert.Equal(t, domain.StateClaimed, recs[1].State)
}

func TestFullyComplete(t *testing.T) {
	sharedAll := testChore(domain.ModeSharedAll, domain.ResetPolicy{Kind: domain.ResetAtBoundaryOnce, Boundary: domain.BoundaryMidnight})
	assert.False(t, fullyComplete(sharedAll, testRecords(domain.StateApproved, domain.StatePending)))
	assert.True(t, fullyComplete(sharedAll, testRecords(domain.StateApproved, domain.StateApproved)))

	// Retired records do not block completion.
	recs := testRecords(domain.StateApproved, domain.StatePending)
	recs[1].Retired = true
	assert.True(t, fullyComplete(sharedAll, recs))

	sharedFirst := testChore(domain.ModeSharedFirst, domain.ResetPolicy{Kind: domain.ResetAtBoundaryOnce, Boundary: domain.BoundaryMidnight})
	assert.True(t, fullyComplete(sharedFirst, testRecords(domain.StateApproved, domain.StateCompletedByOther)))
	assert.False(t, fullyComplete(sharedFirst, testRecords(domain.StateClaimed, domain.StateCompletedByOther)))
}
