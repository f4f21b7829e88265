package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ccpk1/kidschores-ha-sub014/internal/domain"
	"github.com/ccpk1/kidschores-ha-sub014/internal/schedule"
)

func utc(y int, m time.Month, d, hh, mm int) time.Time {
	return time.Date(y, m, d, hh, mm, 0, 0, time.UTC)
}

func timePtr(t time.Time) *time.Time { return &t }

func TestResetBoundaryAfterMidnight(t *testing.T) {
	calc := schedule.NewCalculator(time.UTC)
	p := domain.ResetPolicy{Kind: domain.ResetAtBoundaryOnce, Boundary: domain.BoundaryMidnight}

	b := resetBoundaryAfter(calc, p, utc(2025, 1, 4, 17, 30), nil)
	require.NotNil(t, b)
	assert.Equal(t, utc(2025, 1, 5, 0, 0), *b)
}

func TestResetBoundaryAfterDueDate(t *testing.T) {
	calc := schedule.NewCalculator(time.UTC)
	p := domain.ResetPolicy{Kind: domain.ResetAtBoundaryOnce, Boundary: domain.BoundaryDueDate}

	due := utc(2025, 1, 10, 18, 0)
	b := resetBoundaryAfter(calc, p, utc(2025, 1, 4, 17, 30), &due)
	require.NotNil(t, b)
	assert.Equal(t, due, *b)

	// A late approval that landed after the due date reverts at the next
	// sweep rather than waiting a full extra cycle.
	approvedAt := utc(2025, 1, 11, 8, 0)
	b = resetBoundaryAfter(calc, p, approvedAt, &due)
	require.NotNil(t, b)
	assert.Equal(t, approvedAt, *b)

	assert.Nil(t, resetBoundaryAfter(calc, p, approvedAt, nil))
}

func TestResetBoundaryAfterUponCompletion(t *testing.T) {
	calc := schedule.NewCalculator(time.UTC)
	p := domain.ResetPolicy{Kind: domain.ResetUponCompletion}

	assert.Nil(t, resetBoundaryAfter(calc, p, utc(2025, 1, 4, 17, 30), nil))
}

func TestShouldReset(t *testing.T) {
	calc := schedule.NewCalculator(time.UTC)
	p := domain.ResetPolicy{Kind: domain.ResetAtBoundaryOnce, Boundary: domain.BoundaryMidnight}

	rec := &domain.Record{
		State:      domain.StateApproved,
		ApprovedAt: timePtr(utc(2025, 1, 4, 17, 30)),
	}
	assert.False(t, shouldReset(calc, p, rec, utc(2025, 1, 4, 23, 59)))
	assert.True(t, shouldReset(calc, p, rec, utc(2025, 1, 5, 0, 0)))

	// Only approved records reset.
	rec.State = domain.StateClaimed
	assert.False(t, shouldReset(calc, p, rec, utc(2025, 1, 5, 0, 0)))
}

func TestCycleBoundary(t *testing.T) {
	calc := schedule.NewCalculator(time.UTC)
	due := utc(2025, 1, 5, 20, 0)

	midnight := domain.ResetPolicy{Kind: domain.ResetAtBoundaryOnce, Boundary: domain.BoundaryMidnight}
	b := cycleBoundary(calc, midnight, &due)
	require.NotNil(t, b)
	assert.Equal(t, utc(2025, 1, 6, 0, 0), *b)

	dueDate := domain.ResetPolicy{Kind: domain.ResetAtBoundaryOnce, Boundary: domain.BoundaryDueDate}
	b = cycleBoundary(calc, dueDate, &due)
	require.NotNil(t, b)
	assert.Equal(t, due, *b)

	assert.Nil(t, cycleBoundary(calc, midnight, nil))
	assert.Nil(t, cycleBoundary(calc, domain.ResetPolicy{Kind: domain.ResetUponCompletion}, &due))
}

func TestClaimBoundary(t *testing.T) {
	calc := schedule.NewCalculator(time.UTC)
	claimedAt := utc(2025, 1, 4, 17, 0)

	midnight := domain.ResetPolicy{Kind: domain.ResetAtBoundaryOnce, Boundary: domain.BoundaryMidnight}
	b := claimBoundary(calc, midnight, claimedAt, nil)
	require.NotNil(t, b)
	assert.Equal(t, utc(2025, 1, 5, 0, 0), *b)

	dueDate := domain.ResetPolicy{Kind: domain.ResetAtBoundaryOnce, Boundary: domain.BoundaryDueDate}
	due := utc(2025, 1, 10, 18, 0)
	b = claimBoundary(calc, dueDate, claimedAt, &due)
	require.NotNil(t, b)
	assert.Equal(t, due, *b)

	// Claim landed after the due date: nothing left to resolve.
	past := utc(2025, 1, 2, 18, 0)
	assert.Nil(t, claimBoundary(calc, dueDate, claimedAt, &past))
	assert.Nil(t, claimBoundary(calc, domain.ResetPolicy{Kind: domain.ResetUponCompletion}, claimedAt, &due))
}

func TestPendingClaimRuleDefaultsToClear(t *testing.T) {
	assert.Equal(t, domain.ClaimClear, pendingClaimRule(domain.ResetPolicy{}))
	assert.Equal(t, domain.ClaimHold, pendingClaimRule(domain.ResetPolicy{PendingClaim: domain.ClaimHold}))
}
