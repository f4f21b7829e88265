package schedule_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ccpk1/kidschores-ha-sub014/internal/domain"
	"github.com/ccpk1/kidschores-ha-sub014/internal/schedule"
)

func TestProjectionStartsAtFutureAnchor(t *testing.T) {
	calc := schedule.NewCalculator(time.UTC)
	anchor := ts(2025, 1, 10, 18, 0)

	got := calc.Project(domain.Recurrence{Kind: domain.RecurrenceDaily}, &anchor, nil, ts(2025, 1, 4, 10, 0)).Take(3)

	require.Len(t, got, 3)
	assert.Equal(t, ts(2025, 1, 10, 18, 0), got[0])
	assert.Equal(t, ts(2025, 1, 11, 18, 0), got[1])
	assert.Equal(t, ts(2025, 1, 12, 18, 0), got[2])
}

func TestProjectionSkipsPastAnchor(t *testing.T) {
	calc := schedule.NewCalculator(time.UTC)
	anchor := ts(2025, 1, 1, 9, 0)

	got := calc.Project(domain.Recurrence{Kind: domain.RecurrenceWeekly}, &anchor, nil, ts(2025, 1, 20, 12, 0)).Take(2)

	require.Len(t, got, 2)
	assert.Equal(t, ts(2025, 1, 22, 9, 0), got[0])
	assert.Equal(t, ts(2025, 1, 29, 9, 0), got[1])
}

func TestProjectionOneOffYieldsSingleOccurrence(t *testing.T) {
	calc := schedule.NewCalculator(time.UTC)
	anchor := ts(2025, 1, 10, 18, 0)

	got := calc.Project(domain.Recurrence{Kind: domain.RecurrenceNone}, &anchor, nil, ts(2025, 1, 4, 10, 0)).Take(5)

	require.Len(t, got, 1)
	assert.Equal(t, anchor, got[0])
}

func TestProjectionOneOffPastAnchorYieldsNothing(t *testing.T) {
	calc := schedule.NewCalculator(time.UTC)
	anchor := ts(2025, 1, 2, 18, 0)

	got := calc.Project(domain.Recurrence{Kind: domain.RecurrenceNone}, &anchor, nil, ts(2025, 1, 4, 10, 0)).Take(5)

	assert.Empty(t, got)
}
