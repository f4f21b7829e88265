package schedule_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ccpk1/kidschores-ha-sub014/internal/domain"
	"github.com/ccpk1/kidschores-ha-sub014/internal/schedule"
)

func ts(y int, m time.Month, d, hh, mm int) time.Time {
	return time.Date(y, m, d, hh, mm, 0, 0, time.UTC)
}

func tp(t time.Time) *time.Time { return &t }

func TestNextDueNoneReturnsNil(t *testing.T) {
	calc := schedule.NewCalculator(time.UTC)

	due, err := calc.NextDue(domain.Recurrence{Kind: domain.RecurrenceNone}, tp(ts(2025, 1, 10, 18, 0)), nil, ts(2025, 1, 4, 10, 0), nil)
	require.NoError(t, err)
	assert.Nil(t, due)
}

func TestNextDueDailyAdvancesFromAnchor(t *testing.T) {
	calc := schedule.NewCalculator(time.UTC)
	anchor := ts(2025, 1, 10, 18, 0)

	due, err := calc.NextDue(domain.Recurrence{Kind: domain.RecurrenceDaily}, &anchor, nil, ts(2025, 1, 10, 19, 0), nil)
	require.NoError(t, err)
	require.NotNil(t, due)
	assert.Equal(t, ts(2025, 1, 11, 18, 0), *due)
}

func TestNextDueWeeklyAndBiweekly(t *testing.T) {
	calc := schedule.NewCalculator(time.UTC)
	anchor := ts(2025, 1, 5, 20, 0) // Sunday

	due, err := calc.NextDue(domain.Recurrence{Kind: domain.RecurrenceWeekly}, &anchor, nil, anchor, nil)
	require.NoError(t, err)
	assert.Equal(t, ts(2025, 1, 12, 20, 0), *due)

	due, err = calc.NextDue(domain.Recurrence{Kind: domain.RecurrenceBiweekly}, &anchor, nil, anchor, nil)
	require.NoError(t, err)
	assert.Equal(t, ts(2025, 1, 19, 20, 0), *due)
}

func TestNextDueCustomKeepsCalendarCadence(t *testing.T) {
	calc := schedule.NewCalculator(time.UTC)
	rule := domain.Recurrence{Kind: domain.RecurrenceCustom, Interval: 10, Unit: domain.UnitDays}
	anchor := ts(2025, 1, 10, 9, 0)
	completed := ts(2025, 1, 7, 14, 0)

	// Early completion does not shift the fixed cadence.
	due, err := calc.NextDue(rule, &anchor, nil, completed, &completed)
	require.NoError(t, err)
	assert.Equal(t, ts(2025, 1, 20, 9, 0), *due)
}

func TestNextDueFromCompletionRollsFromCompletion(t *testing.T) {
	calc := schedule.NewCalculator(time.UTC)
	rule := domain.Recurrence{Kind: domain.RecurrenceFromCompletion, Interval: 10, Unit: domain.UnitDays}
	anchor := ts(2025, 1, 10, 9, 0)
	completed := ts(2025, 1, 7, 14, 0)

	due, err := calc.NextDue(rule, &anchor, nil, completed, &completed)
	require.NoError(t, err)
	assert.Equal(t, ts(2025, 1, 17, 14, 0), *due)

	// Without a completion instant the rule falls back to the anchor cadence.
	due, err = calc.NextDue(rule, &anchor, nil, completed, nil)
	require.NoError(t, err)
	assert.Equal(t, ts(2025, 1, 20, 9, 0), *due)
}

func TestNextDueMonthlyClampsShortMonths(t *testing.T) {
	calc := schedule.NewCalculator(time.UTC)
	anchor := ts(2025, 1, 31, 8, 0)

	due, err := calc.NextDue(domain.Recurrence{Kind: domain.RecurrenceMonthly}, &anchor, nil, anchor, nil)
	require.NoError(t, err)
	assert.Equal(t, ts(2025, 2, 28, 8, 0), *due)
}

func TestNextDueMonthlyPinWeekday(t *testing.T) {
	calc := schedule.NewCalculator(time.UTC)
	anchor := ts(2025, 1, 7, 8, 0) // Tuesday
	rule := domain.Recurrence{Kind: domain.RecurrenceMonthly, PinWeekday: true}

	due, err := calc.NextDue(rule, &anchor, nil, anchor, nil)
	require.NoError(t, err)
	// Feb 7 2025 is a Friday; the pin advances to the next Tuesday.
	assert.Equal(t, ts(2025, 2, 11, 8, 0), *due)
	assert.Equal(t, time.Tuesday, due.Weekday())
}

func TestNextDueSnapsToApplicableDays(t *testing.T) {
	calc := schedule.NewCalculator(time.UTC)
	anchor := ts(2025, 1, 3, 18, 0) // Friday
	weekdays := []time.Weekday{
		time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday,
	}

	due, err := calc.NextDue(domain.Recurrence{Kind: domain.RecurrenceDaily}, &anchor, weekdays, anchor, nil)
	require.NoError(t, err)
	// Saturday snaps forward to Monday, keeping the time of day.
	assert.Equal(t, ts(2025, 1, 6, 18, 0), *due)
}

func TestNextDueDailyMultiSlots(t *testing.T) {
	calc := schedule.NewCalculator(time.UTC)
	rule := domain.Recurrence{Kind: domain.RecurrenceDailyMulti, Times: []string{"18:00", "08:00"}}

	due, err := calc.NextDue(rule, nil, nil, ts(2025, 1, 4, 9, 0), nil)
	require.NoError(t, err)
	assert.Equal(t, ts(2025, 1, 4, 18, 0), *due)

	// Past the last slot of the day the first slot of tomorrow is next.
	due, err = calc.NextDue(rule, nil, nil, ts(2025, 1, 4, 19, 0), nil)
	require.NoError(t, err)
	assert.Equal(t, ts(2025, 1, 5, 8, 0), *due)
}

func TestNextDueDailyMultiHonorsApplicableDays(t *testing.T) {
	calc := schedule.NewCalculator(time.UTC)
	rule := domain.Recurrence{Kind: domain.RecurrenceDailyMulti, Times: []string{"08:00", "18:00"}}
	weekdays := []time.Weekday{time.Monday}

	// Saturday evening: next slot is Monday morning.
	due, err := calc.NextDue(rule, nil, weekdays, ts(2025, 1, 4, 19, 0), nil)
	require.NoError(t, err)
	assert.Equal(t, ts(2025, 1, 6, 8, 0), *due)
}

func TestNextDueAfterCatchesUpMissedCycles(t *testing.T) {
	calc := schedule.NewCalculator(time.UTC)
	anchor := ts(2025, 1, 1, 9, 0)
	after := ts(2025, 1, 10, 12, 0)

	due, err := calc.NextDueAfter(domain.Recurrence{Kind: domain.RecurrenceDaily}, &anchor, nil, after, nil)
	require.NoError(t, err)
	assert.Equal(t, ts(2025, 1, 11, 9, 0), *due)
}

func TestNextDueAfterWeeklySkipsToFuture(t *testing.T) {
	calc := schedule.NewCalculator(time.UTC)
	anchor := ts(2025, 1, 5, 20, 0)
	after := ts(2025, 1, 27, 8, 0)

	due, err := calc.NextDueAfter(domain.Recurrence{Kind: domain.RecurrenceWeekly}, &anchor, nil, after, nil)
	require.NoError(t, err)
	assert.Equal(t, ts(2025, 2, 2, 20, 0), *due)
}

func TestNextDueUnknownKindFails(t *testing.T) {
	calc := schedule.NewCalculator(time.UTC)

	_, err := calc.NextDue(domain.Recurrence{Kind: "hourly"}, nil, nil, ts(2025, 1, 4, 10, 0), nil)
	assert.Error(t, err)
}

func TestParseSlots(t *testing.T) {
	slots, err := schedule.ParseSlots([]string{"18:30", "08:00"})
	require.NoError(t, err)
	require.Len(t, slots, 2)
	assert.Equal(t, schedule.Slot{Hour: 8, Minute: 0}, slots[0])
	assert.Equal(t, schedule.Slot{Hour: 18, Minute: 30}, slots[1])

	_, err = schedule.ParseSlots(nil)
	assert.Error(t, err)

	_, err = schedule.ParseSlots([]string{"25:00"})
	assert.Error(t, err)
}

func TestMidnight(t *testing.T) {
	calc := schedule.NewCalculator(time.UTC)

	assert.Equal(t, ts(2025, 3, 11, 0, 0), calc.Midnight(ts(2025, 3, 10, 15, 0)))
	// Exactly at midnight the boundary is the following midnight.
	assert.Equal(t, ts(2025, 3, 11, 0, 0), calc.Midnight(ts(2025, 3, 10, 0, 0)))
}

func TestMidnightInLocalZone(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)
	calc := schedule.NewCalculator(loc)

	// 23:00 EST on Jan 4 is already Jan 5 in UTC; local midnight is what
	// counts.
	local := time.Date(2025, 1, 4, 23, 0, 0, 0, loc)
	want := time.Date(2025, 1, 5, 0, 0, 0, 0, loc).UTC()
	assert.Equal(t, want, calc.Midnight(local))
}
