// Package schedule computes due dates from recurrence rules, applicable-day
// filters and completion instants. All functions are pure: every time input
// is explicit and no state is mutated. Day-level math happens in the
// calculator's location; returned instants are normalized to UTC so callers
// compare offsets-free.
package schedule

import (
	"fmt"
	"sort"
	"time"

	"github.com/ccpk1/kidschores-ha-sub014/internal/domain"
)

// maxAdvance bounds catch-up iteration so a pathological rule cannot spin.
const maxAdvance = 1000

// Calculator computes next due dates in a fixed local timezone.
type Calculator struct {
	loc *time.Location
}

// NewCalculator creates a Calculator for the given location. A nil location
// falls back to UTC.
func NewCalculator(loc *time.Location) *Calculator {
	if loc == nil {
		loc = time.UTC
	}
	return &Calculator{loc: loc}
}

// Location returns the calculator's timezone.
func (c *Calculator) Location() *time.Location {
	return c.loc
}

// NextDue computes the single next due instant for a recurrence rule.
//
// anchor is the previous due date; ref is the instant the computation is made
// from (used by slot-based rules and as a fallback base); completedAt, when
// non-nil, anchors completion-based rules to the actual completion.
//
// Returns nil for one-off chores. The anchor-based variants never produce a
// due date earlier than the anchor; the completion-based variants never
// produce one earlier than the completion instant.
func (c *Calculator) NextDue(
	rule domain.Recurrence,
	anchor *time.Time,
	days []time.Weekday,
	ref time.Time,
	completedAt *time.Time,
) (*time.Time, error) {
	switch rule.Kind {
	case domain.RecurrenceNone, "":
		return nil, nil

	case domain.RecurrenceDaily:
		return c.fromAnchor(anchor, ref, days, func(t time.Time) time.Time {
			return t.AddDate(0, 0, 1)
		}), nil

	case domain.RecurrenceWeekly:
		return c.fromAnchor(anchor, ref, days, func(t time.Time) time.Time {
			return t.AddDate(0, 0, 7)
		}), nil

	case domain.RecurrenceBiweekly:
		return c.fromAnchor(anchor, ref, days, func(t time.Time) time.Time {
			return t.AddDate(0, 0, 14)
		}), nil

	case domain.RecurrenceMonthly:
		return c.nextMonthly(rule, anchor, days, ref), nil

	case domain.RecurrenceCustom:
		step, err := intervalStep(rule)
		if err != nil {
			return nil, err
		}
		return c.fromAnchor(anchor, ref, days, step), nil

	case domain.RecurrenceFromCompletion:
		step, err := intervalStep(rule)
		if err != nil {
			return nil, err
		}
		if completedAt != nil {
			due := c.snapToApplicable(step(completedAt.In(c.loc)), days).UTC()
			return &due, nil
		}
		// No completion instant supplied: fall back to the fixed cadence.
		return c.fromAnchor(anchor, ref, days, step), nil

	case domain.RecurrenceDailyMulti:
		return c.nextSlot(rule.Times, days, ref)

	default:
		return nil, fmt.Errorf("unknown recurrence kind %q", rule.Kind)
	}
}

// NextDueAfter computes the next due instant strictly after the given
// instant, stepping through as many periods as it takes. Completion anchoring
// applies only to the first step; catch-up steps follow the fixed cadence.
func (c *Calculator) NextDueAfter(
	rule domain.Recurrence,
	anchor *time.Time,
	days []time.Weekday,
	after time.Time,
	completedAt *time.Time,
) (*time.Time, error) {
	due, err := c.NextDue(rule, anchor, days, after, completedAt)
	if err != nil || due == nil {
		return due, err
	}
	for i := 0; i < maxAdvance && !due.After(after); i++ {
		due, err = c.NextDue(rule, due, days, after, nil)
		if err != nil || due == nil {
			return due, err
		}
	}
	if !due.After(after) {
		return nil, fmt.Errorf("recurrence %q did not advance past %s", rule.Kind, after)
	}
	return due, nil
}

// fromAnchor applies step to the anchor (or ref when no anchor exists) and
// snaps the result forward onto an applicable day.
func (c *Calculator) fromAnchor(
	anchor *time.Time,
	ref time.Time,
	days []time.Weekday,
	step func(time.Time) time.Time,
) *time.Time {
	base := ref
	if anchor != nil {
		base = *anchor
	}
	due := c.snapToApplicable(step(base.In(c.loc)), days).UTC()
	return &due
}

// nextMonthly adds one calendar month, clamping the day-of-month so Jan 31
// lands on Feb 28/29 rather than overflowing into March. With PinWeekday the
// result then advances to the anchor's weekday.
func (c *Calculator) nextMonthly(
	rule domain.Recurrence,
	anchor *time.Time,
	days []time.Weekday,
	ref time.Time,
) *time.Time {
	base := ref
	if anchor != nil {
		base = *anchor
	}
	local := base.In(c.loc)
	next := addMonthsClamped(local, 1)
	if rule.PinWeekday {
		for next.Weekday() != local.Weekday() {
			next = next.AddDate(0, 0, 1)
		}
	}
	due := c.snapToApplicable(next, days).UTC()
	return &due
}

// nextSlot returns the first DailyMulti slot strictly after ref: the next
// slot today, or the first slot on the next applicable day.
func (c *Calculator) nextSlot(times []string, days []time.Weekday, ref time.Time) (*time.Time, error) {
	slots, err := ParseSlots(times)
	if err != nil {
		return nil, err
	}
	local := ref.In(c.loc)

	// Worst case: today is the only applicable day and all of today's slots
	// have passed, so the answer is a full week out.
	for offset := 0; offset <= 7; offset++ {
		day := local.AddDate(0, 0, offset)
		if !applicableDay(day.Weekday(), days) {
			continue
		}
		for _, s := range slots {
			candidate := time.Date(day.Year(), day.Month(), day.Day(), s.Hour, s.Minute, 0, 0, c.loc)
			if candidate.After(local) {
				due := candidate.UTC()
				return &due, nil
			}
		}
	}
	return nil, fmt.Errorf("no applicable slot within a week of %s", ref)
}

// snapToApplicable moves t forward (never backward) to the nearest day
// satisfying the filter, keeping the time of day.
func (c *Calculator) snapToApplicable(t time.Time, days []time.Weekday) time.Time {
	if len(days) == 0 {
		return t
	}
	for i := 0; i < 7; i++ {
		if applicableDay(t.Weekday(), days) {
			return t
		}
		t = t.AddDate(0, 0, 1)
	}
	return t
}

func applicableDay(d time.Weekday, days []time.Weekday) bool {
	if len(days) == 0 {
		return true
	}
	for _, a := range days {
		if a == d {
			return true
		}
	}
	return false
}

func intervalStep(rule domain.Recurrence) (func(time.Time) time.Time, error) {
	if rule.Interval < 1 {
		return nil, fmt.Errorf("recurrence interval must be >= 1, got %d", rule.Interval)
	}
	switch rule.Unit {
	case domain.UnitDays:
		return func(t time.Time) time.Time { return t.AddDate(0, 0, rule.Interval) }, nil
	case domain.UnitWeeks:
		return func(t time.Time) time.Time { return t.AddDate(0, 0, 7*rule.Interval) }, nil
	case domain.UnitMonths:
		return func(t time.Time) time.Time { return addMonthsClamped(t, rule.Interval) }, nil
	default:
		return nil, fmt.Errorf("unknown interval unit %q", rule.Unit)
	}
}

// addMonthsClamped adds months keeping the day-of-month when possible and
// clamping to the last day of shorter months.
func addMonthsClamped(t time.Time, months int) time.Time {
	y, m, d := t.Date()
	first := time.Date(y, m, 1, 0, 0, 0, 0, t.Location()).AddDate(0, months, 0)
	last := first.AddDate(0, 1, -1).Day()
	if d > last {
		d = last
	}
	return time.Date(first.Year(), first.Month(), d,
		t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}

// Slot is a parsed local time-of-day.
type Slot struct {
	Hour   int
	Minute int
}

// ParseSlots parses and sorts "HH:MM" slots.
func ParseSlots(times []string) ([]Slot, error) {
	if len(times) == 0 {
		return nil, fmt.Errorf("daily_multi requires at least one time slot")
	}
	slots := make([]Slot, 0, len(times))
	for _, raw := range times {
		t, err := time.Parse("15:04", raw)
		if err != nil {
			return nil, fmt.Errorf("parse time slot %q: %w", raw, err)
		}
		slots = append(slots, Slot{Hour: t.Hour(), Minute: t.Minute()})
	}
	sort.Slice(slots, func(i, j int) bool {
		if slots[i].Hour != slots[j].Hour {
			return slots[i].Hour < slots[j].Hour
		}
		return slots[i].Minute < slots[j].Minute
	})
	return slots, nil
}

// Midnight returns the first local midnight strictly after t.
func (c *Calculator) Midnight(t time.Time) time.Time {
	local := t.In(c.loc)
	next := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, c.loc).AddDate(0, 0, 1)
	return next.UTC()
}
