package schedule

import (
	"time"

	"github.com/ccpk1/kidschores-ha-sub014/internal/domain"
)

// Projection lazily walks the future occurrences of a recurrence without
// mutating any state. Each call to Project starts a fresh, restartable walk
// over the same sequence.
type Projection struct {
	calc   *Calculator
	rule   domain.Recurrence
	days   []time.Weekday
	from   time.Time
	cursor *time.Time
	// started distinguishes "before the first occurrence" from "cursor is
	// the last emitted occurrence".
	started bool
	done    bool
}

// Project starts a projection of occurrences strictly after from, seeded by
// the chore's current due anchor.
func (c *Calculator) Project(rule domain.Recurrence, anchor *time.Time, days []time.Weekday, from time.Time) *Projection {
	p := &Projection{
		calc: c,
		rule: rule,
		days: days,
		from: from,
	}
	if anchor != nil {
		a := *anchor
		p.cursor = &a
	}
	return p
}

// Next returns the following occurrence, or false when the sequence is
// exhausted (one-off chores yield at most one occurrence).
func (p *Projection) Next() (time.Time, bool) {
	if p.done {
		return time.Time{}, false
	}

	if !p.started {
		p.started = true
		// The current anchor itself is the first occurrence when it is
		// still in the future.
		if p.cursor != nil && p.cursor.After(p.from) {
			return *p.cursor, true
		}
		if p.rule.IsNone() {
			p.done = true
			return time.Time{}, false
		}
		due, err := p.calc.NextDueAfter(p.rule, p.cursor, p.days, p.from, nil)
		if err != nil || due == nil {
			p.done = true
			return time.Time{}, false
		}
		p.cursor = due
		return *due, true
	}

	if p.rule.IsNone() {
		p.done = true
		return time.Time{}, false
	}
	due, err := p.calc.NextDue(p.rule, p.cursor, p.days, *p.cursor, nil)
	if err != nil || due == nil {
		p.done = true
		return time.Time{}, false
	}
	p.cursor = due
	return *due, true
}

// Take collects up to n occurrences, bounding the lookahead window.
func (p *Projection) Take(n int) []time.Time {
	var out []time.Time
	for len(out) < n {
		due, ok := p.Next()
		if !ok {
			break
		}
		out = append(out, due)
	}
	return out
}
