package domain

// RecurrenceKind identifies how the next due date is derived.
type RecurrenceKind string

const (
	RecurrenceNone     RecurrenceKind = "none"
	RecurrenceDaily    RecurrenceKind = "daily"
	RecurrenceWeekly   RecurrenceKind = "weekly"
	RecurrenceBiweekly RecurrenceKind = "biweekly"
	RecurrenceMonthly  RecurrenceKind = "monthly"
	// RecurrenceCustom advances from the previous due date by a fixed
	// interval, keeping the calendar cadence regardless of when the chore
	// was actually completed.
	RecurrenceCustom RecurrenceKind = "custom"
	// RecurrenceFromCompletion advances from the completion instant instead,
	// producing a rolling cadence.
	RecurrenceFromCompletion RecurrenceKind = "custom_from_completion"
	// RecurrenceDailyMulti cycles through several time-of-day slots per day.
	RecurrenceDailyMulti RecurrenceKind = "daily_multi"
)

// IsValid checks if the kind is one of the allowed values.
func (k RecurrenceKind) IsValid() bool {
	switch k {
	case RecurrenceNone, RecurrenceDaily, RecurrenceWeekly, RecurrenceBiweekly,
		RecurrenceMonthly, RecurrenceCustom, RecurrenceFromCompletion,
		RecurrenceDailyMulti:
		return true
	default:
		return false
	}
}

// IntervalUnit is the unit of a custom recurrence interval.
type IntervalUnit string

const (
	UnitDays   IntervalUnit = "days"
	UnitWeeks  IntervalUnit = "weeks"
	UnitMonths IntervalUnit = "months"
)

// IsValid checks if the unit is one of the allowed values.
func (u IntervalUnit) IsValid() bool {
	return u == UnitDays || u == UnitWeeks || u == UnitMonths
}

// Recurrence describes when a chore becomes due again.
type Recurrence struct {
	Kind RecurrenceKind

	// Interval and Unit apply to Custom and FromCompletion kinds.
	Interval int
	Unit     IntervalUnit

	// Times holds local "HH:MM" slots for DailyMulti.
	Times []string

	// PinWeekday makes Monthly land on the anchor's weekday.
	PinWeekday bool
}

// IsNone returns true for one-off chores without recurrence.
func (r Recurrence) IsNone() bool {
	return r.Kind == RecurrenceNone || r.Kind == ""
}
