package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ccpk1/kidschores-ha-sub014/internal/domain"
	"github.com/ccpk1/kidschores-ha-sub014/internal/eventbus"
	"github.com/ccpk1/kidschores-ha-sub014/internal/points"
	"github.com/ccpk1/kidschores-ha-sub014/internal/schedule"
	"github.com/ccpk1/kidschores-ha-sub014/internal/store"
)

type recordKey struct {
	choreID    string
	assigneeID string
}

// Orchestrator is the single mutation point for chore lifecycle state. All
// operations and the periodic sweep serialize through one mutex, so a sweep
// can never race a claim on the same record: each operation completes fully
// (read, decide, write) before the next begins.
//
// In-memory state is authoritative. Every mutation is pushed to the store;
// a failed record save is marked dirty and retried on the next mutation
// without rolling back the in-memory transition.
type Orchestrator struct {
	mu sync.Mutex

	store  store.Store
	bus    *eventbus.Bus
	ledger *points.Ledger
	calc   *schedule.Calculator
	now    func() time.Time

	chores    map[string]*domain.Chore
	assignees map[string]*domain.Assignee
	records   map[recordKey]*domain.Record
	dirty     map[recordKey]struct{}
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(o *Orchestrator) { o.now = now }
}

// New creates an Orchestrator. Call Load before serving operations.
func New(st store.Store, bus *eventbus.Bus, ledger *points.Ledger, loc *time.Location, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		store:     st,
		bus:       bus,
		ledger:    ledger,
		calc:      schedule.NewCalculator(loc),
		now:       time.Now,
		chores:    make(map[string]*domain.Chore),
		assignees: make(map[string]*domain.Assignee),
		records:   make(map[recordKey]*domain.Record),
		dirty:     make(map[recordKey]struct{}),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Load reads the full state graph from the store and seeds ledger balances.
// Records missing for an assigned pair are created with an initial due date.
func (o *Orchestrator) Load(ctx context.Context) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	snap, err := o.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("load state graph: %w", err)
	}

	for _, a := range snap.Assignees {
		o.assignees[a.ID] = a
	}
	for _, c := range snap.Chores {
		o.chores[c.ID] = c
	}
	for _, r := range snap.Records {
		o.records[recordKey{r.ChoreID, r.AssigneeID}] = r
	}
	o.ledger.SeedBalances(snap.Balances)

	now := o.now().UTC()
	var created []*domain.Record
	for _, c := range o.chores {
		created = append(created, o.ensureRecords(c, now)...)
	}
	if len(created) > 0 {
		if err := o.store.SaveRecords(ctx, created); err != nil {
			return fmt.Errorf("save initial records: %w", err)
		}
	}

	slog.Info("state loaded",
		"chores", len(o.chores),
		"assignees", len(o.assignees),
		"records", len(o.records),
	)
	return nil
}

// CreateChore validates the configuration matrix, assigns an id and creates
// the per-assignee records.
func (o *Orchestrator) CreateChore(ctx context.Context, chore *domain.Chore) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if err := ValidateChore(chore); err != nil {
		return err
	}
	for _, id := range chore.AssigneeIDs {
		if _, ok := o.assignees[id]; !ok {
			return fmt.Errorf("%w: %s", domain.ErrAssigneeNotFound, id)
		}
	}

	now := o.now().UTC()
	if chore.ID == "" {
		chore.ID = uuid.New().String()
	}
	if chore.SharedReset == "" {
		chore.SharedReset = domain.SharedResetTogether
	}
	chore.CreatedAt = now
	chore.UpdatedAt = now

	if err := o.store.SaveChore(ctx, chore); err != nil {
		return fmt.Errorf("save chore: %w", err)
	}
	o.chores[chore.ID] = chore

	created := o.ensureRecords(chore, now)
	o.commit(ctx, created, nil)

	slog.Info("chore created",
		"chore_id", chore.ID,
		"title", chore.Title,
		"mode", chore.Mode,
	)
	return nil
}

// AddAssignee registers a participant.
func (o *Orchestrator) AddAssignee(ctx context.Context, assignee *domain.Assignee) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if assignee.ID == "" {
		assignee.ID = uuid.New().String()
	}
	assignee.CreatedAt = o.now().UTC()
	if err := o.store.SaveAssignee(ctx, assignee); err != nil {
		return fmt.Errorf("save assignee: %w", err)
	}
	o.assignees[assignee.ID] = assignee
	return nil
}

// RemoveAssignee retires the assignee's record for a chore. The record is
// kept but never mutated again.
func (o *Orchestrator) RemoveAssignee(ctx context.Context, choreID, assigneeID string) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	chore, ok := o.chores[choreID]
	if !ok {
		return domain.ErrChoreNotFound
	}
	rec, ok := o.records[recordKey{choreID, assigneeID}]
	if !ok {
		return domain.ErrNotAssigned
	}

	kept := chore.AssigneeIDs[:0]
	for _, id := range chore.AssigneeIDs {
		if id != assigneeID {
			kept = append(kept, id)
		}
	}
	chore.AssigneeIDs = kept
	chore.UpdatedAt = o.now().UTC()

	rec.Retired = true
	rec.UpdatedAt = chore.UpdatedAt

	if err := o.store.SaveChore(ctx, chore); err != nil {
		return fmt.Errorf("save chore: %w", err)
	}
	o.commit(ctx, []*domain.Record{rec}, nil)
	return nil
}

// Claim marks the chore claimed by the assignee. For auto-approve chores the
// approval follows immediately in the same operation.
func (o *Orchestrator) Claim(ctx context.Context, choreID, assigneeID, actorID string) (*domain.Event, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	now := o.now().UTC()

	chore, rec, err := o.lookup(choreID, assigneeID)
	if err != nil {
		return nil, err
	}
	actor, err := o.activeAssignee(actorID)
	if err != nil {
		return nil, err
	}
	if actor.ID != assigneeID && !actor.IsApprover {
		return nil, fmt.Errorf("%w: %s may not claim for %s", domain.ErrNotAuthorized, actor.ID, assigneeID)
	}

	o.sweepChore(ctx, chore, now)

	recs := o.choreRecords(chore)
	if err := canClaim(chore, recs, rec); err != nil {
		return nil, err
	}

	old := rec.State
	touched := applyClaim(chore, recs, rec, now)
	event := o.newEvent(chore.ID, &assigneeID, domain.EventClaimed, old, rec.State, nil, "")
	o.commit(ctx, touched, []*domain.Event{event})

	slog.Info("chore claimed",
		"chore_id", choreID,
		"assignee_id", assigneeID,
		"event_id", event.ID,
	)

	if chore.AutoApprove {
		touched, events, err := o.approveRecord(ctx, chore, recs, rec, now, nil, nil)
		if err != nil {
			slog.Error("auto-approve after claim failed",
				"chore_id", choreID,
				"assignee_id", assigneeID,
				"error", err,
			)
			return event, nil
		}
		o.commit(ctx, touched, events)
		if len(events) > 0 {
			return events[0], nil
		}
	}
	return event, nil
}

// Approve credits the assignee and applies the reset policy. A pending or
// overdue record is implicitly claimed first ("one-click" behavior).
func (o *Orchestrator) Approve(ctx context.Context, choreID, assigneeID, actorID string, pointsOverride *float64) (*domain.Event, error) {
	if pointsOverride != nil && *pointsOverride < 0 {
		return nil, domain.ErrNegativePoints
	}

	o.mu.Lock()
	defer o.mu.Unlock()
	now := o.now().UTC()

	chore, rec, err := o.lookup(choreID, assigneeID)
	if err != nil {
		return nil, err
	}
	actor, err := o.activeAssignee(actorID)
	if err != nil {
		return nil, err
	}
	if !actor.IsApprover && !chore.AutoApprove {
		return nil, fmt.Errorf("%w: %s may not approve", domain.ErrNotAuthorized, actor.ID)
	}

	o.sweepChore(ctx, chore, now)

	recs := o.choreRecords(chore)
	touched, events, err := o.approveRecord(ctx, chore, recs, rec, now, pointsOverride, &actorID)
	if err != nil {
		return nil, err
	}
	o.commit(ctx, touched, events)

	slog.Info("chore approved",
		"chore_id", choreID,
		"assignee_id", assigneeID,
		"actor_id", actorID,
	)
	return events[0], nil
}

// Disapprove reverses a claim or approval. A reversed approval deducts the
// points it awarded. For SharedFirst every assignee returns to Pending.
func (o *Orchestrator) Disapprove(ctx context.Context, choreID, assigneeID, actorID string) (*domain.Event, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	now := o.now().UTC()

	chore, rec, err := o.lookup(choreID, assigneeID)
	if err != nil {
		return nil, err
	}
	actor, err := o.activeAssignee(actorID)
	if err != nil {
		return nil, err
	}
	if !actor.IsApprover {
		return nil, fmt.Errorf("%w: %s may not disapprove", domain.ErrNotAuthorized, actor.ID)
	}

	o.sweepChore(ctx, chore, now)

	if !rec.Holds() {
		return nil, domain.ErrNotClaimed
	}

	old := rec.State
	wasApproved := rec.State == domain.StateApproved

	recs := o.choreRecords(chore)
	touched := applyDisapprove(chore, recs, rec, now)

	var deducted *float64
	if wasApproved && rec.LastAward > 0 {
		amount := rec.LastAward
		o.ledger.Deduct(ctx, assigneeID, choreID, amount, "approval reversed")
		rec.LastAward = 0
		if rec.CycleCompletions > 0 {
			rec.CycleCompletions--
		}
		neg := -amount
		deducted = &neg
	}

	event := o.newEvent(chore.ID, &assigneeID, domain.EventDisapproved, old, rec.State, deducted, "")
	o.commit(ctx, touched, []*domain.Event{event})

	slog.Info("chore disapproved",
		"chore_id", choreID,
		"assignee_id", assigneeID,
		"actor_id", actorID,
	)
	return event, nil
}

// Skip advances the due date to the next occurrence without credit. The
// assignee argument is only valid for Independent mode; shared chores have a
// single due date.
func (o *Orchestrator) Skip(ctx context.Context, choreID string, assigneeID *string, actorID string) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	now := o.now().UTC()

	chore, ok := o.chores[choreID]
	if !ok {
		return domain.ErrChoreNotFound
	}
	actor, err := o.activeAssignee(actorID)
	if err != nil {
		return err
	}
	if !actor.IsApprover {
		return fmt.Errorf("%w: %s may not skip", domain.ErrNotAuthorized, actor.ID)
	}
	if chore.Recurrence.IsNone() {
		return domain.ErrNoRecurrence
	}
	if assigneeID != nil && chore.Mode.IsShared() {
		return domain.ErrSharedDueDate
	}

	o.sweepChore(ctx, chore, now)

	targets, err := o.targetRecords(chore, assigneeID)
	if err != nil {
		return err
	}

	var events []*domain.Event
	for _, rec := range targets {
		// Skip advances past the current due date even when it is still in
		// the future.
		after := now
		if rec.DueAt != nil && rec.DueAt.After(now) {
			after = *rec.DueAt
		}
		old := rec.State
		o.roll(chore, rec, now, after, nil)
		events = append(events, o.newEvent(chore.ID, &rec.AssigneeID, domain.EventSkipped, old, rec.State, nil, "skipped to next occurrence"))
	}
	o.commit(ctx, targets, events)

	slog.Info("chore skipped",
		"chore_id", choreID,
		"actor_id", actorID,
		"records", len(targets),
	)
	return nil
}

// SetDueDate overrides the due date of a chore or, in Independent mode, of a
// single assignee. A nil due clears it.
func (o *Orchestrator) SetDueDate(ctx context.Context, choreID string, due *time.Time, assigneeID *string, actorID string) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	now := o.now().UTC()

	chore, ok := o.chores[choreID]
	if !ok {
		return domain.ErrChoreNotFound
	}
	actor, err := o.activeAssignee(actorID)
	if err != nil {
		return err
	}
	if !actor.IsApprover {
		return fmt.Errorf("%w: %s may not set due dates", domain.ErrNotAuthorized, actor.ID)
	}
	if assigneeID != nil && chore.Mode.IsShared() {
		return domain.ErrSharedDueDate
	}
	if due != nil && due.Before(now) {
		return domain.ErrDueDateInPast
	}

	o.sweepChore(ctx, chore, now)

	targets, err := o.targetRecords(chore, assigneeID)
	if err != nil {
		return err
	}

	var events []*domain.Event
	for _, rec := range targets {
		old := rec.State
		rec.DueAt = copyTime(due)
		// A fresh future due date clears an overdue marker.
		if rec.State == domain.StateOverdue {
			rec.State = domain.StatePending
		}
		rec.UpdatedAt = now
		events = append(events, o.newEvent(chore.ID, &rec.AssigneeID, domain.EventDueDateSet, old, rec.State, nil, ""))
	}

	if assigneeID == nil {
		chore.DueAt = copyTime(due)
		chore.UpdatedAt = now
		if err := o.store.SaveChore(ctx, chore); err != nil {
			slog.Error("failed to save chore", "chore_id", chore.ID, "error", err)
		}
	} else {
		if chore.DueOverrides == nil {
			chore.DueOverrides = make(map[string]time.Time)
		}
		if due == nil {
			delete(chore.DueOverrides, *assigneeID)
		} else {
			chore.DueOverrides[*assigneeID] = *due
		}
		chore.UpdatedAt = now
		if err := o.store.SaveChore(ctx, chore); err != nil {
			slog.Error("failed to save chore", "chore_id", chore.ID, "error", err)
		}
	}

	o.commit(ctx, targets, events)
	return nil
}

// Tick sweeps every record, applying boundary resets, pending-claim rules
// and overdue detection. Returns the number of lifecycle events emitted.
func (o *Orchestrator) Tick(ctx context.Context) int {
	o.mu.Lock()
	defer o.mu.Unlock()
	now := o.now().UTC()

	total := 0
	for _, chore := range o.chores {
		total += o.sweepChore(ctx, chore, now)
	}
	if total > 0 {
		slog.Info("sweep applied transitions", "events", total)
	}
	return total
}

// --- internal machinery -------------------------------------------------

// lookup resolves a chore and the record of one of its assignees.
func (o *Orchestrator) lookup(choreID, assigneeID string) (*domain.Chore, *domain.Record, error) {
	chore, ok := o.chores[choreID]
	if !ok {
		return nil, nil, domain.ErrChoreNotFound
	}
	if _, ok := o.assignees[assigneeID]; !ok {
		return nil, nil, domain.ErrAssigneeNotFound
	}
	if !chore.HasAssignee(assigneeID) {
		return nil, nil, fmt.Errorf("%w: %s on chore %s", domain.ErrNotAssigned, assigneeID, choreID)
	}
	rec, ok := o.records[recordKey{choreID, assigneeID}]
	if !ok {
		return nil, nil, fmt.Errorf("%w: %s on chore %s", domain.ErrNotAssigned, assigneeID, choreID)
	}
	return chore, rec, nil
}

func (o *Orchestrator) activeAssignee(assigneeID string) (*domain.Assignee, error) {
	a, ok := o.assignees[assigneeID]
	if !ok {
		return nil, domain.ErrAssigneeNotFound
	}
	if !a.IsActive {
		return nil, domain.ErrAssigneeInactive
	}
	return a, nil
}

func (o *Orchestrator) choreRecords(chore *domain.Chore) []*domain.Record {
	recs := make([]*domain.Record, 0, len(chore.AssigneeIDs))
	for _, id := range chore.AssigneeIDs {
		if rec, ok := o.records[recordKey{chore.ID, id}]; ok {
			recs = append(recs, rec)
		}
	}
	return recs
}

func (o *Orchestrator) targetRecords(chore *domain.Chore, assigneeID *string) ([]*domain.Record, error) {
	if assigneeID == nil {
		return o.choreRecords(chore), nil
	}
	rec, ok := o.records[recordKey{chore.ID, *assigneeID}]
	if !ok {
		return nil, fmt.Errorf("%w: %s on chore %s", domain.ErrNotAssigned, *assigneeID, chore.ID)
	}
	return []*domain.Record{rec}, nil
}

// ensureRecords creates missing records for assigned pairs, seeding due
// dates from the chore's anchors.
func (o *Orchestrator) ensureRecords(chore *domain.Chore, now time.Time) []*domain.Record {
	var created []*domain.Record
	for _, id := range chore.AssigneeIDs {
		key := recordKey{chore.ID, id}
		if _, ok := o.records[key]; ok {
			continue
		}
		rec := &domain.Record{
			ChoreID:      chore.ID,
			AssigneeID:   id,
			State:        domain.StatePending,
			DueAt:        o.initialDue(chore, id, now),
			CycleStartAt: now,
			UpdatedAt:    now,
		}
		o.records[key] = rec
		created = append(created, rec)
	}
	return created
}

// initialDue seeds the first due date: a future anchor is used as-is, a past
// anchor on a recurring chore advances to the next occurrence, a one-off
// keeps its anchor even when past.
func (o *Orchestrator) initialDue(chore *domain.Chore, assigneeID string, now time.Time) *time.Time {
	anchor := chore.AnchorFor(assigneeID)
	if chore.Recurrence.IsNone() {
		return copyTime(anchor)
	}
	if anchor != nil && anchor.After(now) {
		return copyTime(anchor)
	}
	due, err := o.calc.NextDueAfter(chore.Recurrence, anchor, chore.ApplicableDays, now, nil)
	if err != nil {
		slog.Error("failed to compute initial due date",
			"chore_id", chore.ID,
			"assignee_id", assigneeID,
			"error", err,
		)
		return copyTime(anchor)
	}
	return due
}

// approveRecord performs the approval core: criteria check, implicit claim,
// award, and the reset policy / late-approval recovery outcome. actorID is
// nil for synthesized approvals. Callers commit the returned records/events.
func (o *Orchestrator) approveRecord(
	ctx context.Context,
	chore *domain.Chore,
	recs []*domain.Record,
	rec *domain.Record,
	at time.Time,
	pointsOverride *float64,
	actorID *string,
) ([]*domain.Record, []*domain.Event, error) {
	if err := canApprove(chore, recs, rec); err != nil {
		return nil, nil, err
	}

	old := rec.State
	wasOverdue := rec.State == domain.StateOverdue

	var touched []*domain.Record
	if rec.Claimable() {
		// Implicit claim-then-approve in one atomic step.
		touched = applyClaim(chore, recs, rec, at)
	} else {
		touched = []*domain.Record{rec}
	}

	// Late-approval recovery is decided against the cycle the record was
	// due in, before the roll below replaces its due date.
	late := wasOverdue && lateApproval(o.calc, chore.Overdue, chore.Reset, rec, at)

	approved := at
	rec.State = domain.StateApproved
	rec.ApprovedAt = &approved
	rec.CycleCompletions++
	rec.UpdatedAt = at

	base := chore.Points
	if pointsOverride != nil {
		base = *pointsOverride
	}
	total, _ := o.ledger.Award(ctx, rec.AssigneeID, chore.ID, base, "chore approved")
	rec.LastAward = total

	comment := ""
	if actorID == nil {
		comment = "auto-approved"
	}
	event := o.newEvent(chore.ID, &rec.AssigneeID, domain.EventApproved, old, rec.State, &total, comment)
	events := []*domain.Event{event}

	completed := at
	switch chore.Mode {
	case domain.ModeSharedFirst:
		if chore.Reset.Kind == domain.ResetUponCompletion || late {
			t, evs := o.rollGroup(chore, recs, at, &completed)
			touched = append(touched, t...)
			events = append(events, evs...)
		}
	case domain.ModeSharedAll:
		// The group shares one cycle and one due date, so any roll here
		// must move every sub-entry at once. Upon-completion waits for
		// the whole group; a late approval re-opens the cycle for
		// everyone under reset_together, while keep_approved leaves the
		// reset to the boundary sweep once all sub-entries are approved.
		groupRoll := chore.Reset.Kind == domain.ResetUponCompletion && fullyComplete(chore, recs)
		if late && chore.SharedReset != domain.SharedKeepApproved {
			groupRoll = true
		}
		if groupRoll {
			t, evs := o.rollGroup(chore, recs, at, &completed)
			touched = append(touched, t...)
			events = append(events, evs...)
		}
	default:
		if chore.Reset.Kind == domain.ResetUponCompletion || late {
			old := rec.State
			o.roll(chore, rec, at, at, &completed)
			events = append(events, o.newEvent(chore.ID, &rec.AssigneeID, domain.EventReset, old, rec.State, nil, resetComment(late)))
		}
	}

	return touched, events, nil
}

func resetComment(late bool) string {
	if late {
		return "late approval re-opened the cycle"
	}
	return ""
}

// roll opens the next cycle for a record: Pending, fresh due date strictly
// after the given instant, counters zeroed.
func (o *Orchestrator) roll(chore *domain.Chore, rec *domain.Record, at, after time.Time, completedAt *time.Time) {
	var due *time.Time
	if !chore.Recurrence.IsNone() {
		anchor := rec.DueAt
		if anchor == nil {
			anchor = chore.AnchorFor(rec.AssigneeID)
		}
		var err error
		due, err = o.calc.NextDueAfter(chore.Recurrence, anchor, chore.ApplicableDays, after, completedAt)
		if err != nil {
			slog.Error("failed to compute next due date",
				"chore_id", chore.ID,
				"assignee_id", rec.AssigneeID,
				"error", err,
			)
		}
	}
	rec.State = domain.StatePending
	rec.DueAt = due
	rec.ClaimedAt = nil
	rec.ApprovedAt = nil
	rec.CycleStartAt = at
	rec.CycleCompletions = 0
	rec.LastAward = 0
	rec.UpdatedAt = at
}

// rollGroup rolls every record of a shared chore onto the same next due
// date.
func (o *Orchestrator) rollGroup(chore *domain.Chore, recs []*domain.Record, at time.Time, completedAt *time.Time) ([]*domain.Record, []*domain.Event) {
	var touched []*domain.Record
	var events []*domain.Event

	// All sub-entries share one anchor; pick the first live due date.
	var anchor *time.Time
	for _, rec := range recs {
		if !rec.Retired && rec.DueAt != nil {
			anchor = rec.DueAt
			break
		}
	}
	if anchor == nil {
		anchor = chore.DueAt
	}

	var due *time.Time
	if !chore.Recurrence.IsNone() {
		var err error
		due, err = o.calc.NextDueAfter(chore.Recurrence, anchor, chore.ApplicableDays, at, completedAt)
		if err != nil {
			slog.Error("failed to compute next due date", "chore_id", chore.ID, "error", err)
		}
	}

	for _, rec := range recs {
		if rec.Retired {
			continue
		}
		old := rec.State
		rec.State = domain.StatePending
		rec.DueAt = copyTime(due)
		rec.ClaimedAt = nil
		rec.ApprovedAt = nil
		rec.CycleStartAt = at
		rec.CycleCompletions = 0
		rec.LastAward = 0
		rec.UpdatedAt = at
		touched = append(touched, rec)
		events = append(events, o.newEvent(chore.ID, &rec.AssigneeID, domain.EventReset, old, rec.State, nil, ""))
	}
	return touched, events
}

// sweepChore applies every time-driven transition due on the chore right
// now: pending-claim boundary rules, approved-record boundary resets,
// overdue detection and overdue clearing. Used both by the periodic tick and
// lazily at the start of each operation, so a record is always current
// before a decision is made about it. Returns the number of events emitted.
func (o *Orchestrator) sweepChore(ctx context.Context, chore *domain.Chore, now time.Time) int {
	recs := o.choreRecords(chore)
	var touched []*domain.Record
	var events []*domain.Event

	// Unapproved claims at a crossed boundary.
	if chore.Reset.HasBoundary() {
		for _, rec := range recs {
			if rec.Retired || rec.State != domain.StateClaimed || rec.ClaimedAt == nil {
				continue
			}
			b := claimBoundary(o.calc, chore.Reset, *rec.ClaimedAt, rec.DueAt)
			if b == nil || now.Before(*b) {
				continue
			}
			switch pendingClaimRule(chore.Reset) {
			case domain.ClaimHold:
				// Claim survives the boundary; the eventual approval lands
				// in the next cycle.
			case domain.ClaimAutoApprove:
				t, evs, err := o.approveRecord(ctx, chore, recs, rec, *b, nil, nil)
				if err == nil {
					touched = append(touched, t...)
					events = append(events, evs...)
				}
			default: // ClaimClear
				old := rec.State
				switch {
				case chore.Mode == domain.ModeSharedFirst,
					chore.Mode == domain.ModeSharedAll && chore.SharedReset != domain.SharedKeepApproved:
					t, evs := o.rollGroup(chore, recs, *b, nil)
					touched = append(touched, t...)
					events = append(events, evs...)
				case chore.Mode == domain.ModeSharedAll:
					// keep_approved: the group cycle stands, so only the
					// lapsed claim reverts and waits with the group.
					rec.State = domain.StatePending
					rec.ClaimedAt = nil
					rec.UpdatedAt = *b
					touched = append(touched, rec)
					events = append(events, o.newEvent(chore.ID, &rec.AssigneeID, domain.EventReset, old, rec.State, nil, "unapproved claim cleared at boundary"))
				default:
					o.roll(chore, rec, *b, *b, nil)
					touched = append(touched, rec)
					events = append(events, o.newEvent(chore.ID, &rec.AssigneeID, domain.EventReset, old, rec.State, nil, "unapproved claim cleared at boundary"))
				}
			}
		}
	}

	// Approved records whose boundary has passed.
	if chore.Reset.HasBoundary() {
		if chore.Mode.IsShared() {
			if o.sharedBoundaryCrossed(chore, recs, now) {
				t, evs := o.rollGroup(chore, recs, now, nil)
				touched = append(touched, t...)
				events = append(events, evs...)
			}
		} else {
			for _, rec := range recs {
				if rec.Retired || !shouldReset(o.calc, chore.Reset, rec, now) {
					continue
				}
				old := rec.State
				o.roll(chore, rec, now, now, nil)
				touched = append(touched, rec)
				events = append(events, o.newEvent(chore.ID, &rec.AssigneeID, domain.EventReset, old, rec.State, nil, ""))
			}
		}
	}

	// Overdue detection. Claimed records are immune.
	for _, rec := range recs {
		if rec.Retired {
			continue
		}
		if entersOverdue(chore.Overdue, rec, now) {
			old := rec.State
			rec.State = domain.StateOverdue
			rec.UpdatedAt = now
			touched = append(touched, rec)
			events = append(events, o.newEvent(chore.ID, &rec.AssigneeID, domain.EventOverdueEntered, old, rec.State, nil, ""))
		}
	}

	// Unconditional overdue clearing at midnight.
	for _, rec := range recs {
		if rec.Retired || !clearsAtMidnight(o.calc, chore.Overdue, rec, now) {
			continue
		}
		old := rec.State
		o.roll(chore, rec, now, now, nil)
		touched = append(touched, rec)
		events = append(events, o.newEvent(chore.ID, &rec.AssigneeID, domain.EventReset, old, rec.State, nil, "overdue cleared at midnight"))
	}

	if len(touched) > 0 || len(events) > 0 {
		o.commit(ctx, touched, events)
	}
	return len(events)
}

// sharedBoundaryCrossed decides whether a shared chore's cycle resets now.
// With SharedResetTogether the first crossed boundary resets the group; with
// SharedKeepApproved partial completers keep their approval and the group
// only resets once everyone has completed and the last boundary passed.
func (o *Orchestrator) sharedBoundaryCrossed(chore *domain.Chore, recs []*domain.Record, now time.Time) bool {
	anyApproved := false
	anyCrossed := false
	allCrossed := true
	for _, rec := range recs {
		if rec.Retired || rec.State != domain.StateApproved {
			continue
		}
		anyApproved = true
		if shouldReset(o.calc, chore.Reset, rec, now) {
			anyCrossed = true
		} else {
			allCrossed = false
		}
	}
	if !anyApproved {
		return false
	}
	if chore.Mode == domain.ModeSharedAll && chore.SharedReset == domain.SharedKeepApproved {
		return fullyComplete(chore, recs) && allCrossed
	}
	return anyCrossed
}

// newEvent builds an immutable lifecycle event.
func (o *Orchestrator) newEvent(choreID string, assigneeID *string, typ domain.EventType, old, next domain.RecordState, pts *float64, comment string) *domain.Event {
	oldCopy, nextCopy := old, next
	return &domain.Event{
		ID:         uuid.New().String(),
		ChoreID:    choreID,
		AssigneeID: assigneeID,
		Type:       typ,
		OldState:   &oldCopy,
		NewState:   &nextCopy,
		Points:     pts,
		Comment:    comment,
		CreatedAt:  o.now().UTC(),
	}
}

// commit persists touched records and appends/publishes events. Failed
// record saves are marked dirty and retried on the next commit; the
// in-memory transition stands either way.
func (o *Orchestrator) commit(ctx context.Context, touched []*domain.Record, events []*domain.Event) {
	// Retry anything a previous save failed to persist.
	if len(o.dirty) > 0 {
		var retry []*domain.Record
		for key := range o.dirty {
			if rec, ok := o.records[key]; ok {
				retry = append(retry, rec)
			}
		}
		if err := o.store.SaveRecords(ctx, retry); err != nil {
			slog.Error("retrying dirty records failed", "count", len(retry), "error", err)
		} else {
			o.dirty = make(map[recordKey]struct{})
		}
	}

	if len(touched) > 0 {
		seen := make(map[recordKey]struct{}, len(touched))
		var save []*domain.Record
		for _, rec := range touched {
			key := recordKey{rec.ChoreID, rec.AssigneeID}
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			save = append(save, rec)
		}
		if err := o.store.SaveRecords(ctx, save); err != nil {
			slog.Error("failed to save records", "count", len(save), "error", err)
			for key := range seen {
				o.dirty[key] = struct{}{}
			}
		}
	}

	for _, event := range events {
		if err := o.store.AppendEvent(ctx, event); err != nil {
			slog.Error("failed to append event",
				"chore_id", event.ChoreID,
				"type", event.Type,
				"error", err,
			)
		}
		o.bus.Publish(event)
	}
}

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}
