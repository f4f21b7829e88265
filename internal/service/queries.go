package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/ccpk1/kidschores-ha-sub014/internal/domain"
)

// Read-side accessors. Everything is returned as a copy so callers can never
// mutate orchestrator state behind the mutex.

// Chores lists every configured chore, sorted by title.
func (o *Orchestrator) Chores() []*domain.Chore {
	o.mu.Lock()
	defer o.mu.Unlock()

	out := make([]*domain.Chore, 0, len(o.chores))
	for _, c := range o.chores {
		out = append(out, c.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Title < out[j].Title })
	return out
}

func (o *Orchestrator) ChoreByID(choreID string) (*domain.Chore, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	c, ok := o.chores[choreID]
	if !ok {
		return nil, domain.ErrChoreNotFound
	}
	return c.Clone(), nil
}

// RecordsFor returns the per-assignee records of a chore, swept to the
// current instant first so callers never see a stale state.
func (o *Orchestrator) RecordsFor(ctx context.Context, choreID string) ([]*domain.Record, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	chore, ok := o.chores[choreID]
	if !ok {
		return nil, domain.ErrChoreNotFound
	}
	o.sweepChore(ctx, chore, o.now().UTC())

	recs := o.choreRecords(chore)
	out := make([]*domain.Record, 0, len(recs))
	for _, r := range recs {
		out = append(out, r.Clone())
	}
	return out, nil
}

// FullyComplete reports whether every live sub-entry of the chore is
// approved (the single holder, for SharedFirst).
func (o *Orchestrator) FullyComplete(choreID string) (bool, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	chore, ok := o.chores[choreID]
	if !ok {
		return false, domain.ErrChoreNotFound
	}
	return fullyComplete(chore, o.choreRecords(chore)), nil
}

// Assignees lists every registered participant, sorted by name.
func (o *Orchestrator) Assignees() []*domain.Assignee {
	o.mu.Lock()
	defer o.mu.Unlock()

	out := make([]*domain.Assignee, 0, len(o.assignees))
	for _, a := range o.assignees {
		cp := *a
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func (o *Orchestrator) AssigneeByID(assigneeID string) (*domain.Assignee, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	a, ok := o.assignees[assigneeID]
	if !ok {
		return nil, domain.ErrAssigneeNotFound
	}
	cp := *a
	return &cp, nil
}

// AssigneeByToken resolves a bearer token to its assignee.
func (o *Orchestrator) AssigneeByToken(token string) (*domain.Assignee, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if token == "" {
		return nil, domain.ErrInvalidToken
	}
	for _, a := range o.assignees {
		if a.Token == token && a.IsActive {
			cp := *a
			return &cp, nil
		}
	}
	return nil, domain.ErrInvalidToken
}

// Calendar projects up to count future occurrences of a chore strictly
// after from, without mutating any record. For Independent mode the
// projection follows the given assignee's record; shared chores project the
// single group schedule.
func (o *Orchestrator) Calendar(choreID string, assigneeID *string, from time.Time, count int) ([]time.Time, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	chore, ok := o.chores[choreID]
	if !ok {
		return nil, domain.ErrChoreNotFound
	}
	if assigneeID != nil && chore.Mode.IsShared() {
		return nil, domain.ErrSharedDueDate
	}

	var anchor *time.Time
	if assigneeID != nil {
		rec, ok := o.records[recordKey{chore.ID, *assigneeID}]
		if !ok {
			return nil, fmt.Errorf("%w: %s on chore %s", domain.ErrNotAssigned, *assigneeID, chore.ID)
		}
		anchor = rec.DueAt
	} else {
		for _, rec := range o.choreRecords(chore) {
			if !rec.Retired && rec.DueAt != nil {
				anchor = rec.DueAt
				break
			}
		}
	}
	if anchor == nil {
		anchor = chore.DueAt
	}

	return o.calc.Project(chore.Recurrence, anchor, chore.ApplicableDays, from).Take(count), nil
}

// Events returns the persisted lifecycle history of a chore.
func (o *Orchestrator) Events(ctx context.Context, choreID string) ([]*domain.Event, error) {
	o.mu.Lock()
	chore, ok := o.chores[choreID]
	o.mu.Unlock()
	if !ok {
		return nil, domain.ErrChoreNotFound
	}
	return o.store.EventsByChore(ctx, chore.ID)
}

// LedgerFor returns the persisted point history of an assignee.
func (o *Orchestrator) LedgerFor(ctx context.Context, assigneeID string) ([]*domain.LedgerEntry, error) {
	o.mu.Lock()
	_, ok := o.assignees[assigneeID]
	o.mu.Unlock()
	if !ok {
		return nil, domain.ErrAssigneeNotFound
	}
	return o.store.LedgerByAssignee(ctx, assigneeID)
}

// Balance returns the assignee's current point balance.
func (o *Orchestrator) Balance(assigneeID string) float64 {
	return o.ledger.Balance(assigneeID)
}
