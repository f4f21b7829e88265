package store

import (
	"context"
	"sync"

	"github.com/ccpk1/kidschores-ha-sub014/internal/domain"
)

// Memory is an in-process Store used by tests and ephemeral runs. Values are
// copied on the way in and out so callers never share pointers with the
// store.
type Memory struct {
	mu        sync.Mutex
	chores    map[string]domain.Chore
	assignees map[string]domain.Assignee
	records   map[string]domain.Record // key: choreID + "/" + assigneeID
	events    []domain.Event
	ledger    []domain.LedgerEntry
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		chores:    make(map[string]domain.Chore),
		assignees: make(map[string]domain.Assignee),
		records:   make(map[string]domain.Record),
	}
}

func recordKey(choreID, assigneeID string) string {
	return choreID + "/" + assigneeID
}

func (m *Memory) Load(_ context.Context) (*Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	snap := &Snapshot{Balances: make(map[string]float64)}
	for _, c := range m.chores {
		chore := c
		snap.Chores = append(snap.Chores, &chore)
	}
	for _, a := range m.assignees {
		assignee := a
		snap.Assignees = append(snap.Assignees, &assignee)
	}
	for _, r := range m.records {
		record := r
		snap.Records = append(snap.Records, &record)
	}
	for _, e := range m.ledger {
		snap.Balances[e.AssigneeID] += e.Delta
	}
	return snap, nil
}

func (m *Memory) SaveChore(_ context.Context, chore *domain.Chore) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.chores[chore.ID] = *chore
	return nil
}

func (m *Memory) SaveAssignee(_ context.Context, assignee *domain.Assignee) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.assignees[assignee.ID] = *assignee
	return nil
}

func (m *Memory) SaveRecords(_ context.Context, records []*domain.Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, rec := range records {
		m.records[recordKey(rec.ChoreID, rec.AssigneeID)] = *rec
	}
	return nil
}

func (m *Memory) AppendEvent(_ context.Context, event *domain.Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, *event)
	return nil
}

func (m *Memory) AppendLedger(_ context.Context, entry *domain.LedgerEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ledger = append(m.ledger, *entry)
	return nil
}

func (m *Memory) EventsByChore(_ context.Context, choreID string) ([]*domain.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*domain.Event
	for _, e := range m.events {
		if e.ChoreID == choreID {
			event := e
			out = append(out, &event)
		}
	}
	return out, nil
}

func (m *Memory) LedgerByAssignee(_ context.Context, assigneeID string) ([]*domain.LedgerEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*domain.LedgerEntry
	for _, e := range m.ledger {
		if e.AssigneeID == assigneeID {
			entry := e
			out = append(out, &entry)
		}
	}
	return out, nil
}

func (m *Memory) Ping(_ context.Context) error {
	return nil
}
