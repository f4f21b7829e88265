// Package store defines the persistence boundary of the lifecycle engine.
// The orchestrator loads one full snapshot at startup, treats its in-memory
// state as authoritative, and pushes partial saves after each mutation. A
// failed save is logged and retried on the next mutation; it never rolls
// back an in-memory transition.
package store

import (
	"context"

	"github.com/ccpk1/kidschores-ha-sub014/internal/domain"
)

// Snapshot is the full state graph handed to the orchestrator at startup.
type Snapshot struct {
	Chores    []*domain.Chore
	Assignees []*domain.Assignee
	Records   []*domain.Record

	// Balances maps assignee id to current points balance, derived from the
	// ledger.
	Balances map[string]float64
}

// Store persists the engine's state graph.
type Store interface {
	Load(ctx context.Context) (*Snapshot, error)

	SaveChore(ctx context.Context, chore *domain.Chore) error
	SaveAssignee(ctx context.Context, assignee *domain.Assignee) error
	SaveRecords(ctx context.Context, records []*domain.Record) error

	AppendEvent(ctx context.Context, event *domain.Event) error
	AppendLedger(ctx context.Context, entry *domain.LedgerEntry) error

	EventsByChore(ctx context.Context, choreID string) ([]*domain.Event, error)
	LedgerByAssignee(ctx context.Context, assigneeID string) ([]*domain.LedgerEntry, error)

	Ping(ctx context.Context) error
}
