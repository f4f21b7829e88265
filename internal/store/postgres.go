package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ccpk1/kidschores-ha-sub014/internal/domain"
	"github.com/ccpk1/kidschores-ha-sub014/internal/repository"
)

// Postgres persists the state graph through the repository layer. It
// implements Store for production deployments.
type Postgres struct {
	pool      *pgxpool.Pool
	chores    *repository.ChoreRepository
	assignees *repository.AssigneeRepository
	records   *repository.RecordRepository
	events    *repository.EventRepository
	ledger    *repository.LedgerRepository
}

// NewPostgres creates a Postgres store over an existing connection pool.
func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{
		pool:      pool,
		chores:    repository.NewChoreRepository(pool),
		assignees: repository.NewAssigneeRepository(pool),
		records:   repository.NewRecordRepository(pool),
		events:    repository.NewEventRepository(pool),
		ledger:    repository.NewLedgerRepository(pool),
	}
}

// Load reads the full state graph in one pass.
func (p *Postgres) Load(ctx context.Context) (*Snapshot, error) {
	chores, err := p.chores.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("load chores: %w", err)
	}
	assignees, err := p.assignees.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("load assignees: %w", err)
	}
	records, err := p.records.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("load records: %w", err)
	}
	balances, err := p.ledger.Balances(ctx)
	if err != nil {
		return nil, fmt.Errorf("load balances: %w", err)
	}
	return &Snapshot{
		Chores:    chores,
		Assignees: assignees,
		Records:   records,
		Balances:  balances,
	}, nil
}

func (p *Postgres) SaveChore(ctx context.Context, chore *domain.Chore) error {
	return p.chores.Upsert(ctx, chore)
}

func (p *Postgres) SaveAssignee(ctx context.Context, assignee *domain.Assignee) error {
	return p.assignees.Upsert(ctx, assignee)
}

func (p *Postgres) SaveRecords(ctx context.Context, records []*domain.Record) error {
	return p.records.UpsertBatch(ctx, records)
}

func (p *Postgres) AppendEvent(ctx context.Context, event *domain.Event) error {
	return p.events.Create(ctx, event)
}

func (p *Postgres) AppendLedger(ctx context.Context, entry *domain.LedgerEntry) error {
	return p.ledger.Create(ctx, entry)
}

func (p *Postgres) EventsByChore(ctx context.Context, choreID string) ([]*domain.Event, error) {
	return p.events.GetByChoreID(ctx, choreID)
}

func (p *Postgres) LedgerByAssignee(ctx context.Context, assigneeID string) ([]*domain.LedgerEntry, error) {
	return p.ledger.GetByAssigneeID(ctx, assigneeID)
}

func (p *Postgres) Ping(ctx context.Context) error {
	return p.pool.Ping(ctx)
}
