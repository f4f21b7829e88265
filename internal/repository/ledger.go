package repository

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ccpk1/kidschores-ha-sub014/internal/domain"
)

var ledgerColumns = []string{
	"id", "assignee_id", "chore_id", "delta", "multiplier",
	"balance_after", "reason", "created_at",
}

// LedgerRepository handles database operations for the points ledger.
type LedgerRepository struct {
	pool *pgxpool.Pool
}

// NewLedgerRepository creates a new LedgerRepository.
func NewLedgerRepository(pool *pgxpool.Pool) *LedgerRepository {
	return &LedgerRepository{pool: pool}
}

// Create appends a ledger entry. The ledger is insert-only.
func (r *LedgerRepository) Create(ctx context.Context, entry *domain.LedgerEntry) error {
	query, args, err := psql.
		Insert("ledger").
		Columns(ledgerColumns...).
		Values(
			entry.ID,
			entry.AssigneeID,
			entry.ChoreID,
			entry.Delta,
			entry.Multiplier,
			entry.BalanceAfter,
			entry.Reason,
			entry.CreatedAt,
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("build Create query for ledger entry: %w", err)
	}

	if _, err := r.pool.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("create ledger entry: %w", err)
	}
	return nil
}

// GetByAssigneeID retrieves the full point history of an assignee.
func (r *LedgerRepository) GetByAssigneeID(ctx context.Context, assigneeID string) ([]*domain.LedgerEntry, error) {
	query, args, err := psql.
		Select(ledgerColumns...).
		From("ledger").
		Where(sq.Eq{"assignee_id": assigneeID}).
		OrderBy("created_at ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build GetByAssigneeID query: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query ledger: %w", err)
	}
	defer rows.Close()

	var entries []*domain.LedgerEntry
	for rows.Next() {
		var entry domain.LedgerEntry
		err := rows.Scan(
			&entry.ID,
			&entry.AssigneeID,
			&entry.ChoreID,
			&entry.Delta,
			&entry.Multiplier,
			&entry.BalanceAfter,
			&entry.Reason,
			&entry.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan ledger entry: %w", err)
		}
		entries = append(entries, &entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}
	return entries, nil
}

// Balances computes the current balance of every assignee.
func (r *LedgerRepository) Balances(ctx context.Context) (map[string]float64, error) {
	query, args, err := psql.
		Select("assignee_id", "COALESCE(SUM(delta), 0)").
		From("ledger").
		GroupBy("assignee_id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build Balances query: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query balances: %w", err)
	}
	defer rows.Close()

	balances := make(map[string]float64)
	for rows.Next() {
		var (
			assigneeID string
			balance    float64
		)
		if err := rows.Scan(&assigneeID, &balance); err != nil {
			return nil, fmt.Errorf("scan balance: %w", err)
		}
		balances[assigneeID] = balance
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}
	return balances, nil
}
