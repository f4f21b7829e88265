package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ccpk1/kidschores-ha-sub014/internal/domain"
)

var assigneeColumns = []string{"id", "name", "token", "is_approver", "is_active", "created_at"}

// AssigneeRepository handles database operations for assignees.
type AssigneeRepository struct {
	pool *pgxpool.Pool
}

// NewAssigneeRepository creates a new AssigneeRepository.
func NewAssigneeRepository(pool *pgxpool.Pool) *AssigneeRepository {
	return &AssigneeRepository{pool: pool}
}

func scanAssignee(row pgx.Row) (*domain.Assignee, error) {
	var a domain.Assignee
	err := row.Scan(&a.ID, &a.Name, &a.Token, &a.IsApprover, &a.IsActive, &a.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAssigneeNotFound
		}
		return nil, fmt.Errorf("scan assignee: %w", err)
	}
	return &a, nil
}

// List retrieves all assignees.
func (r *AssigneeRepository) List(ctx context.Context) ([]*domain.Assignee, error) {
	query, args, err := psql.
		Select(assigneeColumns...).
		From("assignees").
		OrderBy("name ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build List query for assignees: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query assignees: %w", err)
	}
	defer rows.Close()

	var assignees []*domain.Assignee
	for rows.Next() {
		a, err := scanAssignee(rows)
		if err != nil {
			return nil, err
		}
		assignees = append(assignees, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}
	return assignees, nil
}

// Upsert inserts or replaces an assignee.
func (r *AssigneeRepository) Upsert(ctx context.Context, a *domain.Assignee) error {
	query, args, err := psql.
		Insert("assignees").
		Columns(assigneeColumns...).
		Values(a.ID, a.Name, a.Token, a.IsApprover, a.IsActive, a.CreatedAt).
		Suffix(`ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			token = EXCLUDED.token,
			is_approver = EXCLUDED.is_approver,
			is_active = EXCLUDED.is_active`).
		ToSql()
	if err != nil {
		return fmt.Errorf("build Upsert query for assignee: %w", err)
	}

	if _, err := r.pool.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert assignee %s: %w", a.ID, err)
	}
	return nil
}
