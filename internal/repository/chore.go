package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ccpk1/kidschores-ha-sub014/internal/domain"
)

// psql builds all repository SQL with PostgreSQL dollar placeholders.
var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// choreColumns is the shared list of columns for chore queries.
var choreColumns = []string{
	"id", "title", "description", "points", "assignee_ids",
	"mode", "shared_reset", "reset_kind", "reset_boundary", "pending_claim", "overdue_policy",
	"recurrence_kind", "recurrence_interval", "recurrence_unit", "recurrence_times", "pin_weekday",
	"applicable_days", "due_at", "due_overrides",
	"auto_approve", "notify_on_claim", "notify_on_approval", "notify_on_overdue",
	"created_at", "updated_at",
}

// ChoreRepository handles database operations for chore configuration.
type ChoreRepository struct {
	pool *pgxpool.Pool
}

// NewChoreRepository creates a new ChoreRepository.
func NewChoreRepository(pool *pgxpool.Pool) *ChoreRepository {
	return &ChoreRepository{pool: pool}
}

// scanChore scans a single row into a Chore struct.
func scanChore(row pgx.Row) (*domain.Chore, error) {
	var (
		chore     domain.Chore
		days      []int32
		overrides []byte
	)
	err := row.Scan(
		&chore.ID,
		&chore.Title,
		&chore.Description,
		&chore.Points,
		&chore.AssigneeIDs,
		&chore.Mode,
		&chore.SharedReset,
		&chore.Reset.Kind,
		&chore.Reset.Boundary,
		&chore.Reset.PendingClaim,
		&chore.Overdue,
		&chore.Recurrence.Kind,
		&chore.Recurrence.Interval,
		&chore.Recurrence.Unit,
		&chore.Recurrence.Times,
		&chore.Recurrence.PinWeekday,
		&days,
		&chore.DueAt,
		&overrides,
		&chore.AutoApprove,
		&chore.NotifyOnClaim,
		&chore.NotifyOnApproval,
		&chore.NotifyOnOverdue,
		&chore.CreatedAt,
		&chore.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrChoreNotFound
		}
		return nil, fmt.Errorf("scan chore: %w", err)
	}

	if days != nil {
		chore.ApplicableDays = make([]time.Weekday, 0, len(days))
		for _, d := range days {
			chore.ApplicableDays = append(chore.ApplicableDays, time.Weekday(d))
		}
	}
	if len(overrides) > 0 {
		if err := json.Unmarshal(overrides, &chore.DueOverrides); err != nil {
			return nil, fmt.Errorf("decode due overrides: %w", err)
		}
	}
	return &chore, nil
}

// GetByID retrieves a chore by ID.
func (r *ChoreRepository) GetByID(ctx context.Context, choreID string) (*domain.Chore, error) {
	query, args, err := psql.
		Select(choreColumns...).
		From("chores").
		Where(sq.Eq{"id": choreID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build GetByID query for chore: %w", err)
	}

	return scanChore(r.pool.QueryRow(ctx, query, args...))
}

// List retrieves all chores.
func (r *ChoreRepository) List(ctx context.Context) ([]*domain.Chore, error) {
	query, args, err := psql.
		Select(choreColumns...).
		From("chores").
		OrderBy("title ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build List query for chores: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query chores: %w", err)
	}
	defer rows.Close()

	var chores []*domain.Chore
	for rows.Next() {
		chore, err := scanChore(rows)
		if err != nil {
			return nil, err
		}
		chores = append(chores, chore)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}
	return chores, nil
}

// Upsert inserts or fully replaces a chore's configuration.
func (r *ChoreRepository) Upsert(ctx context.Context, chore *domain.Chore) error {
	var days []int32
	if chore.ApplicableDays != nil {
		days = make([]int32, 0, len(chore.ApplicableDays))
		for _, d := range chore.ApplicableDays {
			days = append(days, int32(d))
		}
	}

	var overrides []byte
	if len(chore.DueOverrides) > 0 {
		var err error
		overrides, err = json.Marshal(chore.DueOverrides)
		if err != nil {
			return fmt.Errorf("encode due overrides: %w", err)
		}
	}

	query, args, err := psql.
		Insert("chores").
		Columns(choreColumns...).
		Values(
			chore.ID,
			chore.Title,
			chore.Description,
			chore.Points,
			chore.AssigneeIDs,
			chore.Mode,
			chore.SharedReset,
			chore.Reset.Kind,
			chore.Reset.Boundary,
			chore.Reset.PendingClaim,
			chore.Overdue,
			chore.Recurrence.Kind,
			chore.Recurrence.Interval,
			chore.Recurrence.Unit,
			chore.Recurrence.Times,
			chore.Recurrence.PinWeekday,
			days,
			chore.DueAt,
			overrides,
			chore.AutoApprove,
			chore.NotifyOnClaim,
			chore.NotifyOnApproval,
			chore.NotifyOnOverdue,
			chore.CreatedAt,
			chore.UpdatedAt,
		).
		Suffix(`ON CONFLICT (id) DO UPDATE SET
			title = EXCLUDED.title,
			description = EXCLUDED.description,
			points = EXCLUDED.points,
			assignee_ids = EXCLUDED.assignee_ids,
			mode = EXCLUDED.mode,
			shared_reset = EXCLUDED.shared_reset,
			reset_kind = EXCLUDED.reset_kind,
			reset_boundary = EXCLUDED.reset_boundary,
			pending_claim = EXCLUDED.pending_claim,
			overdue_policy = EXCLUDED.overdue_policy,
			recurrence_kind = EXCLUDED.recurrence_kind,
			recurrence_interval = EXCLUDED.recurrence_interval,
			recurrence_unit = EXCLUDED.recurrence_unit,
			recurrence_times = EXCLUDED.recurrence_times,
			pin_weekday = EXCLUDED.pin_weekday,
			applicable_days = EXCLUDED.applicable_days,
			due_at = EXCLUDED.due_at,
			due_overrides = EXCLUDED.due_overrides,
			auto_approve = EXCLUDED.auto_approve,
			notify_on_claim = EXCLUDED.notify_on_claim,
			notify_on_approval = EXCLUDED.notify_on_approval,
			notify_on_overdue = EXCLUDED.notify_on_overdue,
			updated_at = EXCLUDED.updated_at`).
		ToSql()
	if err != nil {
		return fmt.Errorf("build Upsert query for chore: %w", err)
	}

	if _, err := r.pool.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert chore: %w", err)
	}
	return nil
}
