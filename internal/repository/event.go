package repository

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ccpk1/kidschores-ha-sub014/internal/domain"
)

var eventColumns = []string{
	"id", "chore_id", "assignee_id", "type", "old_state", "new_state",
	"points", "comment", "created_at",
}

// EventRepository handles database operations for lifecycle events.
type EventRepository struct {
	pool *pgxpool.Pool
}

// NewEventRepository creates a new EventRepository.
func NewEventRepository(pool *pgxpool.Pool) *EventRepository {
	return &EventRepository{pool: pool}
}

// Create appends a lifecycle event. Events are insert-only.
func (r *EventRepository) Create(ctx context.Context, event *domain.Event) error {
	query, args, err := psql.
		Insert("events").
		Columns(eventColumns...).
		Values(
			event.ID,
			event.ChoreID,
			event.AssigneeID,
			event.Type,
			event.OldState,
			event.NewState,
			event.Points,
			event.Comment,
			event.CreatedAt,
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("build Create query for event: %w", err)
	}

	if _, err := r.pool.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("create event: %w", err)
	}
	return nil
}

// GetByChoreID retrieves all events for a chore, oldest first.
func (r *EventRepository) GetByChoreID(ctx context.Context, choreID string) ([]*domain.Event, error) {
	query, args, err := psql.
		Select(eventColumns...).
		From("events").
		Where(sq.Eq{"chore_id": choreID}).
		OrderBy("created_at ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build GetByChoreID query: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()

	var events []*domain.Event
	for rows.Next() {
		var event domain.Event
		err := rows.Scan(
			&event.ID,
			&event.ChoreID,
			&event.AssigneeID,
			&event.Type,
			&event.OldState,
			&event.NewState,
			&event.Points,
			&event.Comment,
			&event.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		events = append(events, &event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}
	return events, nil
}
