package repository

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ccpk1/kidschores-ha-sub014/internal/domain"
)

// recordColumns is the shared list of columns for record queries.
var recordColumns = []string{
	"chore_id", "assignee_id", "state", "due_at", "claimed_at", "approved_at",
	"cycle_start_at", "cycle_completions", "last_award", "retired", "updated_at",
}

// RecordRepository handles database operations for per-assignee chore records.
type RecordRepository struct {
	pool *pgxpool.Pool
}

// NewRecordRepository creates a new RecordRepository.
func NewRecordRepository(pool *pgxpool.Pool) *RecordRepository {
	return &RecordRepository{pool: pool}
}

// scanRecord scans a single row into a Record struct.
func scanRecord(row pgx.Row) (*domain.Record, error) {
	var rec domain.Record
	err := row.Scan(
		&rec.ChoreID,
		&rec.AssigneeID,
		&rec.State,
		&rec.DueAt,
		&rec.ClaimedAt,
		&rec.ApprovedAt,
		&rec.CycleStartAt,
		&rec.CycleCompletions,
		&rec.LastAward,
		&rec.Retired,
		&rec.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotAssigned
		}
		return nil, fmt.Errorf("scan record: %w", err)
	}
	return &rec, nil
}

// List retrieves all records.
func (r *RecordRepository) List(ctx context.Context) ([]*domain.Record, error) {
	query, args, err := psql.
		Select(recordColumns...).
		From("records").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build List query for records: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query records: %w", err)
	}
	defer rows.Close()

	var records []*domain.Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}
	return records, nil
}

// ListByChore retrieves the records of one chore.
func (r *RecordRepository) ListByChore(ctx context.Context, choreID string) ([]*domain.Record, error) {
	query, args, err := psql.
		Select(recordColumns...).
		From("records").
		Where(sq.Eq{"chore_id": choreID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build ListByChore query: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query chore records: %w", err)
	}
	defer rows.Close()

	var records []*domain.Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}
	return records, nil
}

// UpsertBatch writes a set of records in one transaction so a multi-record
// transition (shared reset, first-claim lockout) lands atomically.
func (r *RecordRepository) UpsertBatch(ctx context.Context, records []*domain.Record) error {
	if len(records) == 0 {
		return nil
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	for _, rec := range records {
		if err := r.upsertOne(ctx, tx, rec); err != nil {
			return err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit records: %w", err)
	}
	return nil
}

func (r *RecordRepository) upsertOne(ctx context.Context, tx pgx.Tx, rec *domain.Record) error {
	query, args, err := psql.
		Insert("records").
		Columns(recordColumns...).
		Values(
			rec.ChoreID,
			rec.AssigneeID,
			rec.State,
			rec.DueAt,
			rec.ClaimedAt,
			rec.ApprovedAt,
			rec.CycleStartAt,
			rec.CycleCompletions,
			rec.LastAward,
			rec.Retired,
			rec.UpdatedAt,
		).
		Suffix(`ON CONFLICT (chore_id, assignee_id) DO UPDATE SET
			state = EXCLUDED.state,
			due_at = EXCLUDED.due_at,
			claimed_at = EXCLUDED.claimed_at,
			approved_at = EXCLUDED.approved_at,
			cycle_start_at = EXCLUDED.cycle_start_at,
			cycle_completions = EXCLUDED.cycle_completions,
			last_award = EXCLUDED.last_award,
			retired = EXCLUDED.retired,
			updated_at = EXCLUDED.updated_at`).
		ToSql()
	if err != nil {
		return fmt.Errorf("build Upsert query for record: %w", err)
	}

	if _, err := tx.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert record %s/%s: %w", rec.ChoreID, rec.AssigneeID, err)
	}
	return nil
}
