package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/gallocedrone/habitgrid/internal/core/domain"
)

type PostgresCompletionRepository struct {
	db *sqlx.DB
}

func NewPostgresCompletionRepository(db *sqlx.DB) *PostgresCompletionRepository {
	return &PostgresCompletionRepository{db: db}
}

func (r *PostgresCompletionRepository) Create(ctx context.Context, c *domain.Completion) error {
	query := `
        INSERT INTO completions (id, habit_id, user_id, day, created_at)
        VALUES (:id, :habit_id, :user_id, :day, :created_at)`

	_, err := r.db.NamedExecContext(ctx, query, c)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) {
			// 23505: unique (habit_id, day) index. 23503: habit is gone.
			if pqErr.Code == "23505" {
				return domain.ErrCompletionExists
			}
			if pqErr.Code == "23503" {
				return domain.ErrHabitNotFound
			}
		}
		return fmt.Errorf("failed to insert completion: %w", err)
	}

	return nil
}

func (r *PostgresCompletionRepository) GetByID(ctx context.Context, id string) (*domain.Completion, error) {
	var c domain.Completion
	query := `SELECT * FROM completions WHERE id = $1`

	if err := r.db.GetContext(ctx, &c, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrCompletionNotFound
		}
		return nil, err
	}

	return &c, nil
}

func (r *PostgresCompletionRepository) GetByHabitAndDay(ctx context.Context, habitID string, day time.Time) (*domain.Completion, error) {
	var c domain.Completion
	query := `SELECT * FROM completions WHERE habit_id = $1 AND day = $2`

	if err := r.db.GetContext(ctx, &c, query, habitID, day); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrCompletionNotFound
		}
		return nil, err
	}

	return &c, nil
}

func (r *PostgresCompletionRepository) ListByUserID(ctx context.Context, userID string, from, to *time.Time) ([]*domain.Completion, error) {
	completions := []*domain.Completion{}

	query := `SELECT * FROM completions WHERE user_id = $1`
	args := []interface{}{userID}

	if from != nil {
		args = append(args, *from)
		query += fmt.Sprintf(" AND day >= $%d", len(args))
	}
	if to != nil {
		args = append(args, *to)
		query += fmt.Sprintf(" AND day <= $%d", len(args))
	}

	query += " ORDER BY day DESC"

	if err := r.db.SelectContext(ctx, &completions, query, args...); err != nil {
		return nil, fmt.Errorf("query error: %w", err)
	}

	return completions, nil
}

func (r *PostgresCompletionRepository) ListByHabitID(ctx context.Context, habitID string) ([]*domain.Completion, error) {
	completions := []*domain.Completion{}

	query := `SELECT * FROM completions WHERE habit_id = $1 ORDER BY day DESC`

	if err := r.db.SelectContext(ctx, &completions, query, habitID); err != nil {
		return nil, fmt.Errorf("query error: %w", err)
	}

	return completions, nil
}

func (r *PostgresCompletionRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM completions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete query failed: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrCompletionNotFound
	}

	return nil
}

func (r *PostgresCompletionRepository) DeleteByHabitID(ctx context.Context, habitID string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM completions WHERE habit_id = $1`, habitID); err != nil {
		return fmt.Errorf("cascade delete failed: %w", err)
	}
	return nil
}
