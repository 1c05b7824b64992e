package domain

import (
	"context"
	"errors"
	"time"
)

var (
	ErrCompletionNotFound = errors.New("completion not found")

	// ErrCompletionExists signals the unique (habit, day) constraint.
	// A day is either done or not; there is never a second row for it.
	ErrCompletionExists = errors.New("completion already exists for this day")
)

type CompletionRepository interface {
	// Create persists a new completion. Returns ErrCompletionExists when a
	// completion for the same (habit, day) pair is already present.
	Create(ctx context.Context, completion *Completion) error

	// GetByID retrieves a single completion by its ID.
	GetByID(ctx context.Context, id string) (*Completion, error)

	// GetByHabitAndDay retrieves the completion for a habit on a given
	// calendar day, if any. The day must already be normalized via DayOf.
	GetByHabitAndDay(ctx context.Context, habitID string, day time.Time) (*Completion, error)

	// ListByUserID retrieves a user's completions, optionally bounded by
	// an inclusive [from, to] day range. Nil bounds mean unbounded.
	ListByUserID(ctx context.Context, userID string, from, to *time.Time) ([]*Completion, error)

	// ListByHabitID retrieves every completion recorded for one habit.
	ListByHabitID(ctx context.Context, habitID string) ([]*Completion, error)

	// Delete removes a completion by ID.
	Delete(ctx context.Context, id string) error

	// DeleteByHabitID removes all completions of a habit. Used by the
	// habit delete cascade.
	DeleteByHabitID(ctx context.Context, habitID string) error
}
