// In-memory implementations of the storage interfaces. Selected via
// STORAGE_BACKEND=memory; also the workhorse of the test suite.
package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/gallocedrone/habitgrid/internal/core/domain"
)

type InMemoryCompletionRepository struct {
	store map[string]*domain.Completion

	mu sync.RWMutex
}

func NewInMemoryCompletionRepository() *InMemoryCompletionRepository {
	return &InMemoryCompletionRepository{
		store: make(map[string]*domain.Completion),
	}
}

func (r *InMemoryCompletionRepository) Create(ctx context.Context, c *domain.Completion) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.store {
		if existing.HabitID == c.HabitID && existing.Date.Equal(c.Date) {
			return domain.ErrCompletionExists
		}
	}

	clone := *c
	r.store[c.ID] = &clone
	return nil
}

func (r *InMemoryCompletionRepository) GetByID(ctx context.Context, id string) (*domain.Completion, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.store[id]
	if !ok {
		return nil, domain.ErrCompletionNotFound
	}
	clone := *c
	return &clone, nil
}

func (r *InMemoryCompletionRepository) GetByHabitAndDay(ctx context.Context, habitID string, day time.Time) (*domain.Completion, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, c := range r.store {
		if c.HabitID == habitID && c.Date.Equal(day) {
			clone := *c
			return &clone, nil
		}
	}
	return nil, domain.ErrCompletionNotFound
}

func (r *InMemoryCompletionRepository) ListByUserID(ctx context.Context, userID string, from, to *time.Time) ([]*domain.Completion, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var completions []*domain.Completion
	for _, c := range r.store {
		if c.UserID != userID {
			continue
		}
		if from != nil && c.Date.Before(*from) {
			continue
		}
		if to != nil && c.Date.After(*to) {
			continue
		}
		clone := *c
		completions = append(completions, &clone)
	}

	sort.Slice(completions, func(i, j int) bool {
		return completions[i].Date.After(completions[j].Date)
	})

	return completions, nil
}

func (r *InMemoryCompletionRepository) ListByHabitID(ctx context.Context, habitID string) ([]*domain.Completion, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var completions []*domain.Completion
	for _, c := range r.store {
		if c.HabitID == habitID {
			clone := *c
			completions = append(completions, &clone)
		}
	}

	sort.Slice(completions, func(i, j int) bool {
		return completions[i].Date.After(completions[j].Date)
	})

	return completions, nil
}

func (r *InMemoryCompletionRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.store[id]; !ok {
		return domain.ErrCompletionNotFound
	}

	delete(r.store, id)
	return nil
}

func (r *InMemoryCompletionRepository) DeleteByHabitID(ctx context.Context, habitID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, c := range r.store {
		if c.HabitID == habitID {
			delete(r.store, id)
		}
	}
	return nil
}

type InMemoryHabitRepository struct {
	store       map[string]*domain.Habit
	completions *InMemoryCompletionRepository

	mu sync.RWMutex
}

// NewInMemoryHabitRepository builds a habit store. The completion repository
// is needed for the delete cascade and must be the same instance the rest of
// the application uses.
func NewInMemoryHabitRepository(completions *InMemoryCompletionRepository) *InMemoryHabitRepository {
	return &InMemoryHabitRepository{
		store:       make(map[string]*domain.Habit),
		completions: completions,
	}
}

func (r *InMemoryHabitRepository) Create(ctx context.Context, habit *domain.Habit) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	clone := *habit
	r.store[habit.ID] = &clone
	return nil
}

func (r *InMemoryHabitRepository) GetByID(ctx context.Context, id string) (*domain.Habit, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	habit, ok := r.store[id]
	if !ok {
		return nil, domain.ErrHabitNotFound
	}
	clone := *habit
	return &clone, nil
}

func (r *InMemoryHabitRepository) ListByUserID(ctx context.Context, userID string) ([]*domain.Habit, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var habits []*domain.Habit
	for _, h := range r.store {
		if h.UserID == userID {
			clone := *h
			habits = append(habits, &clone)
		}
	}

	sort.Slice(habits, func(i, j int) bool {
		return habits[i].CreatedAt.After(habits[j].CreatedAt)
	})

	return habits, nil
}

func (r *InMemoryHabitRepository) Update(ctx context.Context, habit *domain.Habit) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.store[habit.ID]; !ok {
		return domain.ErrHabitNotFound
	}

	clone := *habit
	r.store[habit.ID] = &clone
	return nil
}

func (r *InMemoryHabitRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.store[id]; !ok {
		return domain.ErrHabitNotFound
	}

	delete(r.store, id)

	if r.completions != nil {
		_ = r.completions.DeleteByHabitID(ctx, id)
	}
	return nil
}

type InMemoryUserRepository struct {
	store map[string]*domain.User

	mu sync.RWMutex
}

func NewInMemoryUserRepository() *InMemoryUserRepository {
	return &InMemoryUserRepository{
		store: make(map[string]*domain.User),
	}
}

func (r *InMemoryUserRepository) Create(ctx context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.store {
		if u.Email == user.Email {
			return domain.ErrEmailAlreadyExists
		}
	}

	clone := *user
	r.store[user.ID] = &clone
	return nil
}

func (r *InMemoryUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.store[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	clone := *user
	return &clone, nil
}

func (r *InMemoryUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.store {
		if u.Email == email {
			clone := *u
			return &clone, nil
		}
	}
	return nil, domain.ErrUserNotFound
}
