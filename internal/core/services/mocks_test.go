package services

import (
	"context"
	"time"

	"github.com/gallocedrone/habitgrid/internal/core/domain"
)

// Hand-rolled repository fakes. Each one keeps its rows in a map and can be
// told to fail via simulateError, which every method checks first.

type mockHabitRepo struct {
	habits        map[string]*domain.Habit
	simulateError error
}

func newMockHabitRepo() *mockHabitRepo {
	return &mockHabitRepo{habits: make(map[string]*domain.Habit)}
}

func (m *mockHabitRepo) Create(ctx context.Context, habit *domain.Habit) error {
	if m.simulateError != nil {
		return m.simulateError
	}
	clone := *habit
	m.habits[habit.ID] = &clone
	return nil
}

func (m *mockHabitRepo) GetByID(ctx context.Context, id string) (*domain.Habit, error) {
	if m.simulateError != nil {
		return nil, m.simulateError
	}
	habit, ok := m.habits[id]
	if !ok {
		return nil, domain.ErrHabitNotFound
	}
	clone := *habit
	return &clone, nil
}

func (m *mockHabitRepo) ListByUserID(ctx context.Context, userID string) ([]*domain.Habit, error) {
	if m.simulateError != nil {
		return nil, m.simulateError
	}
	var out []*domain.Habit
	for _, h := range m.habits {
		if h.UserID == userID {
			clone := *h
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (m *mockHabitRepo) Update(ctx context.Context, habit *domain.Habit) error {
	if m.simulateError != nil {
		return m.simulateError
	}
	if _, ok := m.habits[habit.ID]; !ok {
		return domain.ErrHabitNotFound
	}
	clone := *habit
	m.habits[habit.ID] = &clone
	return nil
}

func (m *mockHabitRepo) Delete(ctx context.Context, id string) error {
	if m.simulateError != nil {
		return m.simulateError
	}
	if _, ok := m.habits[id]; !ok {
		return domain.ErrHabitNotFound
	}
	delete(m.habits, id)
	return nil
}

type mockCompletionRepo struct {
	completions   map[string]*domain.Completion
	simulateError error
}

func newMockCompletionRepo() *mockCompletionRepo {
	return &mockCompletionRepo{completions: make(map[string]*domain.Completion)}
}

func (m *mockCompletionRepo) Create(ctx context.Context, completion *domain.Completion) error {
	if m.simulateError != nil {
		return m.simulateError
	}
	for _, c := range m.completions {
		if c.HabitID == completion.HabitID && c.Date.Equal(completion.Date) {
			return domain.ErrCompletionExists
		}
	}
	clone := *completion
	m.completions[completion.ID] = &clone
	return nil
}

func (m *mockCompletionRepo) GetByID(ctx context.Context, id string) (*domain.Completion, error) {
	if m.simulateError != nil {
		return nil, m.simulateError
	}
	c, ok := m.completions[id]
	if !ok {
		return nil, domain.ErrCompletionNotFound
	}
	clone := *c
	return &clone, nil
}

func (m *mockCompletionRepo) GetByHabitAndDay(ctx context.Context, habitID string, day time.Time) (*domain.Completion, error) {
	if m.simulateError != nil {
		return nil, m.simulateError
	}
	for _, c := range m.completions {
		if c.HabitID == habitID && c.Date.Equal(day) {
			clone := *c
			return &clone, nil
		}
	}
	return nil, domain.ErrCompletionNotFound
}

func (m *mockCompletionRepo) ListByUserID(ctx context.Context, userID string, from, to *time.Time) ([]*domain.Completion, error) {
	if m.simulateError != nil {
		return nil, m.simulateError
	}
	var out []*domain.Completion
	for _, c := range m.completions {
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
		out = append(out, &clone)
	}
	return out, nil
}

func (m *mockCompletionRepo) ListByHabitID(ctx context.Context, habitID string) ([]*domain.Completion, error) {
	if m.simulateError != nil {
		return nil, m.simulateError
	}
	var out []*domain.Completion
	for _, c := range m.completions {
		if c.HabitID == habitID {
			clone := *c
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (m *mockCompletionRepo) Delete(ctx context.Context, id string) error {
	if m.simulateError != nil {
		return m.simulateError
	}
	if _, ok := m.completions[id]; !ok {
		return domain.ErrCompletionNotFound
	}
	delete(m.completions, id)
	return nil
}

func (m *mockCompletionRepo) DeleteByHabitID(ctx context.Context, habitID string) error {
	if m.simulateError != nil {
		return m.simulateError
	}
	for id, c := range m.completions {
		if c.HabitID == habitID {
			delete(m.completions, id)
		}
	}
	return nil
}

type mockUserRepo struct {
	users         map[string]*domain.User
	simulateError error
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[string]*domain.User)}
}

func (m *mockUserRepo) Create(ctx context.Context, user *domain.User) error {
	if m.simulateError != nil {
		return m.simulateError
	}
	for _, u := range m.users {
		if u.Email == user.Email {
			return domain.ErrEmailAlreadyExists
		}
	}
	clone := *user
	m.users[user.ID] = &clone
	return nil
}

func (m *mockUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	if m.simulateError != nil {
		return nil, m.simulateError
	}
	u, ok := m.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	clone := *u
	return &clone, nil
}

func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	if m.simulateError != nil {
		return nil, m.simulateError
	}
	for _, u := range m.users {
		if u.Email == email {
			clone := *u
			return &clone, nil
		}
	}
	return nil, domain.ErrUserNotFound
}
