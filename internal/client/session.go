package client

import (
	"context"
	"time"

	"github.com/gallocedrone/habitgrid/internal/client/cachesync"
	"github.com/gallocedrone/habitgrid/internal/core/domain"
	"github.com/gallocedrone/habitgrid/internal/core/streak"
)

const (
	KeyHabits      cachesync.Key = "habits"
	KeyCompletions cachesync.Key = "completions"
)

// Session owns the cache for one logged-in user. It reads through the
// cache and routes every mutation through the cachesync runner, so the
// visible state always matches something the server has confirmed.
type Session struct {
	api    *Client
	store  *cachesync.Store
	runner *cachesync.Runner
	loc    *time.Location
	now    func() time.Time
}

func NewSession(api *Client) *Session {
	store := cachesync.NewStore()
	runner := cachesync.NewRunner(store)

	s := &Session{
		api:    api,
		store:  store,
		runner: runner,
		loc:    time.Local,
		now:    time.Now,
	}

	runner.RegisterFetcher(KeyHabits, func(ctx context.Context) (any, error) {
		habits, err := api.FetchHabits(ctx)
		return habits, err
	})
	runner.RegisterFetcher(KeyCompletions, func(ctx context.Context) (any, error) {
		completions, err := api.FetchCompletions(ctx, nil, nil)
		return completions, err
	})

	return s
}

func (s *Session) Store() *cachesync.Store {
	return s.store
}

// Habits returns the cached habit list, fetching it when the partition
// is missing or stale.
func (s *Session) Habits(ctx context.Context) ([]*domain.Habit, error) {
	if !s.store.IsStale(KeyHabits) {
		if habits, ok := cachesync.Value[[]*domain.Habit](s.store, KeyHabits); ok {
			return habits, nil
		}
	}

	habits, err := s.api.FetchHabits(ctx)
	if err != nil {
		return nil, err
	}
	s.store.Set(KeyHabits, habits)
	return habits, nil
}

func (s *Session) Completions(ctx context.Context) ([]*domain.Completion, error) {
	if !s.store.IsStale(KeyCompletions) {
		if completions, ok := cachesync.Value[[]*domain.Completion](s.store, KeyCompletions); ok {
			return completions, nil
		}
	}

	completions, err := s.api.FetchCompletions(ctx, nil, nil)
	if err != nil {
		return nil, err
	}
	s.store.Set(KeyCompletions, completions)
	return completions, nil
}

func (s *Session) CreateHabit(ctx context.Context, input CreateHabitInput) (*domain.Habit, error) {
	return cachesync.Run(ctx, s.runner, cachesync.Mutation[*domain.Habit]{
		Do: func(ctx context.Context) (*domain.Habit, error) {
			return s.api.CreateHabit(ctx, input)
		},
		Keys: []cachesync.Key{KeyHabits},
		PatchCache: func(habit *domain.Habit, key cachesync.Key, current any) any {
			habits, _ := current.([]*domain.Habit)
			return append(habits, habit)
		},
	})
}

func (s *Session) UpdateHabit(ctx context.Context, id string, input UpdateHabitInput) (*domain.Habit, error) {
	return cachesync.Run(ctx, s.runner, cachesync.Mutation[*domain.Habit]{
		Do: func(ctx context.Context) (*domain.Habit, error) {
			return s.api.UpdateHabit(ctx, id, input)
		},
		Keys: []cachesync.Key{KeyHabits},
		PatchCache: func(updated *domain.Habit, key cachesync.Key, current any) any {
			habits, _ := current.([]*domain.Habit)
			next := make([]*domain.Habit, 0, len(habits))
			for _, h := range habits {
				if h.ID == updated.ID {
					next = append(next, updated)
				} else {
					next = append(next, h)
				}
			}
			return next
		},
	})
}

// DeleteHabit removes the habit from the habit partition and drops its
// completions from the completion partition, mirroring the server-side
// cascade.
func (s *Session) DeleteHabit(ctx context.Context, id string) error {
	_, err := cachesync.Run(ctx, s.runner, cachesync.Mutation[string]{
		Do: func(ctx context.Context) (string, error) {
			if err := s.api.DeleteHabit(ctx, id); err != nil {
				return "", err
			}
			return id, nil
		},
		Keys: []cachesync.Key{KeyHabits, KeyCompletions},
		PatchCache: func(deletedID string, key cachesync.Key, current any) any {
			switch key {
			case KeyHabits:
				habits, _ := current.([]*domain.Habit)
				next := make([]*domain.Habit, 0, len(habits))
				for _, h := range habits {
					if h.ID != deletedID {
						next = append(next, h)
					}
				}
				return next
			case KeyCompletions:
				completions, _ := current.([]*domain.Completion)
				next := make([]*domain.Completion, 0, len(completions))
				for _, c := range completions {
					if c.HabitID != deletedID {
						next = append(next, c)
					}
				}
				return next
			}
			return current
		},
	})
	return err
}

// ToggleCompletion flips a habit's done state for a calendar day. Both
// races are benign: a concurrent create answers conflict and the layer
// adopts the existing record, a concurrent delete answers not-found and
// the desired end state is already there. Neither reaches the caller as
// an error.
func (s *Session) ToggleCompletion(ctx context.Context, habitID string, date time.Time) (bool, error) {
	day := domain.DayOf(date, s.loc)

	completions, err := s.Completions(ctx)
	if err != nil {
		return false, err
	}

	var existing *domain.Completion
	for _, c := range completions {
		if c.HabitID == habitID && domain.DayOf(c.Date, s.loc).Equal(day) {
			existing = c
			break
		}
	}

	if existing != nil {
		_, err := cachesync.Run(ctx, s.runner, cachesync.Mutation[string]{
			Do: func(ctx context.Context) (string, error) {
				err := s.api.DeleteCompletion(ctx, existing.ID)
				if err != nil && !IsNotFound(err) {
					return "", err
				}
				return existing.ID, nil
			},
			Keys: []cachesync.Key{KeyCompletions},
			PatchCache: func(deletedID string, key cachesync.Key, current any) any {
				completions, _ := current.([]*domain.Completion)
				next := make([]*domain.Completion, 0, len(completions))
				for _, c := range completions {
					if c.ID != deletedID {
						next = append(next, c)
					}
				}
				return next
			},
		})
		return false, err
	}

	_, err = cachesync.Run(ctx, s.runner, cachesync.Mutation[*domain.Completion]{
		Do: func(ctx context.Context) (*domain.Completion, error) {
			completion, err := s.api.CreateCompletion(ctx, habitID, day)
			if err != nil && IsConflict(err) {
				// Someone marked the day first; their record is ours now.
				if completion != nil {
					return completion, nil
				}
				// A conflict without the surviving record in the body means
				// the server's own lookup raced a delete. Refetch before
				// giving up on the benign outcome.
				if refetched, ferr := s.api.FetchCompletions(ctx, nil, nil); ferr == nil {
					for _, c := range refetched {
						if c.HabitID == habitID && domain.DayOf(c.Date, s.loc).Equal(day) {
							return c, nil
						}
					}
				}
			}
			return completion, err
		},
		Keys: []cachesync.Key{KeyCompletions},
		PatchCache: func(created *domain.Completion, key cachesync.Key, current any) any {
			completions, _ := current.([]*domain.Completion)
			for _, c := range completions {
				if c.ID == created.ID {
					return completions
				}
			}
			return append(completions, created)
		},
	})
	if err != nil {
		return false, err
	}
	return true, nil
}

// HabitStreak computes streak figures for one habit from the cached
// completion snapshot, without a server round trip.
func (s *Session) HabitStreak(ctx context.Context, habitID string) (current, longest, consistency int, err error) {
	completions, err := s.Completions(ctx)
	if err != nil {
		return 0, 0, 0, err
	}

	var dates []time.Time
	for _, c := range completions {
		if c.HabitID == habitID {
			dates = append(dates, c.Date)
		}
	}

	now := s.now()
	return streak.Current(dates, now, s.loc),
		streak.Longest(dates, s.loc),
		streak.Consistency(dates, streak.DefaultWindow, now, s.loc),
		nil
}
