package services

import (
	"context"
	"time"

	"github.com/gallocedrone/habitgrid/internal/core/domain"
	"github.com/gallocedrone/habitgrid/internal/core/streak"
)

type StatsService struct {
	habitRepo      domain.HabitRepository
	completionRepo domain.CompletionRepository
	loc            *time.Location
	now            func() time.Time
}

func NewStatsService(habitRepo domain.HabitRepository, completionRepo domain.CompletionRepository, loc *time.Location) *StatsService {
	if loc == nil {
		loc = time.Local
	}
	return &StatsService{
		habitRepo:      habitRepo,
		completionRepo: completionRepo,
		loc:            loc,
		now:            time.Now,
	}
}

// GetUserStats computes streak and consistency figures for every habit of a
// user from a single snapshot of their completion history.
func (s *StatsService) GetUserStats(ctx context.Context, userID string) (*domain.UserStats, error) {
	habits, err := s.habitRepo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	completions, err := s.completionRepo.ListByUserID(ctx, userID, nil, nil)
	if err != nil {
		return nil, err
	}

	byHabit := make(map[string][]time.Time)
	for _, c := range completions {
		byHabit[c.HabitID] = append(byHabit[c.HabitID], c.Date)
	}

	now := s.now()

	stats := &domain.UserStats{
		GeneratedAt: now.UTC(),
		TotalHabits: len(habits),
		Habits:      make([]domain.HabitStats, 0, len(habits)),
	}

	for _, h := range habits {
		dates := byHabit[h.ID]

		stats.Habits = append(stats.Habits, domain.HabitStats{
			HabitID:          h.ID,
			Name:             h.Name,
			Color:            h.Color,
			IsFavorite:       h.IsFavorite,
			CurrentStreak:    streak.Current(dates, now, s.loc),
			LongestStreak:    streak.Longest(dates, s.loc),
			WeekConsistency:  streak.Consistency(dates, streak.DefaultWindow, now, s.loc),
			TotalCompletions: len(dates),
		})
	}

	return stats, nil
}
