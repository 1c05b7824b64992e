package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gallocedrone/habitgrid/internal/core/domain"
)

func TestStatsServiceGetUserStats(t *testing.T) {
	habits := newMockHabitRepo()
	completions := newMockCompletionRepo()

	reading := seedHabit(t, habits, "user-1", "Read")
	running := seedHabit(t, habits, "user-1", "Run")
	seedHabit(t, habits, "user-2", "Someone else's")

	now := time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)

	mark := func(habitID string, daysAgo int) {
		t.Helper()
		c := domain.NewCompletion(habitID, "user-1", now.AddDate(0, 0, -daysAgo), time.UTC)
		require.NoError(t, completions.Create(context.Background(), c))
	}

	// Reading: done today and the two days before, plus an isolated older run.
	mark(reading.ID, 0)
	mark(reading.ID, 1)
	mark(reading.ID, 2)
	mark(reading.ID, 10)
	mark(reading.ID, 11)
	mark(reading.ID, 12)
	mark(reading.ID, 13)

	// Running: nothing recorded.

	service := NewStatsService(habits, completions, time.UTC)
	service.now = func() time.Time { return now }

	stats, err := service.GetUserStats(context.Background(), "user-1")
	require.NoError(t, err)

	assert.Equal(t, 2, stats.TotalHabits)
	require.Len(t, stats.Habits, 2)

	byID := make(map[string]domain.HabitStats)
	for _, hs := range stats.Habits {
		byID[hs.HabitID] = hs
	}

	readStats := byID[reading.ID]
	assert.Equal(t, 3, readStats.CurrentStreak)
	assert.Equal(t, 4, readStats.LongestStreak, "the older run is the longest")
	assert.Equal(t, 43, readStats.WeekConsistency, "3 of the last 7 days")
	assert.Equal(t, 7, readStats.TotalCompletions)

	runStats := byID[running.ID]
	assert.Equal(t, 0, runStats.CurrentStreak)
	assert.Equal(t, 0, runStats.LongestStreak)
	assert.Equal(t, 0, runStats.WeekConsistency)
	assert.Equal(t, 0, runStats.TotalCompletions)
}

func TestStatsServiceEmptyUser(t *testing.T) {
	service := NewStatsService(newMockHabitRepo(), newMockCompletionRepo(), time.UTC)

	stats, err := service.GetUserStats(context.Background(), "nobody")
	require.NoError(t, err)

	assert.Equal(t, 0, stats.TotalHabits)
	assert.Empty(t, stats.Habits)
	assert.False(t, stats.GeneratedAt.IsZero())
}
