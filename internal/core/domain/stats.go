package domain

import "time"

type HabitStats struct {
	HabitID          string `json:"habit_id"`
	Name             string `json:"name"`
	Color            string `json:"color"`
	IsFavorite       bool   `json:"is_favorite"`
	CurrentStreak    int    `json:"current_streak"`
	LongestStreak    int    `json:"longest_streak"`
	WeekConsistency  int    `json:"week_consistency"`
	TotalCompletions int    `json:"total_completions"`
}

type UserStats struct {
	GeneratedAt time.Time    `json:"generated_at"`
	TotalHabits int          `json:"total_habits"`
	Habits      []HabitStats `json:"habits"`
}
