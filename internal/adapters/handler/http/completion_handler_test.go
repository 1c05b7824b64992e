package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gallocedrone/habitgrid/internal/core/domain"
)

func TestCompletionHandlerCreate(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		env := newTestEnv(t)
		habit := env.seedHabit(t, "user-1", "Read")

		w := env.do(t, http.MethodPost, "/api/v1/completions", "user-1", gin.H{
			"habit_id": habit.ID,
			"date":     "2024-01-15T18:30:00Z",
		})

		require.Equal(t, http.StatusCreated, w.Code)
		completion := decodeJSON[domain.Completion](t, w)
		assert.Equal(t, habit.ID, completion.HabitID)
		assert.Equal(t, time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), completion.Date.UTC())
	})

	t.Run("Duplicate day answers 409 with the existing record", func(t *testing.T) {
		env := newTestEnv(t)
		habit := env.seedHabit(t, "user-1", "Read")

		first := env.do(t, http.MethodPost, "/api/v1/completions", "user-1", gin.H{
			"habit_id": habit.ID,
			"date":     "2024-01-15T08:00:00Z",
		})
		require.Equal(t, http.StatusCreated, first.Code)
		original := decodeJSON[domain.Completion](t, first)

		second := env.do(t, http.MethodPost, "/api/v1/completions", "user-1", gin.H{
			"habit_id": habit.ID,
			"date":     "2024-01-15T21:00:00Z",
		})

		require.Equal(t, http.StatusConflict, second.Code)

		var body struct {
			Error      string            `json:"error"`
			Completion domain.Completion `json:"completion"`
		}
		require.NoError(t, json.Unmarshal(second.Body.Bytes(), &body))
		assert.NotEmpty(t, body.Error)
		assert.Equal(t, original.ID, body.Completion.ID, "the surviving record rides along")
	})

	t.Run("Unknown habit", func(t *testing.T) {
		env := newTestEnv(t)

		w := env.do(t, http.MethodPost, "/api/v1/completions", "user-1", gin.H{
			"habit_id": "missing",
		})

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("Habit of another user", func(t *testing.T) {
		env := newTestEnv(t)
		habit := env.seedHabit(t, "user-1", "Read")

		w := env.do(t, http.MethodPost, "/api/v1/completions", "user-2", gin.H{
			"habit_id": habit.ID,
		})

		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("Missing habit_id", func(t *testing.T) {
		env := newTestEnv(t)

		w := env.do(t, http.MethodPost, "/api/v1/completions", "user-1", gin.H{})

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestCompletionHandlerList(t *testing.T) {
	env := newTestEnv(t)
	habit := env.seedHabit(t, "user-1", "Read")

	for day := 10; day <= 14; day++ {
		w := env.do(t, http.MethodPost, "/api/v1/completions", "user-1", gin.H{
			"habit_id": habit.ID,
			"date":     fmt.Sprintf("2024-01-%02dT12:00:00Z", day),
		})
		require.Equal(t, http.StatusCreated, w.Code)
	}

	t.Run("Unbounded", func(t *testing.T) {
		w := env.do(t, http.MethodGet, "/api/v1/completions", "user-1", nil)

		require.Equal(t, http.StatusOK, w.Code)
		list := decodeJSON[[]domain.Completion](t, w)
		assert.Len(t, list, 5)
	})

	t.Run("Bounded range", func(t *testing.T) {
		w := env.do(t, http.MethodGet,
			"/api/v1/completions?from=2024-01-11T00:00:00Z&to=2024-01-13T23:59:00Z", "user-1", nil)

		require.Equal(t, http.StatusOK, w.Code)
		list := decodeJSON[[]domain.Completion](t, w)
		assert.Len(t, list, 3)
	})

	t.Run("Bad from format", func(t *testing.T) {
		w := env.do(t, http.MethodGet, "/api/v1/completions?from=yesterday", "user-1", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Empty list is a JSON array", func(t *testing.T) {
		w := env.do(t, http.MethodGet, "/api/v1/completions", "user-9", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, "[]", w.Body.String())
	})
}

func TestCompletionHandlerDelete(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		env := newTestEnv(t)
		habit := env.seedHabit(t, "user-1", "Read")

		created := env.do(t, http.MethodPost, "/api/v1/completions", "user-1", gin.H{
			"habit_id": habit.ID,
		})
		require.Equal(t, http.StatusCreated, created.Code)
		completion := decodeJSON[domain.Completion](t, created)

		w := env.do(t, http.MethodDelete, "/api/v1/completions/"+completion.ID, "user-1", nil)
		assert.Equal(t, http.StatusNoContent, w.Code)

		again := env.do(t, http.MethodDelete, "/api/v1/completions/"+completion.ID, "user-1", nil)
		assert.Equal(t, http.StatusNotFound, again.Code, "second delete finds nothing")
	})

	t.Run("Not owner", func(t *testing.T) {
		env := newTestEnv(t)
		habit := env.seedHabit(t, "user-1", "Read")

		created := env.do(t, http.MethodPost, "/api/v1/completions", "user-1", gin.H{
			"habit_id": habit.ID,
		})
		require.Equal(t, http.StatusCreated, created.Code)
		completion := decodeJSON[domain.Completion](t, created)

		w := env.do(t, http.MethodDelete, "/api/v1/completions/"+completion.ID, "user-2", nil)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}

func TestStatsHandler(t *testing.T) {
	env := newTestEnv(t)
	habit := env.seedHabit(t, "user-1", "Read")

	today := domain.DayOf(time.Now(), time.UTC)
	for daysAgo := 0; daysAgo < 3; daysAgo++ {
		w := env.do(t, http.MethodPost, "/api/v1/completions", "user-1", gin.H{
			"habit_id": habit.ID,
			"date":     today.AddDate(0, 0, -daysAgo).Format(time.RFC3339),
		})
		require.Equal(t, http.StatusCreated, w.Code)
	}

	w := env.do(t, http.MethodGet, "/api/v1/stats", "user-1", nil)
	require.Equal(t, http.StatusOK, w.Code)

	stats := decodeJSON[domain.UserStats](t, w)
	assert.Equal(t, 1, stats.TotalHabits)
	require.Len(t, stats.Habits, 1)
	assert.Equal(t, habit.ID, stats.Habits[0].HabitID)
	assert.Equal(t, 3, stats.Habits[0].CurrentStreak)
	assert.Equal(t, 3, stats.Habits[0].TotalCompletions)
}
