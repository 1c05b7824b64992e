package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/gallocedrone/habitgrid/internal/adapters/handler/http/middleware"
	"github.com/gallocedrone/habitgrid/internal/adapters/repository"
	"github.com/gallocedrone/habitgrid/internal/core/domain"
	"github.com/gallocedrone/habitgrid/internal/core/services"
)

type testEnv struct {
	router      *gin.Engine
	habits      *repository.InMemoryHabitRepository
	completions *repository.InMemoryCompletionRepository
}

// stubAuth replaces the JWT middleware in handler tests: the caller's
// identity comes straight from the X-User-ID header.
func stubAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if id := c.GetHeader("X-User-ID"); id != "" {
			c.Set(middleware.ContextUserIDKey, id)
		}
		c.Next()
	}
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	completions := repository.NewInMemoryCompletionRepository()
	habits := repository.NewInMemoryHabitRepository(completions)

	habitService := services.NewHabitService(habits)
	completionService := services.NewCompletionService(completions, habits, time.UTC)
	statsService := services.NewStatsService(habits, completions, time.UTC)

	router := gin.New()
	api := router.Group("/api/v1")
	api.Use(stubAuth())
	NewHabitHandler(habitService).RegisterRoutes(api)
	NewCompletionHandler(completionService).RegisterRoutes(api)
	NewStatsHandler(statsService).RegisterRoutes(api)

	return &testEnv{
		router:      router,
		habits:      habits,
		completions: completions,
	}
}

func (e *testEnv) do(t *testing.T, method, path, userID string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if userID != "" {
		req.Header.Set("X-User-ID", userID)
	}

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func (e *testEnv) seedHabit(t *testing.T, userID, name string) *domain.Habit {
	t.Helper()
	habit, err := domain.NewHabit(userID, name, nil, "", false)
	require.NoError(t, err)
	require.NoError(t, e.habits.Create(context.Background(), habit))
	return habit
}

func decodeJSON[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}
