package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrCompletionHabitRequired = errors.New("habit_id is required")
	ErrCompletionUserRequired  = errors.New("user_id is required")
	ErrCompletionDateRequired  = errors.New("completion date is required")
)

type Completion struct {
	ID        string    `json:"id" db:"id"`
	HabitID   string    `json:"habit_id" db:"habit_id"`
	UserID    string    `json:"user_id" db:"user_id"`
	Date      time.Time `json:"date" db:"day"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// DayOf strips the time-of-day component in the given location. All
// completion dates are stored at day granularity so that the unique
// (habit, day) constraint and the streak math agree on what "a day" is.
func DayOf(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

func NewCompletion(habitID, userID string, date time.Time, loc *time.Location) *Completion {
	return &Completion{
		ID:        uuid.NewString(),
		HabitID:   habitID,
		UserID:    userID,
		Date:      DayOf(date, loc),
		CreatedAt: time.Now().UTC(),
	}
}

func (c *Completion) Validate() error {
	if strings.TrimSpace(c.HabitID) == "" {
		return ErrCompletionHabitRequired
	}
	if strings.TrimSpace(c.UserID) == "" {
		return ErrCompletionUserRequired
	}
	if c.Date.IsZero() {
		return ErrCompletionDateRequired
	}
	return nil
}
