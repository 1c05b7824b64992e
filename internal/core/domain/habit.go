package domain

import (
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrHabitNameEmpty     = errors.New("habit name cannot be empty")
	ErrHabitNameTooLong   = errors.New("habit name is too long (max 100 chars)")
	ErrHabitDescTooLong   = errors.New("habit description is too long (max 500 chars)")
	ErrHabitInvalidUserID = errors.New("invalid user id")
	ErrInvalidColor       = errors.New("invalid color format (must be #RRGGBB)")
)

var colorRegex = regexp.MustCompile(`^#([A-Fa-f0-9]{6}|[A-Fa-f0-9]{3})$`)

const (
	DefaultColor = "#8b5cf6"
	MaxNameLen   = 100
	MaxDescLen   = 500
)

type Habit struct {
	ID          string    `json:"id" db:"id"`
	UserID      string    `json:"user_id" db:"user_id"`
	Name        string    `json:"name" db:"name"`
	Description *string   `json:"description" db:"description"`
	Color       string    `json:"color" db:"color"`
	IsFavorite  bool      `json:"is_favorite" db:"is_favorite"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

func validateName(name string) (string, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return "", ErrHabitNameEmpty
	}
	if len(trimmed) > MaxNameLen {
		return "", ErrHabitNameTooLong
	}
	return trimmed, nil
}

func validateDescription(desc *string) (*string, error) {
	if desc == nil {
		return nil, nil
	}
	trimmed := strings.TrimSpace(*desc)
	if trimmed == "" {
		return nil, nil
	}
	if len(trimmed) > MaxDescLen {
		return nil, ErrHabitDescTooLong
	}
	return &trimmed, nil
}

func validateColor(color string) (string, error) {
	if color == "" {
		return DefaultColor, nil
	}
	if !colorRegex.MatchString(color) {
		return "", ErrInvalidColor
	}
	return color, nil
}

func NewHabit(userID, name string, description *string, color string, isFavorite bool) (*Habit, error) {
	if userID == "" {
		return nil, ErrHabitInvalidUserID
	}

	cleanName, err := validateName(name)
	if err != nil {
		return nil, err
	}

	cleanDesc, err := validateDescription(description)
	if err != nil {
		return nil, err
	}

	finalColor, err := validateColor(color)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()

	return &Habit{
		ID:          uuid.NewString(),
		UserID:      userID,
		Name:        cleanName,
		Description: cleanDesc,
		Color:       finalColor,
		IsFavorite:  isFavorite,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// Apply performs a partial update. Nil fields keep their current value.
func (h *Habit) Apply(name, description, color *string, isFavorite *bool) error {
	if name != nil {
		cleanName, err := validateName(*name)
		if err != nil {
			return err
		}
		h.Name = cleanName
	}

	if description != nil {
		cleanDesc, err := validateDescription(description)
		if err != nil {
			return err
		}
		h.Description = cleanDesc
	}

	if color != nil {
		finalColor, err := validateColor(*color)
		if err != nil {
			return err
		}
		h.Color = finalColor
	}

	if isFavorite != nil {
		h.IsFavorite = *isFavorite
	}

	h.UpdatedAt = time.Now().UTC()

	return nil
}
