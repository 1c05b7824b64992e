package services

import (
	"context"
	"errors"
	"time"

	"github.com/gallocedrone/habitgrid/internal/core/domain"
)

type CompletionService struct {
	repo      domain.CompletionRepository
	habitRepo domain.HabitRepository
	loc       *time.Location
}

func NewCompletionService(repo domain.CompletionRepository, habitRepo domain.HabitRepository, loc *time.Location) *CompletionService {
	if loc == nil {
		loc = time.Local
	}
	return &CompletionService{
		repo:      repo,
		habitRepo: habitRepo,
		loc:       loc,
	}
}

type CreateCompletionInput struct {
	HabitID string
	UserID  string
	Date    time.Time
}

// Create records a completion for a habit on a calendar day. Marking a day
// that is already marked is not an anomaly: the existing completion is
// returned together with ErrCompletionExists so the transport layer can
// answer 409 with the surviving record instead of inventing a second one.
func (s *CompletionService) Create(ctx context.Context, input CreateCompletionInput) (*domain.Completion, error) {
	habit, err := s.habitRepo.GetByID(ctx, input.HabitID)
	if err != nil {
		return nil, err
	}
	if habit.UserID != input.UserID {
		return nil, domain.ErrNotOwner
	}

	date := input.Date
	if date.IsZero() {
		date = time.Now()
	}

	completion := domain.NewCompletion(input.HabitID, input.UserID, date, s.loc)
	if err := completion.Validate(); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, completion); err != nil {
		if errors.Is(err, domain.ErrCompletionExists) {
			existing, lookupErr := s.repo.GetByHabitAndDay(ctx, completion.HabitID, completion.Date)
			if lookupErr == nil {
				return existing, domain.ErrCompletionExists
			}
		}
		return nil, err
	}

	return completion, nil
}

func (s *CompletionService) ListByUserID(ctx context.Context, userID string, from, to *time.Time) ([]*domain.Completion, error) {
	if from != nil {
		f := domain.DayOf(*from, s.loc)
		from = &f
	}
	if to != nil {
		t := domain.DayOf(*to, s.loc)
		to = &t
	}
	return s.repo.ListByUserID(ctx, userID, from, to)
}

func (s *CompletionService) Delete(ctx context.Context, id string, userID string) error {
	completion, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if completion.UserID != userID {
		return domain.ErrNotOwner
	}

	return s.repo.Delete(ctx, id)
}
