package services

import (
	"context"

	"github.com/ritmoapp/ritmo-analytics-engine/internal/core/domain"
)

type HabitService struct {
	repo      domain.HabitRepository
	snapshots StreakSnapshotStore
}

func NewHabitService(repo domain.HabitRepository, snapshots StreakSnapshotStore) *HabitService {
	return &HabitService{
		repo:      repo,
		snapshots: snapshots,
	}
}

type CreateHabitInput struct {
	UserID   string
	Name     string
	Colour   string
	Question string
}

type UpdateHabitInput struct {
	ID       string
	UserID   string
	Name     string
	Colour   string
	Question string
}

func (s *HabitService) Create(ctx context.Context, input CreateHabitInput) (*domain.Habit, error) {
	habit, err := domain.NewHabit(input.UserID, input.Name, input.Colour, input.Question)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, habit); err != nil {
		return nil, err
	}

	return habit, nil
}

func (s *HabitService) ListByUserID(ctx context.Context, userID string) ([]*domain.Habit, error) {
	return s.repo.ListByUserID(ctx, userID)
}

// GetOwned returns the habit only when it belongs to userID. A foreign habit
// surfaces as ErrHabitNotFound so existence is not leaked across users.
func (s *HabitService) GetOwned(ctx context.Context, id string, userID string) (*domain.Habit, error) {
	habit, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if habit.UserID != userID {
		return nil, domain.ErrHabitNotFound
	}
	return habit, nil
}

func (s *HabitService) Update(ctx context.Context, input UpdateHabitInput) (*domain.Habit, error) {
	habit, err := s.GetOwned(ctx, input.ID, input.UserID)
	if err != nil {
		return nil, err
	}

	if err := habit.Update(input.Name, input.Colour, input.Question); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, habit); err != nil {
		return nil, err
	}

	return habit, nil
}

func (s *HabitService) Archive(ctx context.Context, id string, userID string) (*domain.Habit, error) {
	habit, err := s.GetOwned(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	habit.Archive()

	if err := s.repo.Update(ctx, habit); err != nil {
		return nil, err
	}

	s.invalidateSnapshot(ctx, id)

	return habit, nil
}

func (s *HabitService) Restore(ctx context.Context, id string, userID string) (*domain.Habit, error) {
	habit, err := s.GetOwned(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	habit.Restore()

	if err := s.repo.Update(ctx, habit); err != nil {
		return nil, err
	}

	return habit, nil
}

// Delete removes the habit and, through the repository cascade, every
// submission it owns.
func (s *HabitService) Delete(ctx context.Context, id string, userID string) error {
	if _, err := s.GetOwned(ctx, id, userID); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.invalidateSnapshot(ctx, id)

	return nil
}

func (s *HabitService) invalidateSnapshot(ctx context.Context, habitID string) {
	if s.snapshots == nil {
		return
	}
	_ = s.snapshots.Invalidate(ctx, habitID)
}
