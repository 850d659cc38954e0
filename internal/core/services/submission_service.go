package services

import (
	"context"
	"log"

	"github.com/ritmoapp/ritmo-analytics-engine/internal/core/domain"
	"github.com/ritmoapp/ritmo-analytics-engine/internal/core/workers"
)

type SubmissionService struct {
	repo      domain.SubmissionRepository
	habitRepo domain.HabitRepository
	snapshots StreakSnapshotStore
	worker    *workers.SnapshotWorker
}

func NewSubmissionService(repo domain.SubmissionRepository, habitRepo domain.HabitRepository, snapshots StreakSnapshotStore, worker *workers.SnapshotWorker) *SubmissionService {
	return &SubmissionService{
		repo:      repo,
		habitRepo: habitRepo,
		snapshots: snapshots,
		worker:    worker,
	}
}

type ToggleResult struct {
	Created bool `json:"created"`
}

// Toggle flips the completion state of one calendar day. The repository runs
// the lookup-then-write inside a single transaction, preserving the
// one-submission-per-day invariant under concurrent clients. Toggle is not
// set-like: two quick calls toggle twice.
func (s *SubmissionService) Toggle(ctx context.Context, userID, habitID, dateFor string) (*ToggleResult, error) {
	if err := domain.ValidateDateFor(dateFor); err != nil {
		return nil, err
	}

	habit, err := s.habitRepo.GetByID(ctx, habitID)
	if err != nil {
		return nil, err
	}
	if habit.UserID != userID {
		return nil, domain.ErrUnauthorized
	}
	if habit.IsArchived() {
		return nil, domain.ErrHabitArchived
	}

	created, err := s.repo.Toggle(ctx, userID, habitID, dateFor)
	if err != nil {
		return nil, err
	}

	// The stored streak snapshot is stale the instant storage changes, so it
	// is dropped here and rebuilt by the worker.
	if s.snapshots != nil {
		if err := s.snapshots.Invalidate(ctx, habitID); err != nil {
			log.Printf("[CACHE] Failed to invalidate snapshot for habit %s: %v", habitID, err)
		}
	}
	if s.worker != nil {
		s.worker.Enqueue(habitID)
	}

	return &ToggleResult{Created: created}, nil
}

// ListRange returns the raw submissions for [from, to], after ownership and
// clamp checks.
func (s *SubmissionService) ListRange(ctx context.Context, userID, habitID, from, to string) ([]*domain.Submission, error) {
	if err := domain.ValidateRange(from, to); err != nil {
		return nil, err
	}

	habit, err := s.habitRepo.GetByID(ctx, habitID)
	if err != nil {
		return nil, err
	}
	if habit.UserID != userID {
		return nil, domain.ErrUnauthorized
	}

	return s.repo.ListByHabitID(ctx, habitID, from, to)
}
