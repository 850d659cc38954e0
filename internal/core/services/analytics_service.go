package services

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/ritmoapp/ritmo-analytics-engine/internal/core/analytics"
	"github.com/ritmoapp/ritmo-analytics-engine/internal/core/domain"
)

var ErrInvalidPeriod = errors.New("invalid period (must be weekly or monthly)")

const (
	PeriodWeekly  = "weekly"
	PeriodMonthly = "monthly"
)

// StreakSnapshotStore caches computed streak summaries keyed by habit id.
// Get returns (nil, nil) on a miss. The invalidation contract is strict:
// every writer that changes a habit's submission set (toggle, archive,
// delete) must Invalidate before returning.
type StreakSnapshotStore interface {
	Get(ctx context.Context, habitID string) (*analytics.StreakSummary, error)
	Set(ctx context.Context, habitID string, summary *analytics.StreakSummary) error
	Invalidate(ctx context.Context, habitID string) error
}

// AnalyticsService is the read-side projection over the submission store.
// All date arithmetic lives in the analytics package; this service only
// resolves "today" in the habit owner's timezone and feeds the engine an
// immutable snapshot of submissions.
type AnalyticsService struct {
	habitRepo domain.HabitRepository
	subRepo   domain.SubmissionRepository
	userRepo  domain.UserRepository
	snapshots StreakSnapshotStore

	// now is swapped out in tests; the pure engine never reads it.
	now func() time.Time
}

func NewAnalyticsService(habitRepo domain.HabitRepository, subRepo domain.SubmissionRepository, userRepo domain.UserRepository, snapshots StreakSnapshotStore) *AnalyticsService {
	return &AnalyticsService{
		habitRepo: habitRepo,
		subRepo:   subRepo,
		userRepo:  userRepo,
		snapshots: snapshots,
		now:       time.Now,
	}
}

// WithClock overrides the clock source. Test hook only.
func (s *AnalyticsService) WithClock(now func() time.Time) *AnalyticsService {
	s.now = now
	return s
}

func (s *AnalyticsService) ownedHabit(ctx context.Context, habitID, userID string) (*domain.Habit, error) {
	habit, err := s.habitRepo.GetByID(ctx, habitID)
	if err != nil {
		return nil, err
	}
	if habit.UserID != userID {
		return nil, domain.ErrHabitNotFound
	}
	return habit, nil
}

// today resolves the current calendar day in the owner's stored timezone.
// Day boundaries follow the user, not the server.
func (s *AnalyticsService) today(ctx context.Context, userID string) (time.Time, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return time.Time{}, err
	}
	return analytics.Midnight(s.now().In(user.Location())), nil
}

// Grid returns one completion-flagged entry per calendar day in [start, end].
func (s *AnalyticsService) Grid(ctx context.Context, userID, habitID, start, end string) ([]analytics.GridDay, error) {
	if err := domain.ValidateRange(start, end); err != nil {
		return nil, err
	}

	if _, err := s.ownedHabit(ctx, habitID, userID); err != nil {
		return nil, err
	}

	subs, err := s.subRepo.ListByHabitID(ctx, habitID, start, end)
	if err != nil {
		return nil, err
	}

	from, _ := time.Parse(domain.DateForLayout, start)
	to, _ := time.Parse(domain.DateForLayout, end)

	return analytics.BuildCompletionGrid(analytics.BuildIndex(subs), from, to), nil
}

// Streaks computes the current and topK historical streaks over the full
// submission history. The default-K summary reads through the snapshot cache
// when one is wired.
func (s *AnalyticsService) Streaks(ctx context.Context, userID, habitID string, topK int) (*analytics.StreakSummary, error) {
	if topK <= 0 {
		topK = analytics.DefaultTopStreaks
	}

	habit, err := s.ownedHabit(ctx, habitID, userID)
	if err != nil {
		return nil, err
	}

	cacheable := topK == analytics.DefaultTopStreaks && s.snapshots != nil

	if cacheable {
		cached, err := s.snapshots.Get(ctx, habitID)
		if err != nil {
			log.Printf("[CACHE] Snapshot read error for habit %s: %v", habitID, err)
		} else if cached != nil {
			return cached, nil
		}
	}

	subs, err := s.subRepo.ListAllByHabitID(ctx, habitID)
	if err != nil {
		return nil, err
	}

	today, err := s.today(ctx, habit.UserID)
	if err != nil {
		return nil, err
	}

	summary := analytics.AnalyzeStreaks(analytics.BuildIndex(subs), today, topK)

	if cacheable {
		if err := s.snapshots.Set(ctx, habitID, &summary); err != nil {
			log.Printf("[CACHE] Snapshot write error for habit %s: %v", habitID, err)
		}
	}

	return &summary, nil
}

// Performance returns the rolling completion-rate series: 8 weekly buckets
// or 6 monthly buckets, oldest first.
func (s *AnalyticsService) Performance(ctx context.Context, userID, habitID, period string) ([]analytics.PerformancePoint, error) {
	if period != PeriodWeekly && period != PeriodMonthly {
		return nil, ErrInvalidPeriod
	}

	habit, err := s.ownedHabit(ctx, habitID, userID)
	if err != nil {
		return nil, err
	}

	today, err := s.today(ctx, habit.UserID)
	if err != nil {
		return nil, err
	}

	// Fetch only what the window can use: the widest window is 8 weeks of
	// days, the monthly one at most 6 calendar months.
	var from time.Time
	if period == PeriodWeekly {
		from = today.AddDate(0, 0, -7*analytics.DefaultWeeks+1)
	} else {
		from = time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, today.Location()).AddDate(0, -(analytics.DefaultMonths - 1), 0)
	}

	subs, err := s.subRepo.ListByHabitID(ctx, habitID, analytics.DayKey(from), analytics.DayKey(today))
	if err != nil {
		return nil, err
	}

	idx := analytics.BuildIndex(subs)

	if period == PeriodWeekly {
		return analytics.WeeklyPerformance(idx, habit.CreatedAt.In(today.Location()), today, analytics.DefaultWeeks), nil
	}
	return analytics.MonthlyPerformance(idx, habit.CreatedAt.In(today.Location()), today, analytics.DefaultMonths), nil
}
