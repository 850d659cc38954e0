package workers

import (
	"context"
	"log"
	"time"

	"github.com/ritmoapp/ritmo-analytics-engine/internal/core/analytics"
	"github.com/ritmoapp/ritmo-analytics-engine/internal/core/domain"
)

type HabitProvider interface {
	GetByID(ctx context.Context, id string) (*domain.Habit, error)
}

type SubmissionLister interface {
	ListAllByHabitID(ctx context.Context, habitID string) ([]*domain.Submission, error)
}

type UserProvider interface {
	GetByID(ctx context.Context, id string) (*domain.User, error)
}

type SnapshotWriter interface {
	Set(ctx context.Context, habitID string, summary *analytics.StreakSummary) error
}

type SnapshotJob struct {
	HabitID string
}

// SnapshotWorker re-warms the cached streak summary for a habit after its
// submissions change. Dropping a job is harmless: the next streaks read
// recomputes and re-caches on its own.
type SnapshotWorker struct {
	habits      HabitProvider
	submissions SubmissionLister
	users       UserProvider
	snapshots   SnapshotWriter
	jobs        chan SnapshotJob
}

func NewSnapshotWorker(habits HabitProvider, submissions SubmissionLister, users UserProvider, snapshots SnapshotWriter) *SnapshotWorker {
	return &SnapshotWorker{
		habits:      habits,
		submissions: submissions,
		users:       users,
		snapshots:   snapshots,
		jobs:        make(chan SnapshotJob, 100),
	}
}

func (w *SnapshotWorker) Start(ctx context.Context) {
	go func() {
		log.Println("Snapshot Worker started in background...")
		for {
			select {
			case job := <-w.jobs:
				w.processJob(ctx, job)
			case <-ctx.Done():
				log.Println("Snapshot Worker shutting down...")
				return
			}
		}
	}()
}

func (w *SnapshotWorker) Enqueue(habitID string) {
	select {
	case w.jobs <- SnapshotJob{HabitID: habitID}:
	default:
		log.Printf("Snapshot Worker queue full! Dropping job for habit %s", habitID)
	}
}

func (w *SnapshotWorker) processJob(ctx context.Context, job SnapshotJob) {
	habit, err := w.habits.GetByID(ctx, job.HabitID)
	if err != nil {
		log.Printf("Worker Error fetching habit %s: %v", job.HabitID, err)
		return
	}

	user, err := w.users.GetByID(ctx, habit.UserID)
	if err != nil {
		log.Printf("Worker Error fetching owner of habit %s: %v", job.HabitID, err)
		return
	}

	subs, err := w.submissions.ListAllByHabitID(ctx, job.HabitID)
	if err != nil {
		log.Printf("Worker Error fetching submissions for %s: %v", job.HabitID, err)
		return
	}

	today := analytics.Midnight(time.Now().In(user.Location()))
	summary := analytics.AnalyzeStreaks(analytics.BuildIndex(subs), today, analytics.DefaultTopStreaks)

	if err := w.snapshots.Set(ctx, job.HabitID, &summary); err != nil {
		log.Printf("Worker Failed to store snapshot for %s: %v", job.HabitID, err)
		return
	}

	log.Printf("Streak snapshot refreshed for %s: Current=%d, Active=%v", habit.Name, summary.CurrentStreak, summary.Active)
}
