package domain

import "context"

type SubmissionRepository interface {
	// Toggle flips the completion state for (userID, habitID, dateFor).
	// If a submission exists it is deleted and created=false is returned;
	// otherwise one is inserted with value 1 and created=true is returned.
	// Implementations must run the lookup-then-write inside a single
	// transaction (or equivalent lock) so that concurrent toggles from two
	// devices cannot leave two rows for the same day.
	Toggle(ctx context.Context, userID, habitID, dateFor string) (created bool, err error)

	// ListByHabitID retrieves submissions in [from, to], both yyyy-MM-dd
	// inclusive, ordered by date ascending.
	ListByHabitID(ctx context.Context, habitID, from, to string) ([]*Submission, error)

	// ListAllByHabitID retrieves the full submission history for a habit,
	// ordered by date ascending. Streak analysis scans all of it.
	ListAllByHabitID(ctx context.Context, habitID string) ([]*Submission, error)

	// DeleteByHabitID removes every submission for a habit. Used by the
	// habit delete cascade.
	DeleteByHabitID(ctx context.Context, habitID string) error
}
