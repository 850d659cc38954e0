package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/ritmoapp/ritmo-analytics-engine/internal/core/domain"
)

type PostgresSubmissionRepository struct {
	db *sqlx.DB
}

func NewPostgresSubmissionRepository(db *sqlx.DB) *PostgresSubmissionRepository {
	return &PostgresSubmissionRepository{db: db}
}

// Toggle runs the lookup-then-write inside one transaction. The row lock
// (FOR UPDATE) serializes concurrent toggles that both find an existing row;
// two toggles that both find nothing are serialized by the unique constraint
// instead: the loser of the insert race falls through to the delete path, so
// two concurrent toggles always net out to two flips, never two rows.
func (r *PostgresSubmissionRepository) Toggle(ctx context.Context, userID, habitID, dateFor string) (bool, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return false, err
	}
	defer tx.Rollback()

	var existingID string
	err = tx.GetContext(ctx, &existingID,
		`SELECT id FROM submissions WHERE habit_id = $1 AND date_for = $2 FOR UPDATE`,
		habitID, dateFor)

	if err == nil {
		if _, err := tx.ExecContext(ctx, `DELETE FROM submissions WHERE id = $1`, existingID); err != nil {
			return false, err
		}
		return false, tx.Commit()
	}

	if !errors.Is(err, sql.ErrNoRows) {
		return false, err
	}

	sub, err := domain.NewSubmission(habitID, userID, dateFor)
	if err != nil {
		return false, err
	}
	sub.ID = uuid.NewString()

	query := `
		INSERT INTO submissions (
			id, habit_id, user_id, date_for, value, submitted_at, updated_at
		) VALUES (
			:id, :habit_id, :user_id, :date_for, :value, :submitted_at, :updated_at
		)`

	if _, err := tx.NamedExecContext(ctx, query, sub); err != nil {
		if pgErrCode(err) == uniqueViolation {
			// A concurrent toggle inserted first. This call still owes a
			// flip, so it takes the delete path.
			_ = tx.Rollback()
			res, delErr := r.db.ExecContext(ctx,
				`DELETE FROM submissions WHERE habit_id = $1 AND date_for = $2`,
				habitID, dateFor)
			if delErr != nil {
				return false, delErr
			}
			if n, _ := res.RowsAffected(); n == 0 {
				return false, domain.ErrInvalidSubmission
			}
			return false, nil
		}
		return false, err
	}

	return true, tx.Commit()
}

func (r *PostgresSubmissionRepository) ListByHabitID(ctx context.Context, habitID, from, to string) ([]*domain.Submission, error) {
	subs := []*domain.Submission{}

	query := `
		SELECT * FROM submissions
		WHERE habit_id = $1
		  AND date_for >= $2
		  AND date_for <= $3
		ORDER BY date_for ASC`

	err := r.db.SelectContext(ctx, &subs, query, habitID, from, to)
	if err != nil {
		return nil, err
	}
	return subs, nil
}

func (r *PostgresSubmissionRepository) ListAllByHabitID(ctx context.Context, habitID string) ([]*domain.Submission, error) {
	subs := []*domain.Submission{}

	query := `SELECT * FROM submissions WHERE habit_id = $1 ORDER BY date_for ASC`

	err := r.db.SelectContext(ctx, &subs, query, habitID)
	if err != nil {
		return nil, err
	}
	return subs, nil
}

func (r *PostgresSubmissionRepository) DeleteByHabitID(ctx context.Context, habitID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM submissions WHERE habit_id = $1`, habitID)
	return err
}
