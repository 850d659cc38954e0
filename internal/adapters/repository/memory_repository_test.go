package repository

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ritmoapp/ritmo-analytics-engine/internal/core/domain"
)

func TestInMemorySubmissionRepository_Toggle(t *testing.T) {
	ctx := context.Background()

	t.Run("Success: toggle on then off round-trips to empty", func(t *testing.T) {
		repo := NewInMemorySubmissionRepository()

		created, err := repo.Toggle(ctx, "u1", "h1", "2024-03-10")
		require.NoError(t, err)
		assert.True(t, created)
		assert.Equal(t, 1, repo.count("h1"))

		created, err = repo.Toggle(ctx, "u1", "h1", "2024-03-10")
		require.NoError(t, err)
		assert.False(t, created)
		assert.Equal(t, 0, repo.count("h1"))
	})

	t.Run("Success: same day on two habits stays independent", func(t *testing.T) {
		repo := NewInMemorySubmissionRepository()

		_, err := repo.Toggle(ctx, "u1", "h1", "2024-03-10")
		require.NoError(t, err)
		_, err = repo.Toggle(ctx, "u1", "h2", "2024-03-10")
		require.NoError(t, err)

		assert.Equal(t, 1, repo.count("h1"))
		assert.Equal(t, 1, repo.count("h2"))
	})

	t.Run("Fail: malformed date is rejected", func(t *testing.T) {
		repo := NewInMemorySubmissionRepository()

		_, err := repo.Toggle(ctx, "u1", "h1", "10-03-2024")
		assert.ErrorIs(t, err, domain.ErrInvalidDate)
	})

	t.Run("Edge Case: concurrent toggles keep at most one record per day", func(t *testing.T) {
		repo := NewInMemorySubmissionRepository()

		const toggles = 100
		var wg sync.WaitGroup
		wg.Add(toggles)
		for i := 0; i < toggles; i++ {
			go func() {
				defer wg.Done()
				_, err := repo.Toggle(ctx, "u1", "h1", "2024-03-10")
				assert.NoError(t, err)
			}()
		}
		wg.Wait()

		// An even number of flips always nets out to zero rows; at no point
		// can the day hold more than one.
		assert.Equal(t, 0, repo.count("h1"))
	})
}

func TestInMemorySubmissionRepository_List(t *testing.T) {
	ctx := context.Background()

	seed := func(t *testing.T, repo *InMemorySubmissionRepository, dates ...string) {
		t.Helper()
		for _, d := range dates {
			created, err := repo.Toggle(ctx, "u1", "h1", d)
			require.NoError(t, err)
			require.True(t, created)
		}
	}

	t.Run("Success: range listing is inclusive and date-ordered", func(t *testing.T) {
		repo := NewInMemorySubmissionRepository()
		seed(t, repo, "2024-03-15", "2024-03-01", "2024-03-10", "2024-02-28")

		subs, err := repo.ListByHabitID(ctx, "h1", "2024-03-01", "2024-03-15")
		require.NoError(t, err)

		require.Len(t, subs, 3)
		assert.Equal(t, "2024-03-01", subs[0].DateFor)
		assert.Equal(t, "2024-03-10", subs[1].DateFor)
		assert.Equal(t, "2024-03-15", subs[2].DateFor)
	})

	t.Run("Success: full listing covers every day, ordered", func(t *testing.T) {
		repo := NewInMemorySubmissionRepository()
		seed(t, repo, "2024-03-15", "2023-12-31", "2024-01-01")

		subs, err := repo.ListAllByHabitID(ctx, "h1")
		require.NoError(t, err)

		require.Len(t, subs, 3)
		for i := 1; i < len(subs); i++ {
			assert.Less(t, subs[i-1].DateFor, subs[i].DateFor)
		}
	})

	t.Run("Edge Case: empty range comes back empty, not an error", func(t *testing.T) {
		repo := NewInMemorySubmissionRepository()
		seed(t, repo, "2024-03-15")

		subs, err := repo.ListByHabitID(ctx, "h1", "2024-04-01", "2024-04-30")
		require.NoError(t, err)
		assert.Empty(t, subs)
	})
}

func TestInMemoryHabitRepository(t *testing.T) {
	ctx := context.Background()

	newHabit := func(t *testing.T, userID, name string) *domain.Habit {
		t.Helper()
		habit, err := domain.NewHabit(userID, name, "", "")
		require.NoError(t, err)
		return habit
	}

	t.Run("Success: create then fetch round-trips", func(t *testing.T) {
		repo := NewInMemoryHabitRepository(nil)
		habit := newHabit(t, "u1", "Read")

		require.NoError(t, repo.Create(ctx, habit))

		got, err := repo.GetByID(ctx, habit.ID)
		require.NoError(t, err)
		assert.Equal(t, habit.Name, got.Name)
	})

	t.Run("Success: list is scoped to the user and creation-ordered", func(t *testing.T) {
		repo := NewInMemoryHabitRepository(nil)

		for i := 0; i < 3; i++ {
			habit := newHabit(t, "u1", fmt.Sprintf("Habit %d", i))
			habit.CreatedAt = time.Date(2024, 1, 1+i, 0, 0, 0, 0, time.UTC)
			require.NoError(t, repo.Create(ctx, habit))
		}
		require.NoError(t, repo.Create(ctx, newHabit(t, "u2", "Other")))

		habits, err := repo.ListByUserID(ctx, "u1")
		require.NoError(t, err)

		require.Len(t, habits, 3)
		for i := 1; i < len(habits); i++ {
			assert.True(t, habits[i-1].CreatedAt.Before(habits[i].CreatedAt))
		}
	})

	t.Run("Success: delete cascades to the habit's submissions only", func(t *testing.T) {
		subs := NewInMemorySubmissionRepository()
		repo := NewInMemoryHabitRepository(subs)

		habit := newHabit(t, "u1", "Read")
		other := newHabit(t, "u1", "Stretch")
		require.NoError(t, repo.Create(ctx, habit))
		require.NoError(t, repo.Create(ctx, other))

		for _, d := range []string{"2024-03-01", "2024-03-02"} {
			_, err := subs.Toggle(ctx, "u1", habit.ID, d)
			require.NoError(t, err)
		}
		_, err := subs.Toggle(ctx, "u1", other.ID, "2024-03-01")
		require.NoError(t, err)

		require.NoError(t, repo.Delete(ctx, habit.ID))

		_, err = repo.GetByID(ctx, habit.ID)
		assert.ErrorIs(t, err, domain.ErrHabitNotFound)
		assert.Equal(t, 0, subs.count(habit.ID))
		assert.Equal(t, 1, subs.count(other.ID))
	})

	t.Run("Fail: operations on a missing habit report not found", func(t *testing.T) {
		repo := NewInMemoryHabitRepository(nil)

		_, err := repo.GetByID(ctx, "missing")
		assert.ErrorIs(t, err, domain.ErrHabitNotFound)

		err = repo.Update(ctx, newHabit(t, "u1", "Ghost"))
		assert.ErrorIs(t, err, domain.ErrHabitNotFound)

		err = repo.Delete(ctx, "missing")
		assert.ErrorIs(t, err, domain.ErrHabitNotFound)
	})
}

func TestInMemoryUserRepository(t *testing.T) {
	ctx := context.Background()

	newUser := func(t *testing.T, id, email string) *domain.User {
		t.Helper()
		user, err := domain.NewUser(id, email, "")
		require.NoError(t, err)
		return user
	}

	t.Run("Success: lookup by id and by email", func(t *testing.T) {
		repo := NewInMemoryUserRepository()
		user := newUser(t, "u1", "anna@example.com")

		require.NoError(t, repo.Create(ctx, user))

		byID, err := repo.GetByID(ctx, "u1")
		require.NoError(t, err)
		assert.Equal(t, user.Email, byID.Email)

		byEmail, err := repo.GetByEmail(ctx, "anna@example.com")
		require.NoError(t, err)
		assert.Equal(t, "u1", byEmail.ID)
	})

	t.Run("Fail: duplicate email is rejected", func(t *testing.T) {
		repo := NewInMemoryUserRepository()

		require.NoError(t, repo.Create(ctx, newUser(t, "u1", "anna@example.com")))
		err := repo.Create(ctx, newUser(t, "u2", "anna@example.com"))

		assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)
	})

	t.Run("Fail: unknown user reports not found", func(t *testing.T) {
		repo := NewInMemoryUserRepository()

		_, err := repo.GetByID(ctx, "missing")
		assert.ErrorIs(t, err, domain.ErrUserNotFound)
	})
}
