package http

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ritmoapp/ritmo-analytics-engine/internal/core/domain"
)

func TestHabitHandler_Create(t *testing.T) {
	t.Run("Success: creates with defaults", func(t *testing.T) {
		env := newTestEnv(t, "u1")

		rec := env.do(t, http.MethodPost, "/api/v1/habits", map[string]any{
			"name": "Read",
		})

		require.Equal(t, http.StatusCreated, rec.Code)

		var habit domain.Habit
		decodeBody(t, rec, &habit)
		assert.Equal(t, "Read", habit.Name)
		assert.Equal(t, domain.DefaultColour, habit.Colour)
		assert.Equal(t, "u1", habit.UserID)
	})

	t.Run("Fail: missing name is a 400", func(t *testing.T) {
		env := newTestEnv(t, "u1")

		rec := env.do(t, http.MethodPost, "/api/v1/habits", map[string]any{
			"colour": "#FF8800",
		})

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("Fail: invalid colour is a 400", func(t *testing.T) {
		env := newTestEnv(t, "u1")

		rec := env.do(t, http.MethodPost, "/api/v1/habits", map[string]any{
			"name":   "Read",
			"colour": "orange",
		})

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestHabitHandler_GetAndList(t *testing.T) {
	t.Run("Success: owner lists only their habits", func(t *testing.T) {
		env := newTestEnv(t, "u1")
		env.seedHabit(t, "u1", "Read")
		env.seedHabit(t, "u1", "Stretch")
		env.seedHabit(t, "u2", "Foreign")

		rec := env.do(t, http.MethodGet, "/api/v1/habits", nil)

		require.Equal(t, http.StatusOK, rec.Code)

		var habits []domain.Habit
		decodeBody(t, rec, &habits)
		assert.Len(t, habits, 2)
	})

	t.Run("Fail: someone else's habit is a 404, not a 403", func(t *testing.T) {
		env := newTestEnv(t, "u1")
		foreign := env.seedHabit(t, "u2", "Foreign")

		rec := env.do(t, http.MethodGet, "/api/v1/habits/"+foreign.ID, nil)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("Fail: unknown id is a 404", func(t *testing.T) {
		env := newTestEnv(t, "u1")

		rec := env.do(t, http.MethodGet, "/api/v1/habits/nope", nil)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestHabitHandler_Update(t *testing.T) {
	t.Run("Success: renames and recolours", func(t *testing.T) {
		env := newTestEnv(t, "u1")
		habit := env.seedHabit(t, "u1", "Read")

		rec := env.do(t, http.MethodPut, "/api/v1/habits/"+habit.ID, map[string]any{
			"name":   "Read more",
			"colour": "#FF8800",
		})

		require.Equal(t, http.StatusOK, rec.Code)

		var updated domain.Habit
		decodeBody(t, rec, &updated)
		assert.Equal(t, "Read more", updated.Name)
		assert.Equal(t, "#FF8800", updated.Colour)
	})

	t.Run("Fail: archived habit updates are a 409", func(t *testing.T) {
		env := newTestEnv(t, "u1")
		habit := env.seedHabit(t, "u1", "Read")
		habit.Archive()

		rec := env.do(t, http.MethodPut, "/api/v1/habits/"+habit.ID, map[string]any{
			"name": "Read more",
		})

		assert.Equal(t, http.StatusConflict, rec.Code)
	})
}

func TestHabitHandler_ArchiveRestoreDelete(t *testing.T) {
	t.Run("Success: archive then restore round-trips", func(t *testing.T) {
		env := newTestEnv(t, "u1")
		habit := env.seedHabit(t, "u1", "Read")

		rec := env.do(t, http.MethodPost, "/api/v1/habits/"+habit.ID+"/archive", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var archived domain.Habit
		decodeBody(t, rec, &archived)
		require.NotNil(t, archived.ArchivedAt)

		rec = env.do(t, http.MethodPost, "/api/v1/habits/"+habit.ID+"/restore", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var restored domain.Habit
		decodeBody(t, rec, &restored)
		assert.Nil(t, restored.ArchivedAt)
	})

	t.Run("Success: delete removes the habit and its submissions", func(t *testing.T) {
		env := newTestEnv(t, "u1")
		habit := env.seedHabit(t, "u1", "Read")
		env.toggle(t, "u1", habit.ID, "2024-03-01", "2024-03-02")

		rec := env.do(t, http.MethodDelete, "/api/v1/habits/"+habit.ID, nil)
		require.Equal(t, http.StatusNoContent, rec.Code)

		rec = env.do(t, http.MethodGet, "/api/v1/habits/"+habit.ID, nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)

		rec = env.do(t, http.MethodGet, "/api/v1/habits/"+habit.ID+"/submissions?from=2024-03-01&to=2024-03-31", nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}
