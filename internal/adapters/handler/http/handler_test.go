package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/ritmoapp/ritmo-analytics-engine/internal/adapters/handler/http/middleware"
	"github.com/ritmoapp/ritmo-analytics-engine/internal/adapters/repository"
	"github.com/ritmoapp/ritmo-analytics-engine/internal/core/domain"
	"github.com/ritmoapp/ritmo-analytics-engine/internal/core/services"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// testEnv wires the full service stack over in-memory repositories, with the
// auth middleware replaced by one that trusts the test's user id.
type testEnv struct {
	router *gin.Engine

	users  *repository.InMemoryUserRepository
	habits *repository.InMemoryHabitRepository
	subs   *repository.InMemorySubmissionRepository

	analytics *services.AnalyticsService
}

func newTestEnv(t *testing.T, userID string) *testEnv {
	t.Helper()

	users := repository.NewInMemoryUserRepository()
	subs := repository.NewInMemorySubmissionRepository()
	habits := repository.NewInMemoryHabitRepository(subs)

	habitSvc := services.NewHabitService(habits, nil)
	subSvc := services.NewSubmissionService(subs, habits, nil, nil)
	analyticsSvc := services.NewAnalyticsService(habits, subs, users, nil)

	router := gin.New()
	api := router.Group("/api/v1")
	api.Use(func(c *gin.Context) {
		c.Set(middleware.ContextUserIDKey, userID)
		c.Next()
	})

	NewHabitHandler(habitSvc).RegisterRoutes(api)
	NewSubmissionHandler(subSvc).RegisterRoutes(api)
	NewAnalyticsHandler(analyticsSvc).RegisterRoutes(api)

	return &testEnv{
		router:    router,
		users:     users,
		habits:    habits,
		subs:      subs,
		analytics: analyticsSvc,
	}
}

func (e *testEnv) seedUser(t *testing.T, id, timezone string) *domain.User {
	t.Helper()
	user, err := domain.NewUser(id, id+"@example.com", timezone)
	require.NoError(t, err)
	require.NoError(t, e.users.Create(context.Background(), user))
	return user
}

func (e *testEnv) seedHabit(t *testing.T, userID, name string) *domain.Habit {
	t.Helper()
	habit, err := domain.NewHabit(userID, name, "", "")
	require.NoError(t, err)
	require.NoError(t, e.habits.Create(context.Background(), habit))
	return habit
}

func (e *testEnv) toggle(t *testing.T, userID, habitID string, dates ...string) {
	t.Helper()
	for _, d := range dates {
		created, err := e.subs.Toggle(context.Background(), userID, habitID, d)
		require.NoError(t, err)
		require.True(t, created)
	}
}

func (e *testEnv) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, out any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), out))
}

func fixedToday(t *testing.T, env *testEnv, day string) {
	t.Helper()
	parsed, err := time.Parse(domain.DateForLayout, day)
	require.NoError(t, err)
	at := parsed.Add(12 * time.Hour)
	env.analytics.WithClock(func() time.Time { return at })
}
