package services_test

import (
	"context"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/ritmoapp/ritmo-analytics-engine/internal/core/analytics"
	"github.com/ritmoapp/ritmo-analytics-engine/internal/core/domain"
)

type MockHabitRepo struct {
	mock.Mock
}

func (m *MockHabitRepo) Create(ctx context.Context, h *domain.Habit) error {
	args := m.Called(ctx, h)
	return args.Error(0)
}

func (m *MockHabitRepo) GetByID(ctx context.Context, id string) (*domain.Habit, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Habit), args.Error(1)
}

func (m *MockHabitRepo) ListByUserID(ctx context.Context, userID string) ([]*domain.Habit, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Habit), args.Error(1)
}

func (m *MockHabitRepo) Update(ctx context.Context, h *domain.Habit) error {
	args := m.Called(ctx, h)
	return args.Error(0)
}

func (m *MockHabitRepo) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockSubmissionRepo struct {
	mock.Mock
}

func (m *MockSubmissionRepo) Toggle(ctx context.Context, userID, habitID, dateFor string) (bool, error) {
	args := m.Called(ctx, userID, habitID, dateFor)
	return args.Bool(0), args.Error(1)
}

func (m *MockSubmissionRepo) ListByHabitID(ctx context.Context, habitID, from, to string) ([]*domain.Submission, error) {
	args := m.Called(ctx, habitID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Submission), args.Error(1)
}

func (m *MockSubmissionRepo) ListAllByHabitID(ctx context.Context, habitID string) ([]*domain.Submission, error) {
	args := m.Called(ctx, habitID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Submission), args.Error(1)
}

func (m *MockSubmissionRepo) DeleteByHabitID(ctx context.Context, habitID string) error {
	args := m.Called(ctx, habitID)
	return args.Error(0)
}

type MockUserRepo struct {
	mock.Mock
}

func (m *MockUserRepo) Create(ctx context.Context, u *domain.User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

func (m *MockUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

// fakeSnapshotStore is a stateful in-memory snapshot cache that records
// invalidations.
type fakeSnapshotStore struct {
	mu          sync.Mutex
	store       map[string]*analytics.StreakSummary
	invalidated []string
	setCount    int
}

func newFakeSnapshotStore() *fakeSnapshotStore {
	return &fakeSnapshotStore{store: make(map[string]*analytics.StreakSummary)}
}

func (f *fakeSnapshotStore) Get(ctx context.Context, habitID string) (*analytics.StreakSummary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.store[habitID], nil
}

func (f *fakeSnapshotStore) Set(ctx context.Context, habitID string, summary *analytics.StreakSummary) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.store[habitID] = summary
	f.setCount++
	return nil
}

func (f *fakeSnapshotStore) Invalidate(ctx context.Context, habitID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.store, habitID)
	f.invalidated = append(f.invalidated, habitID)
	return nil
}

func testUser(id, tz string) *domain.User {
	return &domain.User{
		ID:       id,
		Email:    id + "@example.com",
		Timezone: tz,
	}
}

func testHabit(id, userID string, createdAt time.Time) *domain.Habit {
	return &domain.Habit{
		ID:        id,
		UserID:    userID,
		Name:      "Read",
		Colour:    domain.DefaultColour,
		Frequency: domain.HabitFreqDaily,
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}
}
