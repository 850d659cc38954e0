package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/ritmoapp/ritmo-analytics-engine/internal/core/domain"
)

type InMemoryUserRepository struct {
	store map[string]*domain.User

	mu sync.RWMutex
}

func NewInMemoryUserRepository() *InMemoryUserRepository {
	return &InMemoryUserRepository{
		store: make(map[string]*domain.User),
	}
}

func (r *InMemoryUserRepository) Create(ctx context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.store {
		if u.Email == user.Email {
			return domain.ErrEmailAlreadyExists
		}
	}

	r.store[user.ID] = user
	return nil
}

func (r *InMemoryUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.store[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return user, nil
}

func (r *InMemoryUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.store {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

type InMemorySubmissionRepository struct {
	store map[string]*domain.Submission // keyed habitID + "|" + dateFor

	mu sync.Mutex
}

func NewInMemorySubmissionRepository() *InMemorySubmissionRepository {
	return &InMemorySubmissionRepository{
		store: make(map[string]*domain.Submission),
	}
}

func submissionKey(habitID, dateFor string) string {
	return habitID + "|" + dateFor
}

// Toggle is atomic under the repository mutex, mirroring the transactional
// guarantee of the Postgres implementation.
func (r *InMemorySubmissionRepository) Toggle(ctx context.Context, userID, habitID, dateFor string) (bool, error) {
	if err := domain.ValidateDateFor(dateFor); err != nil {
		return false, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	key := submissionKey(habitID, dateFor)
	if _, ok := r.store[key]; ok {
		delete(r.store, key)
		return false, nil
	}

	sub, err := domain.NewSubmission(habitID, userID, dateFor)
	if err != nil {
		return false, err
	}
	sub.ID = uuid.NewString()

	r.store[key] = sub
	return true, nil
}

func (r *InMemorySubmissionRepository) ListByHabitID(ctx context.Context, habitID, from, to string) ([]*domain.Submission, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var subs []*domain.Submission
	for _, s := range r.store {
		if s.HabitID == habitID && s.DateFor >= from && s.DateFor <= to {
			subs = append(subs, s)
		}
	}

	sortSubmissions(subs)
	return subs, nil
}

func (r *InMemorySubmissionRepository) ListAllByHabitID(ctx context.Context, habitID string) ([]*domain.Submission, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var subs []*domain.Submission
	for _, s := range r.store {
		if s.HabitID == habitID {
			subs = append(subs, s)
		}
	}

	sortSubmissions(subs)
	return subs, nil
}

func (r *InMemorySubmissionRepository) DeleteByHabitID(ctx context.Context, habitID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for key, s := range r.store {
		if s.HabitID == habitID {
			delete(r.store, key)
		}
	}
	return nil
}

func (r *InMemorySubmissionRepository) count(habitID string) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := 0
	for _, s := range r.store {
		if s.HabitID == habitID {
			n++
		}
	}
	return n
}

func sortSubmissions(subs []*domain.Submission) {
	sort.Slice(subs, func(i, j int) bool {
		return subs[i].DateFor < subs[j].DateFor
	})
}

type InMemoryHabitRepository struct {
	store map[string]*domain.Habit
	subs  *InMemorySubmissionRepository

	mu sync.RWMutex
}

// NewInMemoryHabitRepository wires the submission repository so Delete can
// cascade like the Postgres implementation. subs may be nil in tests that
// never delete.
func NewInMemoryHabitRepository(subs *InMemorySubmissionRepository) *InMemoryHabitRepository {
	return &InMemoryHabitRepository{
		store: make(map[string]*domain.Habit),
		subs:  subs,
	}
}

func (r *InMemoryHabitRepository) Create(ctx context.Context, habit *domain.Habit) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.store[habit.ID] = habit
	return nil
}

func (r *InMemoryHabitRepository) GetByID(ctx context.Context, id string) (*domain.Habit, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	habit, ok := r.store[id]
	if !ok {
		return nil, domain.ErrHabitNotFound
	}
	return habit, nil
}

func (r *InMemoryHabitRepository) ListByUserID(ctx context.Context, userID string) ([]*domain.Habit, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var habits []*domain.Habit
	for _, h := range r.store {
		if h.UserID == userID {
			habits = append(habits, h)
		}
	}

	sort.Slice(habits, func(i, j int) bool {
		return habits[i].CreatedAt.Before(habits[j].CreatedAt)
	})

	return habits, nil
}

func (r *InMemoryHabitRepository) Update(ctx context.Context, habit *domain.Habit) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.store[habit.ID]; !ok {
		return domain.ErrHabitNotFound
	}

	r.store[habit.ID] = habit
	return nil
}

func (r *InMemoryHabitRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	if _, ok := r.store[id]; !ok {
		r.mu.Unlock()
		return domain.ErrHabitNotFound
	}
	delete(r.store, id)
	r.mu.Unlock()

	if r.subs != nil {
		return r.subs.DeleteByHabitID(ctx, id)
	}
	return nil
}
