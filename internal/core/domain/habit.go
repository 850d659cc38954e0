package domain

import (
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrHabitNameEmpty       = errors.New("habit name cannot be empty")
	ErrHabitNameTooLong     = errors.New("habit name is too long (max 100 chars)")
	ErrHabitQuestionTooLong = errors.New("habit question is too long (max 200 chars)")
	ErrHabitInvalidUserID   = errors.New("invalid user id")
	ErrInvalidColour        = errors.New("invalid colour format (must be #RRGGBB)")
	ErrInvalidFrequency     = errors.New("invalid frequency (only daily is supported)")
	ErrHabitArchived        = errors.New("habit is archived")
)

var colourRegex = regexp.MustCompile(`^#([A-Fa-f0-9]{6}|[A-Fa-f0-9]{3})$`)

const (
	HabitFreqDaily = "daily"
	MaxNameLen     = 100
	MaxQuestionLen = 200
	DefaultColour  = "#4C9AFF"
)

type Habit struct {
	ID         string     `json:"id" db:"id"`
	UserID     string     `json:"user_id" db:"user_id"`
	Name       string     `json:"name" db:"name"`
	Colour     string     `json:"colour" db:"colour"`
	Question   string     `json:"question,omitempty" db:"question"`
	Frequency  string     `json:"frequency" db:"frequency"`
	CreatedAt  time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at" db:"updated_at"`
	ArchivedAt *time.Time `json:"archived_at,omitempty" db:"archived_at"`
}

func validateHabit(name, colour, question, frequency string) error {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return ErrHabitNameEmpty
	}
	if len(trimmed) > MaxNameLen {
		return ErrHabitNameTooLong
	}

	if len(strings.TrimSpace(question)) > MaxQuestionLen {
		return ErrHabitQuestionTooLong
	}

	if colour != "" && !colourRegex.MatchString(colour) {
		return ErrInvalidColour
	}

	if frequency != "" && frequency != HabitFreqDaily {
		return ErrInvalidFrequency
	}

	return nil
}

func NewHabit(userID, name, colour, question string) (*Habit, error) {
	if userID == "" {
		return nil, ErrHabitInvalidUserID
	}

	if err := validateHabit(name, colour, question, HabitFreqDaily); err != nil {
		return nil, err
	}

	if colour == "" {
		colour = DefaultColour
	}

	now := time.Now().UTC()

	return &Habit{
		ID:        uuid.New().String(),
		UserID:    userID,
		Name:      strings.TrimSpace(name),
		Colour:    colour,
		Question:  strings.TrimSpace(question),
		Frequency: HabitFreqDaily,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// Update applies a rename/recolour. Archived habits are frozen until restored.
func (h *Habit) Update(name, colour, question string) error {
	if h.ArchivedAt != nil {
		return ErrHabitArchived
	}

	if err := validateHabit(name, colour, question, HabitFreqDaily); err != nil {
		return err
	}

	if colour == "" {
		colour = DefaultColour
	}

	h.Name = strings.TrimSpace(name)
	h.Colour = colour
	h.Question = strings.TrimSpace(question)
	h.UpdatedAt = time.Now().UTC()

	return nil
}

func (h *Habit) Archive() {
	if h.ArchivedAt != nil {
		return
	}

	now := time.Now().UTC()
	h.ArchivedAt = &now
	h.UpdatedAt = now
}

func (h *Habit) Restore() {
	if h.ArchivedAt == nil {
		return
	}
	h.ArchivedAt = nil
	h.UpdatedAt = time.Now().UTC()
}

func (h *Habit) IsArchived() bool {
	return h.ArchivedAt != nil
}
