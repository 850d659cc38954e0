package domain

import (
	"errors"
	"strings"
	"time"
)

var (
	ErrInvalidDate       = errors.New("invalid date (must be yyyy-MM-dd)")
	ErrInvalidRange      = errors.New("invalid date range (start must not be after end)")
	ErrRangeTooLarge     = errors.New("date range too large (max 731 days)")
	ErrInvalidSubmission = errors.New("invalid submission data")
)

// DateForLayout is the only accepted calendar-day format. Submissions are
// keyed by this string, not by a timestamp, so "one record per day" stays
// well-defined whatever timezone the client wrote from.
const DateForLayout = "2006-01-02"

// MaxRangeDays clamps grid and listing queries to two calendar years.
const MaxRangeDays = 731

type Submission struct {
	ID      string `json:"id" db:"id"`
	HabitID string `json:"habit_id" db:"habit_id"`
	UserID  string `json:"user_id" db:"user_id"`

	DateFor string `json:"date_for" db:"date_for"`
	Value   int    `json:"value" db:"value"`

	SubmittedAt time.Time `json:"submitted_at" db:"submitted_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

func NewSubmission(habitID, userID, dateFor string) (*Submission, error) {
	if strings.TrimSpace(habitID) == "" || strings.TrimSpace(userID) == "" {
		return nil, ErrInvalidSubmission
	}
	if err := ValidateDateFor(dateFor); err != nil {
		return nil, err
	}

	now := time.Now().UTC()

	return &Submission{
		HabitID:     habitID,
		UserID:      userID,
		DateFor:     dateFor,
		Value:       1,
		SubmittedAt: now,
		UpdatedAt:   now,
	}, nil
}

// ValidateDateFor accepts exactly yyyy-MM-dd. time.Parse alone is too
// permissive about leading zeros, so the round-trip is checked as well.
func ValidateDateFor(s string) error {
	if len(s) != len(DateForLayout) {
		return ErrInvalidDate
	}
	t, err := time.Parse(DateForLayout, s)
	if err != nil {
		return ErrInvalidDate
	}
	if t.Format(DateForLayout) != s {
		return ErrInvalidDate
	}
	return nil
}

// ValidateRange checks both ends, ordering, and the two-year clamp.
func ValidateRange(start, end string) error {
	if err := ValidateDateFor(start); err != nil {
		return err
	}
	if err := ValidateDateFor(end); err != nil {
		return err
	}

	from, _ := time.Parse(DateForLayout, start)
	to, _ := time.Parse(DateForLayout, end)

	if from.After(to) {
		return ErrInvalidRange
	}
	if int(to.Sub(from).Hours()/24)+1 > MaxRangeDays {
		return ErrRangeTooLarge
	}
	return nil
}
