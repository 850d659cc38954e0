package analytics

import (
	"sort"
	"time"

	"github.com/ritmoapp/ritmo-analytics-engine/internal/core/domain"
)

// CompletionIndex is the canonical in-memory view of a habit's completions:
// presence of a yyyy-MM-dd key means the day was completed, absence means it
// was not. There is no explicit "not done" state. Every downstream
// computation (streaks, grids, performance) reads from this index, and it is
// rebuilt from scratch whenever the submission set changes so that
// un-toggled days disappear cleanly.
type CompletionIndex map[string]struct{}

// BuildIndex derives the index from raw submissions in O(n). Duplicate days
// collapse to a single key.
func BuildIndex(subs []*domain.Submission) CompletionIndex {
	idx := make(CompletionIndex, len(subs))
	for _, s := range subs {
		idx[s.DateFor] = struct{}{}
	}
	return idx
}

// Completed reports whether the day of t is present in the index.
func (idx CompletionIndex) Completed(t time.Time) bool {
	_, ok := idx[DayKey(t)]
	return ok
}

// Days returns the completed dates sorted ascending. The yyyy-MM-dd layout
// makes lexicographic order chronological.
func (idx CompletionIndex) Days() []string {
	days := make([]string, 0, len(idx))
	for d := range idx {
		days = append(days, d)
	}
	sort.Strings(days)
	return days
}
