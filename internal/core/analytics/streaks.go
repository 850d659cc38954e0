package analytics

import (
	"sort"
	"time"
)

// DefaultTopStreaks is how many historical streaks the UI shows.
const DefaultTopStreaks = 5

type Streak struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	Length    int    `json:"length"`
	Current   bool   `json:"is_current"`
}

type StreakSummary struct {
	CurrentStreak int      `json:"current_streak"`
	Active        bool     `json:"is_active"`
	TopStreaks    []Streak `json:"top_streaks"`
}

// AnalyzeStreaks partitions the completed dates into maximal runs of
// consecutive calendar days and derives the current streak and the topK
// historical streaks. today must already be resolved to the habit owner's
// timezone; the function never reads the clock.
//
// A run ending on today or yesterday counts as the current streak: a habit
// not yet logged today does not zero out an otherwise live streak. TopK
// ranks by length descending, ties broken by the more recent end date.
func AnalyzeStreaks(idx CompletionIndex, today time.Time, topK int) StreakSummary {
	if topK <= 0 {
		topK = DefaultTopStreaks
	}

	summary := StreakSummary{TopStreaks: []Streak{}}

	days := idx.Days()
	if len(days) == 0 {
		return summary
	}

	runs := partitionRuns(days)

	todayKey := DayKey(Midnight(today))
	graceKey := DayKey(Midnight(today).AddDate(0, 0, -1))

	for i := range runs {
		if runs[i].EndDate == todayKey || runs[i].EndDate == graceKey {
			runs[i].Current = true
			summary.CurrentStreak = runs[i].Length
			summary.Active = true
		}
	}

	sort.SliceStable(runs, func(i, j int) bool {
		if runs[i].Length != runs[j].Length {
			return runs[i].Length > runs[j].Length
		}
		return runs[i].EndDate > runs[j].EndDate
	})

	if len(runs) > topK {
		runs = runs[:topK]
	}
	summary.TopStreaks = runs

	return summary
}

// partitionRuns splits sorted ascending day keys into maximal contiguous
// runs. Any gap of more than one calendar day breaks the run.
func partitionRuns(days []string) []Streak {
	var runs []Streak

	start, _ := time.Parse(dayLayout, days[0])
	prev := start

	for _, key := range days[1:] {
		cur, _ := time.Parse(dayLayout, key)
		if !cur.Equal(prev.AddDate(0, 0, 1)) {
			runs = append(runs, newRun(start, prev))
			start = cur
		}
		prev = cur
	}
	runs = append(runs, newRun(start, prev))

	return runs
}

func newRun(start, end time.Time) Streak {
	return Streak{
		StartDate: DayKey(start),
		EndDate:   DayKey(end),
		Length:    int(end.Sub(start).Hours()/24) + 1,
	}
}
