package analytics

import "time"

const dayLayout = "2006-01-02"

// Midnight truncates t to its calendar day in t's own location. Day identity
// is always the local calendar date, never a UTC instant.
func Midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// DayKey formats a day the way the completion index is keyed.
func DayKey(t time.Time) string {
	return t.Format(dayLayout)
}

// BuildDateGrid returns one entry per calendar day from start to end,
// inclusive of both ends, ascending. A degenerate range (start after end)
// yields an empty grid.
func BuildDateGrid(start, end time.Time) []time.Time {
	start = Midnight(start)
	end = Midnight(end)

	if start.After(end) {
		return nil
	}

	days := make([]time.Time, 0, int(end.Sub(start).Hours()/24)+1)
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}

// GridDay is one cell of a calendar-style completion grid.
type GridDay struct {
	Date      string `json:"date"`
	Completed bool   `json:"completed"`
}

// BuildCompletionGrid flags each day of the grid against the index.
func BuildCompletionGrid(idx CompletionIndex, start, end time.Time) []GridDay {
	grid := BuildDateGrid(start, end)

	out := make([]GridDay, 0, len(grid))
	for _, d := range grid {
		out = append(out, GridDay{
			Date:      DayKey(d),
			Completed: idx.Completed(d),
		})
	}
	return out
}
