package analytics

import (
	"math"
	"time"
)

const (
	DefaultWeeks  = 8
	DefaultMonths = 6
)

// PerformancePoint is one period in a trend chart. Value is nil when the
// period holds no countable days (habit not yet created, or a fully future
// month): the chart renders "no data" instead of a bogus zero.
type PerformancePoint struct {
	Label string `json:"label"`
	Value *int   `json:"value"`
}

// WeeklyPerformance buckets the trailing N weeks ending today, oldest first.
// Each bucket spans seven days ending 7*i days before today.
func WeeklyPerformance(idx CompletionIndex, createdAt, today time.Time, weeks int) []PerformancePoint {
	if weeks <= 0 {
		weeks = DefaultWeeks
	}

	today = Midnight(today)
	created := Midnight(createdAt)

	points := make([]PerformancePoint, 0, weeks)
	for i := weeks - 1; i >= 0; i-- {
		end := today.AddDate(0, 0, -7*i)
		start := end.AddDate(0, 0, -6)
		points = append(points, completionRate(idx, start, end, created, today, "Week of "+start.Format("Jan 2")))
	}
	return points
}

// MonthlyPerformance buckets the trailing N calendar months ending with the
// current month, oldest first.
func MonthlyPerformance(idx CompletionIndex, createdAt, today time.Time, months int) []PerformancePoint {
	if months <= 0 {
		months = DefaultMonths
	}

	today = Midnight(today)
	created := Midnight(createdAt)
	currentMonth := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, today.Location())

	points := make([]PerformancePoint, 0, months)
	for i := months - 1; i >= 0; i-- {
		start := currentMonth.AddDate(0, -i, 0)
		end := start.AddDate(0, 1, -1)
		points = append(points, completionRate(idx, start, end, created, today, start.Format("Jan")))
	}
	return points
}

// completionRate computes round(100 * completed / countable) over one period.
// Days before the habit existed and days after today never enter the
// denominator, so a habit created mid-month is not graded against the days
// it could not have been logged on.
func completionRate(idx CompletionIndex, start, end, created, today time.Time, label string) PerformancePoint {
	denominator := 0
	numerator := 0

	for _, day := range BuildDateGrid(start, end) {
		if day.Before(created) || day.After(today) {
			continue
		}
		denominator++
		if idx.Completed(day) {
			numerator++
		}
	}

	point := PerformancePoint{Label: label}
	if denominator > 0 {
		v := int(math.Round(float64(numerator) / float64(denominator) * 100))
		point.Value = &v
	}
	return point
}
