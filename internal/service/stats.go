package service

import (
	"alcyxob/bodyapp/internal/domain"
	"sort"
	"time"
)

// PartCount is the number of sets logged for one body part.
type PartCount struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// DayStats summarises one day for a calendar cell.
type DayStats struct {
	TotalSets int         `json:"totalSets"`
	Parts     []PartCount `json:"parts"`
}

// Stats aggregates a day's exercises. Returns nil when there are none.
// Parts are sorted by set count, descending; ties keep the order in which
// the body part first appears in the day.
func Stats(exercises []domain.ExerciseInstance) *DayStats {
	if len(exercises) == 0 {
		return nil
	}

	var order []domain.BodyPart
	counts := make(map[domain.BodyPart]int)
	for _, ex := range exercises {
		if _, seen := counts[ex.BodyPart]; !seen {
			order = append(order, ex.BodyPart)
		}
		counts[ex.BodyPart] += len(ex.Sets)
	}

	parts := make([]PartCount, len(order))
	for i, bp := range order {
		parts[i] = PartCount{Label: domain.BodyPartLabel(bp), Count: counts[bp]}
	}
	sort.SliceStable(parts, func(i, j int) bool {
		return parts[i].Count > parts[j].Count
	})

	return &DayStats{
		TotalSets: domain.TotalSets(exercises),
		Parts:     parts,
	}
}

// CalendarDay is one cell of the month grid.
type CalendarDay struct {
	DateKey string    `json:"dateKey"`
	Day     int       `json:"day"`
	InMonth bool      `json:"inMonth"`
	Stats   *DayStats `json:"stats"` // nil when nothing was logged
}

// BuildMonthCalendar lays out the Sunday-first weeks covering the month,
// including the leading and trailing days of the neighbouring months.
// lookup returns the exercises logged on a day-key.
func BuildMonthCalendar(year int, month time.Month, lookup func(dateKey string) []domain.ExerciseInstance) [][]CalendarDay {
	monthStart := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	monthEnd := monthStart.AddDate(0, 1, -1)
	gridStart := monthStart.AddDate(0, 0, -int(monthStart.Weekday()))
	gridEnd := monthEnd.AddDate(0, 0, int(time.Saturday-monthEnd.Weekday()))

	var weeks [][]CalendarDay
	var week []CalendarDay
	for d := gridStart; !d.After(gridEnd); d = d.AddDate(0, 0, 1) {
		key := domain.FormatDateKey(d)
		week = append(week, CalendarDay{
			DateKey: key,
			Day:     d.Day(),
			InMonth: d.Month() == month,
			Stats:   Stats(lookup(key)),
		})
		if len(week) == 7 {
			weeks = append(weeks, week)
			week = nil
		}
	}
	return weeks
}
