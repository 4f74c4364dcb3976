// Package metrics derives progress figures from the append-only session log:
// the training streak, current-week progress, the recommended next routine
// day, and a trailing weekly average. Every function takes an explicit `now`
// so callers and tests control the clock.
package metrics

import (
	"math"
	"time"

	"github.com/claude/rutina/internal/models"
)

// WeekProgress reports how far the current calendar week has come against
// the routine's day count.
type WeekProgress struct {
	Current    int `json:"current"`
	Target     int `json:"target"`
	Percentage int `json:"percentage"`
}

// DayRecommendation names the routine day to train next.
type DayRecommendation struct {
	Day   int    `json:"day"`
	Focus string `json:"focus"`
}

// ComputeStreak counts consecutive active calendar days ending at now.
// A day is active when it has at least one session or is a marked rest day.
// Today not yet being active does not break a streak standing as of
// yesterday, but it is skipped, not counted. No sessions at all means no
// streak regardless of rest-day marks.
func ComputeStreak(now time.Time, sessions []models.WorkoutSession, restDays []string) int {
	if len(sessions) == 0 {
		return 0
	}

	active := make(map[string]bool, len(sessions)+len(restDays))
	for _, sess := range sessions {
		active[sess.DateKey()] = true
	}
	for _, d := range restDays {
		active[d] = true
	}

	day := now
	if !active[dateKey(day)] {
		day = day.AddDate(0, 0, -1)
	}

	streak := 0
	for active[dateKey(day)] {
		streak++
		day = day.AddDate(0, 0, -1)
	}
	return streak
}

// ComputeWeekProgress counts this week's sessions against the routine's day
// count. Weeks start on Sunday at local midnight.
func ComputeWeekProgress(now time.Time, sessions []models.WorkoutSession, routine *models.Routine) WeekProgress {
	var target int
	if routine != nil {
		target = len(routine.Days)
	}

	start := startOfWeek(now)
	end := start.AddDate(0, 0, 7)
	current := 0
	for _, sess := range sessions {
		ts := sess.Time()
		if ts.IsZero() {
			continue
		}
		if !ts.Before(start) && ts.Before(end) {
			current++
		}
	}

	p := WeekProgress{Current: current, Target: target}
	if target > 0 {
		p.Percentage = int(math.Round(float64(current) / float64(target) * 100))
	}
	return p
}

// RecommendNextDay picks the first routine day not yet trained this week,
// wrapping to the first day when the whole week is covered. Returns nil when
// the routine is empty.
func RecommendNextDay(now time.Time, sessions []models.WorkoutSession, routine *models.Routine) *DayRecommendation {
	if routine == nil || len(routine.Days) == 0 {
		return nil
	}

	start := startOfWeek(now)
	end := start.AddDate(0, 0, 7)
	trained := make(map[int]bool)
	for _, sess := range sessions {
		ts := sess.Time()
		if ts.IsZero() {
			continue
		}
		if !ts.Before(start) && ts.Before(end) {
			trained[sess.Day] = true
		}
	}

	for _, d := range routine.Days {
		if !trained[d.Day] {
			return &DayRecommendation{Day: d.Day, Focus: d.Focus}
		}
	}
	first := routine.Days[0]
	return &DayRecommendation{Day: first.Day, Focus: first.Focus}
}

// WeeklyAverage is the trailing 28-day session count divided by four weeks,
// rounded to one decimal place.
func WeeklyAverage(now time.Time, sessions []models.WorkoutSession) float64 {
	if len(sessions) == 0 {
		return 0
	}

	cutoff := now.AddDate(0, 0, -28)
	count := 0
	for _, sess := range sessions {
		ts := sess.Time()
		if ts.IsZero() {
			continue
		}
		if !ts.Before(cutoff) && !ts.After(now) {
			count++
		}
	}
	return math.Round(float64(count)/4*10) / 10
}

// startOfWeek truncates to midnight of the most recent Sunday.
func startOfWeek(t time.Time) time.Time {
	midnight := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	return midnight.AddDate(0, 0, -int(midnight.Weekday()))
}

func dateKey(t time.Time) string {
	return t.Format("2006-01-02")
}
