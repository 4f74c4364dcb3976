package metrics

import (
	"testing"
	"time"

	"github.com/claude/rutina/internal/models"
)

// Tuesday. The week containing it starts Sunday 2026-08-30.
var now = time.Date(2026, 9, 1, 18, 30, 0, 0, time.UTC)

func sessionOn(day int, date string) models.WorkoutSession {
	return models.WorkoutSession{Day: day, Date: date + "T10:00:00Z"}
}

func twoDayRoutine() *models.Routine {
	return &models.Routine{
		RoutineID: "rutina-test",
		Days: []models.Day{
			{Day: 1, Focus: "Pierna / Core"},
			{Day: 2, Focus: "Empuje Superior"},
		},
	}
}

func TestComputeStreak(t *testing.T) {
	tests := []struct {
		name     string
		sessions []models.WorkoutSession
		restDays []string
		want     int
	}{
		{
			name: "no sessions",
			want: 0,
		},
		{
			name:     "rest days alone do not start a streak",
			restDays: []string{"2026-09-01", "2026-08-31"},
			want:     0,
		},
		{
			name: "today and yesterday",
			sessions: []models.WorkoutSession{
				sessionOn(1, "2026-09-01"),
				sessionOn(2, "2026-08-31"),
			},
			want: 2,
		},
		{
			name: "inactive today is skipped once",
			sessions: []models.WorkoutSession{
				sessionOn(1, "2026-08-31"),
			},
			want: 1,
		},
		{
			name: "two inactive days break the streak",
			sessions: []models.WorkoutSession{
				sessionOn(1, "2026-08-30"),
			},
			want: 0,
		},
		{
			name: "rest day bridges a gap",
			sessions: []models.WorkoutSession{
				sessionOn(1, "2026-09-01"),
				sessionOn(2, "2026-08-30"),
			},
			restDays: []string{"2026-08-31"},
			want:     3,
		},
		{
			name: "multiple sessions on one date count once",
			sessions: []models.WorkoutSession{
				sessionOn(1, "2026-09-01"),
				sessionOn(1, "2026-09-01"),
				sessionOn(2, "2026-08-31"),
			},
			want: 2,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := ComputeStreak(now, tc.sessions, tc.restDays); got != tc.want {
				t.Errorf("ComputeStreak = %d, want %d", got, tc.want)
			}
		})
	}
}

func TestComputeWeekProgress(t *testing.T) {
	sessions := []models.WorkoutSession{
		sessionOn(1, "2026-08-31"), // Monday, this week
		sessionOn(2, "2026-09-01"), // today
		sessionOn(2, "2026-08-29"), // Saturday, last week
	}

	p := ComputeWeekProgress(now, sessions, twoDayRoutine())
	if p.Current != 2 {
		t.Errorf("current = %d, want 2", p.Current)
	}
	if p.Target != 2 {
		t.Errorf("target = %d, want 2", p.Target)
	}
	if p.Percentage != 100 {
		t.Errorf("percentage = %d, want 100", p.Percentage)
	}

	p = ComputeWeekProgress(now, nil, twoDayRoutine())
	if p.Current != 0 || p.Percentage != 0 {
		t.Errorf("empty log progress = %+v", p)
	}

	// No routine means target 0 and percentage pinned to 0.
	p = ComputeWeekProgress(now, sessions, nil)
	if p.Target != 0 || p.Percentage != 0 {
		t.Errorf("no-routine progress = %+v", p)
	}
}

func TestComputeWeekProgressRounds(t *testing.T) {
	routine := &models.Routine{Days: []models.Day{
		{Day: 1}, {Day: 2}, {Day: 3},
	}}
	p := ComputeWeekProgress(now, []models.WorkoutSession{sessionOn(1, "2026-08-31")}, routine)
	if p.Percentage != 33 {
		t.Errorf("percentage = %d, want 33", p.Percentage)
	}
}

func TestRecommendNextDay(t *testing.T) {
	routine := twoDayRoutine()

	rec := RecommendNextDay(now, nil, routine)
	if rec == nil || rec.Day != 1 || rec.Focus != "Pierna / Core" {
		t.Errorf("fresh week recommendation = %+v", rec)
	}

	rec = RecommendNextDay(now, []models.WorkoutSession{sessionOn(1, "2026-08-31")}, routine)
	if rec == nil || rec.Day != 2 {
		t.Errorf("after day 1 recommendation = %+v", rec)
	}

	// All days trained this week wraps to the first.
	rec = RecommendNextDay(now, []models.WorkoutSession{
		sessionOn(1, "2026-08-31"),
		sessionOn(2, "2026-09-01"),
	}, routine)
	if rec == nil || rec.Day != 1 {
		t.Errorf("wrap-around recommendation = %+v", rec)
	}

	// Last week's sessions do not count against this week.
	rec = RecommendNextDay(now, []models.WorkoutSession{sessionOn(1, "2026-08-29")}, routine)
	if rec == nil || rec.Day != 1 {
		t.Errorf("stale-session recommendation = %+v", rec)
	}

	if rec := RecommendNextDay(now, nil, &models.Routine{}); rec != nil {
		t.Errorf("empty routine recommendation = %+v, want nil", rec)
	}
	if rec := RecommendNextDay(now, nil, nil); rec != nil {
		t.Errorf("nil routine recommendation = %+v, want nil", rec)
	}
}

func TestWeeklyAverage(t *testing.T) {
	if got := WeeklyAverage(now, nil); got != 0 {
		t.Errorf("empty log average = %v, want 0", got)
	}

	sessions := []models.WorkoutSession{
		sessionOn(1, "2026-09-01"),
		sessionOn(2, "2026-08-28"),
		sessionOn(1, "2026-08-20"),
		sessionOn(2, "2026-08-10"),
		sessionOn(1, "2026-08-06"),
		sessionOn(1, "2026-07-01"), // outside the window
	}
	if got := WeeklyAverage(now, sessions); got != 1.3 {
		t.Errorf("average = %v, want 1.3", got)
	}

	// Just inside the trailing window still counts.
	boundary := []models.WorkoutSession{sessionOn(1, "2026-08-05")}
	if got := WeeklyAverage(now, boundary); got != 0.3 {
		t.Errorf("boundary average = %v, want 0.3", got)
	}
}
