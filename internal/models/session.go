package models

import "time"

// SessionExercise is the per-exercise summary stored inside a workout
// session. ExerciseID is a weak reference into whatever routine existed when
// the session was recorded; it may not resolve against the current routine.
// Weight may hold a single value or a comma-joined list of per-set weights
// (the legacy storage encoding, split again on read).
type SessionExercise struct {
	ExerciseID string `json:"exerciseId"`
	Weight     string `json:"weight,omitempty"`
	Notes      string `json:"notes,omitempty"`
	Completed  bool   `json:"completed"`
}

// WorkoutSession is an immutable history record of what was completed on a
// given date for a given routine day. The session log is append-only.
type WorkoutSession struct {
	Day       int               `json:"day"`
	Date      string            `json:"date"` // ISO-8601 timestamp
	Exercises []SessionExercise `json:"exercises"`
}

// Time parses the session date. Returns the zero time for unparseable
// dates so malformed history rows sort first instead of breaking callers.
func (s WorkoutSession) Time() time.Time {
	t, err := time.Parse(time.RFC3339, s.Date)
	if err != nil {
		return time.Time{}
	}
	return t
}

// DateKey returns the calendar-day portion ("2006-01-02") of the session
// date, in the session timestamp's own location.
func (s WorkoutSession) DateKey() string {
	return s.Time().Format("2006-01-02")
}
