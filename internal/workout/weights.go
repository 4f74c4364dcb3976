package workout

import (
	"strings"

	"github.com/claude/rutina/internal/models"
)

// PreviousWeights recalls the per-set weights an exercise was last performed
// with. Only the most recent session of the same day number is consulted:
// if that session does not mention the exercise, or carries no weight for it,
// there is no recall even when older records do. The comma-joined weight is
// split back into the per-set list. Returns nil when there is no history.
func PreviousWeights(sessions []models.WorkoutSession, day int, exerciseID string) []string {
	var latest *models.WorkoutSession
	for i := range sessions {
		sess := &sessions[i]
		if sess.Day != day {
			continue
		}
		// RFC 3339 strings order lexicographically. Ties go to the later
		// record, so finalize-per-group progressions win.
		if latest == nil || sess.Date >= latest.Date {
			latest = sess
		}
	}
	if latest == nil {
		return nil
	}

	for i := range latest.Exercises {
		entry := &latest.Exercises[i]
		if entry.ExerciseID != exerciseID || entry.Weight == "" {
			continue
		}
		parts := strings.Split(entry.Weight, ",")
		weights := make([]string, 0, len(parts))
		for _, p := range parts {
			weights = append(weights, strings.TrimSpace(p))
		}
		return weights
	}
	return nil
}
