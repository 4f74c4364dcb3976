package routinecsv

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/claude/rutina/internal/models"
)

var (
	// Clause patterns, anchored so a trailing time marker is never swallowed
	// by the plain NxM pattern. Tried in order; first match wins per clause.
	falloRe      = regexp.MustCompile(`(?i)^(\d+)x\s*fallo$`)
	repsRe       = regexp.MustCompile(`^(\d+)x(\d+)(?:-(\d+))?$`)
	secondsSetRe = regexp.MustCompile(`^(\d+)x(\d+)"$`)
	minutesSetRe = regexp.MustCompile(`^(\d+)x(\d+)'$`)
	rondasRe     = regexp.MustCompile(`^(\d+)\s+rondas$`)
	minutesRe    = regexp.MustCompile(`^(\d+)\s*min$`)

	// "x lado" ("per side") qualifies the movement, not the set count.
	xLadoRe = regexp.MustCompile(`(?i)\s*x\s*lado`)

	// Timer extraction runs over the whole notation, independently of the
	// per-clause set derivation.
	timerSecondsRe = regexp.MustCompile(`(\d+)"`)
	timerMinutesRe = regexp.MustCompile(`(\d+)'`)
)

// ParseSetsAndTimer turns a free-text notation cell ("3x12", "4x30\"",
// "8 rondas", "10 min", "3x Fallo", comma-separated combinations) into the
// concrete set list and an optional countdown duration in seconds.
//
// Set derivation and timer extraction are two independent passes over the
// same text: the timer comes from the first seconds marker anywhere in the
// string (then minutes), regardless of which clause produced sets. The two
// passes can disagree; that behavior is kept as-is for compatibility with
// previously ingested routines.
func ParseSetsAndTimer(notation string) ([]models.SetRecord, *int) {
	var sets []models.SetRecord

	for _, part := range strings.Split(notation, ",") {
		clause := xLadoRe.ReplaceAllString(strings.TrimSpace(part), "")
		clause = strings.TrimSpace(clause)

		switch {
		case falloRe.MatchString(clause):
			// To-failure sets have no fixed rep count.
			n := atoi(falloRe.FindStringSubmatch(clause)[1])
			sets = appendSets(sets, n, 0)

		case repsRe.MatchString(clause):
			m := repsRe.FindStringSubmatch(clause)
			reps := atoi(m[2])
			if m[3] != "" {
				// Range like 10-12: plan for the upper bound.
				reps = atoi(m[3])
			}
			sets = appendSets(sets, atoi(m[1]), reps)

		case secondsSetRe.MatchString(clause):
			n := atoi(secondsSetRe.FindStringSubmatch(clause)[1])
			sets = appendSets(sets, n, 0)

		case minutesSetRe.MatchString(clause):
			n := atoi(minutesSetRe.FindStringSubmatch(clause)[1])
			sets = appendSets(sets, n, 0)

		case rondasRe.MatchString(clause):
			n := atoi(rondasRe.FindStringSubmatch(clause)[1])
			sets = appendSets(sets, n, 0)

		case minutesRe.MatchString(clause):
			// Cardio-style "10 min": one timed block, not set-multiplied.
			sets = appendSets(sets, 1, 0)
		}
		// Anything else contributes nothing.
	}

	if len(sets) == 0 {
		sets = append(sets, models.SetRecord{Reps: 0, Completed: false})
	}

	return sets, extractTimer(notation)
}

// extractTimer finds a countdown duration in the notation: a seconds marker
// (30") wins over a minutes marker (1'), searched across the whole string.
func extractTimer(notation string) *int {
	if m := timerSecondsRe.FindStringSubmatch(notation); m != nil {
		secs := atoi(m[1])
		return &secs
	}
	if m := timerMinutesRe.FindStringSubmatch(notation); m != nil {
		secs := atoi(m[1]) * 60
		return &secs
	}
	return nil
}

func appendSets(sets []models.SetRecord, n, reps int) []models.SetRecord {
	for i := 0; i < n; i++ {
		sets = append(sets, models.SetRecord{Reps: reps, Completed: false})
	}
	return sets
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
