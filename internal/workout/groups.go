package workout

import "github.com/claude/rutina/internal/models"

// GroupExercises partitions a day's ordered exercise list into performance
// groups. Maximal contiguous runs of the same groupable type (Circuit,
// Biserie, Superserie) become one group performed back-to-back; a run broken
// by a different groupable type starts a new group immediately; everything
// else is a singleton. Group order follows the first member's position.
//
// Grouping is a pure function of the exercise list and is recomputed on
// every mutation; nothing caches the result.
func GroupExercises(exercises []models.Exercise) [][]models.Exercise {
	var groups [][]models.Exercise
	var open []models.Exercise
	var openType models.ExerciseType

	for _, ex := range exercises {
		if ex.Type.Groupable() && (len(open) == 0 || openType == ex.Type) {
			open = append(open, ex)
			openType = ex.Type
			continue
		}

		if len(open) > 0 {
			groups = append(groups, open)
			open = nil
		}

		if ex.Type.Groupable() {
			// Different groupable type: starts its own group right away.
			open = []models.Exercise{ex}
			openType = ex.Type
		} else {
			groups = append(groups, []models.Exercise{ex})
		}
	}

	if len(open) > 0 {
		groups = append(groups, open)
	}
	return groups
}
