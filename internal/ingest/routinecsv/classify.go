package routinecsv

import (
	"strings"

	"github.com/claude/rutina/internal/models"
)

// typeKeywords is checked in order; the first keyword found in the exercise
// name wins. The order is contract: names carrying several keywords (e.g.
// "Circuito de Cardio") resolve to the earlier entry, here Cardio.
var typeKeywords = []struct {
	keyword string
	typ     models.ExerciseType
}{
	{"tabata", models.TypeTabata},
	{"cardio", models.TypeCardio},
	{"circuito", models.TypeCircuit},
	{"biserie", models.TypeBiserie},
	{"superserie", models.TypeSuperserie},
}

// ClassifyExercise infers the exercise type from its name by case-insensitive
// substring match. Names matching no keyword are plain strength work.
func ClassifyExercise(name string) models.ExerciseType {
	lower := strings.ToLower(name)
	for _, k := range typeKeywords {
		if strings.Contains(lower, k.keyword) {
			return k.typ
		}
	}
	return models.TypeStrength
}
