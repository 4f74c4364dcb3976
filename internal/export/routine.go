// Package export renders a routine and its workout results into shareable
// forms: CSV files a spreadsheet can open and a plain-text summary message.
package export

import (
	"strconv"
	"strings"

	"github.com/claude/rutina/internal/models"
)

// RoutineCSV renders the full routine as CSV, one row per exercise. The
// output round-trips through the routine table parser: focus, name, and
// notation are quoted with doubled inner quotes so timed notations like
// `3x30"` survive.
func RoutineCSV(routine *models.Routine) string {
	var b strings.Builder
	b.WriteString("Día,Enfoque,Ejercicio,Tipo,Series/Reps\n")
	for _, day := range routine.Days {
		for _, ex := range day.Exercises {
			b.WriteString(quote("Día " + strconv.Itoa(day.Day)))
			b.WriteByte(',')
			b.WriteString(quote(day.Focus))
			b.WriteByte(',')
			b.WriteString(quote(ex.Name))
			b.WriteByte(',')
			b.WriteString(string(ex.Type))
			b.WriteByte(',')
			b.WriteString(quote(ex.SetsReps))
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
