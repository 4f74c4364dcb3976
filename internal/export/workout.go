package export

import (
	"fmt"
	"strings"
	"time"

	"github.com/claude/rutina/internal/models"
)

// WorkoutExport is the day-summary document shared after a workout. Field
// names keep the Spanish JSON vocabulary existing consumers expect.
type WorkoutExport struct {
	Dia             int               `json:"dia"`
	Fecha           string            `json:"fecha"`
	FechaFormateada string            `json:"fechaFormateada"`
	Enfoque         string            `json:"enfoque"`
	Ejercicios      []WorkoutExercise `json:"ejercicios"`
	Resumen         WorkoutSummary    `json:"resumen"`
}

// WorkoutExercise is one completed exercise in the export.
type WorkoutExercise struct {
	Nombre     string       `json:"nombre"`
	SeriesReps string       `json:"series_reps"`
	Tipo       string       `json:"tipo"`
	Series     []WorkoutSet `json:"series"`
	PesoTotal  string       `json:"pesoTotal"`
	Notas      string       `json:"notas"`
}

// WorkoutSet is one performed set, 1-indexed for display.
type WorkoutSet struct {
	Serie      int    `json:"serie"`
	Reps       int    `json:"reps"`
	Peso       string `json:"peso"`
	Completada bool   `json:"completada"`
}

// WorkoutSummary counts completion over the whole day, incomplete exercises
// included.
type WorkoutSummary struct {
	TotalEjercicios       int `json:"totalEjercicios"`
	EjerciciosCompletados int `json:"ejerciciosCompletados"`
	TotalSeries           int `json:"totalSeries"`
	SeriesCompletadas     int `json:"seriesCompletadas"`
}

// NewWorkoutExport builds the export document for one routine day at the
// given moment. Only completed exercises are listed; the summary still
// counts everything. Returns nil when the day is not in the routine.
func NewWorkoutExport(routine *models.Routine, day int, now time.Time) *WorkoutExport {
	if routine == nil {
		return nil
	}
	d := routine.FindDay(day)
	if d == nil {
		return nil
	}

	e := &WorkoutExport{
		Dia:             day,
		Fecha:           now.Format(time.RFC3339),
		FechaFormateada: now.Format("02-01-2006"),
		Enfoque:         d.Focus,
		Ejercicios:      []WorkoutExercise{},
	}

	for _, ex := range d.Exercises {
		e.Resumen.TotalEjercicios++
		e.Resumen.TotalSeries += len(ex.Sets)
		for _, set := range ex.Sets {
			if set.Completed {
				e.Resumen.SeriesCompletadas++
			}
		}
		if !ex.Completed {
			continue
		}
		e.Resumen.EjerciciosCompletados++

		we := WorkoutExercise{
			Nombre:     ex.Name,
			SeriesReps: ex.SetsReps,
			Tipo:       string(ex.Type),
			Series:     make([]WorkoutSet, 0, len(ex.Sets)),
			Notas:      ex.Notes,
		}
		var weights []string
		for i, set := range ex.Sets {
			we.Series = append(we.Series, WorkoutSet{
				Serie:      i + 1,
				Reps:       set.Reps,
				Peso:       set.Weight,
				Completada: set.Completed,
			})
			if set.Weight != "" {
				weights = append(weights, set.Weight)
			}
		}
		we.PesoTotal = strings.Join(weights, ", ")
		e.Ejercicios = append(e.Ejercicios, we)
	}
	return e
}

// Message renders the export as a readable text summary for copying into a
// chat.
func (e *WorkoutExport) Message() string {
	var b strings.Builder
	fmt.Fprintf(&b, "🏋️ ENTRENAMIENTO - DÍA %d\n", e.Dia)
	fmt.Fprintf(&b, "📅 Fecha: %s\n", e.FechaFormateada)
	fmt.Fprintf(&b, "🎯 Enfoque: %s\n\n", e.Enfoque)

	b.WriteString("📊 RESUMEN:\n")
	fmt.Fprintf(&b, "• Ejercicios completados: %d/%d\n", e.Resumen.EjerciciosCompletados, e.Resumen.TotalEjercicios)
	fmt.Fprintf(&b, "• Series completadas: %d/%d\n\n", e.Resumen.SeriesCompletadas, e.Resumen.TotalSeries)

	b.WriteString("💪 EJERCICIOS:\n\n")
	for i, ej := range e.Ejercicios {
		fmt.Fprintf(&b, "%d. %s (%s)\n", i+1, ej.Nombre, ej.Tipo)
		fmt.Fprintf(&b, "   Series/Reps: %s\n", ej.SeriesReps)

		var conPeso []string
		for _, s := range ej.Series {
			if s.Peso != "" {
				conPeso = append(conPeso, fmt.Sprintf("Serie %d: %skg", s.Serie, s.Peso))
			}
		}
		if len(conPeso) > 0 {
			fmt.Fprintf(&b, "   Pesos: %s\n", strings.Join(conPeso, ", "))
		}
		if ej.PesoTotal != "" {
			fmt.Fprintf(&b, "   Pesos totales: %s\n", ej.PesoTotal)
		}
		if ej.Notas != "" {
			fmt.Fprintf(&b, "   Notas: %s\n", ej.Notas)
		}
		b.WriteString("\n")
	}
	return b.String()
}

// CSV renders the export as a small spreadsheet: a title row, the exercise
// table, and the summary block.
func (e *WorkoutExport) CSV() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Entrenamiento Día %d,Fecha: %s,Enfoque: %s\n\n", e.Dia, e.FechaFormateada, e.Enfoque)
	b.WriteString("Ejercicio,Tipo,Series/Reps,Pesos,Notas\n")
	for _, ej := range e.Ejercicios {
		fmt.Fprintf(&b, "%s,%s,%s,%s,%s\n",
			quote(ej.Nombre), quote(ej.Tipo), quote(ej.SeriesReps), quote(ej.PesoTotal), quote(ej.Notas))
	}
	b.WriteString("\nResumen\n")
	fmt.Fprintf(&b, "Total Ejercicios,%d\n", e.Resumen.TotalEjercicios)
	fmt.Fprintf(&b, "Ejercicios Completados,%d\n", e.Resumen.EjerciciosCompletados)
	fmt.Fprintf(&b, "Total Series,%d\n", e.Resumen.TotalSeries)
	fmt.Fprintf(&b, "Series Completadas,%d\n", e.Resumen.SeriesCompletadas)
	return b.String()
}

// Filename suggests a download name for the given extension.
func (e *WorkoutExport) Filename(ext string) string {
	return fmt.Sprintf("entrenamiento-dia%d-%s.%s", e.Dia, e.FechaFormateada, ext)
}
