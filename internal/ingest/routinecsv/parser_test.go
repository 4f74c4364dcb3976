package routinecsv

import (
	"errors"
	"strings"
	"testing"

	"github.com/claude/rutina/internal/models"
)

const sampleTable = `Día,Ejercicio,Series x Reps
Día 1,Sentadilla,3x10
Día 1,Circuito de core A,3x12
Día 1,Circuito de core B,3x12
Día 2,Press Banca,"4x8-10"
Día 2,"Plancha lateral, con giro","3x30"""
Día 4,Tabata de burpees,8 rondas
`

// TestParseSampleTable is the primary happy-path test: days, focus labels,
// exercise decomposition, ids, and ordering.
func TestParseSampleTable(t *testing.T) {
	routine, err := Parse(strings.NewReader(sampleTable))
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}

	if len(routine.Days) != 3 {
		t.Fatalf("days = %d, want 3", len(routine.Days))
	}

	d1 := routine.Days[0]
	if d1.Day != 1 {
		t.Errorf("first day = %d, want 1", d1.Day)
	}
	if d1.Focus != "Pierna / Core" {
		t.Errorf("day 1 focus = %q, want %q", d1.Focus, "Pierna / Core")
	}
	if len(d1.Exercises) != 3 {
		t.Fatalf("day 1 exercises = %d, want 3", len(d1.Exercises))
	}

	squat := d1.Exercises[0]
	if squat.Name != "Sentadilla" {
		t.Errorf("name = %q, want Sentadilla", squat.Name)
	}
	if squat.ID != "d1-e1" {
		t.Errorf("id = %q, want d1-e1", squat.ID)
	}
	if len(squat.Sets) != 3 {
		t.Fatalf("sets = %d, want 3", len(squat.Sets))
	}
	for i, s := range squat.Sets {
		if s.Reps != 10 {
			t.Errorf("set %d reps = %d, want 10", i, s.Reps)
		}
	}
	if squat.Type != models.TypeStrength {
		t.Errorf("type = %v, want Strength", squat.Type)
	}
	if squat.Timer != nil {
		t.Errorf("timer = %v, want nil", *squat.Timer)
	}

	// Quoted field with an embedded comma and an escaped quote in notation.
	d2 := routine.Days[1]
	plank := d2.Exercises[1]
	if plank.Name != "Plancha lateral, con giro" {
		t.Errorf("quoted name = %q", plank.Name)
	}
	if plank.SetsReps != `3x30"` {
		t.Errorf("notation = %q, want 3x30\"", plank.SetsReps)
	}
	if plank.Timer == nil || *plank.Timer != 30 {
		t.Errorf("timer = %v, want 30", plank.Timer)
	}
	if len(plank.Sets) != 3 || plank.Sets[0].Reps != 0 {
		t.Errorf("timed sets = %+v, want 3 zero-rep sets", plank.Sets)
	}

	// Day 3 has no rows; days come out in ascending order regardless.
	if routine.Days[2].Day != 4 {
		t.Errorf("last day = %d, want 4", routine.Days[2].Day)
	}
	if routine.Days[2].Focus != "Full Body / Cardio" {
		t.Errorf("day 4 focus = %q", routine.Days[2].Focus)
	}
}

// TestParseExerciseIDsNeverCollide verifies the id counter is global across
// the parse even though ids embed the day number.
func TestParseExerciseIDsNeverCollide(t *testing.T) {
	routine, err := Parse(strings.NewReader(sampleTable))
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	seen := map[string]bool{}
	for _, d := range routine.Days {
		for _, ex := range d.Exercises {
			if seen[ex.ID] {
				t.Errorf("duplicate exercise id %q", ex.ID)
			}
			seen[ex.ID] = true
		}
	}
}

// TestParseDayOutOfRange verifies that rows for day 5+ parse without error
// but are excluded from the assembled routine.
func TestParseDayOutOfRange(t *testing.T) {
	table := "Día,Ejercicio,Series x Reps\nDía 5,Extra,3x10\nDía 2,Press Banca,4x8\n"
	routine, err := Parse(strings.NewReader(table))
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	if len(routine.Days) != 1 || routine.Days[0].Day != 2 {
		t.Fatalf("days = %+v, want only day 2", routine.Days)
	}
}

// TestParseBadHeader verifies ErrFormat when the header carries neither the
// day nor the exercise marker.
func TestParseBadHeader(t *testing.T) {
	_, err := Parse(strings.NewReader("foo,bar,baz\nDía 1,Sentadilla,3x10\n"))
	if !errors.Is(err, ErrFormat) {
		t.Fatalf("err = %v, want ErrFormat", err)
	}
}

// TestParseSkipsMalformedRows verifies the lenient default: short rows and
// unrecognized day labels are dropped, parsing continues.
func TestParseSkipsMalformedRows(t *testing.T) {
	table := "Día,Ejercicio,Series x Reps\nshort,row\nLunes,Sentadilla,3x10\nDía 1,Sentadilla,3x10\n"
	routine, err := Parse(strings.NewReader(table))
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	if len(routine.Days) != 1 || len(routine.Days[0].Exercises) != 1 {
		t.Fatalf("routine = %+v, want one exercise on day 1", routine.Days)
	}
}

// TestParseStrictMode verifies that strict ingestion turns row-level problems
// into errors.
func TestParseStrictMode(t *testing.T) {
	table := "Día,Ejercicio,Series x Reps\nshort,row\n"
	_, err := ParseWithOptions(strings.NewReader(table), Options{Strict: true})
	if err == nil {
		t.Fatal("expected error for short row in strict mode")
	}

	table = "Día,Ejercicio,Series x Reps\nLunes,Sentadilla,3x10\n"
	_, err = ParseWithOptions(strings.NewReader(table), Options{Strict: true})
	if err == nil {
		t.Fatal("expected error for bad day label in strict mode")
	}
}

// TestSplitColumns exercises the quote-aware splitter directly.
func TestSplitColumns(t *testing.T) {
	tests := []struct {
		line string
		want []string
	}{
		{"a,b,c", []string{"a", "b", "c"}},
		{`"a,b",c`, []string{"a,b", "c"}},
		{`"say ""hola""",x`, []string{`say "hola"`, "x"}},
		{`"3x30""",fin`, []string{`3x30"`, "fin"}},
		{"solo", []string{"solo"}},
		{"a,,c", []string{"a", "", "c"}},
	}
	for _, tt := range tests {
		got := splitColumns(tt.line)
		if len(got) != len(tt.want) {
			t.Errorf("splitColumns(%q) = %q, want %q", tt.line, got, tt.want)
			continue
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("splitColumns(%q)[%d] = %q, want %q", tt.line, i, got[i], tt.want[i])
			}
		}
	}
}
