package routinecsv

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/claude/rutina/internal/models"
	"github.com/google/uuid"
)

// ErrFormat is returned when the header row lacks the required day and
// exercise column markers. Individual malformed rows never produce it.
var ErrFormat = errors.New("unrecognized routine table format")

// Routine tables recognize day numbers 1 through maxDay; rows referencing
// later days parse fine but are dropped at assembly.
const maxDay = 4

// dayFocuses labels the four canonical training days. Days without an entry
// fall back to a generic "Día N" label.
var dayFocuses = map[int]string{
	1: "Pierna / Core",
	2: "Empuje Superior",
	3: "Tirón Superior",
	4: "Full Body / Cardio",
}

var dayLabelRe = regexp.MustCompile(`(?i)Día\s*(\d+)`)

// Options controls ingestion leniency. The zero value is the historical
// behavior: malformed rows are skipped and parsing continues.
type Options struct {
	// Strict turns row-level problems (too few columns, unrecognized day
	// label) into errors instead of silent skips.
	Strict bool
}

// Parse reads a delimited routine table and assembles the routine model.
// The first non-empty line is the header; it must contain a "Día" column
// marker and an "Ejercicio" column marker or Parse fails with ErrFormat.
// Data rows are `<day-label>,<exercise-name>,<notation>[,...]`; fields may
// be double-quoted with "" escaping for embedded quotes and commas.
func Parse(r io.Reader) (*models.Routine, error) {
	return ParseWithOptions(r, Options{})
}

// ParseWithOptions is Parse with explicit leniency control.
func ParseWithOptions(r io.Reader, opts Options) (*models.Routine, error) {
	scanner := bufio.NewScanner(r)

	var header string
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" {
			header = line
			break
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading routine table: %w", err)
	}
	if !strings.Contains(header, "Día") && !strings.Contains(header, "Ejercicio") {
		return nil, fmt.Errorf("%w: header %q is missing the Día and Ejercicio columns", ErrFormat, header)
	}

	exercisesByDay := map[int][]models.Exercise{}
	idCounter := 1
	lineNo := 1

	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		columns := splitColumns(line)
		if len(columns) < 3 {
			if opts.Strict {
				return nil, fmt.Errorf("line %d: expected at least 3 columns, got %d", lineNo, len(columns))
			}
			continue
		}

		dayLabel := strings.TrimSpace(columns[0])
		name := strings.TrimSpace(columns[1])
		notation := strings.TrimSpace(columns[2])

		m := dayLabelRe.FindStringSubmatch(dayLabel)
		if m == nil {
			if opts.Strict {
				return nil, fmt.Errorf("line %d: unrecognized day label %q", lineNo, dayLabel)
			}
			continue
		}
		day := atoi(m[1])

		sets, timer := ParseSetsAndTimer(notation)
		exercisesByDay[day] = append(exercisesByDay[day], models.Exercise{
			ID:       fmt.Sprintf("d%d-e%d", day, idCounter),
			Name:     name,
			SetsReps: notation,
			Sets:     sets,
			Type:     ClassifyExercise(name),
			Timer:    timer,
		})
		idCounter++
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading routine table: %w", err)
	}

	routine := &models.Routine{RoutineID: "rutina-" + uuid.NewString()}
	for day := 1; day <= maxDay; day++ {
		exercises, ok := exercisesByDay[day]
		if !ok {
			continue
		}
		focus, ok := dayFocuses[day]
		if !ok {
			focus = fmt.Sprintf("Día %d", day)
		}
		routine.Days = append(routine.Days, models.Day{
			Day:       day,
			Focus:     focus,
			Exercises: exercises,
		})
	}
	return routine, nil
}

// splitColumns splits a table row on commas, honoring double-quoted fields.
// Inside a quoted field a doubled quote ("") yields one literal quote.
func splitColumns(line string) []string {
	var columns []string
	var field strings.Builder
	inQuotes := false

	runes := []rune(line)
	for i := 0; i < len(runes); i++ {
		c := runes[i]
		switch {
		case c == '"' && inQuotes && i+1 < len(runes) && runes[i+1] == '"':
			field.WriteRune('"')
			i++
		case c == '"':
			inQuotes = !inQuotes
		case c == ',' && !inQuotes:
			columns = append(columns, strings.TrimSpace(field.String()))
			field.Reset()
		default:
			field.WriteRune(c)
		}
	}
	columns = append(columns, strings.TrimSpace(field.String()))
	return columns
}
