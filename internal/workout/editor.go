package workout

import (
	"context"
	"fmt"

	"github.com/claude/rutina/internal/ingest/routinecsv"
	"github.com/claude/rutina/internal/storage"
)

// UpdateDayFocus replaces a day's focus label. Unknown days are a no-op.
func UpdateDayFocus(ctx context.Context, store storage.Store, day int, focus string) error {
	routine, err := store.GetRoutine(ctx)
	if err != nil {
		return fmt.Errorf("loading routine: %w", err)
	}
	if routine == nil {
		return ErrNoRoutine
	}
	d := routine.FindDay(day)
	if d == nil {
		return nil
	}
	d.Focus = focus
	if err := store.PutRoutine(ctx, routine); err != nil {
		return fmt.Errorf("persisting routine: %w", err)
	}
	return nil
}

// UpdateExerciseNotation rewrites an exercise's sets/reps notation and
// re-derives its set list and timer from it, the same way import does.
// Completion and weight state for the exercise is discarded along with the
// old sets. Unknown exercise ids are a no-op.
func UpdateExerciseNotation(ctx context.Context, store storage.Store, day int, exerciseID, notation string) error {
	routine, err := store.GetRoutine(ctx)
	if err != nil {
		return fmt.Errorf("loading routine: %w", err)
	}
	if routine == nil {
		return ErrNoRoutine
	}
	d := routine.FindDay(day)
	if d == nil {
		return nil
	}
	ex := d.FindExercise(exerciseID)
	if ex == nil {
		return nil
	}

	sets, timer := routinecsv.ParseSetsAndTimer(notation)
	ex.SetsReps = notation
	ex.Sets = sets
	ex.Timer = timer
	ex.Completed = false

	if err := store.PutRoutine(ctx, routine); err != nil {
		return fmt.Errorf("persisting routine: %w", err)
	}
	return nil
}

// RenameExercise changes an exercise's display name and re-classifies its
// type from the new name. Unknown exercise ids are a no-op.
func RenameExercise(ctx context.Context, store storage.Store, day int, exerciseID, name string) error {
	routine, err := store.GetRoutine(ctx)
	if err != nil {
		return fmt.Errorf("loading routine: %w", err)
	}
	if routine == nil {
		return ErrNoRoutine
	}
	d := routine.FindDay(day)
	if d == nil {
		return nil
	}
	ex := d.FindExercise(exerciseID)
	if ex == nil {
		return nil
	}

	ex.Name = name
	ex.Type = routinecsv.ClassifyExercise(name)

	if err := store.PutRoutine(ctx, routine); err != nil {
		return fmt.Errorf("persisting routine: %w", err)
	}
	return nil
}
