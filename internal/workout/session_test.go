package workout

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/claude/rutina/internal/models"
	"github.com/claude/rutina/internal/storage"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func openTestStore(t *testing.T) storage.Store {
	t.Helper()
	s, err := storage.OpenSQLite(":memory:")
	if err != nil {
		t.Fatalf("opening store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func seedRoutine(t *testing.T, store storage.Store) {
	t.Helper()
	routine := &models.Routine{
		RoutineID: "rutina-test",
		Days: []models.Day{
			{
				Day:   1,
				Focus: "Pierna / Core",
				Exercises: []models.Exercise{
					{
						ID: "d1-e1", Name: "Sentadilla", SetsReps: "3x10",
						Sets: []models.SetRecord{{Reps: 10}, {Reps: 10}, {Reps: 10}},
						Type: models.TypeStrength,
					},
					{
						ID: "d1-e2", Name: "Biserie: Zancadas", SetsReps: "3x12",
						Sets: []models.SetRecord{{Reps: 12}, {Reps: 12}, {Reps: 12}},
						Type: models.TypeBiserie,
					},
					{
						ID: "d1-e3", Name: "Biserie: Curl femoral", SetsReps: "3x12",
						Sets: []models.SetRecord{{Reps: 12}, {Reps: 12}, {Reps: 12}},
						Type: models.TypeBiserie,
					},
				},
			},
			{
				Day:   2,
				Focus: "Empuje Superior",
				Exercises: []models.Exercise{
					{
						ID: "d2-e4", Name: "Press banca", SetsReps: "4x8",
						Sets: []models.SetRecord{{Reps: 8}, {Reps: 8}, {Reps: 8}, {Reps: 8}},
						Type: models.TypeStrength,
					},
				},
			},
		},
	}
	if err := store.PutRoutine(context.Background(), routine); err != nil {
		t.Fatalf("seeding routine: %v", err)
	}
}

func startTestSession(t *testing.T, store storage.Store, day int) *Session {
	t.Helper()
	s, err := Start(context.Background(), store, testLogger(), day)
	if err != nil {
		t.Fatalf("Start(day %d): %v", day, err)
	}
	s.now = func() time.Time {
		return time.Date(2026, 8, 31, 18, 0, 0, 0, time.UTC)
	}
	return s
}

func TestStartErrors(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	if _, err := Start(ctx, store, testLogger(), 1); !errors.Is(err, ErrNoRoutine) {
		t.Errorf("Start on empty store err = %v, want ErrNoRoutine", err)
	}

	seedRoutine(t, store)
	if _, err := Start(ctx, store, testLogger(), 7); !errors.Is(err, ErrDayNotFound) {
		t.Errorf("Start(day 7) err = %v, want ErrDayNotFound", err)
	}
}

func TestToggleSetCompletesExercise(t *testing.T) {
	store := openTestStore(t)
	seedRoutine(t, store)
	s := startTestSession(t, store, 1)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if err := s.ToggleSet(ctx, "d1-e1", i); err != nil {
			t.Fatalf("ToggleSet(%d): %v", i, err)
		}
	}
	ex := s.Day().FindExercise("d1-e1")
	if !ex.Completed {
		t.Error("exercise not completed after all sets toggled")
	}

	// Untoggling one set un-completes the exercise.
	if err := s.ToggleSet(ctx, "d1-e1", 1); err != nil {
		t.Fatal(err)
	}
	if s.Day().FindExercise("d1-e1").Completed {
		t.Error("exercise still completed with an incomplete set")
	}

	// State survives reload.
	s2 := startTestSession(t, store, 1)
	ex2 := s2.Day().FindExercise("d1-e1")
	if !ex2.Sets[0].Completed || ex2.Sets[1].Completed || !ex2.Sets[2].Completed {
		t.Errorf("persisted sets = %+v", ex2.Sets)
	}
}

func TestUnknownRefsAreNoOps(t *testing.T) {
	store := openTestStore(t)
	seedRoutine(t, store)
	s := startTestSession(t, store, 1)
	ctx := context.Background()

	if err := s.ToggleSet(ctx, "d9-e99", 0); err != nil {
		t.Errorf("ToggleSet unknown exercise: %v", err)
	}
	if err := s.ToggleSet(ctx, "d1-e1", 99); err != nil {
		t.Errorf("ToggleSet out-of-range set: %v", err)
	}
	if err := s.UpdateSetWeight(ctx, "d9-e99", 0, "40"); err != nil {
		t.Errorf("UpdateSetWeight unknown exercise: %v", err)
	}
	if err := s.UpdateNotes(ctx, "d9-e99", "x"); err != nil {
		t.Errorf("UpdateNotes unknown exercise: %v", err)
	}
	if p := s.Progress(); p.CompletedSets != 0 {
		t.Errorf("progress mutated by no-ops: %+v", p)
	}
}

func TestUpdateSetWeightSanitizes(t *testing.T) {
	store := openTestStore(t)
	seedRoutine(t, store)
	s := startTestSession(t, store, 1)
	ctx := context.Background()

	if err := s.UpdateSetWeight(ctx, "d1-e1", 0, " 42,5 kg "); err != nil {
		t.Fatal(err)
	}
	if got := s.Day().FindExercise("d1-e1").Sets[0].Weight; got != "425" {
		t.Errorf("weight = %q, want 425", got)
	}

	if err := s.UpdateSetWeight(ctx, "d1-e1", 1, "42.5"); err != nil {
		t.Fatal(err)
	}
	if got := s.Day().FindExercise("d1-e1").Sets[1].Weight; got != "42.5" {
		t.Errorf("weight = %q, want 42.5", got)
	}
}

func TestSanitizeWeight(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"40", "40"},
		{"42.5", "42.5"},
		{"42.525", "42.52"},
		{"1.2.3", "1.23"},
		{"abc", ""},
		{"40kg", "40"},
		{"", ""},
		{"40.", "40"},
		{".5", ".5"},
	}
	for _, tc := range tests {
		if got := SanitizeWeight(tc.in); got != tc.want {
			t.Errorf("SanitizeWeight(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestFinalizeGroupRecordsProgressiveSessions(t *testing.T) {
	store := openTestStore(t)
	seedRoutine(t, store)
	s := startTestSession(t, store, 1)
	ctx := context.Background()

	if got := len(s.Groups()); got != 2 {
		t.Fatalf("groups = %d, want 2 (singleton + biserie pair)", got)
	}

	if err := s.UpdateSetWeight(ctx, "d1-e1", 0, "40"); err != nil {
		t.Fatal(err)
	}
	if err := s.UpdateSetWeight(ctx, "d1-e1", 1, "42.5"); err != nil {
		t.Fatal(err)
	}
	if err := s.UpdateSetWeight(ctx, "d1-e1", 2, "45"); err != nil {
		t.Fatal(err)
	}

	done, err := s.FinalizeGroup(ctx)
	if err != nil {
		t.Fatalf("FinalizeGroup: %v", err)
	}
	if done {
		t.Error("day reported done after first of two groups")
	}
	if s.CurrentGroupIndex() != 1 {
		t.Errorf("group pointer = %d, want 1", s.CurrentGroupIndex())
	}
	if !s.Day().FindExercise("d1-e1").Completed {
		t.Error("finalize did not force-complete the group")
	}

	sessions, err := store.ListSessions(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(sessions) != 1 {
		t.Fatalf("sessions after first finalize = %d, want 1", len(sessions))
	}
	if len(sessions[0].Exercises) != 1 {
		t.Fatalf("record exercises = %+v, want just d1-e1", sessions[0].Exercises)
	}
	if got := sessions[0].Exercises[0].Weight; got != "40,42.5,45" {
		t.Errorf("recorded weight = %q, want 40,42.5,45", got)
	}

	done, err = s.FinalizeGroup(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if !done || !s.DayComplete() {
		t.Error("day not done after final group")
	}

	sessions, err = store.ListSessions(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(sessions) != 2 {
		t.Fatalf("sessions after second finalize = %d, want 2", len(sessions))
	}
	// The second record spans every completed exercise of the day.
	if len(sessions[1].Exercises) != 3 {
		t.Errorf("final record covers %d exercises, want 3", len(sessions[1].Exercises))
	}
}

func TestStartResumesAtFirstUnfinishedGroup(t *testing.T) {
	store := openTestStore(t)
	seedRoutine(t, store)
	s := startTestSession(t, store, 1)
	ctx := context.Background()

	if _, err := s.FinalizeGroup(ctx); err != nil {
		t.Fatal(err)
	}

	s2 := startTestSession(t, store, 1)
	if s2.CurrentGroupIndex() != 1 {
		t.Errorf("resumed group pointer = %d, want 1", s2.CurrentGroupIndex())
	}
}

func TestPreviousGroup(t *testing.T) {
	store := openTestStore(t)
	seedRoutine(t, store)
	s := startTestSession(t, store, 1)

	s.PreviousGroup()
	if s.CurrentGroupIndex() != 0 {
		t.Error("PreviousGroup at first group should be a no-op")
	}
	if _, err := s.FinalizeGroup(context.Background()); err != nil {
		t.Fatal(err)
	}
	s.PreviousGroup()
	if s.CurrentGroupIndex() != 0 {
		t.Errorf("group pointer = %d, want 0", s.CurrentGroupIndex())
	}
}

func TestResetDay(t *testing.T) {
	store := openTestStore(t)
	seedRoutine(t, store)
	s := startTestSession(t, store, 1)
	ctx := context.Background()

	if err := s.UpdateSetWeight(ctx, "d1-e1", 0, "40"); err != nil {
		t.Fatal(err)
	}
	if err := s.UpdateNotes(ctx, "d1-e1", "rodilla molesta"); err != nil {
		t.Fatal(err)
	}
	if _, err := s.FinalizeGroup(ctx); err != nil {
		t.Fatal(err)
	}

	if err := s.ResetDay(ctx); err != nil {
		t.Fatalf("ResetDay: %v", err)
	}
	if s.CurrentGroupIndex() != 0 || s.DayComplete() {
		t.Error("reset did not rewind session state")
	}
	for _, ex := range s.Day().Exercises {
		if ex.Completed || ex.Notes != "" {
			t.Errorf("exercise %s not cleared: %+v", ex.ID, ex)
		}
		for _, set := range ex.Sets {
			if set.Completed || set.Weight != "" {
				t.Errorf("set of %s not cleared: %+v", ex.ID, set)
			}
		}
	}

	// History is untouched by a reset.
	sessions, _ := store.ListSessions(ctx)
	if len(sessions) != 1 {
		t.Errorf("sessions after reset = %d, want 1", len(sessions))
	}
}

func TestStartPopulatesPreviousWeights(t *testing.T) {
	store := openTestStore(t)
	seedRoutine(t, store)
	ctx := context.Background()

	first := startTestSession(t, store, 1)
	for i, w := range []string{"40", "42.5", "45"} {
		if err := first.UpdateSetWeight(ctx, "d1-e1", i, w); err != nil {
			t.Fatal(err)
		}
	}
	if _, err := first.FinalizeGroup(ctx); err != nil {
		t.Fatal(err)
	}

	s := startTestSession(t, store, 1)
	got := s.Day().FindExercise("d1-e1").PreviousWeights
	if len(got) != 3 || got[0] != "40" || got[1] != "42.5" || got[2] != "45" {
		t.Errorf("previous weights = %v", got)
	}
	if s.Day().FindExercise("d1-e2").PreviousWeights != nil {
		t.Error("exercise without weight history got previous weights")
	}
}

func TestPreviousWeightsPicksLatestSameDay(t *testing.T) {
	sessions := []models.WorkoutSession{
		{Day: 1, Date: "2026-08-20T10:00:00Z", Exercises: []models.SessionExercise{
			{ExerciseID: "d1-e1", Weight: "35,35,35", Completed: true},
		}},
		{Day: 2, Date: "2026-08-29T10:00:00Z", Exercises: []models.SessionExercise{
			{ExerciseID: "d1-e1", Weight: "99", Completed: true},
		}},
		{Day: 1, Date: "2026-08-27T10:00:00Z", Exercises: []models.SessionExercise{
			{ExerciseID: "d1-e1", Weight: "40, 42.5, 45", Completed: true},
		}},
	}

	got := PreviousWeights(sessions, 1, "d1-e1")
	if len(got) != 3 || got[0] != "40" || got[1] != "42.5" || got[2] != "45" {
		t.Errorf("PreviousWeights = %v, want latest day-1 record split and trimmed", got)
	}
	if PreviousWeights(sessions, 1, "d1-e9") != nil {
		t.Error("unknown exercise should have no previous weights")
	}
	if PreviousWeights(nil, 1, "d1-e1") != nil {
		t.Error("empty history should have no previous weights")
	}
}

func TestPreviousWeightsOnlyConsultLatestSession(t *testing.T) {
	// Only the most recent day-1 session counts. It carries no weight for
	// the exercise, so the older weighted record must not surface.
	sessions := []models.WorkoutSession{
		{Day: 1, Date: "2026-08-20T10:00:00Z", Exercises: []models.SessionExercise{
			{ExerciseID: "d1-e1", Weight: "35,35,35", Completed: true},
		}},
		{Day: 1, Date: "2026-08-27T10:00:00Z", Exercises: []models.SessionExercise{
			{ExerciseID: "d1-e1", Completed: true},
		}},
	}

	if got := PreviousWeights(sessions, 1, "d1-e1"); got != nil {
		t.Errorf("PreviousWeights = %v, want nil when the latest record has no weight", got)
	}
}
