package workout

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/claude/rutina/internal/models"
	"github.com/claude/rutina/internal/storage"
)

var (
	// ErrNoRoutine means no routine has been imported yet.
	ErrNoRoutine = errors.New("no routine loaded")
	// ErrDayNotFound means the requested day is not part of the routine.
	ErrDayNotFound = errors.New("day not found in routine")
)

// Session drives one day's workout: per-set completion and weights, the
// group pointer, and the finalize transition that records history. Every
// mutation persists the whole routine blob before returning; there is no
// partial-field write.
//
// Operations referencing an unknown exercise or set index are silent no-ops
// with no persisted mutation. Callers draw references from the session's own
// state, so a miss means a stale caller, not a corrupt store.
type Session struct {
	store storage.Store
	log   *slog.Logger
	now   func() time.Time

	dayNum  int
	routine *models.Routine
	current int
	dayDone bool
}

// Progress summarizes day completion at exercise and set granularity.
type Progress struct {
	CompletedExercises int `json:"completed_exercises"`
	TotalExercises     int `json:"total_exercises"`
	CompletedSets      int `json:"completed_sets"`
	TotalSets          int `json:"total_sets"`
}

// Start loads the routine, populates previous-weight recall from history,
// and positions the group pointer at the first group with unfinished work.
func Start(ctx context.Context, store storage.Store, log *slog.Logger, day int) (*Session, error) {
	routine, err := store.GetRoutine(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading routine: %w", err)
	}
	if routine == nil {
		return nil, ErrNoRoutine
	}
	d := routine.FindDay(day)
	if d == nil {
		return nil, fmt.Errorf("%w: day %d", ErrDayNotFound, day)
	}

	sessions, err := store.ListSessions(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading history: %w", err)
	}
	for i := range d.Exercises {
		d.Exercises[i].PreviousWeights = PreviousWeights(sessions, day, d.Exercises[i].ID)
	}

	s := &Session{
		store:   store,
		log:     log,
		now:     time.Now,
		dayNum:  day,
		routine: routine,
	}
	for i, g := range s.Groups() {
		if !groupCompleted(g) {
			s.current = i
			break
		}
	}
	return s, nil
}

// SetClock replaces the time source used to date session records.
func (s *Session) SetClock(now func() time.Time) {
	s.now = now
}

func groupCompleted(group []models.Exercise) bool {
	for _, ex := range group {
		if !ex.Completed {
			return false
		}
	}
	return true
}

func (s *Session) day() *models.Day {
	return s.routine.FindDay(s.dayNum)
}

// Day returns the session's day with current completion state.
func (s *Session) Day() *models.Day { return s.day() }

// Groups re-derives the performance groups from the current exercise list.
func (s *Session) Groups() [][]models.Exercise {
	return GroupExercises(s.day().Exercises)
}

// CurrentGroupIndex returns the 0-based group pointer.
func (s *Session) CurrentGroupIndex() int { return s.current }

// CurrentGroup returns the exercises of the group under the pointer.
func (s *Session) CurrentGroup() []models.Exercise {
	groups := s.Groups()
	if s.current < 0 || s.current >= len(groups) {
		return nil
	}
	return groups[s.current]
}

// DayComplete reports whether the last group has been finalized.
func (s *Session) DayComplete() bool { return s.dayDone }

// Progress counts completed exercises and sets for the day.
func (s *Session) Progress() Progress {
	var p Progress
	for _, ex := range s.day().Exercises {
		p.TotalExercises++
		if ex.Completed {
			p.CompletedExercises++
		}
		p.TotalSets += len(ex.Sets)
		for _, set := range ex.Sets {
			if set.Completed {
				p.CompletedSets++
			}
		}
	}
	return p
}

// ToggleSet flips one set's completion flag and re-derives the owning
// exercise's completion as the conjunction of its sets.
func (s *Session) ToggleSet(ctx context.Context, exerciseID string, setIndex int) error {
	ex := s.day().FindExercise(exerciseID)
	if ex == nil || setIndex < 0 || setIndex >= len(ex.Sets) {
		return nil
	}
	ex.Sets[setIndex].Completed = !ex.Sets[setIndex].Completed
	ex.Completed = ex.AllSetsCompleted()
	return s.persist(ctx)
}

// UpdateSetWeight stores a sanitized weight on one set. Weights never affect
// completion state.
func (s *Session) UpdateSetWeight(ctx context.Context, exerciseID string, setIndex int, weight string) error {
	ex := s.day().FindExercise(exerciseID)
	if ex == nil || setIndex < 0 || setIndex >= len(ex.Sets) {
		return nil
	}
	ex.Sets[setIndex].Weight = SanitizeWeight(weight)
	return s.persist(ctx)
}

// UpdateNotes replaces an exercise's free-text notes.
func (s *Session) UpdateNotes(ctx context.Context, exerciseID, notes string) error {
	ex := s.day().FindExercise(exerciseID)
	if ex == nil {
		return nil
	}
	ex.Notes = notes
	return s.persist(ctx)
}

// FinalizeGroup force-completes every exercise and set in the current group,
// persists the routine, and appends a session record summarizing the day's
// completed exercises so far. A record is written on every finalize, not
// just the last: abandoning a workout mid-way still leaves partial history.
// Returns true when this finalize completed the day.
func (s *Session) FinalizeGroup(ctx context.Context) (bool, error) {
	groups := s.Groups()
	if s.current < 0 || s.current >= len(groups) {
		return s.dayDone, nil
	}

	for _, member := range groups[s.current] {
		ex := s.day().FindExercise(member.ID)
		if ex == nil {
			continue
		}
		ex.Completed = true
		for i := range ex.Sets {
			ex.Sets[i].Completed = true
		}
	}

	if err := s.persist(ctx); err != nil {
		return false, err
	}
	if err := s.recordSession(ctx); err != nil {
		return false, err
	}

	if s.current < len(groups)-1 {
		s.current++
		return false, nil
	}
	s.dayDone = true
	return true, nil
}

// PreviousGroup steps the pointer back one group. No-op at the first group.
func (s *Session) PreviousGroup() {
	if s.current > 0 {
		s.current--
	}
}

// ResetDay clears completion, weights, and notes for every exercise of the
// day and rewinds the group pointer.
func (s *Session) ResetDay(ctx context.Context) error {
	for i := range s.day().Exercises {
		ex := &s.day().Exercises[i]
		ex.Completed = false
		ex.Weight = ""
		ex.Notes = ""
		for j := range ex.Sets {
			ex.Sets[j].Completed = false
			ex.Sets[j].Weight = ""
		}
	}
	if err := s.persist(ctx); err != nil {
		return err
	}
	s.current = 0
	s.dayDone = false
	return nil
}

func (s *Session) persist(ctx context.Context) error {
	if err := s.store.PutRoutine(ctx, s.routine); err != nil {
		return fmt.Errorf("persisting routine: %w", err)
	}
	return nil
}

// recordSession appends a history record of the day's completed exercises.
// Nothing is written when no exercise is complete yet.
func (s *Session) recordSession(ctx context.Context) error {
	var entries []models.SessionExercise
	for _, ex := range s.day().Exercises {
		if !ex.Completed {
			continue
		}
		entries = append(entries, models.SessionExercise{
			ExerciseID: ex.ID,
			Weight:     joinSetWeights(ex),
			Notes:      ex.Notes,
			Completed:  true,
		})
	}
	if len(entries) == 0 {
		return nil
	}
	sess := models.WorkoutSession{
		Day:       s.dayNum,
		Date:      s.now().Format(time.RFC3339),
		Exercises: entries,
	}
	if err := s.store.AppendSession(ctx, sess); err != nil {
		return fmt.Errorf("recording session: %w", err)
	}
	return nil
}

// joinSetWeights encodes per-set weights as a comma-joined string, the
// legacy storage form split back apart by PreviousWeights. Falls back to the
// exercise-level weight when no set carries one.
func joinSetWeights(ex models.Exercise) string {
	any := false
	parts := make([]string, len(ex.Sets))
	for i, set := range ex.Sets {
		parts[i] = set.Weight
		if set.Weight != "" {
			any = true
		}
	}
	if !any {
		return ex.Weight
	}
	return strings.Join(parts, ",")
}

// SanitizeWeight reduces raw weight input to the stored form: digits with at
// most one decimal point and at most two fractional digits. Everything else
// is dropped, including a trailing bare point.
func SanitizeWeight(raw string) string {
	var b strings.Builder
	dotSeen := false
	fracDigits := 0
	for _, c := range raw {
		switch {
		case c >= '0' && c <= '9':
			if dotSeen {
				if fracDigits >= 2 {
					continue
				}
				fracDigits++
			}
			b.WriteRune(c)
		case c == '.' && !dotSeen:
			dotSeen = true
			b.WriteRune(c)
		}
	}
	return strings.TrimSuffix(b.String(), ".")
}
