package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/claude/rutina/internal/export"
	"github.com/claude/rutina/internal/ingest/routinecsv"
	"github.com/claude/rutina/internal/workout"
	"github.com/go-chi/chi/v5"
)

// handleImportRoutine parses a routine table from the request body and
// replaces the stored routine. The previous routine and any cached session
// state are discarded; the session log is kept.
func (s *Server) handleImportRoutine(w http.ResponseWriter, r *http.Request) {
	strict := r.URL.Query().Get("strict") == "true"

	routine, err := routinecsv.ParseWithOptions(r.Body, routinecsv.Options{Strict: strict})
	if err != nil {
		if errors.Is(err, routinecsv.ErrFormat) {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
		s.log.Error("routine import error", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	if err := s.store.PutRoutine(r.Context(), routine); err != nil {
		s.log.Error("routine store error", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	s.invalidateSessions()

	exercises := 0
	for _, d := range routine.Days {
		exercises += len(d.Exercises)
	}
	s.log.Info("routine imported", "routine_id", routine.RoutineID, "days", len(routine.Days), "exercises", exercises)
	writeJSON(w, http.StatusOK, routine)
}

func (s *Server) handleGetRoutine(w http.ResponseWriter, r *http.Request) {
	routine, err := s.store.GetRoutine(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if routine == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "no routine imported"})
		return
	}
	writeJSON(w, http.StatusOK, routine)
}

func (s *Server) handleExportRoutineCSV(w http.ResponseWriter, r *http.Request) {
	routine, err := s.store.GetRoutine(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if routine == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "no routine imported"})
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Write([]byte(export.RoutineCSV(routine)))
}

func (s *Server) handleUpdateFocus(w http.ResponseWriter, r *http.Request) {
	day, ok := dayParam(w, r)
	if !ok {
		return
	}
	var req struct {
		Focus string `json:"focus"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	if err := workout.UpdateDayFocus(r.Context(), s.store, day, req.Focus); err != nil {
		s.writeWorkoutError(w, err)
		return
	}
	s.invalidateSessions()
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleUpdateExercise renames an exercise and/or rewrites its notation.
// Empty fields are left unchanged.
func (s *Server) handleUpdateExercise(w http.ResponseWriter, r *http.Request) {
	day, ok := dayParam(w, r)
	if !ok {
		return
	}
	exerciseID := chi.URLParam(r, "exerciseID")
	var req struct {
		Name     string `json:"name"`
		SetsReps string `json:"sets_reps"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}

	if req.Name != "" {
		if err := workout.RenameExercise(r.Context(), s.store, day, exerciseID, req.Name); err != nil {
			s.writeWorkoutError(w, err)
			return
		}
	}
	if req.SetsReps != "" {
		if err := workout.UpdateExerciseNotation(r.Context(), s.store, day, exerciseID, req.SetsReps); err != nil {
			s.writeWorkoutError(w, err)
			return
		}
	}
	s.invalidateSessions()
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// dayView is the session payload the client renders one workout screen from.
type dayView struct {
	Day         int              `json:"day"`
	Focus       string           `json:"focus"`
	Groups      [][]exerciseRef  `json:"groups"`
	Current     int              `json:"currentGroupIndex"`
	DayComplete bool             `json:"dayComplete"`
	Progress    workout.Progress `json:"progress"`
}

type exerciseRef struct {
	ID string `json:"id"`
}

func (s *Server) handleGetDay(w http.ResponseWriter, r *http.Request) {
	day, ok := dayParam(w, r)
	if !ok {
		return
	}
	sess, err := s.session(r.Context(), day)
	if err != nil {
		s.writeWorkoutError(w, err)
		return
	}

	d := sess.Day()
	view := dayView{
		Day:         d.Day,
		Focus:       d.Focus,
		Current:     sess.CurrentGroupIndex(),
		DayComplete: sess.DayComplete(),
		Progress:    sess.Progress(),
	}
	for _, g := range sess.Groups() {
		refs := make([]exerciseRef, 0, len(g))
		for _, ex := range g {
			refs = append(refs, exerciseRef{ID: ex.ID})
		}
		view.Groups = append(view.Groups, refs)
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"session":   view,
		"exercises": d.Exercises,
	})
}

func (s *Server) handleToggleSet(w http.ResponseWriter, r *http.Request) {
	day, ok := dayParam(w, r)
	if !ok {
		return
	}
	var req struct {
		ExerciseID string `json:"exerciseId"`
		SetIndex   int    `json:"setIndex"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	sess, err := s.session(r.Context(), day)
	if err != nil {
		s.writeWorkoutError(w, err)
		return
	}
	if err := sess.ToggleSet(r.Context(), req.ExerciseID, req.SetIndex); err != nil {
		s.writeWorkoutError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"progress": sess.Progress()})
}

func (s *Server) handleSetWeight(w http.ResponseWriter, r *http.Request) {
	day, ok := dayParam(w, r)
	if !ok {
		return
	}
	var req struct {
		ExerciseID string `json:"exerciseId"`
		SetIndex   int    `json:"setIndex"`
		Weight     string `json:"weight"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	sess, err := s.session(r.Context(), day)
	if err != nil {
		s.writeWorkoutError(w, err)
		return
	}
	if err := sess.UpdateSetWeight(r.Context(), req.ExerciseID, req.SetIndex, req.Weight); err != nil {
		s.writeWorkoutError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleNotes(w http.ResponseWriter, r *http.Request) {
	day, ok := dayParam(w, r)
	if !ok {
		return
	}
	var req struct {
		ExerciseID string `json:"exerciseId"`
		Notes      string `json:"notes"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	sess, err := s.session(r.Context(), day)
	if err != nil {
		s.writeWorkoutError(w, err)
		return
	}
	if err := sess.UpdateNotes(r.Context(), req.ExerciseID, req.Notes); err != nil {
		s.writeWorkoutError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleFinalizeGroup(w http.ResponseWriter, r *http.Request) {
	day, ok := dayParam(w, r)
	if !ok {
		return
	}
	sess, err := s.session(r.Context(), day)
	if err != nil {
		s.writeWorkoutError(w, err)
		return
	}
	done, err := sess.FinalizeGroup(r.Context())
	if err != nil {
		s.writeWorkoutError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"dayComplete":       done,
		"currentGroupIndex": sess.CurrentGroupIndex(),
	})
}

func (s *Server) handlePreviousGroup(w http.ResponseWriter, r *http.Request) {
	day, ok := dayParam(w, r)
	if !ok {
		return
	}
	sess, err := s.session(r.Context(), day)
	if err != nil {
		s.writeWorkoutError(w, err)
		return
	}
	sess.PreviousGroup()
	writeJSON(w, http.StatusOK, map[string]any{"currentGroupIndex": sess.CurrentGroupIndex()})
}

func (s *Server) handleResetDay(w http.ResponseWriter, r *http.Request) {
	day, ok := dayParam(w, r)
	if !ok {
		return
	}
	sess, err := s.session(r.Context(), day)
	if err != nil {
		s.writeWorkoutError(w, err)
		return
	}
	if err := sess.ResetDay(r.Context()); err != nil {
		s.writeWorkoutError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) workoutExport(w http.ResponseWriter, r *http.Request) *export.WorkoutExport {
	day, ok := dayParam(w, r)
	if !ok {
		return nil
	}
	routine, err := s.store.GetRoutine(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return nil
	}
	e := export.NewWorkoutExport(routine, day, s.now())
	if e == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "day not found"})
		return nil
	}
	return e
}

func (s *Server) handleExportWorkoutJSON(w http.ResponseWriter, r *http.Request) {
	e := s.workoutExport(w, r)
	if e == nil {
		return
	}
	writeJSON(w, http.StatusOK, e)
}

func (s *Server) handleExportWorkoutCSV(w http.ResponseWriter, r *http.Request) {
	e := s.workoutExport(w, r)
	if e == nil {
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+e.Filename("csv")+`"`)
	w.Write([]byte(e.CSV()))
}

func (s *Server) handleExportWorkoutMessage(w http.ResponseWriter, r *http.Request) {
	e := s.workoutExport(w, r)
	if e == nil {
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte(e.Message()))
}

func (s *Server) writeWorkoutError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, workout.ErrNoRoutine), errors.Is(err, workout.ErrDayNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
	default:
		s.log.Error("workout error", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
}

func dayParam(w http.ResponseWriter, r *http.Request) (int, bool) {
	day, err := strconv.Atoi(chi.URLParam(r, "day"))
	if err != nil || day < 1 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid day"})
		return 0, false
	}
	return day, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
