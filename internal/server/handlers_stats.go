package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/claude/rutina/internal/metrics"
	"github.com/claude/rutina/internal/storage"
	"github.com/claude/rutina/internal/workout"
	"github.com/go-chi/chi/v5"
)

func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	sessions, err := s.store.ListSessions(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, sessions)
}

// handleStats reports the derived progress figures in one payload.
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sessions, err := s.store.ListSessions(ctx)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	restDays, err := s.store.ListRestDays(ctx)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	routine, err := s.store.GetRoutine(ctx)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	now := s.now()
	writeJSON(w, http.StatusOK, map[string]any{
		"streak":        metrics.ComputeStreak(now, sessions, restDays),
		"weekProgress":  metrics.ComputeWeekProgress(now, sessions, routine),
		"nextDay":       metrics.RecommendNextDay(now, sessions, routine),
		"weeklyAverage": metrics.WeeklyAverage(now, sessions),
	})
}

// handleCalendar lists trained dates and rest days for calendar rendering.
func (s *Server) handleCalendar(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sessions, err := s.store.ListSessions(ctx)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	restDays, err := s.store.ListRestDays(ctx)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	seen := make(map[string]bool)
	trained := []string{}
	for _, sess := range sessions {
		key := sess.DateKey()
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		trained = append(trained, key)
	}
	if restDays == nil {
		restDays = []string{}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"trained":  trained,
		"restDays": restDays,
	})
}

func (s *Server) handleMarkTrained(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Date string `json:"date"`
		Day  int    `json:"day"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "date must be YYYY-MM-DD"})
		return
	}
	if err := workout.MarkTrained(r.Context(), s.store, date, req.Day); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleMarkRest(w http.ResponseWriter, r *http.Request) {
	date, ok := dateParam(w, r)
	if !ok {
		return
	}
	if err := workout.MarkRest(r.Context(), s.store, date); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleUnmarkRest(w http.ResponseWriter, r *http.Request) {
	date, ok := dateParam(w, r)
	if !ok {
		return
	}
	if err := workout.UnmarkRest(r.Context(), s.store, date); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleExportSnapshot(w http.ResponseWriter, r *http.Request) {
	blob, err := s.store.ExportSnapshot(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", `attachment; filename="rutina-backup.json"`)
	w.Write(blob)
}

func (s *Server) handleImportSnapshot(w http.ResponseWriter, r *http.Request) {
	blob, err := io.ReadAll(r.Body)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	if err := s.store.ImportSnapshot(r.Context(), blob); err != nil {
		if errors.Is(err, storage.ErrBadSnapshot) {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
		s.log.Error("snapshot import error", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	s.invalidateSessions()
	s.log.Info("snapshot imported")
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleEraseAll(w http.ResponseWriter, r *http.Request) {
	if err := s.store.EraseAll(r.Context()); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	s.invalidateSessions()
	s.log.Info("all data erased")
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func dateParam(w http.ResponseWriter, r *http.Request) (time.Time, bool) {
	date, err := time.Parse("2006-01-02", chi.URLParam(r, "date"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "date must be YYYY-MM-DD"})
		return time.Time{}, false
	}
	return date, true
}
