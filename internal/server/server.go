package server

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/claude/rutina/internal/storage"
	"github.com/claude/rutina/internal/workout"
	"github.com/go-chi/chi/v5"
)

// Server holds dependencies for HTTP handlers.
//
// Active workout sessions are cached per day behind a mutex. The app is
// single-user, so one lock over the whole session map is enough; any route
// that replaces stored data (import, snapshot restore, erase) drops the
// cache so the next request rebuilds from the store.
type Server struct {
	store  storage.Store
	log    *slog.Logger
	apiKey string
	router chi.Router
	now    func() time.Time

	mu       sync.Mutex
	sessions map[int]*workout.Session
}

// New creates a new Server with all routes configured.
func New(store storage.Store, apiKey string, log *slog.Logger) *Server {
	s := &Server{
		store:    store,
		log:      log,
		apiKey:   apiKey,
		router:   chi.NewRouter(),
		now:      time.Now,
		sessions: make(map[int]*workout.Session),
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	s.router.Use(RequestLogging(s.log))
	s.router.Use(CORS)

	// Read endpoints (no auth — tsnet handles access)
	s.router.Get("/api/v1/routine", s.handleGetRoutine)
	s.router.Get("/api/v1/routine/export.csv", s.handleExportRoutineCSV)
	s.router.Get("/api/v1/days/{day}", s.handleGetDay)
	s.router.Get("/api/v1/days/{day}/export", s.handleExportWorkoutJSON)
	s.router.Get("/api/v1/days/{day}/export.csv", s.handleExportWorkoutCSV)
	s.router.Get("/api/v1/days/{day}/export/message", s.handleExportWorkoutMessage)
	s.router.Get("/api/v1/sessions", s.handleListSessions)
	s.router.Get("/api/v1/stats", s.handleStats)
	s.router.Get("/api/v1/calendar", s.handleCalendar)
	s.router.Get("/api/v1/snapshot", s.handleExportSnapshot)

	// Mutation endpoints (API key required)
	s.router.Group(func(r chi.Router) {
		r.Use(APIKeyAuth(s.apiKey))

		r.Post("/api/v1/routine/import", s.handleImportRoutine)
		r.Put("/api/v1/routine/days/{day}/focus", s.handleUpdateFocus)
		r.Put("/api/v1/routine/days/{day}/exercises/{exerciseID}", s.handleUpdateExercise)

		r.Post("/api/v1/days/{day}/toggle-set", s.handleToggleSet)
		r.Post("/api/v1/days/{day}/set-weight", s.handleSetWeight)
		r.Post("/api/v1/days/{day}/notes", s.handleNotes)
		r.Post("/api/v1/days/{day}/finalize", s.handleFinalizeGroup)
		r.Post("/api/v1/days/{day}/previous", s.handlePreviousGroup)
		r.Post("/api/v1/days/{day}/reset", s.handleResetDay)

		r.Post("/api/v1/calendar/trained", s.handleMarkTrained)
		r.Post("/api/v1/calendar/rest/{date}", s.handleMarkRest)
		r.Delete("/api/v1/calendar/rest/{date}", s.handleUnmarkRest)

		r.Post("/api/v1/snapshot", s.handleImportSnapshot)
		r.Delete("/api/v1/data", s.handleEraseAll)
	})
}

// session returns the cached workout session for a day, starting one from
// the store on first use.
func (s *Server) session(ctx context.Context, day int) (*workout.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sess, ok := s.sessions[day]; ok {
		return sess, nil
	}
	sess, err := workout.Start(ctx, s.store, s.log, day)
	if err != nil {
		return nil, err
	}
	sess.SetClock(s.now)
	s.sessions[day] = sess
	return sess, nil
}

// invalidateSessions drops every cached session after a bulk state change.
func (s *Server) invalidateSessions() {
	s.mu.Lock()
	s.sessions = make(map[int]*workout.Session)
	s.mu.Unlock()
}
