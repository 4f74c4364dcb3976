package workout

import (
	"context"
	"fmt"
	"time"

	"github.com/claude/rutina/internal/models"
	"github.com/claude/rutina/internal/storage"
)

// MarkTrained records a manual training mark for a calendar date: an empty
// session with no exercises. Used to backfill days trained away from the app.
// Already-trained dates are left alone so real session detail is never
// shadowed by a bare mark.
func MarkTrained(ctx context.Context, store storage.Store, date time.Time, day int) error {
	key := date.Format("2006-01-02")
	sessions, err := store.ListSessions(ctx)
	if err != nil {
		return fmt.Errorf("loading history: %w", err)
	}
	for _, sess := range sessions {
		if sess.DateKey() == key {
			return nil
		}
	}
	sess := models.WorkoutSession{
		Day:  day,
		Date: date.Format(time.RFC3339),
	}
	if err := store.AppendSession(ctx, sess); err != nil {
		return fmt.Errorf("marking trained: %w", err)
	}
	return nil
}

// MarkRest flags a calendar date as a deliberate rest day. Adding the same
// date twice is a no-op.
func MarkRest(ctx context.Context, store storage.Store, date time.Time) error {
	if err := store.AddRestDay(ctx, date.Format("2006-01-02")); err != nil {
		return fmt.Errorf("marking rest day: %w", err)
	}
	return nil
}

// UnmarkRest removes a rest-day flag. Absent dates are a no-op. Dates that
// already carry a session keep their flag: trained wins over rest, so the
// mark is inert there and removing it would only disturb streak continuity
// if the session is later erased.
func UnmarkRest(ctx context.Context, store storage.Store, date time.Time) error {
	key := date.Format("2006-01-02")
	sessions, err := store.ListSessions(ctx)
	if err != nil {
		return fmt.Errorf("loading history: %w", err)
	}
	for _, sess := range sessions {
		if sess.DateKey() == key {
			return nil
		}
	}
	if err := store.RemoveRestDay(ctx, key); err != nil {
		return fmt.Errorf("unmarking rest day: %w", err)
	}
	return nil
}
