package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/claude/rutina/internal/models"
	"github.com/google/uuid"
)

// ErrBadSnapshot is returned by ImportSnapshot for blobs that cannot be
// decoded or carry an unsupported version. The store is left untouched.
var ErrBadSnapshot = errors.New("invalid snapshot")

// SnapshotVersion tags exported snapshots so future format changes stay
// detectable at import time.
const SnapshotVersion = 1

// Store is the persistence surface consumed by the workout engine and the
// HTTP/MCP layers. GetRoutine returns (nil, nil) when no routine has been
// imported yet; callers treat that as a normal initial state, not an error.
// The session log is append-only; rest days are a set of "2006-01-02" keys.
type Store interface {
	GetRoutine(ctx context.Context) (*models.Routine, error)
	PutRoutine(ctx context.Context, r *models.Routine) error

	AppendSession(ctx context.Context, s models.WorkoutSession) error
	ListSessions(ctx context.Context) ([]models.WorkoutSession, error)

	ListRestDays(ctx context.Context) ([]string, error)
	AddRestDay(ctx context.Context, date string) error
	RemoveRestDay(ctx context.Context, date string) error

	// EraseAll clears routine, sessions, and rest days together.
	EraseAll(ctx context.Context) error

	// ExportSnapshot bundles the whole store state into one versioned blob;
	// ImportSnapshot replaces the whole state from such a blob, or fails
	// with ErrBadSnapshot leaving the existing state intact.
	ExportSnapshot(ctx context.Context) ([]byte, error)
	ImportSnapshot(ctx context.Context, blob []byte) error

	Close() error
}

// Snapshot is the whole-state export format.
type Snapshot struct {
	Version    int                     `json:"version"`
	ID         string                  `json:"id"`
	ExportedAt string                  `json:"exported_at"`
	Routine    *models.Routine         `json:"routine"`
	Sessions   []models.WorkoutSession `json:"sessions"`
	RestDays   []string                `json:"rest_days"`
}

// encodeSnapshot builds the export blob from store contents.
func encodeSnapshot(routine *models.Routine, sessions []models.WorkoutSession, restDays []string) ([]byte, error) {
	snap := Snapshot{
		Version:    SnapshotVersion,
		ID:         uuid.NewString(),
		ExportedAt: time.Now().Format(time.RFC3339),
		Routine:    routine,
		Sessions:   sessions,
		RestDays:   restDays,
	}
	data, err := json.Marshal(snap)
	if err != nil {
		return nil, fmt.Errorf("encoding snapshot: %w", err)
	}
	return data, nil
}

// decodeSnapshot validates and decodes an import blob. All failures map to
// ErrBadSnapshot so callers can surface them as a single user-visible
// condition.
func decodeSnapshot(blob []byte) (*Snapshot, error) {
	var snap Snapshot
	if err := json.Unmarshal(blob, &snap); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadSnapshot, err)
	}
	if snap.Version != SnapshotVersion {
		return nil, fmt.Errorf("%w: unsupported version %d", ErrBadSnapshot, snap.Version)
	}
	return &snap, nil
}
