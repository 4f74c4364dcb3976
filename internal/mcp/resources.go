package mcp

import (
	"context"
	"encoding/json"
	"time"

	"github.com/claude/rutina/internal/models"
	"github.com/mark3labs/mcp-go/mcp"
)

func (h *handlers) routineResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	routine, err := h.store.GetRoutine(ctx)
	if err != nil {
		return nil, err
	}
	if routine == nil {
		routine = &models.Routine{}
	}

	data, err := json.Marshal(routine)
	if err != nil {
		return nil, err
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}

func (h *handlers) recentSessions(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	sessions, err := h.store.ListSessions(ctx)
	if err != nil {
		return nil, err
	}

	cutoff := time.Now().AddDate(0, 0, -28)
	recent := []models.WorkoutSession{}
	for _, sess := range sessions {
		if ts := sess.Time(); !ts.IsZero() && !ts.Before(cutoff) {
			recent = append(recent, sess)
		}
	}

	data, err := json.Marshal(recent)
	if err != nil {
		return nil, err
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
