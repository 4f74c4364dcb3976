// Package mcp exposes the workout data to LLM assistants over the Model
// Context Protocol: read tools for the routine and progress figures, and a
// mutation tool for rest-day marks.
package mcp

import (
	"log/slog"

	"github.com/claude/rutina/internal/storage"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// New creates an MCP server with all tools and resources registered.
func New(store storage.Store, version string, log *slog.Logger) *server.MCPServer {
	s := server.NewMCPServer("Rutina", version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
		server.WithInstructions("Rutina workout tracker. Query the training routine, session history, streaks, and weekly progress, and mark rest days."),
	)

	h := &handlers{store: store, log: log}

	// Tools
	s.AddTools(
		server.ServerTool{Tool: toolGetRoutine, Handler: h.getRoutine},
		server.ServerTool{Tool: toolGetDay, Handler: h.getDay},
		server.ServerTool{Tool: toolGetProgress, Handler: h.getProgress},
		server.ServerTool{Tool: toolRecommendNextDay, Handler: h.recommendNextDay},
		server.ServerTool{Tool: toolListSessions, Handler: h.listSessions},
		server.ServerTool{Tool: toolMarkRestDay, Handler: h.markRestDay},
	)

	// Resources
	s.AddResources(
		server.ServerResource{Resource: resRoutine, Handler: h.routineResource},
		server.ServerResource{Resource: resRecentSessions, Handler: h.recentSessions},
	)

	return s
}

// handlers holds dependencies for MCP tool/resource handlers.
type handlers struct {
	store storage.Store
	log   *slog.Logger
}

// --- Resource definitions ---

var resRoutine = mcp.NewResource(
	"rutina://routine",
	"Training Routine",
	mcp.WithResourceDescription("The full imported routine: days, focus labels, exercises with sets and timers"),
	mcp.WithMIMEType("application/json"),
)

var resRecentSessions = mcp.NewResource(
	"rutina://recent_sessions",
	"Recent Sessions",
	mcp.WithResourceDescription("Workout session records from the last 28 days"),
	mcp.WithMIMEType("application/json"),
)
