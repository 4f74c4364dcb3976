package mcp

import (
	"context"
	"time"

	"github.com/claude/rutina/internal/metrics"
	"github.com/claude/rutina/internal/workout"
	"github.com/mark3labs/mcp-go/mcp"
)

// --- Tool definitions ---

var toolGetRoutine = mcp.NewTool("get_routine",
	mcp.WithDescription("Retrieve the full training routine: days, focus labels, and exercises with their set/rep notation, derived sets, and timers."),
)

var toolGetDay = mcp.NewTool("get_day",
	mcp.WithDescription("Retrieve one routine day with current completion state and the exercise groups performed back-to-back."),
	mcp.WithNumber("day", mcp.Required(), mcp.Description("Routine day number (1-4)")),
)

var toolGetProgress = mcp.NewTool("get_progress",
	mcp.WithDescription("Get derived progress figures: training streak in days, current-week session count against the routine's day count, and the trailing 4-week session average."),
)

var toolRecommendNextDay = mcp.NewTool("recommend_next_day",
	mcp.WithDescription("Recommend which routine day to train next, based on which day numbers have been trained this calendar week."),
)

var toolListSessions = mcp.NewTool("list_sessions",
	mcp.WithDescription("List workout session records: date, day number, and completed exercises with weights and notes."),
	mcp.WithNumber("days", mcp.Description("Only include sessions from the last N days. Defaults to all sessions.")),
)

var toolMarkRestDay = mcp.NewTool("mark_rest_day",
	mcp.WithDescription("Mark a calendar date as an intentional rest day so it counts toward streak continuity."),
	mcp.WithString("date", mcp.Required(), mcp.Description("Date to mark (YYYY-MM-DD)")),
)

// --- Tool handlers ---

func (h *handlers) getRoutine(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	routine, err := h.store.GetRoutine(ctx)
	if err != nil {
		h.log.Error("mcp get_routine", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	if routine == nil {
		return mcp.NewToolResultError("no routine has been imported"), nil
	}

	result, err := mcp.NewToolResultJSON(routine)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getDay(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	day, err := req.RequireInt("day")
	if err != nil {
		return mcp.NewToolResultError("day parameter is required"), nil
	}

	routine, err := h.store.GetRoutine(ctx)
	if err != nil {
		h.log.Error("mcp get_day", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	if routine == nil {
		return mcp.NewToolResultError("no routine has been imported"), nil
	}
	d := routine.FindDay(day)
	if d == nil {
		return mcp.NewToolResultError("day not found in routine"), nil
	}

	groups := workout.GroupExercises(d.Exercises)
	groupIDs := make([][]string, 0, len(groups))
	for _, g := range groups {
		ids := make([]string, 0, len(g))
		for _, ex := range g {
			ids = append(ids, ex.ID)
		}
		groupIDs = append(groupIDs, ids)
	}

	result, err := mcp.NewToolResultJSON(map[string]any{
		"day":       d.Day,
		"focus":     d.Focus,
		"exercises": d.Exercises,
		"groups":    groupIDs,
	})
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getProgress(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessions, err := h.store.ListSessions(ctx)
	if err != nil {
		h.log.Error("mcp get_progress sessions", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	restDays, err := h.store.ListRestDays(ctx)
	if err != nil {
		h.log.Error("mcp get_progress rest days", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	routine, err := h.store.GetRoutine(ctx)
	if err != nil {
		h.log.Error("mcp get_progress routine", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	now := time.Now()
	result, err := mcp.NewToolResultJSON(map[string]any{
		"streak":        metrics.ComputeStreak(now, sessions, restDays),
		"weekProgress":  metrics.ComputeWeekProgress(now, sessions, routine),
		"weeklyAverage": metrics.WeeklyAverage(now, sessions),
	})
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) recommendNextDay(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessions, err := h.store.ListSessions(ctx)
	if err != nil {
		h.log.Error("mcp recommend_next_day", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	routine, err := h.store.GetRoutine(ctx)
	if err != nil {
		h.log.Error("mcp recommend_next_day routine", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	rec := metrics.RecommendNextDay(time.Now(), sessions, routine)
	if rec == nil {
		return mcp.NewToolResultError("no routine has been imported"), nil
	}

	result, err := mcp.NewToolResultJSON(rec)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) listSessions(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessions, err := h.store.ListSessions(ctx)
	if err != nil {
		h.log.Error("mcp list_sessions", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	if days := req.GetInt("days", 0); days > 0 {
		cutoff := time.Now().AddDate(0, 0, -days)
		kept := sessions[:0]
		for _, sess := range sessions {
			if ts := sess.Time(); !ts.IsZero() && !ts.Before(cutoff) {
				kept = append(kept, sess)
			}
		}
		sessions = kept
	}

	result, err := mcp.NewToolResultJSON(sessions)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) markRestDay(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	dateStr, err := req.RequireString("date")
	if err != nil {
		return mcp.NewToolResultError("date parameter is required"), nil
	}
	date, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		return mcp.NewToolResultError("date must be YYYY-MM-DD"), nil
	}

	if err := workout.MarkRest(ctx, h.store, date); err != nil {
		h.log.Error("mcp mark_rest_day", "error", err)
		return mcp.NewToolResultError("update failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(map[string]string{"status": "ok", "date": date.Format("2006-01-02")})
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}
