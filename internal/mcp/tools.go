// ABOUTME: MCP tool implementations for the energy tracker.
// ABOUTME: Exposes assessment, planning, recommendations and metric/goal/event CRUD.
package mcp

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/harperreed/energy/internal/energy"
	"github.com/harperreed/energy/internal/models"
	"github.com/harperreed/energy/internal/storage"
)

func (s *Server) registerTools() {
	mcp.AddTool(s.srv, &mcp.Tool{
		Name:        "get_assessment",
		Description: "Assess readiness (Ready, Fatigued, Stressed, No Data) and the energy budget for a day",
	}, s.handleGetAssessment)

	mcp.AddTool(s.srv, &mcp.Tool{
		Name:        "get_plan",
		Description: "Build the daily plan: budget from a reference day's data, goals that fit it, and sleep/exercise advice",
	}, s.handleGetPlan)

	mcp.AddTool(s.srv, &mcp.Tool{
		Name:        "get_recommendations",
		Description: "Get sleep and exercise recommendations for a day",
	}, s.handleGetRecommendations)

	mcp.AddTool(s.srv, &mcp.Tool{
		Name:        "add_metric",
		Description: "Record a physiological metric sample (sleep_total_min, rhr_avg, stress_avg, ...)",
	}, s.handleAddMetric)

	mcp.AddTool(s.srv, &mcp.Tool{
		Name:        "list_metrics",
		Description: "List recent metric samples, optionally filtered by kind",
	}, s.handleListMetrics)

	mcp.AddTool(s.srv, &mcp.Tool{
		Name:        "delete_metric",
		Description: "Delete a metric sample by ID or ID prefix",
	}, s.handleDeleteMetric)

	mcp.AddTool(s.srv, &mcp.Tool{
		Name:        "add_goal",
		Description: "Create a goal with a priority (1-3) and a signed energy cost (negative consumes, positive restores)",
	}, s.handleAddGoal)

	mcp.AddTool(s.srv, &mcp.Tool{
		Name:        "list_goals",
		Description: "List goals ordered by priority then name",
	}, s.handleListGoals)

	mcp.AddTool(s.srv, &mcp.Tool{
		Name:        "update_goal",
		Description: "Change a goal's name, priority or energy cost",
	}, s.handleUpdateGoal)

	mcp.AddTool(s.srv, &mcp.Tool{
		Name:        "archive_goal",
		Description: "Archive a goal so it no longer enters plans",
	}, s.handleArchiveGoal)

	mcp.AddTool(s.srv, &mcp.Tool{
		Name:        "log_event",
		Description: "Log an activity with energy scores and a key state, and get guidance back",
	}, s.handleLogEvent)

	mcp.AddTool(s.srv, &mcp.Tool{
		Name:        "list_events",
		Description: "List logged events, most recent first",
	}, s.handleListEvents)

	mcp.AddTool(s.srv, &mcp.Tool{
		Name:        "get_weekly_report",
		Description: "Weekly report: time per priority, key-state mix, insights and health stats",
	}, s.handleWeeklyReport)

	mcp.AddTool(s.srv, &mcp.Tool{
		Name:        "get_trend",
		Description: "Daily trend of sleep, heart rate, stress and hours per key state",
	}, s.handleGetTrend)
}

// Tool input/output types

type dateInput struct {
	Date string `json:"date,omitempty" jsonschema:"Day as YYYY-MM-DD, today or yesterday. Defaults depend on the tool."`
}

type addMetricInput struct {
	Kind       string  `json:"kind" jsonschema:"Metric kind, e.g. sleep_total_min, sleep_score, rhr_avg, stress_avg, workout_train_load"`
	Value      float64 `json:"value" jsonschema:"The metric value"`
	RecordedAt string  `json:"recorded_at,omitempty" jsonschema:"Timestamp (RFC3339 or YYYY-MM-DD HH:MM), defaults to now"`
}

type metricOutput struct {
	ID      string  `json:"id"`
	Kind    string  `json:"kind"`
	Value   float64 `json:"value"`
	Unit    string  `json:"unit"`
	Message string  `json:"message"`
}

type listMetricsInput struct {
	Kind  string `json:"kind,omitempty" jsonschema:"Filter by metric kind"`
	Limit int    `json:"limit,omitempty" jsonschema:"Max results (default 20)"`
}

type idInput struct {
	ID string `json:"id" jsonschema:"ID or ID prefix"`
}

type simpleOutput struct {
	Message string `json:"message"`
}

type addGoalInput struct {
	Name       string `json:"name" jsonschema:"Unique goal name"`
	Priority   int    `json:"priority,omitempty" jsonschema:"1 (high), 2 (medium) or 3 (low). Defaults to 2."`
	EnergyCost int    `json:"energy_cost" jsonschema:"Signed cost: negative consumes budget, positive restores it"`
}

type goalOutput struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Priority   int    `json:"priority"`
	EnergyCost int    `json:"energy_cost"`
	Message    string `json:"message"`
}

type listGoalsInput struct {
	IncludeArchived bool `json:"include_archived,omitempty" jsonschema:"Include archived goals"`
}

type updateGoalInput struct {
	ID         string  `json:"id" jsonschema:"Goal ID, ID prefix or name"`
	Name       *string `json:"name,omitempty" jsonschema:"New name"`
	Priority   *int    `json:"priority,omitempty" jsonschema:"New priority 1-3"`
	EnergyCost *int    `json:"energy_cost,omitempty" jsonschema:"New signed energy cost"`
}

type logEventInput struct {
	Activity        string `json:"activity" jsonschema:"What you did"`
	DurationMinutes int    `json:"duration_minutes" jsonschema:"Duration in minutes"`
	KeyState        string `json:"key_state" jsonschema:"Consumption, Internal friction, Growth, Abundance or Routine"`
	Physical        int    `json:"physical" jsonschema:"Physical energy 1-10"`
	Mental          int    `json:"mental" jsonschema:"Mental energy 1-10"`
	Emotional       int    `json:"emotional" jsonschema:"Emotional energy 1-10"`
	Goal            string `json:"goal,omitempty" jsonschema:"Linked goal ID, ID prefix or name"`
	StartedAt       string `json:"started_at,omitempty" jsonschema:"Start time (RFC3339 or YYYY-MM-DD HH:MM), defaults to now"`
	Notes           string `json:"notes,omitempty" jsonschema:"Optional notes"`
}

type listEventsInput struct {
	From     string `json:"from,omitempty" jsonschema:"First day (YYYY-MM-DD)"`
	To       string `json:"to,omitempty" jsonschema:"Last day, inclusive (YYYY-MM-DD)"`
	KeyState string `json:"key_state,omitempty" jsonschema:"Filter by key state"`
	Limit    int    `json:"limit,omitempty" jsonschema:"Max results (default 20)"`
}

type trendInput struct {
	Days int `json:"days,omitempty" jsonschema:"Number of days (default 7)"`
}

// Tool handlers

func (s *Server) handleGetAssessment(ctx context.Context, req *mcp.CallToolRequest, input dateInput) (*mcp.CallToolResult, any, error) {
	day, err := models.ParseDay(input.Date, s.now())
	if err != nil {
		return nil, nil, err
	}
	a, err := s.engine.Assessor.Assess(day)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to assess: %w", err)
	}
	return nil, map[string]any{
		"assessment": a,
		"budget":     energy.BudgetBreakdown(a),
	}, nil
}

func (s *Server) handleGetPlan(ctx context.Context, req *mcp.CallToolRequest, input dateInput) (*mcp.CallToolResult, any, error) {
	if input.Date == "" {
		input.Date = "yesterday"
	}
	ref, err := models.ParseDay(input.Date, s.now())
	if err != nil {
		return nil, nil, err
	}
	plan, err := s.engine.Planner.Daily(ref)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to build plan: %w", err)
	}
	return nil, plan, nil
}

func (s *Server) handleGetRecommendations(ctx context.Context, req *mcp.CallToolRequest, input dateInput) (*mcp.CallToolResult, any, error) {
	day, err := models.ParseDay(input.Date, s.now())
	if err != nil {
		return nil, nil, err
	}
	sleep, err := s.engine.Recommender.Sleep(day)
	if err != nil {
		return nil, nil, err
	}
	exercise, err := s.engine.Recommender.Exercise(day)
	if err != nil {
		return nil, nil, err
	}
	return nil, map[string]any{
		"date":     models.DayKey(day),
		"sleep":    sleep,
		"exercise": exercise,
	}, nil
}

func (s *Server) handleAddMetric(ctx context.Context, req *mcp.CallToolRequest, input addMetricInput) (*mcp.CallToolResult, metricOutput, error) {
	kind, err := models.ParseMetricKind(input.Kind)
	if err != nil {
		return nil, metricOutput{}, err
	}

	m := models.NewMetricSample(kind, input.Value)
	if input.RecordedAt != "" {
		t, err := models.ParseTimestamp(input.RecordedAt)
		if err != nil {
			return nil, metricOutput{}, err
		}
		m.WithRecordedAt(t)
	}

	if err := s.repo.CreateMetric(m); err != nil {
		return nil, metricOutput{}, fmt.Errorf("failed to create metric: %w", err)
	}

	id := m.ID.String()[:8]
	return nil, metricOutput{
		ID:      id,
		Kind:    string(kind),
		Value:   m.Value,
		Unit:    m.Unit(),
		Message: fmt.Sprintf("Added %s: %.2f %s (ID: %s)", kind, m.Value, m.Unit(), id),
	}, nil
}

func (s *Server) handleListMetrics(ctx context.Context, req *mcp.CallToolRequest, input listMetricsInput) (*mcp.CallToolResult, any, error) {
	if input.Limit <= 0 {
		input.Limit = 20
	}

	filter := storage.MetricFilter{Limit: input.Limit}
	if input.Kind != "" {
		kind, err := models.ParseMetricKind(input.Kind)
		if err != nil {
			return nil, nil, err
		}
		filter.Kind = &kind
	}

	metrics, err := s.repo.ListMetrics(filter)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list metrics: %w", err)
	}
	if len(metrics) == 0 {
		return nil, map[string]any{"message": "No metrics found."}, nil
	}
	return nil, map[string]any{"metrics": metrics}, nil
}

func (s *Server) handleDeleteMetric(ctx context.Context, req *mcp.CallToolRequest, input idInput) (*mcp.CallToolResult, simpleOutput, error) {
	if err := s.repo.DeleteMetric(input.ID); err != nil {
		return nil, simpleOutput{}, fmt.Errorf("failed to delete metric: %w", err)
	}
	return nil, simpleOutput{Message: fmt.Sprintf("Deleted metric: %s", input.ID)}, nil
}

func (s *Server) handleAddGoal(ctx context.Context, req *mcp.CallToolRequest, input addGoalInput) (*mcp.CallToolResult, goalOutput, error) {
	p := models.PriorityMedium
	if input.Priority != 0 {
		p = models.Priority(input.Priority)
		if !p.Valid() {
			return nil, goalOutput{}, fmt.Errorf("invalid priority %d: must be 1, 2 or 3", input.Priority)
		}
	}

	g := models.NewGoal(input.Name, p, input.EnergyCost)
	if err := s.repo.CreateGoal(g); err != nil {
		return nil, goalOutput{}, fmt.Errorf("failed to create goal: %w", err)
	}
	return nil, toGoalOutput(g, fmt.Sprintf("Added goal %q (%s, cost %+d, ID: %s)", g.Name, g.Priority, g.EnergyCost, g.ShortID())), nil
}

func (s *Server) handleListGoals(ctx context.Context, req *mcp.CallToolRequest, input listGoalsInput) (*mcp.CallToolResult, any, error) {
	goals, err := s.repo.ListGoals(input.IncludeArchived)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list goals: %w", err)
	}
	if len(goals) == 0 {
		return nil, map[string]any{"message": "No goals found."}, nil
	}
	return nil, map[string]any{"goals": goals}, nil
}

func (s *Server) handleUpdateGoal(ctx context.Context, req *mcp.CallToolRequest, input updateGoalInput) (*mcp.CallToolResult, goalOutput, error) {
	g, err := storage.FindGoal(s.repo, input.ID)
	if err != nil {
		return nil, goalOutput{}, err
	}

	var upd models.GoalUpdate
	upd.Name = input.Name
	upd.EnergyCost = input.EnergyCost
	if input.Priority != nil {
		p := models.Priority(*input.Priority)
		if !p.Valid() {
			return nil, goalOutput{}, fmt.Errorf("invalid priority %d: must be 1, 2 or 3", *input.Priority)
		}
		upd.Priority = &p
	}
	if upd.Empty() {
		return nil, goalOutput{}, fmt.Errorf("nothing to update: pass name, priority or energy_cost")
	}

	updated, err := s.repo.UpdateGoal(g.ID.String(), upd)
	if err != nil {
		return nil, goalOutput{}, fmt.Errorf("failed to update goal: %w", err)
	}
	return nil, toGoalOutput(updated, fmt.Sprintf("Updated goal %q", updated.Name)), nil
}

func (s *Server) handleArchiveGoal(ctx context.Context, req *mcp.CallToolRequest, input idInput) (*mcp.CallToolResult, simpleOutput, error) {
	g, err := storage.FindGoal(s.repo, input.ID)
	if err != nil {
		return nil, simpleOutput{}, err
	}
	if err := s.repo.ArchiveGoal(g.ID.String()); err != nil {
		return nil, simpleOutput{}, fmt.Errorf("failed to archive goal: %w", err)
	}
	return nil, simpleOutput{Message: fmt.Sprintf("Archived goal: %s", g.Name)}, nil
}

func (s *Server) handleLogEvent(ctx context.Context, req *mcp.CallToolRequest, input logEventInput) (*mcp.CallToolResult, any, error) {
	state, err := models.ParseKeyState(input.KeyState)
	if err != nil {
		return nil, nil, err
	}

	ev := models.NewEvent(input.Activity, input.DurationMinutes, state).
		WithScores(input.Physical, input.Mental, input.Emotional).
		WithNotes(input.Notes)
	if input.StartedAt != "" {
		t, err := models.ParseTimestamp(input.StartedAt)
		if err != nil {
			return nil, nil, err
		}
		ev.WithStartedAt(t)
	}
	if input.Goal != "" {
		g, err := storage.FindGoal(s.repo, input.Goal)
		if err != nil {
			return nil, nil, err
		}
		ev.WithGoal(g.ID)
	}

	if err := s.repo.CreateEvent(ev); err != nil {
		return nil, nil, fmt.Errorf("failed to log event: %w", err)
	}

	guidance, err := s.engine.Guide.ForEvent(ev)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to build guidance: %w", err)
	}
	return nil, map[string]any{
		"id":       ev.ID.String()[:8],
		"message":  fmt.Sprintf("Logged %q (%d min, %s)", ev.Activity, ev.DurationMinutes, ev.KeyState),
		"guidance": guidance,
	}, nil
}

func (s *Server) handleListEvents(ctx context.Context, req *mcp.CallToolRequest, input listEventsInput) (*mcp.CallToolResult, any, error) {
	if input.Limit <= 0 {
		input.Limit = 20
	}
	filter := storage.EventFilter{Limit: input.Limit}
	if input.From != "" {
		d, err := models.ParseDay(input.From, s.now())
		if err != nil {
			return nil, nil, err
		}
		filter.From = d
	}
	if input.To != "" {
		d, err := models.ParseDay(input.To, s.now())
		if err != nil {
			return nil, nil, err
		}
		filter.To = models.AddDays(d, 1)
	}
	if input.KeyState != "" {
		state, err := models.ParseKeyState(input.KeyState)
		if err != nil {
			return nil, nil, err
		}
		filter.KeyState = &state
	}

	events, err := s.repo.ListEvents(filter)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list events: %w", err)
	}
	if len(events) == 0 {
		return nil, map[string]any{"message": "No events found."}, nil
	}
	return nil, map[string]any{"events": events}, nil
}

func (s *Server) handleWeeklyReport(ctx context.Context, req *mcp.CallToolRequest, input struct{}) (*mcp.CallToolResult, any, error) {
	w, err := s.reports.Weekly(s.now())
	if err != nil {
		return nil, nil, fmt.Errorf("failed to build weekly report: %w", err)
	}
	return nil, w, nil
}

func (s *Server) handleGetTrend(ctx context.Context, req *mcp.CallToolRequest, input trendInput) (*mcp.CallToolResult, any, error) {
	rows, err := s.reports.Trend(s.now(), input.Days)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to build trend: %w", err)
	}
	return nil, map[string]any{"days": rows}, nil
}

func toGoalOutput(g *models.Goal, msg string) goalOutput {
	return goalOutput{
		ID:         g.ShortID(),
		Name:       g.Name,
		Priority:   int(g.Priority),
		EnergyCost: g.EnergyCost,
		Message:    msg,
	}
}
