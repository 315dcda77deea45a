// ABOUTME: MCP resource implementations for the energy tracker.
// ABOUTME: Provides energy://today, energy://report/weekly and energy://goals resources.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/harperreed/energy/internal/energy"
	"github.com/harperreed/energy/internal/models"
	"github.com/harperreed/energy/internal/storage"
)

const (
	uriToday  = "energy://today"
	uriWeekly = "energy://report/weekly"
	uriGoals  = "energy://goals"
)

func (s *Server) registerResources() {
	// energy://today - readiness, budget and everything logged today
	s.srv.AddResource(&mcp.Resource{
		URI:         uriToday,
		Name:        "Today's Energy",
		Description: "Today's assessment, energy budget, metrics and events",
		MIMEType:    "application/json",
	}, s.handleTodayResource)

	s.srv.AddResource(&mcp.Resource{
		URI:         uriWeekly,
		Name:        "Weekly Energy Report",
		Description: "Time per priority, key-state mix, insights and health stats for the last 7 days",
		MIMEType:    "application/json",
	}, s.handleWeeklyResource)

	s.srv.AddResource(&mcp.Resource{
		URI:         uriGoals,
		Name:        "Active Goals",
		Description: "Active goals ordered by priority",
		MIMEType:    "application/json",
	}, s.handleGoalsResource)
}

// Resource handlers

func (s *Server) handleTodayResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	today := models.StartOfDay(s.now())
	tomorrow := models.AddDays(today, 1)

	a, err := s.engine.Assessor.Assess(today)
	if err != nil {
		return nil, fmt.Errorf("failed to assess: %w", err)
	}

	metrics, err := s.repo.ListMetrics(storage.MetricFilter{From: today, To: tomorrow})
	if err != nil {
		return nil, fmt.Errorf("failed to list metrics: %w", err)
	}

	events, err := s.repo.ListEvents(storage.EventFilter{From: today, To: tomorrow})
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}

	return jsonResource(uriToday, map[string]any{
		"date":       models.DayKey(today),
		"assessment": a,
		"budget":     energy.BudgetBreakdown(a),
		"metrics":    metrics,
		"events":     events,
	})
}

func (s *Server) handleWeeklyResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	w, err := s.reports.Weekly(s.now())
	if err != nil {
		return nil, fmt.Errorf("failed to build weekly report: %w", err)
	}
	return jsonResource(uriWeekly, w)
}

func (s *Server) handleGoalsResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	goals, err := s.repo.ActiveGoals()
	if err != nil {
		return nil, fmt.Errorf("failed to list goals: %w", err)
	}
	return jsonResource(uriGoals, map[string]any{"goals": goals})
}

func jsonResource(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal result: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}
