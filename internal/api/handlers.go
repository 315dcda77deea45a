// ABOUTME: HTTP handlers for goals, events, assessment, plan and reports.
// ABOUTME: Handlers parse input at the boundary and delegate to storage, energy and report.
package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/harperreed/energy/internal/energy"
	"github.com/harperreed/energy/internal/logger"
	"github.com/harperreed/energy/internal/models"
	"github.com/harperreed/energy/internal/report"
	"github.com/harperreed/energy/internal/storage"
)

// Handler implements the API handlers
type Handler struct {
	repo    storage.Repository
	engine  *energy.Engine
	reports *report.Reporter
	log     *logger.Logger
	now     func() time.Time
}

// NewHandler creates a Handler backed by repo.
func NewHandler(repo storage.Repository, log *logger.Logger) *Handler {
	return &Handler{
		repo:    repo,
		engine:  energy.New(repo),
		reports: report.New(repo),
		log:     logger.OrNop(log),
		now:     time.Now,
	}
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.log.Error("failed to encode response", "error", err)
	}
}

func decodeBody(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}
	return nil
}

// dayParam reads a day query parameter, falling back to def when absent.
func (h *Handler) dayParam(r *http.Request, name, def string) (time.Time, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		v = def
	}
	return models.ParseDay(v, h.now())
}

func intParam(r *http.Request, name string) (int, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%s must be a non-negative integer", name)
	}
	return n, nil
}

// Health handles GET /healthz
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Goals

type goalRequest struct {
	Name       *string `json:"name"`
	Priority   *int    `json:"priority"`
	EnergyCost *int    `json:"energy_cost"`
}

func (g goalRequest) update() (models.GoalUpdate, error) {
	var u models.GoalUpdate
	if g.Name != nil {
		name := strings.TrimSpace(*g.Name)
		if name == "" {
			return u, fmt.Errorf("name must not be empty")
		}
		u.Name = &name
	}
	if g.Priority != nil {
		p := models.Priority(*g.Priority)
		if !p.Valid() {
			return u, fmt.Errorf("invalid priority %d: must be 1, 2 or 3", *g.Priority)
		}
		u.Priority = &p
	}
	u.EnergyCost = g.EnergyCost
	return u, nil
}

// ListGoals handles GET /api/goals
func (h *Handler) ListGoals(w http.ResponseWriter, r *http.Request) {
	archived := r.URL.Query().Get("archived") == "true"
	goals, err := h.repo.ListGoals(archived)
	if err != nil {
		h.storeError(w, r, err)
		return
	}
	if goals == nil {
		goals = []*models.Goal{}
	}
	h.writeJSON(w, http.StatusOK, goals)
}

// CreateGoal handles POST /api/goals
func (h *Handler) CreateGoal(w http.ResponseWriter, r *http.Request) {
	var req goalRequest
	if err := decodeBody(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if req.Name == nil {
		h.badRequest(w, r, fmt.Errorf("name is required"))
		return
	}
	u, err := req.update()
	if err != nil {
		h.badRequest(w, r, err)
		return
	}

	g := models.NewGoal("", models.PriorityMedium, 0)
	u.Apply(g)
	if err := h.repo.CreateGoal(g); err != nil {
		h.storeError(w, r, err)
		return
	}
	h.log.Debug("goal created", "id", g.ShortID(), "name", g.Name)
	h.writeJSON(w, http.StatusCreated, g)
}

// UpdateGoal handles PUT /api/goals/{id}
func (h *Handler) UpdateGoal(w http.ResponseWriter, r *http.Request) {
	var req goalRequest
	if err := decodeBody(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	u, err := req.update()
	if err != nil {
		h.badRequest(w, r, err)
		return
	}
	if u.Empty() {
		h.badRequest(w, r, fmt.Errorf("nothing to update"))
		return
	}

	g, err := h.repo.UpdateGoal(chi.URLParam(r, "id"), u)
	if err != nil {
		h.storeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, g)
}

// ArchiveGoal handles DELETE /api/goals/{id}. Goals are archived, never removed.
func (h *Handler) ArchiveGoal(w http.ResponseWriter, r *http.Request) {
	if err := h.repo.ArchiveGoal(chi.URLParam(r, "id")); err != nil {
		h.storeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Events

type eventRequest struct {
	Activity        string `json:"activity"`
	DurationMinutes int    `json:"duration_minutes"`
	KeyState        string `json:"key_state"`
	Physical        int    `json:"physical"`
	Mental          int    `json:"mental"`
	Emotional       int    `json:"emotional"`
	Goal            string `json:"goal,omitempty"`
	StartedAt       string `json:"started_at,omitempty"`
	Notes           string `json:"notes,omitempty"`
}

type eventResponse struct {
	Event    *models.Event   `json:"event"`
	Guidance energy.Guidance `json:"guidance"`
}

// ListEvents handles GET /api/events
func (h *Handler) ListEvents(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	var filter storage.EventFilter

	if v := q.Get("from"); v != "" {
		d, err := models.ParseDay(v, h.now())
		if err != nil {
			h.badRequest(w, r, err)
			return
		}
		filter.From = d
	}
	if v := q.Get("to"); v != "" {
		d, err := models.ParseDay(v, h.now())
		if err != nil {
			h.badRequest(w, r, err)
			return
		}
		filter.To = models.AddDays(d, 1)
	}
	if v := q.Get("key_state"); v != "" {
		state, err := models.ParseKeyState(v)
		if err != nil {
			h.badRequest(w, r, err)
			return
		}
		filter.KeyState = &state
	}
	limit, err := intParam(r, "limit")
	if err != nil {
		h.badRequest(w, r, err)
		return
	}
	filter.Limit = limit

	events, err := h.repo.ListEvents(filter)
	if err != nil {
		h.storeError(w, r, err)
		return
	}
	if events == nil {
		events = []*models.Event{}
	}
	h.writeJSON(w, http.StatusOK, events)
}

// CreateEvent handles POST /api/events and returns the post-event guidance.
func (h *Handler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	var req eventRequest
	if err := decodeBody(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	state, err := models.ParseKeyState(req.KeyState)
	if err != nil {
		h.badRequest(w, r, err)
		return
	}
	ev := models.NewEvent(req.Activity, req.DurationMinutes, state).
		WithScores(req.Physical, req.Mental, req.Emotional).
		WithNotes(req.Notes)
	if req.StartedAt != "" {
		t, err := models.ParseTimestamp(req.StartedAt)
		if err != nil {
			h.badRequest(w, r, err)
			return
		}
		ev.WithStartedAt(t)
	}
	if req.Goal != "" {
		g, err := storage.FindGoal(h.repo, req.Goal)
		if err != nil {
			h.storeError(w, r, err)
			return
		}
		ev.WithGoal(g.ID)
	}
	if err := ev.Validate(); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if err := h.repo.CreateEvent(ev); err != nil {
		h.storeError(w, r, err)
		return
	}

	guidance, err := h.engine.Guide.ForEvent(ev)
	if err != nil {
		h.storeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, eventResponse{Event: ev, Guidance: guidance})
}

// Engine and reports

type assessmentResponse struct {
	Assessment energy.Assessment `json:"assessment"`
	Budget     energy.Breakdown  `json:"budget"`
}

// Assessment handles GET /api/assessment?date=
func (h *Handler) Assessment(w http.ResponseWriter, r *http.Request) {
	day, err := h.dayParam(r, "date", "today")
	if err != nil {
		h.badRequest(w, r, err)
		return
	}
	a, err := h.engine.Assessor.Assess(day)
	if err != nil {
		h.storeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, assessmentResponse{Assessment: a, Budget: energy.BudgetBreakdown(a)})
}

// Plan handles GET /api/plan?date=. The date is the reference day and
// defaults to yesterday.
func (h *Handler) Plan(w http.ResponseWriter, r *http.Request) {
	ref, err := h.dayParam(r, "date", "yesterday")
	if err != nil {
		h.badRequest(w, r, err)
		return
	}
	plan, err := h.engine.Planner.Daily(ref)
	if err != nil {
		h.storeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, plan)
}

// Report handles GET /api/report
func (h *Handler) Report(w http.ResponseWriter, r *http.Request) {
	weekly, err := h.reports.Weekly(h.now())
	if err != nil {
		h.storeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, weekly)
}

// Trends handles GET /api/trends?days=
func (h *Handler) Trends(w http.ResponseWriter, r *http.Request) {
	days, err := intParam(r, "days")
	if err != nil {
		h.badRequest(w, r, err)
		return
	}
	rows, err := h.reports.Trend(h.now(), days)
	if err != nil {
		h.storeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, rows)
}

// Balance handles GET /api/stats/balance?days=
func (h *Handler) Balance(w http.ResponseWriter, r *http.Request) {
	days, err := intParam(r, "days")
	if err != nil {
		h.badRequest(w, r, err)
		return
	}
	b, err := h.reports.Balance(h.now(), days)
	if err != nil {
		h.storeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, b)
}
