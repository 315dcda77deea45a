// ABOUTME: chi router wiring for the energy HTTP API.
// ABOUTME: All JSON endpoints live under /api, with /healthz for liveness.
package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// NewRouter creates a new router with all routes configured
func NewRouter(h *Handler) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(LoggingMiddleware(h.log))
	r.Use(middleware.Recoverer)

	r.Get("/healthz", h.Health)

	r.Route("/api", func(r chi.Router) {
		r.Get("/goals", h.ListGoals)
		r.Post("/goals", h.CreateGoal)
		r.Put("/goals/{id}", h.UpdateGoal)
		r.Delete("/goals/{id}", h.ArchiveGoal)

		r.Get("/events", h.ListEvents)
		r.Post("/events", h.CreateEvent)

		r.Get("/assessment", h.Assessment)
		r.Get("/plan", h.Plan)
		r.Get("/report", h.Report)
		r.Get("/trends", h.Trends)
		r.Get("/stats/balance", h.Balance)
	})

	return r
}
