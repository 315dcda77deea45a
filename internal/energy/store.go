// ABOUTME: Narrow read interfaces the energy engine needs from storage.
// ABOUTME: storage.Repository satisfies all of them; tests use an in-memory fake.
package energy

import (
	"time"

	"github.com/harperreed/energy/internal/models"
	"github.com/harperreed/energy/internal/storage"
)

// MetricReader answers day-range questions about metric samples.
// Ranges are half-open day ranges [from, to).
type MetricReader interface {
	LatestOn(kind models.MetricKind, day time.Time) (models.Reading, error)
	Average(kind models.MetricKind, from, to time.Time) (models.Reading, error)
	Sum(kind models.MetricKind, from, to time.Time) (models.Reading, error)
	Count(kind models.MetricKind, from, to time.Time) (int, error)
}

// GoalReader lists and fetches goals.
type GoalReader interface {
	ActiveGoals() ([]*models.Goal, error)
	GetGoal(idOrPrefix string) (*models.Goal, error)
}

// EventReader lists logged events, most recent first.
type EventReader interface {
	ListEvents(filter storage.EventFilter) ([]*models.Event, error)
}

// Store is everything the engine reads.
type Store interface {
	MetricReader
	GoalReader
	EventReader
}

// Engine bundles the rule components over one store.
type Engine struct {
	Assessor    *Assessor
	Recommender *Recommender
	Guide       *Guide
	Planner     *Planner
}

// New wires every engine component to s.
func New(s Store) *Engine {
	assessor := NewAssessor(s)
	recommender := NewRecommender(s, s)
	return &Engine{
		Assessor:    assessor,
		Recommender: recommender,
		Guide:       NewGuide(assessor, s, s),
		Planner:     NewPlanner(assessor, recommender, s),
	}
}
