// ABOUTME: Repository interface for energy data storage.
// ABOUTME: Defines contract for metrics, goals and events plus sentinel errors.
package storage

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/harperreed/energy/internal/models"
)

var (
	// ErrNotFound is returned when no record matches an ID or prefix.
	ErrNotFound = errors.New("not found")
	// ErrAmbiguous is returned when an ID prefix matches more than one record.
	ErrAmbiguous = errors.New("ambiguous prefix")
	// ErrDuplicateName is returned when a goal name is already taken.
	ErrDuplicateName = errors.New("goal name already exists")
	// ErrDuplicateSample is returned when a sample of the same kind already
	// exists at the same instant, to the second.
	ErrDuplicateSample = errors.New("duplicate metric sample")
)

// MetricFilter narrows ListMetrics. Zero values mean "no constraint".
// From/To are a half-open day range [From, To).
type MetricFilter struct {
	Kind  *models.MetricKind
	From  time.Time
	To    time.Time
	Limit int
}

// EventFilter narrows ListEvents. Zero values mean "no constraint".
// From/To are a half-open day range [From, To).
type EventFilter struct {
	From     time.Time
	To       time.Time
	KeyState *models.KeyState
	GoalID   *uuid.UUID
	Limit    int
}

// Repository defines the storage interface for energy data.
type Repository interface {
	// Metric operations
	CreateMetric(m *models.MetricSample) error
	GetMetric(idOrPrefix string) (*models.MetricSample, error)
	ListMetrics(filter MetricFilter) ([]*models.MetricSample, error)
	DeleteMetric(idOrPrefix string) error

	// Metric aggregations over valid (value > 0) samples
	LatestOn(kind models.MetricKind, day time.Time) (models.Reading, error)
	Average(kind models.MetricKind, from, to time.Time) (models.Reading, error)
	Sum(kind models.MetricKind, from, to time.Time) (models.Reading, error)
	Count(kind models.MetricKind, from, to time.Time) (int, error)

	// Goal operations
	CreateGoal(g *models.Goal) error
	GetGoal(idOrPrefix string) (*models.Goal, error)
	ListGoals(includeArchived bool) ([]*models.Goal, error)
	ActiveGoals() ([]*models.Goal, error)
	UpdateGoal(idOrPrefix string, u models.GoalUpdate) (*models.Goal, error)
	ArchiveGoal(idOrPrefix string) error

	// Event operations
	CreateEvent(e *models.Event) error
	GetEvent(idOrPrefix string) (*models.Event, error)
	ListEvents(filter EventFilter) ([]*models.Event, error)
	DeleteEvent(idOrPrefix string) error

	// Export/Import
	GetAllData() (*ExportData, error)
	ImportData(data *ExportData) (*ImportSummary, error)

	// Lifecycle
	Close() error
}
