// ABOUTME: In-memory Store used by the rule tests.
// ABOUTME: Reuses the storage aggregation helpers so semantics match the backends.
package energy

import (
	"time"

	"github.com/harperreed/energy/internal/models"
	"github.com/harperreed/energy/internal/storage"
)

type fakeStore struct {
	samples []*models.MetricSample
	goals   []*models.Goal
	events  []*models.Event
	err     error
}

var _ Store = (*fakeStore)(nil)

// refDay is the fixed reference day for rule tests.
var refDay = time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

func (f *fakeStore) add(kind models.MetricKind, value float64, daysAgo, hour int) {
	at := models.AddDays(refDay, -daysAgo).Add(time.Duration(hour) * time.Hour)
	f.samples = append(f.samples, models.NewMetricSample(kind, value).WithRecordedAt(at))
}

func (f *fakeStore) addGoal(name string, p models.Priority, cost int) *models.Goal {
	g := models.NewGoal(name, p, cost)
	f.goals = append(f.goals, g)
	return g
}

func (f *fakeStore) addEvent(e *models.Event) *models.Event {
	f.events = append(f.events, e)
	return e
}

func (f *fakeStore) LatestOn(kind models.MetricKind, day time.Time) (models.Reading, error) {
	if f.err != nil {
		return models.None(), f.err
	}
	return storage.LatestIn(f.samples, kind, day), nil
}

func (f *fakeStore) Average(kind models.MetricKind, from, to time.Time) (models.Reading, error) {
	if f.err != nil {
		return models.None(), f.err
	}
	return storage.AverageIn(f.samples, kind, from, to), nil
}

func (f *fakeStore) Sum(kind models.MetricKind, from, to time.Time) (models.Reading, error) {
	if f.err != nil {
		return models.None(), f.err
	}
	return storage.SumIn(f.samples, kind, from, to), nil
}

func (f *fakeStore) Count(kind models.MetricKind, from, to time.Time) (int, error) {
	if f.err != nil {
		return 0, f.err
	}
	return storage.CountIn(f.samples, kind, from, to), nil
}

func (f *fakeStore) ActiveGoals() ([]*models.Goal, error) {
	var out []*models.Goal
	for _, g := range f.goals {
		if g.Active {
			out = append(out, g)
		}
	}
	storage.SortGoals(out)
	return out, nil
}

func (f *fakeStore) GetGoal(idOrPrefix string) (*models.Goal, error) {
	ids := make([]string, len(f.goals))
	for i, g := range f.goals {
		ids[i] = g.ID.String()
	}
	id, err := storage.MatchPrefix(idOrPrefix, ids)
	if err != nil {
		return nil, err
	}
	for _, g := range f.goals {
		if g.ID.String() == id {
			return g, nil
		}
	}
	return nil, storage.ErrNotFound
}

func (f *fakeStore) ListEvents(filter storage.EventFilter) ([]*models.Event, error) {
	return storage.FilterEvents(f.events, filter), nil
}
