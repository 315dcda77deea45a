// ABOUTME: Copies every record from one energy backend into another.
// ABOUTME: Batching destinations get a single sync at the end instead of one per write.

package storage

import "fmt"

// MigrateSummary counts what MigrateData copied.
type MigrateSummary struct {
	Goals   int
	Metrics int
	Events  int
}

// Batcher is implemented by backends that push each write to a remote and
// can defer that push during bulk loads.
type Batcher interface {
	SetAutoSync(enabled bool)
	Sync() error
}

// MigrateData copies goals, then metric samples, then events from src into dst
// so event goal links resolve. It does not check that dst is empty.
func MigrateData(src, dst Repository) (*MigrateSummary, error) {
	if b, ok := dst.(Batcher); ok {
		b.SetAutoSync(false)
		defer b.SetAutoSync(true)
	}

	goals, err := src.ListGoals(true)
	if err != nil {
		return nil, fmt.Errorf("list source goals: %w", err)
	}
	metrics, err := src.ListMetrics(MetricFilter{})
	if err != nil {
		return nil, fmt.Errorf("list source metrics: %w", err)
	}
	events, err := src.ListEvents(EventFilter{})
	if err != nil {
		return nil, fmt.Errorf("list source events: %w", err)
	}

	var s MigrateSummary
	if s.Goals, err = copyEach(goals, dst.CreateGoal, "goal"); err != nil {
		return nil, err
	}
	if s.Metrics, err = copyEach(metrics, dst.CreateMetric, "metric"); err != nil {
		return nil, err
	}
	if s.Events, err = copyEach(events, dst.CreateEvent, "event"); err != nil {
		return nil, err
	}

	if b, ok := dst.(Batcher); ok {
		if err := b.Sync(); err != nil {
			return &s, fmt.Errorf("sync destination: %w", err)
		}
	}
	return &s, nil
}

func copyEach[T any](items []T, create func(T) error, kind string) (int, error) {
	for i, item := range items {
		if err := create(item); err != nil {
			return i, fmt.Errorf("copy %s %d of %d: %w", kind, i+1, len(items), err)
		}
	}
	return len(items), nil
}
