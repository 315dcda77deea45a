// ABOUTME: In-memory filtering and aggregation over loaded records.
// ABOUTME: Backends without a query engine (the charm KV store) share these.
package storage

import (
	"sort"
	"strings"
	"time"

	"github.com/harperreed/energy/internal/models"
)

// inDayRange reports whether t's day falls in [from, to). Zero bounds are open.
func inDayRange(t, from, to time.Time) bool {
	day := models.DayKey(t)
	if !from.IsZero() && day < models.DayKey(from) {
		return false
	}
	if !to.IsZero() && day >= models.DayKey(to) {
		return false
	}
	return true
}

// FilterMetrics applies filter to samples and sorts the result most recent first.
func FilterMetrics(samples []*models.MetricSample, filter MetricFilter) []*models.MetricSample {
	var out []*models.MetricSample
	for _, m := range samples {
		if filter.Kind != nil && m.Kind != *filter.Kind {
			continue
		}
		if !inDayRange(m.RecordedAt, filter.From, filter.To) {
			continue
		}
		out = append(out, m)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].RecordedAt.After(out[j].RecordedAt)
	})
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out
}

// validInRange returns the valid samples of kind over [from, to).
func validInRange(samples []*models.MetricSample, kind models.MetricKind, from, to time.Time) []*models.MetricSample {
	var out []*models.MetricSample
	for _, m := range samples {
		if m.Kind == kind && m.Valid() && inDayRange(m.RecordedAt, from, to) {
			out = append(out, m)
		}
	}
	return out
}

// LatestIn returns the most recently recorded valid value of kind on day.
func LatestIn(samples []*models.MetricSample, kind models.MetricKind, day time.Time) models.Reading {
	var latest *models.MetricSample
	for _, m := range validInRange(samples, kind, day, models.AddDays(day, 1)) {
		if latest == nil || m.RecordedAt.After(latest.RecordedAt) {
			latest = m
		}
	}
	if latest == nil {
		return models.None()
	}
	return models.Some(latest.Value)
}

// AverageIn returns the mean of valid values of kind over [from, to).
func AverageIn(samples []*models.MetricSample, kind models.MetricKind, from, to time.Time) models.Reading {
	valid := validInRange(samples, kind, from, to)
	if len(valid) == 0 {
		return models.None()
	}
	var total float64
	for _, m := range valid {
		total += m.Value
	}
	return models.Some(total / float64(len(valid)))
}

// SumIn returns the total of valid values of kind over [from, to).
func SumIn(samples []*models.MetricSample, kind models.MetricKind, from, to time.Time) models.Reading {
	valid := validInRange(samples, kind, from, to)
	if len(valid) == 0 {
		return models.None()
	}
	var total float64
	for _, m := range valid {
		total += m.Value
	}
	return models.Some(total)
}

// CountIn returns the number of valid samples of kind over [from, to).
func CountIn(samples []*models.MetricSample, kind models.MetricKind, from, to time.Time) int {
	return len(validInRange(samples, kind, from, to))
}

// FilterEvents applies filter to events and sorts the result most recent first.
func FilterEvents(events []*models.Event, filter EventFilter) []*models.Event {
	var out []*models.Event
	for _, e := range events {
		if filter.KeyState != nil && e.KeyState != *filter.KeyState {
			continue
		}
		if filter.GoalID != nil && (e.GoalID == nil || *e.GoalID != *filter.GoalID) {
			continue
		}
		if !inDayRange(e.StartedAt, filter.From, filter.To) {
			continue
		}
		out = append(out, e)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].StartedAt.After(out[j].StartedAt)
	})
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out
}

// SortGoals orders goals by (priority asc, name asc), matching the SQLite query.
func SortGoals(goals []*models.Goal) {
	sort.SliceStable(goals, func(i, j int) bool {
		if goals[i].Priority != goals[j].Priority {
			return goals[i].Priority < goals[j].Priority
		}
		return goals[i].Name < goals[j].Name
	})
}

// MatchPrefix picks the single ID in ids that starts with prefix.
func MatchPrefix(prefix string, ids []string) (string, error) {
	var matches []string
	for _, id := range ids {
		if strings.HasPrefix(id, prefix) {
			matches = append(matches, id)
		}
	}
	return pickMatch(prefix, matches)
}
