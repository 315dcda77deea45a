// ABOUTME: Weekly report: time per priority tier, key-state mix, insights, health stats.
// ABOUTME: Covers the seven calendar days ending on the given day.
package report

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/harperreed/energy/internal/energy"
	"github.com/harperreed/energy/internal/models"
)

// WeekDays is the length of the weekly window.
const WeekDays = 7

const insightLimit = 3

// PriorityTime is the time spent on one priority tier.
type PriorityTime struct {
	Label   string  `json:"label"`
	Minutes int     `json:"minutes"`
	Hours   float64 `json:"hours"`
}

// ActivityStat ranks one activity in an insight list.
type ActivityStat struct {
	Activity string  `json:"activity"`
	Value    float64 `json:"value"`
}

// Insights are the top activities per interesting key state.
type Insights struct {
	// Friction ranks by total minutes.
	Friction []ActivityStat `json:"friction"`
	// Abundance ranks by number of events.
	Abundance []ActivityStat `json:"abundance"`
	// Consumption ranks by average minutes per event.
	Consumption []ActivityStat `json:"consumption"`
}

// HealthStat is one metric summarized over the week.
type HealthStat struct {
	Guide     energy.MetricGuide `json:"guide"`
	Value     *float64           `json:"value"`
	Indicator energy.Indicator   `json:"indicator"`
	Reading   models.Reading     `json:"-"`
}

// Weekly is the full weekly report.
type Weekly struct {
	From       string         `json:"from"`
	To         string         `json:"to"`
	Priorities []PriorityTime `json:"priorities"`
	States     []StateShare   `json:"states"`
	Insights   Insights       `json:"insights"`
	Health     []HealthStat   `json:"health"`
	EventCount int            `json:"event_count"`
}

var tierLabels = []string{"P1-High Priority", "P2-Medium Priority", "P3-Low Priority", "Unassigned"}

// Weekly builds the report for the week ending today.
func (r *Reporter) Weekly(today time.Time) (Weekly, error) {
	to := models.AddDays(today, 1)
	from := models.AddDays(today, 1-WeekDays)

	events, err := r.eventsIn(from, to)
	if err != nil {
		return Weekly{}, err
	}
	goals, err := r.goalIndex()
	if err != nil {
		return Weekly{}, err
	}

	w := Weekly{
		From:       models.DayKey(from),
		To:         models.DayKey(today),
		Priorities: priorityTimes(events, goals),
		States:     shares(events, true),
		Insights:   insights(events),
		EventCount: len(events),
	}

	health, err := r.Health(from, to)
	if err != nil {
		return Weekly{}, err
	}
	w.Health = health
	return w, nil
}

// Health summarizes every displayed metric over [from, to) with its indicator.
func (r *Reporter) Health(from, to time.Time) ([]HealthStat, error) {
	out := make([]HealthStat, 0, len(energy.MetricGuides))
	for _, g := range energy.MetricGuides {
		var reading models.Reading
		var err error
		switch g.Agg {
		case energy.AggSum:
			reading, err = r.store.Sum(g.Kind, from, to)
		default:
			reading, err = r.store.Average(g.Kind, from, to)
		}
		if err != nil {
			return nil, fmt.Errorf("summarize %s: %w", g.Kind, err)
		}
		out = append(out, HealthStat{
			Guide:     g,
			Value:     reading.Ptr(),
			Indicator: energy.Indicate(reading, g.Thresholds, energy.DefaultBarLength),
			Reading:   reading,
		})
	}
	return out, nil
}

func priorityTimes(events []*models.Event, goals map[uuid.UUID]*models.Goal) []PriorityTime {
	minutes := make([]int, len(tierLabels))
	for _, e := range events {
		tier := len(tierLabels) - 1
		if e.GoalID != nil {
			if g, ok := goals[*e.GoalID]; ok && g.Priority.Valid() {
				tier = int(g.Priority) - 1
			}
		}
		minutes[tier] += e.DurationMinutes
	}

	var out []PriorityTime
	for i, label := range tierLabels {
		if minutes[i] == 0 {
			continue
		}
		out = append(out, PriorityTime{Label: label, Minutes: minutes[i], Hours: float64(minutes[i]) / 60})
	}
	return out
}

func insights(events []*models.Event) Insights {
	type agg struct {
		count, minutes int
	}
	byState := make(map[models.KeyState]map[string]*agg)
	for _, e := range events {
		acts, ok := byState[e.KeyState]
		if !ok {
			acts = make(map[string]*agg)
			byState[e.KeyState] = acts
		}
		a, ok := acts[e.Activity]
		if !ok {
			a = &agg{}
			acts[e.Activity] = a
		}
		a.count++
		a.minutes += e.DurationMinutes
	}

	rank := func(state models.KeyState, value func(*agg) float64) []ActivityStat {
		var out []ActivityStat
		for name, a := range byState[state] {
			out = append(out, ActivityStat{Activity: name, Value: value(a)})
		}
		sort.Slice(out, func(i, j int) bool {
			if out[i].Value != out[j].Value {
				return out[i].Value > out[j].Value
			}
			return out[i].Activity < out[j].Activity
		})
		if len(out) > insightLimit {
			out = out[:insightLimit]
		}
		return out
	}

	return Insights{
		Friction:    rank(models.KeyStateInternalFriction, func(a *agg) float64 { return float64(a.minutes) }),
		Abundance:   rank(models.KeyStateAbundance, func(a *agg) float64 { return float64(a.count) }),
		Consumption: rank(models.KeyStateConsumption, func(a *agg) float64 { return float64(a.minutes) / float64(a.count) }),
	}
}
