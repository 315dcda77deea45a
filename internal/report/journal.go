// ABOUTME: Energy journal: per-day key metrics, logged events and budget accounting.
// ABOUTME: Days are listed newest first; events within a day oldest first.
package report

import (
	"fmt"
	"time"

	"github.com/harperreed/energy/internal/energy"
	"github.com/harperreed/energy/internal/models"
)

// DefaultJournalDays is used when no day count is given.
const DefaultJournalDays = 3

var journalKinds = []models.MetricKind{
	models.MetricSleepScore,
	models.MetricSleepTotalMin,
	models.MetricRHRAvg,
	models.MetricStressAvg,
	models.MetricStepsTotal,
}

// DayMetric is one key metric as shown in the journal.
type DayMetric struct {
	Kind  models.MetricKind `json:"kind"`
	Value *float64          `json:"value"`
	Band  energy.Band       `json:"band"`
}

// JournalEntry is a logged event with its goal context.
type JournalEntry struct {
	Event    *models.Event    `json:"event"`
	GoalName string           `json:"goal_name,omitempty"`
	Priority *models.Priority `json:"priority,omitempty"`
	Cost     int              `json:"cost"`
}

// JournalDay is one day of the journal.
type JournalDay struct {
	Date          string         `json:"date"`
	Metrics       []DayMetric    `json:"metrics"`
	Entries       []JournalEntry `json:"entries"`
	TotalMinutes  int            `json:"total_minutes"`
	InitialBudget int            `json:"initial_budget"`
	GoalCost      int            `json:"goal_cost"`
	Remaining     int            `json:"remaining"`
}

// Journal builds the last days days ending today.
func (r *Reporter) Journal(today time.Time, days int) ([]JournalDay, error) {
	if days <= 0 {
		days = DefaultJournalDays
	}
	goals, err := r.goalIndex()
	if err != nil {
		return nil, err
	}

	out := make([]JournalDay, 0, days)
	for i := 0; i < days; i++ {
		day := models.AddDays(today, -i)
		jd := JournalDay{Date: models.DayKey(day)}

		for _, kind := range journalKinds {
			reading, err := r.store.LatestOn(kind, day)
			if err != nil {
				return nil, fmt.Errorf("read %s: %w", kind, err)
			}
			dm := DayMetric{Kind: kind, Value: reading.Ptr()}
			if g, ok := energy.GuideFor(kind); ok {
				dm.Band = energy.Indicate(reading, g.Thresholds, 0).Band
			}
			jd.Metrics = append(jd.Metrics, dm)
		}

		events, err := r.eventsIn(day, models.AddDays(day, 1))
		if err != nil {
			return nil, err
		}
		for j := len(events) - 1; j >= 0; j-- {
			e := events[j]
			entry := JournalEntry{Event: e}
			if e.GoalID != nil {
				if g, ok := goals[*e.GoalID]; ok {
					p := g.Priority
					entry.GoalName = g.Name
					entry.Priority = &p
					entry.Cost = g.EnergyCost
				}
			}
			jd.Entries = append(jd.Entries, entry)
			jd.TotalMinutes += e.DurationMinutes
			jd.GoalCost += entry.Cost
		}

		a, err := r.assessor.Assess(day)
		if err != nil {
			return nil, err
		}
		jd.InitialBudget = energy.Budget(a)
		jd.Remaining = jd.InitialBudget + jd.GoalCost
		out = append(out, jd)
	}
	return out, nil
}
