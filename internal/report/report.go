// ABOUTME: Derived views over stored data: weekly report, journal, trend and balance.
// ABOUTME: Views are plain structs; the CLI, MCP server and HTTP API render them.
package report

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/harperreed/energy/internal/energy"
	"github.com/harperreed/energy/internal/models"
	"github.com/harperreed/energy/internal/storage"
)

// Store is what the views read. storage.Repository satisfies it.
type Store interface {
	energy.Store
	ListGoals(includeArchived bool) ([]*models.Goal, error)
}

// Reporter builds the derived views.
type Reporter struct {
	store    Store
	assessor *energy.Assessor
}

// New creates a reporter over store.
func New(store Store) *Reporter {
	return &Reporter{store: store, assessor: energy.NewAssessor(store)}
}

// goalIndex maps goal IDs to goals, archived ones included.
func (r *Reporter) goalIndex() (map[uuid.UUID]*models.Goal, error) {
	goals, err := r.store.ListGoals(true)
	if err != nil {
		return nil, fmt.Errorf("list goals: %w", err)
	}
	idx := make(map[uuid.UUID]*models.Goal, len(goals))
	for _, g := range goals {
		idx[g.ID] = g
	}
	return idx, nil
}

func (r *Reporter) eventsIn(from, to time.Time) ([]*models.Event, error) {
	events, err := r.store.ListEvents(storage.EventFilter{From: from, To: to})
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	return events, nil
}

// StateShare is one key state's slice of a period.
type StateShare struct {
	KeyState models.KeyState `json:"key_state"`
	Count    int             `json:"count"`
	Minutes  int             `json:"minutes"`
	Percent  float64         `json:"percent"`
}

// shares tallies events per key state. Percent is by count when byCount is
// set, otherwise by minutes. States with no events are left out.
func shares(events []*models.Event, byCount bool) []StateShare {
	tally := make(map[models.KeyState]*StateShare)
	var total int
	for _, e := range events {
		s, ok := tally[e.KeyState]
		if !ok {
			s = &StateShare{KeyState: e.KeyState}
			tally[e.KeyState] = s
		}
		s.Count++
		s.Minutes += e.DurationMinutes
		if byCount {
			total++
		} else {
			total += e.DurationMinutes
		}
	}

	out := make([]StateShare, 0, len(tally))
	for _, k := range models.AllKeyStates {
		s, ok := tally[k]
		if !ok {
			continue
		}
		part := s.Minutes
		if byCount {
			part = s.Count
		}
		if total > 0 {
			s.Percent = float64(part) * 100 / float64(total)
		}
		out = append(out, *s)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if byCount {
			return out[i].Count > out[j].Count
		}
		return out[i].Minutes > out[j].Minutes
	})
	return out
}

// Balance is the time split across key states over the last days days.
type Balance struct {
	From   string       `json:"from"`
	To     string       `json:"to"`
	States []StateShare `json:"states"`
}

// Balance splits logged minutes by key state over [today-days+1, today].
func (r *Reporter) Balance(today time.Time, days int) (Balance, error) {
	if days <= 0 {
		days = 7
	}
	to := models.AddDays(today, 1)
	from := models.AddDays(today, 1-days)
	events, err := r.eventsIn(from, to)
	if err != nil {
		return Balance{}, err
	}
	return Balance{
		From:   models.DayKey(from),
		To:     models.DayKey(models.AddDays(to, -1)),
		States: shares(events, false),
	}, nil
}
