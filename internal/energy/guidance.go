// ABOUTME: Post-event guidance chosen by the logged event's key state.
// ABOUTME: Friction events consult today's assessment and recent history.
package energy

import (
	"errors"
	"fmt"
	"time"

	"github.com/harperreed/energy/internal/models"
	"github.com/harperreed/energy/internal/storage"
)

const (
	lowScore          = 4
	microTaskMaxMins  = 30
	microTaskMinutes  = 15
	focusBlockMinutes = 25
)

// Guidance is the advice shown after logging an event.
type Guidance struct {
	KeyState models.KeyState `json:"key_state"`
	Rule     string          `json:"rule"`
	Headline string          `json:"headline"`
	Lines    []string        `json:"lines"`
	// Assessment is set when the friction branch found a depleted day.
	Assessment *Assessment `json:"assessment,omitempty"`
}

// Guide produces post-event guidance.
type Guide struct {
	assessor *Assessor
	goals    GoalReader
	events   EventReader
	now      func() time.Time
}

// NewGuide creates a guide. Friction events are assessed against today.
func NewGuide(assessor *Assessor, goals GoalReader, events EventReader) *Guide {
	return &Guide{assessor: assessor, goals: goals, events: events, now: time.Now}
}

// ForEvent returns guidance for a just-logged event.
func (g *Guide) ForEvent(ev *models.Event) (Guidance, error) {
	switch ev.KeyState {
	case models.KeyStateInternalFriction:
		return g.friction(ev)
	case models.KeyStateConsumption:
		return g.consumption()
	case models.KeyStateGrowth, models.KeyStateAbundance:
		return g.positive(ev)
	case models.KeyStateRoutine:
		return Guidance{
			KeyState: ev.KeyState,
			Rule:     "transition",
			Headline: "Routine logged.",
			Lines: []string{
				fmt.Sprintf("This is a good transition point. Consider a %d-minute focus block on one of your core goals.", focusBlockMinutes),
			},
		}, nil
	default:
		return Guidance{}, fmt.Errorf("no guidance for key state %s", ev.KeyState)
	}
}

func (g *Guide) friction(ev *models.Event) (Guidance, error) {
	out := Guidance{KeyState: ev.KeyState, Headline: "Internal friction detected."}

	// A failed assessment falls through to the score-based rules.
	if a, err := g.assessor.Assess(g.now()); err == nil && a.State.Depleted() {
		out.Rule = "recover_first"
		out.Assessment = &a
		out.Lines = append(out.Lines, fmt.Sprintf("Today's objective state: %s.", a.State))
		out.Lines = append(out.Lines, a.Warnings()...)
		out.Lines = append(out.Lines,
			"Your body is sending a strong signal. Pick an Abundance task first (meditation, a walk), not a Growth task.")
		return out, nil
	}

	switch {
	case ev.MentalScore < lowScore:
		out.Rule = "micro_task"
		out.Lines = []string{"Mental energy is low. Start with the smallest possible step on a P1 goal."}
		return out, nil
	case ev.EmotionalScore < lowScore:
		out.Rule = "mood_first"
		out.Lines = []string{"Emotional energy is low. Spend 10 minutes on an Abundance activity, then start a P1 task."}
		return out, nil
	}

	last, goal, err := g.lastP1MicroTask()
	if err != nil {
		return Guidance{}, err
	}
	if last != nil {
		out.Rule = "repeat_micro_task"
		out.Lines = []string{
			fmt.Sprintf("Your last P1 micro-task was '%s' (goal: %s).", last.Activity, goal.Name),
			fmt.Sprintf("Try a %d-minute high-priority micro-task right now.", microTaskMinutes),
		}
		return out, nil
	}

	out.Rule = "start_p1"
	out.Lines = []string{fmt.Sprintf("Start a %d-minute P1 task right now.", microTaskMinutes)}
	return out, nil
}

// lastP1MicroTask finds the most recent short Growth or Abundance event
// linked to a P1 goal. Archived goals count.
func (g *Guide) lastP1MicroTask() (*models.Event, *models.Goal, error) {
	events, err := g.events.ListEvents(storage.EventFilter{})
	if err != nil {
		return nil, nil, fmt.Errorf("list events: %w", err)
	}
	for _, e := range events {
		if e.KeyState != models.KeyStateGrowth && e.KeyState != models.KeyStateAbundance {
			continue
		}
		if e.GoalID == nil || e.DurationMinutes > microTaskMaxMins {
			continue
		}
		goal, err := g.goals.GetGoal(e.GoalID.String())
		if errors.Is(err, storage.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, nil, fmt.Errorf("get goal: %w", err)
		}
		if goal.Priority == models.PriorityHigh {
			return e, goal, nil
		}
	}
	return nil, nil, nil
}

func (g *Guide) consumption() (Guidance, error) {
	out := Guidance{KeyState: models.KeyStateConsumption, Headline: "Energy spent."}

	state := models.KeyStateAbundance
	events, err := g.events.ListEvents(storage.EventFilter{KeyState: &state})
	if err != nil {
		return Guidance{}, fmt.Errorf("list abundance events: %w", err)
	}

	if favorite := mostFrequentActivity(events); favorite != "" {
		out.Rule = "favorite_abundance"
		out.Lines = []string{
			fmt.Sprintf("Your data shows '%s' often leaves you in Abundance.", favorite),
			"Spend 10 to 15 minutes on it instead of scrolling your phone.",
		}
		return out, nil
	}

	out.Rule = "active_rest"
	out.Lines = []string{"Take 10 to 15 minutes of active rest (stretch, step outside) instead of passive scrolling."}
	return out, nil
}

// mostFrequentActivity returns the most common activity. Ties go to the one
// seen first, which is the most recent for store-ordered events.
func mostFrequentActivity(events []*models.Event) string {
	counts := make(map[string]int)
	var order []string
	for _, e := range events {
		if counts[e.Activity] == 0 {
			order = append(order, e.Activity)
		}
		counts[e.Activity]++
	}
	best := ""
	for _, a := range order {
		if counts[a] > counts[best] {
			best = a
		}
	}
	return best
}

func (g *Guide) positive(ev *models.Event) (Guidance, error) {
	out := Guidance{
		KeyState: ev.KeyState,
		Headline: fmt.Sprintf("Great, you logged a '%s' event.", ev.KeyState),
	}

	if ev.GoalID != nil {
		goal, err := g.goals.GetGoal(ev.GoalID.String())
		switch {
		case err == nil:
			out.Rule = "goal_progress"
			out.Lines = []string{fmt.Sprintf("You are building positive energy toward '%s'. Keep going!", goal.Name)}
			return out, nil
		case !errors.Is(err, storage.ErrNotFound):
			return Guidance{}, fmt.Errorf("get goal: %w", err)
		}
	}

	out.Rule = "refill"
	out.Lines = []string{"A quality energy refill. Well done!"}
	return out, nil
}
