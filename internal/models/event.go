// ABOUTME: Event model for subjective energy logs and the KeyState enum.
// ABOUTME: Events record activity, duration, 1-10 energy scores and a key state.
package models

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// KeyState is the subjective classification attached to a logged event.
type KeyState int

const (
	KeyStateConsumption KeyState = iota + 1
	KeyStateInternalFriction
	KeyStateGrowth
	KeyStateAbundance
	KeyStateRoutine
)

// AllKeyStates lists key states in prompt order.
var AllKeyStates = []KeyState{
	KeyStateConsumption,
	KeyStateInternalFriction,
	KeyStateGrowth,
	KeyStateAbundance,
	KeyStateRoutine,
}

// String returns the canonical stored name.
func (k KeyState) String() string {
	switch k {
	case KeyStateConsumption:
		return "Consumption"
	case KeyStateInternalFriction:
		return "Internal friction"
	case KeyStateGrowth:
		return "Growth"
	case KeyStateAbundance:
		return "Abundance"
	case KeyStateRoutine:
		return "Routine"
	default:
		return fmt.Sprintf("KeyState(%d)", int(k))
	}
}

// Description explains what the state means to the user.
func (k KeyState) Description() string {
	switch k {
	case KeyStateConsumption:
		return "drained after intense, productive work"
	case KeyStateInternalFriction:
		return "idling, stuck or procrastinating"
	case KeyStateGrowth:
		return "learning or building a skill"
	case KeyStateAbundance:
		return "energized after exercise or rest"
	case KeyStateRoutine:
		return "everyday chores, energy flat"
	default:
		return ""
	}
}

// ParseKeyState accepts the canonical name case-insensitively, plus
// "friction" and "internal_friction" shorthands.
func ParseKeyState(s string) (KeyState, error) {
	norm := strings.ToLower(strings.TrimSpace(s))
	norm = strings.ReplaceAll(norm, "_", " ")
	norm = strings.ReplaceAll(norm, "-", " ")
	if norm == "friction" {
		return KeyStateInternalFriction, nil
	}
	for _, k := range AllKeyStates {
		if strings.ToLower(k.String()) == norm {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown key state: %q", s)
}

// MarshalJSON writes the canonical name.
func (k KeyState) MarshalJSON() ([]byte, error) {
	return json.Marshal(k.String())
}

// UnmarshalJSON parses the canonical name.
func (k *KeyState) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseKeyState(s)
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// MarshalYAML writes the canonical name.
func (k KeyState) MarshalYAML() (interface{}, error) {
	return k.String(), nil
}

// Event is one logged activity with its subjective energy scores.
type Event struct {
	ID              uuid.UUID  `json:"id" yaml:"id"`
	StartedAt       time.Time  `json:"started_at" yaml:"started_at"`
	DurationMinutes int        `json:"duration_minutes" yaml:"duration_minutes"`
	Activity        string     `json:"activity" yaml:"activity"`
	GoalID          *uuid.UUID `json:"goal_id,omitempty" yaml:"goal_id,omitempty"`
	PhysicalScore   int        `json:"physical_score" yaml:"physical_score"`
	MentalScore     int        `json:"mental_score" yaml:"mental_score"`
	EmotionalScore  int        `json:"emotional_score" yaml:"emotional_score"`
	KeyState        KeyState   `json:"key_state" yaml:"key_state"`
	Notes           string     `json:"notes,omitempty" yaml:"notes,omitempty"`
	CreatedAt       time.Time  `json:"created_at" yaml:"created_at"`
}

// NewEvent creates an event that started now.
func NewEvent(activity string, durationMinutes int, state KeyState) *Event {
	now := time.Now()
	return &Event{
		ID:              uuid.New(),
		StartedAt:       now,
		DurationMinutes: durationMinutes,
		Activity:        activity,
		KeyState:        state,
		CreatedAt:       now,
	}
}

// WithGoal links the event to a goal.
func (e *Event) WithGoal(id uuid.UUID) *Event {
	e.GoalID = &id
	return e
}

// WithScores sets the physical, mental and emotional scores.
func (e *Event) WithScores(physical, mental, emotional int) *Event {
	e.PhysicalScore = physical
	e.MentalScore = mental
	e.EmotionalScore = emotional
	return e
}

// WithStartedAt sets a custom start timestamp.
func (e *Event) WithStartedAt(t time.Time) *Event {
	e.StartedAt = t
	return e
}

// WithNotes sets notes on the event.
func (e *Event) WithNotes(notes string) *Event {
	e.Notes = notes
	return e
}

// Validate checks durations and score ranges.
func (e *Event) Validate() error {
	if strings.TrimSpace(e.Activity) == "" {
		return fmt.Errorf("activity is required")
	}
	if e.DurationMinutes < 0 {
		return fmt.Errorf("duration must not be negative: %d", e.DurationMinutes)
	}
	scores := []struct {
		name  string
		value int
	}{
		{"physical", e.PhysicalScore},
		{"mental", e.MentalScore},
		{"emotional", e.EmotionalScore},
	}
	for _, s := range scores {
		if s.value < 1 || s.value > 10 {
			return fmt.Errorf("%s score must be between 1 and 10, got %d", s.name, s.value)
		}
	}
	switch e.KeyState {
	case KeyStateConsumption, KeyStateInternalFriction, KeyStateGrowth, KeyStateAbundance, KeyStateRoutine:
	default:
		return fmt.Errorf("invalid key state: %s", e.KeyState)
	}
	return nil
}
