// ABOUTME: Goal model with priority tiers and signed energy cost.
// ABOUTME: Negative cost consumes budget, positive cost restores it.
package models

import (
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// Priority is a goal tier. 1 is the highest.
type Priority int

const (
	PriorityHigh   Priority = 1
	PriorityMedium Priority = 2
	PriorityLow    Priority = 3
)

// Valid reports whether p is one of the three tiers.
func (p Priority) Valid() bool {
	return p >= PriorityHigh && p <= PriorityLow
}

// Label returns a human label such as "High (P1)".
func (p Priority) Label() string {
	switch p {
	case PriorityHigh:
		return "High (P1)"
	case PriorityMedium:
		return "Medium (P2)"
	case PriorityLow:
		return "Low/Procrastination (P3)"
	default:
		return "Unassigned"
	}
}

func (p Priority) String() string {
	return "P" + strconv.Itoa(int(p))
}

// ParsePriority accepts "1", "2", "3" or "P1".."P3".
func ParsePriority(s string) (Priority, error) {
	if len(s) == 2 && (s[0] == 'P' || s[0] == 'p') {
		s = s[1:]
	}
	n, err := strconv.Atoi(s)
	if err != nil || !Priority(n).Valid() {
		return 0, fmt.Errorf("invalid priority %q: must be 1, 2 or 3", s)
	}
	return Priority(n), nil
}

// Goal is a declared objective the planner can spend energy on.
type Goal struct {
	ID         uuid.UUID `json:"id" yaml:"id"`
	Name       string    `json:"name" yaml:"name"`
	Priority   Priority  `json:"priority" yaml:"priority"`
	EnergyCost int       `json:"energy_cost" yaml:"energy_cost"`
	Active     bool      `json:"active" yaml:"active"`
	CreatedAt  time.Time `json:"created_at" yaml:"created_at"`
}

// NewGoal creates an active goal. Priority defaults to medium when invalid.
func NewGoal(name string, priority Priority, cost int) *Goal {
	if !priority.Valid() {
		priority = PriorityMedium
	}
	return &Goal{
		ID:         uuid.New(),
		Name:       name,
		Priority:   priority,
		EnergyCost: cost,
		Active:     true,
		CreatedAt:  time.Now(),
	}
}

// Consuming reports whether the goal spends budget.
func (g *Goal) Consuming() bool {
	return g.EnergyCost < 0
}

// Restoring reports whether the goal is a recovery task.
func (g *Goal) Restoring() bool {
	return g.EnergyCost > 0
}

// ShortID returns the 8-character ID prefix used in listings.
func (g *Goal) ShortID() string {
	return g.ID.String()[:8]
}

// GoalUpdate carries optional changes to a goal. Nil fields are left alone.
type GoalUpdate struct {
	Name       *string
	EnergyCost *int
	Priority   *Priority
}

// Empty reports whether the update changes nothing.
func (u GoalUpdate) Empty() bool {
	return u.Name == nil && u.EnergyCost == nil && u.Priority == nil
}

// Apply writes the set fields onto g.
func (u GoalUpdate) Apply(g *Goal) {
	if u.Name != nil {
		g.Name = *u.Name
	}
	if u.EnergyCost != nil {
		g.EnergyCost = *u.EnergyCost
	}
	if u.Priority != nil {
		g.Priority = *u.Priority
	}
}
