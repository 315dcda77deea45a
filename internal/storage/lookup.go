// ABOUTME: Goal lookup by ID prefix or by name.
// ABOUTME: Lets the CLI and tools accept either form for goal references.
package storage

import (
	"errors"
	"fmt"
	"strings"

	"github.com/harperreed/energy/internal/models"
)

// GoalFinder is the subset of Repository FindGoal needs.
type GoalFinder interface {
	GetGoal(idOrPrefix string) (*models.Goal, error)
	ListGoals(includeArchived bool) ([]*models.Goal, error)
}

// FindGoal resolves ref as an ID or ID prefix first, then as an exact
// case-insensitive goal name. Archived goals are found too.
func FindGoal(r GoalFinder, ref string) (*models.Goal, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, fmt.Errorf("%w: empty goal reference", ErrNotFound)
	}

	g, err := r.GetGoal(ref)
	if err == nil {
		return g, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	goals, err := r.ListGoals(true)
	if err != nil {
		return nil, fmt.Errorf("list goals: %w", err)
	}
	for _, g := range goals {
		if strings.EqualFold(g.Name, ref) {
			return g, nil
		}
	}
	return nil, fmt.Errorf("%w: goal %s", ErrNotFound, ref)
}
