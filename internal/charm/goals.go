// ABOUTME: Goal CRUD operations for Charm KV storage.
// ABOUTME: Name uniqueness is checked client-side across all stored goals.
package charm

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/harperreed/energy/internal/models"
	"github.com/harperreed/energy/internal/storage"
)

func (c *Client) putGoal(g *models.Goal) error {
	data, err := json.Marshal(g)
	if err != nil {
		return fmt.Errorf("marshal goal: %w", err)
	}
	return c.set(map[string][]byte{GoalPrefix + g.ID.String(): data})
}

// CreateGoal stores a new goal. Fails with storage.ErrDuplicateName if the name is taken.
func (c *Client) CreateGoal(g *models.Goal) error {
	if !g.Priority.Valid() {
		return fmt.Errorf("create goal: invalid priority %d", g.Priority)
	}
	if err := c.checkGoalName(g.Name, uuid.Nil); err != nil {
		return fmt.Errorf("create goal: %w", err)
	}
	return c.putGoal(g)
}

// GetGoal retrieves a goal by ID or ID prefix.
func (c *Client) GetGoal(idOrPrefix string) (*models.Goal, error) {
	data, err := c.getByIDPrefix(GoalPrefix, idOrPrefix)
	if err != nil {
		return nil, fmt.Errorf("get goal: %w", err)
	}
	g, err := unmarshalJSON[models.Goal](data)
	if err != nil {
		return nil, fmt.Errorf("unmarshal goal: %w", err)
	}
	return g, nil
}

// ListGoals returns goals ordered by priority then name.
func (c *Client) ListGoals(includeArchived bool) ([]*models.Goal, error) {
	values, err := c.listByPrefix(GoalPrefix)
	if err != nil {
		return nil, fmt.Errorf("list goals: %w", err)
	}

	var goals []*models.Goal
	for _, g := range decodeAll[models.Goal](values) {
		if !includeArchived && !g.Active {
			continue
		}
		goals = append(goals, g)
	}
	storage.SortGoals(goals)
	return goals, nil
}

// ActiveGoals returns active goals ordered by (priority asc, name asc).
func (c *Client) ActiveGoals() ([]*models.Goal, error) {
	return c.ListGoals(false)
}

// UpdateGoal applies the set fields of u and returns the updated goal.
func (c *Client) UpdateGoal(idOrPrefix string, u models.GoalUpdate) (*models.Goal, error) {
	g, err := c.GetGoal(idOrPrefix)
	if err != nil {
		return nil, fmt.Errorf("update goal: %w", err)
	}
	if u.Empty() {
		return g, nil
	}
	if u.Priority != nil && !u.Priority.Valid() {
		return nil, fmt.Errorf("update goal: invalid priority %d", *u.Priority)
	}
	if u.Name != nil && *u.Name != g.Name {
		if err := c.checkGoalName(*u.Name, g.ID); err != nil {
			return nil, fmt.Errorf("update goal: %w", err)
		}
	}

	u.Apply(g)
	if err := c.putGoal(g); err != nil {
		return nil, fmt.Errorf("update goal: %w", err)
	}
	return g, nil
}

// ArchiveGoal marks a goal inactive.
func (c *Client) ArchiveGoal(idOrPrefix string) error {
	g, err := c.GetGoal(idOrPrefix)
	if err != nil {
		return fmt.Errorf("archive goal: %w", err)
	}
	g.Active = false
	if err := c.putGoal(g); err != nil {
		return fmt.Errorf("archive goal: %w", err)
	}
	return nil
}

func (c *Client) checkGoalName(name string, except uuid.UUID) error {
	goals, err := c.ListGoals(true)
	if err != nil {
		return err
	}
	for _, g := range goals {
		if g.Name == name && g.ID != except {
			return fmt.Errorf("%w: %s", storage.ErrDuplicateName, name)
		}
	}
	return nil
}
