// ABOUTME: Goal CRUD operations for SQLite storage.
// ABOUTME: Names are unique across active and archived goals; archive is a soft delete.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/harperreed/energy/internal/models"
)

const goalColumns = `id, name, priority, energy_cost, active, created_at`

// CreateGoal stores a new goal. Fails with ErrDuplicateName if the name is taken.
func (d *DB) CreateGoal(g *models.Goal) error {
	if !g.Priority.Valid() {
		return fmt.Errorf("create goal: invalid priority %d", g.Priority)
	}
	if err := d.checkGoalName(g.Name, ""); err != nil {
		return fmt.Errorf("create goal: %w", err)
	}

	query := `
		INSERT INTO goals (id, name, priority, energy_cost, active, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	_, err := d.db.Exec(query,
		g.ID.String(),
		g.Name,
		int(g.Priority),
		g.EnergyCost,
		g.Active,
		g.CreatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("create goal: %w", err)
	}
	return nil
}

// GetGoal retrieves a goal (active or archived) by ID or ID prefix.
func (d *DB) GetGoal(idOrPrefix string) (*models.Goal, error) {
	id, err := d.resolveID("goals", idOrPrefix)
	if err != nil {
		return nil, err
	}

	query := `SELECT ` + goalColumns + ` FROM goals WHERE id = ?`
	g, err := scanGoal(d.db.QueryRow(query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, idOrPrefix)
	}
	return g, err
}

// ListGoals returns goals ordered by priority then name.
func (d *DB) ListGoals(includeArchived bool) ([]*models.Goal, error) {
	query := `SELECT ` + goalColumns + ` FROM goals`
	if !includeArchived {
		query += ` WHERE active = 1`
	}
	query += ` ORDER BY priority ASC, name ASC`

	rows, err := d.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("list goals: %w", err)
	}
	defer rows.Close()

	var goals []*models.Goal
	for rows.Next() {
		g, err := scanGoal(rows)
		if err != nil {
			return nil, err
		}
		goals = append(goals, g)
	}
	return goals, rows.Err()
}

// ActiveGoals returns active goals ordered by (priority asc, name asc).
func (d *DB) ActiveGoals() ([]*models.Goal, error) {
	return d.ListGoals(false)
}

// UpdateGoal applies the set fields of u and returns the updated goal.
func (d *DB) UpdateGoal(idOrPrefix string, u models.GoalUpdate) (*models.Goal, error) {
	g, err := d.GetGoal(idOrPrefix)
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
		if err := d.checkGoalName(*u.Name, g.ID.String()); err != nil {
			return nil, fmt.Errorf("update goal: %w", err)
		}
	}

	u.Apply(g)
	_, err = d.db.Exec(
		`UPDATE goals SET name = ?, priority = ?, energy_cost = ? WHERE id = ?`,
		g.Name, int(g.Priority), g.EnergyCost, g.ID.String(),
	)
	if err != nil {
		return nil, fmt.Errorf("update goal: %w", err)
	}
	return g, nil
}

// ArchiveGoal marks a goal inactive. The row is kept for event history.
func (d *DB) ArchiveGoal(idOrPrefix string) error {
	id, err := d.resolveID("goals", idOrPrefix)
	if err != nil {
		return fmt.Errorf("archive goal: %w", err)
	}

	result, err := d.db.Exec(`UPDATE goals SET active = 0 WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("archive goal: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("archive goal: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("archive goal: %w: %s", ErrNotFound, idOrPrefix)
	}
	return nil
}

// checkGoalName fails when another goal (other than exceptID) uses name.
func (d *DB) checkGoalName(name, exceptID string) error {
	var n int
	err := d.db.QueryRow(`SELECT COUNT(*) FROM goals WHERE name = ? AND id != ?`, name, exceptID).Scan(&n)
	if err != nil {
		return fmt.Errorf("check goal name: %w", err)
	}
	if n > 0 {
		return fmt.Errorf("%w: %s", ErrDuplicateName, name)
	}
	return nil
}

func scanGoal(row rowScanner) (*models.Goal, error) {
	var g models.Goal
	var idStr, createdAt string
	var priority int

	err := row.Scan(&idStr, &g.Name, &priority, &g.EnergyCost, &g.Active, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan goal: %w", err)
	}

	g.ID, _ = uuid.Parse(idStr)
	g.Priority = models.Priority(priority)
	g.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	return &g, nil
}
