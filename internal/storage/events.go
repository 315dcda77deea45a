// ABOUTME: Event CRUD operations for SQLite storage.
// ABOUTME: Events are listed most recent first and filtered by day range, state or goal.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/harperreed/energy/internal/models"
)

const eventColumns = `id, started_at, duration_minutes, activity, goal_id,
	physical_score, mental_score, emotional_score, key_state, notes, created_at`

// CreateEvent validates and stores an event.
func (d *DB) CreateEvent(e *models.Event) error {
	if err := e.Validate(); err != nil {
		return fmt.Errorf("create event: %w", err)
	}

	var goalID *string
	if e.GoalID != nil {
		s := e.GoalID.String()
		goalID = &s
	}
	var notes *string
	if e.Notes != "" {
		notes = &e.Notes
	}

	query := `
		INSERT INTO events (id, started_at, started_unix, started_day, duration_minutes, activity, goal_id,
			physical_score, mental_score, emotional_score, key_state, notes, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := d.db.Exec(query,
		e.ID.String(),
		e.StartedAt.Format(time.RFC3339),
		e.StartedAt.Unix(),
		models.DayKey(e.StartedAt),
		e.DurationMinutes,
		e.Activity,
		goalID,
		e.PhysicalScore,
		e.MentalScore,
		e.EmotionalScore,
		e.KeyState.String(),
		notes,
		e.CreatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("create event: %w", err)
	}
	return nil
}

// GetEvent retrieves an event by ID or ID prefix.
func (d *DB) GetEvent(idOrPrefix string) (*models.Event, error) {
	id, err := d.resolveID("events", idOrPrefix)
	if err != nil {
		return nil, err
	}

	query := `SELECT ` + eventColumns + ` FROM events WHERE id = ?`
	e, err := scanEvent(d.db.QueryRow(query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, idOrPrefix)
	}
	return e, err
}

// ListEvents returns events matching filter, most recent first.
func (d *DB) ListEvents(filter EventFilter) ([]*models.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE 1 = 1`
	var args []interface{}

	if !filter.From.IsZero() {
		query += ` AND started_day >= ?`
		args = append(args, models.DayKey(filter.From))
	}
	if !filter.To.IsZero() {
		query += ` AND started_day < ?`
		args = append(args, models.DayKey(filter.To))
	}
	if filter.KeyState != nil {
		query += ` AND key_state = ?`
		args = append(args, filter.KeyState.String())
	}
	if filter.GoalID != nil {
		query += ` AND goal_id = ?`
		args = append(args, filter.GoalID.String())
	}
	query += ` ORDER BY started_unix DESC`
	if filter.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, filter.Limit)
	}

	rows, err := d.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	var events []*models.Event
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

// DeleteEvent removes an event by ID or prefix.
func (d *DB) DeleteEvent(idOrPrefix string) error {
	id, err := d.resolveID("events", idOrPrefix)
	if err != nil {
		return fmt.Errorf("delete event: %w", err)
	}

	result, err := d.db.Exec("DELETE FROM events WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete event: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete event: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, idOrPrefix)
	}
	return nil
}

func scanEvent(row rowScanner) (*models.Event, error) {
	var e models.Event
	var idStr, startedAt, keyState, createdAt string
	var goalID, notes sql.NullString

	err := row.Scan(&idStr, &startedAt, &e.DurationMinutes, &e.Activity, &goalID,
		&e.PhysicalScore, &e.MentalScore, &e.EmotionalScore, &keyState, &notes, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan event: %w", err)
	}

	e.ID, _ = uuid.Parse(idStr)
	e.StartedAt, _ = time.Parse(time.RFC3339, startedAt)
	e.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	if goalID.Valid {
		if id, err := uuid.Parse(goalID.String); err == nil {
			e.GoalID = &id
		}
	}
	if notes.Valid {
		e.Notes = notes.String
	}
	e.KeyState, err = models.ParseKeyState(keyState)
	if err != nil {
		return nil, fmt.Errorf("scan event %s: %w", idStr, err)
	}
	return &e, nil
}
