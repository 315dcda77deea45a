// ABOUTME: Metric sample CRUD and day-range aggregations for SQLite storage.
// ABOUTME: Only samples with value > 0 count for latest, average, sum and count.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/harperreed/energy/internal/models"
)

const metricColumns = `id, kind, value, recorded_at, source, raw, created_at`

// CreateMetric stores a new sample. A sample of the same kind at the same
// instant (to the second, in any UTC offset) is rejected with ErrDuplicateSample.
func (d *DB) CreateMetric(m *models.MetricSample) error {
	query := `
		INSERT OR IGNORE INTO metrics (id, kind, value, recorded_at, recorded_unix, recorded_day, source, raw, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	source := m.Source
	if source == "" {
		source = models.SourceManual
	}
	result, err := d.db.Exec(query,
		m.ID.String(),
		string(m.Kind),
		m.Value,
		m.RecordedAt.Format(time.RFC3339),
		m.RecordedAt.Unix(),
		models.DayKey(m.RecordedAt),
		source,
		m.Raw,
		m.CreatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("create metric: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("create metric: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: %s at %s", ErrDuplicateSample, m.Kind, m.RecordedAt.Format(time.RFC3339))
	}
	return nil
}

// GetMetric retrieves a sample by ID or ID prefix.
func (d *DB) GetMetric(idOrPrefix string) (*models.MetricSample, error) {
	id, err := d.resolveID("metrics", idOrPrefix)
	if err != nil {
		return nil, err
	}

	query := `SELECT ` + metricColumns + ` FROM metrics WHERE id = ?`
	m, err := scanMetric(d.db.QueryRow(query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, idOrPrefix)
	}
	return m, err
}

// ListMetrics retrieves samples matching filter, most recent first.
func (d *DB) ListMetrics(filter MetricFilter) ([]*models.MetricSample, error) {
	query := `SELECT ` + metricColumns + ` FROM metrics WHERE 1 = 1`
	var args []interface{}

	if filter.Kind != nil {
		query += ` AND kind = ?`
		args = append(args, string(*filter.Kind))
	}
	if !filter.From.IsZero() {
		query += ` AND recorded_day >= ?`
		args = append(args, models.DayKey(filter.From))
	}
	if !filter.To.IsZero() {
		query += ` AND recorded_day < ?`
		args = append(args, models.DayKey(filter.To))
	}
	query += ` ORDER BY recorded_unix DESC`
	if filter.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, filter.Limit)
	}

	rows, err := d.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list metrics: %w", err)
	}
	defer rows.Close()

	var metrics []*models.MetricSample
	for rows.Next() {
		m, err := scanMetric(rows)
		if err != nil {
			return nil, err
		}
		metrics = append(metrics, m)
	}
	return metrics, rows.Err()
}

// DeleteMetric removes a sample by ID or prefix.
func (d *DB) DeleteMetric(idOrPrefix string) error {
	id, err := d.resolveID("metrics", idOrPrefix)
	if err != nil {
		return fmt.Errorf("delete metric: %w", err)
	}

	result, err := d.db.Exec("DELETE FROM metrics WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete metric: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete metric: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, idOrPrefix)
	}
	return nil
}

// LatestOn returns the most recently recorded valid value of kind on day.
func (d *DB) LatestOn(kind models.MetricKind, day time.Time) (models.Reading, error) {
	query := `
		SELECT value FROM metrics
		WHERE kind = ? AND recorded_day = ? AND value > 0
		ORDER BY recorded_unix DESC
		LIMIT 1
	`
	var v float64
	err := d.db.QueryRow(query, string(kind), models.DayKey(day)).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return models.None(), nil
	}
	if err != nil {
		return models.None(), fmt.Errorf("latest %s: %w", kind, err)
	}
	return models.Some(v), nil
}

// Average returns the mean of valid values of kind over [from, to).
func (d *DB) Average(kind models.MetricKind, from, to time.Time) (models.Reading, error) {
	return d.aggregate("AVG", kind, from, to)
}

// Sum returns the total of valid values of kind over [from, to).
func (d *DB) Sum(kind models.MetricKind, from, to time.Time) (models.Reading, error) {
	return d.aggregate("SUM", kind, from, to)
}

// Count returns the number of valid samples of kind over [from, to).
func (d *DB) Count(kind models.MetricKind, from, to time.Time) (int, error) {
	query := `
		SELECT COUNT(*) FROM metrics
		WHERE kind = ? AND value > 0 AND recorded_day >= ? AND recorded_day < ?
	`
	var n int
	if err := d.db.QueryRow(query, string(kind), models.DayKey(from), models.DayKey(to)).Scan(&n); err != nil {
		return 0, fmt.Errorf("count %s: %w", kind, err)
	}
	return n, nil
}

// aggregate runs fn (AVG or SUM) over valid samples. SQL returns NULL for
// an empty set, which becomes an absent reading.
func (d *DB) aggregate(fn string, kind models.MetricKind, from, to time.Time) (models.Reading, error) {
	query := `
		SELECT ` + fn + `(value) FROM metrics
		WHERE kind = ? AND value > 0 AND recorded_day >= ? AND recorded_day < ?
	`
	var v sql.NullFloat64
	if err := d.db.QueryRow(query, string(kind), models.DayKey(from), models.DayKey(to)).Scan(&v); err != nil {
		return models.None(), fmt.Errorf("%s %s: %w", fn, kind, err)
	}
	if !v.Valid {
		return models.None(), nil
	}
	return models.Some(v.Float64), nil
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanMetric(row rowScanner) (*models.MetricSample, error) {
	var m models.MetricSample
	var idStr, kind, recordedAt, createdAt string
	var raw sql.NullString

	err := row.Scan(&idStr, &kind, &m.Value, &recordedAt, &m.Source, &raw, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan metric: %w", err)
	}

	m.ID, _ = uuid.Parse(idStr)
	m.Kind = models.MetricKind(kind)
	m.RecordedAt, _ = time.Parse(time.RFC3339, recordedAt)
	m.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	if raw.Valid {
		m.Raw = &raw.String
	}
	return &m, nil
}
