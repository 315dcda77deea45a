// ABOUTME: Metric sample CRUD and aggregations for Charm KV storage.
// ABOUTME: Uses type-prefixed keys, a (kind, recorded_at) index key and client-side filtering.
package charm

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/harperreed/energy/internal/models"
	"github.com/harperreed/energy/internal/storage"
)

// sampleIndexKey identifies a sample by kind and second-resolution timestamp.
func sampleIndexKey(kind models.MetricKind, recordedAt time.Time) string {
	return fmt.Sprintf("%s%s:%d", MetricIndexPrefix, kind, recordedAt.Unix())
}

// CreateMetric stores a new sample. A sample whose (recorded_at, kind)
// already exists is rejected with storage.ErrDuplicateSample.
func (c *Client) CreateMetric(m *models.MetricSample) error {
	if m.Source == "" {
		m.Source = models.SourceManual
	}

	idx := sampleIndexKey(m.Kind, m.RecordedAt)
	taken, err := c.exists(idx)
	if err != nil {
		return fmt.Errorf("create metric: %w", err)
	}
	if taken {
		return fmt.Errorf("%w: %s at %s", storage.ErrDuplicateSample, m.Kind, m.RecordedAt.Format(time.RFC3339))
	}

	data, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("marshal metric: %w", err)
	}
	return c.set(map[string][]byte{
		MetricPrefix + m.ID.String(): data,
		idx:                          []byte(m.ID.String()),
	})
}

// GetMetric retrieves a sample by ID or ID prefix.
func (c *Client) GetMetric(idOrPrefix string) (*models.MetricSample, error) {
	data, err := c.getByIDPrefix(MetricPrefix, idOrPrefix)
	if err != nil {
		return nil, fmt.Errorf("get metric: %w", err)
	}

	m, err := unmarshalJSON[models.MetricSample](data)
	if err != nil {
		return nil, fmt.Errorf("unmarshal metric: %w", err)
	}
	return m, nil
}

func (c *Client) allMetrics() ([]*models.MetricSample, error) {
	values, err := c.listByPrefix(MetricPrefix)
	if err != nil {
		return nil, fmt.Errorf("list metrics: %w", err)
	}
	return decodeAll[models.MetricSample](values), nil
}

// ListMetrics retrieves samples matching filter, most recent first.
func (c *Client) ListMetrics(filter storage.MetricFilter) ([]*models.MetricSample, error) {
	all, err := c.allMetrics()
	if err != nil {
		return nil, err
	}
	return storage.FilterMetrics(all, filter), nil
}

// DeleteMetric removes a sample and its index key by ID or prefix.
func (c *Client) DeleteMetric(idOrPrefix string) error {
	err := c.deleteByIDPrefix(MetricPrefix, idOrPrefix, func(val []byte) []string {
		m, err := unmarshalJSON[models.MetricSample](val)
		if err != nil {
			return nil
		}
		return []string{sampleIndexKey(m.Kind, m.RecordedAt)}
	})
	if err != nil {
		return fmt.Errorf("delete metric: %w", err)
	}
	return nil
}

// LatestOn returns the most recently recorded valid value of kind on day.
func (c *Client) LatestOn(kind models.MetricKind, day time.Time) (models.Reading, error) {
	all, err := c.allMetrics()
	if err != nil {
		return models.None(), err
	}
	return storage.LatestIn(all, kind, day), nil
}

// Average returns the mean of valid values of kind over [from, to).
func (c *Client) Average(kind models.MetricKind, from, to time.Time) (models.Reading, error) {
	all, err := c.allMetrics()
	if err != nil {
		return models.None(), err
	}
	return storage.AverageIn(all, kind, from, to), nil
}

// Sum returns the total of valid values of kind over [from, to).
func (c *Client) Sum(kind models.MetricKind, from, to time.Time) (models.Reading, error) {
	all, err := c.allMetrics()
	if err != nil {
		return models.None(), err
	}
	return storage.SumIn(all, kind, from, to), nil
}

// Count returns the number of valid samples of kind over [from, to).
func (c *Client) Count(kind models.MetricKind, from, to time.Time) (int, error) {
	all, err := c.allMetrics()
	if err != nil {
		return 0, err
	}
	return storage.CountIn(all, kind, from, to), nil
}
