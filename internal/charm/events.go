// ABOUTME: Event CRUD operations for Charm KV storage.
// ABOUTME: Events are validated before write and filtered client-side on read.
package charm

import (
	"encoding/json"
	"fmt"

	"github.com/harperreed/energy/internal/models"
	"github.com/harperreed/energy/internal/storage"
)

// CreateEvent validates and stores an event.
func (c *Client) CreateEvent(e *models.Event) error {
	if err := e.Validate(); err != nil {
		return fmt.Errorf("create event: %w", err)
	}
	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	return c.set(map[string][]byte{EventPrefix + e.ID.String(): data})
}

// GetEvent retrieves an event by ID or ID prefix.
func (c *Client) GetEvent(idOrPrefix string) (*models.Event, error) {
	data, err := c.getByIDPrefix(EventPrefix, idOrPrefix)
	if err != nil {
		return nil, fmt.Errorf("get event: %w", err)
	}
	e, err := unmarshalJSON[models.Event](data)
	if err != nil {
		return nil, fmt.Errorf("unmarshal event: %w", err)
	}
	return e, nil
}

// ListEvents returns events matching filter, most recent first.
func (c *Client) ListEvents(filter storage.EventFilter) ([]*models.Event, error) {
	values, err := c.listByPrefix(EventPrefix)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	return storage.FilterEvents(decodeAll[models.Event](values), filter), nil
}

// DeleteEvent removes an event by ID or prefix.
func (c *Client) DeleteEvent(idOrPrefix string) error {
	if err := c.deleteByIDPrefix(EventPrefix, idOrPrefix, nil); err != nil {
		return fmt.Errorf("delete event: %w", err)
	}
	return nil
}
