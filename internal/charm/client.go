// ABOUTME: Charm KV backend for energy records.
// ABOUTME: One process-wide client; writes push to Charm Cloud unless batching.
package charm

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/charmbracelet/charm/client"
	"github.com/charmbracelet/charm/kv"
	"github.com/harperreed/energy/internal/storage"
)

const (
	// DBName is the KV database name, shared with kv.Repair/Reset/Wipe.
	DBName           = "energy"
	defaultCharmHost = "charm.2389.dev"

	MetricPrefix      = "metric:"
	MetricIndexPrefix = "metric_at:"
	GoalPrefix        = "goal:"
	EventPrefix       = "event:"
)

// ErrReadOnly is returned for writes while another process holds the KV lock.
var ErrReadOnly = errors.New("cannot write: database is locked by another process (MCP server?)")

var (
	shared     *Client
	sharedOnce sync.Once
	sharedErr  error
)

// Client stores energy records in a Charm KV database. It implements
// storage.Repository with client-side filtering.
type Client struct {
	kv       *kv.KV
	autoSync bool
	mu       sync.RWMutex
}

var (
	_ storage.Repository = (*Client)(nil)
	_ storage.Batcher    = (*Client)(nil)
)

// InitClient opens the KV store once per process and pulls remote changes.
// Later calls return the same client.
func InitClient() (*Client, error) {
	sharedOnce.Do(func() {
		if os.Getenv("CHARM_HOST") == "" {
			if err := os.Setenv("CHARM_HOST", defaultCharmHost); err != nil {
				sharedErr = err
				return
			}
		}

		db, err := kv.OpenWithDefaultsFallback(DBName)
		if err != nil {
			sharedErr = fmt.Errorf("open charm kv: %w", err)
			return
		}

		shared = &Client{kv: db, autoSync: true}
		if !db.IsReadOnly() {
			_ = db.Sync()
		}
	})
	return shared, sharedErr
}

// Close releases the KV handle.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.kv == nil {
		return nil
	}
	return c.kv.Close()
}

// IsReadOnly reports whether another process (usually `energy mcp`) holds the lock.
func (c *Client) IsReadOnly() bool {
	return c.kv.IsReadOnly()
}

// Sync pushes and pulls changes. It is a no-op when read-only.
func (c *Client) Sync() error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.kv.IsReadOnly() {
		return nil
	}
	return c.kv.Sync()
}

func (c *Client) pushIfAuto() {
	if c.autoSync && !c.kv.IsReadOnly() {
		_ = c.kv.Sync()
	}
}

// SetAutoSync turns the per-write push on or off. Bulk writers turn it off
// and call Sync once at the end.
func (c *Client) SetAutoSync(enabled bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.autoSync = enabled
}

// ID returns the Charm account ID this machine is linked to.
func (c *Client) ID() (string, error) {
	cc, err := client.NewClientWithDefaults()
	if err != nil {
		return "", fmt.Errorf("create charm client: %w", err)
	}
	return cc.ID()
}

// set stores values under the given keys and syncs once.
func (c *Client) set(entries map[string][]byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.kv.IsReadOnly() {
		return ErrReadOnly
	}

	for key, data := range entries {
		if err := c.kv.Set([]byte(key), data); err != nil {
			return err
		}
	}
	c.pushIfAuto()
	return nil
}

// exists reports whether key is present.
func (c *Client) exists(key string) (bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	keys, err := c.kv.Keys()
	if err != nil {
		return false, err
	}
	for _, k := range keys {
		if string(k) == key {
			return true, nil
		}
	}
	return false, nil
}

// listByPrefix returns the values of every key under prefix.
func (c *Client) listByPrefix(prefix string) ([][]byte, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	keys, err := c.kv.Keys()
	if err != nil {
		return nil, err
	}

	var values [][]byte
	for _, key := range keys {
		if !bytes.HasPrefix(key, []byte(prefix)) {
			continue
		}
		val, err := c.kv.Get(key)
		if err != nil {
			return nil, fmt.Errorf("get %s: %w", key, err)
		}
		values = append(values, val)
	}
	return values, nil
}

// resolveKey finds the single full key under typePrefix whose ID starts with idPrefix.
func (c *Client) resolveKey(typePrefix, idPrefix string) (string, error) {
	keys, err := c.kv.Keys()
	if err != nil {
		return "", err
	}

	var ids []string
	for _, key := range keys {
		if bytes.HasPrefix(key, []byte(typePrefix)) {
			ids = append(ids, string(key[len(typePrefix):]))
		}
	}

	id, err := storage.MatchPrefix(idPrefix, ids)
	if err != nil {
		return "", err
	}
	return typePrefix + id, nil
}

// getByIDPrefix returns the value of the one record whose ID starts with idPrefix.
func (c *Client) getByIDPrefix(typePrefix, idPrefix string) ([]byte, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	key, err := c.resolveKey(typePrefix, idPrefix)
	if err != nil {
		return nil, err
	}
	return c.kv.Get([]byte(key))
}

// deleteByIDPrefix deletes a record by ID prefix match, plus any extra keys
// derived from the deleted value.
func (c *Client) deleteByIDPrefix(typePrefix, idPrefix string, extra func(val []byte) []string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.kv.IsReadOnly() {
		return ErrReadOnly
	}

	key, err := c.resolveKey(typePrefix, idPrefix)
	if err != nil {
		return err
	}

	toDelete := []string{key}
	if extra != nil {
		val, err := c.kv.Get([]byte(key))
		if err != nil {
			return err
		}
		toDelete = append(toDelete, extra(val)...)
	}

	for _, k := range toDelete {
		if err := c.kv.Delete([]byte(k)); err != nil {
			return err
		}
	}
	c.pushIfAuto()
	return nil
}

// GetAllData collects every record for export.
func (c *Client) GetAllData() (*storage.ExportData, error) {
	return storage.CollectAll(c)
}

// ImportData restores an export with a single push at the end.
func (c *Client) ImportData(data *storage.ExportData) (*storage.ImportSummary, error) {
	c.SetAutoSync(false)
	defer c.SetAutoSync(true)

	summary, err := storage.RestoreAll(c, data)
	if err != nil {
		return summary, err
	}
	return summary, c.Sync()
}

func unmarshalJSON[T any](data []byte) (*T, error) {
	v := new(T)
	if err := json.Unmarshal(data, v); err != nil {
		return nil, err
	}
	return v, nil
}

// decodeAll unmarshals every value, skipping entries that fail to decode.
func decodeAll[T any](values [][]byte) []*T {
	out := make([]*T, 0, len(values))
	for _, data := range values {
		v, err := unmarshalJSON[T](data)
		if err != nil {
			continue
		}
		out = append(out, v)
	}
	return out
}
