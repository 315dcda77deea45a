// ABOUTME: Energy configuration management with backend selection.
// ABOUTME: Handles settings, logging options, server address and the storage factory.

package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/harperreed/energy/internal/charm"
	"github.com/harperreed/energy/internal/logger"
	"github.com/harperreed/energy/internal/storage"
)

const (
	BackendSQLite = "sqlite"
	BackendCharm  = "charm"

	DefaultServerAddr = "127.0.0.1:8765"
	DefaultLogMode    = "dev"
	DefaultLogLevel   = "info"
)

// Config stores energy tool configuration.
type Config struct {
	// Backend selects the storage backend: "sqlite" (default) or "charm".
	Backend string `json:"backend,omitempty"`

	// DataDir is the root directory for local data. SQLite puts energy.db
	// here and the activity timer keeps its state file here.
	// Supports ~ expansion for home directory. Defaults to ~/.local/share/energy.
	DataDir string `json:"data_dir,omitempty"`

	// LogMode is "dev" (console) or "prod" (JSON).
	LogMode string `json:"log_mode,omitempty"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `json:"log_level,omitempty"`

	// ServerAddr is the listen address for `energy serve`.
	ServerAddr string `json:"server_addr,omitempty"`
}

// setting describes one key accepted by `energy config set`.
type setting struct {
	key   string
	def   string
	field func(*Config) *string
	check func(string) error
}

func oneOf(allowed ...string) func(string) error {
	return func(v string) error {
		for _, a := range allowed {
			if v == a {
				return nil
			}
		}
		return fmt.Errorf("must be one of %s", strings.Join(allowed, ", "))
	}
}

var settings = []setting{
	{"backend", BackendSQLite, func(c *Config) *string { return &c.Backend }, oneOf(BackendSQLite, BackendCharm)},
	{"data_dir", "", func(c *Config) *string { return &c.DataDir }, nil},
	{"log_mode", DefaultLogMode, func(c *Config) *string { return &c.LogMode }, oneOf("dev", "prod")},
	{"log_level", DefaultLogLevel, func(c *Config) *string { return &c.LogLevel }, func(v string) error {
		_, err := logger.ParseLevel(v)
		return err
	}},
	{"server_addr", DefaultServerAddr, func(c *Config) *string { return &c.ServerAddr }, nil},
}

func lookup(key string) (setting, bool) {
	for _, st := range settings {
		if st.key == key {
			return st, true
		}
	}
	return setting{}, false
}

// Get returns the effective value of key, falling back to its default.
// data_dir is returned expanded.
func (c *Config) Get(key string) string {
	if key == "data_dir" {
		return c.GetDataDir()
	}
	st, ok := lookup(key)
	if !ok {
		return ""
	}
	if v := *st.field(c); v != "" {
		return v
	}
	return st.def
}

func (c *Config) GetBackend() string    { return c.Get("backend") }
func (c *Config) GetLogMode() string    { return c.Get("log_mode") }
func (c *Config) GetLogLevel() string   { return c.Get("log_level") }
func (c *Config) GetServerAddr() string { return c.Get("server_addr") }

// GetDataDir is data_dir with ~ expanded, or the XDG data directory when unset.
func (c *Config) GetDataDir() string {
	if c.DataDir == "" {
		return storage.DataDir()
	}
	return ExpandPath(c.DataDir)
}

// DBPath returns the SQLite database path inside the data directory.
func (c *Config) DBPath() string {
	return filepath.Join(c.GetDataDir(), "energy.db")
}

// ExpandPath expands a leading ~ to the user's home directory.
func ExpandPath(path string) string {
	if path == "" {
		return ""
	}
	if path == "~" {
		home, _ := os.UserHomeDir()
		return home
	}
	if strings.HasPrefix(path, "~/") {
		home, _ := os.UserHomeDir()
		return filepath.Join(home, path[2:])
	}
	return path
}

// NewLogger builds the logger described by the config.
func (c *Config) NewLogger() (*logger.Logger, error) {
	return logger.New(c.GetLogMode(), c.GetLogLevel())
}

// OpenStorage creates a Repository implementation based on the configured backend.
func (c *Config) OpenStorage(log *logger.Logger) (storage.Repository, error) {
	return OpenBackend(c.GetBackend(), c.DBPath(), log)
}

// OpenBackend opens a named backend. dbPath is only used by sqlite.
func OpenBackend(backend, dbPath string, log *logger.Logger) (storage.Repository, error) {
	switch backend {
	case BackendSQLite:
		return storage.Open(dbPath, log)
	case BackendCharm:
		return charm.InitClient()
	default:
		return nil, fmt.Errorf("unknown backend: %q", backend)
	}
}

// Keys lists the settable config keys in sorted order.
func Keys() []string {
	keys := make([]string, 0, len(settings))
	for _, st := range settings {
		keys = append(keys, st.key)
	}
	sort.Strings(keys)
	return keys
}

// Set validates value and assigns it to key.
func (c *Config) Set(key, value string) error {
	st, ok := lookup(key)
	if !ok {
		return fmt.Errorf("unknown config key %q (valid: %s)", key, strings.Join(Keys(), ", "))
	}
	if st.check != nil {
		if err := st.check(value); err != nil {
			return fmt.Errorf("invalid %s %q: %w", key, value, err)
		}
	}
	*st.field(c) = value
	return nil
}

// GetConfigPath is $XDG_CONFIG_HOME/energy/config.json.
func GetConfigPath() string {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, _ := os.UserHomeDir()
		base = filepath.Join(home, ".config")
	}
	return filepath.Join(base, "energy", "config.json")
}

// Load reads config from disk. A missing file yields defaults.
func Load() (*Config, error) {
	path := GetConfigPath()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return &cfg, nil
}

// Save writes the config as indented JSON, creating its directory.
func (c *Config) Save() error {
	path := GetConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	return os.WriteFile(path, data, 0600)
}
