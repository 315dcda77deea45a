// ABOUTME: Opens the SQLite store and applies goose migrations.
// ABOUTME: Pure Go driver (modernc.org/sqlite); connection pragmas ride on the DSN.
package storage

import (
	"database/sql"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/harperreed/energy/internal/logger"
	_ "modernc.org/sqlite"
)

// Applied to every pooled connection, not just the first one.
var connPragmas = []string{
	"journal_mode(WAL)",
	"foreign_keys(1)",
	"busy_timeout(5000)",
	"synchronous(NORMAL)",
}

// DB is the SQLite-backed Repository.
type DB struct {
	db  *sql.DB
	log *logger.Logger
}

// Open creates the parent directory if needed, opens the file with mode 0600
// and migrates it to the latest schema. log may be nil.
func Open(path string, log *logger.Logger) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}

	sqlDB, err := sql.Open("sqlite", dsn(path))
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// sql.Open is lazy; ping so the file exists before chmod.
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("open database %s: %w", path, err)
	}
	if err := os.Chmod(path, 0600); err != nil && !os.IsNotExist(err) {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("restrict database permissions: %w", err)
	}

	if err := RunMigrations(sqlDB); err != nil {
		_ = sqlDB.Close()
		return nil, err
	}

	d := &DB{db: sqlDB, log: logger.OrNop(log).With("db", path)}
	d.log.Debug("database opened")
	return d, nil
}

// dsn appends the pragmas as query parameters. Without a "file:" prefix the
// driver strips the query and opens path as a plain filename.
func dsn(path string) string {
	q := url.Values{}
	for _, p := range connPragmas {
		q.Add("_pragma", p)
	}
	return path + "?" + q.Encode()
}

// DataDir is $XDG_DATA_HOME/energy, falling back to ~/.local/share/energy.
func DataDir() string {
	base := os.Getenv("XDG_DATA_HOME")
	if base == "" {
		home, _ := os.UserHomeDir()
		base = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(base, "energy")
}

// Close closes the connection pool.
func (d *DB) Close() error {
	if d.db == nil {
		return nil
	}
	return d.db.Close()
}

// resolveID finds the full ID in table from a full ID or prefix.
func (d *DB) resolveID(table, idOrPrefix string) (string, error) {
	if len(idOrPrefix) == 36 && strings.Count(idOrPrefix, "-") == 4 {
		return idOrPrefix, nil
	}
	if idOrPrefix == "" {
		return "", fmt.Errorf("%w: empty id", ErrNotFound)
	}

	// table is always one of our own constants, never user input.
	query := `SELECT id FROM ` + table + ` WHERE id LIKE ? || '%'`
	rows, err := d.db.Query(query, idOrPrefix)
	if err != nil {
		return "", fmt.Errorf("resolve %s ID: %w", table, err)
	}
	defer rows.Close()

	var matches []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return "", fmt.Errorf("scan %s ID: %w", table, err)
		}
		matches = append(matches, id)
	}
	if err := rows.Err(); err != nil {
		return "", fmt.Errorf("resolve %s ID: %w", table, err)
	}

	return pickMatch(idOrPrefix, matches)
}

// pickMatch turns a list of prefix matches into a single ID or a sentinel error.
func pickMatch(idOrPrefix string, matches []string) (string, error) {
	switch len(matches) {
	case 0:
		return "", fmt.Errorf("%w: %s", ErrNotFound, idOrPrefix)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("%w %s: matches multiple records", ErrAmbiguous, idOrPrefix)
	}
}
