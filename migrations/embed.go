// ABOUTME: Embeds the goose SQL migrations for the SQLite store.
// ABOUTME: Files are applied in numeric order by storage.RunMigrations.
package migrations

import "embed"

// FS holds every *.sql migration file.
//
//go:embed *.sql
var FS embed.FS
