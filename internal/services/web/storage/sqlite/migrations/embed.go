package migrations

import "embed"

// FS contains embedded SQLite migrations for web dismissal storage.
//
//go:embed *.sql
var FS embed.FS
