package migrations

import "embed"

// FS holds the SQL migrations applied by the SQLite gateway on startup.
//
//go:embed *.sql
var FS embed.FS
