// Package migrations holds the Postgres schema as goose SQL migrations.
// The server applies them on start when MIGRATE_ON_START is set.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
