// Package migrations holds the report database schema as numbered SQL files.
// Files named NNN_name.up.sql are applied in order; .down.sql files are kept
// for manual rollback and never run by the store.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
