// Package migrations contains embedded SQLite migrations for batch traces.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
