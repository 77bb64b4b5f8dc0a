// Package migrations embeds the goose SQL migrations so the server binary
// can bring the schema up to date without shipping separate files.
package migrations

import "embed"

// FS holds the embedded migration files, ordered by version prefix.
//
//go:embed *.sql
var FS embed.FS
