// Package migrations embeds the goose SQL migrations so they ship inside
// the server binary and run at startup.
package migrations

import "embed"

// FS holds the embedded SQL migration files.
//
//go:embed *.sql
var FS embed.FS
