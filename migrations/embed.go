// Package migrations embeds the goose SQL migrations for the notification
// service schema, applied at startup via pg.Migrate.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
