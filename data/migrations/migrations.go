// Package migrations embeds the goose SQL migrations shared by every dialect.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
