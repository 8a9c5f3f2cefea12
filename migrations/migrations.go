// Package migrations embeds the journal schema migrations.
package migrations

import "embed"

//go:embed sqlite/*.sql
var FS embed.FS
