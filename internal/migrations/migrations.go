// Package migrations embeds the schema files applied at startup.
package migrations

import "embed"

//go:embed *.up.sql
var FS embed.FS
