// Package migrations embeds the SurrealDB schema files.
package migrations

import "embed"

// Files holds the .surql migrations, applied in lexical order.
//
//go:embed *.surql
var Files embed.FS
