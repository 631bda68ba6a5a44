// Package migrations embeds the SQL schema applied by cmd/migrate and by
// the server when store.auto_migrate is set.
package migrations

import "embed"

// FS holds every *.sql file in this directory.
//
//go:embed *.sql
var FS embed.FS
