// Package migrations содержит схему PostgreSQL в формате golang-migrate.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
