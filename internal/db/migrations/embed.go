// Package migrations содержит goose SQL-миграции схемы shop persistence.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
