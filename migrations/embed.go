// Package migrations встраивает SQL-миграции goose для схемы БД.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
