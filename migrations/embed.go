// Package migrations содержит SQL схемы базы, встроенные в бинарники.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
