// assets/embed.go
//
// Embedded SQL migrations for the score store. Files are applied in lexical
// order by scores.Migrate and recorded in the _migrations table.

package assets

import "embed"

//go:embed migrations/*.sql
var Migrations embed.FS
