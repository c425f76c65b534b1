// Package migrations holds the schema of the response cache database.
package migrations

import "embed"

// FS holds the numbered up and down migrations, applied in name order.
//
//go:embed *.sql
var FS embed.FS
