// Package patches holds goose SQL migrations of the blog schema.
package patches

import "embed"

//go:embed *.sql
var FS embed.FS
