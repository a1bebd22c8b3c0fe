// Package content holds the reading list shipped with the binary.
package content

import "embed"

//go:embed resources/*.md
var ResourcesFS embed.FS
