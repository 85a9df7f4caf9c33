// Package templates embeds the default workspace files.
package templates

import "embed"

//go:embed config.yaml input.md
var FS embed.FS
