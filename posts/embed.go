// Package posts embeds the Markdown articles shipped with the site.
package posts

import "embed"

// FS holds the bundled *.md posts at its root.
//
//go:embed *.md
var FS embed.FS
