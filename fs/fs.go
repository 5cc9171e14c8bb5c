// Package appfs embeds static assets so binaries stay self-contained.
package appfs

import "embed"

// The base templates carry a leading underscore, which plain directory
// embedding skips; name them explicitly.
//
//go:embed assets
//go:embed assets/templates/email/_base.txt assets/templates/email/_base.gohtml
var FS embed.FS
