// Package assets embute css/ e js/ servidos em /assets/.
package assets

import "embed"

//go:embed css js
var FS embed.FS
