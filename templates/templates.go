// Package templates embeds the stock Katana node templates shipped with m2k.
//
// Each file under prman/ is the default state of one PrmanShadingNode type,
// named after the Maya node type it maps (PxrSurface.xml for PxrSurface).
package templates

import "embed"

// Dir is the directory inside FS holding the RenderMan templates.
const Dir = "prman"

// FS holds the embedded template files.
//
//go:embed prman/*.xml
var FS embed.FS
