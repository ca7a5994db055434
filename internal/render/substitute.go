// Package render turns icon markup into pixels: it substitutes color
// placeholders into the markup text and rasterizes the result through a
// Rasterizer implementation.
package render

import (
	"strings"

	"quill/pkg/quilltypes"
)

// Placeholder tokens replaced in icon markup before rasterization.
const (
	PrimaryToken   = "{COLOR_PRIMARY}"
	SecondaryToken = "{COLOR_SECONDARY}"
)

// Substitute replaces all occurrences of the primary and secondary color
// tokens with the hex form of each color. The transform is total and
// idempotent: tokens are consumed on the first pass, and unknown tokens are
// left untouched.
func Substitute(markup string, primary, secondary quilltypes.Color) string {
	out := strings.ReplaceAll(markup, PrimaryToken, primary.Hex())
	out = strings.ReplaceAll(out, SecondaryToken, secondary.Hex())
	return out
}
