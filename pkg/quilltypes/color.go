// Package quilltypes defines the shared data structures for Quill's resource
// engine: colors, icon and theme descriptors, plugin provenance, and the
// service interfaces that tie them together.
package quilltypes

import (
	"fmt"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// Color is a validated color in "#rrggbb" hex form. The zero value is not a
// valid color; construct through ParseColor or MustColor.
type Color string

// ParseColor validates and normalizes a hex color string. Input may use upper
// or lower case and surrounding whitespace; the result is always lowercase
// "#rrggbb".
func ParseColor(s string) (Color, error) {
	trimmed := strings.ToLower(strings.TrimSpace(s))
	// colorful.Hex scans with Sscanf, which accepts truncated input like
	// "#11223" as "#112203", so the shape has to be checked up front.
	if len(trimmed) != 7 && len(trimmed) != 4 {
		return "", fmt.Errorf("invalid color %q: want #rgb or #rrggbb", s)
	}
	c, err := colorful.Hex(trimmed)
	if err != nil {
		return "", fmt.Errorf("invalid color %q: %w", s, err)
	}
	return Color(c.Hex()), nil
}

// MustColor parses a hex color and panics on failure. Reserved for hardcoded
// fallback values, where an invalid literal is a programming defect.
func MustColor(s string) Color {
	c, err := ParseColor(s)
	if err != nil {
		panic(err)
	}
	return c
}

// ParseColorDefault parses a hex color, substituting def when the value is
// invalid. Returns the color and whether the original value was usable.
func ParseColorDefault(s string, def Color) (Color, bool) {
	c, err := ParseColor(s)
	if err != nil {
		return def, false
	}
	return c, true
}

// Hex returns the lowercase "#rrggbb" representation.
func (c Color) Hex() string {
	return string(c)
}

// IsValid reports whether c holds a parseable hex color.
func (c Color) IsValid() bool {
	_, err := ParseColor(string(c))
	return err == nil
}

// IsDark reports whether the color is dark by relative luminance. Used to
// pick light-on-dark defaults when a theme omits optional color groups.
func (c Color) IsDark() bool {
	col, err := colorful.Hex(string(c))
	if err != nil {
		return false
	}
	r, g, b := col.RGB255()
	luminance := (int(r)*299 + int(g)*587 + int(b)*114) / 1000
	return luminance < 128
}

// Lighter returns the color with its HSV value scaled by factor/100.
// Lighter(120) brightens by 20%; values are clamped to the valid range.
func (c Color) Lighter(factor int) Color {
	return c.scaleValue(float64(factor) / 100.0)
}

// Darker returns the color with its HSV value scaled by 100/factor.
// Darker(120) darkens by ~17%.
func (c Color) Darker(factor int) Color {
	if factor <= 0 {
		return c
	}
	return c.scaleValue(100.0 / float64(factor))
}

func (c Color) scaleValue(scale float64) Color {
	col, err := colorful.Hex(string(c))
	if err != nil {
		return c
	}
	h, s, v := col.Hsv()
	v *= scale
	if v > 1.0 {
		v = 1.0
	}
	if v < 0.0 {
		v = 0.0
	}
	return Color(colorful.Hsv(h, s, v).Clamped().Hex())
}
