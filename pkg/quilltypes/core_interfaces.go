package quilltypes

import "image"

// Service defines the interface all engine services implement for
// registration and lifecycle management.
type Service interface {
	Name() string
	Initialize() error
}

// SettingsStore is the persistence collaborator: a durable key/value store
// keyed by slash-delimited strings. In-memory state stays authoritative for
// the session when the store is slow or unavailable.
type SettingsStore interface {
	GetString(key, def string) string
	GetInt(key string, def int) int
	Set(key string, value any)
	Remove(key string)
	Has(key string) bool
	Save() error
}

// Rasterizer is the rendering collaborator: it turns substituted markup and
// a pixel size into a square image, or reports the markup invalid.
type Rasterizer interface {
	Rasterize(markup []byte, size int) (image.Image, error)
}

// StyleTarget receives the four ordered layers of a theme application. The
// engine guarantees call order: base style, palette, component rules, then
// the optional stylesheet override.
type StyleTarget interface {
	ApplyBaseStyle(name string) error
	ApplyPalette(p Palette) error
	ApplyComponentRules(rules string) error
	ApplyStylesheet(sheet string) error
}
