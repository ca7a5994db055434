package quilltypes

import "errors"

// Engine error taxonomy. Every one of these is recovered inside the engine
// with a logged diagnostic and a safe default; none escapes as a fatal error.
var (
	// ErrUnregisteredIcon is returned when an icon id has no descriptor.
	ErrUnregisteredIcon = errors.New("icon not registered")

	// ErrResourceNotFound is returned when an icon source path is missing or
	// unreadable.
	ErrResourceNotFound = errors.New("resource not found")

	// ErrMarkupInvalid is returned when the rasterizer rejects icon markup.
	ErrMarkupInvalid = errors.New("icon markup invalid")

	// ErrCorruptSetting is returned when a persisted value fails validation.
	ErrCorruptSetting = errors.New("corrupt setting value")

	// ErrSourceUnavailable is returned when a discovery source cannot be
	// scanned.
	ErrSourceUnavailable = errors.New("plugin source unavailable")

	// ErrProtectedRemovalDenied is returned when removal of a protected core
	// source is attempted. The catalog is left unchanged.
	ErrProtectedRemovalDenied = errors.New("protected source cannot be removed")
)
