// Package embedded provides access to the built-in fallback resources: the
// light/dark fallback theme descriptors and the fallback icon set. These are
// compiled into the binary so the engine can always produce a themed,
// iconified UI even when every external source is broken or absent.
package embedded

import _ "embed"

// LightThemeData contains the embedded fallback light theme.
//
//go:embed themes/light.yaml
var LightThemeData []byte

// DarkThemeData contains the embedded fallback dark theme.
//
//go:embed themes/dark.yaml
var DarkThemeData []byte
