// Package stylesheet generates component-targeted style rules from a theme.
// The palette covers almost all widget styling; rules are only emitted for
// the few components where palette roles alone do not fully apply.
package stylesheet

import (
	"fmt"

	"quill/pkg/quilltypes"
)

// Generate returns the component style rules for a theme. These form the
// third application layer, after the base style and the palette.
func Generate(theme *quilltypes.ThemeDescriptor) string {
	return tooltipRules(theme) + logPanelRules(theme)
}

// tooltipRules styles tooltips explicitly; tooltip palette roles do not
// fully apply without them.
func tooltipRules(theme *quilltypes.ThemeDescriptor) string {
	return fmt.Sprintf(`ToolTip {
    background-color: %s;
    color: %s;
    border: 1px solid %s;
    padding: 0px 2px;
    margin: 0px;
    border-radius: 0px;
}
`,
		theme.Palette.ToolTipBase.Hex(),
		theme.Palette.ToolTipText.Hex(),
		borderColor(theme).Hex(),
	)
}

// logPanelRules styles the log panel background, which sits outside the
// standard palette roles.
func logPanelRules(theme *quilltypes.ThemeDescriptor) string {
	return fmt.Sprintf(`LogPanel {
    background-color: %s;
    color: %s;
}
`,
		theme.Log.Background.Hex(),
		theme.Log.Info.Hex(),
	)
}

func borderColor(theme *quilltypes.ThemeDescriptor) quilltypes.Color {
	return theme.Palette.Mid
}

// Darken returns the color darkened by percent.
func Darken(c quilltypes.Color, percent int) quilltypes.Color {
	return c.Darker(100 + percent)
}

// Lighten returns the color lightened by percent.
func Lighten(c quilltypes.Color, percent int) quilltypes.Color {
	return c.Lighter(100 + percent)
}
