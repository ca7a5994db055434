package services

import (
	"strings"

	"github.com/charmbracelet/log"

	"quill/internal/logger"
	"quill/pkg/quilltypes"
)

// ThemeService owns the currently active theme descriptor. It tracks the
// base (as-loaded) theme separately from the current one so user color
// overrides can be applied and reset without reloading.
type ThemeService struct {
	initialized bool
	log         *log.Logger

	current   quilltypes.ThemeDescriptor
	base      quilltypes.ThemeDescriptor
	overrides map[string]quilltypes.Color
}

// NewThemeService creates a ThemeService primed with the fallback light
// theme, so a usable theme exists before any discovery or loading runs.
func NewThemeService() *ThemeService {
	svc := &ThemeService{
		log:       logger.NewStyledLogger("ThemeStore"),
		overrides: make(map[string]quilltypes.Color),
	}
	fallback := FallbackLight()
	svc.current = *fallback
	svc.base = *fallback
	return svc
}

// Name returns the service name "theme" for registration.
func (t *ThemeService) Name() string {
	return "theme"
}

// Initialize sets up the ThemeService for operation.
func (t *ThemeService) Initialize() error {
	t.initialized = true
	t.log.Debug("Theme store initialized", "theme", t.current.Name())
	return nil
}

// Current returns the active theme descriptor.
func (t *ThemeService) Current() quilltypes.ThemeDescriptor {
	return t.current
}

// ActiveName returns the active theme's name.
func (t *ThemeService) ActiveName() string {
	return t.current.Name()
}

// SetCurrent replaces both the current and base theme and drops any color
// overrides, which are bound to the theme they were made against.
func (t *ThemeService) SetCurrent(theme *quilltypes.ThemeDescriptor) {
	t.current = *theme
	t.base = *theme
	t.overrides = make(map[string]quilltypes.Color)
	t.log.Debug("Theme set", "theme", theme.Name())
}

// SetColorOverride applies a single color override to the current theme.
// Unknown keys are logged and ignored; invalid colors are rejected.
func (t *ThemeService) SetColorOverride(key string, color quilltypes.Color) {
	if !color.IsValid() {
		t.log.Warn("Invalid override color", "key", key, "color", string(color))
		return
	}
	if !setColorByKey(&t.current, key, color) {
		t.log.Warn("Unknown color key", "key", key)
		return
	}
	t.overrides[key] = color
}

// ApplyColorOverrides replaces the full override set, rebuilding the current
// theme from the base theme first.
func (t *ThemeService) ApplyColorOverrides(overrides map[string]quilltypes.Color) {
	t.current = t.base
	t.overrides = make(map[string]quilltypes.Color, len(overrides))
	for key, color := range overrides {
		t.SetColorOverride(key, color)
	}
	t.log.Info("Applied color overrides", "count", len(t.overrides))
}

// Overrides returns a copy of the active override set.
func (t *ThemeService) Overrides() map[string]quilltypes.Color {
	out := make(map[string]quilltypes.Color, len(t.overrides))
	for k, v := range t.overrides {
		out[k] = v
	}
	return out
}

// ResetColorOverrides restores the current theme to its base state.
func (t *ThemeService) ResetColorOverrides() {
	t.overrides = make(map[string]quilltypes.Color)
	t.current = t.base
	t.log.Info("Reset color overrides", "theme", t.current.Name())
}

func normalizeThemeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// setColorByKey routes a dotted override key to its theme field. Bare keys
// ("primary") address the icon base colors, matching the settings layout.
func setColorByKey(theme *quilltypes.ThemeDescriptor, key string, c quilltypes.Color) bool {
	switch key {
	case "primary", "icons.primary":
		theme.Icons.Primary = c
	case "secondary", "icons.secondary":
		theme.Icons.Secondary = c

	case "palette.window":
		theme.Palette.Window = c
	case "palette.windowText":
		theme.Palette.WindowText = c
	case "palette.base":
		theme.Palette.Base = c
	case "palette.alternateBase":
		theme.Palette.AlternateBase = c
	case "palette.text":
		theme.Palette.Text = c
	case "palette.button":
		theme.Palette.Button = c
	case "palette.buttonText":
		theme.Palette.ButtonText = c
	case "palette.highlight":
		theme.Palette.Highlight = c
	case "palette.highlightedText":
		theme.Palette.HighlightedText = c
	case "palette.light":
		theme.Palette.Light = c
	case "palette.midlight":
		theme.Palette.Midlight = c
	case "palette.mid":
		theme.Palette.Mid = c
	case "palette.dark":
		theme.Palette.Dark = c
	case "palette.shadow":
		theme.Palette.Shadow = c
	case "palette.link":
		theme.Palette.Link = c
	case "palette.linkVisited":
		theme.Palette.LinkVisited = c
	case "palette.toolTipBase":
		theme.Palette.ToolTipBase = c
	case "palette.toolTipText":
		theme.Palette.ToolTipText = c
	case "palette.placeholderText":
		theme.Palette.PlaceholderText = c
	case "palette.brightText":
		theme.Palette.BrightText = c

	case "editor.background":
		theme.Editor.Background = c
	case "editor.text":
		theme.Editor.Text = c
	case "editor.caret":
		theme.Editor.Caret = c
	case "editor.selection":
		theme.Editor.Selection = c
	case "editor.lineNumber":
		theme.Editor.LineNumber = c
	case "editor.currentLine":
		theme.Editor.CurrentLine = c

	case "log.trace":
		theme.Log.Trace = c
	case "log.debug":
		theme.Log.Debug = c
	case "log.info":
		theme.Log.Info = c
	case "log.warning":
		theme.Log.Warning = c
	case "log.error":
		theme.Log.Error = c
	case "log.critical":
		theme.Log.Critical = c
	case "log.background":
		theme.Log.Background = c

	default:
		return false
	}
	return true
}
