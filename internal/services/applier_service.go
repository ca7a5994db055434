package services

import (
	"sort"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"quill/internal/logger"
	"quill/internal/stylesheet"
	"quill/pkg/quilltypes"
)

// settingsKeyUITheme persists the selected theme name across sessions.
const settingsKeyUITheme = "ui/theme"

// DefaultBaseStyle is the widget style applied before any palette work.
const DefaultBaseStyle = "fusion"

// ThemeObserver is notified after a theme has been fully applied.
type ThemeObserver func(theme *quilltypes.ThemeDescriptor)

// ApplierService pushes a theme descriptor onto a style target in four
// ordered layers (base style, palette, component rules, theme stylesheet),
// then propagates the change to the theme and icon services and persists the
// selection. Observers fire exactly once per application, after everything
// else is done.
type ApplierService struct {
	initialized bool
	log         *log.Logger

	target   quilltypes.StyleTarget
	themes   *ThemeService
	icons    *IconService
	settings quilltypes.SettingsStore

	mu        sync.Mutex
	observers map[string]ThemeObserver
}

// NewApplierService creates an ApplierService. The target may be nil when no
// widget toolkit is attached; application then only updates services and
// settings.
func NewApplierService(target quilltypes.StyleTarget, themes *ThemeService, icons *IconService, settings quilltypes.SettingsStore) *ApplierService {
	return &ApplierService{
		log:       logger.NewStyledLogger("Applier"),
		target:    target,
		themes:    themes,
		icons:     icons,
		settings:  settings,
		observers: make(map[string]ThemeObserver),
	}
}

// Name returns the service name "applier" for registration.
func (a *ApplierService) Name() string {
	return "applier"
}

// Initialize marks the service ready. The first application is driven by the
// engine's startup sequence, not by initialization.
func (a *ApplierService) Initialize() error {
	a.initialized = true
	return nil
}

// Apply applies a theme descriptor end to end and persists its name as the
// session theme. The icon cache is cleared before this returns, so every
// subsequent icon request renders with the new theme colors.
func (a *ApplierService) Apply(theme *quilltypes.ThemeDescriptor) error {
	a.applyLayers(theme)

	a.themes.SetCurrent(theme)
	// SetThemeColors clears the whole icon cache and stores the colors.
	a.icons.SetThemeColors(theme.Icons.Primary, theme.Icons.Secondary, theme.Name())

	a.settings.Set(settingsKeyUITheme, theme.Name())
	if err := a.settings.Save(); err != nil {
		a.log.Warn("Failed to persist theme selection", "theme", theme.Name(), "error", err)
	}

	a.log.Info("Theme applied", "theme", theme.Name(), "dark", theme.IsDark())
	a.notify(theme)
	return nil
}

// Refresh re-applies the currently active theme, including any color
// overrides layered on it. Used after override edits so the UI and icon
// colors track the modified palette.
func (a *ApplierService) Refresh() {
	current := a.themes.Current()
	a.applyLayers(&current)
	a.icons.SetThemeColors(current.Icons.Primary, current.Icons.Secondary, current.Name())
	a.log.Debug("Theme refreshed", "theme", current.Name())
	a.notify(&current)
}

// applyLayers pushes the four styling layers onto the target in order. A
// failing layer is logged and the later layers still run, so a partially
// styled UI beats an unstyled one.
func (a *ApplierService) applyLayers(theme *quilltypes.ThemeDescriptor) {
	if a.target == nil {
		return
	}
	if err := a.target.ApplyBaseStyle(DefaultBaseStyle); err != nil {
		a.log.Warn("Base style rejected", "style", DefaultBaseStyle, "error", err)
	}
	if err := a.target.ApplyPalette(theme.Palette); err != nil {
		a.log.Warn("Palette rejected", "theme", theme.Name(), "error", err)
	}
	if err := a.target.ApplyComponentRules(stylesheet.Generate(theme)); err != nil {
		a.log.Warn("Component rules rejected", "theme", theme.Name(), "error", err)
	}
	if theme.Stylesheet != "" {
		if err := a.target.ApplyStylesheet(theme.Stylesheet); err != nil {
			a.log.Warn("Theme stylesheet rejected", "theme", theme.Name(), "error", err)
		}
	}
}

// Subscribe registers an observer and returns a token for Unsubscribe.
func (a *ApplierService) Subscribe(observer ThemeObserver) string {
	a.mu.Lock()
	defer a.mu.Unlock()

	token := uuid.New().String()
	a.observers[token] = observer
	return token
}

// Unsubscribe removes the observer registered under the given token.
func (a *ApplierService) Unsubscribe(token string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	delete(a.observers, token)
}

// notify fires every observer exactly once, in a stable order.
func (a *ApplierService) notify(theme *quilltypes.ThemeDescriptor) {
	a.mu.Lock()
	tokens := make([]string, 0, len(a.observers))
	for token := range a.observers {
		tokens = append(tokens, token)
	}
	sort.Strings(tokens)
	observers := make([]ThemeObserver, 0, len(tokens))
	for _, token := range tokens {
		observers = append(observers, a.observers[token])
	}
	a.mu.Unlock()

	for _, observer := range observers {
		observer(theme)
	}
}
