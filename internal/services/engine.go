package services

import (
	"fmt"

	"github.com/charmbracelet/log"

	"quill/internal/logger"
	"quill/internal/render"
	"quill/internal/statemachine"
	"quill/pkg/quilltypes"
)

// Engine owns the resource services and drives them through the startup
// sequence. Callers construct one engine per application instance; nothing
// here is global.
type Engine struct {
	log *log.Logger

	registry  *Registry
	settings  quilltypes.SettingsStore
	themes    *ThemeService
	icons     *IconService
	discovery *DiscoveryService
	applier   *ApplierService
	startup   *statemachine.Machine
}

// EngineOptions configures engine construction.
type EngineOptions struct {
	// Settings is the backing store for persisted state. Required.
	Settings quilltypes.SettingsStore

	// Target receives the styling layers on theme application. May be nil.
	Target quilltypes.StyleTarget

	// Rasterizer renders icon markup. Defaults to the SVG rasterizer.
	Rasterizer quilltypes.Rasterizer

	// CoreDirs and UserDirs are the theme source directories to scan.
	CoreDirs []string
	UserDirs []string
}

// NewEngine wires the services together and registers them. Nothing is
// initialized or applied until Start.
func NewEngine(opts EngineOptions) (*Engine, error) {
	if opts.Settings == nil {
		return nil, fmt.Errorf("settings store is required")
	}
	rasterizer := opts.Rasterizer
	if rasterizer == nil {
		rasterizer = render.NewSVGRasterizer()
	}

	e := &Engine{
		log:       logger.NewStyledLogger("Engine"),
		registry:  NewRegistry(),
		settings:  opts.Settings,
		themes:    NewThemeService(),
		icons:     NewIconService(rasterizer, opts.Settings),
		discovery: NewDiscoveryService(opts.CoreDirs, opts.UserDirs),
		startup:   statemachine.NewMachine(),
	}
	e.applier = NewApplierService(opts.Target, e.themes, e.icons, opts.Settings)

	for _, svc := range []quilltypes.Service{e.themes, e.icons, e.discovery, e.applier} {
		if err := e.registry.RegisterService(svc); err != nil {
			return nil, err
		}
	}
	return e, nil
}

// Themes returns the theme service.
func (e *Engine) Themes() *ThemeService { return e.themes }

// Icons returns the icon service.
func (e *Engine) Icons() *IconService { return e.icons }

// Discovery returns the discovery service.
func (e *Engine) Discovery() *DiscoveryService { return e.discovery }

// Applier returns the applier service.
func (e *Engine) Applier() *ApplierService { return e.applier }

// Settings returns the backing settings store.
func (e *Engine) Settings() quilltypes.SettingsStore { return e.settings }

// State returns the startup state the engine has reached.
func (e *Engine) State() statemachine.StartupState { return e.startup.State() }

// Ready reports whether startup completed.
func (e *Engine) Ready() bool { return e.startup.AtLeast(statemachine.Ready) }

// Start runs the startup sequence. The fallback stage must succeed; every
// later stage is best-effort, and a failure leaves the engine usable in the
// last state reached. The error of the first failed stage is returned.
func (e *Engine) Start() error {
	// Applying the fallback persists its name as the selection, so the
	// saved selection must be captured first.
	saved := e.settings.GetString(settingsKeyUITheme, "")

	if err := e.startup.Advance(statemachine.FallbackActive, e.applyFallback); err != nil {
		return fmt.Errorf("fallback theme: %w", err)
	}

	if err := e.startup.Advance(statemachine.PluginsDiscovered, func() error {
		return e.registry.InitializeAll()
	}); err != nil {
		return err
	}

	if err := e.startup.Advance(statemachine.UserThemeApplied, func() error {
		return e.applySavedTheme(saved)
	}); err != nil {
		return err
	}

	if err := e.startup.Advance(statemachine.Ready, func() error { return nil }); err != nil {
		return err
	}
	e.log.Info("Engine ready", "theme", e.themes.ActiveName())
	return nil
}

// applyFallback installs the embedded fallback theme so that every icon and
// palette request has an answer before any source is scanned.
func (e *Engine) applyFallback() error {
	return e.applier.Apply(FallbackLight())
}

// applySavedTheme restores the persisted theme selection. A missing setting
// keeps the fallback; a selection that no longer resolves falls back with a
// warning rather than failing startup.
func (e *Engine) applySavedTheme(saved string) error {
	if saved == "" || saved == e.themes.ActiveName() {
		return nil
	}
	if err := e.ApplyThemeByName(saved); err != nil {
		e.log.Warn("Saved theme unavailable, keeping fallback", "theme", saved, "error", err)
	}
	return nil
}

// ApplyThemeByName resolves a theme through the catalog and applies it.
// The error for an unknown name carries a closest-match suggestion when one
// exists.
func (e *Engine) ApplyThemeByName(name string) error {
	entry, ok := e.discovery.Resolve(name)
	if !ok {
		if suggestion := e.discovery.Suggest(name); suggestion != "" {
			return fmt.Errorf("%w: theme %q (did you mean %q?)",
				quilltypes.ErrResourceNotFound, name, suggestion)
		}
		return fmt.Errorf("%w: theme %q", quilltypes.ErrResourceNotFound, name)
	}
	theme, err := e.discovery.LoadEntry(entry)
	if err != nil {
		return err
	}
	return e.applier.Apply(theme)
}

// RemoveSource removes a theme source. When the removed source provided the
// active theme, the same name is re-resolved against the remaining catalog,
// so a Core theme shadowed by the removed User source is restored; when the
// name no longer resolves at all, the fallback matching the active theme's
// darkness takes over.
func (e *Engine) RemoveSource(id string) error {
	active := e.themes.ActiveName()
	wasDark := e.themes.Current().IsDark()

	if err := e.discovery.RemoveSource(id); err != nil {
		return err
	}

	if entry, ok := e.discovery.Resolve(active); ok {
		theme, err := e.discovery.LoadEntry(entry)
		if err == nil {
			return e.applier.Apply(theme)
		}
		e.log.Warn("Re-resolved theme failed to load, falling back",
			"theme", active, "error", err)
	}

	fallback := FallbackLight()
	if wasDark {
		fallback = FallbackDark()
	}
	return e.applier.Apply(fallback)
}
