package services

import (
	"fmt"
	"image"
	"os"
	"sort"

	"github.com/charmbracelet/log"

	"quill/internal/cache"
	"quill/internal/data/embedded"
	"quill/internal/logger"
	"quill/internal/render"
	"quill/pkg/quilltypes"
)

// Settings keys used by the icon service.
const (
	keyIconThemeName      = "icons/theme/name"
	keyIconThemePrimary   = "icons/theme/primary_color"
	keyIconThemeSecondary = "icons/theme/secondary_color"
	keyIconSizesPrefix    = "icons/sizes/"
	keyIconCustomPrefix   = "icons/custom/"
)

// Defaults applied when no persisted icon theme exists.
var (
	defaultIconPrimary   = quilltypes.MustColor("#424242")
	defaultIconSecondary = quilltypes.MustColor("#757575")
)

// IconService owns the icon descriptors and performs icon resolution:
// effective path and colors, placeholder substitution, rasterization, and
// caching. Mutations invalidate exactly the cache entries they touch.
type IconService struct {
	initialized bool
	log         *log.Logger

	icons     map[string]*quilltypes.IconDescriptor
	themeName string
	theme     quilltypes.ThemeColors
	sizes     quilltypes.SizeConfig

	cache      *cache.ImageCache
	rasterizer quilltypes.Rasterizer
	settings   quilltypes.SettingsStore
}

// NewIconService creates an IconService using the given rasterizer and
// settings store.
func NewIconService(rasterizer quilltypes.Rasterizer, settings quilltypes.SettingsStore) *IconService {
	return &IconService{
		log:        logger.NewStyledLogger("IconStore"),
		icons:      make(map[string]*quilltypes.IconDescriptor),
		themeName:  "Light",
		theme:      quilltypes.ThemeColors{Primary: defaultIconPrimary, Secondary: defaultIconSecondary},
		sizes:      quilltypes.DefaultSizes(),
		cache:      cache.NewImageCache(),
		rasterizer: rasterizer,
		settings:   settings,
	}
}

// Name returns the service name "icon" for registration.
func (s *IconService) Name() string {
	return "icon"
}

// Initialize registers the fallback icon set and loads persisted
// customizations.
func (s *IconService) Initialize() error {
	for _, id := range embedded.IconIDs() {
		s.RegisterIcon(id, embedded.IconPath(id), id)
	}
	s.loadFromSettings()
	s.initialized = true
	s.log.Info("Icon store initialized", "icons", len(s.icons), "theme", s.themeName)
	return nil
}

// RegisterIcon inserts a descriptor for id. Re-registering overwrites the
// default path and label but preserves user overrides; the cache is not
// touched.
func (s *IconService) RegisterIcon(id, defaultPath, label string) {
	if desc, exists := s.icons[id]; exists {
		desc.DefaultPath = defaultPath
		desc.Label = label
		s.log.Debug("Icon re-registered", "icon", id)
		return
	}
	s.icons[id] = &quilltypes.IconDescriptor{
		ID:          id,
		DefaultPath: defaultPath,
		Label:       label,
	}
	s.log.Debug("Icon registered", "icon", id, "label", label)
}

// HasIcon reports whether id is registered.
func (s *IconService) HasIcon(id string) bool {
	_, ok := s.icons[id]
	return ok
}

// IconIDs returns all registered icon ids, sorted.
func (s *IconService) IconIDs() []string {
	ids := make([]string, 0, len(s.icons))
	for id := range s.icons {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Label returns the display label for id, or "" when unregistered.
func (s *IconService) Label(id string) string {
	if desc, ok := s.icons[id]; ok {
		return desc.Label
	}
	return ""
}

// Descriptor returns a copy of the descriptor for id.
func (s *IconService) Descriptor(id string) (quilltypes.IconDescriptor, bool) {
	desc, ok := s.icons[id]
	if !ok {
		return quilltypes.IconDescriptor{}, false
	}
	return *desc, true
}

// SetCustomPath points id at user-supplied markup. Unregistered ids are a
// logged no-op. Only this icon's cache entries are invalidated.
func (s *IconService) SetCustomPath(id, path string) {
	desc, ok := s.icons[id]
	if !ok {
		s.log.Warn("Cannot set custom path for unregistered icon", "icon", id)
		return
	}
	desc.UserPath = &path
	s.log.Info("Custom path set", "icon", id, "path", path)
	s.cache.ClearIcon(id)
	s.saveIconToSettings(id)
}

// ClearCustomPath removes the user path override for id.
func (s *IconService) ClearCustomPath(id string) {
	desc, ok := s.icons[id]
	if !ok {
		s.log.Warn("Cannot clear custom path for unregistered icon", "icon", id)
		return
	}
	desc.UserPath = nil
	s.log.Info("Custom path cleared", "icon", id)
	s.cache.ClearIcon(id)
	s.saveIconToSettings(id)
}

// SetPrimaryOverride sets a per-icon primary color override.
func (s *IconService) SetPrimaryOverride(id string, color quilltypes.Color) {
	desc, ok := s.icons[id]
	if !ok {
		s.log.Warn("Cannot set primary color for unregistered icon", "icon", id)
		return
	}
	desc.PrimaryOverride = &color
	s.log.Info("Primary color set", "icon", id, "color", color.Hex())
	s.cache.ClearIcon(id)
	s.saveIconToSettings(id)
}

// SetSecondaryOverride sets a per-icon secondary color override.
func (s *IconService) SetSecondaryOverride(id string, color quilltypes.Color) {
	desc, ok := s.icons[id]
	if !ok {
		s.log.Warn("Cannot set secondary color for unregistered icon", "icon", id)
		return
	}
	desc.SecondaryOverride = &color
	s.log.Info("Secondary color set", "icon", id, "color", color.Hex())
	s.cache.ClearIcon(id)
	s.saveIconToSettings(id)
}

// ClearColors removes both per-icon color overrides for id.
func (s *IconService) ClearColors(id string) {
	desc, ok := s.icons[id]
	if !ok {
		s.log.Warn("Cannot clear colors for unregistered icon", "icon", id)
		return
	}
	desc.PrimaryOverride = nil
	desc.SecondaryOverride = nil
	s.log.Info("Color overrides cleared", "icon", id)
	s.cache.ClearIcon(id)
	s.saveIconToSettings(id)
}

// ResetAll clears every descriptor's overrides, resets the active icon theme
// and sizes to defaults, and flushes the entire cache.
func (s *IconService) ResetAll() {
	for _, desc := range s.icons {
		desc.UserPath = nil
		desc.PrimaryOverride = nil
		desc.SecondaryOverride = nil
	}
	s.themeName = "Light"
	s.theme = quilltypes.ThemeColors{Primary: defaultIconPrimary, Secondary: defaultIconSecondary}
	s.sizes = quilltypes.DefaultSizes()
	s.cache.Clear()
	s.saveToSettings()
	s.log.Info("All icon customizations reset")
}

// EffectivePath resolves the markup path for id: user override wins over the
// default path.
func (s *IconService) EffectivePath(id string) (string, bool) {
	desc, ok := s.icons[id]
	if !ok {
		return "", false
	}
	return desc.EffectivePath(), true
}

// EffectiveColors resolves the colors for id: per-icon overrides win over
// the active theme's base colors. Unregistered ids get the theme colors.
func (s *IconService) EffectiveColors(id string) quilltypes.ThemeColors {
	colors := s.theme
	desc, ok := s.icons[id]
	if !ok {
		return colors
	}
	if desc.PrimaryOverride != nil {
		colors.Primary = *desc.PrimaryOverride
	}
	if desc.SecondaryOverride != nil {
		colors.Secondary = *desc.SecondaryOverride
	}
	return colors
}

// SetSizes replaces the per-context size configuration. Invalid configs are
// rejected with a warning. All cached entries are rendered at the old sizes,
// so the whole cache is flushed.
func (s *IconService) SetSizes(sizes quilltypes.SizeConfig) {
	if !sizes.Valid() {
		s.log.Warn("Rejecting size config with non-positive entries")
		return
	}
	s.sizes = sizes
	s.log.Info("Icon sizes updated",
		"toolbar", sizes.Toolbar, "menu", sizes.Menu, "panel", sizes.Panel, "dialog", sizes.Dialog)
	s.cache.Clear()
	s.saveToSettings()
}

// ResetSizes restores the default size configuration.
func (s *IconService) ResetSizes() {
	s.sizes = quilltypes.DefaultSizes()
	s.log.Info("Icon sizes reset to defaults")
	s.cache.Clear()
	s.saveToSettings()
}

// Sizes returns the active size configuration.
func (s *IconService) Sizes() quilltypes.SizeConfig {
	return s.sizes
}

// SizeFor returns the pixel size for a UI context.
func (s *IconService) SizeFor(ctx quilltypes.IconContext) int {
	return s.sizes.ForContext(ctx)
}

// SetThemeColors replaces the base colors all icons are tinted with. Every
// cached image was rendered with the old colors, so the cache is flushed
// before this returns.
func (s *IconService) SetThemeColors(primary, secondary quilltypes.Color, name string) {
	s.theme = quilltypes.ThemeColors{Primary: primary, Secondary: secondary}
	s.themeName = name
	s.log.Info("Icon theme changed", "theme", name,
		"primary", primary.Hex(), "secondary", secondary.Hex())
	s.cache.Clear()
	s.saveToSettings()
}

// ResetTheme restores the default light icon theme.
func (s *IconService) ResetTheme() {
	s.SetThemeColors(defaultIconPrimary, defaultIconSecondary, "Light")
}

// ThemeColors returns the active base colors.
func (s *IconService) ThemeColors() quilltypes.ThemeColors {
	return s.theme
}

// ThemeName returns the active icon theme name.
func (s *IconService) ThemeName() string {
	return s.themeName
}

// GetIcon resolves the icon for id at the given pixel size under the active
// theme. Failures are logged and produce the empty placeholder image; they
// are never cached, so a later successful load is not blocked.
func (s *IconService) GetIcon(id string, size int) image.Image {
	return s.GetIconWithColors(id, s.themeName, s.theme, size)
}

// GetIconForContext resolves the icon for id at the size configured for a
// UI context.
func (s *IconService) GetIconForContext(id string, ctx quilltypes.IconContext) image.Image {
	return s.GetIcon(id, s.sizes.ForContext(ctx))
}

// GetIconWithColors resolves the icon for id tinted with an explicit base
// color pair instead of the active icon theme. Per-icon overrides still take
// precedence, and themeName discriminates the cache key so renders under
// different themes never collide.
func (s *IconService) GetIconWithColors(id, themeName string, base quilltypes.ThemeColors, size int) image.Image {
	desc, ok := s.icons[id]
	if !ok {
		s.log.Warn("Icon not registered", "icon", id)
		return render.EmptyImage(size)
	}

	colors := base
	if desc.PrimaryOverride != nil {
		colors.Primary = *desc.PrimaryOverride
	}
	if desc.SecondaryOverride != nil {
		colors.Secondary = *desc.SecondaryOverride
	}
	key := cache.Key{
		IconID:    id,
		Theme:     themeName,
		Size:      size,
		Primary:   colors.Primary,
		Secondary: colors.Secondary,
	}

	if img, ok := s.cache.Get(key); ok {
		return img
	}

	path, _ := s.EffectivePath(id)
	markup, err := s.loadMarkup(path)
	if err != nil {
		s.log.Warn("Failed to load icon markup", "icon", id, "path", path, "error", err)
		return render.EmptyImage(size)
	}

	processed := render.Substitute(string(markup), colors.Primary, colors.Secondary)

	img, err := s.rasterizer.Rasterize([]byte(processed), size)
	if err != nil {
		s.log.Error("Failed to rasterize icon", "icon", id, "error", err)
		return render.EmptyImage(size)
	}

	s.cache.Put(key, img)
	return img
}

// CacheLen exposes the number of cached images, for diagnostics.
func (s *IconService) CacheLen() int {
	return s.cache.Len()
}

// ClearCache flushes the whole image cache.
func (s *IconService) ClearCache() {
	n := s.cache.Clear()
	s.log.Debug("Cleared icon cache", "entries", n)
}

// loadMarkup reads icon markup from the embedded set or the filesystem.
func (s *IconService) loadMarkup(path string) ([]byte, error) {
	if embedded.IsEmbeddedPath(path) {
		return embedded.ReadIcon(path)
	}
	return os.ReadFile(path)
}

// saveToSettings persists the icon theme, sizes, and every per-icon
// customization. Until Initialize has loaded the persisted state, mutations
// such as the fallback theme apply must not write through, or they would
// clobber the stored customizations before they are read.
func (s *IconService) saveToSettings() {
	if s.settings == nil || !s.initialized {
		return
	}
	s.settings.Set(keyIconThemeName, s.themeName)
	s.settings.Set(keyIconThemePrimary, s.theme.Primary.Hex())
	s.settings.Set(keyIconThemeSecondary, s.theme.Secondary.Hex())

	s.settings.Set(keyIconSizesPrefix+"toolbar", s.sizes.Toolbar)
	s.settings.Set(keyIconSizesPrefix+"menu", s.sizes.Menu)
	s.settings.Set(keyIconSizesPrefix+"tree_view", s.sizes.TreeView)
	s.settings.Set(keyIconSizesPrefix+"tab_bar", s.sizes.TabBar)
	s.settings.Set(keyIconSizesPrefix+"status_bar", s.sizes.StatusBar)
	s.settings.Set(keyIconSizesPrefix+"button", s.sizes.Button)
	s.settings.Set(keyIconSizesPrefix+"panel", s.sizes.Panel)
	s.settings.Set(keyIconSizesPrefix+"dialog", s.sizes.Dialog)

	for id := range s.icons {
		s.writeIconKeys(id)
	}

	if err := s.settings.Save(); err != nil {
		s.log.Warn("Settings save failed, in-memory state stays authoritative", "error", err)
	}
}

// saveIconToSettings persists one icon's customization keys.
func (s *IconService) saveIconToSettings(id string) {
	if s.settings == nil || !s.initialized {
		return
	}
	s.writeIconKeys(id)
	if err := s.settings.Save(); err != nil {
		s.log.Warn("Settings save failed, in-memory state stays authoritative", "error", err)
	}
}

func (s *IconService) writeIconKeys(id string) {
	desc := s.icons[id]
	prefix := keyIconCustomPrefix + id + "/"

	if desc.UserPath != nil {
		s.settings.Set(prefix+"svg_path", *desc.UserPath)
	} else {
		s.settings.Remove(prefix + "svg_path")
	}
	if desc.PrimaryOverride != nil {
		s.settings.Set(prefix+"primary_color", desc.PrimaryOverride.Hex())
	} else {
		s.settings.Remove(prefix + "primary_color")
	}
	if desc.SecondaryOverride != nil {
		s.settings.Set(prefix+"secondary_color", desc.SecondaryOverride.Hex())
	} else {
		s.settings.Remove(prefix + "secondary_color")
	}
}

// loadFromSettings restores the icon theme, sizes, and per-icon
// customizations. Corrupt values are replaced by defaults with a warning.
func (s *IconService) loadFromSettings() {
	if s.settings == nil {
		return
	}

	// In-memory state is the fallback for anything not persisted, so an
	// already applied theme survives a load over an empty store.
	s.themeName = s.settings.GetString(keyIconThemeName, s.themeName)
	s.theme.Primary = s.loadColor(keyIconThemePrimary, s.theme.Primary)
	s.theme.Secondary = s.loadColor(keyIconThemeSecondary, s.theme.Secondary)

	defaults := quilltypes.DefaultSizes()
	sizes := quilltypes.SizeConfig{
		Toolbar:   s.settings.GetInt(keyIconSizesPrefix+"toolbar", defaults.Toolbar),
		Menu:      s.settings.GetInt(keyIconSizesPrefix+"menu", defaults.Menu),
		TreeView:  s.settings.GetInt(keyIconSizesPrefix+"tree_view", defaults.TreeView),
		TabBar:    s.settings.GetInt(keyIconSizesPrefix+"tab_bar", defaults.TabBar),
		StatusBar: s.settings.GetInt(keyIconSizesPrefix+"status_bar", defaults.StatusBar),
		Button:    s.settings.GetInt(keyIconSizesPrefix+"button", defaults.Button),
		Panel:     s.settings.GetInt(keyIconSizesPrefix+"panel", defaults.Panel),
		Dialog:    s.settings.GetInt(keyIconSizesPrefix+"dialog", defaults.Dialog),
	}
	if !sizes.Valid() {
		s.log.Warn("Corrupt size settings, using defaults")
		sizes = defaults
	}
	s.sizes = sizes

	for id, desc := range s.icons {
		prefix := keyIconCustomPrefix + id + "/"
		if s.settings.Has(prefix + "svg_path") {
			path := s.settings.GetString(prefix+"svg_path", "")
			desc.UserPath = &path
		}
		if s.settings.Has(prefix + "primary_color") {
			if c, ok := s.loadOptionalColor(prefix + "primary_color"); ok {
				desc.PrimaryOverride = &c
			}
		}
		if s.settings.Has(prefix + "secondary_color") {
			if c, ok := s.loadOptionalColor(prefix + "secondary_color"); ok {
				desc.SecondaryOverride = &c
			}
		}
	}

	s.log.Debug("Icon settings loaded", "theme", s.themeName,
		"toolbar", s.sizes.Toolbar, "menu", s.sizes.Menu)
}

func (s *IconService) loadColor(key string, def quilltypes.Color) quilltypes.Color {
	raw := s.settings.GetString(key, def.Hex())
	color, ok := quilltypes.ParseColorDefault(raw, def)
	if !ok {
		s.log.Warn("Using default color", "key", key,
			"error", fmt.Errorf("%w: %q", quilltypes.ErrCorruptSetting, raw))
	}
	return color
}

func (s *IconService) loadOptionalColor(key string) (quilltypes.Color, bool) {
	raw := s.settings.GetString(key, "")
	color, err := quilltypes.ParseColor(raw)
	if err != nil {
		s.log.Warn("Ignoring override", "key", key,
			"error", fmt.Errorf("%w: %q", quilltypes.ErrCorruptSetting, raw))
		return "", false
	}
	return color, true
}
