package services

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/Masterminds/semver/v3"
	"github.com/agnivade/levenshtein"
	"github.com/charmbracelet/log"
	"gopkg.in/yaml.v3"

	"quill/internal/logger"
	"quill/pkg/quilltypes"
)

// manifestFileName is the provenance declaration every scanned source must
// carry.
const manifestFileName = "manifest.yaml"

// DiscoveryService scans the three provenance levels and maintains the
// ordered theme catalog. Fallback entries always come first and can never be
// shadowed away; User entries shadow Core entries of the same name for
// selection, while the Core entries stay in the catalog as restore targets.
type DiscoveryService struct {
	initialized bool
	log         *log.Logger

	coreDirs []string
	userDirs []string

	// mu guards catalog and sources: discovery may scan off-thread but
	// publishes results atomically.
	mu      sync.RWMutex
	sources []quilltypes.PluginSource
	catalog []quilltypes.CatalogEntry
}

// NewDiscoveryService creates a DiscoveryService scanning the given core and
// user source directories. Either list may be empty; the fallback entries
// exist regardless.
func NewDiscoveryService(coreDirs, userDirs []string) *DiscoveryService {
	return &DiscoveryService{
		log:      logger.NewStyledLogger("Discovery"),
		coreDirs: coreDirs,
		userDirs: userDirs,
	}
}

// Name returns the service name "discovery" for registration.
func (d *DiscoveryService) Name() string {
	return "discovery"
}

// Initialize runs the first discovery scan.
func (d *DiscoveryService) Initialize() error {
	d.Discover()
	d.initialized = true
	return nil
}

// Discover rebuilds the catalog: fallback entries first, then Core sources,
// then User sources. A broken source is skipped with a warning and never
// prevents the others, or the fallback entries, from being available. The
// new catalog replaces the old one atomically.
func (d *DiscoveryService) Discover() {
	var sources []quilltypes.PluginSource
	catalog := []quilltypes.CatalogEntry{
		{Name: FallbackLightName, Level: quilltypes.ProvenanceFallback, SourceID: "builtin"},
		{Name: FallbackDarkName, Level: quilltypes.ProvenanceFallback, SourceID: "builtin"},
	}

	for _, dir := range d.coreDirs {
		d.scanDir(dir, quilltypes.ProvenanceCore, &sources, &catalog)
	}
	for _, dir := range d.userDirs {
		d.scanDir(dir, quilltypes.ProvenanceUser, &sources, &catalog)
	}

	d.mu.Lock()
	d.sources = sources
	d.catalog = catalog
	d.mu.Unlock()

	d.log.Info("Discovery complete", "sources", len(sources), "themes", len(catalog))
}

// scanDir scans one provenance directory: every subdirectory holding a
// manifest is a source.
func (d *DiscoveryService) scanDir(dir string, level quilltypes.ProvenanceLevel, sources *[]quilltypes.PluginSource, catalog *[]quilltypes.CatalogEntry) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		d.log.Warn("Source directory unavailable, skipping",
			"dir", dir, "level", level.String(), "error", err)
		return
	}

	// Stable order regardless of filesystem enumeration.
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	for _, name := range names {
		sourcePath := filepath.Join(dir, name)
		source, themeEntries, err := d.scanSource(sourcePath, level)
		if err != nil {
			d.log.Warn("Skipping broken source", "source", sourcePath, "error", err)
			continue
		}
		*sources = append(*sources, source)
		*catalog = append(*catalog, themeEntries...)
	}
}

// scanSource reads one source: its manifest plus every theme descriptor it
// provides.
func (d *DiscoveryService) scanSource(path string, level quilltypes.ProvenanceLevel) (quilltypes.PluginSource, []quilltypes.CatalogEntry, error) {
	var source quilltypes.PluginSource

	data, err := os.ReadFile(filepath.Join(path, manifestFileName))
	if err != nil {
		return source, nil, fmt.Errorf("%w: %v", quilltypes.ErrSourceUnavailable, err)
	}

	var manifest quilltypes.PluginManifest
	if err := yaml.Unmarshal(data, &manifest); err != nil {
		return source, nil, fmt.Errorf("malformed manifest: %w", err)
	}
	if err := validateManifest(&manifest); err != nil {
		return source, nil, fmt.Errorf("invalid manifest: %w", err)
	}

	// Only sources scanned from the core tier may claim protection.
	if level != quilltypes.ProvenanceCore && (manifest.Core || manifest.Protected) {
		d.log.Warn("User source claims core provenance, demoting",
			"source", manifest.ID)
		manifest.Core = false
		manifest.Protected = false
	}

	source = quilltypes.PluginSource{
		ID:        manifest.ID,
		Level:     level,
		Protected: level == quilltypes.ProvenanceCore && manifest.Protected,
		Path:      path,
		Manifest:  manifest,
	}

	themeEntries, err := d.scanThemes(path, source)
	if err != nil {
		return source, nil, err
	}
	return source, themeEntries, nil
}

// scanThemes lists the theme descriptors under a source's themes directory.
// A source with no themes directory simply provides none.
func (d *DiscoveryService) scanThemes(sourcePath string, source quilltypes.PluginSource) ([]quilltypes.CatalogEntry, error) {
	themesDir := filepath.Join(sourcePath, "themes")
	entries, err := os.ReadDir(themesDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: %v", quilltypes.ErrSourceUnavailable, err)
	}

	var out []quilltypes.CatalogEntry
	seen := make(map[string]bool)
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(e.Name()))
		if ext != ".yaml" && ext != ".yml" && ext != ".json" {
			continue
		}
		themePath := filepath.Join(themesDir, e.Name())
		data, err := os.ReadFile(themePath)
		if err != nil {
			d.log.Warn("Unreadable theme descriptor, skipping", "path", themePath, "error", err)
			continue
		}
		theme, warnings, err := ParseThemeDescriptor(data)
		if err != nil {
			d.log.Warn("Malformed theme descriptor, skipping", "path", themePath, "error", err)
			continue
		}
		for _, w := range warnings {
			d.log.Warn("Theme descriptor field", "path", themePath, "detail", w)
		}
		if seen[theme.Name()] {
			d.log.Warn("Duplicate theme name within source, skipping",
				"source", source.ID, "theme", theme.Name())
			continue
		}
		seen[theme.Name()] = true
		out = append(out, quilltypes.CatalogEntry{
			Name:     theme.Name(),
			Level:    source.Level,
			SourceID: source.ID,
			Path:     themePath,
		})
	}
	return out, nil
}

// validateManifest enforces required fields and semver version formats.
func validateManifest(m *quilltypes.PluginManifest) error {
	if m.ID == "" || m.Name == "" {
		return fmt.Errorf("id and name are required")
	}
	if _, err := semver.NewVersion(m.Version); err != nil {
		return fmt.Errorf("version %q: %w", m.Version, err)
	}
	if _, err := semver.NewVersion(m.APIVersion); err != nil {
		return fmt.Errorf("api_version %q: %w", m.APIVersion, err)
	}
	return nil
}

// Catalog returns a copy of the ordered catalog.
func (d *DiscoveryService) Catalog() []quilltypes.CatalogEntry {
	d.mu.RLock()
	defer d.mu.RUnlock()

	out := make([]quilltypes.CatalogEntry, len(d.catalog))
	copy(out, d.catalog)
	return out
}

// Sources returns a copy of the scanned sources.
func (d *DiscoveryService) Sources() []quilltypes.PluginSource {
	d.mu.RLock()
	defer d.mu.RUnlock()

	out := make([]quilltypes.PluginSource, len(d.sources))
	copy(out, d.sources)
	return out
}

// ThemeNames returns the selectable theme names, shadowed entries collapsed.
func (d *DiscoveryService) ThemeNames() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()

	seen := make(map[string]bool)
	var names []string
	// Walk backwards so the highest-precedence entry claims each name.
	for i := len(d.catalog) - 1; i >= 0; i-- {
		name := d.catalog[i].Name
		if !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// Resolve finds the highest-precedence catalog entry for a theme name:
// User shadows Core shadows Fallback. Lookup is exact first, then
// case-insensitive.
func (d *DiscoveryService) Resolve(name string) (quilltypes.CatalogEntry, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	for i := len(d.catalog) - 1; i >= 0; i-- {
		if d.catalog[i].Name == name {
			return d.catalog[i], true
		}
	}
	normalized := normalizeThemeName(name)
	for i := len(d.catalog) - 1; i >= 0; i-- {
		if normalizeThemeName(d.catalog[i].Name) == normalized {
			return d.catalog[i], true
		}
	}
	return quilltypes.CatalogEntry{}, false
}

// ResolveAt finds the catalog entry for a theme name at one provenance
// level, bypassing shadowing. Used to restore a Core theme after the User
// source that shadowed it disappears.
func (d *DiscoveryService) ResolveAt(name string, level quilltypes.ProvenanceLevel) (quilltypes.CatalogEntry, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	for i := len(d.catalog) - 1; i >= 0; i-- {
		if d.catalog[i].Level == level && d.catalog[i].Name == name {
			return d.catalog[i], true
		}
	}
	return quilltypes.CatalogEntry{}, false
}

// Suggest returns the catalog name closest to the given one, for "did you
// mean" diagnostics. Empty when the catalog holds nothing similar.
func (d *DiscoveryService) Suggest(name string) string {
	best := ""
	bestDist := 5 // suggestions further than a few edits away are noise
	for _, candidate := range d.ThemeNames() {
		dist := levenshtein.ComputeDistance(normalizeThemeName(name), normalizeThemeName(candidate))
		if dist < bestDist {
			bestDist = dist
			best = candidate
		}
	}
	return best
}

// RemoveSource removes a source and its catalog entries. Protected sources
// are refused with ErrProtectedRemovalDenied, leaving the catalog unchanged.
func (d *DiscoveryService) RemoveSource(id string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	idx := -1
	for i, src := range d.sources {
		if src.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return fmt.Errorf("%w: source %q", quilltypes.ErrSourceUnavailable, id)
	}
	if d.sources[idx].Protected {
		d.log.Warn("Refusing to remove protected source", "source", id)
		return quilltypes.ErrProtectedRemovalDenied
	}

	d.sources = append(d.sources[:idx], d.sources[idx+1:]...)
	kept := d.catalog[:0]
	for _, entry := range d.catalog {
		if entry.SourceID != id {
			kept = append(kept, entry)
		}
	}
	d.catalog = kept
	d.log.Info("Source removed", "source", id)
	return nil
}

// LoadEntry loads and parses the theme descriptor behind a catalog entry.
// Fallback entries are synthesized in-process.
func (d *DiscoveryService) LoadEntry(entry quilltypes.CatalogEntry) (*quilltypes.ThemeDescriptor, error) {
	if entry.Level == quilltypes.ProvenanceFallback {
		theme, ok := FallbackByName(entry.Name)
		if !ok {
			// Both fallback themes are hardcoded; a miss is a defect.
			return nil, fmt.Errorf("unknown fallback theme %q", entry.Name)
		}
		return theme, nil
	}

	data, err := os.ReadFile(entry.Path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", quilltypes.ErrResourceNotFound, err)
	}
	theme, warnings, err := ParseThemeDescriptor(data)
	if err != nil {
		return nil, err
	}
	for _, w := range warnings {
		d.log.Warn("Theme descriptor field", "theme", entry.Name, "detail", w)
	}
	return theme, nil
}
