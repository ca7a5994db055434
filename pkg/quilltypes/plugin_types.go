package quilltypes

// ProvenanceLevel is the tier a theme or icon set came from. It determines
// override precedence (User shadows Core shadows Fallback) and removability.
type ProvenanceLevel int

// Provenance tiers, lowest precedence first.
const (
	// ProvenanceFallback marks the built-in pair of themes synthesized
	// in-process. Always present, never removable.
	ProvenanceFallback ProvenanceLevel = iota
	// ProvenanceCore marks protected sources shipped with the application.
	ProvenanceCore
	// ProvenanceUser marks sources installed by the user.
	ProvenanceUser
)

// String returns the lowercase level name.
func (p ProvenanceLevel) String() string {
	switch p {
	case ProvenanceFallback:
		return "fallback"
	case ProvenanceCore:
		return "core"
	case ProvenanceUser:
		return "user"
	default:
		return "unknown"
	}
}

// PluginManifest is a plugin source's provenance declaration.
type PluginManifest struct {
	ID              string   `yaml:"id"`
	Name            string   `yaml:"name"`
	Version         string   `yaml:"version"`
	APIVersion      string   `yaml:"api_version"`
	Author          string   `yaml:"author,omitempty"`
	Description     string   `yaml:"description,omitempty"`
	Core            bool     `yaml:"core,omitempty"`
	Protected       bool     `yaml:"protected,omitempty"`
	ExtensionPoints []string `yaml:"extension_points,omitempty"`
	Themes          []string `yaml:"themes,omitempty"`
	IconSets        []string `yaml:"icon_sets,omitempty"`
}

// ImplementsExtensionPoint reports whether the manifest declares the given
// extension point.
func (m *PluginManifest) ImplementsExtensionPoint(point string) bool {
	for _, p := range m.ExtensionPoints {
		if p == point {
			return true
		}
	}
	return false
}

// PluginSource is one scanned provenance source: where it lives, its tier,
// and whether the removal operation must refuse to delete it.
type PluginSource struct {
	ID        string
	Level     ProvenanceLevel
	Protected bool
	Path      string
	Manifest  PluginManifest
}

// CatalogEntry is one discovered theme in provenance order. The catalog keeps
// every entry, shadowed or not, so a Core theme stays resolvable as a restore
// target after a User source that shadowed it disappears.
type CatalogEntry struct {
	Name     string
	Level    ProvenanceLevel
	SourceID string
	// Path locates the theme descriptor file; empty for fallback entries,
	// which are synthesized in-process.
	Path string
}
