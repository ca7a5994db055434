package quilltypes

// IconDescriptor describes one registered icon: where its default markup
// lives, the user's customizations, and a display label for settings UIs.
// Override fields are pointers so "no override" and "override cleared" stay
// distinguishable.
type IconDescriptor struct {
	ID          string
	DefaultPath string
	Label       string

	UserPath          *string
	PrimaryOverride   *Color
	SecondaryOverride *Color
}

// EffectivePath returns the user override path when set, the default path
// otherwise.
func (d *IconDescriptor) EffectivePath() string {
	if d.UserPath != nil {
		return *d.UserPath
	}
	return d.DefaultPath
}

// HasOverrides reports whether any per-icon customization is set.
func (d *IconDescriptor) HasOverrides() bool {
	return d.UserPath != nil || d.PrimaryOverride != nil || d.SecondaryOverride != nil
}

// ThemeColors are the base colors substituted into icon markup when an icon
// carries no per-icon override.
type ThemeColors struct {
	Primary   Color `yaml:"primary"`
	Secondary Color `yaml:"secondary"`
}

// IconContext names the UI contexts that request icons at different sizes.
type IconContext string

// Icon contexts recognized by SizeConfig.
const (
	ContextToolbar   IconContext = "toolbar"
	ContextMenu      IconContext = "menu"
	ContextTreeView  IconContext = "tree_view"
	ContextTabBar    IconContext = "tab_bar"
	ContextStatusBar IconContext = "status_bar"
	ContextButton    IconContext = "button"
	ContextPanel     IconContext = "panel"
	ContextDialog    IconContext = "dialog"
)

// SizeConfig holds per-context icon pixel sizes. Every value must be > 0.
type SizeConfig struct {
	Toolbar   int `yaml:"toolbar"`
	Menu      int `yaml:"menu"`
	TreeView  int `yaml:"tree_view"`
	TabBar    int `yaml:"tab_bar"`
	StatusBar int `yaml:"status_bar"`
	Button    int `yaml:"button"`
	Panel     int `yaml:"panel"`
	Dialog    int `yaml:"dialog"`
}

// DefaultSizes returns the built-in per-context icon sizes.
func DefaultSizes() SizeConfig {
	return SizeConfig{
		Toolbar:   24,
		Menu:      16,
		TreeView:  20,
		TabBar:    16,
		StatusBar: 16,
		Button:    20,
		Panel:     20,
		Dialog:    32,
	}
}

// ForContext returns the configured size for a context, falling back to the
// menu size for unknown contexts.
func (s SizeConfig) ForContext(ctx IconContext) int {
	switch ctx {
	case ContextToolbar:
		return s.Toolbar
	case ContextMenu:
		return s.Menu
	case ContextTreeView:
		return s.TreeView
	case ContextTabBar:
		return s.TabBar
	case ContextStatusBar:
		return s.StatusBar
	case ContextButton:
		return s.Button
	case ContextPanel:
		return s.Panel
	case ContextDialog:
		return s.Dialog
	default:
		return s.Menu
	}
}

// Valid reports whether every configured size is positive.
func (s SizeConfig) Valid() bool {
	for _, v := range []int{s.Toolbar, s.Menu, s.TreeView, s.TabBar, s.StatusBar, s.Button, s.Panel, s.Dialog} {
		if v <= 0 {
			return false
		}
	}
	return true
}
