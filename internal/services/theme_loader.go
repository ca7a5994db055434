package services

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"quill/internal/data/embedded"
	"quill/internal/logger"
	"quill/pkg/quilltypes"
)

// themeFile mirrors the on-disk theme descriptor. Color sections are kept as
// raw maps so each field can fall back independently; only an unparseable
// document rejects the whole file.
type themeFile struct {
	Meta struct {
		Name        string `yaml:"name"`
		Version     string `yaml:"version"`
		Author      string `yaml:"author"`
		Description string `yaml:"description"`
	} `yaml:"meta"`
	Icons   map[string]string `yaml:"icons"`
	Palette map[string]string `yaml:"palette"`
	Editor  map[string]string `yaml:"editor"`
	Log     map[string]string `yaml:"log"`
	QSS     string            `yaml:"qss"`
}

// themeConverter accumulates per-field warnings while building a descriptor.
type themeConverter struct {
	warnings []string
}

func (c *themeConverter) warnf(format string, args ...any) {
	c.warnings = append(c.warnings, fmt.Sprintf(format, args...))
}

// color resolves one field from a raw section, substituting def for missing
// or invalid values.
func (c *themeConverter) color(section map[string]string, key string, def quilltypes.Color) quilltypes.Color {
	raw, ok := section[key]
	if !ok {
		return def
	}
	col, valid := quilltypes.ParseColorDefault(raw, def)
	if !valid {
		c.warnf("invalid color for %q: %q, using %s", key, raw, def.Hex())
	}
	return col
}

// ParseThemeDescriptor parses a theme descriptor document (YAML; JSON is
// accepted as a YAML subset). Missing or invalid individual fields fall back
// to defaults and are reported as warnings; only an unparseable document is
// an error.
func ParseThemeDescriptor(data []byte) (*quilltypes.ThemeDescriptor, []string, error) {
	var file themeFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, nil, fmt.Errorf("parse theme descriptor: %w", err)
	}

	conv := &themeConverter{}
	theme := &quilltypes.ThemeDescriptor{}

	theme.Meta.Name = file.Meta.Name
	if theme.Meta.Name == "" {
		theme.Meta.Name = "Unnamed"
		conv.warnf("theme has no meta.name, using %q", theme.Meta.Name)
	}
	theme.Meta.Version = orDefault(file.Meta.Version, "1.0")
	theme.Meta.Author = orDefault(file.Meta.Author, "Unknown")
	theme.Meta.Description = file.Meta.Description
	theme.Stylesheet = file.QSS

	// Icon base colors decide the light/dark defaults for everything else:
	// light themes carry a dark primary and vice versa.
	theme.Icons.Primary = conv.color(file.Icons, "primary", quilltypes.MustColor("#333333"))
	theme.Icons.Secondary = conv.color(file.Icons, "secondary", quilltypes.MustColor("#999999"))
	dark := !theme.Icons.Primary.IsDark()
	if window, ok := file.Palette["window"]; ok {
		if w, valid := quilltypes.ParseColorDefault(window, ""); valid {
			dark = w.IsDark()
		}
	}

	if len(file.Palette) > 0 {
		theme.Palette = conv.palette(file.Palette, dark)
	} else {
		theme.Palette = autoPalette(dark)
	}
	theme.Editor = conv.editorColors(file.Editor, dark)
	theme.Log = conv.logColors(file.Log, dark)

	return theme, conv.warnings, nil
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

func pick(dark bool, darkHex, lightHex string) quilltypes.Color {
	if dark {
		return quilltypes.MustColor(darkHex)
	}
	return quilltypes.MustColor(lightHex)
}

func (c *themeConverter) palette(raw map[string]string, dark bool) quilltypes.Palette {
	return quilltypes.Palette{
		Window:          c.color(raw, "window", pick(dark, "#2d2d2d", "#f0f0f0")),
		WindowText:      c.color(raw, "windowText", pick(dark, "#e0e0e0", "#000000")),
		Base:            c.color(raw, "base", pick(dark, "#252525", "#ffffff")),
		AlternateBase:   c.color(raw, "alternateBase", pick(dark, "#323232", "#f5f5f5")),
		Text:            c.color(raw, "text", pick(dark, "#e0e0e0", "#000000")),
		Button:          c.color(raw, "button", pick(dark, "#404040", "#e0e0e0")),
		ButtonText:      c.color(raw, "buttonText", pick(dark, "#e0e0e0", "#000000")),
		Highlight:       c.color(raw, "highlight", quilltypes.MustColor("#0078d4")),
		HighlightedText: c.color(raw, "highlightedText", quilltypes.MustColor("#ffffff")),
		Light:           c.color(raw, "light", pick(dark, "#505050", "#ffffff")),
		Midlight:        c.color(raw, "midlight", pick(dark, "#404040", "#e0e0e0")),
		Mid:             c.color(raw, "mid", pick(dark, "#303030", "#a0a0a0")),
		Dark:            c.color(raw, "dark", pick(dark, "#202020", "#606060")),
		Shadow:          c.color(raw, "shadow", quilltypes.MustColor("#000000")),
		Link:            c.color(raw, "link", pick(dark, "#5eb3f0", "#0078d4")),
		LinkVisited:     c.color(raw, "linkVisited", pick(dark, "#b48ade", "#551a8b")),
		ToolTipBase:     c.color(raw, "toolTipBase", pick(dark, "#3c3c3c", "#ffffdc")),
		ToolTipText:     c.color(raw, "toolTipText", pick(dark, "#e0e0e0", "#000000")),
		PlaceholderText: c.color(raw, "placeholderText", pick(dark, "#808080", "#a0a0a0")),
		BrightText:      c.color(raw, "brightText", quilltypes.MustColor("#ffffff")),
	}
}

// autoPalette derives a complete palette from a synthetic background when a
// theme ships none, using lighten/darken steps off the background color.
func autoPalette(dark bool) quilltypes.Palette {
	bg := pick(dark, "#1e1e1e", "#ffffff")
	text := pick(dark, "#e0e0e0", "#000000")
	accent := quilltypes.MustColor("#0078d4")

	p := quilltypes.Palette{
		Window:          bg,
		WindowText:      text,
		Text:            text,
		ButtonText:      text,
		Highlight:       accent,
		HighlightedText: pick(dark, "#000000", "#ffffff"),
		Shadow:          quilltypes.MustColor("#000000"),
		Link:            accent,
		LinkVisited:     accent.Darker(120),
		ToolTipText:     text,
		PlaceholderText: pick(dark, "#808080", "#a0a0a0"),
		BrightText:      quilltypes.MustColor("#ffffff"),
	}
	if dark {
		p.Base = bg.Lighter(120)
		p.AlternateBase = bg.Lighter(110)
		p.Button = bg.Lighter(140)
		p.Light = bg.Lighter(180)
		p.Midlight = bg.Lighter(150)
		p.Mid = bg.Lighter(130)
		p.Dark = bg.Darker(120)
		p.ToolTipBase = bg.Lighter(120)
	} else {
		p.Base = bg
		p.AlternateBase = bg.Darker(105)
		p.Button = bg.Darker(110)
		p.Light = bg.Lighter(120)
		p.Midlight = bg.Darker(105)
		p.Mid = bg.Darker(130)
		p.Dark = bg.Darker(160)
		p.ToolTipBase = quilltypes.MustColor("#ffffdc")
	}
	return p
}

func (c *themeConverter) editorColors(raw map[string]string, dark bool) quilltypes.EditorColors {
	return quilltypes.EditorColors{
		Background:  c.color(raw, "background", pick(dark, "#1e1e1e", "#ffffff")),
		Text:        c.color(raw, "text", pick(dark, "#e0e0e0", "#000000")),
		Caret:       c.color(raw, "caret", pick(dark, "#ffffff", "#000000")),
		Selection:   c.color(raw, "selection", pick(dark, "#264f78", "#cce8ff")),
		LineNumber:  c.color(raw, "lineNumber", pick(dark, "#808080", "#a0a0a0")),
		CurrentLine: c.color(raw, "currentLine", pick(dark, "#2a2a2a", "#f5f5f5")),
	}
}

func (c *themeConverter) logColors(raw map[string]string, dark bool) quilltypes.LogColors {
	return quilltypes.LogColors{
		Trace:      c.color(raw, "trace", pick(dark, "#ff66ff", "#cc00cc")),
		Debug:      c.color(raw, "debug", pick(dark, "#ff66ff", "#cc00cc")),
		Info:       c.color(raw, "info", pick(dark, "#ffffff", "#000000")),
		Warning:    c.color(raw, "warning", pick(dark, "#ffa500", "#ff8c00")),
		Error:      c.color(raw, "error", pick(dark, "#ff4444", "#cc0000")),
		Critical:   c.color(raw, "critical", pick(dark, "#ff4444", "#cc0000")),
		Background: c.color(raw, "background", pick(dark, "#252525", "#f5f5f5")),
	}
}

// Fallback theme names.
const (
	FallbackLightName = "Light (Fallback)"
	FallbackDarkName  = "Dark (Fallback)"
)

// FallbackLight returns the built-in light theme. It parses the embedded
// descriptor, with a hardcoded descriptor as the last resort.
func FallbackLight() *quilltypes.ThemeDescriptor {
	return fallbackTheme(embedded.LightThemeData, FallbackLightName, false)
}

// FallbackDark returns the built-in dark theme.
func FallbackDark() *quilltypes.ThemeDescriptor {
	return fallbackTheme(embedded.DarkThemeData, FallbackDarkName, true)
}

func fallbackTheme(data []byte, name string, dark bool) *quilltypes.ThemeDescriptor {
	theme, warnings, err := ParseThemeDescriptor(data)
	if err != nil {
		logger.Error("Embedded fallback theme unparseable, synthesizing", "theme", name, "error", err)
		return builtinFallback(name, dark)
	}
	for _, w := range warnings {
		logger.Warn("Fallback theme field", "theme", name, "detail", w)
	}
	return theme
}

// builtinFallback synthesizes a minimal fallback descriptor entirely in code.
// Reaching this path means the embedded data is broken, which is a build
// defect, but the engine still starts with a usable theme.
func builtinFallback(name string, dark bool) *quilltypes.ThemeDescriptor {
	return &quilltypes.ThemeDescriptor{
		Meta: quilltypes.ThemeMeta{
			Name:        name,
			Version:     "1.0",
			Author:      "Quill",
			Description: "Emergency fallback theme",
		},
		Icons: quilltypes.ThemeColors{
			Primary:   pick(dark, "#999999", "#333333"),
			Secondary: pick(dark, "#333333", "#999999"),
		},
		Palette: autoPalette(dark),
		Editor: quilltypes.EditorColors{
			Background:  pick(dark, "#1e1e1e", "#ffffff"),
			Text:        pick(dark, "#e0e0e0", "#000000"),
			Caret:       pick(dark, "#ffffff", "#000000"),
			Selection:   pick(dark, "#264f78", "#cce8ff"),
			LineNumber:  pick(dark, "#808080", "#a0a0a0"),
			CurrentLine: pick(dark, "#2a2a2a", "#f5f5f5"),
		},
		Log: quilltypes.LogColors{
			Trace:      pick(dark, "#ff66ff", "#cc00cc"),
			Debug:      pick(dark, "#ff66ff", "#cc00cc"),
			Info:       pick(dark, "#ffffff", "#000000"),
			Warning:    pick(dark, "#ffa500", "#ff8c00"),
			Error:      pick(dark, "#ff4444", "#cc0000"),
			Critical:   pick(dark, "#ff4444", "#cc0000"),
			Background: pick(dark, "#252526", "#f8f9fa"),
		},
	}
}

// FallbackByName resolves a fallback theme by name, accepting the plain
// "light"/"dark" aliases.
func FallbackByName(name string) (*quilltypes.ThemeDescriptor, bool) {
	switch normalizeThemeName(name) {
	case "light", "light (fallback)":
		return FallbackLight(), true
	case "dark", "dark (fallback)":
		return FallbackDark(), true
	default:
		return nil, false
	}
}
