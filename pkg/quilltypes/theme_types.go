package quilltypes

// ThemeMeta identifies a theme descriptor.
type ThemeMeta struct {
	Name        string
	Version     string
	Author      string
	Description string
}

// Palette holds the full set of named UI color roles a theme styles.
type Palette struct {
	Window          Color
	WindowText      Color
	Base            Color
	AlternateBase   Color
	Text            Color
	Button          Color
	ButtonText      Color
	Highlight       Color
	HighlightedText Color
	Light           Color
	Midlight        Color
	Mid             Color
	Dark            Color
	Shadow          Color
	Link            Color
	LinkVisited     Color
	ToolTipBase     Color
	ToolTipText     Color
	PlaceholderText Color
	BrightText      Color
}

// EditorColors style the writing surface.
type EditorColors struct {
	Background  Color
	Text        Color
	Caret       Color
	Selection   Color
	LineNumber  Color
	CurrentLine Color
}

// LogColors style the log panel, one color per level plus the panel
// background.
type LogColors struct {
	Trace      Color
	Debug      Color
	Info       Color
	Warning    Color
	Error      Color
	Critical   Color
	Background Color
}

// ThemeDescriptor is a complete resolved theme: metadata, the UI palette,
// icon base colors, editor and log colors, and an optional stylesheet
// reference.
type ThemeDescriptor struct {
	Meta       ThemeMeta
	Palette    Palette
	Icons      ThemeColors
	Editor     EditorColors
	Log        LogColors
	Stylesheet string
}

// Name returns the theme's display name.
func (t ThemeDescriptor) Name() string {
	return t.Meta.Name
}

// IsDark reports whether the theme styles a dark UI, judged by the palette
// window color.
func (t ThemeDescriptor) IsDark() bool {
	return t.Palette.Window.IsDark()
}
