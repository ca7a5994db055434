// Package main provides the quillres CLI, a command-line front end for the
// Quill resource engine. It lists and inspects themes from the configured
// source directories and renders themed icons to PNG files.
package main

import (
	"fmt"
	"image"
	"image/png"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"quill/internal/config"
	"quill/internal/logger"
	"quill/internal/services"
	"quill/internal/store"
	"quill/pkg/quilltypes"
)

var (
	logLevel string
	logFile  string
	themeDir string
	version  = "0.1.0" // This could be set at build time
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "quillres",
	Short: "Quill resource engine - themes and icons",
	Long: `Quillres inspects and exercises the Quill resource engine from the
command line: list discovered themes, show their resolved palettes, render
themed icons to PNG, and validate theme source directories.`,
}

var themesCmd = &cobra.Command{
	Use:   "themes",
	Short: "Work with the theme catalog",
}

var themesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the selectable themes",
	RunE:  runThemesList,
}

var themesShowCmd = &cobra.Command{
	Use:   "show <name>",
	Short: "Show a theme's resolved palette and icon colors",
	Args:  cobra.ExactArgs(1),
	RunE:  runThemesShow,
}

var iconCmd = &cobra.Command{
	Use:   "icon",
	Short: "Work with themed icons",
}

var iconListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the registered icon identifiers",
	RunE:  runIconList,
}

var iconRenderCmd = &cobra.Command{
	Use:   "render <id>",
	Short: "Render an icon to a PNG file",
	Args:  cobra.ExactArgs(1),
	RunE:  runIconRender,
}

var validateCmd = &cobra.Command{
	Use:   "validate <dir>",
	Short: "Validate a theme source directory",
	Long: `Validate scans a directory as a user theme source tier and reports
every source and theme it would contribute, plus everything it had to skip.`,
	Args: cobra.ExactArgs(1),
	RunE: runValidate,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Run: func(_ *cobra.Command, _ []string) {
		fmt.Printf("quillres v%s\n", version)
	},
}

var (
	renderSize   int
	renderTheme  string
	renderOutput string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Set log level (debug|info|warn|error) [default: info]")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "Write logs to file instead of stderr")
	rootCmd.PersistentFlags().StringVar(&themeDir, "theme-dir", "", "Extra user theme source directory")

	if err := viper.BindPFlag("log-level", rootCmd.PersistentFlags().Lookup("log-level")); err != nil {
		fmt.Fprintf(os.Stderr, "Error binding log-level flag: %v\n", err)
		os.Exit(1)
	}
	if err := viper.BindPFlag("log-file", rootCmd.PersistentFlags().Lookup("log-file")); err != nil {
		fmt.Fprintf(os.Stderr, "Error binding log-file flag: %v\n", err)
		os.Exit(1)
	}

	iconRenderCmd.Flags().IntVar(&renderSize, "size", 24, "Output size in pixels")
	iconRenderCmd.Flags().StringVar(&renderTheme, "theme", "", "Render with a specific theme's colors")
	iconRenderCmd.Flags().StringVarP(&renderOutput, "output", "o", "", "Output PNG path (default <id>.png)")

	themesCmd.AddCommand(themesListCmd)
	themesCmd.AddCommand(themesShowCmd)
	iconCmd.AddCommand(iconListCmd)
	iconCmd.AddCommand(iconRenderCmd)
	rootCmd.AddCommand(themesCmd)
	rootCmd.AddCommand(iconCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(versionCmd)

	cobra.OnInitialize(initLogging)
}

func initLogging() {
	if err := logger.Configure(logLevel, logFile); err != nil {
		fmt.Fprintf(os.Stderr, "Error configuring logger: %v\n", err)
		os.Exit(1)
	}
}

// startEngine loads configuration and runs the full startup sequence.
func startEngine() (*services.Engine, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	userDirs := cfg.UserThemeDirs
	if themeDir != "" {
		userDirs = append(userDirs, themeDir)
	}

	var settings quilltypes.SettingsStore
	if cfg.SettingsBackend == "sqlite" {
		settings, err = store.OpenSQLiteStore(cfg.SettingsPath)
		if err != nil {
			return nil, fmt.Errorf("failed to open settings store: %w", err)
		}
	} else {
		settings = store.OpenViperStore(cfg.SettingsPath)
	}

	engine, err := services.NewEngine(services.EngineOptions{
		Settings: settings,
		CoreDirs: cfg.CoreThemeDirs,
		UserDirs: userDirs,
	})
	if err != nil {
		return nil, err
	}
	if err := engine.Start(); err != nil {
		return nil, err
	}
	return engine, nil
}

func runThemesList(_ *cobra.Command, _ []string) error {
	engine, err := startEngine()
	if err != nil {
		return err
	}

	active := engine.Themes().ActiveName()
	for _, entry := range engine.Discovery().Catalog() {
		marker := " "
		if entry.Name == active {
			marker = "*"
		}
		fmt.Printf("%s %-30s %-10s %s\n", marker, entry.Name, entry.Level.String(), entry.SourceID)
	}
	return nil
}

func runThemesShow(_ *cobra.Command, args []string) error {
	engine, err := startEngine()
	if err != nil {
		return err
	}

	entry, ok := engine.Discovery().Resolve(args[0])
	if !ok {
		if suggestion := engine.Discovery().Suggest(args[0]); suggestion != "" {
			return fmt.Errorf("unknown theme %q (did you mean %q?)", args[0], suggestion)
		}
		return fmt.Errorf("unknown theme %q", args[0])
	}
	theme, err := engine.Discovery().LoadEntry(entry)
	if err != nil {
		return err
	}

	fmt.Printf("Name:       %s\n", theme.Name())
	fmt.Printf("Provenance: %s (%s)\n", entry.Level.String(), entry.SourceID)
	fmt.Printf("Dark:       %v\n", theme.IsDark())
	fmt.Printf("Icons:      primary %s, secondary %s\n", theme.Icons.Primary, theme.Icons.Secondary)
	fmt.Println("Palette:")
	p := theme.Palette
	for _, row := range []struct {
		role  string
		color quilltypes.Color
	}{
		{"window", p.Window}, {"window_text", p.WindowText},
		{"base", p.Base}, {"alternate_base", p.AlternateBase},
		{"text", p.Text}, {"button", p.Button}, {"button_text", p.ButtonText},
		{"highlight", p.Highlight}, {"highlighted_text", p.HighlightedText},
		{"link", p.Link}, {"link_visited", p.LinkVisited},
		{"tooltip_base", p.ToolTipBase}, {"tooltip_text", p.ToolTipText},
	} {
		fmt.Printf("  %-18s %s\n", row.role, row.color)
	}
	if theme.Stylesheet != "" {
		fmt.Printf("Stylesheet: %d bytes\n", len(theme.Stylesheet))
	}
	return nil
}

func runIconList(_ *cobra.Command, _ []string) error {
	engine, err := startEngine()
	if err != nil {
		return err
	}
	for _, id := range engine.Icons().IconIDs() {
		fmt.Println(id)
	}
	return nil
}

func runIconRender(_ *cobra.Command, args []string) error {
	engine, err := startEngine()
	if err != nil {
		return err
	}

	id := args[0]
	if !engine.Icons().HasIcon(id) {
		return fmt.Errorf("%w: %q", quilltypes.ErrUnregisteredIcon, id)
	}

	var img image.Image
	if renderTheme != "" {
		entry, ok := engine.Discovery().Resolve(renderTheme)
		if !ok {
			return fmt.Errorf("unknown theme %q", renderTheme)
		}
		theme, err := engine.Discovery().LoadEntry(entry)
		if err != nil {
			return err
		}
		img = engine.Icons().GetIconWithColors(id, theme.Name(), theme.Icons, renderSize)
	} else {
		img = engine.Icons().GetIcon(id, renderSize)
	}

	out := renderOutput
	if out == "" {
		out = id + ".png"
	}
	f, err := os.Create(out)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = f.Close() }()
	if err := png.Encode(f, img); err != nil {
		return fmt.Errorf("failed to encode PNG: %w", err)
	}
	fmt.Printf("Wrote %s (%dx%d)\n", out, renderSize, renderSize)
	return nil
}

func runValidate(_ *cobra.Command, args []string) error {
	discovery := services.NewDiscoveryService(nil, []string{args[0]})
	discovery.Discover()

	sources := discovery.Sources()
	if len(sources) == 0 {
		fmt.Println("No usable sources found.")
		return nil
	}
	for _, src := range sources {
		fmt.Printf("Source %s v%s (%s)\n", src.ID, src.Manifest.Version, src.Path)
		for _, entry := range discovery.Catalog() {
			if entry.SourceID == src.ID {
				fmt.Printf("  theme %s\n", entry.Name)
			}
		}
	}
	return nil
}
