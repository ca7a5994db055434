package services

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quill/internal/statemachine"
	"quill/internal/store"
	"quill/pkg/quilltypes"
)

func newTestEngine(t *testing.T, settings quilltypes.SettingsStore, coreDirs, userDirs []string) *Engine {
	t.Helper()
	engine, err := NewEngine(EngineOptions{
		Settings:   settings,
		Rasterizer: &countingRasterizer{},
		CoreDirs:   coreDirs,
		UserDirs:   userDirs,
	})
	require.NoError(t, err)
	return engine
}

func TestEngineRequiresSettings(t *testing.T) {
	_, err := NewEngine(EngineOptions{})
	assert.Error(t, err)
}

func TestEngineStartsToReadyWithNoSources(t *testing.T) {
	engine := newTestEngine(t, store.NewMemStore(), nil, nil)

	require.NoError(t, engine.Start())
	assert.True(t, engine.Ready())
	assert.Equal(t, statemachine.Ready, engine.State())

	// With nothing persisted and nothing discovered, the fallback is active
	// and icons resolve.
	assert.Equal(t, FallbackLightName, engine.Themes().ActiveName())
	img := engine.Icons().GetIcon("file.save", 24)
	assert.NotNil(t, img)
}

func TestEngineRestoresSavedTheme(t *testing.T) {
	settings := store.NewMemStore()
	settings.Set("ui/theme", FallbackDarkName)

	engine := newTestEngine(t, settings, nil, nil)
	require.NoError(t, engine.Start())

	assert.Equal(t, FallbackDarkName, engine.Themes().ActiveName())
	assert.True(t, engine.Themes().Current().IsDark())
}

func TestEngineStartPreservesPersistedIconSettings(t *testing.T) {
	settings := store.NewMemStore()

	first := newTestEngine(t, settings, nil, nil)
	require.NoError(t, first.Start())

	sizes := first.Icons().Sizes()
	sizes.Toolbar = 48
	first.Icons().SetSizes(sizes)
	first.Icons().SetThemeColors(
		quilltypes.MustColor("#101010"), quilltypes.MustColor("#e0e0e0"), "Custom")
	require.Equal(t, 48, settings.GetInt("icons/sizes/toolbar", 0))

	// The fallback apply in the next startup runs before the persisted
	// state is loaded and must not write defaults over it.
	second := newTestEngine(t, settings, nil, nil)
	require.NoError(t, second.Start())

	assert.Equal(t, 48, second.Icons().Sizes().Toolbar)
	assert.Equal(t, 48, settings.GetInt("icons/sizes/toolbar", 0))
	assert.Equal(t, "Custom", second.Icons().ThemeName())
	assert.Equal(t, "#101010", second.Icons().ThemeColors().Primary.Hex())
}

func TestEngineKeepsFallbackWhenSavedThemeUnknown(t *testing.T) {
	settings := store.NewMemStore()
	settings.Set("ui/theme", "Vanished Theme")

	engine := newTestEngine(t, settings, nil, nil)
	require.NoError(t, engine.Start())

	assert.True(t, engine.Ready())
	assert.Equal(t, FallbackLightName, engine.Themes().ActiveName())
}

func TestEngineAppliesDiscoveredTheme(t *testing.T) {
	userDir := t.TempDir()
	writeSource(t, userDir, "pack", false, "Ocean")
	settings := store.NewMemStore()

	engine := newTestEngine(t, settings, nil, []string{userDir})
	require.NoError(t, engine.Start())

	require.NoError(t, engine.ApplyThemeByName("Ocean"))
	assert.Equal(t, "Ocean", engine.Themes().ActiveName())
	assert.Equal(t, "Ocean", settings.GetString("ui/theme", ""))

	err := engine.ApplyThemeByName("Ocan")
	require.ErrorIs(t, err, quilltypes.ErrResourceNotFound)
	assert.Contains(t, err.Error(), `"Ocean"`)
}

func TestEngineSavedThemeFromSourceDir(t *testing.T) {
	userDir := t.TempDir()
	writeSource(t, userDir, "pack", false, "Ocean")
	settings := store.NewMemStore()
	settings.Set("ui/theme", "Ocean")

	engine := newTestEngine(t, settings, nil, []string{userDir})
	require.NoError(t, engine.Start())

	assert.Equal(t, "Ocean", engine.Themes().ActiveName())
}

func TestRemoveSourceRestoresShadowedCoreTheme(t *testing.T) {
	coreDir := t.TempDir()
	userDir := t.TempDir()
	writeSource(t, coreDir, "core-pack", false, "Sepia")
	writeSource(t, userDir, "user-pack", false, "Sepia")

	engine := newTestEngine(t, store.NewMemStore(), []string{coreDir}, []string{userDir})
	require.NoError(t, engine.Start())
	require.NoError(t, engine.ApplyThemeByName("Sepia"))

	entry, ok := engine.Discovery().Resolve("Sepia")
	require.True(t, ok)
	require.Equal(t, quilltypes.ProvenanceUser, entry.Level)

	require.NoError(t, engine.RemoveSource("user-pack"))

	// The name still resolves, now to the Core entry, and stays active.
	assert.Equal(t, "Sepia", engine.Themes().ActiveName())
	entry, ok = engine.Discovery().Resolve("Sepia")
	require.True(t, ok)
	assert.Equal(t, quilltypes.ProvenanceCore, entry.Level)
}

func TestRemoveSourceFallsBackWhenThemeGone(t *testing.T) {
	userDir := t.TempDir()
	writeSource(t, userDir, "pack", false, "Midnight")
	require.NoError(t, writeDarkTheme(userDir))

	engine := newTestEngine(t, store.NewMemStore(), nil, []string{userDir})
	require.NoError(t, engine.Start())
	require.NoError(t, engine.ApplyThemeByName("Nightfall"))
	require.True(t, engine.Themes().Current().IsDark())

	require.NoError(t, engine.RemoveSource("pack"))

	// The dark fallback takes over, matching the removed theme's darkness.
	assert.Equal(t, FallbackDarkName, engine.Themes().ActiveName())
	assert.True(t, engine.Themes().Current().IsDark())
}

func TestRemoveProtectedSourceKeepsActiveTheme(t *testing.T) {
	coreDir := t.TempDir()
	writeSource(t, coreDir, "core-pack", true, "Sepia")

	engine := newTestEngine(t, store.NewMemStore(), []string{coreDir}, nil)
	require.NoError(t, engine.Start())
	require.NoError(t, engine.ApplyThemeByName("Sepia"))

	err := engine.RemoveSource("core-pack")
	require.ErrorIs(t, err, quilltypes.ErrProtectedRemovalDenied)
	assert.Equal(t, "Sepia", engine.Themes().ActiveName())
}

// writeDarkTheme adds a dark theme to the "pack" source created by writeSource.
func writeDarkTheme(userDir string) error {
	data := "meta:\n  name: Nightfall\nicons:\n  primary: \"#cccccc\"\n  secondary: \"#666666\"\n"
	return os.WriteFile(filepath.Join(userDir, "pack", "themes", "nightfall.yaml"), []byte(data), 0o644)
}
