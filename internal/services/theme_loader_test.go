package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quill/pkg/quilltypes"
)

func TestParseThemeDescriptorComplete(t *testing.T) {
	data := []byte(`
meta:
  name: Solarized
  version: "2.1"
  author: Jane
  description: A test theme
icons:
  primary: "#586e75"
  secondary: "#93a1a1"
palette:
  window: "#fdf6e3"
  windowText: "#657b83"
editor:
  background: "#fdf6e3"
log:
  error: "#dc322f"
qss: "QToolTip { border: none; }"
`)

	theme, warnings, err := ParseThemeDescriptor(data)
	require.NoError(t, err)
	assert.Empty(t, warnings)

	assert.Equal(t, "Solarized", theme.Name())
	assert.Equal(t, "2.1", theme.Meta.Version)
	assert.Equal(t, "Jane", theme.Meta.Author)
	assert.Equal(t, quilltypes.MustColor("#586e75"), theme.Icons.Primary)
	assert.Equal(t, quilltypes.MustColor("#fdf6e3"), theme.Palette.Window)
	assert.Equal(t, quilltypes.MustColor("#dc322f"), theme.Log.Error)
	assert.Equal(t, "QToolTip { border: none; }", theme.Stylesheet)
	assert.False(t, theme.IsDark())
}

func TestParseThemeDescriptorMissingFieldsGetDefaults(t *testing.T) {
	theme, warnings, err := ParseThemeDescriptor([]byte("meta:\n  name: Bare\n"))
	require.NoError(t, err)
	assert.Empty(t, warnings)

	assert.Equal(t, "Bare", theme.Name())
	assert.Equal(t, "1.0", theme.Meta.Version)
	assert.Equal(t, quilltypes.MustColor("#333333"), theme.Icons.Primary)
	assert.Equal(t, quilltypes.MustColor("#999999"), theme.Icons.Secondary)
	// A dark icon primary means a light theme, so the auto palette is light.
	assert.False(t, theme.IsDark())
	assert.Equal(t, quilltypes.MustColor("#ffffff"), theme.Palette.Window)
	assert.True(t, theme.Palette.Text.IsDark())
}

func TestParseThemeDescriptorAutoPaletteDark(t *testing.T) {
	data := []byte(`
meta:
  name: Midnight
icons:
  primary: "#cccccc"
  secondary: "#666666"
`)
	theme, _, err := ParseThemeDescriptor(data)
	require.NoError(t, err)

	// A light icon primary flags a dark theme; the derived palette steps
	// lighten off the dark background.
	assert.True(t, theme.IsDark())
	assert.True(t, theme.Palette.Window.IsDark())
	assert.False(t, theme.Palette.Text.IsDark())
	assert.NotEqual(t, theme.Palette.Window, theme.Palette.Base)
}

func TestParseThemeDescriptorInvalidColorWarns(t *testing.T) {
	data := []byte(`
meta:
  name: Broken
icons:
  primary: "chartreuse-ish"
`)
	theme, warnings, err := ParseThemeDescriptor(data)
	require.NoError(t, err)
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "primary")
	assert.Equal(t, quilltypes.MustColor("#333333"), theme.Icons.Primary)
}

func TestParseThemeDescriptorUnnamed(t *testing.T) {
	theme, warnings, err := ParseThemeDescriptor([]byte("icons:\n  primary: \"#333333\"\n"))
	require.NoError(t, err)
	assert.Equal(t, "Unnamed", theme.Name())
	require.NotEmpty(t, warnings)
	assert.Contains(t, warnings[0], "meta.name")
}

func TestParseThemeDescriptorUnparseable(t *testing.T) {
	_, _, err := ParseThemeDescriptor([]byte("\t{{{not yaml"))
	assert.Error(t, err)
}

func TestParseThemeDescriptorJSONSubset(t *testing.T) {
	data := []byte(`{"meta": {"name": "FromJSON"}, "icons": {"primary": "#222222"}}`)
	theme, _, err := ParseThemeDescriptor(data)
	require.NoError(t, err)
	assert.Equal(t, "FromJSON", theme.Name())
	assert.Equal(t, quilltypes.MustColor("#222222"), theme.Icons.Primary)
}

func TestFallbackThemes(t *testing.T) {
	light := FallbackLight()
	require.NotNil(t, light)
	assert.Equal(t, FallbackLightName, light.Name())
	assert.False(t, light.IsDark())
	assert.Equal(t, quilltypes.MustColor("#333333"), light.Icons.Primary)
	assert.Equal(t, quilltypes.MustColor("#999999"), light.Icons.Secondary)

	dark := FallbackDark()
	require.NotNil(t, dark)
	assert.Equal(t, FallbackDarkName, dark.Name())
	assert.True(t, dark.IsDark())
	assert.Equal(t, quilltypes.MustColor("#999999"), dark.Icons.Primary)
	assert.Equal(t, quilltypes.MustColor("#333333"), dark.Icons.Secondary)
}

func TestFallbackByName(t *testing.T) {
	for _, name := range []string{FallbackLightName, "light", "LIGHT"} {
		theme, ok := FallbackByName(name)
		require.True(t, ok, name)
		assert.Equal(t, FallbackLightName, theme.Name())
	}
	theme, ok := FallbackByName("Dark")
	require.True(t, ok)
	assert.Equal(t, FallbackDarkName, theme.Name())

	_, ok = FallbackByName("Sepia")
	assert.False(t, ok)
}
