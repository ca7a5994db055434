package services

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quill/pkg/quilltypes"
)

// writeSource lays out a theme source directory: a manifest plus one theme
// file per name.
func writeSource(t *testing.T, root, id string, protected bool, themeNames ...string) string {
	t.Helper()
	dir := filepath.Join(root, id)
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "themes"), 0o755))

	manifest := fmt.Sprintf(
		"id: %s\nname: %s\nversion: \"1.2.0\"\napi_version: \"1.0.0\"\ncore: %v\nprotected: %v\n",
		id, id, protected, protected)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "manifest.yaml"), []byte(manifest), 0o644))

	for _, name := range themeNames {
		theme := fmt.Sprintf("meta:\n  name: %s\nicons:\n  primary: \"#333333\"\n", name)
		file := filepath.Join(dir, "themes", normalizeThemeName(name)+".yaml")
		require.NoError(t, os.WriteFile(file, []byte(theme), 0o644))
	}
	return dir
}

func TestDiscoverEmptyDirsStillYieldsFallbacks(t *testing.T) {
	svc := NewDiscoveryService(nil, []string{filepath.Join(t.TempDir(), "missing")})
	require.NoError(t, svc.Initialize())

	catalog := svc.Catalog()
	require.Len(t, catalog, 2)
	assert.Equal(t, FallbackLightName, catalog[0].Name)
	assert.Equal(t, FallbackDarkName, catalog[1].Name)
	assert.Equal(t, quilltypes.ProvenanceFallback, catalog[0].Level)
	assert.Empty(t, svc.Sources())
}

func TestDiscoverOrdersFallbackCoreUser(t *testing.T) {
	coreDir := t.TempDir()
	userDir := t.TempDir()
	writeSource(t, coreDir, "core-pack", true, "Sepia")
	writeSource(t, userDir, "user-pack", false, "Ocean")

	svc := NewDiscoveryService([]string{coreDir}, []string{userDir})
	svc.Discover()

	catalog := svc.Catalog()
	require.Len(t, catalog, 4)
	assert.Equal(t, quilltypes.ProvenanceFallback, catalog[0].Level)
	assert.Equal(t, quilltypes.ProvenanceFallback, catalog[1].Level)
	assert.Equal(t, "Sepia", catalog[2].Name)
	assert.Equal(t, quilltypes.ProvenanceCore, catalog[2].Level)
	assert.Equal(t, "Ocean", catalog[3].Name)
	assert.Equal(t, quilltypes.ProvenanceUser, catalog[3].Level)
}

func TestBrokenSourceIsIsolated(t *testing.T) {
	userDir := t.TempDir()
	writeSource(t, userDir, "good", false, "Ocean")

	// Bad manifest version.
	bad := filepath.Join(userDir, "bad")
	require.NoError(t, os.MkdirAll(bad, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(bad, "manifest.yaml"),
		[]byte("id: bad\nname: bad\nversion: \"not-semver\"\napi_version: \"1.0.0\"\n"), 0o644))

	// No manifest at all.
	require.NoError(t, os.MkdirAll(filepath.Join(userDir, "empty"), 0o755))

	svc := NewDiscoveryService(nil, []string{userDir})
	svc.Discover()

	require.Len(t, svc.Sources(), 1)
	assert.Equal(t, "good", svc.Sources()[0].ID)
	_, ok := svc.Resolve("Ocean")
	assert.True(t, ok)
}

func TestMalformedThemeSkippedWithinSource(t *testing.T) {
	userDir := t.TempDir()
	dir := writeSource(t, userDir, "pack", false, "Ocean")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "themes", "broken.yaml"),
		[]byte("\t{{{not yaml"), 0o644))

	svc := NewDiscoveryService(nil, []string{userDir})
	svc.Discover()

	names := svc.ThemeNames()
	assert.Contains(t, names, "Ocean")
	assert.Len(t, names, 3) // Ocean plus the two fallbacks
}

func TestUserShadowsCoreByName(t *testing.T) {
	coreDir := t.TempDir()
	userDir := t.TempDir()
	writeSource(t, coreDir, "core-pack", true, "Sepia")
	writeSource(t, userDir, "user-pack", false, "Sepia")

	svc := NewDiscoveryService([]string{coreDir}, []string{userDir})
	svc.Discover()

	entry, ok := svc.Resolve("Sepia")
	require.True(t, ok)
	assert.Equal(t, quilltypes.ProvenanceUser, entry.Level)

	// The Core entry remains reachable for restoration.
	coreEntry, ok := svc.ResolveAt("Sepia", quilltypes.ProvenanceCore)
	require.True(t, ok)
	assert.Equal(t, "core-pack", coreEntry.SourceID)

	// Shadowed names collapse in the selectable list.
	count := 0
	for _, name := range svc.ThemeNames() {
		if name == "Sepia" {
			count++
		}
	}
	assert.Equal(t, 1, count)
}

func TestResolveCaseInsensitiveFallback(t *testing.T) {
	userDir := t.TempDir()
	writeSource(t, userDir, "pack", false, "Ocean")

	svc := NewDiscoveryService(nil, []string{userDir})
	svc.Discover()

	entry, ok := svc.Resolve("ocean")
	require.True(t, ok)
	assert.Equal(t, "Ocean", entry.Name)

	_, ok = svc.Resolve("Desert")
	assert.False(t, ok)
}

func TestSuggestClosestName(t *testing.T) {
	userDir := t.TempDir()
	writeSource(t, userDir, "pack", false, "Ocean")

	svc := NewDiscoveryService(nil, []string{userDir})
	svc.Discover()

	assert.Equal(t, "Ocean", svc.Suggest("Ocan"))
	assert.Empty(t, svc.Suggest("Completely Different"))
}

func TestRemoveSourceProtectedDenied(t *testing.T) {
	coreDir := t.TempDir()
	writeSource(t, coreDir, "core-pack", true, "Sepia")

	svc := NewDiscoveryService([]string{coreDir}, nil)
	svc.Discover()

	err := svc.RemoveSource("core-pack")
	require.ErrorIs(t, err, quilltypes.ErrProtectedRemovalDenied)

	// Catalog unchanged after the refusal.
	_, ok := svc.Resolve("Sepia")
	assert.True(t, ok)
	assert.Len(t, svc.Sources(), 1)
}

func TestRemoveSourceDropsItsThemes(t *testing.T) {
	userDir := t.TempDir()
	writeSource(t, userDir, "pack", false, "Ocean", "Desert")

	svc := NewDiscoveryService(nil, []string{userDir})
	svc.Discover()
	require.Len(t, svc.Catalog(), 4)

	require.NoError(t, svc.RemoveSource("pack"))
	assert.Len(t, svc.Catalog(), 2)
	_, ok := svc.Resolve("Ocean")
	assert.False(t, ok)

	err := svc.RemoveSource("pack")
	assert.ErrorIs(t, err, quilltypes.ErrSourceUnavailable)
}

func TestUserSourceCannotClaimProtection(t *testing.T) {
	userDir := t.TempDir()
	writeSource(t, userDir, "sneaky", true, "Ocean")

	svc := NewDiscoveryService(nil, []string{userDir})
	svc.Discover()

	require.Len(t, svc.Sources(), 1)
	assert.False(t, svc.Sources()[0].Protected)
	assert.NoError(t, svc.RemoveSource("sneaky"))
}

func TestLoadEntry(t *testing.T) {
	userDir := t.TempDir()
	writeSource(t, userDir, "pack", false, "Ocean")

	svc := NewDiscoveryService(nil, []string{userDir})
	svc.Discover()

	entry, ok := svc.Resolve("Ocean")
	require.True(t, ok)
	theme, err := svc.LoadEntry(entry)
	require.NoError(t, err)
	assert.Equal(t, "Ocean", theme.Name())

	fallbackEntry, ok := svc.Resolve(FallbackDarkName)
	require.True(t, ok)
	theme, err = svc.LoadEntry(fallbackEntry)
	require.NoError(t, err)
	assert.True(t, theme.IsDark())

	// A file that vanished after discovery reports resource-not-found.
	entry.Path = filepath.Join(userDir, "gone.yaml")
	_, err = svc.LoadEntry(entry)
	assert.ErrorIs(t, err, quilltypes.ErrResourceNotFound)
}
