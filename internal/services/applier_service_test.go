package services

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quill/internal/store"
	"quill/pkg/quilltypes"
)

// recordingTarget captures every styling call in order.
type recordingTarget struct {
	calls       []string
	paletteErr  error
	stylesheets []string
}

func (r *recordingTarget) ApplyBaseStyle(name string) error {
	r.calls = append(r.calls, "base:"+name)
	return nil
}

func (r *recordingTarget) ApplyPalette(_ quilltypes.Palette) error {
	r.calls = append(r.calls, "palette")
	return r.paletteErr
}

func (r *recordingTarget) ApplyComponentRules(rules string) error {
	r.calls = append(r.calls, "rules")
	r.stylesheets = append(r.stylesheets, rules)
	return nil
}

func (r *recordingTarget) ApplyStylesheet(sheet string) error {
	r.calls = append(r.calls, "stylesheet")
	r.stylesheets = append(r.stylesheets, sheet)
	return nil
}

func newTestApplier(t *testing.T, target quilltypes.StyleTarget) (*ApplierService, *IconService, *ThemeService, *store.MemStore) {
	t.Helper()
	settings := store.NewMemStore()
	themes := NewThemeService()
	icons := NewIconService(&countingRasterizer{}, settings)
	require.NoError(t, themes.Initialize())
	require.NoError(t, icons.Initialize())

	applier := NewApplierService(target, themes, icons, settings)
	require.NoError(t, applier.Initialize())
	return applier, icons, themes, settings
}

func TestApplyLayerOrder(t *testing.T) {
	target := &recordingTarget{}
	applier, _, _, _ := newTestApplier(t, target)

	theme := FallbackDark()
	theme.Stylesheet = "QToolTip { border: none; }"
	require.NoError(t, applier.Apply(theme))

	require.Len(t, target.calls, 4)
	assert.Equal(t, "base:fusion", target.calls[0])
	assert.Equal(t, "palette", target.calls[1])
	assert.Equal(t, "rules", target.calls[2])
	assert.Equal(t, "stylesheet", target.calls[3])
}

func TestApplySkipsEmptyStylesheet(t *testing.T) {
	target := &recordingTarget{}
	applier, _, _, _ := newTestApplier(t, target)

	require.NoError(t, applier.Apply(FallbackLight()))
	assert.Equal(t, []string{"base:fusion", "palette", "rules"}, target.calls)
}

func TestApplyContinuesPastLayerFailure(t *testing.T) {
	target := &recordingTarget{paletteErr: errors.New("palette rejected")}
	applier, _, _, _ := newTestApplier(t, target)

	require.NoError(t, applier.Apply(FallbackLight()))
	assert.Equal(t, []string{"base:fusion", "palette", "rules"}, target.calls)
}

func TestApplyUpdatesServicesAndSettings(t *testing.T) {
	applier, icons, themes, settings := newTestApplier(t, nil)

	// Prime the cache under the light theme.
	icons.GetIcon("file.save", 24)
	require.Equal(t, 1, icons.CacheLen())

	require.NoError(t, applier.Apply(FallbackDark()))

	assert.Equal(t, FallbackDarkName, themes.ActiveName())
	assert.Equal(t, FallbackDarkName, icons.ThemeName())
	assert.Equal(t, quilltypes.MustColor("#999999"), icons.ThemeColors().Primary)
	assert.Equal(t, 0, icons.CacheLen(), "stale renders must be gone when Apply returns")
	assert.Equal(t, FallbackDarkName, settings.GetString("ui/theme", ""))
}

func TestObserverFiresOncePerApplication(t *testing.T) {
	applier, _, _, _ := newTestApplier(t, nil)

	var seen []string
	token := applier.Subscribe(func(theme *quilltypes.ThemeDescriptor) {
		seen = append(seen, theme.Name())
	})

	require.NoError(t, applier.Apply(FallbackDark()))
	require.NoError(t, applier.Apply(FallbackLight()))
	assert.Equal(t, []string{FallbackDarkName, FallbackLightName}, seen)

	applier.Unsubscribe(token)
	require.NoError(t, applier.Apply(FallbackDark()))
	assert.Len(t, seen, 2)
}

func TestRefreshReappliesOverriddenTheme(t *testing.T) {
	target := &recordingTarget{}
	applier, icons, themes, _ := newTestApplier(t, target)
	require.NoError(t, applier.Apply(FallbackLight()))

	themes.SetColorOverride("primary", quilltypes.MustColor("#112233"))
	target.calls = nil

	var notified int
	applier.Subscribe(func(*quilltypes.ThemeDescriptor) { notified++ })
	applier.Refresh()

	assert.Equal(t, []string{"base:fusion", "palette", "rules"}, target.calls)
	assert.Equal(t, 1, notified)
	assert.Equal(t, quilltypes.MustColor("#112233"), icons.ThemeColors().Primary)
}
