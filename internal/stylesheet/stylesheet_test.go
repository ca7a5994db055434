package stylesheet

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quill/pkg/quilltypes"
)

func testTheme() *quilltypes.ThemeDescriptor {
	theme := &quilltypes.ThemeDescriptor{}
	theme.Meta.Name = "Test"
	theme.Palette.ToolTipBase = quilltypes.MustColor("#ffffdc")
	theme.Palette.ToolTipText = quilltypes.MustColor("#000000")
	theme.Palette.Mid = quilltypes.MustColor("#a0a0a0")
	theme.Log.Background = quilltypes.MustColor("#f5f5f5")
	theme.Log.Info = quilltypes.MustColor("#111111")
	return theme
}

func TestGenerateEmitsTooltipAndLogPanelRules(t *testing.T) {
	rules := Generate(testTheme())

	assert.Contains(t, rules, "ToolTip {")
	assert.Contains(t, rules, "background-color: #ffffdc;")
	assert.Contains(t, rules, "color: #000000;")
	assert.Contains(t, rules, "border: 1px solid #a0a0a0;")

	assert.Contains(t, rules, "LogPanel {")
	assert.Contains(t, rules, "background-color: #f5f5f5;")
	assert.Contains(t, rules, "color: #111111;")

	// Tooltip rules come before the log panel rules.
	assert.Less(t, strings.Index(rules, "ToolTip"), strings.Index(rules, "LogPanel"))
}

func TestGenerateTracksPalette(t *testing.T) {
	theme := testTheme()
	theme.Palette.ToolTipBase = quilltypes.MustColor("#3c3c3c")
	theme.Log.Background = quilltypes.MustColor("#252525")

	rules := Generate(theme)
	assert.Contains(t, rules, "#3c3c3c")
	assert.Contains(t, rules, "#252525")
	assert.NotContains(t, rules, "#ffffdc")
}

func TestDarkenAndLighten(t *testing.T) {
	base := quilltypes.MustColor("#808080")

	darker := Darken(base, 20)
	lighter := Lighten(base, 20)
	require.True(t, darker.IsValid())
	require.True(t, lighter.IsValid())
	assert.NotEqual(t, base, darker)
	assert.NotEqual(t, base, lighter)
	assert.True(t, darker.IsDark())
	assert.False(t, lighter.IsDark())
}
