package statemachine

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMachineStartsUninitialized(t *testing.T) {
	m := NewMachine()
	assert.Equal(t, Uninitialized, m.State())
	assert.False(t, m.AtLeast(FallbackActive))
}

func TestMachineAdvancesInOrder(t *testing.T) {
	m := NewMachine()

	steps := []StartupState{FallbackActive, PluginsDiscovered, UserThemeApplied, Ready}
	for _, next := range steps {
		require.NoError(t, m.Advance(next, func() error { return nil }))
		assert.Equal(t, next, m.State())
	}
	assert.True(t, m.AtLeast(Ready))
}

func TestMachineHoldsStateOnFailure(t *testing.T) {
	m := NewMachine()
	require.NoError(t, m.Advance(FallbackActive, func() error { return nil }))

	stepErr := errors.New("catalog scan failed")
	err := m.Advance(PluginsDiscovered, func() error { return stepErr })
	require.Error(t, err)
	assert.ErrorIs(t, err, stepErr)
	assert.Equal(t, FallbackActive, m.State())

	// Retrying the same transition after the failure is legal.
	require.NoError(t, m.Advance(PluginsDiscovered, func() error { return nil }))
	assert.Equal(t, PluginsDiscovered, m.State())
}

func TestMachineRejectsSkipsAndBackwardMoves(t *testing.T) {
	m := NewMachine()

	err := m.Advance(PluginsDiscovered, func() error { return nil })
	require.Error(t, err)
	assert.Equal(t, Uninitialized, m.State())

	require.NoError(t, m.Advance(FallbackActive, func() error { return nil }))
	err = m.Advance(Uninitialized, func() error { return nil })
	require.Error(t, err)
	assert.Equal(t, FallbackActive, m.State())
}

func TestStartupStateStrings(t *testing.T) {
	assert.Equal(t, "uninitialized", Uninitialized.String())
	assert.Equal(t, "fallback-active", FallbackActive.String())
	assert.Equal(t, "plugins-discovered", PluginsDiscovered.String())
	assert.Equal(t, "user-theme-applied", UserThemeApplied.String())
	assert.Equal(t, "ready", Ready.String())
}
