// Package statemachine tracks the engine's startup progression. The machine
// only moves forward: a failed transition leaves it in the last state that
// was successfully reached, and the engine stays usable with whatever that
// state guarantees (at minimum the fallback theme).
package statemachine

import (
	"fmt"
	"sync"

	"github.com/charmbracelet/log"

	"quill/internal/logger"
)

// StartupState is one stage of the engine startup sequence.
type StartupState int

const (
	// Uninitialized is the zero state before anything has been applied.
	Uninitialized StartupState = iota

	// FallbackActive means the embedded fallback theme is applied and
	// every icon request can be answered.
	FallbackActive

	// PluginsDiscovered means the theme catalog has been built from the
	// configured source directories.
	PluginsDiscovered

	// UserThemeApplied means the persisted theme selection was resolved
	// and applied.
	UserThemeApplied

	// Ready is the terminal state: startup finished.
	Ready
)

// String returns the state name for logs and diagnostics.
func (s StartupState) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case FallbackActive:
		return "fallback-active"
	case PluginsDiscovered:
		return "plugins-discovered"
	case UserThemeApplied:
		return "user-theme-applied"
	case Ready:
		return "ready"
	default:
		return fmt.Sprintf("unknown(%d)", int(s))
	}
}

// Machine is a forward-only startup state machine.
type Machine struct {
	mu    sync.RWMutex
	state StartupState
	log   *log.Logger
}

// NewMachine creates a Machine in the Uninitialized state.
func NewMachine() *Machine {
	return &Machine{
		state: Uninitialized,
		log:   logger.NewStyledLogger("Startup"),
	}
}

// State returns the current state.
func (m *Machine) State() StartupState {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}

// Advance runs step and, on success, moves the machine to next. The machine
// never moves backwards and never skips: next must be exactly one state
// ahead. On step failure the state is unchanged and the error is returned.
func (m *Machine) Advance(next StartupState, step func() error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if next != m.state+1 {
		return fmt.Errorf("illegal transition %s -> %s", m.state, next)
	}
	if err := step(); err != nil {
		m.log.Warn("Startup step failed, holding state",
			"state", m.state.String(), "target", next.String(), "error", err)
		return err
	}
	m.state = next
	m.log.Debug("Startup state reached", "state", m.state.String())
	return nil
}

// AtLeast reports whether startup has reached the given state.
func (m *Machine) AtLeast(s StartupState) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state >= s
}
