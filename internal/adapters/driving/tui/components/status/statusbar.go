// Package status provides the status bar component for the TUI.
package status

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/copilot-cli/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/copilot-cli/internal/adapters/driving/tui/styles"
)

// State represents what the left side of the bar shows.
type State string

const (
	StateReady State = "ready"
	StateInfo  State = "info"
	StateError State = "error"
)

// Bar displays the last event and keybinding hints.
type Bar struct {
	styles  *styles.Styles
	keymap  *keymap.KeyMap
	state   State
	message string
	summary string
	hints   []key.Binding
	width   int
}

// NewBar creates a new status bar component.
func NewBar(s *styles.Styles, km *keymap.KeyMap) *Bar {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	return &Bar{
		styles: s,
		keymap: km,
		state:  StateReady,
		width:  80,
	}
}

// View renders the status bar.
func (s *Bar) View() string {
	left := s.renderLeft()
	right := s.renderRight()

	padding := s.width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if padding < 1 {
		padding = 1
	}

	return s.styles.StatusBar.Width(s.width).Render(
		left + strings.Repeat(" ", padding) + right,
	)
}

func (s *Bar) renderLeft() string {
	switch s.state {
	case StateError:
		return s.styles.Error.Render(fmt.Sprintf("Error: %s", s.message))
	case StateInfo:
		return s.styles.Normal.Render(s.message)
	case StateReady:
	}
	if s.summary != "" {
		return s.styles.Muted.Render(s.summary)
	}
	return s.styles.Muted.Render("Ready")
}

func (s *Bar) renderRight() string {
	bindings := append(append([]key.Binding{}, s.hints...), s.keymap.ShortHelp()...)
	hints := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		hints = append(hints, fmt.Sprintf("%s %s", h.Key, h.Desc))
	}
	return s.styles.Muted.Render(strings.Join(hints, " · "))
}

// SetError shows err until the next SetInfo or Clear.
func (s *Bar) SetError(err error) {
	if err == nil {
		s.Clear()
		return
	}
	s.state = StateError
	s.message = err.Error()
}

// SetInfo shows a transient message.
func (s *Bar) SetInfo(message string) {
	s.state = StateInfo
	s.message = message
}

// SetSummary sets the text shown when there is no message.
func (s *Bar) SetSummary(summary string) {
	s.summary = summary
}

// SetHints sets the context-specific bindings shown before the global ones.
func (s *Bar) SetHints(hints []key.Binding) {
	s.hints = hints
}

// SetWidth sets the status bar width.
func (s *Bar) SetWidth(width int) {
	s.width = width
}

// State returns the current state.
func (s *Bar) State() State {
	return s.state
}

// Message returns the current message.
func (s *Bar) Message() string {
	return s.message
}

// Clear drops the message.
func (s *Bar) Clear() {
	s.state = StateReady
	s.message = ""
}
