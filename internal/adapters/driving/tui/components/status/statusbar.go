// Package status provides status bar components for the TUI.
package status

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/octoscope/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/octoscope/internal/adapters/driving/tui/styles"
)

// State represents the current application state for display.
type State string

const (
	StateReady   State = "ready"
	StateLoading State = "loading"
	StateError   State = "error"
	StateResults State = "results"
	StateDetail  State = "detail"
)

// Bar displays application status and keybinding hints.
type Bar struct {
	styles   *styles.Styles
	keymap   *keymap.KeyMap
	state    State
	message  string
	count    int
	loggedIn bool
	width    int
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

// Init initialises the status bar.
func (s *Bar) Init() tea.Cmd {
	return nil
}

// Update handles status bar messages.
func (s *Bar) Update(_ tea.Msg) (*Bar, tea.Cmd) {
	return s, nil
}

// View renders the status bar.
func (s *Bar) View() string {
	left := s.renderLeft()
	right := s.renderRight()

	padding := max(s.width-lipgloss.Width(left)-lipgloss.Width(right), 1)

	return s.styles.StatusBar.Width(s.width).Render(
		left + strings.Repeat(" ", padding) + right,
	)
}

func (s *Bar) renderLeft() string {
	session := s.styles.Muted.Render("anonymous")
	if s.loggedIn {
		session = s.styles.Success.Render("logged in")
	}

	var text string
	switch s.state {
	case StateLoading:
		text = s.styles.Muted.Render("Loading...")
	case StateError:
		msg := "Error"
		if s.message != "" {
			msg = "Error: " + s.message
		}
		text = s.styles.Error.Render(msg)
	case StateReady, StateResults, StateDetail:
		switch {
		case s.message != "":
			text = s.styles.Normal.Render(s.message)
		case s.count > 0:
			text = s.styles.Normal.Render(fmt.Sprintf("%d repositories", s.count))
		default:
			text = s.styles.Muted.Render("Ready")
		}
	}
	return session + "  " + text
}

func (s *Bar) renderRight() string {
	var bindings []key.Binding
	switch s.state {
	case StateResults:
		bindings = s.keymap.ResultsHelp()
	case StateError:
		bindings = s.keymap.ErrorHelp()
	case StateDetail:
		bindings = s.keymap.DetailHelp()
	case StateReady, StateLoading:
		bindings = s.keymap.ShortHelp()
	}

	hints := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		hints = append(hints, fmt.Sprintf("%s: %s", h.Key, h.Desc))
	}
	return s.styles.Muted.Render(strings.Join(hints, " | "))
}

// SetState sets the current state.
func (s *Bar) SetState(state State) {
	s.state = state
}

// State returns the current state.
func (s *Bar) State() State {
	return s.state
}

// SetMessage sets a custom message.
func (s *Bar) SetMessage(message string) {
	s.message = message
}

// Message returns the current message.
func (s *Bar) Message() string {
	return s.message
}

// SetCount sets the number of repositories shown.
func (s *Bar) SetCount(count int) {
	s.count = count
}

// Count returns the number of repositories shown.
func (s *Bar) Count() int {
	return s.count
}

// SetLoggedIn sets the session indicator.
func (s *Bar) SetLoggedIn(loggedIn bool) {
	s.loggedIn = loggedIn
}

// SetWidth sets the status bar width.
func (s *Bar) SetWidth(width int) {
	s.width = width
}

// Width returns the current width.
func (s *Bar) Width() int {
	return s.width
}

// Clear resets the status bar to its default state. The session indicator
// is kept.
func (s *Bar) Clear() {
	s.state = StateReady
	s.message = ""
	s.count = 0
}
