// Package input provides the repository query box for the TUI.
package input

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/octoscope/internal/adapters/driving/tui/styles"
)

const (
	queryLimit = 256 // GitHub rejects longer search queries
	labelWidth = 12
)

// SearchInput is the query box above the repository list. While the hot
// list is shown the label says so and the typed text is kept for later.
type SearchInput struct {
	textinput textinput.Model
	styles    *styles.Styles
	width     int
	hot       bool
}

// NewSearchInput creates a focused query box.
func NewSearchInput(s *styles.Styles) *SearchInput {
	if s == nil {
		s = styles.DefaultStyles()
	}

	ti := textinput.New()
	ti.Placeholder = "Search repositories, e.g. language:go bubbletea"
	ti.Focus()
	ti.CharLimit = queryLimit
	ti.Width = 50

	return &SearchInput{
		textinput: ti,
		styles:    s,
		width:     50,
	}
}

// Init starts the cursor blinking.
func (s *SearchInput) Init() tea.Cmd {
	return textinput.Blink
}

// Update forwards msg to the text box.
func (s *SearchInput) Update(msg tea.Msg) (*SearchInput, tea.Cmd) {
	var cmd tea.Cmd
	s.textinput, cmd = s.textinput.Update(msg)
	return s, cmd
}

// View renders the label and the text box.
func (s *SearchInput) View() string {
	label := s.styles.Title.Render("Search: ")
	if s.hot {
		label = s.styles.Title.Render("Hot: ")
	}
	box := s.styles.InputField.Render(s.textinput.View())
	//nolint:misspell // lipgloss.Center is the correct constant from the library
	return lipgloss.JoinHorizontal(lipgloss.Center, label, box)
}

// Value returns the raw text in the box.
func (s *SearchInput) Value() string {
	return s.textinput.Value()
}

// Query returns the text with surrounding whitespace removed.
func (s *SearchInput) Query() string {
	return strings.TrimSpace(s.textinput.Value())
}

// SetHot switches the label between search and hot mode.
func (s *SearchInput) SetHot(hot bool) {
	s.hot = hot
}

// Hot reports whether the label is in hot mode.
func (s *SearchInput) Hot() bool {
	return s.hot
}

// Focus gives the box keyboard focus.
func (s *SearchInput) Focus() tea.Cmd {
	return s.textinput.Focus()
}

// Blur removes keyboard focus.
func (s *SearchInput) Blur() {
	s.textinput.Blur()
}

// Focused reports whether the box has keyboard focus.
func (s *SearchInput) Focused() bool {
	return s.textinput.Focused()
}

// SetWidth sizes the box to fit width next to its label.
func (s *SearchInput) SetWidth(width int) {
	s.width = width
	s.textinput.Width = max(width-labelWidth, 20)
}

// Width returns the width given to SetWidth.
func (s *SearchInput) Width() int {
	return s.width
}
