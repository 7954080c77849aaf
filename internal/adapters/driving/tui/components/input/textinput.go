// Package input provides text input components for the TUI.
package input

import (
	"fmt"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/aditya-mahendru/docMgr/internal/adapters/driving/tui/styles"
	"github.com/aditya-mahendru/docMgr/internal/core/domain"
)

// queryLimit caps the query length accepted by the input.
const queryLimit = 512

// SearchInput wraps a bubbles textinput and shows the active search options.
type SearchInput struct {
	textinput textinput.Model
	styles    *styles.Styles
	options   domain.SearchOptions
	width     int
}

// NewSearchInput creates a new search input component.
func NewSearchInput(s *styles.Styles) *SearchInput {
	if s == nil {
		s = styles.DefaultStyles()
	}

	ti := textinput.New()
	ti.Placeholder = "Ask about your documents..."
	ti.Focus()
	ti.CharLimit = queryLimit
	ti.Width = 50

	return &SearchInput{
		textinput: ti,
		styles:    s,
		options:   domain.DefaultSearchOptions(),
		width:     50,
	}
}

// Init starts the cursor blinking.
func (s *SearchInput) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles input messages.
func (s *SearchInput) Update(msg tea.Msg) (*SearchInput, tea.Cmd) {
	var cmd tea.Cmd
	s.textinput, cmd = s.textinput.Update(msg)
	return s, cmd
}

// View renders the input followed by the result count and threshold.
func (s *SearchInput) View() string {
	label := s.styles.Title.Render("Search ")
	field := s.styles.InputField.Render(s.textinput.View())
	opts := s.styles.Muted.Render(fmt.Sprintf(" top %d, min %.2f", s.options.NResults, s.options.Threshold))
	return lipgloss.JoinHorizontal(lipgloss.Center, label, field, opts)
}

// Value returns the current input value.
func (s *SearchInput) Value() string {
	return s.textinput.Value()
}

// SetValue sets the input value.
func (s *SearchInput) SetValue(value string) {
	s.textinput.SetValue(value)
}

// Options returns the options shown beside the input.
func (s *SearchInput) Options() domain.SearchOptions {
	return s.options
}

// SetOptions sets the options shown beside the input.
func (s *SearchInput) SetOptions(opts domain.SearchOptions) {
	s.options = opts
}

// Focus sets focus on the input.
func (s *SearchInput) Focus() tea.Cmd {
	return s.textinput.Focus()
}

// Blur removes focus from the input.
func (s *SearchInput) Blur() {
	s.textinput.Blur()
}

// Focused returns whether the input is focused.
func (s *SearchInput) Focused() bool {
	return s.textinput.Focused()
}

// SetWidth sets the width of the input, leaving room for the label and options.
func (s *SearchInput) SetWidth(width int) {
	s.width = width
	s.textinput.Width = max(width-32, 20)
}

// Width returns the current width.
func (s *SearchInput) Width() int {
	return s.width
}

// Reset clears the input.
func (s *SearchInput) Reset() {
	s.textinput.Reset()
}
