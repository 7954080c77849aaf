// Package keymap defines keybindings for the TUI.
package keymap

import (
	"github.com/charmbracelet/bubbles/key"
)

// KeyMap defines all keybindings for the TUI.
type KeyMap struct {
	Quit key.Binding
	Back key.Binding

	// Submit runs the query in the search input.
	Submit key.Binding

	Up   key.Binding
	Down key.Binding

	// Open shows the chunks of the selected result or document.
	Open key.Binding

	// NewSearch returns focus to the search input.
	NewSearch key.Binding

	// More and Fewer change the number of results requested.
	More  key.Binding
	Fewer key.Binding

	// Stricter and Looser move the similarity threshold.
	Stricter key.Binding
	Looser   key.Binding

	// Details, Reprocess, Delete and Reload act on the document list.
	Details   key.Binding
	Reprocess key.Binding
	Delete    key.Binding
	Reload    key.Binding
}

// DefaultKeyMap returns the default keybindings.
func DefaultKeyMap() *KeyMap {
	return &KeyMap{
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		Submit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "search"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Open: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "chunks"),
		),
		NewSearch: key.NewBinding(
			key.WithKeys("n", "/"),
			key.WithHelp("n", "new search"),
		),
		More: key.NewBinding(
			key.WithKeys("+", "="),
			key.WithHelp("+", "more"),
		),
		Fewer: key.NewBinding(
			key.WithKeys("-"),
			key.WithHelp("-", "fewer"),
		),
		Stricter: key.NewBinding(
			key.WithKeys("]"),
			key.WithHelp("]", "raise threshold"),
		),
		Looser: key.NewBinding(
			key.WithKeys("["),
			key.WithHelp("[", "lower threshold"),
		),
		Details: key.NewBinding(
			key.WithKeys("i"),
			key.WithHelp("i", "details"),
		),
		Reprocess: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "reprocess"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete"),
		),
		Reload: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "reload"),
		),
	}
}

// InputHelp returns keybindings shown while typing a query.
func (k *KeyMap) InputHelp() []key.Binding {
	return []key.Binding{k.Submit, k.Back}
}

// ResultsHelp returns keybindings for the results view.
func (k *KeyMap) ResultsHelp() []key.Binding {
	return []key.Binding{k.Open, k.NewSearch, k.More, k.Stricter, k.Back}
}

// DocumentsHelp returns keybindings for the document list.
func (k *KeyMap) DocumentsHelp() []key.Binding {
	return []key.Binding{k.Open, k.Details, k.Reprocess, k.Delete, k.Reload, k.Back}
}
