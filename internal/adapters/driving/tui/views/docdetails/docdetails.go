// Package docdetails provides the document details view for the TUI.
package docdetails

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize"

	"github.com/aditya-mahendru/docMgr/internal/adapters/driving/tui/keymap"
	"github.com/aditya-mahendru/docMgr/internal/adapters/driving/tui/messages"
	"github.com/aditya-mahendru/docMgr/internal/adapters/driving/tui/styles"
)

// View is the document details view.
type View struct {
	styles  *styles.Styles
	keymap  *keymap.KeyMap
	details *messages.DocumentDetails
	err     error
	width   int
	height  int
}

// NewView creates a new document details view.
func NewView(s *styles.Styles) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	return &View{
		styles: s,
		keymap: keymap.DefaultKeyMap(),
		width:  80,
		height: 24,
	}
}

// SetDetails sets the document details to display.
func (v *View) SetDetails(details *messages.DocumentDetails) {
	v.details = details
	v.err = nil
}

// Update handles messages for the document details view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)

	case messages.DocumentDetailsLoaded:
		if msg.Err != nil {
			v.err = msg.Err
			v.details = nil
		} else {
			v.SetDetails(msg.Details)
		}

	case messages.ErrorOccurred:
		v.err = msg.Err

	case tea.KeyMsg:
		if key.Matches(msg, v.keymap.Back) {
			return v, func() tea.Msg {
				return messages.ViewChanged{View: messages.ViewDocuments}
			}
		}
		if key.Matches(msg, v.keymap.Open) && v.details != nil {
			doc := v.details.Document
			return v, func() tea.Msg {
				return messages.ChunksRequested{DocumentID: doc.ID, Title: doc.Filename}
			}
		}
	}
	return v, nil
}

// fields returns the label and value rows for the current document.
func (v *View) fields() [][2]string {
	d := v.details.Document
	rows := [][2]string{
		{"ID", d.ID},
		{"Filename", d.Filename},
		{"Type", d.ContentType},
		{"Size", fmt.Sprintf("%s (%d bytes)", humanize.Bytes(uint64(d.Size)), d.Size)},
		{"Chunks", fmt.Sprintf("%d", v.details.ChunkCount)},
	}
	if !d.UploadedAt.IsZero() {
		rows = append(rows, [2]string{"Uploaded",
			fmt.Sprintf("%s (%s)", d.UploadedAt.Format("2006-01-02 15:04:05"), humanize.Time(d.UploadedAt))})
	}
	if d.Description != "" {
		rows = append(rows, [2]string{"Description", d.Description})
	}
	return rows
}

// View renders the document details view.
func (v *View) View() string {
	var b strings.Builder

	b.WriteString(v.styles.Title.Render("Document Details"))
	b.WriteString("\n")
	b.WriteString(strings.Repeat("─", min(max(v.width-4, 1), 60)))
	b.WriteString("\n\n")

	switch {
	case v.err != nil:
		b.WriteString(v.styles.Error.Render("Error: " + v.err.Error()))
	case v.details == nil:
		b.WriteString(v.styles.Muted.Render("No document selected"))
	default:
		for _, row := range v.fields() {
			b.WriteString(v.styles.Subtitle.Render(fmt.Sprintf("%-12s", row[0]+":")))
			b.WriteString(" ")
			b.WriteString(v.styles.Normal.Render(row[1]))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(v.styles.Help.Render("[enter] chunks  [esc] back"))
	return b.String()
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
}

// Details returns the current document details.
func (v *View) Details() *messages.DocumentDetails {
	return v.details
}

// Err returns the last error.
func (v *View) Err() error {
	return v.err
}
