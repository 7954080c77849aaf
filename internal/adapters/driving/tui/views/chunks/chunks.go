// Package chunks provides the view that pages through a document's stored chunks.
package chunks

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/aditya-mahendru/docMgr/internal/adapters/driving/tui/keymap"
	"github.com/aditya-mahendru/docMgr/internal/adapters/driving/tui/messages"
	"github.com/aditya-mahendru/docMgr/internal/adapters/driving/tui/styles"
	"github.com/aditya-mahendru/docMgr/internal/core/domain"
	"github.com/aditya-mahendru/docMgr/internal/core/ports/driving"
)

// chrome is the number of lines used around the viewport.
const chrome = 6

// View shows the chunks of one document in a scrollable viewport.
type View struct {
	styles     *styles.Styles
	keymap     *keymap.KeyMap
	collection driving.CollectionService
	ctx        context.Context
	viewport   viewport.Model

	request messages.ChunksRequested
	chunks  []domain.Chunk
	back    messages.ViewType
	loading bool
	err     error
	width   int
	height  int
}

// NewView creates a new chunk view.
func NewView(s *styles.Styles, collection driving.CollectionService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	return &View{
		styles:     s,
		keymap:     keymap.DefaultKeyMap(),
		collection: collection,
		ctx:        context.Background(),
		viewport:   viewport.New(80, 24-chrome),
		back:       messages.ViewDocuments,
		width:      80,
		height:     24,
	}
}

// WithContext sets the context for service calls.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Open loads the requested document. Esc returns to back.
func (v *View) Open(req messages.ChunksRequested, back messages.ViewType) tea.Cmd {
	v.request = req
	v.back = back
	v.chunks = nil
	v.err = nil
	v.loading = true
	v.viewport.SetContent("")
	v.viewport.GotoTop()

	svc, ctx := v.collection, v.ctx
	return func() tea.Msg {
		chunks, err := svc.Chunks(ctx, req.DocumentID)
		return messages.ChunksLoaded{DocumentID: req.DocumentID, Chunks: chunks, Err: err}
	}
}

// Update handles messages for the chunk view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case messages.ChunksLoaded:
		if msg.DocumentID != v.request.DocumentID {
			return v, nil
		}
		v.loading = false
		v.err = msg.Err
		v.chunks = msg.Chunks
		v.render()
		return v, nil

	case messages.ErrorOccurred:
		v.err = msg.Err
		return v, nil

	case tea.KeyMsg:
		if key.Matches(msg, v.keymap.Back) {
			back := v.back
			return v, func() tea.Msg {
				return messages.ViewChanged{View: back}
			}
		}
		switch msg.String() {
		case "g", "home":
			v.viewport.GotoTop()
			return v, nil
		case "G", "end":
			v.viewport.GotoBottom()
			return v, nil
		}
	}

	var cmd tea.Cmd
	v.viewport, cmd = v.viewport.Update(msg)
	return v, cmd
}

// render lays the chunks out for the viewport and scrolls to the focused one.
func (v *View) render() {
	if len(v.chunks) == 0 {
		v.viewport.SetContent("")
		return
	}

	body := v.styles.Normal.Width(max(v.width-4, 20))
	var b strings.Builder
	focusLine := 0
	for i, c := range v.chunks {
		if c.ChunkIndex == v.request.Focus {
			focusLine = strings.Count(b.String(), "\n")
		}
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(v.styles.ChunkHeader.Render(fmt.Sprintf("chunk %d  (%d tokens)", c.ChunkIndex, c.TokenCount)))
		b.WriteString("\n")
		b.WriteString(body.Render(c.Text))
		b.WriteString("\n")
	}

	v.viewport.SetContent(b.String())
	v.viewport.SetYOffset(focusLine)
}

// View renders the chunk view.
func (v *View) View() string {
	var b strings.Builder

	title := v.request.Title
	if title == "" {
		title = v.request.DocumentID
	}
	b.WriteString(v.styles.Title.Render(title))
	b.WriteString(v.styles.Muted.Render(fmt.Sprintf("  %d chunks", len(v.chunks))))
	b.WriteString("\n")
	b.WriteString(strings.Repeat("─", min(max(v.width-4, 1), 60)))
	b.WriteString("\n")

	switch {
	case v.loading:
		b.WriteString(v.styles.Muted.Render("Loading chunks..."))
	case v.err != nil:
		b.WriteString(v.styles.Error.Render("Error: " + v.err.Error()))
	case len(v.chunks) == 0:
		b.WriteString(v.styles.Muted.Render("No chunks stored for this document."))
	default:
		b.WriteString(v.viewport.View())
		b.WriteString("\n")
		b.WriteString(v.styles.Muted.Render(fmt.Sprintf("  [%3.f%%]", v.viewport.ScrollPercent()*100)))
	}

	b.WriteString("\n\n")
	b.WriteString(v.styles.Help.Render("[↑/↓/PgUp/PgDn] scroll  [g/G] top/bottom  [esc] back"))
	return b.String()
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.viewport.Width = width
	v.viewport.Height = max(height-chrome, 1)
	v.render()
}

// Chunks returns the loaded chunks.
func (v *View) Chunks() []domain.Chunk {
	return v.chunks
}

// DocumentID returns the document being shown.
func (v *View) DocumentID() string {
	return v.request.DocumentID
}

// Back returns the view that esc returns to.
func (v *View) Back() messages.ViewType {
	return v.back
}

// Offset returns the first visible line.
func (v *View) Offset() int {
	return v.viewport.YOffset
}

// Err returns the last error.
func (v *View) Err() error {
	return v.err
}
