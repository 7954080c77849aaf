// Package documents provides the document list view for the TUI.
package documents

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize"

	"github.com/aditya-mahendru/docMgr/internal/adapters/driving/tui/components/list"
	"github.com/aditya-mahendru/docMgr/internal/adapters/driving/tui/keymap"
	"github.com/aditya-mahendru/docMgr/internal/adapters/driving/tui/messages"
	"github.com/aditya-mahendru/docMgr/internal/adapters/driving/tui/styles"
	"github.com/aditya-mahendru/docMgr/internal/core/domain"
	"github.com/aditya-mahendru/docMgr/internal/core/ports/driving"
)

// ErrReprocessUnavailable is reported when no ingestion service is wired.
var ErrReprocessUnavailable = errors.New("reprocessing is not available")

// View is the document list view.
type View struct {
	styles     *styles.Styles
	keymap     *keymap.KeyMap
	documents  driving.DocumentService
	collection driving.CollectionService
	ingestion  driving.IngestionService
	ctx        context.Context

	items        []domain.DocumentInfo
	selected     int
	scrollOffset int
	width        int
	height       int
	loading      bool
	err          error
	notice       string

	// confirming holds the ID awaiting delete confirmation.
	confirming string
}

// NewView creates a new documents view. ingestion may be nil, which
// disables reprocessing.
func NewView(
	s *styles.Styles,
	documents driving.DocumentService,
	collection driving.CollectionService,
	ingestion driving.IngestionService,
) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	return &View{
		styles:     s,
		keymap:     keymap.DefaultKeyMap(),
		documents:  documents,
		collection: collection,
		ingestion:  ingestion,
		ctx:        context.Background(),
		width:      80,
		height:     24,
	}
}

// WithContext sets the context for service calls.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init loads the document list.
func (v *View) Init() tea.Cmd {
	v.loading = true
	v.err = nil
	v.notice = ""
	v.confirming = ""
	return v.load()
}

func (v *View) load() tea.Cmd {
	svc, ctx := v.documents, v.ctx
	return func() tea.Msg {
		docs, err := svc.List(ctx)
		return messages.DocumentsLoaded{Documents: docs, Err: err}
	}
}

// Update handles messages for the documents view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		if v.confirming != "" {
			return v.handleConfirm(msg)
		}
		return v.handleKeyMsg(msg)

	case messages.DocumentsLoaded:
		v.loading = false
		v.err = msg.Err
		if msg.Err == nil {
			v.items = msg.Documents
			v.selected = min(v.selected, max(len(v.items)-1, 0))
			v.adjustScroll()
		}
		return v, nil

	case messages.DocumentReprocessed:
		if msg.Err != nil {
			v.err = msg.Err
			return v, nil
		}
		v.notice = fmt.Sprintf("Reprocessed %s: %d chunks stored", msg.DocumentID, msg.Report.Chunks)
		return v, nil

	case messages.DocumentRemoved:
		if msg.Err != nil {
			v.err = msg.Err
			return v, nil
		}
		v.notice = fmt.Sprintf("Deleted %s", msg.DocumentID)
		return v, v.load()

	case messages.ErrorOccurred:
		v.err = msg.Err
		return v, nil
	}

	return v, nil
}

func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keymap.Back):
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewMenu}
		}
	case key.Matches(msg, v.keymap.Up):
		if v.selected > 0 {
			v.selected--
			v.adjustScroll()
		}
	case key.Matches(msg, v.keymap.Down):
		if v.selected < len(v.items)-1 {
			v.selected++
			v.adjustScroll()
		}
	case key.Matches(msg, v.keymap.Reload):
		return v, v.Init()
	}

	doc := v.SelectedDocument()
	if doc == nil {
		return v, nil
	}

	switch {
	case key.Matches(msg, v.keymap.Open):
		req := messages.ChunksRequested{DocumentID: doc.ID, Title: doc.Filename}
		return v, func() tea.Msg { return req }
	case key.Matches(msg, v.keymap.Details):
		return v, v.loadDetails(*doc)
	case key.Matches(msg, v.keymap.Reprocess):
		v.notice = "Reprocessing " + doc.Filename + "..."
		return v, v.reprocess(doc.ID)
	case key.Matches(msg, v.keymap.Delete):
		v.confirming = doc.ID
	}
	return v, nil
}

func (v *View) handleConfirm(msg tea.KeyMsg) (*View, tea.Cmd) {
	id := v.confirming
	v.confirming = ""
	if msg.String() != "y" {
		return v, nil
	}
	svc, ctx := v.documents, v.ctx
	return v, func() tea.Msg {
		return messages.DocumentRemoved{DocumentID: id, Err: svc.Remove(ctx, id)}
	}
}

// loadDetails pairs the document with its stored chunk count.
func (v *View) loadDetails(doc domain.DocumentInfo) tea.Cmd {
	svc, ctx := v.collection, v.ctx
	return func() tea.Msg {
		chunks, err := svc.Chunks(ctx, doc.ID)
		if err != nil {
			return messages.DocumentDetailsLoaded{DocumentID: doc.ID, Err: err}
		}
		return messages.DocumentDetailsLoaded{
			DocumentID: doc.ID,
			Details:    &messages.DocumentDetails{Document: doc, ChunkCount: len(chunks)},
		}
	}
}

func (v *View) reprocess(id string) tea.Cmd {
	svc, ctx := v.ingestion, v.ctx
	return func() tea.Msg {
		if svc == nil {
			return messages.DocumentReprocessed{DocumentID: id, Err: ErrReprocessUnavailable}
		}
		report, err := svc.Reprocess(ctx, id)
		return messages.DocumentReprocessed{DocumentID: id, Report: report, Err: err}
	}
}

func (v *View) adjustScroll() {
	visible := v.visibleItemCount()
	if v.selected < v.scrollOffset {
		v.scrollOffset = v.selected
	} else if v.selected >= v.scrollOffset+visible {
		v.scrollOffset = v.selected - visible + 1
	}
}

func (v *View) visibleItemCount() int {
	return max(v.height-8, 1)
}

// View renders the documents view.
func (v *View) View() string {
	var b strings.Builder

	b.WriteString(v.styles.Title.Render(fmt.Sprintf("Documents (%d)", len(v.items))))
	b.WriteString("\n\n")

	switch {
	case v.loading:
		b.WriteString(v.styles.Muted.Render("Loading documents..."))
	case v.err != nil:
		b.WriteString(v.styles.Error.Render("Error: " + v.err.Error()))
		if len(v.items) > 0 {
			b.WriteString("\n\n")
			b.WriteString(v.renderList())
		}
	case len(v.items) == 0:
		b.WriteString(v.styles.Muted.Render("No documents uploaded. Use docmgr add <file> to ingest one."))
	default:
		b.WriteString(v.renderList())
	}

	b.WriteString("\n\n")
	switch {
	case v.confirming != "":
		b.WriteString(v.styles.Error.Render(fmt.Sprintf("Delete %s and its chunks? [y/N]", v.confirming)))
	case v.notice != "":
		b.WriteString(v.styles.Success.Render(v.notice))
	}
	b.WriteString("\n")
	b.WriteString(v.styles.Help.Render(
		"[↑/↓] navigate  [enter] chunks  [i] details  [p] reprocess  [d] delete  [r] reload  [esc] back"))
	return b.String()
}

func (v *View) renderList() string {
	visible := v.visibleItemCount()
	end := min(v.scrollOffset+visible, len(v.items))
	lines := make([]string, 0, end-v.scrollOffset+1)

	nameWidth := max(v.width/2-4, 12)
	for i := v.scrollOffset; i < end; i++ {
		doc := v.items[i]
		name := list.Truncate(doc.Filename, nameWidth)
		meta := fmt.Sprintf("%s  %s  %s", doc.ContentType, humanize.Bytes(uint64(doc.Size)), doc.ID)

		if i == v.selected {
			lines = append(lines, v.styles.Selected.Render(fmt.Sprintf("> %-*s  %s", nameWidth, name, meta)))
			continue
		}
		lines = append(lines, v.styles.Normal.Render(fmt.Sprintf("  %-*s  ", nameWidth, name))+
			v.styles.Muted.Render(meta))
	}

	if len(v.items) > visible {
		lines = append(lines, v.styles.Muted.Render(fmt.Sprintf("  [%d-%d of %d]",
			v.scrollOffset+1, end, len(v.items))))
	}
	return strings.Join(lines, "\n")
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.adjustScroll()
}

// Documents returns the listed documents.
func (v *View) Documents() []domain.DocumentInfo {
	return v.items
}

// SelectedDocument returns the highlighted document, or nil.
func (v *View) SelectedDocument() *domain.DocumentInfo {
	if v.selected < 0 || v.selected >= len(v.items) {
		return nil
	}
	return &v.items[v.selected]
}

// Confirming reports whether a delete awaits confirmation.
func (v *View) Confirming() bool {
	return v.confirming != ""
}

// Err returns the last error.
func (v *View) Err() error {
	return v.err
}
