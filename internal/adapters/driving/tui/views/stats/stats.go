// Package stats provides the vector store statistics view for the TUI.
package stats

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/aditya-mahendru/docMgr/internal/adapters/driving/tui/keymap"
	"github.com/aditya-mahendru/docMgr/internal/adapters/driving/tui/messages"
	"github.com/aditya-mahendru/docMgr/internal/adapters/driving/tui/styles"
	"github.com/aditya-mahendru/docMgr/internal/core/domain"
	"github.com/aditya-mahendru/docMgr/internal/core/ports/driving"
)

// View shows collection statistics.
type View struct {
	styles     *styles.Styles
	keymap     *keymap.KeyMap
	collection driving.CollectionService
	ctx        context.Context

	stats   *domain.VectorStats
	loading bool
	err     error
}

// NewView creates a new statistics view.
func NewView(s *styles.Styles, collection driving.CollectionService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	return &View{
		styles:     s,
		keymap:     keymap.DefaultKeyMap(),
		collection: collection,
		ctx:        context.Background(),
	}
}

// WithContext sets the context for service calls.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init loads the statistics.
func (v *View) Init() tea.Cmd {
	v.loading = true
	v.err = nil
	svc, ctx := v.collection, v.ctx
	return func() tea.Msg {
		stats, err := svc.Stats(ctx)
		return messages.StatsLoaded{Stats: stats, Err: err}
	}
}

// Update handles messages for the statistics view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case messages.StatsLoaded:
		v.loading = false
		v.err = msg.Err
		if msg.Err == nil {
			v.stats = msg.Stats
		}
	case messages.ErrorOccurred:
		v.err = msg.Err
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, v.keymap.Back):
			return v, func() tea.Msg {
				return messages.ViewChanged{View: messages.ViewMenu}
			}
		case key.Matches(msg, v.keymap.Reload):
			return v, v.Init()
		}
	}
	return v, nil
}

// View renders the statistics.
func (v *View) View() string {
	var b strings.Builder
	b.WriteString(v.styles.Title.Render("Collection"))
	b.WriteString("\n\n")

	switch {
	case v.loading:
		b.WriteString(v.styles.Muted.Render("Loading statistics..."))
	case v.err != nil:
		b.WriteString(v.styles.Error.Render("Error: " + v.err.Error()))
	case v.stats != nil:
		v.writeStats(&b)
	}

	b.WriteString("\n\n")
	b.WriteString(v.styles.Help.Render("[r] reload  [esc] back"))
	return b.String()
}

func (v *View) writeStats(b *strings.Builder) {
	row := func(label string, value any) {
		b.WriteString(v.styles.Subtitle.Render(fmt.Sprintf("%-12s", label+":")))
		b.WriteString(v.styles.Normal.Render(fmt.Sprintf(" %v", value)))
		b.WriteString("\n")
	}
	row("Name", v.stats.Collection)
	row("Records", v.stats.RecordCount)
	row("Documents", v.stats.DocumentCount)
	row("Dimensions", v.stats.Dimensions)

	if s := v.stats.Sample; s != nil {
		b.WriteString("\n")
		b.WriteString(v.styles.Muted.Render(fmt.Sprintf("Sample: %s (%s), chunk size %d of %d chunks",
			s.Filename, s.ContentType, s.ChunkSize, s.TotalChunks)))
	}
}

// Stats returns the loaded statistics.
func (v *View) Stats() *domain.VectorStats {
	return v.stats
}

// Err returns the last error.
func (v *View) Err() error {
	return v.err
}
