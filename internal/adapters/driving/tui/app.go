package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/aditya-mahendru/docMgr/internal/adapters/driving/tui/messages"
	"github.com/aditya-mahendru/docMgr/internal/adapters/driving/tui/styles"
	"github.com/aditya-mahendru/docMgr/internal/adapters/driving/tui/views/chunks"
	"github.com/aditya-mahendru/docMgr/internal/adapters/driving/tui/views/docdetails"
	"github.com/aditya-mahendru/docMgr/internal/adapters/driving/tui/views/documents"
	"github.com/aditya-mahendru/docMgr/internal/adapters/driving/tui/views/menu"
	"github.com/aditya-mahendru/docMgr/internal/adapters/driving/tui/views/search"
	"github.com/aditya-mahendru/docMgr/internal/adapters/driving/tui/views/stats"
)

// App is the root TUI model following the Elm architecture.
// It owns the views and routes messages to the active one.
type App struct {
	ports  *Ports
	ctx    context.Context
	styles *styles.Styles

	menuView      *menu.View
	searchView    *search.View
	documentsView *documents.View
	chunksView    *chunks.View
	detailsView   *docdetails.View
	statsView     *stats.View

	currentView messages.ViewType
	err         error

	width  int
	height int
	ready  bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a new TUI application with the given ports.
func NewApp(ports *Ports) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	s := styles.DefaultStyles()
	return &App{
		ports:         ports,
		ctx:           context.Background(),
		styles:        s,
		menuView:      menu.NewView(s),
		searchView:    search.NewView(s, nil, ports.Search, ports.SearchDefaults),
		documentsView: documents.NewView(s, ports.Document, ports.Collection, ports.Ingestion),
		chunksView:    chunks.NewView(s, ports.Collection),
		detailsView:   docdetails.NewView(s),
		statsView:     stats.NewView(s, ports.Collection),
		currentView:   messages.ViewMenu,
	}, nil
}

// WithContext sets the context used for service calls.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	a.searchView.WithContext(ctx)
	a.documentsView.WithContext(ctx)
	a.chunksView.WithContext(ctx)
	a.statsView.WithContext(ctx)
	return a
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	return tea.SetWindowTitle("docmgr")
}

// Update implements tea.Model.
//
//nolint:gocyclo // central message router
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.SetDimensions(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
		if a.currentView == messages.ViewHelp {
			if msg.Type == tea.KeyEsc {
				a.currentView = messages.ViewMenu
			}
			return a, nil
		}
		return a, a.forward(msg)

	case messages.ViewChanged:
		prev := a.currentView
		a.currentView = msg.View
		a.err = nil
		switch msg.View {
		case messages.ViewSearch:
			// Returning from a result's chunks keeps the results.
			if prev == messages.ViewChunks {
				return a, nil
			}
			a.searchView.Reset()
			return a, a.searchView.Init()
		case messages.ViewDocuments:
			return a, a.documentsView.Init()
		case messages.ViewStats:
			return a, a.statsView.Init()
		case messages.ViewMenu, messages.ViewChunks, messages.ViewDocDetails, messages.ViewHelp:
		}
		return a, nil

	case messages.ChunksRequested:
		back := a.currentView
		a.currentView = messages.ViewChunks
		return a, a.chunksView.Open(msg, back)

	case messages.ChunksLoaded:
		a.chunksView, cmd = a.chunksView.Update(msg)
		return a, cmd

	case messages.SearchCompleted:
		a.searchView, cmd = a.searchView.Update(msg)
		a.err = a.searchView.Err()
		return a, cmd

	case messages.DocumentsLoaded, messages.DocumentReprocessed, messages.DocumentRemoved:
		a.documentsView, cmd = a.documentsView.Update(msg)
		a.err = a.documentsView.Err()
		return a, cmd

	case messages.DocumentDetailsLoaded:
		if msg.Err != nil {
			a.err = msg.Err
			a.documentsView, cmd = a.documentsView.Update(messages.ErrorOccurred{Err: msg.Err})
			return a, cmd
		}
		a.detailsView, cmd = a.detailsView.Update(msg)
		a.currentView = messages.ViewDocDetails
		return a, cmd

	case messages.StatsLoaded:
		a.statsView, cmd = a.statsView.Update(msg)
		a.err = a.statsView.Err()
		return a, cmd

	case messages.ErrorOccurred:
		a.err = msg.Err
	}

	return a, a.forward(msg)
}

// forward passes msg to the active view.
func (a *App) forward(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch a.currentView {
	case messages.ViewMenu:
		a.menuView, cmd = a.menuView.Update(msg)
	case messages.ViewSearch:
		a.searchView, cmd = a.searchView.Update(msg)
	case messages.ViewDocuments:
		a.documentsView, cmd = a.documentsView.Update(msg)
	case messages.ViewChunks:
		a.chunksView, cmd = a.chunksView.Update(msg)
	case messages.ViewDocDetails:
		a.detailsView, cmd = a.detailsView.Update(msg)
	case messages.ViewStats:
		a.statsView, cmd = a.statsView.Update(msg)
	case messages.ViewHelp:
	}
	return cmd
}

// View implements tea.Model.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	switch a.currentView {
	case messages.ViewSearch:
		return a.searchView.View()
	case messages.ViewDocuments:
		return a.documentsView.View()
	case messages.ViewChunks:
		return a.chunksView.View()
	case messages.ViewDocDetails:
		return a.detailsView.View()
	case messages.ViewStats:
		return a.statsView.View()
	case messages.ViewHelp:
		return a.viewHelp()
	default:
		return a.menuView.View()
	}
}

func (a *App) viewHelp() string {
	return a.styles.Title.Render("Help") + `

Global:
  ctrl+c      Quit
  esc         Back

Search:
  enter       Run the query
  j/k, ↑/↓    Move through results
  enter       Show the chunks of the selected document
  n           New search
  + / -       More or fewer results (1 to 20)
  ] / [       Raise or lower the similarity threshold

Documents:
  enter       Show chunks
  i           Details
  p           Reprocess from stored bytes
  d           Delete, then y to confirm
  r           Reload

` + a.styles.Help.Render("[esc] back to menu")
}

// Run starts the TUI and blocks until it exits.
func (a *App) Run() error {
	p := tea.NewProgram(a, tea.WithAltScreen(), tea.WithContext(a.ctx))
	_, err := p.Run()
	return err
}

// CurrentView returns the current view type.
func (a *App) CurrentView() messages.ViewType {
	return a.currentView
}

// Err returns the last error that occurred.
func (a *App) Err() error {
	return a.err
}

// Ready returns whether the app knows the terminal size.
func (a *App) Ready() bool {
	return a.ready
}

// SetDimensions sets the terminal dimensions on every view.
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true
	a.menuView.SetDimensions(width, height)
	a.searchView.SetDimensions(width, height)
	a.documentsView.SetDimensions(width, height)
	a.chunksView.SetDimensions(width, height)
	a.detailsView.SetDimensions(width, height)
}
