// Package search provides the search view for the TUI.
package search

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/aditya-mahendru/docMgr/internal/adapters/driving/tui/components/input"
	"github.com/aditya-mahendru/docMgr/internal/adapters/driving/tui/components/list"
	"github.com/aditya-mahendru/docMgr/internal/adapters/driving/tui/components/status"
	"github.com/aditya-mahendru/docMgr/internal/adapters/driving/tui/keymap"
	"github.com/aditya-mahendru/docMgr/internal/adapters/driving/tui/messages"
	"github.com/aditya-mahendru/docMgr/internal/adapters/driving/tui/styles"
	"github.com/aditya-mahendru/docMgr/internal/core/domain"
	"github.com/aditya-mahendru/docMgr/internal/core/ports/driving"
)

// ThresholdStep is how far one key press moves the threshold.
const ThresholdStep = 0.05

// View represents the search view with input, results list, and status bar.
type View struct {
	styles    *styles.Styles
	keymap    *keymap.KeyMap
	input     *input.SearchInput
	list      *list.ResultList
	statusbar *status.Bar

	searchService driving.SearchService
	defaults      domain.SearchOptions
	options       domain.SearchOptions
	ctx           context.Context

	// lastQuery is re-run when the options change.
	lastQuery string

	width      int
	height     int
	ready      bool
	err        error
	focusInput bool
}

// NewView creates a new search view. Zero defaults select the domain defaults.
func NewView(
	s *styles.Styles,
	km *keymap.KeyMap,
	searchService driving.SearchService,
	defaults domain.SearchOptions,
) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}
	if defaults.NResults == 0 {
		defaults = domain.DefaultSearchOptions()
	}

	v := &View{
		styles:        s,
		keymap:        km,
		input:         input.NewSearchInput(s),
		list:          list.NewResultList(s),
		statusbar:     status.NewBar(s),
		searchService: searchService,
		defaults:      defaults,
		ctx:           context.Background(),
		width:         80,
		height:        24,
	}
	v.Reset()
	return v
}

// WithContext sets the context for searches.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return v.input.Init()
}

// Update handles messages for the search view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.SearchCompleted:
		v.handleSearchCompleted(msg)
		return v, nil

	case messages.ErrorOccurred:
		v.setError(msg.Err)
		return v, nil
	}

	var cmd tea.Cmd
	if v.focusInput {
		v.input, cmd = v.input.Update(msg)
	}
	return v, cmd
}

func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	if key.Matches(msg, v.keymap.Back) {
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewMenu}
		}
	}

	if v.focusInput {
		if key.Matches(msg, v.keymap.Submit) {
			return v, v.submit(v.input.Value())
		}
		var cmd tea.Cmd
		v.input, cmd = v.input.Update(msg)
		return v, cmd
	}

	switch {
	case key.Matches(msg, v.keymap.Up):
		v.list.MoveUp()
	case key.Matches(msg, v.keymap.Down):
		v.list.MoveDown()
	case key.Matches(msg, v.keymap.Open):
		return v, v.openSelected()
	case key.Matches(msg, v.keymap.NewSearch):
		v.focusInput = true
		v.input.SetValue("")
		v.statusbar.SetHints(v.keymap.InputHelp())
		return v, v.input.Focus()
	case key.Matches(msg, v.keymap.More):
		return v, v.adjust(1, 0)
	case key.Matches(msg, v.keymap.Fewer):
		return v, v.adjust(-1, 0)
	case key.Matches(msg, v.keymap.Stricter):
		return v, v.adjust(0, ThresholdStep)
	case key.Matches(msg, v.keymap.Looser):
		return v, v.adjust(0, -ThresholdStep)
	}
	return v, nil
}

// submit starts a search for query. Blank queries are ignored.
func (v *View) submit(query string) tea.Cmd {
	if strings.TrimSpace(query) == "" {
		return nil
	}
	v.lastQuery = query
	v.focusInput = false
	v.input.Blur()
	v.statusbar.SetState(status.StateSearching)
	v.statusbar.SetMessage("")
	return v.performSearch(query, v.options)
}

// adjust moves the result count and threshold within their bounds and
// re-runs the last query.
func (v *View) adjust(results int, threshold float64) tea.Cmd {
	opts := v.options
	opts.NResults = min(max(opts.NResults+results, 1), domain.MaxNResults)
	opts.Threshold = math.Round(min(max(opts.Threshold+threshold, 0), 1)*100) / 100
	if opts == v.options {
		return nil
	}
	v.options = opts
	v.input.SetOptions(opts)
	if v.lastQuery == "" {
		return nil
	}
	v.statusbar.SetState(status.StateSearching)
	return v.performSearch(v.lastQuery, opts)
}

func (v *View) openSelected() tea.Cmd {
	result := v.list.SelectedResult()
	if result == nil {
		return nil
	}
	req := messages.ChunksRequested{
		DocumentID: result.DocumentID,
		Title:      result.Metadata.Filename,
		Focus:      result.ChunkIndex,
	}
	return func() tea.Msg { return req }
}

// performSearch runs the query off the update loop.
func (v *View) performSearch(query string, opts domain.SearchOptions) tea.Cmd {
	svc, ctx := v.searchService, v.ctx
	return func() tea.Msg {
		if svc == nil {
			return messages.ErrorOccurred{Err: ErrNoSearchService}
		}
		results, err := svc.Search(ctx, query, opts)
		return messages.SearchCompleted{Query: query, Results: results, Err: err}
	}
}

func (v *View) handleSearchCompleted(msg messages.SearchCompleted) {
	if msg.Err != nil {
		v.setError(msg.Err)
		return
	}

	v.err = nil
	v.list.SetResults(msg.Results)
	v.statusbar.SetState(status.StateResults)
	v.statusbar.SetMessage("")
	v.statusbar.SetResultCount(len(msg.Results))
	v.statusbar.SetHints(v.keymap.ResultsHelp())
	v.focusInput = false
	v.input.Blur()
}

func (v *View) setError(err error) {
	v.err = err
	v.statusbar.SetState(status.StateError)
	v.statusbar.SetMessage(err.Error())
}

// View renders the search view.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	sections := make([]string, 0, 8)
	sections = append(sections, v.input.View(), "")

	if v.err != nil {
		sections = append(sections, v.styles.Error.Render("Error: "+v.err.Error()), "")
	}

	if v.lastQuery != "" {
		sections = append(sections,
			v.styles.Muted.Render(fmt.Sprintf("Query: %q", v.lastQuery)),
			v.list.View())
	}

	sections = append(sections, "", v.statusbar.View())
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true

	v.input.SetWidth(width)
	v.list.SetDimensions(width, height-8)
	v.statusbar.SetWidth(width)
}

// Query returns the text in the search input.
func (v *View) Query() string {
	return v.input.Value()
}

// LastQuery returns the most recently submitted query.
func (v *View) LastQuery() string {
	return v.lastQuery
}

// Options returns the options used for the next search.
func (v *View) Options() domain.SearchOptions {
	return v.options
}

// Results returns the current search results.
func (v *View) Results() []domain.SearchResult {
	return v.list.Results()
}

// SelectedIndex returns the index of the selected result.
func (v *View) SelectedIndex() int {
	return v.list.Selected()
}

// Err returns the current error, if any.
func (v *View) Err() error {
	return v.err
}

// InputFocused returns whether the input has focus.
func (v *View) InputFocused() bool {
	return v.focusInput
}

// Reset returns the view to an empty query with the default options.
func (v *View) Reset() {
	v.focusInput = true
	v.input.Focus()
	v.input.SetValue("")
	v.options = v.defaults
	v.input.SetOptions(v.defaults)
	v.lastQuery = ""
	v.list.SetResults(nil)
	v.err = nil
	v.statusbar.Clear()
	v.statusbar.SetHints(v.keymap.InputHelp())
}
