// Package search provides the repository search view for the TUI.
package search

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/octoscope/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/octoscope/internal/adapters/driving/tui/components/list"
	"github.com/custodia-labs/octoscope/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/octoscope/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/octoscope/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/octoscope/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/octoscope/internal/core/domain"
	"github.com/custodia-labs/octoscope/internal/core/services"
)

// Paginator is the list state machine the view drives.
type Paginator interface {
	Reset(criteria domain.SearchCriteria)
	Retry() bool
	Scrolled(lastVisible int) bool
	Subscribe() (<-chan domain.PageState[domain.RepoSummary], func())
	Close()
}

// View is the search input, the repository list and the status bar.
//
// Typed text goes through a debouncer; each settled query resets the
// paginator. The list is redrawn from the paginator's subscription and
// asks for the next page as rows near the end scroll into view.
type View struct {
	styles    *styles.Styles
	keymap    *keymap.KeyMap
	input     *input.SearchInput
	list      *list.RepoList
	statusbar *status.Bar

	paginator Paginator
	pages     <-chan domain.PageState[domain.RepoSummary]
	unsub     func()
	debounce  *services.DebouncedQuery
	queries   chan string
	now       func() time.Time

	current    domain.SearchCriteria
	hot        bool
	focusInput bool
	width      int
	height     int
	ready      bool
}

// NewView creates a search view over paginator. Queries are accepted after
// debounce of quiet typing.
func NewView(s *styles.Styles, km *keymap.KeyMap, paginator Paginator, debounce time.Duration) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	v := &View{
		styles:     s,
		keymap:     km,
		input:      input.NewSearchInput(s),
		list:       list.NewRepoList(s),
		statusbar:  status.NewBar(s, km),
		paginator:  paginator,
		queries:    make(chan string, 1),
		now:        time.Now,
		focusInput: true,
		width:      80,
		height:     24,
	}
	v.debounce = services.NewDebouncedQuery(debounce, v.settle)
	v.pages, v.unsub = paginator.Subscribe()
	return v
}

// settle runs on the debouncer's timer goroutine. Only the newest query is
// kept if the UI has not picked up the previous one.
func (v *View) settle(query string) {
	for {
		select {
		case v.queries <- query:
			return
		default:
		}
		select {
		case <-v.queries:
		default:
		}
	}
}

// Init starts the input cursor and the channel listeners.
func (v *View) Init() tea.Cmd {
	return tea.Batch(v.input.Init(), v.waitForQuery(), v.waitForPage())
}

func (v *View) waitForQuery() tea.Cmd {
	queries := v.queries
	return func() tea.Msg {
		return messages.QuerySettled{Query: <-queries}
	}
}

func (v *View) waitForPage() tea.Cmd {
	pages := v.pages
	return func() tea.Msg {
		st, ok := <-pages
		if !ok {
			return nil
		}
		return messages.PageUpdated{State: st}
	}
}

// Update handles messages for the search view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.QuerySettled:
		v.submit(msg.Query)
		return v, v.waitForQuery()

	case messages.PageUpdated:
		v.applyPage(msg.State)
		return v, v.waitForPage()

	case messages.SessionChanged:
		v.statusbar.SetLoggedIn(msg.State.Present)
		return v, nil

	case messages.ErrorOccurred:
		v.statusbar.SetState(status.StateError)
		v.statusbar.SetMessage(domain.UserMessage(msg.Err))
		return v, nil
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	if v.focusInput {
		return v.handleInputKey(msg)
	}

	switch msg.String() {
	case "up", "k":
		v.list.MoveUp()
	case "down", "j":
		v.list.MoveDown()
		v.paginator.Scrolled(v.list.LastVisible())
	case "enter":
		if repo, ok := v.list.SelectedRepo(); ok {
			return v, func() tea.Msg { return messages.RepoSelected{Repo: repo} }
		}
	case "/", "esc":
		v.focusInput = true
		return v, v.input.Focus()
	case "h":
		v.ShowHot()
	case "r":
		v.paginator.Retry()
	case "?":
		return v, func() tea.Msg { return messages.ViewChanged{View: messages.ViewHelp} }
	case "q":
		return v, func() tea.Msg { return messages.Quit{} }
	}
	return v, nil
}

func (v *View) handleInputKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	//nolint:exhaustive // handling only relevant key types
	switch msg.Type {
	case tea.KeyEnter:
		query := v.input.Query()
		if query == "" {
			return v, nil
		}
		v.debounce.Flush()
		v.submit(query)
		v.blurInput()
		return v, nil
	case tea.KeyDown, tea.KeyEsc, tea.KeyTab:
		if v.list.Count() > 0 {
			v.blurInput()
		}
		return v, nil
	}

	before := v.input.Value()
	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	if after := v.input.Value(); after != before {
		v.debounce.Push(after)
	}
	return v, cmd
}

func (v *View) blurInput() {
	v.focusInput = false
	v.input.Blur()
}

// submit resets the list for query unless it is already shown.
func (v *View) submit(query string) {
	if query == "" || (!v.hot && query == v.current.Query) {
		return
	}
	v.setHot(false)
	v.reset(domain.SearchCriteria{Query: query})
}

// ShowHot resets the list to this week's hot repositories.
func (v *View) ShowHot() {
	v.setHot(true)
	v.reset(domain.HotCriteria(v.now()))
}

func (v *View) setHot(hot bool) {
	v.hot = hot
	v.input.SetHot(hot)
}

func (v *View) reset(criteria domain.SearchCriteria) {
	v.current = criteria
	v.paginator.Reset(criteria)
}

func (v *View) applyPage(st domain.PageState[domain.RepoSummary]) {
	v.list.SetState(st)
	v.statusbar.SetCount(len(st.Items))
	v.statusbar.SetMessage("")

	switch st.Status() {
	case domain.PageLoading:
		v.statusbar.SetState(status.StateLoading)
	case domain.PageError:
		v.statusbar.SetState(status.StateError)
		v.statusbar.SetMessage(st.ErrorMessage())
	case domain.PageSuccess, domain.PageEmpty:
		v.statusbar.SetState(status.StateResults)
	case domain.PageIdle:
		v.statusbar.SetState(status.StateReady)
	}

	// A short first page may already show its last row.
	if !st.Loading && st.Err == nil {
		v.paginator.Scrolled(v.list.LastVisible())
	}
}

// View renders the search view.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	title := v.styles.Title.Render("octoscope")
	if v.hot {
		title += v.styles.Muted.Render("  hot this week")
	}

	sections := []string{
		title, "",
		v.input.View(), "",
		v.list.View(), "",
		v.statusbar.View(),
	}
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

// Close stops the debouncer and the paginator.
func (v *View) Close() {
	v.debounce.Close()
	v.unsub()
	v.paginator.Close()
}

// Query returns the text in the search box.
func (v *View) Query() string {
	return v.input.Value()
}

// Criteria returns the criteria of the list shown.
func (v *View) Criteria() domain.SearchCriteria {
	return v.current
}

// Hot reports whether the hot repositories are shown.
func (v *View) Hot() bool {
	return v.hot
}

// InputFocused returns whether the search box has focus.
func (v *View) InputFocused() bool {
	return v.focusInput
}

// List returns the repository list component.
func (v *View) List() *list.RepoList {
	return v.list
}

// Status returns the status bar.
func (v *View) Status() *status.Bar {
	return v.statusbar
}
