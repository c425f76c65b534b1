package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/octoscope/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/octoscope/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/octoscope/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/octoscope/internal/adapters/driving/tui/views/detail"
	"github.com/custodia-labs/octoscope/internal/adapters/driving/tui/views/search"
	"github.com/custodia-labs/octoscope/internal/core/domain"
	"github.com/custodia-labs/octoscope/internal/core/services"
	"github.com/custodia-labs/octoscope/internal/logger"
)

// App is the main TUI application following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	ports  *Ports
	ctx    context.Context
	styles *styles.Styles
	keymap *keymap.KeyMap

	searchView *search.View

	// detailView is rebuilt for every opened repository.
	detailView *detail.View

	currentView  messages.ViewType
	previousView messages.ViewType

	session      <-chan domain.TokenState
	unsubSession func()
	loggedIn     bool

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

	log := ports.Logger
	if log == nil {
		log = logger.Logger()
	}
	settings := ports.Settings.Get()
	paginator := services.NewPaginator[domain.RepoSummary, domain.SearchCriteria](
		ports.Repos.Search, services.PaginatorConfigFrom(settings, log),
	)

	s := styles.DefaultStyles()
	km := keymap.DefaultKeyMap()

	a := &App{
		ports:        ports,
		ctx:          context.Background(),
		styles:       s,
		keymap:       km,
		searchView:   search.NewView(s, km, paginator, settings.Debounce),
		currentView:  messages.ViewSearch,
		previousView: messages.ViewSearch,
		unsubSession: func() {},
	}
	if ports.Session != nil {
		a.session, a.unsubSession = ports.Session.Subscribe()
	}
	return a, nil
}

// WithContext sets the context for the app.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	if a.detailView != nil {
		a.detailView.SetContext(ctx)
	}
	return a
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		tea.SetWindowTitle("octoscope"),
		a.searchView.Init(),
		a.waitForSession(),
	)
}

func (a *App) waitForSession() tea.Cmd {
	ch := a.session
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		st, ok := <-ch
		if !ok {
			return nil
		}
		return messages.SessionChanged{State: st}
	}
}

// Update implements tea.Model.
//
//nolint:gocyclo // central message handler
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
		return a.handleKeyMsg(msg)

	// The list listeners must be re-armed whichever view is showing.
	case messages.QuerySettled, messages.PageUpdated:
		a.searchView, cmd = a.searchView.Update(msg)
		return a, cmd

	case messages.RepoSelected:
		return a, a.openDetail(msg.Repo)

	case messages.DetailLoaded, messages.StarToggled:
		if a.detailView != nil {
			a.detailView, cmd = a.detailView.Update(msg)
		}
		return a, cmd

	case messages.SessionChanged:
		a.loggedIn = msg.State.Present
		a.searchView, _ = a.searchView.Update(msg)
		if a.detailView != nil {
			a.detailView, _ = a.detailView.Update(msg)
		}
		return a, a.waitForSession()

	case messages.ViewChanged:
		if msg.View == messages.ViewHelp {
			a.previousView = a.currentView
		}
		if msg.View == messages.ViewDetail && a.detailView == nil {
			return a, nil
		}
		a.currentView = msg.View
		return a, nil

	case messages.ErrorOccurred:
		a.searchView, cmd = a.searchView.Update(msg)
		return a, cmd

	case messages.Quit:
		return a, tea.Quit
	}

	if a.currentView == messages.ViewSearch {
		a.searchView, cmd = a.searchView.Update(msg)
	}
	return a, cmd
}

func (a *App) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch a.currentView {
	case messages.ViewSearch:
		a.searchView, cmd = a.searchView.Update(msg)
	case messages.ViewDetail:
		a.detailView, cmd = a.detailView.Update(msg)
	case messages.ViewHelp:
		switch msg.String() {
		case "esc", "?", "q":
			a.currentView = a.previousView
		}
	}
	return a, cmd
}

func (a *App) openDetail(repo domain.RepoSummary) tea.Cmd {
	v := detail.NewView(a.styles, a.keymap, a.ports.NewDetail(), a.ports.OpenURL)
	v.SetContext(a.ctx)
	v.SetDimensions(a.width, a.height)
	v.Update(messages.SessionChanged{State: domain.TokenState{Present: a.loggedIn}})

	a.detailView = v
	a.currentView = messages.ViewDetail
	return v.Show(repo)
}

// View implements tea.Model.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	switch a.currentView {
	case messages.ViewDetail:
		return a.detailView.View()
	case messages.ViewHelp:
		return a.viewHelp()
	case messages.ViewSearch:
		return a.searchView.View()
	default:
		return a.searchView.View()
	}
}

func (a *App) viewHelp() string {
	var b strings.Builder
	b.WriteString(a.styles.Title.Render("Help"))
	b.WriteString("\n\n")
	for _, group := range a.keymap.FullHelp() {
		for _, binding := range group {
			h := binding.Help()
			b.WriteString(fmt.Sprintf("  %-12s %s\n", h.Key, h.Desc))
		}
		b.WriteString("\n")
	}
	b.WriteString(a.styles.Help.Render("[esc] back  [ctrl+c] quit"))
	return b.String()
}

// Run starts the TUI application and blocks until it exits.
func (a *App) Run() error {
	defer a.Close()
	p := tea.NewProgram(a, tea.WithAltScreen(), tea.WithContext(a.ctx))
	_, err := p.Run()
	return err
}

// Close stops the search pipeline and the session subscription.
func (a *App) Close() {
	a.searchView.Close()
	a.unsubSession()
}

// CurrentView returns the current view type.
func (a *App) CurrentView() messages.ViewType {
	return a.currentView
}

// SearchView returns the search view.
func (a *App) SearchView() *search.View {
	return a.searchView
}

// DetailView returns the detail view of the opened repository, or nil.
func (a *App) DetailView() *detail.View {
	return a.detailView
}

// LoggedIn reports the last known session state.
func (a *App) LoggedIn() bool {
	return a.loggedIn
}

// Ready returns whether the app has been initialised.
func (a *App) Ready() bool {
	return a.ready
}

// SetDimensions sets the terminal dimensions.
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true
	a.searchView.SetDimensions(width, height)
	if a.detailView != nil {
		a.detailView.SetDimensions(width, height)
	}
}
