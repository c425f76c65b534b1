// Package detail provides the repository detail view for the TUI.
package detail

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/octoscope/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/octoscope/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/octoscope/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/octoscope/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/octoscope/internal/core/domain"
	"github.com/custodia-labs/octoscope/internal/core/ports/driving"
)

// errNoBrowser is shown when no opener was configured.
var errNoBrowser = errors.New("no browser available")

// View shows one repository and lets a logged-in user star it.
//
// The summary from the list is shown straight away; the star state is
// reported as unknown until Load has returned.
type View struct {
	styles    *styles.Styles
	keymap    *keymap.KeyMap
	statusbar *status.Bar

	detail driving.RepoDetail
	open   func(url string) error
	ctx    context.Context

	ref      domain.RepoRef
	repo     domain.RepoSummary
	loading  bool
	starring bool
	loggedIn bool
	err      error

	width  int
	height int
	ready  bool
}

// NewView creates a detail view. open is called with the repository URL
// when the user asks to open it in a browser.
func NewView(s *styles.Styles, km *keymap.KeyMap, detail driving.RepoDetail, open func(string) error) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}
	bar := status.NewBar(s, km)
	bar.SetState(status.StateDetail)

	return &View{
		styles:    s,
		keymap:    km,
		statusbar: bar,
		detail:    detail,
		open:      open,
		ctx:       context.Background(),
		width:     80,
		height:    24,
	}
}

// SetContext sets the context for requests issued by the view.
func (v *View) SetContext(ctx context.Context) {
	v.ctx = ctx
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return nil
}

// Show displays repo and starts loading its full record.
func (v *View) Show(repo domain.RepoSummary) tea.Cmd {
	v.ref = repo.Ref()
	v.repo = repo
	v.loading = true
	v.starring = false
	v.err = nil
	v.statusbar.SetMessage("")
	return v.load()
}

func (v *View) load() tea.Cmd {
	ctx, detail, ref := v.ctx, v.detail, v.ref
	return func() tea.Msg {
		repo, err := detail.Load(ctx, ref)
		return messages.DetailLoaded{Ref: ref, Repo: repo, Err: err}
	}
}

func (v *View) toggleStar() tea.Cmd {
	ctx, detail := v.ctx, v.detail
	return func() tea.Msg {
		repo, err := detail.ToggleStar(ctx)
		return messages.StarToggled{Repo: repo, Err: err}
	}
}

// Update handles messages for the detail view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.DetailLoaded:
		// A late result for a repository the user already left.
		if msg.Ref != v.ref {
			return v, nil
		}
		v.loading = false
		if msg.Err != nil {
			v.err = msg.Err
			return v, nil
		}
		v.repo = msg.Repo

	case messages.StarToggled:
		v.starring = false
		if msg.Err != nil {
			v.statusbar.SetMessage(domain.UserMessage(msg.Err))
			return v, nil
		}
		if msg.Repo.FullName == v.repo.FullName {
			v.repo = msg.Repo
		}
		verb := "Unstarred"
		if msg.Repo.IsStarred {
			verb = "Starred"
		}
		v.statusbar.SetMessage(verb + " " + msg.Repo.FullName)

	case messages.SessionChanged:
		v.loggedIn = msg.State.Present
		v.statusbar.SetLoggedIn(msg.State.Present)
	}

	return v, nil
}

func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.String() {
	case "esc", "backspace":
		return v, func() tea.Msg { return messages.ViewChanged{View: messages.ViewSearch} }
	case "s":
		switch {
		case v.loading || v.starring || v.err != nil:
			return v, nil
		case !v.loggedIn:
			v.statusbar.SetMessage("log in to star repositories: octoscope auth login")
			return v, nil
		}
		v.starring = true
		v.statusbar.SetMessage("")
		return v, v.toggleStar()
	case "o":
		open := v.open
		if open == nil {
			open = func(string) error { return errNoBrowser }
		}
		if err := open(v.repo.HTMLURL); err != nil {
			v.statusbar.SetMessage("could not open browser: " + err.Error())
		}
	case "r":
		if v.err != nil && !v.loading {
			v.loading = true
			v.err = nil
			return v, v.load()
		}
	case "?":
		return v, func() tea.Msg { return messages.ViewChanged{View: messages.ViewHelp} }
	case "q":
		return v, func() tea.Msg { return messages.Quit{} }
	}
	return v, nil
}

// View renders the detail view.
func (v *View) View() string {
	var b strings.Builder

	b.WriteString(v.styles.Title.Render(v.ref.String()))
	b.WriteString("  ")
	b.WriteString(v.starLine())
	b.WriteString("\n")
	b.WriteString(strings.Repeat("─", min(max(v.width-4, 1), 60)))
	b.WriteString("\n\n")

	if v.err != nil {
		b.WriteString(v.styles.Error.Render("Error: " + domain.UserMessage(v.err)))
		b.WriteString("\n")
		b.WriteString(v.styles.Muted.Render("press r to retry"))
		b.WriteString("\n\n")
		b.WriteString(v.statusbar.View())
		return b.String()
	}

	if v.repo.Description != "" {
		b.WriteString(v.styles.Normal.Render(v.repo.Description))
		b.WriteString("\n\n")
	}

	for _, f := range v.fields() {
		b.WriteString(v.styles.Subtitle.Render(fmt.Sprintf("%-12s", f[0]+":")))
		b.WriteString(v.styles.Normal.Render(" " + f[1]))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(v.statusbar.View())
	return b.String()
}

func (v *View) starLine() string {
	switch {
	case v.loading:
		return v.styles.Muted.Render("checking star…")
	case v.starring:
		return v.styles.Muted.Render("updating…")
	case !v.loggedIn:
		return ""
	case v.repo.IsStarred:
		return v.styles.Star.Render("★ starred")
	default:
		return v.styles.Muted.Render("☆ not starred")
	}
}

func (v *View) fields() [][2]string {
	r := v.repo
	fields := [][2]string{
		{"Stars", fmt.Sprintf("%d", r.Stars)},
		{"Forks", fmt.Sprintf("%d", r.Forks)},
		{"Issues", fmt.Sprintf("%d open", r.OpenIssues)},
	}
	if r.Language != "" {
		fields = append(fields, [2]string{"Language", r.Language})
	}
	if !r.UpdatedAt.IsZero() {
		fields = append(fields, [2]string{"Updated", r.UpdatedAt.Format("2006-01-02 15:04")})
	}
	if r.HTMLURL != "" {
		fields = append(fields, [2]string{"URL", r.HTMLURL})
	}
	return fields
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
	v.statusbar.SetWidth(width)
}

// Repo returns the repository shown.
func (v *View) Repo() domain.RepoSummary {
	return v.repo
}

// Loading reports whether the repository is still being loaded.
func (v *View) Loading() bool {
	return v.loading
}

// Err returns the load error, if any.
func (v *View) Err() error {
	return v.err
}

// Status returns the status bar.
func (v *View) Status() *status.Bar {
	return v.statusbar
}
