// Package list provides list display components for the TUI.
package list

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/octoscope/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/octoscope/internal/core/domain"
)

// linesPerRepo is the height of one rendered row: name line and description.
const linesPerRepo = 2

// RepoList displays an incrementally loaded repository list.
type RepoList struct {
	state    domain.PageState[domain.RepoSummary]
	selected int
	offset   int
	styles   *styles.Styles
	width    int
	height   int
}

// NewRepoList creates an empty repository list.
func NewRepoList(s *styles.Styles) *RepoList {
	if s == nil {
		s = styles.DefaultStyles()
	}

	return &RepoList{
		styles: s,
		width:  80,
		height: 10,
	}
}

// Init initialises the list.
func (r *RepoList) Init() tea.Cmd {
	return nil
}

// Update handles list navigation messages.
func (r *RepoList) Update(msg tea.Msg) (*RepoList, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "up", "k":
			r.MoveUp()
		case "down", "j":
			r.MoveDown()
		}
	}
	return r, nil
}

// SetState replaces the displayed list state. The selection is kept while
// the list grows and returns to the top when it is reset.
func (r *RepoList) SetState(st domain.PageState[domain.RepoSummary]) {
	if len(st.Items) < len(r.state.Items) || (len(st.Items) == 0 && st.Loading) {
		r.selected = 0
		r.offset = 0
	}
	r.state = st
	if r.selected >= len(st.Items) {
		r.selected = max(len(st.Items)-1, 0)
	}
	r.clampOffset()
}

// State returns the displayed list state.
func (r *RepoList) State() domain.PageState[domain.RepoSummary] {
	return r.state
}

// visibleCount is how many rows fit, leaving room for header and footer.
func (r *RepoList) visibleCount() int {
	return max((r.height-4)/linesPerRepo, 1)
}

func (r *RepoList) clampOffset() {
	visible := r.visibleCount()
	if r.selected < r.offset {
		r.offset = r.selected
	}
	if r.selected >= r.offset+visible {
		r.offset = r.selected - visible + 1
	}
}

// LastVisible returns the index of the last row on screen, or -1 when the
// list is empty.
func (r *RepoList) LastVisible() int {
	if len(r.state.Items) == 0 {
		return -1
	}
	return min(r.offset+r.visibleCount(), len(r.state.Items)) - 1
}

// View renders the list.
func (r *RepoList) View() string {
	items := r.state.Items
	if len(items) == 0 {
		switch r.state.Status() {
		case domain.PageLoading:
			return r.styles.Muted.Render("Searching...")
		case domain.PageError:
			return r.styles.Error.Render(r.state.ErrorMessage())
		case domain.PageEmpty:
			return r.styles.Muted.Render("No repositories found")
		default:
			return r.styles.Muted.Render("Type to search GitHub")
		}
	}

	lines := make([]string, 0, r.visibleCount()*linesPerRepo+3)
	header := fmt.Sprintf("Repositories (%d)", len(items))
	if r.state.FromCache {
		header += r.styles.Muted.Render("  cached")
	}
	lines = append(lines, r.styles.Subtitle.Render(header), "")

	end := min(r.offset+r.visibleCount(), len(items))
	for i := r.offset; i < end; i++ {
		lines = append(lines, r.renderRepo(i, &items[i]))
	}

	if footer := r.footer(); footer != "" {
		lines = append(lines, "", footer)
	}
	return strings.Join(lines, "\n")
}

func (r *RepoList) footer() string {
	switch {
	case r.state.Loading:
		return r.styles.Muted.Render("Loading more...")
	case r.state.Err != nil:
		return r.styles.Error.Render(r.state.ErrorMessage() + " (r to retry)")
	case r.state.EndReached:
		return r.styles.Muted.Render("End of results")
	}
	return ""
}

// renderRepo formats one repository row.
func (r *RepoList) renderRepo(index int, repo *domain.RepoSummary) string {
	indicator := "  "
	if index == r.selected {
		indicator = "> "
	}

	stars := fmt.Sprintf("★ %d", repo.Stars)
	maxName := max(r.width-len(stars)-8, 10)
	name := truncate(repo.FullName, maxName)

	var nameLine string
	if index == r.selected {
		nameLine = r.styles.Selected.Render(fmt.Sprintf("%s%-*s  %s", indicator, maxName, name, stars))
	} else {
		nameLine = r.styles.Normal.Render(fmt.Sprintf("%s%-*s  ", indicator, maxName, name)) +
			r.styles.Star.Render(stars)
	}

	desc := repo.Description
	if repo.Language != "" {
		desc = "[" + repo.Language + "] " + desc
	}
	descLine := r.styles.Muted.Render("    " + truncate(desc, max(r.width-6, 20)))

	return nameLine + "\n" + descLine
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-3]) + "..."
}

// Selected returns the index of the selected row.
func (r *RepoList) Selected() int {
	return r.selected
}

// SelectedRepo returns the selected repository.
func (r *RepoList) SelectedRepo() (domain.RepoSummary, bool) {
	if r.selected < 0 || r.selected >= len(r.state.Items) {
		return domain.RepoSummary{}, false
	}
	return r.state.Items[r.selected], true
}

// MoveUp moves the selection up.
func (r *RepoList) MoveUp() {
	if r.selected > 0 {
		r.selected--
		r.clampOffset()
	}
}

// MoveDown moves the selection down.
func (r *RepoList) MoveDown() {
	if r.selected < len(r.state.Items)-1 {
		r.selected++
		r.clampOffset()
	}
}

// SetDimensions sets the component dimensions.
func (r *RepoList) SetDimensions(width, height int) {
	r.width = width
	r.height = height
	r.clampOffset()
}

// Count returns the number of repositories held.
func (r *RepoList) Count() int {
	return len(r.state.Items)
}
