// Package messages defines Bubbletea message types for the TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	"github.com/custodia-labs/octoscope/internal/core/domain"
)

// QuerySettled is sent when the typed query has been quiet for the debounce
// window, or was submitted with enter.
type QuerySettled struct {
	Query string
}

// PageUpdated carries a new state of the repository list.
type PageUpdated struct {
	State domain.PageState[domain.RepoSummary]
}

// RepoSelected is sent when a repository is opened from the list.
type RepoSelected struct {
	Repo domain.RepoSummary
}

// DetailLoaded carries the repository loaded by the detail view, with its
// star state merged in.
type DetailLoaded struct {
	Ref  domain.RepoRef
	Repo domain.RepoSummary
	Err  error
}

// StarToggled carries the result of a star or unstar request.
type StarToggled struct {
	Repo domain.RepoSummary
	Err  error
}

// SessionChanged is sent when the login state changes, including logins and
// logouts by other processes.
type SessionChanged struct {
	State domain.TokenState
}

// ViewChanged is sent when navigating between views.
type ViewChanged struct {
	View ViewType
}

// ViewType identifies which view is currently active.
type ViewType int

const (
	// ViewSearch is the query input and repository list.
	ViewSearch ViewType = iota
	// ViewDetail shows a single repository.
	ViewDetail
	// ViewHelp is the keybindings view.
	ViewHelp
)

// String returns the string representation of the view type.
func (v ViewType) String() string {
	switch v {
	case ViewSearch:
		return "search"
	case ViewDetail:
		return "detail"
	case ViewHelp:
		return "help"
	default:
		return "unknown"
	}
}

// ErrorOccurred signals that an error happened.
type ErrorOccurred struct {
	Err error
}

// Quit signals the application should exit.
type Quit struct{}
