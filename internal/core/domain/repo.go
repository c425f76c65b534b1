package domain

import (
	"strings"
	"time"
)

// Owner identifies the account that owns a repository.
type Owner struct {
	Login     string `json:"login"`
	AvatarURL string `json:"avatar_url,omitempty"`
}

// RepoSummary is a repository as listed by the search, hot and user-repos
// screens and as shown by the detail screen.
type RepoSummary struct {
	Name        string    `json:"name"`
	FullName    string    `json:"full_name"`
	Description string    `json:"description,omitempty"`
	Stars       int       `json:"stargazers_count"`
	Forks       int       `json:"forks_count"`
	OpenIssues  int       `json:"open_issues_count"`
	Language    string    `json:"language,omitempty"`
	UpdatedAt   time.Time `json:"updated_at"`
	HTMLURL     string    `json:"html_url"`
	Owner       Owner     `json:"owner"`

	// IsStarred is client-side state. It is false for every listed repo and
	// only the detail flow's star check sets it.
	IsStarred bool `json:"is_starred"`
}

// Ref returns the owner/name reference for the repository.
func (r RepoSummary) Ref() RepoRef {
	return RepoRef{Owner: r.Owner.Login, Name: r.Name}
}

// RepoRef addresses a repository by owner and name.
type RepoRef struct {
	Owner string
	Name  string
}

// ParseRepoRef parses "owner/name".
func ParseRepoRef(s string) (RepoRef, error) {
	owner, name, ok := strings.Cut(strings.TrimSpace(s), "/")
	if !ok || owner == "" || name == "" || strings.Contains(name, "/") {
		return RepoRef{}, &ValidationError{Field: "repository", Message: "expected owner/name, got " + `"` + s + `"`}
	}
	return RepoRef{Owner: owner, Name: name}, nil
}

// String returns "owner/name".
func (r RepoRef) String() string {
	return r.Owner + "/" + r.Name
}
