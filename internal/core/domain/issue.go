package domain

import "strings"

// IssueDraft is the input for creating an issue.
type IssueDraft struct {
	Title string `json:"title"`
	Body  string `json:"body,omitempty"`
}

// Validate checks the draft before it is sent. The title must contain at
// least one non-whitespace character.
func (d IssueDraft) Validate() error {
	if strings.TrimSpace(d.Title) == "" {
		return &ValidationError{Field: "title", Message: "must not be empty"}
	}
	return nil
}

// IssueResult is the issue as created by the server.
type IssueResult struct {
	ID     int64  `json:"id"`
	Number int    `json:"number"`
	Title  string `json:"title"`
	Body   string `json:"body,omitempty"`
	URL    string `json:"html_url"`
	State  string `json:"state"`
}
