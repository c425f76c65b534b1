// Package domain defines the core entities for octoscope.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - RepoSummary: A repository as listed by search, hot repos and user repos
//   - UserProfile: The authenticated GitHub user
//   - IssueDraft / IssueResult: Issue creation input and output
//   - PageState: The observable state of an incremental list
//   - Settings: Tunables for paging, debouncing and caching
//
// Errors returned across port boundaries are mapped onto the sentinels in
// errors.go so that every driving adapter renders them the same way.
package domain
