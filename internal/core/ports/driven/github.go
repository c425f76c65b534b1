package driven

import (
	"context"

	"github.com/custodia-labs/octoscope/internal/core/domain"
)

// GitHubAPI is the subset of the GitHub REST API used by octoscope.
// Errors wrap one of the domain error kinds.
type GitHubAPI interface {
	// SearchRepositories runs GET /search/repositories for one page.
	SearchRepositories(ctx context.Context, criteria domain.SearchCriteria, page, perPage int) (domain.Page[domain.RepoSummary], error)

	// GetRepository runs GET /repos/{owner}/{repo}.
	GetRepository(ctx context.Context, ref domain.RepoRef) (domain.RepoSummary, error)

	// IsStarred runs GET /user/starred/{owner}/{repo}.
	// 204 is starred, 404 is not starred, anything else is an error.
	IsStarred(ctx context.Context, ref domain.RepoRef) (bool, error)

	// Star runs PUT /user/starred/{owner}/{repo}.
	Star(ctx context.Context, ref domain.RepoRef) error

	// Unstar runs DELETE /user/starred/{owner}/{repo}.
	Unstar(ctx context.Context, ref domain.RepoRef) error

	// CreateIssue runs POST /repos/{owner}/{repo}/issues.
	CreateIssue(ctx context.Context, ref domain.RepoRef, draft domain.IssueDraft) (domain.IssueResult, error)

	// AuthenticatedUser runs GET /user.
	AuthenticatedUser(ctx context.Context) (domain.UserProfile, error)

	// ListUserRepositories runs GET /user/repos for one page.
	ListUserRepositories(ctx context.Context, page, perPage int) (domain.Page[domain.RepoSummary], error)
}
