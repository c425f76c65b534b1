package driving

import (
	"context"

	"github.com/custodia-labs/octoscope/internal/core/domain"
)

// RepoService fetches single pages of repository listings.
// Incremental lists are built on top of it with a services.Paginator.
type RepoService interface {
	// Search returns one page of repositories matching criteria.
	Search(ctx context.Context, criteria domain.SearchCriteria, page, perPage int) (domain.Page[domain.RepoSummary], error)

	// Hot returns one page of repositories created in the last week, most
	// starred first.
	Hot(ctx context.Context, page, perPage int) (domain.Page[domain.RepoSummary], error)

	// UserRepos returns one page of the authenticated user's repositories.
	UserRepos(ctx context.Context, page, perPage int) (domain.Page[domain.RepoSummary], error)
}

// RepoDetail holds one repository and its star state.
type RepoDetail interface {
	// Load fetches the repository and, for a logged-in user, whether it is
	// starred. The star state is merged before Load returns.
	Load(ctx context.Context, ref domain.RepoRef) (domain.RepoSummary, error)

	// ToggleStar stars or unstars the loaded repository. The local flag flips
	// only after the server accepted the change.
	ToggleStar(ctx context.Context) (domain.RepoSummary, error)

	// Current returns the loaded repository.
	Current() (domain.RepoSummary, bool)
}

// IssueService creates issues.
type IssueService interface {
	// Create validates draft and creates the issue.
	Create(ctx context.Context, ref domain.RepoRef, draft domain.IssueDraft) (domain.IssueResult, error)
}
