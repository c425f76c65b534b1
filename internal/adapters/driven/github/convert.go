package github

import (
	gh "github.com/google/go-github/v80/github"

	"github.com/custodia-labs/octoscope/internal/core/domain"
)

func toRepoSummaries(repos []*gh.Repository) []domain.RepoSummary {
	out := make([]domain.RepoSummary, 0, len(repos))
	for _, r := range repos {
		if r == nil {
			continue
		}
		out = append(out, toRepoSummary(r))
	}
	return out
}

// toRepoSummary maps a repository. IsStarred is left false; only the detail
// flow checks it.
func toRepoSummary(r *gh.Repository) domain.RepoSummary {
	return domain.RepoSummary{
		Name:        r.GetName(),
		FullName:    r.GetFullName(),
		Description: r.GetDescription(),
		Stars:       r.GetStargazersCount(),
		Forks:       r.GetForksCount(),
		OpenIssues:  r.GetOpenIssuesCount(),
		Language:    r.GetLanguage(),
		UpdatedAt:   r.GetUpdatedAt().Time,
		HTMLURL:     r.GetHTMLURL(),
		Owner: domain.Owner{
			Login:     r.GetOwner().GetLogin(),
			AvatarURL: r.GetOwner().GetAvatarURL(),
		},
	}
}

func toUserProfile(u *gh.User) domain.UserProfile {
	return domain.UserProfile{
		Login:       u.GetLogin(),
		Name:        u.GetName(),
		AvatarURL:   u.GetAvatarURL(),
		Bio:         u.GetBio(),
		PublicRepos: u.GetPublicRepos(),
		Followers:   u.GetFollowers(),
		Following:   u.GetFollowing(),
	}
}

func toIssueResult(i *gh.Issue) domain.IssueResult {
	return domain.IssueResult{
		ID:     i.GetID(),
		Number: i.GetNumber(),
		Title:  i.GetTitle(),
		Body:   i.GetBody(),
		URL:    i.GetHTMLURL(),
		State:  i.GetState(),
	}
}
