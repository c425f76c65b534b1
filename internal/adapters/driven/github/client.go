package github

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	gh "github.com/google/go-github/v80/github"

	"github.com/custodia-labs/octoscope/internal/core/domain"
	"github.com/custodia-labs/octoscope/internal/core/ports/driven"
)

const (
	// DefaultTimeout is the default HTTP request timeout.
	DefaultTimeout = 30 * time.Second

	// UserAgent identifies octoscope to the GitHub API.
	UserAgent = "octoscope"

	headerFromCache = "X-From-Cache"
)

// Client wraps the go-github client.
type Client struct {
	gh *gh.Client
}

// Verify interface compliance.
var _ driven.GitHubAPI = (*Client)(nil)

// NewClient creates a GitHub API client that sends requests through
// httpClient. baseURL is the REST API root; empty means api.github.com.
func NewClient(httpClient *http.Client, baseURL string) (*Client, error) {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	if httpClient.Timeout == 0 {
		httpClient.Timeout = DefaultTimeout
	}

	client := gh.NewClient(httpClient)
	client.UserAgent = UserAgent

	if baseURL != "" {
		if !strings.HasSuffix(baseURL, "/") {
			baseURL += "/"
		}
		u, err := url.Parse(baseURL)
		if err != nil {
			return nil, &domain.ValidationError{Field: "api.url", Message: err.Error()}
		}
		client.BaseURL = u
	}

	return &Client{gh: client}, nil
}

// BaseURL returns the API root requests are sent to.
func (c *Client) BaseURL() string {
	return c.gh.BaseURL.String()
}

// SearchRepositories runs one page of a repository search.
func (c *Client) SearchRepositories(
	ctx context.Context, criteria domain.SearchCriteria, page, perPage int,
) (domain.Page[domain.RepoSummary], error) {
	opts := &gh.SearchOptions{
		Sort:        criteria.Sort,
		Order:       criteria.Order,
		ListOptions: gh.ListOptions{Page: page, PerPage: perPage},
	}

	result, resp, err := c.gh.Search.Repositories(ctx, criteria.Query, opts)
	if err != nil {
		return domain.Page[domain.RepoSummary]{}, wrapError(err, "search repositories")
	}

	return domain.Page[domain.RepoSummary]{
		Items:     toRepoSummaries(result.Repositories),
		FromCache: fromCache(resp),
	}, nil
}

// GetRepository fetches a single repository.
func (c *Client) GetRepository(ctx context.Context, ref domain.RepoRef) (domain.RepoSummary, error) {
	repo, _, err := c.gh.Repositories.Get(ctx, ref.Owner, ref.Name)
	if err != nil {
		return domain.RepoSummary{}, wrapError(err, "get repo "+ref.String())
	}
	return toRepoSummary(repo), nil
}

// IsStarred reports whether the authenticated user starred the repository.
// Only 204 means starred and 404 means not starred; any other status is an
// error.
func (c *Client) IsStarred(ctx context.Context, ref domain.RepoRef) (bool, error) {
	u := fmt.Sprintf("user/starred/%s/%s", url.PathEscape(ref.Owner), url.PathEscape(ref.Name))
	req, err := c.gh.NewRequest(http.MethodGet, u, nil)
	if err != nil {
		return false, fmt.Errorf("check star %s: %w", ref, err)
	}

	resp, err := c.gh.Do(ctx, req, nil)
	status := 0
	if resp != nil {
		status = resp.StatusCode
	}
	switch {
	case status == http.StatusNoContent:
		return true, nil
	case status == http.StatusNotFound:
		return false, nil
	case err != nil:
		return false, wrapError(err, "check star "+ref.String())
	}
	return false, newAPIError(domain.ErrServer, resp.Response, "unexpected star check status")
}

// Star stars the repository for the authenticated user.
func (c *Client) Star(ctx context.Context, ref domain.RepoRef) error {
	if _, err := c.gh.Activity.Star(ctx, ref.Owner, ref.Name); err != nil {
		return wrapError(err, "star "+ref.String())
	}
	return nil
}

// Unstar removes the authenticated user's star from the repository.
func (c *Client) Unstar(ctx context.Context, ref domain.RepoRef) error {
	if _, err := c.gh.Activity.Unstar(ctx, ref.Owner, ref.Name); err != nil {
		return wrapError(err, "unstar "+ref.String())
	}
	return nil
}

// CreateIssue opens an issue on the repository.
func (c *Client) CreateIssue(
	ctx context.Context, ref domain.RepoRef, draft domain.IssueDraft,
) (domain.IssueResult, error) {
	req := &gh.IssueRequest{Title: gh.Ptr(draft.Title)}
	if draft.Body != "" {
		req.Body = gh.Ptr(draft.Body)
	}

	issue, _, err := c.gh.Issues.Create(ctx, ref.Owner, ref.Name, req)
	if err != nil {
		return domain.IssueResult{}, wrapError(err, "create issue on "+ref.String())
	}
	return toIssueResult(issue), nil
}

// AuthenticatedUser fetches the profile of the token's owner.
func (c *Client) AuthenticatedUser(ctx context.Context) (domain.UserProfile, error) {
	user, _, err := c.gh.Users.Get(ctx, "")
	if err != nil {
		return domain.UserProfile{}, wrapError(err, "get user")
	}
	return toUserProfile(user), nil
}

// ListUserRepositories lists one page of the authenticated user's
// repositories, most recently updated first.
func (c *Client) ListUserRepositories(ctx context.Context, page, perPage int) (domain.Page[domain.RepoSummary], error) {
	opts := &gh.RepositoryListByAuthenticatedUserOptions{
		Sort:        "updated",
		Direction:   "desc",
		ListOptions: gh.ListOptions{Page: page, PerPage: perPage},
	}

	repos, resp, err := c.gh.Repositories.ListByAuthenticatedUser(ctx, opts)
	if err != nil {
		return domain.Page[domain.RepoSummary]{}, wrapError(err, "list user repos")
	}

	return domain.Page[domain.RepoSummary]{
		Items:     toRepoSummaries(repos),
		FromCache: fromCache(resp),
	}, nil
}

// fromCache reports whether resp was replayed from the conditional cache.
func fromCache(resp *gh.Response) bool {
	if resp == nil || resp.Response == nil {
		return false
	}
	return resp.Header.Get(headerFromCache) != ""
}

// wrapError converts go-github errors to domain errors.
func wrapError(err error, operation string) error {
	if err == nil {
		return nil
	}
	if mapped := mapError(err); mapped != nil {
		return mapped
	}
	return fmt.Errorf("%s: %w", operation, err)
}
