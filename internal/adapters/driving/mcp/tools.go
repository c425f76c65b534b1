package mcp

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/octoscope/internal/core/domain"
)

const (
	defaultLimit = 10
	maxLimit     = 100
)

// SearchInput is the input schema for the search_repositories tool.
type SearchInput struct {
	Query string `json:"query" jsonschema:"GitHub repository search query, e.g. 'language:go stars:>1000'"`
	Sort  string `json:"sort,omitempty" jsonschema:"one of stars, forks, updated; empty for best match"`
	Order string `json:"order,omitempty" jsonschema:"asc or desc (default desc)"`
	Page  int    `json:"page,omitempty" jsonschema:"1-based page number (default 1)"`
	Limit int    `json:"limit,omitempty" jsonschema:"results per page, at most 100 (default 10)"`
}

// HotInput is the input schema for the hot_repositories tool.
type HotInput struct {
	Page  int `json:"page,omitempty" jsonschema:"1-based page number (default 1)"`
	Limit int `json:"limit,omitempty" jsonschema:"results per page, at most 100 (default 10)"`
}

// RepoInput is the input schema for the get_repository tool.
type RepoInput struct {
	Repository string `json:"repository" jsonschema:"repository as owner/name"`
}

// ReposOutput is the output schema of the listing tools.
type ReposOutput struct {
	Repositories []RepoOutput `json:"repositories"`
	Count        int          `json:"count"`
	Page         int          `json:"page"`
	FromCache    bool         `json:"from_cache"`
}

// RepoOutput represents a single repository.
type RepoOutput struct {
	FullName    string    `json:"full_name"`
	Description string    `json:"description,omitempty"`
	Stars       int       `json:"stars"`
	Forks       int       `json:"forks"`
	OpenIssues  int       `json:"open_issues"`
	Language    string    `json:"language,omitempty"`
	UpdatedAt   time.Time `json:"updated_at"`
	URL         string    `json:"url"`
	Starred     *bool     `json:"starred,omitempty"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "search_repositories",
		Description: "Search GitHub repositories",
	}, s.handleSearch)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "hot_repositories",
		Description: "List the most starred repositories created in the last week",
	}, s.handleHot)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "get_repository",
		Description: "Get one repository, including whether the logged-in user starred it",
	}, s.handleGetRepository)
}

// handleSearch handles the search_repositories tool invocation.
func (s *Server) handleSearch(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SearchInput,
) (*mcp.CallToolResult, ReposOutput, error) {
	criteria := domain.SearchCriteria{Query: input.Query, Sort: input.Sort, Order: input.Order}
	if criteria.Order == "" && criteria.Sort != domain.SortBestMatch {
		criteria.Order = domain.OrderDesc
	}
	page, limit := paging(input.Page, input.Limit)

	result, err := s.ports.Repos.Search(ctx, criteria, page, limit)
	if err != nil {
		s.log.Debug("search_repositories failed", slog.String("query", criteria.Query), slog.String("error", err.Error()))
		return nil, ReposOutput{}, fmt.Errorf("searching repositories: %s", domain.UserMessage(err))
	}
	return nil, reposOutput(result, page), nil
}

// handleHot handles the hot_repositories tool invocation.
func (s *Server) handleHot(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input HotInput,
) (*mcp.CallToolResult, ReposOutput, error) {
	page, limit := paging(input.Page, input.Limit)

	result, err := s.ports.Repos.Hot(ctx, page, limit)
	if err != nil {
		s.log.Debug("hot_repositories failed", slog.Int("page", page), slog.String("error", err.Error()))
		return nil, ReposOutput{}, fmt.Errorf("listing hot repositories: %s", domain.UserMessage(err))
	}
	return nil, reposOutput(result, page), nil
}

// handleGetRepository handles the get_repository tool invocation.
func (s *Server) handleGetRepository(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input RepoInput,
) (*mcp.CallToolResult, RepoOutput, error) {
	repo, err := s.loadRepository(ctx, input.Repository)
	if err != nil {
		return nil, RepoOutput{}, err
	}
	return nil, repoOutput(repo, true), nil
}

func (s *Server) loadRepository(ctx context.Context, name string) (domain.RepoSummary, error) {
	if s.ports.NewDetail == nil {
		return domain.RepoSummary{}, ErrDetailUnavailable
	}
	ref, err := domain.ParseRepoRef(name)
	if err != nil {
		return domain.RepoSummary{}, err
	}
	repo, err := s.ports.NewDetail().Load(ctx, ref)
	if err != nil {
		s.log.Debug("repository lookup failed", slog.String("repo", ref.String()), slog.String("error", err.Error()))
		return domain.RepoSummary{}, fmt.Errorf("loading %s: %s", ref, domain.UserMessage(err))
	}
	return repo, nil
}

func paging(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = defaultLimit
	}
	return page, min(limit, maxLimit)
}

func reposOutput(result domain.Page[domain.RepoSummary], page int) ReposOutput {
	out := ReposOutput{
		Repositories: make([]RepoOutput, len(result.Items)),
		Count:        len(result.Items),
		Page:         page,
		FromCache:    result.FromCache,
	}
	for i, r := range result.Items {
		out.Repositories[i] = repoOutput(r, false)
	}
	return out
}

// repoOutput converts r. The star state is reported only when it came from
// a detail load; list items never carry it.
func repoOutput(r domain.RepoSummary, withStar bool) RepoOutput {
	out := RepoOutput{
		FullName:    r.FullName,
		Description: r.Description,
		Stars:       r.Stars,
		Forks:       r.Forks,
		OpenIssues:  r.OpenIssues,
		Language:    r.Language,
		UpdatedAt:   r.UpdatedAt,
		URL:         r.HTMLURL,
	}
	if withStar {
		starred := r.IsStarred
		out.Starred = &starred
	}
	return out
}
