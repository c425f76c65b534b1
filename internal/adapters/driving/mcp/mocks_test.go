package mcp

import (
	"context"

	"github.com/custodia-labs/octoscope/internal/core/domain"
	"github.com/custodia-labs/octoscope/internal/core/ports/driving"
)

// mockRepoService is a mock implementation of driving.RepoService.
type mockRepoService struct {
	page domain.Page[domain.RepoSummary]
	err  error

	criteria domain.SearchCriteria
	pageNum  int
	perPage  int
}

func (m *mockRepoService) Search(
	_ context.Context,
	criteria domain.SearchCriteria,
	page, perPage int,
) (domain.Page[domain.RepoSummary], error) {
	m.criteria, m.pageNum, m.perPage = criteria, page, perPage
	return m.page, m.err
}

func (m *mockRepoService) Hot(_ context.Context, page, perPage int) (domain.Page[domain.RepoSummary], error) {
	m.pageNum, m.perPage = page, perPage
	return m.page, m.err
}

func (m *mockRepoService) UserRepos(_ context.Context, _, _ int) (domain.Page[domain.RepoSummary], error) {
	return m.page, m.err
}

// mockRepoDetail is a mock implementation of driving.RepoDetail.
type mockRepoDetail struct {
	repo domain.RepoSummary
	err  error
	ref  domain.RepoRef
}

func (m *mockRepoDetail) Load(_ context.Context, ref domain.RepoRef) (domain.RepoSummary, error) {
	m.ref = ref
	return m.repo, m.err
}

func (m *mockRepoDetail) ToggleStar(_ context.Context) (domain.RepoSummary, error) {
	return m.repo, m.err
}

func (m *mockRepoDetail) Current() (domain.RepoSummary, bool) {
	return m.repo, true
}

func detailFactory(d *mockRepoDetail) func() driving.RepoDetail {
	return func() driving.RepoDetail { return d }
}

func sampleRepo() domain.RepoSummary {
	return domain.RepoSummary{
		Name:        "hello",
		FullName:    "octocat/hello",
		Description: "Hello world",
		Stars:       42,
		Language:    "Go",
		HTMLURL:     "https://github.com/octocat/hello",
		Owner:       domain.Owner{Login: "octocat"},
	}
}
