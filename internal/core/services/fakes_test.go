package services

import (
	"context"
	"errors"
	"sync"

	"github.com/custodia-labs/octoscope/internal/core/domain"
)

type fakeTokenStorage struct {
	mu       sync.Mutex
	token    string
	ok       bool
	saves    int
	clears   int
	clearErr error
}

func (f *fakeTokenStorage) Load(context.Context) (string, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.token, f.ok, nil
}

func (f *fakeTokenStorage) Save(_ context.Context, token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.token, f.ok = token, true
	f.saves++
	return nil
}

func (f *fakeTokenStorage) Clear(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.clears++
	if f.clearErr != nil {
		return f.clearErr
	}
	f.token, f.ok = "", false
	return nil
}

// fakeGitHub is a scripted driven.GitHubAPI.
type fakeGitHub struct {
	mu sync.Mutex

	searchFn   func(criteria domain.SearchCriteria, page, perPage int) (domain.Page[domain.RepoSummary], error)
	userRepos  func(page, perPage int) (domain.Page[domain.RepoSummary], error)
	repo       domain.RepoSummary
	repoErr    error
	starred    bool
	starredErr error
	starErr    error
	issueErr   error
	user       domain.UserProfile
	userErr    error

	calls []string
}

func (f *fakeGitHub) record(call string) {
	f.mu.Lock()
	f.calls = append(f.calls, call)
	f.mu.Unlock()
}

func (f *fakeGitHub) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeGitHub) SearchRepositories(_ context.Context, c domain.SearchCriteria, page, perPage int) (domain.Page[domain.RepoSummary], error) {
	f.record("search")
	if f.searchFn == nil {
		return domain.Page[domain.RepoSummary]{}, nil
	}
	return f.searchFn(c, page, perPage)
}

func (f *fakeGitHub) GetRepository(_ context.Context, ref domain.RepoRef) (domain.RepoSummary, error) {
	f.record("get " + ref.String())
	return f.repo, f.repoErr
}

func (f *fakeGitHub) IsStarred(_ context.Context, ref domain.RepoRef) (bool, error) {
	f.record("starred " + ref.String())
	return f.starred, f.starredErr
}

func (f *fakeGitHub) Star(_ context.Context, ref domain.RepoRef) error {
	f.record("star " + ref.String())
	return f.starErr
}

func (f *fakeGitHub) Unstar(_ context.Context, ref domain.RepoRef) error {
	f.record("unstar " + ref.String())
	return f.starErr
}

func (f *fakeGitHub) CreateIssue(_ context.Context, ref domain.RepoRef, d domain.IssueDraft) (domain.IssueResult, error) {
	f.record("issue " + ref.String())
	if f.issueErr != nil {
		return domain.IssueResult{}, f.issueErr
	}
	return domain.IssueResult{ID: 1, Number: 42, Title: d.Title, Body: d.Body, State: "open",
		URL: "https://github.com/" + ref.String() + "/issues/42"}, nil
}

func (f *fakeGitHub) AuthenticatedUser(context.Context) (domain.UserProfile, error) {
	f.record("user")
	return f.user, f.userErr
}

func (f *fakeGitHub) ListUserRepositories(_ context.Context, page, perPage int) (domain.Page[domain.RepoSummary], error) {
	f.record("user repos")
	if f.userRepos == nil {
		return domain.Page[domain.RepoSummary]{}, nil
	}
	return f.userRepos(page, perPage)
}

var errBoom = errors.New("boom")
