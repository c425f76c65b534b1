package services

import (
	"context"
	"fmt"
	"time"

	"github.com/custodia-labs/octoscope/internal/core/domain"
	"github.com/custodia-labs/octoscope/internal/core/ports/driven"
	"github.com/custodia-labs/octoscope/internal/core/ports/driving"
)

// Ensure RepoService implements the interface.
var _ driving.RepoService = (*RepoService)(nil)

// RepoService fetches repository listings from GitHub.
type RepoService struct {
	api    driven.GitHubAPI
	tokens *TokenStore
	now    func() time.Time
}

// NewRepoService creates a repository listing service.
func NewRepoService(api driven.GitHubAPI, tokens *TokenStore) *RepoService {
	return &RepoService{api: api, tokens: tokens, now: time.Now}
}

// Search returns one page of repositories matching criteria.
func (s *RepoService) Search(ctx context.Context, criteria domain.SearchCriteria, page, perPage int) (domain.Page[domain.RepoSummary], error) {
	if err := criteria.Validate(); err != nil {
		return domain.Page[domain.RepoSummary]{}, err
	}
	result, err := s.api.SearchRepositories(ctx, criteria, page, perPage)
	if err != nil {
		return domain.Page[domain.RepoSummary]{}, fmt.Errorf("searching repositories: %w", err)
	}
	return result, nil
}

// Hot returns one page of the repositories created in the last week, most
// starred first.
func (s *RepoService) Hot(ctx context.Context, page, perPage int) (domain.Page[domain.RepoSummary], error) {
	return s.Search(ctx, s.HotCriteria(), page, perPage)
}

// UserRepos returns one page of the authenticated user's repositories.
func (s *RepoService) UserRepos(ctx context.Context, page, perPage int) (domain.Page[domain.RepoSummary], error) {
	if _, ok := s.tokens.Get(); !ok {
		return domain.Page[domain.RepoSummary]{}, fmt.Errorf("listing your repositories requires login: %w", domain.ErrAuth)
	}
	result, err := s.api.ListUserRepositories(ctx, page, perPage)
	if err != nil {
		return domain.Page[domain.RepoSummary]{}, fmt.Errorf("listing user repositories: %w", err)
	}
	return result, nil
}

// HotCriteria returns the hot repositories criteria as of now.
func (s *RepoService) HotCriteria() domain.SearchCriteria {
	return domain.HotCriteria(s.now())
}
