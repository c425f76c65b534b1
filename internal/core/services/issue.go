package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/custodia-labs/octoscope/internal/core/domain"
	"github.com/custodia-labs/octoscope/internal/core/ports/driven"
	"github.com/custodia-labs/octoscope/internal/core/ports/driving"
)

// Ensure IssueService implements the interface.
var _ driving.IssueService = (*IssueService)(nil)

// IssueService creates issues on repositories.
type IssueService struct {
	api    driven.GitHubAPI
	tokens *TokenStore
}

// NewIssueService creates an issue service.
func NewIssueService(api driven.GitHubAPI, tokens *TokenStore) *IssueService {
	return &IssueService{api: api, tokens: tokens}
}

// Create validates draft and creates the issue. An invalid draft never
// reaches the network.
func (s *IssueService) Create(ctx context.Context, ref domain.RepoRef, draft domain.IssueDraft) (domain.IssueResult, error) {
	if err := draft.Validate(); err != nil {
		return domain.IssueResult{}, err
	}
	if _, ok := s.tokens.Get(); !ok {
		return domain.IssueResult{}, fmt.Errorf("creating issues requires login: %w", domain.ErrAuth)
	}

	draft.Title = strings.TrimSpace(draft.Title)
	result, err := s.api.CreateIssue(ctx, ref, draft)
	if err != nil {
		return domain.IssueResult{}, fmt.Errorf("creating issue on %s: %w", ref, err)
	}
	return result, nil
}
