package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/custodia-labs/octoscope/internal/core/domain"
	"github.com/custodia-labs/octoscope/internal/core/ports/driven"
	"github.com/custodia-labs/octoscope/internal/core/ports/driving"
)

// Ensure RepoDetail implements the interface.
var _ driving.RepoDetail = (*RepoDetail)(nil)

// RepoDetail holds one repository together with its star state.
//
// The star state is merged into the repository before Load returns, so a
// caller never sees the default IsStarred=false as if it were authoritative.
// ToggleStar changes the local flag only after the server accepted it.
type RepoDetail struct {
	api    driven.GitHubAPI
	tokens *TokenStore
	logger *slog.Logger

	mu     sync.Mutex
	repo   domain.RepoSummary
	loaded bool
}

// NewRepoDetail creates an empty detail holder.
func NewRepoDetail(api driven.GitHubAPI, tokens *TokenStore, logger *slog.Logger) *RepoDetail {
	if logger == nil {
		logger = slog.Default()
	}
	return &RepoDetail{api: api, tokens: tokens, logger: logger}
}

// Load fetches the repository and its star state.
// Anonymous sessions skip the star check and report IsStarred=false.
func (d *RepoDetail) Load(ctx context.Context, ref domain.RepoRef) (domain.RepoSummary, error) {
	repo, err := d.api.GetRepository(ctx, ref)
	if err != nil {
		return domain.RepoSummary{}, fmt.Errorf("loading %s: %w", ref, err)
	}

	repo.IsStarred = false
	if _, ok := d.tokens.Get(); ok {
		starred, err := d.api.IsStarred(ctx, ref)
		if err != nil {
			return domain.RepoSummary{}, fmt.Errorf("checking star on %s: %w", ref, err)
		}
		repo.IsStarred = starred
	} else {
		d.logger.DebugContext(ctx, "skipping star check for anonymous session", slog.String("repo", ref.String()))
	}

	d.mu.Lock()
	d.repo = repo
	d.loaded = true
	d.mu.Unlock()

	return repo, nil
}

// Current returns the loaded repository.
func (d *RepoDetail) Current() (domain.RepoSummary, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.repo, d.loaded
}

// ToggleStar stars an unstarred repository or unstars a starred one.
func (d *RepoDetail) ToggleStar(ctx context.Context) (domain.RepoSummary, error) {
	d.mu.Lock()
	repo, loaded := d.repo, d.loaded
	d.mu.Unlock()

	if !loaded {
		return domain.RepoSummary{}, &domain.ValidationError{Field: "repository", Message: "no repository loaded"}
	}
	if _, ok := d.tokens.Get(); !ok {
		return repo, fmt.Errorf("starring requires login: %w", domain.ErrAuth)
	}

	ref := repo.Ref()
	var err error
	if repo.IsStarred {
		err = d.api.Unstar(ctx, ref)
	} else {
		err = d.api.Star(ctx, ref)
	}
	if err != nil {
		return repo, fmt.Errorf("toggling star on %s: %w", ref, err)
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.repo.FullName == repo.FullName {
		d.repo.IsStarred = !repo.IsStarred
		if d.repo.IsStarred {
			d.repo.Stars++
		} else if d.repo.Stars > 0 {
			d.repo.Stars--
		}
	}
	return d.repo, nil
}
