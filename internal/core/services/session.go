package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/custodia-labs/octoscope/internal/core/domain"
	"github.com/custodia-labs/octoscope/internal/core/ports/driven"
	"github.com/custodia-labs/octoscope/internal/core/ports/driving"
)

// Ensure SessionService implements the interface.
var _ driving.SessionService = (*SessionService)(nil)

// SessionService manages login, logout and the user profile.
type SessionService struct {
	tokens *TokenStore
	oauth  driven.OAuthExchanger
	api    driven.GitHubAPI
	logger *slog.Logger
}

// NewSessionService creates a session service. oauth may be nil when no
// OAuth application is configured; only token login is then available.
func NewSessionService(tokens *TokenStore, oauth driven.OAuthExchanger, api driven.GitHubAPI, logger *slog.Logger) *SessionService {
	if logger == nil {
		logger = slog.Default()
	}
	return &SessionService{tokens: tokens, oauth: oauth, api: api, logger: logger}
}

// AuthCodeURL returns the authorization URL for the OAuth flow.
func (s *SessionService) AuthCodeURL(state, verifier, redirectURI string) string {
	if s.oauth == nil {
		return ""
	}
	return s.oauth.AuthCodeURL(state, verifier, redirectURI)
}

// LoginWithCode exchanges an authorization code and stores the token.
func (s *SessionService) LoginWithCode(ctx context.Context, code, verifier, redirectURI string) error {
	if s.oauth == nil {
		return &domain.ValidationError{Field: "client_id", Message: "no OAuth application configured"}
	}
	if code == "" {
		return &domain.ValidationError{Field: "code", Message: "must not be empty"}
	}

	result, err := s.oauth.Exchange(ctx, code, verifier, redirectURI)
	if err != nil {
		return fmt.Errorf("exchanging authorization code: %w", err)
	}
	if err := s.tokens.Save(ctx, result.AccessToken); err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "logged in via OAuth", slog.String("scope", result.Scope))
	return nil
}

// LoginWithToken stores a personal access token and checks it by fetching
// the user profile. A rejected token is removed again.
func (s *SessionService) LoginWithToken(ctx context.Context, token string) (domain.UserProfile, error) {
	if err := s.tokens.Save(ctx, token); err != nil {
		return domain.UserProfile{}, err
	}

	profile, err := s.api.AuthenticatedUser(ctx)
	if err != nil {
		s.tokens.Invalidate(ctx, token)
		return domain.UserProfile{}, fmt.Errorf("verifying token: %w", err)
	}
	s.logger.InfoContext(ctx, "logged in with token", slog.String("login", profile.Login))
	return profile, nil
}

// Logout clears the stored token.
func (s *SessionService) Logout(ctx context.Context) error {
	return s.tokens.Clear(ctx)
}

// Profile returns the authenticated user.
func (s *SessionService) Profile(ctx context.Context) (domain.UserProfile, error) {
	if !s.IsAuthenticated() {
		return domain.UserProfile{}, fmt.Errorf("not logged in: %w", domain.ErrAuth)
	}
	profile, err := s.api.AuthenticatedUser(ctx)
	if err != nil {
		return domain.UserProfile{}, fmt.Errorf("fetching profile: %w", err)
	}
	return profile, nil
}

// IsAuthenticated reports whether a token is present.
func (s *SessionService) IsAuthenticated() bool {
	_, ok := s.tokens.Get()
	return ok
}
