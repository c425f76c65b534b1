package driving

import (
	"context"

	"github.com/custodia-labs/octoscope/internal/core/domain"
)

// SessionService manages login state.
type SessionService interface {
	// AuthCodeURL returns the authorization URL for the OAuth flow.
	AuthCodeURL(state, verifier, redirectURI string) string

	// LoginWithCode exchanges an authorization code and stores the token.
	LoginWithCode(ctx context.Context, code, verifier, redirectURI string) error

	// LoginWithToken stores a personal access token after checking it.
	LoginWithToken(ctx context.Context, token string) (domain.UserProfile, error)

	// Logout clears the stored token.
	Logout(ctx context.Context) error

	// Profile returns the authenticated user.
	Profile(ctx context.Context) (domain.UserProfile, error)

	// IsAuthenticated reports whether a token is present.
	IsAuthenticated() bool
}

// SettingsService exposes application settings.
type SettingsService interface {
	// Get returns the effective settings.
	Get() domain.Settings

	// Set validates and persists one setting.
	Set(key, value string) error

	// Keys lists the settable keys.
	Keys() []string
}
