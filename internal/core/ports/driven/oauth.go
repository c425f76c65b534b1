package driven

import (
	"context"

	"github.com/custodia-labs/octoscope/internal/core/domain"
)

// OAuthExchanger performs the OAuth authorization code flow.
type OAuthExchanger interface {
	// AuthCodeURL returns the URL the user visits to authorize the app.
	// The verifier is the PKCE code verifier; its S256 challenge is sent.
	AuthCodeURL(state, verifier, redirectURI string) string

	// Exchange trades an authorization code for an access token.
	Exchange(ctx context.Context, code, verifier, redirectURI string) (domain.OAuthResult, error)
}
