package domain

// TokenState is a snapshot of the session token as seen by observers.
type TokenState struct {
	Token   string
	Present bool
}

// OAuthResult is the outcome of a completed authorization code exchange.
type OAuthResult struct {
	AccessToken string
	TokenType   string
	Scope       string
}
