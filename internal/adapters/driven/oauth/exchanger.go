package oauth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/github"

	"github.com/custodia-labs/octoscope/internal/core/domain"
	"github.com/custodia-labs/octoscope/internal/core/ports/driven"
)

// DefaultTimeout bounds the token exchange request.
const DefaultTimeout = 30 * time.Second

// DefaultScopes are the scopes requested at authorization.
var DefaultScopes = []string{"repo", "read:user"}

// Verify interface compliance.
var _ driven.OAuthExchanger = (*Exchanger)(nil)

// Exchanger runs the GitHub OAuth authorization code flow.
type Exchanger struct {
	clientID     string
	clientSecret string
	endpoint     oauth2.Endpoint
	scopes       []string
	httpClient   *http.Client
}

// Option configures an Exchanger.
type Option func(*Exchanger)

// WithEndpoint overrides the authorization and token URLs, for GitHub
// Enterprise Server.
func WithEndpoint(authURL, tokenURL string) Option {
	return func(e *Exchanger) {
		e.endpoint = oauth2.Endpoint{
			AuthURL:   authURL,
			TokenURL:  tokenURL,
			AuthStyle: oauth2.AuthStyleInParams,
		}
	}
}

// WithScopes overrides the requested scopes.
func WithScopes(scopes ...string) Option {
	return func(e *Exchanger) {
		e.scopes = scopes
	}
}

// WithHTTPClient sets the client used for the token request.
func WithHTTPClient(c *http.Client) Option {
	return func(e *Exchanger) {
		e.httpClient = c
	}
}

// NewExchanger creates an exchanger for the OAuth app identified by
// clientID and clientSecret.
func NewExchanger(clientID, clientSecret string, opts ...Option) *Exchanger {
	e := &Exchanger{
		clientID:     clientID,
		clientSecret: clientSecret,
		endpoint:     github.Endpoint,
		scopes:       DefaultScopes,
		httpClient:   &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// GenerateVerifier returns a new PKCE code verifier.
func GenerateVerifier() string {
	return oauth2.GenerateVerifier()
}

func (e *Exchanger) config(redirectURI string) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     e.clientID,
		ClientSecret: e.clientSecret,
		Endpoint:     e.endpoint,
		RedirectURL:  redirectURI,
		Scopes:       e.scopes,
	}
}

// AuthCodeURL returns the URL the user visits to authorize the app.
func (e *Exchanger) AuthCodeURL(state, verifier, redirectURI string) string {
	opts := []oauth2.AuthCodeOption{}
	if verifier != "" {
		opts = append(opts, oauth2.S256ChallengeOption(verifier))
	}
	return e.config(redirectURI).AuthCodeURL(state, opts...)
}

// Exchange trades an authorization code for an access token.
func (e *Exchanger) Exchange(ctx context.Context, code, verifier, redirectURI string) (domain.OAuthResult, error) {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, e.httpClient)

	opts := []oauth2.AuthCodeOption{}
	if verifier != "" {
		opts = append(opts, oauth2.VerifierOption(verifier))
	}

	tok, err := e.config(redirectURI).Exchange(ctx, code, opts...)
	if err != nil {
		return domain.OAuthResult{}, wrapError(err)
	}

	scope, _ := tok.Extra("scope").(string)
	return domain.OAuthResult{
		AccessToken: tok.AccessToken,
		TokenType:   tok.TokenType,
		Scope:       scope,
	}, nil
}

// wrapError maps token endpoint failures to domain error kinds.
func wrapError(err error) error {
	var retrieveErr *oauth2.RetrieveError
	if errors.As(err, &retrieveErr) {
		message := retrieveErr.ErrorDescription
		if message == "" {
			message = retrieveErr.ErrorCode
		}
		status := 0
		if retrieveErr.Response != nil {
			status = retrieveErr.Response.StatusCode
		}
		kind := domain.ErrAuth
		if status >= 500 {
			kind = domain.ErrServer
		}
		return &domain.APIError{Kind: kind, StatusCode: status, Message: "token exchange failed: " + message}
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return fmt.Errorf("token exchange: %w: %w", domain.ErrTransport, err)
	}
	// GitHub reports a bad code with status 200 and no access token.
	return &domain.APIError{Kind: domain.ErrAuth, Message: "token exchange failed: " + err.Error()}
}
