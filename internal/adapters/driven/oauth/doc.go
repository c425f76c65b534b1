// Package oauth implements [driven.OAuthExchanger] for GitHub OAuth apps
// using golang.org/x/oauth2.
//
// The authorization code flow uses PKCE: the caller generates a verifier,
// AuthCodeURL sends its S256 challenge and Exchange sends the verifier with
// the code. The requested scopes are "repo" (star, unstar and issue
// creation) and "read:user" (profile).
package oauth
