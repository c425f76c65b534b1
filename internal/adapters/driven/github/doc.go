// Package github implements [driven.GitHubAPI] on top of go-github.
//
// The client sends every request through an http.Client supplied by the
// caller, normally the request pipeline, which attaches the session token,
// revalidates search responses with ETags and clears the token when GitHub
// rejects it. The adapter itself only maps between go-github types and the
// domain model.
//
// # Error Handling
//
// Every error returned wraps one of the domain error kinds:
//
//   - 401 and 403 responses: [domain.ErrAuth]
//   - 404 responses: [domain.ErrNotFound]
//   - 422 responses: [domain.ErrValidation]
//   - Rate limit responses: [domain.ErrRateLimited]
//   - Network failures: [domain.ErrTransport]
//   - Anything else: [domain.ErrServer]
//
// # Cached Responses
//
// Responses replayed from the conditional cache carry the X-From-Cache
// header. Search and listing results report this through
// [domain.Page.FromCache].
package github
