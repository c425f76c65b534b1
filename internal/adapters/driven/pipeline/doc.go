// Package pipeline builds the http.RoundTripper every GitHub API request
// goes through.
//
// The pipeline is a fixed list of named stages. In request order:
//
//  1. authorization: attaches "Authorization: token <t>" from the token
//     source at send time and remembers which token was sent.
//  2. conditional-cache: for GET /search/repositories, serves fresh stored
//     responses without a round trip, attaches If-None-Match when an ETag
//     and its body are stored, replays the stored body on 304 and records
//     new ETags and bodies.
//  3. cache-control: stamps "Cache-Control: public, max-age=N" on
//     responses of the cacheable class.
//  4. auth-failure: on 401 or 403 for a request that carried a token,
//     invalidates that token before the response is returned.
//  5. transport: throttles requests and fails fast when the GitHub quota
//     is exhausted, then sends the request.
//
// Responses travel back through the stages in reverse, so the auth-failure
// stage sees a response before cache-control stamps it, and the
// conditional-cache stage stores what cache-control stamped. Replayed
// responses carry "X-From-Cache: true". The pipeline never retries.
package pipeline
