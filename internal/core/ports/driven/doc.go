// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Interfaces
//
//   - GitHubAPI: Typed GitHub REST calls (search, repos, stars, issues, users)
//   - OAuthExchanger: Authorization URL and code-for-token exchange
//   - TokenStorage: Session token persistence
//   - ETagStore: Persisted url -> ETag mapping for conditional requests
//   - ResponseStore: Persisted HTTP response bodies for the search cache
//   - ConfigStore: Application configuration
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
