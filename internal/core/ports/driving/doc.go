// Package driving defines what the command line, the TUI and the MCP server
// ask of the core: repository search and detail, issue filing, the login
// session and settings.
//
// The services in internal/core/services implement them; adapters never
// reach past these interfaces into the GitHub client or the HTTP pipeline.
package driving
