// Package mcp provides an MCP (Model Context Protocol) server adapter for octoscope.
// It lets AI assistants search GitHub repositories through octoscope's cached
// and rate-limited client.
package mcp

import "errors"

// ErrMissingRepoService is returned when the repository service is not provided.
var ErrMissingRepoService = errors.New("mcp: repository service is required")

// ErrDetailUnavailable is returned by repository lookups when no detail
// factory was configured.
var ErrDetailUnavailable = errors.New("mcp: repository details are not available")
