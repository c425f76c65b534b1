package mcp

import (
	"log/slog"

	"github.com/custodia-labs/octoscope/internal/core/ports/driving"
)

// Ports holds what the MCP server needs from the core.
type Ports struct {
	// Repos provides repository search.
	Repos driving.RepoService

	// NewDetail returns an empty detail holder per lookup. Optional.
	NewDetail func() driving.RepoDetail

	// Logger receives tool call logs. Defaults to slog.Default.
	Logger *slog.Logger
}

func (p *Ports) logger() *slog.Logger {
	if p.Logger == nil {
		return slog.Default()
	}
	return p.Logger
}

// Validate reports the first required port that is missing.
func (p *Ports) Validate() error {
	if p.Repos == nil {
		return ErrMissingRepoService
	}
	return nil
}
