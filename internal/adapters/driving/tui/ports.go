// Package tui provides the interactive terminal interface for octoscope.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"log/slog"

	"github.com/custodia-labs/octoscope/internal/core/domain"
	"github.com/custodia-labs/octoscope/internal/core/ports/driving"
)

// SessionFeed publishes login state changes.
type SessionFeed interface {
	Subscribe() (<-chan domain.TokenState, func())
}

// Ports aggregates the driving ports the TUI needs.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Repos provides repository search.
	Repos driving.RepoService

	// NewDetail returns an empty detail holder for each opened repository.
	NewDetail func() driving.RepoDetail

	// Settings provides page size, prefetch and debounce tunables.
	Settings driving.SettingsService

	// Session reports logins and logouts. Optional.
	Session SessionFeed

	// OpenURL opens a repository page in a browser. Optional.
	OpenURL func(url string) error

	// Logger receives paginator diagnostics. Optional.
	Logger *slog.Logger
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p == nil {
		return ErrInvalidPorts
	}
	if p.Repos == nil {
		return ErrMissingRepoService
	}
	if p.NewDetail == nil {
		return ErrMissingDetail
	}
	if p.Settings == nil {
		return ErrMissingSettingsService
	}
	return nil
}
