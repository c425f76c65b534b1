package tui

import "errors"

// ErrMissingRepoService is returned when the repository service is not provided.
var ErrMissingRepoService = errors.New("tui: repository service is required")

// ErrMissingDetail is returned when no detail factory is provided.
var ErrMissingDetail = errors.New("tui: repository detail factory is required")

// ErrMissingSettingsService is returned when the settings service is not provided.
var ErrMissingSettingsService = errors.New("tui: settings service is required")

// ErrInvalidPorts is returned when no ports were given.
var ErrInvalidPorts = errors.New("tui: invalid ports configuration")
