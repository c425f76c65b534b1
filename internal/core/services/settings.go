package services

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/custodia-labs/octoscope/internal/core/domain"
	"github.com/custodia-labs/octoscope/internal/core/ports/driven"
	"github.com/custodia-labs/octoscope/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	KeyAPIURL            = "api.url"
	KeyRequestsPerSecond = "api.requests_per_second"
	KeyPageSize          = "pagination.page_size"
	KeyPrefetchThreshold = "pagination.prefetch_threshold"
	KeyPrefetchRatio     = "pagination.prefetch_ratio"
	KeyDebounceMillis    = "search.debounce_ms"
	KeyCacheMaxAge       = "cache.max_age_seconds"
	KeyClientID          = "oauth.client_id"
	KeyClientSecret      = "oauth.client_secret"
)

// Environment variables that override the config file.
const (
	EnvAPIURL       = "OCTOSCOPE_API_URL"
	EnvClientID     = "OCTOSCOPE_CLIENT_ID"
	EnvClientSecret = "OCTOSCOPE_CLIENT_SECRET"
)

type settingKind int

const (
	kindString settingKind = iota
	kindInt
	kindFloat
)

var settingKinds = map[string]settingKind{
	KeyAPIURL:            kindString,
	KeyRequestsPerSecond: kindFloat,
	KeyPageSize:          kindInt,
	KeyPrefetchThreshold: kindInt,
	KeyPrefetchRatio:     kindFloat,
	KeyDebounceMillis:    kindInt,
	KeyCacheMaxAge:       kindInt,
	KeyClientID:          kindString,
	KeyClientSecret:      kindString,
}

// SettingsService maps the config store onto domain.Settings.
type SettingsService struct {
	configStore driven.ConfigStore
	getenv      func(string) string
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{configStore: configStore, getenv: os.Getenv}
}

// Get returns the effective settings: defaults, overlaid by the config
// store, overlaid by the environment. Invalid stored values fall back to
// the default.
func (s *SettingsService) Get() domain.Settings {
	settings := domain.DefaultSettings()

	if v := s.configStore.GetString(KeyAPIURL); v != "" {
		settings.APIBaseURL = v
	}
	if v := s.configStore.GetInt(KeyPageSize); v >= 1 && v <= 100 {
		settings.PageSize = v
	}
	if _, ok := s.configStore.Get(KeyPrefetchThreshold); ok {
		if v := s.configStore.GetInt(KeyPrefetchThreshold); v >= 0 {
			settings.PrefetchThreshold = v
		}
	}
	if v := s.configStore.GetFloat(KeyPrefetchRatio); v > 0 && v <= 1 {
		settings.PrefetchRatio = v
	}
	if _, ok := s.configStore.Get(KeyDebounceMillis); ok {
		if v := s.configStore.GetInt(KeyDebounceMillis); v >= 0 {
			settings.Debounce = time.Duration(v) * time.Millisecond
		}
	}
	if _, ok := s.configStore.Get(KeyCacheMaxAge); ok {
		if v := s.configStore.GetInt(KeyCacheMaxAge); v >= 0 {
			settings.CacheMaxAge = time.Duration(v) * time.Second
		}
	}
	if v := s.configStore.GetFloat(KeyRequestsPerSecond); v > 0 {
		settings.RequestsPerSecond = v
	}
	settings.ClientID = s.configStore.GetString(KeyClientID)
	settings.ClientSecret = s.configStore.GetString(KeyClientSecret)

	if v := s.getenv(EnvAPIURL); v != "" {
		settings.APIBaseURL = v
	}
	if v := s.getenv(EnvClientID); v != "" {
		settings.ClientID = v
	}
	if v := s.getenv(EnvClientSecret); v != "" {
		settings.ClientSecret = v
	}
	if !strings.HasSuffix(settings.APIBaseURL, "/") {
		settings.APIBaseURL += "/"
	}

	return settings
}

// Set parses value according to key, validates the resulting settings and
// persists the value.
func (s *SettingsService) Set(key, value string) error {
	kind, ok := settingKinds[key]
	if !ok {
		return &domain.ValidationError{Field: key, Message: "unknown setting"}
	}

	var parsed any
	switch kind {
	case kindInt:
		n, err := strconv.Atoi(value)
		if err != nil {
			return &domain.ValidationError{Field: key, Message: "must be an integer"}
		}
		parsed = int64(n)
	case kindFloat:
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return &domain.ValidationError{Field: key, Message: "must be a number"}
		}
		parsed = f
	default:
		parsed = value
	}

	if err := s.validate(key, parsed); err != nil {
		return err
	}
	if err := s.configStore.Set(key, parsed); err != nil {
		return fmt.Errorf("saving %s: %w", key, err)
	}
	return nil
}

// validate checks parsed against the same rules Settings.Validate applies.
func (s *SettingsService) validate(key string, parsed any) error {
	settings := domain.DefaultSettings()
	switch key {
	case KeyAPIURL:
		settings.APIBaseURL = parsed.(string)
	case KeyRequestsPerSecond:
		settings.RequestsPerSecond = parsed.(float64)
	case KeyPageSize:
		settings.PageSize = int(parsed.(int64))
	case KeyPrefetchThreshold:
		settings.PrefetchThreshold = int(parsed.(int64))
	case KeyPrefetchRatio:
		settings.PrefetchRatio = parsed.(float64)
	case KeyDebounceMillis:
		settings.Debounce = time.Duration(parsed.(int64)) * time.Millisecond
	case KeyCacheMaxAge:
		settings.CacheMaxAge = time.Duration(parsed.(int64)) * time.Second
	}
	return settings.Validate()
}

// Keys lists the settable keys.
func (s *SettingsService) Keys() []string {
	keys := make([]string, 0, len(settingKinds))
	for k := range settingKinds {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
