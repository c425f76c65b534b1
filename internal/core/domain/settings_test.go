package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDefaultSettings(t *testing.T) {
	s := DefaultSettings()

	assert.Equal(t, 30, s.PageSize)
	assert.Equal(t, 5, s.PrefetchThreshold)
	assert.InDelta(t, 0.8, s.PrefetchRatio, 1e-9)
	assert.Equal(t, 300*time.Millisecond, s.Debounce)
	assert.Equal(t, DefaultAPIBaseURL, s.APIBaseURL)
	assert.NoError(t, s.Validate())
}

func TestSettings_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Settings)
	}{
		{"zero page size", func(s *Settings) { s.PageSize = 0 }},
		{"page size too large", func(s *Settings) { s.PageSize = 101 }},
		{"negative threshold", func(s *Settings) { s.PrefetchThreshold = -1 }},
		{"zero ratio", func(s *Settings) { s.PrefetchRatio = 0 }},
		{"ratio above one", func(s *Settings) { s.PrefetchRatio = 1.5 }},
		{"negative debounce", func(s *Settings) { s.Debounce = -time.Second }},
		{"negative max age", func(s *Settings) { s.CacheMaxAge = -time.Second }},
		{"zero rate", func(s *Settings) { s.RequestsPerSecond = 0 }},
		{"empty api url", func(s *Settings) { s.APIBaseURL = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := DefaultSettings()
			tt.mutate(&s)
			assert.True(t, errors.Is(s.Validate(), ErrValidation))
		})
	}
}
