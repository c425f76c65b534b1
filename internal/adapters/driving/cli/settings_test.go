package cli

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMaskSecret(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "Short secret", input: "abc123", expected: "****"},
		{name: "Exactly 8 chars", input: "12345678", expected: "****"},
		{name: "Long secret", input: "0123456789abcdef", expected: "0123...cdef"},
		{name: "Empty secret", input: "", expected: "****"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, maskSecret(tt.input))
		})
	}
}

func TestConfigShowCmd(t *testing.T) {
	ts := setupTestServices(t)
	ts.settings.settings.ClientID = "Iv1.abc"
	ts.settings.settings.ClientSecret = "0123456789abcdef"

	out, err := execute(t, "config", "show")

	require.NoError(t, err)
	assert.Contains(t, out, "URL: https://api.github.com/")
	assert.Contains(t, out, "Page size: 30")
	assert.Contains(t, out, "Debounce: 300ms")
	assert.Contains(t, out, "Client ID: Iv1.abc")
	assert.Contains(t, out, "Client secret: 0123...cdef")
	assert.NotContains(t, out, "0123456789abcdef")
}

func TestConfigShowCmd_Unset(t *testing.T) {
	setupTestServices(t)

	out, err := execute(t, "settings")

	require.NoError(t, err)
	assert.Contains(t, out, "Client ID: (not set)")
}

func TestConfigSetCmd(t *testing.T) {
	t.Run("sets value", func(t *testing.T) {
		ts := setupTestServices(t)

		out, err := execute(t, "config", "set", "pagination.page_size", "50")

		require.NoError(t, err)
		assert.Contains(t, out, "Set pagination.page_size.")
		assert.Equal(t, "50", ts.settings.set["pagination.page_size"])
	})

	t.Run("propagates validation error", func(t *testing.T) {
		ts := setupTestServices(t)
		ts.settings.err = errors.New("must be between 1 and 100")

		_, err := execute(t, "config", "set", "pagination.page_size", "500")

		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to set pagination.page_size")
	})

	t.Run("requires key and value", func(t *testing.T) {
		setupTestServices(t)

		_, err := execute(t, "config", "set", "api.url")

		require.Error(t, err)
	})
}

func TestConfigKeysCmd(t *testing.T) {
	setupTestServices(t)

	out, err := execute(t, "config", "keys")

	require.NoError(t, err)
	assert.Contains(t, out, "api.url")
	assert.Contains(t, out, "pagination.page_size")
}
