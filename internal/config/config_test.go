package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetEnvOrDefault(t *testing.T) {
	tests := []struct {
		name       string
		key        string
		envValue   string
		defaultVal string
		expected   string
	}{
		{"uses env value", "TEST_VAR_1", "hello", "default", "hello"},
		{"uses default when empty", "TEST_VAR_2", "", "default", "default"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if tc.envValue != "" {
				t.Setenv(tc.key, tc.envValue)
			}

			assert.Equal(t, tc.expected, getEnvOrDefault(tc.key, tc.defaultVal))
		})
	}
}

func TestGetEnvAsIntOrDefault(t *testing.T) {
	tests := []struct {
		name       string
		key        string
		envValue   string
		defaultVal int
		expected   int
	}{
		{"parses integer", "TEST_INT_1", "42", 10, 42},
		{"uses default for empty", "TEST_INT_2", "", 10, 10},
		{"uses default for non-numeric", "TEST_INT_3", "abc", 10, 10},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if tc.envValue != "" {
				t.Setenv(tc.key, tc.envValue)
			}

			assert.Equal(t, tc.expected, getEnvAsIntOrDefault(tc.key, tc.defaultVal))
		})
	}
}

func TestGetEnvAsFloatOrDefault(t *testing.T) {
	t.Setenv("TEST_FLOAT_1", "0.25")
	assert.Equal(t, 0.25, getEnvAsFloatOrDefault("TEST_FLOAT_1", 1))

	t.Setenv("TEST_FLOAT_2", "many")
	assert.Equal(t, 1.5, getEnvAsFloatOrDefault("TEST_FLOAT_2", 1.5))
}

func TestGetEnvAsDurationOrDefault(t *testing.T) {
	t.Setenv("TEST_DURATION_1", "90s")
	assert.Equal(t, 90*time.Second, getEnvAsDurationOrDefault("TEST_DURATION_1", time.Second))

	t.Setenv("TEST_DURATION_2", "soon")
	assert.Equal(t, time.Minute, getEnvAsDurationOrDefault("TEST_DURATION_2", time.Minute))
}

func TestLoad_MissingAPIKey(t *testing.T) {
	t.Setenv("YOUTUBE_API_KEY", "")
	os.Unsetenv("YOUTUBE_API_KEY")

	cfg, err := Load()

	assert.Nil(t, cfg)
	var cfgErr *ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, []string{"YOUTUBE_API_KEY"}, cfgErr.Missing)
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("YOUTUBE_API_KEY", "key-123")
	t.Setenv("DETAIL_FETCH_CONCURRENCY", "0")
	t.Setenv("SHEETS_PARENT_SPREADSHEET_ID", "")
	t.Setenv("GOOGLE_SA_JSON", "")

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, "key-123", cfg.YouTubeAPIKey)
	assert.Equal(t, 1, cfg.DetailFetchConcurrency, "concurrency is clamped to 1")
	assert.Equal(t, 0.6, cfg.ScoreViewWeight)
	assert.Equal(t, 400.0, cfg.ScoreLikeWeight)
	assert.False(t, cfg.ExportEnabled(), "export needs Sheets settings")
}

func TestExportEnabled_RequiresBothSettings(t *testing.T) {
	cfg := &Config{SpreadsheetID: "sheet"}
	assert.False(t, cfg.ExportEnabled(), "no service account")

	cfg.GoogleServiceAccount = `{"type":"service_account"}`
	assert.True(t, cfg.ExportEnabled())
}
