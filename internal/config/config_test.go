package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/naka-gawa/repo-miner/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "repo-miner.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	t.Run("file values override defaults", func(t *testing.T) {
		t.Setenv(TokenEnv, "env-token")
		path := writeConfig(t, `
token: file-token
base_url: https://ghe.example.com/
per_page: 50
rate_limit_sleep: 10m
`)
		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, "file-token", cfg.Token)
		assert.Equal(t, "https://ghe.example.com/", cfg.BaseURL)
		assert.Equal(t, 50, cfg.PerPage)
		assert.Equal(t, 10*time.Minute, cfg.RateLimitSleep)
	})

	t.Run("token falls back to environment", func(t *testing.T) {
		t.Setenv(TokenEnv, "env-token")
		cfg, err := Load(writeConfig(t, "per_page: 20\n"))
		require.NoError(t, err)
		assert.Equal(t, "env-token", cfg.Token)
		assert.Equal(t, 20, cfg.PerPage)
		assert.Equal(t, time.Hour, cfg.RateLimitSleep)
	})

	t.Run("missing default file is fine", func(t *testing.T) {
		testChdir(t, t.TempDir())
		t.Setenv(TokenEnv, "env-token")
		cfg, err := Load("")
		require.NoError(t, err)
		assert.Equal(t, GetDefault().PerPage, cfg.PerPage)
		assert.Equal(t, "env-token", cfg.Token)
	})

	t.Run("missing explicit file is an error", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.ErrorContains(t, err, "error reading config file")
	})

	t.Run("malformed file is an error", func(t *testing.T) {
		_, err := Load(writeConfig(t, "per_page: [1, 2\n"))
		assert.ErrorContains(t, err, "error parsing config file")
	})
}

func TestConfigValidation(t *testing.T) {
	testCases := []struct {
		name        string
		cfg         Config
		expectError bool
	}{
		{name: "valid", cfg: Config{Token: "t", PerPage: 100}},
		{name: "missing token", cfg: Config{PerPage: 100}, expectError: true},
		{name: "page too small", cfg: Config{Token: "t", PerPage: 0}, expectError: true},
		{name: "page too large", cfg: Config{Token: "t", PerPage: 101}, expectError: true},
		{name: "negative sleep", cfg: Config{Token: "t", PerPage: 10, RateLimitSleep: -time.Second}, expectError: true},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cfg.Validate()
			if tc.expectError {
				assert.ErrorIs(t, err, domain.ErrInvalidArgument)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
