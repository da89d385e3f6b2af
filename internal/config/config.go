// Package config loads repo-miner settings from defaults, a .env file,
// an optional YAML file and the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/imdario/mergo"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/naka-gawa/repo-miner/internal/domain"
)

// DefaultPath is read when no --config flag is given and the file exists.
const DefaultPath = "repo-miner.yaml"

// TokenEnv names the environment variable holding the GitHub token.
const TokenEnv = "GITHUB_TOKEN"

// Config holds the settings shared by all commands.
type Config struct {
	Token          string        `yaml:"token"`           // GitHub API token (or use GITHUB_TOKEN)
	BaseURL        string        `yaml:"base_url"`        // GitHub Enterprise URL; empty means github.com
	PerPage        int           `yaml:"per_page"`        // page size for list requests
	RateLimitSleep time.Duration `yaml:"rate_limit_sleep"` // longest single wait on a secondary rate limit
}

// GetDefault returns the built-in settings.
func GetDefault() Config {
	return Config{
		PerPage:        100,
		RateLimitSleep: time.Hour,
	}
}

// Load builds a Config. An empty path falls back to DefaultPath, which may be absent.
// An explicitly named file that cannot be read is an error.
func Load(path string) (*Config, error) {
	// Precedence: real env vars > .env file values.
	_ = godotenv.Load()

	cfg := GetDefault()

	explicit := path != ""
	if !explicit {
		path = DefaultPath
	}
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		var fileCfg Config
		if err := yaml.Unmarshal(data, &fileCfg); err != nil {
			return nil, fmt.Errorf("error parsing config file: %w", err)
		}
		if err := mergo.Merge(&cfg, fileCfg, mergo.WithOverride); err != nil {
			return nil, fmt.Errorf("error merging config file: %w", err)
		}
	case explicit || !errors.Is(err, os.ErrNotExist):
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	// Use environment variable for GitHub token if not in config
	if cfg.Token == "" {
		cfg.Token = os.Getenv(TokenEnv)
	}

	return &cfg, nil
}

// Validate checks if the configuration is usable for talking to GitHub.
func (c *Config) Validate() error {
	if c.Token == "" {
		return fmt.Errorf("%w: %s environment variable is not set", domain.ErrInvalidArgument, TokenEnv)
	}
	if c.PerPage < 1 || c.PerPage > 100 {
		return fmt.Errorf("%w: per_page must be between 1 and 100, got %d", domain.ErrInvalidArgument, c.PerPage)
	}
	if c.RateLimitSleep < 0 {
		return fmt.Errorf("%w: rate_limit_sleep must not be negative", domain.ErrInvalidArgument)
	}
	return nil
}
