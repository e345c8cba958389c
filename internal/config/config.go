// Package config holds runtime configuration for the dish diary: tracker
// credentials, client tuning, and the HTTP listen address. Values come from
// defaults, then an optional YAML file, then environment variables, each
// layer overriding the last.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Environment variables. The GITHUB_* pair is accepted as a fallback so a
// deployment configured for the original app keeps working.
const (
	EnvToken   = "DISHDIARY_TOKEN"
	EnvRepo    = "DISHDIARY_REPO"
	EnvBaseURL = "DISHDIARY_BASE_URL"
	EnvListen  = "DISHDIARY_LISTEN"
	EnvTimeout = "DISHDIARY_TIMEOUT"
	EnvRPS     = "DISHDIARY_RPS"

	envFallbackToken = "GITHUB_TOKEN"
	envFallbackRepo  = "GITHUB_REPO"
)

// Configuration errors, surfaced before any network call.
var (
	ErrMissingToken = errors.New("tracker token not configured")
	ErrMissingRepo  = errors.New("tracker repository not configured")
)

// Config is the full runtime configuration.
type Config struct {
	// Token is the tracker bearer credential. Required.
	Token string `yaml:"token"`

	// Repo is the two-part tracker repository identifier, "owner/name".
	// Required.
	Repo string `yaml:"repo"`

	// BaseURL overrides the tracker API root. Empty means the public API.
	BaseURL string `yaml:"base_url"`

	// UploadBranch is the branch image uploads land on and are served from.
	// Default: "main".
	UploadBranch string `yaml:"upload_branch"`

	// RequestTimeout bounds every tracker call.
	// Default: 15s.
	RequestTimeout time.Duration `yaml:"request_timeout"`

	// RequestsPerSecond throttles tracker calls.
	// Default: 5.
	RequestsPerSecond float64 `yaml:"requests_per_second"`

	// Listen is the HTTP API listen address for the serve command.
	// Default: ":8090".
	Listen string `yaml:"listen"`
}

// DefaultConfig returns a config with sensible defaults. Token and Repo have
// no default: they must come from the file or the environment.
func DefaultConfig() *Config {
	return &Config{
		UploadBranch:      "main",
		RequestTimeout:    15 * time.Second,
		RequestsPerSecond: 5,
		Listen:            ":8090",
	}
}

// Load builds the effective configuration: defaults, overridden by the YAML
// file at path (skipped when path is empty or the file does not exist),
// overridden by environment variables.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse config file %s: %w", path, err)
			}
		case os.IsNotExist(err):
			// Optional file.
		default:
			return nil, fmt.Errorf("read config file %s: %w", path, err)
		}
	}

	cfg.loadEnv()
	return cfg, nil
}

// loadEnv applies environment overrides.
func (c *Config) loadEnv() {
	if v := firstEnv(EnvToken, envFallbackToken); v != "" {
		c.Token = v
	}
	if v := firstEnv(EnvRepo, envFallbackRepo); v != "" {
		c.Repo = v
	}
	if v := os.Getenv(EnvBaseURL); v != "" {
		c.BaseURL = v
	}
	if v := os.Getenv(EnvListen); v != "" {
		c.Listen = v
	}
	if v := os.Getenv(EnvTimeout); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			c.RequestTimeout = d
		}
	}
	if v := os.Getenv(EnvRPS); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f > 0 {
			c.RequestsPerSecond = f
		}
	}
}

// Validate checks that the store credentials are present. Called before the
// first tracker client is built so a misconfigured process fails fast.
func (c *Config) Validate() error {
	if c.Token == "" {
		return ErrMissingToken
	}
	if c.Repo == "" {
		return ErrMissingRepo
	}
	return nil
}

func firstEnv(keys ...string) string {
	for _, k := range keys {
		if v := os.Getenv(k); v != "" {
			return v
		}
	}
	return ""
}
