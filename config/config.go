// Package config loads govvideo settings from an optional YAML file and
// the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/fwojciec/govvideo/crawl"
	"gopkg.in/yaml.v2"
)

// Environment variables that override file settings.
const (
	EnvConfig    = "GOVVIDEO_CONFIG"
	EnvDB        = "GOVVIDEO_DB"
	EnvBaseURL   = "GOVVIDEO_BASE_URL"
	EnvUserAgent = "GOVVIDEO_USER_AGENT"
)

// Config holds the settings read from disk and the environment.
// Zero values mean "use the default".
type Config struct {
	DB            string `yaml:"db"`
	BaseURL       string `yaml:"base_url"`
	UserAgent     string `yaml:"user_agent"`
	DelayMS       int    `yaml:"delay_ms"`
	TimeoutSec    int    `yaml:"timeout_sec"`
	MaxPages      int    `yaml:"max_pages"`
	EnrichLimit   int    `yaml:"enrich_limit"`
	RetryDelaysMS []int  `yaml:"retry_delays_ms"`
}

// Load reads the YAML file at path, if it exists, and applies environment
// overrides. A missing file is not an error.
func Load(path string) (*Config, error) {
	var cfg Config

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("failed to read config: %w", err)
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
			}
		}
	}

	if v := os.Getenv(EnvDB); v != "" {
		cfg.DB = v
	}
	if v := os.Getenv(EnvBaseURL); v != "" {
		cfg.BaseURL = v
	}
	if v := os.Getenv(EnvUserAgent); v != "" {
		cfg.UserAgent = v
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects negative limits and delays.
func (c *Config) Validate() error {
	if c.DelayMS < 0 || c.TimeoutSec < 0 || c.MaxPages < 0 || c.EnrichLimit < 0 {
		return fmt.Errorf("config: delay_ms, timeout_sec, max_pages and enrich_limit must not be negative")
	}
	for _, ms := range c.RetryDelaysMS {
		if ms < 0 {
			return fmt.Errorf("config: retry_delays_ms must not be negative")
		}
	}
	return nil
}

// Crawl returns crawl settings with file values applied over the defaults.
func (c *Config) Crawl() crawl.Config {
	cfg := crawl.DefaultConfig()
	if c.BaseURL != "" {
		cfg.BaseURL = c.BaseURL
	}
	if c.DelayMS > 0 {
		cfg.Delay = time.Duration(c.DelayMS) * time.Millisecond
	}
	if c.MaxPages > 0 {
		cfg.MaxPages = c.MaxPages
	}
	if c.EnrichLimit > 0 {
		cfg.EnrichLimit = c.EnrichLimit
	}
	if c.RetryDelaysMS != nil {
		cfg.RetryDelays = make([]time.Duration, len(c.RetryDelaysMS))
		for i, ms := range c.RetryDelaysMS {
			cfg.RetryDelays[i] = time.Duration(ms) * time.Millisecond
		}
	}
	return cfg
}

// Timeout returns the per-request timeout, or zero for the fetcher default.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutSec) * time.Second
}

// DefaultDir returns the directory holding the default database and
// config file, creating it if needed.
func DefaultDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	dir := filepath.Join(home, ".govvideo")
	_ = os.MkdirAll(dir, 0755)
	return dir
}

// DefaultPath returns the config file location: $GOVVIDEO_CONFIG, or
// config.yaml in DefaultDir.
func DefaultPath() string {
	if path := os.Getenv(EnvConfig); path != "" {
		return path
	}
	return filepath.Join(DefaultDir(), "config.yaml")
}

// DefaultDBPath returns the SQLite database location used when no
// database is configured.
func DefaultDBPath() string {
	return filepath.Join(DefaultDir(), "govvideo.db")
}
