// Package config provides configuration loading and validation for the CLI
// and the dashboard server.
package config

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Defaults applied by MergeWithDefaults and Default.
const (
	DefaultGatewayURL = "https://talentmatrix-backend.onrender.com"
	DefaultGithubURL  = "https://api.github.com"
	DefaultLogLevel   = "info"
	DefaultPort       = 8080
)

// Environment variables read by ApplyEnv.
const (
	EnvGatewayURL = "TALENTMATRIX_GATEWAY_URL"
	EnvGithubURL  = "TALENTMATRIX_GITHUB_URL"
	EnvStatePath  = "TALENTMATRIX_STATE_PATH"
	EnvTimeout    = "TALENTMATRIX_TIMEOUT"
	EnvLogLevel   = "TALENTMATRIX_LOG_LEVEL"
	EnvGithubTok  = "GITHUB_TOKEN"
	EnvPort       = "PORT"
)

// Config represents the client configuration that can be loaded from a JSON or
// YAML file. All fields are optional; missing values use defaults or CLI flags.
type Config struct {
	// Endpoints
	GatewayURL string `json:"gateway_url,omitempty" yaml:"gateway_url,omitempty"` // TalentMatrix Gateway base URL
	GithubURL  string `json:"github_url,omitempty" yaml:"github_url,omitempty"`   // GitHub REST API base URL

	// Local state
	StatePath string `json:"state_path,omitempty" yaml:"state_path,omitempty"` // SQLite state file

	// Behavior
	RequestTimeout string `json:"request_timeout,omitempty" yaml:"request_timeout,omitempty"` // Go duration, "0" or empty means none
	LogLevel       string `json:"log_level,omitempty" yaml:"log_level,omitempty"`             // debug, info, warn, error
	Verbose        bool   `json:"verbose,omitempty" yaml:"verbose,omitempty"`                 // Shorthand for log_level=debug
	GithubToken    string `json:"github_token,omitempty" yaml:"github_token,omitempty"`       // Optional token for higher GitHub rate limits

	// Dashboard server
	Port int `json:"port,omitempty" yaml:"port,omitempty"`
}

// LoadConfig loads configuration from a JSON or YAML file. The format is
// chosen by extension (.yaml/.yml), defaulting to JSON.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config YAML: %w", err)
		}
	default:
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config JSON: %w", err)
		}
	}

	return &cfg, nil
}

// ApplyEnv overrides fields with any set environment variables. getenv is
// usually os.Getenv.
func (c *Config) ApplyEnv(getenv func(string) string) error {
	if v := getenv(EnvGatewayURL); v != "" {
		c.GatewayURL = v
	}
	if v := getenv(EnvGithubURL); v != "" {
		c.GithubURL = v
	}
	if v := getenv(EnvStatePath); v != "" {
		c.StatePath = v
	}
	if v := getenv(EnvTimeout); v != "" {
		c.RequestTimeout = v
	}
	if v := getenv(EnvLogLevel); v != "" {
		c.LogLevel = v
	}
	if v := getenv(EnvGithubTok); v != "" {
		c.GithubToken = v
	}
	if v := getenv(EnvPort); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("config error: %s must be an integer: %w", EnvPort, err)
		}
		c.Port = port
	}
	return nil
}

// Validate checks that the configuration has valid values.
func (c *Config) Validate() error {
	for name, raw := range map[string]string{"gateway_url": c.GatewayURL, "github_url": c.GithubURL} {
		if raw == "" {
			continue
		}
		u, err := url.Parse(raw)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("config error: '%s' must be an absolute http(s) URL: %q", name, raw)
		}
	}

	if _, err := c.Timeout(); err != nil {
		return err
	}

	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("config error: 'port' must be between 0 and 65535")
	}

	switch strings.ToLower(c.LogLevel) {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config error: 'log_level' must be one of debug, info, warn, error")
	}

	return nil
}

// Timeout parses RequestTimeout. Empty means no timeout; a bare integer is
// read as seconds.
func (c *Config) Timeout() (time.Duration, error) {
	raw := strings.TrimSpace(c.RequestTimeout)
	if raw == "" {
		return 0, nil
	}
	if secs, err := strconv.Atoi(raw); err == nil {
		raw = strconv.Itoa(secs) + "s"
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("config error: 'request_timeout' is not a duration: %w", err)
	}
	if d < 0 {
		return 0, fmt.Errorf("config error: 'request_timeout' must be non-negative")
	}
	return d, nil
}

// Level returns the effective log level; Verbose forces debug.
func (c *Config) Level() string {
	if c.Verbose {
		return "debug"
	}
	if c.LogLevel == "" {
		return DefaultLogLevel
	}
	return strings.ToLower(c.LogLevel)
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults.
// This is used to apply config file values as defaults for CLI flags.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	// String fields: use default if empty
	if result.GatewayURL == "" {
		result.GatewayURL = defaults.GatewayURL
	}
	if result.GithubURL == "" {
		result.GithubURL = defaults.GithubURL
	}
	if result.StatePath == "" {
		result.StatePath = defaults.StatePath
	}
	if result.RequestTimeout == "" {
		result.RequestTimeout = defaults.RequestTimeout
	}
	if result.LogLevel == "" {
		result.LogLevel = defaults.LogLevel
	}
	if result.GithubToken == "" {
		result.GithubToken = defaults.GithubToken
	}

	// Int fields: use default if zero
	if result.Port == 0 {
		result.Port = defaults.Port
	}

	// Bool fields: cannot distinguish unset from false, so we don't merge
	// (CLI flags should always win for bools)

	return result
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		GatewayURL: DefaultGatewayURL,
		GithubURL:  DefaultGithubURL,
		StatePath:  DefaultStatePath(),
		LogLevel:   DefaultLogLevel,
		Port:       DefaultPort,
	}
}

// DefaultStatePath returns ~/.talentmatrix/state.db, or a relative path when
// the home directory cannot be determined.
func DefaultStatePath() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return filepath.Join(".talentmatrix", "state.db")
	}
	return filepath.Join(home, ".talentmatrix", "state.db")
}

// Load resolves the effective configuration: optional file, then environment,
// then defaults for anything still unset.
func Load(path string, getenv func(string) string) (Config, error) {
	cfg := &Config{}
	if path != "" {
		loaded, err := LoadConfig(path)
		if err != nil {
			return Config{}, err
		}
		cfg = loaded
	}
	if err := cfg.ApplyEnv(getenv); err != nil {
		return Config{}, err
	}
	merged := cfg.MergeWithDefaults(Default())
	if err := merged.Validate(); err != nil {
		return Config{}, err
	}
	return merged, nil
}
