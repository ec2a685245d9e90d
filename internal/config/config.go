// Package config loads server configuration from an optional YAML file, an
// optional .env file and the process environment.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github-search-mcp/internal/github"
)

// Config is the top-level configuration.
type Config struct {
	GitHub   GitHubConfig `yaml:"github"`
	HTTP     HTTPConfig   `yaml:"http"`
	LogLevel string       `yaml:"log_level"`
}

// GitHubConfig holds the remote API settings.
type GitHubConfig struct {
	BaseURL string `yaml:"base_url"`
	Token   string `yaml:"token"` //nolint:gosec // configuration field, not a hardcoded secret
	Timeout string `yaml:"timeout"` // duration string, e.g. "30s"
}

// HTTPConfig holds the HTTP facade settings.
type HTTPConfig struct {
	Addr        string `yaml:"addr"`
	Token       string `yaml:"token"` //nolint:gosec // configuration field, not a hardcoded secret
	TLSCertFile string `yaml:"tls_cert_file"`
	TLSKeyFile  string `yaml:"tls_key_file"`
}

// Default returns the configuration used when nothing is set.
func Default() Config {
	return Config{
		GitHub: GitHubConfig{
			BaseURL: github.DefaultBaseURL,
			Timeout: "30s",
		},
		HTTP:     HTTPConfig{Addr: ":3000"},
		LogLevel: "info",
	}
}

// Load builds a Config from defaults, then the YAML file at path (skipped
// when path is empty), then environment variables. Environment variables
// referenced as ${VAR} or $VAR in the YAML are expanded before parsing.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path) //nolint:gosec // path is caller-provided configuration
		if err != nil {
			return Config{}, fmt.Errorf("config: load: %w", err)
		}
		expanded := os.ExpandEnv(string(data))
		if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
			return Config{}, fmt.Errorf("config: parse: %w", err)
		}
	}

	cfg.applyEnv()

	return cfg, nil
}

// LoadDotEnv loads environment variables from path. Missing files are ignored
// and variables already set in the environment win.
func LoadDotEnv(path string) error {
	err := godotenv.Load(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("config: load env file: %w", err)
	}
	return nil
}

func (c *Config) applyEnv() {
	setFromEnv(&c.GitHub.Token, "GITHUB_TOKEN")
	setFromEnv(&c.GitHub.BaseURL, "GITHUB_API_URL")
	setFromEnv(&c.GitHub.Timeout, "GITHUB_TIMEOUT")
	if port := os.Getenv("PORT"); port != "" {
		c.HTTP.Addr = ":" + port
	}
	setFromEnv(&c.HTTP.Token, "MCP_TOKEN")
	setFromEnv(&c.HTTP.TLSCertFile, "TLS_CERT_FILE")
	setFromEnv(&c.HTTP.TLSKeyFile, "TLS_KEY_FILE")
	setFromEnv(&c.LogLevel, "LOG_LEVEL")
}

func setFromEnv(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

// Validate checks that the configuration is usable. A missing GitHub token is
// allowed; the API reports it as an authorization failure.
func (c Config) Validate() error {
	u, err := url.Parse(c.GitHub.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("config: github.base_url %q is not an absolute URL", c.GitHub.BaseURL)
	}
	if _, err := c.Timeout(); err != nil {
		return err
	}
	if (c.HTTP.TLSCertFile == "") != (c.HTTP.TLSKeyFile == "") {
		return fmt.Errorf("config: http.tls_cert_file and http.tls_key_file must be set together")
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

// Timeout parses the GitHub request timeout.
func (c Config) Timeout() (time.Duration, error) {
	d, err := time.ParseDuration(c.GitHub.Timeout)
	if err != nil {
		return 0, fmt.Errorf("config: github.timeout: %w", err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("config: github.timeout must be positive, got %s", d)
	}
	return d, nil
}

// Level parses the log level.
func (c Config) Level() (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.TrimSpace(c.LogLevel))); err != nil {
		return 0, fmt.Errorf("config: log_level: %w", err)
	}
	return lvl, nil
}

// GitHubClientConfig converts the settings into a github.Config.
func (c Config) GitHubClientConfig(userAgent string) (github.Config, error) {
	timeout, err := c.Timeout()
	if err != nil {
		return github.Config{}, err
	}
	return github.Config{
		BaseURL:   c.GitHub.BaseURL,
		Token:     c.GitHub.Token,
		Timeout:   timeout,
		UserAgent: userAgent,
	}, nil
}
