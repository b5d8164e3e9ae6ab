package engine

import (
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Default values applied by Config accessors when a field is empty.
const (
	DefaultTimeout  = 30 * time.Second
	DefaultLogLevel = "info"
)

// Config is the providerctl configuration.
type Config struct {
	Endpoint   string            `yaml:"endpoint"`    // GraphQL endpoint URL.
	Token      string            `yaml:"token"`       //nolint:gosec // configuration field, usually ${VAR}
	AuthHeader string            `yaml:"auth_header"` // Header carrying the token (default: Authorization).
	AuthScheme string            `yaml:"auth_scheme"` // Token prefix (default: Bearer with Authorization).
	Headers    map[string]string `yaml:"headers"`     // Extra headers sent with every call.
	Timeout    string            `yaml:"timeout"`     // Per-call timeout as a duration string (e.g. "30s").
	CatalogTTL string            `yaml:"catalog_ttl"` // How long the catalog is cached ("" = until a change).
	LogFile    string            `yaml:"log_file"`    // Log destination; empty discards logs.
	LogLevel   string            `yaml:"log_level"`   // debug, info, warn or error.
}

// LoadConfig reads a YAML file and returns a Config.
// Environment variables referenced as ${VAR} or $VAR in the YAML are expanded
// before parsing, so the token can live in the environment (e.g. loaded from
// a .env file) rather than in the file.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is caller-provided configuration, not user input
	if err != nil {
		return Config{}, fmt.Errorf("engine: load config: %w", err)
	}

	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return Config{}, fmt.Errorf("engine: parse config: %w", err)
	}

	return cfg, nil
}

// Validate checks that the configuration is usable.
func (c Config) Validate() error {
	if c.Endpoint == "" {
		return fmt.Errorf("engine: config: endpoint is required")
	}

	u, err := url.Parse(c.Endpoint)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("engine: config: endpoint %q must be an http(s) URL", c.Endpoint)
	}

	if _, err := parseDuration(c.Timeout); err != nil {
		return fmt.Errorf("engine: config: timeout: %w", err)
	}
	if _, err := parseDuration(c.CatalogTTL); err != nil {
		return fmt.Errorf("engine: config: catalog_ttl: %w", err)
	}

	switch strings.ToLower(c.LogLevel) {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("engine: config: unknown log_level %q", c.LogLevel)
	}

	for k := range c.Headers {
		if strings.TrimSpace(k) == "" {
			return fmt.Errorf("engine: config: header name is required")
		}
	}

	return nil
}

// TimeoutDuration returns the per-call timeout, DefaultTimeout when unset.
func (c Config) TimeoutDuration() time.Duration {
	d, err := parseDuration(c.Timeout)
	if err != nil || d == 0 {
		return DefaultTimeout
	}
	return d
}

// CatalogTTLDuration returns the catalog cache lifetime; zero means until
// the next change.
func (c Config) CatalogTTLDuration() time.Duration {
	d, _ := parseDuration(c.CatalogTTL)
	return d
}

func parseDuration(s string) (time.Duration, error) {
	if s == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, err
	}
	if d < 0 {
		return 0, fmt.Errorf("negative duration %q", s)
	}
	return d, nil
}
