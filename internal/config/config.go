// Package config holds the rakta CLI client settings stored as YAML.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const defaultServerURL = "http://localhost:8080"

// Config is what the CLI remembers between runs.
type Config struct {
	ServerURL string `yaml:"server_url"`
	Email     string `yaml:"email,omitempty"`
	Token     string `yaml:"token,omitempty"`
	ExpiresAt string `yaml:"expires_at,omitempty"`
	Locale    string `yaml:"locale,omitempty"`
	CachePath string `yaml:"cache_path,omitempty"`
}

// Load reads the config file. A missing file yields defaults.
// RAKTA_SERVER and RAKTA_LOCALE override the stored values.
func Load(path string) (*Config, error) {
	_ = godotenv.Load(".env", ".env.local")

	cfg := &Config{}
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	case os.IsNotExist(err):
	default:
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg.ServerURL = getenv("RAKTA_SERVER", cfg.ServerURL)
	if cfg.ServerURL == "" {
		cfg.ServerURL = defaultServerURL
	}
	cfg.Locale = getenv("RAKTA_LOCALE", cfg.Locale)
	if cfg.CachePath == "" {
		cfg.CachePath = filepath.Join(filepath.Dir(path), "cache.db")
	}
	return cfg, nil
}

// Save writes the config with owner-only permissions since it holds a token.
func Save(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

// DefaultPath returns ~/.config/rakta/config.yaml, or ./config.yaml when the
// user config directory cannot be determined.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "config.yaml"
	}
	return filepath.Join(dir, "rakta", "config.yaml")
}

// SignedIn reports whether a session token is stored.
func (c *Config) SignedIn() bool {
	return strings.TrimSpace(c.Token) != ""
}

// ClearSession forgets the stored token.
func (c *Config) ClearSession() {
	c.Token = ""
	c.ExpiresAt = ""
}

func getenv(k, def string) string {
	if v := strings.TrimSpace(os.Getenv(k)); v != "" {
		return v
	}
	return def
}
