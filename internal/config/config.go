// Package config handles repository configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config represents repository configuration stored in
// .readinggraph/config.yaml.
type Config struct {
	// Enrichment client settings.
	OllamaURL   string  `yaml:"ollama_url,omitempty"`
	OllamaModel string  `yaml:"ollama_model,omitempty"`
	RateLimit   float64 `yaml:"rate_limit,omitempty"` // LLM calls per second

	// Serve settings.
	ListenAddr string `yaml:"listen_addr,omitempty"`
}

const (
	RepoDir    = ".readinggraph"
	ConfigFile = "config.yaml"
	DBFile     = "library.db"
)

// Defaults applied where the config file is silent.
const (
	DefaultListenAddr = "127.0.0.1:8140"
	DefaultRateLimit  = 0.5
)

// RepoPath returns the path to the .readinggraph directory from a root path.
func RepoPath(root string) string {
	return filepath.Join(root, RepoDir)
}

// ConfigPath returns the path to config.yaml from a root path.
func ConfigPath(root string) string {
	return filepath.Join(root, RepoDir, ConfigFile)
}

// DBPath returns the path to library.db from a root path.
func DBPath(root string) string {
	return filepath.Join(root, RepoDir, DBFile)
}

// IsRepository checks if the given path contains a reading-graph repository.
func IsRepository(root string) bool {
	info, err := os.Stat(RepoPath(root))
	return err == nil && info.IsDir()
}

// FindRepository walks up from the given path to find a repository.
// Returns the repository root path or an error if not found.
func FindRepository(start string) (string, error) {
	abs, err := filepath.Abs(start)
	if err != nil {
		return "", fmt.Errorf("resolving path: %w", err)
	}

	for {
		if IsRepository(abs) {
			return abs, nil
		}

		parent := filepath.Dir(abs)
		if parent == abs {
			return "", fmt.Errorf("not in a reading-graph repository (no %s directory found)", RepoDir)
		}
		abs = parent
	}
}

// Init creates the repository directory and a default config file.
func Init(root string) error {
	if err := os.MkdirAll(RepoPath(root), 0755); err != nil {
		return fmt.Errorf("creating repository directory: %w", err)
	}

	if _, err := os.Stat(ConfigPath(root)); err == nil {
		return nil // Keep an existing config.
	}

	cfg := &Config{}
	return cfg.Save(root)
}

// Load reads configuration from the repository at the given root. A missing
// config file yields the zero config rather than an error, so Defaults
// still apply.
func Load(root string) (*Config, error) {
	data, err := os.ReadFile(ConfigPath(root))
	if os.IsNotExist(err) {
		cfg := &Config{}
		cfg.applyEnv()
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	cfg.applyEnv()
	return &cfg, nil
}

// Save writes configuration to the repository at the given root.
func (c *Config) Save(root string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	if err := os.WriteFile(ConfigPath(root), data, 0644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	return nil
}

// applyEnv lets environment variables (typically from a .env file loaded at
// startup) override file settings.
func (c *Config) applyEnv() {
	if v := os.Getenv("READINGGRAPH_OLLAMA_URL"); v != "" {
		c.OllamaURL = v
	}
	if v := os.Getenv("READINGGRAPH_OLLAMA_MODEL"); v != "" {
		c.OllamaModel = v
	}
	if v := os.Getenv("READINGGRAPH_LISTEN_ADDR"); v != "" {
		c.ListenAddr = v
	}
}

// Addr returns the configured listen address or the default.
func (c *Config) Addr() string {
	if c.ListenAddr != "" {
		return c.ListenAddr
	}
	return DefaultListenAddr
}

// EnrichRate returns the configured LLM call rate or the default.
func (c *Config) EnrichRate() float64 {
	if c.RateLimit > 0 {
		return c.RateLimit
	}
	return DefaultRateLimit
}
