// Package config handles loading the bootstrap CLI configuration for
// atlcli: the remote credentials and daemon defaults that sit outside any
// one tracked directory's DirectoryState.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the bootstrap configuration loaded once per process, keyed by
// profile so one machine can hold credentials for several remote spaces.
type Config struct {
	// DefaultProfile names the profile used when a tracked directory's
	// recorded profile is empty.
	DefaultProfile string `yaml:"default_profile"`

	// Profiles maps a profile name to its remote binding.
	Profiles map[string]Profile `yaml:"profiles"`

	// Daemon holds defaults for the sync daemon loop.
	Daemon DaemonConfig `yaml:"daemon"`
}

// Profile is one named remote binding: credentials and connection details
// for a single remote backend.
type Profile struct {
	// BaseURL is the remote API base, e.g. the Confluence site root.
	BaseURL string `yaml:"base_url"`

	// Token is the API credential. May be a literal value or an
	// ${ENV_VAR}/$ENV_VAR reference, expanded at load time.
	Token string `yaml:"token"`

	// RateLimit caps outbound requests per second to this remote.
	RateLimit float64 `yaml:"rate_limit"`
}

// DaemonConfig holds the sync daemon's tunables, overridable per-invocation
// by CLI flags.
type DaemonConfig struct {
	// ConflictStrategy: "merge", "local", "remote", or "prompt".
	ConflictStrategy string `yaml:"conflict_strategy"`

	// Ignore patterns applied by the watcher and the directory scanner.
	Ignore []string `yaml:"ignore"`

	// PollInterval is how often the poller re-enumerates remote scope.
	PollInterval time.Duration `yaml:"poll_interval"`

	// WebhookAddr, if set, is the address the webhook receiver binds to
	// when the daemon is started with webhook delivery enabled.
	WebhookAddr string `yaml:"webhook_addr"`

	// DebounceDelay coalesces bursts of local-change events per path.
	DebounceDelay time.Duration `yaml:"debounce_delay"`
}

// DefaultConfig returns a Config with sensible daemon defaults and no
// profiles; callers must still supply at least one profile before Validate
// succeeds.
func DefaultConfig() *Config {
	return &Config{
		Profiles: map[string]Profile{},
		Daemon: DaemonConfig{
			ConflictStrategy: "merge",
			Ignore: []string{
				"templates/**",
				"**/.excalidraw.md",
			},
			PollInterval:  30 * time.Second,
			DebounceDelay: 500 * time.Millisecond,
		},
	}
}

// Load reads configuration from path, or from the default search locations
// when path is empty.
func Load(path string) (*Config, error) {
	if path != "" {
		return loadFromFile(path)
	}

	locations := []string{".atlcli.yaml", ".atlcli.yml"}
	if home, err := os.UserHomeDir(); err == nil {
		locations = append(locations,
			filepath.Join(home, ".config", "atlcli", "config.yaml"),
			filepath.Join(home, ".config", "atlcli", "config.yml"),
		)
	}

	for _, loc := range locations {
		if _, err := os.Stat(loc); err == nil {
			return loadFromFile(loc)
		}
	}

	return nil, fmt.Errorf("no configuration file found (tried: %s)", strings.Join(locations, ", "))
}

func loadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}
	cfg.expandEnvVars()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func (c *Config) expandEnvVars() {
	for name, p := range c.Profiles {
		p.Token = expandEnv(p.Token)
		p.BaseURL = expandEnv(p.BaseURL)
		c.Profiles[name] = p
	}
}

func expandEnv(s string) string {
	if strings.HasPrefix(s, "${") && strings.HasSuffix(s, "}") {
		return os.Getenv(s[2 : len(s)-1])
	}
	if strings.HasPrefix(s, "$") {
		return os.Getenv(s[1:])
	}
	return os.ExpandEnv(s)
}

// Validate checks that every profile has the fields a remote binding
// needs.
func (c *Config) Validate() error {
	if len(c.Profiles) == 0 {
		return fmt.Errorf("at least one profile is required")
	}
	for name, p := range c.Profiles {
		if p.BaseURL == "" {
			return fmt.Errorf("profile %q: base_url is required", name)
		}
		if p.Token == "" {
			return fmt.Errorf("profile %q: token is required", name)
		}
	}
	return nil
}

// Save writes the configuration to path, creating parent directories as
// needed.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// Profile resolves the profile to use: name if non-empty, else
// DefaultProfile.
func (c *Config) Profile(name string) (Profile, error) {
	if name == "" {
		name = c.DefaultProfile
	}
	p, ok := c.Profiles[name]
	if !ok {
		return Profile{}, fmt.Errorf("unknown profile %q", name)
	}
	return p, nil
}
