package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Daemon.ConflictStrategy != "merge" {
		t.Errorf("ConflictStrategy = %q, want merge", cfg.Daemon.ConflictStrategy)
	}
	if len(cfg.Daemon.Ignore) == 0 {
		t.Error("expected default ignore patterns")
	}
}

func TestExpandEnv(t *testing.T) {
	os.Setenv("TEST_CONFIG_VAR", "test_value")
	defer os.Unsetenv("TEST_CONFIG_VAR")

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"braced env var", "${TEST_CONFIG_VAR}", "test_value"},
		{"unbraced env var", "$TEST_CONFIG_VAR", "test_value"},
		{"no env var", "literal_value", "literal_value"},
		{"unset env var", "${UNSET_VAR}", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := expandEnv(tt.input); got != tt.expected {
				t.Errorf("expandEnv(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestLoadFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	os.Setenv("TEST_ATLCLI_TOKEN", "secret_token_123")
	defer os.Unsetenv("TEST_ATLCLI_TOKEN")

	configContent := `
default_profile: work
profiles:
  work:
    base_url: https://example.atlassian.net/wiki
    token: ${TEST_ATLCLI_TOKEN}
    rate_limit: 2.5
daemon:
  conflict_strategy: remote
  ignore:
    - "*.tmp"
`
	if err := os.WriteFile(configPath, []byte(configContent), 0o644); err != nil {
		t.Fatalf("write config file: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	p, err := cfg.Profile("")
	if err != nil {
		t.Fatalf("Profile(\"\") error = %v", err)
	}
	if p.Token != "secret_token_123" {
		t.Errorf("Token = %q, want secret_token_123", p.Token)
	}
	if p.BaseURL != "https://example.atlassian.net/wiki" {
		t.Errorf("BaseURL = %q", p.BaseURL)
	}
	if cfg.Daemon.ConflictStrategy != "remote" {
		t.Errorf("ConflictStrategy = %q, want remote", cfg.Daemon.ConflictStrategy)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		config    *Config
		expectErr string
	}{
		{
			name: "valid",
			config: &Config{Profiles: map[string]Profile{
				"work": {BaseURL: "https://x", Token: "t"},
			}},
		},
		{
			name:      "no profiles",
			config:    &Config{Profiles: map[string]Profile{}},
			expectErr: "at least one profile is required",
		},
		{
			name: "missing base url",
			config: &Config{Profiles: map[string]Profile{
				"work": {Token: "t"},
			}},
			expectErr: "base_url is required",
		},
		{
			name: "missing token",
			config: &Config{Profiles: map[string]Profile{
				"work": {BaseURL: "https://x"},
			}},
			expectErr: "token is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.expectErr == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !contains(err.Error(), tt.expectErr) {
				t.Errorf("error = %v, want containing %q", err, tt.expectErr)
			}
		})
	}
}

func TestProfileFallsBackToDefault(t *testing.T) {
	cfg := &Config{
		DefaultProfile: "work",
		Profiles: map[string]Profile{
			"work": {BaseURL: "https://x", Token: "t"},
		},
	}
	p, err := cfg.Profile("")
	if err != nil {
		t.Fatalf("Profile(\"\") error = %v", err)
	}
	if p.BaseURL != "https://x" {
		t.Errorf("BaseURL = %q", p.BaseURL)
	}

	if _, err := cfg.Profile("missing"); err == nil {
		t.Error("expected error for unknown profile")
	}
}

func TestSaveAndLoad(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "subdir", "config.yaml")

	original := DefaultConfig()
	original.DefaultProfile = "work"
	original.Profiles["work"] = Profile{BaseURL: "https://example.test", Token: "test_token"}

	if err := original.Save(configPath); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	loaded, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	p, err := loaded.Profile("")
	if err != nil {
		t.Fatalf("Profile(\"\") error = %v", err)
	}
	if p.Token != "test_token" {
		t.Errorf("Token = %q, want test_token", p.Token)
	}
}

func TestLoadNoConfigFile(t *testing.T) {
	cwd, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	tmpDir := t.TempDir()
	if err := os.Chdir(tmpDir); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	defer os.Chdir(cwd)

	if _, err := Load(""); err == nil {
		t.Error("expected error when no config file exists")
	}
}

func contains(s, substr string) bool {
	for i := 0; i+len(substr) <= len(s); i++ {
		if s[i:i+len(substr)] == substr {
			return true
		}
	}
	return len(substr) == 0
}
