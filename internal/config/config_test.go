package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestDefaults(t *testing.T) {
	cfg := Default()
	if cfg.WindowSize != 10 {
		t.Errorf("WindowSize = %d, want 10", cfg.WindowSize)
	}
	if cfg.Summarizer.Type != "extractive" {
		t.Errorf("Summarizer.Type = %q, want extractive", cfg.Summarizer.Type)
	}
	if cfg.Summarizer.TimeoutSeconds != 120 {
		t.Errorf("TimeoutSeconds = %d, want 120", cfg.Summarizer.TimeoutSeconds)
	}
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
window_size: 5
summarizer:
  type: anthropic
  api_key: secret
  max_tokens: 2048
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.WindowSize != 5 {
		t.Errorf("WindowSize = %d, want 5", cfg.WindowSize)
	}
	if cfg.Summarizer.Type != "anthropic" {
		t.Errorf("Type = %q, want anthropic", cfg.Summarizer.Type)
	}
	if cfg.Summarizer.MaxTokens != 2048 {
		t.Errorf("MaxTokens = %d, want 2048", cfg.Summarizer.MaxTokens)
	}
	if cfg.Summarizer.Model == "" {
		t.Error("Model default not applied")
	}
}

func TestLoadExpandsEnv(t *testing.T) {
	t.Setenv("TEST_API_KEY", "from-env")
	path := writeConfig(t, `
summarizer:
  type: anthropic
  api_key: ${TEST_API_KEY}
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Summarizer.APIKey != "from-env" {
		t.Errorf("APIKey = %q, want from-env", cfg.Summarizer.APIKey)
	}
}

func TestLoadValidation(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"anthropic without key", "summarizer:\n  type: anthropic\n"},
		{"unknown type", "summarizer:\n  type: markov\n"},
		{"negative window", "window_size: -1\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, tt.content)
			if _, err := Load(path); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestLoadDefaultMissingFile(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	cfg, err := LoadDefault()
	if err != nil {
		t.Fatalf("LoadDefault: %v", err)
	}
	if cfg.WindowSize != 10 {
		t.Errorf("WindowSize = %d, want defaults", cfg.WindowSize)
	}
}
