// Package config loads the optional YAML configuration file.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	WindowSize int              `yaml:"window_size"`
	Summarizer SummarizerConfig `yaml:"summarizer"`
}

type SummarizerConfig struct {
	Type           string `yaml:"type"`
	Model          string `yaml:"model"`
	APIKey         string `yaml:"api_key"`
	MaxTokens      int    `yaml:"max_tokens"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// Timeout is the per-request budget for delegated summaries.
func (s SummarizerConfig) Timeout() time.Duration {
	return time.Duration(s.TimeoutSeconds) * time.Second
}

var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

// expandEnvVars replaces ${VAR_NAME} patterns with environment variable values.
func expandEnvVars(s string) string {
	return envVarRegex.ReplaceAllStringFunc(s, func(match string) string {
		varName := strings.TrimSuffix(strings.TrimPrefix(match, "${"), "}")
		if val, ok := os.LookupEnv(varName); ok {
			return val
		}
		return match
	})
}

func setDefaults(cfg *Config) {
	if cfg.WindowSize == 0 {
		cfg.WindowSize = 10
	}
	if cfg.Summarizer.Type == "" {
		cfg.Summarizer.Type = "extractive"
	}
	if cfg.Summarizer.Model == "" {
		cfg.Summarizer.Model = "claude-sonnet-4-20250514"
	}
	if cfg.Summarizer.MaxTokens == 0 {
		cfg.Summarizer.MaxTokens = 1024
	}
	if cfg.Summarizer.TimeoutSeconds == 0 {
		cfg.Summarizer.TimeoutSeconds = 120
	}
}

func validate(cfg *Config) error {
	if cfg.WindowSize < 1 {
		return fmt.Errorf("config: window_size must be positive")
	}
	switch cfg.Summarizer.Type {
	case "extractive":
	case "anthropic":
		if cfg.Summarizer.APIKey == "" {
			return fmt.Errorf("config: summarizer.api_key is required for the anthropic summarizer (set ANTHROPIC_API_KEY and use ${ANTHROPIC_API_KEY})")
		}
	default:
		return fmt.Errorf("config: unsupported summarizer type %q (supported: extractive, anthropic)", cfg.Summarizer.Type)
	}
	return nil
}

// Default returns the built-in configuration used when no file exists.
func Default() *Config {
	cfg := &Config{}
	setDefaults(cfg)
	return cfg
}

// DefaultPath returns XDG_CONFIG_HOME/chaptermate/config.yaml or the
// ~/.config fallback.
func DefaultPath() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "chaptermate", "config.yaml")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "chaptermate", "config.yaml")
}

// Load reads the config file, expands environment variables, applies
// defaults, and validates. A missing file at the default path yields
// Default(); an explicitly named file must exist.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: failed to read %s: %w", path, err)
	}

	expanded := expandEnvVars(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse %s: %w", path, err)
	}

	setDefaults(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// LoadDefault loads the default config path, falling back to built-in
// defaults when the file does not exist.
func LoadDefault() (*Config, error) {
	path := DefaultPath()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return Default(), nil
	}
	return Load(path)
}
