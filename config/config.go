// Package config loads the daemon configuration: a YAML file merged onto
// built-in defaults, with API keys falling back to environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"dario.cat/mergo"
	"gopkg.in/yaml.v3"
)

// AnthropicConfig represents configuration for the Anthropic provider.
type AnthropicConfig struct {
	APIKey string `yaml:"api_key,omitempty"` // Anthropic API key (falls back to ANTHROPIC_API_KEY)
}

// OpenAIConfig represents configuration for the OpenAI provider.
type OpenAIConfig struct {
	APIKey       string `yaml:"api_key,omitempty"`      // OpenAI API key (falls back to OPENAI_API_KEY)
	BaseURL      string `yaml:"base_url,omitempty"`     // Custom base URL (default: official API)
	Organization string `yaml:"organization,omitempty"` // Organization ID
}

// GatewayConfig represents configuration for the MCP tool gateway connection.
// URL selects the streamable HTTP transport; Command selects STDIO. Setting
// both is a configuration error.
type GatewayConfig struct {
	URL     string   `yaml:"url,omitempty"`     // For HTTP transport
	Command string   `yaml:"command,omitempty"` // For STDIO transport
	Args    []string `yaml:"args,omitempty"`    // Additional args for STDIO command
	Env     []string `yaml:"env,omitempty"`     // Environment variables for STDIO
}

// LimitsConfig represents token rate-limit budgets per 60-second window.
type LimitsConfig struct {
	DefaultBudget int            `yaml:"default_budget,omitempty"` // Fallback budget for models not listed below
	ModelBudgets  map[string]int `yaml:"model_budgets,omitempty"`  // Per-model budget overrides
}

// DefaultsConfig represents per-request defaults applied when a report request
// omits the field.
type DefaultsConfig struct {
	Model     string `yaml:"model,omitempty"`      // Model used when the request names none
	MaxTokens int64  `yaml:"max_tokens,omitempty"` // Completion token cap per provider call
}

// Config represents the full daemon configuration.
type Config struct {
	Server struct {
		Addr string `yaml:"addr,omitempty"` // HTTP listen address (default: localhost:8140)
	} `yaml:"server,omitempty"`

	Anthropic AnthropicConfig `yaml:"anthropic,omitempty"`
	OpenAI    OpenAIConfig    `yaml:"openai,omitempty"`
	Gateway   GatewayConfig   `yaml:"gateway,omitempty"`
	Limits    LimitsConfig    `yaml:"limits,omitempty"`
	Defaults  DefaultsConfig  `yaml:"defaults,omitempty"`
}

// GetConfigPath returns the default config file path.
// Can be overridden via REPORTD_CONFIG_PATH environment variable.
func GetConfigPath() string {
	if envPath := os.Getenv("REPORTD_CONFIG_PATH"); envPath != "" {
		return expandPath(envPath)
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "./.reportd/config.yaml"
	}
	return filepath.Join(homeDir, ".reportd", "config.yaml")
}

// expandPath expands ~ to the user's home directory.
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(homeDir, path[2:])
	}
	return path
}

// Load loads configuration from path, merged onto defaults. A missing file is
// not an error: defaults plus environment variables apply.
func Load(path string) (*Config, error) {
	defaults := Config{
		OpenAI: OpenAIConfig{
			BaseURL: "https://api.openai.com/v1",
		},
		Limits: LimitsConfig{
			DefaultBudget: 200_000,
			ModelBudgets:  make(map[string]int),
		},
		Defaults: DefaultsConfig{
			Model:     "claude-sonnet-4-0",
			MaxTokens: 8192,
		},
	}
	defaults.Server.Addr = "localhost:8140"

	expandedPath := expandPath(path)
	if _, err := os.Stat(expandedPath); err == nil {
		configYAML, err := os.ReadFile(expandedPath) //#nosec 304 -- intentional file read for config
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %q: %w", expandedPath, err)
		}

		var fileConfig Config
		if err := yaml.Unmarshal(configYAML, &fileConfig); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}

		if err := mergo.Merge(&defaults, fileConfig, mergo.WithOverride); err != nil {
			return nil, fmt.Errorf("failed to merge config: %w", err)
		}
	}

	if defaults.Limits.ModelBudgets == nil {
		defaults.Limits.ModelBudgets = make(map[string]int)
	}

	// API keys from the environment fill in for an absent config file.
	if defaults.Anthropic.APIKey == "" {
		defaults.Anthropic.APIKey = os.Getenv("ANTHROPIC_API_KEY")
	}
	if defaults.OpenAI.APIKey == "" {
		defaults.OpenAI.APIKey = os.Getenv("OPENAI_API_KEY")
	}

	if err := defaults.validate(); err != nil {
		return nil, err
	}
	return &defaults, nil
}

// Save writes the configuration to the specified path.
func Save(cfg *Config, path string) error {
	expandedPath := expandPath(path)

	dir := filepath.Dir(expandedPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(expandedPath, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

func (c *Config) validate() error {
	if c.Gateway.URL != "" && c.Gateway.Command != "" {
		return fmt.Errorf("gateway: url and command are mutually exclusive")
	}
	return nil
}
