// Package config provides configuration loading and validation for the CLI.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jonathan/coverletter-agent/internal/llm"
)

// Config represents the agent configuration that can be loaded from a JSON
// file. All fields are optional; missing values use defaults or must be
// provided via CLI flags.
type Config struct {
	// Paths
	CacheDir     string `json:"cache_dir,omitempty"`     // Directory holding per-applicant cache files
	PromptConfig string `json:"prompt_config,omitempty"` // Path to the prompt configuration JSON
	CVDir        string `json:"cv_dir,omitempty"`        // Directory holding résumé PDFs

	// Model backend
	Provider    string `json:"provider,omitempty"`     // Remote provider: "deepseek" (default) or "gemini"
	APIKey      string `json:"api_key,omitempty"`      // Remote API key
	APIBaseURL  string `json:"api_base_url,omitempty"` // OpenAI-compatible endpoint override
	RemoteModel string `json:"remote_model,omitempty"` // Remote model name
	OllamaHost  string `json:"ollama_host,omitempty"`  // Local model server address
	LocalModel  string `json:"local_model,omitempty"`  // Local model tag

	// Behavior
	Verbose bool `json:"verbose,omitempty"` // Print detailed generation output
}

// DefaultConfig returns the paths and models used when nothing is configured.
func DefaultConfig() Config {
	return Config{
		CacheDir:     "cover_letters_cache",
		PromptConfig: filepath.Join("input", "cover_letter_config.json"),
		CVDir:        "CV",
		Provider:     llm.ProviderDeepSeek,
	}
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

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
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// Validate checks that the configuration has valid values.
func (c *Config) Validate() error {
	switch c.Provider {
	case "", llm.ProviderDeepSeek, llm.ProviderGemini:
	default:
		return fmt.Errorf("config error: unknown provider %q (supported: %s, %s)",
			c.Provider, llm.ProviderDeepSeek, llm.ProviderGemini)
	}
	return nil
}

// MergeWithDefaults returns a new Config with empty fields filled from
// defaults. This is used to apply config file values as defaults for CLI
// flags.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	if result.CacheDir == "" {
		result.CacheDir = defaults.CacheDir
	}
	if result.PromptConfig == "" {
		result.PromptConfig = defaults.PromptConfig
	}
	if result.CVDir == "" {
		result.CVDir = defaults.CVDir
	}
	if result.Provider == "" {
		result.Provider = defaults.Provider
	}
	if result.APIKey == "" {
		result.APIKey = defaults.APIKey
	}
	if result.APIBaseURL == "" {
		result.APIBaseURL = defaults.APIBaseURL
	}
	if result.RemoteModel == "" {
		result.RemoteModel = defaults.RemoteModel
	}
	if result.OllamaHost == "" {
		result.OllamaHost = defaults.OllamaHost
	}
	if result.LocalModel == "" {
		result.LocalModel = defaults.LocalModel
	}

	// Bool fields: cannot distinguish unset from false, so CLI flags win.

	return result
}

// ResolveAPIKey returns the first non-empty key among the explicit value,
// the configured value, and the provider's environment variable.
func (c *Config) ResolveAPIKey(explicit string) string {
	if explicit != "" {
		return explicit
	}
	if c.APIKey != "" {
		return c.APIKey
	}
	if c.Provider == llm.ProviderGemini {
		return os.Getenv("GEMINI_API_KEY")
	}
	return os.Getenv("DEEPSEEK_API_KEY")
}

// BackendOptions translates the configuration into llm construction options.
func (c *Config) BackendOptions() llm.Options {
	return llm.Options{
		Provider:    c.Provider,
		APIKey:      c.APIKey,
		BaseURL:     c.APIBaseURL,
		RemoteModel: c.RemoteModel,
		OllamaHost:  c.OllamaHost,
		LocalModel:  c.LocalModel,
	}
}
