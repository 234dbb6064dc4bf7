package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/coverletter-agent/internal/llm"
)

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	content := `{
		"cache_dir": "/tmp/letters",
		"provider": "gemini",
		"api_key": "secret",
		"verbose": true
	}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/letters", cfg.CacheDir)
	assert.Equal(t, "gemini", cfg.Provider)
	assert.Equal(t, "secret", cfg.APIKey)
	assert.True(t, cfg.Verbose)
}

func TestLoadConfig_Errors(t *testing.T) {
	_, err := LoadConfig("")
	assert.Error(t, err)

	_, err = LoadConfig(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)

	dir := t.TempDir()
	path := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(path, []byte("{broken"), 0o644))
	_, err = LoadConfig(path)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := Config{Provider: "deepseek"}
	assert.NoError(t, cfg.Validate())

	cfg = Config{Provider: "gemini"}
	assert.NoError(t, cfg.Validate())

	cfg = Config{}
	assert.NoError(t, cfg.Validate())

	cfg = Config{Provider: "gpt-j"}
	assert.Error(t, cfg.Validate())
}

func TestMergeWithDefaults(t *testing.T) {
	cfg := Config{CacheDir: "/explicit"}
	merged := cfg.MergeWithDefaults(DefaultConfig())

	assert.Equal(t, "/explicit", merged.CacheDir)
	assert.Equal(t, "CV", merged.CVDir)
	assert.Equal(t, llm.ProviderDeepSeek, merged.Provider)
	assert.Equal(t, filepath.Join("input", "cover_letter_config.json"), merged.PromptConfig)
}

func TestResolveAPIKey(t *testing.T) {
	cfg := Config{APIKey: "from-config"}
	assert.Equal(t, "explicit", cfg.ResolveAPIKey("explicit"))
	assert.Equal(t, "from-config", cfg.ResolveAPIKey(""))

	t.Setenv("DEEPSEEK_API_KEY", "from-env")
	empty := Config{}
	assert.Equal(t, "from-env", empty.ResolveAPIKey(""))

	t.Setenv("GEMINI_API_KEY", "gemini-env")
	gemini := Config{Provider: llm.ProviderGemini}
	assert.Equal(t, "gemini-env", gemini.ResolveAPIKey(""))
}

func TestBackendOptions(t *testing.T) {
	cfg := Config{
		Provider:    llm.ProviderDeepSeek,
		APIKey:      "k",
		APIBaseURL:  "http://localhost:9999",
		RemoteModel: "deepseek-chat",
		OllamaHost:  "http://localhost:11434",
		LocalModel:  "qwen2.5:1.5b-instruct",
	}
	opts := cfg.BackendOptions()
	assert.Equal(t, cfg.APIKey, opts.APIKey)
	assert.Equal(t, cfg.APIBaseURL, opts.BaseURL)
	assert.Equal(t, cfg.LocalModel, opts.LocalModel)
}
