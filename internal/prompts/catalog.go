// Package prompts provides the catalog of system prompts and templates used
// for letter and subject generation. Built-in prompt sets are embedded at
// compile time; an external JSON configuration can override them per mode and
// language. Lookups never fail, they only degrade to the built-in sets.
package prompts

import (
	"embed"
	"encoding/json"
	"log/slog"
	"os"

	"github.com/jonathan/coverletter-agent/internal/language"
	"github.com/jonathan/coverletter-agent/internal/schemas"
)

//go:embed defaults.json
var defaultFiles embed.FS

// PromptSet is the prompt triple selected for one (language, mode) pair.
// SubjectSystemPrompt is optional; when empty, SystemPrompt is used for the
// subject call as well.
type PromptSet struct {
	SystemPrompt        string `json:"system_prompt"`
	LetterTemplate      string `json:"user_prompt_template"`
	SubjectTemplate     string `json:"subject_prompt_template"`
	SubjectSystemPrompt string `json:"subject_system_prompt,omitempty"`
}

// SubjectSystem returns the system prompt to use for the subject call.
func (p PromptSet) SubjectSystem() string {
	if p.SubjectSystemPrompt != "" {
		return p.SubjectSystemPrompt
	}
	return p.SystemPrompt
}

// configFile mirrors the on-disk prompt configuration resource.
type configFile struct {
	DefaultMode string                     `json:"default_mode"`
	Modes       map[string]json.RawMessage `json:"cover_letter_modes"`
}

// Catalog resolves (language, mode) pairs to prompt sets.
type Catalog struct {
	defaultMode string
	modes       map[string]map[language.Language]PromptSet
	builtin     map[string]map[language.Language]PromptSet
	logger      *slog.Logger
}

// NewCatalog builds a catalog from the optional configuration file at path.
// A missing, malformed, or schema-invalid file degrades to the built-in
// prompt sets with a logged warning; NewCatalog never fails.
func NewCatalog(path string, logger *slog.Logger) *Catalog {
	if logger == nil {
		logger = slog.Default()
	}

	builtin := builtinModes()
	c := &Catalog{
		defaultMode: "professional",
		modes:       builtin,
		builtin:     builtin,
		logger:      logger,
	}

	if path == "" {
		return c
	}

	data, err := os.ReadFile(path)
	if err != nil {
		logger.Warn("prompt config not readable, using built-in prompts", "path", path, "error", err)
		return c
	}

	if err := schemas.ValidatePromptConfig(data); err != nil {
		logger.Warn("prompt config failed schema validation, using built-in prompts", "path", path, "error", err)
		return c
	}

	var cfg configFile
	if err := json.Unmarshal(data, &cfg); err != nil {
		logger.Warn("prompt config is not valid JSON, using built-in prompts", "path", path, "error", err)
		return c
	}

	merged := make(map[string]map[language.Language]PromptSet, len(builtin)+len(cfg.Modes))
	for mode, byLang := range builtin {
		merged[mode] = byLang
	}
	for mode, raw := range cfg.Modes {
		byLang, err := parseModeEntry(raw)
		if err != nil {
			logger.Warn("skipping malformed prompt mode", "mode", mode, "error", err)
			continue
		}
		merged[mode] = byLang
	}

	c.modes = merged
	if cfg.DefaultMode != "" {
		c.defaultMode = cfg.DefaultMode
	}
	logger.Info("loaded prompt configuration", "path", path, "modes", len(cfg.Modes))
	return c
}

// Resolve returns the prompt set for the given language and mode. Unknown
// modes fall back to the configured default mode, then to the built-in
// professional set; a mode without the requested language falls back to the
// built-in set for that language. Resolve never fails.
func (c *Catalog) Resolve(lang language.Language, mode string) PromptSet {
	for _, candidate := range []string{mode, c.defaultMode, "professional"} {
		byLang, ok := c.modes[candidate]
		if !ok {
			continue
		}
		if ps, ok := byLang[lang]; ok {
			return ps
		}
		// Mode exists but not for this language: built-in equivalent.
		if ps, ok := c.builtinFor(lang, candidate); ok {
			return ps
		}
	}
	return c.builtin["professional"][lang]
}

// DefaultMode returns the mode used when the caller's mode is unknown.
func (c *Catalog) DefaultMode() string { return c.defaultMode }

func (c *Catalog) builtinFor(lang language.Language, mode string) (PromptSet, bool) {
	byLang, ok := c.builtin[mode]
	if !ok {
		return PromptSet{}, false
	}
	ps, ok := byLang[lang]
	return ps, ok
}

// parseModeEntry accepts either a language-keyed definition or a flat
// definition that applies to both languages.
func parseModeEntry(raw json.RawMessage) (map[language.Language]PromptSet, error) {
	var byLang map[language.Language]PromptSet
	if err := json.Unmarshal(raw, &byLang); err == nil {
		// Guard against a flat object decoding into an all-empty map entry.
		if valid(byLang) {
			return byLang, nil
		}
	}

	var flat PromptSet
	if err := json.Unmarshal(raw, &flat); err != nil {
		return nil, err
	}
	return map[language.Language]PromptSet{
		language.Chinese: flat,
		language.English: flat,
	}, nil
}

func valid(byLang map[language.Language]PromptSet) bool {
	for _, ps := range byLang {
		if ps.SystemPrompt != "" || ps.LetterTemplate != "" || ps.SubjectTemplate != "" {
			return true
		}
	}
	return false
}

// builtinModes parses the embedded defaults. The embedded file is covered by
// tests, so a parse failure here is a programmer error.
func builtinModes() map[string]map[language.Language]PromptSet {
	data, err := defaultFiles.ReadFile("defaults.json")
	if err != nil {
		panic("prompts: embedded defaults missing: " + err.Error())
	}

	var cfg struct {
		DefaultMode string                                     `json:"default_mode"`
		Modes       map[string]map[language.Language]PromptSet `json:"cover_letter_modes"`
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		panic("prompts: embedded defaults malformed: " + err.Error())
	}
	return cfg.Modes
}
