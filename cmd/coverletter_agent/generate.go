package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/jonathan/coverletter-agent/internal/cache"
	"github.com/jonathan/coverletter-agent/internal/config"
	"github.com/jonathan/coverletter-agent/internal/extract"
	"github.com/jonathan/coverletter-agent/internal/generator"
	"github.com/jonathan/coverletter-agent/internal/llm"
	"github.com/jonathan/coverletter-agent/internal/observability"
	"github.com/jonathan/coverletter-agent/internal/prompts"
	"github.com/jonathan/coverletter-agent/internal/types"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a cover letter and email subject for one organization",
	Long: `Generates a personalized cover letter and email subject line from a résumé PDF and an organization profile.

Results are cached per applicant and keyed by organization name; a later call for the same organization with the same résumé is served from the cache without a model call.

Configuration can be loaded from a JSON file using --config. Command-line arguments override config file values.`,
	RunE: runGenerate,
}

var (
	genConfigPath   string
	genApplicant    string
	genCV           string
	genCompany      string
	genDescription  string
	genRequirements string
	genMode         string
	genTemplate     string
	genForce        bool
	genVerbose      bool
	genAPIKey       string
	genProvider     string
	genCacheDir     string
	genPromptConfig string
	genCVDir        string
	genOllamaHost   string
)

func init() {
	// Config file flag (processed first)
	generateCmd.Flags().StringVar(&genConfigPath, "config", "", "Path to config.json file (values can be overridden by other flags)")

	generateCmd.Flags().StringVarP(&genApplicant, "applicant", "a", "", "Applicant name (required)")
	generateCmd.Flags().StringVar(&genCV, "cv", "", "Résumé PDF, either an absolute path or a filename under the CV directory (required)")
	generateCmd.Flags().StringVarP(&genCompany, "company", "c", "", "Target organization name (required)")
	generateCmd.Flags().StringVarP(&genDescription, "description", "d", "", "Short organization description")
	generateCmd.Flags().StringVarP(&genRequirements, "requirements", "r", "", "Role requirements")
	generateCmd.Flags().StringVarP(&genMode, "mode", "m", "", "Letter mode: professional, enthusiastic or custom")
	generateCmd.Flags().StringVarP(&genTemplate, "template", "t", "", "Path to a custom letter template text file (required for custom mode)")
	generateCmd.Flags().BoolVarP(&genForce, "force", "f", false, "Regenerate even when a fresh cached letter exists")
	generateCmd.Flags().BoolVarP(&genVerbose, "verbose", "v", false, "Print detailed generation output")

	// API key can be passed as a flag, or read from the provider env var
	generateCmd.Flags().StringVar(&genAPIKey, "api-key", "", "Remote API key (optional, defaults to DEEPSEEK_API_KEY or GEMINI_API_KEY env var)")
	generateCmd.Flags().StringVar(&genProvider, "provider", "", "Remote provider: deepseek or gemini")
	generateCmd.Flags().StringVar(&genCacheDir, "cache-dir", "", "Directory holding per-applicant cache files")
	generateCmd.Flags().StringVar(&genPromptConfig, "prompt-config", "", "Path to the prompt configuration JSON")
	generateCmd.Flags().StringVar(&genCVDir, "cv-dir", "", "Directory holding résumé PDFs")
	generateCmd.Flags().StringVar(&genOllamaHost, "ollama-host", "", "Local model server address")

	generateCmd.MarkFlagRequired("applicant")
	generateCmd.MarkFlagRequired("cv")
	generateCmd.MarkFlagRequired("company")

	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()

	cfg, err := loadMergedConfig(cmd, genConfigPath)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("verbose") {
		cfg.Verbose = genVerbose
	}
	cfg.APIKey = cfg.ResolveAPIKey(genAPIKey)

	switch genMode {
	case "", string(types.ModeProfessional), string(types.ModeEnthusiastic), string(types.ModeCustom):
	default:
		return fmt.Errorf("unknown mode %q (supported: professional, enthusiastic, custom)", genMode)
	}

	var customTemplate string
	if genMode == string(types.ModeCustom) {
		if genTemplate == "" {
			return fmt.Errorf("--template is required for custom mode")
		}
		data, err := os.ReadFile(genTemplate)
		if err != nil {
			return fmt.Errorf("failed to read template file: %w", err)
		}
		customTemplate = string(data)
	}

	logger := newLogger(cfg.Verbose)
	printer := observability.NewPrinter(os.Stdout)

	opts := cfg.BackendOptions()
	opts.Logger = logger
	sel := llm.Select(ctx, opts)
	if cfg.Verbose {
		printer.PrintBackendState(sel.State)
	}

	gen := generator.New(
		sel,
		prompts.NewCatalog(cfg.PromptConfig, logger),
		cache.NewStore(cfg.CacheDir, logger),
		extract.NewExtractor(logger),
		logger,
	)
	defer sel.Close()

	cvPath := genCV
	if !filepath.IsAbs(cvPath) {
		cvPath = filepath.Join(cfg.CVDir, genCV)
	}

	result, err := gen.Generate(ctx, generator.Request{
		Applicant: genApplicant,
		Document:  cvPath,
		Organization: types.OrganizationProfile{
			Name:         genCompany,
			Description:  genDescription,
			Requirements: genRequirements,
		},
		Mode:           types.Mode(genMode),
		CustomTemplate: customTemplate,
		Force:          genForce,
	})
	if err != nil {
		return err
	}

	if cfg.Verbose {
		printer.PrintGenerationResult(genCompany, result)
	}

	fmt.Fprintf(os.Stdout, "Subject: %s\n", result.Subject)
	if result.Letter != nil {
		fmt.Fprintf(os.Stdout, "\n%s\n", *result.Letter)
	}

	return nil
}

// loadMergedConfig loads the optional config file, applies the shared CLI
// overrides and fills remaining fields from defaults.
func loadMergedConfig(cmd *cobra.Command, path string) (config.Config, error) {
	var cfg config.Config
	if path != "" {
		loaded, err := config.LoadConfig(path)
		if err != nil {
			return cfg, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = *loaded
	}

	// Command-line args take priority; only override when explicitly set.
	if cmd.Flags().Changed("provider") {
		cfg.Provider = genProvider
	}
	if cmd.Flags().Changed("cache-dir") {
		cfg.CacheDir = genCacheDir
	}
	if cmd.Flags().Changed("prompt-config") {
		cfg.PromptConfig = genPromptConfig
	}
	if cmd.Flags().Changed("cv-dir") {
		cfg.CVDir = genCVDir
	}
	if cmd.Flags().Changed("ollama-host") {
		cfg.OllamaHost = genOllamaHost
	}

	cfg = cfg.MergeWithDefaults(config.DefaultConfig())
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func newLogger(verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}
