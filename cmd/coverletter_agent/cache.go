package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/coverletter-agent/internal/cache"
	"github.com/jonathan/coverletter-agent/internal/config"
	"github.com/jonathan/coverletter-agent/internal/observability"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect and manage cached cover letters",
}

var cacheListCmd = &cobra.Command{
	Use:   "list",
	Short: "List cached cover letters for an applicant",
	RunE:  runCacheList,
}

var cacheDeleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Delete the cached cover letter for one organization",
	RunE:  runCacheDelete,
}

var (
	cacheConfigPath string
	cacheDir        string
	cacheApplicant  string
	cacheCompany    string
)

func init() {
	for _, c := range []*cobra.Command{cacheListCmd, cacheDeleteCmd} {
		c.Flags().StringVar(&cacheConfigPath, "config", "", "Path to config.json file")
		c.Flags().StringVar(&cacheDir, "cache-dir", "", "Directory holding per-applicant cache files")
		c.Flags().StringVarP(&cacheApplicant, "applicant", "a", "", "Applicant name (required)")
		c.MarkFlagRequired("applicant")
	}

	cacheDeleteCmd.Flags().StringVarP(&cacheCompany, "company", "c", "", "Organization name to remove (required)")
	cacheDeleteCmd.MarkFlagRequired("company")

	cacheCmd.AddCommand(cacheListCmd)
	cacheCmd.AddCommand(cacheDeleteCmd)
	rootCmd.AddCommand(cacheCmd)
}

func cacheStore(cmd *cobra.Command) (*cache.Store, error) {
	var cfg config.Config
	if cacheConfigPath != "" {
		loaded, err := config.LoadConfig(cacheConfigPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = *loaded
	}
	if cmd.Flags().Changed("cache-dir") {
		cfg.CacheDir = cacheDir
	}
	cfg = cfg.MergeWithDefaults(config.DefaultConfig())

	return cache.NewStore(cfg.CacheDir, newLogger(false)), nil
}

func runCacheList(cmd *cobra.Command, _ []string) error {
	store, err := cacheStore(cmd)
	if err != nil {
		return err
	}

	records := store.Load(cacheApplicant)
	observability.NewPrinter(os.Stdout).PrintCacheList(cacheApplicant, records)
	return nil
}

func runCacheDelete(cmd *cobra.Command, _ []string) error {
	store, err := cacheStore(cmd)
	if err != nil {
		return err
	}

	if _, ok := store.Get(cacheApplicant, cacheCompany); !ok {
		fmt.Fprintf(os.Stdout, "No cached letter for %q\n", cacheCompany)
		return nil
	}
	if err := store.Delete(cacheApplicant, cacheCompany); err != nil {
		return fmt.Errorf("failed to delete cached letter: %w", err)
	}

	fmt.Fprintf(os.Stdout, "Deleted cached letter for %q\n", cacheCompany)
	return nil
}
