package main

import (
	"fmt"
	"log/slog"

	"github.com/phenotools/pxtract/internal/ioconfig"
	pkgconfig "github.com/phenotools/pxtract/pkg/config"
	"github.com/phenotools/pxtract/pkg/logger"
	"github.com/spf13/cobra"
)

var (
	cfgFile string
	cfg     *pkgconfig.Config
	log     *slog.Logger
)

func getRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "pxtract",
		Short: "pxtract builds phenotype records from tabular clinical data",
		Long: `pxtract reads heterogeneous tabular clinical data (CSV files,
spreadsheet workbooks), applies the column semantics declared in a mapping
file, normalizes values against ontologies and aggregates everything into
one phenotype record per subject.

A run is driven by two files:
  - pxtract.yaml: ambient configuration (ontology API, loader, logging)
  - mapping file: data sources and the semantic context of their columns

Configuration precedence (highest to lowest):
  1. CLI flags (--mapping, --out-dir, etc.)
  2. Environment variables (PXTRACT_*)
  3. Config file (pxtract.yaml)
  4. Built-in defaults

Environment Variables:
  Nested fields use underscores (ontology.base_url → PXTRACT_ONTOLOGY_BASE_URL).

  Examples:
    PXTRACT_MAPPING_PATH            Mapping file location
    PXTRACT_ONTOLOGY_BASE_URL       Term lookup API root
    PXTRACT_ONTOLOGY_API_TOKEN      Term lookup API credential
    PXTRACT_LOADER_OUT_DIR          Record output directory
    PXTRACT_LOG_LEVEL               Log level (debug/info/warn/error)

  See 'go doc github.com/phenotools/pxtract/pkg/config' for complete list.`,
		Version: Version,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Auto-generate config file on first run if it doesn't exist
			if cfgFile == "" {
				exists, err := ioconfig.ConfigFileExists()
				if err != nil {
					return fmt.Errorf("failed to check config file: %w", err)
				}

				if !exists {
					generatedPath, err := ioconfig.GenerateDefaultConfig()
					if err != nil {
						// Only warn, don't fail - can use defaults
						fmt.Printf("Warning: could not generate config file: %v\n", err)
					} else {
						fmt.Printf("Generated default config at: %s\n", generatedPath)
					}
				}
			}

			result, err := ioconfig.Load(cfgFile)
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}
			cfg = result.Config

			if _, err := ioconfig.BindFlags(cmd, cfg); err != nil {
				return err
			}

			log = logger.New(&cfg.Log)
			slog.SetDefault(log)

			switch result.Source {
			case "file":
				log.Debug("using config file", "path", result.SourcePath)
			case "defaults+env":
				log.Debug("using built-in defaults with environment overrides")
			case "defaults":
				log.Debug("using built-in defaults (no config file)")
			}

			return nil
		},
	}

	// Persistent flags available to all subcommands
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "",
		"config file (default: ./pxtract.yaml or ~/.config/pxtract/pxtract.yaml)")
	rootCmd.PersistentFlags().String("log-level", "",
		"log level: debug, info, warn or error")

	rootCmd.Flags().BoolP("version", "V", false, "version for pxtract")

	rootCmd.AddCommand(getRunCmd())
	rootCmd.AddCommand(getLintCmd())

	return rootCmd
}

// getConfig returns the loaded configuration (for use in subcommands)
func getConfig() *pkgconfig.Config {
	return cfg
}
