package main

import (
	"fmt"
	"os"

	"github.com/phenotools/pxtract/internal/iopipeline"
	"github.com/spf13/cobra"
)

func getRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Runs the extraction pipeline",
		Long: `Runs one full extraction: reads the configured data sources, applies
the transform strategies, aggregates values into per-subject records, lints
the result and loads it into the configured destination.

Row-scoped problems (failed coercions, unresolved terms, incomplete
building blocks) do not abort the run; they are printed as diagnostics at
the end. Structural problems (bad mapping file, unreadable source, missing
required columns) abort immediately.

Examples:
  pxtract run
  pxtract run --mapping study.yaml --out-dir out
  pxtract run --loader postgres`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := getConfig()
			if cfg.MappingPath == "" {
				return fmt.Errorf("no mapping file configured; use --mapping")
			}

			runner := iopipeline.New(cfg, log)
			if fi, err := os.Stderr.Stat(); err == nil {
				runner.Progress = fi.Mode()&os.ModeCharDevice != 0
			}

			log.Info("starting extraction", "mapping", cfg.MappingPath)
			result, err := runner.Run(cmd.Context())
			if err != nil {
				return fmt.Errorf("extraction failed: %w", err)
			}

			for _, d := range result.Diagnostics {
				fmt.Fprintln(os.Stderr, d.String())
			}
			log.Info("extraction complete",
				"records", len(result.Records),
				"diagnostics", len(result.Diagnostics),
			)
			return nil
		},
	}

	cmd.Flags().StringP("mapping", "m", "", "mapping file declaring data sources")
	cmd.Flags().StringSlice("strategies", nil, "ordered transform strategies")
	cmd.Flags().StringSlice("ontologies", nil, "ontology references to warm, e.g. HP,MONDO:2024-08-07")
	cmd.Flags().String("loader", "", "record destination: dir or postgres")
	cmd.Flags().StringP("out-dir", "o", "", "output directory of the dir loader")
	cmd.Flags().IntP("jobs", "j", 0, "number of sources processed concurrently")

	return cmd
}
