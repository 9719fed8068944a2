package main

import (
	"fmt"
	"os"

	"github.com/phenotools/pxtract/internal/iopipeline"
	"github.com/spf13/cobra"
)

func getLintCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lint [records-dir]",
		Short: "Lints previously produced records",
		Long: `Checks record documents produced by an earlier run against the
post-assembly rules: subject presence, sex vocabulary, term shape,
measurement units and duplicate features. Nothing is modified; violations
are printed with remediation hints where available.

With no argument the configured loader output directory is linted.

Examples:
  pxtract lint
  pxtract lint out/records`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := getConfig().Loader.OutDir
			if len(args) == 1 {
				dir = args[0]
			}

			diags, err := iopipeline.LintDir(cmd.Context(), dir)
			if err != nil {
				return fmt.Errorf("lint failed: %w", err)
			}

			for _, d := range diags {
				fmt.Fprintln(os.Stderr, d.String())
			}
			if len(diags) > 0 {
				log.Warn("lint found violations", "count", len(diags))
			} else {
				log.Info("lint passed", "dir", dir)
			}
			return nil
		},
	}
	return cmd
}
