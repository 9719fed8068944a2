// Package main provides the pxtract CLI application.
// pxtract converts heterogeneous tabular clinical data into per-subject
// phenotype records.
package main

import (
	"os"
)

var (
	// Version is set by build flags
	Version = "dev"
)

func main() {
	if err := getRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
