// Package pxtract defines the top-level contracts between the transform
// core and its I/O collaborators: extraction of tagged tables from data
// sources and loading of finalized records.
package pxtract

import (
	"context"

	"github.com/phenotools/pxtract/pkg/record"
	"github.com/phenotools/pxtract/pkg/report"
	"github.com/phenotools/pxtract/pkg/table"
)

// Extractor produces tagged tables from one configured data source: a CSV
// file yields one table, a spreadsheet one per declared sheet. Raw parsing
// errors and identifier match failures are fatal to the source.
type Extractor interface {
	// Name identifies the source in logs and diagnostics.
	Name() string

	// Extract reads the source and tags every table against its declared
	// table context.
	Extract(ctx context.Context) ([]*table.Tagged, error)
}

// Loader persists finalized records. Load errors terminate the run status;
// records already loaded are not rolled back.
type Loader interface {
	Load(ctx context.Context, records []*record.Record) error
}

// RunResult is what a completed pipeline run hands back: the finalized
// records and every accumulated diagnostic. Diagnostics are returned even
// on full success; they are never silently dropped.
type RunResult struct {
	Records     []*record.Record
	Diagnostics []report.Diagnostic
}
