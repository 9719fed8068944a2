package iopipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/phenotools/pxtract/pkg/lint"
	"github.com/phenotools/pxtract/pkg/record"
	"github.com/phenotools/pxtract/pkg/report"
)

// LintDir reads every record document from dir and runs the default lint
// rules over them without re-extracting anything. Unparseable files abort
// with an error; rule violations come back as diagnostics.
func LintDir(ctx context.Context, dir string) ([]report.Diagnostic, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("cannot read records directory: %w", err)
	}

	var records []*record.Record
	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		path := filepath.Join(dir, e.Name())
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("record %s: %w", e.Name(), err)
		}
		var rec record.Record
		if err := json.Unmarshal(raw, &rec); err != nil {
			return nil, fmt.Errorf("record %s: %w", e.Name(), err)
		}
		records = append(records, &rec)
	}
	sort.Slice(records, func(i, j int) bool {
		return records[i].Subject.ID < records[j].Subject.ID
	})

	rpt := report.New()
	lint.New().Run(records, rpt)
	return rpt.Diagnostics(), nil
}
