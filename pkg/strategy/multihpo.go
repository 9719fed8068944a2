package strategy

import (
	"context"
	"strings"

	"github.com/phenotools/pxtract/pkg/mapping"
	"github.com/phenotools/pxtract/pkg/report"
	"github.com/phenotools/pxtract/pkg/table"
)

// MultiHpoExpansion fans a delimited list of HPO ids or labels held in one
// cell out into one logical phenotype entry per element. The first element
// stays in place; each further element is appended as a copy of the row
// with only that cell replaced, preserving the subject association.
type MultiHpoExpansion struct {
	Delimiter string
}

func (MultiHpoExpansion) Name() string { return NameMultiHpoExpansion }

func (m MultiHpoExpansion) Apply(_ context.Context, tg *table.Tagged, _ *report.Report) error {
	delim := m.Delimiter
	if delim == "" {
		delim = ";"
	}
	cols := tg.ColumnsWithData(mapping.KindMultiHpoID)
	if len(cols) == 0 {
		return nil
	}
	// appended rows must not be re-expanded
	originalRows := tg.NumRows()
	for _, col := range cols {
		for row := 0; row < originalRows; row++ {
			v := tg.Cell(row, col)
			s, ok := v.Str()
			if !ok || !strings.Contains(s, delim) {
				continue
			}
			parts := splitClean(s, delim)
			if len(parts) == 0 {
				tg.SetCell(row, col, table.Null)
				continue
			}
			tg.SetCell(row, col, table.String(parts[0]))
			for _, part := range parts[1:] {
				if err := tg.AppendExpandedRow(row, col, table.String(part)); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func splitClean(s, delim string) []string {
	var out []string
	for _, part := range strings.Split(s, delim) {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
