package strategy

import (
	"context"
	"fmt"
	"strconv"

	"github.com/phenotools/pxtract/pkg/mapping"
	"github.com/phenotools/pxtract/pkg/report"
	"github.com/phenotools/pxtract/pkg/table"
)

// AliasMap rewrites cell values of alias-bearing columns by case-sensitive
// literal lookup and coerces the column to the map's declared output type.
// Unmapped values pass through byte-for-byte except for the coercion. A
// cell that fails coercion is nulled and reported as a type coercion error
// scoped to (table, column, row).
type AliasMap struct{}

func (AliasMap) Name() string { return NameAliasMap }

func (AliasMap) Apply(_ context.Context, tg *table.Tagged, rpt *report.Report) error {
	for _, b := range tg.Bindings {
		am := b.Series.AliasMap
		if am == nil {
			continue
		}
		for _, col := range b.Columns {
			header := tg.Headers()[col]
			for row := 0; row < tg.NumRows(); row++ {
				v := tg.Cell(row, col)
				if v.IsNull() {
					continue
				}
				raw := v.Display()
				if target, ok := am.Lookup(raw); ok {
					if target == nil {
						tg.SetCell(row, col, table.Null)
						continue
					}
					raw = *target
				}
				coerced, err := coerce(raw, am.Output)
				if err != nil {
					rpt.Add(report.Diagnostic{
						Kind:    report.TypeCoercion,
						Table:   tg.Name(),
						Column:  header,
						Row:     row,
						Message: err.Error(),
					})
					tg.SetCell(row, col, table.Null)
					continue
				}
				tg.SetCell(row, col, coerced)
			}
		}
	}
	return nil
}

// coerce converts a substituted string to the alias map's declared output
// type.
func coerce(s string, out mapping.OutputType) (table.Value, error) {
	switch out {
	case mapping.OutputString:
		return table.String(s), nil
	case mapping.OutputInt:
		i, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return table.Null, fmt.Errorf("cannot coerce %q to int", s)
		}
		return table.Int(i), nil
	case mapping.OutputFloat:
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return table.Null, fmt.Errorf("cannot coerce %q to float", s)
		}
		return table.Float(f), nil
	case mapping.OutputBool:
		b, err := strconv.ParseBool(s)
		if err != nil {
			return table.Null, fmt.Errorf("cannot coerce %q to boolean", s)
		}
		return table.Bool(b), nil
	}
	return table.Null, fmt.Errorf("unsupported output type %v", out)
}
