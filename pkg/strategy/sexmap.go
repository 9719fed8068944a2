package strategy

import (
	"context"
	"strings"

	"github.com/phenotools/pxtract/pkg/mapping"
	"github.com/phenotools/pxtract/pkg/report"
	"github.com/phenotools/pxtract/pkg/table"
)

// sexVocabulary normalizes common spellings to the controlled values.
var sexVocabulary = map[string]string{
	"m":       "Male",
	"male":    "Male",
	"f":       "Female",
	"female":  "Female",
	"o":       "Other",
	"other":   "Other",
	"u":       "Unknown",
	"unknown": "Unknown",
}

// SexMapping normalizes subject sex columns against the fixed vocabulary.
// An unknown value is flagged with a mapping violation and left unmapped
// rather than aborting the table.
type SexMapping struct{}

func (SexMapping) Name() string { return NameSexMapping }

func (SexMapping) Apply(_ context.Context, tg *table.Tagged, rpt *report.Report) error {
	cols := tg.ColumnsWithData(mapping.KindSubjectSex)
	for _, col := range cols {
		header := tg.Headers()[col]
		for row := 0; row < tg.NumRows(); row++ {
			v := tg.Cell(row, col)
			if v.IsNull() {
				continue
			}
			raw := v.Display()
			mapped, ok := sexVocabulary[strings.ToLower(raw)]
			if !ok {
				rpt.Add(report.Diagnostic{
					Kind:    report.MappingViolation,
					Table:   tg.Name(),
					Column:  header,
					Row:     row,
					Message: "value " + raw + " is not in the sex vocabulary",
					Hint:    "expected one of: male, female, other, unknown",
				})
				continue
			}
			tg.SetCell(row, col, table.String(mapped))
		}
	}
	return nil
}
