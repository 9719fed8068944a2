package strategy

import (
	"context"
	"strings"

	"github.com/phenotools/pxtract/pkg/mapping"
	"github.com/phenotools/pxtract/pkg/report"
	"github.com/phenotools/pxtract/pkg/table"
)

// StringCorrection trims and collapses whitespace in the string cells of
// every bound column. It must run before alias mapping and ontology
// normalization, which depend on exact-match keys.
type StringCorrection struct{}

func (StringCorrection) Name() string { return NameStringCorrection }

func (StringCorrection) Apply(_ context.Context, tg *table.Tagged, _ *report.Report) error {
	seen := make(map[int]bool)
	for _, b := range tg.Bindings {
		if !stringKeyed(b.Series) {
			continue
		}
		for _, col := range b.Columns {
			if seen[col] {
				continue
			}
			seen[col] = true
			for row := 0; row < tg.NumRows(); row++ {
				v := tg.Cell(row, col)
				s, ok := v.Str()
				if !ok {
					continue
				}
				corrected := strings.Join(strings.Fields(s), " ")
				if corrected == "" {
					tg.SetCell(row, col, table.Null)
					continue
				}
				if corrected != s {
					tg.SetCell(row, col, table.String(corrected))
				}
			}
		}
	}
	return nil
}

// stringKeyed reports whether a later strategy will use the series' cell
// values as lookup keys.
func stringKeyed(sc *mapping.SeriesContext) bool {
	if sc.AliasMap != nil {
		return true
	}
	switch sc.DataContext.Kind() {
	case mapping.KindSubjectSex,
		mapping.KindHpoLabelOrID,
		mapping.KindDiseaseLabelOrID,
		mapping.KindHgncSymbolOrID,
		mapping.KindMultiHpoID,
		mapping.KindVitalStatus,
		mapping.KindObservationStatus:
		return true
	}
	return false
}
