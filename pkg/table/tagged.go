package table

import (
	"github.com/phenotools/pxtract/pkg/mapping"
)

// Tagged couples a raw table with its declared context and the bindings the
// matcher resolved against the table's headers. Tagging also applies each
// series' fill-missing default, so strategies and the collector never see a
// null cell where the mapping declares a substitute.
type Tagged struct {
	*Table
	Context  *mapping.TableContext
	Bindings mapping.Bindings
	Source   string
}

// NewTagged matches tc against the table's headers and applies fill-missing
// defaults. source identifies the data source for diagnostics. A required
// series context with no matching column fails with IdentifierMatchError.
func NewTagged(t *Table, tc *mapping.TableContext, source string) (*Tagged, error) {
	bindings, err := mapping.Resolve(tc, t.Headers())
	if err != nil {
		return nil, err
	}
	tagged := &Tagged{Table: t, Context: tc, Bindings: bindings, Source: source}
	tagged.fillMissing()
	return tagged, nil
}

func (tg *Tagged) fillMissing() {
	for _, b := range tg.Bindings {
		if !b.Series.FillMissing.IsSet() {
			continue
		}
		fill := FromLiteral(b.Series.FillMissing)
		for _, col := range b.Columns {
			for row := 0; row < tg.NumRows(); row++ {
				if tg.Cell(row, col).IsNull() {
					tg.SetCell(row, col, fill)
				}
			}
		}
	}
}

// ColumnsWithData returns the physical column indices whose data context has
// the given kind.
func (tg *Tagged) ColumnsWithData(k mapping.Kind) []int {
	var out []int
	for _, b := range tg.Bindings.ByDataKind(k) {
		out = append(out, b.Columns...)
	}
	return out
}

// SubjectColumn returns the physical index of the subject id column, or -1.
func (tg *Tagged) SubjectColumn() int {
	return tg.Bindings.SubjectColumn()
}

// SubjectID returns the subject identifier of one row; ok is false when the
// cell is null or the table has no subject column.
func (tg *Tagged) SubjectID(row int) (string, bool) {
	col := tg.SubjectColumn()
	if col < 0 {
		return "", false
	}
	v := tg.Cell(row, col)
	if v.IsNull() {
		return "", false
	}
	return v.Display(), true
}

// AppendExpandedRow adds a copy of row src with one cell replaced. The
// strategy expanding multi-valued cells uses it to fan a delimited list out
// into one row per element while preserving the subject association.
func (tg *Tagged) AppendExpandedRow(src int, col int, v Value) error {
	row := tg.Row(src)
	row[col] = v
	return tg.AppendRow(row)
}
