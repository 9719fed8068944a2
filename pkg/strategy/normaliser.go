package strategy

import (
	"context"

	"github.com/phenotools/pxtract/pkg/mapping"
	"github.com/phenotools/pxtract/pkg/ontology"
	"github.com/phenotools/pxtract/pkg/report"
	"github.com/phenotools/pxtract/pkg/table"
)

// OntologyNormaliser resolves the cells of ontology-backed columns through
// the shared dictionaries: a value that already is a canonical id passes
// through, a label or synonym is replaced with its canonical id. An
// unresolvable value is reported and the cell nulled, never silently
// dropped.
type OntologyNormaliser struct {
	factory *ontology.Factory
}

func NewOntologyNormaliser(factory *ontology.Factory) OntologyNormaliser {
	return OntologyNormaliser{factory: factory}
}

func (OntologyNormaliser) Name() string { return NameOntologyNormaliser }

// refForKind maps an ontology-backed context kind to the vocabulary its
// values are resolved against.
func refForKind(k mapping.Kind) (ontology.Ref, bool) {
	switch k {
	case mapping.KindHpoLabelOrID, mapping.KindMultiHpoID:
		return ontology.HP(), true
	case mapping.KindDiseaseLabelOrID:
		return ontology.MONDO(), true
	case mapping.KindHgncSymbolOrID:
		return ontology.HGNC(), true
	}
	return ontology.Ref{}, false
}

func (n OntologyNormaliser) Apply(ctx context.Context, tg *table.Tagged, rpt *report.Report) error {
	for _, b := range tg.Bindings {
		ref, ok := refForKind(b.Series.DataContext.Kind())
		if !ok {
			continue
		}
		dict := n.factory.BiDict(ref)
		for _, col := range b.Columns {
			header := tg.Headers()[col]
			for row := 0; row < tg.NumRows(); row++ {
				v := tg.Cell(row, col)
				if v.IsNull() {
					continue
				}
				resolved, err := dict.Resolve(ctx, v.Display())
				if err != nil {
					rpt.Add(report.Diagnostic{
						Kind:    report.OntologyLookup,
						Table:   tg.Name(),
						Column:  header,
						Row:     row,
						Message: err.Error(),
					})
					tg.SetCell(row, col, table.Null)
					continue
				}
				tg.SetCell(row, col, table.String(resolved))
			}
		}
	}
	return nil
}
