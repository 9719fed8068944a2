package collect

import (
	"context"
	"sort"
	"strings"

	"github.com/phenotools/pxtract/pkg/mapping"
	"github.com/phenotools/pxtract/pkg/ontology"
	"github.com/phenotools/pxtract/pkg/record"
	"github.com/phenotools/pxtract/pkg/report"
	"github.com/phenotools/pxtract/pkg/table"
)

// blockMember is one series' contribution to a building block in one row.
type blockMember struct {
	series *mapping.SeriesContext
	value  table.Value
	isNull bool
}

// blockSet gathers the per-row contributions keyed by building block id.
type blockSet struct {
	members map[string][]blockMember
}

func newBlockSet() *blockSet {
	return &blockSet{members: make(map[string][]blockMember)}
}

func (bs *blockSet) add(sc *mapping.SeriesContext, value table.Value, isNull bool) {
	id := sc.BuildingBlockID
	bs.members[id] = append(bs.members[id], blockMember{series: sc, value: value, isNull: isNull})
}

// materializeBlocks assembles each complete building block of the row into
// one grouped sub-record. A block with a null required member is dropped
// and a diagnostic notes the incomplete block; values are never partially
// grouped.
func (c *Collector) materializeBlocks(
	ctx context.Context,
	bs *blockSet,
	tg *table.Tagged,
	row int,
	subject string,
	state rowState,
	rpt *report.Report,
) ([]record.Feature, []record.Finding) {
	var (
		features []record.Feature
		findings []record.Finding
	)

	ids := make([]string, 0, len(bs.members))
	for id := range bs.members {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		members := bs.members[id]
		if missing := incompleteMembers(members); len(missing) > 0 {
			rpt.Add(report.Diagnostic{
				Kind:    report.IncompleteBlock,
				Table:   tg.Name(),
				Row:     row,
				Subject: subject,
				Message: "building block " + id + " dropped: null required values for " +
					strings.Join(missing, ", "),
			})
			continue
		}

		finding := record.Finding{Block: id, Onset: state.onset}
		hasFinding := false
		for _, m := range members {
			if m.isNull {
				continue
			}
			value := m.value.Display()
			switch m.series.DataContext.Kind() {
			case mapping.KindDiseaseLabelOrID:
				term := c.term(ctx, ontology.MONDO(), value)
				finding.Disease = &term
				hasFinding = true
			case mapping.KindHgncSymbolOrID:
				finding.Gene = value
				hasFinding = true
			case mapping.KindHgvs:
				finding.Variant = value
				hasFinding = true
			case mapping.KindOnset:
				t := timeElement(m.series.DataContext.Time(), value)
				finding.Onset = &t
			case mapping.KindHpoLabelOrID, mapping.KindMultiHpoID:
				// a phenotype grouped into a block keeps the block's onset
				features = append(features, record.Feature{
					Term:     c.term(ctx, ontology.HP(), value),
					Excluded: state.excluded,
					Onset:    state.onset,
				})
			default:
				rpt.Add(report.Diagnostic{
					Kind:    report.MappingViolation,
					Table:   tg.Name(),
					Row:     row,
					Subject: subject,
					Message: "context " + m.series.DataContext.String() +
						" is not supported inside building block " + id,
				})
			}
		}
		if hasFinding {
			findings = append(findings, finding)
		}
	}
	return features, findings
}

// incompleteMembers lists the identifiers of required members whose value
// is null for the row. Optional members never block materialization.
func incompleteMembers(members []blockMember) []string {
	var missing []string
	for _, m := range members {
		if m.isNull && !m.series.Optional {
			missing = append(missing, m.series.Identifier.String())
		}
	}
	return missing
}

func normalized(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
