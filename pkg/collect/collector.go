// Package collect folds transformed, tagged rows into in-progress
// per-subject aggregates and finalizes them into immutable records. Values
// may arrive spread over several tables and data sources; the collector
// joins them on the subject identifier. Series sharing a building block id
// within one row are assembled into one grouped sub-record, and a block is
// only materialized when every required member is non-null.
package collect

import (
	"context"
	"sort"
	"strconv"
	"sync"

	"github.com/phenotools/pxtract/pkg/mapping"
	"github.com/phenotools/pxtract/pkg/ontology"
	"github.com/phenotools/pxtract/pkg/record"
	"github.com/phenotools/pxtract/pkg/report"
	"github.com/phenotools/pxtract/pkg/table"
)

// Collector is the single logical accumulator of a pipeline run. Ingest may
// be called from parallel table workers; access to the per-subject
// aggregates is serialized internally. Ingesting the same logical row twice
// is not deduplicated; callers must not re-submit rows.
type Collector struct {
	factory *ontology.Factory

	mu       sync.Mutex
	builders map[string]*record.Builder
}

// New creates an empty collector. factory supplies the shared dictionaries
// used to attach labels to collected ontology ids; it may be nil, in which
// case terms keep their id only.
func New(factory *ontology.Factory) *Collector {
	return &Collector{
		factory:  factory,
		builders: make(map[string]*record.Builder),
	}
}

// rowState carries the row-wide modifiers gathered in the first pass over
// the bindings: onset and observation status qualify the row's entities,
// reference range boundaries qualify its measurements.
type rowState struct {
	onset    *record.TimeElement
	excluded bool
	refLow   *float64
	refHigh  *float64
}

// Ingest folds one transformed row into the aggregate for the row's
// subject. A row without a resolvable subject identifier is rejected with a
// row-scoped diagnostic and excluded from aggregation.
func (c *Collector) Ingest(ctx context.Context, tg *table.Tagged, row int, rpt *report.Report) {
	subject, ok := tg.SubjectID(row)
	if !ok {
		rpt.Add(report.Diagnostic{
			Kind:    report.MissingSubject,
			Table:   tg.Name(),
			Row:     row,
			Message: "row has no resolvable subject identifier",
		})
		return
	}

	state := c.gatherRowState(tg, row, rpt)
	blocks := newBlockSet()

	var (
		features     []record.Feature
		findings     []record.Finding
		measurements []record.Measurement
	)

	for _, b := range tg.Bindings {
		if b.Series.HeaderContext.Kind() == mapping.KindHpoLabelOrID {
			features = append(features, c.headerFeatures(ctx, tg, b, row, rpt)...)
		}

		kind := b.Series.DataContext.Kind()
		if kind == mapping.KindNone || kind == mapping.KindSubjectID {
			continue
		}

		value, isNull := firstValue(tg, b, row)

		if b.Series.BuildingBlockID != "" {
			blocks.add(b.Series, value, isNull)
			continue
		}
		if isNull {
			continue
		}

		switch kind {
		case mapping.KindSubjectSex, mapping.KindDateOfBirth, mapping.KindVitalStatus,
			mapping.KindCauseOfDeath, mapping.KindSurvivalTimeDays,
			mapping.KindLastEncounter, mapping.KindTimeOfDeath:
			c.applySubjectField(subject, tg, b, row, value, rpt)
		case mapping.KindHpoLabelOrID, mapping.KindMultiHpoID:
			features = append(features, record.Feature{
				Term:     c.term(ctx, ontology.HP(), value.Display()),
				Excluded: state.excluded,
				Onset:    state.onset,
			})
		case mapping.KindDiseaseLabelOrID:
			term := c.term(ctx, ontology.MONDO(), value.Display())
			findings = append(findings, record.Finding{Disease: &term, Onset: state.onset})
		case mapping.KindHgncSymbolOrID:
			findings = append(findings, record.Finding{Gene: value.Display()})
		case mapping.KindHgvs:
			findings = append(findings, record.Finding{Variant: value.Display()})
		case mapping.KindQuantitativeMeasurement:
			m, ok := quantitative(b.Series.DataContext, value)
			if !ok {
				rpt.Add(report.Diagnostic{
					Kind:    report.TypeCoercion,
					Table:   tg.Name(),
					Column:  columnName(tg, b),
					Row:     row,
					Subject: subject,
					Message: "quantitative measurement value " + value.Display() + " is not numeric",
				})
				continue
			}
			m.RefLow, m.RefHigh = state.refLow, state.refHigh
			measurements = append(measurements, m)
		case mapping.KindQualitativeMeasurement:
			measurements = append(measurements, record.Measurement{
				AssayID:   b.Series.DataContext.AssayID(),
				TextValue: value.Display(),
			})
		case mapping.KindObservationStatus, mapping.KindOnset, mapping.KindReferenceRange:
			// consumed by gatherRowState
		}
	}

	blockFeatures, blockFindings := c.materializeBlocks(ctx, blocks, tg, row, subject, state, rpt)
	features = append(features, blockFeatures...)
	findings = append(findings, blockFindings...)

	c.commit(subject, tg, row, state, features, findings, measurements, rpt)
}

// commit applies the row's results to the shared aggregate under the lock.
func (c *Collector) commit(
	subject string,
	tg *table.Tagged,
	row int,
	state rowState,
	features []record.Feature,
	findings []record.Finding,
	measurements []record.Measurement,
	rpt *report.Report,
) {
	c.mu.Lock()
	defer c.mu.Unlock()

	b, ok := c.builders[subject]
	if !ok {
		b = record.NewBuilder(subject)
		c.builders[subject] = b
	}
	b.MarkSource(tg.Source)

	for _, f := range features {
		b.AddFeature(f)
	}
	for _, f := range findings {
		b.AddFinding(f)
	}
	for _, m := range measurements {
		b.AddMeasurement(m)
	}
	_ = row
	_ = rpt
}

// applySubjectField assigns one subject-level value, reporting a conflict
// when the field already holds a different value contributed earlier.
func (c *Collector) applySubjectField(
	subject string,
	tg *table.Tagged,
	b mapping.Binding,
	row int,
	value table.Value,
	rpt *report.Report,
) {
	c.mu.Lock()
	builder, ok := c.builders[subject]
	if !ok {
		builder = record.NewBuilder(subject)
		c.builders[subject] = builder
	}
	builder.MarkSource(tg.Source)

	ctx := b.Series.DataContext
	accepted := true
	switch ctx.Kind() {
	case mapping.KindSubjectSex:
		accepted = builder.SetSex(value.Display())
	case mapping.KindDateOfBirth:
		accepted = builder.SetDateOfBirth(value.Display())
	case mapping.KindVitalStatus:
		accepted = builder.SetVitalStatus(value.Display())
	case mapping.KindCauseOfDeath:
		accepted = builder.SetCauseOfDeath(value.Display())
	case mapping.KindSurvivalTimeDays:
		if days, ok := asInt(value); ok {
			accepted = builder.SetSurvivalTimeDays(days)
		}
	case mapping.KindLastEncounter:
		accepted = builder.SetLastEncounter(timeElement(ctx.Time(), value.Display()))
	case mapping.KindTimeOfDeath:
		accepted = builder.SetTimeOfDeath(timeElement(ctx.Time(), value.Display()))
	}
	c.mu.Unlock()

	if !accepted {
		rpt.Add(report.Diagnostic{
			Kind:    report.ConflictingValue,
			Table:   tg.Name(),
			Column:  columnName(tg, b),
			Row:     row,
			Subject: subject,
			Message: "value " + value.Display() + " conflicts with an earlier value for " + ctx.String(),
		})
	}
}

// gatherRowState pre-scans the row for modifiers that qualify the entities
// emitted later in the same row.
func (c *Collector) gatherRowState(tg *table.Tagged, row int, rpt *report.Report) rowState {
	var state rowState
	for _, b := range tg.Bindings {
		if b.Series.BuildingBlockID != "" {
			continue
		}
		ctx := b.Series.DataContext
		value, isNull := firstValue(tg, b, row)
		if isNull {
			continue
		}
		switch ctx.Kind() {
		case mapping.KindOnset:
			t := timeElement(ctx.Time(), value.Display())
			state.onset = &t
		case mapping.KindObservationStatus:
			excluded, ok := parseObservationStatus(value)
			if !ok {
				rpt.Add(report.Diagnostic{
					Kind:    report.MappingViolation,
					Table:   tg.Name(),
					Column:  columnName(tg, b),
					Row:     row,
					Message: "observation status " + value.Display() + " not recognized",
					Hint:    "expected observed/excluded, present/absent, yes/no or a boolean",
				})
				continue
			}
			state.excluded = excluded
		case mapping.KindReferenceRange:
			f, ok := value.Float()
			if !ok {
				var err error
				f, err = strconv.ParseFloat(value.Display(), 64)
				if err != nil {
					rpt.Add(report.Diagnostic{
						Kind:    report.TypeCoercion,
						Table:   tg.Name(),
						Column:  columnName(tg, b),
						Row:     row,
						Message: "reference range boundary " + value.Display() + " is not numeric",
					})
					continue
				}
			}
			if ctx.Bound() == mapping.BoundaryLow {
				state.refLow = &f
			} else {
				state.refHigh = &f
			}
		}
	}
	return state
}

// headerFeatures handles series whose header context names an HPO term: the
// header is the phenotype, the cells its observation status.
func (c *Collector) headerFeatures(
	ctx context.Context,
	tg *table.Tagged,
	b mapping.Binding,
	row int,
	rpt *report.Report,
) []record.Feature {
	var out []record.Feature
	for _, col := range b.Columns {
		v := tg.Cell(row, col)
		if v.IsNull() {
			continue
		}
		excluded, ok := parseObservationStatus(v)
		if !ok {
			rpt.Add(report.Diagnostic{
				Kind:    report.MappingViolation,
				Table:   tg.Name(),
				Column:  tg.Headers()[col],
				Row:     row,
				Message: "cell " + v.Display() + " under a phenotype header is not an observation status",
			})
			continue
		}
		out = append(out, record.Feature{
			Term:     c.term(ctx, ontology.HP(), tg.Headers()[col]),
			Excluded: excluded,
		})
	}
	return out
}

// term resolves a value into an ontology term, attaching the label when the
// dictionary can supply it. Resolution failures are tolerated here; the
// normalization strategy already reported them.
func (c *Collector) term(ctx context.Context, ref ontology.Ref, value string) record.Term {
	if c.factory == nil {
		return record.Term{ID: value}
	}
	dict := c.factory.BiDict(ref)
	if ref.IsCanonicalID(value) {
		id := ref.CanonicalizeID(value)
		t := record.Term{ID: id}
		if label, err := dict.Label(ctx, id); err == nil {
			t.Label = label
		}
		return t
	}
	if id, err := dict.ID(ctx, value); err == nil {
		return record.Term{ID: id, Label: value}
	}
	return record.Term{ID: value}
}

// Finalize drains every aggregate into immutable output records, ordered by
// subject identifier, and clears collector state.
func (c *Collector) Finalize() []*record.Record {
	c.mu.Lock()
	builders := c.builders
	c.builders = make(map[string]*record.Builder)
	c.mu.Unlock()

	subjects := make([]string, 0, len(builders))
	for s := range builders {
		subjects = append(subjects, s)
	}
	sort.Strings(subjects)

	out := make([]*record.Record, 0, len(subjects))
	for _, s := range subjects {
		out = append(out, builders[s].Build())
	}
	return out
}

// Subjects returns the identifiers currently aggregated, for progress
// reporting.
func (c *Collector) Subjects() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.builders)
}

func firstValue(tg *table.Tagged, b mapping.Binding, row int) (table.Value, bool) {
	for _, col := range b.Columns {
		v := tg.Cell(row, col)
		if !v.IsNull() {
			return v, false
		}
	}
	return table.Null, true
}

func columnName(tg *table.Tagged, b mapping.Binding) string {
	if len(b.Columns) > 0 {
		return tg.Headers()[b.Columns[0]]
	}
	return b.Series.Identifier.String()
}

func timeElement(t mapping.TimeKind, value string) record.TimeElement {
	if t == mapping.TimeDate {
		return record.TimeElement{Date: value}
	}
	return record.TimeElement{Age: value}
}

func quantitative(ctx mapping.Context, v table.Value) (record.Measurement, bool) {
	f, ok := v.Float()
	if !ok {
		var err error
		f, err = strconv.ParseFloat(v.Display(), 64)
		if err != nil {
			return record.Measurement{}, false
		}
	}
	return record.Measurement{
		AssayID: ctx.AssayID(),
		Value:   f,
		UnitID:  ctx.UnitOntologyID(),
	}, true
}

func asInt(v table.Value) (int64, bool) {
	if i, ok := v.Int(); ok {
		return i, true
	}
	i, err := strconv.ParseInt(v.Display(), 10, 64)
	return i, err == nil
}

func parseObservationStatus(v table.Value) (excluded bool, ok bool) {
	if b, isBool := v.Bool(); isBool {
		return !b, true
	}
	switch normalized(v.Display()) {
	case "observed", "present", "yes", "true", "1":
		return false, true
	case "excluded", "absent", "no", "false", "0":
		return true, true
	}
	return false, false
}
