package record

import (
	"sort"

	"github.com/google/uuid"
)

// Builder accumulates the fields of one subject's record across rows,
// tables and sources, then freezes them into an immutable Record. The
// collector owns one builder per subject identifier.
type Builder struct {
	subject      Subject
	features     []Feature
	findings     []Finding
	measurements []Measurement
	sources      map[string]bool
}

// NewBuilder starts a record for the given subject identifier.
func NewBuilder(subjectID string) *Builder {
	return &Builder{
		subject: Subject{ID: subjectID},
		sources: make(map[string]bool),
	}
}

func (b *Builder) SubjectID() string { return b.subject.ID }

// MarkSource records which data source contributed to the record.
func (b *Builder) MarkSource(source string) {
	if source != "" {
		b.sources[source] = true
	}
}

// SetSex assigns the subject's sex. Returns false without overwriting when
// a different value was already assigned.
func (b *Builder) SetSex(sex string) bool {
	return setOnce(&b.subject.Sex, sex)
}

func (b *Builder) SetDateOfBirth(d string) bool {
	return setOnce(&b.subject.DateOfBirth, d)
}

func (b *Builder) SetVitalStatus(s string) bool {
	return setOnce(&b.subject.VitalStatus, s)
}

func (b *Builder) SetCauseOfDeath(s string) bool {
	return setOnce(&b.subject.CauseOfDeath, s)
}

func (b *Builder) SetSurvivalTimeDays(days int64) bool {
	if b.subject.SurvivalTimeDays != 0 && b.subject.SurvivalTimeDays != days {
		return false
	}
	b.subject.SurvivalTimeDays = days
	return true
}

func (b *Builder) SetTimeOfDeath(t TimeElement) bool {
	return setTimeOnce(&b.subject.TimeOfDeath, t)
}

func (b *Builder) SetLastEncounter(t TimeElement) bool {
	return setTimeOnce(&b.subject.LastEncounter, t)
}

// AddFeature appends one phenotypic feature.
func (b *Builder) AddFeature(f Feature) {
	b.features = append(b.features, f)
}

// AddFinding appends one assembled building block.
func (b *Builder) AddFinding(f Finding) {
	b.findings = append(b.findings, f)
}

// AddMeasurement appends one assay result.
func (b *Builder) AddMeasurement(m Measurement) {
	b.measurements = append(b.measurements, m)
}

// Build freezes the accumulated state into a Record with a fresh id.
func (b *Builder) Build() *Record {
	sources := make([]string, 0, len(b.sources))
	for s := range b.sources {
		sources = append(sources, s)
	}
	sort.Strings(sources)

	return &Record{
		ID:           uuid.NewString(),
		Subject:      b.subject,
		Features:     b.features,
		Findings:     b.findings,
		Measurements: b.measurements,
		Sources:      sources,
	}
}

func setOnce(dst *string, v string) bool {
	if v == "" {
		return true
	}
	if *dst != "" && *dst != v {
		return false
	}
	*dst = v
	return true
}

func setTimeOnce(dst **TimeElement, v TimeElement) bool {
	if *dst != nil && **dst != v {
		return false
	}
	t := v
	*dst = &t
	return true
}
