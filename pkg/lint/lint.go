// Package lint checks finalized records against assembly-independent rules
// and reports violations. Linting never mutates records; remediation hints
// are advisory and applied only by an explicit user action.
package lint

import (
	"fmt"

	"github.com/phenotools/pxtract/pkg/ontology"
	"github.com/phenotools/pxtract/pkg/record"
	"github.com/phenotools/pxtract/pkg/report"
)

// Rule checks one record and returns its violations.
type Rule interface {
	Name() string
	Check(r *record.Record) []report.Diagnostic
}

// Linter runs an ordered list of rules over records.
type Linter struct {
	rules []Rule
}

// New builds a linter. With no arguments the default rule set is used.
func New(rules ...Rule) *Linter {
	if len(rules) == 0 {
		rules = DefaultRules()
	}
	return &Linter{rules: rules}
}

// DefaultRules is the standard post-assembly rule set.
func DefaultRules() []Rule {
	return []Rule{
		SubjectPresent{},
		SexVocabulary{},
		TermShape{},
		MeasurementUnits{},
		DuplicateFeatures{},
	}
}

// Run checks every record and records violations in the report.
func (l *Linter) Run(records []*record.Record, rpt *report.Report) {
	for _, r := range records {
		for _, rule := range l.rules {
			for _, d := range rule.Check(r) {
				d.Kind = report.Validation
				rpt.Add(d)
			}
		}
	}
}

// SubjectPresent requires a non-empty subject identifier.
type SubjectPresent struct{}

func (SubjectPresent) Name() string { return "subject_present" }

func (SubjectPresent) Check(r *record.Record) []report.Diagnostic {
	if r.Subject.ID != "" {
		return nil
	}
	return []report.Diagnostic{{
		Row:     -1,
		Message: "record " + r.ID + " has no subject identifier",
	}}
}

// SexVocabulary requires the subject sex, when present, to be one of the
// controlled values.
type SexVocabulary struct{}

func (SexVocabulary) Name() string { return "sex_vocabulary" }

var allowedSex = map[string]bool{
	"": true, "Male": true, "Female": true, "Other": true, "Unknown": true,
}

func (SexVocabulary) Check(r *record.Record) []report.Diagnostic {
	if allowedSex[r.Subject.Sex] {
		return nil
	}
	return []report.Diagnostic{{
		Row:     -1,
		Subject: r.Subject.ID,
		Message: fmt.Sprintf("sex %q is not a controlled value", r.Subject.Sex),
		Hint:    "expected Male, Female, Other or Unknown",
	}}
}

// TermShape requires feature and disease term ids to have canonical
// ontology id form.
type TermShape struct{}

func (TermShape) Name() string { return "term_shape" }

func (TermShape) Check(r *record.Record) []report.Diagnostic {
	var out []report.Diagnostic
	hp := ontology.HP()
	mondo := ontology.MONDO()
	omim := ontology.OMIM()
	for _, f := range r.Features {
		if !hp.IsCanonicalID(f.Term.ID) {
			out = append(out, report.Diagnostic{
				Row:     -1,
				Subject: r.Subject.ID,
				Message: fmt.Sprintf("phenotypic feature %q is not a canonical HPO id", f.Term.ID),
				Hint:    "run the ontology_normaliser strategy or fix the source value",
			})
		}
	}
	for _, f := range r.Findings {
		if f.Disease == nil {
			continue
		}
		id := f.Disease.ID
		if !mondo.IsCanonicalID(id) && !omim.IsCanonicalID(id) {
			out = append(out, report.Diagnostic{
				Row:     -1,
				Subject: r.Subject.ID,
				Message: fmt.Sprintf("disease %q is not a canonical MONDO or OMIM id", id),
			})
		}
	}
	return out
}

// MeasurementUnits requires quantitative measurements to carry a unit.
type MeasurementUnits struct{}

func (MeasurementUnits) Name() string { return "measurement_units" }

func (MeasurementUnits) Check(r *record.Record) []report.Diagnostic {
	var out []report.Diagnostic
	for _, m := range r.Measurements {
		if m.AssayID == "" {
			out = append(out, report.Diagnostic{
				Row:     -1,
				Subject: r.Subject.ID,
				Message: "measurement without an assay id",
			})
		}
		if m.TextValue == "" && m.UnitID == "" {
			out = append(out, report.Diagnostic{
				Row:     -1,
				Subject: r.Subject.ID,
				Message: fmt.Sprintf("quantitative measurement %s has no unit", m.AssayID),
			})
		}
	}
	return out
}

// DuplicateFeatures flags the same phenotype term reported more than once
// with the same observation status.
type DuplicateFeatures struct{}

func (DuplicateFeatures) Name() string { return "duplicate_features" }

func (DuplicateFeatures) Check(r *record.Record) []report.Diagnostic {
	type key struct {
		id       string
		excluded bool
	}
	seen := make(map[key]int)
	var out []report.Diagnostic
	for _, f := range r.Features {
		seen[key{f.Term.ID, f.Excluded}]++
	}
	for k, n := range seen {
		if n > 1 {
			out = append(out, report.Diagnostic{
				Row:     -1,
				Subject: r.Subject.ID,
				Message: fmt.Sprintf("phenotypic feature %s reported %d times", k.id, n),
			})
		}
	}
	return out
}
