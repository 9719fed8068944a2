// Package report accumulates row-scoped diagnostics and post-assembly
// validation violations. Row-scoped problems never abort a table; they are
// recorded here and returned to the caller alongside successful output.
package report

import (
	"fmt"
	"sync"
)

// Kind classifies a diagnostic.
type Kind string

const (
	// TypeCoercion marks a cell that failed coercion to an alias map's
	// declared output type.
	TypeCoercion Kind = "type_coercion"
	// OntologyLookup marks a cell whose value could not be resolved
	// against its ontology.
	OntologyLookup Kind = "ontology_lookup"
	// MappingViolation marks a value outside a controlled vocabulary.
	MappingViolation Kind = "mapping_violation"
	// MissingSubject marks a row without a resolvable subject identifier.
	MissingSubject Kind = "missing_subject"
	// IncompleteBlock marks a building block dropped because a required
	// member was null for the row.
	IncompleteBlock Kind = "incomplete_block"
	// ConflictingValue marks a subject-level field assigned two different
	// values from different rows or sources.
	ConflictingValue Kind = "conflicting_value"
	// Validation marks a post-assembly lint rule violation.
	Validation Kind = "validation"
)

// Diagnostic is one recorded problem, scoped as precisely as the producer
// can manage. Row is -1 when the diagnostic is not row-scoped.
type Diagnostic struct {
	Kind    Kind
	Table   string
	Column  string
	Row     int
	Subject string
	Message string

	// Hint optionally suggests a remediation. Reporting only; no fix is
	// applied without an explicit user action.
	Hint string
}

func (d Diagnostic) String() string {
	loc := d.Table
	if d.Column != "" {
		loc += "." + d.Column
	}
	if d.Row >= 0 {
		loc += fmt.Sprintf("[%d]", d.Row)
	}
	if d.Subject != "" {
		loc += " subject=" + d.Subject
	}
	return fmt.Sprintf("%s: %s: %s", d.Kind, loc, d.Message)
}

// Report is a thread-safe diagnostics accumulator shared across parallel
// table processing.
type Report struct {
	mu    sync.Mutex
	diags []Diagnostic
}

func New() *Report {
	return &Report{}
}

// Add records one diagnostic.
func (r *Report) Add(d Diagnostic) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.diags = append(r.diags, d)
}

// Addf records a diagnostic with a formatted message.
func (r *Report) Addf(d Diagnostic, format string, args ...any) {
	d.Message = fmt.Sprintf(format, args...)
	r.Add(d)
}

// Diagnostics returns a copy of everything recorded so far.
func (r *Report) Diagnostics() []Diagnostic {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Diagnostic, len(r.diags))
	copy(out, r.diags)
	return out
}

// Len returns the number of recorded diagnostics.
func (r *Report) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.diags)
}

// CountByKind tallies diagnostics per kind for run summaries.
func (r *Report) CountByKind() map[Kind]int {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[Kind]int)
	for _, d := range r.diags {
		out[d.Kind]++
	}
	return out
}
