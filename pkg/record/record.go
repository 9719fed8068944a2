// Package record defines the per-subject phenotype record the pipeline
// produces and the builder the collector assembles it with. Records are
// immutable once built; loaders serialize them as JSON.
package record

import "encoding/json"

// Term is an ontology-normalized concept: canonical id plus, when resolved,
// its primary label.
type Term struct {
	ID    string `json:"id"`
	Label string `json:"label,omitempty"`
}

// TimeElement carries either an ISO-8601 age duration or a calendar date.
type TimeElement struct {
	Age  string `json:"age,omitempty"`
	Date string `json:"date,omitempty"`
}

// Feature is one phenotypic feature observed (or explicitly excluded) for
// the subject.
type Feature struct {
	Term     Term         `json:"term"`
	Excluded bool         `json:"excluded,omitempty"`
	Onset    *TimeElement `json:"onset,omitempty"`
}

// Finding is one grouped clinical finding assembled from a building block:
// a disease diagnosis with optional supporting gene and variant.
type Finding struct {
	Block   string       `json:"block"`
	Disease *Term        `json:"disease,omitempty"`
	Gene    string       `json:"gene,omitempty"`
	Variant string       `json:"variant,omitempty"`
	Onset   *TimeElement `json:"onset,omitempty"`
}

// Measurement is one assay result with its unit and optional reference
// range.
type Measurement struct {
	AssayID  string   `json:"assay_id"`
	Value    float64  `json:"value,omitempty"`
	TextValue string  `json:"text_value,omitempty"`
	UnitID   string   `json:"unit_id,omitempty"`
	RefLow   *float64 `json:"ref_low,omitempty"`
	RefHigh  *float64 `json:"ref_high,omitempty"`
}

// Subject holds the individual-level fields of a record.
type Subject struct {
	ID               string       `json:"id"`
	Sex              string       `json:"sex,omitempty"`
	DateOfBirth      string       `json:"date_of_birth,omitempty"`
	VitalStatus      string       `json:"vital_status,omitempty"`
	TimeOfDeath      *TimeElement `json:"time_of_death,omitempty"`
	LastEncounter    *TimeElement `json:"last_encounter,omitempty"`
	CauseOfDeath     string       `json:"cause_of_death,omitempty"`
	SurvivalTimeDays int64        `json:"survival_time_days,omitempty"`
}

// Record is the finalized per-subject output document.
type Record struct {
	ID           string        `json:"id"`
	Subject      Subject       `json:"subject"`
	Features     []Feature     `json:"phenotypic_features,omitempty"`
	Findings     []Finding     `json:"findings,omitempty"`
	Measurements []Measurement `json:"measurements,omitempty"`
	Sources      []string      `json:"sources,omitempty"`
}

// JSON renders the record for loaders.
func (r *Record) JSON() ([]byte, error) {
	return json.MarshalIndent(r, "", "  ")
}
