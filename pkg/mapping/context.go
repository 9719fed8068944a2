// Package mapping defines the declarative model that binds physical table
// columns to semantic roles: the closed Context tag set, column identifiers,
// series contexts with alias maps and fill-missing defaults, and the table
// context that groups them. This is a pure package - no I/O.
package mapping

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Kind names a Context variant with its payload stripped. It is useful when
// a consumer cares about the role as a whole rather than a specific
// parameterized instance (e.g. any QuantitativeMeasurement column).
type Kind int

const (
	KindNone Kind = iota

	// subject-level roles
	KindSubjectID
	KindSubjectSex
	KindDateOfBirth
	KindVitalStatus
	KindLastEncounter
	KindTimeOfDeath
	KindCauseOfDeath
	KindSurvivalTimeDays

	// ontology-backed roles
	KindHpoLabelOrID
	KindDiseaseLabelOrID
	KindHgncSymbolOrID

	// variants
	KindHgvs

	// measurements
	KindQuantitativeMeasurement
	KindQualitativeMeasurement
	KindReferenceRange

	// other
	KindObservationStatus
	KindMultiHpoID
	KindOnset
)

var kindNames = map[Kind]string{
	KindNone:                    "none",
	KindSubjectID:               "subject_id",
	KindSubjectSex:              "subject_sex",
	KindDateOfBirth:             "date_of_birth",
	KindVitalStatus:             "vital_status",
	KindLastEncounter:           "last_encounter",
	KindTimeOfDeath:             "time_of_death",
	KindCauseOfDeath:            "cause_of_death",
	KindSurvivalTimeDays:        "survival_time_days",
	KindHpoLabelOrID:            "hpo_label_or_id",
	KindDiseaseLabelOrID:        "disease_label_or_id",
	KindHgncSymbolOrID:          "hgnc_symbol_or_id",
	KindHgvs:                    "hgvs",
	KindQuantitativeMeasurement: "quantitative_measurement",
	KindQualitativeMeasurement:  "qualitative_measurement",
	KindReferenceRange:          "reference_range",
	KindObservationStatus:       "observation_status",
	KindMultiHpoID:              "multi_hpo_id",
	KindOnset:                   "onset",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// TimeKind distinguishes how a timed role is represented in the data.
type TimeKind int

const (
	TimeAge TimeKind = iota
	TimeDate
)

func (t TimeKind) String() string {
	if t == TimeDate {
		return "date"
	}
	return "age"
}

// Boundary distinguishes the low and high ends of a reference range.
type Boundary int

const (
	BoundaryLow Boundary = iota
	BoundaryHigh
)

func (b Boundary) String() string {
	if b == BoundaryHigh {
		return "high"
	}
	return "low"
}

// Context is the semantic tag of a column header or of the column's cell
// values. The variant set is closed; every consumer switches exhaustively on
// Kind. Context is a comparable value type, so two contexts with identical
// payload are the same map key.
type Context struct {
	kind     Kind
	time     TimeKind
	boundary Boundary

	// payload of the measurement variants
	assayID        string
	unitOntologyID string
}

// None is the zero Context; it marks untagged columns.
var None = Context{}

func SubjectID() Context         { return Context{kind: KindSubjectID} }
func SubjectSex() Context        { return Context{kind: KindSubjectSex} }
func DateOfBirth() Context       { return Context{kind: KindDateOfBirth} }
func VitalStatus() Context       { return Context{kind: KindVitalStatus} }
func CauseOfDeath() Context      { return Context{kind: KindCauseOfDeath} }
func SurvivalTimeDays() Context  { return Context{kind: KindSurvivalTimeDays} }
func HpoLabelOrID() Context      { return Context{kind: KindHpoLabelOrID} }
func DiseaseLabelOrID() Context  { return Context{kind: KindDiseaseLabelOrID} }
func HgncSymbolOrID() Context    { return Context{kind: KindHgncSymbolOrID} }
func Hgvs() Context              { return Context{kind: KindHgvs} }
func ObservationStatus() Context { return Context{kind: KindObservationStatus} }
func MultiHpoID() Context        { return Context{kind: KindMultiHpoID} }

func LastEncounter(t TimeKind) Context { return Context{kind: KindLastEncounter, time: t} }
func TimeOfDeath(t TimeKind) Context   { return Context{kind: KindTimeOfDeath, time: t} }
func Onset(t TimeKind) Context         { return Context{kind: KindOnset, time: t} }

func ReferenceRange(b Boundary) Context { return Context{kind: KindReferenceRange, boundary: b} }

// QuantitativeMeasurement tags a column of numeric assay results. The assay
// id identifies the measured analyte (e.g. a LOINC code), the unit ontology
// id the unit the values are expressed in (e.g. a UO id).
func QuantitativeMeasurement(assayID, unitOntologyID string) Context {
	return Context{
		kind:           KindQuantitativeMeasurement,
		assayID:        assayID,
		unitOntologyID: unitOntologyID,
	}
}

// QualitativeMeasurement tags a column of categorical assay results keyed by
// an assay id.
func QualitativeMeasurement(assayID string) Context {
	return Context{kind: KindQualitativeMeasurement, assayID: assayID}
}

// Kind returns the variant of the context with payload stripped.
func (c Context) Kind() Kind { return c.kind }

// IsNone reports whether the context is the untagged default.
func (c Context) IsNone() bool { return c.kind == KindNone }

// Time returns the time representation of a timed variant. It is only
// meaningful for LastEncounter, TimeOfDeath and Onset.
func (c Context) Time() TimeKind { return c.time }

// Bound returns the boundary of a ReferenceRange variant.
func (c Context) Bound() Boundary { return c.boundary }

// AssayID returns the assay id payload of a measurement variant.
func (c Context) AssayID() string { return c.assayID }

// UnitOntologyID returns the unit payload of a QuantitativeMeasurement.
func (c Context) UnitOntologyID() string { return c.unitOntologyID }

func (c Context) String() string {
	switch c.kind {
	case KindLastEncounter, KindTimeOfDeath, KindOnset:
		return c.kind.String() + "_" + c.time.String()
	case KindReferenceRange:
		return c.kind.String() + "_" + c.boundary.String()
	case KindQuantitativeMeasurement:
		return fmt.Sprintf("%s(%s,%s)", c.kind, c.assayID, c.unitOntologyID)
	case KindQualitativeMeasurement:
		return fmt.Sprintf("%s(%s)", c.kind, c.assayID)
	default:
		return c.kind.String()
	}
}

// scalar context spellings used in mapping files
var contextScalars = map[string]Context{
	"none":                None,
	"":                    None,
	"subject_id":          SubjectID(),
	"subject_sex":         SubjectSex(),
	"date_of_birth":       DateOfBirth(),
	"vital_status":        VitalStatus(),
	"cause_of_death":      CauseOfDeath(),
	"survival_time_days":  SurvivalTimeDays(),
	"hpo_label_or_id":     HpoLabelOrID(),
	"disease_label_or_id": DiseaseLabelOrID(),
	"hgnc_symbol_or_id":   HgncSymbolOrID(),
	"hgvs":                Hgvs(),
	"observation_status":  ObservationStatus(),
	"multi_hpo_id":        MultiHpoID(),
	"last_encounter_age":  LastEncounter(TimeAge),
	"last_encounter_date": LastEncounter(TimeDate),
	"time_of_death_age":   TimeOfDeath(TimeAge),
	"time_of_death_date":  TimeOfDeath(TimeDate),
	"onset_age":           Onset(TimeAge),
	"onset_date":          Onset(TimeDate),
	"reference_range_low": ReferenceRange(BoundaryLow),
	"reference_range_high": ReferenceRange(
		BoundaryHigh),
}

// UnmarshalYAML accepts either a scalar spelling like "subject_id" or a
// one-key map for the parameterized measurement variants:
//
//	data_context:
//	  quantitative_measurement:
//	    assay_id: "LOINC:2823-3"
//	    unit_ontology_id: "UO:0000254"
func (c *Context) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		var s string
		if err := node.Decode(&s); err != nil {
			return err
		}
		ctx, ok := contextScalars[s]
		if !ok {
			return fmt.Errorf("unknown context %q", s)
		}
		*c = ctx
		return nil
	}

	var m map[string]struct {
		AssayID        string `yaml:"assay_id"`
		UnitOntologyID string `yaml:"unit_ontology_id"`
	}
	if err := node.Decode(&m); err != nil {
		return fmt.Errorf("malformed context declaration: %w", err)
	}
	if len(m) != 1 {
		return fmt.Errorf("context declaration must have exactly one variant, got %d", len(m))
	}
	for variant, payload := range m {
		switch variant {
		case "quantitative_measurement":
			if payload.AssayID == "" || payload.UnitOntologyID == "" {
				return fmt.Errorf("quantitative_measurement requires assay_id and unit_ontology_id")
			}
			*c = QuantitativeMeasurement(payload.AssayID, payload.UnitOntologyID)
		case "qualitative_measurement":
			if payload.AssayID == "" {
				return fmt.Errorf("qualitative_measurement requires assay_id")
			}
			*c = QualitativeMeasurement(payload.AssayID)
		default:
			return fmt.Errorf("unknown parameterized context %q", variant)
		}
	}
	return nil
}

// MarshalYAML renders the scalar spelling, or the one-key map form for
// measurement variants.
func (c Context) MarshalYAML() (any, error) {
	switch c.kind {
	case KindQuantitativeMeasurement:
		return map[string]map[string]string{
			"quantitative_measurement": {
				"assay_id":         c.assayID,
				"unit_ontology_id": c.unitOntologyID,
			},
		}, nil
	case KindQualitativeMeasurement:
		return map[string]map[string]string{
			"qualitative_measurement": {"assay_id": c.assayID},
		}, nil
	default:
		return c.String(), nil
	}
}
