package mapping

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// OutputType declares the scalar type an alias-mapped column is coerced to
// after substitution.
type OutputType int

const (
	OutputString OutputType = iota
	OutputInt
	OutputFloat
	OutputBool
)

var outputTypeNames = map[string]OutputType{
	"string":  OutputString,
	"int":     OutputInt,
	"float":   OutputFloat,
	"boolean": OutputBool,
	"bool":    OutputBool,
}

func (o OutputType) String() string {
	switch o {
	case OutputInt:
		return "int"
	case OutputFloat:
		return "float"
	case OutputBool:
		return "boolean"
	default:
		return "string"
	}
}

func (o *OutputType) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}
	t, ok := outputTypeNames[s]
	if !ok {
		return fmt.Errorf("unknown output type %q", s)
	}
	*o = t
	return nil
}

func (o OutputType) MarshalYAML() (any, error) { return o.String(), nil }

// Literal is a typed scalar used in mapping declarations, e.g. the
// fill-missing default of a series. Exactly one of the accessors reports ok.
type Literal struct {
	str   *string
	i     *int64
	f     *float64
	b     *bool
	isSet bool
}

func StringLit(s string) Literal  { return Literal{str: &s, isSet: true} }
func IntLit(i int64) Literal     { return Literal{i: &i, isSet: true} }
func FloatLit(f float64) Literal { return Literal{f: &f, isSet: true} }
func BoolLit(b bool) Literal     { return Literal{b: &b, isSet: true} }

// IsSet reports whether the literal was declared.
func (l Literal) IsSet() bool { return l.isSet }

func (l Literal) Str() (string, bool) {
	if l.str == nil {
		return "", false
	}
	return *l.str, true
}

func (l Literal) Int() (int64, bool) {
	if l.i == nil {
		return 0, false
	}
	return *l.i, true
}

func (l Literal) Float() (float64, bool) {
	if l.f == nil {
		return 0, false
	}
	return *l.f, true
}

func (l Literal) Bool() (bool, bool) {
	if l.b == nil {
		return false, false
	}
	return *l.b, true
}

func (l *Literal) UnmarshalYAML(node *yaml.Node) error {
	var b bool
	if err := node.Decode(&b); err == nil && node.Tag == "!!bool" {
		*l = BoolLit(b)
		return nil
	}
	var i int64
	if err := node.Decode(&i); err == nil && node.Tag == "!!int" {
		*l = IntLit(i)
		return nil
	}
	var f float64
	if err := node.Decode(&f); err == nil && node.Tag == "!!float" {
		*l = FloatLit(f)
		return nil
	}
	var s string
	if err := node.Decode(&s); err != nil {
		return fmt.Errorf("unsupported literal: %w", err)
	}
	*l = StringLit(s)
	return nil
}

func (l Literal) MarshalYAML() (any, error) {
	switch {
	case l.str != nil:
		return *l.str, nil
	case l.i != nil:
		return *l.i, nil
	case l.f != nil:
		return *l.f, nil
	case l.b != nil:
		return *l.b, nil
	}
	return nil, nil
}

// AliasMap is a literal-string value rewrite applied to every cell of a
// column, with a declared output type the column is coerced to afterwards.
// A nil target maps the source value to null ("N/A" -> ~ in YAML).
type AliasMap struct {
	Mappings map[string]*string `yaml:"mappings"`
	Output   OutputType         `yaml:"output_type"`

	// CSV optionally names a sidecar two-column file the mappings are
	// loaded from. The mapping loader resolves it; a context reaching
	// validation with an empty Mappings is a configuration error.
	CSV string `yaml:"csv"`
}

// Lookup returns the replacement for a cell value. ok is false when the
// value has no mapping and must pass through unchanged. A true ok with a nil
// pointer means the value maps to null.
func (a *AliasMap) Lookup(value string) (*string, bool) {
	target, ok := a.Mappings[value]
	return target, ok
}

// SeriesContext binds an identifier to the semantic role of the matched
// column headers and/or of their cell values.
type SeriesContext struct {
	// Identifier selects the physical columns this context applies to.
	Identifier Identifier `yaml:"identifier"`

	// HeaderContext is the meaning of the column header itself, e.g. the
	// header names an assay.
	HeaderContext Context `yaml:"header_context"`

	// DataContext is the meaning of the column's cell values.
	DataContext Context `yaml:"data_context"`

	// FillMissing substitutes a default for null or absent cells during
	// tagging, before any strategy runs.
	FillMissing Literal `yaml:"fill_missing"`

	// AliasMap rewrites cell values by exact string match.
	AliasMap *AliasMap `yaml:"alias_map"`

	// BuildingBlockID groups this series with others that are assembled
	// into one sub-record per row. Empty means the value attaches directly
	// to the subject-level record.
	BuildingBlockID string `yaml:"building_block_id"`

	// Optional suppresses the fatal match error when the identifier
	// selects no physical column.
	Optional bool `yaml:"optional"`
}

// Validate checks the declaration in isolation; cross-series rules live on
// TableContext.
func (sc *SeriesContext) Validate() error {
	if sc.Identifier.IsZero() {
		return &ConfigurationError{Reason: "series context without identifier"}
	}
	if sc.HeaderContext.IsNone() && sc.DataContext.IsNone() {
		return &ConfigurationError{
			Reason: fmt.Sprintf("series %s declares neither header nor data context", sc.Identifier),
		}
	}
	if sc.AliasMap != nil && len(sc.AliasMap.Mappings) == 0 {
		return &ConfigurationError{
			Reason: fmt.Sprintf("series %s declares an empty alias map", sc.Identifier),
		}
	}
	return nil
}
