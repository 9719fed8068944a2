// Package table holds the generic in-memory tabular value produced by the
// extraction collaborators and rewritten by the strategy pipeline: named
// columns, ordered rows, optional scalar cells, and the coupling of a table
// with its resolved semantic bindings.
package table

import (
	"strconv"

	"github.com/phenotools/pxtract/pkg/mapping"
)

// ValueKind names the scalar type held by a cell.
type ValueKind int

const (
	KindNull ValueKind = iota
	KindString
	KindInt
	KindFloat
	KindBool
)

// Value is one optional scalar cell. The zero Value is null.
type Value struct {
	kind ValueKind
	s    string
	i    int64
	f    float64
	b    bool
}

// Null is the absent cell.
var Null = Value{}

func String(s string) Value  { return Value{kind: KindString, s: s} }
func Int(i int64) Value      { return Value{kind: KindInt, i: i} }
func Float(f float64) Value  { return Value{kind: KindFloat, f: f} }
func Bool(b bool) Value      { return Value{kind: KindBool, b: b} }

// FromLiteral converts a declared mapping literal into a cell value.
func FromLiteral(l mapping.Literal) Value {
	if s, ok := l.Str(); ok {
		return String(s)
	}
	if i, ok := l.Int(); ok {
		return Int(i)
	}
	if f, ok := l.Float(); ok {
		return Float(f)
	}
	if b, ok := l.Bool(); ok {
		return Bool(b)
	}
	return Null
}

func (v Value) Kind() ValueKind { return v.kind }
func (v Value) IsNull() bool    { return v.kind == KindNull }

// Str returns the string payload; ok is false for non-string cells.
func (v Value) Str() (string, bool) {
	return v.s, v.kind == KindString
}

func (v Value) Int() (int64, bool) {
	return v.i, v.kind == KindInt
}

func (v Value) Float() (float64, bool) {
	if v.kind == KindInt {
		return float64(v.i), true
	}
	return v.f, v.kind == KindFloat
}

func (v Value) Bool() (bool, bool) {
	return v.b, v.kind == KindBool
}

// Display renders the cell for diagnostics and string-keyed lookups. Null
// renders as the empty string.
func (v Value) Display() string {
	switch v.kind {
	case KindString:
		return v.s
	case KindInt:
		return strconv.FormatInt(v.i, 10)
	case KindFloat:
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	case KindBool:
		return strconv.FormatBool(v.b)
	}
	return ""
}
