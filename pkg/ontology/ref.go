// Package ontology provides bidirectional id-label resolution against
// ontologies and controlled vocabularies (HPO, MONDO, HGNC, ...). Lookups
// are memoized per dictionary, concurrent misses are deduplicated, and the
// factory shares one dictionary per (prefix, version) across the process.
package ontology

import (
	"fmt"
	"regexp"
	"strings"
)

// DefaultVersion is used when a reference does not pin one.
const DefaultVersion = "latest"

// Ref identifies one ontology or controlled vocabulary: a prefix such as
// "HP" or "MONDO" plus a version. It is a comparable value type and serves
// as the factory cache key.
type Ref struct {
	Prefix  string
	Version string
}

// NewRef builds a reference, canonicalizing the prefix to upper case and
// defaulting the version to "latest".
func NewRef(prefix, version string) Ref {
	if version == "" {
		version = DefaultVersion
	}
	return Ref{Prefix: strings.ToUpper(strings.TrimSpace(prefix)), Version: version}
}

// ParseRef reads a free-text reference: "hp", "HP:2024-08-13". The prefix is
// case-insensitive.
func ParseRef(s string) (Ref, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Ref{}, fmt.Errorf("empty ontology reference")
	}
	prefix, version, found := strings.Cut(s, ":")
	if !found {
		return NewRef(prefix, ""), nil
	}
	if prefix == "" || version == "" {
		return Ref{}, fmt.Errorf("malformed ontology reference %q", s)
	}
	return NewRef(prefix, version), nil
}

func (r Ref) String() string {
	return r.Prefix + ":" + r.Version
}

// IsLatest reports whether the reference floats with the newest release.
func (r Ref) IsLatest() bool { return r.Version == DefaultVersion }

// Common references used throughout the pipeline.
func HP() Ref    { return NewRef("HP", "") }
func MONDO() Ref { return NewRef("MONDO", "") }
func OMIM() Ref  { return NewRef("OMIM", "") }
func HGNC() Ref  { return NewRef("HGNC", "") }
func LOINC() Ref { return NewRef("LOINC", "") }
func UO() Ref    { return NewRef("UO", "") }

// idGrammar is the lexical shape of a canonical ontology id:
// an alphabetic prefix, a colon, digits.
var idGrammar = regexp.MustCompile(`^[A-Za-z]+:[0-9]+$`)

// IsCanonicalID reports whether s has the lexical form of a canonical id
// for this ontology. The check is purely syntactic and performs no lookup.
func (r Ref) IsCanonicalID(s string) bool {
	s = strings.TrimSpace(s)
	if !idGrammar.MatchString(s) {
		return false
	}
	prefix, _, _ := strings.Cut(s, ":")
	return strings.EqualFold(prefix, r.Prefix)
}

// CanonicalizeID upper-cases the prefix of a lexically valid id so that
// "hp:0000639" and "HP:0000639" are the same cache key.
func (r Ref) CanonicalizeID(s string) string {
	s = strings.TrimSpace(s)
	prefix, rest, found := strings.Cut(s, ":")
	if !found {
		return s
	}
	return strings.ToUpper(prefix) + ":" + rest
}
