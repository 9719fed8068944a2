package mapping

import (
	"fmt"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// IdentKind names the column selection rule of an Identifier.
type IdentKind int

const (
	// IdentName selects the single column whose header equals the name.
	IdentName IdentKind = iota
	// IdentRegex selects every column whose header matches the pattern.
	IdentRegex
	// IdentList selects exactly the named columns, order preserving.
	IdentList
)

// Identifier is the rule used to select physical columns for a
// SeriesContext: an exact header name, a regular expression, or an explicit
// ordered list of names.
type Identifier struct {
	kind    IdentKind
	name    string
	pattern string
	re      *regexp.Regexp
	names   []string
}

// Name builds an exact-name identifier.
func Name(s string) Identifier {
	return Identifier{kind: IdentName, name: s}
}

// Pattern builds a regex identifier. The pattern is compiled eagerly so a
// malformed declaration fails at construction, not at match time.
func Pattern(expr string) (Identifier, error) {
	re, err := regexp.Compile(expr)
	if err != nil {
		return Identifier{}, fmt.Errorf("invalid identifier regex %q: %w", expr, err)
	}
	return Identifier{kind: IdentRegex, pattern: expr, re: re}, nil
}

// MustPattern is Pattern for static declarations in tests and defaults.
func MustPattern(expr string) Identifier {
	id, err := Pattern(expr)
	if err != nil {
		panic(err)
	}
	return id
}

// List builds an explicit ordered list identifier.
func List(names ...string) Identifier {
	return Identifier{kind: IdentList, names: names}
}

// Kind returns the selection rule of the identifier.
func (id Identifier) Kind() IdentKind { return id.kind }

// IsZero reports whether the identifier was never declared.
func (id Identifier) IsZero() bool {
	return id.kind == IdentName && id.name == ""
}

func (id Identifier) String() string {
	switch id.kind {
	case IdentRegex:
		return "/" + id.pattern + "/"
	case IdentList:
		return strings.Join(id.names, ",")
	default:
		return id.name
	}
}

// Match resolves the identifier against physical column headers and returns
// the selected column indices. For IdentList, missing names are returned
// separately so the caller can decide whether their absence is fatal.
func (id Identifier) Match(headers []string) (cols []int, missing []string) {
	switch id.kind {
	case IdentName:
		for i, h := range headers {
			if h == id.name {
				return []int{i}, nil
			}
		}
		return nil, []string{id.name}
	case IdentRegex:
		for i, h := range headers {
			if id.re.MatchString(h) {
				cols = append(cols, i)
			}
		}
		return cols, nil
	case IdentList:
		index := make(map[string]int, len(headers))
		for i, h := range headers {
			// first occurrence wins on duplicate headers
			if _, ok := index[h]; !ok {
				index[h] = i
			}
		}
		for _, n := range id.names {
			if i, ok := index[n]; ok {
				cols = append(cols, i)
			} else {
				missing = append(missing, n)
			}
		}
		return cols, missing
	}
	return nil, nil
}

// UnmarshalYAML accepts three declaration forms:
//
//	identifier: patient_id          # exact name
//	identifier: {regex: "^hpo_"}    # regular expression
//	identifier: [disease, gene]     # explicit ordered list
func (id *Identifier) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		var s string
		if err := node.Decode(&s); err != nil {
			return err
		}
		*id = Name(s)
		return nil
	case yaml.SequenceNode:
		var names []string
		if err := node.Decode(&names); err != nil {
			return err
		}
		if len(names) == 0 {
			return fmt.Errorf("identifier list must not be empty")
		}
		*id = List(names...)
		return nil
	case yaml.MappingNode:
		var m struct {
			Regex string `yaml:"regex"`
		}
		if err := node.Decode(&m); err != nil {
			return err
		}
		if m.Regex == "" {
			return fmt.Errorf("identifier map form requires a regex key")
		}
		parsed, err := Pattern(m.Regex)
		if err != nil {
			return err
		}
		*id = parsed
		return nil
	}
	return fmt.Errorf("unsupported identifier declaration")
}

// MarshalYAML renders the declaration form matching the identifier kind.
func (id Identifier) MarshalYAML() (any, error) {
	switch id.kind {
	case IdentRegex:
		return map[string]string{"regex": id.pattern}, nil
	case IdentList:
		return id.names, nil
	default:
		return id.name, nil
	}
}
