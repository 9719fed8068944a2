package mapping

import "fmt"

// ConfigurationError reports a malformed mapping declaration. It is fatal
// and aborts before any processing starts.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return "mapping configuration: " + e.Reason
}

// IdentifierMatchError reports that a required series context could not be
// bound to any physical column of a table. It is fatal to the owning table.
type IdentifierMatchError struct {
	Table      string
	Identifier Identifier
	Missing    []string
}

func (e *IdentifierMatchError) Error() string {
	if len(e.Missing) > 0 {
		return fmt.Sprintf(
			"table %q: identifier %s: columns not found: %v",
			e.Table, e.Identifier, e.Missing,
		)
	}
	return fmt.Sprintf(
		"table %q: identifier %s matched no columns", e.Table, e.Identifier,
	)
}
