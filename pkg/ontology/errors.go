package ontology

import (
	"errors"
	"fmt"
)

// ErrNotFound is wrapped by lookup errors when the backing store knows
// nothing about the requested key.
var ErrNotFound = errors.New("term not found")

// InvalidIDError reports a value that fails the ontology's id grammar. It
// is produced synchronously, before any provider call.
type InvalidIDError struct {
	Ref Ref
	ID  string
}

func (e *InvalidIDError) Error() string {
	return fmt.Sprintf("%s: %q is not a valid ontology id", e.Ref, e.ID)
}

// LookupError scopes a provider failure to the requested key. It never
// poisons the cache for other keys.
type LookupError struct {
	Ref Ref
	Key string
	Err error
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("%s: lookup %q: %v", e.Ref, e.Key, e.Err)
}

func (e *LookupError) Unwrap() error { return e.Err }

// CacheError reports a backing cache store read or write failure, scoped to
// one lookup.
type CacheError struct {
	Op  string
	Key string
	Err error
}

func (e *CacheError) Error() string {
	return fmt.Sprintf("ontology cache %s %q: %v", e.Op, e.Key, e.Err)
}

func (e *CacheError) Unwrap() error { return e.Err }
