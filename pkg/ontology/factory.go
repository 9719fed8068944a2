package ontology

import "sync"

// Factory hands out shared BiDict instances keyed by ontology reference. A
// dictionary is constructed on first request and reused by every strategy
// and collector that needs the same (prefix, version), so parallel tables
// never build duplicate caches.
//
// The factory is passed explicitly rather than held in package state, so
// tests substitute a mock provider without process-wide side effects. A
// longer-lived process may keep one factory across pipeline runs to
// amortize network cost; entries are never evicted.
type Factory struct {
	provider TermProvider

	mu    sync.Mutex
	cache map[Ref]*BiDict
}

// NewFactory builds a factory over the given backing provider.
func NewFactory(provider TermProvider) *Factory {
	return &Factory{
		provider: provider,
		cache:    make(map[Ref]*BiDict),
	}
}

// BiDict returns the shared dictionary for ref, constructing it on first
// request.
func (f *Factory) BiDict(ref Ref) *BiDict {
	f.mu.Lock()
	defer f.mu.Unlock()
	if d, ok := f.cache[ref]; ok {
		return d
	}
	d := NewBiDict(ref, f.provider)
	f.cache[ref] = d
	return d
}

// Refs lists the references with a constructed dictionary.
func (f *Factory) Refs() []Ref {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]Ref, 0, len(f.cache))
	for r := range f.cache {
		out = append(out, r)
	}
	return out
}
