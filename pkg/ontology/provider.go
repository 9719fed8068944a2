package ontology

import (
	"context"
	"strings"
	"sync"
)

// Term is one ontology entry as returned by a backing provider.
type Term struct {
	ID       string
	Label    string
	Synonyms []string
}

// TermProvider is the backing store contract. key is either a canonical id
// or a label/synonym; implementations resolve both directions. A provider
// may block on the network; it must honor ctx cancellation and surface
// timeouts as errors rather than hang.
type TermProvider interface {
	Term(ctx context.Context, ref Ref, key string) (Term, error)
}

// StaticProvider serves terms from an in-memory set. It backs small bundled
// vocabularies and tests.
type StaticProvider struct {
	mu    sync.Mutex
	terms map[Ref][]Term
	calls int
}

// NewStaticProvider indexes the given terms under ref.
func NewStaticProvider(ref Ref, terms []Term) *StaticProvider {
	return &StaticProvider{terms: map[Ref][]Term{ref: terms}}
}

// Add registers terms for an additional reference.
func (p *StaticProvider) Add(ref Ref, terms []Term) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.terms == nil {
		p.terms = make(map[Ref][]Term)
	}
	p.terms[ref] = append(p.terms[ref], terms...)
}

// Calls reports how many lookups reached the provider; tests use it to
// verify memoization and fail-fast validation.
func (p *StaticProvider) Calls() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls
}

func (p *StaticProvider) Term(_ context.Context, ref Ref, key string) (Term, error) {
	p.mu.Lock()
	p.calls++
	terms := p.terms[ref]
	p.mu.Unlock()

	for _, t := range terms {
		if strings.EqualFold(t.ID, key) || strings.EqualFold(t.Label, key) {
			return t, nil
		}
		for _, syn := range t.Synonyms {
			if strings.EqualFold(syn, key) {
				return t, nil
			}
		}
	}
	return Term{}, &LookupError{Ref: ref, Key: key, Err: ErrNotFound}
}
