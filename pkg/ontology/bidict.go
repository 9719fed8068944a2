package ontology

import (
	"context"
	"strings"
	"sync"

	"golang.org/x/sync/singleflight"
)

// BiDict is a bidirectional id-label dictionary for one ontology reference.
// Successful lookups are memoized for the dictionary's lifetime; concurrent
// misses for the same key collapse into a single provider call. Provider
// failures are returned to the caller and never cached, so a transient
// error does not poison the key.
//
// BiDict is safe for concurrent use and is shared across strategies and the
// collector via the Factory.
type BiDict struct {
	ref      Ref
	provider TermProvider

	mu      sync.RWMutex
	byID    map[string]string // canonical id -> primary label
	byLabel map[string]string // normalized label/synonym -> canonical id

	group singleflight.Group
}

// NewBiDict builds an empty dictionary over the given provider.
func NewBiDict(ref Ref, provider TermProvider) *BiDict {
	return &BiDict{
		ref:      ref,
		provider: provider,
		byID:     make(map[string]string),
		byLabel:  make(map[string]string),
	}
}

// Ref returns the ontology reference the dictionary serves.
func (d *BiDict) Ref() Ref { return d.ref }

// normalizeLabel is the key form for label and synonym lookups.
func normalizeLabel(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Label resolves a canonical id to its primary label. The id's lexical form
// is validated synchronously; an invalid id fails before any provider call.
func (d *BiDict) Label(ctx context.Context, id string) (string, error) {
	if !d.ref.IsCanonicalID(id) {
		return "", &InvalidIDError{Ref: d.ref, ID: id}
	}
	key := d.ref.CanonicalizeID(id)

	d.mu.RLock()
	label, ok := d.byID[key]
	d.mu.RUnlock()
	if ok {
		return label, nil
	}

	term, err := d.fetch(ctx, key)
	if err != nil {
		return "", err
	}
	return term.Label, nil
}

// ID resolves a label or synonym to the canonical id.
func (d *BiDict) ID(ctx context.Context, labelOrSynonym string) (string, error) {
	key := normalizeLabel(labelOrSynonym)
	if key == "" {
		return "", &LookupError{Ref: d.ref, Key: labelOrSynonym, Err: ErrNotFound}
	}

	d.mu.RLock()
	id, ok := d.byLabel[key]
	d.mu.RUnlock()
	if ok {
		return id, nil
	}

	term, err := d.fetch(ctx, labelOrSynonym)
	if err != nil {
		return "", err
	}
	return term.ID, nil
}

// Resolve normalizes a free value: a lexically valid canonical id passes
// through unchanged (case-canonicalized), anything else is treated as a
// label or synonym and resolved to its id.
func (d *BiDict) Resolve(ctx context.Context, value string) (string, error) {
	if d.ref.IsCanonicalID(value) {
		return d.ref.CanonicalizeID(value), nil
	}
	return d.ID(ctx, value)
}

// fetch performs the deduplicated provider call and memoizes the result in
// both directions.
func (d *BiDict) fetch(ctx context.Context, key string) (Term, error) {
	flightKey := normalizeLabel(key)
	v, err, _ := d.group.Do(flightKey, func() (any, error) {
		term, err := d.provider.Term(ctx, d.ref, key)
		if err != nil {
			return Term{}, err
		}
		d.store(term)
		return term, nil
	})
	if err != nil {
		if _, ok := err.(*LookupError); ok {
			return Term{}, err
		}
		return Term{}, &LookupError{Ref: d.ref, Key: key, Err: err}
	}
	return v.(Term), nil
}

func (d *BiDict) store(term Term) {
	d.mu.Lock()
	defer d.mu.Unlock()
	id := d.ref.CanonicalizeID(term.ID)
	d.byID[id] = term.Label
	d.byLabel[normalizeLabel(term.Label)] = id
	for _, syn := range term.Synonyms {
		d.byLabel[normalizeLabel(syn)] = id
	}
}

// Preload memoizes terms without touching the provider. The factory uses it
// to warm dictionaries from a persistent cache or bundled vocabulary.
func (d *BiDict) Preload(terms []Term) {
	for _, t := range terms {
		d.store(t)
	}
}

// Size returns the number of memoized ids.
func (d *BiDict) Size() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.byID)
}
