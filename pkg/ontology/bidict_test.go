package ontology_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/phenotools/pxtract/pkg/ontology"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seizureProvider() *ontology.StaticProvider {
	return ontology.NewStaticProvider(ontology.HP(), []ontology.Term{
		{
			ID:       "HP:0001250",
			Label:    "Seizure",
			Synonyms: []string{"Epileptic seizure", "Fits"},
		},
		{ID: "HP:0004322", Label: "Short stature"},
	})
}

func TestBiDictRoundTrip(t *testing.T) {
	ctx := context.Background()
	dict := ontology.NewBiDict(ontology.HP(), seizureProvider())

	id, err := dict.ID(ctx, "Seizure")
	require.NoError(t, err)
	assert.Equal(t, "HP:0001250", id)

	label, err := dict.Label(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Seizure", label)
}

func TestBiDictSynonymResolvesToPrimary(t *testing.T) {
	ctx := context.Background()
	dict := ontology.NewBiDict(ontology.HP(), seizureProvider())

	id, err := dict.ID(ctx, "epileptic seizure")
	require.NoError(t, err)
	assert.Equal(t, "HP:0001250", id)

	// the id still maps back to the primary label, not the synonym
	label, err := dict.Label(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Seizure", label)
}

func TestBiDictMemoizesHits(t *testing.T) {
	ctx := context.Background()
	provider := seizureProvider()
	dict := ontology.NewBiDict(ontology.HP(), provider)

	for i := 0; i < 5; i++ {
		_, err := dict.Label(ctx, "HP:0001250")
		require.NoError(t, err)
	}
	assert.Equal(t, 1, provider.Calls())

	// the fetched term memoized both directions
	_, err := dict.ID(ctx, "Seizure")
	require.NoError(t, err)
	assert.Equal(t, 1, provider.Calls())
}

func TestBiDictInvalidIDFailsBeforeProvider(t *testing.T) {
	ctx := context.Background()
	provider := seizureProvider()
	dict := ontology.NewBiDict(ontology.HP(), provider)

	_, err := dict.Label(ctx, "not-an-id")
	require.Error(t, err)
	var invalid *ontology.InvalidIDError
	assert.True(t, errors.As(err, &invalid))
	assert.Equal(t, 0, provider.Calls())
}

func TestBiDictMissNotCached(t *testing.T) {
	ctx := context.Background()
	provider := seizureProvider()
	dict := ontology.NewBiDict(ontology.HP(), provider)

	for i := 0; i < 2; i++ {
		_, err := dict.ID(ctx, "No such phenotype")
		require.Error(t, err)
		assert.ErrorIs(t, err, ontology.ErrNotFound)
	}
	// transient failures never poison the cache, both misses hit the provider
	assert.Equal(t, 2, provider.Calls())
}

func TestBiDictResolve(t *testing.T) {
	ctx := context.Background()
	provider := seizureProvider()
	dict := ontology.NewBiDict(ontology.HP(), provider)

	// a lexically valid id passes through without any provider call
	id, err := dict.Resolve(ctx, "hp:0099999")
	require.NoError(t, err)
	assert.Equal(t, "HP:0099999", id)
	assert.Equal(t, 0, provider.Calls())

	id, err = dict.Resolve(ctx, "Short stature")
	require.NoError(t, err)
	assert.Equal(t, "HP:0004322", id)
}

func TestBiDictConcurrentLookups(t *testing.T) {
	ctx := context.Background()
	provider := seizureProvider()
	dict := ontology.NewBiDict(ontology.HP(), provider)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			id, err := dict.ID(ctx, "Seizure")
			assert.NoError(t, err)
			assert.Equal(t, "HP:0001250", id)
		}()
	}
	wg.Wait()
	// concurrent misses for the same key collapse; the provider is called at
	// most a handful of times, never once per goroutine
	assert.LessOrEqual(t, provider.Calls(), 3)
}

func TestBiDictPreload(t *testing.T) {
	ctx := context.Background()
	provider := ontology.NewStaticProvider(ontology.HP(), nil)
	dict := ontology.NewBiDict(ontology.HP(), provider)

	dict.Preload([]ontology.Term{{ID: "HP:0001250", Label: "Seizure"}})
	assert.Equal(t, 1, dict.Size())

	label, err := dict.Label(ctx, "HP:0001250")
	require.NoError(t, err)
	assert.Equal(t, "Seizure", label)
	assert.Equal(t, 0, provider.Calls())
}

func TestFactorySharesDictionaries(t *testing.T) {
	factory := ontology.NewFactory(seizureProvider())

	a := factory.BiDict(ontology.HP())
	b := factory.BiDict(ontology.NewRef("hp", ""))
	assert.Same(t, a, b)

	c := factory.BiDict(ontology.NewRef("HP", "2024-08-13"))
	assert.NotSame(t, a, c)
	assert.Len(t, factory.Refs(), 2)
}
