package ioontology_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/phenotools/pxtract/internal/ioontology"
	"github.com/phenotools/pxtract/pkg/config"
	"github.com/phenotools/pxtract/pkg/ontology"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func hpRef() ontology.Ref {
	ref, _ := ontology.ParseRef("HP")
	return ref
}

// lookupAPI mimics the term and search endpoints of the ontology service.
func lookupAPI(t *testing.T) *httptest.Server {
	t.Helper()
	seizure := map[string]any{
		"id":       "HP:0001250",
		"name":     "Seizure",
		"synonyms": []string{"Seizures", "Epileptic seizure"},
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/hp/terms/HP:0001250", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		json.NewEncoder(w).Encode(seizure)
	})
	mux.HandleFunc("/api/hp/terms/", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})
	mux.HandleFunc("/api/hp/search", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query().Get("q")
		terms := []any{}
		// the search endpoint returns fuzzy hits; only exact ones count
		if q == "seizure" || q == "Epileptic seizure" || q == "seiz" {
			terms = append(terms, seizure)
		}
		json.NewEncoder(w).Encode(map[string]any{"terms": terms})
	})
	return httptest.NewServer(mux)
}

func TestHTTPProviderByID(t *testing.T) {
	srv := lookupAPI(t)
	defer srv.Close()

	p := ioontology.NewHTTPProvider(config.OntologyConfig{
		BaseURL: srv.URL + "/api", TimeoutSec: 5,
	})

	term, err := p.Term(context.Background(), hpRef(), "hp:0001250")
	require.NoError(t, err)
	assert.Equal(t, "HP:0001250", term.ID)
	assert.Equal(t, "Seizure", term.Label)
	assert.Contains(t, term.Synonyms, "Seizures")
}

func TestHTTPProviderByLabel(t *testing.T) {
	srv := lookupAPI(t)
	defer srv.Close()

	p := ioontology.NewHTTPProvider(config.OntologyConfig{
		BaseURL: srv.URL + "/api", TimeoutSec: 5,
	})

	// case-insensitive exact match on the primary label
	term, err := p.Term(context.Background(), hpRef(), "seizure")
	require.NoError(t, err)
	assert.Equal(t, "HP:0001250", term.ID)

	// synonym match resolves to the primary term
	term, err = p.Term(context.Background(), hpRef(), "Epileptic seizure")
	require.NoError(t, err)
	assert.Equal(t, "HP:0001250", term.ID)
}

func TestHTTPProviderFuzzyHitIsNotFound(t *testing.T) {
	srv := lookupAPI(t)
	defer srv.Close()

	p := ioontology.NewHTTPProvider(config.OntologyConfig{
		BaseURL: srv.URL + "/api", TimeoutSec: 5,
	})

	// the server returns Seizure for "seiz", but it is not an exact match
	_, err := p.Term(context.Background(), hpRef(), "seiz")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ontology.ErrNotFound))
}

func TestHTTPProviderNotFound(t *testing.T) {
	srv := lookupAPI(t)
	defer srv.Close()

	p := ioontology.NewHTTPProvider(config.OntologyConfig{
		BaseURL: srv.URL + "/api", TimeoutSec: 5,
	})

	_, err := p.Term(context.Background(), hpRef(), "HP:9999999")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ontology.ErrNotFound))

	var lookupErr *ontology.LookupError
	require.True(t, errors.As(err, &lookupErr))
	assert.Equal(t, "HP:9999999", lookupErr.Key)
}

func TestHTTPProviderBearerToken(t *testing.T) {
	var got string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("Authorization")
		json.NewEncoder(w).Encode(map[string]any{
			"id": "HP:0001250", "name": "Seizure",
		})
	}))
	defer srv.Close()

	p := ioontology.NewHTTPProvider(config.OntologyConfig{
		BaseURL: srv.URL, APIToken: "s3cret", TimeoutSec: 5,
	})
	_, err := p.Term(context.Background(), hpRef(), "HP:0001250")
	require.NoError(t, err)
	assert.Equal(t, "Bearer s3cret", got)
}

func TestHTTPProviderServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	p := ioontology.NewHTTPProvider(config.OntologyConfig{
		BaseURL: srv.URL, TimeoutSec: 5,
	})
	_, err := p.Term(context.Background(), hpRef(), "HP:0001250")
	require.Error(t, err)
	assert.False(t, errors.Is(err, ontology.ErrNotFound))
	assert.Contains(t, err.Error(), "500")
}
