// Package ioontology provides backing term providers: an HTTP client for a
// JAX-style ontology lookup API and a SQLite read-through cache that
// persists fetched terms across runs.
package ioontology

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/phenotools/pxtract/pkg/config"
	"github.com/phenotools/pxtract/pkg/ontology"
)

// HTTPProvider resolves terms against an HTTP lookup API. Canonical ids use
// the term endpoint, labels and synonyms the search endpoint with an exact
// match filter.
type HTTPProvider struct {
	baseURL string
	token   string
	client  *http.Client
}

// NewHTTPProvider builds a provider from the ontology section of the
// configuration.
func NewHTTPProvider(cfg config.OntologyConfig) *HTTPProvider {
	timeout := time.Duration(cfg.TimeoutSec) * time.Second
	if cfg.TimeoutSec <= 0 {
		timeout = 30 * time.Second
	}
	return &HTTPProvider{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		token:   cfg.APIToken,
		client:  &http.Client{Timeout: timeout},
	}
}

// wire format of the lookup API
type apiTerm struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Synonyms []string `json:"synonyms"`
}

type apiSearch struct {
	Terms []apiTerm `json:"terms"`
}

func (p *HTTPProvider) Term(
	ctx context.Context, ref ontology.Ref, key string,
) (ontology.Term, error) {
	if ref.IsCanonicalID(key) {
		return p.byID(ctx, ref, ref.CanonicalizeID(key))
	}
	return p.byLabel(ctx, ref, key)
}

func (p *HTTPProvider) byID(
	ctx context.Context, ref ontology.Ref, id string,
) (ontology.Term, error) {
	endpoint := fmt.Sprintf(
		"%s/%s/terms/%s",
		p.baseURL, strings.ToLower(ref.Prefix), url.PathEscape(id),
	)
	var t apiTerm
	if err := p.get(ctx, ref, endpoint, id, &t); err != nil {
		return ontology.Term{}, err
	}
	return toTerm(t), nil
}

func (p *HTTPProvider) byLabel(
	ctx context.Context, ref ontology.Ref, label string,
) (ontology.Term, error) {
	endpoint := fmt.Sprintf(
		"%s/%s/search?q=%s",
		p.baseURL, strings.ToLower(ref.Prefix), url.QueryEscape(label),
	)
	var res apiSearch
	if err := p.get(ctx, ref, endpoint, label, &res); err != nil {
		return ontology.Term{}, err
	}

	// only an exact label or synonym match counts as resolved
	for _, t := range res.Terms {
		if strings.EqualFold(t.Name, label) {
			return toTerm(t), nil
		}
		for _, syn := range t.Synonyms {
			if strings.EqualFold(syn, label) {
				return toTerm(t), nil
			}
		}
	}
	return ontology.Term{}, &ontology.LookupError{
		Ref: ref, Key: label, Err: ontology.ErrNotFound,
	}
}

func (p *HTTPProvider) get(
	ctx context.Context, ref ontology.Ref, endpoint, key string, out any,
) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return &ontology.LookupError{Ref: ref, Key: key, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if p.token != "" {
		req.Header.Set("Authorization", "Bearer "+p.token)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return &ontology.LookupError{Ref: ref, Key: key, Err: err}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return &ontology.LookupError{Ref: ref, Key: key, Err: ontology.ErrNotFound}
	case resp.StatusCode != http.StatusOK:
		return &ontology.LookupError{
			Ref: ref, Key: key,
			Err: fmt.Errorf("unexpected status %s", resp.Status),
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &ontology.LookupError{
			Ref: ref, Key: key,
			Err: fmt.Errorf("malformed response: %w", err),
		}
	}
	return nil
}

func toTerm(t apiTerm) ontology.Term {
	return ontology.Term{ID: t.ID, Label: t.Name, Synonyms: t.Synonyms}
}
