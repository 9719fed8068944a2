// Package strategy implements the ordered transform pipeline applied to a
// tagged table before collection: whitespace correction, alias mapping,
// multi-valued column expansion, ontology normalization and controlled
// vocabulary mapping. Strategies are pure rewrites; row-scoped problems go
// to the report while structural problems abort the table.
package strategy

import (
	"context"
	"fmt"

	"github.com/phenotools/pxtract/pkg/mapping"
	"github.com/phenotools/pxtract/pkg/ontology"
	"github.com/phenotools/pxtract/pkg/report"
	"github.com/phenotools/pxtract/pkg/table"
)

// Strategy is one named transform step. Apply rewrites the tagged table in
// place; a returned error is structural and aborts processing of the table.
type Strategy interface {
	Name() string
	Apply(ctx context.Context, tg *table.Tagged, rpt *report.Report) error
}

// Pipeline applies an ordered list of strategies; each sees the output of
// the previous one.
type Pipeline struct {
	strategies []Strategy
}

// NewPipeline builds a pipeline over the given order.
func NewPipeline(strategies ...Strategy) *Pipeline {
	return &Pipeline{strategies: strategies}
}

// Names lists the strategies in execution order.
func (p *Pipeline) Names() []string {
	out := make([]string, len(p.strategies))
	for i, s := range p.strategies {
		out[i] = s.Name()
	}
	return out
}

// Apply runs the strategies sequentially over one tagged table.
func (p *Pipeline) Apply(ctx context.Context, tg *table.Tagged, rpt *report.Report) error {
	for _, s := range p.strategies {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := s.Apply(ctx, tg, rpt); err != nil {
			return fmt.Errorf("strategy %s on table %q: %w", s.Name(), tg.Name(), err)
		}
	}
	return nil
}

// strategy names accepted in configuration
const (
	NameStringCorrection   = "string_correction"
	NameAliasMap           = "alias_map"
	NameMultiHpoExpansion  = "multi_hpo_expansion"
	NameOntologyNormaliser = "ontology_normaliser"
	NameSexMapping         = "sex_mapping"
)

// Build constructs the pipeline from an ordered list of configured strategy
// names. An unknown name is a configuration error, as is an order that runs
// string correction after a strategy relying on exact-match keys.
func Build(names []string, factory *ontology.Factory) (*Pipeline, error) {
	var (
		strategies     []Strategy
		sawStringKeyed bool
	)
	for _, name := range names {
		switch name {
		case NameStringCorrection:
			if sawStringKeyed {
				return nil, &mapping.ConfigurationError{
					Reason: "string_correction must run before alias_map and ontology_normaliser",
				}
			}
			strategies = append(strategies, StringCorrection{})
		case NameAliasMap:
			sawStringKeyed = true
			strategies = append(strategies, AliasMap{})
		case NameMultiHpoExpansion:
			strategies = append(strategies, MultiHpoExpansion{Delimiter: ";"})
		case NameOntologyNormaliser:
			sawStringKeyed = true
			strategies = append(strategies, NewOntologyNormaliser(factory))
		case NameSexMapping:
			strategies = append(strategies, SexMapping{})
		default:
			return nil, &mapping.ConfigurationError{
				Reason: fmt.Sprintf("unknown strategy %q", name),
			}
		}
	}
	return NewPipeline(strategies...), nil
}

// DefaultOrder is the strategy order used when the configuration does not
// declare one.
func DefaultOrder() []string {
	return []string{
		NameStringCorrection,
		NameAliasMap,
		NameMultiHpoExpansion,
		NameOntologyNormaliser,
		NameSexMapping,
	}
}
